package proposal

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/leadspark/upwork-radar/internal/offering"
	"github.com/leadspark/upwork-radar/internal/project"
)

type stubGenerator struct {
	response string
	err      error
	system   string
	message  string
}

func (s *stubGenerator) GenerateContent(_ context.Context, system, message string) (string, error) {
	s.system = system
	s.message = message
	return s.response, s.err
}

func (s *stubGenerator) Model() string { return "stub-model" }

func testProject() *project.Project {
	return &project.Project{
		ID:             "p1",
		Kind:           project.KindReal,
		Title:          "React dashboard",
		Description:    "Build a dashboard",
		Category:       "Web",
		EstimatedHours: 40,
	}
}

func testOffering() offering.Offering {
	return offering.Offering{
		Name:    "Web",
		RateMin: 50,
		RateMax: 100,
		Skills:  []string{"react"},
	}
}

func TestGenerateStructuredResponse(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{
		response: `{"proposal": "I can help.", "keyPoints": ["a"], "estimatedTimeline": "1 week"}`,
	}
	writer := NewWriter(stub, zap.NewNop(), 0)

	got := writer.Generate(context.Background(), testProject(), testOffering(), nil, "", 80)

	if got.Failed {
		t.Fatalf("expected success, got failure: %q", got.Proposal)
	}
	if got.Proposal != "I can help." {
		t.Fatalf("unexpected body: %q", got.Proposal)
	}
	if got.Rate != 80 || got.EstimatedHours != 40 || got.EstimatedCost != 3200 {
		t.Fatalf("unexpected economics: rate=%v hours=%d cost=%v", got.Rate, got.EstimatedHours, got.EstimatedCost)
	}
	if got.EstimatedTimeline != "1 week" {
		t.Fatalf("unexpected timeline: %q", got.EstimatedTimeline)
	}
	if got.GeneratedAt.IsZero() {
		t.Fatal("expected a generation timestamp")
	}
}

func TestGenerateDefaultsRateToReference(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{response: `{"proposal": "ok"}`}
	writer := NewWriter(stub, zap.NewNop(), 0)

	got := writer.Generate(context.Background(), testProject(), testOffering(), nil, "", 0)

	// Midpoint of the 50-100 range.
	if got.Rate != 75 {
		t.Fatalf("expected the reference rate 75, got %v", got.Rate)
	}
}

func TestGenerateSubstitutesTemplatePlaceholders(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{response: `{"proposal": "ok"}`}
	writer := NewWriter(stub, zap.NewNop(), 0)

	template := "Rate [RATE], hours [HOURS], total [TOTAL]."
	writer.Generate(context.Background(), testProject(), testOffering(), nil, template, 80)

	if stub.system != "Rate 80, hours 40, total 3200." {
		t.Fatalf("unexpected substituted template: %q", stub.system)
	}
	if !strings.Contains(stub.message, "React dashboard") {
		t.Fatalf("expected the project context in the message, got %q", stub.message)
	}
}

func TestGenerateFailureBecomesProposal(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{err: errors.New("quota exceeded")}
	writer := NewWriter(stub, zap.NewNop(), 0)

	got := writer.Generate(context.Background(), testProject(), testOffering(), nil, "", 80)

	if !got.Failed {
		t.Fatal("expected a failed proposal")
	}
	if !strings.Contains(got.Proposal, "quota exceeded") {
		t.Fatalf("expected the error in the body, got %q", got.Proposal)
	}
	if got.ProjectID != "p1" {
		t.Fatalf("expected the proposal keyed to the project, got %q", got.ProjectID)
	}
}

func TestGenerateUnstructuredKeepsRawText(t *testing.T) {
	t.Parallel()

	stub := &stubGenerator{response: "Dear client, here is my plain text pitch."}
	writer := NewWriter(stub, zap.NewNop(), 0)

	got := writer.Generate(context.Background(), testProject(), testOffering(), nil, "", 80)

	if got.Failed {
		t.Fatal("expected a usable proposal")
	}
	if got.Proposal != "Dear client, here is my plain text pitch." {
		t.Fatalf("expected the raw text kept, got %q", got.Proposal)
	}
	if got.EstimatedTimeline != "1 weeks" {
		t.Fatalf("expected the fallback timeline, got %q", got.EstimatedTimeline)
	}
}
