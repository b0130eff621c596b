package fit

import (
	"strings"
	"testing"

	"github.com/leadspark/upwork-radar/internal/offering"
	"github.com/leadspark/upwork-radar/internal/project"
)

func offeringsWith(skills ...string) []offering.Offering {
	return []offering.Offering{{Name: "Web", Skills: skills}}
}

func TestMatchSkillsPartition(t *testing.T) {
	t.Parallel()

	fraction, matched, missing := matchSkills([]string{"Python", "Docker"}, offeringsWith("python", "aws"))

	if fraction != 0.5 {
		t.Fatalf("expected 0.5 skill fraction, got %v", fraction)
	}
	if len(matched) != 1 || matched[0] != "Python" {
		t.Fatalf("unexpected matched skills: %v", matched)
	}
	if len(missing) != 1 || missing[0] != "Docker" {
		t.Fatalf("unexpected missing skills: %v", missing)
	}
	if len(matched)+len(missing) != 2 {
		t.Fatalf("partition must be exhaustive, got %d+%d", len(matched), len(missing))
	}
}

func TestMatchSkillsNeutralWithoutSkills(t *testing.T) {
	t.Parallel()

	fraction, matched, missing := matchSkills(nil, offeringsWith("python"))
	if fraction != 0.5 || matched != nil || missing != nil {
		t.Fatalf("expected neutral 0.5 with no partitions, got %v %v %v", fraction, matched, missing)
	}
}

// The bidirectional substring test tolerates phrasing variance but also
// matches partial words. That behavior is intentional and pinned here.
func TestMatchSkillsSubstringFalsePositive(t *testing.T) {
	t.Parallel()

	fraction, matched, _ := matchSkills([]string{"Email Marketing"}, offeringsWith("AI"))
	if fraction != 1 || len(matched) != 1 {
		t.Fatalf("expected the known partial-word match, got %v %v", fraction, matched)
	}
}

func TestBudgetTier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		p           *project.Project
		expectTier  string
		expectScore float64
	}{
		{"fixed high", &project.Project{BudgetMax: 6000}, TierHigh, 1.0},
		{"fixed medium", &project.Project{BudgetMax: 1500}, TierMedium, 0.7},
		{"fixed low", &project.Project{BudgetMax: 500}, TierLow, 0.3},
		{"hourly high", &project.Project{BudgetMax: 80, IsHourly: true}, TierHigh, 1.0},
		{"hourly medium", &project.Project{BudgetMax: 50, IsHourly: true}, TierMedium, 0.7},
		{"hourly low", &project.Project{BudgetMax: 20, IsHourly: true}, TierLow, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tier, score := budgetTier(tt.p)
			if tier != tt.expectTier || score != tt.expectScore {
				t.Fatalf("expected %s/%v, got %s/%v", tt.expectTier, tt.expectScore, tier, score)
			}
		})
	}
}

func TestComplexity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		descLen int
		skills  int
		expect  string
	}{
		{"long description is high", 1600, 2, TierHigh},
		{"many skills is high", 100, 7, TierHigh},
		{"short and few skills is low", 200, 2, TierLow},
		{"everything else is medium", 800, 4, TierMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := &project.Project{
				Description: strings.Repeat("x", tt.descLen),
				Skills:      make([]string, tt.skills),
			}
			if got := complexity(p); got != tt.expect {
				t.Fatalf("expected %s, got %s", tt.expect, got)
			}
		})
	}
}

func TestTimeline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		hours       int
		expectLabel string
		expectScore float64
	}{
		{10, "<1 week", 1.0},
		{40, "1-2 weeks", 0.9},
		{80, "2-4 weeks", 0.7},
		{200, "1+ month", 0.5},
	}

	for _, tt := range tests {
		label, score := timeline(tt.hours)
		if label != tt.expectLabel || score != tt.expectScore {
			t.Fatalf("hours %d: expected %s/%v, got %s/%v", tt.hours, tt.expectLabel, tt.expectScore, label, score)
		}
	}
}

func TestRecommendRuleOrder(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		score    int
		fraction float64
		expect   string
	}{
		{"strong bid", 80, 0.8, RecommendStrongBid},
		{"bid", 65, 0.6, RecommendBid},
		{"skip on low composite", 30, 0.9, RecommendSkip},
		{"skip floor overrides high composite", 80, 0.2, RecommendSkip},
		{"consider default", 50, 0.4, RecommendConsider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := recommend(tt.score, tt.fraction); got != tt.expect {
				t.Fatalf("expected %s, got %s", tt.expect, got)
			}
		})
	}
}

func TestAnalyzeComposite(t *testing.T) {
	t.Parallel()

	p := &project.Project{
		Kind:           project.KindReal,
		Title:          "React dashboard",
		Description:    strings.Repeat("d", 400),
		Skills:         []string{"React", "TypeScript"},
		BudgetMax:      6000,
		EstimatedHours: 15,
		MatchScore:     80,
		Client: project.Client{
			PaymentVerified: true,
			TotalSpent:      20000,
			FeedbackRate:    4.8,
		},
	}

	got := Analyze(p, offeringsWith("react", "typescript"))

	// 1.0*35 + 1.0*25 + 1.0*20 + 1.0*10 + 0.8*10
	if got.RecommendationScore != 98 {
		t.Fatalf("expected composite 98, got %d", got.RecommendationScore)
	}
	if got.SkillMatch != 100 {
		t.Fatalf("expected 100%% skill match, got %v", got.SkillMatch)
	}
	if got.BudgetTier != TierHigh {
		t.Fatalf("expected high budget tier, got %s", got.BudgetTier)
	}
	if got.Complexity != TierLow {
		t.Fatalf("expected low complexity, got %s", got.Complexity)
	}
	if got.Recommendation != RecommendStrongBid {
		t.Fatalf("expected %s, got %s", RecommendStrongBid, got.Recommendation)
	}
	if got.ClientScore != 100 {
		t.Fatalf("expected client score 100, got %v", got.ClientScore)
	}

	again := Analyze(p, offeringsWith("react", "typescript"))
	if again.RecommendationScore != got.RecommendationScore {
		t.Fatalf("analysis must be deterministic: %d vs %d", got.RecommendationScore, again.RecommendationScore)
	}
}
