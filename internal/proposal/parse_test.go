package proposal

import "testing"

func TestParseFencedJSON(t *testing.T) {
	t.Parallel()

	raw := "```json\n" + `{
		"proposal": "Hi, I can build this.",
		"keyPoints": ["fast delivery", 42, "clear scope"],
		"estimatedTimeline": "2 weeks",
		"analysis": {
			"recommendation": "BID",
			"confidence": "0.8",
			"estimatedHours": 30,
			"deliverables": ["MVP"]
		}
	}` + "\n```"

	body, keyPoints, timeline, analysis, structured := Parse(raw)

	if !structured {
		t.Fatal("expected structured parse to succeed")
	}
	if body != "Hi, I can build this." {
		t.Fatalf("unexpected body: %q", body)
	}
	if len(keyPoints) != 2 {
		t.Fatalf("expected non-string key points dropped, got %v", keyPoints)
	}
	if timeline != "2 weeks" {
		t.Fatalf("unexpected timeline: %q", timeline)
	}
	if analysis.Recommendation != "BID" {
		t.Fatalf("unexpected recommendation: %q", analysis.Recommendation)
	}
	if analysis.Confidence != 0.8 {
		t.Fatalf("expected string confidence coerced to 0.8, got %v", analysis.Confidence)
	}
	if analysis.EstimatedHours != 30 {
		t.Fatalf("unexpected estimated hours: %v", analysis.EstimatedHours)
	}
}

func TestParsePlainTextFallback(t *testing.T) {
	t.Parallel()

	raw := "  I would love to work on this project.  "

	body, keyPoints, timeline, _, structured := Parse(raw)

	if structured {
		t.Fatal("expected unstructured result")
	}
	if body != "I would love to work on this project." {
		t.Fatalf("expected the trimmed raw text kept as body, got %q", body)
	}
	if keyPoints != nil || timeline != "" {
		t.Fatalf("expected empty structured fields, got %v %q", keyPoints, timeline)
	}
}

func TestParseJSONWithoutProposalField(t *testing.T) {
	t.Parallel()

	raw := `{"summary": "no proposal key here"}`

	body, _, _, _, structured := Parse(raw)

	if structured {
		t.Fatal("expected fallback when the proposal field is missing")
	}
	if body != raw {
		t.Fatalf("expected the raw payload kept as body, got %q", body)
	}
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"bare json", `{"a":1}`, `{"a":1}`},
		{"json fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"anonymous fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := extractJSON(tt.input); got != tt.expect {
				t.Fatalf("expected %q, got %q", tt.expect, got)
			}
		})
	}
}

func TestCoerceFloat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  any
		expect float64
	}{
		{"float", 1.5, 1.5},
		{"numeric string", "2.25", 2.25},
		{"empty string", "  ", 0},
		{"garbage", "abc", 0},
		{"nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := coerceFloat(tt.input); got != tt.expect {
				t.Fatalf("expected %v, got %v", tt.expect, got)
			}
		})
	}
}
