package proposal

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Parse interprets the collaborator response. The collaborator tends to
// wrap JSON in a fenced code block; the fencing is stripped before
// decoding. When the payload is not valid JSON the entire response is
// kept as the free-text proposal body, never discarded.
func Parse(raw string) (body string, keyPoints []string, timeline string, analysis Analysis, structured bool) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return strings.TrimSpace(raw), nil, "", Analysis{}, false
	}

	body = coerceString(data["proposal"])
	if body == "" {
		return strings.TrimSpace(raw), nil, "", Analysis{}, false
	}

	keyPoints = coerceStrings(data["keyPoints"])
	timeline = coerceString(data["estimatedTimeline"])
	analysis = parseAnalysis(data["analysis"])
	return body, keyPoints, timeline, analysis, true
}

func parseAnalysis(v any) Analysis {
	data, ok := v.(map[string]any)
	if !ok {
		return Analysis{}
	}

	return Analysis{
		Recommendation: coerceString(data["recommendation"]),
		Confidence:     coerceFloat(data["confidence"]),
		EstimatedHours: coerceFloat(data["estimatedHours"]),
		EstimatedCost:  coerceFloat(data["estimatedCost"]),
		Timeline:       coerceString(data["timeline"]),
		Deliverables:   coerceStrings(data["deliverables"]),
		Risks:          coerceStrings(data["risks"]),
		Questions:      coerceStrings(data["questions"]),
		MatchedSkills:  coerceStrings(data["matchedSkills"]),
		MissingSkills:  coerceStrings(data["missingSkills"]),
	}
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	case nil:
		return ""
	default:
		return ""
	}
}

func coerceStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s := coerceString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || math.IsNaN(f) {
			return 0
		}
		return f
	default:
		return 0
	}
}
