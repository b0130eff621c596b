package proposal

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	_ "embed"

	"github.com/leadspark/upwork-radar/internal/offering"
	"github.com/leadspark/upwork-radar/internal/project"
)

//go:embed prompt.md
var defaultTemplate string

// Request is the assembled collaborator payload: the instruction template
// with placeholders substituted, plus the serialized inputs.
type Request struct {
	System  string
	Message string
}

// BuildRequest assembles the outbound payload. An empty template falls
// back to the embedded default; user templates support the [RATE],
// [HOURS] and [TOTAL] placeholders.
func BuildRequest(p *project.Project, off offering.Offering, offerings []offering.Offering, template string, rate float64) (*Request, error) {
	if strings.TrimSpace(template) == "" {
		template = defaultTemplate
	}

	cost := float64(p.EstimatedHours) * rate
	system := strings.NewReplacer(
		"[RATE]", formatNumber(rate),
		"[HOURS]", fmt.Sprintf("%d", p.EstimatedHours),
		"[TOTAL]", formatNumber(cost),
	).Replace(template)

	payload := map[string]any{
		"project": map[string]any{
			"title":       p.Title,
			"description": p.Description,
			"skills":      p.Skills,
			"budget":      p.Budget,
			"category":    p.Category,
		},
		"offer": map[string]any{
			"category": off.Name,
			"rate":     rate,
			"hours":    p.EstimatedHours,
			"total":    cost,
			"skills":   off.Skills,
		},
		"teamSkills": teamSkills(offerings),
	}

	message, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal proposal inputs: %w", err)
	}

	return &Request{System: system, Message: string(message)}, nil
}

// teamSkills collects the skill sets of every offering so the
// collaborator sees cross-category capabilities, not only the matched
// one.
func teamSkills(offerings []offering.Offering) map[string][]string {
	out := make(map[string][]string, len(offerings))
	for _, off := range offerings {
		if len(off.Skills) > 0 {
			out[off.Name] = append([]string(nil), off.Skills...)
		}
	}
	return out
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}
