package project

import (
	"strings"

	"github.com/leadspark/upwork-radar/internal/offering"
)

const (
	baseScore       = 60
	titleWeight     = 8
	descWeight      = 3
	qualityBonus    = 5
	maxScore        = 99
	highBudgetMark  = 5000
	jumboBudgetMark = 10000
)

// Score computes the ingestion-time match score of a listing against one
// offering. The score is informational, used for sorting and the average
// metric; the fit analyzer produces the richer recommendation.
func Score(title, description string, off offering.Offering, budgetMax float64) int {
	lowerTitle := strings.ToLower(title)
	lowerDesc := strings.ToLower(description)

	score := baseScore
	for _, keyword := range off.Keywords {
		k := strings.ToLower(strings.TrimSpace(keyword))
		if k == "" {
			continue
		}
		score += titleWeight*strings.Count(lowerTitle, k) + descWeight*strings.Count(lowerDesc, k)
	}

	if strings.Contains(lowerDesc, "verified payment") {
		score += qualityBonus
	}
	if budgetMax > highBudgetMark {
		score += qualityBonus
	}
	if budgetMax > jumboBudgetMark {
		score += qualityBonus
	}

	// 100 is reserved as unreachable.
	if score > maxScore {
		score = maxScore
	}
	if score < 0 {
		score = 0
	}
	return score
}
