// Package fit computes the multi-dimensional fit assessment of a project
// against the current offering set. Analyze is a pure function: it must be
// re-run whenever the offerings change.
package fit

import (
	"math"
	"strings"

	"github.com/leadspark/upwork-radar/internal/offering"
	"github.com/leadspark/upwork-radar/internal/project"
)

// Tier labels shared by the budget and complexity dimensions.
const (
	TierLow    = "low"
	TierMedium = "medium"
	TierHigh   = "high"
)

// Recommendation labels, ordered from strongest to weakest advice.
const (
	RecommendStrongBid = "STRONG BID"
	RecommendBid       = "BID"
	RecommendConsider  = "CONSIDER"
	RecommendSkip      = "SKIP"
)

// Assessment is the analyzer output for one project. It is ephemeral:
// recomputed on demand, never persisted.
type Assessment struct {
	SkillMatch          float64  `json:"skillMatch"` // 0-100
	MatchedSkills       []string `json:"matchedSkills,omitempty"`
	MissingSkills       []string `json:"missingSkills,omitempty"`
	BudgetTier          string   `json:"budgetTier"`
	Complexity          string   `json:"complexity"`
	Timeline            string   `json:"timeline"`
	ClientScore         float64  `json:"clientScore"` // 0-100
	RecommendationScore int      `json:"recommendationScore"`
	Recommendation      string   `json:"recommendation"`
}

// Composite weights of the recommendation score.
const (
	skillWeight    = 35
	budgetWeight   = 25
	clientWeight   = 20
	timelineWeight = 10
	matchWeight    = 10
)

// Analyze scores the project against the union of all offering skills.
func Analyze(p *project.Project, offerings []offering.Offering) Assessment {
	skillFraction, matched, missing := matchSkills(p.Skills, offerings)
	tier, budgetScore := budgetTier(p)
	difficulty := complexity(p)
	window, timelineScore := timeline(p.EstimatedHours)
	clientFraction := clientScore(p.Client)

	composite := skillFraction*skillWeight +
		budgetScore*budgetWeight +
		clientFraction*clientWeight +
		timelineScore*timelineWeight +
		float64(p.MatchScore)/100*matchWeight

	score := int(math.Round(composite))

	return Assessment{
		SkillMatch:          math.Round(skillFraction * 100),
		MatchedSkills:       matched,
		MissingSkills:       missing,
		BudgetTier:          tier,
		Complexity:          difficulty,
		Timeline:            window,
		ClientScore:         math.Round(clientFraction * 100),
		RecommendationScore: score,
		Recommendation:      recommend(score, skillFraction),
	}
}

// matchSkills partitions the project skills into matched and missing
// against the union of all offering skills. The test is a bidirectional
// substring check, deliberately loose to tolerate phrasing variance
// ("React" vs "React.js"). Known limitation: short skills produce
// partial-word false positives ("AI" matches "email").
func matchSkills(skills []string, offerings []offering.Offering) (fraction float64, matched, missing []string) {
	if len(skills) == 0 {
		// Neutral when the listing names no skills at all.
		return 0.5, nil, nil
	}

	var registry []string
	for _, off := range offerings {
		for _, s := range off.Skills {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				registry = append(registry, s)
			}
		}
	}

	for _, skill := range skills {
		lower := strings.ToLower(strings.TrimSpace(skill))
		found := false
		for _, known := range registry {
			if strings.Contains(lower, known) || strings.Contains(known, lower) {
				found = true
				break
			}
		}
		if found {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}

	return float64(len(matched)) / float64(len(skills)), matched, missing
}

func budgetTier(p *project.Project) (string, float64) {
	high, medium := 5000.0, 1000.0
	if p.IsHourly {
		high, medium = 75, 40
	}
	switch {
	case p.BudgetMax >= high:
		return TierHigh, 1.0
	case p.BudgetMax >= medium:
		return TierMedium, 0.7
	default:
		return TierLow, 0.3
	}
}

func complexity(p *project.Project) string {
	descLen := len(p.Description)
	skillCount := len(p.Skills)
	switch {
	case descLen > 1500 || skillCount > 6:
		return TierHigh
	case descLen < 500 && skillCount <= 3:
		return TierLow
	default:
		return TierMedium
	}
}

func timeline(estimatedHours int) (string, float64) {
	switch {
	case estimatedHours <= 20:
		return "<1 week", 1.0
	case estimatedHours <= 40:
		return "1-2 weeks", 0.9
	case estimatedHours <= 80:
		return "2-4 weeks", 0.7
	default:
		return "1+ month", 0.5
	}
}

func clientScore(c project.Client) float64 {
	score := 0.5
	if c.PaymentVerified {
		score += 0.2
	}
	if c.TotalSpent > 10000 {
		score += 0.2
	}
	if c.FeedbackRate >= 4.5 {
		score += 0.1
	}
	return score
}

// recommend applies the advice rules in order; the order is the
// tie-break. The SKIP floor is checked after STRONG BID and BID but
// before the CONSIDER default, so a high composite with a weak skill
// match still resolves to SKIP.
func recommend(score int, skillFraction float64) string {
	switch {
	case score >= 75 && skillFraction >= 0.7:
		return RecommendStrongBid
	case score >= 60 && skillFraction >= 0.5:
		return RecommendBid
	case score < 40 || skillFraction < 0.3:
		return RecommendSkip
	default:
		return RecommendConsider
	}
}
