// Package ranking turns the current project set into the ranked and
// bucketed views the dashboard renders. Instruction placeholders are
// excluded from every computation.
package ranking

import (
	"math"
	"sort"

	"github.com/leadspark/upwork-radar/internal/fit"
	"github.com/leadspark/upwork-radar/internal/offering"
	"github.com/leadspark/upwork-radar/internal/project"
)

const (
	topRecommendedLimit = 10
	quickWinsLimit      = 5
	bestSkillsLimit     = 10
	quickWinSkillFloor  = 50
	// missedRevenueFactor discounts the estimated revenue attributable
	// to a single missing skill.
	missedRevenueFactor = 0.3
)

// Scored pairs a project with its fit assessment.
type Scored struct {
	Project    *project.Project `json:"project"`
	Assessment fit.Assessment   `json:"assessment"`
}

// Stats are the headline dashboard counters.
type Stats struct {
	Total     int     `json:"total"`
	AvgMatch  int     `json:"avgMatch"`
	Potential float64 `json:"potential"`
}

// Views is the full aggregation output for one project snapshot.
type Views struct {
	Stats            Stats            `json:"stats"`
	ByBudgetTier     map[string]int   `json:"byBudgetTier"`
	ByComplexity     map[string]int   `json:"byComplexity"`
	ByTimeline       map[string]int   `json:"byTimeline"`
	Recommendations  map[string]int   `json:"recommendations"`
	TopRecommended   []Scored         `json:"topRecommended"`
	QuickWins        []Scored         `json:"quickWins"`
	HighBudget       []Scored         `json:"highBudget"`
	BestSkillMatches []Scored         `json:"bestSkillMatches"`
	SkillsGap        *SkillsGapReport `json:"skillsGap"`
}

// Build analyzes every real project against the current offerings and
// assembles all ranked views.
func Build(projects []*project.Project, offerings []offering.Offering) *Views {
	views := &Views{
		ByBudgetTier:    make(map[string]int),
		ByComplexity:    make(map[string]int),
		ByTimeline:      make(map[string]int),
		Recommendations: make(map[string]int),
	}

	var scored []Scored
	matchSum := 0
	for _, p := range projects {
		if p.IsInstruction() {
			continue
		}
		assessment := fit.Analyze(p, offerings)
		scored = append(scored, Scored{Project: p, Assessment: assessment})

		matchSum += p.MatchScore
		views.ByBudgetTier[assessment.BudgetTier]++
		views.ByComplexity[assessment.Complexity]++
		views.ByTimeline[assessment.Timeline]++
		views.Recommendations[assessment.Recommendation]++
		views.Stats.Potential += projectValue(p, offerings)
	}

	views.Stats.Total = len(scored)
	if len(scored) > 0 {
		views.Stats.AvgMatch = int(math.Round(float64(matchSum) / float64(len(scored))))
	}

	views.TopRecommended = topRecommended(scored)
	views.QuickWins = quickWins(scored)
	views.HighBudget = highBudget(scored)
	views.BestSkillMatches = bestSkillMatches(scored)
	views.SkillsGap = buildSkillsGap(scored, offerings)

	return views
}

func topRecommended(scored []Scored) []Scored {
	var out []Scored
	for _, s := range scored {
		if s.Assessment.Recommendation != fit.RecommendSkip {
			out = append(out, s)
		}
	}
	sortByRecommendation(out)
	return limit(out, topRecommendedLimit)
}

func quickWins(scored []Scored) []Scored {
	var out []Scored
	for _, s := range scored {
		if s.Assessment.Complexity == fit.TierLow && s.Assessment.SkillMatch >= quickWinSkillFloor {
			out = append(out, s)
		}
	}
	sortByRecommendation(out)
	return limit(out, quickWinsLimit)
}

func highBudget(scored []Scored) []Scored {
	var out []Scored
	for _, s := range scored {
		if s.Assessment.BudgetTier == fit.TierHigh {
			out = append(out, s)
		}
	}
	sortByRecommendation(out)
	return out
}

func bestSkillMatches(scored []Scored) []Scored {
	out := append([]Scored(nil), scored...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Assessment.SkillMatch > out[j].Assessment.SkillMatch
	})
	return limit(out, bestSkillsLimit)
}

func sortByRecommendation(scored []Scored) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Assessment.RecommendationScore > scored[j].Assessment.RecommendationScore
	})
}

func limit(scored []Scored, n int) []Scored {
	if len(scored) > n {
		return scored[:n]
	}
	return scored
}

// projectValue estimates the revenue of one project at the attributed
// offering's reference rate.
func projectValue(p *project.Project, offerings []offering.Offering) float64 {
	rate := offering.Offering{}.ReferenceRate()
	for _, off := range offerings {
		if off.Name == p.Category {
			rate = off.ReferenceRate()
			break
		}
	}
	return float64(p.EstimatedHours) * rate
}
