package ranking

import (
	"math"
	"sort"
	"strings"

	"github.com/leadspark/upwork-radar/internal/offering"
)

// SkillDemand tallies how often one skill is requested across the project
// set and which projects asked for it.
type SkillDemand struct {
	Skill    string   `json:"skill"`
	Demand   int      `json:"demand"`
	Projects []string `json:"projects"`
}

// SkillsGapReport partitions requested skills into those the team covers
// and those it lacks, with an estimate of the revenue left on the table.
type SkillsGapReport struct {
	Matched       []SkillDemand `json:"matched"`
	Missing       []SkillDemand `json:"missing"`
	Coverage      float64       `json:"coverage"` // 0-100, demand-weighted
	MissedRevenue float64       `json:"missedRevenue"`
}

func buildSkillsGap(scored []Scored, offerings []offering.Offering) *SkillsGapReport {
	report := &SkillsGapReport{}

	// Tally demand per skill string, preserving first-seen casing.
	demand := make(map[string]*SkillDemand)
	var order []string
	var totalValue float64
	for _, s := range scored {
		totalValue += projectValue(s.Project, offerings)
		for _, skill := range s.Project.Skills {
			key := strings.ToLower(strings.TrimSpace(skill))
			if key == "" {
				continue
			}
			entry, ok := demand[key]
			if !ok {
				entry = &SkillDemand{Skill: strings.TrimSpace(skill)}
				demand[key] = entry
				order = append(order, key)
			}
			entry.Demand++
			entry.Projects = append(entry.Projects, s.Project.Title)
		}
	}

	var registry []string
	for _, off := range offerings {
		for _, s := range off.Skills {
			if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
				registry = append(registry, s)
			}
		}
	}

	matchedDemand, totalDemand := 0, 0
	for _, key := range order {
		entry := demand[key]
		totalDemand += entry.Demand
		if covered(key, registry) {
			matchedDemand += entry.Demand
			report.Matched = append(report.Matched, *entry)
		} else {
			report.Missing = append(report.Missing, *entry)
		}
	}

	sortByDemand(report.Matched)
	sortByDemand(report.Missing)

	if totalDemand > 0 {
		report.Coverage = math.Round(float64(matchedDemand) / float64(totalDemand) * 100)
	}

	if len(scored) > 0 {
		avgProjectValue := totalValue / float64(len(scored))
		for _, entry := range report.Missing {
			report.MissedRevenue += float64(entry.Demand) * avgProjectValue * missedRevenueFactor
		}
	}

	return report
}

// covered uses the same bidirectional substring test as the fit analyzer.
func covered(skill string, registry []string) bool {
	for _, known := range registry {
		if strings.Contains(skill, known) || strings.Contains(known, skill) {
			return true
		}
	}
	return false
}

func sortByDemand(entries []SkillDemand) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Demand > entries[j].Demand
	})
}
