package tracker

import (
	"sort"
	"strings"

	"github.com/leadspark/upwork-radar/internal/project"
)

// Sort orders accepted by Projects.
const (
	SortDate   = "date"
	SortMatch  = "match"
	SortBudget = "budget"
)

// Filter narrows and orders the published project list.
type Filter struct {
	Category  string
	Search    string
	Sort      string
	SavedOnly bool
}

// Projects returns the published projects matching the filter, newest
// first unless another sort is requested. Instruction records are kept
// only in the unfiltered view.
func (t *Tracker) Projects(f Filter) []*project.Project {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	filtered := f.Category != "" || search != "" || f.SavedOnly

	t.mu.RLock()
	out := make([]*project.Project, 0, len(t.projects))
	for _, p := range t.projects {
		if p.IsInstruction() {
			if !filtered {
				out = append(out, p)
			}
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.SavedOnly && !t.saved[p.ID] {
			continue
		}
		if search != "" && !matchesSearch(p, search) {
			continue
		}
		out = append(out, p)
	}
	t.mu.RUnlock()

	switch f.Sort {
	case SortMatch:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].MatchScore > out[j].MatchScore
		})
	case SortBudget:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].BudgetMax > out[j].BudgetMax
		})
	default:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PostedDate.After(out[j].PostedDate)
		})
	}

	return out
}

func matchesSearch(p *project.Project, search string) bool {
	if strings.Contains(strings.ToLower(p.Title), search) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), search) {
		return true
	}
	for _, skill := range p.Skills {
		if strings.Contains(strings.ToLower(skill), search) {
			return true
		}
	}
	return false
}
