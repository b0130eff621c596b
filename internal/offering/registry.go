package offering

import (
	"errors"
	"fmt"
	"strings"
	"sync"
)

const (
	// keywordsPerOffering limits how many keywords of each offering feed
	// the search plan.
	keywordsPerOffering = 3
	// maxPlanKeywords bounds the whole outbound keyword list.
	maxPlanKeywords = 10
)

var ErrNotFound = errors.New("offering not found")

// Registry holds the current set of offerings. It is the single source of
// truth for matching and is versioned: every mutation bumps the version so
// consumers can invalidate fit assessments computed against an older set.
type Registry struct {
	mu        sync.RWMutex
	offerings []Offering
	version   uint64
}

func NewRegistry(offerings []Offering) *Registry {
	if len(offerings) == 0 {
		offerings = Defaults()
	}
	return &Registry{offerings: cloneAll(offerings)}
}

// All returns a copy of the current offerings in insertion order.
func (r *Registry) All() []Offering {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return cloneAll(r.offerings)
}

// Version returns the current mutation counter.
func (r *Registry) Version() uint64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.version
}

// Find returns the offering with the given name.
func (r *Registry) Find(name string) (Offering, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, o := range r.offerings {
		if o.Name == name {
			return clone(o), true
		}
	}
	return Offering{}, false
}

// Add appends a new offering. Names are unique.
func (r *Registry) Add(o Offering) error {
	if err := validate(o); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.offerings {
		if existing.Name == o.Name {
			return fmt.Errorf("offering %q already exists", o.Name)
		}
	}
	r.offerings = append(r.offerings, clone(o))
	r.version++
	return nil
}

// Update replaces the offering with the given name.
func (r *Registry) Update(name string, o Offering) error {
	if err := validate(o); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.offerings {
		if existing.Name != name {
			continue
		}
		if o.Name != name {
			for _, other := range r.offerings {
				if other.Name == o.Name {
					return fmt.Errorf("offering %q already exists", o.Name)
				}
			}
		}
		r.offerings[i] = clone(o)
		r.version++
		return nil
	}
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Delete removes the offering with the given name.
func (r *Registry) Delete(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.offerings {
		if existing.Name == name {
			r.offerings = append(r.offerings[:i], r.offerings[i+1:]...)
			r.version++
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Replace swaps the whole registry, e.g. after loading persisted settings.
func (r *Registry) Replace(offerings []Offering) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offerings = cloneAll(offerings)
	r.version++
}

// KeywordPlan builds the outbound search keyword list: the first few
// keywords of every offering, deduplicated in insertion order, capped to
// the collaborator's limit.
func (r *Registry) KeywordPlan() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	plan := make([]string, 0, maxPlanKeywords)
	for _, o := range r.offerings {
		limit := keywordsPerOffering
		if limit > len(o.Keywords) {
			limit = len(o.Keywords)
		}
		for _, keyword := range o.Keywords[:limit] {
			keyword = strings.TrimSpace(keyword)
			if keyword == "" {
				continue
			}
			if _, ok := seen[keyword]; ok {
				continue
			}
			seen[keyword] = struct{}{}
			plan = append(plan, keyword)
			if len(plan) == maxPlanKeywords {
				return plan
			}
		}
	}
	return plan
}

func validate(o Offering) error {
	if strings.TrimSpace(o.Name) == "" {
		return errors.New("offering name is required")
	}
	if o.RateMin < 0 || o.RateMax < 0 {
		return errors.New("offering rates must not be negative")
	}
	if o.RateMax > 0 && o.RateMin > o.RateMax {
		return fmt.Errorf("offering %q: rate-min %.2f exceeds rate-max %.2f", o.Name, o.RateMin, o.RateMax)
	}
	return nil
}

func clone(o Offering) Offering {
	o.Keywords = append([]string(nil), o.Keywords...)
	o.Skills = append([]string(nil), o.Skills...)
	return o
}

func cloneAll(offerings []Offering) []Offering {
	out := make([]Offering, 0, len(offerings))
	for _, o := range offerings {
		out = append(out, clone(o))
	}
	return out
}
