package project

// Set collects normalized projects within one fetch cycle, deduplicating
// by id and link in insertion order. The first occurrence wins.
type Set struct {
	items []*Project
	ids   map[string]struct{}
	links map[string]struct{}
}

func NewSet() *Set {
	return &Set{
		ids:   make(map[string]struct{}),
		links: make(map[string]struct{}),
	}
}

// Add inserts the project unless its id or link was seen before. It
// reports whether the project was actually added.
func (s *Set) Add(p *Project) bool {
	if p == nil {
		return false
	}
	if _, ok := s.ids[p.ID]; ok {
		return false
	}
	if p.Link != "" {
		if _, ok := s.links[p.Link]; ok {
			return false
		}
		s.links[p.Link] = struct{}{}
	}
	s.ids[p.ID] = struct{}{}
	s.items = append(s.items, p)
	return true
}

// Items returns the collected projects in insertion order.
func (s *Set) Items() []*Project {
	return s.items
}

func (s *Set) Len() int {
	return len(s.items)
}
