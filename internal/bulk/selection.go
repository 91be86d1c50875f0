package bulk

import "sort"

// Selection is the set of record IDs picked in one list view. It has a single
// owner and is not safe for concurrent use.
type Selection struct {
	ids map[string]struct{}
}

func NewSelection() *Selection {
	return &Selection{ids: map[string]struct{}{}}
}

// SelectAll replaces the selection with the currently visible IDs. When the
// visible list changes the caller must SelectNone before selecting again.
func (s *Selection) SelectAll(visible []string) {
	s.ids = make(map[string]struct{}, len(visible))
	for _, id := range visible {
		s.ids[id] = struct{}{}
	}
}

func (s *Selection) SelectNone() {
	s.ids = map[string]struct{}{}
}

// ToggleAll is the header checkbox: deselect when every visible ID is
// already selected, otherwise select exactly the visible IDs.
func (s *Selection) ToggleAll(visible []string) {
	if len(visible) > 0 && s.covers(visible) {
		s.SelectNone()
		return
	}
	s.SelectAll(visible)
}

func (s *Selection) covers(ids []string) bool {
	if len(ids) != len(s.ids) {
		return false
	}
	for _, id := range ids {
		if !s.Has(id) {
			return false
		}
	}
	return true
}

func (s *Selection) Toggle(id string) {
	if s.Has(id) {
		delete(s.ids, id)
		return
	}
	s.ids[id] = struct{}{}
}

func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Selection) Len() int { return len(s.ids) }

// IDs returns the selection sorted, so requests built from it are stable.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
