package collection

import (
	"github.com/stemsi/seatdesk/internal/response"
)

// Cardinality is how many items a flow needs selected.
type Cardinality int

const (
	// ExactlyOne enables the action only with a single selection.
	ExactlyOne Cardinality = iota
	// AtLeastOne enables the action with one or more selections.
	AtLeastOne
)

func (c Cardinality) String() string {
	if c == ExactlyOne {
		return "exactly one"
	}
	return "at least one"
}

// Selection tracks selected keys in the order they were picked.
type Selection[K comparable] struct {
	mode  Cardinality
	order []K
	set   map[K]struct{}
}

// NewSelection creates an empty selection with the given cardinality.
func NewSelection[K comparable](mode Cardinality) *Selection[K] {
	return &Selection[K]{mode: mode, set: make(map[K]struct{})}
}

// Mode returns the configured cardinality.
func (s *Selection[K]) Mode() Cardinality { return s.mode }

// Select adds k.
func (s *Selection[K]) Select(k K) {
	if _, ok := s.set[k]; ok {
		return
	}
	s.set[k] = struct{}{}
	s.order = append(s.order, k)
}

// Deselect removes k.
func (s *Selection[K]) Deselect(k K) {
	if _, ok := s.set[k]; !ok {
		return
	}
	delete(s.set, k)
	for i, v := range s.order {
		if v == k {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Toggle flips k and reports whether it is now selected.
func (s *Selection[K]) Toggle(k K) bool {
	if s.Has(k) {
		s.Deselect(k)
		return false
	}
	s.Select(k)
	return true
}

// Clear empties the selection.
func (s *Selection[K]) Clear() {
	s.order = nil
	s.set = make(map[K]struct{})
}

// Has reports whether k is selected.
func (s *Selection[K]) Has(k K) bool {
	_, ok := s.set[k]
	return ok
}

// Len returns the number of selected keys.
func (s *Selection[K]) Len() int { return len(s.order) }

// Keys returns the selected keys in pick order.
func (s *Selection[K]) Keys() []K {
	return append([]K(nil), s.order...)
}

// Valid returns nil when the selection satisfies its cardinality.
func (s *Selection[K]) Valid() error {
	n := len(s.order)
	switch s.mode {
	case ExactlyOne:
		if n != 1 {
			return response.Precondition("selection", response.ErrInvalidSelection, "Select exactly one file.")
		}
	default:
		if n < 1 {
			return response.Precondition("selection", response.ErrInvalidSelection, "Select at least one file.")
		}
	}
	return nil
}
