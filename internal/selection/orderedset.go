package selection

// OrderedSet is an insertion-ordered set with O(1) membership checks.
type OrderedSet[T comparable] struct {
	index map[T]struct{}
	items []T
}

// NewOrderedSet creates an empty set with room for capacity items.
func NewOrderedSet[T comparable](capacity int) *OrderedSet[T] {
	return &OrderedSet[T]{
		index: make(map[T]struct{}, capacity),
		items: make([]T, 0, capacity),
	}
}

// Add inserts v and reports whether it was not already present.
func (s *OrderedSet[T]) Add(v T) bool {
	if _, ok := s.index[v]; ok {
		return false
	}
	s.index[v] = struct{}{}
	s.items = append(s.items, v)
	return true
}

// Has reports whether v is in the set.
func (s *OrderedSet[T]) Has(v T) bool {
	_, ok := s.index[v]
	return ok
}

// Len returns the number of items.
func (s *OrderedSet[T]) Len() int { return len(s.items) }

// Items returns the items in insertion order. The slice must not be modified.
func (s *OrderedSet[T]) Items() []T { return s.items }
