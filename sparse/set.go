// Package sparse implements Set and KeySet, hash containers that keep their
// elements packed in a contiguous dense store and find them through a
// robin-hood hashed sparse index of dense positions.
//
// Insert appends to the dense store; Erase moves the last element into the
// hole, so iteration order is insertion order only until the first erase.
// Positions returned by Insert and Find stay valid until the next
// mutation. Containers are not safe for concurrent use.
package sparse

// Set is a set of unique values of type T.
type Set[T any] struct {
	t table[T]
}

// New returns a Set for a comparable type using DefaultHasher.
func New[T comparable](opts ...Option) *Set[T] {
	return NewWith[T](DefaultHasher[T](), opts...)
}

// NewWith returns a Set hashing and comparing values with h.
func NewWith[T any](h Hasher[T], opts ...Option) *Set[T] {
	cfg := newSettings(DefaultCapacity, DefaultGrowthFactor, opts)
	return &Set[T]{t: newTable[T](h, cfg)}
}

// Len returns the number of elements.
func (s *Set[T]) Len() int { return s.t.len() }

// Empty reports whether the set holds no elements.
func (s *Set[T]) Empty() bool { return s.t.len() == 0 }

// Capacity returns the capacity of the dense store.
func (s *Set[T]) Capacity() int { return s.t.keys.cap() }

// SparseCapacity returns the number of buckets of the sparse index.
func (s *Set[T]) SparseCapacity() int { return s.t.index.capacity() }

// LoadFactor returns Len()/SparseCapacity().
func (s *Set[T]) LoadFactor() float64 { return s.t.loadFactor() }

// Insert adds v. If an equal element is already present the set is left
// unchanged and Insert returns that element's position and false.
// Otherwise it returns the position of the new element and true.
func (s *Set[T]) Insert(v T) (int, bool) {
	if _, pos := s.t.find(v); pos >= 0 {
		return pos, false
	}
	s.t.grow()
	return s.t.push(v), true
}

// Emplace builds a candidate with build and inserts it.
func (s *Set[T]) Emplace(build func() T) (int, bool) {
	return s.Insert(build())
}

// InsertAll inserts every value and returns how many were new.
func (s *Set[T]) InsertAll(vs ...T) int {
	n := 0
	for _, v := range vs {
		if _, ok := s.Insert(v); ok {
			n++
		}
	}
	return n
}

// Erase removes v and returns 1, or returns 0 if v is absent.
func (s *Set[T]) Erase(v T) int {
	i, _ := s.t.find(v)
	if i < 0 {
		return 0
	}
	s.t.removeSlot(i)
	return 1
}

// Find returns the position of v in the dense store.
func (s *Set[T]) Find(v T) (int, bool) {
	_, pos := s.t.find(v)
	return pos, pos >= 0
}

// Contains reports whether v is present.
func (s *Set[T]) Contains(v T) bool {
	_, pos := s.t.find(v)
	return pos >= 0
}

// Count returns 1 if v is present and 0 otherwise.
func (s *Set[T]) Count(v T) int {
	if s.Contains(v) {
		return 1
	}
	return 0
}

// At returns the element at dense position pos.
func (s *Set[T]) At(pos int) T { return s.t.keys.data[pos] }

// Values returns the dense store itself. It must not be modified, and it
// is invalidated like an Iter.
func (s *Set[T]) Values() []T { return s.t.keys.data }

// Iter returns a forward iterator.
func (s *Set[T]) Iter() *Iter[T] {
	return &Iter[T]{data: s.t.keys.data, cur: newCursor(s.t.len(), Forward)}
}

// ReverseIter returns a backward iterator.
func (s *Set[T]) ReverseIter() *Iter[T] {
	return &Iter[T]{data: s.t.keys.data, cur: newCursor(s.t.len(), Backward)}
}

// Range calls fn for every element in dense order until fn returns false.
func (s *Set[T]) Range(fn func(v T) bool) {
	for _, v := range s.t.keys.data {
		if !fn(v) {
			return
		}
	}
}

// RangeReverse is Range in reverse dense order.
func (s *Set[T]) RangeReverse(fn func(v T) bool) {
	data := s.t.keys.data
	for i := len(data) - 1; i >= 0; i-- {
		if !fn(data[i]) {
			return
		}
	}
}

// Clear removes every element. The dense capacity and sparse capacity are
// kept.
func (s *Set[T]) Clear() { s.t.clear() }

// Reserve makes room for n elements, so that reaching Len() == n causes
// neither a dense reallocation nor a rehash.
func (s *Set[T]) Reserve(n int) { s.t.reserve(n) }

// Rehash rebuilds the sparse index with n buckets. n is raised to the
// smallest capacity that keeps the current elements within the load
// factor.
func (s *Set[T]) Rehash(n int) { s.t.rehash(n) }

// Swap exchanges the contents and configuration of s and other.
func (s *Set[T]) Swap(other *Set[T]) { s.t, other.t = other.t, s.t }

// Clone returns an independent copy of s sharing its configuration.
func (s *Set[T]) Clone() *Set[T] { return &Set[T]{t: s.t.clone()} }

// Release clears s and hands the dense backing array back to its
// allocator.
func (s *Set[T]) Release() {
	s.t.keys.release()
	s.t.index.reset()
}
