package sparse

import "fmt"

// Pair is a key and its value.
type Pair[K, V any] struct {
	Key   K
	Value V
}

// KeySet maps unique keys to values. Keys and values live in two parallel
// dense stores that share positions.
type KeySet[K, V any] struct {
	t      table[K]
	values dense[V]
}

// NewKeySet returns a KeySet for a comparable key type using
// DefaultHasher.
func NewKeySet[K comparable, V any](opts ...Option) *KeySet[K, V] {
	return NewKeySetWith[K, V](DefaultHasher[K](), opts...)
}

// NewKeySetWith returns a KeySet hashing and comparing keys with h.
func NewKeySetWith[K, V any](h Hasher[K], opts ...Option) *KeySet[K, V] {
	cfg := newSettings(DefaultKeySetCapacity, DefaultKeySetGrowthFactor, opts)
	return &KeySet[K, V]{
		t:      newTable[K](h, cfg),
		values: newDense[V](allocatorFor[V](&cfg)),
	}
}

func (m *KeySet[K, V]) Len() int            { return m.t.len() }
func (m *KeySet[K, V]) Empty() bool         { return m.t.len() == 0 }
func (m *KeySet[K, V]) Capacity() int       { return m.values.cap() }
func (m *KeySet[K, V]) SparseCapacity() int { return m.t.index.capacity() }
func (m *KeySet[K, V]) LoadFactor() float64 { return m.t.loadFactor() }
func (m *KeySet[K, V]) KeyAt(pos int) K     { return m.t.keys.data[pos] }
func (m *KeySet[K, V]) ValueAt(pos int) V   { return m.values.data[pos] }
func (m *KeySet[K, V]) Keys() []K           { return m.t.keys.data }
func (m *KeySet[K, V]) Values() []V         { return m.values.data }
func (m *KeySet[K, V]) Contains(key K) bool { return m.position(key) >= 0 }

// Find returns the dense position of key.
func (m *KeySet[K, V]) Find(key K) (int, bool) {
	pos := m.position(key)
	return pos, pos >= 0
}

func (m *KeySet[K, V]) position(key K) int {
	_, pos := m.t.find(key)
	return pos
}

// Count returns 1 if key is present and 0 otherwise.
func (m *KeySet[K, V]) Count(key K) int {
	if m.Contains(key) {
		return 1
	}
	return 0
}

// Insert adds key with value. An existing key keeps its value; Insert then
// returns the key's position and false.
func (m *KeySet[K, V]) Insert(key K, value V) (int, bool) {
	if pos := m.position(key); pos >= 0 {
		return pos, false
	}
	return m.push(key, value), true
}

// InsertPair is Insert for a Pair.
func (m *KeySet[K, V]) InsertPair(p Pair[K, V]) (int, bool) {
	return m.Insert(p.Key, p.Value)
}

// InsertAll inserts every pair and returns how many keys were new.
func (m *KeySet[K, V]) InsertAll(pairs ...Pair[K, V]) int {
	n := 0
	for _, p := range pairs {
		if _, ok := m.Insert(p.Key, p.Value); ok {
			n++
		}
	}
	return n
}

// Emplace inserts key with the value returned by build. build is only
// called when key is absent.
func (m *KeySet[K, V]) Emplace(key K, build func() V) (int, bool) {
	if pos := m.position(key); pos >= 0 {
		return pos, false
	}
	return m.push(key, build()), true
}

func (m *KeySet[K, V]) push(key K, value V) int {
	m.t.grow()
	m.values.push(value)
	return m.t.push(key)
}

// Erase removes key and returns 1, or returns 0 if key is absent.
func (m *KeySet[K, V]) Erase(key K) int {
	i, _ := m.t.find(key)
	if i < 0 {
		return 0
	}
	pos := m.t.removeSlot(i)
	m.values.moveLast(pos)
	return 1
}

// Get returns the value stored for key.
func (m *KeySet[K, V]) Get(key K) (V, bool) {
	if pos := m.position(key); pos >= 0 {
		return m.values.data[pos], true
	}
	var zero V
	return zero, false
}

// At returns the value stored for key, or an error wrapping
// ErrKeyNotFound.
func (m *KeySet[K, V]) At(key K) (V, error) {
	v, ok := m.Get(key)
	if !ok {
		return v, fmt.Errorf("%w: %v", ErrKeyNotFound, key)
	}
	return v, nil
}

// Ref returns a pointer to the value stored for key, inserting the zero
// value first if key is absent. The pointer is invalidated like an Iter.
func (m *KeySet[K, V]) Ref(key K) *V {
	pos := m.position(key)
	if pos < 0 {
		var zero V
		pos = m.push(key, zero)
	}
	return &m.values.data[pos]
}

// Iter returns a forward iterator.
func (m *KeySet[K, V]) Iter() *PairIter[K, V] {
	return &PairIter[K, V]{keys: m.t.keys.data, values: m.values.data, cur: newCursor(m.t.len(), Forward)}
}

// ReverseIter returns a backward iterator.
func (m *KeySet[K, V]) ReverseIter() *PairIter[K, V] {
	return &PairIter[K, V]{keys: m.t.keys.data, values: m.values.data, cur: newCursor(m.t.len(), Backward)}
}

// Range calls fn for every entry in dense order until fn returns false.
func (m *KeySet[K, V]) Range(fn func(key K, value V) bool) {
	for i, k := range m.t.keys.data {
		if !fn(k, m.values.data[i]) {
			return
		}
	}
}

// RangeReverse is Range in reverse dense order.
func (m *KeySet[K, V]) RangeReverse(fn func(key K, value V) bool) {
	for i := m.t.len() - 1; i >= 0; i-- {
		if !fn(m.t.keys.data[i], m.values.data[i]) {
			return
		}
	}
}

func (m *KeySet[K, V]) Clear() {
	m.t.clear()
	m.values.clear()
}

// Reserve makes room for n entries without reallocation or rehash.
func (m *KeySet[K, V]) Reserve(n int) {
	m.t.reserve(n)
	m.values.reserve(n)
}

// Rehash rebuilds the sparse index with at least n buckets, see
// Set.Rehash.
func (m *KeySet[K, V]) Rehash(n int) { m.t.rehash(n) }

func (m *KeySet[K, V]) Swap(other *KeySet[K, V]) {
	m.t, other.t = other.t, m.t
	m.values, other.values = other.values, m.values
}

func (m *KeySet[K, V]) Clone() *KeySet[K, V] {
	return &KeySet[K, V]{t: m.t.clone(), values: m.values.clone()}
}

// Release clears m and hands both dense backing arrays back to their
// allocators.
func (m *KeySet[K, V]) Release() {
	m.t.keys.release()
	m.values.release()
	m.t.index.reset()
}
