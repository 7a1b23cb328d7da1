package db

import (
	"github.com/fzft/go-sparse-set/sparse"
)

const (
	loadFactor = 0.7
)

type Entry[K any, V any] struct {
	Key   K
	Value V
	Next  *Entry[K, V]
}

// HashTable is a separate-chaining hash table. It is the baseline the
// sparse containers are benchmarked against.
type HashTable[K any, V any] struct {
	Table  []*Entry[K, V]
	Size   int
	Count  int
	hasher sparse.Hasher[K]
}

func NewHashTable[K any, V any](initSize int, hasher sparse.Hasher[K]) *HashTable[K, V] {
	if initSize < 1 {
		initSize = 1
	}
	return &HashTable[K, V]{
		Table:  make([]*Entry[K, V], initSize),
		Size:   initSize,
		hasher: hasher,
	}
}

func (h *HashTable[K, V]) Hash(key K) int {
	return int(h.hasher.Hash(key) % uint64(h.Size))
}

// Set inserts key or updates its value. It reports whether key was new.
func (h *HashTable[K, V]) Set(key K, value V) bool {
	index := h.Hash(key)
	for curr := h.Table[index]; curr != nil; curr = curr.Next {
		if h.hasher.Equal(curr.Key, key) {
			curr.Value = value // Update the value
			return false
		}
	}

	// Check if we need to resize the hash table
	if float64(h.Count+1)/float64(h.Size) > loadFactor {
		h.resize()
		index = h.Hash(key)
	}

	h.Table[index] = &Entry[K, V]{Key: key, Value: value, Next: h.Table[index]}
	h.Count++
	return true
}

func (h *HashTable[K, V]) resize() {
	newSize := h.Size * 2
	newTable := make([]*Entry[K, V], newSize)
	oldTable := h.Table
	h.Table = newTable
	h.Size = newSize

	// Relink the existing entries, no allocation needed.
	for _, entry := range oldTable {
		for entry != nil {
			next := entry.Next
			index := h.Hash(entry.Key)
			entry.Next = h.Table[index]
			h.Table[index] = entry
			entry = next
		}
	}
}

func (h *HashTable[K, V]) Delete(key K) bool {
	index := h.Hash(key)
	var prev *Entry[K, V]
	for curr := h.Table[index]; curr != nil; curr = curr.Next {
		if h.hasher.Equal(curr.Key, key) {
			if prev == nil {
				h.Table[index] = curr.Next
			} else {
				prev.Next = curr.Next // Bypass the entry to be deleted
			}
			h.Count--
			return true
		}
		prev = curr
	}

	// If we reach here, the key wasn't found in the list
	return false
}

func (h *HashTable[K, V]) Get(key K) (V, bool) {
	index := h.Hash(key)
	for curr := h.Table[index]; curr != nil; curr = curr.Next {
		if h.hasher.Equal(curr.Key, key) {
			return curr.Value, true
		}
	}
	var zero V
	return zero, false
}

// Len returns the number of elements in the hash table
func (h *HashTable[K, V]) Len() int {
	return h.Count
}

// Empty returns true if the hash table is empty
func (h *HashTable[K, V]) Empty() bool {
	return h.Count == 0
}

// Range calls fn for every entry in bucket order until fn returns false.
func (h *HashTable[K, V]) Range(fn func(key K, value V) bool) {
	for _, curr := range h.Table {
		for ; curr != nil; curr = curr.Next {
			if !fn(curr.Key, curr.Value) {
				return
			}
		}
	}
}
