package sparse

// Direction selects the order in which an iterator walks the dense store.
type Direction int

const (
	// Forward walks positions 0..Len()-1.
	Forward Direction = iota
	// Backward walks positions Len()-1..0.
	Backward
)

// cursor walks the positions of a dense store of length n.
type cursor struct {
	pos int
	n   int
	dir Direction
}

func newCursor(n int, dir Direction) cursor {
	if dir == Backward {
		return cursor{pos: n, n: n, dir: dir}
	}
	return cursor{pos: -1, n: n, dir: dir}
}

func (c *cursor) next() bool {
	if c.dir == Backward {
		if c.pos <= 0 {
			c.pos = -1
			return false
		}
		c.pos--
		return true
	}
	if c.pos+1 >= c.n {
		c.pos = c.n
		return false
	}
	c.pos++
	return true
}

// Iter walks the elements of a Set.
//
// An Iter is invalidated by anything that reorders or reallocates the
// dense store: an insert, Reserve, Rehash, Clear, or an Erase of any
// element other than the one just visited. Erasing the current element
// while iterating Backward is safe, since only already-visited positions
// are touched.
type Iter[T any] struct {
	data []T
	cur  cursor
}

// Next advances the iterator and reports whether an element is available.
func (it *Iter[T]) Next() bool { return it.cur.next() }

// Value returns the current element.
func (it *Iter[T]) Value() T { return it.data[it.cur.pos] }

// Pos returns the dense position of the current element.
func (it *Iter[T]) Pos() int { return it.cur.pos }

// PairIter walks the entries of a KeySet, with the invalidation rules of
// Iter.
type PairIter[K, V any] struct {
	keys   []K
	values []V
	cur    cursor
}

// Next advances the iterator and reports whether an entry is available.
func (it *PairIter[K, V]) Next() bool { return it.cur.next() }

// Key returns the current key.
func (it *PairIter[K, V]) Key() K { return it.keys[it.cur.pos] }

// Value returns the current value.
func (it *PairIter[K, V]) Value() V { return it.values[it.cur.pos] }

// Ref returns a pointer to the current value.
func (it *PairIter[K, V]) Ref() *V { return &it.values[it.cur.pos] }

// Pos returns the dense position of the current entry.
func (it *PairIter[K, V]) Pos() int { return it.cur.pos }
