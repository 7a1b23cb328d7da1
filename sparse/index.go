package sparse

// slot is one bucket of the sparse index. dist is the probe distance from
// the home bucket plus one, so the zero slot is empty.
type slot struct {
	pos  int
	dist int
}

// index is a robin-hood, linearly probed table of dense positions. It
// stores no keys; every probe compares against the dense key store passed
// in by the caller.
type index[K any] struct {
	slots  []slot
	hasher Hasher[K]
}

func newIndex[K any](capacity int, hasher Hasher[K]) index[K] {
	return index[K]{slots: make([]slot, capacity), hasher: hasher}
}

func (ix *index[K]) capacity() int { return len(ix.slots) }

func (ix *index[K]) home(key K) int {
	return int(ix.hasher.Hash(key) % uint64(len(ix.slots)))
}

func (ix *index[K]) next(i int) int {
	i++
	if i == len(ix.slots) {
		return 0
	}
	return i
}

// insert places dense position pos, whose key is keys[pos], into the table.
// A candidate that has travelled further than the occupant takes the slot
// and the occupant continues the probe. The load factor keeps at least one
// slot empty, so the loop ends within one lap.
func (ix *index[K]) insert(keys []K, pos int) {
	i := ix.home(keys[pos])
	cand := slot{pos: pos, dist: 1}
	for n := 0; n < len(ix.slots); n++ {
		s := &ix.slots[i]
		if s.dist == 0 {
			*s = cand
			return
		}
		if s.dist < cand.dist {
			*s, cand = cand, *s
		}
		cand.dist++
		i = ix.next(i)
	}
	panic(errProbeOverflow)
}

// lookup returns the slot holding key, or -1. The probe stops as soon as
// its distance exceeds the occupant's, since a robin-hood table would have
// placed key before that occupant.
func (ix *index[K]) lookup(keys []K, key K) int {
	i := ix.home(key)
	for dist := 1; dist <= len(ix.slots); dist++ {
		s := ix.slots[i]
		if s.dist == 0 || dist > s.dist {
			return -1
		}
		if ix.hasher.Equal(keys[s.pos], key) {
			return i
		}
		i = ix.next(i)
	}
	panic(errProbeOverflow)
}

// remove empties slot i and closes the gap by shifting the rest of the
// cluster back one bucket, so no tombstone is left behind.
func (ix *index[K]) remove(i int) {
	for n := 0; n < len(ix.slots); n++ {
		j := ix.next(i)
		nxt := ix.slots[j]
		if nxt.dist <= 1 {
			ix.slots[i] = slot{}
			return
		}
		ix.slots[i] = slot{pos: nxt.pos, dist: nxt.dist - 1}
		i = j
	}
	panic(errProbeOverflow)
}

func (ix *index[K]) reset() {
	for i := range ix.slots {
		ix.slots[i] = slot{}
	}
}

// rebuild resizes the table to capacity and reinserts keys in dense order.
func (ix *index[K]) rebuild(keys []K, capacity int) {
	if capacity == len(ix.slots) {
		ix.reset()
	} else {
		ix.slots = make([]slot, capacity)
	}
	for pos := range keys {
		ix.insert(keys, pos)
	}
}

func (ix *index[K]) clone() index[K] {
	c := index[K]{slots: make([]slot, len(ix.slots)), hasher: ix.hasher}
	copy(c.slots, ix.slots)
	return c
}
