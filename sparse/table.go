package sparse

import (
	"go.uber.org/zap"
)

// table is the engine shared by Set and KeySet: a dense key store indexed
// by a robin-hood sparse index. KeySet keeps its values in a second dense
// store that mirrors every move made here.
type table[K any] struct {
	keys  dense[K]
	index index[K]
	cfg   settings
}

func newTable[K any](hasher Hasher[K], cfg settings) table[K] {
	if hasher == nil {
		panic("sparse: nil hasher")
	}
	return table[K]{
		keys:  newDense[K](allocatorFor[K](&cfg)),
		index: newIndex[K](cfg.capacity, hasher),
		cfg:   cfg,
	}
}

func (t *table[K]) len() int { return t.keys.len() }

// find returns the slot and dense position of key, or -1, -1.
func (t *table[K]) find(key K) (int, int) {
	if t.keys.len() == 0 {
		return -1, -1
	}
	i := t.index.lookup(t.keys.data, key)
	if i < 0 {
		return -1, -1
	}
	return i, t.index.slots[i].pos
}

// grow rebuilds the index when one more element would push the table past
// its load factor.
func (t *table[K]) grow() {
	n := t.keys.len() + 1
	if n <= t.cfg.limit(t.index.capacity()) {
		return
	}
	t.rehash(t.cfg.fit(t.index.capacity(), n))
}

// push appends key to the dense store and indexes it. The caller has
// already checked that key is absent and called grow.
func (t *table[K]) push(key K) int {
	t.keys.push(key)
	pos := t.keys.len() - 1
	t.index.insert(t.keys.data, pos)
	return pos
}

// removeSlot erases the element held by slot i. The last dense element is
// moved into the vacated position and its slot repointed before the
// cluster is closed. It returns the vacated position for the caller to
// mirror on parallel stores.
func (t *table[K]) removeSlot(i int) int {
	pos := t.index.slots[i].pos
	last := t.keys.len() - 1
	if pos != last {
		j := t.index.lookup(t.keys.data, t.keys.data[last])
		if j < 0 {
			panic("sparse: last dense element is not indexed")
		}
		t.index.slots[j].pos = pos
	}
	t.index.remove(i)
	t.keys.moveLast(pos)
	return pos
}

func (t *table[K]) rehash(capacity int) {
	if need := t.cfg.minCapacity(t.keys.len()); capacity < need {
		capacity = need
	}
	old := t.index.capacity()
	t.index.rebuild(t.keys.data, capacity)
	t.cfg.logger.Debug("sparse index rehashed",
		zap.Int("size", t.keys.len()),
		zap.Int("from", old),
		zap.Int("to", capacity))
}

func (t *table[K]) reserve(n int) {
	t.keys.reserve(n)
	if t.cfg.limit(t.index.capacity()) < n {
		t.rehash(t.cfg.minCapacity(n))
	}
}

func (t *table[K]) clear() {
	t.keys.clear()
	t.index.reset()
}

func (t *table[K]) loadFactor() float64 {
	return float64(t.keys.len()) / float64(t.index.capacity())
}

func (t *table[K]) clone() table[K] {
	return table[K]{keys: t.keys.clone(), index: t.index.clone(), cfg: t.cfg}
}
