package sparse

import (
	"fmt"

	"go.uber.org/multierr"
)

// checkInvariants walks the whole index and reports every broken
// invariant. It is O(capacity) and meant for tests.
func (t *table[K]) checkInvariants() error {
	var err error
	ix := &t.index
	n := t.keys.len()
	capacity := ix.capacity()

	if n > t.cfg.limit(capacity) {
		err = multierr.Append(err, fmt.Errorf("size %d exceeds load limit %d of capacity %d", n, t.cfg.limit(capacity), capacity))
	}

	seen := make([]bool, n)
	occupied := 0
	for i, s := range ix.slots {
		if s.dist == 0 {
			continue
		}
		occupied++
		if s.pos < 0 || s.pos >= n {
			err = multierr.Append(err, fmt.Errorf("slot %d points at position %d outside dense store of %d", i, s.pos, n))
			continue
		}
		if seen[s.pos] {
			err = multierr.Append(err, fmt.Errorf("position %d indexed twice", s.pos))
		}
		seen[s.pos] = true

		home := ix.home(t.keys.data[s.pos])
		want := (i-home+capacity)%capacity + 1
		if s.dist != want {
			err = multierr.Append(err, fmt.Errorf("slot %d has dist %d, home %d implies %d", i, s.dist, home, want))
		}

		prev := ix.slots[(i-1+capacity)%capacity]
		if s.dist > 1 && s.dist > prev.dist+1 {
			err = multierr.Append(err, fmt.Errorf("slot %d dist %d breaks robin-hood order after dist %d", i, s.dist, prev.dist))
		}
	}
	if occupied != n {
		err = multierr.Append(err, fmt.Errorf("%d occupied slots for %d dense elements", occupied, n))
	}
	for pos, v := range t.keys.data {
		if i := ix.lookup(t.keys.data, v); i < 0 || ix.slots[i].pos != pos {
			err = multierr.Append(err, fmt.Errorf("position %d is not reachable by lookup", pos))
		}
	}
	return err
}
