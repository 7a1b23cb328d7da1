package sparse

// dense is the contiguous store behind a container. It grows like a Go
// slice append, doubling its capacity, but takes every backing array from
// an Allocator. Growth moves the elements to a new array, so positions
// stay valid while slices taken from data do not.
type dense[T any] struct {
	data  []T
	alloc Allocator[T]
}

func newDense[T any](alloc Allocator[T]) dense[T] {
	if alloc == nil {
		alloc = heapAllocator[T]{}
	}
	return dense[T]{alloc: alloc}
}

func (d *dense[T]) len() int { return len(d.data) }
func (d *dense[T]) cap() int { return cap(d.data) }

// reserve makes room for at least n elements.
func (d *dense[T]) reserve(n int) {
	if n <= cap(d.data) {
		return
	}
	next := d.alloc.Alloc(n)
	next = append(next, d.data...)
	d.release()
	d.data = next
}

func (d *dense[T]) push(v T) {
	if len(d.data) == cap(d.data) {
		n := 2 * cap(d.data)
		if n < minDenseCapacity {
			n = minDenseCapacity
		}
		d.reserve(n)
	}
	d.data = append(d.data, v)
}

// moveLast moves the last element into pos and drops the tail. The vacated
// tail slot is zeroed so it does not pin memory.
func (d *dense[T]) moveLast(pos int) {
	last := len(d.data) - 1
	if pos != last {
		d.data[pos] = d.data[last]
	}
	var zero T
	d.data[last] = zero
	d.data = d.data[:last]
}

func (d *dense[T]) clear() {
	var zero T
	for i := range d.data {
		d.data[i] = zero
	}
	d.data = d.data[:0]
}

// release gives the backing array back to the allocator.
func (d *dense[T]) release() {
	if d.data == nil {
		return
	}
	d.clear()
	d.alloc.Free(d.data[:0:cap(d.data)])
	d.data = nil
}

func (d *dense[T]) clone() dense[T] {
	c := dense[T]{alloc: d.alloc}
	if len(d.data) > 0 {
		c.data = d.alloc.Alloc(len(d.data))
		c.data = append(c.data, d.data...)
	}
	return c
}
