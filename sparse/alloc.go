package sparse

import (
	"sync/atomic"
	"unsafe"
)

// Allocator supplies backing slices to a dense store. Alloc returns a slice
// with length 0 and capacity of at least n. Free is called with a slice the
// store no longer references; its elements have already been zeroed.
type Allocator[T any] interface {
	Alloc(n int) []T
	Free(s []T)
}

type heapAllocator[T any] struct{}

func (heapAllocator[T]) Alloc(n int) []T { return make([]T, 0, n) }
func (heapAllocator[T]) Free([]T)        {}

// AccountingAllocator allocates from the Go heap and keeps a running count
// of the bytes handed out. One accounting allocator may be shared by
// several containers, even from different goroutines.
type AccountingAllocator[T any] struct {
	used   int64
	allocs int64
	frees  int64
}

// NewAccountingAllocator returns an allocator with all counters at zero.
func NewAccountingAllocator[T any]() *AccountingAllocator[T] {
	return &AccountingAllocator[T]{}
}

func (a *AccountingAllocator[T]) Alloc(n int) []T {
	s := make([]T, 0, n)
	atomic.AddInt64(&a.used, estimateSliceBytes(s))
	atomic.AddInt64(&a.allocs, 1)
	return s
}

func (a *AccountingAllocator[T]) Free(s []T) {
	if cap(s) == 0 {
		return
	}
	atomic.AddInt64(&a.used, -estimateSliceBytes(s))
	atomic.AddInt64(&a.frees, 1)
}

// UsedBytes returns the bytes of backing storage currently outstanding.
func (a *AccountingAllocator[T]) UsedBytes() int64 {
	return atomic.LoadInt64(&a.used)
}

// Allocs returns how many backing slices were handed out.
func (a *AccountingAllocator[T]) Allocs() int64 {
	return atomic.LoadInt64(&a.allocs)
}

// Frees returns how many backing slices were given back.
func (a *AccountingAllocator[T]) Frees() int64 {
	return atomic.LoadInt64(&a.frees)
}

// estimateSliceBytes counts the backing array only, not what the
// elements point to.
func estimateSliceBytes[T any](s []T) int64 {
	var zero T
	return int64(cap(s)) * int64(unsafe.Sizeof(zero))
}
