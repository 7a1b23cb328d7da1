package sparse

import (
	"fmt"
	"math"

	"go.uber.org/zap"
)

const (
	// DefaultCapacity is the initial sparse capacity of a Set.
	DefaultCapacity = 64
	// DefaultKeySetCapacity is the initial sparse capacity of a KeySet.
	DefaultKeySetCapacity = 32
	// DefaultLoadFactor is the occupancy that triggers growth.
	DefaultLoadFactor = 0.7
	// DefaultGrowthFactor multiplies the sparse capacity of a Set on growth.
	DefaultGrowthFactor = 1.5
	// DefaultKeySetGrowthFactor multiplies the sparse capacity of a KeySet.
	DefaultKeySetGrowthFactor = 2

	minDenseCapacity = 8
)

// Option configures a container at construction time.
type Option func(*settings)

type settings struct {
	capacity   int
	loadFactor float64
	growth     float64
	logger     *zap.Logger
	// allocators holds Allocator[T] values for any T; each store picks the
	// first one matching its element type.
	allocators []any
}

func newSettings(capacity int, growth float64, opts []Option) settings {
	s := settings{
		capacity:   capacity,
		loadFactor: DefaultLoadFactor,
		growth:     growth,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.capacity < 1 {
		s.capacity = 1
	}
	return s
}

// WithCapacity sets the initial sparse capacity. Zero selects one bucket;
// the table grows on the first insert.
func WithCapacity(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("sparse: negative capacity %d", n))
	}
	return func(s *settings) { s.capacity = n }
}

// WithLoadFactor sets the occupancy threshold; it must lie in (0, 1).
func WithLoadFactor(f float64) Option {
	if !(f > 0 && f < 1) {
		panic(fmt.Sprintf("sparse: load factor %v outside (0, 1)", f))
	}
	return func(s *settings) { s.loadFactor = f }
}

// WithGrowthFactor sets the capacity multiplier applied on growth; it must
// be greater than 1.
func WithGrowthFactor(f float64) Option {
	if !(f > 1) || math.IsInf(f, 1) {
		panic(fmt.Sprintf("sparse: growth factor %v must be finite and > 1", f))
	}
	return func(s *settings) { s.growth = f }
}

// WithAllocator makes stores of element type T take their backing arrays
// from a. A KeySet whose key and value types are the same uses a for both.
func WithAllocator[T any](a Allocator[T]) Option {
	return func(s *settings) { s.allocators = append(s.allocators, a) }
}

// WithLogger enables debug logging of rehash events.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

func allocatorFor[T any](s *settings) Allocator[T] {
	for _, a := range s.allocators {
		if typed, ok := a.(Allocator[T]); ok {
			return typed
		}
	}
	return heapAllocator[T]{}
}

// limit is the number of elements a table of the given capacity may hold.
func (s *settings) limit(capacity int) int {
	return int(math.Floor(float64(capacity) * s.loadFactor))
}

// fit returns the smallest capacity reached from capacity by repeated
// growth whose limit admits n elements.
func (s *settings) fit(capacity, n int) int {
	for s.limit(capacity) < n {
		next := int(math.Ceil(float64(capacity) * s.growth))
		if next <= capacity {
			next = capacity + 1
		}
		capacity = next
	}
	return capacity
}

// minCapacity returns the smallest capacity whose limit admits n elements.
func (s *settings) minCapacity(n int) int {
	c := int(math.Ceil(float64(n) / s.loadFactor))
	if c < 1 {
		c = 1
	}
	for s.limit(c) < n {
		c++
	}
	return c
}
