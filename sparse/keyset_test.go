package sparse

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireValidKeys[K, V any](t *testing.T, m *KeySet[K, V]) {
	t.Helper()
	require.NoError(t, m.t.checkInvariants())
	require.Equal(t, m.t.keys.len(), m.values.len(), "key and value stores out of step")
}

func TestKeySetInsertAndGet(t *testing.T) {
	m := NewKeySet[string, int]()

	_, ok := m.Insert("one", 1)
	assert.True(t, ok)
	_, ok = m.Insert("two", 2)
	assert.True(t, ok)

	v, ok := m.Get("one")
	assert.True(t, ok, "Key 'one' should exist")
	assert.Equal(t, 1, v)

	_, ok = m.Get("three")
	assert.False(t, ok, "Key 'three' should not exist")
	assert.Equal(t, 2, m.Len())
	requireValidKeys(t, m)
}

func TestKeySetDuplicateKeepsValue(t *testing.T) {
	m := NewKeySet[string, int]()
	m.Insert("k", 1)

	pos, ok := m.Insert("k", 2)
	assert.False(t, ok)
	assert.Equal(t, 0, pos)
	assert.Equal(t, 1, m.ValueAt(pos))
	assert.Equal(t, 1, m.Len())
}

func TestKeySetAtMissing(t *testing.T) {
	m := NewKeySet[string, int]()

	_, err := m.At("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrKeyNotFound))
	assert.Contains(t, err.Error(), "nope")
}

func TestKeySetRefInsertsDefault(t *testing.T) {
	m := NewKeySet[string, int]()

	ref := m.Ref("hits")
	assert.Equal(t, 0, *ref)
	*ref += 5
	*m.Ref("hits")++

	v, err := m.At("hits")
	require.NoError(t, err)
	assert.Equal(t, 6, v)
	assert.Equal(t, 1, m.Len())
	requireValidKeys(t, m)
}

func TestKeySetEmplaceChecksFirst(t *testing.T) {
	m := NewKeySet[int, string]()
	builds := 0
	build := func() string {
		builds++
		return "value"
	}

	_, ok := m.Emplace(1, build)
	assert.True(t, ok)
	_, ok = m.Emplace(1, build)
	assert.False(t, ok)
	assert.Equal(t, 1, builds, "build must not run for a present key")
}

func TestKeySetEraseKeepsStoresParallel(t *testing.T) {
	m := NewKeySet[int, string]()
	m.InsertAll(
		Pair[int, string]{1, "a"},
		Pair[int, string]{2, "b"},
		Pair[int, string]{3, "c"},
	)

	assert.Equal(t, 1, m.Erase(1))
	assert.Equal(t, 0, m.Erase(1))

	assert.Equal(t, []int{3, 2}, m.Keys())
	assert.Equal(t, []string{"c", "b"}, m.Values())
	v, err := m.At(3)
	require.NoError(t, err)
	assert.Equal(t, "c", v)
	requireValidKeys(t, m)
}

func TestKeySetGrowthTrigger(t *testing.T) {
	m := NewKeySet[int, int]()
	require.Equal(t, DefaultKeySetCapacity, m.SparseCapacity())

	// 32 * 0.7 = 22.4
	for i := 0; i < 22; i++ {
		m.Insert(i, i)
	}
	assert.Equal(t, 32, m.SparseCapacity())
	m.Insert(22, 22)
	assert.Equal(t, 64, m.SparseCapacity())
	requireValidKeys(t, m)
}

func TestKeySetIteration(t *testing.T) {
	m := NewKeySet[string, int]()
	m.InsertPair(Pair[string, int]{"x", 1})
	m.InsertPair(Pair[string, int]{"y", 2})
	m.InsertPair(Pair[string, int]{"z", 3})

	var got []Pair[string, int]
	for it := m.Iter(); it.Next(); {
		got = append(got, Pair[string, int]{it.Key(), it.Value()})
	}
	want := []Pair[string, int]{{"x", 1}, {"y", 2}, {"z", 3}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("forward (-want +got):\n%s", diff)
	}

	got = nil
	for it := m.ReverseIter(); it.Next(); {
		*it.Ref() *= 10
		got = append(got, Pair[string, int]{it.Key(), it.Value()})
	}
	want = []Pair[string, int]{{"z", 30}, {"y", 20}, {"x", 10}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("backward (-want +got):\n%s", diff)
	}

	sum := 0
	m.Range(func(_ string, v int) bool {
		sum += v
		return true
	})
	assert.Equal(t, 60, sum)

	var keys []string
	m.RangeReverse(func(k string, _ int) bool {
		keys = append(keys, k)
		return len(keys) < 2
	})
	assert.Equal(t, []string{"z", "y"}, keys)
}

func TestKeySetThousand(t *testing.T) {
	m := NewKeySet[int, string]()
	m.Reserve(1000)
	capacity := m.SparseCapacity()
	for i := 0; i < 1000; i++ {
		m.Insert(i, fmt.Sprint(i))
	}
	assert.Equal(t, capacity, m.SparseCapacity())
	requireValidKeys(t, m)

	for i := 0; i < 1000; i += 3 {
		m.Erase(i)
	}
	requireValidKeys(t, m)
	for i := 0; i < 1000; i++ {
		v, ok := m.Get(i)
		if i%3 == 0 {
			assert.False(t, ok)
			continue
		}
		assert.True(t, ok)
		assert.Equal(t, fmt.Sprint(i), v)
	}

	m.Rehash(0)
	requireValidKeys(t, m)
	assert.True(t, m.Contains(1))
	assert.Equal(t, 1, m.Count(2))
	assert.Equal(t, 0, m.Count(3))
}

func TestKeySetClearSwapClone(t *testing.T) {
	a := NewKeySet[string, int]()
	b := NewKeySet[string, int]()
	a.Insert("a", 1)
	b.Insert("b", 2)
	b.Insert("c", 3)

	a.Swap(b)
	assert.Equal(t, 2, a.Len())
	assert.True(t, b.Contains("a"))

	c := a.Clone()
	a.Clear()
	assert.True(t, a.Empty())
	assert.False(t, a.Contains("b"))
	pos, ok := c.Find("c")
	require.True(t, ok)
	assert.Equal(t, "c", c.KeyAt(pos))
	assert.Equal(t, 3, c.ValueAt(pos))
	requireValidKeys(t, a)
	requireValidKeys(t, c)
}

func TestKeySetSharedAllocator(t *testing.T) {
	alloc := NewAccountingAllocator[string]()
	m := NewKeySet[string, string](WithAllocator[string](alloc))
	for i := 0; i < 20; i++ {
		m.Insert(fmt.Sprint("k", i), fmt.Sprint("v", i))
	}

	// Keys and values both draw from the one allocator.
	assert.Equal(t, 2*estimateSliceBytes(m.Values()), alloc.UsedBytes())

	m.Release()
	assert.Zero(t, alloc.UsedBytes())
	assert.Equal(t, alloc.Allocs(), alloc.Frees())
}
