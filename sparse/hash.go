package sparse

import (
	"bytes"
	"encoding/binary"
	"math"
	"reflect"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/constraints"
)

// Hasher is the hash and equality policy of a container. Hash must be
// position independent: equal keys hash to the same value.
type Hasher[K any] interface {
	Hash(key K) uint64
	Equal(a, b K) bool
}

type funcHasher[K any] struct {
	hash  func(K) uint64
	equal func(a, b K) bool
}

func (h funcHasher[K]) Hash(key K) uint64 { return h.hash(key) }
func (h funcHasher[K]) Equal(a, b K) bool { return h.equal(a, b) }

// HasherFunc builds a Hasher from a pair of functions.
func HasherFunc[K any](hash func(K) uint64, equal func(a, b K) bool) Hasher[K] {
	return funcHasher[K]{hash: hash, equal: equal}
}

// IntHasher hashes integers to themselves, the way std::hash does for
// integral types. Keys that differ by a multiple of the sparse capacity
// share a home bucket.
type IntHasher[K constraints.Integer] struct{}

func (IntHasher[K]) Hash(key K) uint64 { return uint64(key) }
func (IntHasher[K]) Equal(a, b K) bool { return a == b }

// StringHasher hashes strings with xxhash.
type StringHasher struct{}

func (StringHasher) Hash(key string) uint64 { return xxhash.Sum64String(key) }
func (StringHasher) Equal(a, b string) bool { return a == b }

// BytesHasher hashes byte slices by content.
type BytesHasher struct{}

func (BytesHasher) Hash(key []byte) uint64 { return xxhash.Sum64(key) }
func (BytesHasher) Equal(a, b []byte) bool { return bytes.Equal(a, b) }

// DefaultHasher returns the policy used by New and NewKeySet. Builtin
// integer, float and string types get a dedicated hash; any other
// comparable type is hashed field by field, see valueHash.
func DefaultHasher[K comparable]() Hasher[K] {
	var zero K
	eq := func(a, b K) bool { return a == b }
	switch any(zero).(type) {
	case int:
		return HasherFunc(func(k K) uint64 { return uint64(any(k).(int)) }, eq)
	case int8:
		return HasherFunc(func(k K) uint64 { return uint64(any(k).(int8)) }, eq)
	case int16:
		return HasherFunc(func(k K) uint64 { return uint64(any(k).(int16)) }, eq)
	case int32:
		return HasherFunc(func(k K) uint64 { return uint64(any(k).(int32)) }, eq)
	case int64:
		return HasherFunc(func(k K) uint64 { return uint64(any(k).(int64)) }, eq)
	case uint:
		return HasherFunc(func(k K) uint64 { return uint64(any(k).(uint)) }, eq)
	case uint8:
		return HasherFunc(func(k K) uint64 { return uint64(any(k).(uint8)) }, eq)
	case uint16:
		return HasherFunc(func(k K) uint64 { return uint64(any(k).(uint16)) }, eq)
	case uint32:
		return HasherFunc(func(k K) uint64 { return uint64(any(k).(uint32)) }, eq)
	case uint64:
		return HasherFunc(func(k K) uint64 { return any(k).(uint64) }, eq)
	case uintptr:
		return HasherFunc(func(k K) uint64 { return uint64(any(k).(uintptr)) }, eq)
	case float32:
		return HasherFunc(func(k K) uint64 { return floatHash(float64(any(k).(float32))) }, eq)
	case float64:
		return HasherFunc(func(k K) uint64 { return floatHash(any(k).(float64)) }, eq)
	case string:
		return HasherFunc(func(k K) uint64 { return xxhash.Sum64String(any(k).(string)) }, eq)
	default:
		return HasherFunc(func(k K) uint64 { return valueHash(reflect.ValueOf(&k).Elem()) }, eq)
	}
}

// floatHash folds -0 onto +0 so that equal floats share a hash.
func floatHash(f float64) uint64 {
	if f == 0 {
		return 0
	}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(f))
	return xxhash.Sum64(b[:])
}

// valueHash hashes v consistently with ==. Pointers and channels hash by
// address, floats fold -0 onto +0, and structs, arrays and interfaces are
// walked recursively.
func valueHash(v reflect.Value) uint64 {
	d := xxhash.New()
	writeValue(d, v)
	return d.Sum64()
}

func writeValue(d *xxhash.Digest, v reflect.Value) {
	var b [8]byte
	word := func(u uint64) {
		binary.LittleEndian.PutUint64(b[:], u)
		d.Write(b[:])
	}
	float := func(f float64) {
		if f == 0 {
			f = 0
		}
		word(math.Float64bits(f))
	}

	switch v.Kind() {
	case reflect.Bool:
		if v.Bool() {
			word(1)
		} else {
			word(0)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		word(uint64(v.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		word(v.Uint())
	case reflect.Float32, reflect.Float64:
		float(v.Float())
	case reflect.Complex64, reflect.Complex128:
		c := v.Complex()
		float(real(c))
		float(imag(c))
	case reflect.String:
		word(uint64(v.Len()))
		d.WriteString(v.String())
	case reflect.Pointer, reflect.Chan, reflect.UnsafePointer:
		word(uint64(v.Pointer()))
	case reflect.Array:
		for i := 0; i < v.Len(); i++ {
			writeValue(d, v.Index(i))
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			writeValue(d, v.Field(i))
		}
	case reflect.Interface:
		if v.IsNil() {
			word(0)
			return
		}
		writeValue(d, v.Elem())
	default:
		// Maps, slices and funcs are not comparable; == panics on them first.
		word(uint64(v.Kind()))
	}
}
