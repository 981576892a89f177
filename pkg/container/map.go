package container

import (
	"unsafe"

	"github.com/dolthub/maphash"

	"github.com/nd/bitwise/pkg/allocator"
	"github.com/nd/bitwise/pkg/indexer"
	"github.com/nd/bitwise/pkg/opt"
)

// entry is one key/value pair stored in a Map. Key must be the first
// field: a Map's keySize is sizeof(K), so the indexer's "first keySize
// bytes" view of an entry is exactly its key.
type entry[K comparable, V any] struct {
	Key   K
	Value V
}

// Map is a keyed collection built on [Array]: a growable table of
// key/value pairs, starting out linearly scanned and auto-upgrading to a
// hash index at 32 elements.
type Map[K comparable, V any] struct {
	arr Array[entry[K, V]]
}

// NewMap constructs an empty Map drawing its backing storage from alloc.
//
// A key's first keySize bytes, as seen by the underlying indexer, are
// exactly its entry's Key field, but K may contain pointers (a string's
// data pointer and length, for instance), so comparing or hashing those
// bytes directly would compare header representations instead of key
// content. NewMap installs a KeyOps built from K's own == and a
// content-aware hash instead of leaving the array on the raw-byte
// default.
func NewMap[K comparable, V any](alloc allocator.Allocator) Map[K, V] {
	m := Map[K, V]{arr: New[entry[K, V]](alloc)}

	hasher := maphash.NewHasher[K]()
	m.arr.SetOps(indexer.KeyOps{
		Hash: func(key unsafe.Pointer, size uintptr) uint64 {
			return hasher.Hash(*(*K)(key))
		},
		Equal: func(a, b unsafe.Pointer, size uintptr) bool {
			return *(*K)(a) == *(*K)(b)
		},
	})

	return m
}

// Len returns the number of key/value pairs.
func (m *Map[K, V]) Len() int { return m.arr.Len() }

func (m *Map[K, V]) keySize() uintptr {
	var k K
	return unsafe.Sizeof(k)
}

// Geti returns the index of the entry keyed by k, or Len() if absent.
func (m *Map[K, V]) Geti(k K) int {
	return m.arr.Geti(unsafe.Pointer(&k), m.keySize())
}

// Getp returns a pointer to the value stored under k, or nil if absent.
func (m *Map[K, V]) Getp(k K) *V {
	e := m.arr.Getp(unsafe.Pointer(&k), m.keySize())
	if e == nil {
		return nil
	}
	return &e.Value
}

// Get returns the value stored under k, or the zero value of V if absent.
func (m *Map[K, V]) Get(k K) V {
	return m.arr.Get(unsafe.Pointer(&k), m.keySize()).Value
}

// TryGet returns the value stored under k wrapped in opt.Some, or
// opt.None if k is absent. Unlike Get, a caller can distinguish "absent"
// from "present with the zero value" without a second lookup.
func (m *Map[K, V]) TryGet(k K) opt.Option[V] {
	e := m.arr.Getp(unsafe.Pointer(&k), m.keySize())
	if e == nil {
		return opt.None[V]()
	}
	return opt.Some(e.Value)
}

// Put inserts or overwrites the value stored under k.
func (m *Map[K, V]) Put(k K, v V) {
	m.arr.Put(entry[K, V]{Key: k, Value: v}, m.keySize())
}

// Del removes the entry keyed by k, if present, and reports whether it
// was found.
func (m *Map[K, V]) Del(k K) bool {
	return m.arr.Del(unsafe.Pointer(&k), m.keySize())
}

// Free releases the map's backing storage and indexer.
func (m *Map[K, V]) Free() { m.arr.Free() }

// Range calls fn for every key/value pair in the map, in storage order
// (not insertion order after a Del, since Del relocates the last entry).
func (m *Map[K, V]) Range(fn func(k K, v V) bool) {
	for _, e := range m.arr.Raw() {
		if !fn(e.Key, e.Value) {
			return
		}
	}
}
