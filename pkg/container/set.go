package container

import (
	"unsafe"

	"github.com/dolthub/maphash"

	"github.com/nd/bitwise/pkg/allocator"
	"github.com/nd/bitwise/pkg/indexer"
)

// Set is a keyed collection of unique T values: the "value-indexed
// variant" of the array substrate, where the whole element is the key
// (keySize = sizeof(T)) rather than a prefix of it.
type Set[T comparable] struct {
	arr Array[T]
}

// NewSet constructs an empty Set drawing its backing storage from alloc.
//
// The indexer's key view of an element is the whole of T, which may
// contain pointers (a string's data pointer and length, for instance), so
// NewSet installs a KeyOps built from T's own == and a content-aware hash
// rather than leaving the array on the raw-byte default — see
// [NewMap] for why that matters.
func NewSet[T comparable](alloc allocator.Allocator) Set[T] {
	s := Set[T]{arr: New[T](alloc)}

	hasher := maphash.NewHasher[T]()
	s.arr.SetOps(indexer.KeyOps{
		Hash: func(key unsafe.Pointer, size uintptr) uint64 {
			return hasher.Hash(*(*T)(key))
		},
		Equal: func(a, b unsafe.Pointer, size uintptr) bool {
			return *(*T)(a) == *(*T)(b)
		},
	})

	return s
}

// Len returns the number of elements.
func (s *Set[T]) Len() int { return s.arr.Len() }

func (s *Set[T]) keySize() uintptr {
	var z T
	return unsafe.Sizeof(z)
}

// Has reports whether v is a member of the set.
func (s *Set[T]) Has(v T) bool {
	return s.arr.Geti(unsafe.Pointer(&v), s.keySize()) != s.arr.Len()
}

// Add inserts v if it is not already a member, and reports whether it was
// newly added.
func (s *Set[T]) Add(v T) bool {
	before := s.arr.Len()
	s.arr.Put(v, s.keySize())
	return s.arr.Len() != before
}

// Del removes v, if present, and reports whether it was found.
func (s *Set[T]) Del(v T) bool {
	return s.arr.Del(unsafe.Pointer(&v), s.keySize())
}

// Free releases the set's backing storage and indexer.
func (s *Set[T]) Free() { s.arr.Free() }

// Range calls fn for every element of the set, in storage order (not
// insertion order after a Del, since Del relocates the last element).
func (s *Set[T]) Range(fn func(v T) bool) {
	for _, v := range s.arr.Raw() {
		if !fn(v) {
			return
		}
	}
}
