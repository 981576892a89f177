package container

import (
	"unsafe"

	"github.com/nd/bitwise/pkg/indexer"
	"github.com/nd/bitwise/pkg/xunsafe/layout"
)

// Geti looks up the element whose first keySize bytes match key, returning
// its index, or Len() if none matches.
//
// Geti, Getp, Get, Put, Del, and SetIndex are the building blocks [Map]
// and [Set] layer their typed keyed operations on top of; keySize is the
// number of leading bytes of T that make up the key (the whole of T, for
// a value-indexed collection like Set).
func (a *Array[T]) Geti(key unsafe.Pointer, keySize uintptr) int {
	if a.len == 0 {
		return 0
	}
	stride := uintptr(layout.Size[T]())
	return int(a.idx.Get(a.ops, unsafe.Pointer(a.ptr), key, uintptr(a.len), stride, keySize))
}

// Getp returns a pointer to the element whose key matches, or nil on a
// miss.
func (a *Array[T]) Getp(key unsafe.Pointer, keySize uintptr) *T {
	i := a.Geti(key, keySize)
	if i == a.len {
		return nil
	}
	return a.at(i)
}

// Get returns a pointer to the element whose key matches, or a pointer to
// the array's zero-valued default slot on a miss. Unlike Getp, Get never
// returns nil.
func (a *Array[T]) Get(key unsafe.Pointer, keySize uintptr) *T {
	i := a.Geti(key, keySize)
	if i == a.len {
		return &a.def
	}
	return a.at(i)
}

// Put inserts value, keyed by its first keySize bytes, or overwrites the
// existing element with a matching key. It returns the element's index.
//
// Before inserting, Put auto-upgrades the array's indexer from [indexer.Linear]
// to [indexer.Hash] once the array reaches 32 elements, rebuilding the new
// index from every existing element.
func (a *Array[T]) Put(value T, keySize uintptr) int {
	a.maybeUpgradeIndexer(keySize)

	stride := uintptr(layout.Size[T]())
	key := unsafe.Pointer(&value)

	i := a.idx.Put(a.ops, unsafe.Pointer(a.ptr), key, uintptr(a.len), stride, keySize)
	if i == uintptr(a.len) {
		idx := a.Push(value)
		a.idx.Set(a.ops, uintptr(idx), key, keySize)
		return idx
	}

	*a.at(int(i)) = value
	return int(i)
}

// Del removes the element whose key matches, moving the last element into
// its place (and informing the indexer of the move), and reports whether
// a match was found.
func (a *Array[T]) Del(key unsafe.Pointer, keySize uintptr) bool {
	if a.len == 0 {
		return false
	}

	stride := uintptr(layout.Size[T]())
	i := a.idx.Del(a.ops, unsafe.Pointer(a.ptr), key, uintptr(a.len), stride, keySize)
	if i == uintptr(a.len) {
		return false
	}

	last := a.len - 1
	if int(i) != last {
		*a.at(int(i)) = *a.at(last)
		a.idx.Set(a.ops, i, unsafe.Pointer(a.at(int(i))), keySize)
	}
	a.len--
	return true
}

// SetIndex replaces the array's indexing strategy, freeing the old one
// and rebuilding the new one from every existing element.
func (a *Array[T]) SetIndex(idx indexer.Indexer, keySize uintptr) {
	if a.idx != nil {
		a.idx.Free()
	}
	a.idx = idx

	for i := 0; i < a.len; i++ {
		idx.Set(a.ops, uintptr(i), unsafe.Pointer(a.at(i)), keySize)
	}
}

func (a *Array[T]) maybeUpgradeIndexer(keySize uintptr) {
	// Upgrade before the insertion that would bring the array to
	// hashUpgradeThreshold elements, not after, so that Put on the
	// threshold-th distinct key is already served by the hash index.
	if a.len < hashUpgradeThreshold-1 {
		return
	}
	if _, ok := a.idx.(indexer.Linear); !ok {
		return
	}
	a.SetIndex(&indexer.Hash{}, keySize)
}
