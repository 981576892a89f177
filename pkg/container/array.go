// Package container implements the array substrate: a single growable,
// optionally keyed sequence type that [Array], [Map], and [Set] are all
// built from.
package container

import (
	"fmt"
	"unsafe"

	"github.com/nd/bitwise/pkg/allocator"
	"github.com/nd/bitwise/pkg/indexer"
	"github.com/nd/bitwise/pkg/xunsafe"
	"github.com/nd/bitwise/pkg/xunsafe/layout"
)

// hashUpgradeThreshold is the element count at which a keyed Array
// replaces its Linear indexer with a Hash one.
const hashUpgradeThreshold = 32

// Array is a growable sequence of T, optionally keyed by a prefix of each
// element's bytes.
//
// Array owns its own allocator, backing storage, and indexing strategy —
// a "fat handle" rather than a single header-prefixed allocation: the
// allocator, length, capacity, index, and a zero-valued default element
// (returned by [Array.Get] on a miss) are all fields of the struct itself.
// The zero Array is empty and usable for plain sequence operations; use
// [New] to get one whose indexer is ready for keyed operations.
type Array[T any] struct {
	alloc allocator.Allocator
	ptr   *T
	len   int
	cap   int
	idx   indexer.Indexer
	ops   indexer.KeyOps
	def   T
}

// New constructs an empty Array drawing its backing storage from alloc. A
// nil alloc means the process default.
//
// The array's keyed operations (Geti, Put, Del, ...) default to comparing
// keys as raw bytes via [indexer.Bytes], which is correct for flat,
// pointerless key types. [Map] and [Set] replace it with a KeyOps built
// from their key type's real equality and a content-aware hash, via
// [Array.SetOps].
func New[T any](alloc allocator.Allocator) Array[T] {
	return Array[T]{alloc: alloc, idx: indexer.Linear{}, ops: indexer.Bytes}
}

// SetOps replaces the KeyOps used to hash and compare keys in every keyed
// operation. Map and Set call this once, right after New, to install a
// KeyOps derived from their key type's own == instead of the Bytes
// default.
func (a *Array[T]) SetOps(ops indexer.KeyOps) {
	a.ops = ops
}

// Len returns the number of live elements.
func (a *Array[T]) Len() int { return a.len }

// Cap returns the number of elements the backing storage can hold without
// reallocating.
func (a *Array[T]) Cap() int { return a.cap }

func (a *Array[T]) at(i int) *T {
	return xunsafe.Add(a.ptr, i)
}

// At returns a pointer to the element at i. The pointer is stable across
// operations that neither resize nor delete.
func (a *Array[T]) At(i int) *T {
	if i < 0 || i >= a.len {
		return nil
	}
	return a.at(i)
}

// Raw returns a slice aliasing the array's live elements. It is
// invalidated by any operation that grows or shrinks the array.
func (a *Array[T]) Raw() []T {
	if a.len == 0 {
		return nil
	}
	return unsafe.Slice(a.ptr, a.len)
}

// SetCap resizes the backing storage to hold exactly newCap elements.
//
// Growing applies a 1.5x growth floor so that a sequence of pushes
// reallocates only O(log n) times; newCap below that floor is rounded up
// to it. Shrinking below the current length clamps Len to the new
// capacity. Existing elements and the default slot are preserved across
// the move.
func (a *Array[T]) SetCap(newCap int) {
	if newCap < 0 {
		newCap = 0
	}

	if newCap > a.cap {
		if floor := a.cap + a.cap/2; newCap < floor {
			newCap = floor
		}
	}

	if newCap == a.cap {
		return
	}

	var newPtr *T
	if newCap > 0 {
		size := uintptr(layout.Size[T]()) * uintptr(newCap)
		align := uintptr(layout.Align[T]())
		raw := allocator.Alloc(a.alloc, size, align)
		newPtr = (*T)(raw)

		if a.ptr != nil && a.len > 0 {
			n := a.len
			if n > newCap {
				n = newCap
			}
			copy(unsafe.Slice(newPtr, n), unsafe.Slice(a.ptr, n))
		}
	}

	if a.ptr != nil {
		allocator.Free(a.alloc, unsafe.Pointer(a.ptr))
	}

	a.ptr = newPtr
	a.cap = newCap
	if a.len > a.cap {
		a.len = a.cap
	}
}

// Fit grows the backing storage so Cap is at least minCap; it is a no-op
// if the array already has enough room.
func (a *Array[T]) Fit(minCap int) {
	if minCap > a.cap {
		a.SetCap(minCap)
	}
}

// SetLen sets Len to newLen, clamped to Cap. It does not initialize any
// newly-exposed elements.
func (a *Array[T]) SetLen(newLen int) {
	if newLen < 0 {
		newLen = 0
	}
	if newLen > a.cap {
		newLen = a.cap
	}
	a.len = newLen
}

// Fill appends n copies of value to the tail of the array.
func (a *Array[T]) Fill(value T, n int) {
	if n <= 0 {
		return
	}
	a.Fit(a.len + n)
	for i := 0; i < n; i++ {
		*a.at(a.len + i) = value
	}
	a.len += n
}

// Push appends value and returns its index.
func (a *Array[T]) Push(value T) int {
	a.Fit(a.len + 1)
	idx := a.len
	*a.at(idx) = value
	a.len++
	return idx
}

// Pop removes and returns the last element. ok is false if the array was
// empty, in which case the returned value is the zero value of T.
func (a *Array[T]) Pop() (value T, ok bool) {
	if a.len == 0 {
		return value, false
	}
	a.len--
	return *a.at(a.len), true
}

// CatN appends every element of src to the tail of the array.
//
// src may alias the array's own backing storage (as when appending an
// array to itself): if growth relocates the buffer, CatN detects that src
// pointed into the old buffer and rewrites it to the equivalent offset in
// the new one before copying.
func (a *Array[T]) CatN(src []T) {
	n := len(src)
	if n == 0 {
		return
	}

	oldPtr := a.ptr
	oldCap := a.cap
	a.Fit(a.len + n)

	if a.ptr != oldPtr && oldPtr != nil && len(src) > 0 {
		srcAddr := xunsafe.AddrOf(&src[0])
		oldStart := xunsafe.AddrOf(oldPtr)
		oldEnd := oldStart.Add(oldCap)

		if srcAddr >= oldStart && srcAddr < oldEnd {
			offset := srcAddr.Sub(oldStart)
			newBase := xunsafe.AddrOf(a.ptr).Add(offset)
			src = unsafe.Slice(newBase.AssertValid(), n)
		}
	}

	copy(unsafe.Slice(a.at(a.len), n), src)
	a.len += n
}

// DelN removes the n elements starting at i, shifting the tail down. n is
// clamped to len-i.
func (a *Array[T]) DelN(i, n int) {
	if i < 0 || i >= a.len || n <= 0 {
		return
	}
	if n > a.len-i {
		n = a.len - i
	}

	tail := a.len - i - n
	if tail > 0 {
		copy(unsafe.Slice(a.at(i), tail), unsafe.Slice(a.at(i+n), tail))
	}
	a.len -= n
}

// Free releases the array's indexer and backing storage. The array must
// not be used afterward.
func (a *Array[T]) Free() {
	if a.idx != nil {
		a.idx.Free()
	}
	if a.ptr != nil {
		allocator.Free(a.alloc, unsafe.Pointer(a.ptr))
	}
	a.ptr = nil
	a.len, a.cap = 0, 0
}

// AppendFormat writes fmt.Sprintf(format, args...) to the tail of a byte
// array, growing it if the formatted text does not fit in the array's
// existing slack. It returns the number of bytes written.
//
// This is the Go-idiomatic stand-in for a C aprintf: it formats with
// fmt.Appendf straight into the slack; if the text did not fit, it grows
// the array to the measured length and formats a second time in place.
func AppendFormat(a *Array[byte], format string, args ...any) int {
	for attempt := 0; attempt < 2; attempt++ {
		slack := a.Cap() - a.Len()
		var buf []byte
		if slack > 0 {
			buf = unsafe.Slice(a.at(a.Len()), slack)[:0]
		}

		out := fmt.Appendf(buf, format, args...)
		if len(out) <= slack {
			a.SetLen(a.Len() + len(out))
			return len(out)
		}

		a.Fit(a.Len() + len(out))
	}

	panic("container: AppendFormat did not fit after growing")
}
