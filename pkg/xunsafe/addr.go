package xunsafe

import (
	"fmt"
	"unsafe"

	"github.com/nd/bitwise/pkg/xunsafe/layout"
)

// Addr is a typed pointer represented as a raw address.
//
// Unlike *T, an Addr[T] is not traced by the garbage collector: storing one
// does not keep its target alive. Every allocator in this module keeps its
// backing blocks alive itself (as an ordinary Go slice), so Addr is used
// internally for bump-pointer bookkeeping (next/end cursors, free-list
// links) where a GC-traced pointer would just be dead weight.
type Addr[T any] uintptr

// AddrOf takes the address of p.
//
// p must not be nil; a nil Addr is indistinguishable from address zero.
func AddrOf[T any](p *T) Addr[T] {
	return Addr[T](uintptr(unsafe.Pointer(p)))
}

// AssertValid reinterprets this address as a live pointer.
//
// The caller is responsible for ensuring the memory it refers to is still
// reachable through some other GC-traced root (typically an allocator's
// block list).
func (a Addr[T]) AssertValid() *T {
	return (*T)(unsafe.Pointer(uintptr(a)))
}

// Add adds n elements' worth of offset to a, scaled by the size of T.
func (a Addr[T]) Add(n int) Addr[T] {
	return a + Addr[T](uintptr(n)*uintptr(layout.Size[T]()))
}

// Sub computes the distance, in elements, from b to a.
func (a Addr[T]) Sub(b Addr[T]) int {
	return int(uintptr(a)-uintptr(b)) / layout.Size[T]()
}

// IsZero reports whether a is the zero address.
func (a Addr[T]) IsZero() bool { return a == 0 }

// String implements fmt.Stringer.
func (a Addr[T]) String() string {
	return fmt.Sprintf("%#x", uintptr(a))
}
