package allocator

import (
	"unsafe"

	"github.com/nd/bitwise/internal/debug"
	"github.com/nd/bitwise/pkg/xunsafe"
	"github.com/nd/bitwise/pkg/xunsafe/layout"
)

// Temp is a fixed-buffer bump allocator.
//
// It does not own the buffer it was constructed over and never grows;
// Alloc returns nil once the buffer is exhausted. Individual allocations
// cannot be freed — use [Temp.Begin]/[Temp.End] to rewind a whole run of
// allocations at once.
//
// A zero Temp is not usable; construct one with [NewTemp].
type Temp struct {
	_ xunsafe.NoCopy

	start, next, end xunsafe.Addr[byte]
}

var _ Allocator = (*Temp)(nil)

// NewTemp constructs a Temp allocator over buf. buf must outlive t.
func NewTemp(buf []byte) *Temp {
	t := &Temp{}
	if len(buf) == 0 {
		return t
	}
	t.start = xunsafe.AddrOf(&buf[0])
	t.next = t.start
	t.end = t.start.Add(len(buf))
	return t
}

// Alloc bumps next forward by size, aligned up to align, and returns the
// aligned pointer. Returns nil if the reservation would exceed the buffer.
func (t *Temp) Alloc(size, align uintptr) unsafe.Pointer {
	if t.start.IsZero() {
		return nil
	}

	aligned := xunsafe.Addr[byte](layout.RoundUp(uintptr(t.next), align))
	reserved := aligned.Add(int(size))
	if reserved > t.end {
		return nil
	}

	t.next = reserved
	return unsafe.Pointer(aligned.AssertValid())
}

// Free is a no-op: Temp only supports bulk rewind via Mark.
func (t *Temp) Free(unsafe.Pointer) {}

// Mark is a snapshot of a Temp's bump cursor, produced by [Temp.Begin] and
// consumed by [Temp.End].
type Mark struct{ next xunsafe.Addr[byte] }

// Begin snapshots the current bump cursor.
func (t *Temp) Begin() Mark { return Mark{t.next} }

// End rewinds t's cursor back to m, asserting that m was produced by this
// same Temp (i.e. lies within [start, end]) — rewinding to a foreign mark
// is a contract violation, not a runtime condition.
func (t *Temp) End(m Mark) {
	debug.Assert(m.next >= t.start && m.next <= t.end, "temp: mark out of range")
	t.next = m.next
}
