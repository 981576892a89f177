package allocator

import (
	"time"
	"unsafe"

	"github.com/nd/bitwise/pkg/xunsafe"
)

// Kind identifies what operation a Trace [Event] records.
type Kind int

const (
	EventAlloc Kind = iota
	EventFree
)

// Event is one recorded Alloc or Free call.
type Event struct {
	Kind      Kind
	Timestamp int64
	Ptr       unsafe.Pointer
	Size      uintptr
	Align     uintptr
}

// Trace is a delegating allocator that records every Alloc and Free it
// sees.
//
// The event log itself is backed by a second, caller-supplied allocator —
// typically not the one being traced, so that growing the log does not
// recursively append more events to itself.
type Trace struct {
	_ xunsafe.NoCopy

	parent Allocator
	events Allocator

	data unsafe.Pointer
	len  int
	cap  int
}

var _ Allocator = (*Trace)(nil)

// NewTrace constructs a Trace delegating allocation to parent and storing
// its event log through events. A nil parent or events means the process
// default.
func NewTrace(parent, events Allocator) *Trace {
	return &Trace{parent: parent, events: events}
}

// Alloc delegates to parent and records an EventAlloc entry.
func (t *Trace) Alloc(size, align uintptr) unsafe.Pointer {
	p := Alloc(t.parent, size, align)
	t.record(Event{Kind: EventAlloc, Timestamp: time.Now().Unix(), Ptr: p, Size: size, Align: align})
	return p
}

// Free delegates to parent and records an EventFree entry.
func (t *Trace) Free(p unsafe.Pointer) {
	Free(t.parent, p)
	t.record(Event{Kind: EventFree, Timestamp: time.Now().Unix(), Ptr: p})
}

// Events returns the recorded log, oldest first. The returned slice
// aliases the Trace's internal storage and is invalidated by the next
// Alloc or Free.
func (t *Trace) Events() []Event {
	if t.data == nil {
		return nil
	}
	return unsafe.Slice((*Event)(t.data), t.len)
}

// record appends e to the event log, growing the backing storage through
// t.events when it runs out of room.
func (t *Trace) record(e Event) {
	if t.len == t.cap {
		t.grow()
	}
	slot := (*Event)(unsafe.Add(t.data, uintptr(t.len)*unsafe.Sizeof(Event{})))
	*slot = e
	t.len++
}

func (t *Trace) grow() {
	newCap := t.cap * 2
	if newCap == 0 {
		newCap = 16
	}

	size := uintptr(newCap) * unsafe.Sizeof(Event{})
	raw := Alloc(t.events, size, unsafe.Alignof(Event{}))
	if raw == nil {
		panic("trace: event log allocator out of memory")
	}

	if t.data != nil {
		old := unsafe.Slice((*Event)(t.data), t.len)
		neu := unsafe.Slice((*Event)(raw), newCap)
		copy(neu, old)
		Free(t.events, t.data)
	}

	t.data = raw
	t.cap = newCap
}
