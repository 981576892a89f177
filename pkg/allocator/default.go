package allocator

import (
	"sync"
	"unsafe"

	"github.com/nd/bitwise/pkg/xunsafe/layout"
)

// processAllocator is the process-default allocator: it hands out memory
// straight from the Go heap. Free is a no-op, since Go is garbage
// collected — processAllocator exists purely so that a nil Allocator
// value always has something to dispatch to.
type processAllocator struct{}

func (processAllocator) Alloc(size, align uintptr) unsafe.Pointer {
	if size == 0 {
		size = 1
	}
	if align == 0 {
		align = 1
	}
	buf := make([]byte, size+align-1)
	base := uintptr(unsafe.Pointer(&buf[0]))
	return unsafe.Add(unsafe.Pointer(&buf[0]), layout.RoundUp(base, align)-base)
}

func (processAllocator) Free(unsafe.Pointer) {}

var defaultAllocator = sync.OnceValue(func() Allocator {
	return processAllocator{}
})

// Default returns the process-default allocator, backed by the Go heap.
func Default() Allocator {
	return defaultAllocator()
}
