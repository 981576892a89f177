package allocator

import (
	"unsafe"

	"github.com/nd/bitwise/pkg/xunsafe"
	"github.com/nd/bitwise/pkg/xunsafe/layout"
)

// arenaMinBlockSize is the size of the first block an Arena asks its
// parent for; blockSize doubles every time the current block runs out.
const arenaMinBlockSize = 4 * 1024

// arenaMinBlockAlign is the alignment an Arena requests for every block,
// regardless of what any individual allocation needs.
const arenaMinBlockAlign = 16

// Arena is a growing-block bump allocator.
//
// Arena never frees individual allocations; [Arena.FreeAll] returns every
// block it has ever requested back to its parent in one shot. Arenas
// compose: an Arena's parent may be another Arena, a Pool, or the process
// default, so nested scopes can share an outer arena's backing memory
// without coupling their lifetimes to it.
//
// A zero Arena is ready to use; its parent is the process default.
type Arena struct {
	_ xunsafe.NoCopy

	parent    Allocator
	blockSize uintptr
	blocks    [][]byte
	next, end xunsafe.Addr[byte]
}

var _ Allocator = (*Arena)(nil)

// NewArena constructs an Arena that draws its blocks from parent. A nil
// parent means the process default allocator.
func NewArena(parent Allocator) *Arena {
	return &Arena{parent: parent}
}

// Alloc tries to satisfy the request out of the current block; on miss it
// grows by asking parent for a new block. Growth never leaves the arena in
// a partially-updated state: if parent.Alloc fails, Alloc returns nil and
// the arena's existing blocks are untouched.
func (a *Arena) Alloc(size, align uintptr) unsafe.Pointer {
	if size == 0 {
		size = 1
	}

	if aligned := layout.RoundUp(uintptr(a.next), align); aligned+size <= uintptr(a.end) {
		a.next = xunsafe.Addr[byte](aligned + size)
		return unsafe.Pointer(xunsafe.Addr[byte](aligned).AssertValid())
	}

	if !a.grow(size, align) {
		return nil
	}

	aligned := layout.RoundUp(uintptr(a.next), align)
	a.next = xunsafe.Addr[byte](aligned + size)
	return unsafe.Pointer(xunsafe.Addr[byte](aligned).AssertValid())
}

// grow requests a fresh block large enough to hold size bytes aligned to
// align, appends it to blocks, and repoints next/end at it.
func (a *Arena) grow(size, align uintptr) bool {
	blockSize := a.blockSize * 2
	if a.blockSize == 0 {
		blockSize = arenaMinBlockSize
	}

	blockAlign := max(arenaMinBlockAlign, align)
	need := layout.RoundUp(size, blockAlign)
	if blockSize < need {
		blockSize = need
	}

	p := Alloc(a.parent, blockSize, blockAlign)
	if p == nil {
		return false
	}
	a.blockSize = blockSize

	block := unsafe.Slice((*byte)(p), blockSize)
	a.blocks = append(a.blocks, block)
	a.next = xunsafe.AddrOf(&block[0])
	a.end = a.next.Add(len(block))
	return true
}

// Free is a no-op: Arena only supports bulk release via FreeAll.
func (a *Arena) Free(unsafe.Pointer) {}

// FreeAll returns every block this arena has ever requested back to its
// parent, and resets the arena to its zero-block state.
func (a *Arena) FreeAll() {
	for _, block := range a.blocks {
		Free(a.parent, unsafe.Pointer(&block[0]))
	}
	a.blocks = nil
	a.blockSize = 0
	a.next, a.end = 0, 0
}

// Empty reports whether the arena currently holds no blocks. It is true
// right after construction and right after FreeAll.
func (a *Arena) Empty() bool {
	return len(a.blocks) == 0
}
