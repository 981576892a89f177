package allocator

import (
	"unsafe"

	"github.com/nd/bitwise/internal/debug"
	"github.com/nd/bitwise/pkg/xunsafe"
	"github.com/nd/bitwise/pkg/xunsafe/layout"
)

// poolBlockSize is the size, in bytes, of each slab a Pool carves into
// slots. A slab is sized to hold poolBlockSize/size slots, rounded up to
// at least one slot.
const poolBlockSize = 16 * 1024

// Pool is a fixed-size free-list allocator.
//
// Every allocation from a Pool must be the same size and alignment,
// recorded at construction time. Freed slots are threaded onto a
// single-linked free list using the first pointer-width bytes of the slot
// itself as the "next" link, so freeing costs no extra metadata. When the
// free list runs dry, Pool asks its parent for a new slab and carves it
// into slots.
type Pool struct {
	_ xunsafe.NoCopy

	parent   Allocator
	size     uintptr
	align    uintptr
	blockLen int
	freeList xunsafe.Addr[byte]
	blocks   [][]byte
}

var _ Allocator = (*Pool)(nil)

// NewPool constructs a Pool whose slots are all size bytes, aligned to
// align, drawing slabs from parent. size is bumped up to at least one
// pointer width, since every free slot must be able to hold a next-link.
func NewPool(parent Allocator, size, align uintptr) *Pool {
	ptrSize := unsafe.Sizeof(uintptr(0))
	if size < ptrSize {
		size = ptrSize
	}
	if align < 1 {
		align = 1
	}

	blockLen := int(layout.RoundUp(poolBlockSize, size) / size)
	if blockLen < 1 {
		blockLen = 1
	}

	return &Pool{
		parent:   parent,
		size:     size,
		align:    align,
		blockLen: blockLen,
	}
}

// Alloc returns a slot from the free list, growing the pool if it is
// empty. size and align must not exceed the values this Pool was
// constructed with.
func (p *Pool) Alloc(size, align uintptr) unsafe.Pointer {
	debug.Assert(size <= p.size, "pool: alloc size %d exceeds slot size %d", size, p.size)
	debug.Assert(align <= p.align, "pool: alloc align %d exceeds slot align %d", align, p.align)

	if p.freeList.IsZero() {
		if !p.grow() {
			return nil
		}
	}

	slot := p.freeList
	p.freeList = *(*xunsafe.Addr[byte])(unsafe.Pointer(slot.AssertValid()))
	return unsafe.Pointer(slot.AssertValid())
}

// grow asks parent for a slab of blockLen slots and threads them onto the
// free list in reverse, so the first Alloc after a grow returns the first
// slot of the new slab.
func (p *Pool) grow() bool {
	slabSize := p.size * uintptr(p.blockLen)
	raw := Alloc(p.parent, slabSize, p.align)
	if raw == nil {
		return false
	}

	slab := unsafe.Slice((*byte)(raw), slabSize)
	p.blocks = append(p.blocks, slab)

	for i := p.blockLen - 1; i >= 0; i-- {
		slot := xunsafe.AddrOf(&slab[uintptr(i)*p.size])
		*(*xunsafe.Addr[byte])(unsafe.Pointer(slot.AssertValid())) = p.freeList
		p.freeList = slot
	}
	return true
}

// Free returns ptr to the pool's free list, to be handed out by a future
// Alloc. ptr must have been returned by this Pool's Alloc.
func (p *Pool) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	slot := xunsafe.AddrOf((*byte)(ptr))
	*(*xunsafe.Addr[byte])(ptr) = p.freeList
	p.freeList = slot
}

// FreeAll returns every slab this pool has ever requested back to its
// parent, and clears the free list.
func (p *Pool) FreeAll() {
	for _, block := range p.blocks {
		Free(p.parent, unsafe.Pointer(&block[0]))
	}
	p.blocks = nil
	p.freeList = 0
}
