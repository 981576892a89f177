// Package intern implements a name interner: repeated calls with
// byte-equal content return the exact same backing storage, so that
// callers can compare interned strings by pointer instead of by content.
package intern

import (
	"bytes"
	"unsafe"

	"github.com/nd/bitwise/pkg/allocator"
	"github.com/nd/bitwise/pkg/container"
	"github.com/nd/bitwise/pkg/indexer"
)

// node is one interned name, owned by its Interner's arena. bytes holds
// the interned content plus a trailing NUL, so byte slices handed out by
// Intern can be passed to C-style APIs expecting a NUL terminator without
// copying.
type node struct {
	bytes []byte
}

// Interner deduplicates byte strings.
//
// Every interned name is allocated once, from the interner's own arena,
// and stays valid until [Interner.Free]. Interner is not safe for
// concurrent use from multiple goroutines; give each goroutine its own
// Interner, or synchronize externally.
type Interner struct {
	arena   *allocator.Arena
	primary container.Map[uint64, *node]
	buckets container.Map[uint64, container.Array[*node]]
}

// New constructs an empty Interner drawing its memory from parent. A nil
// parent means the process default allocator.
func New(parent allocator.Allocator) *Interner {
	arena := allocator.NewArena(parent)
	return &Interner{
		arena:   arena,
		primary: container.NewMap[uint64, *node](arena),
		buckets: container.NewMap[uint64, container.Array[*node]](arena),
	}
}

// Intern returns the interner's canonical copy of b's content. Calling
// Intern again with byte-equal content returns the exact same slice.
func (in *Interner) Intern(b []byte) []byte {
	h := hashOf(b)

	if n := in.primary.Getp(h); n != nil {
		if bytes.Equal(nodeContent(*n), b) {
			return nodeContent(*n)
		}

		if list := in.buckets.Getp(h); list != nil {
			for _, cn := range list.Raw() {
				if bytes.Equal(nodeContent(cn), b) {
					return nodeContent(cn)
				}
			}
		}

		nn := in.newNode(b)
		list := in.buckets.Getp(h)
		if list == nil {
			in.buckets.Put(h, container.New[*node](in.arena))
			list = in.buckets.Getp(h)
		}
		list.Push(nn)
		return nodeContent(nn)
	}

	nn := in.newNode(b)
	in.primary.Put(h, nn)
	return nodeContent(nn)
}

// Free releases every interned name and the interner's own bookkeeping in
// one sweep. Names returned by Intern must not be used afterward.
func (in *Interner) Free() {
	in.buckets.Free()
	in.primary.Free()
	in.arena.FreeAll()
}

func (in *Interner) newNode(b []byte) *node {
	n := allocator.New[node](in.arena)

	raw := allocator.Alloc(in.arena, uintptr(len(b)+1), 1)
	buf := unsafe.Slice((*byte)(raw), len(b)+1)
	copy(buf, b)
	buf[len(b)] = 0

	n.bytes = buf
	return n
}

// nodeContent returns n's interned bytes without the trailing NUL.
func nodeContent(n *node) []byte {
	return n.bytes[:len(n.bytes)-1]
}

func hashOf(b []byte) uint64 {
	var p unsafe.Pointer
	if len(b) > 0 {
		p = unsafe.Pointer(&b[0])
	}
	return indexer.HashBytes(p, uintptr(len(b)))
}
