package container

import (
	"unsafe"

	"github.com/nd/bitwise/pkg/zc"
)

// ViewOf returns a compact zero-copy range over a's backing buffer,
// spanning [start, start+n). The returned [zc.View] is eight bytes
// regardless of n, so it is cheap to store in bulk (for example, one per
// token in a parser that keeps its source text in a single byte Array)
// in place of a 24-byte Go slice header.
//
// The view holds an offset and length, not a pointer; ViewBytes resolves
// it against a's backing buffer as of that call, so a view stays correct
// when a grows. Deleting bytes at or before its range, or shrinking a
// below its end, leaves it referring to other bytes rather than panicking.
func ViewOf(a *Array[byte], start, n int) zc.View {
	return zc.Raw(start, n)
}

// ViewBytes returns the bytes v refers to within a's current backing
// buffer.
func ViewBytes(a *Array[byte], v zc.View) []byte {
	if v.Len() == 0 {
		return nil
	}
	return v.Bytes((*byte)(unsafe.Pointer(a.at(0))))
}
