package indexer

import "unsafe"

// Linear is an unindexed O(n) scan. It allocates nothing, so it is the
// right strategy for small collections where a hash table's bookkeeping
// overhead would dominate; container.Map/Set default to it and upgrade to
// [Hash] once a collection grows past a size threshold.
//
// Linear's zero value is ready to use; it carries no state, so a single
// package-level instance can back every small collection.
type Linear struct{}

var _ Indexer = Linear{}

// Get scans length elements at stride apart, comparing each against key
// via ops.Equal, and returns the first match or length.
func (Linear) Get(ops KeyOps, base, key unsafe.Pointer, length, stride, keySize uintptr) uintptr {
	return scan(ops, base, key, length, stride, keySize)
}

// Put behaves exactly like Get: a miss returns length, signaling the
// caller to append a new element there.
func (Linear) Put(ops KeyOps, base, key unsafe.Pointer, length, stride, keySize uintptr) uintptr {
	return scan(ops, base, key, length, stride, keySize)
}

// Del behaves exactly like Get.
func (Linear) Del(ops KeyOps, base, key unsafe.Pointer, length, stride, keySize uintptr) uintptr {
	return scan(ops, base, key, length, stride, keySize)
}

// Set is a no-op: Linear keeps no index to update.
func (Linear) Set(ops KeyOps, index uintptr, key unsafe.Pointer, keySize uintptr) {}

// Free is a no-op: Linear never allocates.
func (Linear) Free() {}

func scan(ops KeyOps, base, key unsafe.Pointer, length, stride, keySize uintptr) uintptr {
	for i := uintptr(0); i < length; i++ {
		elem := unsafe.Add(base, i*stride)
		if ops.Equal(elem, key, keySize) {
			return i
		}
	}
	return length
}

// keysEqual is the Bytes KeyOps' Equal func: a byte-for-byte comparison
// of a key's raw representation.
func keysEqual(a, b unsafe.Pointer, size uintptr) bool {
	pa := unsafe.Slice((*byte)(a), size)
	pb := unsafe.Slice((*byte)(b), size)
	for i := range pa {
		if pa[i] != pb[i] {
			return false
		}
	}
	return true
}
