package indexer

import (
	"sync"
	"unsafe"

	"github.com/dolthub/maphash"
)

// hashEmpty marks a slot that has never held an entry.
const hashEmpty uint32 = 0xffff_ffff

// hashDeleted marks a slot whose entry was removed; probing continues
// past it, but a later insert may reclaim it.
const hashDeleted uint32 = 0xffff_fffe

const hashMinCap = 16

const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

// processSalt seasons every Hash's hash function with a value unique to
// this process, derived once from Go's own randomized hash seed, so that
// two runs of the same program probe keys in a different order.
var processSalt = sync.OnceValue(func() uint64 {
	return maphash.NewHasher[int]().Hash(0)
})

// HashBytes hashes size raw bytes starting at key with FNV-1a plus a
// mixing step, salted once per process. It is the Bytes KeyOps' Hash
// func, and [pkg/intern] also calls it directly to hash interned byte
// content (not a struct representation, so the raw-bytes approach is
// correct there).
func HashBytes(key unsafe.Pointer, size uintptr) uint64 {
	h := uint64(fnvOffset64) ^ processSalt()
	buf := unsafe.Slice((*byte)(key), size)
	for _, b := range buf {
		h ^= uint64(b)
		h *= fnvPrime64
		h ^= h >> 32
	}
	return h
}

func hashBytes(key unsafe.Pointer, size uintptr) uint64 {
	return HashBytes(key, size)
}

// slot is one entry in a Hash's open-addressed table: I is the index of
// the matching element in the caller's array, H is the element's stored
// hash (or one of the hashEmpty/hashDeleted sentinels).
type slot struct {
	I uint32
	H uint32
}

// Hash is an open-addressed, linearly-probed keyed index.
//
// Hash keeps no reference to the array it indexes; every call is handed
// the array's base pointer, length, stride, and key size explicitly, plus
// the [KeyOps] to hash and compare keys with. Capacity starts at 16 and
// doubles whenever occupancy (live entries, excluding tombstones) would
// exceed cap/2 + cap/4.
//
// A zero Hash is ready to use; its table is allocated lazily on first use.
type Hash struct {
	slots []slot
	live  int
}

var _ Indexer = (*Hash)(nil)

func (h *Hash) ensureInit() {
	if h.slots != nil {
		return
	}
	h.slots = make([]slot, hashMinCap)
	for i := range h.slots {
		h.slots[i].H = hashEmpty
	}
}

func (h *Hash) mask() uintptr { return uintptr(len(h.slots) - 1) }

// lookup scans the probe sequence for key, returning the matching
// element's index or length if absent. Shared by Get/Put, which are
// specified to behave identically.
func (h *Hash) lookup(ops KeyOps, base, key unsafe.Pointer, length, stride, keySize uintptr) uintptr {
	if h.slots == nil {
		return length
	}

	hv := ops.Hash(key, keySize)
	mask := h.mask()
	i := uintptr(hv) & mask

	for {
		s := &h.slots[i]
		if s.H == hashEmpty {
			return length
		}
		if s.H == uint32(hv) && uintptr(s.I) < length {
			elem := unsafe.Add(base, uintptr(s.I)*stride)
			if ops.Equal(elem, key, keySize) {
				return uintptr(s.I)
			}
		}
		i = (i + 1) & mask
	}
}

// Get returns the index of the element whose key matches, or length.
func (h *Hash) Get(ops KeyOps, base, key unsafe.Pointer, length, stride, keySize uintptr) uintptr {
	return h.lookup(ops, base, key, length, stride, keySize)
}

// Put behaves exactly like Get: the caller appends a fresh element and
// calls Set when this returns length.
func (h *Hash) Put(ops KeyOps, base, key unsafe.Pointer, length, stride, keySize uintptr) uintptr {
	return h.lookup(ops, base, key, length, stride, keySize)
}

// Del locates the element whose key matches, tombstones its table slot,
// and returns its index (or length if absent).
func (h *Hash) Del(ops KeyOps, base, key unsafe.Pointer, length, stride, keySize uintptr) uintptr {
	if h.slots == nil {
		return length
	}

	hv := ops.Hash(key, keySize)
	mask := h.mask()
	i := uintptr(hv) & mask

	for {
		s := &h.slots[i]
		if s.H == hashEmpty {
			return length
		}
		if s.H == uint32(hv) && uintptr(s.I) < length {
			elem := unsafe.Add(base, uintptr(s.I)*stride)
			if ops.Equal(elem, key, keySize) {
				found := uintptr(s.I)
				s.H = hashDeleted
				h.live--
				return found
			}
		}
		i = (i + 1) & mask
	}
}

// Set records that the element at index now holds key: it either updates
// an existing entry for key's hash (used when a swap-delete relocates an
// element) or inserts a new one (used after a Put miss), growing and
// rehashing the table if occupancy would exceed the load threshold.
func (h *Hash) Set(ops KeyOps, index uintptr, key unsafe.Pointer, keySize uintptr) {
	h.ensureInit()

	hv := ops.Hash(key, keySize)
	mask := h.mask()
	i := uintptr(hv) & mask
	tomb := -1

	for {
		s := &h.slots[i]
		switch {
		case s.H == hashEmpty:
			target := i
			if tomb >= 0 {
				target = uintptr(tomb)
			}
			h.slots[target] = slot{I: uint32(index), H: uint32(hv)}
			h.live++
			if h.live > hashThreshold(len(h.slots)) {
				h.grow()
			}
			return
		case s.H == hashDeleted:
			if tomb < 0 {
				tomb = int(i)
			}
		case s.H == uint32(hv):
			s.I = uint32(index)
			return
		}
		i = (i + 1) & mask
	}
}

// grow doubles the table and reinserts every live entry by its stored
// hash; no key bytes need to be re-read, since H already records them.
func (h *Hash) grow() {
	old := h.slots
	h.slots = make([]slot, len(old)*2)
	for i := range h.slots {
		h.slots[i].H = hashEmpty
	}

	mask := h.mask()
	for _, s := range old {
		if s.H == hashEmpty || s.H == hashDeleted {
			continue
		}
		i := uintptr(s.H) & mask
		for h.slots[i].H != hashEmpty {
			i = (i + 1) & mask
		}
		h.slots[i] = s
	}
}

// Free releases the indexer's table.
func (h *Hash) Free() {
	h.slots = nil
	h.live = 0
}

func hashThreshold(cap int) int {
	return cap/2 + cap/4
}
