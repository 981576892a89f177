// Package indexer implements pluggable keyed-lookup strategies over a flat
// array of fixed-stride elements. An Indexer never owns the array itself;
// it is handed a base pointer, element count, stride, and key size on
// every call, and tracks whatever bookkeeping it needs (if any) to answer
// lookups faster than a linear scan.
package indexer

import "unsafe"

// KeyOps supplies the hash and equality functions an Indexer uses to
// tell keys apart. An Indexer never interprets key bytes itself; it
// always goes through the KeyOps it is handed.
//
// Bytes, the default, treats a key as its raw keySize-byte
// representation. That is correct for types with no pointer-shaped
// field — ints, fixed-size arrays, flat structs — where two equal values
// are guaranteed to share the same bytes. It is wrong for a string, or
// any type containing a pointer, slice, map, or interface: two equal
// values of those types (e.g. two strings with identical content built
// from different backing arrays) need not have identical representation
// bytes, and comparing or hashing the raw bytes instead of the value
// produces false mismatches. A caller indexing by such a type — see
// [pkg/container.Map] and [pkg/container.Set] — must supply a KeyOps
// built from the type's own Go-native == and a content-aware hash
// instead of using Bytes.
type KeyOps struct {
	// Hash returns a hash of the keySize bytes at key.
	Hash func(key unsafe.Pointer, size uintptr) uint64

	// Equal reports whether the keySize bytes at a and b represent
	// equal keys.
	Equal func(a, b unsafe.Pointer, size uintptr) bool
}

// Bytes is the default, byte-wise KeyOps: FNV-1a hashing and a
// byte-for-byte comparison of a key's raw representation.
var Bytes = KeyOps{Hash: hashBytes, Equal: keysEqual}

// Indexer is the strategy interface container.Map/Set delegate keyed
// lookups to.
//
// Every method receives the ops used to hash and compare keys, plus the
// same positional parameters describing the array being indexed: base is
// the address of element zero, key points to the key bytes being looked
// up, length is the element count, stride is the byte distance between
// consecutive elements, and keySize is the number of bytes at the front
// of each element that make up its key. Get/Put/Del return an element
// index in [0, length); a return value of length means "not found"
// (Get/Del) or "append a new element" (Put).
type Indexer interface {
	// Get returns the index of the element whose key matches, or length
	// if no element matches.
	Get(ops KeyOps, base, key unsafe.Pointer, length, stride, keySize uintptr) uintptr

	// Put returns the index of the element whose key matches, or length
	// if the key is new and should be appended as element length.
	Put(ops KeyOps, base, key unsafe.Pointer, length, stride, keySize uintptr) uintptr

	// Del returns the index of the element whose key matches (so the
	// caller can remove it), or length if no element matches.
	Del(ops KeyOps, base, key unsafe.Pointer, length, stride, keySize uintptr) uintptr

	// Set informs the indexer that the element at index now holds key,
	// following an insert, append, or swap-delete relocation.
	Set(ops KeyOps, index uintptr, key unsafe.Pointer, keySize uintptr)

	// Free releases any memory the indexer allocated for its own
	// bookkeeping.
	Free()
}
