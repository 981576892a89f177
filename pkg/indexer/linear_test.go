package indexer_test

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"

	"github.com/nd/bitwise/pkg/indexer"
)

func TestLinearGetFindsMatch(t *testing.T) {
	t.Parallel()

	keys := []int32{10, 20, 30}
	base := unsafe.Pointer(&keys[0])
	stride := unsafe.Sizeof(keys[0])

	want := int32(20)
	idx := indexer.Linear{}.Get(indexer.Bytes, base, unsafe.Pointer(&want), uintptr(len(keys)), stride, stride)
	assert.Equal(t, uintptr(1), idx)
}

func TestLinearGetMiss(t *testing.T) {
	t.Parallel()

	keys := []int32{10, 20, 30}
	base := unsafe.Pointer(&keys[0])
	stride := unsafe.Sizeof(keys[0])

	miss := int32(99)
	idx := indexer.Linear{}.Get(indexer.Bytes, base, unsafe.Pointer(&miss), uintptr(len(keys)), stride, stride)
	assert.Equal(t, uintptr(len(keys)), idx)
}

func TestLinearSetAndFreeAreNoops(t *testing.T) {
	t.Parallel()

	var l indexer.Linear
	l.Set(indexer.Bytes, 0, nil, 0)
	l.Free()
}
