package disposable_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nd/bitwise/pkg/disposable"
)

func TestSecureAndDispose(t *testing.T) {
	t.Parallel()

	var ran bool
	mark := disposable.Depth()
	d := disposable.MakeDisposable(func() { ran = true })
	d.Secure()

	disposable.Dispose(mark)

	assert.True(t, ran)
	assert.Equal(t, mark, disposable.Depth())
}

func TestUnsecureSkipsDispose(t *testing.T) {
	t.Parallel()

	var ran bool
	mark := disposable.Depth()
	d := disposable.MakeDisposable(func() { ran = true })
	d.Secure()
	d.Unsecure()

	disposable.Dispose(mark)

	assert.False(t, ran)
}

func TestDisposeIsLIFO(t *testing.T) {
	t.Parallel()

	var order []int
	mark := disposable.Depth()

	for i := 0; i < 3; i++ {
		i := i
		d := disposable.MakeDisposable(func() { order = append(order, i) })
		d.Secure()
	}

	disposable.Dispose(mark)

	assert.Equal(t, []int{2, 1, 0}, order)
}

func TestDisposeCallbackCanReenter(t *testing.T) {
	t.Parallel()

	mark := disposable.Depth()

	var order []string
	inner := disposable.MakeDisposable(func() { order = append(order, "inner") })
	inner.Secure()

	outer := disposable.MakeDisposable(func() {
		order = append(order, "outer")
		disposable.Dispose(mark)
	})
	outer.Secure()

	disposable.Dispose(mark)

	assert.Equal(t, []string{"outer", "inner"}, order)
}

func TestSecureIsIdempotent(t *testing.T) {
	t.Parallel()

	var calls int
	mark := disposable.Depth()
	d := disposable.MakeDisposable(func() { calls++ })
	d.Secure()
	d.Secure()

	disposable.Dispose(mark)

	assert.Equal(t, 1, calls)
}
