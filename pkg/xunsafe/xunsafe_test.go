package xunsafe_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nd/bitwise/pkg/xunsafe"
)

func TestBitCast(t *testing.T) {
	t.Parallel()

	bits := xunsafe.BitCast[uint64](math.Pi)
	assert.Equal(t, math.Float64bits(math.Pi), bits)

	back := xunsafe.BitCast[float64](bits)
	assert.Equal(t, math.Pi, back)
}
