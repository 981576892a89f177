package intern_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nd/bitwise/pkg/intern"
)

func TestInternDeduplicatesEqualContent(t *testing.T) {
	t.Parallel()

	in := intern.New(nil)
	defer in.Free()

	a := in.Intern([]byte("hello"))
	b := in.Intern([]byte("hello"))

	assert.Equal(t, "hello", string(a))
	assert.Same(t, &a[0], &b[0])
}

func TestInternDistinctContentDiffers(t *testing.T) {
	t.Parallel()

	in := intern.New(nil)
	defer in.Free()

	a := in.Intern([]byte("foo"))
	b := in.Intern([]byte("bar"))

	assert.NotEqual(t, string(a), string(b))
}

func TestInternEmptySlice(t *testing.T) {
	t.Parallel()

	in := intern.New(nil)
	defer in.Free()

	a := in.Intern(nil)
	b := in.Intern([]byte{})

	assert.Equal(t, "", string(a))
	assert.Equal(t, "", string(b))
}

func TestInternManyDistinctNames(t *testing.T) {
	t.Parallel()

	in := intern.New(nil)
	defer in.Free()

	names := make([][]byte, 500)
	for i := range names {
		names[i] = in.Intern([]byte(fmt.Sprintf("name-%d", i)))
	}

	for i := range names {
		again := in.Intern([]byte(fmt.Sprintf("name-%d", i)))
		assert.Same(t, &names[i][0], &again[0])
	}
}
