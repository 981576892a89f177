//go:build go1.23

package container

import (
	"iter"

	"github.com/nd/bitwise/pkg/allocator"
	"github.com/nd/bitwise/pkg/xiter"
)

// All returns an iterator over a's live elements, in storage order. It
// composes with package xiter's combinators (Filter, Map, and so on) or
// an ordinary range-over-func loop.
func (a *Array[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for i := 0; i < a.len; i++ {
			if !yield(*a.at(i)) {
				return
			}
		}
	}
}

// Collect drains seq into a new Array drawing its storage from alloc.
func Collect[T any](alloc allocator.Allocator, seq iter.Seq[T]) Array[T] {
	out := New[T](alloc)
	for v := range seq {
		out.Push(v)
	}
	return out
}

// FilterMap collects f(v) for every element v of a for which keep(v) is
// true into a new Array drawing its storage from alloc. It is Collect
// over xiter.Map composed with xiter.Filter, the same pipeline a caller
// could build by hand from All, spelled out once for the common case of
// a single filter-then-map pass.
func FilterMap[T, O any](alloc allocator.Allocator, a *Array[T], keep func(T) bool, f func(T) O) Array[O] {
	return Collect(alloc, xiter.Map(xiter.Filter(a.All(), keep), f))
}
