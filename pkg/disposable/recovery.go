package disposable

import (
	"github.com/timandy/routine"

	"github.com/nd/bitwise/pkg/xerrors"
)

// Recovery is a non-local exit point: the Go translation of a C setjmp
// target. [Panic] unwinds the goroutine's registry down to a Recovery's
// mark and raises a Go panic that only the matching [Recovery.Try] will
// catch.
type Recovery struct {
	d    *Disposable
	mark int
}

var currentRecovery = routine.NewThreadLocalWithInitial[*Recovery](func() *Recovery {
	return nil
})

// NewRecovery installs ctx as the current goroutine's recovery context,
// secures it as a disposable (so a surrounding Dispose unwinds it like any
// other scoped resource), and returns it armed — ready for [Recovery.Try].
func NewRecovery() *Recovery {
	ctx := &Recovery{}

	prev := currentRecovery.Get()
	ctx.d = MakeDisposable(func() {
		currentRecovery.Set(prev)
	})
	ctx.d.Secure()
	ctx.mark = ctx.d.Mark()

	currentRecovery.Set(ctx)
	return ctx
}

// escape is the panic payload [Panic] raises; Try only recovers escapes
// that name its own Recovery, and re-raises everything else (including
// escapes belonging to an enclosing Recovery, and ordinary panics).
type escape struct {
	ctx *Recovery
}

// Panic disposes the registry down to ctx's mark and raises a Go panic
// carrying ctx. The panic unwinds the calling goroutine's stack like
// longjmp unwinds a C stack, until it reaches the matching [Recovery.Try].
func Panic(ctx *Recovery) {
	Dispose(ctx.mark)
	panic(escape{ctx})
}

// Try runs fn under a deferred recover. If fn panics via [Panic] with this
// same Recovery, Try disposes the registry down to ctx's mark and returns
// true instead of propagating the panic. Any other panic (a different
// Recovery's escape, or an ordinary panic) is re-raised.
func (ctx *Recovery) Try(fn func()) (recovered bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		if e, ok := r.(escape); ok && e.ctx == ctx {
			Dispose(ctx.mark)
			recovered = true
			return
		}

		panic(r)
	}()

	fn()
	return false
}

// CatchAs runs fn under a deferred recover and reports whether fn panicked
// with an error assignable to E. On a match it returns that error instead
// of propagating the panic; any other panic, including an [escape] raised
// by [Panic], is re-raised unchanged.
//
// This is unrelated to [Recovery.Try]: Try catches a specific Recovery's
// non-local exit, while CatchAs catches an ordinary Go panic whose payload
// happens to be a particular error type.
func CatchAs[E error](fn func()) (target E, caught bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}

		err, ok := r.(error)
		if !ok {
			panic(r)
		}

		target, caught = xerrors.AsA[E](err)
		if !caught {
			panic(r)
		}
	}()

	fn()
	return target, false
}
