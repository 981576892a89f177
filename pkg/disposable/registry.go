// Package disposable implements scoped-resource cleanup: a goroutine-local
// LIFO stack of dispose callbacks, unwound either explicitly (Dispose) or
// as part of a non-local exit through a [Recovery] context.
package disposable

import (
	"github.com/timandy/routine"

	"github.com/nd/bitwise/internal/xsync"
)

// Disposable is a handle to a scoped resource's cleanup callback.
//
// A Disposable starts out unsecured: it exists, but nothing will call its
// Dispose func until [Disposable.Secure] inserts it into the current
// goroutine's registry.
type Disposable struct {
	dispose func()
	mark    int
	secured bool
}

var registry = routine.NewThreadLocalWithInitial[[]*Disposable](func() []*Disposable {
	return nil
})

// pool recycles Disposable handles across goroutines: a program that opens
// and closes many short-lived scopes (one Disposable per resource) would
// otherwise churn the GC with one allocation per scope.
var pool = xsync.Pool[Disposable]{
	Reset: func(d *Disposable) {
		d.dispose = nil
		d.mark = 0
		d.secured = false
	},
}

// MakeDisposable wraps fn as a Disposable, recording the current
// goroutine-local registry depth as its mark. It is not yet part of the
// registry; call [Disposable.Secure] to insert it.
func MakeDisposable(fn func()) *Disposable {
	d := pool.Get()
	d.dispose = fn
	d.mark = len(registry.Get())
	return d
}

// Secure pushes d onto the top of the current goroutine's registry and
// sets its mark to the index it now occupies. Calling Secure on an
// already-secured Disposable is a no-op.
func (d *Disposable) Secure() {
	if d.secured {
		return
	}

	stack := registry.Get()
	d.mark = len(stack)
	registry.Set(append(stack, d))
	d.secured = true
}

// Unsecure removes d from the registry without running its dispose
// callback. d's slot is cleared so a later [Dispose] call skips over it.
func (d *Disposable) Unsecure() {
	if !d.secured {
		return
	}

	stack := registry.Get()
	if d.mark < len(stack) && stack[d.mark] == d {
		stack[d.mark] = nil
	}
	d.secured = false
}

// Mark returns the registry depth d was (or will be) inserted at.
func (d *Disposable) Mark() int { return d.mark }

// Dispose unwinds the current goroutine's registry from the top down to
// and including the entry at mark, calling each non-nil entry's Dispose in
// LIFO order, then truncates the registry to mark.
//
// A Disposable's own Dispose callback may itself call [Dispose] or
// [Disposable.Unsecure] and so shrink the registry further; Dispose
// re-reads the registry on every iteration to tolerate this.
func Dispose(mark int) {
	for {
		stack := registry.Get()
		if len(stack) <= mark {
			return
		}

		top := len(stack) - 1
		d := stack[top]
		stack[top] = nil
		registry.Set(stack[:top])

		if d != nil {
			d.secured = false
			if d.dispose != nil {
				d.dispose()
			}
			pool.Put(d)
		}
	}
}

// Depth returns the current goroutine's registry depth.
func Depth() int { return len(registry.Get()) }
