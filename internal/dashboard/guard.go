package dashboard

import "sync/atomic"

// LoadGuard admits one in-flight load at a time. The zero value is open.
type LoadGuard struct {
	busy atomic.Bool
}

// TryAcquire takes the guard, reporting false if a load is already running.
func (g *LoadGuard) TryAcquire() bool {
	return g.busy.CompareAndSwap(false, true)
}

// Release reopens the guard.
func (g *LoadGuard) Release() {
	g.busy.Store(false)
}

// Busy reports whether a load is outstanding.
func (g *LoadGuard) Busy() bool {
	return g.busy.Load()
}
