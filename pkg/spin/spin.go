// Package spin provides a busy-wait lock for contexts where no scheduler
// can park a waiting caller.
package spin

import "sync/atomic"

// Lock is a test-and-set spin lock. The zero value is unlocked.
// Waiters poll actively; there is no queue and no fairness.
type Lock struct {
	state atomic.Uint32
}

// Lock spins until the lock is acquired.
func (l *Lock) Lock() {
	for !l.state.CompareAndSwap(0, 1) {
		// test before retrying the CAS so waiters spin on a shared read
		for l.state.Load() != 0 {
			pause()
		}
	}
}

// TryLock acquires the lock if it is free and reports whether it did.
func (l *Lock) TryLock() bool {
	return l.state.CompareAndSwap(0, 1)
}

// Unlock releases the lock. Unlocking an unlocked Lock panics.
func (l *Lock) Unlock() {
	if !l.state.CompareAndSwap(1, 0) {
		panic("spin: unlock of unlocked lock")
	}
}
