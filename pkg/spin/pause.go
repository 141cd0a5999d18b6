//go:build !baremetal

package spin

import "runtime"

// pause gives up the time slice between polls. The waiter stays runnable and
// is never parked.
func pause() { runtime.Gosched() }
