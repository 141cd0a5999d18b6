//go:build baremetal

package spin

// pause is a plain busy-wait iteration; there is no scheduler to yield to.
func pause() {}
