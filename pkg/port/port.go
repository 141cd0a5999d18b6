package port

// Width is the size of a single bus transaction.
type Width uint8

const (
	Width8  Width = 8
	Width16 Width = 16
	Width32 Width = 32
)

// Mask returns the value mask for a transaction of width w.
func (w Width) Mask() uint32 {
	switch w {
	case Width8:
		return 0xFF
	case Width16:
		return 0xFFFF
	}
	return 0xFFFFFFFF
}

func (w Width) String() string {
	switch w {
	case Width8:
		return "b"
	case Width16:
		return "w"
	}
	return "l"
}

// IO is the port I/O capability. Every call is exactly one bus transaction of
// the named width at addr. Transactions never fail.
//
// Callers must only address registers they are allowed to touch in the
// current execution context; this is not checked.
type IO interface {
	In8(addr uint16) uint8
	In16(addr uint16) uint16
	In32(addr uint16) uint32
	Out8(addr uint16, v uint8)
	Out16(addr uint16, v uint16)
	Out32(addr uint16, v uint32)
}

// Word is the set of transfer types a Port can carry.
type Word interface {
	uint8 | uint16 | uint32
}

// Port is a typed handle on a single I/O register. It refers to the register,
// it does not own it: copies address the same hardware.
type Port[T Word] struct {
	io   IO
	addr uint16
}

// New returns a port capability for addr on io.
func New[T Word](io IO, addr uint16) Port[T] {
	return Port[T]{io: io, addr: addr}
}

// Addr returns the register address.
func (p Port[T]) Addr() uint16 { return p.addr }

// Equal reports whether p and o address the same register.
func (p Port[T]) Equal(o Port[T]) bool { return p.addr == o.addr }

// Read performs one read transaction of T's width.
func (p Port[T]) Read() T {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return T(p.io.In8(p.addr))
	case uint16:
		return T(p.io.In16(p.addr))
	default:
		return T(p.io.In32(p.addr))
	}
}

// Write performs one write transaction of T's width.
func (p Port[T]) Write(v T) {
	var zero T
	switch any(zero).(type) {
	case uint8:
		p.io.Out8(p.addr, uint8(v))
	case uint16:
		p.io.Out16(p.addr, uint16(v))
	default:
		p.io.Out32(p.addr, uint32(v))
	}
}

// Width returns the transaction width of the port.
func (p Port[T]) Width() Width {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return Width8
	case uint16:
		return Width16
	}
	return Width32
}
