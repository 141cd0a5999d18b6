// Package crtc simulates the register file of a colour CRT controller as
// seen through its index (offset 0) and data (offset 1) ports.
package crtc

import (
	"sync"

	"vgaterm/pkg/port"
)

// NumRegisters is the number of addressable controller registers.
const NumRegisters = 0x19

const (
	regStart   = 0x0A
	regEnd     = 0x0B
	regPosHigh = 0x0E
	regPosLow  = 0x0F
)

// Device is a simulated CRT controller. Mount it at 0x3D4 with size 2.
type Device struct {
	mu    sync.Mutex
	index uint8
	regs  [NumRegisters]uint8
}

// New returns a controller with BIOS-like power-on values: cursor disabled,
// shape 13..14, position 0.
func New() *Device {
	d := &Device{}
	d.regs[regStart] = 0x2D
	d.regs[regEnd] = 0x0E
	return d
}

// In implements port.Device. Reading the data port with an out-of-range
// index returns 0xFF, as on an unconnected bus.
func (d *Device) In(offset uint16, width port.Width) uint32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch offset {
	case 0:
		return uint32(d.index)
	case 1:
		if int(d.index) < NumRegisters {
			return uint32(d.regs[d.index])
		}
	}
	return 0xFF
}

// Out implements port.Device. Writes through an out-of-range index are
// dropped.
func (d *Device) Out(offset uint16, width port.Width, val uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch offset {
	case 0:
		d.index = uint8(val)
	case 1:
		if int(d.index) < NumRegisters {
			d.regs[d.index] = uint8(val)
		}
	}
}

// Register returns register i, or 0xFF if i is out of range.
func (d *Device) Register(i uint8) uint8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	if int(i) >= NumRegisters {
		return 0xFF
	}
	return d.regs[i]
}

// SetRegister sets register i directly, bypassing the port protocol.
func (d *Device) SetRegister(i, v uint8) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if int(i) < NumRegisters {
		d.regs[i] = v
	}
}

// Index returns the currently selected register.
func (d *Device) Index() uint8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.index
}

// CursorLocation returns the linear cursor position.
func (d *Device) CursorLocation() uint16 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return uint16(d.regs[regPosHigh])<<8 | uint16(d.regs[regPosLow])
}

// CursorShape returns the first and last scan line of the cursor.
func (d *Device) CursorShape() (start, end uint8) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.regs[regStart] & 0x1F, d.regs[regEnd] & 0x1F
}

// CursorEnabled reports whether the cursor-disable bit is clear.
func (d *Device) CursorEnabled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.regs[regStart]&0x20 == 0
}
