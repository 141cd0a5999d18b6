// Package cursor drives the text-mode hardware cursor through the CRT
// controller's index/data register pair.
package cursor

import (
	"vgaterm/pkg/port"
	"vgaterm/pkg/spin"
)

// Standard colour CRT controller ports.
const (
	CommandPort uint16 = 0x3D4
	DataPort    uint16 = 0x3D5
)

// CRT controller register indices.
const (
	RegStart   uint8 = 0x0A
	RegEnd     uint8 = 0x0B
	RegPosHigh uint8 = 0x0E
	RegPosLow  uint8 = 0x0F
)

// Default underline shape, in scan lines.
const (
	DefaultStart uint8 = 14
	DefaultEnd   uint8 = 15
)

const (
	disableBit uint8 = 0x20
	shapeMask  uint8 = 0x1F
	startKeep  uint8 = 0xC0
	endKeep    uint8 = 0xE0
)

// Controller owns no state beyond its two ports: the position is projected
// on every move, never cached.
type Controller struct {
	lock    spin.Lock
	command port.Port[uint8]
	data    port.Port[uint8]
}

// New returns a controller on the standard ports and enables an underline
// cursor.
func New(io port.IO) *Controller {
	return NewAt(io, CommandPort, DataPort)
}

// NewAt returns a controller on the given command and data ports and
// enables an underline cursor.
func NewAt(io port.IO, command, data uint16) *Controller {
	c := &Controller{
		command: port.New[uint8](io, command),
		data:    port.New[uint8](io, data),
	}
	c.Enable(DefaultStart, DefaultEnd)
	return c
}

// Enable turns the cursor on with scan lines start..end. Bits of the shape
// registers outside the shape field are read back and preserved.
func (c *Controller) Enable(start, end uint8) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.command.Write(RegStart)
	cur := c.data.Read()
	c.data.Write(cur&startKeep | start&shapeMask)

	c.command.Write(RegEnd)
	cur = c.data.Read()
	c.data.Write(cur&endKeep | end&shapeMask)
}

// Disable hides the cursor, keeping its shape.
func (c *Controller) Disable() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.command.Write(RegStart)
	cur := c.data.Read()
	c.data.Write(cur | disableBit)
}

// MoveCursor places the cursor at linear position pos (row*width + col).
// The high byte goes first; each data write directly follows its register
// select.
func (c *Controller) MoveCursor(pos uint16) {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.command.Write(RegPosHigh)
	c.data.Write(uint8(pos >> 8))
	c.command.Write(RegPosLow)
	c.data.Write(uint8(pos))
}

// Position reads the cursor location back from the controller.
func (c *Controller) Position() uint16 {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.command.Write(RegPosHigh)
	hi := c.data.Read()
	c.command.Write(RegPosLow)
	lo := c.data.Read()
	return uint16(hi)<<8 | uint16(lo)
}
