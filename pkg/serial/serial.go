// Package serial drives a 16550-compatible UART over port I/O.
package serial

import (
	"errors"

	"vgaterm/pkg/port"
)

// COM1 is the conventional base port of the first serial line.
const COM1 uint16 = 0x3F8

// Register offsets from the base port.
const (
	RegData       uint16 = 0 // RBR/THR, DLL when DLAB=1
	RegIntEnable  uint16 = 1 // IER, DLM when DLAB=1
	RegFIFOCtrl   uint16 = 2 // FCR on write, IIR on read
	RegLineCtrl   uint16 = 3
	RegModemCtrl  uint16 = 4
	RegLineStatus uint16 = 5
	RegModemStat  uint16 = 6
	RegScratch    uint16 = 7
)

// Line status bits.
const (
	LSRDataReady uint8 = 1 << 0
	LSRTHREmpty  uint8 = 1 << 5
	LSRTxEmpty   uint8 = 1 << 6
)

// LCRDLAB selects the divisor latch.
const LCRDLAB uint8 = 0x80

// ErrNoData is returned by TryReceive when the receive buffer is empty.
var ErrNoData = errors.New("serial: no data")

// Port is a UART at a fixed base address.
type Port struct {
	data       port.Port[uint8]
	intEnable  port.Port[uint8]
	fifoCtrl   port.Port[uint8]
	lineCtrl   port.Port[uint8]
	modemCtrl  port.Port[uint8]
	lineStatus port.Port[uint8]
}

// New returns a driver for the UART at base. Call Init before use.
func New(io port.IO, base uint16) *Port {
	return &Port{
		data:       port.New[uint8](io, base+RegData),
		intEnable:  port.New[uint8](io, base+RegIntEnable),
		fifoCtrl:   port.New[uint8](io, base+RegFIFOCtrl),
		lineCtrl:   port.New[uint8](io, base+RegLineCtrl),
		modemCtrl:  port.New[uint8](io, base+RegModemCtrl),
		lineStatus: port.New[uint8](io, base+RegLineStatus),
	}
}

// Init programs 38400 baud 8N1 with FIFOs on and the receive interrupt
// enabled.
func (p *Port) Init() {
	p.intEnable.Write(0x00)
	p.lineCtrl.Write(LCRDLAB)
	p.data.Write(0x03) // divisor low: 115200/3
	p.intEnable.Write(0x00)
	p.lineCtrl.Write(0x03)
	p.fifoCtrl.Write(0xC7)
	p.modemCtrl.Write(0x0B)
	p.intEnable.Write(0x01)
}

// LineStatus returns the line status register.
func (p *Port) LineStatus() uint8 {
	return p.lineStatus.Read()
}

// TryReceive returns the next received byte, or ErrNoData.
func (p *Port) TryReceive() (byte, error) {
	if p.lineStatus.Read()&LSRDataReady == 0 {
		return 0, ErrNoData
	}
	return p.data.Read(), nil
}

// Receive spins until a byte arrives.
func (p *Port) Receive() byte {
	for p.lineStatus.Read()&LSRDataReady == 0 {
	}
	return p.data.Read()
}

// Send spins until the transmit holding register is empty, then writes b.
func (p *Port) Send(b byte) {
	for p.lineStatus.Read()&LSRTHREmpty == 0 {
	}
	p.data.Write(b)
}

// Write sends p byte by byte. It never fails.
func (p *Port) Write(b []byte) (int, error) {
	for _, c := range b {
		p.Send(c)
	}
	return len(b), nil
}
