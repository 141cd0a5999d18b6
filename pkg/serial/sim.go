package serial

import (
	"sync"

	"vgaterm/pkg/port"
)

// Sim is a simulated 16550 UART. Mount it with size 8. Bytes handed to
// Feed appear in the receive FIFO; bytes written to the transmit register
// are collected.
type Sim struct {
	mu      sync.Mutex
	rx      []byte
	tx      []byte
	ier     uint8
	fcr     uint8
	lcr     uint8
	mcr     uint8
	scratch uint8
	divisor uint16
}

// NewSim returns an idle UART.
func NewSim() *Sim {
	return &Sim{}
}

// Feed queues bytes as if they arrived on the line.
func (s *Sim) Feed(b ...byte) {
	s.mu.Lock()
	s.rx = append(s.rx, b...)
	s.mu.Unlock()
}

// Pending returns how many received bytes are still unread.
func (s *Sim) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rx)
}

// Transmitted returns a copy of everything written to the transmit register.
func (s *Sim) Transmitted() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]byte(nil), s.tx...)
}

// Divisor returns the programmed baud rate divisor.
func (s *Sim) Divisor() uint16 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.divisor
}

// LineControl returns the line control register.
func (s *Sim) LineControl() uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lcr
}

func (s *Sim) dlab() bool { return s.lcr&LCRDLAB != 0 }

// In implements port.Device.
func (s *Sim) In(offset uint16, width port.Width) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch offset {
	case RegData:
		if s.dlab() {
			return uint32(s.divisor & 0xFF)
		}
		if len(s.rx) == 0 {
			return 0
		}
		b := s.rx[0]
		s.rx = s.rx[1:]
		return uint32(b)
	case RegIntEnable:
		if s.dlab() {
			return uint32(s.divisor >> 8)
		}
		return uint32(s.ier)
	case RegFIFOCtrl:
		iir := uint8(0x01) // no interrupt pending
		if s.fcr&0x01 != 0 {
			iir |= 0xC0
		}
		if s.ier&0x01 != 0 && len(s.rx) > 0 {
			iir = iir&0xF0 | 0x04
		}
		return uint32(iir)
	case RegLineCtrl:
		return uint32(s.lcr)
	case RegModemCtrl:
		return uint32(s.mcr)
	case RegLineStatus:
		lsr := LSRTHREmpty | LSRTxEmpty
		if len(s.rx) > 0 {
			lsr |= LSRDataReady
		}
		return uint32(lsr)
	case RegModemStat:
		return 0xB0 // CTS, DSR, DCD
	case RegScratch:
		return uint32(s.scratch)
	}
	return 0xFF
}

// Out implements port.Device.
func (s *Sim) Out(offset uint16, width port.Width, val uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v := uint8(val)
	switch offset {
	case RegData:
		if s.dlab() {
			s.divisor = s.divisor&0xFF00 | uint16(v)
			return
		}
		s.tx = append(s.tx, v)
	case RegIntEnable:
		if s.dlab() {
			s.divisor = s.divisor&0x00FF | uint16(v)<<8
			return
		}
		s.ier = v & 0x0F
	case RegFIFOCtrl:
		s.fcr = v
		if v&0x02 != 0 {
			s.rx = s.rx[:0]
		}
	case RegLineCtrl:
		s.lcr = v
	case RegModemCtrl:
		s.mcr = v
	case RegScratch:
		s.scratch = v
	}
}
