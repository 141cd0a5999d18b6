package port

import (
	"errors"
	"fmt"
	"sync"
)

// ErrOverlap is returned by Mount when a device range collides with one
// already mounted.
var ErrOverlap = errors.New("port range overlaps a mounted device")

// Device is a simulated register block mounted in a Sim port space. Offsets
// are relative to the mount base.
type Device interface {
	In(offset uint16, width Width) uint32
	Out(offset uint16, width Width, val uint32)
}

// Op is the direction of a recorded transaction.
type Op uint8

const (
	OpRead Op = iota
	OpWrite
)

func (o Op) String() string {
	if o == OpWrite {
		return "out"
	}
	return "in"
}

// Access is one recorded bus transaction.
type Access struct {
	Op    Op
	Addr  uint16
	Width Width
	Value uint32
}

func (a Access) String() string {
	return fmt.Sprintf("%s%s 0x%04X 0x%X", a.Op, a.Width, a.Addr, a.Value)
}

type mount struct {
	base uint16
	size uint16
	dev  Device
}

func (m mount) contains(addr uint16) bool {
	return addr >= m.base && uint32(addr) < uint32(m.base)+uint32(m.size)
}

// Sim is a simulated port space. Mounted devices decode their own ranges;
// any other address is a plain latch that reads back the last value written
// to it. Every transaction is recorded.
type Sim struct {
	mu      sync.Mutex
	mounts  []mount
	latches map[uint16]uint32
	log     []Access
	// LogLimit caps the recorded log; 0 means unbounded. Older entries are
	// dropped first.
	LogLimit int
}

// NewSim returns an empty port space.
func NewSim() *Sim {
	return &Sim{latches: make(map[uint16]uint32)}
}

// Mount maps [base, base+size) to dev.
func (s *Sim) Mount(base, size uint16, dev Device) error {
	if size == 0 {
		return fmt.Errorf("mount at 0x%04X: zero size", base)
	}
	if uint32(base)+uint32(size) > 0x10000 {
		return fmt.Errorf("mount at 0x%04X: size %d exceeds port space", base, size)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	m := mount{base: base, size: size, dev: dev}
	for _, other := range s.mounts {
		if other.contains(base) || m.contains(other.base) {
			return fmt.Errorf("mount at 0x%04X: %w (0x%04X)", base, ErrOverlap, other.base)
		}
	}
	s.mounts = append(s.mounts, m)
	return nil
}

func (s *Sim) find(addr uint16) (mount, bool) {
	for _, m := range s.mounts {
		if m.contains(addr) {
			return m, true
		}
	}
	return mount{}, false
}

func (s *Sim) in(addr uint16, w Width) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var v uint32
	if m, ok := s.find(addr); ok {
		v = m.dev.In(addr-m.base, w) & w.Mask()
	} else {
		v = s.latches[addr] & w.Mask()
	}
	s.record(Access{Op: OpRead, Addr: addr, Width: w, Value: v})
	return v
}

func (s *Sim) out(addr uint16, w Width, v uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v &= w.Mask()
	if m, ok := s.find(addr); ok {
		m.dev.Out(addr-m.base, w, v)
	} else {
		s.latches[addr] = v
	}
	s.record(Access{Op: OpWrite, Addr: addr, Width: w, Value: v})
}

func (s *Sim) record(a Access) {
	s.log = append(s.log, a)
	if s.LogLimit > 0 && len(s.log) > s.LogLimit {
		s.log = s.log[len(s.log)-s.LogLimit:]
	}
}

func (s *Sim) In8(addr uint16) uint8   { return uint8(s.in(addr, Width8)) }
func (s *Sim) In16(addr uint16) uint16 { return uint16(s.in(addr, Width16)) }
func (s *Sim) In32(addr uint16) uint32 { return s.in(addr, Width32) }

func (s *Sim) Out8(addr uint16, v uint8)   { s.out(addr, Width8, uint32(v)) }
func (s *Sim) Out16(addr uint16, v uint16) { s.out(addr, Width16, uint32(v)) }
func (s *Sim) Out32(addr uint16, v uint32) { s.out(addr, Width32, v) }

// Log returns a copy of the recorded transactions, oldest first.
func (s *Sim) Log() []Access {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Access, len(s.log))
	copy(out, s.log)
	return out
}

// Writes returns the recorded write transactions, oldest first.
func (s *Sim) Writes() []Access {
	var out []Access
	for _, a := range s.Log() {
		if a.Op == OpWrite {
			out = append(out, a)
		}
	}
	return out
}

// Reset clears the transaction log. Latches and devices keep their state.
func (s *Sim) Reset() {
	s.mu.Lock()
	s.log = s.log[:0]
	s.mu.Unlock()
}
