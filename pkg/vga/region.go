package vga

import (
	"encoding/binary"
	"sync/atomic"
)

// Region is a handle on cell-addressed video memory. Every Load and Store
// is issued exactly once and in program order; implementations must never
// cache, merge or drop accesses, since the display reads the same memory.
// Out-of-range indices panic.
type Region interface {
	Len() int
	Load(i int) Cell
	Store(i int, c Cell)
}

// Memory is an in-process Region. Each cell is an atomic word so a host
// renderer can read the grid while a driver writes it.
type Memory struct {
	cells []atomic.Uint32
}

// NewMemory returns a zeroed region of n cells.
func NewMemory(n int) *Memory {
	return &Memory{cells: make([]atomic.Uint32, n)}
}

func (m *Memory) Len() int { return len(m.cells) }

func (m *Memory) Load(i int) Cell {
	return CellFromWord(uint16(m.cells[i].Load()))
}

func (m *Memory) Store(i int, c Cell) {
	m.cells[i].Store(uint32(c.Word()))
}

// Bytes returns the region as video memory lays it out: two bytes per cell,
// character first.
func (m *Memory) Bytes() []byte {
	out := make([]byte, 2*len(m.cells))
	for i := range m.cells {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(m.cells[i].Load()))
	}
	return out
}

// SetBytes loads a two-byte-per-cell image into the region. Extra bytes are
// ignored; missing cells keep their value.
func (m *Memory) SetBytes(b []byte) {
	for i := 0; i < len(m.cells) && 2*i+1 < len(b); i++ {
		m.cells[i].Store(uint32(binary.LittleEndian.Uint16(b[2*i:])))
	}
}
