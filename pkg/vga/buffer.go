package vga

import (
	"errors"
	"fmt"

	"vgaterm/pkg/grid"
)

// Text mode 3 dimensions.
const (
	Width  = 80
	Height = 25
)

// ErrRegionTooSmall is returned when a region cannot hold a full screen.
var ErrRegionTooSmall = errors.New("region smaller than screen")

// Buffer is the row-major Width×Height character grid laid over a Region.
// It does not own the memory behind the region.
type Buffer struct {
	region Region
}

// NewBuffer binds a screen buffer to r.
func NewBuffer(r Region) (*Buffer, error) {
	if r == nil {
		return nil, errors.New("nil region")
	}
	if r.Len() < Width*Height {
		return nil, fmt.Errorf("%w: %d cells, need %d", ErrRegionTooSmall, r.Len(), Width*Height)
	}
	return &Buffer{region: r}, nil
}

// Region returns the underlying memory handle.
func (b *Buffer) Region() Region { return b.region }

// Load reads the cell at (row, col).
func (b *Buffer) Load(row, col int) Cell {
	return b.region.Load(index(row, col))
}

// Store writes the cell at (row, col).
func (b *Buffer) Store(row, col int, c Cell) {
	b.region.Store(index(row, col), c)
}

// Row returns a copy of one row.
func (b *Buffer) Row(row int) []Cell {
	out := make([]Cell, Width)
	for col := range out {
		out[col] = b.Load(row, col)
	}
	return out
}

// RowText returns the characters of one row.
func (b *Buffer) RowText(row int) string {
	var line [Width]byte
	for col := range line {
		line[col] = b.Load(row, col).Char
	}
	return string(line[:])
}

func index(row, col int) int {
	if row < 0 || row >= Height || col < 0 || col >= Width {
		panic(fmt.Sprintf("vga: cell (%d, %d) out of range", row, col))
	}
	return grid.Linear(col, row, Width)
}
