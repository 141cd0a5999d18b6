package vga

// Cell is one character position: an ASCII byte and its attribute. In video
// memory it occupies exactly two bytes, the character at the lower address.
type Cell struct {
	Char byte
	Attr Attr
}

// Blank returns a space cell in attr.
func Blank(attr Attr) Cell {
	return Cell{Char: ' ', Attr: attr}
}

// Word returns the cell as the little-endian 16-bit value stored in video
// memory.
func (c Cell) Word() uint16 {
	return uint16(c.Attr)<<8 | uint16(c.Char)
}

// CellFromWord decodes a 16-bit video memory value.
func CellFromWord(w uint16) Cell {
	return Cell{Char: byte(w), Attr: Attr(w >> 8)}
}
