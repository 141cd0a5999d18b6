package vga

import (
	"vgaterm/pkg/grid"
	"vgaterm/pkg/spin"
)

// Placeholder is drawn in place of any byte outside the printable range.
const Placeholder byte = '*'

const lastRow = Height - 1

// Mover receives the linear cursor position after every change.
type Mover interface {
	MoveCursor(pos uint16)
}

type nopMover struct{}

func (nopMover) MoveCursor(uint16) {}

// Writer emits text on the bottom row of a Buffer and scrolls the screen up
// on newline. The column is the only position state; output always lands
// on the last row.
//
// Each Writer is guarded by its own spin lock. Cursor updates happen with
// that lock held, so a Mover taking its own lock nests inside it and must
// never call back into the Writer.
type Writer struct {
	lock   spin.Lock
	column int
	attr   Attr
	buf    *Buffer
	cursor Mover
}

// NewWriter returns a writer at column 0 drawing in attr. A nil cursor is
// allowed and discards position updates.
func NewWriter(buf *Buffer, cursor Mover, attr Attr) *Writer {
	if cursor == nil {
		cursor = nopMover{}
	}
	return &Writer{buf: buf, cursor: cursor, attr: attr}
}

// WriteByte emits one byte. It never fails.
func (w *Writer) WriteByte(b byte) error {
	w.lock.Lock()
	w.writeByte(b)
	w.lock.Unlock()
	return nil
}

// Write emits p under a single lock hold. It never fails.
func (w *Writer) Write(p []byte) (int, error) {
	w.lock.Lock()
	for _, b := range p {
		w.writeByte(b)
	}
	w.lock.Unlock()
	return len(p), nil
}

// WriteString is Write for strings.
func (w *Writer) WriteString(s string) (int, error) {
	w.lock.Lock()
	for i := 0; i < len(s); i++ {
		w.writeByte(s[i])
	}
	w.lock.Unlock()
	return len(s), nil
}

// NewLine scrolls the screen up one row and returns to column 0.
func (w *Writer) NewLine() {
	w.lock.Lock()
	w.newLine()
	w.lock.Unlock()
}

// Clear blanks the screen. The cursor goes to the start of the last row,
// where the next output appears.
func (w *Writer) Clear() {
	w.lock.Lock()
	for row := 0; row < Height; row++ {
		w.clearRow(row)
	}
	w.column = 0
	w.moveCursor()
	w.lock.Unlock()
}

// Column returns the current column on the last row.
func (w *Writer) Column() int {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.column
}

// Attr returns the attribute used for new cells.
func (w *Writer) Attr() Attr {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.attr
}

// SetAttr changes the attribute used for new cells. Existing cells keep
// theirs.
func (w *Writer) SetAttr(a Attr) {
	w.lock.Lock()
	w.attr = a
	w.lock.Unlock()
}

// CursorPosition returns the linear position the writer last projected to
// the cursor.
func (w *Writer) CursorPosition() uint16 {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.position()
}

// Restore sets the column and attribute, e.g. after the buffer contents
// were reloaded from a snapshot, and pushes the cursor.
func (w *Writer) Restore(column int, a Attr) {
	w.lock.Lock()
	w.column = min(max(column, 0), Width)
	w.attr = a
	w.moveCursor()
	w.lock.Unlock()
}

// Buffer returns the screen buffer the writer draws on.
func (w *Writer) Buffer() *Buffer { return w.buf }

func (w *Writer) writeByte(b byte) {
	switch {
	case b == '\n':
		w.newLine()
		return
	case b < 0x20 || b > 0x7E:
		b = Placeholder
	}

	if w.column >= Width {
		w.newLine()
	}
	w.buf.Store(lastRow, w.column, Cell{Char: b, Attr: w.attr})
	w.column++
	w.moveCursor()
}

func (w *Writer) newLine() {
	for row := 1; row < Height; row++ {
		for col := 0; col < Width; col++ {
			c := w.buf.Load(row, col)
			w.buf.Store(row-1, col, c)
		}
	}
	w.clearRow(lastRow)
	w.column = 0
	w.moveCursor()
}

func (w *Writer) clearRow(row int) {
	blank := Blank(w.attr)
	for col := 0; col < Width; col++ {
		w.buf.Store(row, col, blank)
	}
}

func (w *Writer) position() uint16 {
	return uint16(grid.Linear(w.column, lastRow, Width))
}

func (w *Writer) moveCursor() {
	w.cursor.MoveCursor(w.position())
}
