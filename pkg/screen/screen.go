// Package screen renders a text buffer for host display: as plain text, or
// as pixels using the 7x13 fixed font.
package screen

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"vgaterm/pkg/grid"
	"vgaterm/pkg/vga"
)

// Glyph cell size in pixels.
const (
	CellWidth  = 7
	CellHeight = 13
)

// Pixel size of a full screen.
const (
	PixelWidth  = vga.Width * CellWidth
	PixelHeight = vga.Height * CellHeight
)

// scanLines is the character cell height the cursor shape registers count in.
const scanLines = 16

// Palette holds the default text-mode RGB values of the sixteen colors.
var Palette = [16]color.RGBA{
	{0x00, 0x00, 0x00, 0xFF}, // black
	{0x00, 0x00, 0xAA, 0xFF}, // blue
	{0x00, 0xAA, 0x00, 0xFF}, // green
	{0x00, 0xAA, 0xAA, 0xFF}, // cyan
	{0xAA, 0x00, 0x00, 0xFF}, // red
	{0xAA, 0x00, 0xAA, 0xFF}, // magenta
	{0xAA, 0x55, 0x00, 0xFF}, // brown
	{0xAA, 0xAA, 0xAA, 0xFF}, // light gray
	{0x55, 0x55, 0x55, 0xFF}, // dark gray
	{0x55, 0x55, 0xFF, 0xFF}, // light blue
	{0x55, 0xFF, 0x55, 0xFF}, // light green
	{0x55, 0xFF, 0xFF, 0xFF}, // light cyan
	{0xFF, 0x55, 0x55, 0xFF}, // light red
	{0xFF, 0x55, 0xFF, 0xFF}, // pink
	{0xFF, 0xFF, 0x55, 0xFF}, // yellow
	{0xFF, 0xFF, 0xFF, 0xFF}, // white
}

// Cursor describes the hardware cursor as the controller shows it.
type Cursor struct {
	Pos     uint16
	Visible bool
	Start   uint8
	End     uint8
}

// Text returns the screen as lines of text, trailing blanks trimmed.
func Text(buf *vga.Buffer) string {
	lines := make([]string, vga.Height)
	for row := range lines {
		lines[row] = strings.TrimRight(buf.RowText(row), " ")
	}
	return strings.Join(lines, "\n")
}

// Printable reports whether the fixed font has a glyph for b.
func Printable(b byte) bool {
	return b >= 0x20 && b <= 0x7E
}

// Render draws the buffer and cursor into a new RGBA image.
func Render(buf *vga.Buffer, cur Cursor) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, PixelWidth, PixelHeight))
	d := &font.Drawer{Dst: img, Face: basicfont.Face7x13}
	ascent := basicfont.Face7x13.Metrics().Ascent

	for row := 0; row < vga.Height; row++ {
		for col := 0; col < vga.Width; col++ {
			c := buf.Load(row, col)
			rect := image.Rect(col*CellWidth, row*CellHeight, (col+1)*CellWidth, (row+1)*CellHeight)
			draw.Draw(img, rect, image.NewUniform(Palette[c.Attr.Background()]), image.Point{}, draw.Src)
			if c.Char == ' ' || !Printable(c.Char) {
				continue
			}
			d.Src = image.NewUniform(Palette[c.Attr.Foreground()])
			d.Dot = fixed.Point26_6{X: fixed.I(col * CellWidth), Y: fixed.I(row*CellHeight) + ascent}
			d.DrawBytes([]byte{c.Char})
		}
	}

	if cur.Visible && int(cur.Pos) < vga.Width*vga.Height && cur.Start <= cur.End {
		col, row := grid.GetGridCoords(int(cur.Pos), vga.Width)
		fg := Palette[buf.Load(row, col).Attr.Foreground()]
		y0 := row*CellHeight + int(cur.Start)*CellHeight/scanLines
		y1 := row*CellHeight + (int(cur.End)+1)*CellHeight/scanLines
		y1 = min(y1, (row+1)*CellHeight)
		rect := image.Rect(col*CellWidth, y0, (col+1)*CellWidth, y1)
		draw.Draw(img, rect, image.NewUniform(fg), image.Point{}, draw.Src)
	}
	return img
}

// SaveScreenshot encodes img as a PNG file.
func SaveScreenshot(filename string, img image.Image) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
