package vga

// Color is one of the sixteen text-mode colors.
type Color uint8

const (
	Black Color = iota
	Blue
	Green
	Cyan
	Red
	Magenta
	Brown
	LightGray
	DarkGray
	LightBlue
	LightGreen
	LightCyan
	LightRed
	Pink
	Yellow
	White
)

var colorNames = [16]string{
	"black", "blue", "green", "cyan", "red", "magenta", "brown", "lightgray",
	"darkgray", "lightblue", "lightgreen", "lightcyan", "lightred", "pink", "yellow", "white",
}

func (c Color) String() string {
	return colorNames[c&0x0F]
}

// ParseColor looks a color up by its lower-case name.
func ParseColor(name string) (Color, bool) {
	for i, n := range colorNames {
		if n == name {
			return Color(i), true
		}
	}
	return 0, false
}

// Attr is a packed attribute byte: background in the high nibble,
// foreground in the low nibble.
type Attr uint8

// DefaultAttr is yellow on black.
const DefaultAttr = Attr(Black<<4 | Yellow)

// NewAttr packs a foreground and background color.
func NewAttr(fg, bg Color) Attr {
	return Attr((bg&0x0F)<<4 | fg&0x0F)
}

// Foreground returns the low nibble.
func (a Attr) Foreground() Color { return Color(a & 0x0F) }

// Background returns the high nibble.
func (a Attr) Background() Color { return Color(a >> 4) }
