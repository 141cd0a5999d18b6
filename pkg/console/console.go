// Package console is the text console driver: a screen writer bound to
// video memory plus the hardware cursor it keeps in step.
//
// A Console is created once by whatever entry point owns the hardware and
// handed to the code that prints. Nothing here is global, so tests can run
// any number of independent consoles against simulated hardware.
package console

import (
	"errors"
	"fmt"
	"io"
	"log"

	"vgaterm/pkg/cursor"
	"vgaterm/pkg/port"
	"vgaterm/pkg/vga"
)

var (
	// ErrNoIO is returned when Config.IO is nil.
	ErrNoIO = errors.New("console: no port I/O")
	// ErrNoRegion is returned when Config.Region is nil.
	ErrNoRegion = errors.New("console: no video memory region")
)

// Config describes the hardware a Console is bound to.
type Config struct {
	IO         port.IO
	Region     vga.Region
	Foreground vga.Color
	Background vga.Color
	// Logger receives driver lifecycle messages. Nil discards them.
	Logger *log.Logger
}

// DefaultConfig returns yellow on black with no hardware bound.
func DefaultConfig() Config {
	return Config{Foreground: vga.Yellow, Background: vga.Black}
}

// Console prints text to the bottom row of the screen, scrolling upwards.
type Console struct {
	writer *vga.Writer
	cursor *cursor.Controller
	log    *log.Logger
}

// New enables the hardware cursor and binds a writer to cfg.Region. The
// screen is left as it is; call Clear to blank it.
func New(cfg Config) (*Console, error) {
	if cfg.IO == nil {
		return nil, ErrNoIO
	}
	if cfg.Region == nil {
		return nil, ErrNoRegion
	}
	buf, err := vga.NewBuffer(cfg.Region)
	if err != nil {
		return nil, fmt.Errorf("console: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	cur := cursor.New(cfg.IO)
	attr := vga.NewAttr(cfg.Foreground, cfg.Background)
	c := &Console{
		writer: vga.NewWriter(buf, cur, attr),
		cursor: cur,
		log:    logger,
	}
	logger.Printf("console: %dx%d text buffer, attribute 0x%02X (%v on %v)",
		vga.Width, vga.Height, uint8(attr), cfg.Foreground, cfg.Background)
	return c, nil
}

// Print writes s at the current position.
func (c *Console) Print(s string) {
	c.writer.WriteString(s)
}

// Println writes s followed by a newline.
func (c *Console) Println(s string) {
	c.writer.WriteString(s + "\n")
}

// Printf formats and writes under a single writer lock hold.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.writer, format, args...)
}

// Write implements io.Writer. It never fails.
func (c *Console) Write(p []byte) (int, error) {
	return c.writer.Write(p)
}

// NewLine scrolls up one row.
func (c *Console) NewLine() {
	c.writer.NewLine()
}

// Clear blanks the screen; output resumes at the start of the last row.
func (c *Console) Clear() {
	c.writer.Clear()
	c.log.Printf("console: cleared")
}

// SetColors changes the attribute used for subsequent output.
func (c *Console) SetColors(fg, bg vga.Color) {
	c.writer.SetAttr(vga.NewAttr(fg, bg))
}

// Writer returns the underlying screen writer.
func (c *Console) Writer() *vga.Writer { return c.writer }

// Cursor returns the hardware cursor controller.
func (c *Console) Cursor() *cursor.Controller { return c.cursor }

// Buffer returns the screen buffer.
func (c *Console) Buffer() *vga.Buffer { return c.writer.Buffer() }
