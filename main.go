//go:build !js

package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"golang.org/x/term"

	"vgaterm/pkg/machine"
	"vgaterm/pkg/relay"
	"vgaterm/pkg/screen"
	"vgaterm/pkg/snapshot"
	"vgaterm/pkg/utils"
	"vgaterm/pkg/vga"
)

const (
	ctrlC byte = 0x03
	ctrlD byte = 0x04
)

func main() {
	inPath := flag.String("in", "", "file played into the serial line (- for stdin)")
	pngPath := flag.String("png", "", "write a PNG screenshot of the final screen")
	snapPath := flag.String("snapshot", "", "save the final console state to this archive")
	restorePath := flag.String("restore", "", "restore console state from this archive before input")
	raw := flag.Bool("raw", false, "interactive: relay the terminal to the console until Ctrl-C")
	fg := flag.String("fg", "yellow", "foreground color")
	bg := flag.String("bg", "black", "background color")
	logPath := flag.String("log", "", "write driver log to this file")
	flag.Parse()

	cfg := machine.DefaultConfig()
	var ok bool
	if cfg.Foreground, ok = vga.ParseColor(*fg); !ok {
		fmt.Fprintf(os.Stderr, "unknown foreground color %q\n", *fg)
		os.Exit(2)
	}
	if cfg.Background, ok = vga.ParseColor(*bg); !ok {
		fmt.Fprintf(os.Stderr, "unknown background color %q\n", *bg)
		os.Exit(2)
	}
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to open log file %q: %v\n", *logPath, err)
			os.Exit(1)
		}
		defer f.Close()
		cfg.Logger = log.New(f, "", log.LstdFlags)
	}

	m, err := machine.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "machine: %v\n", err)
		os.Exit(1)
	}

	if *restorePath != "" {
		if err := restore(m, *restorePath); err != nil {
			fmt.Fprintf(os.Stderr, "restore failed for %q: %v\n", *restorePath, err)
			os.Exit(1)
		}
	}

	if *inPath != "" {
		data, err := readInput(*inPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read input file %q: %v\n", *inPath, err)
			os.Exit(1)
		}
		play(m, data, os.Stderr)
	}

	if *raw {
		if err := runRaw(m); err != nil {
			fmt.Fprintf(os.Stderr, "interactive session failed: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Println(screen.Text(m.Console.Buffer()))
	}

	if *pngPath != "" {
		if err := savePNG(m, *pngPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write screenshot %q: %v\n", *pngPath, err)
			os.Exit(1)
		}
	}
	if *snapPath != "" {
		if err := snapshotTo(m, *snapPath); err != nil {
			fmt.Fprintf(os.Stderr, "failed to write snapshot %q: %v\n", *snapPath, err)
			os.Exit(1)
		}
	}
}

func readInput(path string) ([]byte, error) {
	return utils.ReadInput(path, os.Stdin)
}

func restore(m *machine.Machine, path string) error {
	snap, err := snapshot.LoadFile(path)
	if err != nil {
		return err
	}
	return snap.Apply(m.Console)
}

// newRelay returns a relay for m that rings the bell by writing BEL to
// bellOut.
func newRelay(m *machine.Machine, bellOut io.Writer) *relay.Relay {
	r := relay.New(m.Serial, m.Console)
	r.Bell = func() { bellOut.Write([]byte{relay.BEL}) }
	return r
}

// play feeds data into the serial line and relays all of it to the console.
func play(m *machine.Machine, data []byte, bellOut io.Writer) {
	m.UART.Feed(data...)
	r := newRelay(m, bellOut)
	for {
		ok, err := r.Step()
		if err != nil || !ok {
			return
		}
	}
}

func snapshotTo(m *machine.Machine, path string) error {
	return snapshot.Capture(m.Console).SaveFile(path)
}

func savePNG(m *machine.Machine, path string) error {
	pos, shown := m.CursorVisible()
	start, end := m.CRTC.CursorShape()
	img := screen.Render(m.Console.Buffer(), screen.Cursor{Pos: pos, Visible: shown, Start: start, End: end})
	return screen.SaveScreenshot(path, img)
}

// frame renders the screen as an ANSI redraw: home, every row, then the
// cursor placed where the controller shows it.
func frame(m *machine.Machine) []byte {
	var b bytes.Buffer
	b.WriteString("\x1b[H")
	buf := m.Console.Buffer()
	for row := 0; row < vga.Height; row++ {
		line := []byte(buf.RowText(row))
		for i, c := range line {
			if !screen.Printable(c) {
				line[i] = ' '
			}
		}
		b.Write(line)
		if row < vga.Height-1 {
			b.WriteString("\r\n")
		}
	}
	pos, shown := m.CursorVisible()
	fmt.Fprintf(&b, "\x1b[%d;%dH", int(pos)/vga.Width+1, int(pos)%vga.Width+1)
	if shown {
		b.WriteString("\x1b[?25h")
	} else {
		b.WriteString("\x1b[?25l")
	}
	return b.Bytes()
}

// session relays in to the console and redraws out after every chunk, until
// Ctrl-C, Ctrl-D or the end of in.
func session(m *machine.Machine, in io.Reader, out io.Writer) error {
	r := newRelay(m, out)
	chunk := make([]byte, 256)
	out.Write([]byte("\x1b[2J"))
	out.Write(frame(m))
	for {
		n, err := in.Read(chunk)
		quit := false
		for _, c := range chunk[:n] {
			if c == ctrlC || c == ctrlD {
				quit = true
				break
			}
			m.UART.Feed(c)
		}
		for {
			ok, serr := r.Step()
			if serr != nil {
				return serr
			}
			if !ok {
				break
			}
		}
		out.Write(frame(m))
		if quit || err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func runRaw(m *machine.Machine) error {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return session(m, os.Stdin, os.Stdout)
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return err
	}
	defer term.Restore(fd, state)
	defer os.Stdout.Write([]byte("\x1b[?25h\r\n"))
	return session(m, os.Stdin, os.Stdout)
}
