package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"vgaterm/pkg/bell"
	"vgaterm/pkg/machine"
	"vgaterm/pkg/relay"
	"vgaterm/pkg/screen"
	"vgaterm/pkg/vga"
)

// tcellPalette is the text-mode palette as terminal colors.
var tcellPalette [16]tcell.Color

func init() {
	for i, c := range screen.Palette {
		tcellPalette[i] = tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
	}
}

func cellStyle(a vga.Attr) tcell.Style {
	return tcell.StyleDefault.
		Foreground(tcellPalette[a.Foreground()]).
		Background(tcellPalette[a.Background()])
}

type term struct {
	m      *machine.Machine
	relay  *relay.Relay
	screen tcell.Screen
}

func newTerm(m *machine.Machine, s tcell.Screen) *term {
	return &term{m: m, relay: relay.New(m.Serial, m.Console), screen: s}
}

// keyBytes returns what a key sends on the line, and whether it quits.
func keyBytes(ev *tcell.EventKey) ([]byte, bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return nil, true
	case tcell.KeyEnter:
		return []byte{relay.CR}, false
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return []byte{8}, false
	case tcell.KeyCtrlL:
		return []byte{relay.FF}, false
	case tcell.KeyCtrlG:
		return []byte{relay.BEL}, false
	case tcell.KeyTab:
		return []byte{'\t'}, false
	case tcell.KeyRune:
		return []byte(string(ev.Rune())), false
	}
	return nil, false
}

func (t *term) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		b, quit := keyBytes(ev)
		if quit {
			return false
		}
		if len(b) > 0 {
			t.m.UART.Feed(b...)
		}
	case *tcell.EventResize:
		t.screen.Sync()
	}
	return true
}

// pump drains the line into the console.
func (t *term) pump() {
	for {
		ok, err := t.relay.Step()
		if err != nil || !ok {
			return
		}
	}
}

func (t *term) draw() {
	buf := t.m.Console.Buffer()
	for row := 0; row < vga.Height; row++ {
		for col := 0; col < vga.Width; col++ {
			c := buf.Load(row, col)
			r := ' '
			if screen.Printable(c.Char) {
				r = rune(c.Char)
			}
			t.screen.SetContent(col, row, r, nil, cellStyle(c.Attr))
		}
	}
	if pos, shown := t.m.CursorVisible(); shown && int(pos) < vga.Width*vga.Height {
		t.screen.ShowCursor(int(pos)%vga.Width, int(pos)/vga.Width)
	} else {
		t.screen.HideCursor()
	}
	t.screen.Show()
}

func (t *term) run() {
	ticker := time.NewTicker(16 * time.Millisecond) // ~60 FPS
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !t.handleInput(ev) {
				return
			}
		case <-ticker.C:
			t.pump()
			t.draw()
		}
	}
}

func main() {
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
			fmt.Fprintf(os.Stderr, "open log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		cfg.Logger = log.New(f, "", log.LstdFlags)
	}

	m, err := machine.New(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}

	s, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	if err := s.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer s.Fini()

	t := newTerm(m, s)
	player := bell.NewPlayer(0.3)
	t.relay.Bell = func() {
		if err := player.Ring(); err != nil {
			// Non-fatal, fall back to the terminal bell
			_ = s.Beep()
		}
	}
	t.run()
}
