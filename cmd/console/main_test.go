package main

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"vgaterm/pkg/machine"
	"vgaterm/pkg/vga"
)

func newTestTerm(t *testing.T) (*term, tcell.SimulationScreen) {
	t.Helper()
	m, err := machine.New(machine.DefaultConfig())
	if err != nil {
		t.Fatalf("machine.New: %v", err)
	}
	s := tcell.NewSimulationScreen("")
	if err := s.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(s.Fini)
	s.SetSize(vga.Width, vga.Height)
	return newTerm(m, s), s
}

func TestKeyBytes(t *testing.T) {
	tests := []struct {
		name string
		ev   *tcell.EventKey
		want string
		quit bool
	}{
		{"rune", tcell.NewEventKey(tcell.KeyRune, 'a', tcell.ModNone), "a", false},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), "\r", false},
		{"ctrl-l clears", tcell.NewEventKey(tcell.KeyCtrlL, 0, tcell.ModCtrl), "\f", false},
		{"ctrl-g rings", tcell.NewEventKey(tcell.KeyCtrlG, 0, tcell.ModCtrl), "\a", false},
		{"escape", tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone), "", true},
		{"ctrl-c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), "", true},
		{"arrow ignored", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b, quit := keyBytes(tc.ev)
			if string(b) != tc.want || quit != tc.quit {
				t.Errorf("expected (%q, %v), got (%q, %v)", tc.want, tc.quit, b, quit)
			}
		})
	}
}

func TestTypedLineReachesScreen(t *testing.T) {
	tm, s := newTestTerm(t)

	for _, r := range "HI" {
		tm.handleInput(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
	tm.handleInput(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	for _, r := range "BYE" {
		tm.handleInput(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
	if !tm.handleInput(tcell.NewEventKey(tcell.KeyRune, '!', tcell.ModNone)) {
		t.Fatal("a rune should not quit")
	}

	tm.pump()
	tm.draw()

	want := map[int]string{vga.Height - 2: "HI", vga.Height - 1: "BYE!"}
	for row, text := range want {
		for i, r := range text {
			got, _, style, _ := s.GetContent(i, row)
			if got != r {
				t.Errorf("row %d col %d: expected %q, got %q", row, i, r, got)
			}
			fg, _, _ := style.Decompose()
			if fg != tcellPalette[vga.Yellow] {
				t.Errorf("row %d col %d: expected yellow, got %v", row, i, fg)
			}
		}
	}
	x, y, visible := s.GetCursor()
	if !visible || x != 4 || y != vga.Height-1 {
		t.Errorf("cursor: expected (4, %d) visible, got (%d, %d) %v", vga.Height-1, x, y, visible)
	}
	if tm.handleInput(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)) {
		t.Error("escape should quit")
	}
}

func TestBellHook(t *testing.T) {
	tm, _ := newTestTerm(t)
	rang := 0
	tm.relay.Bell = func() { rang++ }

	tm.handleInput(tcell.NewEventKey(tcell.KeyCtrlG, 0, tcell.ModCtrl))
	tm.pump()

	if rang != 1 {
		t.Errorf("expected one bell, got %d", rang)
	}
	if c := tm.m.Console.Buffer().Load(vga.Height-1, 0); c.Char != ' ' {
		t.Errorf("bell should not print, found %q", c.Char)
	}
}
