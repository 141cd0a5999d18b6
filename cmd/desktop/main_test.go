package main

import (
	"strings"
	"testing"

	"vgaterm/pkg/machine"
	"vgaterm/pkg/vga"
)

func TestKeyBytes(t *testing.T) {
	tests := []struct {
		name      string
		chars     []rune
		enter     bool
		backspace bool
		clear     bool
		want      string
	}{
		{"nothing", nil, false, false, false, ""},
		{"text", []rune("hi"), false, false, false, "hi"},
		{"enter", []rune("ok"), true, false, false, "ok\r"},
		{"backspace", nil, false, true, false, "\b"},
		{"clear", nil, false, false, true, "\f"},
		{"utf8", []rune("é"), false, false, false, "\xc3\xa9"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := string(keyBytes(tc.chars, tc.enter, tc.backspace, tc.clear))
			if got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestMainWiringIntegration(t *testing.T) {
	m, err := machine.New(machine.DefaultConfig())
	if err != nil {
		t.Fatalf("machine.New: %v", err)
	}
	g := newGame(m)

	m.UART.Feed(keyBytes([]rune("HI"), true, false, false)...)
	m.UART.Feed([]byte("BYE")...)

	if n := g.pump(3); n != 3 {
		t.Fatalf("expected the per-frame limit to stop at 3 bytes, got %d", n)
	}
	g.pump(maxBytesPerFrame)

	buf := m.Console.Buffer()
	if got := buf.RowText(vga.Height - 2); !strings.HasPrefix(got, "HI ") {
		t.Errorf("row above: expected HI, got %q", got)
	}
	if got := buf.RowText(vga.Height - 1); !strings.HasPrefix(got, "BYE ") {
		t.Errorf("last row: expected BYE, got %q", got)
	}
	if pos, shown := m.CursorVisible(); !shown || pos != uint16((vga.Height-1)*vga.Width+3) {
		t.Errorf("cursor: expected visible at %d, got %d (%v)", (vga.Height-1)*vga.Width+3, pos, shown)
	}
}
