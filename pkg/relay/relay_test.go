package relay

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"vgaterm/pkg/machine"
	"vgaterm/pkg/serial"
	"vgaterm/pkg/vga"
)

// MockSink records the calls made on it.
type MockSink struct {
	Calls []string
}

func (m *MockSink) Print(s string) { m.Calls = append(m.Calls, "print:"+s) }
func (m *MockSink) Clear()         { m.Calls = append(m.Calls, "clear") }

// MockSource serves bytes from a slice, then ErrNoData or Err.
type MockSource struct {
	Data []byte
	Err  error
}

func (m *MockSource) TryReceive() (byte, error) {
	if len(m.Data) == 0 {
		if m.Err != nil {
			return 0, m.Err
		}
		return 0, serial.ErrNoData
	}
	b := m.Data[0]
	m.Data = m.Data[1:]
	return b, nil
}

func TestHandleMapping(t *testing.T) {
	tests := []struct {
		in   byte
		want string
	}{
		{'a', "print:a"},
		{CR, "print:\n"},
		{'\n', "print:\n"},
		{FF, "clear"},
		{BEL, "print:\a"},
		{0xE9, "print:\xe9"},
	}
	for _, tc := range tests {
		sink := &MockSink{}
		New(&MockSource{}, sink).Handle(tc.in)
		if len(sink.Calls) != 1 || sink.Calls[0] != tc.want {
			t.Errorf("Handle(0x%02X): expected [%q], got %q", tc.in, tc.want, sink.Calls)
		}
	}
}

func TestBellHook(t *testing.T) {
	sink := &MockSink{}
	r := New(&MockSource{}, sink)
	rang := 0
	r.Bell = func() { rang++ }

	r.Handle(BEL)

	if rang != 1 {
		t.Errorf("expected one bell, got %d", rang)
	}
	if len(sink.Calls) != 0 {
		t.Errorf("BEL with a bell hook should not print, got %q", sink.Calls)
	}
}

func TestStep(t *testing.T) {
	sink := &MockSink{}
	var echoed []byte
	r := New(&MockSource{Data: []byte{'x'}}, sink)
	r.Echo = func(b byte) { echoed = append(echoed, b) }

	if ok, err := r.Step(); !ok || err != nil {
		t.Fatalf("first Step: expected (true, nil), got (%v, %v)", ok, err)
	}
	if ok, err := r.Step(); ok || err != nil {
		t.Fatalf("empty Step: expected (false, nil), got (%v, %v)", ok, err)
	}
	if string(echoed) != "x" {
		t.Errorf("echo: expected %q, got %q", "x", echoed)
	}

	broken := errors.New("line fault")
	r = New(&MockSource{Err: broken}, sink)
	if _, err := r.Step(); !errors.Is(err, broken) {
		t.Errorf("expected source error, got %v", err)
	}
}

func TestRunOverSimulatedUART(t *testing.T) {
	m, err := machine.New(machine.DefaultConfig())
	if err != nil {
		t.Fatalf("machine.New: %v", err)
	}
	m.Console.Print("stale")
	m.UART.Feed(FF)
	m.UART.Feed([]byte("HI")...)
	m.UART.Feed(CR)
	m.UART.Feed([]byte("BYE")...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- New(m.Serial, m.Console).Run(ctx) }()

	deadline := time.After(2 * time.Second)
	for m.UART.Pending() > 0 {
		select {
		case <-deadline:
			t.Fatal("relay did not drain the UART")
		default:
			time.Sleep(time.Millisecond)
		}
	}
	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run: expected context.Canceled, got %v", err)
	}

	buf := m.Console.Buffer()
	if got := buf.RowText(vga.Height - 1); !strings.HasPrefix(got, "BYE ") {
		t.Errorf("last row: expected BYE, got %q", got)
	}
	if got := buf.RowText(vga.Height - 2); !strings.HasPrefix(got, "HI ") {
		t.Errorf("row above: expected HI, got %q", got)
	}
	if strings.Contains(buf.RowText(vga.Height-3), "stale") {
		t.Error("form feed did not clear earlier output")
	}
}

func TestRunCallsIdleWhenLineEmpty(t *testing.T) {
	sink := &MockSink{}
	r := New(&MockSource{Data: []byte("ab")}, sink)
	ctx, cancel := context.WithCancel(context.Background())
	idle := 0
	r.Idle = func() {
		idle++
		if idle == 3 {
			cancel()
		}
	}

	if err := r.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run: expected context.Canceled, got %v", err)
	}
	if idle != 3 {
		t.Errorf("expected 3 idle calls, got %d", idle)
	}
	if len(sink.Calls) != 2 {
		t.Errorf("expected both bytes printed before idling, got %q", sink.Calls)
	}
}
