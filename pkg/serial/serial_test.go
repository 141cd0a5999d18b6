package serial

import (
	"bytes"
	"errors"
	"testing"

	"vgaterm/pkg/port"
)

func newUART(t *testing.T) (*Port, *Sim, *port.Sim) {
	t.Helper()
	ps := port.NewSim()
	dev := NewSim()
	if err := ps.Mount(COM1, 8, dev); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return New(ps, COM1), dev, ps
}

func TestInitSequence(t *testing.T) {
	p, dev, ps := newUART(t)

	p.Init()

	want := []struct {
		addr uint16
		val  uint32
	}{
		{COM1 + RegIntEnable, 0x00},
		{COM1 + RegLineCtrl, 0x80},
		{COM1 + RegData, 0x03},
		{COM1 + RegIntEnable, 0x00},
		{COM1 + RegLineCtrl, 0x03},
		{COM1 + RegFIFOCtrl, 0xC7},
		{COM1 + RegModemCtrl, 0x0B},
		{COM1 + RegIntEnable, 0x01},
	}
	got := ps.Writes()
	if len(got) != len(want) {
		t.Fatalf("expected %d writes, got %d: %v", len(want), len(got), got)
	}
	for i, w := range want {
		if got[i].Addr != w.addr || got[i].Value != w.val {
			t.Errorf("write %d: expected 0x%X=0x%02X, got %v", i, w.addr, w.val, got[i])
		}
	}
	if dev.Divisor() != 3 {
		t.Errorf("divisor: expected 3, got %d", dev.Divisor())
	}
	if dev.LineControl() != 0x03 {
		t.Errorf("LCR: expected 0x03, got 0x%02X", dev.LineControl())
	}
	if len(dev.Transmitted()) != 0 {
		t.Errorf("divisor writes leaked into the transmit stream: %v", dev.Transmitted())
	}
}

func TestTryReceive(t *testing.T) {
	p, dev, _ := newUART(t)
	p.Init()

	if _, err := p.TryReceive(); !errors.Is(err, ErrNoData) {
		t.Fatalf("empty line: expected ErrNoData, got %v", err)
	}

	dev.Feed('o', 'k', 13)
	var got []byte
	for {
		b, err := p.TryReceive()
		if err != nil {
			break
		}
		got = append(got, b)
	}
	if !bytes.Equal(got, []byte{'o', 'k', 13}) {
		t.Errorf("received: expected %q, got %q", "ok\r", got)
	}
	if dev.Pending() != 0 {
		t.Errorf("expected an empty FIFO, %d bytes pending", dev.Pending())
	}
}

func TestReceiveBlocksUntilData(t *testing.T) {
	p, dev, _ := newUART(t)
	p.Init()
	dev.Feed('z')
	if got := p.Receive(); got != 'z' {
		t.Errorf("Receive: expected 'z', got %q", got)
	}
}

func TestSendAndWrite(t *testing.T) {
	p, dev, _ := newUART(t)
	p.Init()

	p.Send('>')
	n, err := p.Write([]byte(" hello"))
	if n != 6 || err != nil {
		t.Fatalf("Write: expected (6, nil), got (%d, %v)", n, err)
	}
	if got := string(dev.Transmitted()); got != "> hello" {
		t.Errorf("transmitted: expected %q, got %q", "> hello", got)
	}
}

func TestFIFOResetDropsInput(t *testing.T) {
	p, dev, ps := newUART(t)
	dev.Feed('x', 'y')
	ps.Out8(COM1+RegFIFOCtrl, 0x07)
	if _, err := p.TryReceive(); !errors.Is(err, ErrNoData) {
		t.Errorf("expected FIFO cleared, got %v", err)
	}
}

func TestInterruptIdentification(t *testing.T) {
	p, dev, ps := newUART(t)
	p.Init()
	if got := ps.In8(COM1 + RegFIFOCtrl); got != 0xC1 {
		t.Errorf("IIR idle: expected 0xC1, got 0x%02X", got)
	}
	dev.Feed('a')
	if got := ps.In8(COM1 + RegFIFOCtrl); got != 0xC4 {
		t.Errorf("IIR data available: expected 0xC4, got 0x%02X", got)
	}
	if got := p.LineStatus(); got&LSRDataReady == 0 {
		t.Errorf("LSR: expected data ready, got 0x%02X", got)
	}
}
