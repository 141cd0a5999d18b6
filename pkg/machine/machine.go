// Package machine assembles simulated PC text-mode hardware: a port space
// with a CRT controller and a UART, an 80x25 video memory, and a console
// driver bound to them.
package machine

import (
	"fmt"
	"log"

	"vgaterm/pkg/console"
	"vgaterm/pkg/crtc"
	"vgaterm/pkg/cursor"
	"vgaterm/pkg/port"
	"vgaterm/pkg/serial"
	"vgaterm/pkg/vga"
)

// Config selects the console colors and logger.
type Config struct {
	Foreground vga.Color
	Background vga.Color
	Logger     *log.Logger
	// PortLogLimit bounds the recorded port transaction log; 0 is unbounded.
	PortLogLimit int
}

// DefaultConfig returns yellow on black with a 256-entry port log.
func DefaultConfig() Config {
	return Config{Foreground: vga.Yellow, Background: vga.Black, PortLogLimit: 256}
}

// Machine is the simulated hardware plus the driver running on it.
type Machine struct {
	Ports   *port.Sim
	CRTC    *crtc.Device
	UART    *serial.Sim
	Memory  *vga.Memory
	Serial  *serial.Port
	Console *console.Console
}

// New builds the hardware, initializes the UART and brings up the console
// with a cleared screen.
func New(cfg Config) (*Machine, error) {
	m := &Machine{
		Ports:  port.NewSim(),
		CRTC:   crtc.New(),
		UART:   serial.NewSim(),
		Memory: vga.NewMemory(vga.Width * vga.Height),
	}
	m.Ports.LogLimit = cfg.PortLogLimit

	if err := m.Ports.Mount(cursor.CommandPort, 2, m.CRTC); err != nil {
		return nil, fmt.Errorf("mount crtc: %w", err)
	}
	if err := m.Ports.Mount(serial.COM1, 8, m.UART); err != nil {
		return nil, fmt.Errorf("mount uart: %w", err)
	}

	m.Serial = serial.New(m.Ports, serial.COM1)
	m.Serial.Init()

	con, err := console.New(console.Config{
		IO:         m.Ports,
		Region:     m.Memory,
		Foreground: cfg.Foreground,
		Background: cfg.Background,
		Logger:     cfg.Logger,
	})
	if err != nil {
		return nil, err
	}
	con.Clear()
	m.Console = con
	return m, nil
}

// CursorVisible reports whether the simulated controller shows the cursor
// and where.
func (m *Machine) CursorVisible() (pos uint16, shown bool) {
	return m.CRTC.CursorLocation(), m.CRTC.CursorEnabled()
}
