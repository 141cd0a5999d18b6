//go:build baremetal

// Command kernel is the freestanding entry point: it brings up the console
// on the real text frame buffer and echoes COM1 to the screen forever.
package main

import (
	"vgaterm/pkg/console"
	"vgaterm/pkg/port"
	"vgaterm/pkg/relay"
	"vgaterm/pkg/serial"
	"vgaterm/pkg/vga"
)

func main() {
	hw := port.Hardware{}

	con, err := console.New(console.Config{
		IO:         hw,
		Region:     vga.NewPhysical(vga.PhysAddr, vga.Width*vga.Height),
		Foreground: vga.Yellow,
		Background: vga.Black,
	})
	if err != nil {
		// nothing to report on without a screen
		for {
		}
	}
	con.Clear()

	com1 := serial.New(hw, serial.COM1)
	com1.Init()

	r := relay.New(com1, con)
	for {
		r.Step()
	}
}
