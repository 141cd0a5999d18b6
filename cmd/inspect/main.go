// Command inspect runs the console on simulated hardware and shows the
// screen next to the controller registers and the port traffic.
package main

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/jroimartin/gocui"

	"vgaterm/pkg/crtc"
	"vgaterm/pkg/machine"
	"vgaterm/pkg/port"
	"vgaterm/pkg/relay"
	"vgaterm/pkg/screen"
	"vgaterm/pkg/vga"
)

// portRows is how many recent port transactions the ports view lists.
const portRows = 40

type inspector struct {
	m     *machine.Machine
	relay *relay.Relay
	bells int
}

func newInspector(m *machine.Machine) *inspector {
	in := &inspector{m: m, relay: relay.New(m.Serial, m.Console)}
	in.relay.Bell = func() { in.bells++ }
	return in
}

// keyBytes maps a key in the screen view to line bytes.
func keyBytes(key gocui.Key, ch rune) []byte {
	switch {
	case ch != 0:
		return []byte(string(ch))
	case key == gocui.KeySpace:
		return []byte{' '}
	case key == gocui.KeyEnter:
		return []byte{relay.CR}
	case key == gocui.KeyBackspace || key == gocui.KeyBackspace2:
		return []byte{8}
	case key == gocui.KeyCtrlL:
		return []byte{relay.FF}
	case key == gocui.KeyCtrlG:
		return []byte{relay.BEL}
	}
	return nil
}

// pump drains the line into the console.
func (in *inspector) pump() {
	for {
		ok, err := in.relay.Step()
		if err != nil || !ok {
			return
		}
	}
}

// dumpRegisters writes the CRT controller and writer state.
func dumpRegisters(w io.Writer, m *machine.Machine, bells int) {
	for i := 0; i < crtc.NumRegisters; i++ {
		fmt.Fprintf(w, "R%02X=%02X ", i, m.CRTC.Register(uint8(i)))
		if i%4 == 3 {
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintln(w)
	start, end := m.CRTC.CursorShape()
	pos, shown := m.CursorVisible()
	fmt.Fprintf(w, "cursor  %4d (row %d col %d) shown=%t shape=%d..%d\n",
		pos, int(pos)/vga.Width, int(pos)%vga.Width, shown, start, end)
	wr := m.Console.Writer()
	a := wr.Attr()
	fmt.Fprintf(w, "writer  column=%d attr=0x%02X (%v on %v)\n", wr.Column(), uint8(a), a.Foreground(), a.Background())
	fmt.Fprintf(w, "uart    lcr=0x%02X divisor=%d pending=%d bells=%d\n",
		m.UART.LineControl(), m.UART.Divisor(), m.UART.Pending(), bells)
}

// dumpPorts writes the newest n port transactions, oldest first.
func dumpPorts(w io.Writer, log []port.Access, n int) {
	if len(log) > n {
		log = log[len(log)-n:]
	}
	for _, a := range log {
		fmt.Fprintln(w, a)
	}
}

func (in *inspector) refresh(g *gocui.Gui) error {
	in.pump()

	sv, err := g.View("screen")
	if err != nil {
		return err
	}
	sv.Clear()
	fmt.Fprint(sv, screen.Text(in.m.Console.Buffer()))
	pos, shown := in.m.CursorVisible()
	if shown {
		sv.SetCursor(int(pos)%vga.Width, int(pos)/vga.Width)
	}

	rv, err := g.View("registers")
	if err != nil {
		return err
	}
	rv.Clear()
	dumpRegisters(rv, in.m, in.bells)

	pv, err := g.View("ports")
	if err != nil {
		return err
	}
	pv.Clear()
	dumpPorts(pv, in.m.Ports.Log(), portRows)
	return nil
}

func (in *inspector) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	// left -> screen, sized to the text grid plus frame
	if v, err := g.SetView("screen", 0, 0, vga.Width+1, vga.Height+1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Screen"
		v.Editable = true
		v.Editor = gocui.EditorFunc(func(v *gocui.View, key gocui.Key, ch rune, mod gocui.Modifier) {
			if b := keyBytes(key, ch); len(b) > 0 {
				in.m.UART.Feed(b...)
			}
		})
		if _, err := g.SetCurrentView("screen"); err != nil {
			return err
		}
	}
	// right top -> registers
	if v, err := g.SetView("registers", vga.Width+2, 0, maxX-1, 12); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Registers"
	}
	// right bottom -> port log
	if v, err := g.SetView("ports", vga.Width+2, 13, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Ports"
		v.Autoscroll = true
	}
	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}

func main() {
	m, err := machine.New(machine.DefaultConfig())
	if err != nil {
		log.Panicln(err)
	}
	in := newInspector(m)

	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		log.Panicln("Couldn't create gui!")
	}
	defer g.Close()

	g.Cursor = true
	g.SetManagerFunc(in.layout)

	if err := g.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit); err != nil {
		log.Panicln(err)
	}

	// gocui allows updating views only through Update
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	go func() {
		for range ticker.C {
			g.Update(in.refresh)
		}
	}()

	if err := g.MainLoop(); err != nil && err != gocui.ErrQuit {
		log.Panicln(err)
	}
}
