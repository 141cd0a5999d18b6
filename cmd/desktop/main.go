package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"vgaterm/pkg/bell"
	"vgaterm/pkg/machine"
	"vgaterm/pkg/relay"
	"vgaterm/pkg/screen"
	"vgaterm/pkg/utils"
	"vgaterm/pkg/vga"
)

// maxBytesPerFrame bounds how much line input one frame consumes.
const maxBytesPerFrame = 4096

type Game struct {
	m      *machine.Machine
	relay  *relay.Relay
	canvas *ebiten.Image // reused full-screen canvas
	frame  int
}

func newGame(m *machine.Machine) *Game {
	return &Game{m: m, relay: relay.New(m.Serial, m.Console)}
}

// keyBytes maps one frame of keyboard input to the bytes a terminal sends.
func keyBytes(chars []rune, enter, backspace, clear bool) []byte {
	var out []byte
	for _, r := range chars {
		out = append(out, string(r)...)
	}
	if enter {
		out = append(out, relay.CR)
	}
	if backspace {
		out = append(out, 8)
	}
	if clear {
		out = append(out, relay.FF)
	}
	return out
}

// pump relays queued line bytes to the console, at most limit of them.
func (g *Game) pump(limit int) int {
	n := 0
	for n < limit {
		ok, err := g.relay.Step()
		if err != nil || !ok {
			break
		}
		n++
	}
	return n
}

func (g *Game) Update() error {
	in := keyBytes(
		ebiten.AppendInputChars(nil),
		inpututil.IsKeyJustPressed(ebiten.KeyEnter),
		inpututil.IsKeyJustPressed(ebiten.KeyBackspace),
		inpututil.IsKeyJustPressed(ebiten.KeyF5),
	)
	if len(in) > 0 {
		g.m.UART.Feed(in...)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		g.screenshot()
	}

	g.pump(maxBytesPerFrame)
	g.frame++
	return nil
}

func (g *Game) cursor() screen.Cursor {
	pos, shown := g.m.CursorVisible()
	start, end := g.m.CRTC.CursorShape()
	// blink at roughly 2 Hz
	shown = shown && (g.frame/16)%2 == 0
	return screen.Cursor{Pos: pos, Visible: shown, Start: start, End: end}
}

func (g *Game) Draw(dst *ebiten.Image) {
	if g.canvas == nil {
		g.canvas = ebiten.NewImage(screen.PixelWidth, screen.PixelHeight)
	}
	img := screen.Render(g.m.Console.Buffer(), g.cursor())
	g.canvas.WritePixels(img.Pix)
	dst.DrawImage(g.canvas, nil)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screen.PixelWidth, screen.PixelHeight
}

func (g *Game) screenshot() {
	name := fmt.Sprintf("vgaterm_%s.png", time.Now().Format("20060102_150405"))
	if err := screen.SaveScreenshot(name, screen.Render(g.m.Console.Buffer(), g.cursor())); err != nil {
		log.Printf("screenshot: %v", err)
		return
	}
	log.Printf("screenshot saved to %s", name)
}

func main() {
	fg := flag.String("fg", "yellow", "foreground color")
	bg := flag.String("bg", "black", "background color")
	mute := flag.Bool("mute", false, "log the bell instead of sounding it")
	flag.Parse()

	cfg := machine.DefaultConfig()
	var ok bool
	if cfg.Foreground, ok = vga.ParseColor(*fg); !ok {
		log.Fatalf("unknown foreground color %q", *fg)
	}
	if cfg.Background, ok = vga.ParseColor(*bg); !ok {
		log.Fatalf("unknown background color %q", *bg)
	}
	cfg.Logger = log.Default()

	m, err := machine.New(cfg)
	if err != nil {
		log.Fatalf("machine: %v", err)
	}

	// An optional file argument is played into the line before input.
	if flag.NArg() > 0 {
		data, err := utils.ReadInput(flag.Arg(0), os.Stdin)
		if err != nil {
			log.Fatalf("Failed to read input file: %v", err)
		}
		m.UART.Feed(data...)
	}

	game := newGame(m)
	player := bell.NewPlayer(0.3)
	game.relay.Bell = func() {
		if *mute {
			log.Print("bell")
			return
		}
		if err := player.Ring(); err != nil {
			log.Printf("bell: %v", err)
		}
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(2*screen.PixelWidth, 2*screen.PixelHeight)
	ebiten.SetWindowTitle("VGA Text Console")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
