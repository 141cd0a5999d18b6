// Package relay forwards bytes from a serial line to a console, deciding
// which bytes are text and which are commands.
package relay

import (
	"context"
	"errors"
	"runtime"

	"vgaterm/pkg/serial"
)

// Control bytes with a meaning on the line.
const (
	BEL byte = 0x07
	FF  byte = 0x0C // form feed: clear screen
	CR  byte = 0x0D // carriage return: new line
)

// Source yields received bytes without blocking.
type Source interface {
	TryReceive() (byte, error)
}

// Sink is the console surface the relay drives.
type Sink interface {
	Print(s string)
	Clear()
}

// Relay polls a Source and applies each byte to a Sink.
type Relay struct {
	src  Source
	sink Sink
	// Bell is called for BEL. When nil, BEL is printed like any other byte.
	Bell func()
	// Echo, when set, receives every byte taken off the line.
	Echo func(b byte)
	// Idle is called by Run when the line is empty. Nil yields the
	// processor.
	Idle func()
}

// New returns a relay from src to sink.
func New(src Source, sink Sink) *Relay {
	return &Relay{src: src, sink: sink}
}

// Handle applies one byte: CR starts a new line, FF clears the screen and
// anything else is printed as is.
func (r *Relay) Handle(b byte) {
	if r.Echo != nil {
		r.Echo(b)
	}
	switch b {
	case CR:
		r.sink.Print("\n")
	case FF:
		r.sink.Clear()
	case BEL:
		if r.Bell != nil {
			r.Bell()
			return
		}
		r.sink.Print(string([]byte{b}))
	default:
		r.sink.Print(string([]byte{b}))
	}
}

// Step polls the source once and handles the byte if there was one. It
// reports whether a byte was handled.
func (r *Relay) Step() (bool, error) {
	b, err := r.src.TryReceive()
	if errors.Is(err, serial.ErrNoData) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	r.Handle(b)
	return true, nil
}

// Run polls until ctx is done or the source fails.
func (r *Relay) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		ok, err := r.Step()
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if r.Idle != nil {
			r.Idle()
		} else {
			runtime.Gosched()
		}
	}
}
