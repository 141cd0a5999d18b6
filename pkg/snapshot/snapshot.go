// Package snapshot saves and restores the visible state of a console as a
// ZIP archive: a JSON description of the writer plus the raw cell image.
package snapshot

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"vgaterm/pkg/console"
	"vgaterm/pkg/vga"
)

const (
	stateEntry = "console_state.json"
	cellsEntry = "cells.bin"
)

// ErrGeometry is returned when a snapshot was taken of a screen with
// different dimensions.
var ErrGeometry = errors.New("snapshot: screen geometry mismatch")

// state is the JSON-serializable part of a snapshot.
type state struct {
	Width     int       `json:"width"`
	Height    int       `json:"height"`
	Column    int       `json:"column"`
	Attr      uint8     `json:"attr"`
	CursorPos uint16    `json:"cursor_pos"`
	Saved     time.Time `json:"saved"`
}

// Snapshot is a captured console.
type Snapshot struct {
	Column    int
	Attr      vga.Attr
	CursorPos uint16
	Saved     time.Time
	Cells     []vga.Cell
}

// Capture copies the screen and writer state of con. Output printed while
// the capture runs may be partially included.
func Capture(con *console.Console) *Snapshot {
	buf := con.Buffer()
	s := &Snapshot{
		Column:    con.Writer().Column(),
		Attr:      con.Writer().Attr(),
		CursorPos: con.Cursor().Position(),
		Saved:     time.Now().UTC(),
		Cells:     make([]vga.Cell, 0, vga.Width*vga.Height),
	}
	for row := 0; row < vga.Height; row++ {
		s.Cells = append(s.Cells, buf.Row(row)...)
	}
	return s
}

// Apply writes the snapshot back to con: every cell, then the column and
// attribute, which also moves the hardware cursor.
func (s *Snapshot) Apply(con *console.Console) error {
	if len(s.Cells) != vga.Width*vga.Height {
		return fmt.Errorf("%w: %d cells", ErrGeometry, len(s.Cells))
	}
	buf := con.Buffer()
	for i, c := range s.Cells {
		buf.Store(i/vga.Width, i%vga.Width, c)
	}
	con.Writer().Restore(s.Column, s.Attr)
	return nil
}

// ToBytes serialises the snapshot into an in-memory ZIP archive.
func (s *Snapshot) ToBytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)

	st := state{
		Width:     vga.Width,
		Height:    vga.Height,
		Column:    s.Column,
		Attr:      uint8(s.Attr),
		CursorPos: s.CursorPos,
		Saved:     s.Saved,
	}
	jsonData, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal console_state: %w", err)
	}
	if err := writeZipEntry(zw, stateEntry, jsonData); err != nil {
		return nil, err
	}

	cells := make([]byte, 2*len(s.Cells))
	for i, c := range s.Cells {
		binary.LittleEndian.PutUint16(cells[2*i:], c.Word())
	}
	if err := writeZipEntry(zw, cellsEntry, cells); err != nil {
		return nil, err
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close zip: %w", err)
	}
	return buf.Bytes(), nil
}

// FromBytes parses an archive produced by ToBytes.
func FromBytes(data []byte) (*Snapshot, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	fileMap := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		fileMap[f.Name] = f
	}

	jsonData, err := readZipEntry(fileMap, stateEntry)
	if err != nil {
		return nil, err
	}
	var st state
	if err := json.Unmarshal(jsonData, &st); err != nil {
		return nil, fmt.Errorf("unmarshal console_state: %w", err)
	}
	if st.Width != vga.Width || st.Height != vga.Height {
		return nil, fmt.Errorf("%w: %dx%d", ErrGeometry, st.Width, st.Height)
	}

	raw, err := readZipEntry(fileMap, cellsEntry)
	if err != nil {
		return nil, err
	}
	if len(raw) != 2*vga.Width*vga.Height {
		return nil, fmt.Errorf("%w: cell image is %d bytes", ErrGeometry, len(raw))
	}
	s := &Snapshot{
		Column:    st.Column,
		Attr:      vga.Attr(st.Attr),
		CursorPos: st.CursorPos,
		Saved:     st.Saved,
		Cells:     make([]vga.Cell, vga.Width*vga.Height),
	}
	for i := range s.Cells {
		s.Cells[i] = vga.CellFromWord(binary.LittleEndian.Uint16(raw[2*i:]))
	}
	return s, nil
}

// SaveFile writes the archive to path.
func (s *Snapshot) SaveFile(path string) error {
	data, err := s.ToBytes()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// LoadFile reads an archive from path.
func LoadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromBytes(data)
}

func writeZipEntry(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %q: %w", name, err)
	}
	_, err = w.Write(data)
	return err
}

func readZipEntry(fileMap map[string]*zip.File, name string) ([]byte, error) {
	f, ok := fileMap[name]
	if !ok {
		return nil, fmt.Errorf("zip entry %q not found", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open zip entry %q: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
