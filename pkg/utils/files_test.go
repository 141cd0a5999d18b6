package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGetPathInfo(t *testing.T) {
	full, dir, err := GetPathInfo("a/../b/line.txt")
	if err != nil {
		t.Fatalf("GetPathInfo: %v", err)
	}
	if !filepath.IsAbs(full) || filepath.Base(full) != "line.txt" {
		t.Errorf("unexpected full path %q", full)
	}
	if filepath.Base(dir) != "b" {
		t.Errorf("expected parent dir b, got %q", dir)
	}
}

func TestReadInput(t *testing.T) {
	name := filepath.Join(t.TempDir(), "in.txt")
	if err := os.WriteFile(name, []byte("HI\rBYE"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := ReadInput(name, nil)
	if err != nil || string(got) != "HI\rBYE" {
		t.Errorf("file: expected %q, got %q (%v)", "HI\rBYE", got, err)
	}
	got, err = ReadInput("-", strings.NewReader("\fclear"))
	if err != nil || string(got) != "\fclear" {
		t.Errorf("stdin: expected %q, got %q (%v)", "\fclear", got, err)
	}
	if _, err := ReadInput(filepath.Join(t.TempDir(), "missing"), nil); err == nil {
		t.Error("expected an error for a missing file")
	}
}
