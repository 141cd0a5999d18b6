package bell

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
)

func drain(s beep.Streamer) (total int, peak float64) {
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for _, smp := range buf[:n] {
			if smp[0] > peak {
				peak = smp[0]
			}
		}
		total += n
		if !ok {
			return total, peak
		}
	}
}

func TestToneLength(t *testing.T) {
	rate := beep.SampleRate(8000)
	n, _ := drain(NewTone(Frequency, 100*time.Millisecond, rate))
	if want := rate.N(100 * time.Millisecond); n != want {
		t.Errorf("expected %d samples, got %d", want, n)
	}
}

func TestToneIsSquare(t *testing.T) {
	buf := make([][2]float64, 64)
	n, ok := NewTone(1000, time.Second, beep.SampleRate(8000)).Stream(buf)
	if n != 64 || !ok {
		t.Fatalf("expected a full buffer, got %d %v", n, ok)
	}
	for i, smp := range buf {
		if smp[0] != 1 && smp[0] != -1 {
			t.Fatalf("sample %d: expected +-1, got %v", i, smp[0])
		}
		if smp[0] != smp[1] {
			t.Fatalf("sample %d: channels differ", i)
		}
	}
	// 8 samples per period at 1 kHz
	if buf[0][0] != 1 || buf[4][0] != -1 || buf[8][0] != 1 {
		t.Errorf("unexpected phase: %v %v %v", buf[0][0], buf[4][0], buf[8][0])
	}
}

func TestSoundVolume(t *testing.T) {
	if _, peak := drain(Sound(0)); peak != 0 {
		t.Errorf("muted bell: expected silence, got peak %v", peak)
	}
	_, full := drain(Sound(1))
	_, half := drain(Sound(0.5))
	if full != 1 {
		t.Errorf("full volume: expected peak 1, got %v", full)
	}
	if half >= full || half <= 0 {
		t.Errorf("half volume: expected 0 < peak < 1, got %v", half)
	}
}
