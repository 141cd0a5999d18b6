package spin

import (
	"sync"
	"testing"
)

var _ sync.Locker = (*Lock)(nil)

func TestLockMutualExclusion(t *testing.T) {
	var l Lock
	counter := 0
	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				l.Lock()
				counter++
				l.Unlock()
			}
		}()
	}
	wg.Wait()
	if counter != 8000 {
		t.Errorf("counter: expected 8000, got %d", counter)
	}
}

func TestTryLock(t *testing.T) {
	var l Lock
	if !l.TryLock() {
		t.Fatal("TryLock on a free lock should succeed")
	}
	if l.TryLock() {
		t.Error("TryLock on a held lock should fail")
	}
	l.Unlock()
	if !l.TryLock() {
		t.Error("TryLock after Unlock should succeed")
	}
}

func TestUnlockOfUnlockedPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("expected panic on unlock of unlocked lock")
		}
	}()
	var l Lock
	l.Unlock()
}
