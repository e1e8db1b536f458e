package filelock_test

import (
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/antopolskiy/taskboard/internal/filelock"
)

func TestLockAndRelease(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "activity.lock")

	unlock, err := filelock.Lock(lockPath)
	if err != nil {
		t.Fatalf("Lock() error: %v", err)
	}
	if err := unlock(); err != nil {
		t.Fatalf("unlock() error: %v", err)
	}

	// The lock can be taken again once released.
	unlock, err = filelock.Lock(lockPath)
	if err != nil {
		t.Fatalf("second Lock() error: %v", err)
	}
	_ = unlock()
}

func TestLockMissingDir(t *testing.T) {
	if _, err := filelock.Lock(filepath.Join(t.TempDir(), "nope", "x.lock")); err == nil {
		t.Error("Lock() in a missing directory succeeded, want error")
	}
}

func TestLockSerializesHolders(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "activity.lock")

	const goroutines = 10
	var inside, peak int64
	var wg sync.WaitGroup

	wg.Add(goroutines)
	for range goroutines {
		go func() {
			defer wg.Done()

			unlock, err := filelock.Lock(lockPath)
			if err != nil {
				t.Errorf("Lock() error: %v", err)
				return
			}
			cur := atomic.AddInt64(&inside, 1)
			for {
				old := atomic.LoadInt64(&peak)
				if cur <= old || atomic.CompareAndSwapInt64(&peak, old, cur) {
					break
				}
			}
			atomic.AddInt64(&inside, -1)

			if err := unlock(); err != nil {
				t.Errorf("unlock() error: %v", err)
			}
		}()
	}
	wg.Wait()

	if p := atomic.LoadInt64(&peak); p != 1 {
		t.Errorf("peak holders = %d, want 1", p)
	}
}
