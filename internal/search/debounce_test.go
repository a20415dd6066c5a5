package search

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncerRunsOnlyLastTask(t *testing.T) {
	d := NewDebouncer(50 * time.Millisecond)

	var runs atomic.Int32
	var last atomic.Int32
	for i := 1; i <= 3; i++ {
		v := int32(i)
		d.Trigger(func() {
			runs.Add(1)
			last.Store(v)
		})
		time.Sleep(5 * time.Millisecond)
	}

	time.Sleep(200 * time.Millisecond)

	if got := runs.Load(); got != 1 {
		t.Errorf("expected exactly 1 run, got %d", got)
	}
	if got := last.Load(); got != 3 {
		t.Errorf("expected last task to run, got task %d", got)
	}
}

func TestDebouncerSeparateBursts(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var runs atomic.Int32
	d.Trigger(func() { runs.Add(1) })
	time.Sleep(150 * time.Millisecond)
	d.Trigger(func() { runs.Add(1) })
	time.Sleep(150 * time.Millisecond)

	if got := runs.Load(); got != 2 {
		t.Errorf("expected 2 runs for separate bursts, got %d", got)
	}
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	var runs atomic.Int32
	d.Trigger(func() { runs.Add(1) })
	d.Stop()

	time.Sleep(150 * time.Millisecond)
	if got := runs.Load(); got != 0 {
		t.Errorf("expected no runs after Stop, got %d", got)
	}
}
