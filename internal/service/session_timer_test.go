package service

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestSessionTimerFiresExactlyOnce(t *testing.T) {
	var fired int32
	done := make(chan struct{})
	timer := NewSessionTimer(1, func() {
		if atomic.AddInt32(&fired, 1) == 1 {
			close(done)
		}
	})
	timer.remaining = 2
	timer.interval = time.Millisecond
	timer.Start()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never expired")
	}

	// Re-entrant starts must not restart the countdown or re-fire.
	timer.Start()
	timer.Start()
	time.Sleep(20 * time.Millisecond)

	if n := atomic.LoadInt32(&fired); n != 1 {
		t.Errorf("expiry callback fired %d times, want 1", n)
	}
	if timer.State() != TimerExpired {
		t.Errorf("state = %s, want %s", timer.State(), TimerExpired)
	}
	if timer.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", timer.Remaining())
	}
}

func TestSessionTimerCancelSuppressesExpiry(t *testing.T) {
	var fired int32
	timer := NewSessionTimer(1, func() {
		atomic.AddInt32(&fired, 1)
	})
	timer.interval = time.Millisecond
	timer.Start()
	timer.Cancel()

	time.Sleep(20 * time.Millisecond)

	if n := atomic.LoadInt32(&fired); n != 0 {
		t.Errorf("cancelled timer fired %d times, want 0", n)
	}
	if timer.State() != TimerCancelled {
		t.Errorf("state = %s, want %s", timer.State(), TimerCancelled)
	}

	// Cancel is idempotent.
	timer.Cancel()
}

func TestSessionTimerUntimedExamNeverStarts(t *testing.T) {
	timer := NewSessionTimer(0, func() {
		t.Error("untimed exam must never fire the expiry callback")
	})
	timer.Start()

	if timer.State() != TimerIdle {
		t.Errorf("state = %s, want %s", timer.State(), TimerIdle)
	}
}

func TestSessionTimerCountsDown(t *testing.T) {
	timer := NewSessionTimer(2, nil)
	if timer.Remaining() != 120 {
		t.Errorf("Remaining = %d, want 120 (minutes are converted to seconds)", timer.Remaining())
	}
}
