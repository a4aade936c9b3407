package service

import (
	"sync"
	"time"
)

// Timer states.
const (
	TimerIdle      = "idle"
	TimerRunning   = "running"
	TimerExpired   = "expired"
	TimerCancelled = "cancelled"
)

// SessionTimer counts an exam's remaining seconds down once per second and
// fires the forced-submit callback at most once when it reaches zero. Cancel
// stops the countdown without firing; both paths race safely with each other
// and with manual submission.
type SessionTimer struct {
	mu        sync.Mutex
	state     string
	remaining int
	stop      chan struct{}
	expire    sync.Once
	onExpire  func()

	// interval is overridable so tests do not wait wall-clock seconds.
	interval time.Duration
}

// NewSessionTimer prepares an idle timer for durationMinutes. A zero or
// negative duration means the exam is untimed and Start is a no-op.
func NewSessionTimer(durationMinutes int, onExpire func()) *SessionTimer {
	return &SessionTimer{
		state:     TimerIdle,
		remaining: durationMinutes * 60,
		onExpire:  onExpire,
		interval:  time.Second,
	}
}

// Start begins ticking. Calling Start on anything but an idle timer is a
// no-op, so re-entrant starts cannot reset the countdown.
func (t *SessionTimer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TimerIdle || t.remaining <= 0 {
		return
	}
	t.state = TimerRunning
	t.stop = make(chan struct{})
	go t.run(t.stop)
}

func (t *SessionTimer) run(stop chan struct{}) {
	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if t.tick() {
				return
			}
		}
	}
}

// tick decrements once; returns true when the countdown is finished.
func (t *SessionTimer) tick() bool {
	t.mu.Lock()
	if t.state != TimerRunning {
		t.mu.Unlock()
		return true
	}
	t.remaining--
	if t.remaining > 0 {
		t.mu.Unlock()
		return false
	}
	t.remaining = 0
	t.state = TimerExpired
	t.mu.Unlock()

	// Outside the lock: the callback re-enters the session.
	t.expire.Do(func() {
		if t.onExpire != nil {
			t.onExpire()
		}
	})
	return true
}

// Cancel stops the countdown without firing the expiry callback. Idempotent;
// after an expiry it only marks the timer stopped.
func (t *SessionTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state == TimerRunning {
		close(t.stop)
	}
	if t.state != TimerExpired {
		t.state = TimerCancelled
	}
	// Burn the Once so a late tick can never fire the callback.
	t.expire.Do(func() {})
}

// Remaining reports the seconds left; 0 for an expired or never-started timer
// of an untimed exam.
func (t *SessionTimer) Remaining() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.remaining
}

// State reports the current lifecycle state.
func (t *SessionTimer) State() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}
