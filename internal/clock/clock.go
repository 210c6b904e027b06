package clock

import (
	"sync"
	"time"
)

// Clock supplies created_at/updated_at stamps and event start defaults.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

// NewSystem returns a clock backed by time.Now.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

type fixedClock struct {
	now time.Time
}

// NewFixed returns a clock that always returns the same instant (useful for tests).
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t.UTC()}
}

func (f fixedClock) Now() time.Time {
	return f.now
}

// Ticking advances by a fixed step on every call to Now.
type Ticking struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

// NewTicking returns a clock whose first reading is start.
func NewTicking(start time.Time, step time.Duration) *Ticking {
	return &Ticking{next: start.UTC(), step: step}
}

func (t *Ticking) Now() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.next
	t.next = t.next.Add(t.step)
	return now
}
