package app

import (
	"sync"
	"testing"
	"time"

	"github.com/dkeye/Doodle/internal/core"
	"github.com/dkeye/Doodle/internal/domain"
)

type sent struct {
	To    domain.PlayerID
	Event core.Event
}

// recorder is a Notifier that keeps every event in send order.
type recorder struct {
	mu           sync.Mutex
	log          []sent
	full         map[domain.PlayerID]bool
	disconnected []domain.PlayerID
}

func newRecorder() *recorder {
	return &recorder{full: make(map[domain.PlayerID]bool)}
}

func (r *recorder) Send(to domain.PlayerID, ev core.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.full[to] {
		return core.ErrBackpressure
	}
	r.log = append(r.log, sent{To: to, Event: ev})
	return nil
}

func (r *recorder) Disconnect(id domain.PlayerID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disconnected = append(r.disconnected, id)
}

func (r *recorder) events(to domain.PlayerID) []core.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []core.Event
	for _, s := range r.log {
		if s.To == to {
			out = append(out, s.Event)
		}
	}
	return out
}

func (r *recorder) named(to domain.PlayerID, name string) []core.Event {
	var out []core.Event
	for _, ev := range r.events(to) {
		if ev.Type == name {
			out = append(out, ev)
		}
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.log = nil
}

// fakeClock only fires timers when the test asks it to.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*fakeTimer
}

type fakeTimer struct {
	clock   *fakeClock
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 5, 1, 13, 4, 5, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	t.stopped = true
	return true
}

func (c *fakeClock) pending() []*fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*fakeTimer
	for _, t := range c.timers {
		if !t.fired && !t.stopped {
			out = append(out, t)
		}
	}
	return out
}

// fireNext runs the oldest pending timer and returns its duration.
func (c *fakeClock) fireNext(t *testing.T) time.Duration {
	t.Helper()
	c.mu.Lock()
	var next *fakeTimer
	for _, tm := range c.timers {
		if !tm.fired && !tm.stopped {
			next = tm
			break
		}
	}
	if next == nil {
		c.mu.Unlock()
		t.Fatalf("no pending timer")
		return 0
	}
	next.fired = true
	c.now = c.now.Add(next.d)
	c.mu.Unlock()

	next.f()
	return next.d
}

// fireStale runs a timer even if it was stopped, as a timer that raced Stop would.
func (c *fakeClock) fireStale(tm *fakeTimer) {
	c.mu.Lock()
	tm.fired = true
	c.mu.Unlock()
	tm.f()
}

type fixedCodes struct {
	mu    sync.Mutex
	codes []domain.RoomCode
}

func (f *fixedCodes) Generate() (domain.RoomCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.codes) == 0 {
		return "ZZZZZZ", nil
	}
	c := f.codes[0]
	f.codes = f.codes[1:]
	return c, nil
}
