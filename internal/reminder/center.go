// Package reminder schedules one-shot local reminders ahead of task due dates.
package reminder

import (
	"errors"
	"sort"
	"sync"
	"time"
)

// Request is a pending one-shot reminder keyed by task ID.
type Request struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle"`
	Body     string    `json:"body"`
	FireAt   time.Time `json:"fireAt"`
}

// Center is the notification facility reminders are registered with.
type Center interface {
	// Remove cancels pending reminders with the given IDs. Unknown IDs are ignored.
	Remove(ids ...string)
	// Add registers req, replacing any pending reminder with the same ID.
	Add(req Request) error
	// Pending lists reminders that have not fired yet, soonest first.
	Pending() []Request
}

// Notifier receives reminders when they fire.
type Notifier interface {
	Notify(req Request)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Request)

func (f NotifierFunc) Notify(req Request) { f(req) }

var (
	ErrClosed    = errors.New("reminder center closed")
	ErrMissingID = errors.New("reminder request has no id")
)

type pending struct {
	req   Request
	timer *time.Timer
}

// TimerCenter is an in-process Center backed by time.AfterFunc. Add never
// blocks; delivery happens on the timer's goroutine.
type TimerCenter struct {
	mu       sync.Mutex
	pending  map[string]*pending
	notifier Notifier
	closed   bool
	now      func() time.Time
}

func NewTimerCenter(notifier Notifier) *TimerCenter {
	return &TimerCenter{
		pending:  map[string]*pending{},
		notifier: notifier,
		now:      time.Now,
	}
}

func (c *TimerCenter) Add(req Request) error {
	if req.ID == "" {
		return ErrMissingID
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	if p, ok := c.pending[req.ID]; ok {
		p.timer.Stop()
	}

	p := &pending{req: req}
	p.timer = time.AfterFunc(req.FireAt.Sub(c.now()), func() { c.fire(p) })
	c.pending[req.ID] = p
	return nil
}

func (c *TimerCenter) fire(p *pending) {
	c.mu.Lock()
	// A replaced or removed reminder may still fire if Stop lost the race.
	if c.pending[p.req.ID] != p {
		c.mu.Unlock()
		return
	}
	delete(c.pending, p.req.ID)
	notifier := c.notifier
	c.mu.Unlock()

	if notifier != nil {
		notifier.Notify(p.req)
	}
}

func (c *TimerCenter) Remove(ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range ids {
		if p, ok := c.pending[id]; ok {
			p.timer.Stop()
			delete(c.pending, id)
		}
	}
}

func (c *TimerCenter) Pending() []Request {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Request, 0, len(c.pending))
	for _, p := range c.pending {
		out = append(out, p.req)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FireAt.Equal(out[j].FireAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].FireAt.Before(out[j].FireAt)
	})
	return out
}

// Close stops every pending timer. Later Adds fail with ErrClosed.
func (c *TimerCenter) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, p := range c.pending {
		p.timer.Stop()
		delete(c.pending, id)
	}
	c.closed = true
}
