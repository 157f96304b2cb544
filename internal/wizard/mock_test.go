package wizard

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/mark3labs/quizr/internal/question"
)

// mockClock implements Clock for deterministic testing.
type mockClock struct {
	mu     sync.Mutex
	now    time.Time
	timers []*mockTimer
}

func newMockClock() *mockClock {
	return &mockClock{now: time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) NewTimer(d time.Duration) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &mockTimer{deadline: c.now.Add(d), ch: make(chan time.Time, 1)}
	c.timers = append(c.timers, t)
	return t
}

// Advance moves time forward and fires any expired timers.
func (c *mockClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	now := c.now
	timers := c.timers
	c.mu.Unlock()

	for _, t := range timers {
		t.mu.Lock()
		if !t.stopped && !t.fired && !t.deadline.After(now) {
			t.fired = true
			select {
			case t.ch <- now:
			default:
			}
		}
		t.mu.Unlock()
	}
}

type mockTimer struct {
	mu       sync.Mutex
	deadline time.Time
	ch       chan time.Time
	stopped  bool
	fired    bool
}

func (t *mockTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	wasRunning := !t.stopped && !t.fired
	t.stopped = true
	return wasRunning
}

func (t *mockTimer) C() <-chan time.Time { return t.ch }

// mockPersister records calls. When gate is set, calls block until it is closed.
type mockPersister struct {
	mu      sync.Mutex
	creates []question.Draft
	updates []string
	err     error
	gate    chan struct{}
	started chan struct{}
	panic   bool
}

func newMockPersister() *mockPersister {
	return &mockPersister{started: make(chan struct{}, 10)}
}

func (m *mockPersister) CreateEntity(_ context.Context, d question.Draft) (question.Question, error) {
	m.mu.Lock()
	m.creates = append(m.creates, d)
	gate, err, panics := m.gate, m.err, m.panic
	n := len(m.creates)
	m.mu.Unlock()

	m.started <- struct{}{}
	if gate != nil {
		<-gate
	}
	if panics {
		panic("boom")
	}
	if err != nil {
		return question.Question{}, err
	}
	return question.Question{ID: "q" + string(rune('0'+n)), Version: 1, Draft: d}, nil
}

func (m *mockPersister) UpdateEntity(_ context.Context, id string, d question.Draft) (question.Question, error) {
	m.mu.Lock()
	m.updates = append(m.updates, id)
	err := m.err
	m.mu.Unlock()

	m.started <- struct{}{}
	if err != nil {
		return question.Question{}, err
	}
	return question.Question{ID: id, Version: 2, Draft: d}, nil
}

func (m *mockPersister) setErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *mockPersister) createCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.creates)
}

type mockChecker struct {
	dups []question.Duplicate
	err  error
}

func (m mockChecker) CheckForDuplicates(context.Context, question.Draft) ([]question.Duplicate, error) {
	return m.dups, m.err
}

var errTitleExists = errors.New("Title already exists")

// validDraft returns a multiple choice draft that passes every step.
func validDraft() question.Draft {
	d := question.NewDraft()
	question.SetField(&d, "language", "javascript")
	question.SetField(&d, "category", "logic")
	question.SetField(&d, "type", question.TypeMultipleChoice)
	question.SetField(&d, "options", []string{"3", "4"})
	question.SetField(&d, "correctIndex", 1)
	question.SetField(&d, "title", "Sum of two and two")
	question.SetField(&d, "description", "What is `2 + 2`?")
	return d
}
