// Package testfixtures provides mock implementations and test utilities for TUI testing.
//
// MockPersister stands in for the question bank behind the wizard's save
// orchestrator. It is thread-safe and records calls for assertions:
//
//	p := testfixtures.NewMockPersister()
//	p.FailNext(errors.New("Title already exists"))
//	// drive the wizard...
//	require.Equal(t, 2, p.CreateCalls())
package testfixtures

import (
	"context"
	"fmt"
	"sync"

	"github.com/mark3labs/quizr/internal/question"
)

// MockPersister is an in-memory wizard.Persister and wizard.DuplicateChecker.
type MockPersister struct {
	mu sync.Mutex

	// Duplicates is returned by every CheckForDuplicates call.
	Duplicates []question.Duplicate

	failures    []error
	saved       map[string]question.Question
	createCalls int
	updateCalls int
	checkCalls  int
}

// NewMockPersister creates an empty persister.
func NewMockPersister() *MockPersister {
	return &MockPersister{saved: map[string]question.Question{}}
}

// FailNext makes the next write return err. Calls queue up.
func (m *MockPersister) FailNext(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, err)
}

func (m *MockPersister) nextFailure() error {
	if len(m.failures) == 0 {
		return nil
	}
	err := m.failures[0]
	m.failures = m.failures[1:]
	return err
}

// CreateEntity stores the draft under a sequential id.
func (m *MockPersister) CreateEntity(_ context.Context, d question.Draft) (question.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if err := m.nextFailure(); err != nil {
		return question.Question{}, err
	}
	q := SavedQuestion(fmt.Sprintf("q%d", len(m.saved)+1), d.Clone())
	m.saved[q.ID] = q
	return q, nil
}

// UpdateEntity replaces a stored question and bumps its version.
func (m *MockPersister) UpdateEntity(_ context.Context, id string, d question.Draft) (question.Question, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls++
	if err := m.nextFailure(); err != nil {
		return question.Question{}, err
	}
	q, ok := m.saved[id]
	if !ok {
		q = SavedQuestion(id, d)
	}
	q.Version++
	q.Draft = d.Clone()
	m.saved[id] = q
	return q, nil
}

// CheckForDuplicates returns Duplicates.
func (m *MockPersister) CheckForDuplicates(context.Context, question.Draft) ([]question.Duplicate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkCalls++
	return m.Duplicates, nil
}

// Saved returns the stored question with the given id.
func (m *MockPersister) Saved(id string) (question.Question, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q, ok := m.saved[id]
	return q, ok
}

func (m *MockPersister) CreateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.createCalls
}

func (m *MockPersister) UpdateCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.updateCalls
}

func (m *MockPersister) CheckCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checkCalls
}
