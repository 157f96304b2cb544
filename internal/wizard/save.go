package wizard

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/mark3labs/quizr/internal/logger"
	"github.com/mark3labs/quizr/internal/question"
)

// SaveState is the phase of the save orchestrator.
type SaveState int

const (
	SaveIdle SaveState = iota
	SaveSaving
	SaveSucceeded
	SaveFailed
)

func (s SaveState) String() string {
	switch s {
	case SaveSaving:
		return "saving"
	case SaveSucceeded:
		return "succeeded"
	case SaveFailed:
		return "failed"
	default:
		return "idle"
	}
}

// SaveStatus is the orchestrator state. ID is set in SaveSucceeded and
// Message in SaveFailed.
type SaveStatus struct {
	State   SaveState
	ID      string
	Message string
}

func (s SaveStatus) String() string {
	switch s.State {
	case SaveSucceeded:
		return fmt.Sprintf("succeeded(%s)", s.ID)
	case SaveFailed:
		return fmt.Sprintf("failed(%s)", s.Message)
	default:
		return s.State.String()
	}
}

// Persister creates and updates questions.
type Persister interface {
	CreateEntity(ctx context.Context, d question.Draft) (question.Question, error)
	UpdateEntity(ctx context.Context, id string, d question.Draft) (question.Question, error)
}

// DuplicateChecker finds questions similar to a draft. Results are advisory.
type DuplicateChecker interface {
	CheckForDuplicates(ctx context.Context, d question.Draft) ([]question.Duplicate, error)
}

// CompletionFunc is called once after a successful save.
type CompletionFunc func(id string, q question.Question)

// Orchestrator drives the persistence call of a wizard session at most once
// per successful completion.
type Orchestrator struct {
	persister  Persister
	editingID  string
	onComplete CompletionFunc

	mu       sync.Mutex
	status   SaveStatus
	notified bool
	calls    int
}

// NewOrchestrator creates an orchestrator. A non-empty editingID makes Save
// update that question instead of creating a new one.
func NewOrchestrator(p Persister, editingID string, onComplete CompletionFunc) *Orchestrator {
	return &Orchestrator{persister: p, editingID: editingID, onComplete: onComplete}
}

// Status returns the current save status.
func (o *Orchestrator) Status() SaveStatus {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.status
}

// Calls returns how many persistence calls were issued.
func (o *Orchestrator) Calls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

// Save persists the draft. It returns immediately with the current status
// while a save is in flight or after one succeeded. Otherwise it blocks until
// the persister answers and returns the resulting status.
func (o *Orchestrator) Save(ctx context.Context, d question.Draft) SaveStatus {
	o.mu.Lock()
	if o.status.State == SaveSaving || o.status.State == SaveSucceeded {
		st := o.status
		o.mu.Unlock()
		return st
	}
	o.status = SaveStatus{State: SaveSaving}
	o.calls++
	o.mu.Unlock()

	ctx, span := otel.Tracer("quizr/wizard").Start(ctx, "wizard.save")
	defer span.End()
	span.SetAttributes(
		attribute.String("question.type", d.Type.String()),
		attribute.Bool("question.editing", o.editingID != ""),
	)

	q, err := o.persist(ctx, d)

	o.mu.Lock()
	if err != nil {
		o.status = SaveStatus{State: SaveFailed, Message: err.Error()}
		o.mu.Unlock()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Warn("save failed: %v", err)
		return SaveStatus{State: SaveFailed, Message: err.Error()}
	}
	o.status = SaveStatus{State: SaveSucceeded, ID: q.ID}
	st := o.status
	notify := !o.notified && o.onComplete != nil
	o.notified = true
	o.mu.Unlock()

	span.SetAttributes(attribute.String("question.id", q.ID))
	logger.Info("saved question %s (version %d)", q.ID, q.Version)
	if notify {
		o.onComplete(q.ID, q)
	}
	return st
}

func (o *Orchestrator) persist(ctx context.Context, d question.Draft) (q question.Question, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("save panicked: %v", r)
		}
	}()
	if o.persister == nil {
		return question.Question{}, fmt.Errorf("no persister configured")
	}
	if o.editingID != "" {
		return o.persister.UpdateEntity(ctx, o.editingID, d)
	}
	return o.persister.CreateEntity(ctx, d)
}

// reset returns to Idle for a new session. An in-flight save keeps its guard.
func (o *Orchestrator) reset(editingID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.status.State == SaveSaving {
		return
	}
	o.status = SaveStatus{}
	o.notified = false
	o.editingID = editingID
}
