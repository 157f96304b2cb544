// Package bank is the event-sourced question bank. Every create and update
// is an event in the JetStream stream; the current bank is the reduction of
// that log. It satisfies the wizard's Persister and DuplicateChecker.
package bank

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/xid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mark3labs/quizr/internal/logger"
	"github.com/mark3labs/quizr/internal/nats"
	"github.com/mark3labs/quizr/internal/question"
)

var (
	ErrNotFound        = errors.New("question not found")
	ErrTitleExists     = errors.New("Title already exists")
	ErrVersionConflict = errors.New("question was changed by someone else")
)

var tracer = otel.Tracer("quizr/bank")

// Store manages the question bank through JetStream event sourcing.
type Store struct {
	js     jetstream.JetStream
	stream jetstream.Stream

	// Serializes writes so title and version checks see the latest state.
	mu sync.Mutex

	dups      *DuplicateCache
	threshold float64
	now       func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithDuplicateThreshold sets the similarity score from which a question is
// reported as a possible duplicate.
func WithDuplicateThreshold(t float64) Option {
	return func(s *Store) { s.threshold = t }
}

// WithDuplicateCache replaces the default duplicate result cache.
func WithDuplicateCache(c *DuplicateCache) Option {
	return func(s *Store) { s.dups = c }
}

// DefaultThreshold is the default duplicate similarity threshold.
const DefaultThreshold = 0.8

// NewStore creates a Store on the given JetStream context and stream.
func NewStore(js jetstream.JetStream, stream jetstream.Stream, opts ...Option) *Store {
	s := &Store{
		js:        js,
		stream:    stream,
		threshold: DefaultThreshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dups == nil {
		s.dups = NewDuplicateCache(DefaultCacheTTL)
	}
	return s
}

// Filter narrows List. Empty fields match everything.
type Filter struct {
	Type     question.Type
	Language string
}

func (f Filter) match(q question.Question) bool {
	if f.Type != question.TypeNone && q.Draft.Type != f.Type {
		return false
	}
	if f.Language != "" && !strings.EqualFold(q.Draft.Language, f.Language) {
		return false
	}
	return true
}

// Get returns one question.
func (s *Store) Get(ctx context.Context, id string) (question.Question, error) {
	state, err := s.LoadState(ctx)
	if err != nil {
		return question.Question{}, err
	}
	q, ok := state.Questions[id]
	if !ok {
		return question.Question{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return *q, nil
}

// List returns the questions matching the filter, oldest first.
func (s *Store) List(ctx context.Context, f Filter) ([]question.Question, error) {
	state, err := s.LoadState(ctx)
	if err != nil {
		return nil, err
	}
	all := state.Sorted()
	out := all[:0]
	for _, q := range all {
		if f.match(q) {
			out = append(out, q)
		}
	}
	return out, nil
}

// Create stores a new question. Titles are unique across the bank.
func (s *Store) Create(ctx context.Context, d question.Draft) (question.Question, error) {
	ctx, span := tracer.Start(ctx, "bank.create")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	d = question.Normalize(d)
	state, err := s.LoadState(ctx)
	if err != nil {
		return question.Question{}, spanError(span, err)
	}
	if titleTaken(state, d.Title, "") {
		return question.Question{}, spanError(span, ErrTitleExists)
	}

	id := xid.New().String()
	span.SetAttributes(attribute.String("question.id", id))
	q, err := s.write(ctx, state, id, ActionCreate, 1, d)
	if err != nil {
		return question.Question{}, spanError(span, err)
	}
	logger.Info("Created question %s %q", q.ID, q.Draft.Title)
	return q, nil
}

// Update replaces the content of a question. A positive expectedVersion must
// match the stored version.
func (s *Store) Update(ctx context.Context, id string, d question.Draft, expectedVersion int) (question.Question, error) {
	ctx, span := tracer.Start(ctx, "bank.update", trace.WithAttributes(attribute.String("question.id", id)))
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	d = question.Normalize(d)
	state, err := s.LoadState(ctx)
	if err != nil {
		return question.Question{}, spanError(span, err)
	}
	current, ok := state.Questions[id]
	if !ok {
		return question.Question{}, spanError(span, fmt.Errorf("%w: %s", ErrNotFound, id))
	}
	if expectedVersion > 0 && expectedVersion != current.Version {
		return question.Question{}, spanError(span, ErrVersionConflict)
	}
	if titleTaken(state, d.Title, id) {
		return question.Question{}, spanError(span, ErrTitleExists)
	}

	q, err := s.write(ctx, state, id, ActionUpdate, current.Version+1, d)
	if err != nil {
		return question.Question{}, spanError(span, err)
	}
	logger.Info("Updated question %s to version %d", q.ID, q.Version)
	return q, nil
}

func (s *Store) write(ctx context.Context, state *State, id, action string, version int, d question.Draft) (question.Question, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return question.Question{}, fmt.Errorf("failed to marshal question: %w", err)
	}
	event := Event{
		ID:        xid.New().String(),
		Timestamp: s.now(),
		Question:  id,
		Type:      nats.EventTypeQuestion,
		Action:    action,
		Version:   version,
		Data:      data,
	}
	if _, err := s.PublishEvent(ctx, event); err != nil {
		return question.Question{}, err
	}
	if err := state.Apply(event); err != nil {
		return question.Question{}, err
	}
	s.dups.Flush()
	return *state.Questions[id], nil
}

func titleTaken(state *State, title, exceptID string) bool {
	key := question.TitleKey(title)
	if key == "" {
		return false
	}
	for id, q := range state.Questions {
		if id != exceptID && question.TitleKey(q.Draft.Title) == key {
			return true
		}
	}
	return false
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

// CreateEntity implements wizard.Persister.
func (s *Store) CreateEntity(ctx context.Context, d question.Draft) (question.Question, error) {
	return s.Create(ctx, d)
}

// UpdateEntity implements wizard.Persister. It does not check versions.
func (s *Store) UpdateEntity(ctx context.Context, id string, d question.Draft) (question.Question, error) {
	return s.Update(ctx, id, d, 0)
}

// VersionedPersister pins updates to the version the edit started from, so
// a concurrent edit makes the save fail with ErrVersionConflict.
type VersionedPersister struct {
	Store   *Store
	Version int
}

func (p *VersionedPersister) CreateEntity(ctx context.Context, d question.Draft) (question.Question, error) {
	return p.Store.Create(ctx, d)
}

func (p *VersionedPersister) UpdateEntity(ctx context.Context, id string, d question.Draft) (question.Question, error) {
	q, err := p.Store.Update(ctx, id, d, p.Version)
	if err == nil {
		p.Version = q.Version
	}
	return q, err
}
