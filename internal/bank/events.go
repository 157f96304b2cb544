package bank

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/mark3labs/quizr/internal/logger"
	"github.com/mark3labs/quizr/internal/nats"
	"github.com/mark3labs/quizr/internal/question"
)

// Event actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
)

// Event is one entry of the append-only question log.
type Event struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Question  string          `json:"question"` // question id
	Type      string          `json:"type"`
	Action    string          `json:"action"`
	Version   int             `json:"version"`
	Data      json.RawMessage `json:"data"` // the question draft
}

// PublishEvent appends an event to the JetStream log on the subject
// quizr.question.{id}.{action}.
func (s *Store) PublishEvent(ctx context.Context, event Event) (*jetstream.PubAck, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if event.Type == "" {
		event.Type = nats.EventTypeQuestion
	}

	data, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := nats.SubjectForEvent(event.Type, event.Question, event.Action)
	logger.Debug("Publishing event: question=%s action=%s version=%d", event.Question, event.Action, event.Version)

	ack, err := s.js.Publish(ctx, subject, data)
	if err != nil {
		logger.Error("Failed to publish event to subject %s: %v", subject, err)
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}
	return ack, nil
}

// State is the question bank rebuilt from the event log.
type State struct {
	Questions map[string]*question.Question
}

func newState() *State {
	return &State{Questions: make(map[string]*question.Question)}
}

// Apply reduces one event into the state.
func (st *State) Apply(event Event) error {
	if event.Type != nats.EventTypeQuestion {
		return nil
	}

	var d question.Draft
	if err := json.Unmarshal(event.Data, &d); err != nil {
		return fmt.Errorf("decode question %s: %w", event.Question, err)
	}

	switch event.Action {
	case ActionCreate:
		st.Questions[event.Question] = &question.Question{
			ID:        event.Question,
			Version:   event.Version,
			CreatedAt: event.Timestamp,
			UpdatedAt: event.Timestamp,
			Draft:     d,
		}
	case ActionUpdate:
		q, ok := st.Questions[event.Question]
		if !ok {
			return fmt.Errorf("update for unknown question %s", event.Question)
		}
		q.Draft = d
		q.Version = event.Version
		q.UpdatedAt = event.Timestamp
	}
	return nil
}

// Sorted returns the questions ordered by creation time.
func (st *State) Sorted() []question.Question {
	out := make([]question.Question, 0, len(st.Questions))
	for _, q := range st.Questions {
		out = append(out, *q)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// LoadState reads every question event and reduces it into a State.
func (s *Store) LoadState(ctx context.Context) (*State, error) {
	consumer, err := s.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject: nats.SubjectForType(nats.EventTypeQuestion),
		DeliverPolicy: jetstream.DeliverAllPolicy,
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}
	defer func() {
		if err := s.stream.DeleteConsumer(context.WithoutCancel(ctx), consumer.CachedInfo().Name); err != nil {
			logger.Debug("Failed to delete consumer: %v", err)
		}
	}()

	state := newState()

	const batchSize = 1000
	skipped, total := 0, 0
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			break
		}

		count := 0
		for msg := range msgs.Messages() {
			count++
			total++

			var event Event
			if err := json.Unmarshal(msg.Data(), &event); err != nil {
				skipped++
				logger.Warn("Skipping malformed event: %v", err)
				_ = msg.Ack()
				continue
			}
			if event.ID == "" {
				if meta, err := msg.Metadata(); err == nil {
					event.ID = fmt.Sprintf("%d", meta.Sequence.Stream)
				}
			}
			if err := state.Apply(event); err != nil {
				skipped++
				logger.Warn("Skipping event: %v", err)
			}
			_ = msg.Ack()
		}

		if count < batchSize {
			break
		}
	}

	if skipped > 0 {
		logger.Warn("Skipped %d events while loading the question bank", skipped)
	}
	logger.Debug("Question bank loaded: %d events, %d questions", total, len(state.Questions))
	return state, nil
}
