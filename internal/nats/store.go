package nats

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	StreamName = "quizr_events"

	// EventTypeQuestion is the only aggregate stored in the stream.
	EventTypeQuestion = "question"
)

// SubjectForAggregate returns the wildcard subject for every event of one
// aggregate instance. Example: "quizr.question.cq1.>"
func SubjectForAggregate(eventType, id string) string {
	return fmt.Sprintf("quizr.%s.%s.>", eventType, id)
}

// SubjectForType returns the wildcard subject for every event of a type.
// Example: "quizr.question.>"
func SubjectForType(eventType string) string {
	return fmt.Sprintf("quizr.%s.>", eventType)
}

// SubjectForEvent returns the subject of one event.
// Example: "quizr.question.cq1.create"
func SubjectForEvent(eventType, id, action string) string {
	return fmt.Sprintf("quizr.%s.%s.%s", eventType, id, action)
}

// SetupStream creates or updates the question bank stream. Questions are
// kept until deleted, so the stream has no age limit.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Description: "quizr question bank events",
		Subjects:    []string{"quizr.>"},
		Storage:     jetstream.FileStorage,
	})
}
