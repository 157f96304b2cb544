package nats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSubjects(t *testing.T) {
	require.Equal(t, "quizr.question.cq1.create", SubjectForEvent(EventTypeQuestion, "cq1", "create"))
	require.Equal(t, "quizr.question.cq1.>", SubjectForAggregate(EventTypeQuestion, "cq1"))
	require.Equal(t, "quizr.question.>", SubjectForType(EventTypeQuestion))
}

func TestOpen_CreatesStream(t *testing.T) {
	ctx := context.Background()
	bus, err := Open(ctx, t.TempDir())
	require.NoError(t, err)

	info, err := bus.Stream.Info(ctx)
	require.NoError(t, err)
	require.Equal(t, StreamName, info.Config.Name)
	require.Equal(t, []string{"quizr.>"}, info.Config.Subjects)

	_, err = bus.JS.Publish(ctx, SubjectForEvent(EventTypeQuestion, "cq1", "create"), []byte(`{}`))
	require.NoError(t, err)

	require.NoError(t, bus.Close())
}

func TestShutdown_NilIsNoop(t *testing.T) {
	require.NoError(t, Shutdown(nil, nil))

	var bus *Bus
	require.NoError(t, bus.Close())
}
