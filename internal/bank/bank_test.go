package bank

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mark3labs/quizr/internal/nats"
	"github.com/mark3labs/quizr/internal/question"
)

func newTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	bus, err := nats.Open(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = bus.Close() })
	return NewStore(bus.JS, bus.Stream, opts...)
}

func mcDraft(title string, options ...string) question.Draft {
	d := question.NewDraft()
	question.SetField(&d, "language", "JavaScript")
	question.SetField(&d, "category", "logic")
	question.SetField(&d, "type", question.TypeMultipleChoice)
	question.SetField(&d, "options", options)
	question.SetField(&d, "correctIndex", 0)
	question.SetField(&d, "title", title)
	question.SetField(&d, "description", "Pick the right answer.")
	return d
}

func TestStore_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	q, err := s.Create(ctx, mcDraft("  Sum of  two numbers", "4", "5"))
	require.NoError(t, err)
	require.NotEmpty(t, q.ID)
	require.Equal(t, 1, q.Version)
	require.Equal(t, "Sum of two numbers", q.Draft.Title)
	require.Equal(t, "javascript", q.Draft.Language)

	got, err := s.Get(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, q.ID, got.ID)
	require.Equal(t, q.Draft, got.Draft)
	require.WithinDuration(t, q.CreatedAt, got.CreatedAt, time.Millisecond)

	_, err = s.Get(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_TitleMustBeUnique(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Create(ctx, mcDraft("Sum of two numbers", "4", "5"))
	require.NoError(t, err)

	_, err = s.Create(ctx, mcDraft("sum of TWO numbers!", "1", "2"))
	require.ErrorIs(t, err, ErrTitleExists)
	require.Equal(t, "Title already exists", err.Error())
}

func TestStore_Update(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	q, err := s.Create(ctx, mcDraft("Original", "a", "b"))
	require.NoError(t, err)
	other, err := s.Create(ctx, mcDraft("Other", "c", "d"))
	require.NoError(t, err)

	d := q.Draft.Clone()
	d.Title = "Renamed"
	updated, err := s.Update(ctx, q.ID, d, 1)
	require.NoError(t, err)
	require.Equal(t, 2, updated.Version)
	require.Equal(t, "Renamed", updated.Draft.Title)

	// Keeping its own title is fine.
	_, err = s.Update(ctx, q.ID, updated.Draft, 0)
	require.NoError(t, err)

	// Stale version.
	_, err = s.Update(ctx, q.ID, d, 1)
	require.ErrorIs(t, err, ErrVersionConflict)

	// Taking another question's title.
	d.Title = other.Draft.Title
	_, err = s.Update(ctx, q.ID, d, 0)
	require.ErrorIs(t, err, ErrTitleExists)

	_, err = s.Update(ctx, "missing", d, 0)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestStore_ListFilters(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Create(ctx, mcDraft("First", "a", "b"))
	require.NoError(t, err)

	tf := question.NewDraft()
	question.SetField(&tf, "language", "go")
	question.SetField(&tf, "category", "types")
	question.SetField(&tf, "type", question.TypeTrueFalse)
	question.SetField(&tf, "answer", true)
	question.SetField(&tf, "title", "Second")
	question.SetField(&tf, "description", "Go has generics.")
	_, err = s.Create(ctx, tf)
	require.NoError(t, err)

	all, err := s.List(ctx, Filter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "First", all[0].Draft.Title)

	byType, err := s.List(ctx, Filter{Type: question.TypeTrueFalse})
	require.NoError(t, err)
	require.Len(t, byType, 1)
	require.Equal(t, "Second", byType[0].Draft.Title)

	byLang, err := s.List(ctx, Filter{Language: "JAVASCRIPT"})
	require.NoError(t, err)
	require.Len(t, byLang, 1)
	require.Equal(t, "First", byLang[0].Draft.Title)
}

func TestStore_StateSurvivesReload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	bus, err := nats.Open(ctx, dir)
	require.NoError(t, err)
	q, err := NewStore(bus.JS, bus.Stream).Create(ctx, mcDraft("Persisted", "a", "b"))
	require.NoError(t, err)
	require.NoError(t, bus.Close())

	bus, err = nats.Open(ctx, dir)
	require.NoError(t, err)
	defer bus.Close()

	got, err := NewStore(bus.JS, bus.Stream).Get(ctx, q.ID)
	require.NoError(t, err)
	require.Equal(t, "Persisted", got.Draft.Title)
}

func TestStore_PersisterContract(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	q, err := s.CreateEntity(ctx, mcDraft("Via persister", "a", "b"))
	require.NoError(t, err)

	p := &VersionedPersister{Store: s, Version: q.Version}
	d := q.Draft.Clone()
	d.Description = "Changed once."
	q2, err := p.UpdateEntity(ctx, q.ID, d)
	require.NoError(t, err)
	require.Equal(t, 2, p.Version)

	// Someone else updates behind the pinned persister.
	stale := &VersionedPersister{Store: s, Version: 1}
	_, err = stale.UpdateEntity(ctx, q.ID, d)
	require.True(t, errors.Is(err, ErrVersionConflict))

	q3, err := s.UpdateEntity(ctx, q.ID, q2.Draft)
	require.NoError(t, err)
	require.Equal(t, 3, q3.Version)
}
