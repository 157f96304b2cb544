package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/quizr/internal/bank"
	"github.com/mark3labs/quizr/internal/config"
	"github.com/mark3labs/quizr/internal/nats"
	"github.com/mark3labs/quizr/internal/question"
	"github.com/mark3labs/quizr/internal/tui/testfixtures"
)

func newTestStore(t *testing.T) *bank.Store {
	t.Helper()
	bus, err := nats.Open(context.Background(), t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = bus.Close() })
	return bank.NewStore(bus.JS, bus.Stream)
}

const questionYAML = `
type: trueFalse
language: go
category: basics
title: Nil maps can be read
description: Reading from a nil map returns the zero value.
trueFalse:
  answer: true
`

func TestCheckQuestion_ValidAndSaved(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	d, err := question.DecodeYAML([]byte(questionYAML))
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, checkQuestion(ctx, store, d, false, &out))
	assert.Contains(t, out.String(), "✓ Basics")
	assert.Contains(t, out.String(), "✓ Answers")
	assert.Contains(t, out.String(), "✓ Details")
	assert.NotContains(t, out.String(), "Saved question")

	out.Reset()
	require.NoError(t, checkQuestion(ctx, store, d, true, &out))
	assert.Contains(t, out.String(), "Saved question ")

	qs, err := store.List(ctx, bank.Filter{})
	require.NoError(t, err)
	require.Len(t, qs, 1)

	// The stored question is now reported, and the duplicate title fails the save.
	out.Reset()
	err = checkQuestion(ctx, store, d, true, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Title already exists")
	assert.Contains(t, out.String(), "(exact match)")
}

func TestCheckQuestion_Invalid(t *testing.T) {
	store := newTestStore(t)

	d, err := question.DecodeYAML([]byte("type: multipleChoice\nlanguage: go\n"))
	require.NoError(t, err)

	var out bytes.Buffer
	err = checkQuestion(context.Background(), store, d, true, &out)
	require.Error(t, err)
	assert.Contains(t, out.String(), "✗ Basics")
	assert.Contains(t, out.String(), "    Select a category")
	assert.Contains(t, out.String(), "    Add answer options")
	assert.Contains(t, out.String(), "    Add a title")

	qs, err := store.List(context.Background(), bank.Filter{})
	require.NoError(t, err)
	assert.Empty(t, qs)
}

func TestListAndExport(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, listQuestions(ctx, store, bank.Filter{}, &out))
	assert.Equal(t, "No questions\n", out.String())

	q1, err := store.Create(ctx, testfixtures.MultipleChoiceDraft())
	require.NoError(t, err)
	_, err = store.Create(ctx, testfixtures.CodeChallengeDraft())
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, listQuestions(ctx, store, bank.Filter{Type: question.TypeMultipleChoice}, &out))
	assert.Equal(t, "["+q1.ID+"] Receiving from a closed channel (Multiple choice, go, medium, v1)\n", out.String())

	out.Reset()
	n, err := exportQuestions(ctx, store, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var exported []question.Question
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &exported))
	require.Len(t, exported, 2)
	titles := []string{exported[0].Draft.Title, exported[1].Draft.Title}
	assert.ElementsMatch(t, []string{"Receiving from a closed channel", "Sum two integers"}, titles)
}

func TestWriteQuestion(t *testing.T) {
	q := testfixtures.SavedQuestion("q1", testfixtures.MultipleChoiceDraft())

	var out bytes.Buffer
	require.NoError(t, writeQuestion(&out, q, "json"))
	assert.Contains(t, out.String(), `"id": "q1"`)
	assert.Contains(t, out.String(), `"type": "multipleChoice"`)

	out.Reset()
	require.NoError(t, writeQuestion(&out, q, "yaml"))
	assert.Contains(t, out.String(), "id: q1")
	assert.Contains(t, out.String(), "multipleChoice:")

	assert.Error(t, writeQuestion(&out, q, "xml"))
}

func TestInitialDraft(t *testing.T) {
	cfg := config.Defaults()
	cfg.DefaultLanguage = "rust"
	cfg.DefaultPoints = 25

	d := initialDraft(cfg)
	assert.Equal(t, "rust", d.Language)
	assert.Equal(t, 25, d.Points)

	assert.Nil(t, duplicateChecker(&config.Config{DuplicateCheck: false}, newTestStore(t)))
}
