package bank

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mark3labs/quizr/internal/question"
)

func TestSimilarity(t *testing.T) {
	require.Equal(t, 1.0, Similarity("", ""))
	require.Equal(t, 1.0, Similarity("same text\n", "same text\n"))
	require.Zero(t, Similarity("abc", ""))

	near := Similarity("title: Sum of two numbers\n", "title: Sum of two numbrs\n")
	far := Similarity("title: Sum of two numbers\n", "completely different\n")
	require.Greater(t, near, 0.9)
	require.Less(t, far, near)
}

func TestCheckForDuplicates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	orig, err := s.Create(ctx, mcDraft("Sum of two numbers", "4", "5"))
	require.NoError(t, err)
	capital := mcDraft("Capital of France", "Paris", "Rome")
	capital.Description = "Name the capital city of the given European country."
	_, err = s.Create(ctx, capital)
	require.NoError(t, err)

	t.Run("exact copy", func(t *testing.T) {
		dups, err := s.CheckForDuplicates(ctx, mcDraft(" Sum of  two numbers ", "4", "5"))
		require.NoError(t, err)
		require.NotEmpty(t, dups)
		require.Equal(t, orig.ID, dups[0].ID)
		require.True(t, dups[0].ExactMatch)
		require.Equal(t, 1.0, dups[0].SimilarityScore)
	})

	t.Run("near copy carries a diff", func(t *testing.T) {
		dups, err := s.CheckForDuplicates(ctx, mcDraft("Sum of two numbers", "4", "6"))
		require.NoError(t, err)
		require.Len(t, dups, 1)
		require.False(t, dups[0].ExactMatch)
		require.GreaterOrEqual(t, dups[0].SimilarityScore, DefaultThreshold)
		require.Contains(t, dups[0].Diff, "-option   5")
		require.Contains(t, dups[0].Diff, "+option   6")
	})

	t.Run("unrelated", func(t *testing.T) {
		d := question.NewDraft()
		question.SetField(&d, "type", question.TypeCodeChallenge)
		question.SetField(&d, "title", "Implement an LRU cache with eviction callbacks")
		dups, err := s.CheckForDuplicates(ctx, d)
		require.NoError(t, err)
		require.Empty(t, dups)
	})

	t.Run("excluded question does not match itself", func(t *testing.T) {
		dups, err := ExcludingChecker{Store: s, ExcludeID: orig.ID}.CheckForDuplicates(ctx, orig.Draft)
		require.NoError(t, err)
		for _, d := range dups {
			require.NotEqual(t, orig.ID, d.ID)
		}
	})
}

func TestCheckForDuplicates_CacheFlushedOnWrite(t *testing.T) {
	ctx := context.Background()
	cache := NewDuplicateCache(DefaultCacheTTL)
	s := newTestStore(t, WithDuplicateCache(cache))

	d := mcDraft("Sum of two numbers", "4", "5")
	dups, err := s.CheckForDuplicates(ctx, d)
	require.NoError(t, err)
	require.Empty(t, dups)
	require.Equal(t, 1, cache.Len())

	_, err = s.Create(ctx, d)
	require.NoError(t, err)
	require.Zero(t, cache.Len())

	dups, err = s.CheckForDuplicates(ctx, d)
	require.NoError(t, err)
	require.Len(t, dups, 1)
}
