package bank

import (
	"context"
	"sort"
	"time"

	"github.com/aymanbagabas/go-udiff"
	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel/attribute"

	"github.com/mark3labs/quizr/internal/logger"
	"github.com/mark3labs/quizr/internal/question"
)

const (
	DefaultCacheTTL = 5 * time.Minute
	// MaxDuplicates caps the number of reported matches.
	MaxDuplicates = 5
)

// DuplicateCache keeps duplicate check results keyed by draft fingerprint.
// Every bank write flushes it.
type DuplicateCache struct {
	cache *gocache.Cache
}

// NewDuplicateCache creates a cache whose entries expire after ttl.
func NewDuplicateCache(ttl time.Duration) *DuplicateCache {
	return &DuplicateCache{cache: gocache.New(ttl, 2*ttl)}
}

// Get returns the cached result for key.
func (c *DuplicateCache) Get(key string) ([]question.Duplicate, bool) {
	v, found := c.cache.Get(key)
	if !found {
		return nil, false
	}
	dups, ok := v.([]question.Duplicate)
	if !ok {
		logger.Error("duplicate cache holds %T for %s", v, key)
		return nil, false
	}
	logger.Debug("duplicate cache hit %s", key)
	return dups, true
}

// Set stores a result under key with the default expiration.
func (c *DuplicateCache) Set(key string, dups []question.Duplicate) {
	c.cache.SetDefault(key, dups)
}

// Flush drops every entry.
func (c *DuplicateCache) Flush() {
	c.cache.Flush()
}

// Len is the number of cached results.
func (c *DuplicateCache) Len() int {
	return c.cache.ItemCount()
}

// Similarity scores two texts between 0 (nothing shared) and 1 (identical)
// from the size of the edits turning a into b.
func Similarity(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	changed := 0
	for _, e := range udiff.Strings(a, b) {
		changed += max(e.End-e.Start, len(e.New))
	}
	score := 1 - float64(changed)/float64(longest)
	return max(score, 0)
}

// CheckForDuplicates implements wizard.DuplicateChecker.
func (s *Store) CheckForDuplicates(ctx context.Context, d question.Draft) ([]question.Duplicate, error) {
	return s.FindDuplicates(ctx, d, "")
}

// FindDuplicates reports stored questions that match the draft exactly or
// score at least the store threshold, best first. The question excludeID is
// skipped so an edited question does not match itself.
func (s *Store) FindDuplicates(ctx context.Context, d question.Draft, excludeID string) ([]question.Duplicate, error) {
	ctx, span := tracer.Start(ctx, "bank.duplicates")
	defer span.End()

	n := question.Normalize(d)
	key := question.Fingerprint(n) + "|" + excludeID
	if dups, ok := s.dups.Get(key); ok {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return dups, nil
	}

	state, err := s.LoadState(ctx)
	if err != nil {
		return nil, spanError(span, err)
	}

	draftText := question.Canonical(n)
	draftPrint := question.Fingerprint(n)
	titleKey := question.TitleKey(n.Title)

	var dups []question.Duplicate
	for _, q := range state.Sorted() {
		if q.ID == excludeID {
			continue
		}
		text := question.Canonical(q.Draft)
		exact := question.Fingerprint(q.Draft) == draftPrint
		score := Similarity(text, draftText)
		sameTitle := titleKey != "" && question.TitleKey(q.Draft.Title) == titleKey
		if !exact && !sameTitle && score < s.threshold {
			continue
		}
		dups = append(dups, question.Duplicate{
			ID:              q.ID,
			Title:           q.Draft.Title,
			SimilarityScore: score,
			ExactMatch:      exact,
			Diff:            udiff.Unified(q.ID, "draft", text, draftText),
		})
	}

	sort.SliceStable(dups, func(i, j int) bool {
		if dups[i].ExactMatch != dups[j].ExactMatch {
			return dups[i].ExactMatch
		}
		return dups[i].SimilarityScore > dups[j].SimilarityScore
	})
	if len(dups) > MaxDuplicates {
		dups = dups[:MaxDuplicates]
	}

	span.SetAttributes(attribute.Int("duplicates.count", len(dups)))
	s.dups.Set(key, dups)
	return dups, nil
}

// ExcludingChecker checks duplicates while ignoring the question being edited.
type ExcludingChecker struct {
	Store     *Store
	ExcludeID string
}

func (c ExcludingChecker) CheckForDuplicates(ctx context.Context, d question.Draft) ([]question.Duplicate, error) {
	return c.Store.FindDuplicates(ctx, d, c.ExcludeID)
}
