package wizard

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mark3labs/quizr/internal/question"
)

func TestSave_Succeeds(t *testing.T) {
	p := newMockPersister()
	var calls atomic.Int32
	var gotID string
	o := NewOrchestrator(p, "", func(id string, q question.Question) {
		calls.Add(1)
		gotID = id
	})

	require.Equal(t, SaveIdle, o.Status().State)

	st := o.Save(context.Background(), validDraft())
	require.Equal(t, SaveSucceeded, st.State)
	require.Equal(t, "q1", st.ID)
	require.Equal(t, "succeeded(q1)", st.String())
	require.Equal(t, "q1", gotID)
	require.Equal(t, int32(1), calls.Load())
}

func TestSave_IgnoredWhileSaving(t *testing.T) {
	p := newMockPersister()
	p.gate = make(chan struct{})
	o := NewOrchestrator(p, "", nil)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		o.Save(context.Background(), validDraft())
	}()
	<-p.started

	// Second save while the first is in flight returns at once.
	st := o.Save(context.Background(), validDraft())
	require.Equal(t, SaveSaving, st.State)

	close(p.gate)
	wg.Wait()

	require.Equal(t, 1, p.createCount())
	require.Equal(t, 1, o.Calls())
	require.Equal(t, SaveSucceeded, o.Status().State)
}

func TestSave_ConcurrentCallsIssueOneRequest(t *testing.T) {
	p := newMockPersister()
	p.gate = make(chan struct{})
	o := NewOrchestrator(p, "", nil)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o.Save(context.Background(), validDraft())
		}()
	}
	<-p.started
	time.Sleep(5 * time.Millisecond)
	close(p.gate)
	wg.Wait()

	require.Equal(t, 1, p.createCount())
}

func TestSave_SucceededIsTerminal(t *testing.T) {
	p := newMockPersister()
	var calls atomic.Int32
	o := NewOrchestrator(p, "", func(string, question.Question) { calls.Add(1) })

	o.Save(context.Background(), validDraft())
	st := o.Save(context.Background(), validDraft())
	o.Save(context.Background(), validDraft())

	require.Equal(t, SaveSucceeded, st.State)
	require.Equal(t, 1, p.createCount())
	require.Equal(t, int32(1), calls.Load(), "completion callback fires once")
}

func TestSave_FailureThenRetry(t *testing.T) {
	p := newMockPersister()
	p.setErr(errTitleExists)
	var calls atomic.Int32
	o := NewOrchestrator(p, "", func(string, question.Question) { calls.Add(1) })

	st := o.Save(context.Background(), validDraft())
	require.Equal(t, SaveStatus{State: SaveFailed, Message: "Title already exists"}, st)
	require.Zero(t, calls.Load())

	p.setErr(nil)
	st = o.Save(context.Background(), validDraft())
	require.Equal(t, SaveSucceeded, st.State)
	require.Equal(t, 2, p.createCount())
	require.Equal(t, int32(1), calls.Load())
}

func TestSave_PanicBecomesFailure(t *testing.T) {
	p := newMockPersister()
	p.panic = true
	o := NewOrchestrator(p, "", nil)

	st := o.Save(context.Background(), validDraft())
	require.Equal(t, SaveFailed, st.State)
	require.Contains(t, st.Message, "boom")
}

func TestSave_NoPersister(t *testing.T) {
	o := NewOrchestrator(nil, "", nil)
	require.Equal(t, SaveFailed, o.Save(context.Background(), validDraft()).State)
}

func TestSave_EditingUpdates(t *testing.T) {
	p := newMockPersister()
	o := NewOrchestrator(p, "cq42", nil)

	st := o.Save(context.Background(), validDraft())
	require.Equal(t, SaveSucceeded, st.State)
	require.Equal(t, "cq42", st.ID)
	require.Equal(t, []string{"cq42"}, p.updates)
	require.Zero(t, p.createCount())
}

// Scenario: a rejected save keeps the form and allows a retry.
func TestWizardSave_FailureKeepsDraft(t *testing.T) {
	p := newMockPersister()
	p.setErr(errTitleExists)
	w, _ := newTestWizard(t, Options{Persister: p, Initial: ptr(validDraft())})
	w.UpdateField("title", "My title")
	before := w.Draft()

	st := w.Save(context.Background())
	require.Equal(t, SaveFailed, st.State)
	require.Equal(t, "Title already exists", st.Message)
	require.Equal(t, before, w.Draft())

	p.setErr(nil)
	require.Equal(t, SaveSucceeded, w.Save(context.Background()).State)
	require.Equal(t, "My title", p.creates[1].Title)
}
