package wizard

import (
	"context"
	"sync"
	"time"

	"github.com/mark3labs/quizr/internal/logger"
	"github.com/mark3labs/quizr/internal/question"
)

// Options configures a Wizard.
type Options struct {
	Persister        Persister
	DuplicateChecker DuplicateChecker // optional

	Clock Clock
	// Debounce is the validation delay. Zero uses DefaultDebounce and a
	// negative value validates immediately.
	Debounce time.Duration

	// OnValidated is called after every validation pass, from the goroutine
	// that ran it.
	OnValidated func(id StepID, errs []string)
	OnComplete  CompletionFunc

	// EditingID and Initial put the wizard in edit mode.
	EditingID string
	Initial   *question.Draft

	// CreateInitial and CreateChecker take over from Initial and
	// DuplicateChecker when Reset ends edit mode. A nil CreateInitial
	// starts from question.NewDraft; a nil CreateChecker disables the check.
	CreateInitial *question.Draft
	CreateChecker DuplicateChecker
}

// Wizard ties the store, validator, debouncer, navigator and save
// orchestrator into one authoring session.
type Wizard struct {
	store       *Store
	debounce    *Debouncer
	nav         *Navigator
	saver       *Orchestrator
	onValidated func(StepID, []string)

	createInitial question.Draft
	createChecker DuplicateChecker

	mu        sync.RWMutex
	checker   DuplicateChecker
	editingID string
}

// New creates a wizard session.
func New(opts Options) *Wizard {
	initial := question.NewDraft()
	if opts.Initial != nil {
		initial = opts.Initial.Clone()
	}

	delay := opts.Debounce
	switch {
	case delay == 0:
		delay = DefaultDebounce
	case delay < 0:
		delay = 0
	}

	w := &Wizard{
		store:       NewStore(initial),
		debounce:    NewDebouncer(opts.Clock, delay),
		checker:     opts.DuplicateChecker,
		onValidated: opts.OnValidated,
		editingID:   opts.EditingID,

		createInitial: question.NewDraft(),
		createChecker: opts.CreateChecker,
	}
	if opts.CreateInitial != nil {
		w.createInitial = opts.CreateInitial.Clone()
	}
	w.nav = NewNavigator(w.store, w.debounce, w.validateStep)
	w.saver = NewOrchestrator(opts.Persister, opts.EditingID, opts.OnComplete)

	if w.Editing() {
		w.prevalidate()
	}
	return w
}

func (w *Wizard) prevalidate() {
	d := w.store.Snapshot()
	for _, s := range registry {
		w.store.SetErrors(s.ID, Validate(s.ID, d))
	}
}

// validateStep runs one pass for id. A pass whose draft was changed while it
// ran is dropped; the step stays dirty.
func (w *Wizard) validateStep(id StepID) []string {
	d, rev := w.store.snapshotRev()
	errs := Validate(id, d)
	if !w.store.recordPass(id, errs, rev) {
		logger.Debug("dropped stale validation of step %d", id)
		return errs
	}
	if w.onValidated != nil {
		w.onValidated(id, errs)
	}
	return errs
}

// validateDirty validates every step edited since its last pass.
func (w *Wizard) validateDirty() {
	for _, id := range w.store.DirtySteps() {
		w.validateStep(id)
	}
}

// Editing reports whether the wizard updates an existing question.
func (w *Wizard) Editing() bool { return w.EditingID() != "" }

// EditingID returns the id of the question being edited.
func (w *Wizard) EditingID() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.editingID
}

// HasDuplicateChecker reports whether CheckDuplicates consults a checker.
func (w *Wizard) HasDuplicateChecker() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.checker != nil
}

// UpdateField writes a field and schedules the debounced validation of the
// edited steps. It reports whether the write applied.
func (w *Wizard) UpdateField(path string, value any) bool {
	if _, ok := w.store.UpdateField(path, value); !ok {
		logger.Debug("ignored field update %s", path)
		return false
	}
	w.debounce.Schedule(w.validateDirty)
	return true
}

// ValidateStep runs a validation pass for one step immediately.
func (w *Wizard) ValidateStep(id StepID) []string {
	if !id.Valid() {
		return nil
	}
	return w.validateStep(id)
}

// ValidateAll validates every step and returns the steps that have errors.
func (w *Wizard) ValidateAll() map[StepID][]string {
	w.debounce.Cancel()
	out := make(map[StepID][]string)
	for _, s := range registry {
		if errs := w.validateStep(s.ID); len(errs) > 0 {
			out[s.ID] = errs
		}
	}
	return out
}

// Next advances or requests a save. See Navigator.Next.
func (w *Wizard) Next() Outcome { return w.nav.Next() }

// Previous moves back one step.
func (w *Wizard) Previous() bool { return w.nav.Previous() }

// Jump moves to an accessible step.
func (w *Wizard) Jump(id StepID) bool { return w.nav.Jump(id) }

// GoToStep is Jump.
func (w *Wizard) GoToStep(id StepID) bool { return w.nav.Jump(id) }

// CanNavigateForward reports whether the current step is valid.
func (w *Wizard) CanNavigateForward() bool { return w.nav.CanNavigateForward() }

// CanNavigateBackward reports whether Previous would move.
func (w *Wizard) CanNavigateBackward() bool { return w.nav.CanNavigateBackward() }

// IsStepAccessible reports whether every step before id is valid.
func (w *Wizard) IsStepAccessible(id StepID) bool { return w.store.IsStepAccessible(id) }

// IsValid reports whether the step has a recorded pass without errors.
func (w *Wizard) IsValid(id StepID) bool { return w.store.IsValid(id) }

// Current returns the current step.
func (w *Wizard) Current() StepID { return w.store.Current() }

// Errors returns the recorded errors of a step.
func (w *Wizard) Errors(id StepID) []string { return w.store.Errors(id) }

// Steps returns every step with its runtime flags.
func (w *Wizard) Steps() []StepState { return w.store.Steps() }

// Draft returns a copy of the current draft.
func (w *Wizard) Draft() question.Draft { return w.store.Snapshot() }

// Save persists a snapshot of the draft through the orchestrator.
func (w *Wizard) Save(ctx context.Context) SaveStatus {
	return w.saver.Save(ctx, w.store.Snapshot())
}

// SaveStatus returns the orchestrator state.
func (w *Wizard) SaveStatus() SaveStatus { return w.saver.Status() }

// CheckDuplicates runs the advisory duplicate check on a snapshot of the
// draft. Failures are logged and reported as no duplicates.
func (w *Wizard) CheckDuplicates(ctx context.Context) []question.Duplicate {
	w.mu.RLock()
	checker := w.checker
	w.mu.RUnlock()
	if checker == nil {
		return nil
	}
	dups, err := checker.CheckForDuplicates(ctx, w.store.Snapshot())
	if err != nil {
		logger.Warn("duplicate check failed: %v", err)
		return nil
	}
	return dups
}

// Reset cancels pending validation, restores the initial draft and starts
// a new save session. Edit mode ends with the first reset; the session then
// continues from CreateInitial with CreateChecker.
func (w *Wizard) Reset() {
	w.debounce.Cancel()

	w.mu.Lock()
	leavingEdit := w.editingID != ""
	if leavingEdit {
		w.editingID = ""
		w.checker = w.createChecker
	}
	w.mu.Unlock()

	if leavingEdit {
		w.store.resetTo(w.createInitial)
	} else {
		w.store.Reset()
	}
	w.saver.reset("")
}

// Close cancels any pending validation.
func (w *Wizard) Close() {
	w.debounce.Cancel()
}
