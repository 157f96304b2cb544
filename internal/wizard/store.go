package wizard

import (
	"slices"
	"sync"

	"github.com/mark3labs/quizr/internal/question"
)

// Store is the single source of truth of a wizard session: the current step,
// the draft and the recorded validation passes. It is safe for concurrent use;
// debounced validation records its results from a timer goroutine.
type Store struct {
	mu        sync.RWMutex
	initial   question.Draft
	draft     question.Draft
	current   StepID
	errors    map[StepID][]string // a key is present once the step was validated
	dirty     map[StepID]bool     // edited since the recorded pass
	completed map[StepID]bool
	rev       uint64 // bumped by every applied write and by reset
}

// NewStore creates a store whose draft and reset state is initial.
func NewStore(initial question.Draft) *Store {
	s := &Store{initial: initial.Clone()}
	s.resetLocked()
	return s
}

func (s *Store) resetLocked() {
	s.draft = s.initial.Clone()
	s.current = FirstStep
	s.errors = make(map[StepID][]string)
	s.dirty = make(map[StepID]bool)
	s.completed = make(map[StepID]bool)
	s.rev++
}

// UpdateField writes value into the draft at path. It does not validate but
// marks the owning step dirty: the step is not valid again until a pass over
// the new draft is recorded. It returns the owning step and whether the
// write applied.
func (s *Store) UpdateField(path string, value any) (StepID, bool) {
	step, ok := StepForField(path)
	if !ok {
		return 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prevType := s.draft.Type
	if !question.SetField(&s.draft, path, value) {
		return step, false
	}
	s.rev++
	s.dirty[step] = true
	if s.draft.Type != prevType {
		delete(s.errors, StepAnswers)
		delete(s.completed, StepAnswers)
	}
	return step, true
}

// GoToStep makes id the current step when it is accessible and reports
// whether it did. Inaccessible or unknown ids are ignored.
func (s *Store) GoToStep(id StepID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.accessibleLocked(id) {
		return false
	}
	s.current = id
	return true
}

// stepBack moves to the previous step regardless of validity.
func (s *Store) stepBack() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current <= FirstStep {
		return false
	}
	s.current--
	return true
}

// Reset restores the initial draft, clears all errors and returns to step 1.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

// resetTo replaces the reset state with initial and resets to it.
func (s *Store) resetTo(initial question.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initial = initial.Clone()
	s.resetLocked()
}

// SetErrors records the result of one validation pass for a step.
func (s *Store) SetErrors(id StepID, errs []string) {
	if !id.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setErrorsLocked(id, errs)
}

// recordPass records errs only when the draft is still at rev, the revision
// the pass was computed from. It reports whether the pass was recorded.
func (s *Store) recordPass(id StepID, errs []string, rev uint64) bool {
	if !id.Valid() {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if rev != s.rev {
		return false
	}
	s.setErrorsLocked(id, errs)
	return true
}

func (s *Store) setErrorsLocked(id StepID, errs []string) {
	s.errors[id] = slices.Clone(errs)
	delete(s.dirty, id)
	if len(errs) > 0 {
		delete(s.completed, id)
	}
}

// Dirty reports whether the step was edited after its last recorded pass.
func (s *Store) Dirty(id StepID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty[id]
}

// DirtySteps returns the edited steps in step order.
func (s *Store) DirtySteps() []StepID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []StepID
	for _, step := range registry {
		if s.dirty[step.ID] {
			out = append(out, step.ID)
		}
	}
	return out
}

// Errors returns the recorded errors of a step.
func (s *Store) Errors(id StepID) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.errors[id])
}

// Validated reports whether a validation pass was recorded for the step.
func (s *Store) Validated(id StepID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.errors[id]
	return ok
}

// IsValid reports whether the step has a recorded pass without errors and
// no edits since.
func (s *Store) IsValid(id StepID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.validLocked(id)
}

func (s *Store) validLocked(id StepID) bool {
	errs, ok := s.errors[id]
	return ok && len(errs) == 0 && !s.dirty[id]
}

// IsStepAccessible reports whether every step before id is valid.
// Step 1 is always accessible.
func (s *Store) IsStepAccessible(id StepID) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessibleLocked(id)
}

func (s *Store) accessibleLocked(id StepID) bool {
	if !id.Valid() {
		return false
	}
	for k := FirstStep; k < id; k++ {
		if !s.validLocked(k) {
			return false
		}
	}
	return true
}

// MarkCompleted flags a step the user moved past.
func (s *Store) MarkCompleted(id StepID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.validLocked(id) {
		s.completed[id] = true
	}
}

// Current returns the current step.
func (s *Store) Current() StepID {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Snapshot returns a deep copy of the draft.
func (s *Store) Snapshot() question.Draft {
	d, _ := s.snapshotRev()
	return d
}

func (s *Store) snapshotRev() (question.Draft, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.draft.Clone(), s.rev
}

// Steps returns the registry with the runtime flags of every step.
func (s *Store) Steps() []StepState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]StepState, 0, len(registry))
	for _, step := range registry {
		out = append(out, StepState{
			Step:       step,
			Completed:  s.completed[step.ID],
			Valid:      s.validLocked(step.ID),
			Accessible: s.accessibleLocked(step.ID),
			Errors:     slices.Clone(s.errors[step.ID]),
		})
	}
	return out
}
