package wizard

// Outcome is the result of a Next request.
type Outcome int

const (
	// Blocked means the current step, or one before it, is invalid. The
	// current step did not change.
	Blocked Outcome = iota
	// Moved means the wizard advanced to the following step.
	Moved
	// SaveRequested means Next was pressed on the last step with every step valid.
	SaveRequested
)

func (o Outcome) String() string {
	switch o {
	case Moved:
		return "moved"
	case SaveRequested:
		return "save requested"
	default:
		return "blocked"
	}
}

// Navigator enforces the allowed step transitions. Rejected transitions are
// silent: they report false or Blocked and leave the store untouched.
type Navigator struct {
	store    *Store
	debounce *Debouncer
	validate func(StepID) []string
}

// NewNavigator creates a navigator. validate runs and records one
// validation pass for a step.
func NewNavigator(store *Store, debounce *Debouncer, validate func(StepID) []string) *Navigator {
	return &Navigator{store: store, debounce: debounce, validate: validate}
}

// Next validates the current step synchronously and advances when it is
// valid. Every earlier step is validated again against the current draft,
// so an edit that broke one of them blocks the move. On the last step Next
// requests a save instead.
func (n *Navigator) Next() Outcome {
	n.debounce.Cancel()

	cur := n.store.Current()
	if !n.passes(cur) {
		return Blocked
	}
	n.store.MarkCompleted(cur)
	for k := FirstStep; k < cur; k++ {
		if !n.passes(k) {
			return Blocked
		}
	}

	if cur == LastStep {
		return SaveRequested
	}
	if !n.store.GoToStep(cur + 1) {
		return Blocked
	}
	return Moved
}

func (n *Navigator) passes(id StepID) bool {
	return len(n.validate(id)) == 0 && n.store.IsValid(id)
}

// Previous moves back one step. It is always allowed above step 1. A pending
// validation is discarded; a step edited since its last pass stays invalid
// until it is validated again.
func (n *Navigator) Previous() bool {
	cur := n.store.Current()
	if cur <= FirstStep {
		return false
	}
	n.debounce.Cancel()
	return n.store.stepBack()
}

// Jump moves to any accessible step. Like Previous it discards a pending
// validation.
func (n *Navigator) Jump(id StepID) bool {
	if !n.store.IsStepAccessible(id) {
		return false
	}
	n.debounce.Cancel()
	return n.store.GoToStep(id)
}

// CanNavigateForward reports the recorded validity of the current step.
func (n *Navigator) CanNavigateForward() bool {
	return n.store.IsValid(n.store.Current())
}

// CanNavigateBackward reports whether Previous would move.
func (n *Navigator) CanNavigateBackward() bool {
	return n.store.Current() > FirstStep
}
