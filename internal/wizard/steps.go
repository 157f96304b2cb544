// Package wizard implements the multi-step question authoring state machine:
// the step registry, the draft store, per-step validation with a debounce,
// navigation gating and the save orchestrator.
package wizard

import "github.com/mark3labs/quizr/internal/question"

// StepID identifies a wizard step. Ids are 1-based and ordered.
type StepID int

const (
	StepBasics StepID = iota + 1
	StepAnswers
	StepDetails
	StepReview
)

// Step is one static entry of the step registry.
type Step struct {
	ID          StepID
	Title       string
	Description string
	// Fields are the top-level draft fields owned by the step.
	Fields []string
}

var registry = []Step{
	{
		ID:          StepBasics,
		Title:       "Basics",
		Description: "Choose the language, category and question type",
		Fields:      []string{"language", "category", "type", "difficulty"},
	},
	{
		ID:          StepAnswers,
		Title:       "Answers",
		Description: "Configure the answers for the selected question type",
		Fields: []string{
			"options", "correctIndex", "answer", "text", "blanks",
			"testCases", "starterCode", "solution",
		},
	},
	{
		ID:          StepDetails,
		Title:       "Details",
		Description: "Title, description and scoring",
		Fields:      []string{"title", "description", "points", "tags"},
	},
	{
		ID:          StepReview,
		Title:       "Review",
		Description: "Check the question and save it",
	},
}

// FirstStep and LastStep bound the registry.
const (
	FirstStep = StepBasics
	LastStep  = StepReview
)

// Steps returns the step registry in order.
func Steps() []Step {
	out := make([]Step, len(registry))
	copy(out, registry)
	return out
}

// StepCount is the number of registered steps.
func StepCount() int { return len(registry) }

// Valid reports whether id names a registered step.
func (id StepID) Valid() bool {
	return id >= FirstStep && id <= LastStep
}

// Lookup returns the registry entry for id.
func Lookup(id StepID) (Step, bool) {
	if !id.Valid() {
		return Step{}, false
	}
	return registry[id-1], true
}

// StepForField returns the step owning the field at path.
func StepForField(path string) (StepID, bool) {
	p, ok := question.ParsePath(path)
	if !ok {
		return 0, false
	}
	for _, s := range registry {
		for _, f := range s.Fields {
			if f == p.Name {
				return s.ID, true
			}
		}
	}
	return 0, false
}

// StepState is a registry entry together with its runtime flags.
type StepState struct {
	Step
	Completed  bool
	Valid      bool
	Accessible bool
	Errors     []string
}
