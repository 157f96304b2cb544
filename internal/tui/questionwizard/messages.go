package questionwizard

import (
	"github.com/mark3labs/quizr/internal/question"
	"github.com/mark3labs/quizr/internal/wizard"
)

// ValidatedMsg is sent when a debounced validation of a step finished.
type ValidatedMsg struct {
	Step   wizard.StepID
	Errors []string
}

// DuplicatesMsg carries the result of the advisory duplicate check started
// when the review step was entered.
type DuplicatesMsg struct {
	Seq        int
	Duplicates []question.Duplicate
}

// SaveResultMsg carries the orchestrator state after a save attempt.
type SaveResultMsg struct {
	Status wizard.SaveStatus
}

// RetrySaveMsg is sent when the user retries a failed save.
type RetrySaveMsg struct{}

// CreateAnotherMsg is sent from the completion screen to start over.
type CreateAnotherMsg struct{}

// ExitMsg is sent from the completion screen to leave the wizard.
type ExitMsg struct{}
