package wizard

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mark3labs/quizr/internal/question"
)

const (
	MaxTitleLength = 120
	MinPoints      = 1
	MaxPoints      = 100
)

// Validate returns every validation error of the step for the draft, in a
// fixed order. An empty result means the step is valid.
func Validate(id StepID, d question.Draft) []string {
	switch id {
	case StepBasics:
		return validateBasics(d)
	case StepAnswers:
		return validateAnswers(d)
	case StepDetails:
		return validateDetails(d)
	default:
		return nil
	}
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func validateBasics(d question.Draft) []string {
	var errs []string
	if blank(d.Language) {
		errs = append(errs, "Select a language")
	}
	if blank(d.Category) {
		errs = append(errs, "Select a category")
	}
	if !d.Type.Valid() {
		errs = append(errs, "Select a question type")
	}
	if !d.Difficulty.Valid() {
		errs = append(errs, "Unknown difficulty")
	}
	return errs
}

func validateAnswers(d question.Draft) []string {
	switch p := d.Payload.(type) {
	case *question.MultipleChoice:
		return validateMultipleChoice(p)
	case *question.TrueFalse:
		if p.Answer == nil {
			return []string{"Select true or false"}
		}
		return nil
	case *question.FillInTheBlank:
		return validateFillInTheBlank(p)
	case *question.CodeChallenge:
		return validateCodeChallenge(p)
	default:
		return []string{"Select a question type first"}
	}
}

func validateMultipleChoice(p *question.MultipleChoice) []string {
	var errs []string
	seen := make(map[string]bool, len(p.Options))
	filled, dup := 0, false
	for _, opt := range p.Options {
		if blank(opt) {
			continue
		}
		filled++
		key := strings.ToLower(strings.TrimSpace(opt))
		if seen[key] {
			dup = true
		}
		seen[key] = true
	}
	if filled < 2 {
		errs = append(errs, "Add answer options")
	}
	if dup {
		errs = append(errs, "Answer options must be unique")
	}
	if p.CorrectIndex < 0 || p.CorrectIndex >= len(p.Options) || blank(p.Options[p.CorrectIndex]) {
		errs = append(errs, "Select the correct answer")
	}
	return errs
}

func validateFillInTheBlank(p *question.FillInTheBlank) []string {
	var errs []string
	if blank(p.Text) {
		errs = append(errs, "Add the question text")
	}
	if len(p.Blanks) == 0 {
		errs = append(errs, "Add at least one blank")
	}
	for i, b := range p.Blanks {
		if blank(b.Answer) {
			errs = append(errs, fmt.Sprintf("Blank %d needs an answer", i+1))
		}
	}
	if !blank(p.Text) && len(p.Blanks) > 0 && strings.Count(p.Text, question.BlankMarker) != len(p.Blanks) {
		errs = append(errs, "Blank markers (___) must match the configured blanks")
	}
	return errs
}

func validateCodeChallenge(p *question.CodeChallenge) []string {
	var errs []string
	if len(p.TestCases) == 0 {
		errs = append(errs, "Add at least one test case")
	}
	for i, tc := range p.TestCases {
		if blank(tc.Expected) {
			errs = append(errs, fmt.Sprintf("Test case %d needs an expected output", i+1))
		}
	}
	if blank(p.Solution) {
		errs = append(errs, "Add a reference solution")
	}
	return errs
}

func validateDetails(d question.Draft) []string {
	var errs []string
	if blank(d.Title) {
		errs = append(errs, "Add a title")
	} else if utf8.RuneCountInString(strings.TrimSpace(d.Title)) > MaxTitleLength {
		errs = append(errs, fmt.Sprintf("Title is too long (max %d characters)", MaxTitleLength))
	}
	if blank(d.Description) {
		errs = append(errs, "Add a description")
	}
	if d.Points < MinPoints || d.Points > MaxPoints {
		errs = append(errs, fmt.Sprintf("Points must be between %d and %d", MinPoints, MaxPoints))
	}
	return errs
}
