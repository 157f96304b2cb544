package testfixtures

import (
	"time"

	"github.com/mark3labs/quizr/internal/question"
)

var (
	FixedTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
)

// MultipleChoiceDraft returns a multiple choice draft that passes every step.
func MultipleChoiceDraft() question.Draft {
	d := question.NewDraft()
	question.SetField(&d, "language", "go")
	question.SetField(&d, "category", "concurrency")
	question.SetField(&d, "type", question.TypeMultipleChoice)
	question.SetField(&d, "options", []string{"It blocks forever", "It returns the zero value"})
	question.SetField(&d, "correctIndex", 1)
	question.SetField(&d, "title", "Receiving from a closed channel")
	question.SetField(&d, "description", "What does a receive on a **closed** channel return?")
	question.SetField(&d, "tags", []string{"channels"})
	return d
}

// CodeChallengeDraft returns a code challenge draft that passes every step.
func CodeChallengeDraft() question.Draft {
	d := question.NewDraft()
	question.SetField(&d, "language", "go")
	question.SetField(&d, "category", "algorithms")
	question.SetField(&d, "type", question.TypeCodeChallenge)
	question.SetField(&d, "starterCode", "func Sum(a, b int) int {\n\treturn 0\n}")
	question.SetField(&d, "solution", "func Sum(a, b int) int {\n\treturn a + b\n}")
	question.SetField(&d, "testCases", []question.TestCase{
		{Input: "1 2", Expected: "3"},
		{Input: "-1 1", Expected: "0", Hidden: true},
	})
	question.SetField(&d, "title", "Sum two integers")
	question.SetField(&d, "description", "Implement `Sum`.")
	question.SetField(&d, "points", 20)
	return d
}

// SavedQuestion wraps a draft as a stored question with fixed timestamps.
func SavedQuestion(id string, d question.Draft) question.Question {
	return question.Question{
		ID:        id,
		Version:   1,
		CreatedAt: FixedTime,
		UpdatedAt: FixedTime,
		Draft:     d,
	}
}
