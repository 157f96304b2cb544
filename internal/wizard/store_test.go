package wizard

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/mark3labs/quizr/internal/question"
)

func TestStore_NeverValidatedStepIsNotValid(t *testing.T) {
	s := NewStore(question.NewDraft())

	require.False(t, s.IsValid(StepBasics))
	require.True(t, s.IsStepAccessible(StepBasics))
	require.False(t, s.IsStepAccessible(StepAnswers))
}

func TestStore_UpdateFieldDoesNotValidate(t *testing.T) {
	s := NewStore(question.NewDraft())

	step, ok := s.UpdateField("language", "go")
	require.True(t, ok)
	require.Equal(t, StepBasics, step)
	require.False(t, s.Validated(StepBasics))
	require.Equal(t, "go", s.Snapshot().Language)

	_, ok = s.UpdateField("nickname", "x")
	require.False(t, ok)
}

func TestStore_UpdateFieldMarksOwningStepDirty(t *testing.T) {
	s := NewStore(question.NewDraft())
	s.SetErrors(StepBasics, nil)
	s.SetErrors(StepDetails, nil)
	require.True(t, s.IsValid(StepBasics))

	s.UpdateField("title", "Closures")
	require.True(t, s.Dirty(StepDetails))
	require.False(t, s.IsValid(StepDetails))
	require.True(t, s.IsValid(StepBasics), "other steps keep their record")
	require.Equal(t, []StepID{StepDetails}, s.DirtySteps())

	steps := s.Steps()
	require.False(t, steps[StepDetails-1].Valid)
	require.False(t, steps[StepReview-1].Accessible)

	s.SetErrors(StepDetails, nil)
	require.False(t, s.Dirty(StepDetails))
	require.True(t, s.IsValid(StepDetails))
	require.Empty(t, s.DirtySteps())

	// A rejected write leaves the step clean.
	s.UpdateField("points[3]", 1)
	require.False(t, s.Dirty(StepDetails))
}

func TestStore_RecordPassDropsStaleResult(t *testing.T) {
	s := NewStore(question.NewDraft())
	s.UpdateField("language", "go")

	_, rev := s.snapshotRev()
	s.UpdateField("language", "")

	require.False(t, s.recordPass(StepBasics, nil, rev))
	require.False(t, s.Validated(StepBasics))
	require.True(t, s.Dirty(StepBasics))

	snap, rev := s.snapshotRev()
	require.Empty(t, snap.Language)
	require.True(t, s.recordPass(StepBasics, []string{"Select a language"}, rev))
	require.Equal(t, []string{"Select a language"}, s.Errors(StepBasics))
	require.False(t, s.Dirty(StepBasics))
}

func TestStore_GoToStepIgnoresInaccessible(t *testing.T) {
	s := NewStore(question.NewDraft())

	require.False(t, s.GoToStep(StepDetails))
	require.False(t, s.GoToStep(StepID(0)))
	require.False(t, s.GoToStep(StepID(9)))
	require.Equal(t, StepBasics, s.Current())

	s.SetErrors(StepBasics, nil)
	s.SetErrors(StepAnswers, nil)
	require.True(t, s.GoToStep(StepDetails))
	require.Equal(t, StepDetails, s.Current())
}

func TestStore_TypeChangeDropsAnswersRecord(t *testing.T) {
	s := NewStore(question.NewDraft())
	s.UpdateField("type", question.TypeTrueFalse)
	s.SetErrors(StepAnswers, nil)
	require.True(t, s.IsValid(StepAnswers))

	// Same type keeps the record.
	s.UpdateField("type", question.TypeTrueFalse)
	require.True(t, s.IsValid(StepAnswers))

	s.UpdateField("type", question.TypeCodeChallenge)
	require.False(t, s.Validated(StepAnswers))
}

func TestStore_Reset(t *testing.T) {
	initial := question.NewDraft()
	initial.Language = "go"
	s := NewStore(initial)

	s.UpdateField("language", "rust")
	s.UpdateField("title", "x")
	s.SetErrors(StepBasics, nil)
	s.GoToStep(StepAnswers)

	s.Reset()

	require.Equal(t, StepBasics, s.Current())
	require.Equal(t, "go", s.Snapshot().Language)
	require.Empty(t, s.Snapshot().Title)
	require.False(t, s.Validated(StepBasics))
}

func TestStore_SnapshotIsACopy(t *testing.T) {
	s := NewStore(question.NewDraft())
	s.UpdateField("type", question.TypeMultipleChoice)
	s.UpdateField("options[0]", "A")

	snap := s.Snapshot()
	question.SetField(&snap, "options[0]", "changed")

	mc, _ := s.Snapshot().MultipleChoice()
	require.Equal(t, []string{"A"}, mc.Options)
}

func TestStore_StepsReportFlags(t *testing.T) {
	s := NewStore(question.NewDraft())
	s.SetErrors(StepBasics, nil)
	s.MarkCompleted(StepBasics)
	s.SetErrors(StepAnswers, []string{"Add answer options"})

	steps := s.Steps()
	require.Len(t, steps, StepCount())

	require.True(t, steps[0].Completed)
	require.True(t, steps[0].Valid)
	require.True(t, steps[1].Accessible)
	require.False(t, steps[1].Valid)
	require.Equal(t, []string{"Add answer options"}, steps[1].Errors)
	require.False(t, steps[2].Accessible)
}

// Property: step k is accessible iff every step 1..k-1 has a recorded,
// empty error list.
func TestProperty_AccessibilityMatchesPriorValidity(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		s := NewStore(question.NewDraft())
		recorded := map[StepID][]string{}

		ops := rapid.IntRange(0, 30).Draw(rt, "ops")
		for i := 0; i < ops; i++ {
			id := StepID(rapid.IntRange(1, StepCount()).Draw(rt, "step"))
			var errs []string
			if rapid.Bool().Draw(rt, "invalid") {
				errs = []string{"error"}
			}
			s.SetErrors(id, errs)
			recorded[id] = errs
		}

		for k := FirstStep; k <= LastStep; k++ {
			want := true
			for j := FirstStep; j < k; j++ {
				errs, ok := recorded[j]
				if !ok || len(errs) > 0 {
					want = false
				}
			}
			require.Equal(t, want, s.IsStepAccessible(k), "step %d", k)
		}
	})
}
