// Package question defines the assessment question model authored by the wizard:
// the in-progress Draft with its type-specific Payload, and the persisted Question.
package question

import (
	"fmt"
	"slices"
	"time"
)

// Type is the question type and the discriminator of the Payload union.
type Type string

const (
	TypeNone           Type = ""
	TypeMultipleChoice Type = "multipleChoice"
	TypeTrueFalse      Type = "trueFalse"
	TypeFillInTheBlank Type = "fillInTheBlank"
	TypeCodeChallenge  Type = "codeChallenge"
)

// Types lists the supported question types in display order.
var Types = []Type{TypeMultipleChoice, TypeTrueFalse, TypeFillInTheBlank, TypeCodeChallenge}

// Valid reports whether t is one of the supported types.
func (t Type) Valid() bool {
	return slices.Contains(Types, t)
}

func (t Type) String() string { return string(t) }

// Label returns a human readable name for the type.
func (t Type) Label() string {
	switch t {
	case TypeMultipleChoice:
		return "Multiple choice"
	case TypeTrueFalse:
		return "True / false"
	case TypeFillInTheBlank:
		return "Fill in the blank"
	case TypeCodeChallenge:
		return "Code challenge"
	default:
		return "Not selected"
	}
}

// ParseType parses a question type name.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return TypeNone, fmt.Errorf("unknown question type: %q", s)
	}
	return t, nil
}

// Difficulty grades a question.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties lists the difficulty levels in ascending order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

func (d Difficulty) String() string { return string(d) }

// Valid reports whether d is a known difficulty.
func (d Difficulty) Valid() bool {
	return slices.Contains(Difficulties, d)
}

// Payload is the type-specific part of a question. Exactly one variant
// exists per Type; the interface is sealed to this package.
type Payload interface {
	Type() Type
	clone() Payload
}

// NoCorrectIndex marks a multiple choice question without a selected answer.
const NoCorrectIndex = -1

// MultipleChoice is a question with several options and one correct answer.
type MultipleChoice struct {
	Options      []string `json:"options" yaml:"options"`
	CorrectIndex int      `json:"correctIndex" yaml:"correctIndex"`
}

func (*MultipleChoice) Type() Type { return TypeMultipleChoice }

func (p *MultipleChoice) clone() Payload {
	c := *p
	c.Options = slices.Clone(p.Options)
	return &c
}

// TrueFalse is a statement the candidate marks as true or false.
type TrueFalse struct {
	Answer *bool `json:"answer" yaml:"answer"`
}

func (*TrueFalse) Type() Type { return TypeTrueFalse }

func (p *TrueFalse) clone() Payload {
	c := TrueFalse{}
	if p.Answer != nil {
		v := *p.Answer
		c.Answer = &v
	}
	return &c
}

// BlankMarker marks a blank inside FillInTheBlank.Text.
const BlankMarker = "___"

// Blank is one gap in a fill-in-the-blank text.
type Blank struct {
	Answer       string   `json:"answer" yaml:"answer"`
	Alternatives []string `json:"alternatives,omitempty" yaml:"alternatives,omitempty"`
}

// FillInTheBlank is a text with BlankMarker gaps, answered in order.
type FillInTheBlank struct {
	Text   string  `json:"text" yaml:"text"`
	Blanks []Blank `json:"blanks" yaml:"blanks"`
}

func (*FillInTheBlank) Type() Type { return TypeFillInTheBlank }

func (p *FillInTheBlank) clone() Payload {
	c := FillInTheBlank{Text: p.Text, Blanks: make([]Blank, len(p.Blanks))}
	for i, b := range p.Blanks {
		c.Blanks[i] = Blank{Answer: b.Answer, Alternatives: slices.Clone(b.Alternatives)}
	}
	return &c
}

// TestCase is one input/expected-output pair of a code challenge.
type TestCase struct {
	Input    string `json:"input" yaml:"input"`
	Expected string `json:"expected" yaml:"expected"`
	Hidden   bool   `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

// CodeChallenge asks the candidate to write code that passes the test cases.
type CodeChallenge struct {
	StarterCode string     `json:"starterCode" yaml:"starterCode"`
	Solution    string     `json:"solution" yaml:"solution"`
	TestCases   []TestCase `json:"testCases" yaml:"testCases"`
}

func (*CodeChallenge) Type() Type { return TypeCodeChallenge }

func (p *CodeChallenge) clone() Payload {
	c := *p
	c.TestCases = slices.Clone(p.TestCases)
	return &c
}

// NewPayload returns the empty payload variant for t, or nil for TypeNone.
func NewPayload(t Type) Payload {
	switch t {
	case TypeMultipleChoice:
		return &MultipleChoice{CorrectIndex: NoCorrectIndex}
	case TypeTrueFalse:
		return &TrueFalse{}
	case TypeFillInTheBlank:
		return &FillInTheBlank{}
	case TypeCodeChallenge:
		return &CodeChallenge{}
	default:
		return nil
	}
}

// DefaultPoints is the score of a new question.
const DefaultPoints = 10

// Draft is the accumulated, in-progress question being authored.
type Draft struct {
	Language    string
	Category    string
	Type        Type
	Difficulty  Difficulty
	Title       string
	Description string
	Points      int
	Tags        []string
	Payload     Payload
}

// NewDraft returns a draft with default values.
func NewDraft() Draft {
	return Draft{
		Difficulty: DifficultyMedium,
		Points:     DefaultPoints,
	}
}

// Clone returns a deep copy of the draft.
func (d Draft) Clone() Draft {
	c := d
	c.Tags = slices.Clone(d.Tags)
	if d.Payload != nil {
		c.Payload = d.Payload.clone()
	}
	return c
}

// MultipleChoice returns the payload when the draft is a multiple choice question.
func (d Draft) MultipleChoice() (*MultipleChoice, bool) {
	p, ok := d.Payload.(*MultipleChoice)
	return p, ok
}

// TrueFalse returns the payload when the draft is a true/false question.
func (d Draft) TrueFalse() (*TrueFalse, bool) {
	p, ok := d.Payload.(*TrueFalse)
	return p, ok
}

// FillInTheBlank returns the payload when the draft is a fill-in-the-blank question.
func (d Draft) FillInTheBlank() (*FillInTheBlank, bool) {
	p, ok := d.Payload.(*FillInTheBlank)
	return p, ok
}

// CodeChallenge returns the payload when the draft is a code challenge.
func (d Draft) CodeChallenge() (*CodeChallenge, bool) {
	p, ok := d.Payload.(*CodeChallenge)
	return p, ok
}

// Question is a persisted question.
type Question struct {
	ID        string    `json:"id" yaml:"id"`
	Version   int       `json:"version" yaml:"version"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	UpdatedAt time.Time `json:"updated_at" yaml:"updated_at"`
	Draft     Draft     `json:"question" yaml:"question"`
}

// Duplicate is an advisory match returned by a duplicate check.
type Duplicate struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	SimilarityScore float64 `json:"similarity_score"`
	ExactMatch      bool    `json:"exact_match"`
	Diff            string  `json:"diff,omitempty"`
}
