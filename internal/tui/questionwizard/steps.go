package questionwizard

import (
	"strconv"
	"strings"

	"github.com/mark3labs/quizr/internal/question"
	"github.com/mark3labs/quizr/internal/tui/controls"
)

var typeOptions = []controls.Option{
	{Label: question.TypeMultipleChoice.Label(), Value: string(question.TypeMultipleChoice)},
	{Label: question.TypeTrueFalse.Label(), Value: string(question.TypeTrueFalse)},
	{Label: question.TypeFillInTheBlank.Label(), Value: string(question.TypeFillInTheBlank)},
	{Label: question.TypeCodeChallenge.Label(), Value: string(question.TypeCodeChallenge)},
}

var difficultyOptions = []controls.Option{
	{Label: "Easy", Value: string(question.DifficultyEasy)},
	{Label: "Medium", Value: string(question.DifficultyMedium)},
	{Label: "Hard", Value: string(question.DifficultyHard)},
}

const (
	testCaseSep  = "=>"
	hiddenSuffix = "[hidden]"
	altSep       = "|"
)

func newBasicsStep(d question.Draft, set FieldSetter) *FormStep {
	return newFormStep(set,
		newInputField("Language", "language", d.Language, "e.g. go, python, javascript", 40),
		newInputField("Category", "category", d.Category, "e.g. concurrency, algorithms", 60),
		newChoiceField("Question type", "type", typeOptions, string(d.Type)),
		newChoiceField("Difficulty", "difficulty", difficultyOptions, string(d.Difficulty)),
	)
}

// newAnswersStep builds the answer fields for the draft's question type.
// It has no fields when no type is selected.
func newAnswersStep(d question.Draft, set FieldSetter) *FormStep {
	switch p := d.Payload.(type) {
	case *question.MultipleChoice:
		options := newAreaField("Options", "options", strings.Join(p.Options, "\n"), "One option per line", 6)
		options.help = "one per line"
		options.parse = func(s string) any { return splitLines(s) }

		correct := newInputField("Correct option", "correctIndex", formatCorrectIndex(p.CorrectIndex), "Number of the correct option", 3)
		correct.parse = func(s string) any { return parseCorrectIndex(s) }
		return newFormStep(set, options, correct)

	case *question.TrueFalse:
		value := ""
		if p.Answer != nil {
			value = strconv.FormatBool(*p.Answer)
		}
		answer := newChoiceField("Answer", "answer", []controls.Option{
			{Label: "True", Value: "true"},
			{Label: "False", Value: "false"},
		}, value)
		answer.parse = func(s string) any {
			if s == "" {
				return nil
			}
			return s == "true"
		}
		return newFormStep(set, answer)

	case *question.FillInTheBlank:
		text := newAreaField("Text", "text", p.Text, "Use "+question.BlankMarker+" for each blank", 4)
		text.help = "use " + question.BlankMarker + " for blanks"
		blanks := newAreaField("Blanks", "blanks", formatBlanks(p.Blanks), "answer | alternative | ...", 4)
		blanks.help = "one per line, alternatives after " + altSep
		blanks.parse = func(s string) any { return parseBlanks(s) }
		return newFormStep(set, text, blanks)

	case *question.CodeChallenge:
		ext := editorExtension(d.Language)
		starter := newAreaField("Starter code", "starterCode", p.StarterCode, "Code the candidate starts from", 5)
		starter.help = "ctrl+e opens $EDITOR"
		starter.editorExt = ext
		solution := newAreaField("Solution", "solution", p.Solution, "Reference solution", 5)
		solution.help = "ctrl+e opens $EDITOR"
		solution.editorExt = ext
		cases := newAreaField("Test cases", "testCases", formatTestCases(p.TestCases), "input => expected", 4)
		cases.help = "input " + testCaseSep + " expected, suffix " + hiddenSuffix
		cases.parse = func(s string) any { return parseTestCases(s) }
		return newFormStep(set, starter, solution, cases)
	}
	return newFormStep(set)
}

func newDetailsStep(d question.Draft, set FieldSetter) *FormStep {
	description := newAreaField("Description", "description", d.Description, "Markdown shown to the candidate", 6)
	description.help = "markdown, ctrl+e opens $EDITOR"
	description.editorExt = ".md"

	points := newInputField("Points", "points", strconv.Itoa(d.Points), "10", 3)
	points.parse = func(s string) any {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return 0
		}
		return n
	}

	tags := newInputField("Tags", "tags", strings.Join(d.Tags, ", "), "comma separated", 200)
	tags.parse = func(s string) any { return splitList(s, ",") }

	return newFormStep(set,
		newInputField("Title", "title", d.Title, "Short, unique title", 0),
		description,
		points,
		tags,
	)
}

// splitLines returns the non-blank lines of s, trimmed.
func splitLines(s string) []string {
	return splitList(s, "\n")
}

func splitList(s, sep string) []string {
	out := []string{}
	for _, part := range strings.Split(s, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func formatCorrectIndex(i int) string {
	if i < 0 {
		return ""
	}
	return strconv.Itoa(i + 1)
}

// parseCorrectIndex turns a 1-based option number into an index.
func parseCorrectIndex(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return question.NoCorrectIndex
	}
	return n - 1
}

func formatBlanks(blanks []question.Blank) string {
	lines := make([]string, len(blanks))
	for i, b := range blanks {
		lines[i] = strings.Join(append([]string{b.Answer}, b.Alternatives...), " "+altSep+" ")
	}
	return strings.Join(lines, "\n")
}

func parseBlanks(s string) []question.Blank {
	blanks := []question.Blank{}
	for _, line := range splitLines(s) {
		parts := strings.Split(line, altSep)
		b := question.Blank{Answer: strings.TrimSpace(parts[0])}
		for _, alt := range parts[1:] {
			if alt = strings.TrimSpace(alt); alt != "" {
				b.Alternatives = append(b.Alternatives, alt)
			}
		}
		blanks = append(blanks, b)
	}
	return blanks
}

func formatTestCases(cases []question.TestCase) string {
	lines := make([]string, len(cases))
	for i, tc := range cases {
		lines[i] = tc.Input + " " + testCaseSep + " " + tc.Expected
		if tc.Hidden {
			lines[i] += " " + hiddenSuffix
		}
	}
	return strings.Join(lines, "\n")
}

// parseTestCases reads "input => expected [hidden]" lines. A line without
// the separator is an input with no expected output.
func parseTestCases(s string) []question.TestCase {
	cases := []question.TestCase{}
	for _, line := range splitLines(s) {
		var tc question.TestCase
		if rest, ok := strings.CutSuffix(line, hiddenSuffix); ok {
			tc.Hidden = true
			line = strings.TrimSpace(rest)
		}
		input, expected, _ := strings.Cut(line, testCaseSep)
		tc.Input = strings.TrimSpace(input)
		tc.Expected = strings.TrimSpace(expected)
		cases = append(cases, tc)
	}
	return cases
}

var languageExtensions = map[string]string{
	"go":         ".go",
	"python":     ".py",
	"javascript": ".js",
	"typescript": ".ts",
	"java":       ".java",
	"rust":       ".rs",
	"c":          ".c",
	"cpp":        ".cpp",
	"c++":        ".cpp",
	"csharp":     ".cs",
	"ruby":       ".rb",
	"kotlin":     ".kt",
	"swift":      ".swift",
	"sql":        ".sql",
}

func editorExtension(language string) string {
	if ext, ok := languageExtensions[strings.ToLower(strings.TrimSpace(language))]; ok {
		return ext
	}
	return ".txt"
}
