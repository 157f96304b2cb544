package questionwizard

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/glamour/v2"
	"charm.land/lipgloss/v2"
	chroma "github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/mark3labs/quizr/internal/question"
	"github.com/mark3labs/quizr/internal/tui/controls"
	"github.com/mark3labs/quizr/internal/tui/theme"
)

// ReviewStep shows the whole draft read-only, plus the advisory duplicate
// check results. It scrolls.
type ReviewStep struct {
	viewport viewport.Model
	spinner  spinner.Model
	draft    question.Draft
	width    int
	height   int

	checkEnabled bool
	checking     bool
	duplicates   []question.Duplicate
}

// NewReviewStep creates a review step for the draft. When checkEnabled is
// set the step shows a pending duplicate check until SetDuplicates.
func NewReviewStep(d question.Draft, checkEnabled bool) *ReviewStep {
	vp := viewport.New(
		viewport.WithWidth(modalContentWidth),
		viewport.WithHeight(10),
	)
	vp.MouseWheelEnabled = true
	vp.MouseWheelDelta = 3

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Current().Primary))

	r := &ReviewStep{
		viewport:     vp,
		spinner:      s,
		draft:        d,
		width:        modalContentWidth,
		height:       20,
		checkEnabled: checkEnabled,
		checking:     checkEnabled,
	}
	r.refresh()
	return r
}

// Init starts the spinner while the duplicate check runs.
func (s *ReviewStep) Init() tea.Cmd {
	if s.checking {
		return s.spinner.Tick
	}
	return nil
}

// SetDuplicates ends the pending duplicate check.
func (s *ReviewStep) SetDuplicates(dups []question.Duplicate) {
	s.checking = false
	s.duplicates = dups
	s.refresh()
}

// Duplicates returns the last duplicate check result.
func (s *ReviewStep) Duplicates() []question.Duplicate { return s.duplicates }

// Checking reports whether the duplicate check is still pending.
func (s *ReviewStep) Checking() bool { return s.checking }

// SetSize updates the dimensions for the review step.
func (s *ReviewStep) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.viewport.SetWidth(width)

	// Reserve space for hint bar (1 line)
	viewportHeight := height - 1
	if viewportHeight < 5 {
		viewportHeight = 5
	}
	s.viewport.SetHeight(viewportHeight)
	s.refresh()
}

// Update handles messages for the review step.
func (s *ReviewStep) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(spinner.TickMsg); ok {
		if !s.checking {
			return nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		s.refresh()
		return cmd
	}

	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "tab":
			return func() tea.Msg { return controls.TabExitForwardMsg{} }
		case "shift+tab":
			return func() tea.Msg { return controls.TabExitBackwardMsg{} }
		}
	}

	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	return cmd
}

// View renders the review step.
func (s *ReviewStep) View() string {
	return s.viewport.View() + "\n" + controls.RenderHintBar(
		"↑↓", "scroll",
		"1-4", "jump",
		"tab", "buttons",
		"esc", "back",
	)
}

// Content returns the unscrolled review text.
func (s *ReviewStep) Content() string {
	return s.render()
}

func (s *ReviewStep) refresh() {
	s.viewport.SetContent(s.render())
}

func (s *ReviewStep) render() string {
	t := theme.Current()
	st := t.S()
	d := s.draft

	var b strings.Builder
	b.WriteString(st.HeaderTitle.Render(d.Title))
	b.WriteString("\n")

	meta := []string{d.Language, d.Category, d.Type.Label(), string(d.Difficulty), fmt.Sprintf("%d pts", d.Points)}
	b.WriteString(st.Muted.Render(strings.Join(meta, " · ")))
	if len(d.Tags) > 0 {
		b.WriteString("\n" + st.Muted.Render("tags: "+strings.Join(d.Tags, ", ")))
	}
	b.WriteString("\n\n")

	b.WriteString(renderMarkdown(d.Description, s.width))
	b.WriteString("\n\n")

	b.WriteString(st.Label.Render("Answers"))
	b.WriteString("\n")
	b.WriteString(s.renderAnswers())

	if s.checkEnabled {
		b.WriteString("\n\n")
		b.WriteString(s.renderDuplicates())
	}
	return b.String()
}

func (s *ReviewStep) renderAnswers() string {
	st := theme.Current().S()
	var b strings.Builder

	switch p := s.draft.Payload.(type) {
	case *question.MultipleChoice:
		for i, opt := range p.Options {
			if i == p.CorrectIndex {
				b.WriteString(st.Success.Render(fmt.Sprintf("✓ %d. %s", i+1, opt)))
			} else {
				b.WriteString(st.Base.Render(fmt.Sprintf("  %d. %s", i+1, opt)))
			}
			b.WriteString("\n")
		}
	case *question.TrueFalse:
		answer := "not set"
		if p.Answer != nil {
			answer = strconv.FormatBool(*p.Answer)
		}
		b.WriteString(st.Base.Render("Answer: " + answer))
		b.WriteString("\n")
	case *question.FillInTheBlank:
		b.WriteString(st.Base.Render(p.Text))
		b.WriteString("\n")
		for i, blank := range p.Blanks {
			line := fmt.Sprintf("%d. %s", i+1, blank.Answer)
			if len(blank.Alternatives) > 0 {
				line += " (also: " + strings.Join(blank.Alternatives, ", ") + ")"
			}
			b.WriteString(st.Base.Render(line))
			b.WriteString("\n")
		}
	case *question.CodeChallenge:
		if p.StarterCode != "" {
			b.WriteString(st.Muted.Render("Starter code"))
			b.WriteString("\n")
			b.WriteString(highlightCode(p.StarterCode, s.draft.Language))
			b.WriteString("\n")
		}
		b.WriteString(st.Muted.Render("Solution"))
		b.WriteString("\n")
		b.WriteString(highlightCode(p.Solution, s.draft.Language))
		b.WriteString("\n")
		for i, tc := range p.TestCases {
			line := fmt.Sprintf("%d. %s → %s", i+1, tc.Input, tc.Expected)
			if tc.Hidden {
				line += " (hidden)"
			}
			b.WriteString(st.Base.Render(line))
			b.WriteString("\n")
		}
	default:
		b.WriteString(st.Muted.Render("No question type selected"))
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (s *ReviewStep) renderDuplicates() string {
	t := theme.Current()
	st := t.S()
	var b strings.Builder

	b.WriteString(st.Label.Render("Similar questions"))
	b.WriteString("\n")

	switch {
	case s.checking:
		b.WriteString(s.spinner.View() + " " + st.Muted.Render("Checking for similar questions..."))
		return b.String()
	case len(s.duplicates) == 0:
		b.WriteString(st.Success.Render("✓ No similar questions found"))
		return b.String()
	}

	b.WriteString(st.Warning.Render("Saving is still allowed; review these matches first."))
	b.WriteString("\n")
	for _, dup := range s.duplicates {
		color := theme.InterpolateColor(t.Warning, t.Error, dup.SimilarityScore)
		score := lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(fmt.Sprintf("%3.0f%%", dup.SimilarityScore*100))
		line := fmt.Sprintf("%s  %s (%s)", score, dup.Title, dup.ID)
		if dup.ExactMatch {
			line += " " + st.Error.Render("exact match")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if closest := s.duplicates[0]; closest.Diff != "" {
		b.WriteString("\n")
		b.WriteString(st.Muted.Render("Diff against " + closest.ID))
		b.WriteString("\n")
		b.WriteString(renderDiff(closest.Diff))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// renderDiff colors a unified diff line by line.
func renderDiff(diff string) string {
	st := theme.Current().S()
	lines := strings.Split(strings.TrimSuffix(diff, "\n"), "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"), strings.HasPrefix(line, "@@"):
			lines[i] = st.Muted.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = st.DiffInsert.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = st.DiffDelete.Render(line)
		default:
			lines[i] = st.DiffContext.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}

// renderMarkdown renders markdown content using glamour.
// Falls back to plain text if rendering fails.
func renderMarkdown(content string, width int) string {
	// Cap width to 120 for readability
	if width > 120 {
		width = 120
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return content
	}

	rendered, err := r.Render(content)
	if err != nil {
		return content
	}

	// Remove surrounding newlines that glamour adds
	return strings.Trim(rendered, "\n")
}

// highlightCode applies syntax highlighting for the question language,
// falling back to content analysis and then plain text.
func highlightCode(source, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(source)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}

	formatter := formatters.Get("terminal16m")
	if formatter == nil {
		formatter = formatters.Get("terminal256")
	}
	if formatter == nil {
		return source
	}

	baseStyle := styles.Get("monokai")
	if baseStyle == nil {
		baseStyle = styles.Fallback
	}

	// Match the code background to the modal surface.
	bgColour := chroma.MustParseColour(theme.Current().BgSurface0)
	style, err := baseStyle.Builder().Transform(func(entry chroma.StyleEntry) chroma.StyleEntry {
		entry.Background = bgColour
		return entry
	}).Build()
	if err != nil {
		style = baseStyle
	}

	iterator, err := lexer.Tokenise(nil, source)
	if err != nil {
		return source
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return source
	}
	return strings.TrimRight(buf.String(), "\n")
}
