package questionwizard

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/mark3labs/quizr/internal/tui/controls"
	"github.com/mark3labs/quizr/internal/tui/theme"
)

// CompletionStep shows the saved question with Create another/Exit buttons.
type CompletionStep struct {
	id        string
	title     string
	updated   bool
	width     int
	height    int
	buttonBar *controls.ButtonBar
}

// NewCompletionStep creates a completion step with the first button focused.
func NewCompletionStep(id, title string, updated bool) *CompletionStep {
	bar := controls.NewButtonBar([]controls.Button{
		{ID: controls.ButtonCreateAnother, Label: "Create another"},
		{ID: controls.ButtonExit, Label: "Exit"},
	})
	bar.FocusFirst()
	return &CompletionStep{
		id:        id,
		title:     title,
		updated:   updated,
		buttonBar: bar,
	}
}

// Init initializes the completion step.
func (s *CompletionStep) Init() tea.Cmd {
	return nil
}

// Update handles messages for the completion step.
func (s *CompletionStep) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return nil
	}
	switch key.String() {
	case "tab", "right":
		if !s.buttonBar.FocusNext() {
			s.buttonBar.FocusFirst()
		}
	case "shift+tab", "left":
		if !s.buttonBar.FocusPrev() {
			s.buttonBar.FocusLast()
		}
	case "enter", " ", "space":
		return s.activateButton(s.buttonBar.FocusedButton())
	}
	return nil
}

func (s *CompletionStep) activateButton(id controls.ButtonID) tea.Cmd {
	switch id {
	case controls.ButtonCreateAnother:
		return func() tea.Msg { return CreateAnotherMsg{} }
	case controls.ButtonExit:
		return func() tea.Msg { return ExitMsg{} }
	}
	return nil
}

// View renders the completion step.
func (s *CompletionStep) View() string {
	st := theme.Current().S()
	var b strings.Builder

	headline := "✓ Question Created Successfully!"
	if s.updated {
		headline = "✓ Question Updated Successfully!"
	}
	b.WriteString(st.Success.Render(headline))
	b.WriteString("\n\n")

	b.WriteString(st.Muted.Render("Title: "))
	b.WriteString(st.HeaderTitle.Render(s.title))
	b.WriteString("\n")
	b.WriteString(st.Muted.Render("ID:    "))
	b.WriteString(st.HeaderTitle.Render(s.id))
	b.WriteString("\n\n")

	b.WriteString(st.Base.Render("What would you like to do next?"))
	b.WriteString("\n\n")

	s.buttonBar.SetWidth(s.width)
	b.WriteString(s.buttonBar.Render())
	b.WriteString("\n")
	b.WriteString(controls.RenderHintBar("tab/arrow keys", "navigate", "enter", "select"))

	return b.String()
}

// SetSize updates the size of the completion step.
func (s *CompletionStep) SetSize(width, height int) {
	s.width = width
	s.height = height
}
