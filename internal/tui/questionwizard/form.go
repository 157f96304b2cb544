package questionwizard

import (
	"strings"

	"charm.land/bubbles/v2/textarea"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/mark3labs/quizr/internal/tui/controls"
	"github.com/mark3labs/quizr/internal/tui/theme"
)

type fieldKind int

const (
	fieldInput fieldKind = iota
	fieldArea
	fieldChoice
)

// field is one labelled widget of a form bound to a draft path.
type field struct {
	label string
	help  string
	path  string
	kind  fieldKind

	input  textinput.Model
	area   textarea.Model
	choice *controls.OptionSelector

	// parse turns the widget text into the value written at path.
	parse func(string) any
	// editorExt is the temp file extension used for $EDITOR, empty when the
	// field cannot be edited externally.
	editorExt string
}

func newInputField(label, path, value, placeholder string, limit int) *field {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.SetValue(value)
	return &field{label: label, path: path, kind: fieldInput, input: ti}
}

func newAreaField(label, path, value, placeholder string, height int) *field {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.SetHeight(height)
	ta.SetValue(value)
	return &field{label: label, path: path, kind: fieldArea, area: ta}
}

func newChoiceField(label, path string, options []controls.Option, value string) *field {
	return &field{
		label:  label,
		path:   path,
		kind:   fieldChoice,
		choice: controls.NewOptionSelector(options, value),
	}
}

// Value returns the widget text.
func (f *field) Value() string {
	switch f.kind {
	case fieldInput:
		return f.input.Value()
	case fieldArea:
		return f.area.Value()
	default:
		return f.choice.Value()
	}
}

// SetValue replaces the widget text.
func (f *field) SetValue(v string) {
	switch f.kind {
	case fieldInput:
		f.input.SetValue(v)
	case fieldArea:
		f.area.SetValue(v)
	default:
		f.choice.Select(v)
	}
}

// written is the value stored in the draft for the current widget text.
func (f *field) written() any {
	if f.parse != nil {
		return f.parse(f.Value())
	}
	return f.Value()
}

func (f *field) focus() tea.Cmd {
	switch f.kind {
	case fieldInput:
		return f.input.Focus()
	case fieldArea:
		return f.area.Focus()
	default:
		f.choice.Focus()
		return nil
	}
}

func (f *field) blur() {
	switch f.kind {
	case fieldInput:
		f.input.Blur()
	case fieldArea:
		f.area.Blur()
	default:
		f.choice.Blur()
	}
}

func (f *field) focused() bool {
	switch f.kind {
	case fieldInput:
		return f.input.Focused()
	case fieldArea:
		return f.area.Focused()
	default:
		return f.choice.Focused()
	}
}

func (f *field) setWidth(w int) {
	switch f.kind {
	case fieldInput:
		f.input.SetWidth(w - 4)
	case fieldArea:
		f.area.SetWidth(w - 4)
	}
}

// update forwards a message to the widget and reports whether its text changed.
func (f *field) update(msg tea.Msg) (tea.Cmd, bool) {
	before := f.Value()
	var cmd tea.Cmd
	switch f.kind {
	case fieldInput:
		f.input, cmd = f.input.Update(msg)
	case fieldArea:
		f.area, cmd = f.area.Update(msg)
	default:
		if key, ok := msg.(tea.KeyPressMsg); ok {
			f.choice.HandleKey(key.String())
		}
	}
	return cmd, f.Value() != before
}

func (f *field) view() string {
	s := theme.Current().S()
	label := s.Label.Render(f.label)
	if f.help != "" {
		label += " " + s.Muted.Render(f.help)
	}

	var widget string
	switch f.kind {
	case fieldInput:
		widget = f.input.View()
	case fieldArea:
		widget = f.area.View()
	default:
		return lipgloss.JoinVertical(lipgloss.Left, label, f.choice.View())
	}

	box := s.InputBorder
	if f.focused() {
		box = s.InputBorderFocused
	}
	return lipgloss.JoinVertical(lipgloss.Left, label, box.Render(widget))
}

// FieldSetter writes a value into the wizard draft.
type FieldSetter func(path string, value any)

// FormStep is a step made of labelled fields. Every edit is written to the
// draft immediately through the setter; tab and shift+tab move between
// fields and leave the form at either end.
type FormStep struct {
	fields []*field
	focus  int
	set    FieldSetter
	width  int
	height int
}

func newFormStep(set FieldSetter, fields ...*field) *FormStep {
	return &FormStep{fields: fields, set: set, width: modalContentWidth}
}

// Init focuses the first field.
func (f *FormStep) Init() tea.Cmd {
	return f.FocusFirst()
}

// FocusFirst focuses the first field.
func (f *FormStep) FocusFirst() tea.Cmd {
	return f.focusAt(0)
}

// FocusLast focuses the last field.
func (f *FormStep) FocusLast() tea.Cmd {
	return f.focusAt(len(f.fields) - 1)
}

func (f *FormStep) focusAt(i int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.Blur()
	f.focus = i
	return f.fields[i].focus()
}

// Blur blurs every field.
func (f *FormStep) Blur() {
	for _, fl := range f.fields {
		fl.blur()
	}
}

// Focused returns the focused field, or nil when the form is blurred.
func (f *FormStep) Focused() *field {
	if f.focus < 0 || f.focus >= len(f.fields) || !f.fields[f.focus].focused() {
		return nil
	}
	return f.fields[f.focus]
}

// Field returns the field bound to path.
func (f *FormStep) Field(path string) *field {
	for _, fl := range f.fields {
		if fl.path == path {
			return fl
		}
	}
	return nil
}

// SetSize updates the size of the form.
func (f *FormStep) SetSize(width, height int) {
	f.width = width
	f.height = height
	for _, fl := range f.fields {
		fl.setWidth(width)
	}
}

// Update handles messages for the form.
func (f *FormStep) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "tab":
			if f.focus >= len(f.fields)-1 {
				return func() tea.Msg { return controls.TabExitForwardMsg{} }
			}
			return f.focusAt(f.focus + 1)
		case "shift+tab":
			if f.focus <= 0 {
				return func() tea.Msg { return controls.TabExitBackwardMsg{} }
			}
			return f.focusAt(f.focus - 1)
		case "ctrl+e":
			if fl := f.Focused(); fl != nil && fl.editorExt != "" {
				return openEditor(fl.path, fl.Value(), fl.editorExt)
			}
			return nil
		}
	case EditorFinishedMsg:
		fl := f.Field(msg.Path)
		if fl == nil {
			return nil
		}
		fl.SetValue(strings.TrimRight(msg.Content, "\n"))
		f.set(fl.path, fl.written())
		return nil
	}

	fl := f.Focused()
	if fl == nil {
		return nil
	}
	cmd, changed := fl.update(msg)
	if changed {
		f.set(fl.path, fl.written())
	}
	return cmd
}

// View renders the fields and the step's validation errors.
func (f *FormStep) View(errs []string) string {
	parts := make([]string, 0, len(f.fields)+1)
	for _, fl := range f.fields {
		parts = append(parts, fl.view())
	}
	if len(errs) > 0 {
		parts = append(parts, renderErrors(errs))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderErrors(errs []string) string {
	s := theme.Current().S()
	lines := make([]string, len(errs))
	for i, e := range errs {
		lines[i] = s.Error.Render("✗ " + e)
	}
	return "\n" + strings.Join(lines, "\n")
}
