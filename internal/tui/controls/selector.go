package controls

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mark3labs/quizr/internal/tui/theme"
)

// Option is one choice of an OptionSelector.
type Option struct {
	Label string
	Value string
}

// OptionSelector is a single-line, left/right choice between a few options.
// It starts with nothing selected unless a value is preselected.
type OptionSelector struct {
	options  []Option
	selected int // -1 when nothing is selected
	focused  bool
}

// NewOptionSelector creates a selector with value preselected when it
// matches one of the options.
func NewOptionSelector(options []Option, value string) *OptionSelector {
	s := &OptionSelector{options: options, selected: -1}
	s.Select(value)
	return s
}

// Select selects the option with the given value. An unknown value clears
// the selection.
func (s *OptionSelector) Select(value string) {
	s.selected = -1
	for i, o := range s.options {
		if o.Value == value {
			s.selected = i
			return
		}
	}
}

// Value returns the selected value, or "" when nothing is selected.
func (s *OptionSelector) Value() string {
	if s.selected < 0 {
		return ""
	}
	return s.options[s.selected].Value
}

// Selected reports whether an option is selected.
func (s *OptionSelector) Selected() bool { return s.selected >= 0 }

// Next selects the option to the right, wrapping around.
func (s *OptionSelector) Next() {
	if len(s.options) == 0 {
		return
	}
	s.selected = (s.selected + 1) % len(s.options)
}

// Prev selects the option to the left, wrapping around.
func (s *OptionSelector) Prev() {
	if len(s.options) == 0 {
		return
	}
	if s.selected <= 0 {
		s.selected = len(s.options) - 1
		return
	}
	s.selected--
}

// HandleKey applies a key and reports whether the selection changed.
func (s *OptionSelector) HandleKey(key string) bool {
	before := s.selected
	switch key {
	case "right", "l", "space", " ":
		s.Next()
	case "left", "h":
		s.Prev()
	default:
		return false
	}
	return before != s.selected
}

func (s *OptionSelector) Focus()        { s.focused = true }
func (s *OptionSelector) Blur()         { s.focused = false }
func (s *OptionSelector) Focused() bool { return s.focused }

// View renders the options on one line with the selection highlighted.
func (s *OptionSelector) View() string {
	t := theme.Current()
	normal := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)).Padding(0, 1)
	chosen := lipgloss.NewStyle().Foreground(lipgloss.Color(t.BgBase)).Background(lipgloss.Color(t.Secondary)).Padding(0, 1)
	if s.focused {
		chosen = chosen.Background(lipgloss.Color(t.Tertiary)).Bold(true)
	}

	parts := make([]string, 0, len(s.options))
	for i, o := range s.options {
		if i == s.selected {
			parts = append(parts, chosen.Render(o.Label))
		} else {
			parts = append(parts, normal.Render(o.Label))
		}
	}
	line := strings.Join(parts, " ")
	if s.focused {
		return lipgloss.NewStyle().Foreground(lipgloss.Color(t.Tertiary)).Render("‹ ") + line +
			lipgloss.NewStyle().Foreground(lipgloss.Color(t.Tertiary)).Render(" ›")
	}
	return "  " + line
}
