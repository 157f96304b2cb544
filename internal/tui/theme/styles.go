package theme

import "charm.land/lipgloss/v2"

// Styles contains all pre-built lipgloss styles for the TUI.
type Styles struct {
	HeaderTitle lipgloss.Style
	Base        lipgloss.Style
	Muted       lipgloss.Style
	Label       lipgloss.Style
	Success     lipgloss.Style
	Warning     lipgloss.Style
	Error       lipgloss.Style

	ButtonNormal   lipgloss.Style
	ButtonDisabled lipgloss.Style
	ButtonFocused  lipgloss.Style

	HintKey       lipgloss.Style
	HintDesc      lipgloss.Style
	HintSeparator lipgloss.Style

	InputBorder        lipgloss.Style
	InputBorderFocused lipgloss.Style

	DiffInsert  lipgloss.Style
	DiffDelete  lipgloss.Style
	DiffContext lipgloss.Style
}
