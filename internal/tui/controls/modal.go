package controls

import (
	"charm.land/lipgloss/v2"

	"github.com/mark3labs/quizr/internal/tui/theme"
)

// ConfirmationModal represents a Y/N confirmation modal.
type ConfirmationModal struct {
	title   string
	message string
	visible bool
}

// NewConfirmationModal creates a new, hidden confirmation modal.
func NewConfirmationModal(title, message string) *ConfirmationModal {
	return &ConfirmationModal{
		title:   title,
		message: message,
	}
}

func (m *ConfirmationModal) Show()           { m.visible = true }
func (m *ConfirmationModal) Hide()           { m.visible = false }
func (m *ConfirmationModal) IsVisible() bool { return m.visible }

// Render renders the confirmation modal.
func (m *ConfirmationModal) Render() string {
	t := theme.Current()
	return renderModal(t.Warning, "⚠ "+m.title, m.message, "Press Y to confirm, N or ESC to cancel", 50)
}

// RenderErrorModal renders an error modal offering a retry.
func RenderErrorModal(title, message string) string {
	t := theme.Current()
	return renderModal(t.Error, "⚠ "+title, message, "Press Y to retry, N or ESC to cancel", 60)
}

func renderModal(accent, title, message, hint string, width int) string {
	t := theme.Current()

	titleText := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(accent)).
		MarginBottom(1).
		Render(title)

	messageText := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgBase)).
		Width(width - 6).
		MarginBottom(1).
		Render(message)

	hintText := lipgloss.NewStyle().
		Foreground(lipgloss.Color(t.FgMuted)).
		Render(hint)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		titleText,
		messageText,
		"",
		hintText,
	)

	return lipgloss.NewStyle().
		Width(width).
		Padding(2).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(accent)).
		Render(content)
}
