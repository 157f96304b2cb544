package controls

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/mark3labs/quizr/internal/tui/theme"
)

// ButtonState represents the visual state of a button.
type ButtonState int

const (
	ButtonNormal   ButtonState = iota // Normal state (enabled)
	ButtonDisabled                    // Disabled state (grayed out)
	ButtonFocused                     // Focused/highlighted state
)

// ButtonID identifies what a button does when activated.
type ButtonID int

const (
	ButtonNone ButtonID = iota
	ButtonCancel
	ButtonBack
	ButtonNext
	ButtonSave
	ButtonCreateAnother
	ButtonExit
)

// Button represents a single button in the button bar.
type Button struct {
	ID    ButtonID
	Label string
	State ButtonState
}

// ButtonBar manages a set of buttons with focus tracking. Disabled buttons
// are skipped when moving focus.
type ButtonBar struct {
	buttons []Button
	focus   int // -1 when the bar has no focus
	width   int
}

// NewButtonBar creates a new button bar with the given buttons.
func NewButtonBar(buttons []Button) *ButtonBar {
	return &ButtonBar{
		buttons: buttons,
		focus:   -1,
		width:   60,
	}
}

// SetWidth updates the width for the button bar.
func (b *ButtonBar) SetWidth(width int) {
	b.width = width
}

// SetEnabled enables or disables the button with the given id. A focused
// button that becomes disabled loses focus.
func (b *ButtonBar) SetEnabled(id ButtonID, enabled bool) {
	for i := range b.buttons {
		if b.buttons[i].ID != id {
			continue
		}
		if enabled {
			if b.buttons[i].State == ButtonDisabled {
				b.buttons[i].State = ButtonNormal
			}
			continue
		}
		b.buttons[i].State = ButtonDisabled
		if b.focus == i {
			b.focus = -1
		}
	}
}

// Enabled reports whether the button with the given id exists and is enabled.
func (b *ButtonBar) Enabled(id ButtonID) bool {
	for _, btn := range b.buttons {
		if btn.ID == id {
			return btn.State != ButtonDisabled
		}
	}
	return false
}

// FocusFirst focuses the first enabled button.
func (b *ButtonBar) FocusFirst() bool {
	return b.focusFrom(0, 1)
}

// FocusLast focuses the last enabled button.
func (b *ButtonBar) FocusLast() bool {
	return b.focusFrom(len(b.buttons)-1, -1)
}

// FocusNext moves focus right. It returns false, leaving focus unchanged,
// when there is no enabled button further right.
func (b *ButtonBar) FocusNext() bool {
	if b.focus < 0 {
		return b.FocusFirst()
	}
	return b.focusFrom(b.focus+1, 1)
}

// FocusPrev moves focus left. It returns false when there is no enabled
// button further left.
func (b *ButtonBar) FocusPrev() bool {
	if b.focus < 0 {
		return b.FocusLast()
	}
	return b.focusFrom(b.focus-1, -1)
}

func (b *ButtonBar) focusFrom(start, step int) bool {
	for i := start; i >= 0 && i < len(b.buttons); i += step {
		if b.buttons[i].State != ButtonDisabled {
			b.focus = i
			return true
		}
	}
	return false
}

// Blur removes focus from the bar.
func (b *ButtonBar) Blur() {
	b.focus = -1
}

// Focused reports whether any button has focus.
func (b *ButtonBar) Focused() bool {
	return b.focus >= 0
}

// FocusedButton returns the id of the focused button, or ButtonNone.
func (b *ButtonBar) FocusedButton() ButtonID {
	if b.focus < 0 || b.focus >= len(b.buttons) {
		return ButtonNone
	}
	return b.buttons[b.focus].ID
}

// Render renders the button bar centered in its width.
func (b *ButtonBar) Render() string {
	if len(b.buttons) == 0 {
		return ""
	}

	s := theme.Current().S()
	rendered := make([]string, 0, len(b.buttons))
	for i, btn := range b.buttons {
		switch {
		case btn.State == ButtonDisabled:
			rendered = append(rendered, s.ButtonDisabled.Render(btn.Label))
		case i == b.focus:
			rendered = append(rendered, s.ButtonFocused.Render(btn.Label))
		default:
			rendered = append(rendered, s.ButtonNormal.Render(btn.Label))
		}
	}

	return lipgloss.Place(b.width, 1, lipgloss.Center, lipgloss.Center, strings.Join(rendered, ""))
}

// CreateBackNextButtons creates the Back/Next button set. The first step gets
// Cancel in place of Back and the last step gets Save in place of Next.
func CreateBackNextButtons(first, last, nextEnabled bool) []Button {
	buttons := make([]Button, 0, 2)

	if first {
		buttons = append(buttons, Button{ID: ButtonCancel, Label: "Cancel"})
	} else {
		buttons = append(buttons, Button{ID: ButtonBack, Label: "← Back"})
	}

	next := Button{ID: ButtonNext, Label: "Next →"}
	if last {
		next = Button{ID: ButtonSave, Label: "Save"}
	}
	if !nextEnabled {
		next.State = ButtonDisabled
	}
	return append(buttons, next)
}
