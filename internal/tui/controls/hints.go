package controls

import (
	"strings"

	"github.com/mark3labs/quizr/internal/tui/theme"
)

// TabExitForwardMsg: tab was pressed on a step's last input.
type TabExitForwardMsg struct{}

// TabExitBackwardMsg: shift+tab on the first input.
type TabExitBackwardMsg struct{}

// RenderHintBar joins key/description pairs into one footer line, e.g.
// "tab buttons • esc back". An odd or empty argument list renders nothing.
func RenderHintBar(pairs ...string) string {
	if len(pairs) == 0 || len(pairs)%2 == 1 {
		return ""
	}

	s := theme.Current().S()
	items := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		items = append(items, s.HintKey.Render(pairs[i])+" "+s.HintDesc.Render(pairs[i+1]))
	}
	return strings.Join(items, " "+s.HintSeparator.Render("•")+" ")
}
