package questionwizard

import (
	"os"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/editor"

	"github.com/mark3labs/quizr/internal/logger"
)

// EditorFinishedMsg carries the content of a field edited in $EDITOR.
type EditorFinishedMsg struct {
	Path    string
	Content string
}

// openEditor launches the user's $EDITOR on a temp file holding content.
// Nothing happens when no editor can be started.
func openEditor(path, content, ext string) tea.Cmd {
	tmpfile, err := os.CreateTemp("", "quizr_*"+ext)
	if err != nil {
		logger.Warn("editor temp file: %v", err)
		return nil
	}
	name := tmpfile.Name()

	if _, err := tmpfile.WriteString(content); err != nil {
		_ = tmpfile.Close()
		_ = os.Remove(name)
		return nil
	}
	_ = tmpfile.Close()

	cmd, err := editor.Command("quizr", name)
	if err != nil {
		logger.Warn("editor: %v", err)
		_ = os.Remove(name)
		return nil
	}

	return tea.ExecProcess(cmd, func(err error) tea.Msg {
		defer os.Remove(name)
		if err != nil {
			logger.Warn("editor exited: %v", err)
			return nil
		}
		data, err := os.ReadFile(name)
		if err != nil {
			return nil
		}
		return EditorFinishedMsg{Path: path, Content: string(data)}
	})
}
