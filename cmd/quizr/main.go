package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/mark3labs/quizr/internal/logger"
	"github.com/mark3labs/quizr/internal/tui/theme"
)

const (
	logoText1 = "█▀█ █ █ █ ▀█ █▀█"
	logoText2 = "▀▀█ █▄█ █ █▄ █▀▄"
)

// Overridden with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version))
	if err != nil {
		logger.Error("quizr: %v", err)
	}
	_ = logger.Close()
	if err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "quizr",
	Short: "Author coding-assessment questions in the terminal",
}

func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	lines := []string{logoText1, logoText2}
	for i, l := range lines {
		lines[i] = theme.ApplyGradient(l, t.Primary, t.Secondary)
	}
	return strings.Join(lines, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

quizr walks you through writing coding-assessment questions: pick the
language and question type, configure the answers, add a title and a
markdown description, review, and save. Questions live in a question bank
backed by embedded NATS JetStream. The same bank is exposed to agents
through an MCP server (quizr serve).`

	rootCmd.AddCommand(createCmd, editCmd, listCmd, showCmd, exportCmd, checkCmd, serveCmd, setupCmd)
}
