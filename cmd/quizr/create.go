package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mark3labs/quizr/internal/bank"
	"github.com/mark3labs/quizr/internal/config"
	"github.com/mark3labs/quizr/internal/question"
	"github.com/mark3labs/quizr/internal/tui/questionwizard"
	"github.com/mark3labs/quizr/internal/wizard"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create questions with the interactive wizard",
	Long: `Create questions with the interactive wizard.

The wizard has four steps: Basics (language, category, type, difficulty),
Answers (depends on the question type), Details (title, markdown description,
points, tags) and Review. Each step is validated before you can move on.
The review step lists similar questions already in the bank; saving is
allowed either way.

Configuration is loaded from multiple sources with the following precedence:
  CLI flags > Environment variables > Project config > Global config > Defaults

Project config: ./quizr.yml
Global config: ~/.config/quizr/quizr.yml`,
	RunE: runCreate,
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit an existing question with the wizard",
	Args:  cobra.ExactArgs(1),
	RunE:  runEdit,
}

func runCreate(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	initial := initialDraft(a.cfg)
	result, err := questionwizard.Run(cmd.Context(), questionwizard.Options{
		Persister:        a.store,
		DuplicateChecker: duplicateChecker(a.cfg, a.store),
		Debounce:         a.cfg.ValidationDebounce,
		Initial:          &initial,
	})
	if err != nil {
		return fmt.Errorf("question wizard failed: %w", err)
	}

	printSaved(cmd, result.SavedIDs)
	return nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer a.Close()

	id := args[0]
	q, err := a.store.Get(cmd.Context(), id)
	if err != nil {
		return err
	}

	var checker wizard.DuplicateChecker
	if a.cfg.DuplicateCheck {
		checker = bank.ExcludingChecker{Store: a.store, ExcludeID: id}
	}

	next := initialDraft(a.cfg)
	result, err := questionwizard.Run(cmd.Context(), questionwizard.Options{
		Persister:        &bank.VersionedPersister{Store: a.store, Version: q.Version},
		DuplicateChecker: checker,
		Debounce:         a.cfg.ValidationDebounce,
		EditingID:        id,
		Initial:          &q.Draft,
		CreateInitial:    &next,
		CreateChecker:    duplicateChecker(a.cfg, a.store),
	})
	if err != nil {
		return fmt.Errorf("question wizard failed: %w", err)
	}

	printSaved(cmd, result.SavedIDs)
	return nil
}

// initialDraft is a new draft with the configured defaults applied.
func initialDraft(cfg *config.Config) question.Draft {
	d := question.NewDraft()
	if cfg.DefaultLanguage != "" {
		question.SetField(&d, "language", cfg.DefaultLanguage)
	}
	if cfg.DefaultPoints > 0 {
		question.SetField(&d, "points", cfg.DefaultPoints)
	}
	return d
}

// duplicateChecker returns store unless the check is disabled. The nil
// interface matters: the wizard skips the check only for a nil checker.
func duplicateChecker(cfg *config.Config, store *bank.Store) wizard.DuplicateChecker {
	if !cfg.DuplicateCheck {
		return nil
	}
	return store
}

func printSaved(cmd *cobra.Command, ids []string) {
	out := cmd.OutOrStdout()
	switch len(ids) {
	case 0:
		fmt.Fprintln(out, "No questions saved")
	case 1:
		fmt.Fprintf(out, "Saved question %s\n", ids[0])
	default:
		fmt.Fprintf(out, "Saved %d questions: %s\n", len(ids), strings.Join(ids, ", "))
	}
}
