package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mark3labs/quizr/internal/bank"
	"github.com/mark3labs/quizr/internal/question"
	"github.com/mark3labs/quizr/internal/wizard"
)

var listFlags struct {
	questionType string
	language     string
}

var showFlags struct {
	format string
}

var exportFlags struct {
	out string
}

var checkFlags struct {
	save bool
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List questions in the bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := bank.Filter{Language: listFlags.language}
		if listFlags.questionType != "" {
			t, err := question.ParseType(listFlags.questionType)
			if err != nil {
				return err
			}
			filter.Type = t
		}

		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		return listQuestions(cmd.Context(), a.store, filter, cmd.OutOrStdout())
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print one question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		q, err := a.store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeQuestion(cmd.OutOrStdout(), q, showFlags.format)
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the bank as a YAML list",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		var w io.Writer = cmd.OutOrStdout()
		if exportFlags.out != "" {
			f, err := os.Create(exportFlags.out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", exportFlags.out, err)
			}
			defer f.Close()
			w = f
		}
		n, err := exportQuestions(cmd.Context(), a.store, w)
		if err != nil {
			return err
		}
		if exportFlags.out != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d questions to %s\n", n, exportFlags.out)
		}
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Validate a YAML question file",
	Long: `Validate a YAML question file with the wizard's step rules.

The file holds one question document. Every step is validated and the bank
is searched for similar questions. With --save a valid question is added to
the bank; similar questions never block the save.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}
		d, err := question.DecodeYAML(data)
		if err != nil {
			return fmt.Errorf("invalid question file: %w", err)
		}

		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		return checkQuestion(cmd.Context(), a.store, d, checkFlags.save, cmd.OutOrStdout())
	},
}

func init() {
	listCmd.Flags().StringVarP(&listFlags.questionType, "type", "t", "", "Only list questions of this type")
	listCmd.Flags().StringVarP(&listFlags.language, "language", "l", "", "Only list questions in this language")
	showCmd.Flags().StringVarP(&showFlags.format, "format", "f", "yaml", "Output format: yaml or json")
	exportCmd.Flags().StringVarP(&exportFlags.out, "out", "o", "", "Write to file instead of stdout")
	checkCmd.Flags().BoolVar(&checkFlags.save, "save", false, "Save the question when it is valid")
}

func listQuestions(ctx context.Context, store *bank.Store, f bank.Filter, out io.Writer) error {
	qs, err := store.List(ctx, f)
	if err != nil {
		return err
	}
	if len(qs) == 0 {
		fmt.Fprintln(out, "No questions")
		return nil
	}
	for _, q := range qs {
		fmt.Fprintf(out, "[%s] %s (%s, %s, %s, v%d)\n",
			q.ID, q.Draft.Title, q.Draft.Type.Label(), q.Draft.Language, q.Draft.Difficulty, q.Version)
	}
	return nil
}

func writeQuestion(out io.Writer, q question.Question, format string) error {
	switch strings.ToLower(format) {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(q)
	case "yaml", "":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(q); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown format %q (use yaml or json)", format)
	}
}

func exportQuestions(ctx context.Context, store *bank.Store, out io.Writer) (int, error) {
	qs, err := store.List(ctx, bank.Filter{})
	if err != nil {
		return 0, err
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(qs); err != nil {
		return 0, fmt.Errorf("failed to encode questions: %w", err)
	}
	return len(qs), enc.Close()
}

// checkQuestion validates d step by step the way the wizard does, reports
// similar questions and optionally saves.
func checkQuestion(ctx context.Context, store *bank.Store, d question.Draft, save bool, out io.Writer) error {
	w := wizard.New(wizard.Options{
		Persister:        store,
		DuplicateChecker: store,
		Debounce:         -1,
		Initial:          &d,
	})
	defer w.Close()

	invalid := w.ValidateAll()
	for _, step := range wizard.Steps() {
		errs := invalid[step.ID]
		if len(errs) == 0 {
			fmt.Fprintf(out, "✓ %s\n", step.Title)
			continue
		}
		fmt.Fprintf(out, "✗ %s\n", step.Title)
		for _, e := range errs {
			fmt.Fprintf(out, "    %s\n", e)
		}
	}

	for _, dup := range w.CheckDuplicates(ctx) {
		marker := ""
		if dup.ExactMatch {
			marker = " (exact match)"
		}
		fmt.Fprintf(out, "similar: [%s] %s %.0f%%%s\n", dup.ID, dup.Title, dup.SimilarityScore*100, marker)
	}

	if len(invalid) > 0 {
		return fmt.Errorf("question has %d invalid step(s)", len(invalid))
	}
	if !save {
		return nil
	}

	st := w.Save(ctx)
	if st.State != wizard.SaveSucceeded {
		return fmt.Errorf("failed to save question: %s", st.Message)
	}
	fmt.Fprintf(out, "Saved question %s\n", st.ID)
	return nil
}
