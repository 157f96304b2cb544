package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/mark3labs/quizr/internal/bank"
	"github.com/mark3labs/quizr/internal/question"
	"github.com/mark3labs/quizr/internal/wizard"
)

// questionProperties describes the question document: common fields, a
// "type" and the block matching it.
var questionProperties = map[string]any{
	"language":    map[string]any{"type": "string"},
	"category":    map[string]any{"type": "string"},
	"type":        map[string]any{"type": "string", "enum": []string{"multipleChoice", "trueFalse", "fillInTheBlank", "codeChallenge"}},
	"difficulty":  map[string]any{"type": "string", "enum": []string{"easy", "medium", "hard"}},
	"title":       map[string]any{"type": "string"},
	"description": map[string]any{"type": "string", "description": "Markdown"},
	"points":      map[string]any{"type": "integer"},
	"tags":        map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
	"multipleChoice": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"options":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
			"correctIndex": map[string]any{"type": "integer"},
		},
	},
	"trueFalse": map[string]any{
		"type":       "object",
		"properties": map[string]any{"answer": map[string]any{"type": "boolean"}},
	},
	"fillInTheBlank": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"text": map[string]any{"type": "string", "description": "Use ___ for each blank"},
			"blanks": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"answer":       map[string]any{"type": "string"},
						"alternatives": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					},
				},
			},
		},
	},
	"codeChallenge": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"starterCode": map[string]any{"type": "string"},
			"solution":    map[string]any{"type": "string"},
			"testCases": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"input":    map[string]any{"type": "string"},
						"expected": map[string]any{"type": "string"},
						"hidden":   map[string]any{"type": "boolean"},
					},
				},
			},
		},
	},
}

// registerTools registers the question tools with the MCP server.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("question-validate",
			mcp.WithDescription("Validate a question against every wizard step without saving it"),
			mcp.WithObject("question", mcp.Required(), mcp.Properties(questionProperties)),
		),
		s.handleValidate,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("question-create",
			mcp.WithDescription("Validate and save a new question. Reports possible duplicates without blocking the save"),
			mcp.WithObject("question", mcp.Required(), mcp.Properties(questionProperties)),
		),
		s.handleCreate,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("question-update",
			mcp.WithDescription("Validate and save a new version of an existing question"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Question id")),
			mcp.WithObject("question", mcp.Required(), mcp.Properties(questionProperties)),
			mcp.WithNumber("version", mcp.Description("Version the edit is based on; the save fails if the stored version differs")),
		),
		s.handleUpdate,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("question-get",
			mcp.WithDescription("Get a question by id"),
			mcp.WithString("id", mcp.Required(), mcp.Description("Question id")),
		),
		s.handleGet,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("question-list",
			mcp.WithDescription("List questions, optionally filtered by type and language"),
			mcp.WithString("type", mcp.Description("Question type"), mcp.Enum("multipleChoice", "trueFalse", "fillInTheBlank", "codeChallenge")),
			mcp.WithString("language", mcp.Description("Programming language")),
		),
		s.handleList,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("question-check-duplicates",
			mcp.WithDescription("Find stored questions similar to the given one. Results are advisory"),
			mcp.WithObject("question", mcp.Required(), mcp.Properties(questionProperties)),
			mcp.WithString("exclude_id", mcp.Description("Question id to ignore, e.g. the one being edited")),
		),
		s.handleCheckDuplicates,
	)
}

// draftArg decodes the "question" argument into a draft.
func draftArg(request mcp.CallToolRequest) (question.Draft, error) {
	args := request.GetArguments()
	if args == nil {
		return question.Draft{}, errors.New("no arguments provided")
	}
	raw, ok := args["question"]
	if !ok {
		return question.Draft{}, errors.New("missing 'question' parameter")
	}
	if _, ok := raw.(map[string]any); !ok {
		return question.Draft{}, errors.New("'question' is not an object")
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return question.Draft{}, fmt.Errorf("invalid question: %w", err)
	}
	d, err := question.DecodeJSON(data)
	if err != nil {
		return question.Draft{}, fmt.Errorf("invalid question: %w", err)
	}
	return d, nil
}

// formatStepErrors renders validation errors per step in step order.
func formatStepErrors(errs map[wizard.StepID][]string) string {
	var b strings.Builder
	b.WriteString("question is invalid:")
	for _, step := range wizard.Steps() {
		list, ok := errs[step.ID]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "\n  step %d (%s): %s", step.ID, step.Title, strings.Join(list, "; "))
	}
	return b.String()
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

type validateResult struct {
	Valid  bool                `json:"valid"`
	Errors map[string][]string `json:"errors,omitempty"`
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, err := draftArg(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	w := wizard.New(wizard.Options{Initial: &d, Debounce: -1})
	defer w.Close()

	errs := w.ValidateAll()
	res := validateResult{Valid: len(errs) == 0}
	if !res.Valid {
		res.Errors = make(map[string][]string, len(errs))
		for id, list := range errs {
			step, _ := wizard.Lookup(id)
			res.Errors[strings.ToLower(step.Title)] = list
		}
	}
	return jsonResult(res)
}

type saveResult struct {
	Question   question.Question    `json:"question"`
	Duplicates []question.Duplicate `json:"duplicates,omitempty"`
}

// save runs a wizard session over d and saves it when every step is valid.
func (s *Server) save(ctx context.Context, w *wizard.Wizard) (*mcp.CallToolResult, error) {
	defer w.Close()

	if errs := w.ValidateAll(); len(errs) > 0 {
		return mcp.NewToolResultError(formatStepErrors(errs)), nil
	}

	// Advisory only: computed before the save so the new question cannot match itself.
	dups := w.CheckDuplicates(ctx)

	st := w.Save(ctx)
	if st.State != wizard.SaveSucceeded {
		return mcp.NewToolResultError(st.Message), nil
	}
	saved, err := s.store.Get(ctx, st.ID)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(saveResult{Question: saved, Duplicates: dups})
}

func (s *Server) handleCreate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, err := draftArg(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	w := wizard.New(wizard.Options{
		Persister:        s.store,
		DuplicateChecker: s.store,
		Initial:          &d,
		Debounce:         -1,
	})
	return s.save(ctx, w)
}

func (s *Server) handleUpdate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil || id == "" {
		return mcp.NewToolResultError("missing or invalid 'id' parameter"), nil
	}
	d, err := draftArg(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	version := request.GetInt("version", 0)

	if _, err := s.store.Get(ctx, id); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	w := wizard.New(wizard.Options{
		Persister:        &bank.VersionedPersister{Store: s.store, Version: version},
		DuplicateChecker: bank.ExcludingChecker{Store: s.store, ExcludeID: id},
		EditingID:        id,
		Initial:          &d,
		Debounce:         -1,
	})
	return s.save(ctx, w)
}

func (s *Server) handleGet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil || id == "" {
		return mcp.NewToolResultError("missing or invalid 'id' parameter"), nil
	}
	q, err := s.store.Get(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(q)
}

type listEntry struct {
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Type       question.Type       `json:"type"`
	Language   string              `json:"language"`
	Difficulty question.Difficulty `json:"difficulty"`
	Version    int                 `json:"version"`
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var f bank.Filter
	if t := request.GetString("type", ""); t != "" {
		typ, err := question.ParseType(t)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		f.Type = typ
	}
	f.Language = request.GetString("language", "")

	qs, err := s.store.List(ctx, f)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(qs) == 0 {
		return mcp.NewToolResultText("No questions found"), nil
	}

	entries := make([]listEntry, 0, len(qs))
	for _, q := range qs {
		entries = append(entries, listEntry{
			ID:         q.ID,
			Title:      q.Draft.Title,
			Type:       q.Draft.Type,
			Language:   q.Draft.Language,
			Difficulty: q.Draft.Difficulty,
			Version:    q.Version,
		})
	}
	return jsonResult(entries)
}

func (s *Server) handleCheckDuplicates(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, err := draftArg(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dups, err := s.store.FindDuplicates(ctx, d, request.GetString("exclude_id", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(dups) == 0 {
		return mcp.NewToolResultText("No similar questions found"), nil
	}
	return jsonResult(dups)
}
