// Package questionwizard is the terminal front end of the question
// authoring wizard: one form per step, a review screen with the duplicate
// check, and a completion screen.
package questionwizard

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/mark3labs/quizr/internal/logger"
	"github.com/mark3labs/quizr/internal/question"
	"github.com/mark3labs/quizr/internal/tui/controls"
	"github.com/mark3labs/quizr/internal/tui/theme"
	"github.com/mark3labs/quizr/internal/wizard"
)

// Modal layout constants
const (
	modalWidth        = 70                                                       // Total modal width including border
	modalPadding      = 2                                                        // Horizontal padding on each side
	modalBorderWidth  = 1                                                        // Border width on each side
	modalContentWidth = modalWidth - (modalPadding * 2) - (modalBorderWidth * 2) // 64
)

// ProgramSender is an interface for sending messages to the Bubbletea program.
// This allows for easier testing by mocking the Send method.
type ProgramSender interface {
	Send(tea.Msg)
}

// Options configures the wizard UI.
type Options struct {
	Persister        wizard.Persister
	DuplicateChecker wizard.DuplicateChecker // optional, disables the review check when nil
	Debounce         time.Duration           // see wizard.Options
	OnComplete       wizard.CompletionFunc

	// EditingID and Initial open an existing question.
	EditingID string
	Initial   *question.Draft

	// CreateInitial and CreateChecker are used by "Create another" after
	// an edit. See wizard.Options.
	CreateInitial *question.Draft
	CreateChecker wizard.DuplicateChecker
}

// Result holds what the wizard session produced.
type Result struct {
	SavedIDs []string
}

// WizardModel is the main BubbleTea model for the question wizard.
type WizardModel struct {
	ctx  context.Context
	w    *wizard.Wizard
	opts Options

	completed bool // Completion screen is showing
	cancelled bool // User quit without finishing
	dirty     bool // A field was written since the last reset
	width     int
	height    int

	// Step components, rebuilt from the draft whenever a step is entered
	basics     *FormStep
	answers    *FormStep
	details    *FormStep
	review     *ReviewStep
	completion *CompletionStep
	reviewSeq  int // Matches DuplicatesMsg to the review screen that asked

	buttonBar     *controls.ButtonBar
	buttonFocused bool // True if buttons have focus (vs step content)

	saving        bool
	saveError     string
	showSaveError bool
	confirmQuit   *controls.ConfirmationModal

	savedIDs []string

	// Program reference for sending messages from callbacks
	program ProgramSender
}

// NewModel creates the wizard model.
func NewModel(ctx context.Context, opts Options) *WizardModel {
	m := &WizardModel{
		ctx:         ctx,
		opts:        opts,
		confirmQuit: controls.NewConfirmationModal("Discard question?", "Your unsaved changes will be lost."),
	}
	m.w = wizard.New(wizard.Options{
		Persister:        opts.Persister,
		DuplicateChecker: opts.DuplicateChecker,
		Debounce:         opts.Debounce,
		OnValidated:      m.onValidated,
		OnComplete:       opts.OnComplete,
		EditingID:        opts.EditingID,
		Initial:          opts.Initial,
		CreateInitial:    opts.CreateInitial,
		CreateChecker:    opts.CreateChecker,
	})
	return m
}

// Run is the entry point for the question wizard.
// It creates a standalone BubbleTea program, runs it, and returns the ids
// of the saved questions.
func Run(ctx context.Context, opts Options) (Result, error) {
	m := NewModel(ctx, opts)
	defer m.w.Close()

	p := tea.NewProgram(m)
	m.program = p // Store program reference for callbacks

	finalModel, err := p.Run()
	if err != nil {
		return Result{}, fmt.Errorf("wizard failed: %w", err)
	}

	wizModel, ok := finalModel.(*WizardModel)
	if !ok {
		return Result{}, fmt.Errorf("unexpected model type")
	}

	result := Result{SavedIDs: wizModel.savedIDs}
	if wizModel.cancelled && len(result.SavedIDs) == 0 {
		return result, fmt.Errorf("wizard cancelled by user")
	}
	return result, nil
}

// Wizard exposes the underlying session.
func (m *WizardModel) Wizard() *wizard.Wizard { return m.w }

// SavedIDs returns the ids saved during this session.
func (m *WizardModel) SavedIDs() []string { return m.savedIDs }

// Cancelled reports whether the user quit without finishing.
func (m *WizardModel) Cancelled() bool { return m.cancelled }

// onValidated runs on the validation goroutine, which may be the Update
// goroutine itself when the debounce is disabled.
func (m *WizardModel) onValidated(id wizard.StepID, errs []string) {
	if m.program == nil {
		return
	}
	p := m.program
	go p.Send(ValidatedMsg{Step: id, Errors: errs})
}

// Init initializes the wizard model.
func (m *WizardModel) Init() tea.Cmd {
	return m.initCurrentStep()
}

// Update handles messages for the wizard.
func (m *WizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateCurrentStepSize()
		return m, nil

	case controls.TabExitForwardMsg:
		m.focusButtons(true)
		return m, nil

	case controls.TabExitBackwardMsg:
		m.focusButtons(false)
		return m, nil

	case ValidatedMsg:
		// Errors are read from the session on render.
		return m, nil

	case DuplicatesMsg:
		if m.review != nil && msg.Seq == m.reviewSeq {
			m.review.SetDuplicates(msg.Duplicates)
		}
		return m, nil

	case SaveResultMsg:
		m.saving = false
		switch msg.Status.State {
		case wizard.SaveSucceeded:
			logger.Debug("wizard completed with %s", msg.Status.ID)
			m.savedIDs = append(m.savedIDs, msg.Status.ID)
			m.completed = true
			m.dirty = false
			m.completion = NewCompletionStep(msg.Status.ID, m.w.Draft().Title, m.w.Editing())
			m.updateCurrentStepSize()
			return m, m.completion.Init()
		case wizard.SaveFailed:
			logger.Error("save failed: %s", msg.Status.Message)
			m.saveError = msg.Status.Message
			m.showSaveError = true
		}
		return m, nil

	case RetrySaveMsg:
		m.showSaveError = false
		m.saveError = ""
		return m, m.startSave()

	case CreateAnotherMsg:
		m.w.Reset()
		m.completed = false
		m.completion = nil
		m.dirty = false
		return m, m.initCurrentStep()

	case ExitMsg:
		return m, tea.Quit
	}

	return m, m.updateCurrentStep(msg)
}

func (m *WizardModel) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	// If save error modal is visible, handle Y/N/ESC
	if m.showSaveError {
		switch key {
		case "y", "Y":
			return m, func() tea.Msg { return RetrySaveMsg{} }
		case "n", "N", "esc":
			m.showSaveError = false
			m.saveError = ""
		}
		return m, nil
	}

	if m.confirmQuit.IsVisible() {
		switch key {
		case "y", "Y":
			m.confirmQuit.Hide()
			m.cancelled = true
			return m, tea.Quit
		case "n", "N", "esc":
			m.confirmQuit.Hide()
		}
		return m, nil
	}

	if key == "ctrl+c" {
		m.cancelled = !m.completed
		return m, tea.Quit
	}

	if m.completed {
		if key == "esc" {
			return m, tea.Quit
		}
		return m, m.completion.Update(msg)
	}

	if m.saving {
		return m, nil
	}

	cur := m.w.Current()

	if n, err := strconv.Atoi(key); err == nil && (m.buttonFocused || cur == wizard.StepReview) {
		return m.jump(wizard.StepID(n))
	}

	// Handle button-focused keyboard input
	if m.buttonFocused && m.buttonBar != nil {
		switch key {
		case "tab", "right":
			if !m.buttonBar.FocusNext() {
				m.buttonFocused = false
				m.buttonBar.Blur()
				return m, m.focusStepContent(true)
			}
			return m, nil
		case "shift+tab", "left":
			if !m.buttonBar.FocusPrev() {
				m.buttonFocused = false
				m.buttonBar.Blur()
				return m, m.focusStepContent(false)
			}
			return m, nil
		case "enter", " ", "space":
			return m.activateButton(m.buttonBar.FocusedButton())
		}
	}

	switch key {
	case "esc":
		if cur == wizard.FirstStep {
			return m.cancel()
		}
		return m.goBack()
	case "ctrl+s":
		return m.goNext()
	}

	if m.buttonFocused {
		return m, nil
	}
	return m, m.updateCurrentStep(msg)
}

// cancel leaves the wizard, asking first when the draft has edits.
func (m *WizardModel) cancel() (tea.Model, tea.Cmd) {
	if m.dirty {
		m.confirmQuit.Show()
		return m, nil
	}
	m.cancelled = true
	return m, tea.Quit
}

// activateButton handles button activation.
func (m *WizardModel) activateButton(id controls.ButtonID) (tea.Model, tea.Cmd) {
	switch id {
	case controls.ButtonCancel:
		return m.cancel()
	case controls.ButtonBack:
		return m.goBack()
	case controls.ButtonNext, controls.ButtonSave:
		return m.goNext()
	}
	return m, nil
}

// goBack moves to the previous step without validating.
func (m *WizardModel) goBack() (tea.Model, tea.Cmd) {
	if !m.w.Previous() {
		return m, nil
	}
	return m, m.initCurrentStep()
}

// goNext validates the current step and advances, or saves on the last step.
func (m *WizardModel) goNext() (tea.Model, tea.Cmd) {
	switch m.w.Next() {
	case wizard.Moved:
		return m, m.initCurrentStep()
	case wizard.SaveRequested:
		return m, m.startSave()
	default:
		// Errors are now recorded for the step; keep focus where it was.
		return m, nil
	}
}

func (m *WizardModel) jump(id wizard.StepID) (tea.Model, tea.Cmd) {
	if id == m.w.Current() || !m.w.Jump(id) {
		return m, nil
	}
	return m, m.initCurrentStep()
}

func (m *WizardModel) startSave() tea.Cmd {
	if m.saving {
		return nil
	}
	m.saving = true
	w, ctx := m.w, m.ctx
	return func() tea.Msg {
		return SaveResultMsg{Status: w.Save(ctx)}
	}
}

// initCurrentStep rebuilds the component for the current step from the
// draft and returns its init commands.
func (m *WizardModel) initCurrentStep() tea.Cmd {
	m.buttonFocused = false
	cur := m.w.Current()
	m.buttonBar = controls.NewButtonBar(controls.CreateBackNextButtons(
		cur == wizard.FirstStep,
		cur == wizard.LastStep,
		true,
	))

	d := m.w.Draft()
	var cmd tea.Cmd
	switch cur {
	case wizard.StepBasics:
		m.basics = newBasicsStep(d, m.setField)
		cmd = m.basics.Init()
	case wizard.StepAnswers:
		m.answers = newAnswersStep(d, m.setField)
		cmd = m.answers.Init()
	case wizard.StepDetails:
		m.details = newDetailsStep(d, m.setField)
		cmd = m.details.Init()
	case wizard.StepReview:
		checkEnabled := m.w.HasDuplicateChecker()
		m.review = NewReviewStep(d, checkEnabled)
		cmd = m.review.Init()
		if checkEnabled {
			m.reviewSeq++
			seq, w, ctx := m.reviewSeq, m.w, m.ctx
			cmd = tea.Batch(cmd, func() tea.Msg {
				return DuplicatesMsg{Seq: seq, Duplicates: w.CheckDuplicates(ctx)}
			})
		}
	}
	m.updateCurrentStepSize()
	return cmd
}

func (m *WizardModel) setField(path string, value any) {
	if m.w.UpdateField(path, value) {
		m.dirty = true
	}
}

func (m *WizardModel) currentForm() *FormStep {
	switch m.w.Current() {
	case wizard.StepBasics:
		return m.basics
	case wizard.StepAnswers:
		return m.answers
	case wizard.StepDetails:
		return m.details
	}
	return nil
}

// updateCurrentStep forwards a message to the current step.
func (m *WizardModel) updateCurrentStep(msg tea.Msg) tea.Cmd {
	if m.completed {
		if m.completion != nil {
			return m.completion.Update(msg)
		}
		return nil
	}
	if form := m.currentForm(); form != nil {
		return form.Update(msg)
	}
	if m.w.Current() == wizard.StepReview && m.review != nil {
		return m.review.Update(msg)
	}
	return nil
}

func (m *WizardModel) focusButtons(first bool) {
	if m.buttonBar == nil {
		return
	}
	var ok bool
	if first {
		ok = m.buttonBar.FocusFirst()
	} else {
		ok = m.buttonBar.FocusLast()
	}
	if !ok {
		return
	}
	m.buttonFocused = true
	if form := m.currentForm(); form != nil {
		form.Blur()
	}
}

// focusStepContent focuses the first or last element in step content.
func (m *WizardModel) focusStepContent(first bool) tea.Cmd {
	form := m.currentForm()
	if form == nil {
		return nil
	}
	if first {
		return form.FocusFirst()
	}
	return form.FocusLast()
}

// getModalContentSize returns the internal content dimensions for the modal.
func (m *WizardModel) getModalContentSize() (width, height int) {
	width = modalContentWidth

	height = m.height - 4 // Terminal margin
	if height < 20 {
		height = 20
	}
	if height > 40 {
		height = 40
	}
	// Subtract modal chrome: padding, border, title, indicator, buttons, hint
	height = height - 14
	if height < 8 {
		height = 8
	}
	return width, height
}

// updateCurrentStepSize updates the size of the current step.
func (m *WizardModel) updateCurrentStepSize() {
	w, h := m.getModalContentSize()
	if m.completed {
		if m.completion != nil {
			m.completion.SetSize(w, h)
		}
		return
	}
	if form := m.currentForm(); form != nil {
		form.SetSize(w, h)
	}
	if m.review != nil && m.w.Current() == wizard.StepReview {
		m.review.SetSize(w, h)
	}
	if m.buttonBar != nil {
		m.buttonBar.SetWidth(w)
	}
}

// View renders the wizard.
func (m *WizardModel) View() tea.View {
	var view tea.View
	view.AltScreen = true

	if m.width == 0 || m.height == 0 {
		// Not ready to render
		view.Content = lipgloss.NewLayer("")
		return view
	}

	content := m.renderCurrentStep()

	// Center on screen
	centered := lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		content,
	)

	// Draw to canvas using ultraviolet
	canvas := uv.NewScreenBuffer(m.width, m.height)
	uv.NewStyledString(centered).Draw(canvas, uv.Rectangle{
		Min: uv.Position{X: 0, Y: 0},
		Max: uv.Position{X: m.width, Y: m.height},
	})

	view.Content = lipgloss.NewLayer(canvas.Render())
	return view
}

func (m *WizardModel) renderCurrentStep() string {
	t := theme.Current()

	if m.showSaveError {
		return controls.RenderErrorModal("Save Failed", "Failed to save question: "+m.saveError)
	}
	if m.confirmQuit.IsVisible() {
		return m.confirmQuit.Render()
	}

	verb := "Create Question"
	if m.w.Editing() {
		verb = "Edit Question"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(t.Primary))

	modalStyle := lipgloss.NewStyle().
		Width(modalWidth).
		Padding(modalPadding).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(t.BorderDefault))

	if m.completed && m.completion != nil {
		return modalStyle.Render(lipgloss.JoinVertical(
			lipgloss.Left,
			titleStyle.MarginBottom(1).Render(verb+" - Complete"),
			m.completion.View(),
		))
	}

	cur := m.w.Current()
	step, _ := wizard.Lookup(cur)
	title := titleStyle.Render(fmt.Sprintf("%s - Step %d of %d: %s", verb, cur, wizard.LastStep, step.Title))
	subtitle := lipgloss.NewStyle().Foreground(lipgloss.Color(t.FgMuted)).Render(step.Description)

	errs := m.w.Errors(cur)
	var stepContent string
	if form := m.currentForm(); form != nil {
		stepContent = form.View(errs)
	} else if cur == wizard.StepReview && m.review != nil {
		stepContent = m.review.View()
		if st, ok := m.firstInvalidStep(); ok {
			errs = []string{fmt.Sprintf("Step %d (%s) has errors", st.ID, st.Title)}
			stepContent += renderErrors(errs)
		}
	}

	m.buttonBar.SetEnabled(controls.ButtonNext, len(errs) == 0)
	m.buttonBar.SetEnabled(controls.ButtonSave, len(errs) == 0 && !m.saving)
	if m.buttonFocused && !m.buttonBar.Focused() {
		m.buttonBar.FocusFirst()
	}

	var footer string
	if m.saving {
		footer = t.S().Muted.Render("Saving question...")
	} else {
		footer = controls.RenderHintBar(
			"tab", "navigate",
			"ctrl+s", "next",
			"esc", escHint(cur),
		)
	}

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		subtitle,
		m.renderStepIndicator(),
		"",
		stepContent,
		"",
		m.buttonBar.Render(),
		"",
		footer,
	)
	return modalStyle.Render(content)
}

// firstInvalidStep returns the first step before the current one that is not
// valid.
func (m *WizardModel) firstInvalidStep() (wizard.StepState, bool) {
	cur := m.w.Current()
	for _, st := range m.w.Steps() {
		if st.ID < cur && !st.Valid {
			return st, true
		}
	}
	return wizard.StepState{}, false
}

func escHint(cur wizard.StepID) string {
	if cur == wizard.FirstStep {
		return "cancel"
	}
	return "back"
}

// renderStepIndicator shows every step with its state: done, current,
// reachable or locked.
func (m *WizardModel) renderStepIndicator() string {
	s := theme.Current().S()
	parts := make([]string, 0, wizard.StepCount())
	for _, st := range m.w.Steps() {
		label := fmt.Sprintf("%d %s", st.ID, st.Title)
		switch {
		case st.ID == m.w.Current():
			parts = append(parts, s.HeaderTitle.Render("● "+label))
		case st.Completed && st.Valid:
			parts = append(parts, s.Success.Render("✓ "+label))
		case st.Accessible:
			parts = append(parts, s.Base.Render("○ "+label))
		default:
			parts = append(parts, s.Muted.Render("○ "+label))
		}
	}
	return strings.Join(parts, s.HintSeparator.Render(" › "))
}
