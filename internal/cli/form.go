package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/realfunhq/copilot/internal/advisor"
	"github.com/realfunhq/copilot/internal/cli/formatter"
)

// copilotHuhTheme returns a custom huh theme using the existing Gruvbox palette.
func copilotHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	// Focused state: orange accent
	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	// Blurred state: dimmed
	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// studentLevels lists the levels offered in the intake form.
var studentLevels = []string{
	"Level 0",
	"Level 1",
	"Level 2",
	"Level 3",
	"Level 4",
	"Level 5",
	"Level 6",
}

// attendanceModes lists how a student currently attends classes.
var attendanceModes = []string{"Online", "Physical"}

// requestFields holds the values bound to the intake form.
type requestFields struct {
	studentName  string
	studentLevel string
	currentMode  string
	currentSlot  string
	rawRequest   string
	notes        string
}

// newRequestFields returns fields seeded with the default level and mode.
func newRequestFields() *requestFields {
	return &requestFields{
		studentLevel: studentLevels[0],
		currentMode:  attendanceModes[0],
	}
}

// toRequest converts the bound form values into an advisor request.
func (f *requestFields) toRequest() advisor.Request {
	return advisor.Request{
		StudentName:  f.studentName,
		StudentLevel: f.studentLevel,
		CurrentMode:  f.currentMode,
		CurrentSlot:  f.currentSlot,
		RawRequest:   f.rawRequest,
		Notes:        f.notes,
	}
}

// newRequestForm builds the two-page intake form bound to the given fields.
// Page one covers the student, page two the request itself.
func newRequestForm(f *requestFields) *huh.Form {
	levelOptions := make([]huh.Option[string], 0, len(studentLevels))
	for _, level := range studentLevels {
		levelOptions = append(levelOptions, huh.NewOption(level, level))
	}

	modeOptions := make([]huh.Option[string], 0, len(attendanceModes))
	for _, mode := range attendanceModes {
		modeOptions = append(modeOptions, huh.NewOption(mode, mode))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Student Name").
				Placeholder("Jia Wei").
				Value(&f.studentName).
				Validate(requiredField("student name")),
			huh.NewSelect[string]().
				Title("Student Level").
				Options(levelOptions...).
				Value(&f.studentLevel),
			huh.NewSelect[string]().
				Title("Current Mode").
				Options(modeOptions...).
				Value(&f.currentMode),
			huh.NewInput().
				Title("Current Slot").
				Description("Optional.").
				Placeholder("Sat 1-2.30 pm").
				Value(&f.currentSlot),
		),
		huh.NewGroup(
			huh.NewText().
				Title("Parent Request").
				Description("Paste the parent's WhatsApp message or email content.").
				Value(&f.rawRequest).
				Validate(requiredField("parent request")),
			huh.NewText().
				Title("Internal Notes").
				Description("Optional context for the AI such as history or constraints.").
				Value(&f.notes),
		),
	).WithTheme(copilotHuhTheme()).WithShowHelp(false)
}

// requiredField returns a validator that rejects blank values.
func requiredField(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}
