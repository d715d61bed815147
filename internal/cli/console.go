package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/realfunhq/copilot/internal/advisor"
	"github.com/realfunhq/copilot/internal/cli/formatter"
)

const (
	// Width of the form pane when the terminal is wide enough to split.
	consoleFormWidth = 44

	// Rows taken by the header and status bar around the body panes.
	consoleChromeHeight = 4
)

// adviceMsg carries the outcome of one advisor call back into the model.
type adviceMsg struct {
	resp *advisor.Response
	err  error
}

// healthMsg carries the result of the startup backend probe.
type healthMsg struct {
	healthy bool
}

// copiedMsg reports whether the WhatsApp draft reached the clipboard.
type copiedMsg struct {
	err error
}

// backendStatus tracks what the startup probe learned about JamAI.
type backendStatus int

const (
	backendProbing backendStatus = iota
	backendHealthy
	backendUnreachable
)

// consoleKeyMap defines the global console key bindings. Only chords are
// used so plain letters stay available to the form inputs.
type consoleKeyMap struct {
	Copy       key.Binding
	NewRequest key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Quit       key.Binding
}

func defaultConsoleKeys() consoleKeyMap {
	return consoleKeyMap{
		Copy:       key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "copy draft")),
		NewRequest: key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "new request")),
		PageUp:     key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup/pgdn", "scroll")),
		PageDown:   key.NewBinding(key.WithKeys("pgdown")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// consoleModel is the root bubbletea model for the copilot console: the
// intake form on the left, the generated recommendation on the right.
type consoleModel struct {
	app  *App
	keys consoleKeyMap

	fields *requestFields
	form   *huh.Form

	results viewport.Model

	width  int
	height int
	ready  bool

	inflight bool
	backend  backendStatus

	resp    *advisor.Response
	callErr string
	notice  string

	quitting bool
}

// newConsoleModel creates the console around the given app services.
func newConsoleModel(app *App) consoleModel {
	fields := newRequestFields()

	results := viewport.New(0, 0)
	results.KeyMap = resultsViewportKeyMap()

	return consoleModel{
		app:     app,
		keys:    defaultConsoleKeys(),
		fields:  fields,
		form:    newRequestForm(fields),
		results: results,
	}
}

// resultsViewportKeyMap returns a restricted keymap for the result pane.
// Arrow keys are left free so the form keeps field navigation.
func resultsViewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown: key.NewBinding(key.WithKeys("pgdown")),
		PageUp:   key.NewBinding(key.WithKeys("pgup")),
	}
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m consoleModel) Init() tea.Cmd {
	return tea.Batch(m.form.Init(), m.probeBackend())
}

func (m consoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case healthMsg:
		if msg.healthy {
			m.backend = backendHealthy
		} else {
			m.backend = backendUnreachable
		}
		return m, nil

	case adviceMsg:
		m.inflight = false
		m.applyAdvice(msg)
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.notice = formatter.StyleRed.Render("Copy failed: " + msg.err.Error())
		} else {
			m.notice = formatter.StyleGreen.Render("Draft copied to clipboard.")
		}
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}

		// One request at a time: drop input until the reply lands.
		if m.inflight {
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Copy):
			return m, m.copyDraft()
		case key.Matches(msg, m.keys.NewRequest):
			m.clearForm()
			return m, m.form.Init()
		case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
			var cmd tea.Cmd
			m.results, cmd = m.results.Update(msg)
			return m, cmd
		}
	}

	if m.inflight {
		return m, nil
	}
	return m.updateForm(msg)
}

func (m consoleModel) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	left := m.renderFormPane()
	right := m.results.View()

	if m.splitLayout() {
		leftCol := lipgloss.NewStyle().Width(consoleFormWidth).Render(left)
		divider := formatter.Dim("│")
		sections = append(sections, lipgloss.JoinHorizontal(lipgloss.Top, leftCol, " "+divider+" ", right))
	} else {
		sections = append(sections, left, "", right)
	}

	sections = append(sections, m.renderStatusBar())
	result := strings.Join(sections, "\n")

	// Pad to terminal height to prevent stale line artifacts from
	// bubbletea's line-diff renderer in alt-screen mode.
	if m.height > 0 {
		lines := strings.Count(result, "\n") + 1
		if lines < m.height {
			result += strings.Repeat("\n", m.height-lines)
		}
	}

	return result
}

// ── commands ─────────────────────────────────────────────────────────────────

// probeBackend checks once at startup whether the JamAI API answers.
func (m consoleModel) probeBackend() tea.Cmd {
	client := m.app.Client
	return func() tea.Msg {
		if client == nil {
			return healthMsg{healthy: false}
		}
		return healthMsg{healthy: client.Healthy(context.Background())}
	}
}

// submit runs the advisor call off the UI loop.
func (m consoleModel) submit(req advisor.Request) tea.Cmd {
	svc := m.app.Advisor
	return func() tea.Msg {
		resp, err := svc.Process(context.Background(), req)
		return adviceMsg{resp: resp, err: err}
	}
}

// copyDraft puts the current WhatsApp draft on the system clipboard.
func (m consoleModel) copyDraft() tea.Cmd {
	if m.resp == nil || m.resp.WhatsAppMessage == "" {
		return nil
	}
	draft := m.resp.WhatsAppMessage
	return func() tea.Msg {
		return copiedMsg{err: clipboard.WriteAll(draft)}
	}
}

// ── form handling ────────────────────────────────────────────────────────────

func (m consoleModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		req := m.fields.toRequest()
		m.inflight = true
		m.notice = ""
		// A completed huh form cannot be rearmed, so rebuild it around
		// the same values for the next edit.
		m.resetForm()
		return m, tea.Batch(cmd, m.form.Init(), m.submit(req))
	}

	return m, cmd
}

// resetForm rebuilds the intake form around the current field values.
func (m *consoleModel) resetForm() {
	m.form = newRequestForm(m.fields)
	m.layout()
}

// clearForm discards the entered values and starts an empty request.
func (m *consoleModel) clearForm() {
	m.fields = newRequestFields()
	m.resetForm()
}

// ── state transitions ────────────────────────────────────────────────────────

// applyAdvice folds an advisor reply into the model. Failed calls keep the
// previous recommendation on screen so the operator never loses their last
// usable draft.
func (m *consoleModel) applyAdvice(msg adviceMsg) {
	switch {
	case msg.err == nil:
		m.resp = msg.resp
		m.callErr = ""
		m.notice = formatter.Dim("Generated in " + formatter.FormatLatency(msg.resp.LatencyMs) + ".")
	default:
		var incomplete *advisor.IncompleteError
		if errors.As(msg.err, &incomplete) && msg.resp != nil {
			// Partial reply: show what came back alongside the error.
			m.resp = msg.resp
		}
		m.callErr = msg.err.Error()
		m.notice = ""
	}
	m.syncResults()
}

// syncResults re-renders the right pane into the viewport.
func (m *consoleModel) syncResults() {
	width := m.results.Width
	if width <= 0 {
		width = 80
	}
	content := lipgloss.NewStyle().Width(width).Render(m.resultContent())
	m.results.SetContent(content)
	m.results.GotoTop()
}

func (m consoleModel) resultContent() string {
	switch {
	case m.callErr != "" && m.resp != nil:
		return formatter.FormatError(m.callErr) + "\n\n" + formatter.FormatResponse(m.resp)
	case m.callErr != "":
		return formatter.FormatError(m.callErr)
	case m.resp != nil:
		return formatter.FormatResponse(m.resp)
	default:
		return formatter.FormatHint()
	}
}

// ── layout ───────────────────────────────────────────────────────────────────

// splitLayout reports whether the terminal is wide enough for two columns.
func (m consoleModel) splitLayout() bool {
	return m.width >= 80
}

// layout resizes the form and result panes to the current terminal size.
func (m *consoleModel) layout() {
	if m.width <= 0 {
		return
	}

	bodyHeight := m.height - consoleChromeHeight
	if bodyHeight < 5 {
		bodyHeight = 5
	}

	if m.splitLayout() {
		resultWidth := m.width - consoleFormWidth - 3
		if resultWidth < 20 {
			resultWidth = 20
		}
		m.form = m.form.WithWidth(consoleFormWidth)
		m.results.Width = resultWidth
		m.results.Height = bodyHeight
	} else {
		m.form = m.form.WithWidth(m.width)
		m.results.Width = m.width
		m.results.Height = 10
	}

	m.syncResults()
}

// ── rendering ────────────────────────────────────────────────────────────────

func (m consoleModel) renderHeader() string {
	title := formatter.StylePurple.Render("copilot")
	header := title + " " + formatter.Dim("›") + " " + formatter.Dim("parent request console") +
		"  " + m.backendBadge()

	sep := formatter.Dim(strings.Repeat("─", max(m.width, 20)))
	return header + "\n" + sep
}

// backendBadge shows the startup probe result next to the title.
func (m consoleModel) backendBadge() string {
	switch m.backend {
	case backendHealthy:
		return formatter.StyleGreen.Render("●") + " " + formatter.Dim("jamai")
	case backendUnreachable:
		return formatter.StyleRed.Render("●") + " " + formatter.Dim("jamai unreachable")
	default:
		return formatter.Dim("● jamai")
	}
}

func (m consoleModel) renderFormPane() string {
	var b strings.Builder
	b.WriteString(m.form.View())
	if m.inflight {
		b.WriteString("\n" + formatter.Dim("Contacting AI backend..."))
	}
	return b.String()
}

func (m consoleModel) renderStatusBar() string {
	var hints []string

	if m.inflight {
		hints = append(hints, formatter.Dim("waiting for the AI backend..."))
	} else {
		hints = append(hints, formatter.Dim("enter: next"))
		hints = append(hints, hintFor(m.keys.NewRequest))
		if m.resp != nil && m.resp.WhatsAppMessage != "" {
			hints = append(hints, hintFor(m.keys.Copy))
		}
		if m.results.TotalLineCount() > m.results.Height {
			hints = append(hints, hintFor(m.keys.PageUp))
		}
		hints = append(hints, hintFor(m.keys.Quit))
	}

	if m.notice != "" {
		hints = append(hints, m.notice)
	}

	sep := formatter.Dim(strings.Repeat("─", max(m.width, 20)))
	return sep + "\n" + strings.Join(hints, "  ")
}

func hintFor(b key.Binding) string {
	return formatter.Dim(b.Help().Key + ": " + b.Help().Desc)
}
