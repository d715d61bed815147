// Package teatest runs bubbletea models synchronously in tests.
//
// Instead of starting a tea.Program (goroutines, a real terminal, timing),
// the Driver feeds messages straight into Update and executes the returned
// commands inline until none are left. Tests stay deterministic and can
// inspect the model between key presses.
//
// Commands that block on timers, such as cursor blinks, are given a short
// deadline and dropped when they do not answer in time.
package teatest

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// maxDrainSteps bounds one drain pass so a message loop cannot hang a test.
const maxDrainSteps = 100

// cmdDeadline separates real commands, which answer in microseconds, from
// blocking ones like cursor blinks, which wait on a ~530ms timer.
const cmdDeadline = 10 * time.Millisecond

// Driver is a synchronous harness around a tea.Model.
type Driver struct {
	T     *testing.T
	Model tea.Model

	// Quitting is set when a tea.QuitMsg is seen while draining. The real
	// bubbletea runtime intercepts that message before the model, so the
	// driver records it itself.
	Quitting bool
}

// New wraps model in a Driver. Call Start to size the terminal and run the
// model's Init command.
func New(t *testing.T, model tea.Model) *Driver {
	t.Helper()
	return &Driver{T: t, Model: model}
}

// Start sends the initial window size and drains the Init command.
func (d *Driver) Start(width, height int) {
	d.T.Helper()
	d.Send(tea.WindowSizeMsg{Width: width, Height: height})
	d.drain(d.Model.Init())
}

// Resize sends a new window size.
func (d *Driver) Resize(width, height int) {
	d.T.Helper()
	d.Send(tea.WindowSizeMsg{Width: width, Height: height})
}

// Send dispatches one message through Update and drains everything the
// model asks for in response.
func (d *Driver) Send(msg tea.Msg) {
	d.T.Helper()
	if d.Quitting {
		return
	}
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.drain(cmd)
}

// Type sends a string rune by rune as key presses.
func (d *Driver) Type(s string) {
	d.T.Helper()
	for _, r := range s {
		d.Send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// PressEnter sends the Enter key.
func (d *Driver) PressEnter() {
	d.T.Helper()
	d.Press(tea.KeyEnter)
}

// Press sends a non-rune key such as tea.KeyEsc or tea.KeyCtrlN.
func (d *Driver) Press(k tea.KeyType) {
	d.T.Helper()
	d.Send(tea.KeyMsg{Type: k})
}

// View renders the model.
func (d *Driver) View() string {
	return d.Model.View()
}

// drain executes cmd and every command it transitively produces, feeding
// the resulting messages back into the model. Batches are expanded onto a
// queue and processed in order.
func (d *Driver) drain(cmd tea.Cmd) {
	d.T.Helper()

	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps >= maxDrainSteps {
			d.T.Logf("teatest: drain stopped after %d steps", maxDrainSteps)
			return
		}

		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}

		msg := runWithDeadline(next)
		if msg == nil || isCursorBlink(msg) {
			continue
		}

		if batch, ok := msg.(tea.BatchMsg); ok {
			queue = append(queue, batch...)
			continue
		}

		if _, ok := msg.(tea.QuitMsg); ok {
			d.Quitting = true
			d.Model, _ = d.Model.Update(msg)
			continue
		}

		var follow tea.Cmd
		d.Model, follow = d.Model.Update(msg)
		if follow != nil {
			queue = append(queue, follow)
		}
	}
}

// runWithDeadline executes a command in a goroutine and gives up after
// cmdDeadline, returning nil for commands that block on timers.
func runWithDeadline(cmd tea.Cmd) tea.Msg {
	ch := make(chan tea.Msg, 1)
	go func() {
		ch <- cmd()
	}()
	select {
	case msg := <-ch:
		return msg
	case <-time.After(cmdDeadline):
		return nil
	}
}

// isCursorBlink reports whether msg is one of the unexported blink messages
// from bubbles/cursor, which would chain into more blocking timer commands.
func isCursorBlink(msg tea.Msg) bool {
	name := fmt.Sprintf("%T", msg)
	return strings.Contains(name, "Blink") || strings.Contains(name, "blink")
}
