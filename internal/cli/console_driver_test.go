package cli

import (
	"context"
	"testing"

	"github.com/realfunhq/copilot/internal/advisor"
	"github.com/realfunhq/copilot/internal/jamai"
	"github.com/realfunhq/copilot/internal/teatest"
)

// fakeAdvisor returns canned results and records what it was asked.
type fakeAdvisor struct {
	lastReq *advisor.Request
	calls   int

	resp *advisor.Response
	err  error
}

func (f *fakeAdvisor) Process(ctx context.Context, req advisor.Request) (*advisor.Response, error) {
	f.calls++
	r := req
	f.lastReq = &r
	return f.resp, f.err
}

// fakeBackend satisfies jamai.Client for console tests. AddRow is never
// reached because the advisor itself is faked.
type fakeBackend struct {
	healthy bool
}

func (f *fakeBackend) AddRow(ctx context.Context, req jamai.AddRowRequest) (*jamai.AddRowResult, error) {
	return nil, jamai.ErrUnavailable
}

func (f *fakeBackend) Healthy(ctx context.Context) bool {
	return f.healthy
}

// consoleDriver wraps teatest.Driver with console-specific inspection.
type consoleDriver struct {
	*teatest.Driver
}

// newConsoleDriver starts a console around the given advisor on a terminal
// wide enough for the split layout.
func newConsoleDriver(t *testing.T, svc advisor.Service) *consoleDriver {
	t.Helper()

	app := &App{
		Advisor: svc,
		Client:  &fakeBackend{healthy: true},
	}
	d := teatest.New(t, newConsoleModel(app))
	d.Start(120, 40)
	return &consoleDriver{Driver: d}
}

func (d *consoleDriver) model() consoleModel {
	return d.Model.(consoleModel)
}

func (d *consoleDriver) isQuitting() bool {
	return d.Quitting || d.model().quitting
}

// fillStudentPage completes the first form page: name, default level,
// default mode, blank slot.
func (d *consoleDriver) fillStudentPage(name string) {
	d.T.Helper()
	d.Type(name)
	d.PressEnter() // student name
	d.PressEnter() // keep default level
	d.PressEnter() // keep default mode
	d.PressEnter() // skip current slot
}

// submitRequest drives the whole form through submission. Typing empty
// strings keeps whatever the fields already hold.
func (d *consoleDriver) submitRequest(name, request string) {
	d.T.Helper()
	d.fillStudentPage(name)
	d.Type(request)
	d.PressEnter() // parent request
	d.PressEnter() // skip notes, which submits the form
}
