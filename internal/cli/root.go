package cli

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/realfunhq/copilot/internal/advisor"
	"github.com/realfunhq/copilot/internal/jamai"
)

// App holds references to the services the console runs on.
type App struct {
	Advisor advisor.Service
	Client  jamai.Client

	// IsInteractive reports whether stdin is attached to a terminal.
	// The console refuses to start without one.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "copilot" command. The console is the
// whole surface, so there are no subcommands.
func NewRootCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "copilot",
		Short: "Draft WhatsApp replies for parent schedule requests",
		Long: "Copilot turns a pasted parent request into a structured\n" +
			"recommendation and a ready-to-send WhatsApp reply, generated\n" +
			"by a JamAI Base action table.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.IsInteractive != nil && !app.IsInteractive() {
				return errors.New("copilot requires an interactive terminal")
			}
			program := tea.NewProgram(newConsoleModel(app), tea.WithAltScreen())
			_, err := program.Run()
			return err
		},
	}
}
