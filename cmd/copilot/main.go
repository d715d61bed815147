package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/realfunhq/copilot/internal/advisor"
	"github.com/realfunhq/copilot/internal/cli"
	"github.com/realfunhq/copilot/internal/jamai"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Credentials usually live in a local .env during development.
	_ = godotenv.Load()

	cfg := jamai.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Call logging is opt-in: COPILOT_LOG_FILE captures one structured
	// entry per JamAI call, COPILOT_LOG_CALLS=1 prints them to stderr.
	var observer jamai.Observer = jamai.NoopObserver{}
	if logPath := os.Getenv("COPILOT_LOG_FILE"); logPath != "" {
		logger, err := buildLogger(logPath)
		if err != nil {
			return fmt.Errorf("opening call log: %w", err)
		}
		defer func() { _ = logger.Sync() }()
		observer = jamai.NewZapObserver(logger)
	} else if os.Getenv("COPILOT_LOG_CALLS") == "1" {
		observer = jamai.NewLogObserver(os.Stderr)
	}

	client := jamai.NewClient(cfg, observer)

	app := &cli.App{
		Advisor: advisor.NewService(client, cfg.ActionTableID),
		Client:  client,
	}
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	return cli.NewRootCmd(app).Execute()
}

// buildLogger builds a zap logger that appends JSON entries to path.
func buildLogger(path string) (*zap.Logger, error) {
	logCfg := zap.NewProductionConfig()
	logCfg.OutputPaths = []string{path}
	logCfg.ErrorOutputPaths = []string{path}
	return logCfg.Build()
}
