package jamai

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// DefaultAPIBase is the hosted JamAI Base endpoint used when
// JAMAI_API_BASE is not set.
const DefaultAPIBase = "https://api.jamaibase.com"

// Config holds everything needed to call a project's Action Table.
type Config struct {
	APIBase       string
	ProjectID     string
	PAT           string
	ActionTableID string
	TimeoutMs     int
}

// DefaultConfig returns a Config with defaults applied. Credentials and
// the table ID have no defaults and must come from the environment.
func DefaultConfig() Config {
	return Config{
		APIBase:   DefaultAPIBase,
		TimeoutMs: 60000,
	}
}

// LoadConfig reads configuration from environment variables, falling back
// to defaults for any unset optional values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("JAMAI_API_BASE"); v != "" {
		cfg.APIBase = strings.TrimRight(v, "/")
	}
	cfg.ProjectID = os.Getenv("JAMAI_PROJECT_ID")
	cfg.PAT = os.Getenv("JAMAI_PAT")
	cfg.ActionTableID = os.Getenv("JAMAI_ACTION_TABLE_ID")

	if v := os.Getenv("COPILOT_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeoutMs = n
		}
	}

	return cfg
}

// Validate reports the first missing required setting by its environment
// variable name.
func (c Config) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"JAMAI_PROJECT_ID", c.ProjectID},
		{"JAMAI_PAT", c.PAT},
		{"JAMAI_ACTION_TABLE_ID", c.ActionTableID},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("required env var %s is not set", r.name)
		}
	}
	return nil
}
