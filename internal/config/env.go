package config

import (
	"os"
	"path/filepath"
)

// EnvConfig holds the EVERSESSION_-prefixed environment overrides, read
// once at startup into an immutable value rather than scattering
// os.Getenv calls through the call stack (avoids hidden global state —
// see the supervisor design note on global-state avoidance).
type EnvConfig struct {
	ControlDir string // EVERSESSION_CONTROL_DIR
	RunID      string // EVERSESSION_RUN_ID
	ReloadMode string // EVERSESSION_RELOAD_MODE
	ClaudeHome string // EVERSESSION_CLAUDE_HOME
	CodexHome  string // EVERSESSION_CODEX_HOME
	AgentBin   string // EVERSESSION_AGENT_BIN
	PinsPath   string // EVERSESSION_PINS_PATH
}

// LoadEnvConfig reads the stable EVERSESSION_ environment variable
// family, grounded on the teacher's CODEX_HOME-override idiom in
// codex_source.go's codexHomeDir(), generalized to a project-wide
// prefix.
func LoadEnvConfig() EnvConfig {
	return EnvConfig{
		ControlDir: os.Getenv("EVERSESSION_CONTROL_DIR"),
		RunID:      os.Getenv("EVERSESSION_RUN_ID"),
		ReloadMode: os.Getenv("EVERSESSION_RELOAD_MODE"),
		ClaudeHome: os.Getenv("EVERSESSION_CLAUDE_HOME"),
		CodexHome:  os.Getenv("EVERSESSION_CODEX_HOME"),
		AgentBin:   os.Getenv("EVERSESSION_AGENT_BIN"),
		PinsPath:   os.Getenv("EVERSESSION_PINS_PATH"),
	}
}

// ApplyEnv overlays non-empty EnvConfig fields onto c, following the same
// "env overrides file" precedence the teacher's config loader uses for
// XDG_CONFIG_HOME/XDG_STATE_HOME. Home-directory overrides are expanded
// to the dialect-specific subdirectory Discovery actually scans.
func (c *Config) ApplyEnv(env EnvConfig) {
	if env.ControlDir != "" {
		c.Supervisor.ControlDir = env.ControlDir
	}
	if env.ReloadMode != "" {
		c.Supervisor.ReloadMode = env.ReloadMode
	}
	if env.ClaudeHome != "" {
		c.Discovery.ClaudeProjectsDir = filepath.Join(env.ClaudeHome, "projects")
	}
	if env.CodexHome != "" {
		c.Discovery.CodexSessionsDir = filepath.Join(env.CodexHome, "sessions")
	}
}
