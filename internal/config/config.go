// Package config loads and resolves EverSession's YAML configuration,
// following the teacher's XDG-path resolution and load/default/diff shape.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultContextWindow is the fallback context window size (in tokens) used
// when no model-specific entry or "default" key is found in the config.
const DefaultContextWindow = 200000

type Config struct {
	Lock       LockConfig       `yaml:"lock"`
	Discovery  DiscoveryConfig  `yaml:"discovery"`
	Supervisor SupervisorConfig `yaml:"supervisor"`
	Backup     BackupConfig     `yaml:"backup"`
	Models     map[string]int   `yaml:"models"`
}

// LockConfig controls the per-session exclusive-create file lock (spec.md
// §4.1, §5): acquisition timeout and the exponential backoff between
// retries.
type LockConfig struct {
	TimeoutMs      int `yaml:"timeout_ms"`
	InitialDelayMs int `yaml:"initial_delay_ms"`
	MaxDelayMs     int `yaml:"max_delay_ms"`
}

// DiscoveryConfig controls session discovery (spec.md §4.7): Codex's
// date-partitioned lookback window, the tail sample size for --match, and
// overrides for the two dialects' base directories (tests and
// CODEX_HOME-style deployments need to point these elsewhere).
type DiscoveryConfig struct {
	CodexLookbackDays int    `yaml:"codex_lookback_days"`
	TailLines         int    `yaml:"tail_lines"`
	ClaudeProjectsDir string `yaml:"claude_projects_dir"`
	CodexSessionsDir  string `yaml:"codex_sessions_dir"`
}

// SupervisorConfig controls the reload supervisor (spec.md §4.8).
type SupervisorConfig struct {
	PollIntervalMs      int    `yaml:"poll_interval_ms"`
	RestartTimeoutMs    int    `yaml:"restart_timeout_ms"`
	ReloadMode          string `yaml:"reload_mode"` // manual | auto | off
	StabilityWindowMs   int    `yaml:"stability_window_ms"`
	StabilityTimeoutMs  int    `yaml:"stability_timeout_ms"`
	ControlDir          string `yaml:"control_dir"`
}

// BackupConfig controls the backup policy a write-through transform uses
// (spec.md §4.5.7/§6).
type BackupConfig struct {
	RetentionCount int `yaml:"retention_count"`
}

func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if cfg.Supervisor.ControlDir == "" {
		cfg.Supervisor.ControlDir = filepath.Join(defaultStateDir(), "eversession", "control")
	}

	return cfg, nil
}

// LoadOrDefault loads config from the given path, or returns default config if path doesn't exist
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return defaultConfig(), nil
	}
	return Load(path)
}

func defaultConfig() *Config {
	return &Config{
		Lock: LockConfig{
			TimeoutMs:      3000,
			InitialDelayMs: 20,
			MaxDelayMs:     500,
		},
		Discovery: DiscoveryConfig{
			CodexLookbackDays: 7,
			TailLines:         50,
		},
		Supervisor: SupervisorConfig{
			PollIntervalMs:     150,
			RestartTimeoutMs:   5000,
			ReloadMode:         "manual",
			StabilityWindowMs:  750,
			StabilityTimeoutMs: 5000,
			ControlDir:         filepath.Join(defaultStateDir(), "eversession", "control"),
		},
		Backup: BackupConfig{
			RetentionCount: 10,
		},
		Models: map[string]int{
			"default": DefaultContextWindow,
		},
	}
}

// MaxContextTokens resolves the context window size for a model.
// Resolution order: exact match → longest prefix match → "default" key → DefaultContextWindow.
// Config keys ending with "*" are treated as prefix patterns (e.g. "claude-*"
// matches "claude-opus-4-5-20251101"). The longest matching prefix wins.
func (c *Config) MaxContextTokens(model string) int {
	// 1. Exact match
	if n, ok := c.Models[model]; ok {
		return n
	}

	// 2. Longest prefix match (keys ending with *)
	bestLen := 0
	bestVal := 0
	for key, val := range c.Models {
		if !strings.HasSuffix(key, "*") {
			continue
		}
		prefix := strings.TrimSuffix(key, "*")
		if strings.HasPrefix(model, prefix) && len(prefix) > bestLen {
			bestLen = len(prefix)
			bestVal = val
		}
	}
	if bestLen > 0 {
		return bestVal
	}

	// 3. "default" key
	if n, ok := c.Models["default"]; ok {
		return n
	}
	return DefaultContextWindow
}

// LockTimeout and friends expose the config's millisecond fields as
// time.Duration for callers that want Go's duration arithmetic.
func (c *Config) LockTimeout() time.Duration {
	return time.Duration(c.Lock.TimeoutMs) * time.Millisecond
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Supervisor.PollIntervalMs) * time.Millisecond
}

func (c *Config) RestartTimeout() time.Duration {
	return time.Duration(c.Supervisor.RestartTimeoutMs) * time.Millisecond
}

func (c *Config) StabilityWindow() time.Duration {
	return time.Duration(c.Supervisor.StabilityWindowMs) * time.Millisecond
}

func (c *Config) StabilityTimeout() time.Duration {
	return time.Duration(c.Supervisor.StabilityTimeoutMs) * time.Millisecond
}

func defaultStateDir() string {
	if value := os.Getenv("XDG_STATE_HOME"); value != "" {
		return value
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "state")
}

// Diff compares two configs and returns human-readable descriptions of
// what changed. Grounded on the teacher's config.Diff(old, new) — same
// "two structures in, ordered list of change descriptions out" shape.
func Diff(old, new *Config) []string {
	var changes []string

	for k, v := range new.Models {
		if ov, ok := old.Models[k]; !ok {
			changes = append(changes, fmt.Sprintf("models: added %s=%d", k, v))
		} else if ov != v {
			changes = append(changes, fmt.Sprintf("models: %s changed %d → %d", k, ov, v))
		}
	}
	for k := range old.Models {
		if _, ok := new.Models[k]; !ok {
			changes = append(changes, fmt.Sprintf("models: removed %s", k))
		}
	}

	if old.Lock != new.Lock {
		changes = append(changes, fmt.Sprintf("lock: %+v → %+v", old.Lock, new.Lock))
	}
	if old.Discovery != new.Discovery {
		changes = append(changes, fmt.Sprintf("discovery: %+v → %+v", old.Discovery, new.Discovery))
	}
	if old.Supervisor.ReloadMode != new.Supervisor.ReloadMode {
		changes = append(changes, fmt.Sprintf("supervisor.reload_mode: %s → %s", old.Supervisor.ReloadMode, new.Supervisor.ReloadMode))
	}
	if old.Supervisor.PollIntervalMs != new.Supervisor.PollIntervalMs {
		changes = append(changes, fmt.Sprintf("supervisor.poll_interval_ms: %d → %d", old.Supervisor.PollIntervalMs, new.Supervisor.PollIntervalMs))
	}
	if old.Supervisor.RestartTimeoutMs != new.Supervisor.RestartTimeoutMs {
		changes = append(changes, fmt.Sprintf("supervisor.restart_timeout_ms: %d → %d", old.Supervisor.RestartTimeoutMs, new.Supervisor.RestartTimeoutMs))
	}
	if old.Backup.RetentionCount != new.Backup.RetentionCount {
		changes = append(changes, fmt.Sprintf("backup.retention_count: %d → %d", old.Backup.RetentionCount, new.Backup.RetentionCount))
	}

	return changes
}

func defaultConfigDir() string {
	if value := os.Getenv("XDG_CONFIG_HOME"); value != "" {
		return value
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// DefaultConfigPath returns the default XDG-compliant config file path
func DefaultConfigPath() string {
	return filepath.Join(defaultConfigDir(), "eversession", "config.yaml")
}
