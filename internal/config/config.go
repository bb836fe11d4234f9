package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/taskwm/internal/tiling"
	"github.com/1broseidon/taskwm/internal/wm"
)

// Environment variables understood by taskwm.
const (
	// EnvTaskWorkdirs overrides the task working-directory table:
	// "task_name:/path/to/dir,another:/other/dir".
	EnvTaskWorkdirs = "TASKWM_TASK_WORKDIRS"
	// EnvTaskName is exported into the environment of spawned processes.
	EnvTaskName = "TASKWM_TASK"
)

// Commands names the external programs taskwm spawns.
type Commands struct {
	Terminal string `yaml:"terminal"`
	Launcher string `yaml:"launcher"`
	Menu     string `yaml:"menu"`
}

// Master configures the master-area fraction of new workspaces.
type Master struct {
	Fraction float64 `yaml:"fraction"`
	Step     float64 `yaml:"step"`
}

// Border configures window border rendering.
type Border struct {
	Width        int    `yaml:"width"`
	Color        string `yaml:"color"`
	FocusedColor string `yaml:"focused_color"`
}

// Config is the effective taskwm configuration.
type Config struct {
	DefaultTask  string            `yaml:"default_task"`
	Master       Master            `yaml:"master"`
	Border       Border            `yaml:"border"`
	Commands     Commands          `yaml:"commands"`
	TaskWorkdirs map[string]string `yaml:"task_workdirs"`
	Bindings     map[string]string `yaml:"bindings"`
}

// Default returns the built-in configuration. File values are merged on top.
func Default() *Config {
	return &Config{
		DefaultTask: "default",
		Master: Master{
			Fraction: 0.6,
			Step:     0.05,
		},
		Border: Border{
			Width:        2,
			Color:        "#222222",
			FocusedColor: "#bbbbbb",
		},
		Commands: Commands{
			Terminal: "st",
			Launcher: "dmenu_run",
			Menu:     "dmenu",
		},
		TaskWorkdirs: map[string]string{
			"opt": "/opt",
			"tmp": "/tmp",
		},
		Bindings: map[string]string{
			"switch-workspace-1":  "Mod4-1",
			"switch-workspace-2":  "Mod4-2",
			"switch-workspace-3":  "Mod4-3",
			"switch-workspace-4":  "Mod4-4",
			"move-to-workspace-1": "Mod4-Shift-1",
			"move-to-workspace-2": "Mod4-Shift-2",
			"move-to-workspace-3": "Mod4-Shift-3",
			"move-to-workspace-4": "Mod4-Shift-4",
			"focus-next":          "Mod4-Left",
			"focus-prev":          "Mod4-Right",
			"grow-master":         "Mod4-Shift-Right",
			"shrink-master":       "Mod4-Shift-Left",
			"promote":             "Mod4-Tab",
			"spawn-terminal":      "Mod4-Return",
			"spawn-launcher":      "Mod4-d",
			"switch-task-menu":    "Mod4-space",
			"move-to-task-menu":   "Mod4-Shift-space",
			"quit":                "Mod4-Shift-F12",
		},
	}
}

// DefaultConfigPath returns ~/.config/taskwm/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "taskwm", "config.yaml"), nil
}

// Load reads the configuration from the standard location. A missing file
// yields the defaults; a malformed one is an error.
func Load() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath loads defaults, merges the YAML file at path when it exists,
// applies environment overrides and validates the result.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		// Unmarshalling into the defaults-seeded struct merges scalars and
		// adds/overrides map entries without dropping unmentioned ones.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	applyEnvWorkdirs(cfg, os.Getenv(EnvTaskWorkdirs))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the effective configuration.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.DefaultTask) == "" {
		return fmt.Errorf("default_task must not be empty")
	}
	if c.Master.Fraction < tiling.MasterFractionMin || c.Master.Fraction > tiling.MasterFractionMax {
		return fmt.Errorf("master.fraction %v outside [%v, %v]",
			c.Master.Fraction, tiling.MasterFractionMin, tiling.MasterFractionMax)
	}
	if c.Master.Step <= 0 || c.Master.Step >= 1 {
		return fmt.Errorf("master.step %v must be in (0, 1)", c.Master.Step)
	}
	if c.Border.Width < 0 {
		return fmt.Errorf("border.width must not be negative")
	}
	for _, field := range []struct{ name, value string }{
		{"commands.terminal", c.Commands.Terminal},
		{"commands.launcher", c.Commands.Launcher},
		{"commands.menu", c.Commands.Menu},
	} {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%s must not be empty", field.name)
		}
	}
	for action, chord := range c.Bindings {
		if _, err := wm.ParseAction(action); err != nil {
			return fmt.Errorf("bindings: %w", err)
		}
		if strings.TrimSpace(chord) == "" {
			return fmt.Errorf("bindings: empty key chord for %q", action)
		}
	}
	return nil
}

// applyEnvWorkdirs merges "name:/dir,other:/dir" from the environment over
// the configured table. A malformed entry is skipped, not fatal.
func applyEnvWorkdirs(cfg *Config, raw string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return
	}
	if cfg.TaskWorkdirs == nil {
		cfg.TaskWorkdirs = make(map[string]string)
	}
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, dir, ok := strings.Cut(entry, ":")
		name = strings.TrimSpace(name)
		dir = strings.TrimSpace(dir)
		if !ok || name == "" || dir == "" {
			continue
		}
		cfg.TaskWorkdirs[name] = dir
	}
}
