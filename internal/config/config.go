package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/lo"

	"github.com/hpungsan/urlcopy/internal/logging"
	"github.com/hpungsan/urlcopy/internal/shortcut"
)

// DirName is the name of both the global (~/.urlcopy) and repo (.urlcopy) config directories.
const DirName = ".urlcopy"

// Config holds application configuration.
type Config struct {
	// Bind is the address the daemon listens on.
	Bind string `json:"bind,omitempty"`

	// Port is the daemon's HTTP port.
	Port int `json:"port,omitempty"`

	// Commands is the keyboard command catalog audited by the shortcut checker.
	// A non-empty overlay replaces the base catalog wholesale.
	Commands []shortcut.Command `json:"commands,omitempty"`

	// OpenOptionsOnConflict opens the options page on install when a shortcut is missing.
	OpenOptionsOnConflict *bool `json:"open_options_on_conflict,omitempty"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`

	Logging logging.Config `json:"logging"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	open := true
	return &Config{
		Bind:                  "127.0.0.1",
		Port:                  7878,
		Commands:              shortcut.DefaultCommands(),
		OpenOptionsOnConflict: &open,
	}
}

// Addr returns the host:port the daemon listens on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}

// ShouldOpenOptions reports whether install may open the options page.
func (c *Config) ShouldOpenOptions() bool {
	return c.OpenOptionsOnConflict == nil || *c.OpenOptionsOnConflict
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
func Load(baseDir string) (*Config, error) {
	return loadFile(filepath.Join(baseDir, "config.json"))
}

// LoadWithRepo loads configuration from both the global dir and the nearest
// repo-level .urlcopy/config.json found by walking upward from startDir.
// Repo config takes precedence for scalar values; arrays are merged (deduplicated).
// Either or both configs may be missing.
func LoadWithRepo(globalDir, startDir string) (*Config, error) {
	global, err := loadFileRaw(filepath.Join(globalDir, "config.json"))
	if err != nil {
		return nil, err
	}

	repo, err := loadFileRaw(FindRepoConfig(startDir))
	if err != nil {
		return nil, err
	}

	cfg := Merge(Merge(DefaultConfig(), global), repo)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// FindRepoConfig walks upward from startDir to find the nearest .urlcopy/config.json.
// Returns the path if found, or empty string if not found.
func FindRepoConfig(startDir string) string {
	dir := startDir
	for {
		configPath := filepath.Join(dir, DirName, "config.json")
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// loadFileRaw returns a zero-valued config (not defaults) if the file doesn't exist.
func loadFileRaw(configPath string) (*Config, error) {
	if configPath == "" {
		return &Config{}, nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", configPath, err)
	}
	return cfg, nil
}

func loadFile(configPath string) (*Config, error) {
	cfg, err := loadFileRaw(configPath)
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.Bind = strings.TrimSpace(overlay.Bind)
	if result.Bind == "" {
		result.Bind = base.Bind
	}

	result.Port = overlay.Port
	if result.Port == 0 {
		result.Port = base.Port
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.OpenOptionsOnConflict = base.OpenOptionsOnConflict
	if overlay.OpenOptionsOnConflict != nil {
		result.OpenOptionsOnConflict = overlay.OpenOptionsOnConflict
	}

	result.Commands = base.Commands
	if len(overlay.Commands) > 0 {
		result.Commands = overlay.Commands
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)
	result.Logging = logging.Merge(base.Logging, overlay.Logging)

	return result
}

// mergeStringSlice concatenates a and b, dropping blanks and repeats.
func mergeStringSlice(a, b []string) []string {
	trimmed := lo.FilterMap(append(append([]string{}, a...), b...), func(s string, _ int) (string, bool) {
		s = strings.TrimSpace(s)
		return s, s != ""
	})
	if len(trimmed) == 0 {
		return nil
	}
	return lo.Uniq(trimmed)
}

// Validate rejects configs the daemon cannot start with.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	for i, cmd := range c.Commands {
		if strings.TrimSpace(cmd.Name) == "" {
			return fmt.Errorf("commands[%d]: name is required", i)
		}
	}
	return c.Logging.Validate()
}
