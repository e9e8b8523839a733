// Package config resolves hb configuration from JSONC files and flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tailscale/hujson"
	"go.uber.org/zap/zapcore"

	"github.com/calvinalkan/homebase/internal/household"
	"github.com/calvinalkan/homebase/internal/kv"
	"github.com/calvinalkan/homebase/internal/theme"
)

var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrDataDirEmpty       = errors.New("data-dir cannot be empty")
	ErrBackendInvalid     = errors.New("backend must be file or sqlite")
	ErrThemeInvalid       = errors.New("theme_default must be time, light or dark")
	ErrLogLevelInvalid    = errors.New("invalid log_level")
)

// Config holds all configuration options.
type Config struct {
	// From config files (serialized)
	DataDir         string   `json:"data_dir"`
	Backend         string   `json:"backend,omitempty"`
	Members         []string `json:"members,omitempty"`
	ThemeDefault    string   `json:"theme_default,omitempty"`
	DisabledModules []string `json:"disabled_modules,omitempty"`
	LogLevel        string   `json:"log_level,omitempty"`

	// Resolved (computed, not serialized)
	EffectiveCwd string `json:"-"` // Absolute working directory (from -C flag or os.Getwd)
	DataDirAbs   string `json:"-"` // Absolute path to the data directory

	// Sources tracks which config files were loaded (for diagnostics)
	Sources Sources `json:"-"`
}

// Sources tracks which config files were loaded.
type Sources struct {
	Global  string // Path to global config if loaded, empty otherwise
	Project string // Path to project config if loaded, empty otherwise
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		DataDir:      ".homebase",
		Backend:      string(kv.DriverFile),
		Members:      []string{household.DefaultMembers[0], household.DefaultMembers[1]},
		ThemeDefault: theme.PolicyTime,
		LogLevel:     "warn",
	}
}

// FileName is the project config file name.
const FileName = ".hb.json"

// HouseholdMembers returns the configured member pair, trimmed.
func (c Config) HouseholdMembers() household.Members {
	var m household.Members

	copy(m[:], c.Members)

	return m.Trimmed()
}

// Level returns the parsed log level.
func (c Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.WarnLevel
	}

	return lvl
}

// LogLevels lists the accepted log_level values.
func LogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// globalPath returns $XDG_CONFIG_HOME/hb/config.json, falling back to
// ~/.config/hb/config.json. Empty when neither variable is set.
func globalPath(env map[string]string) string {
	if xdgConfig := env["XDG_CONFIG_HOME"]; xdgConfig != "" {
		return filepath.Join(xdgConfig, "hb", "config.json")
	}

	if home := env["HOME"]; home != "" {
		return filepath.Join(home, ".config", "hb", "config.json")
	}

	return ""
}

// Input holds the inputs for Load.
type Input struct {
	WorkDirOverride string            // -C/--cwd flag value; if empty, os.Getwd() is used
	ConfigPath      string            // -c/--config flag value
	DataDir         *string           // --data-dir flag value; nil means not given
	Backend         string            // --backend flag value
	Verbose         bool              // -v/--verbose forces debug logging
	Env             map[string]string // environment variables
}

// Load resolves configuration with the following precedence (highest wins):
// 1. Defaults
// 2. Global user config (~/.config/hb/config.json or $XDG_CONFIG_HOME/hb/config.json)
// 3. Project config file (.hb.json, if exists)
// 4. Explicit config file via ConfigPath (if non-empty)
// 5. Flags.
func Load(input Input) (Config, error) {
	workDir := input.WorkDirOverride
	if workDir == "" {
		var err error

		workDir, err = os.Getwd()
		if err != nil {
			return Config{}, fmt.Errorf("cannot get working directory: %w", err)
		}
	}

	if !filepath.IsAbs(workDir) {
		abs, err := filepath.Abs(workDir)
		if err != nil {
			return Config{}, fmt.Errorf("resolve working directory: %w", err)
		}

		workDir = abs
	}

	cfg := Default()

	if path := globalPath(input.Env); path != "" {
		global, loaded, err := loadFile(path, false)
		if err != nil {
			return Config{}, err
		}

		if loaded {
			cfg.Sources.Global = path
			cfg = merge(cfg, global)
		}
	}

	project, projectPath, err := loadProject(workDir, input.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	cfg.Sources.Project = projectPath
	cfg = merge(cfg, project)

	if input.DataDir != nil {
		if *input.DataDir == "" {
			return Config{}, ErrDataDirEmpty
		}

		cfg.DataDir = *input.DataDir
	}

	if input.Backend != "" {
		cfg.Backend = input.Backend
	}

	if input.Verbose {
		cfg.LogLevel = "debug"
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	cfg.EffectiveCwd = workDir

	if filepath.IsAbs(cfg.DataDir) {
		cfg.DataDirAbs = cfg.DataDir
	} else {
		cfg.DataDirAbs = filepath.Join(workDir, cfg.DataDir)
	}

	return cfg, nil
}

// loadProject loads the explicit config file, or .hb.json in workDir if
// none was given. Returns the path when a file was loaded.
func loadProject(workDir, configPath string) (Config, string, error) {
	if configPath == "" {
		path := filepath.Join(workDir, FileName)

		cfg, loaded, err := loadFile(path, false)
		if err != nil || !loaded {
			return Config{}, "", err
		}

		return cfg, path, nil
	}

	path := configPath
	if !filepath.IsAbs(path) {
		path = filepath.Join(workDir, path)
	}

	if _, err := os.Stat(path); err != nil {
		return Config{}, "", fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
	}

	cfg, _, err := loadFile(path, true)
	if err != nil {
		return Config{}, "", err
	}

	return cfg, path, nil
}

// loadFile reads and parses a config file. A missing optional file is not
// an error and reports loaded=false.
func loadFile(path string, mustExist bool) (Config, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !mustExist {
			return Config{}, false, nil
		}

		return Config{}, false, fmt.Errorf("%w: %s", ErrConfigFileRead, path)
	}

	cfg, err := Parse(data)
	if err != nil {
		return Config{}, false, fmt.Errorf("%w %s: %w", ErrConfigInvalid, path, err)
	}

	return cfg, true, nil
}

// Parse decodes a JSONC config document. Unknown fields are rejected.
func Parse(data []byte) (Config, error) {
	standardized, err := hujson.Standardize(data)
	if err != nil {
		return Config{}, fmt.Errorf("invalid JSONC: %w", err)
	}

	dec := json.NewDecoder(strings.NewReader(string(standardized)))
	dec.DisallowUnknownFields()

	var cfg Config

	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid JSON: %w", err)
	}

	return cfg, nil
}

// merge overlays the non-empty fields of overlay onto base.
func merge(base, overlay Config) Config {
	if overlay.DataDir != "" {
		base.DataDir = overlay.DataDir
	}

	if overlay.Backend != "" {
		base.Backend = overlay.Backend
	}

	if overlay.Members != nil {
		base.Members = make([]string, len(overlay.Members))
		for i, name := range overlay.Members {
			base.Members[i] = strings.TrimSpace(name)
		}
	}

	if overlay.ThemeDefault != "" {
		base.ThemeDefault = overlay.ThemeDefault
	}

	if overlay.DisabledModules != nil {
		base.DisabledModules = overlay.DisabledModules
	}

	if overlay.LogLevel != "" {
		base.LogLevel = overlay.LogLevel
	}

	return base
}

// Validate checks a resolved config.
func Validate(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrDataDirEmpty
	}

	if cfg.Backend != string(kv.DriverFile) && cfg.Backend != string(kv.DriverSQLite) {
		return fmt.Errorf("%w: %q", ErrBackendInvalid, cfg.Backend)
	}

	if len(cfg.Members) != len(household.Members{}) {
		return fmt.Errorf("%w: got %d", household.ErrMembers, len(cfg.Members))
	}

	if err := cfg.HouseholdMembers().Validate(); err != nil {
		return err
	}

	if !theme.IsValidPolicy(cfg.ThemeDefault) {
		return fmt.Errorf("%w: %q", ErrThemeInvalid, cfg.ThemeDefault)
	}

	for _, name := range cfg.DisabledModules {
		if !household.IsModule(name) {
			return fmt.Errorf("%w: %s (known: %s)", household.ErrUnknownModule, name, strings.Join(household.Modules(), ", "))
		}
	}

	if !slices.Contains(LogLevels(), strings.ToLower(cfg.LogLevel)) {
		return fmt.Errorf("%w: %q (known: %s)", ErrLogLevelInvalid, cfg.LogLevel, strings.Join(LogLevels(), ", "))
	}

	return nil
}
