// Package config handles configuration loading and defaults.
//
// Sources, lowest to highest priority:
//  1. Defaults
//  2. User config file (<user config dir>/tada/config.toml)
//  3. Project config file (./tada.toml), or the file named by --config/TADA_CONFIG
//  4. Environment variables (TADA_*)
//  5. CLI flags
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/pflag"
)

// Default values.
const (
	DefaultBackend   = "file"
	DefaultDataDir   = "."
	DefaultTheme     = "classic"
	DefaultColor     = "auto"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "text"

	ProjectConfigFile = "tada.toml"
	envPrefix         = "TADA_"
)

// Config holds the full configuration for tada.
type Config struct {
	// Storage
	Backend string `toml:"backend"`  // file, sqlite, mysql, memory
	DataDir string `toml:"data_dir"` // file and sqlite backends
	DSN     string `toml:"dsn"`      // mysql backend

	// Presentation
	Theme string `toml:"theme"`
	Color string `toml:"color"` // auto, always, never

	// Logging
	LogLevel  string `toml:"log_level"`
	LogFormat string `toml:"log_format"` // text, json, logfmt
	LogFile   string `toml:"log_file"`

	// File the config was read from (computed)
	Source string `toml:"-"`
}

func setDefaults(cfg *Config) {
	cfg.Backend = DefaultBackend
	cfg.DataDir = DefaultDataDir
	cfg.Theme = DefaultTheme
	cfg.Color = DefaultColor
	cfg.LogLevel = DefaultLogLevel
	cfg.LogFormat = DefaultLogFormat
}

// Default returns a Config with only defaults applied.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// Flag names shared by RegisterFlags and Load.
const (
	FlagConfig    = "config"
	FlagBackend   = "backend"
	FlagDataDir   = "data-dir"
	FlagDSN       = "dsn"
	FlagTheme     = "theme"
	FlagColor     = "color"
	FlagLogLevel  = "log-level"
	FlagLogFormat = "log-format"
	FlagLogFile   = "log-file"
)

// RegisterFlags adds the config flags to fs. Defaults are left empty so
// Load can tell a flag that was set from one that was not.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String(FlagConfig, "", "config file (default ./tada.toml, then user config dir)")
	fs.String(FlagBackend, "", "storage backend: file|sqlite|mysql|memory (default file)")
	fs.String(FlagDataDir, "", "directory for the file and sqlite backends (default .)")
	fs.String(FlagDSN, "", "MySQL DSN for the mysql backend")
	fs.String(FlagTheme, "", "theme: classic|neon|mono")
	fs.String(FlagColor, "", "color output: auto|always|never")
	fs.String(FlagLogLevel, "", "log level: debug|info|warn|error")
	fs.String(FlagLogFormat, "", "log format: text|json|logfmt")
	fs.String(FlagLogFile, "", "append logs to this file")
}

// Load resolves the configuration. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	cfg := Default()

	explicit := os.Getenv(envPrefix + "CONFIG")
	if fs != nil && fs.Changed(FlagConfig) {
		explicit, _ = fs.GetString(FlagConfig)
	}

	if explicit != "" {
		if err := loadFile(cfg, expandPath(explicit)); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", explicit, err)
		}
	} else {
		if p := userConfigFile(); p != "" {
			if err := loadFileIfExists(cfg, p); err != nil {
				return nil, fmt.Errorf("loading user config file %s: %w", p, err)
			}
		}
		if err := loadFileIfExists(cfg, ProjectConfigFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", ProjectConfigFile, err)
		}
	}

	loadFromEnv(cfg)

	if fs != nil {
		loadFromFlags(cfg, fs)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func userConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "tada", "config.toml")
}

func loadFileIfExists(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return loadFile(cfg, path)
}

func loadFile(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	cfg.Source = path
	return nil
}

// loadFromEnv overrides config from environment variables.
func loadFromEnv(cfg *Config) {
	for _, f := range fields(cfg) {
		if v := os.Getenv(envPrefix + f.env); v != "" {
			*f.dst = v
		}
	}
}

func loadFromFlags(cfg *Config, fs *pflag.FlagSet) {
	for _, f := range fields(cfg) {
		if !fs.Changed(f.flag) {
			continue
		}
		if v, err := fs.GetString(f.flag); err == nil {
			*f.dst = v
		}
	}
}

type field struct {
	env, flag string
	dst       *string
}

func fields(cfg *Config) []field {
	return []field{
		{"BACKEND", FlagBackend, &cfg.Backend},
		{"DATA_DIR", FlagDataDir, &cfg.DataDir},
		{"DSN", FlagDSN, &cfg.DSN},
		{"THEME", FlagTheme, &cfg.Theme},
		{"COLOR", FlagColor, &cfg.Color},
		{"LOG_LEVEL", FlagLogLevel, &cfg.LogLevel},
		{"LOG_FORMAT", FlagLogFormat, &cfg.LogFormat},
		{"LOG_FILE", FlagLogFile, &cfg.LogFile},
	}
}

func (c *Config) finalize() error {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
	switch c.Backend {
	case "file", "sqlite", "mysql", "memory":
	default:
		return fmt.Errorf("invalid backend %q (want file|sqlite|mysql|memory)", c.Backend)
	}
	if c.Backend == "mysql" && strings.TrimSpace(c.DSN) == "" {
		return errors.New("backend mysql requires a dsn")
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	c.DataDir = expandPath(c.DataDir)
	c.LogFile = expandPath(c.LogFile)
	return nil
}

// Redacted returns a copy safe to print: the DSN password is masked.
func (c *Config) Redacted() *Config {
	cp := *c
	cp.DSN = redactDSN(c.DSN)
	return &cp
}

func redactDSN(dsn string) string {
	at := strings.LastIndex(dsn, "@")
	if at < 0 {
		return dsn
	}
	user, _, hasPass := strings.Cut(dsn[:at], ":")
	if !hasPass {
		return dsn
	}
	return user + ":****" + dsn[at:]
}

// Write encodes the config as TOML.
func (c *Config) Write(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// expandPath expands a leading ~ and environment variables.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	expanded := os.ExpandEnv(p)
	if expanded == "~" || strings.HasPrefix(expanded, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return expanded
		}
		return filepath.Join(home, strings.TrimPrefix(expanded, "~"))
	}
	return expanded
}
