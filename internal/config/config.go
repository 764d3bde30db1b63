package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/vselect/internal/clipboard"
	"github.com/dshills/vselect/internal/logging"
)

// Environment variables that override file settings.
const (
	EnvLogLevel  = "VSELECT_LOG_LEVEL"
	EnvKeymap    = "VSELECT_KEYMAP"
	EnvClipboard = "VSELECT_CLIPBOARD"
)

// Config holds all vselect settings.
type Config struct {
	Log       LogConfig       `toml:"log"`
	Keymap    KeymapConfig    `toml:"keymap"`
	Clipboard ClipboardConfig `toml:"clipboard"`
	Lua       LuaConfig       `toml:"lua"`
}

// LogConfig configures the logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`
	// File receives log output. Empty means stderr.
	File string `toml:"file"`
}

// KeymapConfig locates a user keymap that is merged over the defaults.
type KeymapConfig struct {
	Path string `toml:"path"`
}

// ClipboardConfig selects the clipboard backend.
type ClipboardConfig struct {
	// Provider is one of auto, system, osc52, internal.
	Provider string `toml:"provider"`
	// UnnamedPlus mirrors yanks into the '+' register.
	UnnamedPlus bool `toml:"unnamedplus"`
}

// LuaConfig lists user motions written in Lua.
type LuaConfig struct {
	// Motions maps a motion name to its script path. Each motion is
	// registered as the command "lua.<name>".
	Motions map[string]string `toml:"motions"`
}

// LookupFunc reports the value of an environment variable.
type LookupFunc func(key string) (string, bool)

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level: "info",
		},
		Clipboard: ClipboardConfig{
			Provider: string(clipboard.ProviderAuto),
		},
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "vselect", "config.toml")
}

// Load reads path over the defaults, applies environment overrides from
// the process environment and validates the result.
// A missing file is not an error; the defaults are used instead.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			cfg, err = Parse(path, data)
			if err != nil {
				return nil, err
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	cfg.ApplyEnv(os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes TOML data over the defaults. Unknown keys are rejected.
// source names the data in error messages.
func Parse(source string, data []byte) (*Config, error) {
	cfg := Default()

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}

		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			perr.Message = "unknown keys: " + strings.Join(strictKeys(serr), ", ")
		}
		return nil, perr
	}

	return cfg, nil
}

// strictKeys lists the offending keys of a strict decode failure.
func strictKeys(err *toml.StrictMissingError) []string {
	keys := make([]string, 0, len(err.Errors))
	for _, e := range err.Errors {
		keys = append(keys, strings.Join(e.Key(), "."))
	}
	sort.Strings(keys)
	return keys
}

// ApplyEnv overrides settings from environment variables.
// Empty values are ignored.
func (c *Config) ApplyEnv(lookup LookupFunc) {
	if lookup == nil {
		return
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvKeymap); ok && v != "" {
		c.Keymap.Path = v
	}
	if v, ok := lookup(EnvClipboard); ok && v != "" {
		c.Clipboard.Provider = v
	}
}

// Validate checks enumerated settings.
// Failures are *ValidationError values wrapping ErrInvalidValue.
func (c *Config) Validate() error {
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return &ValidationError{Path: "log.level", Value: c.Log.Level, Err: ErrInvalidValue}
	}
	if !clipboard.Provider(c.Clipboard.Provider).Valid() {
		return &ValidationError{Path: "clipboard.provider", Value: c.Clipboard.Provider, Err: ErrInvalidValue}
	}
	for name, path := range c.Lua.Motions {
		if name == "" || strings.ContainsAny(name, " \t.") {
			return &ValidationError{Path: "lua.motions", Value: strconv.Quote(name), Err: ErrInvalidValue}
		}
		if path == "" {
			return &ValidationError{Path: "lua.motions." + name, Value: path, Err: ErrInvalidValue}
		}
	}
	return nil
}

// LogLevel returns the parsed log level, falling back to info.
func (c *Config) LogLevel() logging.Level {
	level, _ := logging.ParseLevel(c.Log.Level)
	return level
}

// LuaMotionNames returns the configured Lua motion names, sorted.
func (c *Config) LuaMotionNames() []string {
	names := make([]string, 0, len(c.Lua.Motions))
	for name := range c.Lua.Motions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExpandPath replaces a leading "~" with the user's home directory.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
