// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Package config loads settings for vsent sessions and tools.
//
// Settings may be written as JWCC (JSON with comments and trailing commas),
// TOML, or YAML; the format is chosen by the file extension:
//
//	Extension                | Format
//	------------------------ | ------------------------------
//	.json, .jwcc, .hujson    | JWCC, via github.com/tailscale/hujson
//	.toml                    | TOML, via github.com/pelletier/go-toml/v2
//	.yaml, .yml              | YAML, via gopkg.in/yaml.v3
//
// A JWCC example:
//
//	{
//	  "session": {"timeout": "30s", "max_steps": 100},
//	  "log": {"level": "debug", "format": "json"},  // trailing commas are OK
//	}
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/creachadair/vsent"
	"github.com/pelletier/go-toml/v2"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// Config is the complete set of settings.
type Config struct {
	Session Session `json:"session" toml:"session" yaml:"session"`
	Log     Log     `json:"log" toml:"log" yaml:"log"`
}

// Session holds settings for a vsent.Session.
type Session struct {
	// Timeout bounds each call to the evaluator. Zero means no bound.
	Timeout Duration `json:"timeout" toml:"timeout" yaml:"timeout"`

	// MaxSteps caps the number of sentences one step request may check.
	// Zero means no cap.
	MaxSteps int `json:"max_steps" toml:"max_steps" yaml:"max_steps"`
}

// Log holds settings for diagnostic logging.
type Log struct {
	Level  string `json:"level" toml:"level" yaml:"level"`    // debug, info, warn, error
	Format string `json:"format" toml:"format" yaml:"format"` // text or json
}

// Default returns the default settings.
func Default() *Config {
	return &Config{Log: Log{Level: "info", Format: "text"}}
}

// A Duration is a time.Duration that is written as a string such as "1m30s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(time.Duration(d).String()), nil }

// ParseError is the concrete type of errors reported for malformed settings.
type ParseError struct {
	Path    string // the file being parsed, or "<input>"
	Message string
	Err     error
}

func (e *ParseError) Error() string { return fmt.Sprintf("%s: %s", e.Path, e.Message) }

// Unwrap supports error wrapping.
func (e *ParseError) Unwrap() error { return e.Err }

// Load reads settings from the file at path, applied over the defaults. If
// the file does not exist, Load returns the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	} else if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return Parse(path, data)
}

// Parse decodes settings from data, using the extension of name to select
// the format, applied over the defaults.
func Parse(name string, data []byte) (*Config, error) {
	cfg := Default()
	var err error
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".json", ".jwcc", ".hujson":
		var std []byte
		std, err = hujson.Standardize(data)
		if err == nil {
			err = json.Unmarshal(std, cfg)
		}
	case ".toml":
		err = toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, &ParseError{Path: name, Message: fmt.Sprintf("unknown config format %q", ext)}
	}
	if err != nil {
		return nil, &ParseError{Path: name, Message: err.Error(), Err: err}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &ParseError{Path: name, Message: err.Error(), Err: err}
	}
	return cfg, nil
}

// Validate reports whether c is a usable configuration.
func (c *Config) Validate() error {
	if c.Session.Timeout < 0 {
		return errors.New("session timeout must not be negative")
	}
	if c.Session.MaxSteps < 0 {
		return errors.New("session max_steps must not be negative")
	}
	if _, err := c.Log.level(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

func (l Log) level() (slog.Level, error) {
	var lvl slog.Level
	if l.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("unknown log level %q", l.Level)
	}
	return lvl, nil
}

// Logger constructs a logger writing to w as configured.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	lvl, err := c.Log.level()
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Options returns session options for c, logging to logger.
func (c *Config) Options(logger *slog.Logger) *vsent.Options {
	return &vsent.Options{
		Logger:   logger,
		Timeout:  time.Duration(c.Session.Timeout),
		MaxSteps: c.Session.MaxSteps,
	}
}
