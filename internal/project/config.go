package project

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"lantern/internal/diag"
)

const (
	defaultExtension = "gleam"
	defaultSrcDir    = "src"
	defaultTestDir   = "test"
)

// Config is the decoded project manifest.
type Config struct {
	Name         string            `toml:"name"`
	Version      string            `toml:"version"`
	Dependencies map[string]string `toml:"dependencies"`
	Source       SourceConfig      `toml:"source"`
	Compiler     CommandConfig     `toml:"compiler"`
	Formatter    CommandConfig     `toml:"formatter"`

	// Root is the directory holding the manifest; not read from TOML.
	Root string `toml:"-"`
}

// SourceConfig describes where project modules live.
type SourceConfig struct {
	Extension string `toml:"extension"`
	Src       string `toml:"src"`
	Test      string `toml:"test"`
}

// CommandConfig is an argv for an external tool.
type CommandConfig struct {
	Command []string `toml:"command"`
}

// ConfigError is returned when a manifest cannot be used.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Diagnostic renders the failure for the editor.
func (e *ConfigError) Diagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Title: "Invalid project manifest",
		Text:  fmt.Sprintf("The file %s could not be loaded:\n\n    %v", e.Path, e.Err),
		Level: diag.LevelError,
	}
}

// Layout returns the module layout described by the config.
func (c *Config) Layout() Layout {
	return Layout{
		Root:      c.Root,
		SrcDir:    filepath.Join(c.Root, filepath.FromSlash(c.Source.Src)),
		TestDir:   filepath.Join(c.Root, filepath.FromSlash(c.Source.Test)),
		Extension: "." + c.Source.Extension,
	}
}

// LoadConfig parses a manifest file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("failed to parse TOML: %w", err)}
	}
	if !meta.IsDefined("name") || strings.TrimSpace(cfg.Name) == "" {
		return nil, &ConfigError{Path: path, Err: errors.New("missing name")}
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, &ConfigError{Path: path, Err: fmt.Errorf("unknown key %q", undecoded[0].String())}
	}
	abs, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.Root = abs
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadProject finds the manifest above startDir and loads it. ok is false when
// startDir is not inside a project.
func LoadProject(startDir string) (cfg *Config, ok bool, err error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err = LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return cfg, true, nil
}

func (c *Config) applyDefaults() {
	c.Source.Extension = strings.TrimPrefix(strings.TrimSpace(c.Source.Extension), ".")
	if c.Source.Extension == "" {
		c.Source.Extension = defaultExtension
	}
	if strings.TrimSpace(c.Source.Src) == "" {
		c.Source.Src = defaultSrcDir
	}
	if strings.TrimSpace(c.Source.Test) == "" {
		c.Source.Test = defaultTestDir
	}
	if c.Dependencies == nil {
		c.Dependencies = map[string]string{}
	}
}
