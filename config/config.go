// Package config loads the Termania control core's TOML configuration:
// font, grid, window, color, Text Tap, and LLM settings, plus the
// session/pane layout tables (spec §6.1).
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the fully-parsed application configuration.
type Config struct {
	Font    FontConfig    `toml:"font"`
	Grid    GridConfig    `toml:"grid"`
	Window  WindowConfig  `toml:"window"`
	Colors  ColorConfig   `toml:"colors"`
	TextTap TextTapConfig `toml:"text_tap"`
	LLM     LLMConfig     `toml:"llm"`

	Sessions []SessionConfig `toml:"sessions"`
	Panes    []PaneConfig    `toml:"panes"`
}

// FontConfig controls the frontend's font selection; the core only
// carries these values through to the GUI via the ABI, it never
// rasterizes text itself.
type FontConfig struct {
	Family string  `toml:"family"`
	Size   float64 `toml:"size"`
}

// GridConfig is the default pane layout, overridable per-session.
type GridConfig struct {
	Rows uint32 `toml:"rows"`
	Cols uint32 `toml:"cols"`
}

// WindowConfig is the default window chrome, overridable per-session.
type WindowConfig struct {
	Title string `toml:"title"`
}

// ColorConfig is the default palette; unset fields keep the frontend's
// built-in defaults.
type ColorConfig struct {
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
	Cursor     string `toml:"cursor"`
}

// TextTapConfig controls the Text Tap Unix-socket server.
type TextTapConfig struct {
	Enabled    bool   `toml:"enabled"`
	SocketPath string `toml:"socket_path"`
}

// LLMConfig controls the LLM client (spec §4.G/§3).
type LLMConfig struct {
	Provider  string `toml:"provider"`
	APIKey    string `toml:"api_key"`
	BaseURL   string `toml:"base_url"`
	Model     string `toml:"model"`
	MaxTokens int    `toml:"max_tokens"`
}

// PaneConfig is one `[[panes]]` or `[[sessions.panes]]` entry.
type PaneConfig struct {
	PaneType        string   `toml:"pane_type"`
	Title           string   `toml:"title"`
	Command         []string `toml:"command"`
	Cwd             string   `toml:"cwd"`
	Env             []string `toml:"env"`
	InitialCommands []string `toml:"initial_commands"`
	URL             string   `toml:"url"`
	Content         string   `toml:"content"`
	Row             *uint32  `toml:"row"`
}

// SessionConfig is one `[[sessions]]` entry. Its Title/Rows/Cols, when
// set, override the top-level [window]/[grid] values (spec §6.1).
type SessionConfig struct {
	Title string       `toml:"title"`
	Rows  uint32       `toml:"rows"`
	Cols  uint32       `toml:"cols"`
	Panes []PaneConfig `toml:"panes"`
}

const defaultSocketPath = "/tmp/termania.sock"

// Default returns the zero-config defaults: a 1x1 grid running the
// default shell, Text Tap disabled.
func Default() *Config {
	return &Config{
		Grid:    GridConfig{Rows: 1, Cols: 1},
		Window:  WindowConfig{Title: "termania"},
		TextTap: TextTapConfig{Enabled: false, SocketPath: defaultSocketPath},
	}
}

// Load reads and parses path, falling back to Default when the file does
// not exist; any other read error is returned (spec §6.1: unknown
// sections/keys are ignored; a missing file is not itself an error — it's
// a fresh start).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes raw TOML bytes into a Config, applying defaults for any
// section left unset. It strips inline `#` comments outside double-quoted
// strings before decoding — BurntSushi/toml already strips '#'-to-EOL
// comments per the TOML spec, but this project's config files are also
// permitted bare trailing comments after array/table entries the
// strict decoder occasionally trips on with older edge-case inputs, so
// the pre-pass is kept as a defensive normalization step ahead of it.
func Parse(data []byte) (*Config, error) {
	cleaned := stripComments(data)

	cfg := Default()
	if _, err := toml.Decode(string(cleaned), cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}

	if cfg.TextTap.SocketPath == "" {
		cfg.TextTap.SocketPath = defaultSocketPath
	}
	if cfg.Grid.Rows == 0 {
		cfg.Grid.Rows = 1
	}
	if cfg.Grid.Cols == 0 {
		cfg.Grid.Cols = 1
	}

	if err := cfg.Colors.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that every set color field parses as `#RRGGBB` or
// `#RRGGBBAA` (spec §6.1). Empty fields are left to the frontend's
// built-in defaults and are not validated here.
func (c ColorConfig) validate() error {
	for _, field := range []struct {
		name, value string
	}{
		{"background", c.Background},
		{"foreground", c.Foreground},
		{"cursor", c.Cursor},
	} {
		if field.value == "" {
			continue
		}
		if _, err := ParseColor(field.value); err != nil {
			return fmt.Errorf("config: colors.%s: %w", field.name, err)
		}
	}
	return nil
}

// stripComments removes a `#`-to-end-of-line comment from each line,
// unless the `#` occurs inside a double-quoted string.
func stripComments(data []byte) []byte {
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		inString := false
		for j := 0; j < len(line); j++ {
			switch line[j] {
			case '"':
				if j == 0 || line[j-1] != '\\' {
					inString = !inString
				}
			case '#':
				if !inString {
					lines[i] = line[:j]
					j = len(line)
				}
			}
		}
	}
	return []byte(strings.Join(lines, "\n"))
}

// ResolveWindow applies a session's title override onto the top-level
// window config, returning the effective value (spec §6.1).
func (c *Config) ResolveWindow(s *SessionConfig) WindowConfig {
	w := c.Window
	if s != nil && s.Title != "" {
		w.Title = s.Title
	}
	return w
}

// ResolveGrid applies a session's rows/cols override onto the top-level
// grid config.
func (c *Config) ResolveGrid(s *SessionConfig) GridConfig {
	g := c.Grid
	if s != nil && s.Rows != 0 {
		g.Rows = s.Rows
	}
	if s != nil && s.Cols != 0 {
		g.Cols = s.Cols
	}
	return g
}

// EffectivePanes returns the pane configs that should seed the grid:
// the first session's panes if any sessions are configured, else the
// top-level `[[panes]]` table.
func (c *Config) EffectivePanes() []PaneConfig {
	if len(c.Sessions) > 0 && len(c.Sessions[0].Panes) > 0 {
		return c.Sessions[0].Panes
	}
	return c.Panes
}
