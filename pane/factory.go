package pane

import "github.com/kastheco/termania/ptybackend"

// PaneConfig is the per-pane subset of the loaded application config
// (spec §6.1's `[[panes]]`/`[[sessions.panes]]` tables).
type PaneConfig struct {
	PaneType        string
	Title           string
	Command         []string
	Cwd             string
	Env             []string
	InitialCommands []string
	URL             string
	Content         string
}

// Create builds the Plugin for a pane, choosing TerminalPlugin for
// pane_type "terminal" (the default when unset) and a StubPlugin for
// every other value.
func Create(backend ptybackend.Backend, index int, cfg PaneConfig) (Plugin, error) {
	paneType := cfg.PaneType
	if paneType == "" {
		paneType = "terminal"
	}

	if paneType == "terminal" {
		return NewTerminalPlugin(backend, Config{
			Title:           cfg.Title,
			Command:         cfg.Command,
			Cwd:             cfg.Cwd,
			Env:             cfg.Env,
			InitialCommands: cfg.InitialCommands,
		})
	}

	s := NewStubPlugin(paneType, cfg.Title)
	if cfg.URL != "" {
		s.Navigate(cfg.URL)
	}
	if cfg.Content != "" {
		s.SetContent(cfg.Content)
	}
	return s, nil
}
