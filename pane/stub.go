package pane

// StubPluginTypes enumerates the nine non-terminal pane types whose
// display logic is out of scope (spec §1); the core only needs to hold
// their identity and title so the grid/overlay/tap layers can address
// them uniformly with terminal panes.
var StubPluginTypes = []string{
	"webview",
	"notes",
	"image",
	"log_viewer",
	"diff_viewer",
	"markdown",
	"file_tree",
	"process_monitor",
	"placeholder",
}

// StubPlugin trivially satisfies Plugin for a pane type this core doesn't
// render itself. All capability methods return empty/false/no-op.
type StubPlugin struct {
	paneType string
	title    string
	content  string
	url      string
}

// NewStubPlugin returns a StubPlugin of the given type (not validated
// against StubPluginTypes — an unrecognized type string is still a valid,
// inert stub, matching the factory's permissive fallback).
func NewStubPlugin(paneType, title string) *StubPlugin {
	return &StubPlugin{paneType: paneType, title: title}
}

func (s *StubPlugin) PaneType() string  { return s.paneType }
func (s *StubPlugin) Title() string     { return s.title }
func (s *StubPlugin) SetTitle(t string) { s.title = t }

func (s *StubPlugin) Poll() bool             { return false }
func (s *StubPlugin) WriteInput(b []byte)    {}
func (s *StubPlugin) RenderData() RenderData { return RenderData{} }
func (s *StubPlugin) VisibleText(buf []string, maxLines int) int { return 0 }

func (s *StubPlugin) HasError() bool { return false }
func (s *StubPlugin) IsDirty() bool  { return false }
func (s *StubPlugin) ClearDirty()    {}

func (s *StubPlugin) ScrollUp(lines int)   {}
func (s *StubPlugin) ScrollDown(lines int) {}
func (s *StubPlugin) Resize(rows, cols int) {}

func (s *StubPlugin) IsExited() bool { return false }
func (s *StubPlugin) ChildPID() int  { return 0 }

func (s *StubPlugin) Dispose() {}

// Navigate stores a URL for a webview-style stub; it is not part of the
// Plugin interface, the controller type-asserts to reach it.
func (s *StubPlugin) Navigate(url string) { s.url = url }

// URL returns the last URL set via Navigate.
func (s *StubPlugin) URL() string { return s.url }

// SetContent stores content for a notes-style stub.
func (s *StubPlugin) SetContent(content string) { s.content = content }

// Content returns the last content set via SetContent.
func (s *StubPlugin) Content() string { return s.content }
