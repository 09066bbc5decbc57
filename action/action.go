// Package action defines the tagged union of operations recognized by the
// controller and produced by the Text Tap parser, the LLM parser, and the
// GUI.
package action

import "fmt"

// Kind discriminates the concrete Action variant without a type switch at
// every call site.
type Kind int

const (
	KindSendCommand Kind = iota
	KindSendToAll
	KindSetTitle
	KindSetWatermark
	KindClearWatermark
	KindNavigate
	KindSetContent
	KindSpawnPane
	KindClosePane
	KindReplacePane
	KindSwapPanes
	KindFocusPane
	KindMessage
	KindNotify
	KindContextUsage
	KindRawSend
)

// Action is implemented by every action variant. The method is unexported
// so the union stays sealed to this package.
type Action interface {
	Kind() Kind
	sealed()
}

type base struct{ kind Kind }

func (b base) Kind() Kind { return b.kind }
func (base) sealed()      {}

// SendCommand writes command+CR to the given pane's PTY.
type SendCommand struct {
	base
	Pane    uint32
	Command string
}

// SendToAll writes command+CR to every terminal pane.
type SendToAll struct {
	base
	Command string
}

// SetTitle sets a pane's display title.
type SetTitle struct {
	base
	Pane  uint32
	Title string
}

// SetWatermark sets a pane's decorative watermark string (bounded to 128
// bytes by the WatermarkMap it is applied through).
type SetWatermark struct {
	base
	Pane      uint32
	Watermark string
}

// ClearWatermark removes a pane's watermark.
type ClearWatermark struct {
	base
	Pane uint32
}

// Navigate instructs a webview-style pane to load a URL.
type Navigate struct {
	base
	Pane uint32
	URL  string
}

// SetContent instructs a notes-style pane to replace its content.
type SetContent struct {
	base
	Pane    uint32
	Content string
}

// SpawnPane creates a new pane. PaneType defaults to "terminal" at parse
// time; all other fields are optional and left zero-valued when absent.
type SpawnPane struct {
	base
	PaneType  string
	Title     string
	Command   string
	Cwd       string
	URL       string
	Content   string
	Watermark string
	Row       *uint32
}

// ClosePane removes a pane. The controller refuses to apply this if it
// would remove the last remaining pane.
type ClosePane struct {
	base
	Pane uint32
}

// ReplacePane swaps the plugin behind an existing pane index for a new one
// of (possibly different) PaneType.
type ReplacePane struct {
	base
	Pane      uint32
	PaneType  string
	Title     string
	Command   string
	Cwd       string
	URL       string
	Content   string
	Watermark string
}

// SwapPanes exchanges the plugins at two pane indices.
type SwapPanes struct {
	base
	A, B uint32
}

// FocusPane moves input focus to a pane.
type FocusPane struct {
	base
	Pane uint32
}

// Message is an informational string surfaced to the user (e.g. via a
// pending-notification slot with a fixed title).
type Message struct {
	base
	Text string
}

// Notify requests an OS notification. The core only emits the record; the
// GUI frontend is responsible for actual delivery.
type Notify struct {
	base
	Title string
	Body  string
}

// ContextUsage is Claude-Code-style telemetry reported over the Text Tap or
// produced by the LLM client.
type ContextUsage struct {
	base
	UsedTokens   uint64
	TotalTokens  uint64
	Percentage   uint8 // clamped to [0,100]
	SessionID    string
	IsPreCompact bool
}

// Target discriminates RawSend's destination.
type Target struct {
	All  bool
	Pane uint32 // valid only when All is false
}

// PaneTarget addresses a single pane.
func PaneTarget(i uint32) Target { return Target{Pane: i} }

// AllTarget addresses every terminal pane.
func AllTarget() Target { return Target{All: true} }

// RawSend is the legacy wire form of SendCommand used by the tap's
// "send"/"send_all" messages: bytes are written to the PTY verbatim,
// without an implied trailing CR.
type RawSend struct {
	base
	TargetSpec Target
	Bytes      string
}

func newSendCommand(pane uint32, command string) SendCommand {
	return SendCommand{base: base{KindSendCommand}, Pane: pane, Command: command}
}

func newSendToAll(command string) SendToAll {
	return SendToAll{base: base{KindSendToAll}, Command: command}
}

func newSetTitle(pane uint32, title string) SetTitle {
	return SetTitle{base: base{KindSetTitle}, Pane: pane, Title: title}
}

func newSetWatermark(pane uint32, watermark string) SetWatermark {
	return SetWatermark{base: base{KindSetWatermark}, Pane: pane, Watermark: watermark}
}

func newClearWatermark(pane uint32) ClearWatermark {
	return ClearWatermark{base: base{KindClearWatermark}, Pane: pane}
}

func newNavigate(pane uint32, url string) Navigate {
	return Navigate{base: base{KindNavigate}, Pane: pane, URL: url}
}

func newSetContent(pane uint32, content string) SetContent {
	return SetContent{base: base{KindSetContent}, Pane: pane, Content: content}
}

func newClosePane(pane uint32) ClosePane {
	return ClosePane{base: base{KindClosePane}, Pane: pane}
}

func newSwapPanes(a, b uint32) SwapPanes {
	return SwapPanes{base: base{KindSwapPanes}, A: a, B: b}
}

func newFocusPane(pane uint32) FocusPane {
	return FocusPane{base: base{KindFocusPane}, Pane: pane}
}

func newMessage(text string) Message {
	return Message{base: base{KindMessage}, Text: text}
}

func newNotify(title, body string) Notify {
	return Notify{base: base{KindNotify}, Title: title, Body: body}
}

// NewSendCommand builds a SendCommand action.
func NewSendCommand(pane uint32, command string) SendCommand {
	return newSendCommand(pane, command)
}

// NewSendToAll builds a SendToAll action.
func NewSendToAll(command string) SendToAll {
	return newSendToAll(command)
}

// NewRawSend builds the legacy wire-form send action.
func NewRawSend(target Target, bytes string) RawSend {
	return RawSend{base: base{KindRawSend}, TargetSpec: target, Bytes: bytes}
}

// NewMessage builds an informational Message action.
func NewMessage(text string) Message {
	return newMessage(text)
}

// NewNotify builds an OS-notification request action.
func NewNotify(title, body string) Notify {
	return newNotify(title, body)
}

// NewContextUsage builds a telemetry action reporting context-window
// usage, as produced by the Text Tap's context_update handler and by the
// LLM client.
func NewContextUsage(used, total uint64, percentage uint8, sessionID string, isPreCompact bool) ContextUsage {
	return ContextUsage{
		base:         base{KindContextUsage},
		UsedTokens:   used,
		TotalTokens:  total,
		Percentage:   percentage,
		SessionID:    sessionID,
		IsPreCompact: isPreCompact,
	}
}

// FormatForDisplay produces a one-line, human-readable description of an
// action, used by UI overlays. It never panics on an unrecognized
// concrete type: an unknown Action renders as a generic fallback line.
func FormatForDisplay(a Action) string {
	switch v := a.(type) {
	case SendCommand:
		return fmt.Sprintf("  [pane %d] $ %s", v.Pane, v.Command)
	case SendToAll:
		return fmt.Sprintf("  [all panes] $ %s", v.Command)
	case SetTitle:
		return fmt.Sprintf("  [pane %d] title: %s", v.Pane, v.Title)
	case SetWatermark:
		return fmt.Sprintf("  [pane %d] watermark: %s", v.Pane, v.Watermark)
	case ClearWatermark:
		return fmt.Sprintf("  [pane %d] clear watermark", v.Pane)
	case Navigate:
		return fmt.Sprintf("  [pane %d] navigate: %s", v.Pane, v.URL)
	case SetContent:
		return fmt.Sprintf("  [pane %d] set content (%d bytes)", v.Pane, len(v.Content))
	case SpawnPane:
		return fmt.Sprintf("  spawn %s pane: %s", paneTypeOrDefault(v.PaneType), v.Title)
	case ClosePane:
		return fmt.Sprintf("  [pane %d] close", v.Pane)
	case ReplacePane:
		return fmt.Sprintf("  [pane %d] replace with %s", v.Pane, paneTypeOrDefault(v.PaneType))
	case SwapPanes:
		return fmt.Sprintf("  swap panes %d <-> %d", v.A, v.B)
	case FocusPane:
		return fmt.Sprintf("  focus pane %d", v.Pane)
	case Message:
		return fmt.Sprintf("  message: %s", v.Text)
	case Notify:
		return fmt.Sprintf("  notify: %s — %s", v.Title, v.Body)
	case ContextUsage:
		return fmt.Sprintf("  context: %d/%d tokens (%d%%)", v.UsedTokens, v.TotalTokens, v.Percentage)
	case RawSend:
		if v.TargetSpec.All {
			return fmt.Sprintf("  [all panes] raw: %s", v.Bytes)
		}
		return fmt.Sprintf("  [pane %d] raw: %s", v.TargetSpec.Pane, v.Bytes)
	default:
		return "  <unknown action>"
	}
}

func paneTypeOrDefault(t string) string {
	if t == "" {
		return "terminal"
	}
	return t
}
