package llm

import (
	"fmt"
	"strings"

	"github.com/kastheco/termania/pane"
)

const visibleLinesPerPane = 40

const systemPreamble = `You are an assistant integrated into Termania, a multi-pane terminal orchestrator. You can see the live contents of every open pane below and can act on them by returning actions.`

const systemPostamble = `Respond with a single JSON object of the shape {"explanation": "...", "actions": [...]}. Each element of "actions" is an object with a "type" field selecting one of: send_command, send_to_all, set_title, set_watermark, clear_watermark, navigate, set_content, spawn_pane, close_pane, replace_pane, swap_panes, focus_pane, message, notify, context_usage. Omit "actions" entirely (or use an empty array) if no action is warranted.`

// BuildSystemPrompt assembles the fixed preamble, one section per pane
// (index, type, title, an optional subprocess line, and its last
// visibleLinesPerPane lines of visible text), and the fixed postamble
// (spec §4.G).
func BuildSystemPrompt(panes []pane.Plugin) string {
	var b strings.Builder
	b.WriteString(systemPreamble)
	b.WriteString("\n\n")

	for i, p := range panes {
		fmt.Fprintf(&b, "## Pane %d (%s) — %q\n", i, p.PaneType(), p.Title())
		if pid := p.ChildPID(); pid != 0 {
			fmt.Fprintf(&b, "subprocess pid: %d, exited: %v\n", pid, p.IsExited())
		}

		lines := make([]string, visibleLinesPerPane)
		n := p.VisibleText(lines, visibleLinesPerPane)
		for _, line := range lines[:n] {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	b.WriteString(systemPostamble)
	return b.String()
}
