package tap

import (
	"fmt"
	"strings"
)

// escapeJSONString escapes a string per spec §4.F/§4.G: `"`, `\`, `\n`,
// `\r`, `\t`, and any other byte below 0x20 as `\u00XX`. We hand-roll this
// (rather than routing through encoding/json or sjson) because the wire
// format requires producing exactly this escape set with no surrounding
// quoting/marshaling overhead — sjson.Set in server.go already covers the
// general case for reply messages; this one is for the hot broadcast path where we
// compose the frame directly.
func escapeJSONString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 8)
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	return b.String()
}

// paneOutputFrame composes the broadcast_pane_content wire message.
func paneOutputFrame(pane uint32, content string) []byte {
	s := fmt.Sprintf(`{"type":"pane_output","pane":%d,"content":"%s"}`, pane, escapeJSONString(content))
	return append([]byte(s), '\n')
}
