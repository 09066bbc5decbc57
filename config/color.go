package config

import (
	"encoding/hex"
	"fmt"
)

// RGBA is a parsed color, alpha defaulting to fully opaque when the
// source string omits it.
type RGBA struct {
	R, G, B, A uint8
}

// ParseColor accepts `#RRGGBB` or `#RRGGBBAA` (spec §6.1).
func ParseColor(s string) (RGBA, error) {
	if len(s) == 0 || s[0] != '#' {
		return RGBA{}, fmt.Errorf("config: color %q must start with '#'", s)
	}
	hexPart := s[1:]
	if len(hexPart) != 6 && len(hexPart) != 8 {
		return RGBA{}, fmt.Errorf("config: color %q must be #RRGGBB or #RRGGBBAA", s)
	}

	b, err := hex.DecodeString(hexPart)
	if err != nil {
		return RGBA{}, fmt.Errorf("config: color %q: %w", s, err)
	}

	c := RGBA{R: b[0], G: b[1], B: b[2], A: 0xFF}
	if len(b) == 4 {
		c.A = b[3]
	}
	return c, nil
}
