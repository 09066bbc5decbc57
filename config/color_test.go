package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor_RGB(t *testing.T) {
	c, err := ParseColor("#1e1e1e")
	require.NoError(t, err)
	assert.Equal(t, RGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff}, c)
}

func TestParseColor_RGBA(t *testing.T) {
	c, err := ParseColor("#ff000080")
	require.NoError(t, err)
	assert.Equal(t, RGBA{R: 0xff, G: 0x00, B: 0x00, A: 0x80}, c)
}

func TestParseColor_Invalid(t *testing.T) {
	_, err := ParseColor("1e1e1e")
	assert.Error(t, err)

	_, err = ParseColor("#zzzzzz")
	assert.Error(t, err)

	_, err = ParseColor("#abc")
	assert.Error(t, err)
}
