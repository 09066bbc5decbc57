package telemetry

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_EmptyDSNIsNoop(t *testing.T) {
	require.NoError(t, Init("", "1.0.0"))
	assert.False(t, IsEnabled())
	// Safe to call with nothing initialized.
	Flush()
}

func TestNewLogger_DefaultsToStderr(t *testing.T) {
	logger := NewLogger(nil)
	assert.NotNil(t, logger)
}

func TestNewLogger_WritesToProvidedFile(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "log")
	require.NoError(t, err)
	defer f.Close()

	logger := NewLogger(f)
	logger.Info("hello world")

	data, err := os.ReadFile(f.Name())
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello world")
}
