package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_JSONToFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "dexkit.log")
	log, err := New(Config{Level: "DEBUG", Format: "json", OutputPath: p, Fields: map[string]string{"tool": "dexkit"}})
	require.NoError(t, err)

	log.Debug("scanned")
	_ = log.Sync()

	b, err := os.ReadFile(p)
	require.NoError(t, err)
	line := strings.TrimSpace(string(b))
	assert.Contains(t, line, `"msg":"scanned"`)
	assert.Contains(t, line, `"tool":"dexkit"`)
	assert.Contains(t, line, `"level":"debug"`)
}

func TestNew_RejectsBadInput(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)

	_, err = New(Config{Format: "xml"})
	assert.Error(t, err)
}

func TestNew_Defaults(t *testing.T) {
	log, err := New(Config{})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.InfoLevel))
	assert.False(t, log.Core().Enabled(zap.DebugLevel))
}
