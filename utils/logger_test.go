package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.log")
	log := NewFileLogger("absint", path)
	log.Debugw("visit", "node", "n1")
	_ = log.Sync()

	out, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(out), "absint")
	assert.Contains(t, string(out), "visit")
	assert.Contains(t, string(out), `"node": "n1"`)
}

func TestNopLogger(t *testing.T) {
	log := NewLogger("absint", false)
	assert.False(t, log.Desugar().Core().Enabled(0))
}
