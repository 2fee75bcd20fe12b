package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_LevelFollowsVerbose(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Writer: &buf})
	log.Debug("hidden")
	log.Info("shown", zap.String("token", "abc"))
	_ = log.Sync()

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, `"token": "abc"`)

	buf.Reset()
	log = New(Options{Writer: &buf, Verbose: true})
	log.Debug("visible")
	_ = log.Sync()
	assert.Contains(t, buf.String(), "DEBUG")
	assert.Contains(t, buf.String(), "visible")
}

func TestNew_FileSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "solmeta.log")

	var console bytes.Buffer
	log := New(Options{Writer: &console, File: path})
	log.Debug("to file only")
	log.Warn("to both")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(data), []byte("\n"))
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "to both", entry["msg"])
	assert.Contains(t, entry, "timestamp")

	assert.NotContains(t, console.String(), "to file only")
	assert.Contains(t, console.String(), "to both")
}
