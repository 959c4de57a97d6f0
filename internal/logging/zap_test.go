package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewJSONLoggerWritesStructuredLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "app.log")
	logger, err := New(Options{JSON: true, Output: path})
	require.NoError(t, err)

	logger.Info("transcription finished", zap.String("audio", "note.wav"))
	logger.Debug("hidden at info level")
	_ = logger.Sync()

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	require.Equal(t, "transcription finished", entry["msg"])
	require.Equal(t, "note.wav", entry["audio"])
	require.Equal(t, "voxnote", entry["logger"])
}

func TestNewVerboseLoggerEnablesDebug(t *testing.T) {
	t.Parallel()

	logger, err := New(Options{Verbose: true, Output: filepath.Join(t.TempDir(), "debug.log")})
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestOrNop(t *testing.T) {
	t.Parallel()

	require.NotNil(t, OrNop(nil))

	logger := zap.NewExample()
	require.Same(t, logger, OrNop(logger))
}
