package transcribe

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fmueller/voxnote/internal/whisper"
	"github.com/stretchr/testify/require"
)

func TestEnsureModelMissingWithoutAutoDownload(t *testing.T) {
	t.Parallel()

	_, err := EnsureModel(context.Background(), LoaderOptions{
		ModelRef: "tiny",
		ModelDir: t.TempDir(),
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "voxnote setup --model tiny")
}

func TestEnsureModelPresentNamedModel(t *testing.T) {
	t.Parallel()

	modelDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(modelDir, "ggml-tiny.bin"), []byte("ggml"), 0o644))

	resolved, err := EnsureModel(context.Background(), LoaderOptions{ModelRef: "tiny", ModelDir: modelDir})
	require.NoError(t, err)
	require.False(t, resolved.NeedsDownload)
	require.Equal(t, filepath.Join(modelDir, "ggml-tiny.bin"), resolved.Path)
}

func TestNewLoaderBuildsCLIEngine(t *testing.T) {
	tempDir := t.TempDir()
	exe := filepath.Join(tempDir, "whisper-cli")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	t.Setenv("VOXNOTE_WHISPER_PATH", exe)

	custom := filepath.Join(tempDir, "custom.bin")
	require.NoError(t, os.WriteFile(custom, []byte("ggml"), 0o644))

	load := NewLoader(LoaderOptions{ModelRef: custom, ModelDir: tempDir, OutputDir: tempDir})
	model, err := load(context.Background())
	require.NoError(t, err)
	require.Equal(t, custom, model.ModelPath)

	engine, ok := model.Engine.(*whisper.CLIEngine)
	require.True(t, ok)
	require.Equal(t, exe, engine.Executable)
	require.Equal(t, tempDir, engine.OutputDir)
}
