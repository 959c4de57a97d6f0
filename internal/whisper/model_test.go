package whisper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveModelNamed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ggml-small.bin"), []byte("weights"), 0o644))

	tests := []struct {
		name      string
		ref       string
		wantName  string
		wantFile  string
		needsPull bool
	}{
		{name: "empty falls back to default", ref: "", wantName: DefaultModel, wantFile: "ggml-base.bin", needsPull: true},
		{name: "surrounding whitespace", ref: "  tiny ", wantName: "tiny", wantFile: "ggml-tiny.bin", needsPull: true},
		{name: "already on disk", ref: "small", wantName: "small", wantFile: "ggml-small.bin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := ResolveModel(tt.ref, dir)
			require.NoError(t, err)
			require.Equal(t, tt.wantName, got.Name)
			require.Equal(t, filepath.Join(dir, tt.wantFile), got.Path)
			require.Equal(t, tt.needsPull, got.NeedsDownload)
			require.False(t, got.IsCustomPath)
			require.Len(t, got.SHA256, 64)
			require.Equal(t, modelBaseURL+tt.wantFile, got.URL)
		})
	}
}

func TestResolveModelCustomFile(t *testing.T) {
	t.Parallel()

	weights := filepath.Join(t.TempDir(), "finetuned-meetings.bin")
	require.NoError(t, os.WriteFile(weights, []byte("weights"), 0o644))

	got, err := ResolveModel(weights, "")
	require.NoError(t, err)
	require.True(t, got.IsCustomPath)
	require.False(t, got.NeedsDownload)
	require.Equal(t, weights, got.Path)
	require.Empty(t, got.URL)
}

func TestResolveModelErrors(t *testing.T) {
	t.Parallel()

	_, err := ResolveModel("enormous", t.TempDir())
	require.EqualError(t, err, `unknown model "enormous" (known models: base, large-v3, medium, small, tiny)`)

	_, err = ResolveModel("missing.bin", t.TempDir())
	require.ErrorContains(t, err, "custom model path does not exist: missing.bin")

	_, err = ResolveModel("base", "  ")
	require.ErrorContains(t, err, "model directory must not be empty")
}

func TestRegistryIsCompleteAndPinned(t *testing.T) {
	t.Parallel()

	require.Equal(t, []string{"base", "large-v3", "medium", "small", "tiny"}, ModelNames())
	for _, name := range ModelNames() {
		model, ok := LookupModel(name)
		require.True(t, ok)
		require.Equal(t, "ggml-"+name+".bin", model.FileName)
		require.Lenf(t, model.SHA256, 64, "model %s has no pinned checksum", name)
	}

	_, ok := LookupModel("BASE")
	require.False(t, ok)
}
