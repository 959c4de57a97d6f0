package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCLIErrorCases(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		args        []string
		errContains string
	}{
		{
			name:        "unknown command",
			args:        []string{"badcmd"},
			errContains: "unknown command",
		},
		{
			name:        "unknown root flag",
			args:        []string{"--badflag"},
			errContains: "unknown flag",
		},
		{
			name:        "unknown subcommand flag",
			args:        []string{"transcribe", "--bogus", "f.wav"},
			errContains: "unknown flag",
		},
		{
			name:        "transcribe missing arg",
			args:        []string{"transcribe"},
			errContains: "accepts 1 arg(s)",
		},
		{
			name:        "process too many args",
			args:        []string{"process", "a.wav", "b.wav"},
			errContains: "accepts 1 arg(s)",
		},
		{
			name:        "transcribe nonexistent file",
			args:        []string{"transcribe", "/no/such/file.wav"},
			errContains: "audio file not found",
		},
		{
			name:        "auto language",
			args:        []string{"transcribe", "--language", "auto", "f.wav"},
			errContains: `"auto" detection is not supported`,
		},
		{
			name:        "unknown template",
			args:        []string{"process", "--template", "haiku", "f.wav"},
			errContains: "unknown template",
		},
		{
			name:        "unknown provider",
			args:        []string{"serve", "--provider", "claude"},
			errContains: "unknown provider",
		},
		{
			name:        "serve takes no args",
			args:        []string{"serve", "extra"},
			errContains: "unknown command",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := runCommand(t, tt.args)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestSetupRejectsNonexistentCustomModelPath(t *testing.T) {
	t.Parallel()

	_, _, err := runCommand(t, []string{"setup", "--model", "/no/such/path/model.bin"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "custom model path does not exist")
}

func TestSetupRejectsCustomModelPath(t *testing.T) {
	t.Parallel()

	model := writeAudio(t, "ggml-custom.bin", []byte("weights"))
	_, _, err := runCommand(t, []string{"setup", "--model", model})
	require.ErrorContains(t, err, "setup expects a named model")
}

func TestVersionFlagOutput(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCommand(t, []string{"--version"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "voxnote v"), "expected version prefix, got: %s", stdout)
}

func TestVersionCommandOutput(t *testing.T) {
	t.Parallel()

	stdout, _, err := runCommand(t, []string{"version"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(stdout, "voxnote v"), "expected version prefix, got: %s", stdout)
}

func TestVersionCommandAllListsConfiguredModels(t *testing.T) {
	t.Parallel()

	app := stubbedApp(&stubTranscriber{}, &stubSummarizer{}, nil)
	stdout, _, err := runAppCommand(t, app, []string{"--provider", "gemini", "--template", "meeting", "version", "--all"})
	require.NoError(t, err)
	require.Contains(t, stdout, "speech model:   base")
	require.Contains(t, stdout, "summary model:  gemini-2.5-flash via gemini")
	require.Contains(t, stdout, "templates:      general, ideas, meeting (active: meeting)")
}
