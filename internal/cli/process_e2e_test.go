//go:build e2e

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/fmueller/voxnote/internal/artifact"
	"github.com/stretchr/testify/require"
)

const (
	e2eWhisperPathEnv = "VOXNOTE_E2E_WHISPER_PATH"
	e2eModelDirEnv    = "VOXNOTE_E2E_MODEL_DIR"
	e2eAudioEnv       = "VOXNOTE_E2E_AUDIO"
)

// TestProcessEndToEnd runs the real whisper-cli on a spoken recording and
// summarizes it against a local chat completions endpoint.
func TestProcessEndToEnd(t *testing.T) {
	whisperPath := strings.TrimSpace(os.Getenv(e2eWhisperPathEnv))
	audioPath := strings.TrimSpace(os.Getenv(e2eAudioEnv))
	if whisperPath == "" || audioPath == "" {
		t.Skip("set VOXNOTE_E2E_WHISPER_PATH and VOXNOTE_E2E_AUDIO to run e2e test")
	}

	modelDir := strings.TrimSpace(os.Getenv(e2eModelDirEnv))
	if modelDir == "" {
		modelDir = t.TempDir()
	}
	t.Setenv("VOXNOTE_WHISPER_PATH", whisperPath)

	var prompt string
	llm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if len(body.Messages) == 2 {
			prompt = body.Messages[1].Content
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"e2e","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"## 📌 Key Points\n- e2e"}}]}`))
	}))
	t.Cleanup(llm.Close)

	_, setupStderr, err := runRootCommand(context.Background(), []string{
		"setup",
		"--model", "tiny",
		"--model-dir", modelDir,
		"--no-progress",
	})
	require.NoErrorf(t, err, "setup command failed: %s", setupStderr)

	stdout, stderr, err := runRootCommand(context.Background(), []string{
		"process",
		"--model", "tiny",
		"--model-dir", modelDir,
		"--base-url", llm.URL + "/v1",
		"--api-key", "sk-e2e",
		"--no-progress",
		audioPath,
	})
	require.NoErrorf(t, err, "process command failed: %s", stderr)

	transcript, summary, err := artifact.Parse(strings.TrimSuffix(stdout, "\n"))
	require.NoError(t, err)
	require.NotEmpty(t, strings.TrimSpace(transcript))
	require.Equal(t, "## 📌 Key Points\n- e2e", summary)
	require.Contains(t, prompt, transcript)
}

func runRootCommand(ctx context.Context, args []string) (stdout string, stderr string, err error) {
	cmd := NewRootCmd()
	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)

	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetContext(ctx)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}
