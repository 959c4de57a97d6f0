package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fmueller/voxnote/internal/clipboard"
	"github.com/fmueller/voxnote/internal/pipeline"
	"github.com/fmueller/voxnote/internal/summarize"
	"github.com/fmueller/voxnote/internal/transcribe"
	"github.com/fmueller/voxnote/internal/web"
	"github.com/stretchr/testify/require"
)

var errNoModel = errors.New(`model "base" is missing`)

func runCommand(t *testing.T, args []string) (stdout string, stderr string, err error) {
	t.Helper()
	return runAppCommand(t, newAppState(), args)
}

func runAppCommand(t *testing.T, app *appState, args []string) (stdout string, stderr string, err error) {
	t.Helper()

	cmd := newRootCmd(app)
	outBuf := new(bytes.Buffer)
	errBuf := new(bytes.Buffer)

	cmd.SetOut(outBuf)
	cmd.SetErr(errBuf)
	cmd.SetArgs(args)

	err = cmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

type stubTranscriber struct {
	mu    sync.Mutex
	blobs []transcribe.AudioBlob
	text  string
	err   error
}

func (s *stubTranscriber) Transcribe(_ context.Context, blob transcribe.AudioBlob) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs = append(s.blobs, blob)
	if s.err != nil {
		return "", &transcribe.Error{Err: s.err}
	}
	return s.text, nil
}

type stubSummarizer struct {
	mu          sync.Mutex
	credentials []string
	summary     string
	err         error
}

func (s *stubSummarizer) Summarize(_ context.Context, _ string, credential string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.credentials = append(s.credentials, credential)
	if s.err != nil {
		return "", &summarize.Error{Err: s.err}
	}
	return s.summary, nil
}

// stubbedApp is an appState whose services never touch whisper, ffmpeg or
// the network.
func stubbedApp(tr *stubTranscriber, sum *stubSummarizer, env map[string]string) *appState {
	app := newAppState()
	app.cfg.NoProgress = true
	app.dotEnv = []string{filepath.Join(os.TempDir(), "voxnote-no-such-dotenv")}
	app.lookupEnv = func(name string) (string, bool) {
		v, ok := env[name]
		return v, ok
	}
	app.preflightFn = func(context.Context) error { return nil }
	app.transcriberFn = func() (pipeline.Transcriber, error) { return tr, nil }
	app.summarizerFn = func() (pipeline.Summarizer, error) { return sum, nil }
	app.serveFn = func(context.Context, *web.Server) error { return errors.New("serve not stubbed") }
	app.copyFn = func(context.Context, string) error { return clipboard.ErrUnavailable }
	return app
}

func writeAudio(t *testing.T, name string, data []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	return path
}
