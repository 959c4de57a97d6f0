package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fmueller/voxnote/internal/audio"
	"github.com/fmueller/voxnote/internal/logging"
	"github.com/fmueller/voxnote/internal/whisper"
	"go.uber.org/zap"
)

const blankAudioToken = "[BLANK_AUDIO]"

type AudioBlob struct {
	Filename string
	Data     []byte
}

// Error wraps every failure of a transcription call.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return "transcription failed: " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

type ConvertFunc func(ctx context.Context, src, dst string) error

type Options struct {
	Load    LoadFunc
	Convert ConvertFunc
	// WorkDir receives the transient upload files; defaults to os.TempDir().
	WorkDir              string
	Language             string
	SilenceGate          bool
	SilenceThresholdDBFS float64
	Logger               *zap.Logger
}

type Service struct {
	opts Options

	loadMu sync.Mutex
	loaded *Model

	// whisper-cli makes no promise about concurrent runs against one model,
	// so inference is serialised.
	inference sync.Mutex
}

func New(opts Options) *Service {
	opts.Logger = logging.OrNop(opts.Logger)
	if opts.WorkDir == "" {
		opts.WorkDir = os.TempDir()
	}
	return &Service{opts: opts}
}

func (s *Service) Transcribe(ctx context.Context, blob AudioBlob) (string, error) {
	text, err := s.transcribe(ctx, blob)
	if err != nil {
		return "", &Error{Err: err}
	}
	return text, nil
}

func (s *Service) transcribe(ctx context.Context, blob AudioBlob) (string, error) {
	model, err := s.model(ctx)
	if err != nil {
		return "", err
	}

	src, err := s.materialize(blob)
	if err != nil {
		return "", err
	}
	defer s.remove(src)

	wavPath := src
	if audio.NeedsConversion(blob.Filename) {
		if s.opts.Convert == nil {
			return "", fmt.Errorf("no decoder available for %q", blob.Filename)
		}
		wavPath = src + ".wav"
		defer s.remove(wavPath)
		if err := s.opts.Convert(ctx, src, wavPath); err != nil {
			return "", err
		}
	}

	if s.silent(wavPath) {
		return "", nil
	}

	s.inference.Lock()
	defer s.inference.Unlock()

	s.opts.Logger.Info("transcribing...", zap.String("audio", blob.Filename), zap.Int("bytes", len(blob.Data)), zap.String("language", s.opts.Language))
	started := time.Now()
	text, err := model.Engine.Transcribe(ctx, whisper.Request{
		AudioPath: wavPath,
		ModelPath: model.ModelPath,
		Language:  s.opts.Language,
		Task:      whisper.TaskTranscribe,
		NoGPU:     true,
	})
	if err != nil {
		s.opts.Logger.Warn("transcription failed", zap.Duration("elapsed", time.Since(started)), zap.Error(err))
		return "", err
	}
	s.opts.Logger.Info("transcription finished", zap.Duration("elapsed", time.Since(started)))

	return normalizeTranscript(text), nil
}

// model loads the recognizer on first use. Only a successful load is kept;
// after a failure the next call tries again.
func (s *Service) model(ctx context.Context) (*Model, error) {
	s.loadMu.Lock()
	defer s.loadMu.Unlock()

	if s.loaded != nil {
		return s.loaded, nil
	}
	if s.opts.Load == nil {
		return nil, errors.New("no speech model configured")
	}

	started := time.Now()
	model, err := s.opts.Load(ctx)
	if err != nil {
		return nil, err
	}
	s.loaded = model
	s.opts.Logger.Info("speech model loaded", zap.String("model", model.ModelPath), zap.Duration("elapsed", time.Since(started)))
	return model, nil
}

func (s *Service) materialize(blob AudioBlob) (string, error) {
	pattern := "upload-*"
	if ext := audio.Extension(blob.Filename); ext != "" {
		pattern += "." + ext
	}

	f, err := os.CreateTemp(s.opts.WorkDir, pattern)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	path := f.Name()

	if _, err := f.Write(blob.Data); err != nil {
		_ = f.Close()
		s.remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		s.remove(path)
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return path, nil
}

func (s *Service) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.opts.Logger.Warn("failed to remove transient audio file", zap.String("path", path), zap.Error(err))
	}
}

func (s *Service) silent(wavPath string) bool {
	if !s.opts.SilenceGate {
		return false
	}

	silent, metrics, err := audio.IsSilentWAV(wavPath, s.opts.SilenceThresholdDBFS)
	if err != nil {
		s.opts.Logger.Warn("silence gate analysis failed; continuing transcription", zap.Error(err))
		return false
	}
	if silent {
		s.opts.Logger.Info(
			"audio considered silent; skipping transcription",
			zap.Float64("rms_dbfs", metrics.RMSdBFS),
			zap.Float64("peak_dbfs", metrics.PeakdBFS),
			zap.Float64("threshold_dbfs", s.opts.SilenceThresholdDBFS),
		)
	}
	return silent
}

func normalizeTranscript(text string) string {
	trimmed := strings.TrimSpace(text)
	if strings.EqualFold(trimmed, blankAudioToken) {
		return ""
	}
	return trimmed
}
