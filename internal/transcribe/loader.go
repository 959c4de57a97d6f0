package transcribe

import (
	"context"
	"fmt"
	"os"

	"github.com/fmueller/voxnote/internal/download"
	"github.com/fmueller/voxnote/internal/logging"
	"github.com/fmueller/voxnote/internal/platform"
	"github.com/fmueller/voxnote/internal/whisper"
	"go.uber.org/zap"
)

// Model is the loaded recognizer: an engine plus the model file it runs.
type Model struct {
	Engine    whisper.Engine
	ModelPath string
}

type LoadFunc func(ctx context.Context) (*Model, error)

type LoaderOptions struct {
	ModelRef     string
	ModelDir     string
	AutoDownload bool
	NoProgress   bool
	OutputDir    string
	Logger       *zap.Logger
}

func NewLoader(opts LoaderOptions) LoadFunc {
	return func(ctx context.Context) (*Model, error) {
		resolved, err := EnsureModel(ctx, opts)
		if err != nil {
			return nil, err
		}

		engine, err := whisper.NewCLIEngine(opts.Logger)
		if err != nil {
			return nil, err
		}
		engine.OutputDir = opts.OutputDir

		return &Model{Engine: engine, ModelPath: resolved.Path}, nil
	}
}

// EnsureModel resolves the configured model and downloads it when it is a
// registry model missing from disk and auto-download is enabled.
func EnsureModel(ctx context.Context, opts LoaderOptions) (whisper.ResolvedModel, error) {
	logger := logging.OrNop(opts.Logger)

	modelDir, err := platform.ResolveModelDir(opts.ModelDir)
	if err != nil {
		return whisper.ResolvedModel{}, err
	}
	if err := os.MkdirAll(modelDir, 0o755); err != nil {
		return whisper.ResolvedModel{}, fmt.Errorf("create model directory %s: %w", modelDir, err)
	}

	resolved, err := whisper.ResolveModel(opts.ModelRef, modelDir)
	if err != nil {
		return whisper.ResolvedModel{}, err
	}
	if !resolved.NeedsDownload {
		return resolved, nil
	}

	if !opts.AutoDownload {
		return whisper.ResolvedModel{}, fmt.Errorf("model %q is missing at %s; run `voxnote setup --model %s` or use --auto-download=true", resolved.Name, resolved.Path, resolved.Name)
	}

	logger.Info("model not found, downloading", zap.String("model", resolved.Name), zap.String("destination", resolved.Path))
	if err := download.File(ctx, download.Options{
		URL:            resolved.URL,
		Destination:    resolved.Path,
		ExpectedSHA256: resolved.SHA256,
		NoProgress:     opts.NoProgress,
		Logger:         logger,
	}); err != nil {
		return whisper.ResolvedModel{}, fmt.Errorf("download model %q: %w", resolved.Name, err)
	}

	resolved.NeedsDownload = false
	return resolved, nil
}
