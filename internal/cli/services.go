package cli

import (
	"context"
	"errors"

	"github.com/fmueller/voxnote/internal/audio"
	"github.com/fmueller/voxnote/internal/pipeline"
	"github.com/fmueller/voxnote/internal/platform"
	"github.com/fmueller/voxnote/internal/summarize"
	"github.com/fmueller/voxnote/internal/transcribe"
	"github.com/fmueller/voxnote/internal/whisper"
	"go.uber.org/zap"
)

func (a *appState) loaderOptions() transcribe.LoaderOptions {
	return transcribe.LoaderOptions{
		ModelRef:     a.cfg.Model,
		ModelDir:     a.cfg.ModelDir,
		AutoDownload: a.cfg.AutoDownload,
		NoProgress:   a.cfg.NoProgress,
		Logger:       a.log(),
	}
}

// ensureModelReady fails fast when the engine or model cannot be provided,
// downloading the model when allowed.
func (a *appState) ensureModelReady(ctx context.Context) error {
	if _, err := whisper.NewCLIEngine(a.log()); err != nil {
		return err
	}
	_, err := transcribe.EnsureModel(ctx, a.loaderOptions())
	return err
}

func (a *appState) newTranscriber() (pipeline.Transcriber, error) {
	workDir, err := platform.ResolveWorkDir(a.cfg.WorkDir)
	if err != nil {
		return nil, err
	}

	opts := a.loaderOptions()
	opts.OutputDir = workDir

	var convert transcribe.ConvertFunc
	converter, err := audio.NewConverter(a.log())
	switch {
	case err == nil:
		convert = converter.ToWAV
	case errors.Is(err, audio.ErrConverterUnavailable):
		a.log().Warn("ffmpeg not found; only WAV uploads can be transcribed")
	default:
		return nil, err
	}

	return transcribe.New(transcribe.Options{
		Load:                 transcribe.NewLoader(opts),
		Convert:              convert,
		WorkDir:              workDir,
		Language:             a.cfg.Language,
		SilenceGate:          a.cfg.SilenceGate,
		SilenceThresholdDBFS: a.cfg.SilenceThresholdDBFS,
		Logger:               a.log(),
	}), nil
}

func (a *appState) newSummarizer() (pipeline.Summarizer, error) {
	provider, err := summarize.NewProvider(a.cfg.Provider, a.cfg.BaseURL)
	if err != nil {
		return nil, err
	}
	tmpl, _ := summarize.LookupTemplate(a.cfg.Template)

	a.log().Debug("summarizer configured",
		zap.String("provider", provider.Name()),
		zap.String("model", a.cfg.SummaryModel()),
		zap.String("template", tmpl.Name),
	)
	return summarize.New(summarize.Options{
		Provider:    provider,
		Model:       a.cfg.SummaryModel(),
		Temperature: float32(a.cfg.Temperature),
		MaxTokens:   a.cfg.MaxTokens,
		Template:    tmpl,
		Logger:      a.log(),
	}), nil
}
