package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fmueller/voxnote/internal/clipboard"
	"github.com/fmueller/voxnote/internal/config"
	"github.com/fmueller/voxnote/internal/logging"
	"github.com/fmueller/voxnote/internal/pipeline"
	"github.com/fmueller/voxnote/internal/version"
	"github.com/fmueller/voxnote/internal/web"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

type appState struct {
	cfg config.Config

	logger    *zap.Logger
	out       io.Writer
	lookupEnv func(string) (string, bool)
	dotEnv    []string

	preflightFn      func(ctx context.Context) error
	transcriberFn    func() (pipeline.Transcriber, error)
	summarizerFn     func() (pipeline.Summarizer, error)
	serveFn          func(ctx context.Context, srv *web.Server) error
	copyFn           func(ctx context.Context, text string) error
	stderrIsTerminal func() bool
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(newAppState())
}

func newAppState() *appState {
	app := &appState{
		cfg:       config.Default(),
		out:       os.Stdout,
		lookupEnv: os.LookupEnv,
	}
	app.preflightFn = app.ensureModelReady
	app.transcriberFn = app.newTranscriber
	app.summarizerFn = app.newSummarizer
	app.serveFn = func(ctx context.Context, srv *web.Server) error { return srv.Run(ctx) }
	app.copyFn = clipboard.CopyText
	return app
}

func newRootCmd(app *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "voxnote",
		Short:         "Turn voice notes into transcripts and structured summaries",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.Resolve(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.prepare(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runServe(cmd.Context())
		},
	}

	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	bindLoggingFlags(cmd, app)
	bindProgressFlag(cmd, app)
	bindModelFlags(cmd, app)
	bindTranscriptionFlags(cmd, app)
	bindSummaryFlags(cmd, app)
	bindServerFlags(cmd.Flags(), app)

	cmd.AddCommand(newServeCmd(app))
	cmd.AddCommand(newTranscribeCmd(app))
	cmd.AddCommand(newProcessCmd(app))
	cmd.AddCommand(newSetupCmd(app))
	cmd.AddCommand(newVersionCmd(app))

	return cmd
}

func bindLoggingFlags(cmd *cobra.Command, app *appState) {
	cmd.PersistentFlags().BoolVar(&app.cfg.Verbose, "verbose", app.cfg.Verbose, "Enable verbose logs")
	cmd.PersistentFlags().BoolVar(&app.cfg.JSONLogs, "json", app.cfg.JSONLogs, "Enable JSON logging")
}

func bindProgressFlag(cmd *cobra.Command, app *appState) {
	cmd.PersistentFlags().BoolVar(&app.cfg.NoProgress, "no-progress", app.cfg.NoProgress, "Disable progress indicators")
}

func bindModelFlags(cmd *cobra.Command, app *appState) {
	cmd.PersistentFlags().StringVar(&app.cfg.Model, "model", app.cfg.Model, "Speech model name or model file path")
	cmd.PersistentFlags().StringVar(&app.cfg.ModelDir, "model-dir", app.cfg.ModelDir, "Directory where speech models are stored")
	cmd.PersistentFlags().BoolVar(&app.cfg.AutoDownload, "auto-download", app.cfg.AutoDownload, "Automatically download missing models")
}

func bindTranscriptionFlags(cmd *cobra.Command, app *appState) {
	cmd.PersistentFlags().StringVar(&app.cfg.Language, "language", app.cfg.Language, "Spoken language code (en|de|...)")
	cmd.PersistentFlags().StringVar(&app.cfg.WorkDir, "work-dir", app.cfg.WorkDir, "Directory for transient audio files")
	cmd.PersistentFlags().BoolVar(&app.cfg.SilenceGate, "silence-gate", app.cfg.SilenceGate, "Detect near-silent WAV audio and skip transcription")
	cmd.PersistentFlags().Float64Var(&app.cfg.SilenceThresholdDBFS, "silence-threshold-dbfs", app.cfg.SilenceThresholdDBFS, "Silence gate threshold in dBFS")
}

func bindSummaryFlags(cmd *cobra.Command, app *appState) {
	cmd.PersistentFlags().StringVar(&app.cfg.Provider, "provider", app.cfg.Provider, "Summarization provider: openai|gemini")
	cmd.PersistentFlags().StringVar(&app.cfg.BaseURL, "base-url", app.cfg.BaseURL, "Override the provider API base URL")
	cmd.PersistentFlags().StringVar(&app.cfg.LLMModel, "llm-model", app.cfg.LLMModel, "Summarization model; empty selects the provider default")
	cmd.PersistentFlags().Float64Var(&app.cfg.Temperature, "temperature", app.cfg.Temperature, "Sampling temperature for the summary")
	cmd.PersistentFlags().IntVar(&app.cfg.MaxTokens, "max-tokens", app.cfg.MaxTokens, "Upper bound on summary tokens")
	cmd.PersistentFlags().StringVar(&app.cfg.Template, "template", app.cfg.Template, "Summary template: general|meeting|ideas")
}

// prepare layers .env and VOXNOTE_* values under explicit flags, validates
// the result and builds the logger.
func (a *appState) prepare(cmd *cobra.Command) error {
	if _, err := config.LoadDotEnv(a.dotEnv...); err != nil {
		return err
	}
	if err := config.ApplyEnv(&a.cfg, a.env(), cmd.Flags().Changed); err != nil {
		return err
	}
	a.cfg.Language = sanitizeLanguage(a.cfg.Language)
	a.cfg.Provider = strings.ToLower(strings.TrimSpace(a.cfg.Provider))
	if err := a.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(logging.Options{Verbose: a.cfg.Verbose, JSON: a.cfg.JSONLogs})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

func (a *appState) env() func(string) (string, bool) {
	if a.lookupEnv == nil {
		return os.LookupEnv
	}
	return a.lookupEnv
}

func (a *appState) log() *zap.Logger {
	return logging.OrNop(a.logger)
}

func (a *appState) progressEnabled() bool {
	if a.cfg.NoProgress {
		return false
	}
	if a.stderrIsTerminal != nil {
		return a.stderrIsTerminal()
	}
	return term.IsTerminal(int(os.Stderr.Fd()))
}

func (a *appState) outWriter() io.Writer {
	if a.out == nil {
		return os.Stdout
	}
	return a.out
}

func sanitizeLanguage(input string) string {
	return strings.TrimSpace(strings.ToLower(input))
}
