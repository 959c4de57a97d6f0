package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/fmueller/voxnote/internal/metrics"
	"github.com/fmueller/voxnote/internal/pipeline"
	"github.com/fmueller/voxnote/internal/version"
	"github.com/fmueller/voxnote/internal/web"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

func newServeCmd(app *appState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the voice note web app",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.runServe(cmd.Context())
		},
	}
	bindServerFlags(cmd.Flags(), app)
	return cmd
}

func bindServerFlags(flags *pflag.FlagSet, app *appState) {
	flags.StringVar(&app.cfg.Addr, "addr", app.cfg.Addr, "Listen address")
	flags.Int64Var(&app.cfg.MaxUploadMB, "max-upload-mb", app.cfg.MaxUploadMB, "Largest accepted upload in megabytes")
	flags.DurationVar(&app.cfg.ShutdownTimeout, "shutdown-timeout", app.cfg.ShutdownTimeout, "Grace period for in-flight requests on shutdown")
}

func (a *appState) runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.preflightFn(ctx); err != nil {
		return err
	}

	handler, err := a.newHandler()
	if err != nil {
		return err
	}

	a.log().Info("starting server",
		zap.String("addr", a.cfg.Addr),
		zap.String("provider", a.cfg.Provider),
		zap.String("llm_model", a.cfg.SummaryModel()),
		zap.String("template", a.cfg.Template),
		zap.String("speech_model", a.cfg.Model),
	)
	srv := web.NewServer(a.cfg.Addr, handler, a.cfg.ShutdownTimeout, a.log())
	return a.serveFn(ctx, srv)
}

func (a *appState) newHandler() (*gin.Engine, error) {
	m := metrics.New()
	p, err := a.newPipeline(m)
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	return web.NewRouter(web.Options{
		Pipeline:       p,
		Sessions:       web.NewSessionStore(0),
		Metrics:        m,
		Logger:         a.log(),
		Provider:       a.cfg.Provider,
		Version:        version.Resolve(),
		MaxUploadBytes: a.cfg.MaxUploadBytes(),
	}), nil
}

func (a *appState) newPipeline(observer pipeline.Observer) (*pipeline.Pipeline, error) {
	transcriber, err := a.transcriberFn()
	if err != nil {
		return nil, err
	}
	summarizer, err := a.summarizerFn()
	if err != nil {
		return nil, err
	}
	return pipeline.New(pipeline.Options{
		Transcriber: transcriber,
		Summarizer:  summarizer,
		Observer:    observer,
		Logger:      a.log(),
	}), nil
}
