package web

import (
	"github.com/fmueller/voxnote/internal/audio"
	"github.com/fmueller/voxnote/internal/logging"
	"github.com/fmueller/voxnote/internal/metrics"
	"github.com/fmueller/voxnote/internal/pipeline"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// formSlack covers the non-file form fields sent next to an upload.
const formSlack = 1 << 20

type Options struct {
	Pipeline       *pipeline.Pipeline
	Sessions       *SessionStore
	Metrics        *metrics.Metrics
	Logger         *zap.Logger
	Provider       string
	Version        string
	MaxUploadBytes int64
}

func NewRouter(opts Options) *gin.Engine {
	logger := logging.OrNop(opts.Logger)
	sessions := opts.Sessions
	if sessions == nil {
		sessions = NewSessionStore(0)
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 25 << 20
	}

	h := &handlers{
		pipeline: opts.Pipeline,
		sessions: sessions,
		logger:   logger,
		version:  opts.Version,
		page: pageData{
			ProviderLabel: providerLabel(opts.Provider),
			Version:       opts.Version,
			Accept:        audio.AcceptAttribute(),
			FormatsLabel:  formatsLabel(),
			MaxUploadMB:   opts.MaxUploadBytes >> 20,
		},
	}

	var observer requestObserver
	if opts.Metrics != nil {
		observer = opts.Metrics
	}

	r := gin.New()
	r.MaxMultipartMemory = opts.MaxUploadBytes
	r.SetHTMLTemplate(parseTemplates())
	r.Use(requestID(), accessLog(logger, observer), recovery(logger))

	bodyLimit := opts.MaxUploadBytes + formSlack
	limit := limitBody(bodyLimit, rejectTooLarge)

	r.GET("/healthz", h.healthz)
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))
	}

	pages := r.Group("/", sessionID())
	pages.GET("/", h.index)
	pages.POST("/process", limitBody(bodyLimit, h.uploadTooLarge), h.process)
	r.POST("/download", limit, h.download)

	api := r.Group("/api/v1")
	api.POST("/notes", limit, h.createNote)

	return r
}
