package summarize

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fmueller/voxnote/internal/logging"
	"go.uber.org/zap"
)

const (
	DefaultTemperature float32 = 0.3
	DefaultMaxTokens           = 500
)

// Error wraps every failure of a summarization call.
type Error struct {
	Err error
}

func (e *Error) Error() string {
	return "summarization failed: " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Options struct {
	Provider    Provider
	Model       string
	Temperature float32
	MaxTokens   int
	Template    Template
	Logger      *zap.Logger
}

type Service struct {
	opts Options
}

func New(opts Options) *Service {
	if opts.Provider == nil {
		opts.Provider = NewOpenAIProvider("")
	}
	if opts.Model == "" {
		opts.Model = DefaultModel(opts.Provider.Name())
	}
	if opts.Temperature == 0 {
		opts.Temperature = DefaultTemperature
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.Template.Body == "" {
		opts.Template = templates[TemplateGeneral]
	}
	opts.Logger = logging.OrNop(opts.Logger)
	return &Service{opts: opts}
}

func (s *Service) Template() Template {
	return s.opts.Template
}

// Summarize sends text, wrapped in the configured template, to the provider
// using credential for this call only.
func (s *Service) Summarize(ctx context.Context, text, credential string) (string, error) {
	logger := s.opts.Logger.With(
		zap.String("provider", s.opts.Provider.Name()),
		zap.String("model", s.opts.Model),
		zap.String("template", s.opts.Template.Name),
	)
	logger.Info("summarizing...", zap.Int("chars", len(text)))

	started := time.Now()
	summary, err := s.opts.Provider.Complete(ctx, Completion{
		Credential:  credential,
		Model:       s.opts.Model,
		System:      SystemInstruction,
		User:        s.opts.Template.Render(text),
		Temperature: s.opts.Temperature,
		MaxTokens:   s.opts.MaxTokens,
	})
	if err == nil && strings.TrimSpace(summary) == "" {
		err = errors.New("provider returned an empty summary")
	}
	if err != nil {
		logger.Warn("summarization failed", zap.Duration("elapsed", time.Since(started)), zap.Error(err))
		return "", &Error{Err: err}
	}

	logger.Info("summarization finished", zap.Duration("elapsed", time.Since(started)))
	return strings.TrimSpace(summary), nil
}
