package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fmueller/voxnote/internal/artifact"
	"github.com/fmueller/voxnote/internal/audio"
	"github.com/fmueller/voxnote/internal/logging"
	"github.com/fmueller/voxnote/internal/transcribe"
	"go.uber.org/zap"
)

var (
	ErrNoAudio           = errors.New("no audio file uploaded")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrMissingCredential = errors.New("an API key is required to summarize")
	ErrNoSpeech          = errors.New("no speech detected in the recording")
)

type Transcriber interface {
	Transcribe(ctx context.Context, blob transcribe.AudioBlob) (string, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, text, credential string) (string, error)
}

// Observer is told about every stage change, each finished transcription or
// summarization step, and the stage a run ended in.
type Observer interface {
	Transition(from, to Stage)
	StepFinished(step Stage, elapsed time.Duration, err error)
	Finished(stage Stage)
}

type Options struct {
	Transcriber Transcriber
	Summarizer  Summarizer
	Observer    Observer
	Logger      *zap.Logger
}

type Pipeline struct {
	transcriber Transcriber
	summarizer  Summarizer
	observer    Observer
	logger      *zap.Logger
}

type Request struct {
	Audio      *transcribe.AudioBlob
	Credential string
}

type Result struct {
	Stage      Stage
	Transcript string
	Summary    string
	Artifact   string
	Err        error
}

func New(opts Options) *Pipeline {
	p := &Pipeline{
		transcriber: opts.Transcriber,
		summarizer:  opts.Summarizer,
		observer:    opts.Observer,
		logger:      logging.OrNop(opts.Logger),
	}
	if p.observer == nil {
		p.observer = nopObserver{}
	}
	return p
}

// Run drives one request to a terminal stage. Neither service is called
// unless a supported file and a non-blank credential are both present, and
// a blank transcript ends the run before summarization.
func (p *Pipeline) Run(ctx context.Context, req Request) Result {
	result := p.run(ctx, req)
	p.observer.Finished(result.Stage)
	return result
}

func (p *Pipeline) run(ctx context.Context, req Request) Result {
	r := &run{p: p, result: Result{Stage: Idle}}

	if req.Audio == nil {
		r.advance(AwaitingUpload)
		r.result.Err = ErrNoAudio
		return r.result
	}
	r.advance(AwaitingSubmit)

	if !audio.IsSupported(req.Audio.Filename) {
		return r.fail(fmt.Errorf("%w %q (supported: %s)", ErrUnsupportedFormat, req.Audio.Filename, strings.Join(audio.SupportedExtensions, ", ")))
	}
	if strings.TrimSpace(req.Credential) == "" {
		r.result.Err = ErrMissingCredential
		return r.result
	}

	r.advance(Transcribing)
	started := time.Now()
	transcript, err := p.transcriber.Transcribe(ctx, *req.Audio)
	if err == nil && strings.TrimSpace(transcript) == "" {
		err = &transcribe.Error{Err: ErrNoSpeech}
	}
	p.observer.StepFinished(Transcribing, time.Since(started), err)
	if err != nil {
		return r.fail(err)
	}
	r.result.Transcript = transcript
	r.advance(Transcribed)

	r.advance(Summarizing)
	started = time.Now()
	summary, err := p.summarizer.Summarize(ctx, transcript, req.Credential)
	p.observer.StepFinished(Summarizing, time.Since(started), err)
	if err != nil {
		return r.fail(err)
	}
	r.result.Summary = summary
	r.advance(Summarized)

	r.result.Artifact = artifact.Build(transcript, summary)
	r.advance(Done)
	return r.result
}

type run struct {
	p      *Pipeline
	result Result
}

func (r *run) advance(to Stage) {
	from := r.result.Stage
	if to <= from {
		panic(fmt.Sprintf("pipeline: illegal transition %s -> %s", from, to))
	}
	r.result.Stage = to
	r.p.observer.Transition(from, to)
	r.p.logger.Debug("stage changed", zap.Stringer("from", from), zap.Stringer("to", to))
}

func (r *run) fail(err error) Result {
	r.p.logger.Warn("voice note failed", zap.Stringer("stage", r.result.Stage), zap.Error(err))
	r.advance(Failed)
	r.result.Err = err
	return r.result
}

type nopObserver struct{}

func (nopObserver) Transition(Stage, Stage)                  {}
func (nopObserver) StepFinished(Stage, time.Duration, error) {}
func (nopObserver) Finished(Stage)                           {}
