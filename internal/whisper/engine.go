package whisper

import "context"

type Task string

const (
	TaskTranscribe Task = "transcribe"
	TaskTranslate  Task = "translate"
)

type Request struct {
	AudioPath string
	ModelPath string
	Language  string
	Task      Task
	// NoGPU keeps inference on the CPU in full precision.
	NoGPU bool
}

type Engine interface {
	Transcribe(ctx context.Context, req Request) (string, error)
}
