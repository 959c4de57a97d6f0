package pipeline

import "fmt"

// Stage is the position of one request in the upload, transcribe,
// summarize flow. A run only ever moves forward.
type Stage int

const (
	Idle Stage = iota
	AwaitingUpload
	AwaitingSubmit
	Transcribing
	Transcribed
	Summarizing
	Summarized
	Done
	Failed
)

var stageNames = [...]string{
	Idle:           "idle",
	AwaitingUpload: "awaiting_upload",
	AwaitingSubmit: "awaiting_submit",
	Transcribing:   "transcribing",
	Transcribed:    "transcribed",
	Summarizing:    "summarizing",
	Summarized:     "summarized",
	Done:           "done",
	Failed:         "failed",
}

func (s Stage) String() string {
	if s < 0 || int(s) >= len(stageNames) {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
