package cli

import (
	"os"
	"sync"
	"time"

	"github.com/fmueller/voxnote/internal/pipeline"
	"github.com/schollz/progressbar/v3"
)

var stageLabels = map[pipeline.Stage]string{
	pipeline.Transcribing: "Transcribing audio",
	pipeline.Summarizing:  "Generating summary and action items",
}

// spinner is a TTY progress indicator. A nil spinner is valid and silent,
// and it doubles as a pipeline.Observer that relabels itself per stage.
type spinner struct {
	bar    *progressbar.ProgressBar
	stopCh chan struct{}
	doneCh chan struct{}
	once   sync.Once
}

func startSpinner(enabled bool, description string) *spinner {
	if !enabled {
		return nil
	}

	s := &spinner{
		bar: progressbar.NewOptions(
			-1,
			progressbar.OptionSetDescription(description),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionSpinnerType(14),
			progressbar.OptionThrottle(80*time.Millisecond),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}

	go func() {
		defer close(s.doneCh)
		ticker := time.NewTicker(120 * time.Millisecond)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopCh:
				_ = s.bar.Finish()
				return
			case <-ticker.C:
				_ = s.bar.Add(1)
			}
		}
	}()
	return s
}

func (s *spinner) Describe(description string) {
	if s == nil {
		return
	}
	s.bar.Describe(description)
}

func (s *spinner) Stop() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		close(s.stopCh)
		<-s.doneCh
	})
}

func (s *spinner) Transition(_, to pipeline.Stage) {
	if label, ok := stageLabels[to]; ok {
		s.Describe(label)
	}
}

func (s *spinner) StepFinished(pipeline.Stage, time.Duration, error) {}

func (s *spinner) Finished(pipeline.Stage) {
	s.Stop()
}
