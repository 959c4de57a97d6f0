package cli

import (
	"testing"
	"time"

	"github.com/fmueller/voxnote/internal/pipeline"
	"github.com/stretchr/testify/require"
)

func TestStartSpinnerEnabled(t *testing.T) {
	t.Parallel()
	spin := startSpinner(true, "testing")
	require.NotNil(t, spin)
	spin.Describe("still testing")
	spin.Stop()
	spin.Stop()
}

func TestStartSpinnerDisabled(t *testing.T) {
	t.Parallel()
	spin := startSpinner(false, "testing")
	require.Nil(t, spin)
	spin.Describe("ignored")
	spin.Stop()
}

func TestSpinnerObservesPipeline(t *testing.T) {
	t.Parallel()

	var observer pipeline.Observer = startSpinner(true, "Processing")
	observer.Transition(pipeline.AwaitingSubmit, pipeline.Transcribing)
	observer.StepFinished(pipeline.Transcribing, time.Second, nil)
	observer.Transition(pipeline.Transcribed, pipeline.Summarizing)
	observer.Finished(pipeline.Done)

	var silent *spinner
	observer = silent
	observer.Transition(pipeline.Idle, pipeline.AwaitingUpload)
	observer.Finished(pipeline.AwaitingUpload)
}
