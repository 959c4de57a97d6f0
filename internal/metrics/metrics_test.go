package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fmueller/voxnote/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestTransitionsAndOutcomes(t *testing.T) {
	t.Parallel()

	m := New()
	m.Transition(pipeline.Idle, pipeline.AwaitingSubmit)
	m.Transition(pipeline.AwaitingSubmit, pipeline.Transcribing)
	m.Transition(pipeline.Transcribing, pipeline.Failed)
	m.Finished(pipeline.Failed)

	require.InDelta(t, 1, testutil.ToFloat64(m.transitions.WithLabelValues("awaiting_submit", "transcribing")), 0)
	require.InDelta(t, 1, testutil.ToFloat64(m.outcomes.WithLabelValues("failed")), 0)
	require.InDelta(t, 0, testutil.ToFloat64(m.outcomes.WithLabelValues("awaiting_submit")), 0)
	require.InDelta(t, 0, testutil.ToFloat64(m.outcomes.WithLabelValues("done")), 0)
}

func TestStepFinishedRecordsOutcome(t *testing.T) {
	t.Parallel()

	m := New()
	m.StepFinished(pipeline.Transcribing, 2*time.Second, nil)
	m.StepFinished(pipeline.Summarizing, time.Second, errors.New("boom"))

	require.Equal(t, 2, testutil.CollectAndCount(m.steps))
}

func TestHandlerExposesRegisteredSeries(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveRequest("POST", "/process", 200, 150*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `voxnote_http_requests_total{code="200",method="POST",route="/process"} 1`)
	require.Contains(t, string(body), "go_goroutines")
}
