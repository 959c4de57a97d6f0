package web

import (
	"errors"
	"net/http"

	"github.com/fmueller/voxnote/internal/pipeline"
	"github.com/fmueller/voxnote/internal/summarize"
	"github.com/fmueller/voxnote/internal/transcribe"
	"github.com/gin-gonic/gin"
)

type ErrorKind string

const (
	KindValidation      ErrorKind = "validation"
	KindBadRequest      ErrorKind = "bad_request"
	KindUnauthorized    ErrorKind = "unauthorized"
	KindPayloadTooLarge ErrorKind = "payload_too_large"
	KindTranscription   ErrorKind = "transcription_failed"
	KindSummarization   ErrorKind = "summarization_failed"
	KindInternal        ErrorKind = "internal"
)

// APIError is the JSON error body of the API routes.
type APIError struct {
	Kind       ErrorKind `json:"kind"`
	Message    string    `json:"message"`
	RequestID  string    `json:"request_id,omitempty"`
	Transcript string    `json:"transcript,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindBadRequest:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case KindTranscription, KindSummarization:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// classify maps a pipeline error onto an API error kind.
func classify(err error) *APIError {
	var (
		tooLarge     *http.MaxBytesError
		transcribeEr *transcribe.Error
		summarizeEr  *summarize.Error
	)
	switch {
	case errors.Is(err, pipeline.ErrMissingCredential):
		return &APIError{Kind: KindUnauthorized, Message: err.Error()}
	case errors.Is(err, pipeline.ErrUnsupportedFormat), errors.Is(err, pipeline.ErrNoSpeech):
		return &APIError{Kind: KindValidation, Message: err.Error()}
	case errors.Is(err, pipeline.ErrNoAudio), errors.Is(err, errBadUpload):
		return &APIError{Kind: KindBadRequest, Message: err.Error()}
	case errors.As(err, &tooLarge):
		return &APIError{Kind: KindPayloadTooLarge, Message: "audio file exceeds the upload limit"}
	case errors.As(err, &transcribeEr):
		return &APIError{Kind: KindTranscription, Message: err.Error()}
	case errors.As(err, &summarizeEr):
		return &APIError{Kind: KindSummarization, Message: err.Error()}
	default:
		return &APIError{Kind: KindInternal, Message: "internal server error"}
	}
}

func abortWithError(c *gin.Context, apiErr *APIError) {
	apiErr.RequestID = requestIDFrom(c)
	c.AbortWithStatusJSON(apiErr.HTTPStatus(), apiErr)
}
