package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/fmueller/voxnote/internal/artifact"
	"github.com/fmueller/voxnote/internal/pipeline"
	"github.com/fmueller/voxnote/internal/summarize"
	"github.com/fmueller/voxnote/internal/transcribe"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type handlers struct {
	pipeline *pipeline.Pipeline
	sessions *SessionStore
	logger   *zap.Logger
	version  string
	page     pageData
}

type noteResponse struct {
	Stage      pipeline.Stage `json:"stage"`
	Transcript string         `json:"transcript"`
	Summary    string         `json:"summary"`
	Artifact   string         `json:"artifact"`
	RequestID  string         `json:"request_id,omitempty"`
}

func (h *handlers) index(c *gin.Context) {
	data := h.pageFor(c)
	data.ShowHelp = true
	c.HTML(http.StatusOK, indexTemplate, data)
}

func (h *handlers) process(c *gin.Context) {
	blob, err := readUpload(c)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.uploadTooLarge(c)
			return
		}
		apiErr := classify(err)
		data := h.pageFor(c)
		data.Error = apiErr.Message
		c.HTML(apiErr.HTTPStatus(), indexTemplate, data)
		return
	}

	id := c.GetString(sessionKey)
	if key := strings.TrimSpace(c.PostForm("api_key")); key != "" {
		h.sessions.SetCredential(id, key)
	}

	result := h.pipeline.Run(c.Request.Context(), pipeline.Request{
		Audio:      blob,
		Credential: h.sessions.Credential(id),
	})

	data := h.pageFor(c)
	data.AudioPreview = audioPreview(blob)
	status := http.StatusOK

	switch result.Stage {
	case pipeline.AwaitingUpload:
		data.Error = "Please upload an audio file first."
		data.ShowHelp = true
	case pipeline.AwaitingSubmit:
		data.Error = fmt.Sprintf("Please enter your %s API key!", h.page.ProviderLabel)
	case pipeline.Failed:
		status = classify(result.Err).HTTPStatus()
		h.renderFailure(c, &data, result)
	case pipeline.Done:
		data.Successes = []string{"Transcription complete!", "Summary generated!"}
		data.HasTranscript = true
		data.Transcript = result.Transcript
		data.Done = true
		data.Summary = result.Summary
		html, err := renderMarkdown(result.Summary)
		if err != nil {
			h.logger.Warn("render summary markdown", zap.Error(err))
			html = ""
		}
		data.SummaryHTML = html
	}

	c.HTML(status, indexTemplate, data)
}

// uploadTooLarge renders the form again with a size error. limitBody calls it
// before the body is read when Content-Length already exceeds the cap.
func (h *handlers) uploadTooLarge(c *gin.Context) {
	data := h.pageFor(c)
	data.Error = fmt.Sprintf("The audio file exceeds the %d MB upload limit.", h.page.MaxUploadMB)
	c.HTML(http.StatusRequestEntityTooLarge, indexTemplate, data)
}

func (h *handlers) renderFailure(c *gin.Context, data *pageData, result pipeline.Result) {
	h.logger.Warn("voice note processing failed",
		zap.String("request_id", requestIDFrom(c)),
		zap.Error(result.Err),
	)

	var summarizeErr *summarize.Error
	var transcribeErr *transcribe.Error
	switch {
	case errors.As(result.Err, &summarizeErr):
		data.Successes = []string{"Transcription complete!"}
		data.HasTranscript = true
		data.Transcript = result.Transcript
		data.Error = "Failed to generate summary: " + summarizeErr.Err.Error()
		data.Hint = summarizationHint
	case errors.Is(result.Err, pipeline.ErrNoSpeech):
		data.Error = "Failed to transcribe audio. Please check your file and try again."
		data.Hint = noSpeechHint
	case errors.As(result.Err, &transcribeErr):
		data.Error = "Failed to transcribe audio: " + transcribeErr.Err.Error()
	default:
		data.Error = "An error occurred: " + result.Err.Error()
	}
}

func (h *handlers) download(c *gin.Context) {
	transcript := normalizeNewlines(c.PostForm("transcript"))
	summary := normalizeNewlines(c.PostForm("summary"))

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.FileName))
	c.Data(http.StatusOK, artifact.ContentType, []byte(artifact.Build(transcript, summary)))
}

func (h *handlers) createNote(c *gin.Context) {
	blob, err := readUpload(c)
	if err != nil {
		abortWithError(c, classify(err))
		return
	}

	result := h.pipeline.Run(c.Request.Context(), pipeline.Request{
		Audio:      blob,
		Credential: bearerCredential(c),
	})
	if result.Err != nil {
		apiErr := classify(result.Err)
		apiErr.Transcript = result.Transcript
		if apiErr.Kind == KindInternal {
			h.logger.Error("unexpected pipeline error", zap.String("request_id", requestIDFrom(c)), zap.Error(result.Err))
		}
		abortWithError(c, apiErr)
		return
	}

	c.JSON(http.StatusOK, noteResponse{
		Stage:      result.Stage,
		Transcript: result.Transcript,
		Summary:    result.Summary,
		Artifact:   result.Artifact,
		RequestID:  requestIDFrom(c),
	})
}

func (h *handlers) healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "version": h.version})
}

func (h *handlers) pageFor(c *gin.Context) pageData {
	data := h.page
	data.HasCredential = h.sessions.Credential(c.GetString(sessionKey)) != ""
	return data
}

// readUpload returns the "audio" form file, or nil when the request carries
// none.
func readUpload(c *gin.Context) (*transcribe.AudioBlob, error) {
	header, err := c.FormFile("audio")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", errBadUpload, err)
	}

	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadUpload, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errBadUpload, err)
	}
	return &transcribe.AudioBlob{Filename: header.Filename, Data: data}, nil
}

var errBadUpload = errors.New("could not read uploaded audio")

func bearerCredential(c *gin.Context) string {
	if auth := c.GetHeader("Authorization"); auth != "" {
		if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(c.PostForm("api_key"))
}

func normalizeNewlines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}
