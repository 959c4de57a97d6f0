package web

import (
	"bytes"
	"embed"
	"encoding/base64"
	"html/template"
	"strings"

	"github.com/fmueller/voxnote/internal/audio"
	"github.com/fmueller/voxnote/internal/summarize"
	"github.com/fmueller/voxnote/internal/transcribe"
	"github.com/samber/lo"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.html
var templateFS embed.FS

const indexTemplate = "index.html"

// previewLimit bounds the upload size that is echoed back for playback.
const previewLimit = 10 << 20

const (
	summarizationHint = "Make sure your API key is valid and you have sufficient credits."
	noSpeechHint      = "No speech was detected. Check that the recording is not muted or empty."
)

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

func parseTemplates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}

type pageData struct {
	ProviderLabel string
	Version       string
	Accept        string
	FormatsLabel  string
	MaxUploadMB   int64
	HasCredential bool

	ShowHelp      bool
	Successes     []string
	Error         string
	Hint          string
	HasTranscript bool
	Transcript    string
	Done          bool
	Summary       string
	SummaryHTML   template.HTML
	AudioPreview  template.URL
}

func providerLabel(name string) string {
	if strings.EqualFold(name, summarize.ProviderGemini) {
		return "Gemini"
	}
	return "OpenAI"
}

func formatsLabel() string {
	return strings.Join(lo.Map(audio.SupportedExtensions, func(ext string, _ int) string {
		return strings.ToUpper(ext)
	}), ", ")
}

// renderMarkdown converts model output to HTML. goldmark's default renderer
// drops raw HTML blocks and leaves a "raw HTML omitted" comment in their place.
func renderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// audioPreview inlines the upload as a data URL so the result page can replay
// it. Unsupported or oversized uploads get no player source.
func audioPreview(blob *transcribe.AudioBlob) template.URL {
	if blob == nil || len(blob.Data) == 0 || len(blob.Data) > previewLimit {
		return ""
	}
	mime := audio.MIMEType(blob.Filename)
	if mime == "" {
		return ""
	}
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(blob.Data))
}
