package audio

import (
	"path/filepath"
	"strings"

	"github.com/samber/lo"
)

// SupportedExtensions is the upload allow-list, without leading dots.
var SupportedExtensions = []string{"wav", "mp3", "m4a", "ogg"}

var mimeTypes = map[string]string{
	"wav": "audio/wav",
	"mp3": "audio/mpeg",
	"m4a": "audio/mp4",
	"ogg": "audio/ogg",
}

func Extension(filename string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(strings.TrimSpace(filename))), ".")
}

func IsSupported(filename string) bool {
	return lo.Contains(SupportedExtensions, Extension(filename))
}

// MIMEType returns the media type a browser plays filename as, or "" for
// extensions outside the allow-list.
func MIMEType(filename string) string {
	return mimeTypes[Extension(filename)]
}

func NeedsConversion(filename string) bool {
	return Extension(filename) != "wav"
}

// AcceptAttribute renders the extension list for an HTML file input.
func AcceptAttribute() string {
	return strings.Join(lo.Map(SupportedExtensions, func(ext string, _ int) string {
		return "." + ext
	}), ",")
}
