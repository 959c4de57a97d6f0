package artifact

import (
	"errors"
	"strings"
)

const (
	FileName    = "voice_note_summary.txt"
	ContentType = "text/plain; charset=utf-8"

	transcriptHeader = "TRANSCRIPTION:\n\n"
	summaryHeader    = "SUMMARY:\n\n"
)

// Separator is the rule between the transcript and summary sections.
var Separator = strings.Repeat("=", 50)

var ErrMalformed = errors.New("malformed voice note artifact")

func Build(transcript, summary string) string {
	var b strings.Builder
	b.Grow(len(transcriptHeader) + len(transcript) + len(Separator) + len(summaryHeader) + len(summary) + 4)
	b.WriteString(transcriptHeader)
	b.WriteString(transcript)
	b.WriteString("\n\n")
	b.WriteString(Separator)
	b.WriteString("\n\n")
	b.WriteString(summaryHeader)
	b.WriteString(summary)
	return b.String()
}

// Parse recovers the transcript and summary written by Build. The last
// separator block wins, so a transcript that itself contains a rule of
// equals signs still round-trips as long as the summary does not.
func Parse(content string) (transcript, summary string, err error) {
	rest, ok := strings.CutPrefix(content, transcriptHeader)
	if !ok {
		return "", "", ErrMalformed
	}

	divider := "\n\n" + Separator + "\n\n" + summaryHeader
	idx := strings.LastIndex(rest, divider)
	if idx < 0 {
		return "", "", ErrMalformed
	}
	return rest[:idx], rest[idx+len(divider):], nil
}
