package cli

import "strings"

const noSpeechHint = "No speech detected. Check that the recording is not muted or empty, then try again."

func (a *appState) warnOnSilence(transcript string) {
	if strings.TrimSpace(transcript) == "" {
		a.log().Warn(noSpeechHint)
	}
}
