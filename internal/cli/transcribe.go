package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fmueller/voxnote/internal/audio"
	"github.com/fmueller/voxnote/internal/transcribe"
	"github.com/spf13/cobra"
)

func newTranscribeCmd(app *appState) *cobra.Command {
	return &cobra.Command{
		Use:   "transcribe <audio-file>",
		Short: "Transcribe an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := readAudioFile(args[0])
			if err != nil {
				return err
			}

			transcriber, err := app.transcriberFn()
			if err != nil {
				return err
			}

			spin := startSpinner(app.progressEnabled(), "Transcribing")
			transcript, err := transcriber.Transcribe(cmd.Context(), *blob)
			spin.Stop()
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), transcript)
			app.warnOnSilence(transcript)
			return nil
		},
	}
}

// readAudioFile loads a local file the same way an upload arrives.
func readAudioFile(path string) (*transcribe.AudioBlob, error) {
	path = filepath.Clean(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("audio file not found: %w", err)
	}
	if !audio.IsSupported(path) {
		return nil, fmt.Errorf("unsupported audio format %q; supported: %s", filepath.Ext(path), audio.AcceptAttribute())
	}
	return &transcribe.AudioBlob{Filename: filepath.Base(path), Data: data}, nil
}
