package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fmueller/voxnote/internal/clipboard"
	"github.com/fmueller/voxnote/internal/config"
	"github.com/fmueller/voxnote/internal/pipeline"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newProcessCmd(app *appState) *cobra.Command {
	var (
		apiKey string
		output string
		clip   bool
	)

	cmd := &cobra.Command{
		Use:   "process <audio-file>",
		Short: "Transcribe and summarize an audio file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			blob, err := readAudioFile(args[0])
			if err != nil {
				return err
			}

			credential := strings.TrimSpace(apiKey)
			if credential == "" {
				credential = config.CredentialFromEnv(app.cfg.Provider, app.env())
			}

			spin := startSpinner(app.progressEnabled(), "Processing")
			p, err := app.newPipeline(spin)
			if err != nil {
				spin.Stop()
				return err
			}
			result := p.Run(cmd.Context(), pipeline.Request{Audio: blob, Credential: credential})
			spin.Stop()

			if errors.Is(result.Err, pipeline.ErrMissingCredential) {
				return fmt.Errorf("%w; pass --api-key or set %s", result.Err, config.CredentialEnvName(app.cfg.Provider))
			}
			if errors.Is(result.Err, pipeline.ErrNoSpeech) {
				app.log().Warn(noSpeechHint)
				return result.Err
			}
			if result.Err != nil {
				if result.Transcript != "" {
					fmt.Fprintln(cmd.OutOrStdout(), result.Transcript)
				}
				return result.Err
			}

			if output == "" {
				fmt.Fprintln(cmd.OutOrStdout(), result.Artifact)
			} else {
				if err := writeArtifact(output, result.Artifact); err != nil {
					return err
				}
				app.log().Info("summary written", zap.String("path", output))
			}

			if clip {
				app.copySummary(cmd.Context(), result.Summary)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&apiKey, "api-key", "", "Provider API key; defaults to OPENAI_API_KEY or GEMINI_API_KEY")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the summary file here instead of stdout")
	cmd.Flags().BoolVar(&clip, "copy", false, "Also copy the summary to the clipboard")
	return cmd
}

// copySummary never fails the command; the summary is already on stdout or on disk.
func (a *appState) copySummary(ctx context.Context, summary string) {
	if err := a.copyFn(ctx, summary); err != nil {
		if errors.Is(err, clipboard.ErrUnavailable) {
			a.log().Warn("clipboard tool unavailable; summary not copied")
			return
		}
		a.log().Warn("failed to copy summary to clipboard", zap.Error(err))
		return
	}
	a.log().Info("summary copied to clipboard")
}

func writeArtifact(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
