package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fmueller/voxnote/internal/download"
	"github.com/fmueller/voxnote/internal/platform"
	"github.com/fmueller/voxnote/internal/whisper"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSetupCmd(app *appState) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Download and verify speech model assets",
		Long:  "Download and verify speech model assets.\n\nAvailable models: " + strings.Join(whisper.ModelNames(), ", "),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.installModel(cmd.Context(), cmd.OutOrStdout(), force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Download the model even when a verified copy is present")
	return cmd
}

func (a *appState) installModel(ctx context.Context, out io.Writer, force bool) error {
	model, err := a.resolveNamedModel()
	if err != nil {
		return err
	}

	if !model.NeedsDownload && !force {
		verifyErr := download.VerifyFileChecksum(model.Path, model.SHA256)
		if verifyErr == nil {
			a.log().Info("model already present", zap.String("model", model.Name), zap.String("path", model.Path))
			fmt.Fprintf(out, "Model %s already present at %s\n", model.Name, model.Path)
			return nil
		}
		a.log().Warn("model checksum verification failed; downloading fresh copy", zap.String("model", model.Name), zap.Error(verifyErr))
	}

	a.log().Info("downloading model", zap.String("model", model.Name), zap.String("url", model.URL))
	err = download.File(ctx, download.Options{
		URL:            model.URL,
		Destination:    model.Path,
		ExpectedSHA256: model.SHA256,
		NoProgress:     !a.progressEnabled(),
		Logger:         a.log(),
	})
	if err != nil {
		return fmt.Errorf("download model %s: %w", model.Name, err)
	}

	fmt.Fprintf(out, "Model %s installed at %s\n", model.Name, model.Path)
	return nil
}

// resolveNamedModel resolves the configured model inside the model directory.
// Custom model paths are rejected; there is nothing to download for them.
func (a *appState) resolveNamedModel() (whisper.ResolvedModel, error) {
	dir, err := platform.ResolveModelDir(a.cfg.ModelDir)
	if err != nil {
		return whisper.ResolvedModel{}, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return whisper.ResolvedModel{}, fmt.Errorf("create model directory %s: %w", dir, err)
	}

	model, err := whisper.ResolveModel(a.cfg.Model, dir)
	if err != nil {
		return whisper.ResolvedModel{}, err
	}
	if model.IsCustomPath {
		return whisper.ResolvedModel{}, fmt.Errorf("setup expects a named model; got custom path %s", model.Path)
	}
	return model, nil
}
