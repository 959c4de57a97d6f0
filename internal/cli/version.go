package cli

import (
	"fmt"
	"strings"

	"github.com/fmueller/voxnote/internal/summarize"
	"github.com/fmueller/voxnote/internal/version"
	"github.com/fmueller/voxnote/internal/whisper"
	"github.com/spf13/cobra"
)

func newVersionCmd(app *appState) *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "voxnote %s\n", version.Details())
			if !verbose {
				return nil
			}

			fmt.Fprintf(out, "speech model:   %s (available: %s)\n", app.cfg.Model, strings.Join(whisper.ModelNames(), ", "))
			fmt.Fprintf(out, "summary model:  %s via %s\n", app.cfg.SummaryModel(), app.cfg.Provider)
			fmt.Fprintf(out, "templates:      %s (active: %s)\n", strings.Join(summarize.TemplateNames(), ", "), app.cfg.Template)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "all", "a", false, "Also print the configured speech and summary models")
	return cmd
}
