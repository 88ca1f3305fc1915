package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ytget/audiofixture/internal/verify"
)

func newVerifyCommand(app *App) *cobra.Command {
	var (
		probe     bool
		tolerance float64
	)
	cmd := &cobra.Command{
		Use:   "verify [dir]",
		Short: "Check generated files for tags, covers and duration",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			dir := cfg.OutputDir
			if len(args) == 1 {
				dir = args[0]
			}

			opts := verify.Options{Tolerance: tolerance, Logger: app.logger}
			if cfg.Cover.Enabled {
				opts.CoverFormats = cfg.Cover.Formats
			}
			if probe {
				opts.Prober = app.newEncoder(cfg)
				opts.Duration = cfg.Duration
			}

			result, err := verify.Run(cmd.Context(), dir, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, issue := range result.Issues {
				fmt.Fprintln(out, issue.String())
			}
			fmt.Fprintf(out, "Checked %d files, %d issues\n", result.Files, len(result.Issues))
			if !result.OK() {
				return fmt.Errorf("verification found %d issues", len(result.Issues))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&probe, "probe", false, "check durations with ffprobe")
	cmd.Flags().Float64Var(&tolerance, "tolerance", verify.DefaultTolerance, "accepted duration drift in seconds")
	return cmd
}
