package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ytget/audiofixture/internal/generate"
)

func newPlanCommand(app *App) *cobra.Command {
	var seed int64
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Print the folder tree and estimates without encoding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = seed
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			resolved := generate.ResolveSeed(cfg.Seed)
			roots := generate.Plan(cfg, generate.NewSeededRNG(resolved))

			out := cmd.OutOrStdout()
			printBanner(out, cfg, resolved)
			printTree(out, roots)
			return nil
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	return cmd
}
