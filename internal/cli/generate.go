package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ytget/audiofixture/internal/config"
	"github.com/ytget/audiofixture/internal/generate"
	"github.com/ytget/audiofixture/internal/model"
	"github.com/ytget/audiofixture/internal/platform"
	"github.com/ytget/audiofixture/internal/report"
	"github.com/ytget/audiofixture/internal/store"
)

// ConfirmPrompt is asked before any file is written
const ConfirmPrompt = "Start generation? (y/N): "

// generateOptions holds the generate flags
type generateOptions struct {
	yes          bool
	jobs         int
	seed         int64
	noCover      bool
	playlistJSON bool
	seedDB       string
	dryRun       bool
	open         bool
	openReport   bool
	duration     float64
}

func registerGenerateFlags(cmd *cobra.Command, opts *generateOptions) {
	flags := cmd.Flags()
	flags.BoolVarP(&opts.yes, "yes", "y", false, "skip the confirmation prompt")
	flags.IntVarP(&opts.jobs, "jobs", "j", config.DefaultJobs, "concurrent encoder processes")
	flags.Int64Var(&opts.seed, "seed", 0, "random seed (0 picks one and logs it)")
	flags.BoolVar(&opts.noCover, "no-cover", false, "do not embed cover images")
	flags.BoolVar(&opts.playlistJSON, "playlist-json", false, "write playlist.json into every folder")
	flags.StringVar(&opts.seedDB, "seed-db", "", "seed the player's playlist database at this path")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print the plan without encoding")
	flags.BoolVar(&opts.open, "open", false, "open the output directory when done")
	flags.BoolVar(&opts.openReport, "open-report", false, "open the report with the default application when done")
	flags.Float64Var(&opts.duration, "duration", config.DefaultDuration, "tone duration in seconds")
}

func newGenerateCommand(app *App) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the fixture tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runGenerate(cmd, opts)
		},
	}
	registerGenerateFlags(cmd, opts)
	return cmd
}

// apply copies explicitly set flags over cfg
func (o *generateOptions) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("jobs") {
		cfg.Jobs = o.jobs
	}
	if flags.Changed("seed") {
		cfg.Seed = o.seed
	}
	if flags.Changed("duration") {
		cfg.Duration = o.duration
	}
	if o.noCover {
		cfg.Cover.Enabled = false
	}
	if o.playlistJSON {
		cfg.PlaylistJSON = true
	}
	if o.seedDB != "" {
		cfg.SeedDB.Path = o.seedDB
	}
}

func (a *App) runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	opts.apply(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// the database stores UUIDs the player reads from playlist.json
	if cfg.SeedDB.Path != "" && !cfg.PlaylistJSON {
		a.logger.Info("enabling playlist.json because the seed database needs it")
		cfg.PlaylistJSON = true
	}

	enc := a.newEncoder(cfg)
	if !opts.dryRun {
		if err := enc.CheckAvailable(ctx); err != nil {
			return fmt.Errorf("ffmpeg is required, install it and make sure it is on PATH: %w", err)
		}
	}

	seed := generate.ResolveSeed(cfg.Seed)
	a.logger.Info("using seed", zap.Int64("seed", seed))
	rng := generate.NewSeededRNG(seed)
	roots := generate.Plan(cfg, rng)

	printBanner(out, cfg, seed)
	if opts.dryRun {
		printTree(out, roots)
		return nil
	}

	if !opts.yes {
		ok, err := confirm(cmd.InOrStdin(), out, ConfirmPrompt)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, "Cancelled")
			return nil
		}
	}

	if err := platform.CreateDirectoryIfNotExists(cfg.OutputDir); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	fmt.Fprintln(out, "\nGenerating test files...")
	service := generate.NewService(generate.Options{
		Encoder: enc,
		Config:  cfg,
		Seed:    seed,
		Logger:  a.logger,
		Now:     a.Now,
	})
	service.SetUpdateCallback(trackLogger(a.logger, roots))
	summary, err := service.Run(ctx, roots)
	if summary != nil {
		printSummary(out, summary)
	}
	if err != nil {
		return fmt.Errorf("generation interrupted: %w", err)
	}

	if cfg.SeedDB.Path != "" {
		if err := a.seedDatabase(ctx, cfg, roots, rng); err != nil {
			return err
		}
	}

	if cfg.Report {
		path, err := report.Write(cfg.OutputDir, config.DefaultReportFileName, summary, a.Now())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nReport: %s\n", path)
		if opts.openReport {
			if err := platform.OpenFileWithDefaultApp(path); err != nil {
				a.logger.Warn("cannot open report", zap.String("path", path), zap.Error(err))
			}
		}
	}

	if opts.open {
		if err := platform.OpenFileInManager(cfg.OutputDir); err != nil {
			a.logger.Warn("cannot open output directory", zap.String("path", cfg.OutputDir), zap.Error(err))
		}
	}
	return nil
}

// seedDatabase writes favorites, order and exclusions for the generated playlists
func (a *App) seedDatabase(ctx context.Context, cfg *config.Config, roots []*model.Playlist, rng *rand.Rand) error {
	st, err := store.Open(ctx, cfg.SeedDB.Path)
	if err != nil {
		return fmt.Errorf("open seed database: %w", err)
	}
	defer st.Close()

	seeded, err := generate.SeedDatabase(ctx, st, roots, rng, cfg.SeedDB.FavoriteRatio, cfg.SeedDB.ExcludeRatio)
	if err != nil {
		return err
	}
	a.logger.Info("seed database written", zap.String("path", cfg.SeedDB.Path), zap.Int("playlists", seeded))
	return nil
}

// confirm asks question on out and reports whether the answer was "y"
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprint(out, "\n"+question)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("read answer: %w", err)
	}
	return strings.EqualFold(strings.TrimSpace(line), "y"), nil
}

