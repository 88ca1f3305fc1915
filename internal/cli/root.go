package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ytget/audiofixture/internal/config"
	"github.com/ytget/audiofixture/internal/encoder"
)

// AppName is the binary name
const AppName = "audiofixture"

// App holds the process-wide dependencies and persistent flags of the command tree
type App struct {
	Version string
	Stdin   io.Reader
	Stdout  io.Writer
	// Runner executes ffmpeg and ffprobe; nil runs the real binaries
	Runner encoder.Runner
	// Logger overrides the logger built from --verbose when set
	Logger *zap.Logger
	Now    func() time.Time

	logger     *zap.Logger
	configPath string
	outputDir  string
	verbose    bool
}

// NewApp returns an App wired to the process streams
func NewApp(version string) *App {
	return &App{
		Version: version,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Now:     time.Now,
	}
}

// NewRootCommand builds the command tree. Running it without a subcommand generates fixtures.
func NewRootCommand(app *App) *cobra.Command {
	if app.Now == nil {
		app.Now = time.Now
	}
	genOpts := &generateOptions{}

	root := &cobra.Command{
		Use:   AppName,
		Short: "Generate audio test fixtures for playlist players",
		Long: `audiofixture synthesizes sine-tone audio files with ffmpeg across a matrix of
formats, sample rates and frequencies, laid out as a nested playlist folder
tree. Files can carry random tags and a generated block-pattern cover, and
each folder can get a playlist.json cache.

Run without a subcommand to generate.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.initLogger()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.logger != nil {
				_ = app.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runGenerate(cmd, genOpts)
		},
	}
	root.SetIn(app.Stdin)
	root.SetOut(app.Stdout)

	flags := root.PersistentFlags()
	flags.StringVarP(&app.configPath, "config", "c", "", "YAML configuration file")
	flags.StringVarP(&app.outputDir, "output", "o", "", "output directory (overrides config)")
	flags.BoolVarP(&app.verbose, "verbose", "v", false, "enable debug logging")

	registerGenerateFlags(root, genOpts)

	root.AddCommand(
		newGenerateCommand(app),
		newPlanCommand(app),
		newVerifyCommand(app),
		newConfigCommand(app),
		newVersionCommand(app),
	)
	return root
}

// Execute runs the command tree with args
func Execute(ctx context.Context, app *App, args []string) error {
	root := NewRootCommand(app)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func (a *App) initLogger() error {
	if a.Logger != nil {
		a.logger = a.Logger
		return nil
	}

	cfg := zap.NewProductionConfig()
	if a.verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.logger = logger
	return nil
}

// loadConfig loads the configuration file and applies the persistent overrides
func (a *App) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if a.outputDir != "" {
		cfg.OutputDir = a.outputDir
	}
	return cfg, nil
}

func (a *App) newEncoder(cfg *config.Config) *encoder.Service {
	return encoder.NewService(encoder.Options{
		FFmpegPath:  cfg.FFmpegPath,
		FFprobePath: cfg.FFprobePath,
		Runner:      a.Runner,
		Logger:      a.logger,
	})
}
