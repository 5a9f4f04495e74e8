package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/ironsheep/image-filters-mcp/internal/config"
	"github.com/ironsheep/image-filters-mcp/internal/dispatch"
	"github.com/ironsheep/image-filters-mcp/internal/imaging"
	"github.com/ironsheep/image-filters-mcp/internal/logging"
	"github.com/ironsheep/image-filters-mcp/internal/processor"
	"github.com/ironsheep/image-filters-mcp/internal/server"
	"github.com/ironsheep/image-filters-mcp/internal/storage"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "image-filters: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	cli.VersionPrinter = func(c *cli.Context) {
		fmt.Fprintf(c.App.Writer, "image-filters %s\n", Version)
		fmt.Fprintf(c.App.Writer, "  Build time: %s\n", BuildTime)
		fmt.Fprintf(c.App.Writer, "  Git commit: %s\n", GitCommit)
	}

	return &cli.App{
		Name:    "image-filters",
		Usage:   "noise, denoise, sharpen and edge filters over MCP, HTTP or the command line",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a YAML config file",
				EnvVars: []string{config.EnvPrefix + "_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "override log_level (debug, info, warn, error)",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "log JSON lines instead of console output",
			},
		},
		Commands: []*cli.Command{
			mcpCommand,
			serveCommand,
			applyCommand,
			listCommand,
		},
		// MCP clients start the binary without arguments.
		Action: mcpCmd,
	}
}

// env is what every command needs after reading configuration.
type env struct {
	cfg   *config.Config
	log   zerolog.Logger
	store *storage.Store
	proc  *processor.Processor
}

func setup(c *cli.Context) (*env, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("seed") {
		cfg.Seed = c.Uint64("seed")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := newLogger(cfg.LogLevel, c.App.ErrWriter, !c.Bool("log-json"))
	if cfg.ConfigFile != "" {
		log.Debug().Str("file", cfg.ConfigFile).Msg("config loaded")
	}

	store, err := storage.New(cfg.UploadDir, cfg.ProcessedDir)
	if err != nil {
		return nil, err
	}

	var opts []dispatch.Option
	if cfg.Seed != 0 {
		opts = append(opts, dispatch.WithSeed(cfg.Seed))
	}
	proc := processor.New(imaging.NewImageCache(), dispatch.New(opts...), log)

	server.Version = Version
	return &env{cfg: cfg, log: log, store: store, proc: proc}, nil
}

func newLogger(level string, w io.Writer, console bool) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return logging.New(level, w, console)
}
