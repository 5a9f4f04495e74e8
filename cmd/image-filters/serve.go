package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/ironsheep/image-filters-mcp/internal/web"
)

var serveCommand = &cli.Command{
	Name:      "serve",
	Usage:     "serve the upload/process/download HTTP API",
	UsageText: "serve [--listen addr]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "listen",
			Aliases: []string{"l"},
			Usage:   "listen address, overrides listen_addr",
		},
		&cli.Uint64Flag{
			Name:  "seed",
			Usage: "seed for the noise transforms, overrides seed",
		},
	},
	Action: serveCmd,
}

func serveCmd(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	addr := e.cfg.ListenAddr
	if c.IsSet("listen") {
		addr = c.String("listen")
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := web.New(e.proc, e.store, e.cfg.MaxUploadBytes, e.log)
	if err := srv.Run(ctx, addr); err != nil {
		return err
	}
	e.log.Info().Msg("http server stopped")
	return nil
}
