package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/ironsheep/image-filters-mcp/internal/server"
)

var mcpCommand = &cli.Command{
	Name:        "mcp",
	Usage:       "serve MCP over stdin/stdout (default)",
	Description: "Runs the JSON-RPC 2.0 MCP server. Configure it in your MCP client; logs go to stderr.",
	Action:      mcpCmd,
}

func mcpCmd(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	e.log.Debug().Str("version", Version).Str("commit", GitCommit).Msg("starting mcp")

	srv := server.New(e.proc, e.store, e.cfg.PreviewMaxSize, e.log)
	return srv.Run(os.Stdin, os.Stdout)
}
