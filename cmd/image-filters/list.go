package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/ironsheep/image-filters-mcp/internal/dispatch"
)

var listCommand = &cli.Command{
	Name:   "list",
	Usage:  "print the transform identifiers",
	Action: listCmd,
}

func listCmd(c *cli.Context) error {
	for _, id := range dispatch.Identifiers() {
		fmt.Fprintf(c.App.Writer, "%-18s %s\n", id, dispatch.Describe(id))
	}
	return nil
}
