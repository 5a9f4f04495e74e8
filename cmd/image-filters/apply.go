package main

import (
	"encoding/json"

	"github.com/urfave/cli/v2"

	"github.com/ironsheep/image-filters-mcp/internal/processor"
)

var applyCommand = &cli.Command{
	Name:      "apply",
	Usage:     "apply one transform to an image file",
	UsageText: "apply --transform edge_canny --in photo.jpg [--out edges.png]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "transform",
			Aliases:  []string{"t"},
			Usage:    "transform identifier (see list)",
			Required: true,
		},
		&cli.StringFlag{
			Name:     "in",
			Aliases:  []string{"i"},
			Usage:    "input image",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "out",
			Aliases: []string{"o"},
			Usage:   "output image, defaults to processed_<name> in processed_dir",
		},
		&cli.Uint64Flag{
			Name:  "seed",
			Usage: "seed for the noise transforms, overrides seed",
		},
	},
	Action: applyCmd,
}

func applyCmd(c *cli.Context) error {
	e, err := setup(c)
	if err != nil {
		return err
	}

	in := c.String("in")
	out := c.String("out")
	if out == "" {
		if out, err = e.store.ProcessedPath(in); err != nil {
			return err
		}
	}

	res, err := e.proc.Process(processor.Request{InputPath: in, OutputPath: out, Transform: c.String("transform")})
	if err != nil {
		return err
	}

	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}
