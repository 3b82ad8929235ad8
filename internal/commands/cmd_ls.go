package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/inkshed/redline/internal/core/document"
	"github.com/inkshed/redline/internal/core/styles"
)

type LsCmd struct {
	flags    *Flags
	patterns []string
}

// NewLsCmd creates a new ls command.
func NewLsCmd(flags *Flags) *LsCmd {
	return &LsCmd{flags: flags}
}

// Register adds the ls command to the application.
func (cmd *LsCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "ls",
		Usage:     "List reviewable documents",
		ArgsUsage: "[dir]",
		Description: `Ls walks a directory (default .) and lists documents matching the glob
patterns, with their paragraph counts.`,
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "glob",
				Usage:       "glob pattern(s) to match (default **/*.md, **/*.txt)",
				Destination: &cmd.patterns,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *LsCmd) run(ctx context.Context, c *cli.Command) error {
	root := "."
	if c.Args().Len() > 0 {
		root = c.Args().First()
	}

	paths, err := document.Discover(root, cmd.patterns)
	if err != nil {
		return err
	}

	w := c.Root().Writer
	if len(paths) == 0 {
		fmt.Fprintln(w, styles.Muted.Render("no documents found"))
		return nil
	}

	for _, p := range paths {
		paragraphs, err := document.Load(p)
		if err != nil {
			fmt.Fprintf(w, "%s  %s\n", p, styles.Error.Render(err.Error()))
			continue
		}
		fmt.Fprintf(w, "%s  %s\n", p, styles.Muted.Render(fmt.Sprintf("%d paragraphs", len(paragraphs))))
	}

	return nil
}
