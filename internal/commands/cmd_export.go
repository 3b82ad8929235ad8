package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/inkshed/redline/internal/redline"
)

type ExportCmd struct {
	flags *Flags
	out   string
}

// NewExportCmd creates a new export command.
func NewExportCmd(flags *Flags) *ExportCmd {
	return &ExportCmd{flags: flags}
}

// Register adds the export command to the application.
func (cmd *ExportCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "export",
		Usage:     "Export saved review results as a report document",
		ArgsUsage: "<results.json>",
		Description: `Export sends results saved by "review --save" to the backend's report
endpoint and writes the returned .docx file.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output path (defaults to <document title>_review_report.docx)",
				Destination: &cmd.out,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ExportCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return errors.New("expected exactly one saved results file")
	}

	saved, err := redline.LoadResult(c.Args().First())
	if err != nil {
		return err
	}

	out := cmd.out
	if out == "" {
		title := saved.DocumentTitle
		if title == "" {
			title = "review"
		}
		out = strings.ReplaceAll(title, " ", "_") + "_review_report.docx"
	}

	if err := cmd.flags.Service.ExportReview(ctx, saved.Result, saved.DocumentTitle, out); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "report written to %s\n", out)
	return nil
}
