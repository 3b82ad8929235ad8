package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/inkshed/redline/internal/core/document"
	"github.com/inkshed/redline/internal/core/session"
)

type CommentCmd struct {
	flags  *Flags
	plain  bool
	export string
}

// NewCommentCmd creates a new comment command.
func NewCommentCmd(flags *Flags) *CommentCmd {
	return &CommentCmd{flags: flags}
}

// Register adds the comment command to the application.
func (cmd *CommentCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "comment",
		Usage:     "Generate an overall comment for a document",
		ArgsUsage: "<document>",
		Description: `Comment streams a free-form overall assessment of the whole document,
rather than per-paragraph comments. The text is printed as it arrives.`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "print streamed text without the live feed",
				Destination: &cmd.plain,
			},
			&cli.StringFlag{
				Name:        "export",
				Usage:       "download the comment report (.docx) to this path",
				Destination: &cmd.export,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *CommentCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return errors.New("expected exactly one document path")
	}
	path := c.Args().First()
	title := document.Title(path)

	paragraphs, err := document.Load(path)
	if err != nil {
		return err
	}
	if len(paragraphs) == 0 {
		return fmt.Errorf("no reviewable paragraphs in %s", path)
	}

	svc := cmd.flags.Service
	w := c.Root().Writer

	start := func() (*session.Handle, error) {
		return svc.StartOverallComment(ctx, paragraphs)
	}

	var st = svc.Sessions().State(session.KindOverall)
	if cmd.plain || !interactive() {
		st, err = followPlain(ctx, svc.Sessions(), session.KindOverall, w, start)
	} else {
		st, err = followFeed(svc.Sessions(), session.KindOverall, title, start)
		if err == nil && st.NarrativeText != "" {
			// The feed only shows the tail while streaming; print the whole
			// comment once finished.
			fmt.Fprintln(w, st.NarrativeText)
		}
	}
	if err != nil {
		return err
	}
	if st.Err != "" {
		return fmt.Errorf("comment generation failed: %s", st.Err)
	}

	if cmd.export != "" && st.NarrativeText != "" {
		if err := svc.ExportComment(ctx, st.NarrativeText, title, cmd.export); err != nil {
			return err
		}
		fmt.Fprintf(w, "report written to %s\n", cmd.export)
	}

	return nil
}
