package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/inkshed/redline/internal/core/document"
	"github.com/inkshed/redline/internal/core/review"
	"github.com/inkshed/redline/internal/core/session"
	"github.com/inkshed/redline/internal/core/styles"
	"github.com/inkshed/redline/internal/redline"
	"github.com/inkshed/redline/internal/tui"
)

type ReviewCmd struct {
	flags    *Flags
	noStream bool
	plain    bool
	annotate bool
	savePath string
	export   string
}

// NewReviewCmd creates a new review command.
func NewReviewCmd(flags *Flags) *ReviewCmd {
	return &ReviewCmd{flags: flags}
}

// Register adds the review command to the application.
func (cmd *ReviewCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:      "review",
		Usage:     "Stream an AI review of a document's paragraphs",
		ArgsUsage: "<document>",
		Description: `Review sends the document's paragraphs to the review backend and streams
comments back as they are produced. Each comment is tied to a paragraph and
quotes the text it targets.

Examples:
  redline review thesis.md                  # live feed, comments as they arrive
  redline review thesis.md --annotate       # also write comments next to the document
  redline review thesis.md --save out.json  # keep results for later export
  redline review thesis.md --no-stream      # single request, results at the end`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "no-stream",
				Usage:       "use the non-streaming endpoint and wait for the full result",
				Destination: &cmd.noStream,
			},
			&cli.BoolFlag{
				Name:        "plain",
				Usage:       "print events line by line instead of the live feed",
				Destination: &cmd.plain,
			},
			&cli.BoolFlag{
				Name:        "annotate",
				Aliases:     []string{"a"},
				Usage:       "write located comments to the document's notes file",
				Destination: &cmd.annotate,
			},
			&cli.StringFlag{
				Name:        "save",
				Usage:       "write accumulated results to a JSON file",
				Destination: &cmd.savePath,
			},
			&cli.StringFlag{
				Name:        "export",
				Usage:       "download the review report (.docx) to this path",
				Destination: &cmd.export,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *ReviewCmd) run(ctx context.Context, c *cli.Command) error {
	if c.Args().Len() != 1 {
		return errors.New("expected exactly one document path")
	}
	path := c.Args().First()
	title := document.Title(path)

	host, err := document.NewFileHost(path)
	if err != nil {
		return err
	}
	paragraphs, err := host.Paragraphs(ctx)
	if err != nil {
		return err
	}
	if len(paragraphs) == 0 {
		return fmt.Errorf("no reviewable paragraphs in %s", path)
	}

	svc := cmd.flags.Service
	w := c.Root().Writer

	var result review.Result
	if cmd.noStream {
		res, err := svc.Review(ctx, paragraphs)
		if err != nil {
			return err
		}
		for _, rc := range res.Comments {
			fmt.Fprintf(w, "%s ¶%d %s\n", styles.SeverityBadge(rc.Severity), rc.ParagraphIndex, rc.Comment)
		}
		result = *res
	} else {
		st, err := cmd.stream(ctx, w, title, paragraphs)
		if err != nil {
			return err
		}
		if st.Err != "" {
			return fmt.Errorf("review failed: %s", st.Err)
		}
		result = st.Result()
	}

	fmt.Fprintln(w, styles.Success.Render(fmt.Sprintf("✓ %d comments", len(result.Comments))))
	if result.Summary != "" {
		if interactive() {
			fmt.Fprint(w, tui.RenderMarkdown(result.Summary, 100))
		} else {
			fmt.Fprintln(w, result.Summary)
		}
	}

	if cmd.annotate && len(result.Comments) > 0 {
		res := svc.Annotate(ctx, host, result.Comments)
		fmt.Fprintf(w, "annotated %d comments (%d not found) -> %s\n", res.Success, res.Failed, host.NotesPath())
	}

	if cmd.savePath != "" {
		saved := redline.SavedResult{DocumentTitle: title, Result: result}
		if err := redline.SaveResult(cmd.savePath, saved); err != nil {
			return err
		}
		fmt.Fprintf(w, "results saved to %s\n", cmd.savePath)
	}

	if cmd.export != "" {
		if err := svc.ExportReview(ctx, result, title, cmd.export); err != nil {
			return err
		}
		fmt.Fprintf(w, "report written to %s\n", cmd.export)
	}

	return nil
}

// stream runs the streaming session, with the live feed on a terminal or
// line output otherwise, and returns the terminal state.
func (cmd *ReviewCmd) stream(ctx context.Context, w io.Writer, title string, paragraphs []document.Paragraph) (review.State, error) {
	svc := cmd.flags.Service
	start := func() (*session.Handle, error) {
		return svc.StartReview(ctx, paragraphs)
	}

	if cmd.plain || !interactive() {
		return followPlain(ctx, svc.Sessions(), session.KindReview, w, start)
	}
	return followFeed(svc.Sessions(), session.KindReview, title, start)
}
