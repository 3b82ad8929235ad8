// Command docgen generates CLI reference documentation from the redline
// command definitions. Output is written to docs/cli-reference.md.
package main

import (
	"fmt"
	"os"

	docs "github.com/urfave/cli-docs/v3"
	"github.com/urfave/cli/v3"

	"github.com/inkshed/redline/internal/commands"
)

func main() {
	flags := &commands.Flags{}

	root := &cli.Command{
		Name:      "redline",
		Usage:     "AI-assisted document review from your terminal",
		UsageText: "redline [global options] command [command options]",
		Description: `Redline streams an AI critique of a document's paragraphs from a review
backend. Comments arrive incrementally while the review runs, each one tied to
the paragraph and text it targets, and can be written back next to the
document or exported as a report.

Run 'redline init' once to configure credentials, then 'redline review <doc>'.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "log level (debug, info, warn, error, fatal, panic)",
				Sources: cli.EnvVars("REDLINE_LOG_LEVEL"),
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "log-file",
				Usage:   "path to log file (defaults to stderr)",
				Sources: cli.EnvVars("REDLINE_LOG_FILE"),
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to config file",
				Sources: cli.EnvVars("REDLINE_CONFIG"),
				Value:   commands.DefaultConfigPath(),
			},
		},
	}

	root = commands.NewReviewCmd(flags).Register(root)
	root = commands.NewCommentCmd(flags).Register(root)
	root = commands.NewCheckCmd(flags).Register(root)
	root = commands.NewExportCmd(flags).Register(root)
	root = commands.NewLsCmd(flags).Register(root)
	root = commands.NewInitCmd(flags).Register(root)

	md, err := docs.ToMarkdown(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error generating docs: %v\n", err)
		os.Exit(1)
	}

	outPath := "docs/cli-reference.md"
	if len(os.Args) > 1 {
		outPath = os.Args[1]
	}

	if err := os.WriteFile(outPath, []byte(md), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generated %s\n", outPath)
}
