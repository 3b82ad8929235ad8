package commands

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/inkshed/redline/internal/core/styles"
)

type CheckCmd struct {
	flags *Flags
}

// NewCheckCmd creates a new check command.
func NewCheckCmd(flags *Flags) *CheckCmd {
	return &CheckCmd{flags: flags}
}

// Register adds the check command to the application.
func (cmd *CheckCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "check",
		Usage: "Verify backend connectivity and LLM credentials",
		Description: `Check asks the review backend to validate the configured API key, base URL,
and model name. Nothing is reviewed; this is a dry run of the credentials.`,
		Action: cmd.run,
	})

	return app
}

func (cmd *CheckCmd) run(ctx context.Context, c *cli.Command) error {
	w := c.Root().Writer
	cfg := cmd.flags.Service.Config()

	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(w, styles.Error.Render("✗ configuration invalid"))
		return err
	}

	status, err := cmd.flags.Service.Check(ctx)
	if err != nil {
		fmt.Fprintln(w, styles.Error.Render("✗ backend unreachable"))
		return err
	}

	if !status.OK() {
		fmt.Fprintln(w, styles.Error.Render("✗ "+status.Message))
		return fmt.Errorf("credential check failed")
	}

	fmt.Fprintln(w, styles.Success.Render("✓ "+status.Message))
	fmt.Fprintln(w, styles.Muted.Render(fmt.Sprintf("backend %s, model %s", cfg.Settings.BackendURL, cfg.Settings.ModelName)))
	return nil
}
