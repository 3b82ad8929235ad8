package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"

	"github.com/inkshed/redline/internal/core/config"
)

type InitCmd struct {
	flags *Flags
	force bool
}

// NewInitCmd creates a new init command.
func NewInitCmd(flags *Flags) *InitCmd {
	return &InitCmd{flags: flags}
}

// Register adds the init command to the application.
func (cmd *InitCmd) Register(app *cli.Command) *cli.Command {
	app.Commands = append(app.Commands, &cli.Command{
		Name:  "init",
		Usage: "Write the redline config file interactively",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:        "force",
				Usage:       "overwrite an existing config file",
				Destination: &cmd.force,
			},
		},
		Action: cmd.run,
	})

	return app
}

func (cmd *InitCmd) run(ctx context.Context, c *cli.Command) error {
	path := cmd.flags.ConfigPath
	if path == "" {
		path = DefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil && !cmd.force {
		var overwrite bool
		err := huh.NewConfirm().
			Title("Config file already exists").
			Description(path + "\nOverwrite?").
			Value(&overwrite).
			Run()
		if err != nil {
			return err
		}
		if !overwrite {
			fmt.Fprintln(c.Root().Writer, "init cancelled")
			return nil
		}
	}

	cfg := config.DefaultConfig()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Backend URL").
				Description("The redline review backend").
				Value(&cfg.Settings.BackendURL),
			huh.NewInput().
				Title("LLM base URL").
				Description("OpenAI-compatible API root the backend calls").
				Value(&cfg.Settings.BaseURL),
			huh.NewInput().
				Title("Model name").
				Value(&cfg.Settings.ModelName),
			huh.NewInput().
				Title("API key").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.Settings.APIKey),
		),
	)
	if err := form.Run(); err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration invalid: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := cfg.Save(path); err != nil {
		return err
	}

	fmt.Fprintf(c.Root().Writer, "config written to %s\n", path)
	return nil
}
