package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/homebase/internal/theme"
)

// ThemeCmd returns the theme command group.
func ThemeCmd(app *App) *Command {
	show := func(ctx context.Context, o *IO, _ []string) error {
		page, err := app.Page(ctx, o)
		if err != nil {
			return err
		}

		ctrl, err := page.Theme()
		if err != nil {
			return err
		}

		o.Println(ctrl.Mode())

		return nil
	}

	return &Command{
		Usage: "theme <command>",
		Short: "Show or change the theme",
		Long: `Show or change the light/dark theme.

With nothing persisted, the theme follows theme_default: "time" picks light
from 06:00 to 17:59 local time and dark otherwise.`,
		Exec: show,
		Subcommands: []*Command{
			{
				Flags: flag.NewFlagSet("show", flag.ContinueOnError),
				Usage: "theme show",
				Short: "Print the active theme",
				Exec:  show,
			},
			{
				Flags: flag.NewFlagSet("toggle", flag.ContinueOnError),
				Usage: "theme toggle",
				Short: "Switch between light and dark",
				Exec: func(ctx context.Context, o *IO, _ []string) error {
					page, err := app.Page(ctx, o)
					if err != nil {
						return err
					}

					ctrl, err := page.Theme()
					if err != nil {
						return err
					}

					mode, err := ctrl.Toggle(ctx)
					if err != nil {
						return err
					}

					o.Println(mode)

					return nil
				},
			},
			{
				Flags: flag.NewFlagSet("set", flag.ContinueOnError),
				Usage: "theme set <light|dark>",
				Short: "Set the theme",
				Exec: func(ctx context.Context, o *IO, args []string) error {
					if len(args) != 1 {
						return theme.ErrInvalidMode
					}

					mode, err := theme.ParseMode(args[0])
					if err != nil {
						return err
					}

					page, err := app.Page(ctx, o)
					if err != nil {
						return err
					}

					ctrl, err := page.Theme()
					if err != nil {
						return err
					}

					if err := ctrl.Set(ctx, mode); err != nil {
						return err
					}

					o.Println(mode)

					return nil
				},
			},
		},
	}
}
