package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/homebase/internal/view"
)

// ShowCmd returns the show command.
func ShowCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("show", flag.ContinueOnError),
		Usage: "show",
		Short: "Render the whole household page",
		Long:  "Render every enabled module: habits, meals, groceries, and tasks, styled by the active theme.",
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			page, err := app.Page(ctx, o)
			if err != nil {
				return err
			}

			o.Printf("%s", view.NewRenderer(o.Out()).Render(page.Doc))

			return nil
		},
	}
}
