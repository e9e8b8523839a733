package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/homebase/internal/household"
)

var habitFlags = []fieldFlag{
	{Flag: "title", Short: "t", Field: "title", Usage: "Habit title (required)"},
	{Flag: "date", Short: "d", Field: "date", Usage: "Date, e.g. 2024-05-01 (required)"},
	{Flag: "time", Field: "time", Usage: "Time of day, e.g. 07:30 (required)"},
	{Flag: "comment", Field: "comment", Usage: "Optional note"},
}

func habits(p *household.Page) *household.Controller[household.Habit] {
	return p.Habits
}

// HabitCmd returns the habit command group.
func HabitCmd(app *App) *Command {
	return &Command{
		Usage: "habit <command>",
		Short: "Log habits",
		Long:  "Log, list, and remove habit entries.",
		Subcommands: []*Command{
			addCmd(app, "habit add --title <t> --date <d> --time <t>", "Log a habit", habitFlags, habits),
			{
				Flags: flag.NewFlagSet("ls", flag.ContinueOnError),
				Usage: "habit ls",
				Short: "List logged habits",
				Exec: func(ctx context.Context, o *IO, _ []string) error {
					page, err := app.Page(ctx, o)
					if err != nil {
						return err
					}

					if err := enabled(page.Habits); err != nil {
						return err
					}

					printRegions(o, page.Doc, household.RegionHabits)

					return nil
				},
			},
			rmCmd(app, "habit rm <id>...", "Remove habit entries", habits),
		},
	}
}
