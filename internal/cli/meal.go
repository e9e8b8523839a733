package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/homebase/internal/household"
)

var mealFlags = []fieldFlag{
	{Flag: "day", Short: "d", Field: "day", Usage: "Day the meal is planned for (required)"},
	{Flag: "name", Short: "n", Field: "name", Usage: "Meal name (required)"},
}

func meals(p *household.Page) *household.Controller[household.Meal] {
	return p.Meals
}

// MealCmd returns the meal command group.
func MealCmd(app *App) *Command {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.Bool("log", false, "Show the meal log instead of the plan")

	return &Command{
		Usage: "meal <command>",
		Short: "Plan meals",
		Long:  "Plan meals by day. Every planned meal also appears in the meal log.",
		Subcommands: []*Command{
			addCmd(app, "meal add --day <d> --name <n>", "Plan a meal", mealFlags, meals),
			{
				Flags: fs,
				Usage: "meal ls [--log]",
				Short: "List planned meals",
				Exec: func(ctx context.Context, o *IO, _ []string) error {
					page, err := app.Page(ctx, o)
					if err != nil {
						return err
					}

					if err := enabled(page.Meals); err != nil {
						return err
					}

					region := household.RegionMeals
					if showLog, _ := fs.GetBool("log"); showLog {
						region = household.RegionMealLog
					}

					printRegions(o, page.Doc, region)

					return nil
				},
			},
			rmCmd(app, "meal rm <id>...", "Remove planned meals", meals),
		},
	}
}
