package cli

import (
	"context"
	"fmt"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/homebase/internal/household"
)

var taskFlags = []fieldFlag{
	{Flag: "title", Short: "t", Field: "title", Usage: "Task title (required)"},
	{Flag: "to", Field: "assignedTo", Usage: "Household member the task is assigned to (required)"},
	{Flag: "reward", Short: "r", Field: "reward", Usage: "Optional reward"},
}

func tasks(p *household.Page) *household.Controller[household.Task] {
	return p.Tasks
}

// TaskCmd returns the task command group.
func TaskCmd(app *App) *Command {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.String("to", "", "Only show tasks assigned to this member")

	return &Command{
		Usage: "task <command>",
		Short: "Assign chores",
		Long:  "Assign chores to one of the two household members.",
		Subcommands: []*Command{
			addCmd(app, "task add --title <t> --to <member>", "Assign a task", taskFlags, tasks),
			{
				Flags: fs,
				Usage: "task ls [--to <member>]",
				Short: "List tasks per member",
				Exec: func(ctx context.Context, o *IO, _ []string) error {
					page, err := app.Page(ctx, o)
					if err != nil {
						return err
					}

					if err := enabled(page.Tasks); err != nil {
						return err
					}

					regions := []string{household.TaskRegion(page.Members[0]), household.TaskRegion(page.Members[1])}

					if fs.Changed("to") {
						to, _ := fs.GetString("to")

						member, ok := page.Members.Resolve(to)
						if !ok {
							return fmt.Errorf("%w: %q is not one of %s, %s", errInvalidInput, to, page.Members[0], page.Members[1])
						}

						regions = []string{household.TaskRegion(member)}
					}

					printRegions(o, page.Doc, regions...)

					return nil
				},
			},
			rmCmd(app, "task rm <id>...", "Remove tasks", tasks),
		},
	}
}
