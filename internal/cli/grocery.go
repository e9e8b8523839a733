package cli

import (
	"context"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/homebase/internal/household"
)

var groceryFlags = []fieldFlag{
	{Flag: "item", Short: "i", Field: "itemName", Usage: "Item name (required)"},
	{Flag: "quantity", Short: "q", Field: "quantity", Usage: "Quantity, free text (required)"},
	{Flag: "location", Short: "l", Field: "location", Usage: "Store or location"},
	{Flag: "category", Field: "category", Usage: "Category, e.g. Dairy"},
}

func groceries(p *household.Page) *household.Controller[household.GroceryItem] {
	return p.Groceries.Controller
}

// GroceryCmd returns the grocery command group.
func GroceryCmd(app *App) *Command {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.BoolP("archived", "a", false, "Show completed items only")
	fs.Bool("all", false, "Show active and completed items")

	return &Command{
		Usage: "grocery <command>",
		Short: "Manage the grocery list",
		Long:  "Manage the shared grocery list. Checked items move to the archive.",
		Subcommands: []*Command{
			addCmd(app, "grocery add --item <i> --quantity <q>", "Add a grocery item", groceryFlags, groceries),
			{
				Flags: fs,
				Usage: "grocery ls [--archived|--all]",
				Short: "List grocery items",
				Exec: func(ctx context.Context, o *IO, _ []string) error {
					page, err := app.Page(ctx, o)
					if err != nil {
						return err
					}

					if err := enabled(groceries(page)); err != nil {
						return err
					}

					archived, _ := fs.GetBool("archived")
					all, _ := fs.GetBool("all")

					switch {
					case all:
						printRegions(o, page.Doc, household.RegionGroceryActive, household.RegionGroceryArchive)
					case archived:
						printRegions(o, page.Doc, household.RegionGroceryArchive)
					default:
						printRegions(o, page.Doc, household.RegionGroceryActive)
					}

					return nil
				},
			},
			toggleCmd(app, "grocery check <id>...", "Mark items completed", true),
			toggleCmd(app, "grocery uncheck <id>...", "Move items back to the active list", false),
			rmCmd(app, "grocery rm <id>...", "Remove grocery items", groceries),
		},
	}
}

func toggleCmd(app *App, usage, short string, completed bool) *Command {
	verb := "Unchecked"
	if completed {
		verb = "Checked"
	}

	return &Command{
		Flags: flag.NewFlagSet("toggle", flag.ContinueOnError),
		Usage: usage,
		Short: short,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) == 0 {
				return household.ErrIDRequired
			}

			page, err := app.Page(ctx, o)
			if err != nil {
				return err
			}

			for _, id := range args {
				if _, err := page.Groceries.ToggleCompleted(ctx, id, completed); err != nil {
					return err
				}

				o.Println(verb, id)
			}

			return nil
		},
	}
}
