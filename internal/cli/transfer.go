package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/homebase/internal/transfer"
)

var errImportFileRequired = errors.New("import file is required")

// ExportCmd returns the export command.
func ExportCmd(app *App) *Command {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.StringP("format", "f", transfer.FormatJSON, "Output format: "+strings.Join(transfer.Formats(), "|"))

	return &Command{
		Flags: fs,
		Usage: "export [--format json|toml|yaml]",
		Short: "Write all household data to stdout",
		Long: `Write every collection and the theme to stdout as one snapshot document.

Disabled modules are exported too. Only JSON snapshots can be imported.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			format, _ := fs.GetString("format")
			if !slices.Contains(transfer.Formats(), format) {
				return fmt.Errorf("%w: %q", transfer.ErrUnknownFormat, format)
			}

			page, err := app.Page(ctx, o)
			if err != nil {
				return err
			}

			return transfer.Export(ctx, page.Adapter, o.Out(), format)
		},
	}
}

// ImportCmd returns the import command.
func ImportCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("import", flag.ContinueOnError),
		Usage: "import <file>",
		Short: "Replace all household data from a JSON snapshot",
		Long: `Replace every collection with the content of a JSON snapshot written by
"hb export". The file is validated first; an invalid file changes nothing.
Records without an ID get one.`,
		Exec: func(ctx context.Context, o *IO, args []string) error {
			if len(args) != 1 {
				return errImportFileRequired
			}

			path := args[0]
			if !filepath.IsAbs(path) {
				path = filepath.Join(app.cfg.EffectiveCwd, path)
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			page, err := app.Page(ctx, o)
			if err != nil {
				return err
			}

			summary, err := transfer.Import(ctx, page.Adapter, page.Members, data)
			if err != nil {
				return err
			}

			app.mount(ctx, o)

			o.Printf("Imported %d habits, %d meals, %d groceries, %d tasks\n",
				summary.Habits, summary.Meals, summary.Groceries, summary.Tasks)

			return nil
		},
	}
}
