package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/homebase/internal/household"
	"github.com/calvinalkan/homebase/internal/view"
)

var errInvalidInput = errors.New("invalid input")

// fieldFlag binds a create-form field to a command flag.
type fieldFlag struct {
	Flag  string
	Short string
	Field string
	Usage string
}

// flagForm reads form fields from parsed flags.
type flagForm struct {
	fs      *flag.FlagSet
	byField map[string]string
}

func newFlagForm(fs *flag.FlagSet, flags []fieldFlag) flagForm {
	byField := make(map[string]string, len(flags))
	for _, f := range flags {
		byField[f.Field] = f.Flag
	}

	return flagForm{fs: fs, byField: byField}
}

func (f flagForm) Value(field string) string {
	name, ok := f.byField[field]
	if !ok {
		return ""
	}

	v, _ := f.fs.GetString(name)

	return v
}

func (f flagForm) anyChanged() bool {
	for _, name := range f.byField {
		if f.fs.Changed(name) {
			return true
		}
	}

	return false
}

// flagError rewrites a validation error in terms of flag names.
func flagError(err error, flags []fieldFlag) error {
	var ve *household.ValidationError
	if !errors.As(err, &ve) || len(ve.Missing) == 0 {
		return err
	}

	names := make([]string, 0, len(ve.Missing))

	for _, field := range ve.Missing {
		for _, f := range flags {
			if f.Field == field {
				field = "--" + f.Flag
			}
		}

		names = append(names, field)
	}

	msg := "missing required flags: " + strings.Join(names, ", ")
	if len(ve.Problems) > 0 {
		msg += "; " + strings.Join(ve.Problems, "; ")
	}

	return fmt.Errorf("%w: %s", errInvalidInput, msg)
}

// controllerOf picks one collection controller from the page.
type controllerOf[T any] func(*household.Page) *household.Controller[T]

func addCmd[T any](app *App, usage, short string, flags []fieldFlag, ctrl controllerOf[T]) *Command {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	for _, f := range flags {
		fs.StringP(f.Flag, f.Short, "", f.Usage)
	}

	return &Command{
		Flags: fs,
		Usage: usage,
		Short: short,
		Long: short + `. Prints the new record ID.

Values are trimmed; required flags may not be blank. Inside "hb shell",
running it without flags prompts for each field.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			page, err := app.Page(ctx, o)
			if err != nil {
				return err
			}

			c := ctrl(page)
			form := newFlagForm(fs, flags)

			if !form.anyChanged() && app.prompter != nil {
				prompted, promptErr := promptForm(app.prompter, c.Fields())
				if promptErr != nil {
					return promptErr
				}

				rec, createErr := c.Create(ctx, prompted)
				if createErr != nil {
					return createErr
				}

				o.Println(c.ID(rec))

				return nil
			}

			rec, err := c.Create(ctx, form)
			if err != nil {
				return flagError(err, flags)
			}

			o.Println(c.ID(rec))

			return nil
		},
	}
}

func rmCmd[T any](app *App, usage, short string, ctrl controllerOf[T]) *Command {
	return &Command{
		Flags: flag.NewFlagSet("rm", flag.ContinueOnError),
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
				if err := ctrl(page).Delete(ctx, id); err != nil {
					return err
				}

				o.Println("Removed", id)
			}

			return nil
		},
	}
}

// printRegions renders the named regions of the page.
func printRegions(o *IO, doc *view.Document, regions ...string) {
	r := view.NewRenderer(o.Out())

	for i, region := range regions {
		if i > 0 {
			o.Println()
		}

		o.Printf("%s", r.RenderRegion(doc, region))
	}
}

func enabled[T any](c *household.Controller[T]) error {
	if !c.Enabled() {
		return fmt.Errorf("%w: %s", household.ErrModuleDisabled, c.Key())
	}

	return nil
}
