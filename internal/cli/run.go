// Package cli implements the hb command line: global flags, configuration,
// and one command per household operation.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/homebase/internal/config"
)

var errNoCommand = errors.New("no command provided")

// Run is the main entry point. Returns exit code.
//
// sigCh cancels the command context on the first signal; nil means no
// signal handling.
func Run(in io.Reader, out io.Writer, errOut io.Writer, args []string, env map[string]string, sigCh <-chan os.Signal) int {
	globals := flag.NewFlagSet("hb", flag.ContinueOnError)
	globals.SetInterspersed(false)
	globals.SetOutput(&strings.Builder{})

	workDir := globals.StringP("cwd", "C", "", "Run as if started in `dir`")
	configPath := globals.StringP("config", "c", "", "Use specified config `file`")
	dataDir := globals.String("data-dir", "", "Store household data in `dir`")
	backend := globals.String("backend", "", "Storage backend: file|sqlite")
	verbose := globals.BoolP("verbose", "v", false, "Log debug output to stderr")
	help := globals.BoolP("help", "h", false, "Show help")

	if len(args) < 2 {
		printUsage(out, globals)

		return 0
	}

	err := globals.Parse(args[1:])
	if err != nil {
		fprintln(errOut, "error:", err)
		fprintln(errOut)
		printUsage(errOut, globals)

		return 1
	}

	if *help {
		printUsage(out, globals)

		return 0
	}

	rest := globals.Args()
	if len(rest) == 0 {
		fprintln(errOut, "error:", errNoCommand)
		fprintln(errOut)
		printUsage(errOut, globals)

		return 1
	}

	input := config.Input{
		WorkDirOverride: *workDir,
		ConfigPath:      *configPath,
		Backend:         *backend,
		Verbose:         *verbose,
		Env:             env,
	}

	if globals.Changed("data-dir") {
		input.DataDir = dataDir
	}

	cfg, err := config.Load(input)
	if err != nil {
		fprintln(errOut, "error:", err)
		fprintln(errOut)
		printUsage(errOut, globals)

		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if sigCh != nil {
		go func() {
			select {
			case <-sigCh:
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	app := newApp(cfg, env, in, newLogger(errOut, cfg.Level()))
	defer app.Close()

	o := NewIO(out, errOut)

	name := rest[0]

	cmd := findCommand(commands(app), name)
	if cmd == nil {
		fprintln(errOut, "error: unknown command:", name)
		fprintln(errOut)
		printUsage(errOut, globals)

		return 1
	}

	if code := cmd.Run(ctx, o, rest[1:]); code != 0 {
		return code
	}

	return o.Finish()
}

// commands returns a fresh command tree bound to app. Flag sets keep parsed
// values, so every invocation needs its own tree.
func commands(app *App) []*Command {
	return []*Command{
		HabitCmd(app),
		MealCmd(app),
		GroceryCmd(app),
		TaskCmd(app),
		ThemeCmd(app),
		ShowCmd(app),
		ShellCmd(app),
		ExportCmd(app),
		ImportCmd(app),
		PrintConfigCmd(app),
	}
}

func findCommand(cmds []*Command, name string) *Command {
	for _, cmd := range cmds {
		if cmd.Name() == name {
			return cmd
		}
	}

	return nil
}

func fprintln(w io.Writer, a ...any) {
	_, _ = fmt.Fprintln(w, a...)
}

func printUsage(w io.Writer, globals *flag.FlagSet) {
	fprintln(w, `hb - household organizer: habits, meals, groceries, and chores

Usage: hb [global flags] <command> [args]

Global flags:`)

	var buf strings.Builder

	globals.SetOutput(&buf)
	globals.PrintDefaults()
	globals.SetOutput(&strings.Builder{})

	_, _ = io.WriteString(w, buf.String())

	fprintln(w)
	fprintln(w, "Commands:")

	for _, cmd := range commands(nil) {
		fprintln(w, cmd.HelpLine())

		for _, sub := range cmd.Subcommands {
			fprintln(w, sub.HelpLine())
		}
	}
}
