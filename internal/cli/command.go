package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	flag "github.com/spf13/pflag"
)

var errUnknownSubcommand = errors.New("unknown subcommand")

// Command defines a CLI command with unified help generation.
type Command struct {
	// Flags defines command-specific flags.
	// The FlagSet name is not used - command identity comes from Usage.
	Flags *flag.FlagSet

	// Usage is the freeform usage string shown after "hb" in help.
	// Includes the command name and arguments/flags.
	// Examples: "show", "habit add --title <t> [flags]", "grocery ls [flags]"
	Usage string

	// Short is a one-line description for the global help listing.
	Short string

	// Long is the full description shown in command help.
	// If empty, Short is used instead.
	Long string

	// Subcommands makes this command a group. The first argument selects
	// the subcommand by the second word of its Usage ("habit add ...");
	// Exec runs when it is absent.
	Subcommands []*Command

	// Exec runs the command after flags are parsed.
	Exec func(ctx context.Context, o *IO, args []string) error
}

// Name returns the command name (first word of Usage).
func (c *Command) Name() string {
	name, _, _ := strings.Cut(c.Usage, " ")
	return name
}

// HelpLine returns the short help line for the main usage display.
func (c *Command) HelpLine() string {
	return fmt.Sprintf("  %-28s %s", c.Usage, c.Short)
}

// PrintHelp prints the full help output for "hb <cmd> --help".
func (c *Command) PrintHelp(o *IO) {
	o.Println("Usage: hb", c.Usage)
	o.Println()

	desc := c.Long
	if desc == "" {
		desc = c.Short
	}

	o.Println(desc)

	if len(c.Subcommands) > 0 {
		o.Println()
		o.Println("Commands:")

		for _, sub := range c.Subcommands {
			o.Println(sub.HelpLine())
		}
	}

	if c.Flags != nil && c.Flags.HasFlags() {
		o.Println()
		o.Println("Flags:")

		var buf strings.Builder
		c.Flags.SetOutput(&buf)
		c.Flags.PrintDefaults()
		o.Printf("%s", buf.String())
	}
}

// Run parses flags and executes the command. Returns exit code.
// Handles error printing internally for consistent output ordering.
func (c *Command) Run(ctx context.Context, o *IO, args []string) int {
	if len(c.Subcommands) > 0 && len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		sub := c.find(args[0])
		if sub == nil {
			o.ErrPrintln("error:", fmt.Errorf("%w: %s %s", errUnknownSubcommand, c.Name(), args[0]))
			o.ErrPrintln()
			c.PrintHelp(o)

			return 1
		}

		return sub.Run(ctx, o, args[1:])
	}

	if c.Flags == nil {
		c.Flags = flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	}

	c.Flags.SetOutput(&strings.Builder{}) // discard pflag output

	err := c.Flags.Parse(args)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			c.PrintHelp(o)
			return 0
		}

		o.ErrPrintln("error:", err)
		o.ErrPrintln()
		c.PrintHelp(o)

		return 1
	}

	if c.Exec == nil {
		c.PrintHelp(o)
		return 0
	}

	if err := c.Exec(ctx, o, c.Flags.Args()); err != nil {
		o.ErrPrintln("error:", err)
		return 1
	}

	return 0
}

func (c *Command) find(name string) *Command {
	for _, sub := range c.Subcommands {
		if fields := strings.Fields(sub.Usage); len(fields) > 1 && fields[1] == name {
			return sub
		}
	}

	return nil
}
