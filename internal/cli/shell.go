package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/calvinalkan/homebase/internal/household"
)

var (
	errUnterminatedQuote = errors.New("unterminated quote")
	errPromptCancelled   = errors.New("cancelled")
)

// Prompter reads one line of input after showing a prompt.
type Prompter interface {
	Prompt(prompt string) (string, error)
}

// lineSource is the input of the shell loop.
type lineSource interface {
	Prompter
	AppendHistory(line string)
	Close() error
}

// ShellCmd returns the interactive shell command.
func ShellCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("shell", flag.ContinueOnError),
		Usage: "shell",
		Short: "Interactive session",
		Long: `Start an interactive session. Every command is available without the
"hb" prefix, and the page stays loaded between commands.

"<module> add" without flags asks for each field; fields marked * are
required. Type "help" for commands and "exit" to quit.`,
		Exec: func(ctx context.Context, o *IO, _ []string) error {
			if _, err := app.Page(ctx, o); err != nil {
				return err
			}

			src := app.lineSource(o)
			defer func() { _ = src.Close() }()

			return runShell(ctx, app, o, src)
		},
	}
}

func runShell(ctx context.Context, app *App, o *IO, src lineSource) error {
	app.prompter = src
	defer func() { app.prompter = nil }()

	o.Println(`hb shell - type "help" for commands, "exit" to quit`)

	for ctx.Err() == nil {
		line, err := src.Prompt("hb> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				o.Println()

				return nil
			}

			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		src.AppendHistory(line)

		args, err := splitArgs(line)
		if err != nil {
			o.ErrPrintln("error:", err)

			continue
		}

		switch args[0] {
		case "exit", "quit", "q":
			return nil
		case "help", "?":
			printShellHelp(o)

			continue
		case "shell":
			o.ErrPrintln("error: already in a shell")

			continue
		}

		cmd := findCommand(commands(app), args[0])
		if cmd == nil {
			o.ErrPrintln(`error: unknown command: ` + args[0] + ` (type "help" for commands)`)

			continue
		}

		cmd.Run(ctx, o, args[1:])
	}

	return nil
}

func printShellHelp(o *IO) {
	o.Println("Commands:")

	for _, cmd := range commands(nil) {
		if cmd.Name() == "shell" {
			continue
		}

		o.Println(cmd.HelpLine())

		for _, sub := range cmd.Subcommands {
			o.Println(sub.HelpLine())
		}
	}

	o.Println("  help                         Show this help")
	o.Println("  exit                         Leave the shell")
}

// promptForm asks for every field in order. Required fields are marked
// with "*"; blank answers are left for validation to report.
func promptForm(p Prompter, fields []household.Field) (household.Values, error) {
	values := make(household.Values, len(fields))

	for _, f := range fields {
		label := f.Label
		if f.Required {
			label += " *"
		}

		v, err := p.Prompt(label + ": ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				return nil, errPromptCancelled
			}

			return nil, err
		}

		values[f.Name] = v
	}

	return values, nil
}

// lineSource returns liner on an interactive stdin and a plain line reader
// otherwise.
func (a *App) lineSource(o *IO) lineSource {
	if f, ok := a.in.(*os.File); ok && f == os.Stdin && liner.TerminalSupported() {
		return newLinerSource(historyFile(a.env))
	}

	in := a.in
	if in == nil {
		in = strings.NewReader("")
	}

	return &scannerSource{sc: bufio.NewScanner(in), out: o.Out()}
}

// historyFile returns the path to the history file, or "" without $HOME.
func historyFile(env map[string]string) string {
	home := env["HOME"]
	if home == "" {
		return ""
	}

	return filepath.Join(home, ".hb_history")
}

type linerSource struct {
	state       *liner.State
	historyPath string
}

func newLinerSource(historyPath string) *linerSource {
	state := liner.NewLiner()
	state.SetCtrlCAborts(true)
	state.SetCompleter(completer)

	if historyPath != "" {
		if f, err := os.Open(historyPath); err == nil {
			_, _ = state.ReadHistory(f)
			_ = f.Close()
		}
	}

	return &linerSource{state: state, historyPath: historyPath}
}

func (l *linerSource) Prompt(prompt string) (string, error) {
	return l.state.Prompt(prompt)
}

func (l *linerSource) AppendHistory(line string) {
	l.state.AppendHistory(line)
}

// Close saves the history and restores the terminal.
func (l *linerSource) Close() error {
	if l.historyPath != "" {
		if f, err := os.Create(l.historyPath); err == nil {
			_, _ = l.state.WriteHistory(f)
			_ = f.Close()
		}
	}

	return l.state.Close()
}

// completer completes command names and subcommands.
func completer(line string) []string {
	var completions []string

	for _, cmd := range commands(nil) {
		candidates := []string{cmd.Name()}

		for _, sub := range cmd.Subcommands {
			fields := strings.Fields(sub.Usage)
			candidates = append(candidates, fields[0]+" "+fields[1])
		}

		for _, c := range candidates {
			if strings.HasPrefix(c, line) {
				completions = append(completions, c)
			}
		}
	}

	return completions
}

type scannerSource struct {
	sc  *bufio.Scanner
	out io.Writer
}

func (s *scannerSource) Prompt(prompt string) (string, error) {
	_, _ = io.WriteString(s.out, prompt)

	if !s.sc.Scan() {
		if err := s.sc.Err(); err != nil {
			return "", err
		}

		return "", io.EOF
	}

	return s.sc.Text(), nil
}

func (s *scannerSource) AppendHistory(string) {}

func (s *scannerSource) Close() error {
	return nil
}

// splitArgs splits a shell line into words. Single and double quotes group
// words; a backslash escapes the next character outside single quotes.
func splitArgs(line string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)

	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)

			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				args = append(args, cur.String())
				cur.Reset()

				inWord = false
			}
		default:
			cur.WriteRune(r)

			inWord = true
		}
	}

	if quote != 0 || escaped {
		return nil, errUnterminatedQuote
	}

	if inWord {
		args = append(args, cur.String())
	}

	return args, nil
}
