package cli

import (
	"context"
	"strings"

	flag "github.com/spf13/pflag"
)

// PrintConfigCmd returns the print-config command.
func PrintConfigCmd(app *App) *Command {
	return &Command{
		Flags: flag.NewFlagSet("print-config", flag.ContinueOnError),
		Usage: "print-config",
		Short: "Show resolved configuration",
		Long:  "Display the effective configuration and which files it was loaded from.",
		Exec: func(_ context.Context, io *IO, _ []string) error {
			execPrintConfig(io, app)

			return nil
		},
	}
}

func execPrintConfig(io *IO, app *App) {
	cfg := app.cfg

	io.Println("effective_cwd=" + cfg.EffectiveCwd)
	io.Println("data_dir=" + cfg.DataDirAbs)
	io.Println("backend=" + cfg.Backend)
	io.Println("members=" + strings.Join(cfg.Members, ","))
	io.Println("theme_default=" + cfg.ThemeDefault)
	io.Println("log_level=" + cfg.LogLevel)

	if len(cfg.DisabledModules) > 0 {
		io.Println("disabled_modules=" + strings.Join(cfg.DisabledModules, ","))
	}

	io.Println("")
	io.Println("# sources")

	if cfg.Sources.Global == "" && cfg.Sources.Project == "" {
		io.Println("(defaults only)")
	} else {
		if cfg.Sources.Global != "" {
			io.Println("global_config=" + cfg.Sources.Global)
		}

		if cfg.Sources.Project != "" {
			io.Println("project_config=" + cfg.Sources.Project)
		}
	}
}
