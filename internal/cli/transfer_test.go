package cli_test

import (
	"testing"

	"github.com/calvinalkan/homebase/internal/cli"
)

func Test_Export_Import_Round_Trip_When_Invoked(t *testing.T) {
	t.Parallel()

	src := cli.NewCLI(t)
	src.WriteFile(".hb.json", `{"theme_default": "dark"}`)

	habit := src.MustRun("habit", "add", "--title", "Run", "--date", "2024-05-01", "--time", "07:00")
	item := src.MustRun("grocery", "add", "--item", "eggs", "--quantity", "12")
	src.MustRun("grocery", "check", item)

	exported := src.MustRun("export")
	cli.AssertContains(t, exported, `"version": 1`)
	cli.AssertContains(t, exported, `"theme": "dark"`)

	dst := cli.NewCLI(t)
	dst.WriteFile("snapshot.json", exported)

	stdout := dst.MustRun("import", "snapshot.json")
	cli.AssertContains(t, stdout, "Imported 1 habits, 0 meals, 1 groceries, 0 tasks")

	cli.AssertContains(t, dst.MustRun("habit", "ls"), habit+"  Run")
	cli.AssertContains(t, dst.MustRun("grocery", "ls", "--archived"), "[x] "+item)
	cli.AssertContains(t, dst.MustRun("theme"), "dark")
}

func Test_Export_Formats_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("meal", "add", "--day", "Monday", "--name", "Pasta")

	cli.AssertContains(t, c.MustRun("export", "--format", "toml"), `name = "Pasta"`)
	cli.AssertContains(t, c.MustRun("export", "-f", "yaml"), "name: Pasta")

	stderr := c.MustFail("export", "--format", "xml")
	cli.AssertContains(t, stderr, "unknown export format")
}

func Test_Import_Invalid_File_Changes_Nothing_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	id := c.MustRun("meal", "add", "--day", "Monday", "--name", "Pasta")
	c.WriteFile("bad.json", `{"version": 1, "meals": [{"day": "Tuesday"}]}`)

	stderr := c.MustFail("import", "bad.json")
	cli.AssertContains(t, stderr, "invalid snapshot")
	cli.AssertContains(t, stderr, "meals/0")

	cli.AssertContains(t, c.MustRun("meal", "ls"), id+"  Monday: Pasta")
}

func Test_Import_Requires_File_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)

	cli.AssertContains(t, c.MustFail("import"), "import file is required")
	cli.AssertContains(t, c.MustFail("import", "missing.json"), "read missing.json")
}
