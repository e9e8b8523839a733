package cli_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/calvinalkan/homebase/internal/cli"
)

func Test_Habit_Add_Prints_ID_And_Lists_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	id := c.MustRun("habit", "add", "--title", "Run", "--date", "2024-05-01", "--time", "07:00")

	if len(id) != 12 {
		t.Fatalf("id=%q, want a 12 character id", id)
	}

	stdout := c.MustRun("habit", "ls")

	cli.AssertContains(t, stdout, "Habits")
	cli.AssertContains(t, stdout, id+"  Run | 2024-05-01 | 07:00 | N/A")

	var stored []map[string]string
	if err := json.Unmarshal([]byte(c.ReadData("habits")), &stored); err != nil {
		t.Fatalf("stored habits are not JSON: %v", err)
	}

	if len(stored) != 1 || stored[0]["id"] != id || stored[0]["title"] != "Run" {
		t.Fatalf("stored=%v", stored)
	}
}

func Test_Habit_Add_Missing_Required_Flags_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("habit", "add", "--title", "Run", "--date", "  ")

	cli.AssertContains(t, stderr, "missing required flags: --date, --time")

	stdout := c.MustRun("habit", "ls")
	cli.AssertContains(t, stdout, "(empty)")
}

func Test_Meal_Add_Shows_In_Plan_And_Log_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	id := c.MustRun("meal", "add", "--day", "Monday", "--name", "Pasta")

	cli.AssertContains(t, c.MustRun("meal", "ls"), id+"  Monday: Pasta")
	cli.AssertContains(t, c.MustRun("meal", "ls", "--log"), id+"  Monday: Pasta")
}

func Test_Remove_Unknown_ID_Fails_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.MustRun("meal", "add", "--day", "Monday", "--name", "Pasta")
	before := c.ReadData("meals")

	stderr := c.MustFail("meal", "rm", "0000000000ZZ")
	cli.AssertContains(t, stderr, "record not found")

	if after := c.ReadData("meals"); after != before {
		t.Fatalf("meals changed\nbefore: %s\nafter:  %s", before, after)
	}
}

func Test_Remove_Requires_ID_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("task", "rm")
	cli.AssertContains(t, stderr, "record ID is required")
}

func Test_Grocery_Check_Moves_To_Archive_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	eggs := c.MustRun("grocery", "add", "-i", "eggs", "-q", "12", "--category", "Dairy")
	milk := c.MustRun("grocery", "add", "--item", "milk", "--quantity", "1")

	stdout := c.MustRun("grocery", "check", eggs)
	cli.AssertContains(t, stdout, "Checked "+eggs)

	active := c.MustRun("grocery", "ls")
	cli.AssertContains(t, active, "[ ] "+milk+"  1 x milk")
	cli.AssertNotContains(t, active, eggs)

	archived := c.MustRun("grocery", "ls", "--archived")
	cli.AssertContains(t, archived, "[x] "+eggs+"  12 x eggs (Dairy)")

	c.MustRun("grocery", "uncheck", eggs)

	// A new invocation renders in stored order, and unchecking keeps the
	// item's stored position.
	active = c.MustRun("grocery", "ls")
	if strings.Index(active, eggs) > strings.Index(active, milk) {
		t.Fatalf("unchecked item should keep its stored position\n%s", active)
	}

	cli.AssertContains(t, c.MustRun("grocery", "ls", "--archived"), "(empty)")
}

func Test_Task_Routes_To_Member_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	id := c.MustRun("task", "add", "--title", "Dishes", "--to", "sam", "--reward", "cake")

	sam := c.MustRun("task", "ls", "--to", "Sam")
	cli.AssertContains(t, sam, "Tasks for Sam")
	cli.AssertContains(t, sam, id+"  Dishes (reward: cake)")

	alex := c.MustRun("task", "ls", "--to", "alex")
	cli.AssertContains(t, alex, "Tasks for Alex")
	cli.AssertNotContains(t, alex, id)
}

func Test_Task_For_Unknown_Member_Fails_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stderr := c.MustFail("task", "add", "--title", "Mow", "--to", "Charlie")
	cli.AssertContains(t, stderr, `"Charlie" is not one of Alex, Sam`)

	stderr = c.MustFail("task", "ls", "--to", "Charlie")
	cli.AssertContains(t, stderr, "invalid input")
}

func Test_Disabled_Module_Fails_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".hb.json", `{"disabled_modules": ["groceries", "theme"]}`)

	stderr := c.MustFail("grocery", "add", "--item", "eggs", "--quantity", "1")
	cli.AssertContains(t, stderr, "module disabled: groceries")

	stderr = c.MustFail("theme", "toggle")
	cli.AssertContains(t, stderr, "module disabled: theme")

	c.MustRun("habit", "add", "--title", "Run", "--date", "d", "--time", "t")

	stdout := c.MustRun("show")
	cli.AssertContains(t, stdout, "Habits")
	cli.AssertNotContains(t, stdout, "Groceries")
	cli.AssertNotContains(t, stdout, "Switch to")
}

func Test_Theme_Default_Toggle_And_Set_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".hb.json", `{"theme_default": "dark"}`)

	if got := c.MustRun("theme"); got != "dark" {
		t.Fatalf("theme=%q, want dark", got)
	}

	if got := c.MustRun("theme", "toggle"); got != "light" {
		t.Fatalf("toggle=%q, want light", got)
	}

	if got := c.MustRun("theme", "show"); got != "light" {
		t.Fatalf("theme=%q, want persisted light", got)
	}

	cli.AssertContains(t, c.MustRun("show"), "[Switch to Dark Theme]")

	c.MustRun("theme", "set", "dark")
	cli.AssertContains(t, c.MustRun("show"), "[Switch to Light Theme]")

	stderr := c.MustFail("theme", "set", "sepia")
	cli.AssertContains(t, stderr, "invalid theme")
}

func Test_Show_Renders_Every_Module_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".hb.json", `{"members": ["Ana", "Ben"], "theme_default": "light"}`)

	c.MustRun("meal", "add", "--day", "Friday", "--name", "Pizza")
	c.MustRun("task", "add", "--title", "Vacuum", "--to", "Ben")

	stdout := c.MustRun("show")

	for _, want := range []string{
		"[Switch to Dark Theme]",
		"Habits",
		"Meal plan",
		"Meal log",
		"Groceries",
		"Groceries (done)",
		"Tasks for Ana",
		"Tasks for Ben",
		"Friday: Pizza",
		"Vacuum",
	} {
		cli.AssertContains(t, stdout, want)
	}
}

func Test_Malformed_Stored_Data_Is_Treated_As_Empty_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".homebase/groceries.json", `{not json`)

	stdout, stderr, code := c.Run("grocery", "ls")
	if code != 0 {
		t.Fatalf("exit=%d, stderr=%s", code, stderr)
	}

	cli.AssertContains(t, stdout, "(empty)")
	cli.AssertContains(t, stderr, "using default")

	c.MustRun("grocery", "add", "--item", "bread", "--quantity", "1")
	cli.AssertContains(t, c.MustRun("grocery", "ls"), "1 x bread")
}

func Test_Legacy_Records_Get_IDs_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile(".homebase/meals.json", `[{"day":"Monday","name":"Pasta"},{"day":"Monday","name":"Pasta"}]`)

	c.MustRun("meal", "ls")

	var stored []map[string]string
	if err := json.Unmarshal([]byte(c.ReadData("meals")), &stored); err != nil {
		t.Fatalf("stored meals are not JSON: %v", err)
	}

	if len(stored) != 2 || stored[0]["id"] == "" || stored[0]["id"] == stored[1]["id"] {
		t.Fatalf("stored=%v, want two distinct ids", stored)
	}

	c.MustRun("meal", "rm", stored[0]["id"])

	stdout := c.MustRun("meal", "ls")
	cli.AssertContains(t, stdout, stored[1]["id"])
	cli.AssertNotContains(t, stdout, stored[0]["id"])
}

func Test_SQLite_Backend_Persists_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	id := c.MustRun("--backend", "sqlite", "habit", "add", "--title", "Read", "--date", "d", "--time", "t")

	cli.AssertContains(t, c.MustRun("--backend", "sqlite", "habit", "ls"), id+"  Read")
	cli.AssertContains(t, c.MustRun("habit", "ls"), "(empty)")

	if _, err := os.Stat(filepath.Join(c.DataDir(), "hb.sqlite")); err != nil {
		t.Fatalf("sqlite database missing: %v", err)
	}
}
