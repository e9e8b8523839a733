package cli_test

import (
	"strings"
	"testing"

	"github.com/calvinalkan/homebase/internal/cli"
)

func Test_Shell_Runs_Commands_Until_Exit_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, code := c.Shell(
		`meal add --day Monday --name "Mac and cheese"`,
		`meal ls`,
		`bogus`,
		`exit`,
		`meal add --day Tuesday --name Soup`,
	)
	if code != 0 {
		t.Fatalf("exit=%d, stderr=%s", code, stderr)
	}

	cli.AssertContains(t, stdout, "hb shell")
	cli.AssertContains(t, stdout, "Monday: Mac and cheese")
	cli.AssertContains(t, stderr, "unknown command: bogus")

	cli.AssertNotContains(t, c.MustRun("meal", "ls"), "Soup")
}

func Test_Shell_Guided_Add_Prompts_For_Fields_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	stdout, stderr, code := c.Shell(
		"grocery add",
		"eggs",
		"12",
		"",
		"Dairy",
		"grocery ls",
	)
	if code != 0 {
		t.Fatalf("exit=%d, stderr=%s", code, stderr)
	}

	cli.AssertContains(t, stdout, "Item *: ")
	cli.AssertContains(t, stdout, "Quantity *: ")
	cli.AssertContains(t, stdout, "Store: ")
	cli.AssertContains(t, stdout, "12 x eggs (Dairy)")
}

func Test_Shell_Guided_Add_Reports_Missing_Fields_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	_, stderr, code := c.Shell(
		"habit add",
		"Stretch",
		"",
		"",
		"",
	)
	if code != 0 {
		t.Fatalf("exit=%d, stderr=%s", code, stderr)
	}

	cli.AssertContains(t, stderr, "missing required fields: date, time")
	cli.AssertContains(t, c.MustRun("habit", "ls"), "(empty)")
}

func Test_Shell_Import_Refreshes_Page_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	c.WriteFile("snapshot.json", `{"version": 1, "habits": [{"title": "Journal", "date": "d", "time": "t"}]}`)

	stdout, stderr, code := c.Shell("import snapshot.json", "habit ls")
	if code != 0 {
		t.Fatalf("exit=%d, stderr=%s", code, stderr)
	}

	cli.AssertContains(t, stdout, "Imported 1 habits, 0 meals, 0 groceries, 0 tasks")
	cli.AssertContains(t, stdout, "Journal | d | t | N/A")
}

func Test_Shell_Unchecked_Grocery_Moves_To_End_Of_Active_List_When_Invoked(t *testing.T) {
	t.Parallel()

	c := cli.NewCLI(t)
	eggs := c.MustRun("grocery", "add", "--item", "eggs", "--quantity", "12")
	milk := c.MustRun("grocery", "add", "--item", "milk", "--quantity", "1")

	stdout, stderr, code := c.Shell(
		"grocery check "+eggs,
		"grocery uncheck "+eggs,
		"grocery ls",
	)
	if code != 0 {
		t.Fatalf("exit=%d, stderr=%s", code, stderr)
	}

	listing := stdout[strings.LastIndex(stdout, "Unchecked "+eggs):]
	if strings.Index(listing, milk) > strings.Index(listing, "[ ] "+eggs) {
		t.Fatalf("unchecked item should move to the end of the mounted list\n%s", listing)
	}

	cli.AssertContains(t, listing, "[ ] "+milk+"  1 x milk")
	cli.AssertContains(t, listing, "[ ] "+eggs+"  12 x eggs")
}
