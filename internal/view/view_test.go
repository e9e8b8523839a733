package view_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/calvinalkan/homebase/internal/view"
)

func newDoc() *view.Document {
	doc := view.NewDocument()
	doc.AddRegion("groceries.active", "Groceries")
	doc.AddRegion("groceries.archive", "Archive")

	return doc
}

func Test_Insert_Into_Missing_Region_Fails(t *testing.T) {
	t.Parallel()

	doc := newDoc()

	err := doc.Insert("habits", view.Node{ID: "A"})
	if !errors.Is(err, view.ErrRegionMissing) {
		t.Fatalf("err=%v, want=%v", err, view.ErrRegionMissing)
	}
}

func Test_Insert_Remove_Keeps_Order(t *testing.T) {
	t.Parallel()

	doc := newDoc()

	for _, id := range []string{"A", "B", "C"} {
		if err := doc.Insert("groceries.active", view.Node{ID: id, Text: id}); err != nil {
			t.Fatalf("insert %s: %v", id, err)
		}
	}

	if !doc.Remove("groceries.active", "B") {
		t.Fatal("remove B reported nothing removed")
	}

	if doc.Remove("groceries.active", "B") {
		t.Fatal("second remove of B reported a removal")
	}

	want := []view.Node{{ID: "A", Text: "A"}, {ID: "C", Text: "C"}}
	if diff := cmp.Diff(want, doc.Nodes("groceries.active")); diff != "" {
		t.Fatalf("nodes mismatch (-want +got):\n%s", diff)
	}
}

func Test_Find_Reports_Region(t *testing.T) {
	t.Parallel()

	doc := newDoc()
	_ = doc.Insert("groceries.archive", view.Node{ID: "X", Text: "milk", Checkbox: true, Checked: true})

	region, node, ok := doc.Find("X")
	if !ok {
		t.Fatal("node X not found")
	}

	if got, want := region, "groceries.archive"; got != want {
		t.Fatalf("region=%q, want=%q", got, want)
	}

	if got, want := node.Text, "milk"; got != want {
		t.Fatalf("text=%q, want=%q", got, want)
	}
}

func Test_AddRegion_Twice_Keeps_Nodes(t *testing.T) {
	t.Parallel()

	doc := newDoc()
	_ = doc.Insert("groceries.active", view.Node{ID: "A"})
	doc.AddRegion("groceries.active", "Other title")

	if got, want := len(doc.Nodes("groceries.active")), 1; got != want {
		t.Fatalf("nodes=%d, want=%d", got, want)
	}

	if got, want := len(doc.Regions()), 2; got != want {
		t.Fatalf("regions=%d, want=%d", got, want)
	}
}

func Test_Render_Shows_Regions_Checkboxes_And_Toggle(t *testing.T) {
	t.Parallel()

	doc := newDoc()
	doc.SetAttr(view.ThemeAttr, "dark")
	doc.SetToggleLabel("Switch to Light Theme")
	_ = doc.Insert("groceries.active", view.Node{ID: "A1", Text: "2 x eggs", Checkbox: true})
	_ = doc.Insert("groceries.archive", view.Node{ID: "B2", Text: "1 x milk", Checkbox: true, Checked: true})

	var buf bytes.Buffer

	out := view.NewRenderer(&buf).Render(doc)

	for _, want := range []string{
		"[Switch to Light Theme]",
		"Groceries",
		"[ ] A1  2 x eggs",
		"Archive",
		"[x] B2  1 x milk",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q\noutput:\n%s", want, out)
		}
	}
}

func Test_Render_Empty_Region(t *testing.T) {
	t.Parallel()

	doc := newDoc()

	var buf bytes.Buffer

	out := view.NewRenderer(&buf).RenderRegion(doc, "groceries.archive")
	if !strings.Contains(out, "(empty)") {
		t.Fatalf("output should mark empty region\noutput:\n%s", out)
	}

	if got := view.NewRenderer(&buf).RenderRegion(doc, "nope"); got != "" {
		t.Fatalf("missing region rendered %q", got)
	}
}

func Test_PaletteFor_Defaults_To_Light(t *testing.T) {
	t.Parallel()

	if diff := cmp.Diff(view.LightPalette(), view.PaletteFor("")); diff != "" {
		t.Fatalf("palette mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(view.DarkPalette(), view.PaletteFor("dark")); diff != "" {
		t.Fatalf("palette mismatch (-want +got):\n%s", diff)
	}
}
