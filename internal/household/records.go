package household

import (
	"context"
	"fmt"
	"strings"

	"github.com/calvinalkan/homebase/internal/view"
)

// Collection keys.
const (
	KeyHabits    = "habits"
	KeyMeals     = "meals"
	KeyGroceries = "groceries"
	KeyTasks     = "tasks"
)

// Document regions.
const (
	RegionHabits         = "habits"
	RegionMeals          = "meals"
	RegionMealLog        = "meals.log"
	RegionGroceryActive  = "groceries.active"
	RegionGroceryArchive = "groceries.archive"
	regionTaskPrefix     = "tasks:"
)

// TaskRegion returns the region listing tasks assigned to member.
func TaskRegion(member string) string {
	return regionTaskPrefix + member
}

// Habit is one logged occurrence of a habit.
type Habit struct {
	ID      string `json:"id,omitempty" toml:"id,omitempty" yaml:"id,omitempty"`
	Title   string `json:"title" toml:"title" yaml:"title"`
	Date    string `json:"date" toml:"date" yaml:"date"`
	Time    string `json:"time" toml:"time" yaml:"time"`
	Comment string `json:"comment,omitempty" toml:"comment,omitempty" yaml:"comment,omitempty"`
}

// Meal is a planned meal for a day.
type Meal struct {
	ID   string `json:"id,omitempty" toml:"id,omitempty" yaml:"id,omitempty"`
	Day  string `json:"day" toml:"day" yaml:"day"`
	Name string `json:"name" toml:"name" yaml:"name"`
}

// GroceryItem is an entry of the shared grocery list. Completed items are
// archived.
type GroceryItem struct {
	ID        string `json:"id,omitempty" toml:"id,omitempty" yaml:"id,omitempty"`
	ItemName  string `json:"itemName" toml:"itemName" yaml:"itemName"`
	Quantity  string `json:"quantity" toml:"quantity" yaml:"quantity"`
	Location  string `json:"location" toml:"location" yaml:"location"`
	Category  string `json:"category" toml:"category" yaml:"category"`
	Completed bool   `json:"completed" toml:"completed" yaml:"completed"`
}

// Task is a chore assigned to one of the two household members.
type Task struct {
	ID         string `json:"id,omitempty" toml:"id,omitempty" yaml:"id,omitempty"`
	Title      string `json:"title" toml:"title" yaml:"title"`
	AssignedTo string `json:"assignedTo" toml:"assignedTo" yaml:"assignedTo"`
	Reward     string `json:"reward,omitempty" toml:"reward,omitempty" yaml:"reward,omitempty"`
}

// HabitSchema describes the habits collection.
func HabitSchema() Schema[Habit] {
	return Schema[Habit]{
		Key:     KeyHabits,
		Regions: []string{RegionHabits},
		Fields: []Field{
			{Name: "title", Label: "Habit", Required: true},
			{Name: "date", Label: "Date", Required: true},
			{Name: "time", Label: "Time", Required: true},
			{Name: "comment", Label: "Comment"},
		},
		Build: func(v map[string]string) (Habit, []string) {
			return Habit{Title: v["title"], Date: v["date"], Time: v["time"], Comment: v["comment"]}, nil
		},
		ID:     func(h Habit) string { return h.ID },
		WithID: func(h Habit, id string) Habit { h.ID = id; return h },
		Place:  func(Habit) []string { return []string{RegionHabits} },
		Render: func(h Habit) view.Node {
			comment := h.Comment
			if comment == "" {
				comment = "N/A"
			}

			return view.Node{Text: strings.Join([]string{h.Title, h.Date, h.Time, comment}, " | ")}
		},
	}
}

// MealSchema describes the meals collection. Meals render in the plan and
// in the log.
func MealSchema() Schema[Meal] {
	return Schema[Meal]{
		Key:     KeyMeals,
		Regions: []string{RegionMeals, RegionMealLog},
		Fields: []Field{
			{Name: "day", Label: "Day", Required: true},
			{Name: "name", Label: "Meal", Required: true},
		},
		Build: func(v map[string]string) (Meal, []string) {
			return Meal{Day: v["day"], Name: v["name"]}, nil
		},
		ID:     func(m Meal) string { return m.ID },
		WithID: func(m Meal, id string) Meal { m.ID = id; return m },
		Place:  func(Meal) []string { return []string{RegionMeals, RegionMealLog} },
		Render: func(m Meal) view.Node {
			return view.Node{Text: m.Day + ": " + m.Name}
		},
	}
}

// GrocerySchema describes the groceries collection. New items start
// active; completed items render in the archive.
func GrocerySchema() Schema[GroceryItem] {
	return Schema[GroceryItem]{
		Key:     KeyGroceries,
		Regions: []string{RegionGroceryActive, RegionGroceryArchive},
		Fields: []Field{
			{Name: "itemName", Label: "Item", Required: true},
			{Name: "quantity", Label: "Quantity", Required: true},
			{Name: "location", Label: "Store"},
			{Name: "category", Label: "Category"},
		},
		Build: func(v map[string]string) (GroceryItem, []string) {
			return GroceryItem{
				ItemName: v["itemName"],
				Quantity: v["quantity"],
				Location: v["location"],
				Category: v["category"],
			}, nil
		},
		ID:     func(g GroceryItem) string { return g.ID },
		WithID: func(g GroceryItem, id string) GroceryItem { g.ID = id; return g },
		Place: func(g GroceryItem) []string {
			if g.Completed {
				return []string{RegionGroceryArchive}
			}

			return []string{RegionGroceryActive}
		},
		Render: func(g GroceryItem) view.Node {
			text := g.Quantity + " x " + g.ItemName
			if g.Category != "" {
				text += " (" + g.Category + ")"
			}

			if g.Location != "" {
				text += " @ " + g.Location
			}

			return view.Node{Text: text, Checkbox: true, Checked: g.Completed}
		},
	}
}

// Members is the fixed pair of names tasks can be assigned to.
type Members [2]string

// DefaultMembers is used when configuration names no members.
var DefaultMembers = Members{"Alex", "Sam"}

// Trimmed returns the pair with surrounding whitespace removed.
func (m Members) Trimmed() Members {
	return Members{strings.TrimSpace(m[0]), strings.TrimSpace(m[1])}
}

// Validate checks the pair is two distinct non-empty names.
func (m Members) Validate() error {
	a, b := strings.TrimSpace(m[0]), strings.TrimSpace(m[1])
	if a == "" || b == "" || strings.EqualFold(a, b) {
		return fmt.Errorf("%w: %q, %q", ErrMembers, m[0], m[1])
	}

	return nil
}

// Resolve returns the configured spelling of name, matching case-insensitively.
func (m Members) Resolve(name string) (string, bool) {
	for _, member := range m {
		if strings.EqualFold(member, strings.TrimSpace(name)) {
			return member, true
		}
	}

	return "", false
}

// TaskSchema describes the tasks collection for members. Each member has
// their own region.
func TaskSchema(members Members) Schema[Task] {
	return Schema[Task]{
		Key:     KeyTasks,
		Regions: []string{TaskRegion(members[0]), TaskRegion(members[1])},
		Fields: []Field{
			{Name: "title", Label: "Task", Required: true},
			{Name: "assignedTo", Label: "Assigned to (" + members[0] + "/" + members[1] + ")", Required: true},
			{Name: "reward", Label: "Reward"},
		},
		Build: func(v map[string]string) (Task, []string) {
			member, ok := members.Resolve(v["assignedTo"])
			if !ok {
				return Task{}, []string{fmt.Sprintf("assignedTo %q is not one of %s, %s", v["assignedTo"], members[0], members[1])}
			}

			return Task{Title: v["title"], AssignedTo: member, Reward: v["reward"]}, nil
		},
		ID:     func(t Task) string { return t.ID },
		WithID: func(t Task, id string) Task { t.ID = id; return t },
		Place: func(t Task) []string {
			member, ok := members.Resolve(t.AssignedTo)
			if !ok {
				return nil
			}

			return []string{TaskRegion(member)}
		},
		Render: func(t Task) view.Node {
			text := t.Title
			if t.Reward != "" {
				text += " (reward: " + t.Reward + ")"
			}

			return view.Node{Text: text}
		},
	}
}

// Groceries adds the completion toggle to the grocery controller.
type Groceries struct {
	*Controller[GroceryItem]
}

// ToggleCompleted sets the completed flag of the item with id, persists it,
// and moves the item between the active list and the archive.
func (g *Groceries) ToggleCompleted(ctx context.Context, id string, completed bool) (GroceryItem, error) {
	return g.Update(ctx, id, func(item GroceryItem) GroceryItem {
		item.Completed = completed

		return item
	})
}
