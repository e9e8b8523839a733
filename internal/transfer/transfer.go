// Package transfer exports the household data as a snapshot document and
// imports it back.
package transfer

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/calvinalkan/homebase/internal/household"
	"github.com/calvinalkan/homebase/internal/store"
	"github.com/calvinalkan/homebase/internal/theme"
)

// Version is the snapshot format version.
const Version = 1

// Export formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

var (
	ErrUnknownFormat   = errors.New("unknown export format (must be json, toml or yaml)")
	ErrInvalidSnapshot = errors.New("invalid snapshot")
)

// Snapshot is every persisted collection plus the theme.
type Snapshot struct {
	Version   int                     `json:"version" toml:"version" yaml:"version"`
	Theme     string                  `json:"theme,omitempty" toml:"theme,omitempty" yaml:"theme,omitempty"`
	Habits    []household.Habit       `json:"habits" toml:"habits" yaml:"habits"`
	Meals     []household.Meal        `json:"meals" toml:"meals" yaml:"meals"`
	Groceries []household.GroceryItem `json:"groceries" toml:"groceries" yaml:"groceries"`
	Tasks     []household.Task        `json:"tasks" toml:"tasks" yaml:"tasks"`
}

// Formats lists the export formats.
func Formats() []string {
	return []string{FormatJSON, FormatTOML, FormatYAML}
}

// Collect reads the snapshot from storage. Modules disabled on the page
// are still exported; the snapshot reflects storage, not the document.
func Collect(ctx context.Context, adapter *store.Adapter) (Snapshot, error) {
	snap := Snapshot{Version: Version}

	var err error

	snap.Habits, err = store.NewCollection[household.Habit](adapter, household.KeyHabits).Load(ctx, []household.Habit{})
	if err != nil {
		return Snapshot{}, err
	}

	snap.Meals, err = store.NewCollection[household.Meal](adapter, household.KeyMeals).Load(ctx, []household.Meal{})
	if err != nil {
		return Snapshot{}, err
	}

	snap.Groceries, err = store.NewCollection[household.GroceryItem](adapter, household.KeyGroceries).Load(ctx, []household.GroceryItem{})
	if err != nil {
		return Snapshot{}, err
	}

	snap.Tasks, err = store.NewCollection[household.Task](adapter, household.KeyTasks).Load(ctx, []household.Task{})
	if err != nil {
		return Snapshot{}, err
	}

	stored, ok, err := store.NewScalar(adapter, theme.Key).Get(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	if mode, parseErr := theme.ParseMode(stored); ok && parseErr == nil {
		snap.Theme = string(mode)
	}

	return snap, nil
}

// Encode writes snap to w in format.
func Encode(w io.Writer, snap Snapshot, format string) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(snap)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(snap)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(snap); err != nil {
			return err
		}

		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Export collects the snapshot and writes it to w.
func Export(ctx context.Context, adapter *store.Adapter, w io.Writer, format string) error {
	if !slices.Contains(Formats(), format) {
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	snap, err := Collect(ctx, adapter)
	if err != nil {
		return err
	}

	return Encode(w, snap, format)
}

//go:embed snapshot.schema.json
var schemaJSON []byte

const schemaURL = "https://homebase.local/snapshot.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft7

	if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
		return nil, fmt.Errorf("load snapshot schema: %w", err)
	}

	return compiler.Compile(schemaURL)
})

// SnapshotError lists every problem found in an imported document.
type SnapshotError struct {
	Problems []string
}

func (e *SnapshotError) Error() string {
	return ErrInvalidSnapshot.Error() + ":\n  " + strings.Join(e.Problems, "\n  ")
}

func (e *SnapshotError) Unwrap() error {
	return ErrInvalidSnapshot
}

// Decode parses and validates a JSON snapshot. Task assignees are resolved
// against members, and duplicate ids are rejected. Records without an id
// are returned without one.
func Decode(data []byte, members household.Members) (Snapshot, error) {
	schema, err := compiledSchema()
	if err != nil {
		return Snapshot{}, err
	}

	var doc any

	if err := json.Unmarshal(data, &doc); err != nil {
		return Snapshot{}, &SnapshotError{Problems: []string{"not valid JSON: " + err.Error()}}
	}

	if err := schema.Validate(doc); err != nil {
		var ve *jsonschema.ValidationError
		if !errors.As(err, &ve) {
			return Snapshot{}, err
		}

		return Snapshot{}, &SnapshotError{Problems: schemaProblems(ve, nil)}
	}

	var snap Snapshot

	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, &SnapshotError{Problems: []string{err.Error()}}
	}

	var problems []string

	for i, task := range snap.Tasks {
		member, ok := members.Resolve(task.AssignedTo)
		if !ok {
			problems = append(problems, fmt.Sprintf("tasks/%d: assignedTo %q is not one of %s, %s", i, task.AssignedTo, members[0], members[1]))

			continue
		}

		snap.Tasks[i].AssignedTo = member
	}

	problems = append(problems, duplicateIDs("habits", snap.Habits, func(h household.Habit) string { return h.ID })...)
	problems = append(problems, duplicateIDs("meals", snap.Meals, func(m household.Meal) string { return m.ID })...)
	problems = append(problems, duplicateIDs("groceries", snap.Groceries, func(g household.GroceryItem) string { return g.ID })...)
	problems = append(problems, duplicateIDs("tasks", snap.Tasks, func(t household.Task) string { return t.ID })...)

	if len(problems) > 0 {
		return Snapshot{}, &SnapshotError{Problems: problems}
	}

	return snap, nil
}

// schemaProblems flattens the leaves of a validation error tree.
func schemaProblems(ve *jsonschema.ValidationError, out []string) []string {
	if len(ve.Causes) == 0 {
		at := strings.TrimPrefix(ve.InstanceLocation, "/")
		if at == "" {
			at = "(root)"
		}

		return append(out, at+": "+ve.Message)
	}

	for _, cause := range ve.Causes {
		out = schemaProblems(cause, out)
	}

	return out
}

func duplicateIDs[T any](name string, records []T, id func(T) string) []string {
	seen := make(map[string]bool, len(records))

	var problems []string

	for i, rec := range records {
		v := id(rec)
		if v == "" {
			continue
		}

		if seen[v] {
			problems = append(problems, fmt.Sprintf("%s/%d: duplicate id %s", name, i, v))
		}

		seen[v] = true
	}

	return problems
}

// Summary counts the imported records.
type Summary struct {
	Habits    int
	Meals     int
	Groceries int
	Tasks     int
	Theme     string
}

// Import validates data and replaces every collection with its content.
// Nothing is written unless the whole document is valid. Each collection
// is replaced with a single write; a storage failure part way through
// leaves the earlier collections replaced.
func Import(ctx context.Context, adapter *store.Adapter, members household.Members, data []byte) (Summary, error) {
	snap, err := Decode(data, members)
	if err != nil {
		return Summary{}, err
	}

	if err := assignIDs(&snap); err != nil {
		return Summary{}, err
	}

	err = replace(ctx, adapter, household.KeyHabits, snap.Habits)
	if err != nil {
		return Summary{}, err
	}

	err = replace(ctx, adapter, household.KeyMeals, snap.Meals)
	if err != nil {
		return Summary{}, err
	}

	err = replace(ctx, adapter, household.KeyGroceries, snap.Groceries)
	if err != nil {
		return Summary{}, err
	}

	err = replace(ctx, adapter, household.KeyTasks, snap.Tasks)
	if err != nil {
		return Summary{}, err
	}

	if snap.Theme != "" {
		err = store.NewScalar(adapter, theme.Key).Set(ctx, snap.Theme)
		if err != nil {
			return Summary{}, err
		}
	}

	return Summary{
		Habits:    len(snap.Habits),
		Meals:     len(snap.Meals),
		Groceries: len(snap.Groceries),
		Tasks:     len(snap.Tasks),
		Theme:     snap.Theme,
	}, nil
}

func replace[T any](ctx context.Context, adapter *store.Adapter, key string, records []T) error {
	if records == nil {
		records = []T{}
	}

	return store.NewCollection[T](adapter, key).Save(ctx, records)
}

func assignIDs(snap *Snapshot) error {
	for i := range snap.Habits {
		if err := ensureID(&snap.Habits[i].ID); err != nil {
			return err
		}
	}

	for i := range snap.Meals {
		if err := ensureID(&snap.Meals[i].ID); err != nil {
			return err
		}
	}

	for i := range snap.Groceries {
		if err := ensureID(&snap.Groceries[i].ID); err != nil {
			return err
		}
	}

	for i := range snap.Tasks {
		if err := ensureID(&snap.Tasks[i].ID); err != nil {
			return err
		}
	}

	return nil
}

func ensureID(id *string) error {
	if *id != "" {
		return nil
	}

	v, err := store.NewID()
	if err != nil {
		return err
	}

	*id = v

	return nil
}
