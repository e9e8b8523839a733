// Package household implements the collection controllers of the household
// page (habits, meals, groceries, tasks) and the page that mounts them.
//
// Every controller is the same generic [Controller] parameterized by a
// [Schema]: the storage key, the create form, how records render, and which
// document regions they render into. Storage is mutated first; the document
// follows only after the write succeeded.
package household

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/calvinalkan/homebase/internal/store"
	"github.com/calvinalkan/homebase/internal/view"
)

// Schema describes one collection.
type Schema[T any] struct {
	// Key is the storage key and the module name.
	Key string

	// Regions are the document regions the module needs. A missing region
	// disables the module.
	Regions []string

	// Fields is the create form, in prompt order.
	Fields []Field

	// Build turns trimmed form values into a record. Required fields are
	// already known to be non-empty. Returned problems reject the record.
	Build func(values map[string]string) (T, []string)

	// ID and WithID read and assign the record id.
	ID     func(T) string
	WithID func(T, string) T

	// Place returns the regions a record renders into.
	Place func(T) []string

	// Render turns a record into a node. The node ID is set by the controller.
	Render func(T) view.Node
}

// Controller bridges one collection between storage and the document.
type Controller[T any] struct {
	schema   Schema[T]
	coll     *store.Collection[T]
	doc      *view.Document
	log      *zap.Logger
	newID    func() (string, error)
	disabled bool
}

// NewController returns a controller for schema. Call Initialize before use.
func NewController[T any](adapter *store.Adapter, doc *view.Document, log *zap.Logger, schema Schema[T]) *Controller[T] {
	if log == nil {
		log = zap.NewNop()
	}

	return &Controller[T]{
		schema: schema,
		coll:   store.NewCollection[T](adapter, schema.Key),
		doc:    doc,
		log:    log.With(zap.String("module", schema.Key)),
		newID:  store.NewID,
	}
}

// Key returns the collection key.
func (c *Controller[T]) Key() string {
	return c.schema.Key
}

// Fields returns the create form fields.
func (c *Controller[T]) Fields() []Field {
	return c.schema.Fields
}

// ID returns the id of rec.
func (c *Controller[T]) ID(rec T) string {
	return c.schema.ID(rec)
}

// Enabled reports whether the module mounted.
func (c *Controller[T]) Enabled() bool {
	return !c.disabled
}

// Initialize loads the collection and renders every record. When a region
// the module needs is missing from the document the module is disabled for
// the rest of its lifetime and Initialize returns nil.
//
// Records persisted without an id get one, and the collection is saved once.
func (c *Controller[T]) Initialize(ctx context.Context) error {
	if c.disabled {
		return nil
	}

	for _, region := range c.schema.Regions {
		if !c.doc.HasRegion(region) {
			c.log.Error("document region missing, module disabled", zap.String("region", region))
			c.disabled = true

			return nil
		}
	}

	records, err := c.coll.Load(ctx, nil)
	if err != nil {
		return err
	}

	records, err = c.backfill(ctx, records)
	if err != nil {
		return err
	}

	for _, region := range c.schema.Regions {
		c.doc.Clear(region)
	}

	for _, rec := range records {
		c.render(rec)
	}

	c.log.Debug("mounted", zap.Int("records", len(records)))

	return nil
}

func (c *Controller[T]) backfill(ctx context.Context, records []T) ([]T, error) {
	missing := 0

	for i, rec := range records {
		if c.schema.ID(rec) != "" {
			continue
		}

		id, err := c.newID()
		if err != nil {
			return nil, err
		}

		records[i] = c.schema.WithID(rec, id)
		missing++
	}

	if missing == 0 {
		return records, nil
	}

	err := c.coll.Save(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("assign ids: %w", err)
	}

	c.log.Info("assigned ids to stored records", zap.Int("count", missing))

	return records, nil
}

// List returns the persisted records.
func (c *Controller[T]) List(ctx context.Context) ([]T, error) {
	if c.disabled {
		return nil, c.disabledErr()
	}

	return c.coll.Load(ctx, []T{})
}

// Get returns the record with id.
func (c *Controller[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T

	records, err := c.List(ctx)
	if err != nil {
		return zero, err
	}

	for _, rec := range records {
		if c.schema.ID(rec) == id {
			return rec, nil
		}
	}

	return zero, fmt.Errorf("%w: %s %s", ErrRecordNotFound, c.schema.Key, id)
}

// Create validates form, appends the record, and renders it. A
// [*ValidationError] means nothing was written or rendered.
func (c *Controller[T]) Create(ctx context.Context, form Form) (T, error) {
	var zero T

	if c.disabled {
		return zero, c.disabledErr()
	}

	values, missing := collect(c.schema.Fields, form)
	if len(missing) > 0 {
		return zero, &ValidationError{Collection: c.schema.Key, Missing: missing}
	}

	rec, problems := c.schema.Build(values)
	if len(problems) > 0 {
		return zero, &ValidationError{Collection: c.schema.Key, Problems: problems}
	}

	id, err := c.newID()
	if err != nil {
		return zero, err
	}

	rec = c.schema.WithID(rec, id)

	err = c.coll.Append(ctx, rec)
	if err != nil {
		return zero, err
	}

	c.render(rec)
	c.log.Debug("created", zap.String("id", id))

	return rec, nil
}

// Delete removes the record with id from storage and then from the document.
func (c *Controller[T]) Delete(ctx context.Context, id string) error {
	if c.disabled {
		return c.disabledErr()
	}

	if id == "" {
		return ErrIDRequired
	}

	removed, err := c.coll.Remove(ctx, c.matchID(id))
	if err != nil {
		return err
	}

	if removed == 0 {
		return fmt.Errorf("%w: %s %s", ErrRecordNotFound, c.schema.Key, id)
	}

	c.unrender(id)
	c.log.Debug("deleted", zap.String("id", id))

	return nil
}

// Update applies fn to the record with id, persists the result, and
// re-renders it. A record whose regions change moves to the end of its new
// region.
func (c *Controller[T]) Update(ctx context.Context, id string, fn func(T) T) (T, error) {
	var zero T

	if c.disabled {
		return zero, c.disabledErr()
	}

	if id == "" {
		return zero, ErrIDRequired
	}

	current, err := c.Get(ctx, id)
	if err != nil {
		return zero, err
	}

	next := c.schema.WithID(fn(current), id)

	replaced, err := c.coll.Replace(ctx, c.matchID(id), next)
	if err != nil {
		return zero, err
	}

	if replaced == 0 {
		return zero, fmt.Errorf("%w: %s %s", ErrRecordNotFound, c.schema.Key, id)
	}

	c.rerender(id, next)

	return next, nil
}

func (c *Controller[T]) matchID(id string) func(T) bool {
	return func(rec T) bool {
		return c.schema.ID(rec) == id
	}
}

func (c *Controller[T]) node(rec T) view.Node {
	n := c.schema.Render(rec)
	n.ID = c.schema.ID(rec)

	return n
}

func (c *Controller[T]) render(rec T) {
	n := c.node(rec)

	for _, region := range c.schema.Place(rec) {
		if err := c.doc.Insert(region, n); err != nil {
			c.log.Warn("render failed", zap.String("id", n.ID), zap.Error(err))
		}
	}
}

func (c *Controller[T]) unrender(id string) {
	for _, region := range c.schema.Regions {
		c.doc.Remove(region, id)
	}
}

// rerender replaces the node in place when the record stays in the same
// regions and moves it otherwise.
func (c *Controller[T]) rerender(id string, rec T) {
	n := c.node(rec)
	placed := c.schema.Place(rec)

	same := true

	for _, region := range placed {
		if !c.doc.Replace(region, n) {
			same = false
		}
	}

	if same {
		return
	}

	c.unrender(id)
	c.render(rec)
}

// disable turns the module off before mount.
func (c *Controller[T]) disable() {
	c.disabled = true
}

func (c *Controller[T]) disabledErr() error {
	return fmt.Errorf("%w: %s", ErrModuleDisabled, c.schema.Key)
}
