// Package view is the presentation layer: an in-memory document of named
// list regions holding rendered nodes, and a renderer that prints it.
//
// The document is disposable. It never reads or writes storage; the
// collection controllers insert and remove nodes after they have mutated
// the persisted collection.
package view

import (
	"errors"
	"fmt"
	"slices"
)

// ErrRegionMissing reports an operation on a region the document lacks.
var ErrRegionMissing = errors.New("region missing")

// ThemeAttr is the document attribute holding the active theme mode.
const ThemeAttr = "data-theme"

// Node is one rendered list entry.
type Node struct {
	// ID is the record id the node was rendered from.
	ID string

	// Text is the primary line.
	Text string

	// Checkbox marks nodes that carry a completion checkbox.
	Checkbox bool
	Checked  bool
}

// Region is an ordered list of nodes with a heading.
type Region struct {
	Name  string
	Title string
	Nodes []Node
}

// Document holds the rendered regions in layout order.
type Document struct {
	regions     map[string]*Region
	order       []string
	attrs       map[string]string
	toggleLabel string
}

// NewDocument returns an empty document with no regions.
func NewDocument() *Document {
	return &Document{
		regions: make(map[string]*Region),
		attrs:   make(map[string]string),
	}
}

// AddRegion appends a region to the layout. Adding an existing name is a no-op.
func (d *Document) AddRegion(name, title string) {
	if _, ok := d.regions[name]; ok {
		return
	}

	d.regions[name] = &Region{Name: name, Title: title}
	d.order = append(d.order, name)
}

// HasRegion reports whether the layout contains name.
func (d *Document) HasRegion(name string) bool {
	_, ok := d.regions[name]

	return ok
}

// Regions returns the regions in layout order.
func (d *Document) Regions() []*Region {
	out := make([]*Region, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.regions[name])
	}

	return out
}

// Nodes returns a copy of the nodes in region, or nil when it is missing.
func (d *Document) Nodes(region string) []Node {
	r, ok := d.regions[region]
	if !ok {
		return nil
	}

	return slices.Clone(r.Nodes)
}

// Insert appends n to region.
func (d *Document) Insert(region string, n Node) error {
	r, ok := d.regions[region]
	if !ok {
		return fmt.Errorf("%w: %s", ErrRegionMissing, region)
	}

	r.Nodes = append(r.Nodes, n)

	return nil
}

// Remove deletes the node with id from region and reports whether it was there.
func (d *Document) Remove(region, id string) bool {
	r, ok := d.regions[region]
	if !ok {
		return false
	}

	before := len(r.Nodes)
	r.Nodes = slices.DeleteFunc(r.Nodes, func(n Node) bool { return n.ID == id })

	return len(r.Nodes) != before
}

// Replace swaps the node with n.ID in region for n, keeping its position.
func (d *Document) Replace(region string, n Node) bool {
	r, ok := d.regions[region]
	if !ok {
		return false
	}

	for i := range r.Nodes {
		if r.Nodes[i].ID == n.ID {
			r.Nodes[i] = n

			return true
		}
	}

	return false
}

// Find returns the region holding id and the node.
func (d *Document) Find(id string) (string, Node, bool) {
	for _, name := range d.order {
		for _, n := range d.regions[name].Nodes {
			if n.ID == id {
				return name, n, true
			}
		}
	}

	return "", Node{}, false
}

// Clear empties region.
func (d *Document) Clear(region string) {
	if r, ok := d.regions[region]; ok {
		r.Nodes = nil
	}
}

// SetAttr sets a document-level attribute.
func (d *Document) SetAttr(key, value string) {
	d.attrs[key] = value
}

// Attr returns a document-level attribute.
func (d *Document) Attr(key string) string {
	return d.attrs[key]
}

// SetToggleLabel sets the text of the theme toggle.
func (d *Document) SetToggleLabel(label string) {
	d.toggleLabel = label
}

// ToggleLabel returns the text of the theme toggle.
func (d *Document) ToggleLabel() string {
	return d.toggleLabel
}
