package view

import (
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Renderer prints a [Document] using the palette selected by its theme
// attribute.
type Renderer struct {
	lg *lipgloss.Renderer
}

// NewRenderer returns a renderer writing styled text for w. Color output
// follows w's terminal capabilities; plain writers get plain text.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{lg: lipgloss.NewRenderer(w)}
}

type styles struct {
	heading lipgloss.Style
	id      lipgloss.Style
	item    lipgloss.Style
	done    lipgloss.Style
	empty   lipgloss.Style
	toggle  lipgloss.Style
}

func (r *Renderer) styles(p Palette) styles {
	return styles{
		heading: r.lg.NewStyle().Bold(true).Foreground(p.Primary),
		id:      r.lg.NewStyle().Foreground(p.Muted),
		item:    r.lg.NewStyle().Foreground(p.Foreground),
		done:    r.lg.NewStyle().Foreground(p.Done).Strikethrough(true),
		empty:   r.lg.NewStyle().Foreground(p.Muted).Italic(true),
		toggle:  r.lg.NewStyle().Foreground(p.Accent),
	}
}

// Render returns the whole document as text.
func (r *Renderer) Render(d *Document) string {
	st := r.styles(PaletteFor(d.Attr(ThemeAttr)))

	var b strings.Builder

	if label := d.ToggleLabel(); label != "" {
		b.WriteString(st.toggle.Render("[" + label + "]"))
		b.WriteString("\n\n")
	}

	for i, region := range d.Regions() {
		if i > 0 {
			b.WriteString("\n")
		}

		b.WriteString(r.renderRegion(st, region))
	}

	return b.String()
}

// RenderRegion returns one region as text, or "" when it is missing.
func (r *Renderer) RenderRegion(d *Document, name string) string {
	region, ok := d.regions[name]
	if !ok {
		return ""
	}

	return r.renderRegion(r.styles(PaletteFor(d.Attr(ThemeAttr))), region)
}

func (r *Renderer) renderRegion(st styles, region *Region) string {
	var b strings.Builder

	b.WriteString(st.heading.Render(region.Title))
	b.WriteString("\n")

	if len(region.Nodes) == 0 {
		b.WriteString("  ")
		b.WriteString(st.empty.Render("(empty)"))
		b.WriteString("\n")

		return b.String()
	}

	for _, n := range region.Nodes {
		b.WriteString("  ")

		if n.Checkbox {
			if n.Checked {
				b.WriteString("[x] ")
			} else {
				b.WriteString("[ ] ")
			}
		}

		if n.ID != "" {
			b.WriteString(st.id.Render(n.ID))
			b.WriteString("  ")
		}

		if n.Checked {
			b.WriteString(st.done.Render(n.Text))
		} else {
			b.WriteString(st.item.Render(n.Text))
		}

		b.WriteString("\n")
	}

	return b.String()
}
