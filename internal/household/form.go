package household

import "strings"

// Form supplies raw field values by field identifier. Unknown fields read
// as "".
type Form interface {
	Value(field string) string
}

// Values is a [Form] backed by a map.
type Values map[string]string

// Value returns the value for field.
func (v Values) Value(field string) string {
	return v[field]
}

// Field describes one input of a create form.
type Field struct {
	// Name is the field identifier and the JSON name of the record field.
	Name string

	// Label is the human prompt.
	Label string

	Required bool
}

// collect reads and trims every field of form and lists the required ones
// left blank, in field order.
func collect(fields []Field, form Form) (map[string]string, []string) {
	values := make(map[string]string, len(fields))

	var missing []string

	for _, f := range fields {
		v := strings.TrimSpace(form.Value(f.Name))
		values[f.Name] = v

		if f.Required && v == "" {
			missing = append(missing, f.Name)
		}
	}

	return values, missing
}
