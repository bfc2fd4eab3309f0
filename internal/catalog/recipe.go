package catalog

import "strings"

// Ingredients returns the drink's ingredient names in slot order, trimmed and
// lowercased, skipping empty slots. This is the canonical solution form the
// game compares guesses against.
func (d *Drink) Ingredients() []string {
	var out []string
	for _, slot := range d.Slots {
		name := strings.ToLower(strings.TrimSpace(slot.Name))
		if name == "" {
			continue
		}
		out = append(out, name)
	}
	return out
}

// IngredientsWithMeasures returns the drink's ingredients in slot order,
// each prefixed with its trimmed measure when one is present
// (e.g. "2 oz Gin"). Used for display, so original casing is kept.
func (d *Drink) IngredientsWithMeasures() []string {
	var out []string
	for _, slot := range d.Slots {
		name := strings.TrimSpace(slot.Name)
		if name == "" {
			continue
		}
		if measure := strings.TrimSpace(slot.Measure); measure != "" {
			out = append(out, measure+" "+name)
		} else {
			out = append(out, name)
		}
	}
	return out
}
