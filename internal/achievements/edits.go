package achievements

import (
	"fmt"
	"strings"
)

// MarshalText encodes the ref as its 1-based "D-T-A" form so refs can key
// JSON objects.
func (r Ref) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses the 1-based "D-T-A" form.
func (r *Ref) UnmarshalText(b []byte) error {
	var d, t, a int
	if _, err := fmt.Sscanf(string(b), "%d-%d-%d", &d, &t, &a); err != nil {
		return fmt.Errorf("ref %q: %w", b, err)
	}
	if d < 1 || t < 1 || a < 1 || strings.Count(string(b), "-") != 2 {
		return fmt.Errorf("ref %q: numbers start at 1", b)
	}
	*r = Ref{Domain: d - 1, Tier: t - 1, Index: a - 1}
	return nil
}

// TextEdit overrides the text of one achievement. Nil fields keep the
// document's value.
type TextEdit struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Edits are admin text overrides. They outlive reloads of the data file.
type Edits map[Ref]TextEdit

// SetTitle records a title override.
func (e Edits) SetTitle(ref Ref, title string) {
	te := e[ref]
	te.Title = &title
	e[ref] = te
}

// SetDescription records a description override.
func (e Edits) SetDescription(ref Ref, desc string) {
	te := e[ref]
	te.Description = &desc
	e[ref] = te
}

// ApplyEdits writes every override whose achievement exists into d and
// returns how many were applied.
func (d *Document) ApplyEdits(e Edits) int {
	n := 0
	for ref, te := range e {
		a, err := d.Get(ref)
		if err != nil {
			continue
		}
		if te.Title != nil {
			a.Title = *te.Title
		}
		if te.Description != nil {
			a.Description = *te.Description
		}
		n++
	}
	return n
}
