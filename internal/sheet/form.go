package sheet

import (
	"errors"
	"fmt"
)

// ErrNoField is returned by a Form for a field name it does not have
var ErrNoField = errors.New("no such form field")

// Form is the fillable document. Implementations return an error for a
// field they do not have; the filler treats that as "try the next name".
type Form interface {
	SetText(name, value string) error
	Check(name string) error
}

// FontSetter is implemented by forms that can re-render their fields with
// an embedded font.
type FontSetter interface {
	SetFont(font string) error
}

// MemoryForm is a Form held in memory. It backs tests and the CLI export,
// which prints the filled values instead of writing a PDF.
type MemoryForm struct {
	known   map[string]struct{}
	text    map[string]string
	checked map[string]bool
	font    string
}

// NewMemoryForm creates a form with the given field names. With no names
// every field is accepted.
func NewMemoryForm(fields ...string) *MemoryForm {
	f := &MemoryForm{
		text:    make(map[string]string),
		checked: make(map[string]bool),
	}
	if len(fields) > 0 {
		f.known = make(map[string]struct{}, len(fields))
		for _, name := range fields {
			f.known[name] = struct{}{}
		}
	}
	return f
}

func (f *MemoryForm) has(name string) error {
	if f.known == nil {
		return nil
	}
	if _, ok := f.known[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNoField, name)
	}
	return nil
}

// SetText sets a text field
func (f *MemoryForm) SetText(name, value string) error {
	if err := f.has(name); err != nil {
		return err
	}
	f.text[name] = value
	return nil
}

// Check ticks a checkbox
func (f *MemoryForm) Check(name string) error {
	if err := f.has(name); err != nil {
		return err
	}
	f.checked[name] = true
	return nil
}

// SetFont records the font the fields are rendered with
func (f *MemoryForm) SetFont(font string) error {
	f.font = font
	return nil
}

// Text returns a text field's value
func (f *MemoryForm) Text(name string) (string, bool) {
	v, ok := f.text[name]
	return v, ok
}

// Checked reports whether a checkbox is ticked
func (f *MemoryForm) Checked(name string) bool {
	return f.checked[name]
}

// Font returns the font set on the form
func (f *MemoryForm) Font() string {
	return f.font
}

// Values returns every filled field: text fields as strings, ticked
// checkboxes as true.
func (f *MemoryForm) Values() map[string]any {
	out := make(map[string]any, len(f.text)+len(f.checked))
	for k, v := range f.text {
		out[k] = v
	}
	for k := range f.checked {
		out[k] = true
	}
	return out
}
