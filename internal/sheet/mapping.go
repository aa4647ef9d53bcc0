// Package sheet fills a character sheet form from a character. The PDF
// library stays behind the Form interface; this package only knows field
// names, and those come from a declarative mapping table per sheet variant.
package sheet

import (
	"embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed mappings/*.yaml
var embedded embed.FS

// DefaultVariant is the sheet the wizard exports to
const DefaultVariant = "werewolf"

// List maps a repeated section such as merits onto numbered slots:
// <prefix><slot> for the text and <prefix><slot>-<dot> for its dots.
type List struct {
	Prefix []string `yaml:"prefix"`
	Slots  int      `yaml:"slots"`
}

// Mapping is the field-name table for one sheet variant. Every logical field
// maps to candidate form-field names tried in order.
type Mapping struct {
	Variant     string              `yaml:"variant"`
	Font        string              `yaml:"font"`
	Text        map[string][]string `yaml:"text"`
	Tracks      map[string][]string `yaml:"tracks"`
	Specialties map[string][]string `yaml:"specialties"`
	Lists       map[string]List     `yaml:"lists"`
}

// ParseMapping decodes and checks a YAML mapping table
func ParseMapping(raw []byte) (*Mapping, error) {
	var m Mapping
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("sheet: decode mapping: %w", err)
	}
	if m.Variant == "" {
		return nil, fmt.Errorf("sheet: mapping has no variant")
	}
	for _, table := range []map[string][]string{m.Text, m.Tracks, m.Specialties} {
		for logical, names := range table {
			if len(names) == 0 {
				return nil, fmt.Errorf("sheet: %s mapping for %q has no candidates", m.Variant, logical)
			}
		}
	}
	for logical, l := range m.Lists {
		if len(l.Prefix) == 0 || l.Slots <= 0 {
			return nil, fmt.Errorf("sheet: %s list %q needs a prefix and slots", m.Variant, logical)
		}
	}
	return &m, nil
}

// LoadMapping returns the embedded mapping for variant
func LoadMapping(variant string) (*Mapping, error) {
	raw, err := embedded.ReadFile("mappings/" + variant + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("sheet: unknown variant %q: %w", variant, err)
	}
	return ParseMapping(raw)
}

var loadDefault = sync.OnceValues(func() (*Mapping, error) {
	return LoadMapping(DefaultVariant)
})

// DefaultMapping returns the embedded werewolf mapping. It is checked by
// tests, so a failure here is a build defect and panics.
func DefaultMapping() *Mapping {
	m, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("sheet: embedded mapping is invalid: %v", err))
	}
	return m
}
