// Package catalog holds the static game content the wizard picks from: tribes,
// auspices, gifts, rites and the merit, flaw and background lists.
//
// The content ships as embedded YAML so that the tables stay data and can be
// reviewed without reading Go.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/KirkDiggler/wod-character-wizard/internal/domain/shared"
)

//go:embed data/*.yaml
var embedded embed.FS

// Tribe is a faction and the gift types it grants.
type Tribe struct {
	Name        shared.TribeName  `yaml:"name"`
	Description string            `yaml:"description"`
	Ban         string            `yaml:"ban"`
	Weakness    string            `yaml:"weakness"`
	Renown      string            `yaml:"renown"`
	GiftTypes   []shared.GiftName `yaml:"gift_types"`
}

// Auspice is a sub-role and the favored renown that comes with it.
type Auspice struct {
	Name        shared.AuspiceName `yaml:"name"`
	MoonPhase   string             `yaml:"moon_phase"`
	Description string             `yaml:"description"`
	Role        string             `yaml:"role"`
	Renown      shared.Renown      `yaml:"renown"`
	Gifts       []string           `yaml:"gifts"`
}

// Gift is a single gift power.
type Gift struct {
	Name        string              `yaml:"name"`
	Category    shared.GiftCategory `yaml:"category"`
	Renown      shared.Renown       `yaml:"renown"`
	Level       int                 `yaml:"level"`
	Summary     string              `yaml:"summary"`
	Description string              `yaml:"description"`
	DicePool    string              `yaml:"dice_pool"`
	Cost        string              `yaml:"cost"`
	Duration    string              `yaml:"duration"`
}

// Rite is a ritual any Garou may learn.
type Rite struct {
	Name         string        `yaml:"name"`
	Type         string        `yaml:"type"`
	Renown       shared.Renown `yaml:"renown"`
	Summary      string        `yaml:"summary"`
	Description  string        `yaml:"description"`
	Duration     string        `yaml:"duration"`
	Requirements string        `yaml:"requirements"`
}

// Advantage is a merit, flaw or background with the dot levels it may be
// bought at.
type Advantage struct {
	Name    string `yaml:"name"`
	Cost    []int  `yaml:"cost"`
	Summary string `yaml:"summary"`
}

// AllowsLevel reports whether level is one of the advantage's costs.
func (a Advantage) AllowsLevel(level int) bool {
	return slices.Contains(a.Cost, level)
}

// AdvantageGroup is a titled block of related merits and flaws.
type AdvantageGroup struct {
	Title  string      `yaml:"title"`
	Merits []Advantage `yaml:"merits"`
	Flaws  []Advantage `yaml:"flaws"`
}

type factionsFile struct {
	Tribes   []Tribe   `yaml:"tribes"`
	Auspices []Auspice `yaml:"auspices"`
}

type powersFile struct {
	Gifts []Gift `yaml:"gifts"`
	Rites []Rite `yaml:"rites"`
}

type advantagesFile struct {
	Groups      []AdvantageGroup `yaml:"groups"`
	Backgrounds []Advantage      `yaml:"backgrounds"`
}

// Catalog is the immutable set of content tables.
type Catalog struct {
	Tribes      []Tribe
	Auspices    []Auspice
	Gifts       []Gift
	Rites       []Rite
	Groups      []AdvantageGroup
	Backgrounds []Advantage

	tribes     map[shared.TribeName]Tribe
	auspices   map[shared.AuspiceName]Auspice
	advantages map[shared.AdvantageType]map[string]Advantage
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Load(embedded)
})

// Default returns the catalog shipped with the binary. The embedded tables are
// checked by tests, so a failure here is a build defect and panics.
func Default() *Catalog {
	c, err := loadDefault()
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded data is invalid: %v", err))
	}
	return c
}

// Load reads data/factions.yaml, data/powers.yaml and data/advantages.yaml
// from fsys and checks every name against the closed literal sets.
func Load(fsys fs.FS) (*Catalog, error) {
	var factions factionsFile
	if err := decode(fsys, "data/factions.yaml", &factions); err != nil {
		return nil, err
	}
	var powers powersFile
	if err := decode(fsys, "data/powers.yaml", &powers); err != nil {
		return nil, err
	}
	var advantages advantagesFile
	if err := decode(fsys, "data/advantages.yaml", &advantages); err != nil {
		return nil, err
	}

	c := &Catalog{
		Tribes:      factions.Tribes,
		Auspices:    factions.Auspices,
		Gifts:       powers.Gifts,
		Rites:       powers.Rites,
		Groups:      advantages.Groups,
		Backgrounds: advantages.Backgrounds,
		tribes:      make(map[shared.TribeName]Tribe, len(factions.Tribes)),
		auspices:    make(map[shared.AuspiceName]Auspice, len(factions.Auspices)),
		advantages: map[shared.AdvantageType]map[string]Advantage{
			shared.AdvantageMerit:      {},
			shared.AdvantageFlaw:       {},
			shared.AdvantageBackground: {},
		},
	}

	for _, t := range c.Tribes {
		if t.Name == shared.TribeNone || !t.Name.IsValid() {
			return nil, fmt.Errorf("catalog: unknown tribe %q", t.Name)
		}
		for _, g := range t.GiftTypes {
			if g == "" || !g.IsValid() {
				return nil, fmt.Errorf("catalog: tribe %q lists unknown gift type %q", t.Name, g)
			}
		}
		c.tribes[t.Name] = t
	}
	for _, a := range c.Auspices {
		if a.Name == shared.AuspiceNone || !a.Name.IsValid() {
			return nil, fmt.Errorf("catalog: unknown auspice %q", a.Name)
		}
		c.auspices[a.Name] = a
	}
	categories := shared.GiftCategories()
	for _, g := range c.Gifts {
		if !slices.Contains(categories, g.Category) {
			return nil, fmt.Errorf("catalog: gift %q has unknown category %q", g.Name, g.Category)
		}
	}
	for _, group := range c.Groups {
		for _, m := range group.Merits {
			c.advantages[shared.AdvantageMerit][m.Name] = m
		}
		for _, f := range group.Flaws {
			c.advantages[shared.AdvantageFlaw][f.Name] = f
		}
	}
	for _, b := range c.Backgrounds {
		c.advantages[shared.AdvantageBackground][b.Name] = b
	}

	return c, nil
}

func decode(fsys fs.FS, name string, out any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("catalog: read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("catalog: decode %s: %w", name, err)
	}
	return nil
}

// Tribe looks up a tribe by name.
func (c *Catalog) Tribe(name shared.TribeName) (Tribe, bool) {
	t, ok := c.tribes[name]
	return t, ok
}

// Auspice looks up an auspice by name.
func (c *Catalog) Auspice(name shared.AuspiceName) (Auspice, bool) {
	a, ok := c.auspices[name]
	return a, ok
}

// GiftTypesFor returns the deduplicated gift types a tribe grants, in catalog
// order. Unknown or unset tribes grant nothing.
func (c *Catalog) GiftTypesFor(name shared.TribeName) []shared.GiftName {
	t, ok := c.tribes[name]
	if !ok {
		return []shared.GiftName{}
	}
	out := make([]shared.GiftName, 0, len(t.GiftTypes))
	for _, g := range t.GiftTypes {
		if !slices.Contains(out, g) {
			out = append(out, g)
		}
	}
	return out
}

// GiftCategoriesFor returns the gift categories open to a tribe and auspice
// pair: Native always, plus the auspice and tribe once chosen.
func (c *Catalog) GiftCategoriesFor(tribe shared.TribeName, auspice shared.AuspiceName) []shared.GiftCategory {
	out := []shared.GiftCategory{shared.GiftCategoryNative}
	if _, ok := c.auspices[auspice]; ok {
		out = append(out, shared.GiftCategory(auspice))
	}
	if _, ok := c.tribes[tribe]; ok {
		out = append(out, shared.GiftCategory(tribe))
	}
	return out
}

// GiftsFor returns every gift power a tribe and auspice pair may pick.
func (c *Catalog) GiftsFor(tribe shared.TribeName, auspice shared.AuspiceName) []Gift {
	categories := c.GiftCategoriesFor(tribe, auspice)
	var out []Gift
	for _, g := range c.Gifts {
		if slices.Contains(categories, g.Category) {
			out = append(out, g)
		}
	}
	return out
}

// Gift looks up a gift by category and name. Names repeat across categories.
func (c *Catalog) Gift(category shared.GiftCategory, name string) (Gift, bool) {
	for _, g := range c.Gifts {
		if g.Category == category && g.Name == name {
			return g, true
		}
	}
	return Gift{}, false
}

// Rite looks up a rite by name.
func (c *Catalog) Rite(name string) (Rite, bool) {
	for _, r := range c.Rites {
		if r.Name == name {
			return r, true
		}
	}
	return Rite{}, false
}

// Advantage looks up a merit, flaw or background by name.
func (c *Catalog) Advantage(typ shared.AdvantageType, name string) (Advantage, bool) {
	a, ok := c.advantages[typ][name]
	return a, ok
}
