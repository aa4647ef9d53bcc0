// Package migrate upgrades character documents written by older versions of
// the wizard to the current schema. Each step is idempotent and the pipeline
// never fails for an object input; anything it cannot repair is left for the
// validator to report.
package migrate

import (
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/catalog"
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/character"
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/shared"
	"github.com/KirkDiggler/wod-character-wizard/internal/schema"
)

// Step upgrades a document from version From to From+1.
type Step struct {
	From  int
	Name  string
	Apply func(cat *catalog.Catalog, doc map[string]any)
}

// Steps is the ordered pipeline. Legacy mirroring is not versioned and runs
// after every migration.
var Steps = []Step{
	{From: 0, Name: "default missing lists", Apply: defaultLists},
	{From: 1, Name: "tag powers with their kind", Apply: tagPowers},
	{From: 2, Name: "derive available gifts from tribe", Apply: deriveAvailable},
}

// Version returns the document's schema version, 0 when absent or unreadable.
func Version(doc map[string]any) int {
	v, ok := schema.AsInt(doc["schemaVersion"])
	if !ok || v < 0 {
		return 0
	}
	return v
}

// Migrate upgrades raw using the default catalog. The input is not modified.
func Migrate(raw map[string]any) map[string]any {
	return WithCatalog(catalog.Default(), raw)
}

// WithCatalog upgrades raw, resolving tribe gift types from cat.
func WithCatalog(cat *catalog.Catalog, raw map[string]any) map[string]any {
	doc, _ := deepCopy(raw).(map[string]any)
	if doc == nil {
		doc = map[string]any{}
	}

	version := Version(doc)
	for _, step := range Steps {
		if step.From >= version {
			step.Apply(cat, doc)
		}
	}
	mirrorLegacy(doc)

	// Documents from a newer wizard keep their version so validation rejects
	// them instead of silently downgrading.
	if version <= character.CurrentSchemaVersion {
		doc["schemaVersion"] = character.CurrentSchemaVersion
	}
	return doc
}

func defaultLists(_ *catalog.Catalog, doc map[string]any) {
	for _, key := range []string{"rituals", "rites", "touchstones", "skillSpecialties"} {
		defaultList(doc, key)
	}
	if pt, ok := doc["predatorType"].(map[string]any); ok {
		defaultList(pt, "pickedMeritsAndFlaws")
		defaultList(pt, "pickedSpecialties")
	}
}

func defaultList(obj map[string]any, key string) {
	if obj[key] == nil {
		obj[key] = []any{}
	}
}

var powerLists = map[string]string{
	"gifts":       "gift",
	"disciplines": "discipline",
	"rites":       "rite",
	"rituals":     "ritual",
}

// legacy power keys and the field that replaced them, in priority order
var renamedPowerKeys = [][2]string{
	{"discipline", "category"},
	{"type", "category"},
	{"dicePools", "dicePool"},
}

func tagPowers(_ *catalog.Catalog, doc map[string]any) {
	for list, kind := range powerLists {
		items, ok := doc[list].([]any)
		if !ok {
			continue
		}
		for _, item := range items {
			power, ok := item.(map[string]any)
			if !ok {
				continue
			}
			if _, tagged := power["kind"]; !tagged {
				power["kind"] = kind
			}
			for _, rename := range renamedPowerKeys {
				from, to := rename[0], rename[1]
				v, present := power[from]
				if !present {
					continue
				}
				if _, taken := power[to]; !taken {
					power[to] = v
				}
				delete(power, from)
			}
		}
	}
}

func deriveAvailable(cat *catalog.Catalog, doc map[string]any) {
	if doc["availableDisciplineNames"] != nil || doc["availableGiftNames"] != nil {
		return
	}

	// follow the side mirrorLegacy keeps: tribe when set, otherwise clan
	faction, _ := doc["tribe"].(string)
	if faction == "" {
		faction, _ = doc["clan"].(string)
	}

	names := []any{}
	if t, ok := cat.Tribe(shared.TribeName(faction)); ok {
		for _, g := range cat.GiftTypesFor(t.Name) {
			names = append(names, string(g))
		}
	}
	doc["availableDisciplineNames"] = names
}
