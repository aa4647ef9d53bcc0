package shared

import "slices"

// GiftName names a gift type a tribe grants access to.
type GiftName string

var GiftNames = []GiftName{
	"Rage", "Luna's Armor", "Wyld", "City", "Rat", "Survival", "Mother's Touch",
	"Resist Pain", "Luna", "Strength", "War", "Death", "Spirits", "Wisdom", "Glass",
	"Electricity", "Faerie", "Nature", "Storytelling", "Beast Speech",
	"Predator's Arsenal", "Wolf", "Dominance", "Shadow", "Persuasion", "Speed",
	"Silence", "Umbral", "Inspiration", "Nobility",
}

// IsValid reports whether g is a known gift type or the unset sentinel.
func (g GiftName) IsValid() bool {
	return g == "" || slices.Contains(GiftNames, g)
}

// GiftCategory groups gift powers. Every character can pick Native gifts plus
// those of their auspice and tribe.
type GiftCategory string

const GiftCategoryNative GiftCategory = "Native"

// GiftCategories lists Native followed by every auspice and tribe.
func GiftCategories() []GiftCategory {
	out := []GiftCategory{GiftCategoryNative}
	for _, a := range Auspices {
		out = append(out, GiftCategory(a))
	}
	for _, t := range Tribes {
		out = append(out, GiftCategory(t))
	}
	return out
}

// PowerKind tags a power record with the catalog it was drawn from.
type PowerKind string

var PowerKinds = []PowerKind{PowerKindGift, PowerKindRite, PowerKindRitual, PowerKindDiscipline}

const (
	PowerKindGift       PowerKind = "gift"
	PowerKindRite       PowerKind = "rite"
	PowerKindRitual     PowerKind = "ritual"
	PowerKindDiscipline PowerKind = "discipline"
)

// DisciplineBloodSorcery is the legacy discipline whose powers grant rituals.
const DisciplineBloodSorcery = "blood sorcery"

// AdvantageType tags an entry in the merits or flaws lists.
type AdvantageType string

var AdvantageTypes = []AdvantageType{AdvantageMerit, AdvantageFlaw, AdvantageBackground}

const (
	AdvantageMerit      AdvantageType = "merit"
	AdvantageFlaw       AdvantageType = "flaw"
	AdvantageBackground AdvantageType = "background"
)
