package character

import (
	"maps"
	"slices"

	"github.com/KirkDiggler/wod-character-wizard/internal/domain/shared"
)

// CurrentSchemaVersion is the version stamped on every character written by
// this module. Files without a version are treated as version 0.
const CurrentSchemaVersion = 4

// Attributes holds the nine attribute ratings keyed by attribute name.
type Attributes map[shared.AttributeKey]int

// Skills holds the 27 skill ratings keyed by skill name.
type Skills map[shared.SkillKey]int

// Specialty narrows a skill, e.g. Academics (History).
type Specialty struct {
	Skill shared.SkillKey `json:"skill"`
	Name  string          `json:"name"`
}

// Touchstone is a person or place that anchors the character, and the
// conviction tied to it.
type Touchstone struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Conviction  string `json:"conviction"`
}

// PredatorType is the legacy record that carries the auspice name and the
// picks made alongside it.
type PredatorType struct {
	Name                 shared.AuspiceName `json:"name"`
	PickedDiscipline     shared.GiftName    `json:"pickedDiscipline"`
	PickedSpecialties    []Specialty        `json:"pickedSpecialties"`
	PickedMeritsAndFlaws []MeritFlaw        `json:"pickedMeritsAndFlaws"`
}

// RenownTracks are the three renown ratings.
type RenownTracks struct {
	Glory  int `json:"glory"`
	Honor  int `json:"honor"`
	Wisdom int `json:"wisdom"`
}

// Character is the sheet being built by the wizard. It is replaced whole on
// every step, so mutators return a modified copy.
type Character struct {
	SchemaVersion int `json:"schemaVersion"`

	Name        string `json:"name"`
	PlayerName  string `json:"playerName"`
	Description string `json:"description"`
	Appearance  string `json:"appearance"`
	History     string `json:"history"`
	Notes       string `json:"notes"`
	Pack        string `json:"pack"`
	Concept     string `json:"concept"`
	Chronicle   string `json:"chronicle"`
	Ambition    string `json:"ambition"`
	Desire      string `json:"desire"`

	Tribe        shared.TribeName   `json:"tribe"`
	Clan         shared.TribeName   `json:"clan"`
	Auspice      shared.AuspiceName `json:"auspice"`
	PredatorType PredatorType       `json:"predatorType"`

	Attributes       Attributes  `json:"attributes"`
	Skills           Skills      `json:"skills"`
	SkillSpecialties []Specialty `json:"skillSpecialties"`

	AvailableGiftNames       []shared.GiftName `json:"availableGiftNames"`
	AvailableDisciplineNames []shared.GiftName `json:"availableDisciplineNames"`
	Gifts                    []Power           `json:"gifts"`
	Disciplines              []Power           `json:"disciplines"`
	Rites                    []Power           `json:"rites"`
	Rituals                  []Power           `json:"rituals"`

	Touchstones []Touchstone `json:"touchstones"`
	Merits      []MeritFlaw  `json:"merits"`
	Flaws       []MeritFlaw  `json:"flaws"`

	Rage         int          `json:"rage"`
	BloodPotency int          `json:"bloodPotency"`
	Gnosis       int          `json:"gnosis"`
	Renown       RenownTracks `json:"renown"`
	MaxHealth    int          `json:"maxHealth"`
	Willpower    int          `json:"willpower"`
	Experience   int          `json:"experience"`
	Humanity     int          `json:"humanity"`
}

// Empty returns a fully populated character with every field at its floor.
// Attributes start at 1 and skills at 0. Derived pools stay 0 until the
// attributes are set.
func Empty() *Character {
	attrs := make(Attributes, len(shared.AttributeKeys))
	for _, k := range shared.AttributeKeys {
		attrs[k] = 1
	}
	skills := make(Skills, len(shared.SkillKeys))
	for _, k := range shared.SkillKeys {
		skills[k] = 0
	}

	return &Character{
		SchemaVersion: CurrentSchemaVersion,
		PredatorType: PredatorType{
			PickedSpecialties:    []Specialty{},
			PickedMeritsAndFlaws: []MeritFlaw{},
		},
		Attributes:               attrs,
		Skills:                   skills,
		SkillSpecialties:         []Specialty{},
		AvailableGiftNames:       []shared.GiftName{},
		AvailableDisciplineNames: []shared.GiftName{},
		Gifts:                    []Power{},
		Disciplines:              []Power{},
		Rites:                    []Power{},
		Rituals:                  []Power{},
		Touchstones:              []Touchstone{},
		Merits:                   []MeritFlaw{},
		Flaws:                    []MeritFlaw{},
		Rage:                     1,
		BloodPotency:             1,
		Gnosis:                   1,
	}
}

// Clone returns a deep copy of the character.
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	out := *c
	out.PredatorType.PickedSpecialties = slices.Clone(c.PredatorType.PickedSpecialties)
	out.PredatorType.PickedMeritsAndFlaws = slices.Clone(c.PredatorType.PickedMeritsAndFlaws)
	out.Attributes = maps.Clone(c.Attributes)
	out.Skills = maps.Clone(c.Skills)
	out.SkillSpecialties = slices.Clone(c.SkillSpecialties)
	out.AvailableGiftNames = slices.Clone(c.AvailableGiftNames)
	out.AvailableDisciplineNames = slices.Clone(c.AvailableDisciplineNames)
	out.Gifts = slices.Clone(c.Gifts)
	out.Disciplines = slices.Clone(c.Disciplines)
	out.Rites = slices.Clone(c.Rites)
	out.Rituals = slices.Clone(c.Rituals)
	out.Touchstones = slices.Clone(c.Touchstones)
	out.Merits = slices.Clone(c.Merits)
	out.Flaws = slices.Clone(c.Flaws)
	return &out
}

// Attribute returns the rating for key, 0 when missing.
func (c *Character) Attribute(key shared.AttributeKey) int {
	return c.Attributes[key]
}

// Skill returns the rating for key, 0 when missing.
func (c *Character) Skill(key shared.SkillKey) int {
	return c.Skills[key]
}
