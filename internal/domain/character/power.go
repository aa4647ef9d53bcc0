package character

import (
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/catalog"
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/shared"
)

// Power is a picked gift, rite, ritual or legacy discipline power. Kind says
// which catalog it came from so the record can be interpreted without
// guessing from its other fields.
type Power struct {
	Kind        shared.PowerKind `json:"kind"`
	Name        string           `json:"name"`
	Category    string           `json:"category"`
	Summary     string           `json:"summary"`
	Description string           `json:"description"`
	DicePool    string           `json:"dicePool"`
	Cost        string           `json:"cost"`
	Duration    string           `json:"duration"`
	Level       int              `json:"level"`
	Renown      shared.Renown    `json:"renown"`
}

// MeritFlaw is an entry in the merits or flaws lists. Backgrounds are kept in
// the merits list and tagged with their own type.
type MeritFlaw struct {
	Name    string               `json:"name"`
	Level   int                  `json:"level"`
	Type    shared.AdvantageType `json:"type"`
	Summary string               `json:"summary"`
}

// GiftPower converts a catalog gift into a picked power.
func GiftPower(g catalog.Gift) Power {
	return Power{
		Kind:        shared.PowerKindGift,
		Name:        g.Name,
		Category:    string(g.Category),
		Summary:     g.Summary,
		Description: g.Description,
		DicePool:    g.DicePool,
		Cost:        g.Cost,
		Duration:    g.Duration,
		Level:       g.Level,
		Renown:      g.Renown,
	}
}

// RitePower converts a catalog rite into a picked power. Rites have no level;
// they are recorded at 1.
func RitePower(r catalog.Rite) Power {
	return Power{
		Kind:        shared.PowerKindRite,
		Name:        r.Name,
		Category:    r.Type,
		Summary:     r.Summary,
		Description: r.Description,
		Duration:    r.Duration,
		Level:       1,
		Renown:      r.Renown,
	}
}

// AdvantageEntry converts a catalog merit, flaw or background into a list
// entry at the given level.
func AdvantageEntry(typ shared.AdvantageType, a catalog.Advantage, level int) MeritFlaw {
	return MeritFlaw{
		Name:    a.Name,
		Level:   level,
		Type:    typ,
		Summary: a.Summary,
	}
}

// GrantsRites reports whether the picked powers open the rites step: any gift,
// or a legacy discipline power of blood sorcery.
func GrantsRites(powers []Power) bool {
	for _, p := range powers {
		switch p.Kind {
		case shared.PowerKindGift:
			return true
		case shared.PowerKindDiscipline:
			if p.Category == shared.DisciplineBloodSorcery {
				return true
			}
		}
	}
	return false
}
