package character

import (
	"slices"

	"github.com/KirkDiggler/wod-character-wizard/internal/domain/catalog"
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/shared"
)

// WithTribe returns a copy with the tribe set, the available gift types
// recomputed from the catalog and any gift picks the new tribe no longer
// allows removed. The legacy clan field follows the tribe.
func (c *Character) WithTribe(cat *catalog.Catalog, tribe shared.TribeName) *Character {
	out := c.Clone()
	out.Tribe = tribe
	out.Clan = tribe
	out.AvailableGiftNames = cat.GiftTypesFor(tribe)
	out.AvailableDisciplineNames = slices.Clone(out.AvailableGiftNames)
	if !slices.Contains(out.AvailableGiftNames, out.PredatorType.PickedDiscipline) {
		out.PredatorType.PickedDiscipline = ""
	}
	out.pruneGifts(cat)
	return out
}

// WithAuspice returns a copy with the auspice set and stale gift picks
// removed. The legacy predator type name follows the auspice.
func (c *Character) WithAuspice(cat *catalog.Catalog, auspice shared.AuspiceName) *Character {
	out := c.Clone()
	out.Auspice = auspice
	out.PredatorType.Name = auspice
	out.pruneGifts(cat)
	return out
}

// WithGifts returns a copy with the picked gifts replaced. The legacy
// disciplines list mirrors the gifts.
func (c *Character) WithGifts(gifts []Power) *Character {
	out := c.Clone()
	out.Gifts = slices.Clone(gifts)
	out.Disciplines = slices.Clone(gifts)
	return out
}

// WithRites returns a copy with the picked rites replaced.
func (c *Character) WithRites(rites []Power) *Character {
	out := c.Clone()
	out.Rites = slices.Clone(rites)
	return out
}

// WithAttributes returns a copy with the given ratings applied and the
// derived pools recomputed. Keys not in ratings keep their value.
func (c *Character) WithAttributes(ratings Attributes) *Character {
	out := c.Clone()
	if out.Attributes == nil {
		out.Attributes = Attributes{}
	}
	for k, v := range ratings {
		out.Attributes[k] = v
	}
	return out.WithDerivedPools()
}

// WithSkills returns a copy with the given ratings applied.
func (c *Character) WithSkills(ratings Skills) *Character {
	out := c.Clone()
	if out.Skills == nil {
		out.Skills = Skills{}
	}
	for k, v := range ratings {
		out.Skills[k] = v
	}
	return out
}

// WithRage returns a copy with rage set. The legacy blood potency follows.
func (c *Character) WithRage(rage int) *Character {
	out := c.Clone()
	out.Rage = rage
	out.BloodPotency = rage
	return out
}

// WithDerivedPools returns a copy with health and willpower computed from the
// attributes: health is 3 + stamina, willpower is composure + resolve.
func (c *Character) WithDerivedPools() *Character {
	out := c.Clone()
	out.MaxHealth = HealthFor(out.Attributes)
	out.Willpower = WillpowerFor(out.Attributes)
	return out
}

// HealthFor returns the health track length for the given attributes.
func HealthFor(a Attributes) int {
	return 3 + a[shared.AttributeStamina]
}

// WillpowerFor returns the willpower track length for the given attributes.
func WillpowerFor(a Attributes) int {
	return a[shared.AttributeComposure] + a[shared.AttributeResolve]
}

func (c *Character) pruneGifts(cat *catalog.Catalog) {
	open := cat.GiftCategoriesFor(c.Tribe, c.Auspice)
	keep := func(p Power) bool {
		if p.Kind != shared.PowerKindGift {
			return true
		}
		return slices.Contains(open, shared.GiftCategory(p.Category))
	}
	gifts := make([]Power, 0, len(c.Gifts))
	for _, p := range c.Gifts {
		if keep(p) {
			gifts = append(gifts, p)
		}
	}
	c.Gifts = gifts
	c.Disciplines = slices.Clone(gifts)
}
