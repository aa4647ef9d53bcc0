package character

import (
	"slices"
)

// LegacyPair links a current field to the older field it replaced. Paths are
// JSON keys from the document root.
type LegacyPair struct {
	Current []string
	Legacy  []string
}

// LegacyPairs lists every field kept for older files. The two sides of a pair
// always hold the same value once a character has been migrated.
var LegacyPairs = []LegacyPair{
	{Current: []string{"tribe"}, Legacy: []string{"clan"}},
	{Current: []string{"auspice"}, Legacy: []string{"predatorType", "name"}},
	{Current: []string{"availableGiftNames"}, Legacy: []string{"availableDisciplineNames"}},
	{Current: []string{"gifts"}, Legacy: []string{"disciplines"}},
	{Current: []string{"rage"}, Legacy: []string{"bloodPotency"}},
}

// LegacyInSync reports whether every legacy field matches its current field.
func (c *Character) LegacyInSync() bool {
	return c.Tribe == c.Clan &&
		c.Auspice == c.PredatorType.Name &&
		slices.Equal(c.AvailableGiftNames, c.AvailableDisciplineNames) &&
		slices.Equal(c.Gifts, c.Disciplines) &&
		c.Rage == c.BloodPotency
}

// SyncLegacy returns a copy with each legacy pair reconciled. The current
// field wins when set; otherwise the legacy value is copied forward.
func (c *Character) SyncLegacy() *Character {
	out := c.Clone()

	if out.Tribe == "" {
		out.Tribe = out.Clan
	}
	out.Clan = out.Tribe

	if out.Auspice == "" {
		out.Auspice = out.PredatorType.Name
	}
	out.PredatorType.Name = out.Auspice

	if len(out.AvailableGiftNames) == 0 && out.AvailableDisciplineNames != nil {
		out.AvailableGiftNames = out.AvailableDisciplineNames
	}
	out.AvailableDisciplineNames = slices.Clone(out.AvailableGiftNames)

	if len(out.Gifts) == 0 && out.Disciplines != nil {
		out.Gifts = out.Disciplines
	}
	out.Disciplines = slices.Clone(out.Gifts)

	if out.Rage == 0 {
		out.Rage = out.BloodPotency
	}
	out.BloodPotency = out.Rage

	return out
}

// ReconcileLegacy is SyncLegacy for an edit of prev. For each pair the side
// that differs from prev wins, so clearing a current field also clears its
// legacy twin. When both sides changed the current field wins. A nil prev
// falls back to SyncLegacy.
func (c *Character) ReconcileLegacy(prev *Character) *Character {
	if prev == nil {
		return c.SyncLegacy()
	}
	out := c.Clone()

	out.Tribe = edited(out.Tribe, out.Clan, prev.Tribe, prev.Clan)
	out.Clan = out.Tribe

	out.Auspice = edited(out.Auspice, out.PredatorType.Name, prev.Auspice, prev.PredatorType.Name)
	out.PredatorType.Name = out.Auspice

	out.AvailableGiftNames = editedList(out.AvailableGiftNames, out.AvailableDisciplineNames,
		prev.AvailableGiftNames, prev.AvailableDisciplineNames)
	out.AvailableDisciplineNames = slices.Clone(out.AvailableGiftNames)

	out.Gifts = editedList(out.Gifts, out.Disciplines, prev.Gifts, prev.Disciplines)
	out.Disciplines = slices.Clone(out.Gifts)

	out.Rage = edited(out.Rage, out.BloodPotency, prev.Rage, prev.BloodPotency)
	out.BloodPotency = out.Rage

	return out
}

func edited[T comparable](current, legacy, prevCurrent, prevLegacy T) T {
	if current == prevCurrent && legacy != prevLegacy {
		return legacy
	}
	return current
}

func editedList[S ~[]E, E comparable](current, legacy, prevCurrent, prevLegacy S) S {
	if slices.Equal(current, prevCurrent) && !slices.Equal(legacy, prevLegacy) {
		return legacy
	}
	return current
}
