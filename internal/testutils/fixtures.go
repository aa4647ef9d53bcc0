package testutils

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/wod-character-wizard/internal/domain/catalog"
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/character"
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/shared"
	"github.com/KirkDiggler/wod-character-wizard/internal/repositories/snapshots"
)

// CreateTestCharacter creates a Ghost Council Theurge far enough along to
// reach the final step: tribe, auspice, gifts, a rite and a touchstone.
func CreateTestCharacter(t *testing.T, name string) *character.Character {
	t.Helper()
	cat := catalog.Default()

	c := character.Empty().
		WithTribe(cat, shared.TribeGhostCouncil).
		WithAuspice(cat, shared.AuspiceTheurge).
		WithAttributes(character.Attributes{
			shared.AttributeStamina:   3,
			shared.AttributeComposure: 2,
			shared.AttributeResolve:   3,
		})

	gift, ok := cat.Gift(shared.GiftCategory(shared.AuspiceTheurge), "Ensnare Spirit")
	require.True(t, ok, "missing gift Ensnare Spirit")
	native, ok := cat.Gift(shared.GiftCategoryNative, "Catfeet")
	require.True(t, ok, "missing gift Catfeet")
	rite, ok := cat.Rite("Abjuration")
	require.True(t, ok, "missing rite Abjuration")

	c = c.WithGifts([]character.Power{character.GiftPower(gift), character.GiftPower(native)}).
		WithRites([]character.Power{character.RitePower(rite)})

	c.Name = name
	c.Concept = "Ghost talker"
	c.Touchstones = []character.Touchstone{{
		Name:       "Marta",
		Conviction: "Never leave the dead unheard",
	}}
	return c
}

// CreateTestSnapshot wraps a character document in a snapshot at step
func CreateTestSnapshot(t *testing.T, id string, step int, c *character.Character) *snapshots.Snapshot {
	t.Helper()
	raw, err := json.Marshal(c)
	require.NoError(t, err)
	return &snapshots.Snapshot{
		ID:        id,
		Step:      step,
		Character: raw,
	}
}
