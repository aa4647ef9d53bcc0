package schema

import (
	"encoding/json"
	"slices"

	"github.com/KirkDiggler/wod-character-wizard/internal/domain/character"
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/shared"
	dnderr "github.com/KirkDiggler/wod-character-wizard/internal/errors"
)

// Character is the rule set for a persisted character document.
var Character = buildCharacter()

func buildCharacter() Rule {
	tribe := OneOf(withEmpty(shared.Strings(shared.Tribes))...)
	auspice := OneOf(withEmpty(shared.Strings(shared.Auspices))...)
	giftName := OneOf(withEmpty(shared.Strings(shared.GiftNames))...)
	skill := OneOf(shared.Strings(shared.SkillKeys)...)
	count := IntAtLeast(0)

	attributes := make([]Field, 0, len(shared.AttributeKeys))
	for _, k := range shared.AttributeKeys {
		attributes = append(attributes, Required(string(k), IntBetween(shared.TraitMin, shared.TraitMax)))
	}
	skills := make([]Field, 0, len(shared.SkillKeys))
	for _, k := range shared.SkillKeys {
		skills = append(skills, Required(string(k), IntBetween(shared.TraitMin, shared.TraitMax)))
	}

	specialty := Object(
		Required("skill", skill),
		Required("name", String()),
	)
	meritFlaw := Object(
		Required("name", String()),
		Required("level", IntAtLeast(1)),
		Required("type", OneOf(shared.Strings(shared.AdvantageTypes)...)),
		Required("summary", String()),
	)
	touchstone := Object(
		Required("name", String()),
		Required("description", String()),
		Required("conviction", String()),
	)
	power := Object(
		Required("kind", OneOf(shared.Strings(shared.PowerKinds)...)),
		Required("name", String()),
		Optional("category", String()),
		Optional("summary", String()),
		Optional("description", String()),
		Optional("dicePool", String()),
		Optional("cost", String()),
		Optional("duration", String()),
		Optional("level", count),
		Optional("renown", OneOf(withEmpty(shared.Strings(shared.Renowns))...)),
	)

	return Object(
		Optional("schemaVersion", IntBetween(0, character.CurrentSchemaVersion)),

		Required("name", String()),
		Optional("playerName", String()),
		Required("description", String()),
		Optional("appearance", String()),
		Optional("history", String()),
		Optional("notes", String()),
		Required("pack", String()),
		Required("concept", String()),
		Required("chronicle", String()),
		Required("ambition", String()),
		Required("desire", String()),

		Required("tribe", tribe),
		Required("clan", tribe),
		Required("auspice", auspice),
		Required("predatorType", Object(
			Required("name", auspice),
			Optional("pickedDiscipline", giftName),
			Required("pickedSpecialties", List(specialty)),
			Required("pickedMeritsAndFlaws", List(meritFlaw)),
		)),

		Required("attributes", Object(attributes...)),
		Required("skills", Object(skills...)),
		Required("skillSpecialties", List(specialty)),

		Required("availableGiftNames", List(giftName)),
		Required("availableDisciplineNames", List(giftName)),
		Required("gifts", List(power)),
		Required("disciplines", List(power)),
		Required("rites", List(power)),
		Required("rituals", List(power)),

		Required("touchstones", List(touchstone)),
		Required("merits", List(meritFlaw)),
		Required("flaws", List(meritFlaw)),

		Required("rage", count),
		Required("bloodPotency", count),
		Required("gnosis", count),
		Required("renown", Object(
			Required("glory", count),
			Required("honor", count),
			Required("wisdom", count),
		)),
		Required("maxHealth", count),
		Required("willpower", count),
		Required("experience", count),
		Required("humanity", count),
	)
}

// Validate checks raw against the character rules. A conforming document is
// decoded into a Character; otherwise the returned error carries every
// violation, see errors.Violations.
func Validate(raw map[string]any) (*character.Character, error) {
	if violations := Run(Character, raw); len(violations) > 0 {
		return nil, dnderr.SchemaViolation(violations)
	}

	// The document already conforms, so a decode failure is a bug here.
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInternal, "failed to encode validated character")
	}
	var c character.Character
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInternal, "failed to decode validated character")
	}
	for k := range c.Attributes {
		if !slices.Contains(shared.AttributeKeys, k) {
			delete(c.Attributes, k)
		}
	}
	for k := range c.Skills {
		if !slices.Contains(shared.SkillKeys, k) {
			delete(c.Skills, k)
		}
	}
	return &c, nil
}

// Encode converts a character to the generic document form Validate and the
// migration pipeline work on.
func Encode(c *character.Character) (map[string]any, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInternal, "failed to encode character")
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, dnderr.WrapWithCode(err, dnderr.CodeInternal, "failed to decode character document")
	}
	return doc, nil
}

func withEmpty(values []string) []string {
	return append([]string{""}, values...)
}
