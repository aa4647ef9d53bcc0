// Package sequencer maps wizard step indexes to screens and decides which
// steps a character may jump to. It only reads the character.
//
// The rites step exists only while the picked powers grant rites. When it is
// absent every later index shifts down by one, so the step table is rebuilt
// from the character on every call and never depends on navigation history.
package sequencer

import (
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KirkDiggler/wod-character-wizard/internal/domain/character"
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/shared"
	dnderr "github.com/KirkDiggler/wod-character-wizard/internal/errors"
)

// fieldStep is a step that fills one character field
type fieldStep struct {
	screen ScreenType
	field  string
	label  string
	// set reports whether the field holds a non-default value
	set func(c *character.Character) bool
	// present reports whether the step applies to the character; nil means always
	present func(c *character.Character) bool
}

var fieldSteps = []fieldStep{
	{screen: ScreenTribe, field: "tribe", label: "tribe", set: func(c *character.Character) bool {
		return c.Tribe != shared.TribeNone
	}},
	{screen: ScreenAttributes, field: "attributes", label: "attributes", set: func(c *character.Character) bool {
		for _, v := range c.Attributes {
			if v != 1 {
				return true
			}
		}
		return false
	}},
	{screen: ScreenSkills, field: "skills", label: "skills", set: func(c *character.Character) bool {
		for _, v := range c.Skills {
			if v != 0 {
				return true
			}
		}
		return false
	}},
	{screen: ScreenAuspice, field: "auspice", label: "auspice", set: func(c *character.Character) bool {
		return c.Auspice != shared.AuspiceNone
	}},
	{screen: ScreenBasics, field: "name", label: "basics", set: func(c *character.Character) bool {
		return c.Name != ""
	}},
	{screen: ScreenGifts, field: "gifts", label: "gifts", set: func(c *character.Character) bool {
		return len(c.Gifts) > 0
	}},
	{screen: ScreenRites, field: "rites", label: "rites", set: func(c *character.Character) bool {
		return len(c.Rites) > 0
	}, present: HasRitesStep},
	{screen: ScreenTouchstones, field: "touchstones", label: "touchstones", set: func(c *character.Character) bool {
		return len(c.Touchstones) > 0
	}},
	{screen: ScreenMerits, field: "merits", label: "merits & flaws", set: func(c *character.Character) bool {
		return len(c.Merits) > 0 || len(c.Flaws) > 0
	}},
}

// title builds a fresh caser per call; casers keep state between calls
func title(s string) string {
	return cases.Title(language.English).String(s)
}

// HasRitesStep reports whether the rites step is part of the wizard for c
func HasRitesStep(c *character.Character) bool {
	return character.GrantsRites(c.Gifts)
}

func activeSteps(c *character.Character) []fieldStep {
	out := make([]fieldStep, 0, len(fieldSteps))
	for _, s := range fieldSteps {
		if s.present == nil || s.present(c) {
			out = append(out, s)
		}
	}
	return out
}

// Len returns the number of steps for c, intro and final included
func Len(c *character.Character) int {
	return len(activeSteps(c)) + 2
}

// FinalStep returns the index of the final screen for c
func FinalStep(c *character.Character) int {
	return Len(c) - 1
}

// ResolveScreen returns the screen for step. An index outside the table
// returns the not-implemented placeholder together with an unimplemented
// error so sequencing bugs stay visible.
func ResolveScreen(step int, c *character.Character) (Screen, error) {
	steps := activeSteps(c)
	switch {
	case step == 0:
		return Screen{Type: ScreenIntro, Step: step, Title: title(string(ScreenIntro))}, nil
	case step >= 1 && step <= len(steps):
		s := steps[step-1]
		return Screen{Type: s.screen, Step: step, Title: title(s.label), Field: s.field}, nil
	case step == len(steps)+1:
		return Screen{Type: ScreenFinal, Step: step, Title: title(string(ScreenFinal))}, nil
	}
	placeholder := Screen{Type: ScreenNotImplemented, Step: step, Title: title("not implemented")}
	err := dnderr.Unimplementedf("step %d is not implemented", step).
		WithMeta("step", step).
		WithMeta("steps", len(steps)+2)
	return placeholder, err
}

// Advance returns the step after step
func Advance(step int) int {
	return step + 1
}

// Back returns the step before step, never below the intro
func Back(step int) int {
	return max(step-1, 0)
}

// JumpTo returns target when the jump is allowed and current otherwise.
// Going back is always allowed; going forward needs target to be unlocked.
func JumpTo(current, target int, c *character.Character) int {
	if target < 0 || target >= Len(c) {
		return current
	}
	if target <= current || IsUnlocked(target, c) {
		return target
	}
	return current
}

// IsUnlocked reports whether step may be jumped to. The intro is always
// open. A field step opens once the field of the step before it, or of any
// later step, holds a value; the first field step needs its own field or a
// later one. Once gifts are picked every field step is open, so a rites step
// inserted by a new gift never re-locks the index the final screen held. The
// final step follows IsFinalUnlocked.
func IsUnlocked(step int, c *character.Character) bool {
	steps := activeSteps(c)
	switch {
	case step == 0:
		return true
	case step >= 1 && step <= len(steps):
		from := max(step-2, 0)
		return slices.ContainsFunc(steps[from:], func(s fieldStep) bool { return s.set(c) }) ||
			len(c.Gifts) > 0
	case step == len(steps)+1:
		return IsFinalUnlocked(c)
	}
	return false
}

// IsFinalUnlocked reports whether the export screen is reachable: gifts are
// picked and, when the rites step applies, rites are too.
func IsFinalUnlocked(c *character.Character) bool {
	for _, s := range activeSteps(c) {
		switch s.screen {
		case ScreenGifts, ScreenRites:
			if !s.set(c) {
				return false
			}
		}
	}
	return true
}

// Steps lists every step for c with its label and unlock state
func Steps(c *character.Character) []StepInfo {
	n := Len(c)
	out := make([]StepInfo, 0, n)
	for i := 0; i < n; i++ {
		screen, _ := ResolveScreen(i, c)
		out = append(out, StepInfo{
			Step:     i,
			Screen:   screen.Type,
			Label:    screen.Title,
			Unlocked: IsUnlocked(i, c),
		})
	}
	return out
}
