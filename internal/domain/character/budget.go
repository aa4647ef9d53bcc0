package character

import (
	"fmt"
	"slices"

	"github.com/KirkDiggler/wod-character-wizard/internal/domain/catalog"
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/shared"
	dnderr "github.com/KirkDiggler/wod-character-wizard/internal/errors"
)

// Point budgets for advantages and gifts.
const (
	BaseMeritBudget  = 7
	MaxFlawPoints    = 2
	BackgroundBudget = 7
	GiftsPerCategory = 2
)

// Spent totals the dots spent on each kind of advantage.
type Spent struct {
	Merits      int
	Flaws       int
	Backgrounds int
}

// MeritBudget is the merit allowance: the base plus every flaw point taken,
// up to the flaw cap.
func (s Spent) MeritBudget() int {
	return BaseMeritBudget + min(s.Flaws, MaxFlawPoints)
}

// SpentPoints totals the merit, flaw and background dots on the character.
func (c *Character) SpentPoints() Spent {
	var s Spent
	for _, m := range c.Merits {
		switch m.Type {
		case shared.AdvantageBackground:
			s.Backgrounds += m.Level
		default:
			s.Merits += m.Level
		}
	}
	for _, f := range c.Flaws {
		s.Flaws += f.Level
	}
	return s
}

// CheckBudgets verifies advantage levels and point totals against the
// catalog, and that no gift category holds more than GiftsPerCategory picks
// or is closed to the character's tribe and auspice. Every problem is
// reported in a single validation error.
func (c *Character) CheckBudgets(cat *catalog.Catalog) error {
	var problems []dnderr.FieldViolation

	checkEntry := func(path string, m MeritFlaw, allowed ...shared.AdvantageType) {
		if !slices.Contains(allowed, m.Type) {
			problems = append(problems, dnderr.FieldViolation{
				Path: path + ".type", Expected: fmt.Sprintf("one of %v", allowed), Actual: string(m.Type),
			})
			return
		}
		entry, ok := cat.Advantage(m.Type, m.Name)
		if !ok {
			problems = append(problems, dnderr.FieldViolation{
				Path: path + ".name", Expected: "known " + string(m.Type), Actual: m.Name,
			})
			return
		}
		if !entry.AllowsLevel(m.Level) {
			problems = append(problems, dnderr.FieldViolation{
				Path: path + ".level", Expected: fmt.Sprintf("one of %v", entry.Cost), Actual: m.Level,
			})
		}
	}

	for i, m := range c.Merits {
		checkEntry(fmt.Sprintf("merits[%d]", i), m, shared.AdvantageMerit, shared.AdvantageBackground)
	}
	for i, f := range c.Flaws {
		checkEntry(fmt.Sprintf("flaws[%d]", i), f, shared.AdvantageFlaw)
	}

	spent := c.SpentPoints()
	if spent.Flaws > MaxFlawPoints {
		problems = append(problems, dnderr.FieldViolation{
			Path: "flaws", Expected: fmt.Sprintf("at most %d points", MaxFlawPoints), Actual: spent.Flaws,
		})
	}
	if spent.Merits > spent.MeritBudget() {
		problems = append(problems, dnderr.FieldViolation{
			Path: "merits", Expected: fmt.Sprintf("at most %d merit points", spent.MeritBudget()), Actual: spent.Merits,
		})
	}
	if spent.Backgrounds > BackgroundBudget {
		problems = append(problems, dnderr.FieldViolation{
			Path: "merits", Expected: fmt.Sprintf("at most %d background points", BackgroundBudget), Actual: spent.Backgrounds,
		})
	}

	open := cat.GiftCategoriesFor(c.Tribe, c.Auspice)
	perCategory := map[string]int{}
	for i, g := range c.Gifts {
		if g.Kind != shared.PowerKindGift {
			continue
		}
		perCategory[g.Category]++
		if !slices.Contains(open, shared.GiftCategory(g.Category)) {
			problems = append(problems, dnderr.FieldViolation{
				Path: fmt.Sprintf("gifts[%d].category", i), Expected: fmt.Sprintf("one of %v", open), Actual: g.Category,
			})
		}
	}
	for _, category := range open {
		if n := perCategory[string(category)]; n > GiftsPerCategory {
			problems = append(problems, dnderr.FieldViolation{
				Path: "gifts", Expected: fmt.Sprintf("at most %d %s gifts", GiftsPerCategory, category), Actual: n,
			})
		}
	}

	if len(problems) > 0 {
		return dnderr.Validationf("character exceeds its budgets: %d problem(s)", len(problems)).
			WithMeta(dnderr.MetaViolations, problems)
	}
	return nil
}
