package sheet_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/wod-character-wizard/internal/domain/character"
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/shared"
	dnderr "github.com/KirkDiggler/wod-character-wizard/internal/errors"
	"github.com/KirkDiggler/wod-character-wizard/internal/sheet"
	"github.com/KirkDiggler/wod-character-wizard/internal/testutils"
)

type ExportTestSuite struct {
	suite.Suite
	char *character.Character
}

func (s *ExportTestSuite) SetupTest() {
	c := testutils.CreateTestCharacter(s.T(), "Marrow")
	c = c.WithSkills(character.Skills{"firearms": 2, "animal ken": 1})
	c.SkillSpecialties = []character.Specialty{{Skill: "animal ken", Name: "Wolves"}}
	c.Merits = []character.MeritFlaw{{Name: "Day Job", Level: 1, Type: shared.AdvantageMerit, Summary: "Works nights"}}
	c.Experience = 5
	s.char = c
}

func TestExportTestSuite(t *testing.T) {
	suite.Run(t, new(ExportTestSuite))
}

func (s *ExportTestSuite) TestExport_OpenForm() {
	form := sheet.NewMemoryForm()

	report, err := sheet.Export(s.char, form)
	s.Require().NoError(err)
	s.True(report.Complete(), "unresolved: %v", report.Unresolved)

	name, ok := form.Text("Name")
	s.True(ok)
	s.Equal("Marrow", name)

	tribe, _ := form.Text("Tribe")
	s.Equal("Ghost Council", tribe)

	xp, _ := form.Text("tEXP")
	s.Equal("5 XP", xp)

	// stamina 3
	for i := 1; i <= 3; i++ {
		s.True(form.Checked(fmt.Sprintf("Sta-%d", i)))
	}
	s.False(form.Checked("Sta-4"))

	// health is 3 + stamina
	s.True(form.Checked("Health-6"))
	s.False(form.Checked("Health-7"))

	// willpower is composure + resolve
	s.True(form.Checked("WP-5"))
	s.False(form.Checked("WP-6"))

	// first candidate wins on a form that has every field
	s.True(form.Checked("Fri-2"))
	s.False(form.Checked("Fir-1"))

	spec, _ := form.Text("specAniKen")
	s.Equal("Wolves", spec)

	merit, _ := form.Text("Merit1")
	s.Equal("Day Job: Works nights", merit)
	s.True(form.Checked("Merit1-1"))

	gift, _ := form.Text("Gift1")
	s.Contains(gift, "Ensnare Spirit (Theurge)")
	rite, _ := form.Text("Rite1")
	s.Contains(rite, "Abjuration")

	convictions, _ := form.Text("Convictions")
	s.Contains(convictions, "Marta: Never leave the dead unheard")

	s.Equal("Roboto-Regular", form.Font())
}

func (s *ExportTestSuite) TestExport_FallsBackToLaterCandidates() {
	form := sheet.NewMemoryForm("Name", "Fir-1", "Fir-2", "Notes")

	report, err := sheet.Export(s.char, form)
	s.Require().NoError(err)

	s.True(form.Checked("Fir-1"))
	s.True(form.Checked("Fir-2"))
	s.Contains(report.Filled, "firearms")
	s.Contains(report.Filled, "notes")
	s.Contains(report.Unresolved, "tribe")
	s.Contains(report.Unresolved, "convictions")
	s.False(report.Complete())
}

func (s *ExportTestSuite) TestExport_MissingFieldsGoToNotes() {
	form := sheet.NewMemoryForm("Name", "PC_Notes")
	s.char.Notes = "Keeps a journal"

	_, err := sheet.Export(s.char, form)
	s.Require().NoError(err)

	notes, ok := form.Text("PC_Notes")
	s.Require().True(ok)
	s.Contains(notes, "Keeps a journal\n\n=== ADDITIONAL INFO ===")
	s.Contains(notes, "Convictions:\nMarta: Never leave the dead unheard")
	s.Contains(notes, "Animal Ken: Wolves")
	s.Contains(notes, "MERITS:\n• Day Job: Works nights (Level 1)")
}

func (s *ExportTestSuite) TestExport_ListOverflow() {
	merits := make([]character.MeritFlaw, 0, 10)
	for i := 1; i <= 10; i++ {
		merits = append(merits, character.MeritFlaw{Name: fmt.Sprintf("Merit %d", i), Level: 1, Type: shared.AdvantageMerit})
	}
	s.char.Merits = merits
	form := sheet.NewMemoryForm()

	report, err := sheet.Export(s.char, form)
	s.Require().NoError(err)

	last, _ := form.Text("Merit8")
	s.Equal("Merit 8: ", last)
	_, ok := form.Text("Merit9")
	s.False(ok)

	s.Len(report.Overflow, 2)
	notes, _ := form.Text("PC_Notes")
	s.Contains(notes, "Merit 9")
	s.Contains(notes, "Merit 10")
}

func (s *ExportTestSuite) TestExport_FontOption() {
	form := sheet.NewMemoryForm()

	_, err := sheet.Export(s.char, form, sheet.WithFont("NotoSans"))
	s.Require().NoError(err)
	s.Equal("NotoSans", form.Font())
}

func (s *ExportTestSuite) TestExport_EmptyCharacter() {
	form := sheet.NewMemoryForm()

	report, err := sheet.Export(character.Empty(), form)
	s.Require().NoError(err)
	s.True(report.Complete())
	s.Empty(report.Overflow)
	s.True(form.Checked("Str-1"))
	s.False(form.Checked("Ath-1"))
}

func TestExport_RequiresArguments(t *testing.T) {
	_, err := sheet.Export(nil, sheet.NewMemoryForm())
	assert.True(t, dnderr.IsInvalidArgument(err))

	_, err = sheet.Export(character.Empty(), nil)
	assert.True(t, dnderr.IsInvalidArgument(err))
}

func TestDefaultMapping_CoversEveryTrait(t *testing.T) {
	m := sheet.DefaultMapping()
	require.Equal(t, sheet.DefaultVariant, m.Variant)

	for _, k := range shared.AttributeKeys {
		assert.NotEmpty(t, m.Tracks[string(k)], "attribute %s", k)
	}
	for _, k := range shared.SkillKeys {
		assert.NotEmpty(t, m.Tracks[string(k)], "skill %s", k)
		assert.NotEmpty(t, m.Specialties[string(k)], "specialty %s", k)
	}
	for _, list := range []string{"merits", "gifts", "rites"} {
		assert.Positive(t, m.Lists[list].Slots, list)
	}
}

func TestParseMapping_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "no variant", raw: "text:\n  name: [Name]\n"},
		{name: "empty candidates", raw: "variant: x\ntext:\n  name: []\n"},
		{name: "list without slots", raw: "variant: x\nlists:\n  merits:\n    prefix: [Merit]\n"},
		{name: "not yaml", raw: "variant: [unclosed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sheet.ParseMapping([]byte(tt.raw))
			assert.Error(t, err)
		})
	}
}

func TestLoadMapping_UnknownVariant(t *testing.T) {
	_, err := sheet.LoadMapping("mage")
	assert.Error(t, err)
}

func TestMemoryForm_Values(t *testing.T) {
	form := sheet.NewMemoryForm("Name", "Str-1")
	require.NoError(t, form.SetText("Name", "Ash"))
	require.NoError(t, form.Check("Str-1"))
	assert.ErrorIs(t, form.Check("Dex-1"), sheet.ErrNoField)

	assert.Equal(t, map[string]any{"Name": "Ash", "Str-1": true}, form.Values())
}
