package sheet

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/KirkDiggler/wod-character-wizard/internal/domain/character"
	"github.com/KirkDiggler/wod-character-wizard/internal/domain/shared"
	dnderr "github.com/KirkDiggler/wod-character-wizard/internal/errors"
)

// Report lists what an export did. Unresolved holds logical fields no
// candidate name accepted; Overflow holds list entries that did not fit
// the sheet and went to the notes instead.
type Report struct {
	Filled     []string `json:"filled"`
	Unresolved []string `json:"unresolved"`
	Overflow   []string `json:"overflow"`
}

// Complete reports whether every logical field found a form field
func (r *Report) Complete() bool {
	return len(r.Unresolved) == 0
}

type options struct {
	mapping *Mapping
	font    string
}

// Option configures Export
type Option func(*options)

// WithMapping replaces the default field-name table
func WithMapping(m *Mapping) Option {
	return func(o *options) {
		o.mapping = m
	}
}

// WithFont sets the font applied to forms that support it. It overrides the
// mapping's font.
func WithFont(font string) Option {
	return func(o *options) {
		o.font = font
	}
}

const additionalInfoHeader = "=== ADDITIONAL INFO ==="

// Export fills form from c. Fields the form does not have are skipped and
// reported; only missing arguments are errors.
func Export(c *character.Character, form Form, opts ...Option) (*Report, error) {
	if c == nil {
		return nil, dnderr.InvalidArgument("character is required")
	}
	if form == nil {
		return nil, dnderr.InvalidArgument("form is required")
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if o.mapping == nil {
		o.mapping = DefaultMapping()
	}
	if o.font == "" {
		o.font = o.mapping.Font
	}

	f := &filler{
		form:    form,
		mapping: o.mapping,
		report:  &Report{Filled: []string{}, Unresolved: []string{}, Overflow: []string{}},
	}
	f.fill(c)

	if setter, ok := form.(FontSetter); ok && o.font != "" {
		if err := setter.SetFont(o.font); err != nil {
			f.unresolved("font")
		}
	}

	return f.report, nil
}

type filler struct {
	form    Form
	mapping *Mapping
	report  *Report
	extra   []string
}

func (f *filler) filled(logical string) {
	f.report.Filled = append(f.report.Filled, logical)
}

func (f *filler) unresolved(logical string) {
	f.report.Unresolved = append(f.report.Unresolved, logical)
}

func (f *filler) fill(c *character.Character) {
	f.text("name", c.Name)
	f.text("player", c.PlayerName)
	f.text("chronicle", c.Chronicle)
	f.text("concept", c.Concept)
	f.text("ambition", c.Ambition)
	f.text("desire", c.Desire)
	f.text("tribe", string(c.Tribe))
	f.text("auspice", string(c.Auspice))
	f.text("pack", c.Pack)
	f.text("appearance", c.Appearance)
	f.text("history", c.History)
	f.text("experience", fmt.Sprintf("%d XP", c.Experience))

	for _, k := range shared.AttributeKeys {
		f.track(string(k), c.Attribute(k))
	}
	for _, k := range shared.SkillKeys {
		f.track(string(k), c.Skill(k))
	}
	f.track("health", character.HealthFor(c.Attributes))
	f.track("willpower", character.WillpowerFor(c.Attributes))
	f.track("rage", c.Rage)
	f.track("glory", c.Renown.Glory)
	f.track("honor", c.Renown.Honor)
	f.track("wisdom", c.Renown.Wisdom)

	f.specialties(c.SkillSpecialties)

	meritsAndFlaws := make([]entry, 0, len(c.Merits)+len(c.Flaws))
	for _, m := range append(append([]character.MeritFlaw{}, c.Merits...), c.Flaws...) {
		meritsAndFlaws = append(meritsAndFlaws, entry{text: m.Name + ": " + m.Summary, dots: m.Level})
	}
	f.list("merits", meritsAndFlaws)
	f.list("gifts", powerEntries(c.Gifts))
	f.list("rites", powerEntries(c.Rites))

	f.convictions(c.Touchstones)
	f.notes(c.Notes)
}

func (f *filler) set(candidates []string, value string) bool {
	for _, name := range candidates {
		if err := f.form.SetText(name, value); err == nil {
			return true
		}
	}
	return false
}

func (f *filler) text(logical, value string) bool {
	if f.set(f.mapping.Text[logical], value) {
		f.filled(logical)
		return true
	}
	f.unresolved(logical)
	return false
}

// track ticks <prefix>-1 .. <prefix>-dots using the first prefix whose first
// box exists.
func (f *filler) track(logical string, dots int) {
	if dots <= 0 {
		return
	}
	prefix, ok := f.firstCheck(f.mapping.Tracks[logical], "-1")
	if !ok {
		f.unresolved(logical)
		return
	}
	f.dots(logical, prefix, dots)
	f.filled(logical)
}

func (f *filler) firstCheck(prefixes []string, suffix string) (string, bool) {
	for _, p := range prefixes {
		if err := f.form.Check(p + suffix); err == nil {
			return p, true
		}
	}
	return "", false
}

// dots ticks boxes 2..n after the first one was already checked
func (f *filler) dots(logical, prefix string, n int) {
	for i := 2; i <= n; i++ {
		if err := f.form.Check(fmt.Sprintf("%s-%d", prefix, i)); err != nil {
			f.unresolved(fmt.Sprintf("%s-%d", logical, i))
		}
	}
}

func (f *filler) specialties(specs []character.Specialty) {
	bySkill := make(map[shared.SkillKey][]string)
	for _, s := range specs {
		if s.Name == "" {
			continue
		}
		bySkill[s.Skill] = append(bySkill[s.Skill], s.Name)
	}

	caser := cases.Title(language.English)
	var missed []string
	for _, k := range shared.SkillKeys {
		names := bySkill[k]
		if len(names) == 0 {
			continue
		}
		logical := "specialty:" + string(k)
		value := strings.Join(names, ", ")
		if f.set(f.mapping.Specialties[string(k)], value) {
			f.filled(logical)
			continue
		}
		f.unresolved(logical)
		missed = append(missed, caser.String(string(k))+": "+value)
	}
	if len(missed) > 0 {
		f.extra = append(f.extra, "Specialties:\n"+strings.Join(missed, "\n"))
	}
}

type entry struct {
	text string
	dots int
}

func powerEntries(powers []character.Power) []entry {
	out := make([]entry, 0, len(powers))
	for _, p := range powers {
		text := p.Name
		if p.Category != "" {
			text += " (" + p.Category + ")"
		}
		if p.Summary != "" {
			text += ": " + p.Summary
		}
		out = append(out, entry{text: text})
	}
	return out
}

// list writes entries into numbered slots. Entries past the last slot, or
// all of them when no prefix matches, are moved to the notes.
func (f *filler) list(logical string, entries []entry) {
	if len(entries) == 0 {
		return
	}
	spec, ok := f.mapping.Lists[logical]

	prefix := ""
	if ok {
		for _, p := range spec.Prefix {
			if err := f.form.SetText(p+"1", entries[0].text); err == nil {
				prefix = p
				break
			}
		}
	}
	if prefix == "" {
		f.unresolved(logical)
		f.overflow(logical, entries)
		return
	}

	for i, e := range entries {
		slot := i + 1
		if slot > spec.Slots {
			f.overflow(logical, entries[i:])
			break
		}
		name := fmt.Sprintf("%s%d", prefix, slot)
		if slot > 1 {
			if err := f.form.SetText(name, e.text); err != nil {
				f.unresolved(fmt.Sprintf("%s[%d]", logical, slot))
				continue
			}
		}
		if e.dots > 0 {
			if err := f.form.Check(name + "-1"); err != nil {
				f.unresolved(fmt.Sprintf("%s[%d]", logical, slot))
				continue
			}
			f.dots(fmt.Sprintf("%s[%d]", logical, slot), name, e.dots)
		}
	}
	f.filled(logical)
}

func (f *filler) overflow(logical string, entries []entry) {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		line := "• " + e.text
		if e.dots > 0 {
			line += fmt.Sprintf(" (Level %d)", e.dots)
		}
		lines = append(lines, line)
		f.report.Overflow = append(f.report.Overflow, logical+": "+e.text)
	}
	f.extra = append(f.extra, strings.ToUpper(logical)+":\n"+strings.Join(lines, "\n"))
}

func (f *filler) convictions(touchstones []character.Touchstone) {
	if len(touchstones) == 0 {
		return
	}
	parts := make([]string, 0, len(touchstones))
	for _, t := range touchstones {
		part := t.Name + ": " + t.Conviction
		if t.Description != "" {
			part += "\n" + t.Description
		}
		parts = append(parts, part)
	}
	text := strings.Join(parts, "\n\n")
	if f.set(f.mapping.Text["convictions"], text) {
		f.filled("convictions")
		return
	}
	f.unresolved("convictions")
	f.extra = append(f.extra, "Convictions:\n"+text)
}

// notes writes the character notes followed by anything that had no field
// of its own.
func (f *filler) notes(notes string) {
	text := notes
	if len(f.extra) > 0 {
		if text != "" {
			text += "\n\n"
		}
		text += additionalInfoHeader + "\n" + strings.Join(f.extra, "\n\n")
	}
	f.text("notes", text)
}
