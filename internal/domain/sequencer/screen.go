package sequencer

// ScreenType identifies a wizard screen
type ScreenType string

const (
	ScreenIntro       ScreenType = "intro"
	ScreenTribe       ScreenType = "tribe"
	ScreenAttributes  ScreenType = "attributes"
	ScreenSkills      ScreenType = "skills"
	ScreenAuspice     ScreenType = "auspice"
	ScreenBasics      ScreenType = "basics"
	ScreenGifts       ScreenType = "gifts"
	ScreenRites       ScreenType = "rites"
	ScreenTouchstones ScreenType = "touchstones"
	ScreenMerits      ScreenType = "merits"
	ScreenFinal       ScreenType = "final"

	// ScreenNotImplemented is the placeholder for a step index with no screen
	ScreenNotImplemented ScreenType = "not_implemented"
)

// Screen is the resolved screen for a step index
type Screen struct {
	Type  ScreenType `json:"type"`
	Step  int        `json:"step"`
	Title string     `json:"title"`
	// Field is the character field the screen fills, empty for intro and final
	Field string `json:"field,omitempty"`
}

// StepInfo describes one entry of the stepper display
type StepInfo struct {
	Step     int        `json:"step"`
	Screen   ScreenType `json:"screen"`
	Label    string     `json:"label"`
	Unlocked bool       `json:"unlocked"`
}
