package shared

import "slices"

// TribeName is the character's faction. The empty value means not chosen yet.
type TribeName string

var Tribes = []TribeName{
	TribeBlackFuries, TribeBoneGnawers, TribeChildrenOfGaia, TribeGalestalkers,
	TribeGhostCouncil, TribeGlassWalkers, TribeHartWardens, TribeRedTalons,
	TribeShadowLords, TribeSilentStriders, TribeSilverFangs,
}

const (
	TribeNone           TribeName = ""
	TribeBlackFuries    TribeName = "Black Furies"
	TribeBoneGnawers    TribeName = "Bone Gnawers"
	TribeChildrenOfGaia TribeName = "Children of Gaia"
	TribeGalestalkers   TribeName = "Galestalkers"
	TribeGhostCouncil   TribeName = "Ghost Council"
	TribeGlassWalkers   TribeName = "Glass Walkers"
	TribeHartWardens    TribeName = "Hart Wardens"
	TribeRedTalons      TribeName = "Red Talons"
	TribeShadowLords    TribeName = "Shadow Lords"
	TribeSilentStriders TribeName = "Silent Striders"
	TribeSilverFangs    TribeName = "Silver Fangs"
)

// IsValid reports whether t is a known tribe or the unset sentinel.
func (t TribeName) IsValid() bool {
	return t == TribeNone || slices.Contains(Tribes, t)
}

// AuspiceName is the character's sub-role, the moon phase of their birth.
type AuspiceName string

var Auspices = []AuspiceName{AuspiceRagabash, AuspiceTheurge, AuspicePhilodox, AuspiceGalliard, AuspiceAhroun}

const (
	AuspiceNone     AuspiceName = ""
	AuspiceRagabash AuspiceName = "Ragabash"
	AuspiceTheurge  AuspiceName = "Theurge"
	AuspicePhilodox AuspiceName = "Philodox"
	AuspiceGalliard AuspiceName = "Galliard"
	AuspiceAhroun   AuspiceName = "Ahroun"
)

// IsValid reports whether a is a known auspice or the unset sentinel.
func (a AuspiceName) IsValid() bool {
	return a == AuspiceNone || slices.Contains(Auspices, a)
}

// Renown is one of the three renown tracks.
type Renown string

var Renowns = []Renown{RenownGlory, RenownHonor, RenownWisdom}

const (
	RenownNone   Renown = ""
	RenownGlory  Renown = "Glory"
	RenownHonor  Renown = "Honor"
	RenownWisdom Renown = "Wisdom"
)

// Strings converts a slice of string-backed literals for display or schema use.
func Strings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}
