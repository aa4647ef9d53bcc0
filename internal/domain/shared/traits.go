package shared

// AttributeKey names one of the nine core attributes.
type AttributeKey string

var AttributeKeys = []AttributeKey{
	AttributeStrength, AttributeDexterity, AttributeStamina,
	AttributeCharisma, AttributeManipulation, AttributeComposure,
	AttributeIntelligence, AttributeWits, AttributeResolve,
}

const (
	AttributeStrength     AttributeKey = "strength"
	AttributeDexterity    AttributeKey = "dexterity"
	AttributeStamina      AttributeKey = "stamina"
	AttributeCharisma     AttributeKey = "charisma"
	AttributeManipulation AttributeKey = "manipulation"
	AttributeComposure    AttributeKey = "composure"
	AttributeIntelligence AttributeKey = "intelligence"
	AttributeWits         AttributeKey = "wits"
	AttributeResolve      AttributeKey = "resolve"
)

// SkillKey names one of the 27 skills. Keys match the persisted file format,
// including the space in "animal ken".
type SkillKey string

var SkillKeys = []SkillKey{
	// physical
	"athletics", "brawl", "craft", "drive", "firearms", "melee", "larceny", "stealth", "survival",
	// social
	"animal ken", "etiquette", "insight", "intimidation", "leadership", "performance", "persuasion", "streetwise", "subterfuge",
	// mental
	"academics", "awareness", "finance", "investigation", "medicine", "occult", "politics", "science", "technology",
}

// Trait bounds shared by attributes and skills.
const (
	TraitMin = 0
	TraitMax = 5
)
