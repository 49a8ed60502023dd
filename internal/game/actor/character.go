// Package actor defines the combat-facing data model: the character view the
// engine reads and mutates, active effects and their modifiers, concentration
// state, and encounter participants. The campaign layer owns every Character's
// lifetime; engine functions mutate fields in place and never retain a
// reference after returning.
package actor

import "github.com/greyvale/encounter/internal/game/geometry"

// AbilityScores holds the six ability score values for a character.
type AbilityScores struct {
	Strength     int
	Dexterity    int
	Constitution int
	Intelligence int
	Wisdom       int
	Charisma     int
}

// Score returns the raw score for the named ability, or (0, false) for an
// unknown name.
func (a AbilityScores) Score(name string) (int, bool) {
	switch name {
	case "strength":
		return a.Strength, true
	case "dexterity":
		return a.Dexterity, true
	case "constitution":
		return a.Constitution, true
	case "intelligence":
		return a.Intelligence, true
	case "wisdom":
		return a.Wisdom, true
	case "charisma":
		return a.Charisma, true
	default:
		return 0, false
	}
}

// Mod computes the standard ability modifier using floor division:
// floor((score - 10) / 2).
func Mod(score int) int {
	diff := score - 10
	if diff < 0 {
		return (diff - 1) / 2
	}
	return diff / 2
}

// Character is the narrow view of a character the combat engine operates on.
// The campaign layer adapts its own character records to this shape; zero
// values indicate fields the caller chose not to supply.
type Character struct {
	Name string

	Abilities AbilityScores

	MaxHP     int
	CurrentHP int
	// TempHP is a pool of temporary hit points absorbed before CurrentHP.
	TempHP int

	ArmorClass       int
	Speed            int // feet per move
	ProficiencyBonus int

	// SpellcastingAbility names the ability used for spell attack rolls and
	// save DCs, e.g. "wisdom". Empty for non-casters.
	SpellcastingAbility string

	// SaveProficiencies holds the ability names this character adds their
	// proficiency bonus to when saving.
	SaveProficiencies map[string]bool

	// Conditions holds condition tags such as "prone" or "unconscious".
	Conditions []string

	// Effects is the list of active effects. Engine functions in the effect
	// package are the only writers.
	Effects []*ActiveEffect

	// Concentration is non-nil while the character concentrates on a spell.
	Concentration *ConcentrationState

	// Position is the character's grid position, if placed on a tactical grid.
	Position *geometry.Position
}

// AbilityMod returns the modifier for the named ability; unknown names yield 0.
func (c *Character) AbilityMod(name string) int {
	score, ok := c.Abilities.Score(name)
	if !ok {
		return 0
	}
	return Mod(score)
}

// HasCondition reports whether the character carries the given condition tag.
func (c *Character) HasCondition(tag string) bool {
	for _, t := range c.Conditions {
		if t == tag {
			return true
		}
	}
	return false
}

// IsSaveProficient reports whether the character adds proficiency to saves of
// the named ability.
func (c *Character) IsSaveProficient(ability string) bool {
	return c.SaveProficiencies[ability]
}

// ConcentrationState records the one spell a character is concentrating on
// and the active effects that end with it.
//
// Invariant: every id in EffectIDs refers to an ActiveEffect currently on the
// same character; the tracker removes exactly these ids on break and ignores
// ids no longer present.
type ConcentrationState struct {
	SpellName    string
	EffectIDs    []string
	StartedRound int
}
