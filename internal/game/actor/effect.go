package actor

// ModifierOp is how a Modifier combines with a stat's base value.
type ModifierOp string

const (
	// OpAdd accumulates on top of the base (after any set).
	OpAdd ModifierOp = "add"
	// OpSet replaces the base value; the last set wins.
	OpSet ModifierOp = "set"
	// OpDice contributes extra dice rolled at resolution time; never
	// pre-resolved into a flat value.
	OpDice ModifierOp = "dice"
)

// Modifier is one stat adjustment carried by an active effect.
type Modifier struct {
	// Stat names the value being modified: an ability score, "<ability>_mod",
	// a direct combat field such as "armor_class", or a contextual stat such
	// as "attack_roll" or "constitution_save".
	Stat string
	// Op selects how the modifier combines.
	Op ModifierOp
	// Value is the flat amount for OpAdd and OpSet.
	Value int
	// Dice is the dice expression for OpDice, e.g. "1d4".
	Dice string
}

// Duration classifies how an active effect expires.
type Duration string

const (
	// DurationRounds expires after a counted number of combat rounds,
	// decremented on turn events.
	DurationRounds Duration = "rounds"
	// DurationMinutes expires after a counted number of minutes, decremented
	// on round events.
	DurationMinutes Duration = "minutes"
	// DurationConcentration lasts until the creating spell's concentration
	// breaks; never auto-ticked.
	DurationConcentration Duration = "concentration"
	// DurationPermanent lasts until explicitly removed; never auto-ticked.
	DurationPermanent Duration = "permanent"
)

// ActiveEffect is a named, timed or permanent modification to a character's
// stats, advantage state, or immunities.
type ActiveEffect struct {
	// ID uniquely identifies this instance; assigned on apply.
	ID string
	// Name is the display name; non-stackable duplicates are detected by name.
	Name string
	// Source describes what created the effect, e.g. a spell or item name.
	Source string

	Modifiers []Modifier

	Duration Duration
	// Remaining is the duration counter; meaningful only for rounds/minutes.
	Remaining int

	// AdvantageOn and DisadvantageOn hold check types such as "attack_roll"
	// or "constitution_save".
	AdvantageOn    []string
	DisadvantageOn []string

	// Immunities holds damage types this effect grants immunity to.
	Immunities []string

	// Stackable permits multiple instances with the same Name.
	Stackable bool
}

// GrantsAdvantage reports whether this effect grants advantage on checkType.
func (e *ActiveEffect) GrantsAdvantage(checkType string) bool {
	return containsString(e.AdvantageOn, checkType)
}

// GrantsDisadvantage reports whether this effect imposes disadvantage on checkType.
func (e *ActiveEffect) GrantsDisadvantage(checkType string) bool {
	return containsString(e.DisadvantageOn, checkType)
}

// GrantsImmunity reports whether this effect grants immunity to damageType.
func (e *ActiveEffect) GrantsImmunity(damageType string) bool {
	return containsString(e.Immunities, damageType)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
