// Package effect computes a character's effective stat values and
// advantage/disadvantage state from its active effects, and manages effect
// lifecycle: application with non-stackable deduplication, explicit removal,
// and duration ticking.
package effect

import (
	"github.com/google/uuid"

	"github.com/greyvale/encounter/internal/game/actor"
)

// Apply adds eff to ch's active effects. A non-stackable effect whose Name is
// already present is rejected as a policy no-op: the existing instance is
// returned with applied == false and the effects list is unchanged.
//
// Precondition: ch and eff must be non-nil.
// Postcondition: the returned effect has a non-empty ID and is on ch.
func Apply(ch *actor.Character, eff *actor.ActiveEffect) (applied *actor.ActiveEffect, created bool) {
	if !eff.Stackable {
		for _, existing := range ch.Effects {
			if existing.Name == eff.Name {
				return existing, false
			}
		}
	}
	if eff.ID == "" {
		eff.ID = uuid.New().String()
	}
	ch.Effects = append(ch.Effects, eff)
	return eff, true
}

// Remove deletes the effect with the given id from ch. Removing an absent id
// is a no-op returning false.
func Remove(ch *actor.Character, id string) bool {
	for i, eff := range ch.Effects {
		if eff.ID == id {
			ch.Effects = append(ch.Effects[:i], ch.Effects[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveByName deletes every effect named name from ch and returns the ids removed.
func RemoveByName(ch *actor.Character, name string) []string {
	var removed []string
	kept := ch.Effects[:0]
	for _, eff := range ch.Effects {
		if eff.Name == name {
			removed = append(removed, eff.ID)
			continue
		}
		kept = append(kept, eff)
	}
	ch.Effects = kept
	return removed
}

// Find returns the active effect with the given id, or nil.
func Find(ch *actor.Character, id string) *actor.ActiveEffect {
	for _, eff := range ch.Effects {
		if eff.ID == id {
			return eff
		}
	}
	return nil
}

// FindByName returns the first active effect named name, or nil.
func FindByName(ch *actor.Character, name string) *actor.ActiveEffect {
	for _, eff := range ch.Effects {
		if eff.Name == name {
			return eff
		}
	}
	return nil
}

// EffectiveStat resolves the effective value of the named stat: the
// character's base value, with the last "set" modifier (if any) replacing the
// base and every "add" modifier accumulating on top. Dice modifiers are never
// pre-resolved; use DiceModifiers to enumerate them.
//
// Unknown stat names resolve to base 0, which is how contextual stats such as
// "attack_roll" pick up pure effect bonuses.
//
// Idempotent: repeated calls without mutating effects yield the same value.
func EffectiveStat(ch *actor.Character, stat string) int {
	base := baseStat(ch, stat)

	addTotal := 0
	setValue := 0
	haveSet := false
	for _, eff := range ch.Effects {
		for _, m := range eff.Modifiers {
			if m.Stat != stat {
				continue
			}
			switch m.Op {
			case actor.OpSet:
				setValue = m.Value
				haveSet = true
			case actor.OpAdd:
				addTotal += m.Value
			}
		}
	}

	if haveSet {
		base = setValue
	}
	return base + addTotal
}

// DiceModifiers enumerates the dice expressions of every dice-op modifier on
// the named stat, in effect order. The expressions are rolled by the caller
// at resolution time.
func DiceModifiers(ch *actor.Character, stat string) []string {
	var exprs []string
	for _, eff := range ch.Effects {
		for _, m := range eff.Modifiers {
			if m.Stat == stat && m.Op == actor.OpDice && m.Dice != "" {
				exprs = append(exprs, m.Dice)
			}
		}
	}
	return exprs
}

// baseStat returns the character's raw value for stat: an ability score, a
// derived "<ability>_mod", or one of the direct combat fields. Anything else
// is 0.
func baseStat(ch *actor.Character, stat string) int {
	if score, ok := ch.Abilities.Score(stat); ok {
		return score
	}
	const modSuffix = "_mod"
	if len(stat) > len(modSuffix) && stat[len(stat)-len(modSuffix):] == modSuffix {
		if score, ok := ch.Abilities.Score(stat[:len(stat)-len(modSuffix)]); ok {
			return actor.Mod(score)
		}
	}
	switch stat {
	case "armor_class":
		return ch.ArmorClass
	case "speed":
		return ch.Speed
	case "proficiency_bonus":
		return ch.ProficiencyBonus
	case "max_hp":
		return ch.MaxHP
	case "current_hp":
		return ch.CurrentHP
	default:
		return 0
	}
}

// HasAdvantage reports whether ch has net advantage on checkType: some effect
// grants advantage and no effect simultaneously imposes disadvantage. When
// both apply they cancel and neither HasAdvantage nor HasDisadvantage holds.
func HasAdvantage(ch *actor.Character, checkType string) bool {
	adv, dis := advantageState(ch, checkType)
	return adv && !dis
}

// HasDisadvantage reports whether ch has net disadvantage on checkType, under
// the same mutual-cancellation rule as HasAdvantage.
func HasDisadvantage(ch *actor.Character, checkType string) bool {
	adv, dis := advantageState(ch, checkType)
	return dis && !adv
}

func advantageState(ch *actor.Character, checkType string) (adv, dis bool) {
	for _, eff := range ch.Effects {
		if eff.GrantsAdvantage(checkType) {
			adv = true
		}
		if eff.GrantsDisadvantage(checkType) {
			dis = true
		}
	}
	return adv, dis
}

// HasModifier reports whether any active effect carries a modifier on the
// named stat, regardless of operation. Used for marker stats such as
// "resistance_fire" whose presence matters rather than their value.
func HasModifier(ch *actor.Character, stat string) bool {
	for _, eff := range ch.Effects {
		for _, m := range eff.Modifiers {
			if m.Stat == stat {
				return true
			}
		}
	}
	return false
}

// HasImmunity reports whether any active effect grants immunity to damageType.
func HasImmunity(ch *actor.Character, damageType string) bool {
	for _, eff := range ch.Effects {
		if eff.GrantsImmunity(damageType) {
			return true
		}
	}
	return false
}
