// Package combat resolves single attacks and saving-throw spell casts
// end-to-end: roll, hit determination, damage, mitigation, and follow-up
// flags. Every function here is a pure computation over the characters passed
// in: results are immutable records, and applying them (HP loss, triggering
// the concentration check) is the caller's explicit next step.
package combat

import (
	"github.com/greyvale/encounter/internal/game/actor"
	"github.com/greyvale/encounter/internal/game/effect"
)

// Weapon is the record consumed from the equipment layer. Unarmed strikes are
// represented by a nil *Weapon.
type Weapon struct {
	Name       string
	DamageDice string // dice notation, e.g. "1d8" or "2d6+1"
	DamageType string
	// Finesse attacks use the better of STR and DEX.
	Finesse bool
	// Ranged attacks use DEX.
	Ranged bool
	// SpellAttack attacks use the wielder's spellcasting ability.
	SpellAttack bool
}

// unarmed stands in when no weapon is supplied.
var unarmed = Weapon{Name: "unarmed strike", DamageDice: "1d4", DamageType: "bludgeoning"}

// Mitigation records how the target's resistances altered damage.
//
// Invariant: at most one of Immune, Resisted, Vulnerable is true. Resistance
// and vulnerability to the same type cancel, leaving all three false.
type Mitigation struct {
	Immune     bool
	Resisted   bool
	Vulnerable bool
}

// applyDamageModifiers applies the target's immunity, resistance, and
// vulnerability to damage of the given type. Immunity zeroes the damage
// outright; otherwise resistance and vulnerability cancel when both present,
// resistance alone halves (floor), vulnerability alone doubles.
func applyDamageModifiers(target *actor.Character, damage int, damageType string) (int, Mitigation) {
	if effect.HasImmunity(target, damageType) {
		return 0, Mitigation{Immune: true}
	}
	resisted := effect.HasModifier(target, "resistance_"+damageType)
	vulnerable := effect.HasModifier(target, "vulnerability_"+damageType)
	switch {
	case resisted && vulnerable:
		return damage, Mitigation{}
	case resisted:
		return damage / 2, Mitigation{Resisted: true}
	case vulnerable:
		return damage * 2, Mitigation{Vulnerable: true}
	default:
		return damage, Mitigation{}
	}
}

// attackAbility selects the acting ability for an attack with the given
// weapon: finesse picks the better of STR and DEX, ranged uses DEX, a
// spell-flagged weapon uses the attacker's spellcasting ability, and anything
// else (including unarmed) uses STR.
func attackAbility(attacker *actor.Character, w Weapon) string {
	switch {
	case w.Finesse:
		if attacker.AbilityMod("dexterity") > attacker.AbilityMod("strength") {
			return "dexterity"
		}
		return "strength"
	case w.Ranged:
		return "dexterity"
	case w.SpellAttack && attacker.SpellcastingAbility != "":
		return attacker.SpellcastingAbility
	default:
		return "strength"
	}
}

// resolveAdvantage combines forced flags with effect-derived state for a check
// type. Advantage and disadvantage mutually cancel after combination.
func resolveAdvantage(ch *actor.Character, checkType string, forceAdv, forceDis bool) (adv, dis bool) {
	adv = forceAdv || effect.HasAdvantage(ch, checkType)
	dis = forceDis || effect.HasDisadvantage(ch, checkType)
	if adv && dis {
		return false, false
	}
	return adv, dis
}

// concentrationDC returns the save DC a target concentrating on a spell must
// meet after taking damage, or 0 when no check is required. The caller
// invokes the concentration check separately; only the DC is reported here.
func concentrationDC(target *actor.Character, damage int) int {
	if damage <= 0 || target.Concentration == nil {
		return 0
	}
	dc := damage / 2
	if dc < 10 {
		dc = 10
	}
	return dc
}

// wouldDropToZero reports whether applying damage would reduce the target to
// 0 effective hit points, with temporary HP absorbed first. A zero-damage hit
// never drops anyone, whatever their current HP.
func wouldDropToZero(target *actor.Character, damage int) bool {
	if damage <= 0 {
		return false
	}
	remaining := damage - target.TempHP
	if remaining < 0 {
		remaining = 0
	}
	return target.CurrentHP-remaining <= 0
}
