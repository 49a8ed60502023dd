package combat

import (
	"fmt"

	"github.com/greyvale/encounter/internal/game/actor"
	"github.com/greyvale/encounter/internal/game/dice"
	"github.com/greyvale/encounter/internal/game/effect"
)

// AttackOptions carries the caller-controlled knobs for one attack.
type AttackOptions struct {
	// BonusDice are extra damage dice expressions from the caller (smite,
	// sneak attack, and the like). Dice-op "damage_roll" effect modifiers on
	// the attacker are added automatically.
	BonusDice []string
	// ForceAdvantage / ForceDisadvantage are ORed with effect-derived state
	// before mutual cancellation.
	ForceAdvantage    bool
	ForceDisadvantage bool
	// AutoCrit makes any hit critical. A natural 1 still misses.
	AutoCrit bool
}

// DamageBreakdown itemizes a resolved damage total.
type DamageBreakdown struct {
	// BaseRoll is the weapon's damage dice (die count doubled on a critical;
	// the notation's flat modifier is carried in FlatModifier instead).
	BaseRoll dice.RollResult
	// BonusRolls are the extra dice sources, also doubled on a critical.
	BonusRolls []dice.RollResult
	// FlatModifier is the non-doubling flat part: ability modifier + the
	// dice notation's flat modifier + effect bonus on "damage_roll".
	FlatModifier int
	DamageType   string
	// RawTotal is the pre-mitigation damage, floored at 0.
	RawTotal int
	// FinalDamage is RawTotal after immunity/resistance/vulnerability.
	FinalDamage int
	Mitigation  Mitigation
}

// AttackResult is the immutable record of one resolved attack. The engine
// never applies it; HP loss and the concentration check are the caller's
// next steps.
type AttackResult struct {
	AttackerName string
	TargetName   string
	WeaponName   string
	Ability      string

	Advantage    bool
	Disadvantage bool
	// Rolls holds one d20, or two under advantage/disadvantage.
	Rolls []int
	// Natural is the d20 actually used, before modifiers.
	Natural int
	// BonusRolls are dice-op bonuses on "attack_roll" from the attacker's
	// effects, rolled and added into the attack total.
	BonusRolls []dice.RollResult
	// AttackModifier is the flat part: ability modifier + proficiency +
	// effect bonus on "attack_roll".
	AttackModifier int
	AttackTotal    int
	TargetAC       int

	Hit      bool
	Critical bool

	// Damage is nil on a miss.
	Damage *DamageBreakdown

	// ConcentrationDC is the save DC the target must meet to keep
	// concentrating, or 0 when no check is required.
	ConcentrationDC int
	// TargetWouldDrop is true when applying FinalDamage would reduce the
	// target to 0 effective HP (temporary HP absorbed first).
	TargetWouldDrop bool
}

// ResolveAttack resolves one weapon or unarmed attack from attacker against
// target. weapon == nil attacks unarmed (1d4 bludgeoning, STR).
//
// Rules, in precedence order: a natural 1 always misses, overriding even a
// forced critical; a natural 20 or AutoCrit always hits and is critical;
// otherwise the attack hits iff the total meets the target's effective armor
// class. Dice-op "attack_roll" effect modifiers (Bless and the like) are
// rolled per attack and added to the total; the natural die alone decides the
// 1 and 20 rules. A critical doubles the number of damage dice rolled, base
// and bonus alike, never the flat modifiers.
//
// Precondition: attacker, target, and src must be non-nil.
// Postcondition: neither character is mutated.
func ResolveAttack(attacker, target *actor.Character, weapon *Weapon, opts AttackOptions, src dice.Source) (AttackResult, error) {
	w := unarmed
	if weapon != nil {
		w = *weapon
	}

	ability := attackAbility(attacker, w)
	abilityMod := attacker.AbilityMod(ability)
	// Flat attack_roll bonuses fold into the modifier; dice-op bonuses on the
	// same stat are rolled per attack below.
	attackMod := abilityMod + attacker.ProficiencyBonus + effect.EffectiveStat(attacker, "attack_roll")

	adv, dis := resolveAdvantage(attacker, "attack_roll", opts.ForceAdvantage, opts.ForceDisadvantage)

	var natural int
	var rolls []int
	switch {
	case adv:
		k, rs := dice.D20Advantage(src)
		natural, rolls = k, rs[:]
	case dis:
		k, rs := dice.D20Disadvantage(src)
		natural, rolls = k, rs[:]
	default:
		natural = dice.D20(src)
		rolls = []int{natural}
	}

	var bonusRolls []dice.RollResult
	bonusTotal := 0
	for _, exprStr := range effect.DiceModifiers(attacker, "attack_roll") {
		// Definitions are validated on load; malformed caller data contributes
		// nothing rather than failing the attack.
		roll, err := dice.RollExpr(exprStr, src)
		if err != nil {
			continue
		}
		bonusRolls = append(bonusRolls, roll)
		bonusTotal += roll.Total()
	}

	result := AttackResult{
		AttackerName:   attacker.Name,
		TargetName:     target.Name,
		WeaponName:     w.Name,
		Ability:        ability,
		Advantage:      adv,
		Disadvantage:   dis,
		Rolls:          rolls,
		Natural:        natural,
		BonusRolls:     bonusRolls,
		AttackModifier: attackMod,
		AttackTotal:    natural + attackMod + bonusTotal,
		TargetAC:       effect.EffectiveStat(target, "armor_class"),
	}

	switch {
	case natural == 1:
		// Natural 1 always misses, even under AutoCrit.
		return result, nil
	case natural == 20 || opts.AutoCrit:
		result.Hit = true
		result.Critical = true
	default:
		result.Hit = result.AttackTotal >= result.TargetAC
	}
	if !result.Hit {
		return result, nil
	}

	breakdown, err := rollDamage(attacker, w, abilityMod, opts.BonusDice, result.Critical, src)
	if err != nil {
		return AttackResult{}, err
	}
	breakdown.FinalDamage, breakdown.Mitigation = applyDamageModifiers(target, breakdown.RawTotal, w.DamageType)

	result.Damage = &breakdown
	result.ConcentrationDC = concentrationDC(target, breakdown.FinalDamage)
	result.TargetWouldDrop = wouldDropToZero(target, breakdown.FinalDamage)
	return result, nil
}

// rollDamage rolls the weapon's base dice plus every bonus dice source. On a
// critical, die counts double; flat modifiers never do.
func rollDamage(attacker *actor.Character, w Weapon, abilityMod int, callerBonus []string, critical bool, src dice.Source) (DamageBreakdown, error) {
	baseExpr, err := dice.Parse(w.DamageDice)
	if err != nil {
		return DamageBreakdown{}, fmt.Errorf("combat: weapon %q damage dice: %w", w.Name, err)
	}

	flat := abilityMod + baseExpr.Modifier + effect.EffectiveStat(attacker, "damage_roll")

	baseExpr.Modifier = 0
	if critical {
		baseExpr.Count *= 2
	}
	baseRoll := dice.Roll(baseExpr, src)

	bonusSources := append(append([]string(nil), callerBonus...), effect.DiceModifiers(attacker, "damage_roll")...)
	var bonusRolls []dice.RollResult
	for _, exprStr := range bonusSources {
		expr, err := dice.Parse(exprStr)
		if err != nil {
			return DamageBreakdown{}, fmt.Errorf("combat: bonus damage dice %q: %w", exprStr, err)
		}
		flat += expr.Modifier
		expr.Modifier = 0
		if critical {
			expr.Count *= 2
		}
		bonusRolls = append(bonusRolls, dice.Roll(expr, src))
	}

	raw := baseRoll.Total() + flat
	for _, r := range bonusRolls {
		raw += r.Total()
	}
	if raw < 0 {
		raw = 0
	}

	return DamageBreakdown{
		BaseRoll:     baseRoll,
		BonusRolls:   bonusRolls,
		FlatModifier: flat,
		DamageType:   w.DamageType,
		RawTotal:     raw,
	}, nil
}
