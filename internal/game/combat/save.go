package combat

import (
	"fmt"

	"github.com/greyvale/encounter/internal/game/actor"
	"github.com/greyvale/encounter/internal/game/dice"
	"github.com/greyvale/encounter/internal/game/effect"
)

// SaveSpell describes one saving-throw spell cast.
type SaveSpell struct {
	Name string
	// SaveAbility is the ability targets save with, e.g. "dexterity".
	SaveAbility string
	// DamageDice is the spell's damage notation; empty for no-damage spells.
	DamageDice string
	DamageType string
	// HalfOnSave keeps half damage (floor) on a successful save instead of
	// zeroing it.
	HalfOnSave bool
	// DC overrides the caster-derived save DC when > 0.
	DC int
}

// TargetSaveResult is the per-target outcome of a saving-throw spell.
type TargetSaveResult struct {
	TargetName string

	Advantage    bool
	Disadvantage bool
	Rolls        []int
	Natural      int
	// BonusRolls are dice-op bonuses from "<ability>_save" and generic
	// "saving_throw" effect modifiers; both pools apply additively.
	BonusRolls []dice.RollResult
	// SaveModifier is ability modifier + proficiency (if proficient) +
	// effect bonus on "<ability>_save".
	SaveModifier int
	Total        int
	Success      bool

	Damage     int
	Mitigation Mitigation

	ConcentrationDC int
	TargetWouldDrop bool
}

// SaveSpellResult is the immutable record of one resolved saving-throw spell.
type SaveSpellResult struct {
	CasterName  string
	SpellName   string
	SaveAbility string
	DC          int
	// DamageRoll is the single shared damage roll, nil for no-damage spells.
	DamageRoll *dice.RollResult
	DamageType string
	HalfOnSave bool
	Targets    []TargetSaveResult
}

// ResolveSaveSpell resolves spell from caster against each target. The DC
// defaults to 8 + proficiency bonus + spellcasting-ability modifier unless the
// spell overrides it. Damage, when present, is rolled once and shared across
// targets; each target then saves, halves/zeroes per HalfOnSave, and applies
// its own mitigation.
//
// Precondition: caster, every target, and src must be non-nil.
// Postcondition: no character is mutated.
func ResolveSaveSpell(caster *actor.Character, targets []*actor.Character, spell SaveSpell, src dice.Source) (SaveSpellResult, error) {
	dc := spell.DC
	if dc <= 0 {
		dc = 8 + caster.ProficiencyBonus + caster.AbilityMod(caster.SpellcastingAbility)
	}

	result := SaveSpellResult{
		CasterName:  caster.Name,
		SpellName:   spell.Name,
		SaveAbility: spell.SaveAbility,
		DC:          dc,
		DamageType:  spell.DamageType,
		HalfOnSave:  spell.HalfOnSave,
	}

	var rolledDamage int
	if spell.DamageDice != "" {
		roll, err := dice.RollExpr(spell.DamageDice, src)
		if err != nil {
			return SaveSpellResult{}, fmt.Errorf("combat: spell %q damage dice: %w", spell.Name, err)
		}
		result.DamageRoll = &roll
		rolledDamage = roll.Total()
	}

	checkType := spell.SaveAbility + "_save"
	for _, target := range targets {
		tr := resolveSave(target, checkType, spell.SaveAbility, dc, src)

		if result.DamageRoll != nil {
			damage := rolledDamage
			if tr.Success {
				if spell.HalfOnSave {
					damage /= 2
				} else {
					damage = 0
				}
			}
			if damage < 0 {
				damage = 0
			}
			tr.Damage, tr.Mitigation = applyDamageModifiers(target, damage, spell.DamageType)
			tr.ConcentrationDC = concentrationDC(target, tr.Damage)
			tr.TargetWouldDrop = wouldDropToZero(target, tr.Damage)
		}

		result.Targets = append(result.Targets, tr)
	}
	return result, nil
}

// resolveSave rolls one saving throw for target against dc. Dice bonuses from
// the ability-specific pool and the generic "saving_throw" pool both apply.
func resolveSave(target *actor.Character, checkType, ability string, dc int, src dice.Source) TargetSaveResult {
	adv, dis := resolveAdvantage(target, checkType, false, false)

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

	saveMod := target.AbilityMod(ability) + effect.EffectiveStat(target, checkType)
	if target.IsSaveProficient(ability) {
		saveMod += target.ProficiencyBonus
	}

	var bonusRolls []dice.RollResult
	bonusTotal := 0
	bonusExprs := append(effect.DiceModifiers(target, checkType), effect.DiceModifiers(target, "saving_throw")...)
	for _, exprStr := range bonusExprs {
		// Definitions are validated on load; a malformed expression here is
		// caller data and contributes nothing rather than failing the save.
		roll, err := dice.RollExpr(exprStr, src)
		if err != nil {
			continue
		}
		bonusRolls = append(bonusRolls, roll)
		bonusTotal += roll.Total()
	}

	total := natural + saveMod + bonusTotal
	return TargetSaveResult{
		TargetName:   target.Name,
		Advantage:    adv,
		Disadvantage: dis,
		Rolls:        rolls,
		Natural:      natural,
		BonusRolls:   bonusRolls,
		SaveModifier: saveMod,
		Total:        total,
		Success:      total >= dc,
	}
}
