// Package concentration enforces the one-concentration-spell-at-a-time rule,
// resolves concentration saves triggered by damage, and auto-breaks
// concentration on incapacitation or death.
//
// State machine per character: Idle → Start → Concentrating → (End | failed
// Check | AutoBreak) → Idle. Breaking always removes exactly the effect ids
// tracked by the ConcentrationState, silently skipping ids already gone.
package concentration

import (
	"github.com/greyvale/encounter/internal/game/actor"
	"github.com/greyvale/encounter/internal/game/dice"
	"github.com/greyvale/encounter/internal/game/effect"
)

// conSaveCheckType is the check type used for concentration saves.
const conSaveCheckType = "constitution_save"

// incapacitatingConditions are the condition tags that end concentration
// outright, no save allowed.
var incapacitatingConditions = []string{
	"incapacitated", "unconscious", "stunned", "paralyzed", "petrified", "dead",
}

// incapacitatingEffects are active-effect names that end concentration
// outright, for characters whose incapacitation arrived as an effect rather
// than a condition tag.
var incapacitatingEffects = []string{
	"Incapacitated", "Unconscious", "Stunned", "Paralyzed", "Petrified",
}

// Start begins concentrating on spellName, tracking effectIDs for removal when
// concentration ends. A character can never concentrate on two spells: any
// existing concentration is broken first, and the ids its state tracked are
// removed and returned for narration.
//
// Postcondition: ch.Concentration is non-nil and names spellName.
func Start(ch *actor.Character, spellName string, effectIDs []string, round int) (brokenSpell string, removed []string) {
	if ch.Concentration != nil {
		brokenSpell = ch.Concentration.SpellName
		removed = breakConcentration(ch)
	}
	ch.Concentration = &actor.ConcentrationState{
		SpellName:    spellName,
		EffectIDs:    append([]string(nil), effectIDs...),
		StartedRound: round,
	}
	return brokenSpell, removed
}

// End deliberately ends concentration, removing every tracked effect id still
// present. Ending while not concentrating is a no-op.
//
// Postcondition: ch.Concentration is nil.
func End(ch *actor.Character) (removed []string) {
	return breakConcentration(ch)
}

// CheckResult describes one resolved concentration save.
type CheckResult struct {
	// Concentrating is false when the character had nothing to concentrate
	// on; the rest of the result is zero.
	Concentrating bool
	SpellName     string
	DC            int
	// Rolls holds one d20, or two under advantage/disadvantage.
	Rolls []int
	// Kept is the d20 actually used.
	Kept         int
	Advantage    bool
	Disadvantage bool
	Total        int
	Success      bool
	// RemovedEffectIDs lists the effect ids removed on a failed save.
	RemovedEffectIDs []string
}

// Check resolves a concentration save against damage just taken:
// DC = max(10, damage/2); d20 (advantage/disadvantage on constitution saves,
// mutual cancellation) + CON modifier + proficiency bonus if proficient in CON
// saves + effect bonus on "constitution_save". Success keeps the state;
// failure breaks it.
//
// Precondition: src must be non-nil; damage >= 0.
func Check(ch *actor.Character, damage int, src dice.Source) CheckResult {
	if ch.Concentration == nil {
		return CheckResult{}
	}

	dc := damage / 2
	if dc < 10 {
		dc = 10
	}

	adv := effect.HasAdvantage(ch, conSaveCheckType)
	dis := effect.HasDisadvantage(ch, conSaveCheckType)

	var kept int
	var rolls []int
	switch {
	case adv:
		k, rs := dice.D20Advantage(src)
		kept, rolls = k, rs[:]
	case dis:
		k, rs := dice.D20Disadvantage(src)
		kept, rolls = k, rs[:]
	default:
		kept = dice.D20(src)
		rolls = []int{kept}
	}

	total := kept + ch.AbilityMod("constitution") + effect.EffectiveStat(ch, conSaveCheckType)
	if ch.IsSaveProficient("constitution") {
		total += ch.ProficiencyBonus
	}

	result := CheckResult{
		Concentrating: true,
		SpellName:     ch.Concentration.SpellName,
		DC:            dc,
		Rolls:         rolls,
		Kept:          kept,
		Advantage:     adv,
		Disadvantage:  dis,
		Total:         total,
		Success:       total >= dc,
	}
	if !result.Success {
		result.RemovedEffectIDs = breakConcentration(ch)
	}
	return result
}

// AutoBreak ends concentration without a save when the character is at 0 HP
// or below, carries an incapacitating condition tag, or carries an
// incapacitating active effect. The first matching reason wins and is
// returned for narration. Characters not concentrating are untouched.
func AutoBreak(ch *actor.Character) (reason string, removed []string, broken bool) {
	if ch.Concentration == nil {
		return "", nil, false
	}

	switch {
	case ch.CurrentHP <= 0:
		reason = "dropped to 0 hit points"
	default:
		for _, tag := range incapacitatingConditions {
			if ch.HasCondition(tag) {
				reason = "is " + tag
				break
			}
		}
		if reason == "" {
			for _, name := range incapacitatingEffects {
				if effect.FindByName(ch, name) != nil {
					reason = "is affected by " + name
					break
				}
			}
		}
	}

	if reason == "" {
		return "", nil, false
	}
	return reason, breakConcentration(ch), true
}

// breakConcentration removes every tracked effect id still on ch and clears
// the state, returning the ids actually removed.
func breakConcentration(ch *actor.Character) []string {
	if ch.Concentration == nil {
		return nil
	}
	var removed []string
	for _, id := range ch.Concentration.EffectIDs {
		if effect.Remove(ch, id) {
			removed = append(removed, id)
		}
	}
	ch.Concentration = nil
	return removed
}
