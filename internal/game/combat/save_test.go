package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greyvale/encounter/internal/game/actor"
	"github.com/greyvale/encounter/internal/game/combat"
	"github.com/greyvale/encounter/internal/game/effect"
)

func newWizard() *actor.Character {
	return &actor.Character{
		Name:                "Sorrel",
		Abilities:           actor.AbilityScores{Intelligence: 16},
		MaxHP:               18, CurrentHP: 18,
		ProficiencyBonus:    2,
		SpellcastingAbility: "intelligence",
	}
}

var burningHands = combat.SaveSpell{
	Name:        "burning hands",
	SaveAbility: "dexterity",
	DamageDice:  "3d6",
	DamageType:  "fire",
	HalfOnSave:  true,
}

// TestResolveSaveSpell_SharedRoll: the DC derives from the caster, the damage
// is rolled once, and each target halves or takes it in full by its own save.
func TestResolveSaveSpell_SharedRoll(t *testing.T) {
	nimble := newGhoul() // DEX 14, +2
	clumsy := &actor.Character{Name: "Zombie", Abilities: actor.AbilityScores{Dexterity: 6}, MaxHP: 30, CurrentHP: 30}

	// Damage dice first (6+6+6 = 18), then one d20 per target.
	src := &seqSrc{vals: []int{5, 5, 5, 12, 5}}
	res, err := combat.ResolveSaveSpell(newWizard(), []*actor.Character{nimble, clumsy}, burningHands, src)
	require.NoError(t, err)

	assert.Equal(t, 13, res.DC, "8 + prof 2 + INT 3")
	require.NotNil(t, res.DamageRoll)
	assert.Equal(t, 18, res.DamageRoll.Total())
	require.Len(t, res.Targets, 2)

	saved := res.Targets[0]
	assert.Equal(t, "Ghoul", saved.TargetName)
	assert.Equal(t, 13, saved.Natural)
	assert.Equal(t, 2, saved.SaveModifier)
	assert.Equal(t, 15, saved.Total)
	assert.True(t, saved.Success)
	assert.Equal(t, 9, saved.Damage, "half of 18")

	failed := res.Targets[1]
	assert.Equal(t, 6, failed.Natural)
	assert.Equal(t, -2, failed.SaveModifier)
	assert.Equal(t, 4, failed.Total)
	assert.False(t, failed.Success)
	assert.Equal(t, 18, failed.Damage)
}

// TestResolveSaveSpell_NoHalfOnSave zeroes damage on a success.
func TestResolveSaveSpell_NoHalfOnSave(t *testing.T) {
	spell := burningHands
	spell.HalfOnSave = false

	src := &seqSrc{vals: []int{5, 5, 5, 12}}
	res, err := combat.ResolveSaveSpell(newWizard(), []*actor.Character{newGhoul()}, spell, src)
	require.NoError(t, err)
	require.Len(t, res.Targets, 1)
	assert.True(t, res.Targets[0].Success)
	assert.Zero(t, res.Targets[0].Damage)
}

// TestResolveSaveSpell_DCOverride uses the spell's fixed DC when set.
func TestResolveSaveSpell_DCOverride(t *testing.T) {
	spell := burningHands
	spell.DC = 20

	src := &seqSrc{vals: []int{5, 5, 5, 12}}
	res, err := combat.ResolveSaveSpell(newWizard(), []*actor.Character{newGhoul()}, spell, src)
	require.NoError(t, err)
	assert.Equal(t, 20, res.DC)
	assert.False(t, res.Targets[0].Success, "15 no longer meets the raised DC")
}

// TestResolveSaveSpell_SaveProficiency adds the proficiency bonus for
// proficient targets.
func TestResolveSaveSpell_SaveProficiency(t *testing.T) {
	target := newGhoul()
	target.ProficiencyBonus = 2
	target.SaveProficiencies = map[string]bool{"dexterity": true}

	src := &seqSrc{vals: []int{5, 5, 5, 8}}
	res, err := combat.ResolveSaveSpell(newWizard(), []*actor.Character{target}, burningHands, src)
	require.NoError(t, err)
	tr := res.Targets[0]
	assert.Equal(t, 4, tr.SaveModifier, "DEX 2 + prof 2")
	assert.Equal(t, 13, tr.Total)
	assert.True(t, tr.Success)
}

// TestResolveSaveSpell_BonusDicePools: ability-specific and generic
// saving-throw dice bonuses both apply additively.
func TestResolveSaveSpell_BonusDicePools(t *testing.T) {
	target := newGhoul()
	effect.Apply(target, &actor.ActiveEffect{Name: "Blessed", Modifiers: []actor.Modifier{
		{Stat: "dexterity_save", Op: actor.OpDice, Dice: "1d4"},
		{Stat: "saving_throw", Op: actor.OpDice, Dice: "1d6"},
	}})
	spell := combat.SaveSpell{Name: "hold person", SaveAbility: "dexterity", DC: 19}

	src := &seqSrc{vals: []int{9, 3, 2}} // d20 10, then 1d4 -> 4, 1d6 -> 3
	res, err := combat.ResolveSaveSpell(newWizard(), []*actor.Character{target}, spell, src)
	require.NoError(t, err)

	tr := res.Targets[0]
	require.Len(t, tr.BonusRolls, 2)
	assert.Equal(t, 19, tr.Total, "10 + DEX 2 + 4 + 3")
	assert.True(t, tr.Success)
	assert.Nil(t, res.DamageRoll, "no-damage spells never roll damage")
	assert.Zero(t, tr.Damage)
}

// TestResolveSaveSpell_MalformedBonusSkipped: caller-supplied garbage in a
// dice modifier contributes nothing rather than failing the save.
func TestResolveSaveSpell_MalformedBonusSkipped(t *testing.T) {
	target := newGhoul()
	effect.Apply(target, &actor.ActiveEffect{Name: "Garbled", Modifiers: []actor.Modifier{
		{Stat: "dexterity_save", Op: actor.OpDice, Dice: "2x6"},
	}})
	spell := combat.SaveSpell{Name: "hold person", SaveAbility: "dexterity", DC: 12}

	src := &seqSrc{vals: []int{9}}
	res, err := combat.ResolveSaveSpell(newWizard(), []*actor.Character{target}, spell, src)
	require.NoError(t, err)
	tr := res.Targets[0]
	assert.Empty(t, tr.BonusRolls)
	assert.Equal(t, 12, tr.Total)
	assert.True(t, tr.Success)
}

// TestResolveSaveSpell_SaveAdvantage: an advantage effect on the save check
// type rolls two d20s and keeps the higher.
func TestResolveSaveSpell_SaveAdvantage(t *testing.T) {
	target := newGhoul()
	effect.Apply(target, &actor.ActiveEffect{Name: "Cat's Grace", AdvantageOn: []string{"dexterity_save"}})

	src := &seqSrc{vals: []int{5, 5, 5, 2, 17}}
	res, err := combat.ResolveSaveSpell(newWizard(), []*actor.Character{target}, burningHands, src)
	require.NoError(t, err)

	tr := res.Targets[0]
	assert.True(t, tr.Advantage)
	assert.Equal(t, []int{3, 18}, tr.Rolls)
	assert.Equal(t, 18, tr.Natural)
}

// TestResolveSaveSpell_Mitigation: per-target resistance applies after the
// save halving.
func TestResolveSaveSpell_Mitigation(t *testing.T) {
	target := newGhoul()
	effect.Apply(target, &actor.ActiveEffect{Name: "Fire Ward", Modifiers: []actor.Modifier{
		{Stat: "resistance_fire", Op: actor.OpAdd, Value: 1},
	}})

	src := &seqSrc{vals: []int{5, 5, 5, 12}}
	res, err := combat.ResolveSaveSpell(newWizard(), []*actor.Character{target}, burningHands, src)
	require.NoError(t, err)

	tr := res.Targets[0]
	assert.True(t, tr.Success)
	assert.Equal(t, 4, tr.Damage, "18 halved by the save, then halved again by resistance")
	assert.True(t, tr.Mitigation.Resisted)
}

// TestResolveSaveSpell_FollowUpFlags: concentration DC and would-drop are
// computed per target against the post-mitigation damage.
func TestResolveSaveSpell_FollowUpFlags(t *testing.T) {
	target := newGhoul()
	target.CurrentHP = 12
	target.Concentration = &actor.ConcentrationState{SpellName: "Bless"}

	src := &seqSrc{vals: []int{5, 5, 5, 2}} // natural 3 fails
	res, err := combat.ResolveSaveSpell(newWizard(), []*actor.Character{target}, burningHands, src)
	require.NoError(t, err)

	tr := res.Targets[0]
	assert.False(t, tr.Success)
	assert.Equal(t, 18, tr.Damage)
	assert.Equal(t, 10, tr.ConcentrationDC, "half of 18 floors below the minimum DC")
	assert.True(t, tr.TargetWouldDrop)
	assert.Equal(t, 12, target.CurrentHP, "resolution never mutates the target")
}

// TestResolveSaveSpell_BadDice surfaces malformed spell notation.
func TestResolveSaveSpell_BadDice(t *testing.T) {
	spell := burningHands
	spell.DamageDice = "3x6"
	_, err := combat.ResolveSaveSpell(newWizard(), []*actor.Character{newGhoul()}, spell, &seqSrc{vals: []int{1}})
	assert.Error(t, err)
}
