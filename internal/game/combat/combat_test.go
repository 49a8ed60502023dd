package combat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/greyvale/encounter/internal/game/actor"
	"github.com/greyvale/encounter/internal/game/combat"
	"github.com/greyvale/encounter/internal/game/effect"
)

// seqSrc returns scripted values in order, wrapping around at the end.
type seqSrc struct {
	vals []int
	i    int
}

func (s *seqSrc) Intn(n int) int {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v % n
}

func newFighter() *actor.Character {
	return &actor.Character{
		Name:             "Aveline",
		Abilities:        actor.AbilityScores{Strength: 16, Dexterity: 12},
		MaxHP:            24, CurrentHP: 24,
		ArmorClass:       16,
		ProficiencyBonus: 2,
	}
}

func newGhoul() *actor.Character {
	return &actor.Character{
		Name:      "Ghoul",
		Abilities: actor.AbilityScores{Dexterity: 14, Constitution: 10},
		MaxHP:     22, CurrentHP: 22,
		ArmorClass: 15,
	}
}

var longsword = combat.Weapon{Name: "longsword", DamageDice: "1d8", DamageType: "slashing"}

// TestResolveAttack_Hit: natural 12 + STR 3 + prof 2 = 17 against AC 15.
func TestResolveAttack_Hit(t *testing.T) {
	src := &seqSrc{vals: []int{11, 5}}

	res, err := combat.ResolveAttack(newFighter(), newGhoul(), &longsword, combat.AttackOptions{}, src)
	require.NoError(t, err)

	assert.Equal(t, "strength", res.Ability)
	assert.Equal(t, []int{12}, res.Rolls)
	assert.Equal(t, 12, res.Natural)
	assert.Equal(t, 5, res.AttackModifier)
	assert.Equal(t, 17, res.AttackTotal)
	assert.Equal(t, 15, res.TargetAC)
	assert.True(t, res.Hit)
	assert.False(t, res.Critical)

	require.NotNil(t, res.Damage)
	assert.Equal(t, []int{6}, res.Damage.BaseRoll.Dice)
	assert.Equal(t, 3, res.Damage.FlatModifier)
	assert.Equal(t, 9, res.Damage.RawTotal)
	assert.Equal(t, 9, res.Damage.FinalDamage)
	assert.Equal(t, "slashing", res.Damage.DamageType)
}

// TestResolveAttack_Miss: total 8 against AC 15 rolls no damage.
func TestResolveAttack_Miss(t *testing.T) {
	src := &seqSrc{vals: []int{2}}

	res, err := combat.ResolveAttack(newFighter(), newGhoul(), &longsword, combat.AttackOptions{}, src)
	require.NoError(t, err)
	assert.False(t, res.Hit)
	assert.Nil(t, res.Damage)
	assert.Zero(t, res.ConcentrationDC)
}

// TestResolveAttack_Natural20_Unarmed: a nil weapon attacks unarmed (1d4
// bludgeoning), and the natural 20 doubles the die count only.
func TestResolveAttack_Natural20_Unarmed(t *testing.T) {
	src := &seqSrc{vals: []int{19, 3, 3}}

	res, err := combat.ResolveAttack(newFighter(), newGhoul(), nil, combat.AttackOptions{}, src)
	require.NoError(t, err)

	assert.Equal(t, "unarmed strike", res.WeaponName)
	assert.True(t, res.Hit)
	assert.True(t, res.Critical)
	require.NotNil(t, res.Damage)
	assert.Equal(t, []int{4, 4}, res.Damage.BaseRoll.Dice)
	assert.Equal(t, "bludgeoning", res.Damage.DamageType)
	assert.Equal(t, 11, res.Damage.RawTotal, "8 from dice + 3 STR, the modifier never doubles")
}

// TestResolveAttack_Natural1_BeatsAutoCrit: the natural 1 rule outranks a
// forced critical.
func TestResolveAttack_Natural1_BeatsAutoCrit(t *testing.T) {
	src := &seqSrc{vals: []int{0}}

	res, err := combat.ResolveAttack(newFighter(), newGhoul(), &longsword, combat.AttackOptions{AutoCrit: true}, src)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Natural)
	assert.False(t, res.Hit)
	assert.False(t, res.Critical)
	assert.Nil(t, res.Damage)
}

// TestResolveAttack_CriticalDamageBreakdown: a critical with a flat-modifier
// weapon and caller bonus dice doubles every die count while the flat parts
// (ability + notation modifier) stay single.
func TestResolveAttack_CriticalDamageBreakdown(t *testing.T) {
	greatsword := combat.Weapon{Name: "greatsword", DamageDice: "2d6+1", DamageType: "slashing"}
	src := &seqSrc{vals: []int{10, 2, 2, 2, 2, 1, 1}}

	res, err := combat.ResolveAttack(newFighter(), newGhoul(), &greatsword,
		combat.AttackOptions{AutoCrit: true, BonusDice: []string{"1d4"}}, src)
	require.NoError(t, err)

	assert.True(t, res.Critical)
	require.NotNil(t, res.Damage)
	assert.Equal(t, []int{3, 3, 3, 3}, res.Damage.BaseRoll.Dice)
	require.Len(t, res.Damage.BonusRolls, 1)
	assert.Equal(t, []int{2, 2}, res.Damage.BonusRolls[0].Dice)
	assert.Equal(t, 4, res.Damage.FlatModifier, "STR 3 + notation 1")
	assert.Equal(t, 20, res.Damage.RawTotal)
}

// TestResolveAttack_Advantage: the higher of two d20s is kept.
func TestResolveAttack_Advantage(t *testing.T) {
	attacker := newFighter()
	effect.Apply(attacker, &actor.ActiveEffect{Name: "Blessed", AdvantageOn: []string{"attack_roll"}})
	src := &seqSrc{vals: []int{2, 17, 5}}

	res, err := combat.ResolveAttack(attacker, newGhoul(), &longsword, combat.AttackOptions{}, src)
	require.NoError(t, err)
	assert.True(t, res.Advantage)
	assert.Equal(t, []int{3, 18}, res.Rolls)
	assert.Equal(t, 18, res.Natural)
	assert.True(t, res.Hit)
}

// TestResolveAttack_AdvantageCancellation: forced disadvantage against an
// advantage effect collapses to a single straight roll.
func TestResolveAttack_AdvantageCancellation(t *testing.T) {
	attacker := newFighter()
	effect.Apply(attacker, &actor.ActiveEffect{Name: "Blessed", AdvantageOn: []string{"attack_roll"}})
	src := &seqSrc{vals: []int{11, 5}}

	res, err := combat.ResolveAttack(attacker, newGhoul(), &longsword,
		combat.AttackOptions{ForceDisadvantage: true}, src)
	require.NoError(t, err)
	assert.False(t, res.Advantage)
	assert.False(t, res.Disadvantage)
	assert.Equal(t, []int{12}, res.Rolls)
}

// TestResolveAttack_AbilitySelection pins the acting ability per weapon kind.
func TestResolveAttack_AbilitySelection(t *testing.T) {
	attacker := newFighter()
	attacker.Abilities.Dexterity = 18
	attacker.SpellcastingAbility = "intelligence"

	cases := []struct {
		name   string
		weapon combat.Weapon
		want   string
	}{
		{"finesse picks the better of STR and DEX",
			combat.Weapon{Name: "rapier", DamageDice: "1d8", Finesse: true}, "dexterity"},
		{"ranged uses DEX",
			combat.Weapon{Name: "shortbow", DamageDice: "1d6", Ranged: true}, "dexterity"},
		{"spell attack uses the spellcasting ability",
			combat.Weapon{Name: "fire bolt", DamageDice: "1d10", SpellAttack: true}, "intelligence"},
		{"melee defaults to STR",
			combat.Weapon{Name: "mace", DamageDice: "1d6"}, "strength"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := &seqSrc{vals: []int{9, 3}}
			res, err := combat.ResolveAttack(attacker, newGhoul(), &tc.weapon, combat.AttackOptions{}, src)
			require.NoError(t, err)
			assert.Equal(t, tc.want, res.Ability)
		})
	}
}

// TestResolveAttack_EffectBonuses: flat attack_roll and damage_roll effect
// bonuses feed the modifier and the flat damage part.
func TestResolveAttack_EffectBonuses(t *testing.T) {
	attacker := newFighter()
	effect.Apply(attacker, &actor.ActiveEffect{Name: "Guided Strikes", Modifiers: []actor.Modifier{
		{Stat: "attack_roll", Op: actor.OpAdd, Value: 2},
		{Stat: "damage_roll", Op: actor.OpAdd, Value: 1},
	}})
	src := &seqSrc{vals: []int{11, 5}}

	res, err := combat.ResolveAttack(attacker, newGhoul(), &longsword, combat.AttackOptions{}, src)
	require.NoError(t, err)
	assert.Equal(t, 7, res.AttackModifier, "STR 3 + prof 2 + effect 2")
	require.NotNil(t, res.Damage)
	assert.Equal(t, 4, res.Damage.FlatModifier, "STR 3 + effect 1")
}

// TestResolveAttack_EffectBonusDice: dice-op damage_roll modifiers roll as
// bonus dice automatically.
func TestResolveAttack_EffectBonusDice(t *testing.T) {
	attacker := newFighter()
	effect.Apply(attacker, &actor.ActiveEffect{Name: "Divine Favor", Modifiers: []actor.Modifier{
		{Stat: "damage_roll", Op: actor.OpDice, Dice: "1d4"},
	}})
	src := &seqSrc{vals: []int{11, 5, 3}}

	res, err := combat.ResolveAttack(attacker, newGhoul(), &longsword, combat.AttackOptions{}, src)
	require.NoError(t, err)
	require.NotNil(t, res.Damage)
	require.Len(t, res.Damage.BonusRolls, 1)
	assert.Equal(t, []int{4}, res.Damage.BonusRolls[0].Dice)
	assert.Equal(t, 13, res.Damage.RawTotal, "6 base + 4 bonus + 3 STR")
}

// TestResolveAttack_AttackRollBonusDice: dice-op attack_roll modifiers roll
// per attack and move the total, not the flat modifier.
func TestResolveAttack_AttackRollBonusDice(t *testing.T) {
	attacker := newFighter()
	effect.Apply(attacker, &actor.ActiveEffect{Name: "Blessed", Modifiers: []actor.Modifier{
		{Stat: "attack_roll", Op: actor.OpDice, Dice: "1d4"},
	}})

	src := &seqSrc{vals: []int{11, 2, 5}} // d20 12, then 1d4 -> 3, then damage
	res, err := combat.ResolveAttack(attacker, newGhoul(), &longsword, combat.AttackOptions{}, src)
	require.NoError(t, err)

	require.Len(t, res.BonusRolls, 1)
	assert.Equal(t, []int{3}, res.BonusRolls[0].Dice)
	assert.Equal(t, 5, res.AttackModifier, "the flat modifier never absorbs the dice")
	assert.Equal(t, 20, res.AttackTotal, "12 + 5 + 3")
	assert.True(t, res.Hit)

	// The same seed without the effect lands 3 lower.
	src = &seqSrc{vals: []int{11, 2, 5}}
	plain, err := combat.ResolveAttack(newFighter(), newGhoul(), &longsword, combat.AttackOptions{}, src)
	require.NoError(t, err)
	assert.Equal(t, 17, plain.AttackTotal)
	assert.Empty(t, plain.BonusRolls)
}

// TestResolveAttack_MalformedAttackDiceSkipped: garbage in an attack_roll dice
// modifier contributes nothing rather than failing the attack.
func TestResolveAttack_MalformedAttackDiceSkipped(t *testing.T) {
	attacker := newFighter()
	effect.Apply(attacker, &actor.ActiveEffect{Name: "Garbled", Modifiers: []actor.Modifier{
		{Stat: "attack_roll", Op: actor.OpDice, Dice: "2x6"},
	}})

	src := &seqSrc{vals: []int{11, 5}}
	res, err := combat.ResolveAttack(attacker, newGhoul(), &longsword, combat.AttackOptions{}, src)
	require.NoError(t, err)
	assert.Empty(t, res.BonusRolls)
	assert.Equal(t, 17, res.AttackTotal)
}

// TestResolveAttack_Mitigation covers resistance, vulnerability, their
// cancellation, and immunity on the final damage.
func TestResolveAttack_Mitigation(t *testing.T) {
	hit := func(t *testing.T, target *actor.Character) combat.AttackResult {
		t.Helper()
		src := &seqSrc{vals: []int{11, 7}} // d8 rolls 8, raw 11
		res, err := combat.ResolveAttack(newFighter(), target, &longsword, combat.AttackOptions{}, src)
		require.NoError(t, err)
		require.NotNil(t, res.Damage)
		assert.Equal(t, 11, res.Damage.RawTotal)
		return res
	}

	t.Run("resistance halves with floor", func(t *testing.T) {
		target := newGhoul()
		effect.Apply(target, &actor.ActiveEffect{Name: "Stoneskin", Modifiers: []actor.Modifier{
			{Stat: "resistance_slashing", Op: actor.OpAdd, Value: 1},
		}})
		res := hit(t, target)
		assert.Equal(t, 5, res.Damage.FinalDamage)
		assert.True(t, res.Damage.Mitigation.Resisted)
	})

	t.Run("vulnerability doubles", func(t *testing.T) {
		target := newGhoul()
		effect.Apply(target, &actor.ActiveEffect{Name: "Brittle", Modifiers: []actor.Modifier{
			{Stat: "vulnerability_slashing", Op: actor.OpAdd, Value: 1},
		}})
		res := hit(t, target)
		assert.Equal(t, 22, res.Damage.FinalDamage)
		assert.True(t, res.Damage.Mitigation.Vulnerable)
	})

	t.Run("resistance and vulnerability cancel", func(t *testing.T) {
		target := newGhoul()
		effect.Apply(target, &actor.ActiveEffect{Name: "Conflicted", Modifiers: []actor.Modifier{
			{Stat: "resistance_slashing", Op: actor.OpAdd, Value: 1},
			{Stat: "vulnerability_slashing", Op: actor.OpAdd, Value: 1},
		}})
		res := hit(t, target)
		assert.Equal(t, 11, res.Damage.FinalDamage)
		assert.Equal(t, combat.Mitigation{}, res.Damage.Mitigation)
	})

	t.Run("immunity zeroes but the hit stands", func(t *testing.T) {
		target := newGhoul()
		effect.Apply(target, &actor.ActiveEffect{Name: "Iron Hide", Immunities: []string{"slashing"}})
		res := hit(t, target)
		assert.True(t, res.Hit)
		assert.Zero(t, res.Damage.FinalDamage)
		assert.True(t, res.Damage.Mitigation.Immune)
	})
}

// TestResolveAttack_ConcentrationAndDrop reports the follow-up flags without
// mutating the target.
func TestResolveAttack_ConcentrationAndDrop(t *testing.T) {
	target := newGhoul()
	target.CurrentHP = 10
	target.TempHP = 3
	target.Concentration = &actor.ConcentrationState{SpellName: "Bless"}
	greatsword := combat.Weapon{Name: "greatsword", DamageDice: "2d6", DamageType: "slashing"}

	src := &seqSrc{vals: []int{11, 5, 5}} // raw 6+6+3 = 15
	res, err := combat.ResolveAttack(newFighter(), target, &greatsword, combat.AttackOptions{}, src)
	require.NoError(t, err)

	require.NotNil(t, res.Damage)
	assert.Equal(t, 15, res.Damage.FinalDamage)
	assert.Equal(t, 10, res.ConcentrationDC, "half of 15 floors below the minimum DC of 10")
	assert.True(t, res.TargetWouldDrop, "15 damage minus 3 temp HP exceeds 10 HP")
	assert.Equal(t, 10, target.CurrentHP, "resolution never mutates the target")
	assert.NotNil(t, target.Concentration)
}

// TestResolveAttack_ZeroDamageNeverDrops: a hit reduced to 0 damage raises
// neither follow-up flag, even against a target already at the brink.
func TestResolveAttack_ZeroDamageNeverDrops(t *testing.T) {
	target := newGhoul()
	target.CurrentHP = 1
	target.Concentration = &actor.ConcentrationState{SpellName: "Bless"}
	effect.Apply(target, &actor.ActiveEffect{Name: "Iron Hide", Immunities: []string{"slashing"}})

	src := &seqSrc{vals: []int{11, 7}}
	res, err := combat.ResolveAttack(newFighter(), target, &longsword, combat.AttackOptions{}, src)
	require.NoError(t, err)

	assert.True(t, res.Hit)
	require.NotNil(t, res.Damage)
	assert.Zero(t, res.Damage.FinalDamage)
	assert.False(t, res.TargetWouldDrop)
	assert.Zero(t, res.ConcentrationDC)
}

// TestResolveAttack_DamageFloor: heavy penalties never push damage negative.
func TestResolveAttack_DamageFloor(t *testing.T) {
	weakling := &actor.Character{
		Name:      "Wisp",
		Abilities: actor.AbilityScores{Strength: 3}, // -4
	}
	dagger := combat.Weapon{Name: "dagger", DamageDice: "1d4", DamageType: "piercing"}

	src := &seqSrc{vals: []int{10, 0, 0}} // two dice on the crit, both 1, flat -4
	res, err := combat.ResolveAttack(weakling, newGhoul(), &dagger, combat.AttackOptions{AutoCrit: true}, src)
	require.NoError(t, err)
	require.NotNil(t, res.Damage)
	assert.Zero(t, res.Damage.RawTotal)
	assert.Zero(t, res.Damage.FinalDamage)
}

// TestResolveAttack_BadDice surfaces malformed notation as errors.
func TestResolveAttack_BadDice(t *testing.T) {
	bad := combat.Weapon{Name: "cursed blade", DamageDice: "2x6", DamageType: "slashing"}
	src := &seqSrc{vals: []int{19}}

	_, err := combat.ResolveAttack(newFighter(), newGhoul(), &bad, combat.AttackOptions{}, src)
	assert.Error(t, err)

	src = &seqSrc{vals: []int{19}}
	_, err = combat.ResolveAttack(newFighter(), newGhoul(), &longsword,
		combat.AttackOptions{BonusDice: []string{"oops"}}, src)
	assert.Error(t, err)
}

// TestResolver_Delegates: the logged resolver returns the same records as the
// package functions.
func TestResolver_Delegates(t *testing.T) {
	r := combat.NewResolver(&seqSrc{vals: []int{11, 5}}, zap.NewNop())

	res, err := r.ResolveAttack(newFighter(), newGhoul(), &longsword, combat.AttackOptions{})
	require.NoError(t, err)
	assert.True(t, res.Hit)
	assert.Equal(t, 9, res.Damage.FinalDamage)

	r = combat.NewResolver(&seqSrc{vals: []int{5, 5, 5, 12}}, zap.NewNop())
	caster := newFighter()
	caster.Abilities.Intelligence = 16
	caster.SpellcastingAbility = "intelligence"
	spellRes, err := r.ResolveSaveSpell(caster, []*actor.Character{newGhoul()},
		combat.SaveSpell{Name: "burning hands", SaveAbility: "dexterity", DamageDice: "3d6", DamageType: "fire", HalfOnSave: true})
	require.NoError(t, err)
	require.Len(t, spellRes.Targets, 1)
}
