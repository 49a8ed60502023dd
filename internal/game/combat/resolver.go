package combat

import (
	"go.uber.org/zap"

	"github.com/greyvale/encounter/internal/game/actor"
	"github.com/greyvale/encounter/internal/game/dice"
)

// Resolver bundles a randomness source with a logger so every resolved action
// leaves a structured audit record.
type Resolver struct {
	src    dice.Source
	logger *zap.Logger
}

// NewResolver creates a Resolver.
//
// Precondition: src and logger must be non-nil.
func NewResolver(src dice.Source, logger *zap.Logger) *Resolver {
	return &Resolver{src: src, logger: logger}
}

// ResolveAttack resolves one attack and logs the outcome at debug level.
func (r *Resolver) ResolveAttack(attacker, target *actor.Character, weapon *Weapon, opts AttackOptions) (AttackResult, error) {
	result, err := ResolveAttack(attacker, target, weapon, opts, r.src)
	if err != nil {
		return AttackResult{}, err
	}

	fields := []zap.Field{
		zap.String("attacker", result.AttackerName),
		zap.String("target", result.TargetName),
		zap.String("weapon", result.WeaponName),
		zap.Ints("rolls", result.Rolls),
		zap.Int("total", result.AttackTotal),
		zap.Int("target_ac", result.TargetAC),
		zap.Bool("hit", result.Hit),
		zap.Bool("critical", result.Critical),
	}
	if result.Damage != nil {
		fields = append(fields,
			zap.Int("raw_damage", result.Damage.RawTotal),
			zap.Int("final_damage", result.Damage.FinalDamage),
			zap.String("damage_type", result.Damage.DamageType),
		)
	}
	r.logger.Debug("attack resolved", fields...)
	return result, nil
}

// ResolveSaveSpell resolves one saving-throw spell and logs each target's
// save at debug level.
func (r *Resolver) ResolveSaveSpell(caster *actor.Character, targets []*actor.Character, spell SaveSpell) (SaveSpellResult, error) {
	result, err := ResolveSaveSpell(caster, targets, spell, r.src)
	if err != nil {
		return SaveSpellResult{}, err
	}

	for _, tr := range result.Targets {
		r.logger.Debug("saving throw resolved",
			zap.String("caster", result.CasterName),
			zap.String("spell", result.SpellName),
			zap.String("target", tr.TargetName),
			zap.String("ability", result.SaveAbility),
			zap.Int("dc", result.DC),
			zap.Int("total", tr.Total),
			zap.Bool("success", tr.Success),
			zap.Int("damage", tr.Damage),
		)
	}
	return result, nil
}
