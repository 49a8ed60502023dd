// Command encounter is a development harness for the combat engine: it loads
// configuration and the effect library, generates a tactical room, places a
// small skirmish, and resolves a sample attack and saving-throw spell with the
// full audit trail logged.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/greyvale/encounter/internal/config"
	"github.com/greyvale/encounter/internal/game/actor"
	"github.com/greyvale/encounter/internal/game/combat"
	"github.com/greyvale/encounter/internal/game/concentration"
	"github.com/greyvale/encounter/internal/game/dice"
	"github.com/greyvale/encounter/internal/game/effect"
	"github.com/greyvale/encounter/internal/game/geometry"
	"github.com/greyvale/encounter/internal/game/grid"
	"github.com/greyvale/encounter/internal/observability"
	"github.com/greyvale/encounter/internal/scripting"
)

func main() {
	configPath := flag.String("config", "", "path to YAML configuration (omit for defaults)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "encounter: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	var src dice.Source
	if cfg.Dice.Deterministic {
		src = dice.NewSeededSource(cfg.Dice.Seed)
		logger.Info("using seeded dice", zap.Int64("seed", cfg.Dice.Seed))
	} else {
		src = dice.NewCryptoSource()
	}
	roller := dice.NewRoller(src, logger)

	var runner *scripting.Runner
	if cfg.Scripting.Enabled {
		runner = scripting.NewRunner(roller, logger, cfg.Scripting.InstructionLimit)
	}

	registry := effect.NewRegistry()
	if cfg.EffectsDir != "" {
		if registry, err = effect.LoadDirectory(cfg.EffectsDir); err != nil {
			return err
		}
		logger.Info("effect library loaded", zap.Int("definitions", len(registry.All())))
	}
	effects := effect.NewManager(registry, runner, logger)

	room, err := grid.GenerateRoom(cfg.Room.Width, cfg.Room.Height, grid.RoomConfig{ScatterRatio: cfg.Room.ScatterRatio}, src)
	if err != nil {
		return err
	}

	hero := &actor.Character{
		Name:      "Aveline",
		Abilities: actor.AbilityScores{Strength: 16, Dexterity: 12, Constitution: 14, Intelligence: 10, Wisdom: 13, Charisma: 8},
		MaxHP:     24, CurrentHP: 24,
		ArmorClass: 16, Speed: 30, ProficiencyBonus: 2,
		SaveProficiencies: map[string]bool{"strength": true, "constitution": true},
		Position:          &geometry.Position{X: 3, Y: 4},
	}
	mage := &actor.Character{
		Name:      "Sorrel",
		Abilities: actor.AbilityScores{Strength: 8, Dexterity: 14, Constitution: 12, Intelligence: 16, Wisdom: 11, Charisma: 13},
		MaxHP:     16, CurrentHP: 16,
		ArmorClass: 12, Speed: 30, ProficiencyBonus: 2,
		SpellcastingAbility: "intelligence",
		SaveProficiencies:   map[string]bool{"intelligence": true, "wisdom": true},
		Position:            &geometry.Position{X: 2, Y: 5},
	}
	ghoul := &actor.Character{
		Name:      "Ghoul",
		Abilities: actor.AbilityScores{Strength: 13, Dexterity: 15, Constitution: 10, Intelligence: 7, Wisdom: 10, Charisma: 6},
		MaxHP:     22, CurrentHP: 22,
		ArmorClass: 12, Speed: 30, ProficiencyBonus: 2,
		Position: &geometry.Position{X: 6, Y: 4},
	}

	participants := []*actor.Participant{
		{Character: hero, Side: actor.SidePlayer},
		{Character: mage, Side: actor.SidePlayer},
		{Character: ghoul, Side: actor.SideEnemy},
	}
	for _, p := range participants {
		if err := room.PlaceOccupant(p.Character.Position.X, p.Character.Position.Y, p.Character.Name); err != nil {
			logger.Warn("could not place participant", zap.String("name", p.Character.Name), zap.Error(err))
		}
	}

	if _, err := effects.ApplyByID(hero, "blessed"); err != nil {
		logger.Warn("apply effect", zap.Error(err))
	}
	concentration.Start(mage, "Bless", nil, 1)

	burst := geometry.Sphere{Center: *ghoul.Position, RadiusFeet: 10}
	fmt.Println(grid.Render(room, participants, burst))

	resolver := combat.NewResolver(src, logger)

	longsword := &combat.Weapon{Name: "longsword", DamageDice: "1d8", DamageType: "slashing"}
	attack, err := resolver.ResolveAttack(hero, ghoul, longsword, combat.AttackOptions{})
	if err != nil {
		return err
	}
	fmt.Printf("%s attacks %s: rolls %v, total %d vs AC %d, hit=%v crit=%v\n",
		attack.AttackerName, attack.TargetName, attack.Rolls, attack.AttackTotal, attack.TargetAC, attack.Hit, attack.Critical)
	if attack.Damage != nil {
		ghoul.CurrentHP -= attack.Damage.FinalDamage
		fmt.Printf("  %d %s damage (%d raw)\n", attack.Damage.FinalDamage, attack.Damage.DamageType, attack.Damage.RawTotal)
	}

	burningHands := combat.SaveSpell{
		Name: "burning hands", SaveAbility: "dexterity",
		DamageDice: "3d6", DamageType: "fire", HalfOnSave: true,
	}
	save, err := resolver.ResolveSaveSpell(mage, []*actor.Character{ghoul}, burningHands)
	if err != nil {
		return err
	}
	for _, tr := range save.Targets {
		fmt.Printf("%s saves vs %s (DC %d): total %d, success=%v, damage %d\n",
			tr.TargetName, save.SpellName, save.DC, tr.Total, tr.Success, tr.Damage)
		ghoul.CurrentHP -= tr.Damage
	}

	// A hit on the concentrating mage would call for a save; show one.
	check := concentration.Check(mage, 14, src)
	fmt.Printf("%s concentration save vs DC %d: total %d, held=%v\n",
		mage.Name, check.DC, check.Total, check.Success)

	logger.Info("demo complete", zap.Int("ghoul_hp", ghoul.CurrentHP))
	return nil
}
