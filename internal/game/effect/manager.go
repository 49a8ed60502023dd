package effect

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/greyvale/encounter/internal/game/actor"
	"github.com/greyvale/encounter/internal/scripting"
)

// Manager applies registry-defined effects to characters and runs their Lua
// lifecycle hooks. The pure package-level functions stay hook-free; callers
// that want scripted effects go through a Manager.
type Manager struct {
	registry *Registry
	runner   *scripting.Runner
	logger   *zap.Logger
}

// NewManager creates a Manager. runner may be nil, which disables hooks.
//
// Precondition: registry and logger must be non-nil.
func NewManager(registry *Registry, runner *scripting.Runner, logger *zap.Logger) *Manager {
	return &Manager{registry: registry, runner: runner, logger: logger}
}

// ApplyByID instantiates the registered definition and applies it to ch,
// running the definition's on-apply hook when the effect is newly created.
// Non-stackable duplicates return the existing instance without re-running
// the hook.
func (m *Manager) ApplyByID(ch *actor.Character, defID string) (*actor.ActiveEffect, error) {
	def, ok := m.registry.Get(defID)
	if !ok {
		return nil, fmt.Errorf("effect: unknown definition %q", defID)
	}
	eff, created := Apply(ch, def.Instance())
	if !created {
		m.logger.Debug("effect already present",
			zap.String("character", ch.Name),
			zap.String("effect", eff.Name),
			zap.String("id", eff.ID),
		)
		return eff, nil
	}
	m.logger.Debug("effect applied",
		zap.String("character", ch.Name),
		zap.String("effect", eff.Name),
		zap.String("id", eff.ID),
	)
	if err := m.runHook(ch, def.LuaOnApply); err != nil {
		return eff, err
	}
	return eff, nil
}

// RemoveByID removes the effect instance with the given id, running the
// defining entry's on-remove hook when one exists for the effect's name.
func (m *Manager) RemoveByID(ch *actor.Character, id string) (bool, error) {
	eff := Find(ch, id)
	if eff == nil {
		return false, nil
	}
	def := m.definitionForName(eff.Name)
	Remove(ch, id)
	if def != nil {
		if err := m.runHook(ch, def.LuaOnRemove); err != nil {
			return true, err
		}
	}
	return true, nil
}

// TickCharacter ticks ch's effects for event, running on-expire hooks for
// every effect that lapsed.
func (m *Manager) TickCharacter(ch *actor.Character, event Event) ([]*actor.ActiveEffect, error) {
	expired := Tick(ch, event)
	for _, eff := range expired {
		m.logger.Debug("effect expired",
			zap.String("character", ch.Name),
			zap.String("effect", eff.Name),
			zap.String("id", eff.ID),
		)
		if def := m.definitionForName(eff.Name); def != nil {
			if err := m.runHook(ch, def.LuaOnExpire); err != nil {
				return expired, err
			}
		}
	}
	return expired, nil
}

func (m *Manager) definitionForName(name string) *Definition {
	for _, def := range m.registry.All() {
		if def.Name == name {
			return def
		}
	}
	return nil
}

func (m *Manager) runHook(ch *actor.Character, source string) error {
	if m.runner == nil || source == "" {
		return nil
	}
	return m.runner.Run(source, scripting.Bindings{
		CharacterName: ch.Name,
		Stat:          func(name string) int { return EffectiveStat(ch, name) },
		HasCondition:  ch.HasCondition,
		AddCondition:  func(tag string) { ch.Conditions = append(ch.Conditions, tag) },
	})
}
