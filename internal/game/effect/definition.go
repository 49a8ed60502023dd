package effect

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/greyvale/encounter/internal/game/actor"
)

// ModifierDef is the YAML shape of one stat modifier.
type ModifierDef struct {
	Stat  string `yaml:"stat"`
	Op    string `yaml:"op"` // "add" | "set" | "dice"
	Value int    `yaml:"value"`
	Dice  string `yaml:"dice"`
}

// Definition is the static definition of an effect, loaded from YAML. It is a
// template; Instance stamps out a fresh ActiveEffect per application.
type Definition struct {
	ID             string        `yaml:"id"`
	Name           string        `yaml:"name"`
	Description    string        `yaml:"description"`
	Source         string        `yaml:"source"`
	Duration       string        `yaml:"duration"` // "rounds" | "minutes" | "concentration" | "permanent"
	Remaining      int           `yaml:"remaining"`
	Modifiers      []ModifierDef `yaml:"modifiers"`
	AdvantageOn    []string      `yaml:"advantage_on"`
	DisadvantageOn []string      `yaml:"disadvantage_on"`
	Immunities     []string      `yaml:"immunities"`
	Stackable      bool          `yaml:"stackable"`
	LuaOnApply     string        `yaml:"lua_on_apply"`
	LuaOnRemove    string        `yaml:"lua_on_remove"`
	LuaOnExpire    string        `yaml:"lua_on_expire"`
}

// Validate checks the definition's invariants.
func (d *Definition) Validate() error {
	var errs []string
	if d.ID == "" {
		errs = append(errs, "id must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "name must not be empty")
	}
	switch actor.Duration(d.Duration) {
	case actor.DurationRounds, actor.DurationMinutes:
		if d.Remaining <= 0 {
			errs = append(errs, fmt.Sprintf("duration %q requires remaining > 0", d.Duration))
		}
	case actor.DurationConcentration, actor.DurationPermanent:
	default:
		errs = append(errs, fmt.Sprintf("unknown duration %q", d.Duration))
	}
	for i, m := range d.Modifiers {
		switch actor.ModifierOp(m.Op) {
		case actor.OpAdd, actor.OpSet:
		case actor.OpDice:
			if m.Dice == "" {
				errs = append(errs, fmt.Sprintf("modifiers[%d]: dice op requires a dice expression", i))
			}
		default:
			errs = append(errs, fmt.Sprintf("modifiers[%d]: unknown op %q", i, m.Op))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("effect definition %q invalid: %s", d.ID, strings.Join(errs, "; "))
	}
	return nil
}

// Instance builds a fresh ActiveEffect from the definition. The instance has
// no ID yet; Apply assigns one.
func (d *Definition) Instance() *actor.ActiveEffect {
	mods := make([]actor.Modifier, len(d.Modifiers))
	for i, m := range d.Modifiers {
		mods[i] = actor.Modifier{
			Stat:  m.Stat,
			Op:    actor.ModifierOp(m.Op),
			Value: m.Value,
			Dice:  m.Dice,
		}
	}
	return &actor.ActiveEffect{
		Name:           d.Name,
		Source:         d.Source,
		Modifiers:      mods,
		Duration:       actor.Duration(d.Duration),
		Remaining:      d.Remaining,
		AdvantageOn:    append([]string(nil), d.AdvantageOn...),
		DisadvantageOn: append([]string(nil), d.DisadvantageOn...),
		Immunities:     append([]string(nil), d.Immunities...),
		Stackable:      d.Stackable,
	}
}

// Registry holds all known effect Definitions keyed by ID.
type Registry struct {
	defs map[string]*Definition
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
//
// Precondition: def must not be nil and def.ID must not be empty.
func (r *Registry) Register(def *Definition) {
	r.defs[def.ID] = def
}

// Get returns the Definition for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Definition, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// All returns a snapshot slice of all registered Definitions.
func (r *Registry) All() []*Definition {
	out := make([]*Definition, 0, len(r.defs))
	for _, d := range r.defs {
		out = append(out, d)
	}
	return out
}

// LoadDirectory reads every *.yaml file in dir, parses and validates each as a
// Definition, and returns a populated Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: returns a non-nil Registry, or an error if any file fails to
// parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading effect dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Definition
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
