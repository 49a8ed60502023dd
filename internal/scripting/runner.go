package scripting

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/greyvale/encounter/internal/game/dice"
)

// Bindings exposes the affected character to a hook script. Nil fields
// degrade to zero-value results rather than errors so partial bindings stay
// usable from tests.
type Bindings struct {
	// CharacterName is the display name of the affected character.
	CharacterName string
	// Stat returns the character's effective value for a named stat.
	Stat func(name string) int
	// HasCondition reports whether the character carries a condition tag.
	HasCondition func(tag string) bool
	// AddCondition appends a condition tag to the character.
	AddCondition func(tag string)
}

// Runner executes effect hook snippets inside a fresh sandboxed VM per call.
// A fresh state per execution keeps hooks free of cross-effect global leakage
// at the cost of a small allocation; hook bodies are a handful of lines.
type Runner struct {
	roller    *dice.Roller
	logger    *zap.Logger
	instLimit int
}

// NewRunner creates a Runner.
//
// Precondition: roller and logger must be non-nil. instLimit <= 0 uses
// DefaultInstructionLimit.
func NewRunner(roller *dice.Roller, logger *zap.Logger, instLimit int) *Runner {
	return &Runner{roller: roller, logger: logger, instLimit: instLimit}
}

// Run executes the hook source with the given bindings registered under the
// global "engine" table:
//
//	engine.roll(expr)          -> total of a dice expression
//	engine.stat(name)          -> effective stat value
//	engine.has_condition(tag)  -> boolean
//	engine.add_condition(tag)
//	engine.log(msg)
//	engine.character            -- the affected character's name
//
// Postcondition: returns an error on Lua load/runtime failure or when the
// instruction limit is exceeded; the VM is always closed.
func (r *Runner) Run(source string, b Bindings) error {
	if source == "" {
		return nil
	}

	L := newSandboxedState(r.instLimit)
	defer L.Close()

	engine := L.NewTable()
	L.SetField(engine, "character", lua.LString(b.CharacterName))
	L.SetField(engine, "roll", L.NewFunction(func(L *lua.LState) int {
		expr := L.CheckString(1)
		result, err := r.roller.RollExpr(expr)
		if err != nil {
			L.RaiseError("engine.roll: %s", err.Error())
			return 0
		}
		L.Push(lua.LNumber(result.Total()))
		return 1
	}))
	L.SetField(engine, "stat", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		v := 0
		if b.Stat != nil {
			v = b.Stat(name)
		}
		L.Push(lua.LNumber(v))
		return 1
	}))
	L.SetField(engine, "has_condition", L.NewFunction(func(L *lua.LState) int {
		tag := L.CheckString(1)
		has := false
		if b.HasCondition != nil {
			has = b.HasCondition(tag)
		}
		L.Push(lua.LBool(has))
		return 1
	}))
	L.SetField(engine, "add_condition", L.NewFunction(func(L *lua.LState) int {
		tag := L.CheckString(1)
		if b.AddCondition != nil {
			b.AddCondition(tag)
		}
		return 0
	}))
	L.SetField(engine, "log", L.NewFunction(func(L *lua.LState) int {
		msg := L.CheckString(1)
		r.logger.Info("effect hook", zap.String("character", b.CharacterName), zap.String("message", msg))
		return 0
	}))
	L.SetGlobal("engine", engine)

	if err := L.DoString(source); err != nil {
		return fmt.Errorf("scripting: hook failed: %w", err)
	}
	return nil
}
