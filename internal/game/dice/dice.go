// Package dice provides the randomness abstraction and roll-result types for
// the encounter engine. All randomness in the engine flows through a Source so
// that tests can substitute fixed sequences and "roll twice, keep higher/lower"
// semantics stay independently verifiable.
package dice

import "fmt"

// RollResult holds the full audit trail for a single dice roll evaluation.
//
// Postcondition: Total() == sum(Dice) + Modifier.
type RollResult struct {
	Expression string // original expression string, e.g. "2d6+3"
	Dice       []int  // individual die results before modifier
	Modifier   int    // flat modifier (may be negative)
}

// Total returns the sum of all die results plus the modifier.
func (r RollResult) Total() int {
	total := r.Modifier
	for _, d := range r.Dice {
		total += d
	}
	return total
}

// String returns a human-readable audit string in the format:
//
//	"2d6+3 → [4 5] +3 = 12"
//
// Precondition: r.Expression is non-empty.
func (r RollResult) String() string {
	if r.Expression == "" {
		panic("dice: RollResult.String() precondition violated: Expression must be non-empty")
	}
	return fmt.Sprintf("%s → %v %+d = %d", r.Expression, r.Dice, r.Modifier, r.Total())
}

// Source is the randomness provider for dice rolls.
//
// Implementations MUST be safe for concurrent use.
type Source interface {
	// Intn returns a non-negative random int in [0, n).
	//
	// Precondition: n > 0.
	Intn(n int) int
}

// D20 rolls a single twenty-sided die.
//
// Postcondition: result is in [1, 20].
func D20(src Source) int {
	return src.Intn(20) + 1
}

// D20Advantage rolls two d20s and keeps the higher. Both rolls are returned
// for auditing.
func D20Advantage(src Source) (kept int, rolls [2]int) {
	rolls[0], rolls[1] = D20(src), D20(src)
	kept = rolls[0]
	if rolls[1] > kept {
		kept = rolls[1]
	}
	return kept, rolls
}

// D20Disadvantage rolls two d20s and keeps the lower. Both rolls are returned
// for auditing.
func D20Disadvantage(src Source) (kept int, rolls [2]int) {
	rolls[0], rolls[1] = D20(src), D20(src)
	kept = rolls[0]
	if rolls[1] < kept {
		kept = rolls[1]
	}
	return kept, rolls
}
