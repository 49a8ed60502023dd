package dice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/greyvale/encounter/internal/game/dice"
)

// TestRoller_RollExpr verifies the logged roller produces the same results as
// the package-level functions.
func TestRoller_RollExpr(t *testing.T) {
	r := dice.NewRoller(&seqSrc{vals: []int{3, 4}}, zap.NewNop())

	result, err := r.RollExpr("2d6+1")
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5}, result.Dice)
	assert.Equal(t, 10, result.Total())

	_, err = r.RollExpr("2x6")
	assert.Error(t, err)
}

// TestRoller_Source exposes the underlying source for callers that roll d20s
// directly.
func TestRoller_Source(t *testing.T) {
	src := dice.NewSeededSource(3)
	r := dice.NewRoller(src, zap.NewNop())
	assert.Equal(t, src, r.Source())
}
