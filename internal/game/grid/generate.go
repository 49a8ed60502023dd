package grid

import (
	"fmt"

	"github.com/greyvale/encounter/internal/game/dice"
)

// RoomConfig controls procedural room generation.
type RoomConfig struct {
	// ScatterRatio is the fraction of interior cells that receive scattered
	// features, in [0, 1].
	ScatterRatio float64
	// ClearFraction is the fraction of each axis protected as a clear
	// rectangle at the room's center. 0 uses DefaultClearFraction.
	ClearFraction float64
}

// DefaultClearFraction keeps roughly the middle 40% of each axis free of
// scattered features so combat always has an open heart.
const DefaultClearFraction = 0.4

// scatterTable is the weighted feature distribution for room interiors.
var scatterTable = []struct {
	terrain Terrain
	weight  int
}{
	{TerrainWall, 3},
	{TerrainDifficult, 3},
	{TerrainObstacle, 2},
	{TerrainWater, 2},
}

// GenerateRoom builds a w×h room: perimeter walls, one door placed randomly on
// a random edge, a protected clear rectangle at the center, and a
// weighted-random scatter of wall/difficult/obstacle/water cells across the
// remaining interior up to cfg.ScatterRatio of the interior.
//
// Precondition: w and h must be at least 3 so an interior exists; src must be
// non-nil.
func GenerateRoom(w, h int, cfg RoomConfig, src dice.Source) (*Grid, error) {
	if w < 3 || h < 3 {
		return nil, fmt.Errorf("grid: room must be at least 3x3, got %dx%d", w, h)
	}
	if cfg.ScatterRatio < 0 || cfg.ScatterRatio > 1 {
		return nil, fmt.Errorf("grid: scatter ratio must be in [0, 1], got %g", cfg.ScatterRatio)
	}
	clear := cfg.ClearFraction
	if clear <= 0 {
		clear = DefaultClearFraction
	}

	g, err := New(w, h)
	if err != nil {
		return nil, err
	}

	for x := 0; x < w; x++ {
		g.cells[x].Terrain = TerrainWall
		g.cells[(h-1)*w+x].Terrain = TerrainWall
	}
	for y := 0; y < h; y++ {
		g.cells[y*w].Terrain = TerrainWall
		g.cells[y*w+w-1].Terrain = TerrainWall
	}

	placeDoor(g, src)

	// Protected clear rectangle: the middle clear-fraction of each axis.
	clearW := int(float64(w) * clear)
	clearH := int(float64(h) * clear)
	if clearW < 1 {
		clearW = 1
	}
	if clearH < 1 {
		clearH = 1
	}
	cx0 := (w - clearW) / 2
	cy0 := (h - clearH) / 2

	protected := func(x, y int) bool {
		return x >= cx0 && x < cx0+clearW && y >= cy0 && y < cy0+clearH
	}

	interior := (w - 2) * (h - 2)
	budget := int(float64(interior) * cfg.ScatterRatio)

	// Each attempt draws a random interior cell; occupied or protected draws
	// are spent, not retried, so generation always terminates.
	for i := 0; i < budget; i++ {
		x := 1 + src.Intn(w-2)
		y := 1 + src.Intn(h-2)
		if protected(x, y) {
			continue
		}
		cell := &g.cells[y*w+x]
		if cell.Terrain != TerrainOpen {
			continue
		}
		cell.Terrain = weightedTerrain(src)
	}

	return g, nil
}

// placeDoor converts one random non-corner perimeter cell on a random edge
// into a door.
func placeDoor(g *Grid, src dice.Source) {
	w, h := g.width, g.height
	switch src.Intn(4) {
	case 0: // top
		x := 1 + src.Intn(w-2)
		g.cells[x].Terrain = TerrainDoor
	case 1: // bottom
		x := 1 + src.Intn(w-2)
		g.cells[(h-1)*w+x].Terrain = TerrainDoor
	case 2: // left
		y := 1 + src.Intn(h-2)
		g.cells[y*w].Terrain = TerrainDoor
	default: // right
		y := 1 + src.Intn(h-2)
		g.cells[y*w+w-1].Terrain = TerrainDoor
	}
}

// weightedTerrain draws one terrain from the scatter table proportionally to
// its weight.
func weightedTerrain(src dice.Source) Terrain {
	total := 0
	for _, e := range scatterTable {
		total += e.weight
	}
	roll := src.Intn(total)
	for _, e := range scatterTable {
		roll -= e.weight
		if roll < 0 {
			return e.terrain
		}
	}
	return scatterTable[len(scatterTable)-1].terrain
}
