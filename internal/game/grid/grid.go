// Package grid implements the tactical battle grid: terrain, occupancy,
// movement validation with opportunity-attack detection, ASCII rendering, and
// procedural room generation.
package grid

import (
	"fmt"

	"github.com/greyvale/encounter/internal/game/geometry"
)

// Terrain classifies one grid cell.
type Terrain int

const (
	TerrainOpen Terrain = iota
	TerrainWall
	TerrainDoor
	TerrainDifficult
	TerrainObstacle
	TerrainWater
)

// Symbol returns the single-character map symbol for the terrain.
func (t Terrain) Symbol() string {
	switch t {
	case TerrainOpen:
		return "."
	case TerrainWall:
		return "#"
	case TerrainDoor:
		return "/"
	case TerrainDifficult:
		return "^"
	case TerrainObstacle:
		return "@"
	case TerrainWater:
		return "~"
	default:
		return "?"
	}
}

// String returns the terrain's display name.
func (t Terrain) String() string {
	switch t {
	case TerrainOpen:
		return "open"
	case TerrainWall:
		return "wall"
	case TerrainDoor:
		return "door"
	case TerrainDifficult:
		return "difficult"
	case TerrainObstacle:
		return "obstacle"
	case TerrainWater:
		return "water"
	default:
		return "unknown"
	}
}

// Cell is one square of the grid.
//
// Invariant: at most one occupant per cell.
type Cell struct {
	Terrain Terrain
	// Occupant is the identifier of the participant standing here, or "".
	Occupant string
}

// Grid is a fixed-size tactical grid stored as a flat row-major array.
// Dimensions are fixed at construction.
type Grid struct {
	width  int
	height int
	cells  []Cell
}

// New creates a Grid of all-open cells.
//
// Precondition: width and height must be positive.
func New(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("grid: dimensions must be positive, got %dx%d", width, height)
	}
	return &Grid{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
	}, nil
}

// Width returns the grid width in cells.
func (g *Grid) Width() int { return g.width }

// Height returns the grid height in cells.
func (g *Grid) Height() int { return g.height }

// InBounds reports whether (x, y) lies on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// At returns the cell at (x, y). Out-of-bounds access is a hard failure,
// never a silent clamp.
func (g *Grid) At(x, y int) (*Cell, error) {
	if !g.InBounds(x, y) {
		return nil, fmt.Errorf("grid: position (%d, %d) out of bounds for %dx%d grid", x, y, g.width, g.height)
	}
	return &g.cells[y*g.width+x], nil
}

// SetTerrain sets the terrain at (x, y).
func (g *Grid) SetTerrain(x, y int, t Terrain) error {
	c, err := g.At(x, y)
	if err != nil {
		return err
	}
	c.Terrain = t
	return nil
}

// IsPassable reports whether (x, y) can be moved through: false for
// out-of-bounds, wall, and obstacle terrain. Doors are passable.
func (g *Grid) IsPassable(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	t := g.cells[y*g.width+x].Terrain
	return t != TerrainWall && t != TerrainObstacle
}

// IsDifficult reports whether (x, y) costs extra movement: true for
// difficult terrain and water.
func (g *Grid) IsDifficult(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	t := g.cells[y*g.width+x].Terrain
	return t == TerrainDifficult || t == TerrainWater
}

// PlaceOccupant puts the identifier id at (x, y).
//
// Postcondition: the cell's occupant is id, or an error if the cell is out of
// bounds or already occupied by someone else (one occupant per cell).
func (g *Grid) PlaceOccupant(x, y int, id string) error {
	c, err := g.At(x, y)
	if err != nil {
		return err
	}
	if c.Occupant != "" && c.Occupant != id {
		return fmt.Errorf("grid: cell (%d, %d) already occupied by %q", x, y, c.Occupant)
	}
	c.Occupant = id
	return nil
}

// RemoveOccupant clears the occupant at (x, y). Clearing an empty cell is a no-op.
func (g *Grid) RemoveOccupant(x, y int) error {
	c, err := g.At(x, y)
	if err != nil {
		return err
	}
	c.Occupant = ""
	return nil
}

// OccupantAt returns the occupant identifier at (x, y), or "".
func (g *Grid) OccupantAt(x, y int) (string, error) {
	c, err := g.At(x, y)
	if err != nil {
		return "", err
	}
	return c.Occupant, nil
}

// MoveOccupant relocates id from one cell to another, enforcing the occupancy
// invariant on the destination before vacating the source.
func (g *Grid) MoveOccupant(from, to geometry.Position, id string) error {
	src, err := g.At(from.X, from.Y)
	if err != nil {
		return err
	}
	if src.Occupant != id {
		return fmt.Errorf("grid: %q does not occupy (%d, %d)", id, from.X, from.Y)
	}
	if err := g.PlaceOccupant(to.X, to.Y, id); err != nil {
		return err
	}
	src.Occupant = ""
	return nil
}
