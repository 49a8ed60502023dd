package grid

import (
	"github.com/greyvale/encounter/internal/game/actor"
	"github.com/greyvale/encounter/internal/game/geometry"
)

// RejectReason classifies why a move was disallowed. The empty value means
// the move is legal.
type RejectReason string

const (
	RejectNone          RejectReason = ""
	RejectOutOfBounds   RejectReason = "destination out of bounds"
	RejectImpassable    RejectReason = "destination impassable"
	RejectOccupied      RejectReason = "destination occupied by an opponent"
	RejectPathBlocked   RejectReason = "path blocked"
	RejectSpeedExceeded RejectReason = "movement cost exceeds speed"
)

// MoveResult describes one validated move. It never mutates grid or
// participant state; committing the move is the caller's responsibility.
type MoveResult struct {
	Allowed bool
	Reason  RejectReason

	// CostFeet is the movement cost: straight-line distance plus 5 feet per
	// difficult-terrain square crossed (start excluded). Zero when the move
	// was rejected before costing.
	CostFeet int
	// DifficultSquares is the number of difficult squares the path crosses.
	DifficultSquares int

	// OpportunityAttacks lists the opposing participants whose reach the
	// mover left without disengaging.
	OpportunityAttacks []*actor.Participant
}

// ValidateMove checks whether mover may travel from one position to another on
// g, given the other participants. The pipeline runs in order: destination
// bounds, destination terrain, destination occupancy (same-side occupants do
// not block, opposing ones do), straight-line path passability, movement cost
// versus speed, and finally opportunity-attack detection.
//
// Precondition: mover, mover.Character, and g must be non-nil.
func ValidateMove(mover *actor.Participant, from, to geometry.Position, g *Grid, participants []*actor.Participant) MoveResult {
	if !g.InBounds(to.X, to.Y) {
		return MoveResult{Reason: RejectOutOfBounds}
	}
	if !g.IsPassable(to.X, to.Y) {
		return MoveResult{Reason: RejectImpassable}
	}

	if occupant, _ := g.OccupantAt(to.X, to.Y); occupant != "" && occupant != mover.Character.Name {
		if other := findByName(participants, occupant); other == nil || mover.Opposes(other) {
			return MoveResult{Reason: RejectOccupied}
		}
	}

	path := LinePath(from, to)
	if len(path) > 2 {
		for _, p := range path[1 : len(path)-1] {
			if !g.IsPassable(p.X, p.Y) {
				return MoveResult{Reason: RejectPathBlocked}
			}
		}
	}

	difficult := 0
	for _, p := range path[1:] { // start square never counts
		if g.IsDifficult(p.X, p.Y) {
			difficult++
		}
	}
	cost := geometry.Distance(from, to) + difficult*geometry.FeetPerSquare
	speed := mover.Character.Speed
	if cost > speed {
		return MoveResult{
			Reason:           RejectSpeedExceeded,
			CostFeet:         cost,
			DifficultSquares: difficult,
		}
	}

	return MoveResult{
		Allowed:            true,
		CostFeet:           cost,
		DifficultSquares:   difficult,
		OpportunityAttacks: OpportunityAttacks(mover, from, to, participants),
	}
}

// OpportunityAttacks returns every opposing participant with a known position
// who threatens the start of the move but not its end. A mover that took the
// disengage action this turn provokes nothing, a policy no-op rather than an
// error.
func OpportunityAttacks(mover *actor.Participant, from, to geometry.Position, participants []*actor.Participant) []*actor.Participant {
	if mover.HasDisengage {
		return nil
	}
	var triggered []*actor.Participant
	for _, p := range participants {
		if p == mover || !p.Opposes(mover) {
			continue
		}
		pos, ok := p.GridPosition()
		if !ok {
			continue
		}
		reach := p.Reach()
		if geometry.Distance(pos, from) <= reach && geometry.Distance(pos, to) > reach {
			triggered = append(triggered, p)
		}
	}
	return triggered
}

// LinePath returns the cells on the straight line from a to b inclusive,
// stepped with the integer Bresenham algorithm.
//
// Postcondition: path[0] == a and path[len-1] == b; consecutive cells differ
// by at most one step on each axis.
func LinePath(a, b geometry.Position) []geometry.Position {
	dx := abs(b.X - a.X)
	dy := abs(b.Y - a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}

	path := make([]geometry.Position, 0, dx+dy+1)
	x, y := a.X, a.Y
	errTerm := dx - dy
	for {
		path = append(path, geometry.Position{X: x, Y: y})
		if x == b.X && y == b.Y {
			return path
		}
		e2 := 2 * errTerm
		if e2 > -dy {
			errTerm -= dy
			x += sx
		}
		if e2 < dx {
			errTerm += dx
			y += sy
		}
	}
}

func findByName(participants []*actor.Participant, name string) *actor.Participant {
	for _, p := range participants {
		if p.Character != nil && p.Character.Name == name {
			return p
		}
	}
	return nil
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
