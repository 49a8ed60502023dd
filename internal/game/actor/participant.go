package actor

import "github.com/greyvale/encounter/internal/game/geometry"

// Side groups participants into opposing camps for occupancy, opportunity
// attacks, and display labelling.
type Side int

const (
	SidePlayer Side = iota
	SideEnemy
	SideAlly
)

// LabelPrefix returns the single-letter prefix used for display labels.
func (s Side) LabelPrefix() string {
	switch s {
	case SidePlayer:
		return "P"
	case SideEnemy:
		return "E"
	case SideAlly:
		return "A"
	default:
		return "?"
	}
}

// String returns a human-readable side name.
func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideEnemy:
		return "enemy"
	case SideAlly:
		return "ally"
	default:
		return "unknown"
	}
}

// DefaultReachFeet is the melee threat range used when a participant does not
// specify one.
const DefaultReachFeet = 5

// Participant wraps a Character with the encounter-scoped state the tactical
// layer needs: which side it fights for, its melee reach, whether it
// disengaged this turn, and a coarse proximity band for characters that are
// present but not placed on the grid.
type Participant struct {
	Character *Character
	Side      Side

	// ReachFeet is the melee threat range; 0 means DefaultReachFeet.
	ReachFeet int

	// HasDisengage is true when the participant took the disengage action
	// this turn, suppressing opportunity attacks against it.
	HasDisengage bool

	// ProximityBandFeet is the maximum range of a coarse distance band for
	// participants without a grid position; 0 means no band is known.
	ProximityBandFeet int

	// Label is the display label assigned by the renderer ("P1", "E2", ...).
	// Assigned once and never reassigned.
	Label string
}

// Reach returns the participant's melee threat range in feet.
func (p *Participant) Reach() int {
	if p.ReachFeet > 0 {
		return p.ReachFeet
	}
	return DefaultReachFeet
}

// Opposes reports whether o fights on an opposing side. Players and allies
// form one camp; enemies form the other.
func (p *Participant) Opposes(o *Participant) bool {
	return p.camp() != o.camp()
}

func (p *Participant) camp() int {
	if p.Side == SideEnemy {
		return 1
	}
	return 0
}

// GridPosition implements geometry.Target.
func (p *Participant) GridPosition() (geometry.Position, bool) {
	if p.Character == nil || p.Character.Position == nil {
		return geometry.Position{}, false
	}
	return *p.Character.Position, true
}

// ProximityFeet implements geometry.Target.
func (p *Participant) ProximityFeet() (int, bool) {
	return p.ProximityBandFeet, p.ProximityBandFeet > 0
}
