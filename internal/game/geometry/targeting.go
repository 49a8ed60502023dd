package geometry

// Target is the minimal view of a combat participant needed for area-of-effect
// selection. Participants expose either an exact grid position or, failing
// that, a coarse proximity band giving their maximum possible range in feet.
type Target interface {
	// GridPosition returns the target's exact position, if known.
	GridPosition() (Position, bool)
	// ProximityFeet returns the maximum range of the target's coarse
	// proximity band, if one is known.
	ProximityFeet() (int, bool)
}

// TargetsInArea filters targets to those affected by shape. A target with a
// known position is included iff the shape contains it; a target known only by
// a proximity band is included iff the band's maximum range is within the
// shape's reach. Targets with neither are never included.
//
// Pure filter: no side effects, input slice is not modified.
func TargetsInArea[T Target](shape Shape, targets []T) []T {
	var hit []T
	for _, t := range targets {
		if pos, ok := t.GridPosition(); ok {
			if shape.Contains(pos) {
				hit = append(hit, t)
			}
			continue
		}
		if band, ok := t.ProximityFeet(); ok && band <= shape.ReachFeet() {
			hit = append(hit, t)
		}
	}
	return hit
}
