package geometry

import "math"

// Shape is the closed set of area-of-effect variants. The unexported marker
// method seals the interface: every variant lives in this package, so a switch
// over the concrete types can be checked for exhaustiveness.
//
// Shapes are immutable values; Contains and ReachFeet have no side effects.
type Shape interface {
	// Contains reports whether the grid position p falls inside the area.
	Contains(p Position) bool
	// ReachFeet returns the shape's maximum extent in feet, used to include
	// targets known only by a coarse proximity band.
	ReachFeet() int

	isShape()
}

// coneHalfAngleRad is the fixed half-angle of a cone's spread. A 53° half-angle
// makes a cone roughly as wide at its end as it is long, matching the
// rulebook's template.
var coneHalfAngleRad = 53.0 * math.Pi / 180.0

// Sphere is a ball of the given radius centered on a point.
type Sphere struct {
	Center     Position
	RadiusFeet int
}

func (s Sphere) Contains(p Position) bool { return Distance(s.Center, p) <= s.RadiusFeet }
func (s Sphere) ReachFeet() int           { return s.RadiusFeet }
func (Sphere) isShape()                   {}

// Cylinder is a vertical column; on a flat grid its footprint matches a sphere
// of the same radius.
type Cylinder struct {
	Center     Position
	RadiusFeet int
}

func (c Cylinder) Contains(p Position) bool { return Distance(c.Center, p) <= c.RadiusFeet }
func (c Cylinder) ReachFeet() int           { return c.RadiusFeet }
func (Cylinder) isShape()                   {}

// Cube is an axis-aligned square of the given side length centered on a point.
type Cube struct {
	Center   Position
	SideFeet int
}

func (c Cube) Contains(p Position) bool {
	half := float64(c.SideFeet) / 2
	dx := math.Abs(float64(p.X-c.Center.X)) * FeetPerSquare
	dy := math.Abs(float64(p.Y-c.Center.Y)) * FeetPerSquare
	return dx <= half && dy <= half
}
func (c Cube) ReachFeet() int { return c.SideFeet / 2 }
func (Cube) isShape()         {}

// Cone spreads from an origin in a facing direction. A position is inside when
// it is within LengthFeet of the origin and within the fixed half-angle of the
// facing vector. The origin itself is always inside.
type Cone struct {
	Origin     Position
	DirX       float64
	DirY       float64
	LengthFeet int
}

func (c Cone) Contains(p Position) bool {
	if p == c.Origin {
		return true
	}
	dist := distanceFeet(c.Origin, p)
	if dist > float64(c.LengthFeet) {
		return false
	}
	mag := math.Hypot(c.DirX, c.DirY)
	if mag == 0 {
		// Undirected cone degenerates to its origin.
		return false
	}
	vx := float64(p.X - c.Origin.X)
	vy := float64(p.Y - c.Origin.Y)
	vmag := math.Hypot(vx, vy)
	cos := (vx*c.DirX + vy*c.DirY) / (vmag * mag)
	// Clamp against floating-point drift before acos.
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) <= coneHalfAngleRad
}
func (c Cone) ReachFeet() int { return c.LengthFeet }
func (Cone) isShape()         {}

// Line is a straight beam of the given length and width from an origin in a
// facing direction. A position is inside when its projection onto the line's
// local axis lands within [0, length] and its lateral offset is at most half
// the width.
type Line struct {
	Origin     Position
	DirX       float64
	DirY       float64
	LengthFeet int
	WidthFeet  int
}

func (l Line) Contains(p Position) bool {
	mag := math.Hypot(l.DirX, l.DirY)
	if mag == 0 {
		return p == l.Origin
	}
	ux, uy := l.DirX/mag, l.DirY/mag
	vx := float64(p.X-l.Origin.X) * FeetPerSquare
	vy := float64(p.Y-l.Origin.Y) * FeetPerSquare
	along := vx*ux + vy*uy
	across := vx*-uy + vy*ux
	return along >= 0 && along <= float64(l.LengthFeet) && math.Abs(across) <= float64(l.WidthFeet)/2
}
func (l Line) ReachFeet() int { return l.LengthFeet }
func (Line) isShape()         {}
