package kinematics

import "github.com/golang/geo/r3"

// Position is a Cartesian point in the leg-local frame, millimetres. It is a
// value with no setters; a Leg replaces its positions wholesale.
type Position struct {
	vec r3.Vector
}

// NewPosition builds a Position from Cartesian coordinates.
func NewPosition(x, y, z float64) Position {
	return Position{vec: r3.Vector{X: x, Y: y, Z: z}}
}

func (p Position) X() float64 { return p.vec.X }
func (p Position) Y() float64 { return p.vec.Y }
func (p Position) Z() float64 { return p.vec.Z }

func (p Position) Equal(o Position) bool { return p.vec == o.vec }

// Movement is the per-axis interpolation speed, mm per servo tick, recomputed
// whenever a new target is set.
type Movement struct {
	vec r3.Vector
}

// NewMovement builds a uniform-speed Movement (all axes the same magnitude,
// used to seed a Leg before any target has been set).
func NewMovement(speed float64) Movement {
	return Movement{vec: r3.Vector{X: speed, Y: speed, Z: speed}}
}

// NewMovementXYZ builds a Movement with independent per-axis speeds, as
// produced by SetLegTarget's direction-vector scaling.
func NewMovementXYZ(x, y, z float64) Movement {
	return Movement{vec: r3.Vector{X: x, Y: y, Z: z}}
}

func (m Movement) XSpeed() float64 { return m.vec.X }
func (m Movement) YSpeed() float64 { return m.vec.Y }
func (m Movement) ZSpeed() float64 { return m.vec.Z }
