// Package gait implements the keyframe-driven locomotion and posture
// sequences of spec.md §4.4: step_forward, step_backward, turn_left,
// turn_right, sit, stand, head_up/head_down, and speed_up/speed_down.
// Calibrate lives in internal/quadruped since it reads the mode_1 flag that
// only the CPU facade owns. Each sequence is expressed as a table of
// keyframes rather than
// the original's inline imperative script (see DESIGN.md, internal/gait), but the
// keyframe data itself — the (leg, x, y, z) tuples and their phase/barrier
// grouping — is carried over bit-exact from quadruped_cpu.py.
package gait

import (
	"github.com/Markuzzzz/t-trex/internal/geometry"
	"github.com/Markuzzzz/t-trex/internal/motion"
)

// DefaultMoveSpeed mirrors the original firmware's constants.py default.
// Only custom_move_speed (adjustable via SpeedUp/SpeedDown) actually reaches
// the servos — see motion.Engine.SetLegTarget. The original's per-gait
// self._move_speed reassignments (LEG_MOVE_SPEED/BODY_MOVE_SPEED) are dead
// writes: set_legs always reads custom_move_speed, never self._move_speed.
// SPEC_FULL.md §9 supplement 3 records this as intentionally not carried
// forward.
const (
	DefaultMoveSpeed = 8.0
	MaxMoveSpeed     = DefaultMoveSpeed * 3
	MinMoveSpeed     = 0.1
	speedStep        = 0.1
)

// Sequencer drives the motion Engine through the gait tables below. It holds
// no state of its own beyond the engine; the mode flags that choose between
// Sit/HeadDown and Stand/HeadUp live in internal/quadruped.
type Sequencer struct {
	engine *motion.Engine
}

func NewSequencer(engine *motion.Engine) *Sequencer {
	return &Sequencer{engine: engine}
}

// keyframe is one (leg, x, y, z) target assignment. Frames passed to the same
// runPhase call are issued together before the sequencer waits for all of
// them to land — matching the original's runs of set_legs() calls followed by a
// single wait_all_reach().
type keyframe struct {
	Leg     int
	X, Y, Z float64
}

// runPhase issues every keyframe in a barrier group, then blocks until all
// four legs have converged.
func (s *Sequencer) runPhase(frames ...keyframe) {
	for _, f := range frames {
		s.engine.SetLegTarget(f.Leg, f.X, f.Y, f.Z)
	}
	s.engine.WaitAllReach()
}

const stay = motion.Stay

// geometry shorthand, matching quadruped_cpu.py's module-level constants.
const (
	xRange  = geometry.XRange
	zRange  = geometry.ZRange
	zGround = geometry.ZGround
	zUp     = geometry.ZUp
	yStart  = geometry.YStart
	yStep   = geometry.YStep
	xOffset = geometry.XOffset
)

// SpeedUp implements speed_up(): custom_move_speed += 0.1 while it is at or
// below 3x the default, so the highest reachable speed is that cap plus one
// 0.1 step. Ending the action is left to the caller.
func (s *Sequencer) SpeedUp() {
	if s.engine.CustomMoveSpeed() <= MaxMoveSpeed {
		s.engine.SetCustomMoveSpeed(s.engine.CustomMoveSpeed() + speedStep)
	}
}

// SpeedDown implements speed_down(): custom_move_speed -= 0.1, floored at
// 0.1 (never zero, which would divide-by-zero length normalization).
func (s *Sequencer) SpeedDown() {
	if s.engine.CustomMoveSpeed() > MinMoveSpeed {
		s.engine.SetCustomMoveSpeed(max(s.engine.CustomMoveSpeed()-speedStep, MinMoveSpeed))
	} else {
		s.engine.SetCustomMoveSpeed(MinMoveSpeed)
	}
}

// Sit implements sit(): every leg's z drops to ground level, x/y held.
func (s *Sequencer) Sit() {
	s.runPhase(
		keyframe{0, stay, stay, zGround},
		keyframe{1, stay, stay, zGround},
		keyframe{2, stay, stay, zGround},
		keyframe{3, stay, stay, zGround},
	)
}

// Stand implements stand(): every leg's z rises to the standing range.
func (s *Sequencer) Stand() {
	s.runPhase(
		keyframe{0, stay, stay, zRange},
		keyframe{1, stay, stay, zRange},
		keyframe{2, stay, stay, zRange},
		keyframe{3, stay, stay, zRange},
	)
}

// HeadUp implements head_up(): the front pair's z drops 10, the back pair's
// z rises 10, tilting the body forward-down / head up. Z deltas are taken
// against each leg's current TARGET z, matching the original's use of
// target_position.z rather than current_position.z.
func (s *Sequencer) HeadUp(legTargetZ func(leg int) float64) {
	s.runPhase(
		keyframe{0, stay, stay, legTargetZ(0) - 10},
		keyframe{1, stay, stay, legTargetZ(1) + 10},
		keyframe{2, stay, stay, legTargetZ(2) - 10},
		keyframe{3, stay, stay, legTargetZ(3) + 10},
	)
}

// HeadDown implements head_down(): the mirror image of HeadUp.
func (s *Sequencer) HeadDown(legTargetZ func(leg int) float64) {
	s.runPhase(
		keyframe{0, stay, stay, legTargetZ(0) + 10},
		keyframe{1, stay, stay, legTargetZ(1) - 10},
		keyframe{2, stay, stay, legTargetZ(2) + 10},
		keyframe{3, stay, stay, legTargetZ(3) - 10},
	)
}

// StepForward implements step_forward(). The witness leg is left_front_leg
// (index 2): when its target.y is at y_start, legs 2&1 swing in the first
// phase; otherwise legs 0&3 do.
func (s *Sequencer) StepForward(leftFrontTargetY float64) {
	if leftFrontTargetY == yStart {
		s.runPhase(keyframe{2, xRange + xOffset, yStart, zUp})
		s.runPhase(keyframe{2, xRange + xOffset, yStart + 2*yStep, zUp})
		s.runPhase(keyframe{2, xRange + xOffset, yStart + 2*yStep, zRange})

		s.runPhase(
			keyframe{0, xRange + xOffset, yStart, zRange},
			keyframe{1, xRange + xOffset, yStart + 2*yStep, zRange},
			keyframe{2, xRange - xOffset, yStart + yStep, zRange},
			keyframe{3, xRange - xOffset, yStart + yStep, zRange},
		)

		s.runPhase(keyframe{1, xRange + xOffset, yStart + 2*yStep, zUp})
		s.runPhase(keyframe{1, xRange + xOffset, yStart, zUp})
		s.runPhase(keyframe{1, xRange + xOffset, yStart, zRange})
	} else {
		s.runPhase(keyframe{0, xRange + xOffset, yStart, zUp})
		s.runPhase(keyframe{0, xRange + xOffset, yStart + 2*yStep, zUp})
		s.runPhase(keyframe{0, xRange + xOffset, yStart + 2*yStep, zRange})

		s.runPhase(
			keyframe{0, xRange - xOffset, yStart + yStep, zRange},
			keyframe{1, xRange - xOffset, yStart + yStep, zRange},
			keyframe{2, xRange + xOffset, yStart, zRange},
			keyframe{3, xRange + xOffset, yStart + 2*yStep, zRange},
		)

		s.runPhase(keyframe{3, xRange + xOffset, yStart + 2*yStep, zUp})
		s.runPhase(keyframe{3, xRange + xOffset, yStart, zUp})
		s.runPhase(keyframe{3, xRange + xOffset, yStart, zRange})
	}
}

// StepBackward implements step_backward(). The witness leg is
// left_back_leg (index 3).
func (s *Sequencer) StepBackward(leftBackTargetY float64) {
	if leftBackTargetY == yStart {
		s.runPhase(keyframe{3, xRange + xOffset, yStart, zUp})
		s.runPhase(keyframe{3, xRange + xOffset, yStart + 2*yStep, zUp})
		s.runPhase(keyframe{3, xRange + xOffset, yStart + 2*yStep, zRange})

		s.runPhase(
			keyframe{0, xRange + xOffset, yStart + 2*yStep, zRange},
			keyframe{1, xRange + xOffset, yStart, zRange},
			keyframe{2, xRange - xOffset, yStart + yStep, zRange},
			keyframe{3, xRange - xOffset, yStart + yStep, zRange},
		)

		s.runPhase(keyframe{0, xRange + xOffset, yStart + 2*yStep, zUp})
		s.runPhase(keyframe{0, xRange + xOffset, yStart, zUp})
		s.runPhase(keyframe{0, xRange + xOffset, yStart, zRange})
	} else {
		s.runPhase(keyframe{1, xRange + xOffset, yStart, zUp})
		s.runPhase(keyframe{1, xRange + xOffset, yStart + 2*yStep, zUp})
		s.runPhase(keyframe{1, xRange + xOffset, yStart + 2*yStep, zRange})

		s.runPhase(
			keyframe{0, xRange - xOffset, yStart + yStep, zRange},
			keyframe{1, xRange - xOffset, yStart + yStep, zRange},
			keyframe{2, xRange + xOffset, yStart + 2*yStep, zRange},
			keyframe{3, xRange + xOffset, yStart, zRange},
		)

		s.runPhase(keyframe{2, xRange + xOffset, yStart + 2*yStep, zUp})
		s.runPhase(keyframe{2, xRange + xOffset, yStart, zUp})
		s.runPhase(keyframe{2, xRange + xOffset, yStart, zRange})
	}
}

// turn constants, computed once from the geometry package's exact formulas.
func turnXY() (x0, y0, x1, y1 float64) {
	t := geometry.Turn()
	return t.TurnX0, t.TurnY0, t.TurnX1, t.TurnY1
}

// TurnRight implements turn_right(). The witness leg is left_front_leg
// (index 2).
func (s *Sequencer) TurnRight(leftFrontTargetY float64) {
	x0, y0, x1, y1 := turnXY()

	if leftFrontTargetY == yStart {
		s.runPhase(keyframe{2, xRange, yStart, zUp})

		s.runPhase(
			keyframe{0, x0, y0, zRange},
			keyframe{1, x1, y1, zRange},
			keyframe{2, x0, y0, zUp},
			keyframe{3, x1, y1, zRange},
		)

		s.runPhase(keyframe{2, x0, y0, zRange})

		s.runPhase(
			keyframe{0, x0, y0, zRange},
			keyframe{1, x1, y1, zRange},
			keyframe{2, x0, y0, zRange},
			keyframe{3, x1, y1, zRange},
		)

		s.runPhase(keyframe{0, x0, y0, zUp})

		s.runPhase(
			keyframe{0, xRange, yStart, zUp},
			keyframe{1, xRange, yStart, zRange},
			keyframe{2, xRange, yStart + yStep, zRange},
			keyframe{3, xRange, yStart + yStep, zRange},
		)

		s.runPhase(keyframe{0, xRange, yStart, zRange})
	} else {
		s.runPhase(keyframe{1, xRange, yStart, zUp})

		s.runPhase(
			keyframe{0, x1, y1, zRange},
			keyframe{1, x0, y0, zUp},
			keyframe{2, x1, y1, zRange},
			keyframe{3, x0, y0, zRange},
		)

		s.runPhase(keyframe{1, x0, y0, zRange})

		s.runPhase(
			keyframe{0, x1, y1, zRange},
			keyframe{1, x0, y0, zRange},
			keyframe{2, x1, y1, zRange},
			keyframe{3, x0, y0, zRange},
		)

		s.runPhase(keyframe{3, x0, y0, zUp})

		s.runPhase(
			keyframe{0, xRange, yStart + yStep, zRange},
			keyframe{1, xRange, yStart + yStep, zRange},
			keyframe{2, xRange, yStart, zRange},
			keyframe{3, xRange, yStart, zUp},
		)

		s.runPhase(keyframe{3, xRange, yStart, zRange})
	}
}

// TurnLeft implements turn_left(). The witness leg is left_back_leg
// (index 3).
func (s *Sequencer) TurnLeft(leftBackTargetY float64) {
	x0, y0, x1, y1 := turnXY()

	if leftBackTargetY == yStart {
		s.runPhase(keyframe{3, xRange, yStart, zUp})

		s.runPhase(
			keyframe{0, x1, y1, zRange},
			keyframe{1, x0, y0, zRange},
			keyframe{2, x1, y1, zRange},
			keyframe{3, x0, y0, zUp},
		)

		s.runPhase(keyframe{3, x0, y0, zRange})

		s.runPhase(
			keyframe{0, x1, y1, zRange},
			keyframe{1, x0, y0, zRange},
			keyframe{2, x1, y1, zRange},
			keyframe{3, x0, y0, zRange},
		)

		s.runPhase(keyframe{1, x0, y0, zUp})

		s.runPhase(
			keyframe{0, xRange, yStart, zRange},
			keyframe{1, xRange, yStart, zUp},
			keyframe{2, xRange, yStart + yStep, zRange},
			keyframe{3, xRange, yStart + yStep, zRange},
		)

		s.runPhase(keyframe{1, xRange, yStart, zRange})
	} else {
		s.runPhase(keyframe{0, xRange, yStart, zUp})

		s.runPhase(
			keyframe{0, x0, y0, zUp},
			keyframe{1, x1, y1, zRange},
			keyframe{2, x0, y0, zRange},
			keyframe{3, x1, y1, zRange},
		)

		s.runPhase(keyframe{0, x0, y0, zRange})

		s.runPhase(
			keyframe{0, x0, y0, zRange},
			keyframe{1, x1, y1, zRange},
			keyframe{2, x0, y0, zRange},
			keyframe{3, x1, y1, zRange},
		)

		s.runPhase(keyframe{2, x0, y0, zUp})

		s.runPhase(
			keyframe{0, xRange, yStart + yStep, zRange},
			keyframe{1, xRange, yStart + yStep, zRange},
			keyframe{2, xRange, yStart, zUp},
			keyframe{3, xRange, yStart, zRange},
		)

		s.runPhase(keyframe{2, xRange, yStart, zRange})
	}
}
