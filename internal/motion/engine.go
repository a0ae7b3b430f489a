// Package motion implements the motion engine: per-leg target assignment,
// interpolation, and the round-robin servo tick (spec.md §4.3).
package motion

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/Markuzzzz/t-trex/internal/geometry"
	"github.com/Markuzzzz/t-trex/internal/kinematics"
)

// Stay is the sentinel meaning "hold this axis at the leg's current position".
const Stay = 255.0

// Reference pose fed to CartesianToPolar while CalibrateMode is true,
// driving every leg to the nominal pose for physical calibration.
const (
	calibrateX = 100.0
	calibrateY = 80.0
	calibrateZ = 28.0
)

// Engine owns the round-robin tick cursor and the mutable speed/calibrate
// state shared by SetLegTarget and ServoTick.
type Engine struct {
	body *kinematics.Body

	mu             sync.Mutex
	customSpeed    float64
	calibrateMode  bool
	sleeping       bool
	currentLeg     int
}

// NewEngine wires the engine to a Body and an initial move speed.
func NewEngine(body *kinematics.Body, initialSpeed float64) *Engine {
	return &Engine{body: body, customSpeed: initialSpeed}
}

func (e *Engine) CustomMoveSpeed() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.customSpeed
}

func (e *Engine) SetCustomMoveSpeed(s float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.customSpeed = s
}

func (e *Engine) CalibrateMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calibrateMode
}

func (e *Engine) SetCalibrateMode(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calibrateMode = v
}

func (e *Engine) SetSleeping(v bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sleeping = v
}

func (e *Engine) Sleeping() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sleeping
}

// SetLegTarget implements spec.md §4.3's set_leg_target. Any axis equal to
// Stay gets its target set to the leg's current position on that axis, which
// stops motion on that axis. A STAY on every axis leaves the movement
// untouched and pins the whole target to the current position, so for a leg
// already at rest it changes nothing (property 5).
func (e *Engine) SetLegTarget(legIndex int, x, y, z float64) {
	leg := e.body.Leg(legIndex)
	current := leg.Current()

	dx := axisDelta(x, current.X())
	dy := axisDelta(y, current.Y())
	dz := axisDelta(z, current.Z())

	length := math.Sqrt(dx*dx + dy*dy + dz*dz)

	move := leg.Movement()
	if length > 0 {
		speed := e.CustomMoveSpeed()
		move = kinematics.NewMovementXYZ(dx/length*speed, dy/length*speed, dz/length*speed)
	}

	newTarget := kinematics.NewPosition(
		resolveAxis(x, current.X()),
		resolveAxis(y, current.Y()),
		resolveAxis(z, current.Z()),
	)
	leg.SetTargetAndMovement(newTarget, move)
}

// axisDelta computes the displacement this SetLegTarget call introduces on
// one axis: zero if the caller passed Stay (halting that axis), else the
// distance from the leg's current position to the newly requested value.
func axisDelta(requested, current float64) float64 {
	if requested == Stay {
		return 0
	}
	return requested - current
}

func resolveAxis(requested, current float64) float64 {
	if requested == Stay {
		return current
	}
	return requested
}

// ServoTick advances exactly one leg per call, round-robin over index
// 0→1→2→3→0, then writes the resulting servo angles. Returns false iff the
// engine is sleeping, signaling the scheduler to stop rearming.
func (e *Engine) ServoTick(ctx context.Context) (bool, error) {
	e.mu.Lock()
	legIndex := e.currentLeg
	e.currentLeg = (e.currentLeg + 1) % 4
	calibrating := e.calibrateMode
	sleeping := e.sleeping
	e.mu.Unlock()

	leg := e.body.Leg(legIndex)
	pos := leg.Advance()

	var polar geometry.Polar
	if calibrating {
		polar = geometry.CartesianToPolar(calibrateX, calibrateY, calibrateZ)
	} else {
		polar = geometry.CartesianToPolar(pos.X(), pos.Y(), pos.Z())
	}

	if err := leg.Set(ctx, polar); err != nil {
		return !sleeping, err
	}
	return !sleeping, nil
}

// WaitAllReach blocks the calling (gait) goroutine until every leg's current
// position equals its target on all three axes. The servo tick continues to
// fire independently while this spins, making forward progress — see
// spec.md §5 on the busy-wait/condition-variable tradeoff.
func (e *Engine) WaitAllReach() {
	for {
		allReached := true
		for i := 0; i < 4; i++ {
			leg := e.body.Leg(i)
			if !leg.Current().Equal(leg.Target()) {
				allReached = false
				break
			}
		}
		if allReached {
			return
		}
		time.Sleep(time.Millisecond)
	}
}

// WaitReach blocks until the given leg alone reaches its target.
func (e *Engine) WaitReach(legIndex int) {
	leg := e.body.Leg(legIndex)
	for !leg.Current().Equal(leg.Target()) {
		time.Sleep(time.Millisecond)
	}
}
