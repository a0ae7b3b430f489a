package gait

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Markuzzzz/t-trex/internal/geometry"
	"github.com/Markuzzzz/t-trex/internal/kinematics"
	"github.com/Markuzzzz/t-trex/internal/motion"
	"github.com/Markuzzzz/t-trex/internal/servobus"
)

// newTestRig builds a Body+Engine+Sequencer against a stub bus and starts a
// background goroutine that keeps calling ServoTick, mirroring the real
// process's periodic scheduler. The returned stop func must be called once
// the test is done driving the sequencer, since WaitAllReach would otherwise
// spin forever waiting for a tick that never comes.
func newTestRig(t *testing.T) (*Sequencer, *kinematics.Body, func()) {
	t.Helper()
	body, err := kinematics.NewBody(servobus.NewStub(), false)
	require.NoError(t, err)
	engine := motion.NewEngine(body, DefaultMoveSpeed)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ctx := context.Background()
		for {
			select {
			case <-stop:
				return
			default:
				_, _ = engine.ServoTick(ctx)
			}
		}
	}()

	return NewSequencer(engine), body, func() {
		close(stop)
		wg.Wait()
	}
}

// S5 — turn_right selects its tripod phase from the witness leg's target.y.
func TestTurnRightSelectsPhaseFromWitnessLeg(t *testing.T) {
	s, body, stop := newTestRig(t)
	defer stop()

	// The default stance has y=62; move the witness leg to y_start first.
	s.runPhase(keyframe{kinematics.LeftFront, stay, yStart, stay})
	leftFront := body.Leg(kinematics.LeftFront)
	require.Equal(t, geometry.YStart, leftFront.Target().Y())

	// Phase A: witness leg starts at y_start, so legs 2 & 0 lead. After the
	// sequence the witness leg's target.y has moved off y_start.
	s.TurnRight(leftFront.Target().Y())
	require.NotEqual(t, geometry.YStart, leftFront.Target().Y())

	// Phase B: witness leg is no longer at y_start, so legs 1 & 3 lead this
	// time, and the sequence ends back at y_start (a full stride pair).
	s.TurnRight(leftFront.Target().Y())
	require.Equal(t, geometry.YStart, leftFront.Target().Y())
}

func TestTurnLeftSelectsPhaseFromWitnessLeg(t *testing.T) {
	s, body, stop := newTestRig(t)
	defer stop()

	// The default stance has y=62; move the witness leg to y_start first.
	s.runPhase(keyframe{kinematics.LeftBack, stay, yStart, stay})
	leftBack := body.Leg(kinematics.LeftBack)
	require.Equal(t, geometry.YStart, leftBack.Target().Y())

	s.TurnLeft(leftBack.Target().Y())
	require.NotEqual(t, geometry.YStart, leftBack.Target().Y())

	s.TurnLeft(leftBack.Target().Y())
	require.Equal(t, geometry.YStart, leftBack.Target().Y())
}

func TestStepForwardSelectsPhaseFromWitnessLeg(t *testing.T) {
	s, body, stop := newTestRig(t)
	defer stop()

	// Start the witness leg at y_start so the first call runs phase A.
	s.runPhase(keyframe{kinematics.LeftFront, stay, yStart, stay})
	leftFront := body.Leg(kinematics.LeftFront)
	s.StepForward(leftFront.Target().Y())
	require.NotEqual(t, geometry.YStart, leftFront.Target().Y())
}

func TestStepBackwardSelectsPhaseFromWitnessLeg(t *testing.T) {
	s, body, stop := newTestRig(t)
	defer stop()

	// Start the witness leg at y_start so the first call runs phase A.
	s.runPhase(keyframe{kinematics.LeftBack, stay, yStart, stay})
	leftBack := body.Leg(kinematics.LeftBack)
	s.StepBackward(leftBack.Target().Y())
	require.NotEqual(t, geometry.YStart, leftBack.Target().Y())
}

func TestSitDropsAllLegsToGround(t *testing.T) {
	s, body, stop := newTestRig(t)
	defer stop()

	s.Sit()
	for i := 0; i < 4; i++ {
		require.InDelta(t, geometry.ZGround, body.Leg(i).Target().Z(), 1e-9)
	}
}

func TestStandRaisesAllLegsToRange(t *testing.T) {
	s, body, stop := newTestRig(t)
	defer stop()

	s.Stand()
	for i := 0; i < 4; i++ {
		require.InDelta(t, geometry.ZRange, body.Leg(i).Target().Z(), 1e-9)
	}
}

func TestHeadUpTiltsFrontDownBackUp(t *testing.T) {
	s, body, stop := newTestRig(t)
	defer stop()

	before := [4]float64{}
	for i := 0; i < 4; i++ {
		before[i] = body.Leg(i).Target().Z()
	}

	s.HeadUp(func(leg int) float64 { return body.Leg(leg).Target().Z() })

	require.InDelta(t, before[0]-10, body.Leg(0).Target().Z(), 1e-9)
	require.InDelta(t, before[1]+10, body.Leg(1).Target().Z(), 1e-9)
	require.InDelta(t, before[2]-10, body.Leg(2).Target().Z(), 1e-9)
	require.InDelta(t, before[3]+10, body.Leg(3).Target().Z(), 1e-9)
}

// The original firmware's speed_up() compares with <=, so a speed sitting
// exactly at the cap still takes one more +0.1 step before the guard finally
// rejects it. That off-by-one is preserved bit-exact rather than tightened.
func TestSpeedUpAllowsOneStepPastExactCap(t *testing.T) {
	engine := motion.NewEngine(mustBody(t), MaxMoveSpeed)
	s := NewSequencer(engine)

	s.SpeedUp()
	require.InDelta(t, MaxMoveSpeed+speedStep, engine.CustomMoveSpeed(), 1e-9)

	s.SpeedUp() // now strictly above the cap: the guard finally holds
	require.InDelta(t, MaxMoveSpeed+speedStep, engine.CustomMoveSpeed(), 1e-9)
}

func TestSpeedDownFloorsAtPointOne(t *testing.T) {
	engine := motion.NewEngine(mustBody(t), 0.15)
	s := NewSequencer(engine)

	s.SpeedDown() // 0.15 > 0.1: subtracts, but the result is clamped to the floor
	require.InDelta(t, MinMoveSpeed, engine.CustomMoveSpeed(), 1e-9)

	s.SpeedDown() // 0.1 is not > 0.1: stays at the floor
	require.InDelta(t, MinMoveSpeed, engine.CustomMoveSpeed(), 1e-9)
}

func mustBody(t *testing.T) *kinematics.Body {
	t.Helper()
	body, err := kinematics.NewBody(servobus.NewStub(), false)
	require.NoError(t, err)
	return body
}
