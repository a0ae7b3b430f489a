package motion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Markuzzzz/t-trex/internal/geometry"
	"github.com/Markuzzzz/t-trex/internal/kinematics"
	"github.com/Markuzzzz/t-trex/internal/servobus"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	body, err := kinematics.NewBody(servobus.NewStub(), false)
	require.NoError(t, err)
	return NewEngine(body, 8)
}

// S3 — speed-limited interpolation, via SetLegTarget + 3 ServoTicks.
func TestSetLegTargetThenServoTickConverges(t *testing.T) {
	e := newTestEngine(t)
	leg := e.body.Leg(kinematics.RightFront)
	leg.SetTargetAndMovement(kinematics.NewPosition(62, 62, geometry.ZGround), kinematics.NewMovement(0))

	e.SetLegTarget(kinematics.RightFront, 62, 62, -50)
	require.InDelta(t, -8, leg.Movement().ZSpeed(), 1e-9)

	ctx := context.Background()
	wantZ := []float64{-35, -43, -50}
	for _, want := range wantZ {
		// one full round-robin pass (4 ticks) advances leg 0 exactly once
		for j := 0; j < 4; j++ {
			_, err := e.ServoTick(ctx)
			require.NoError(t, err)
		}
		require.InDelta(t, want, leg.Current().Z(), 1e-9)
	}
}

// Property 5: set_leg_target(i, STAY, STAY, STAY) is a no-op on target and
// halts the leg once current == target.
func TestSetLegTargetAllStayIsNoop(t *testing.T) {
	e := newTestEngine(t)
	leg := e.body.Leg(kinematics.RightFront)
	before := leg.Target()

	e.SetLegTarget(kinematics.RightFront, Stay, Stay, Stay)
	require.True(t, leg.Target().Equal(before))
}

// Property 4: round-robin fairness — each leg advances exactly once over any
// 4 consecutive ticks.
func TestServoTickRoundRobinFairness(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	seen := map[int]int{}
	for i := 0; i < 4; i++ {
		legBefore := e.currentLeg
		_, err := e.ServoTick(ctx)
		require.NoError(t, err)
		seen[legBefore]++
	}
	for i := 0; i < 4; i++ {
		require.Equal(t, 1, seen[i])
	}
}

func TestServoTickReturnsFalseWhenSleeping(t *testing.T) {
	e := newTestEngine(t)
	e.SetSleeping(true)
	ok, err := e.ServoTick(context.Background())
	require.NoError(t, err)
	require.False(t, ok)
}

func TestWaitAllReachReturnsImmediatelyWhenConverged(t *testing.T) {
	e := newTestEngine(t)
	done := make(chan struct{})
	go func() {
		e.WaitAllReach()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("WaitAllReach did not return")
	}
}

func TestSetCalibrateModeIsReported(t *testing.T) {
	e := newTestEngine(t)
	e.SetCalibrateMode(true)
	require.True(t, e.CalibrateMode())
}
