package kinematics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Markuzzzz/t-trex/internal/geometry"
	"github.com/Markuzzzz/t-trex/internal/servobus"
)

// S2 — leg-0 servo mapping, zero calibration.
func TestPolarToServoLegZero(t *testing.T) {
	leg, err := NewLeg(RightFront, servobus.NewStub(), NewPosition(62, 62, geometry.ZGround))
	require.NoError(t, err)

	out := leg.PolarToServo(geometry.Polar{Alpha: 55.08, Beta: 85.36, Gamma: 38.66})
	require.InDelta(t, 34.92, out.Alpha, 0.01)  // written to femur channel
	require.InDelta(t, 85.36, out.Beta, 0.01)   // written to tibia channel
	require.InDelta(t, 128.66, out.Gamma, 0.01) // written to coxa channel
}

func TestLegChannelNumbering(t *testing.T) {
	for i := 0; i < 4; i++ {
		leg, err := NewLeg(i, servobus.NewStub(), NewPosition(0, 0, 0))
		require.NoError(t, err)
		require.Equal(t, 3+3*i, leg.coxaCh)
		require.Equal(t, 1+3*i, leg.femurCh)
		require.Equal(t, 2+3*i, leg.tibiaCh)
	}
}

// S3 — speed-limited interpolation.
func TestAdvanceSnapsOnFinalTick(t *testing.T) {
	leg, err := NewLeg(RightFront, servobus.NewStub(), NewPosition(62, 62, -27))
	require.NoError(t, err)

	move := NewMovement(0)
	move.vec.Z = -8
	leg.SetTargetAndMovement(NewPosition(62, 62, -50), move)

	got := leg.Advance()
	require.InDelta(t, -35, got.Z(), 1e-9)
	got = leg.Advance()
	require.InDelta(t, -43, got.Z(), 1e-9)
	got = leg.Advance()
	require.InDelta(t, -50, got.Z(), 1e-9) // snaps exactly on the third tick
}

func TestSetWritesThreeChannels(t *testing.T) {
	leg, err := NewLeg(RightFront, servobus.NewStub(), NewPosition(62, 62, geometry.ZGround))
	require.NoError(t, err)
	require.NoError(t, leg.Set(context.Background(), geometry.Polar{Alpha: 55.08, Beta: 85.36, Gamma: 38.66}))
}
