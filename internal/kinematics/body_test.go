package kinematics

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Markuzzzz/t-trex/internal/geometry"
	"github.com/Markuzzzz/t-trex/internal/servobus"
)

func TestNewBodyDefaultStance(t *testing.T) {
	b, err := NewBody(servobus.NewStub(), false)
	require.NoError(t, err)
	require.False(t, b.Online)

	for i := 0; i < 4; i++ {
		leg := b.Leg(i)
		require.Equal(t, i, leg.Index())
		require.InDelta(t, 62, leg.Current().X(), 1e-9)
		require.InDelta(t, 62, leg.Current().Y(), 1e-9)
		require.InDelta(t, geometry.ZGround, leg.Current().Z(), 1e-9)
	}
}

func TestBodyInitializeAndSleep(t *testing.T) {
	b, err := NewBody(servobus.NewStub(), true)
	require.NoError(t, err)
	require.NoError(t, b.Initialize())
	require.NoError(t, b.SleepMode())
	require.NoError(t, b.WakeUpMode())
}

func TestResetToDefaultStance(t *testing.T) {
	b, err := NewBody(servobus.NewStub(), true)
	require.NoError(t, err)
	b.Leg(0).SetTargetAndMovement(NewPosition(0, 0, 0), NewMovement(1))

	require.NoError(t, b.ResetToDefaultStance())
	require.InDelta(t, 62, b.Leg(0).Target().X(), 1e-9)
}
