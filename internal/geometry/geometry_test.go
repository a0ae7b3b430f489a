package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// S1 — forward kinematics baseline.
func TestCartesianToPolarBaseline(t *testing.T) {
	p := CartesianToPolar(100, 80, 28)
	require.InDelta(t, 55.08, p.Alpha, 0.01)
	require.InDelta(t, 85.36, p.Beta, 0.01)
	require.InDelta(t, 38.66, p.Gamma, 0.01)
}

// Property 1: forward-kinematic round trip for an ideal leg (zero
// calibration error) within reach of femur+tibia.
func TestCartesianToPolarRoundTrip(t *testing.T) {
	cases := []struct{ x, y, z float64 }{
		{100, 80, 28},
		{62, 62, -27},
		{90, 40, -10},
		{-90, 40, -10},
	}
	for _, c := range cases {
		p := CartesianToPolar(c.x, c.y, c.z)
		fx, fy, fz := forward(p)
		require.InDelta(t, c.x, fx, 1e-6)
		require.InDelta(t, c.y, fy, 1e-6)
		require.InDelta(t, c.z, fz, 1e-6)
	}
}

// Property 2: never panics, for any finite input, thanks to the acos clamp.
func TestCartesianToPolarNeverPanics(t *testing.T) {
	inputs := []float64{0, 1, -1, 1e6, -1e6, 0.0001, -0.0001}
	for _, x := range inputs {
		for _, y := range inputs {
			for _, z := range inputs {
				require.NotPanics(t, func() {
					CartesianToPolar(x, y, z)
				})
			}
		}
	}
}

func TestTurnConstants(t *testing.T) {
	tc := Turn()
	require.False(t, math.IsNaN(tc.Phi))
	require.Greater(t, tc.A, 0.0)
	require.Greater(t, tc.B, 0.0)
}

// forward reconstructs (x, y, z) from polar angles for an ideal leg with no
// calibration error — the inverse of CartesianToPolar, used only by tests.
func forward(p Polar) (x, y, z float64) {
	alpha := degToRad(p.Alpha)
	beta := degToRad(p.Beta)
	gamma := degToRad(p.Gamma)

	r := math.Sqrt(FemurLen*FemurLen + TibiaLen*TibiaLen - 2*FemurLen*TibiaLen*math.Cos(beta))
	footAngle := alpha - math.Acos(clamp((FemurLen*FemurLen-TibiaLen*TibiaLen+r*r)/(2*FemurLen*r), -1, 1))
	v := r * math.Cos(footAngle)
	z = r * math.Sin(footAngle)
	w := v + CoxaLen

	x = w * math.Cos(gamma)
	y = w * math.Sin(gamma)
	return x, y, z
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }
