package kinematics

import (
	"github.com/pkg/errors"

	"github.com/Markuzzzz/t-trex/internal/geometry"
	"github.com/Markuzzzz/t-trex/internal/servobus"
)

// Default stance, matching the original firmware's default_stance().
const (
	xDefault = 62.0
	yDefault = 62.0
)

// Body owns all four legs and the single ServoBus. online is true iff the
// real bus initialized successfully (false for the stub).
type Body struct {
	Bus    servobus.ServoBus
	Online bool

	legs [4]*Leg
}

// NewBody builds the default stance (all four legs at x=y=62, z=ZGround)
// against the given bus. online distinguishes a real servo bus from the
// stub, per spec.md §3.
func NewBody(bus servobus.ServoBus, online bool) (*Body, error) {
	b := &Body{Bus: bus, Online: online}
	if err := b.defaultStance(); err != nil {
		return nil, err
	}
	return b, nil
}

// defaultStance (re-)instantiates the four legs at the nominal stance. Also
// used by the calibrate handler to restore the stance when calibrate_mode is
// toggled off (spec.md §4.4).
func (b *Body) defaultStance() error {
	for i := 0; i < 4; i++ {
		leg, err := NewLeg(i, b.Bus, NewPosition(xDefault, yDefault, geometry.ZGround))
		if err != nil {
			return errors.Wrapf(err, "constructing leg %d", i)
		}
		b.legs[i] = leg
	}
	return nil
}

// ResetToDefaultStance re-instantiates all four legs at the default stance.
func (b *Body) ResetToDefaultStance() error { return b.defaultStance() }

// Leg returns the leg at the given index (0..3); panics on an out-of-range
// index since the caller (the motion engine) always uses a validated
// constant.
func (b *Body) Leg(index int) *Leg {
	return b.legs[index]
}

// Initialize configures the bus's pulse-width limits and enables output,
// per spec.md §6 (0.8ms / 2.3ms, called once at startup).
func (b *Body) Initialize() error {
	if err := b.Bus.SetLowLimit(0.8); err != nil {
		return errors.Wrap(err, "setting servo bus low limit")
	}
	if err := b.Bus.SetHighLimit(2.3); err != nil {
		return errors.Wrap(err, "setting servo bus high limit")
	}
	if err := b.Bus.OutputEnable(); err != nil {
		return errors.Wrap(err, "enabling servo bus output")
	}
	return nil
}

// SleepMode disables output and sleeps the bus, releasing the servos.
func (b *Body) SleepMode() error {
	if err := b.Bus.OutputDisable(); err != nil {
		return errors.Wrap(err, "disabling servo bus output")
	}
	return b.Bus.Sleep()
}

// WakeUpMode wakes the bus and re-enables output.
func (b *Body) WakeUpMode() error {
	if err := b.Bus.Wake(); err != nil {
		return errors.Wrap(err, "waking servo bus")
	}
	return b.Bus.OutputEnable()
}

// CalculateError reports, for each leg, the per-joint offset that would
// make the measured position agree with the fixed reference pose
// cartesian_to_polar(100, 80, 28). This is a diagnostic helper; neither the
// servo tick nor cmd/trexctl calls it — see SPEC_FULL.md §9.4.
func (b *Body) CalculateError(measured [4]Position) [4]CalibrationError {
	expected := geometry.CartesianToPolar(100, 80, 28)

	var out [4]CalibrationError
	for i, m := range measured {
		actual := geometry.CartesianToPolar(m.X(), m.Y(), m.Z())
		out[i] = CalibrationError{
			Alpha: expected.Alpha - actual.Alpha,
			Beta:  expected.Beta - actual.Beta,
			Gamma: expected.Gamma - actual.Gamma,
		}
	}
	return out
}
