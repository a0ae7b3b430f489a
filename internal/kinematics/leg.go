package kinematics

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/Markuzzzz/t-trex/internal/geometry"
	"github.com/Markuzzzz/t-trex/internal/servobus"
)

// Leg index identities, fixed at construction. The reverse (channel→leg) map
// never changes.
const (
	RightFront = 0
	RightBack  = 1
	LeftFront  = 2
	LeftBack   = 3
)

// Servo channel role offsets within a leg's block of three channels.
const (
	coxaOffset  = 3
	femurOffset = 1
	tibiaOffset = 2
)

// CalibrationError holds the per-joint factory offsets applied in
// PolarToServo, in degrees.
type CalibrationError struct {
	Alpha, Beta, Gamma float64
}

// Leg holds one leg's current/target pose, per-axis interpolation speed,
// calibration offsets, and the (non-owning) servo channels it writes.
type Leg struct {
	mu sync.Mutex

	index int
	bus   servobus.ServoBus

	current Position
	target  Position
	move    Movement
	cal     CalibrationError

	coxaCh, femurCh, tibiaCh int
}

// NewLeg constructs a leg at index i (0..3) with the given starting
// position and a non-owning reference to the shared bus. Channel numbering
// follows spec.md §3: COXA = 3+3i, FEMUR = 1+3i, TIBIA = 2+3i.
func NewLeg(index int, bus servobus.ServoBus, start Position) (*Leg, error) {
	if index < 0 || index > 3 {
		return nil, errors.Errorf("leg index %d out of range 0..3", index)
	}
	return &Leg{
		index:   index,
		bus:     bus,
		current: start,
		target:  start,
		move:    NewMovement(0),
		coxaCh:  coxaOffset + 3*index,
		femurCh: femurOffset + 3*index,
		tibiaCh: tibiaOffset + 3*index,
	}, nil
}

func (l *Leg) Index() int { return l.index }

func (l *Leg) SetCalibrationError(c CalibrationError) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cal = c
}

func (l *Leg) Current() Position {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

func (l *Leg) Target() Position {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.target
}

func (l *Leg) Movement() Movement {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.move
}

// SetTargetAndMovement is used by the motion engine (SetLegTarget) to
// atomically install a new target position and interpolation speed in one
// critical section — see spec.md §5's note that a torn read must never lead
// to divergence.
func (l *Leg) SetTargetAndMovement(target Position, move Movement) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.target = target
	l.move = move
}

// Advance applies one interpolation step for every axis independently: if
// the remaining distance is at least the configured speed, step toward the
// target; otherwise snap to it. Returns the resulting current position.
func (l *Leg) Advance() Position {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.current = NewPosition(
		step(l.current.X(), l.target.X(), l.move.XSpeed()),
		step(l.current.Y(), l.target.Y(), l.move.YSpeed()),
		step(l.current.Z(), l.target.Z(), l.move.ZSpeed()),
	)
	return l.current
}

func step(current, target, speed float64) float64 {
	if abs(current-target) >= abs(speed) {
		return current + speed
	}
	return target
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// PolarToServo applies calibration offsets then the per-leg sign/offset
// fix-up table from spec.md §4.2.
func (l *Leg) PolarToServo(p geometry.Polar) geometry.Polar {
	l.mu.Lock()
	cal := l.cal
	l.mu.Unlock()

	alpha := p.Alpha + cal.Alpha
	beta := p.Beta + cal.Beta
	gamma := p.Gamma + cal.Gamma

	switch l.index {
	case RightFront:
		return geometry.Polar{Alpha: 90 - alpha, Beta: beta, Gamma: gamma + 90}
	case RightBack:
		return geometry.Polar{Alpha: alpha + 90, Beta: 180 - beta, Gamma: 90 - gamma}
	case LeftFront:
		return geometry.Polar{Alpha: alpha + 90, Beta: 180 - beta, Gamma: 90 - gamma}
	case LeftBack:
		return geometry.Polar{Alpha: 90 - alpha, Beta: beta, Gamma: gamma + 90}
	default:
		return geometry.Polar{}
	}
}

// Set computes the servo-space angles for (alpha, beta, gamma) and writes
// the three channels: COXA ← gamma', FEMUR ← alpha', TIBIA ← beta', at the
// fixed resolution of servobus.Steps.
func (l *Leg) Set(ctx context.Context, p geometry.Polar) error {
	servoAngles := l.PolarToServo(p)

	if err := l.bus.Move(ctx, l.coxaCh, int(servoAngles.Gamma), servobus.Steps); err != nil {
		return errors.Wrapf(err, "leg %d coxa channel %d", l.index, l.coxaCh)
	}
	if err := l.bus.Move(ctx, l.femurCh, int(servoAngles.Alpha), servobus.Steps); err != nil {
		return errors.Wrapf(err, "leg %d femur channel %d", l.index, l.femurCh)
	}
	if err := l.bus.Move(ctx, l.tibiaCh, int(servoAngles.Beta), servobus.Steps); err != nil {
		return errors.Wrapf(err, "leg %d tibia channel %d", l.index, l.tibiaCh)
	}
	return nil
}
