// Package quadruped implements the CPU facade of spec.md §4.6: the single
// object that owns the body, the motion engine, the gait sequencer, the
// ActionController, and the gamepad/power peripherals, and wires them
// together the way the original QuadrupedCpu's register_movements() does.
package quadruped

import (
	"context"
	"os/exec"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"

	"github.com/Markuzzzz/t-trex/internal/action"
	"github.com/Markuzzzz/t-trex/internal/gait"
	"github.com/Markuzzzz/t-trex/internal/input"
	"github.com/Markuzzzz/t-trex/internal/kinematics"
	"github.com/Markuzzzz/t-trex/internal/motion"
	"github.com/Markuzzzz/t-trex/internal/power"
)

// Report mirrors the original firmware's get_system_report(): the power
// peripheral's telemetry plus the facade's own mode/sleep/online state.
type Report struct {
	power.SystemReport
	Mode1         bool
	Mode2         bool
	CalibrateMode bool
	Sleeping      bool
	Online        bool
}

// Quadruped is the CPU facade. There is one instance per process.
type Quadruped struct {
	logger logging.Logger

	body    *kinematics.Body
	engine  *motion.Engine
	gaits   *gait.Sequencer
	actions *action.Controller
	input   input.Source
	power   power.Status

	mu    sync.Mutex
	mode1 bool
	mode2 bool

	terminated atomic.Bool
}

// New builds the facade over an already-initialized body, an input source,
// and a power peripheral, and registers every action/event binding.
func New(body *kinematics.Body, src input.Source, pow power.Status, initialSpeed float64, logger logging.Logger) *Quadruped {
	engine := motion.NewEngine(body, initialSpeed)
	q := &Quadruped{
		logger: logger,
		body:   body,
		engine: engine,
		gaits:  gait.NewSequencer(engine),
		input:  src,
		power:  pow,
	}
	q.actions = action.NewController(src.GetLastEvent)
	q.registerMovements()

	if body.Online && !engine.CalibrateMode() {
		if err := src.Rumble(); err != nil {
			logger.Errorf("rumbling gamepad on init: %v", err)
		}
	}

	return q
}

// registerMovements reproduces register_movements()'s exact action↔event
// table, verbatim down to the pairing (spec.md §4.6, original_source
// quadruped_cpu.py).
func (q *Quadruped) registerMovements() {
	q.actions.Register(action.Mode1, q.setMode1, input.L2Pressed)
	q.actions.Register(action.Mode2, q.setMode2, input.R2Pressed)
	q.actions.Register(action.Sit, q.sit, input.CrossPressed)
	q.actions.Register(action.SpeedUp, q.speedUp, input.CirclePressed)
	q.actions.Register(action.SpeedDown, q.speedDown, input.SquarePressed)
	q.actions.Register(action.Stand, q.stand, input.TrianglePressed)
	q.actions.Register(action.Forward, q.stepForward, input.UpPressed)
	q.actions.Register(action.Backward, q.stepBackward, input.DownPressed)
	q.actions.Register(action.TurnRight, q.turnRight, input.RightPressed)
	q.actions.Register(action.TurnLeft, q.turnLeft, input.LeftPressed)
	q.actions.Register(action.Shutdown, q.shutdown, input.MenuPressed)
	q.actions.Register(action.Calibrate, q.calibrate, input.PSShare)
	q.actions.Register(action.Report, q.printSystemReport, input.PSHome)
	q.actions.Register(action.ReleasedAction, q.resetModes, input.Released)
}

func (q *Quadruped) setMode1() {
	q.mu.Lock()
	q.mode1 = true
	q.mu.Unlock()
	q.actions.EndAction(false)
}

func (q *Quadruped) setMode2() {
	q.mu.Lock()
	q.mode2 = true
	q.mu.Unlock()
	q.actions.EndAction(false)
}

func (q *Quadruped) resetModes() {
	q.mu.Lock()
	q.mode1 = false
	q.mode2 = false
	q.mu.Unlock()
	q.actions.EndAction(false)
}

func (q *Quadruped) sit() {
	if !q.mode1Flag() {
		q.gaits.Sit()
	} else {
		q.gaits.HeadDown(func(leg int) float64 { return q.body.Leg(leg).Target().Z() })
		q.mu.Lock()
		q.mode1 = false
		q.mu.Unlock()
	}
	q.actions.EndAction(false)
}

func (q *Quadruped) stand() {
	if !q.mode1Flag() {
		q.gaits.Stand()
	} else {
		q.gaits.HeadUp(func(leg int) float64 { return q.body.Leg(leg).Target().Z() })
		q.mu.Lock()
		q.mode1 = false
		q.mu.Unlock()
	}
	q.actions.EndAction(false)
}

func (q *Quadruped) speedUp() {
	q.gaits.SpeedUp()
	q.actions.EndAction(false)
}

func (q *Quadruped) speedDown() {
	q.gaits.SpeedDown()
	q.actions.EndAction(false)
}

func (q *Quadruped) stepForward() {
	q.gaits.StepForward(q.body.Leg(kinematics.LeftFront).Target().Y())
	q.actions.EndAction(true)
}

func (q *Quadruped) stepBackward() {
	q.gaits.StepBackward(q.body.Leg(kinematics.LeftBack).Target().Y())
	q.actions.EndAction(true)
}

func (q *Quadruped) turnRight() {
	q.gaits.TurnRight(q.body.Leg(kinematics.LeftFront).Target().Y())
	q.actions.EndAction(true)
}

func (q *Quadruped) turnLeft() {
	q.gaits.TurnLeft(q.body.Leg(kinematics.LeftBack).Target().Y())
	q.actions.EndAction(true)
}

// calibrate implements calibrate(): a falling-edge toggle of calibrate_mode
// gated by !is_repeating(), so holding PS_SHARE doesn't thrash the bus every
// tick the button stays down (DESIGN.md Open Question 3).
func (q *Quadruped) calibrate() {
	if !q.actions.IsRepeating() {
		if !q.mode1Flag() {
			q.engine.SetCalibrateMode(!q.engine.CalibrateMode())
		} else if err := q.body.ResetToDefaultStance(); err != nil {
			q.logger.Errorf("resetting to default stance: %v", err)
		}
		q.actions.EndAction(false)
	}
}

// printSystemReport implements print_system_report(): gated the same way as
// calibrate so a held PS_HOME doesn't spam the log every tick.
func (q *Quadruped) printSystemReport() {
	if !q.actions.IsRepeating() {
		report, err := q.GetSystemReport(context.Background())
		if err != nil {
			q.logger.Errorf("building system report: %v", err)
		} else {
			q.logger.Infof("system report: charge=%.0f%% voltage=%.2fV current=%.0fmA io_voltage=%.2fV io_current=%.0fmA "+
				"temperature=%.0fC fault=%s firmware=%s mode1=%t mode2=%t calibrate_mode=%t sleeping=%t online=%t",
				report.Charge, report.Voltage, report.Current, report.IOVoltage, report.IOCurrent,
				report.Temperature, report.Fault, report.FirmwareVersion,
				report.Mode1, report.Mode2, report.CalibrateMode, report.Sleeping, report.Online)
		}
		q.actions.EndAction(false)
	}
}

// shutdown implements shutdown(): a hard platform shutdown only if both mode
// flags are set (a deliberate two-button interlock), a soft one otherwise.
// Either way it raises ErrProgramTerminated, which RunOnce surfaces to the
// caller instead of an exception unwind.
func (q *Quadruped) shutdown() {
	q.mu.Lock()
	hard := q.mode1 && q.mode2
	q.mu.Unlock()

	if hard {
		q.logger.Info("hard shutdown initiated")
		if err := exec.Command("shutdown", "-h", "now").Run(); err != nil {
			q.logger.Errorf("issuing platform shutdown: %v", err)
		}
	} else {
		q.logger.Info("soft shutdown initiated")
	}
	q.terminated.Store(true)
}

func (q *Quadruped) mode1Flag() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.mode1
}

// ServoTick delegates to the motion engine's round-robin tick.
func (q *Quadruped) ServoTick(ctx context.Context) (bool, error) {
	return q.engine.ServoTick(ctx)
}

// RunOnce polls for a gamepad event and dispatches it through the
// ActionController. It returns ErrProgramTerminated once shutdown() has run.
func (q *Quadruped) RunOnce() error {
	q.actions.Execute()
	if q.terminated.Load() {
		return ErrProgramTerminated
	}
	return nil
}

// Sleep puts the body to sleep (disables/sleeps the servo bus).
func (q *Quadruped) Sleep() error {
	q.engine.SetSleeping(true)
	return q.body.SleepMode()
}

// Awake wakes the body and rumbles the gamepad, if connected.
func (q *Quadruped) Awake() error {
	q.engine.SetSleeping(false)
	if err := q.body.WakeUpMode(); err != nil {
		return err
	}
	return q.input.Rumble()
}

// Release implements release(): sleep, disconnect the gamepad, end any
// in-flight action. It is idempotent and safe to call more than once.
func (q *Quadruped) Release() error {
	if err := q.Sleep(); err != nil {
		return errors.Wrap(err, "sleeping body during release")
	}
	if err := q.input.Disconnect(); err != nil {
		return errors.Wrap(err, "disconnecting input source during release")
	}
	q.actions.EndAction(false)
	return nil
}

// GetSystemReport combines the power peripheral's telemetry with the
// facade's own mode/sleep/online state, matching get_system_report().
func (q *Quadruped) GetSystemReport(ctx context.Context) (Report, error) {
	sys, err := q.power.Report(ctx)
	if err != nil {
		return Report{}, errors.Wrap(err, "reading power status report")
	}
	return Report{
		SystemReport:  sys,
		Mode1:         q.mode1Flag(),
		Mode2:         q.mode2Flag(),
		CalibrateMode: q.engine.CalibrateMode(),
		Sleeping:      q.engine.Sleeping(),
		Online:        q.body.Online,
	}, nil
}

func (q *Quadruped) mode2Flag() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.mode2
}

// SetStatusLED forwards to the power peripheral's LED.
func (q *Quadruped) SetStatusLED(ctx context.Context, r, g, b uint8) error {
	return q.power.SetLED(ctx, r, g, b)
}

// SetErrorState flashes the status LED red, matching set_error_state().
func (q *Quadruped) SetErrorState(ctx context.Context) error {
	return q.SetStatusLED(ctx, 200, 0, 0)
}

// SetErrorStateIfFailed sets the status LED red for any error other than a
// clean ErrProgramTerminated shutdown, for which it turns the LED off
// instead. Intended for the top-level process loop's deferred cleanup.
func (q *Quadruped) SetErrorStateIfFailed(ctx context.Context, runErr error) error {
	if runErr == nil || errors.Is(runErr, ErrProgramTerminated) {
		return q.SetStatusLED(ctx, 0, 0, 0)
	}
	return q.SetErrorState(ctx)
}

