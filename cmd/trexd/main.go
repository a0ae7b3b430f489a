// Command trexd is the quadruped firmware's process entrypoint: it wires the
// servo bus, gamepad, and power peripheral (or their stubs), arms the
// periodic servo tick, and runs the ActionController's foreground loop until
// a shutdown action or termination signal.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.viam.com/rdk/logging"

	"github.com/Markuzzzz/t-trex/internal/config"
	"github.com/Markuzzzz/t-trex/internal/input"
	"github.com/Markuzzzz/t-trex/internal/kinematics"
	"github.com/Markuzzzz/t-trex/internal/power"
	"github.com/Markuzzzz/t-trex/internal/quadruped"
	"github.com/Markuzzzz/t-trex/internal/scheduler"
	"github.com/Markuzzzz/t-trex/internal/servobus"
)

const (
	tokenStub         = "STUB"
	tokenNoController = "NO_CONTROLLER"
)

var configFlag = &cli.StringFlag{
	Name:  "config",
	Usage: "path to the JSON process config; omitted = built-in defaults",
}

func main() {
	app := &cli.App{
		Name:   "trexd",
		Usage:  "quadruped firmware: servo tick, gait sequencing, gamepad control",
		Flags:  []cli.Flag{configFlag},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		logging.NewLogger("trexd").Errorf("fatal: %v", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logger := logging.NewLogger("trexd")

	cfg, err := config.Load(c.String(configFlag.Name))
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	useStubBus := false
	useNoController := false
	for _, arg := range c.Args().Slice() {
		switch arg {
		case tokenStub:
			useStubBus = true
		case tokenNoController:
			useNoController = true
		}
	}

	bus, online, err := buildServoBus(cfg, useStubBus, logger)
	if err != nil {
		return errors.Wrap(quadruped.ErrServoBusInitFailed, err.Error())
	}

	body, err := kinematics.NewBody(bus, online)
	if err != nil {
		return errors.Wrap(err, "constructing body")
	}
	for i, cal := range cfg.LegCalibrations() {
		body.Leg(i).SetCalibrationError(cal)
	}
	if online {
		if err := body.Initialize(); err != nil {
			return errors.Wrap(err, "initializing servo bus")
		}
	}

	src, err := buildInputSource(cfg, useNoController, logger)
	if err != nil {
		return errors.Wrap(quadruped.ErrNoInputConnected, err.Error())
	}

	powerStatus, err := buildPowerStatus(cfg, useStubBus, logger)
	if err != nil {
		return errors.Wrap(quadruped.ErrPowerInitFailed, err.Error())
	}

	q := quadruped.New(body, src, powerStatus, cfg.InitialMoveSpeed, logger)

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		logger.Info("termination signal received")
		cancel()
	}()

	stopInput := make(chan struct{})
	go func() {
		if err := src.ReadEventLoop(stopInput); err != nil {
			logger.Errorf("gamepad read loop: %v", err)
		}
	}()
	defer close(stopInput)

	sched := scheduler.New(func() bool {
		rearm, tickErr := q.ServoTick(ctx)
		if tickErr != nil {
			logger.Errorf("servo tick: %v", tickErr)
		}
		return rearm
	})
	if err := sched.Arm(); err != nil {
		return errors.Wrap(err, "arming servo scheduler")
	}

	runErr := mainLoop(ctx, q)

	if err := q.SetErrorStateIfFailed(ctx, runErr); err != nil {
		logger.Errorf("setting status LED during shutdown: %v", err)
	}
	if err := q.Release(); err != nil {
		logger.Errorf("releasing resources: %v", err)
	}

	if errors.Is(runErr, quadruped.ErrProgramTerminated) {
		return nil
	}
	return runErr
}

// mainLoop is the original's run(): repeatedly poll for a gamepad event and
// dispatch it, until RunOnce reports termination or the context is
// cancelled by a signal.
func mainLoop(ctx context.Context, q *quadruped.Quadruped) error {
	for {
		select {
		case <-ctx.Done():
			return quadruped.ErrProgramTerminated
		default:
		}
		if err := q.RunOnce(); err != nil {
			return err
		}
	}
}

func buildServoBus(cfg config.Config, stub bool, logger logging.Logger) (servobus.ServoBus, bool, error) {
	if stub {
		return servobus.NewStub(), false, nil
	}
	bus, err := servobus.NewPCA9685(cfg.ServoBusNum, byte(cfg.ServoBusAddress), logger)
	if err != nil {
		return nil, false, err
	}
	return bus, true, nil
}

func buildInputSource(cfg config.Config, noController bool, logger logging.Logger) (input.Source, error) {
	if noController {
		return input.NewStub(), nil
	}
	return input.Connect(cfg.GamepadDevicePath, logger)
}

func buildPowerStatus(cfg config.Config, stub bool, logger logging.Logger) (power.Status, error) {
	if stub {
		return power.NewStub(), nil
	}
	return power.NewI2C(cfg.PowerBusNum, byte(cfg.PowerBusAddress), logger)
}
