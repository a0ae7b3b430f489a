// Package config loads and validates the process-level JSON configuration:
// servo bus wiring, the gamepad device path, the power peripheral address,
// and per-leg calibration offsets. Modeled on the teacher's
// SoArm101Config/LoadCalibration file-loading pattern.
package config

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/Markuzzzz/t-trex/internal/kinematics"
)

// LegCalibration is one leg's factory offset, applied in PolarToServo.
type LegCalibration struct {
	Alpha float64 `json:"alpha"`
	Beta  float64 `json:"beta"`
	Gamma float64 `json:"gamma"`
}

// Config is the full process configuration, loaded from a JSON file at
// startup (spec.md §6's CLI surface takes its path via --config).
type Config struct {
	ServoBusNum     int `json:"servo_bus_num"`
	ServoBusAddress int `json:"servo_bus_address"`

	PowerBusNum     int `json:"power_bus_num"`
	PowerBusAddress int `json:"power_bus_address"`

	GamepadDevicePath string `json:"gamepad_device_path"`

	InitialMoveSpeed float64 `json:"initial_move_speed"`

	LegCalibration [4]LegCalibration `json:"leg_calibration"`
}

// Default returns a Config with the original firmware's hard-coded wiring:
// PCA9685 on bus 1 at 0x40, PiJuice-style power peripheral on bus 1 at
// 0x14, /dev/input/js0 for the gamepad, and zero calibration offsets.
func Default() Config {
	return Config{
		ServoBusNum:       1,
		ServoBusAddress:   0x40,
		PowerBusNum:       1,
		PowerBusAddress:   0x14,
		GamepadDevicePath: "/dev/input/js0",
		InitialMoveSpeed:  8.0,
	}
}

// Load reads a JSON config file, falling back to Default() when path is
// empty (matching the teacher's CalibrationFile-unset behavior).
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config file %s", path)
	}

	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parsing config file %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate ensures all parts of the config are usable: it fills in the
// default for a zero servo or power bus address and an empty gamepad path,
// and rejects a non-positive initial_move_speed (the teacher's Validate pattern, adapted
// from a resource-config validator to a plain error return since this
// process has no RDK dependency graph to report back into).
func (c *Config) Validate() error {
	if c.ServoBusAddress == 0 {
		c.ServoBusAddress = 0x40
	}
	if c.PowerBusAddress == 0 {
		c.PowerBusAddress = 0x14
	}
	if c.GamepadDevicePath == "" {
		c.GamepadDevicePath = "/dev/input/js0"
	}
	if c.InitialMoveSpeed <= 0 {
		return errors.New("initial_move_speed must be positive")
	}
	return nil
}

// LegCalibrations converts the JSON-friendly array into the
// kinematics.CalibrationError values Body.Leg(i).SetCalibrationError wants.
func (c Config) LegCalibrations() [4]kinematics.CalibrationError {
	var out [4]kinematics.CalibrationError
	for i, lc := range c.LegCalibration {
		out[i] = kinematics.CalibrationError{Alpha: lc.Alpha, Beta: lc.Beta, Gamma: lc.Gamma}
	}
	return out
}
