// Package power defines the PowerStatus capability (spec.md §6) — the
// battery/status peripheral — plus an I²C-backed real implementation and a
// stub.
package power

import "context"

// SystemReport groups the telemetry fields spec.md §6 lists individually,
// matching the original firmware's get_system_report(). Supplemented per
// SPEC_FULL.md §9.1.
type SystemReport struct {
	Charge          float64
	Voltage         float64
	Current         float64
	IOVoltage       float64
	IOCurrent       float64
	Temperature     float64
	Fault           string
	FirmwareVersion string
}

func (r SystemReport) ChargePercent() float64  { return r.Charge }
func (r SystemReport) BatteryVoltage() float64 { return r.Voltage }
func (r SystemReport) BatteryCurrent() float64 { return r.Current }
func (r SystemReport) IOVoltageLevel() float64 { return r.IOVoltage }
func (r SystemReport) IOCurrentLevel() float64 { return r.IOCurrent }
func (r SystemReport) TemperatureC() float64   { return r.Temperature }
func (r SystemReport) IsFaulted() bool         { return r.Fault != "none" }

// Status is the PowerStatus capability.
type Status interface {
	SetLED(ctx context.Context, r, g, b uint8) error
	Report(ctx context.Context) (SystemReport, error)
}
