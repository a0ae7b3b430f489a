// Package servobus defines the ServoBus capability — the 16-channel PWM I²C
// device that drives every joint — plus a real PCA9685-class transport and a
// stub used for desktop runs and the STUB CLI mode.
package servobus

import "context"

// Steps is the resolution every angle write is quantized to; fixed by the
// motion engine at 180 (see Leg.Set).
const Steps = 180

// ServoBus is the capability consumed by Leg.Set and Body's lifecycle
// methods. Real and stub implementations share this surface exactly.
type ServoBus interface {
	SetLowLimit(ms float64) error
	SetHighLimit(ms float64) error
	OutputEnable() error
	OutputDisable() error
	Sleep() error
	Wake() error
	Move(ctx context.Context, channel int, position, steps int) error
}

// Translate linearly rescales value from [srcMin, srcMax] into
// [dstMin, dstMax]. Used by the real bus to turn a 0..180 degree angle into
// a PWM tick count between its min and max pulse-width ticks (within the
// 12-bit 0..4095 range) before it reaches the PCA9685 registers.
func Translate(value, srcMin, srcMax, dstMin, dstMax float64) float64 {
	srcSpan := srcMax - srcMin
	dstSpan := dstMax - dstMin
	scaled := (value - srcMin) / srcSpan
	return dstMin + scaled*dstSpan
}
