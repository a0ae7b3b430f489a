package servobus

import (
	"context"
	"sync"

	i2c "github.com/d2r2/go-i2c"
	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"
)

// PCA9685 register layout (16-channel PWM, the device this bus talks to).
const (
	regMode1    = 0x00
	regPrescale = 0xFE
	regLed0OnL  = 0x06 // + 4*channel for each subsequent channel's registers

	// Device address, per spec.md §6.
	DefaultAddress = 0x40
)

const (
	minPulseWidthTicks = 164 // ~0.8ms of a 50Hz (20ms) period at 4096-tick resolution
	maxPulseWidthTicks = 471 // ~2.3ms
)

// PCA9685 is the real ServoBus, talking to the 16-channel PWM device over
// I²C. All writes are serialized behind mu — the servo tick is the bus's
// only writer (per spec.md §5), but the mutex keeps this type safe to share
// regardless.
type PCA9685 struct {
	mu       sync.Mutex
	bus      *i2c.I2C
	logger   logging.Logger
	lowLimit float64
	hiLimit  float64
}

// NewPCA9685 opens the device at the given bus number and I²C address.
func NewPCA9685(busNum int, address byte, logger logging.Logger) (*PCA9685, error) {
	bus, err := i2c.NewI2C(address, busNum)
	if err != nil {
		return nil, errors.Wrapf(err, "opening i2c bus %d at address 0x%x", busNum, address)
	}
	p := &PCA9685{
		bus:      bus,
		logger:   logger,
		lowLimit: 0.8,
		hiLimit:  2.3,
	}
	if err := p.bus.WriteRegU8(regMode1, 0x00); err != nil {
		return nil, errors.Wrap(err, "resetting PCA9685 mode register")
	}
	return p, nil
}

func (p *PCA9685) SetLowLimit(ms float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.lowLimit = ms
	return nil
}

func (p *PCA9685) SetHighLimit(ms float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.hiLimit = ms
	return nil
}

func (p *PCA9685) OutputEnable() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.bus.WriteRegU8(regMode1, 0x20)
	return errors.Wrap(err, "enabling PCA9685 output")
}

func (p *PCA9685) OutputDisable() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.bus.WriteRegU8(regMode1, 0x10)
	return errors.Wrap(err, "disabling PCA9685 output")
}

func (p *PCA9685) Sleep() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.bus.WriteRegU8(regMode1, 0x10)
	return errors.Wrap(err, "sleeping PCA9685")
}

func (p *PCA9685) Wake() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.bus.WriteRegU8(regMode1, 0x00)
	return errors.Wrap(err, "waking PCA9685")
}

// Move writes a position (0..steps) to channel, converting it to a tick
// count in the device's 12-bit PWM resolution via Translate.
func (p *PCA9685) Move(ctx context.Context, channel int, position, steps int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if channel < 0 || channel > 15 {
		return errors.Errorf("channel %d out of range 0..15", channel)
	}

	ticks := int(Translate(float64(position), 0, float64(steps), minPulseWidthTicks, maxPulseWidthTicks))
	reg := byte(regLed0OnL + 4*channel)

	if err := p.bus.WriteRegU8(reg+2, byte(ticks&0xFF)); err != nil {
		return errors.Wrapf(err, "writing channel %d low byte", channel)
	}
	if err := p.bus.WriteRegU8(reg+3, byte(ticks>>8)); err != nil {
		return errors.Wrapf(err, "writing channel %d high byte", channel)
	}
	return nil
}

func (p *PCA9685) Close() error {
	return p.bus.Close()
}
