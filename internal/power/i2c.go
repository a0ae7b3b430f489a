package power

import (
	"context"
	"sync"

	i2c "github.com/d2r2/go-i2c"
	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"
)

// Battery/status peripheral register map. Modeled on the original
// firmware's PiJuice usage (address 0x14 on bus 1) — see
// original_source/source/quadruped_cpu.py.
const (
	DefaultAddress = 0x14
	DefaultBus     = 1

	regLEDState     = 0x06
	regChargeLevel  = 0x41
	regBatteryVolt  = 0x49
	regBatteryCurr  = 0x4B
	regIOVolt       = 0x4D
	regIOCurr       = 0x4F
	regTemperature  = 0x47
	regFault        = 0x85
	regFirmwareVers = 0xFD
)

// I2C is the real PowerStatus implementation.
type I2C struct {
	mu     sync.Mutex
	bus    *i2c.I2C
	logger logging.Logger
}

// NewI2C opens the battery/status peripheral at the given bus/address.
func NewI2C(busNum int, address byte, logger logging.Logger) (*I2C, error) {
	bus, err := i2c.NewI2C(address, busNum)
	if err != nil {
		return nil, errors.Wrapf(err, "opening power peripheral at bus %d address 0x%x", busNum, address)
	}
	return &I2C{bus: bus, logger: logger}, nil
}

func (p *I2C) SetLED(ctx context.Context, r, g, b uint8) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.bus.WriteRegU8(regLEDState, r); err != nil {
		return errors.Wrap(err, "writing LED red channel")
	}
	if err := p.bus.WriteRegU8(regLEDState+1, g); err != nil {
		return errors.Wrap(err, "writing LED green channel")
	}
	if err := p.bus.WriteRegU8(regLEDState+2, b); err != nil {
		return errors.Wrap(err, "writing LED blue channel")
	}
	return nil
}

func (p *I2C) Report(ctx context.Context) (SystemReport, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	charge, err := p.bus.ReadRegU8(regChargeLevel)
	if err != nil {
		return SystemReport{}, errors.Wrap(err, "reading charge level")
	}
	volt, err := p.bus.ReadRegU16LE(regBatteryVolt)
	if err != nil {
		return SystemReport{}, errors.Wrap(err, "reading battery voltage")
	}
	curr, err := p.bus.ReadRegU16LE(regBatteryCurr)
	if err != nil {
		return SystemReport{}, errors.Wrap(err, "reading battery current")
	}
	ioVolt, err := p.bus.ReadRegU16LE(regIOVolt)
	if err != nil {
		return SystemReport{}, errors.Wrap(err, "reading IO voltage")
	}
	ioCurr, err := p.bus.ReadRegU16LE(regIOCurr)
	if err != nil {
		return SystemReport{}, errors.Wrap(err, "reading IO current")
	}
	temp, err := p.bus.ReadRegU8(regTemperature)
	if err != nil {
		return SystemReport{}, errors.Wrap(err, "reading temperature")
	}
	fault, err := p.bus.ReadRegU8(regFault)
	if err != nil {
		return SystemReport{}, errors.Wrap(err, "reading fault register")
	}
	fw, err := p.bus.ReadRegU8(regFirmwareVers)
	if err != nil {
		return SystemReport{}, errors.Wrap(err, "reading firmware version")
	}

	return SystemReport{
		Charge:          float64(charge),
		Voltage:         float64(volt) / 1000,
		Current:         float64(int16(curr)),
		IOVoltage:       float64(ioVolt) / 1000,
		IOCurrent:       float64(int16(ioCurr)),
		Temperature:     float64(temp),
		Fault:           faultString(fault),
		FirmwareVersion: versionString(fw),
	}, nil
}

func (p *I2C) Close() error {
	return p.bus.Close()
}

func faultString(code byte) string {
	if code == 0 {
		return "none"
	}
	return "fault"
}

func versionString(v byte) string {
	return string(rune('0'+v/16)) + "." + string(rune('0'+v%16))
}
