package input

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/viamrobotics/evdev"
	"go.viam.com/rdk/logging"
)

// Connect retry policy, per spec.md §6/§7.
const (
	connectRetries = 30
	connectDelay   = 5 * time.Second
)

// Raw evdev (code, value) pairs, exactly as read in the original firmware's
// gamepad profile table.
const (
	codeDPadX = 16
	codeDPadY = 17

	codeTriangle = 307
	codeCross    = 304
	codeSquare   = 308
	codeCircle   = 305
	codeMenu     = 315
	codeL2       = 312
	codeR2       = 313
	codePSHome   = 316
	codePSShare  = 314
)

// Evdev is the real InputSource, reading a Linux evdev character device.
type Evdev struct {
	device *evdev.InputDevice
	logger logging.Logger

	mu        sync.Mutex
	lastEvent ControllerEvent
	hasEvent  bool
}

// Connect opens devicePath, trying connectRetries times at connectDelay
// intervals and then returning the last open error wrapped with the device
// path (cmd/trexd maps it to ErrNoInputConnected), matching the original
// firmware's 30-retry/5s gamepad connect loop.
func Connect(devicePath string, logger logging.Logger) (*Evdev, error) {
	var dev *evdev.InputDevice
	var err error

	for attempt := 0; attempt < connectRetries; attempt++ {
		dev, err = evdev.Open(devicePath)
		if err == nil {
			break
		}
		logger.Warnf("gamepad connect attempt %d/%d failed: %v", attempt+1, connectRetries, err)
		time.Sleep(connectDelay)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "no gamepad at %s after %d attempts", devicePath, connectRetries)
	}

	return &Evdev{device: dev, logger: logger}, nil
}

func (e *Evdev) GetLastEvent() (ControllerEvent, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.hasEvent {
		return NoEvent, false
	}
	ev := e.lastEvent
	e.hasEvent = false
	return ev, true
}

// ReadEventLoop blocks reading raw evdev events, translating them per the
// profile table above and pushing into the single-slot mailbox, until stop
// is closed, MENU is pressed, or the device read fails (the read error is
// returned wrapped).
func (e *Evdev) ReadEventLoop(stop <-chan struct{}) error {
	for {
		select {
		case <-stop:
			return nil
		default:
		}

		raw, err := e.device.ReadOne()
		if err != nil {
			return errors.Wrap(err, "reading gamepad event")
		}

		ev, ok := translate(int(raw.Code), int(raw.Value))
		if !ok {
			continue
		}

		if ev == MenuPressed {
			_ = e.Disconnect()
			e.push(ev)
			return nil
		}

		e.push(ev)
	}
}

func (e *Evdev) push(ev ControllerEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastEvent = ev
	e.hasEvent = true
}

// translate maps a raw (code, value) evdev event to a ControllerEvent, per
// the exact profile in spec.md §6 / original_source's game_controller.py.
// value == 0 means "released"; all others map to a press.
func translate(code, value int) (ControllerEvent, bool) {
	if value == 0 {
		return Released, true
	}

	switch code {
	case codeDPadX:
		if value < 0 {
			return LeftPressed, true
		}
		return RightPressed, true
	case codeDPadY:
		if value < 0 {
			return UpPressed, true
		}
		return DownPressed, true
	case codeTriangle:
		return TrianglePressed, true
	case codeCross:
		return CrossPressed, true
	case codeSquare:
		return SquarePressed, true
	case codeCircle:
		return CirclePressed, true
	case codeMenu:
		return MenuPressed, true
	case codeL2:
		return L2Pressed, true
	case codeR2:
		return R2Pressed, true
	case codePSHome:
		return PSHome, true
	case codePSShare:
		return PSShare, true
	default:
		return NoEvent, false
	}
}

func (e *Evdev) Rumble() error {
	return errors.Wrap(e.device.SetForceFeedback(true), "rumbling gamepad")
}

func (e *Evdev) Disconnect() error {
	return e.device.Close()
}
