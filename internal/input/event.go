// Package input defines the InputSource capability (spec.md §6) — the
// gamepad reader — plus a real evdev-backed implementation and a no-op stub
// for NO_CONTROLLER.
package input

// ControllerEvent is a discrete gamepad event. Only D-pad and button
// presses are honored; continuous axis values are out of scope
// (spec.md §1 Non-goals).
type ControllerEvent int

const (
	NoEvent ControllerEvent = iota
	LeftPressed
	RightPressed
	UpPressed
	DownPressed
	TrianglePressed
	CrossPressed
	SquarePressed
	CirclePressed
	MenuPressed
	L2Pressed
	R2Pressed
	PSHome
	PSShare
	Released
)

func (e ControllerEvent) String() string {
	switch e {
	case NoEvent:
		return "NO_EVENT"
	case LeftPressed:
		return "LEFT_PRESSED"
	case RightPressed:
		return "RIGHT_PRESSED"
	case UpPressed:
		return "UP_PRESSED"
	case DownPressed:
		return "DOWN_PRESSED"
	case TrianglePressed:
		return "TRIANGLE_PRESSED"
	case CrossPressed:
		return "CROSS_PRESSED"
	case SquarePressed:
		return "SQUARE_PRESSED"
	case CirclePressed:
		return "CIRCLE_PRESSED"
	case MenuPressed:
		return "MENU_PRESSED"
	case L2Pressed:
		return "L2_PRESSED"
	case R2Pressed:
		return "R2_PRESSED"
	case PSHome:
		return "PS_HOME"
	case PSShare:
		return "PS_SHARE"
	case Released:
		return "RELEASED"
	default:
		return "UNKNOWN"
	}
}

// Source is the InputSource capability. GetLastEvent is the non-blocking,
// single-slot poll the ActionController's foreground loop calls every
// iteration; ReadEventLoop is the blocking read the input goroutine runs.
type Source interface {
	GetLastEvent() (ControllerEvent, bool)
	ReadEventLoop(stop <-chan struct{}) error
	Rumble() error
	Disconnect() error
}
