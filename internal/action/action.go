// Package action implements the ActionController — the single-slot event
// dispatcher described in spec.md §4.5.
package action

import (
	"sync"

	"github.com/Markuzzzz/t-trex/internal/input"
)

// Action is the set of named actions the gamepad can trigger.
type Action int

const (
	Forward Action = iota
	Backward
	TurnLeft
	TurnRight
	Sit
	Stand
	Wave
	Dance
	Shutdown
	Mode1
	Mode2
	SpeedUp
	SpeedDown
	ReleasedAction
	Report
	Calibrate
)

func (a Action) String() string {
	switch a {
	case Forward:
		return "FORWARD"
	case Backward:
		return "BACKWARD"
	case TurnLeft:
		return "TURN_LEFT"
	case TurnRight:
		return "TURN_RIGHT"
	case Sit:
		return "SIT"
	case Stand:
		return "STAND"
	case Wave:
		return "WAVE"
	case Dance:
		return "DANCE"
	case Shutdown:
		return "SHUTDOWN"
	case Mode1:
		return "MODE_1"
	case Mode2:
		return "MODE_2"
	case SpeedUp:
		return "SPEED_UP"
	case SpeedDown:
		return "SPEED_DOWN"
	case ReleasedAction:
		return "RELEASED"
	case Report:
		return "REPORT"
	case Calibrate:
		return "CALIBRATE"
	default:
		return "UNKNOWN"
	}
}

// EventSource is the non-blocking poll the foreground loop calls every
// iteration of execute(); it returns (event, true) if one is pending or
// (zero, false) if the mailbox is empty.
type EventSource func() (input.ControllerEvent, bool)

// Controller is the single-slot ActionController. There is exactly one
// instance per process; it is not meant to be copied.
type Controller struct {
	mu sync.Mutex

	handlers     map[Action]func()
	actionEvents map[input.ControllerEvent]Action

	currentAction *Action
	lastAction    *Action
	isBusy        bool
	repeatAction  bool
	released      bool

	eventSource EventSource
}

// NewController builds an ActionController that polls events via source.
func NewController(source EventSource) *Controller {
	return &Controller{
		handlers:     make(map[Action]func()),
		actionEvents: make(map[input.ControllerEvent]Action),
		eventSource:  source,
	}
}

// Register binds action to fn (invoked synchronously by Execute) and to the
// gamepad event that triggers it.
func (c *Controller) Register(a Action, fn func(), ev input.ControllerEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[a] = fn
	c.actionEvents[ev] = a
}

// ProcessEvent implements spec.md §4.5's process_event: NO_EVENT is a
// defensive no-op (see DESIGN.md Open Question 1); RELEASED clears
// last_action and looks up the RELEASED binding; any other event clears the
// released flag and looks up its binding.
func (c *Controller) ProcessEvent(ev input.ControllerEvent) (Action, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ev == input.NoEvent {
		return 0, false
	}

	if ev == input.Released {
		c.released = true
		c.lastAction = nil
		a, ok := c.actionEvents[input.Released]
		return a, ok
	}

	c.released = false
	a, ok := c.actionEvents[ev]
	return a, ok
}

// Execute implements spec.md §4.5's execute(): poll for an event, fall back
// to repeating the last action if none arrived, and dispatch synchronously
// if the slot is free.
func (c *Controller) Execute() {
	ev, hasEvent := c.eventSource()

	var proposed Action
	var hasProposed bool

	if hasEvent {
		proposed, hasProposed = c.ProcessEvent(ev)
	} else {
		c.mu.Lock()
		if c.repeatAction && c.lastAction != nil {
			proposed, hasProposed = *c.lastAction, true
		}
		c.mu.Unlock()
	}

	if !hasProposed {
		return
	}

	c.mu.Lock()
	if c.isBusy {
		c.mu.Unlock()
		return
	}
	c.currentAction = &proposed
	c.isBusy = true
	handler := c.handlers[proposed]
	c.mu.Unlock()

	if handler != nil {
		handler()
	}
}

// EndAction implements spec.md §4.5's end_action(repeat): the handler calls
// this when its gait/posture sequence finishes.
func (c *Controller) EndAction(repeat bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastAction = c.currentAction
	c.isBusy = false
	c.currentAction = nil
	c.repeatAction = repeat
}

// IsRepeating reports whether the action currently running is the same one
// that just finished (current_action == last_action), literally including
// the None == None case: if neither is set, the comparison is vacuously true.
func (c *Controller) IsRepeating() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.currentAction == nil && c.lastAction == nil {
		return true
	}
	if c.currentAction == nil || c.lastAction == nil {
		return false
	}
	return *c.currentAction == *c.lastAction
}

// IsBusy reports whether an action handler is currently running.
func (c *Controller) IsBusy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isBusy
}
