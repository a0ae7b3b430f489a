package action

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Markuzzzz/t-trex/internal/input"
)

// fakeSource is a simple test double for EventSource: it yields queued
// events once each, then reports "no event" forever.
type fakeSource struct {
	queue []input.ControllerEvent
}

func (f *fakeSource) next() (input.ControllerEvent, bool) {
	if len(f.queue) == 0 {
		return input.NoEvent, false
	}
	ev := f.queue[0]
	f.queue = f.queue[1:]
	return ev, true
}

// S4 — event-to-action.
func TestExecuteDispatchesOneShotThenRepeatingAction(t *testing.T) {
	src := &fakeSource{}
	c := NewController(src.next)

	sitCalls := 0
	c.Register(Sit, func() {
		sitCalls++
		c.EndAction(false) // one-shot
	}, input.CrossPressed)

	forwardCalls := 0
	c.Register(Forward, func() {
		forwardCalls++
		c.EndAction(true) // repeat
	}, input.UpPressed)

	src.queue = append(src.queue, input.CrossPressed)
	c.Execute()
	require.Equal(t, 1, sitCalls)

	// SIT is one-shot: further polls with no event do nothing.
	c.Execute()
	c.Execute()
	require.Equal(t, 1, sitCalls)

	src.queue = append(src.queue, input.UpPressed)
	c.Execute()
	require.Equal(t, 1, forwardCalls)

	// FORWARD ended with repeat_action=true: the next execute() with no new
	// event re-invokes it.
	c.Execute()
	require.Equal(t, 2, forwardCalls)
}

func TestProcessEventNoEventIsDefensiveNoop(t *testing.T) {
	c := NewController(func() (input.ControllerEvent, bool) { return input.NoEvent, false })
	_, ok := c.ProcessEvent(input.NoEvent)
	require.False(t, ok)
}

func TestProcessEventReleased(t *testing.T) {
	c := NewController(func() (input.ControllerEvent, bool) { return input.NoEvent, false })
	c.Register(ReleasedAction, func() {}, input.Released)

	a, ok := c.ProcessEvent(input.Released)
	require.True(t, ok)
	require.Equal(t, ReleasedAction, a)
}

// Property 6: is_repeating() iff current_action == last_action.
func TestIsRepeating(t *testing.T) {
	src := &fakeSource{}
	c := NewController(src.next)

	var observed bool
	c.Register(Forward, func() {
		observed = c.IsRepeating()
		c.EndAction(true)
	}, input.UpPressed)

	src.queue = append(src.queue, input.UpPressed)
	c.Execute()
	require.False(t, observed) // first invocation: last_action was nil

	c.Execute() // repeats with no new event
	require.True(t, observed)
}

// Property 7: idempotence of end_action(false).
func TestEndActionIdempotent(t *testing.T) {
	c := NewController(func() (input.ControllerEvent, bool) { return input.NoEvent, false })
	c.EndAction(false)
	c.EndAction(false)
	require.False(t, c.IsBusy())
	require.False(t, c.repeatAction)
}

// Property 8: event_source yields None + repeat_action semantics.
func TestExecuteRepeatFlagGatesReinvocation(t *testing.T) {
	src := &fakeSource{}
	c := NewController(src.next)

	calls := 0
	c.Register(Sit, func() {
		calls++
		c.EndAction(false)
	}, input.CrossPressed)

	src.queue = append(src.queue, input.CrossPressed)
	c.Execute()
	require.Equal(t, 1, calls)

	c.Execute()
	require.Equal(t, 1, calls) // repeat_action is false: no reinvocation
}

func TestExecuteDoesNothingWhileBusy(t *testing.T) {
	src := &fakeSource{}
	c := NewController(src.next)

	calls := 0
	c.Register(Sit, func() {
		calls++
		// deliberately does not call EndAction — stays busy
	}, input.CrossPressed)

	src.queue = append(src.queue, input.CrossPressed, input.CrossPressed)
	c.Execute()
	c.Execute()
	require.Equal(t, 1, calls)
}
