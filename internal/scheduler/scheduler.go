// Package scheduler implements the periodic-tick abstraction spec.md §9
// calls for in place of the original's SIGALRM/itimer: a small capability
// wrapping stdlib time.Timer, armed once at a slower interval to let the
// first tick settle, then rearmed at the steady-state interval for every
// tick after.
package scheduler

import (
	"sync"
	"time"

	"github.com/pkg/errors"
)

// ErrMisuse is spec.md §7's TimerMisuse condition: arming an already-armed
// scheduler, or disarming one that isn't armed.
var ErrMisuse = errors.New("periodic scheduler armed or disarmed out of sequence")

var (
	errTimerAlreadyArmed = errors.Wrap(ErrMisuse, "already armed")
	errTimerNotArmed     = errors.Wrap(ErrMisuse, "not armed")
)

// Tick is called once per period; a false return (the body is sleeping,
// spec.md §4.3) disarms the scheduler instead of rearming it.
type Tick func() (rearm bool)

// Periodic arms a repeating timer at FirstInterval, then SteadyInterval for
// every subsequent fire, until Tick returns false or Disarm is called.
type Periodic struct {
	FirstInterval  time.Duration
	SteadyInterval time.Duration
	OnTick         Tick

	mu      sync.Mutex
	timer   *time.Timer
	armed   bool
	stopped chan struct{}
}

// New builds a scheduler with the servo loop's default cadence: a 20ms first
// arm (letting the bus settle after Initialize) and a 2ms steady interval
// thereafter (spec.md §5).
func New(onTick Tick) *Periodic {
	return &Periodic{
		FirstInterval:  20 * time.Millisecond,
		SteadyInterval: 2 * time.Millisecond,
		OnTick:         onTick,
	}
}

// Arm starts the timer. Calling Arm on an already-armed scheduler is a
// TimerMisuse condition (spec.md §7) — the caller owns sequencing, not this
// package, so Arm simply reports it rather than silently ignoring it.
func (p *Periodic) Arm() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.armed {
		return errTimerAlreadyArmed
	}
	p.armed = true
	p.stopped = make(chan struct{})
	p.timer = time.AfterFunc(p.FirstInterval, p.fire)
	return nil
}

func (p *Periodic) fire() {
	rearm := p.OnTick()

	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.armed {
		return
	}
	if !rearm {
		p.armed = false
		close(p.stopped)
		return
	}
	p.timer = time.AfterFunc(p.SteadyInterval, p.fire)
}

// Disarm stops the timer. Calling Disarm while not armed is a TimerMisuse
// condition, reported rather than ignored.
func (p *Periodic) Disarm() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.armed {
		return errTimerNotArmed
	}
	p.armed = false
	p.timer.Stop()
	close(p.stopped)
	return nil
}

// Armed reports whether the scheduler is currently running.
func (p *Periodic) Armed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.armed
}

// Done returns a channel closed when the scheduler stops, whether from
// Disarm or a false OnTick return — lets a caller block until the servo
// loop has wound down before releasing the body.
func (p *Periodic) Done() <-chan struct{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopped
}
