package quadruped

import "github.com/pkg/errors"

// Sentinel errors per spec.md §7. Callers compare with errors.Is; wrapping
// with errors.Wrap elsewhere preserves this identity.
var (
	ErrNoInputConnected  = errors.New("no gamepad connected")
	ErrInputDisconnected = errors.New("gamepad disconnected during operation")
	ErrServoBusInitFailed = errors.New("servo bus failed to initialize")
	ErrPowerInitFailed   = errors.New("power status peripheral failed to initialize")
	ErrProgramTerminated = errors.New("program terminated by shutdown action")
	ErrTimerMisuse       = errors.New("periodic scheduler armed or disarmed out of sequence")
)
