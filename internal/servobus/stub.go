package servobus

import "context"

// Stub is a no-op ServoBus used for STUB CLI mode and for tests — every
// method succeeds and does nothing, mirroring the original firmware's
// servo_stub_controller.
type Stub struct{}

func NewStub() *Stub { return &Stub{} }

func (s *Stub) SetLowLimit(ms float64) error  { return nil }
func (s *Stub) SetHighLimit(ms float64) error { return nil }
func (s *Stub) OutputEnable() error           { return nil }
func (s *Stub) OutputDisable() error          { return nil }
func (s *Stub) Sleep() error                  { return nil }
func (s *Stub) Wake() error                   { return nil }

func (s *Stub) Move(ctx context.Context, channel int, position, steps int) error {
	return nil
}
