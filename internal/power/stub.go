package power

import "context"

// Stub is a no-op PowerStatus used for STUB/NO_CONTROLLER runs and tests.
type Stub struct {
	lastR, lastG, lastB uint8
}

func NewStub() *Stub { return &Stub{} }

func (s *Stub) SetLED(ctx context.Context, r, g, b uint8) error {
	s.lastR, s.lastG, s.lastB = r, g, b
	return nil
}

func (s *Stub) Report(ctx context.Context) (SystemReport, error) {
	return SystemReport{FirmwareVersion: "stub"}, nil
}
