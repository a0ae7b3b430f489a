package input

// Stub is a no-op InputSource, used for NO_CONTROLLER CLI mode and tests: it
// never produces an event and ReadEventLoop blocks until stopped.
type Stub struct{}

func NewStub() *Stub { return &Stub{} }

func (s *Stub) GetLastEvent() (ControllerEvent, bool) { return NoEvent, false }

func (s *Stub) ReadEventLoop(stop <-chan struct{}) error {
	<-stop
	return nil
}

func (s *Stub) Rumble() error     { return nil }
func (s *Stub) Disconnect() error { return nil }
