package property

// Signal is an event with at most one handler.
type Signal struct {
	handler func()
}

// SetHandler sets the handler, replacing the previous one. A nil handler
// removes it.
func (s *Signal) SetHandler(f func()) { s.handler = f }

// HasHandler reports whether a handler is set.
func (s *Signal) HasHandler() bool { return s.handler != nil }

// Emit calls the handler synchronously, if any. A handler that emits the
// same signal recurses.
func (s *Signal) Emit() {
	if s.handler != nil {
		s.handler()
	}
}
