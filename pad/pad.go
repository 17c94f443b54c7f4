// Package pad abstracts controller input for the toggle gesture. A Poller
// reports the currently pressed buttons as a bitmask; backends translate
// whatever the platform exposes (joystick device nodes, a host pad API)
// into that mask.
package pad

// Poller reports the buttons currently held on the controller.
type Poller interface {
	Buttons() (uint32, error)
}

// PollerFunc adapts a plain function to the Poller interface.
type PollerFunc func() (uint32, error)

func (f PollerFunc) Buttons() (uint32, error) { return f() }
