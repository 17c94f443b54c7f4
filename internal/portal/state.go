// Package portal implements the interception core: the dispatcher that
// decides pass-through versus emulated handling per transfer, the toggle
// controller that flips emulation from a controller gesture, and the plugin
// lifecycle that wires them to the host.
package portal

import "sync/atomic"

// State is the shared emulation flag. It is written by the toggle
// controller and read by the dispatcher on every transfer; atomic access
// means readers may lag a write by at most one poll interval, never observe
// a torn value.
type State struct {
	enabled atomic.Bool
}

// NewState returns a State with the given initial value. Emulation is on by
// default at start-up.
func NewState(enabled bool) *State {
	s := &State{}
	s.enabled.Store(enabled)
	return s
}

func (s *State) Enabled() bool { return s.enabled.Load() }

func (s *State) Set(v bool) { s.enabled.Store(v) }

// Toggle flips the flag and returns the new value.
func (s *State) Toggle() bool {
	for {
		old := s.enabled.Load()
		if s.enabled.CompareAndSwap(old, !old) {
			return !old
		}
	}
}
