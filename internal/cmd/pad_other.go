//go:build !linux

package cmd

import (
	"errors"

	"github.com/Battleboy96/sky-hook/pad"
)

// openPadPoller has no joystick backend off Linux; the daemon runs with the
// gesture toggle inert and the control API as the only switch.
func openPadPoller(device string) (pad.Poller, func() error, error) {
	return pad.PollerFunc(func() (uint32, error) { return 0, nil }), nil,
		errors.New("no pad backend on this platform")
}
