//go:build linux

package cmd

import (
	"github.com/Battleboy96/sky-hook/pad"
)

// openPadPoller opens the joystick device node. On failure a zero poller is
// returned so the daemon still runs, with the gesture toggle inert.
func openPadPoller(device string) (pad.Poller, func() error, error) {
	js, err := pad.OpenJoystick(device)
	if err != nil {
		return pad.PollerFunc(func() (uint32, error) { return 0, nil }), nil, err
	}
	return js, js.Close, nil
}
