package cmd

import "log/slog"

// Install registers skyhook as a system service (systemd on Linux).
type Install struct{}

func (i *Install) Run(logger *slog.Logger) error {
	return install(logger)
}

// Uninstall removes the skyhook system service.
type Uninstall struct{}

func (u *Uninstall) Run(logger *slog.Logger) error {
	return uninstall(logger)
}
