//go:build !linux

package cmd

import (
	"errors"
	"log/slog"
)

func install(logger *slog.Logger) error {
	return errors.New("service install is only supported on Linux")
}

func uninstall(logger *slog.Logger) error {
	return errors.New("service uninstall is only supported on Linux")
}
