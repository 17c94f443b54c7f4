// Package handler contains the control API command handlers.
package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/Battleboy96/sky-hook/ctltypes"
	"github.com/Battleboy96/sky-hook/internal/ctl"
)

// Ping returns a handler answering with the server name and version.
func Ping(version string) ctl.HandlerFunc {
	return func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
		b, err := json.Marshal(ctltypes.PingResponse{Server: "sky-hook", Version: version})
		if err != nil {
			return err
		}
		res.JSON = string(b)
		return nil
	}
}
