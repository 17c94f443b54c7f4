package handler

import (
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"

	"github.com/Battleboy96/sky-hook/ctltypes"
	"github.com/Battleboy96/sky-hook/internal/ctl"
	"github.com/Battleboy96/sky-hook/internal/portal"
)

// Toggle flips the emulation flag, same as the controller gesture.
func Toggle(p *portal.Plugin) ctl.HandlerFunc {
	return func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
		enabled := p.State().Toggle()
		logger.Info("emulation toggled via control API", "enabled", enabled)
		b, err := json.Marshal(ctltypes.ToggleResponse{Enabled: enabled})
		if err != nil {
			return err
		}
		res.JSON = string(b)
		return nil
	}
}

// Enable sets the emulation flag to an explicit value; the payload must be
// a boolean ("true"/"false"/"1"/"0").
func Enable(p *portal.Plugin) ctl.HandlerFunc {
	return func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
		v, err := strconv.ParseBool(strings.TrimSpace(req.Payload))
		if err != nil {
			return ctl.ErrBadRequest("invalid payload: " + err.Error())
		}
		p.State().Set(v)
		logger.Info("emulation set via control API", "enabled", v)
		b, err := json.Marshal(ctltypes.ToggleResponse{Enabled: v})
		if err != nil {
			return err
		}
		res.JSON = string(b)
		return nil
	}
}
