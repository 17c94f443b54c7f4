package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/Battleboy96/sky-hook/ctltypes"
	"github.com/Battleboy96/sky-hook/internal/ctl"
	"github.com/Battleboy96/sky-hook/internal/portal"
)

// Status reports the emulation flag and dump state.
func Status(p *portal.Plugin) ctl.HandlerFunc {
	return func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
		present, size, _ := p.Store().Info()
		b, err := json.Marshal(ctltypes.StatusResponse{
			Enabled:     p.State().Enabled(),
			Target:      p.Target().String(),
			DumpPath:    p.Store().Path(),
			DumpPresent: present,
			DumpSize:    size,
		})
		if err != nil {
			return err
		}
		res.JSON = string(b)
		return nil
	}
}
