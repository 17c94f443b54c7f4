package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Battleboy96/sky-hook/ctltypes"
	"github.com/Battleboy96/sky-hook/internal/ctl"
	"github.com/Battleboy96/sky-hook/internal/portal"
)

// DumpInfo reports size and digest of the in-memory dump.
func DumpInfo(p *portal.Plugin) ctl.HandlerFunc {
	return func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
		present, size, digest := p.Store().Info()
		b, err := json.Marshal(ctltypes.DumpInfoResponse{
			Present: present,
			Size:    size,
			Sha256:  digest,
			Path:    p.Store().Path(),
		})
		if err != nil {
			return err
		}
		res.JSON = string(b)
		return nil
	}
}

// DumpReset replaces the dump with the default image and persists it.
func DumpReset(p *portal.Plugin) ctl.HandlerFunc {
	return func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
		size, err := p.Store().Reset()
		if err != nil {
			return ctl.ErrInternal(fmt.Sprintf("reset dump: %v", err))
		}
		logger.Info("dump reset via control API", "size", size)
		b, err := json.Marshal(ctltypes.DumpResetResponse{Size: size})
		if err != nil {
			return err
		}
		res.JSON = string(b)
		return nil
	}
}
