package portal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Battleboy96/sky-hook/internal/dump"
	"github.com/Battleboy96/sky-hook/internal/log"
	"github.com/Battleboy96/sky-hook/usb"
)

// PersistError reports that an emulated write mutated the in-memory dump
// but persisting it to disk failed. The transfer itself is accounted as
// complete; memory and disk diverge until the next successful save.
type PersistError struct {
	Err error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("portal: dump persist failed: %v", e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// Dispatcher routes intercepted transfers: requests for the target portal
// are served from the dump store while emulation is enabled, everything
// else is delegated verbatim to the original transport. It implements
// usb.Transport so the hook installer can swap it in for the real transfer
// functions.
type Dispatcher struct {
	state    *State
	store    *dump.Store
	target   usb.Identity
	resolver usb.Resolver
	logger   *slog.Logger
	raw      log.TransferLogger

	mu       sync.RWMutex
	original usb.Transport
}

func NewDispatcher(state *State, store *dump.Store, target usb.Identity, resolver usb.Resolver, logger *slog.Logger, raw log.TransferLogger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	if raw == nil {
		raw = log.NewTransfer(nil)
	}
	return &Dispatcher{
		state:    state,
		store:    store,
		target:   target,
		resolver: resolver,
		logger:   logger,
		raw:      raw,
	}
}

// BindOriginal supplies the pass-through transport yielded by the hook
// installer. Until bound, pass-through fails with usb.ErrNoTransport.
func (d *Dispatcher) BindOriginal(t usb.Transport) {
	d.mu.Lock()
	d.original = t
	d.mu.Unlock()
}

func (d *Dispatcher) passthrough() usb.Transport {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.original == nil {
		return usb.NullTransport{}
	}
	return d.original
}

// isTarget reports whether the handle resolves to the portal identity.
// Unresolvable handles are never the target.
func (d *Dispatcher) isTarget(h usb.Handle) bool {
	id, ok := d.resolver.Identify(h)
	return ok && id == d.target
}

// Read handles a device-to-host transfer. Pass-through results, including
// errors, propagate verbatim so the unhooked system is indistinguishable
// from this layer to any non-target caller.
func (d *Dispatcher) Read(h usb.Handle, p []byte, timeout time.Duration) (int, error) {
	if !d.state.Enabled() || !d.isTarget(h) {
		n, err := d.passthrough().Read(h, p, timeout)
		if n > 0 {
			d.raw.Log(false, false, p[:n])
		}
		return n, err
	}

	// Emulated path: serve the dump head, zero-padded to the requested
	// length. The full length is always reported as transferred so the
	// caller's read-success expectations hold.
	n := d.store.Fill(p)
	d.raw.Log(false, true, p[:n])
	d.logger.Log(context.Background(), log.LevelTrace, "emulated read", "len", len(p))
	return n, nil
}

// Write handles a host-to-device transfer. Writes to non-target devices are
// never intercepted, regardless of the emulation flag.
func (d *Dispatcher) Write(h usb.Handle, p []byte, timeout time.Duration) (int, error) {
	if !d.isTarget(h) {
		n, err := d.passthrough().Write(h, p, timeout)
		if n > 0 {
			d.raw.Log(true, false, p[:n])
		}
		return n, err
	}

	d.raw.Log(true, true, p)
	n, err := d.store.Commit(p)
	if err != nil {
		d.logger.Error("emulated write persisted to memory only", "copied", n, "error", err)
		return len(p), &PersistError{Err: err}
	}
	d.logger.Log(context.Background(), log.LevelTrace, "emulated write", "len", len(p), "copied", n)
	return len(p), nil
}
