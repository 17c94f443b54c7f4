package portal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Battleboy96/sky-hook/hook"
	"github.com/Battleboy96/sky-hook/internal/dump"
	"github.com/Battleboy96/sky-hook/internal/log"
	"github.com/Battleboy96/sky-hook/pad"
	"github.com/Battleboy96/sky-hook/usb"
)

// Config carries the interception parameters.
type Config struct {
	DumpPath     string
	Target       usb.Identity
	Gesture      uint32
	PollInterval time.Duration
	Debounce     time.Duration
}

// Plugin owns the start/stop sequencing: dump load, hook installation and
// the toggle loop. It is the single context object holding what the C-style
// rendition of this layer would keep in process globals.
type Plugin struct {
	cfg       Config
	installer hook.Installer
	store     *dump.Store
	state     *State
	disp      *Dispatcher
	toggler   *Toggler
	logger    *slog.Logger

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
}

func New(cfg Config, installer hook.Installer, resolver usb.Resolver, poller pad.Poller, logger *slog.Logger, raw log.TransferLogger) *Plugin {
	if logger == nil {
		logger = slog.Default()
	}
	store := dump.NewStore(cfg.DumpPath, logger)
	state := NewState(true)
	return &Plugin{
		cfg:       cfg,
		installer: installer,
		store:     store,
		state:     state,
		disp:      NewDispatcher(state, store, cfg.Target, resolver, logger, raw),
		toggler:   NewToggler(state, poller, cfg.Gesture, cfg.PollInterval, cfg.Debounce, logger),
		logger:    logger,
	}
}

// Transport returns the emulated transport the host routes transfers to.
func (p *Plugin) Transport() usb.Transport { return p.disp }

// State returns the shared emulation flag.
func (p *Plugin) State() *State { return p.state }

// Target returns the identity subject to interception.
func (p *Plugin) Target() usb.Identity { return p.cfg.Target }

// Store returns the dump store.
func (p *Plugin) Store() *dump.Store { return p.store }

// Start loads or creates the dump, installs the interception hooks and
// launches the toggle loop. Hook installation failure is fatal and leaves
// nothing behind; dump load failure is recovered by the default image and
// never fails start-up. Start on a started plugin is a no-op.
func (p *Plugin) Start() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.started {
		return nil
	}

	p.store.LoadOrCreate()

	original, err := p.installer.Install(p.disp)
	if err != nil {
		p.store.Release()
		return fmt.Errorf("portal: install hooks: %w", err)
	}
	p.disp.BindOriginal(original)

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	go func() {
		defer close(p.done)
		p.toggler.Run(ctx)
	}()

	p.started = true
	p.logger.Info("portal interception started",
		"target", p.cfg.Target, "dump", p.store.Path())
	return nil
}

// Stop tears down in reverse order: toggle loop, hooks, final dump save,
// buffer release. Stop without a prior Start is a no-op; errors during
// teardown are logged and do not abort the remaining steps.
func (p *Plugin) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.started {
		return nil
	}

	p.cancel()
	<-p.done

	if err := p.installer.Uninstall(); err != nil {
		p.logger.Error("hook uninstall failed", "error", err)
	}
	// Safety-net save; every emulated write already persisted.
	if err := p.store.Flush(); err != nil {
		p.logger.Error("final dump save failed", "error", err)
	}
	p.store.Release()

	p.started = false
	p.logger.Info("portal interception stopped")
	return nil
}
