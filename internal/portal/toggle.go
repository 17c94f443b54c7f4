package portal

import (
	"context"
	"log/slog"
	"time"

	"github.com/Battleboy96/sky-hook/pad"
)

const (
	// DefaultPollInterval is how often the pad is sampled for the gesture.
	DefaultPollInterval = 50 * time.Millisecond
	// DefaultDebounce is the hold confirmation wait before a toggle fires.
	DefaultDebounce = 200 * time.Millisecond
)

// Toggler samples controller input on a fixed interval and flips the
// emulation flag when the configured gesture is held. The debounce is a
// blocking wait inside the confirmed branch, and after firing the gesture
// must be released before it can fire again, so one continuous hold yields
// exactly one toggle.
type Toggler struct {
	state    *State
	poller   pad.Poller
	gesture  uint32
	interval time.Duration
	debounce time.Duration
	logger   *slog.Logger
}

func NewToggler(state *State, poller pad.Poller, gesture uint32, interval, debounce time.Duration, logger *slog.Logger) *Toggler {
	if gesture == 0 {
		gesture = pad.DefaultGesture
	}
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Toggler{
		state:    state,
		poller:   poller,
		gesture:  gesture,
		interval: interval,
		debounce: debounce,
		logger:   logger,
	}
}

// Run loops until ctx is cancelled, with at most one poll interval of stop
// latency.
func (t *Toggler) Run(ctx context.Context) {
	held := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(t.interval):
		}

		mask, err := t.poller.Buttons()
		if err != nil {
			t.logger.Debug("pad poll failed", "error", err)
			continue
		}

		pressed := mask&t.gesture == t.gesture
		if !pressed {
			held = false
			continue
		}
		if held {
			continue
		}

		// Gesture edge: confirm the hold, then act once.
		select {
		case <-ctx.Done():
			return
		case <-time.After(t.debounce):
		}
		held = true
		enabled := t.state.Toggle()
		t.logger.Info("emulation toggled", "enabled", enabled)
	}
}
