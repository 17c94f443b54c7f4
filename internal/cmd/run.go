package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path"
	"strings"
	"syscall"
	"time"

	"github.com/Battleboy96/sky-hook/hook"
	"github.com/Battleboy96/sky-hook/internal/configpaths"
	"github.com/Battleboy96/sky-hook/internal/ctl"
	"github.com/Battleboy96/sky-hook/internal/ctl/auth"
	"github.com/Battleboy96/sky-hook/internal/ctl/handler"
	"github.com/Battleboy96/sky-hook/internal/log"
	"github.com/Battleboy96/sky-hook/internal/portal"
	"github.com/Battleboy96/sky-hook/usb"
)

const keyFileName = "skyhook.key.txt"

// Version is reported by the ping handler and --version.
const Version = "0.1.0"

// Run is the long-running interception daemon.
type Run struct {
	Dump         string           `help:"Figure dump file path (defaults to the platform data dir)" env:"SKYHOOK_DUMP"`
	Target       string           `help:"Portal identity to intercept, vid:pid hex" default:"1430:0150" env:"SKYHOOK_TARGET"`
	PadDevice    string           `help:"Joystick device node polled for the toggle gesture" default:"/dev/input/js0" env:"SKYHOOK_PAD_DEVICE"`
	Gesture      uint32           `help:"Button bitmask that toggles emulation (default L3+R3+Start)" default:"14" env:"SKYHOOK_GESTURE"`
	PollInterval time.Duration    `help:"Pad sampling interval" default:"50ms" env:"SKYHOOK_POLL_INTERVAL"`
	Debounce     time.Duration    `help:"Gesture hold confirmation before toggling" default:"200ms" env:"SKYHOOK_DEBOUNCE"`
	Ctl          ctl.ServerConfig `embed:"" prefix:"ctl."`
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger, raw log.TransferLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return r.start(ctx, logger, raw)
}

func (r *Run) start(ctx context.Context, logger *slog.Logger, raw log.TransferLogger) error {
	target, err := usb.ParseIdentity(r.Target)
	if err != nil {
		return err
	}

	dumpPath := r.Dump
	if dumpPath == "" {
		dumpPath = configpaths.DefaultDumpPath()
	}

	logger.Info("starting skyhook", "target", target, "dump", dumpPath)

	password, err := loadOrCreateKey(logger)
	if err != nil {
		return err
	}
	r.Ctl.Password = password

	poller, padClose, err := openPadPoller(r.PadDevice)
	if err != nil {
		logger.Warn("pad unavailable, gesture toggle disabled", "device", r.PadDevice, "error", err)
	}
	if padClose != nil {
		defer padClose()
	}

	// Standalone runs receive transfers only through the loopback
	// installer, so everything arriving is portal traffic; full host
	// integrations supply their own installer and identity resolver.
	installer := hook.NewLoopback(nil)
	resolver := usb.ResolverFunc(func(usb.Handle) (usb.Identity, bool) {
		return target, true
	})

	plugin := portal.New(portal.Config{
		DumpPath:     dumpPath,
		Target:       target,
		Gesture:      r.Gesture,
		PollInterval: r.PollInterval,
		Debounce:     r.Debounce,
	}, installer, resolver, poller, logger, raw)

	if err := plugin.Start(); err != nil {
		return err
	}
	defer func() { _ = plugin.Stop() }()

	ctlSrv := ctl.New(r.Ctl, logger)
	rt := ctlSrv.Router()
	rt.Register("ping", handler.Ping(Version))
	rt.Register("status", handler.Status(plugin))
	rt.Register("toggle", handler.Toggle(plugin))
	rt.Register("enable", handler.Enable(plugin))
	rt.Register("dump/info", handler.DumpInfo(plugin))
	rt.Register("dump/reset", handler.DumpReset(plugin))
	if err := ctlSrv.Start(); err != nil {
		return fmt.Errorf("start control API: %w", err)
	}
	defer ctlSrv.Close()

	<-ctx.Done()
	logger.Info("shutting down")
	return nil
}

// loadOrCreateKey reads the control API password from the key file,
// generating and persisting a fresh one on first run.
func loadOrCreateKey(logger *slog.Logger) (string, error) {
	keyFileDir, err := configpaths.DefaultConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve key file path: %w", err)
	}
	keyFilePath := path.Join(keyFileDir, keyFileName)
	if pwd, err := os.ReadFile(keyFilePath); err == nil {
		return strings.TrimSpace(string(pwd)), nil
	}

	newPwd, err := auth.GenerateKey()
	if err != nil {
		return "", fmt.Errorf("generate control API password: %w", err)
	}
	if err := os.MkdirAll(keyFileDir, 0o700); err != nil {
		return "", fmt.Errorf("create config dir for key file: %w", err)
	}
	if err := os.WriteFile(keyFilePath, []byte(newPwd), 0o600); err != nil {
		return "", fmt.Errorf("write control API password: %w", err)
	}
	logger.Info("generated control API password", "path", keyFilePath)
	return newPwd, nil
}
