package handler_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Battleboy96/sky-hook/ctlclient"
	"github.com/Battleboy96/sky-hook/hook"
	"github.com/Battleboy96/sky-hook/internal/ctl"
	"github.com/Battleboy96/sky-hook/internal/ctl/handler"
	"github.com/Battleboy96/sky-hook/internal/dump"
	"github.com/Battleboy96/sky-hook/internal/portal"
	skytest "github.com/Battleboy96/sky-hook/internal/testing"
	"github.com/Battleboy96/sky-hook/usb"
)

var portalID = usb.Identity{VendorID: 0x1430, ProductID: 0x0150}

func startPlugin(t *testing.T) *portal.Plugin {
	t.Helper()
	p := portal.New(portal.Config{
		DumpPath: skytest.TempDumpPath(t),
		Target:   portalID,
	}, hook.NewLoopback(&skytest.FakeTransport{}),
		skytest.MapResolver{1: portalID},
		skytest.NewScriptedPoller(0), slog.Default(), nil)
	require.NoError(t, p.Start())
	t.Cleanup(func() { _ = p.Stop() })
	return p
}

func startServer(t *testing.T, password string) (*portal.Plugin, *ctlclient.Client) {
	t.Helper()
	p := startPlugin(t)
	addr, done := skytest.StartCtlServer(t, password, func(r *ctl.Router) {
		r.Register("ping", handler.Ping("test"))
		r.Register("status", handler.Status(p))
		r.Register("toggle", handler.Toggle(p))
		r.Register("enable", handler.Enable(p))
		r.Register("dump/info", handler.DumpInfo(p))
		r.Register("dump/reset", handler.DumpReset(p))
	})
	t.Cleanup(done)
	if password == "" {
		return p, ctlclient.Dial(addr)
	}
	return p, ctlclient.DialWithPassword(addr, password)
}

func TestPing(t *testing.T) {
	_, c := startServer(t, "")
	resp, err := c.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sky-hook", resp.Server)
	assert.Equal(t, "test", resp.Version)
}

func TestStatus(t *testing.T) {
	_, c := startServer(t, "")
	resp, err := c.Status(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Enabled)
	assert.Equal(t, "1430:0150", resp.Target)
	assert.True(t, resp.DumpPresent)
	assert.Equal(t, dump.DefaultSize, resp.DumpSize)
}

func TestToggleFlipsState(t *testing.T) {
	p, c := startServer(t, "")

	resp, err := c.Toggle(context.Background())
	require.NoError(t, err)
	assert.False(t, resp.Enabled)
	assert.False(t, p.State().Enabled())

	resp, err = c.Toggle(context.Background())
	require.NoError(t, err)
	assert.True(t, resp.Enabled)
}

func TestEnable(t *testing.T) {
	p, c := startServer(t, "")

	resp, err := c.Enable(context.Background(), false)
	require.NoError(t, err)
	assert.False(t, resp.Enabled)
	assert.False(t, p.State().Enabled())

	_, err = c.Enable(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, p.State().Enabled())
}

func TestDumpInfoAndReset(t *testing.T) {
	p, c := startServer(t, "")

	info, err := c.DumpInfo(context.Background())
	require.NoError(t, err)
	assert.True(t, info.Present)
	assert.Equal(t, dump.DefaultSize, info.Size)
	assert.NotEmpty(t, info.Sha256)

	// Overwrite the dump, then reset back to the default image.
	_, err = p.Transport().Write(1, []byte{1, 2, 3}, time.Second)
	require.NoError(t, err)

	reset, err := c.DumpReset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dump.DefaultSize, reset.Size)

	after, err := c.DumpInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, info.Sha256, after.Sha256)
}

func TestAuthenticatedRoundTrip(t *testing.T) {
	_, c := startServer(t, "hunter2")
	resp, err := c.Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sky-hook", resp.Server)
}

func TestWrongPasswordRejected(t *testing.T) {
	addr, done := skytest.StartCtlServer(t, "hunter2", func(r *ctl.Router) {
		r.Register("ping", handler.Ping("test"))
	})
	defer done()

	c := ctlclient.DialWithPassword(addr, "wrong")
	_, err := c.Ping(context.Background())
	assert.Error(t, err)
}
