package portal_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Battleboy96/sky-hook/hook"
	"github.com/Battleboy96/sky-hook/internal/dump"
	"github.com/Battleboy96/sky-hook/internal/portal"
	skytest "github.com/Battleboy96/sky-hook/internal/testing"
	"github.com/Battleboy96/sky-hook/usb"
)

func newPlugin(t *testing.T, installer hook.Installer) *portal.Plugin {
	t.Helper()
	return portal.New(portal.Config{
		DumpPath: skytest.TempDumpPath(t),
		Target:   portalID,
	}, installer, skytest.MapResolver{portalHandle: portalID},
		skytest.NewScriptedPoller(0), slog.Default(), nil)
}

func TestStartCreatesDefaultDumpAndServesReads(t *testing.T) {
	p := newPlugin(t, hook.NewLoopback(&skytest.FakeTransport{}))
	require.NoError(t, p.Start())
	defer func() { _ = p.Stop() }()

	// Fresh start: the default image must already be on disk.
	onDisk, err := os.ReadFile(p.Store().Path())
	require.NoError(t, err)
	assert.Equal(t, dump.CreateDefault().Bytes(), onDisk)

	// A 1024-byte read returns the default head and a zero tail.
	out := make([]byte, 1024)
	n, err := p.Transport().Read(portalHandle, out, time.Second)
	require.NoError(t, err)
	assert.Equal(t, 1024, n)
	assert.Equal(t, dump.CreateDefault().Bytes(), out[:dump.DefaultSize])
	assert.Equal(t, make([]byte, 1024-dump.DefaultSize), out[dump.DefaultSize:])
}

func TestStartIsIdempotent(t *testing.T) {
	p := newPlugin(t, hook.NewLoopback(&skytest.FakeTransport{}))
	require.NoError(t, p.Start())
	assert.NoError(t, p.Start())
	require.NoError(t, p.Stop())
}

func TestInstallFailureAbortsStart(t *testing.T) {
	sentinel := errors.New("call site not found")
	p := newPlugin(t, &skytest.FailingInstaller{Err: sentinel})

	err := p.Start()
	require.ErrorIs(t, err, sentinel)

	// Nothing was left behind: no dump in memory, stop is a clean no-op.
	present, _, _ := p.Store().Info()
	assert.False(t, present)
	assert.NoError(t, p.Stop())
}

func TestStopIsIdempotent(t *testing.T) {
	lb := hook.NewLoopback(&skytest.FakeTransport{})
	p := newPlugin(t, lb)

	assert.NoError(t, p.Stop(), "stop before start must not fail")

	require.NoError(t, p.Start())
	require.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())

	// The loopback routes traffic to the original again after teardown.
	_, ok := lb.Transport().(*skytest.FakeTransport)
	assert.True(t, ok)
}

func TestStopPersistsFinalState(t *testing.T) {
	p := newPlugin(t, hook.NewLoopback(&skytest.FakeTransport{}))
	require.NoError(t, p.Start())

	payload := []byte{0x10, 0x20, 0x30}
	_, err := p.Transport().Write(portalHandle, payload, time.Second)
	require.NoError(t, err)
	require.NoError(t, p.Stop())

	// The write rewrote the head of the loaded default image in place.
	onDisk, err := os.ReadFile(p.Store().Path())
	require.NoError(t, err)
	require.Len(t, onDisk, dump.DefaultSize)
	assert.Equal(t, payload, onDisk[:3])
	assert.Equal(t, dump.CreateDefault().Bytes()[3:], onDisk[3:])

	present, _, _ := p.Store().Info()
	assert.False(t, present, "buffer is released at shutdown")
}

func TestLoopbackInstallRejectsDoubleInstall(t *testing.T) {
	lb := hook.NewLoopback(usb.NullTransport{})
	_, err := lb.Install(usb.NullTransport{})
	require.NoError(t, err)
	_, err = lb.Install(usb.NullTransport{})
	assert.ErrorIs(t, err, hook.ErrInstalled)
	require.NoError(t, lb.Uninstall())
	assert.ErrorIs(t, lb.Uninstall(), hook.ErrNotInstalled)
}
