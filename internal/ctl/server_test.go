package ctl_test

import (
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Battleboy96/sky-hook/ctlclient"
	"github.com/Battleboy96/sky-hook/ctltypes"
	"github.com/Battleboy96/sky-hook/internal/ctl"
	skytest "github.com/Battleboy96/sky-hook/internal/testing"
)

func echoHandler(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
	b, _ := json.Marshal(map[string]string{"payload": req.Payload})
	res.JSON = string(b)
	return nil
}

func decodeError(t *testing.T, line string) ctltypes.ApiError {
	t.Helper()
	var apiErr ctltypes.ApiError
	require.NoError(t, json.Unmarshal([]byte(line), &apiErr))
	return apiErr
}

func TestUnknownPath(t *testing.T) {
	addr, done := skytest.StartCtlServer(t, "", nil)
	defer done()

	line, err := ctlclient.NewTransport(addr).Do("nonsense", nil)
	require.NoError(t, err)
	assert.Equal(t, 404, decodeError(t, line).Status)
}

func TestEmptyRequest(t *testing.T) {
	addr, done := skytest.StartCtlServer(t, "", nil)
	defer done()

	line, err := ctlclient.NewTransport(addr).Do("   ", nil)
	require.NoError(t, err)
	assert.Equal(t, 400, decodeError(t, line).Status)
}

func TestPayloadPassedThrough(t *testing.T) {
	addr, done := skytest.StartCtlServer(t, "", func(r *ctl.Router) {
		r.Register("echo", echoHandler)
	})
	defer done()

	line, err := ctlclient.NewTransport(addr).Do("echo", "hello world")
	require.NoError(t, err)

	var resp map[string]string
	require.NoError(t, json.Unmarshal([]byte(line), &resp))
	assert.Equal(t, "hello world", resp["payload"])
}

func TestParamRouting(t *testing.T) {
	addr, done := skytest.StartCtlServer(t, "", func(r *ctl.Router) {
		r.Register("dump/{action}", func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
			b, _ := json.Marshal(map[string]string{"action": req.Params["action"]})
			res.JSON = string(b)
			return nil
		})
	})
	defer done()

	line, err := ctlclient.NewTransport(addr).Do("dump/info", nil)
	require.NoError(t, err)

	var resp map[string]string
	require.NoError(t, json.Unmarshal([]byte(line), &resp))
	assert.Equal(t, "info", resp["action"])
}

func TestHandlerErrorBecomesProblemDetails(t *testing.T) {
	addr, done := skytest.StartCtlServer(t, "", func(r *ctl.Router) {
		r.Register("boom", func(req *ctl.Request, res *ctl.Response, logger *slog.Logger) error {
			return ctl.ErrBadRequest("no good")
		})
	})
	defer done()

	line, err := ctlclient.NewTransport(addr).Do("boom", nil)
	require.NoError(t, err)
	apiErr := decodeError(t, line)
	assert.Equal(t, 400, apiErr.Status)
	assert.Equal(t, "no good", apiErr.Detail)
}

func TestPasswordRequired(t *testing.T) {
	addr, done := skytest.StartCtlServer(t, "secret", func(r *ctl.Router) {
		r.Register("echo", echoHandler)
	})
	defer done()

	// A plain request without the handshake must be rejected.
	line, err := ctlclient.NewTransport(addr).Do("echo", "hi")
	require.NoError(t, err)
	assert.Equal(t, 401, decodeError(t, line).Status)
}

func TestRouterNoMatchDifferentDepth(t *testing.T) {
	r := ctl.NewRouter()
	r.Register("dump/{action}", echoHandler)

	h, _ := r.Match("dump")
	assert.Nil(t, h)
	h, _ = r.Match("dump/info/extra")
	assert.Nil(t, h)
	h, params := r.Match("DUMP/Reset")
	require.NotNil(t, h)
	assert.Equal(t, "reset", params["action"])
}
