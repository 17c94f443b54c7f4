package ctlclient

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Battleboy96/sky-hook/ctltypes"
)

// Client is the typed control API client.
type Client struct {
	t *Transport
}

// New creates a Client over the given transport.
func New(t *Transport) *Client { return &Client{t: t} }

// Dial is shorthand for a client over a plain transport.
func Dial(addr string) *Client { return New(NewTransport(addr)) }

// DialWithPassword is shorthand for a client over an authenticated transport.
func DialWithPassword(addr, password string) *Client {
	return New(NewTransportWithPassword(addr, password))
}

// call performs a request and decodes the response into out, surfacing
// problem-details errors as ctltypes.ApiError.
func (c *Client) call(ctx context.Context, path string, payload, out any) error {
	line, err := c.t.DoCtx(ctx, path, payload)
	if err != nil {
		return err
	}
	if line == "" {
		return nil
	}
	var apiErr ctltypes.ApiError
	if err := json.Unmarshal([]byte(line), &apiErr); err == nil && apiErr.Status >= 400 {
		return &apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal([]byte(line), out); err != nil {
		return fmt.Errorf("decode response for %s: %w", path, err)
	}
	return nil
}

func (c *Client) Ping(ctx context.Context) (*ctltypes.PingResponse, error) {
	var out ctltypes.PingResponse
	if err := c.call(ctx, "ping", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Status(ctx context.Context) (*ctltypes.StatusResponse, error) {
	var out ctltypes.StatusResponse
	if err := c.call(ctx, "status", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Toggle(ctx context.Context) (*ctltypes.ToggleResponse, error) {
	var out ctltypes.ToggleResponse
	if err := c.call(ctx, "toggle", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Enable(ctx context.Context, enabled bool) (*ctltypes.ToggleResponse, error) {
	var out ctltypes.ToggleResponse
	if err := c.call(ctx, "enable", fmt.Sprintf("%t", enabled), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DumpInfo(ctx context.Context) (*ctltypes.DumpInfoResponse, error) {
	var out ctltypes.DumpInfoResponse
	if err := c.call(ctx, "dump/info", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DumpReset(ctx context.Context) (*ctltypes.DumpResetResponse, error) {
	var out ctltypes.DumpResetResponse
	if err := c.call(ctx, "dump/reset", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
