// Package ctlclient implements the client side of the skyhook control
// protocol.
package ctlclient

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/Battleboy96/sky-hook/internal/ctl/auth"
)

// Config controls low-level transport behavior such as timeouts.
type Config struct {
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Password     string
}

func defaultConfig() Config {
	return Config{
		DialTimeout:  3 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

// Transport is the low-level control protocol implementation used by the
// typed Client. Request framing: `<path>[ SP <payload>] \x00`; only the NUL
// ends the request so payloads may contain newlines. The server answers
// with a single newline-terminated line and closes the connection, so the
// response is read to EOF with one trailing newline trimmed.
type Transport struct {
	addr string
	mock func(path string, payload any) (string, error)
	cfg  Config
}

// NewTransport creates a new low-level transport.
func NewTransport(addr string) *Transport { return NewTransportWithConfig(addr, nil) }

func NewTransportWithPassword(addr, password string) *Transport {
	cfg := defaultConfig()
	cfg.Password = password
	return NewTransportWithConfig(addr, &cfg)
}

// NewTransportWithConfig creates a transport with explicit configuration.
func NewTransportWithConfig(addr string, cfg *Config) *Transport {
	c := defaultConfig()
	if cfg != nil {
		c = *cfg
	}
	return &Transport{addr: addr, cfg: c}
}

// NewMockTransport creates a transport returning canned responses without
// real networking; the responder receives the path and payload.
func NewMockTransport(responder func(path string, payload any) (string, error)) *Transport {
	return &Transport{addr: "mock", mock: responder, cfg: defaultConfig()}
}

// Do sends a request and returns the exact response line (without trailing
// newline). Payloads: []byte and string are sent as-is, anything else is
// JSON marshaled, nil appends nothing.
func (t *Transport) Do(path string, payload any) (string, error) {
	return t.DoCtx(context.Background(), path, payload)
}

// DoCtx is like Do but honors the provided context and configured timeouts.
func (t *Transport) DoCtx(ctx context.Context, path string, payload any) (string, error) {
	if t.mock != nil {
		return t.mock(path, payload)
	}

	line := []byte(strings.ToLower(path))
	if pb, ok := toPayloadBytes(payload); ok && len(pb) > 0 {
		line = append(append(line, ' '), pb...)
	}

	d := &net.Dialer{Timeout: t.cfg.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return "", fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	if t.cfg.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(t.cfg.WriteTimeout))
	}

	if t.cfg.Password != "" {
		key, err := auth.DeriveKey(t.cfg.Password)
		if err != nil {
			return "", err
		}
		r := bufio.NewReader(conn)
		clientNonce, serverNonce, err := auth.ClientHandshake(r, conn, key)
		if err != nil {
			return "", err
		}
		sessionKey := auth.DeriveSessionKey(key, serverNonce, clientNonce)
		conn, err = auth.WrapConnWithReader(conn, r, sessionKey)
		if err != nil {
			return "", err
		}
	}

	if _, err := conn.Write(append(line, '\x00')); err != nil {
		return "", fmt.Errorf("write: %w", err)
	}
	if t.cfg.ReadTimeout > 0 {
		_ = conn.SetReadDeadline(time.Now().Add(t.cfg.ReadTimeout))
	}
	respBytes, err := io.ReadAll(conn)
	if err != nil && len(respBytes) == 0 {
		return "", fmt.Errorf("read: %w", err)
	}
	return strings.TrimSuffix(string(respBytes), "\n"), nil
}

func toPayloadBytes(v any) ([]byte, bool) {
	if v == nil {
		return nil, true
	}
	switch t := v.(type) {
	case []byte:
		return t, true
	case string:
		return []byte(t), true
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, false
		}
		return b, true
	}
}
