package testing

import (
	"net"
	"testing"
	"time"

	"log/slog"

	"github.com/Battleboy96/sky-hook/internal/ctl"
)

// StartCtlServer starts a control server on a free port and calls register
// so the caller can attach the handlers the test needs. Returns the address
// and a function to call when done.
func StartCtlServer(t *testing.T, password string, register func(r *ctl.Router)) (addr string, done func()) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}
	addr = ln.Addr().String()
	_ = ln.Close()

	srv := ctl.New(ctl.ServerConfig{
		Addr:              addr,
		Password:          password,
		ConnectionTimeout: 5 * time.Second,
	}, slog.Default())
	if register != nil {
		register(srv.Router())
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("ctl start failed: %v", err)
	}

	done = func() {
		srv.Close()
		time.Sleep(10 * time.Millisecond)
	}
	return addr, done
}
