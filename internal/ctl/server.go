// Package ctl implements the operator control socket: a small TCP API with
// NUL-terminated requests and single-line JSON responses, optionally behind
// the shared-key handshake in the auth subpackage.
package ctl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"

	"github.com/Battleboy96/sky-hook/internal/ctl/auth"
)

// ServerConfig represents the control server configuration.
type ServerConfig struct {
	Addr              string        `help:"Control API listen address" default:"127.0.0.1:3553" env:"SKYHOOK_CTL_ADDR"`
	Password          string        `kong:"-"`
	ConnectionTimeout time.Duration `help:"Per-connection read/write deadline; 0 to disable" default:"30s" env:"SKYHOOK_CTL_CONNECTION_TIMEOUT"`
}

// Server accepts control connections and dispatches commands through its
// router.
type Server struct {
	addr   string
	config ServerConfig
	logger *slog.Logger
	router *Router
	ln     net.Listener
}

// New creates a control server. Handlers are registered on Router().
func New(config ServerConfig, logger *slog.Logger) *Server {
	return &Server{
		addr:   config.Addr,
		config: config,
		logger: logger,
		router: NewRouter(),
	}
}

// Router returns the router so callers can register handlers.
func (s *Server) Router() *Router { return s.router }

// Addr returns the bound listener address (valid after Start).
func (s *Server) Addr() string {
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}

// Start listens on the configured address and serves incoming commands.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.ln = ln
	s.logger.Info("control API listening", "addr", ln.Addr().String())
	go s.serve()
	return nil
}

// Close stops the control server.
func (s *Server) Close() {
	if s.ln != nil {
		_ = s.ln.Close()
	}
}

func (s *Server) serve() {
	for {
		c, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.logger.Info("control API stopped")
				return
			}
			s.logger.Info("control accept error", "error", err)
			return
		}
		go s.handleConn(c)
	}
}

func (s *Server) writeError(w io.Writer, err error) {
	problemJSON, _ := json.Marshal(WrapError(err))
	fmt.Fprintf(w, "%s\n", string(problemJSON))
}

func (s *Server) writeOK(w io.Writer, rest string) {
	if rest == "" {
		fmt.Fprintln(w)
	} else {
		fmt.Fprintf(w, "%s\n", rest)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	if s.config.ConnectionTimeout > 0 {
		_ = conn.SetDeadline(time.Now().Add(s.config.ConnectionTimeout))
	}

	connCtx, connCancel := context.WithCancel(context.Background())
	defer connCancel()

	connLogger := s.logger.With("remote", conn.RemoteAddr().String())
	r := bufio.NewReader(conn)
	var w io.Writer = conn

	if s.config.Password != "" {
		secured, err := s.authenticate(r, conn)
		if err != nil {
			connLogger.Error("control auth failed", "error", err)
			s.writeError(w, err)
			return
		}
		r = bufio.NewReader(secured)
		w = secured
	}

	reqData, err := r.ReadString('\x00')
	if err != nil {
		if err == io.EOF {
			connLogger.Error("control incomplete request (no null terminator)")
		} else {
			connLogger.Error("read control request", "error", err)
		}
		return
	}
	reqData = strings.TrimSuffix(reqData, "\x00")
	if strings.TrimSpace(reqData) == "" {
		s.writeError(w, ErrBadRequest("empty request"))
		return
	}

	path, payload, _ := strings.Cut(reqData, " ")
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		s.writeError(w, ErrBadRequest("empty path"))
		return
	}
	connLogger.Info("control cmd", "path", path)

	h, params := s.router.Match(path)
	if h == nil {
		connLogger.Error("control unknown path", "path", path)
		s.writeError(w, ErrNotFound(fmt.Sprintf("unknown path: %s", path)))
		return
	}

	req := &Request{Ctx: connCtx, Params: params, Payload: payload}
	res := &Response{}
	if err := h(req, res, connLogger); err != nil {
		connLogger.Error("control handler error", "path", path, "error", err)
		s.writeError(w, err)
		return
	}
	connLogger.Debug("control handler success", "path", path)
	s.writeOK(w, res.JSON)
}

// authenticate performs the server side of the shared-key handshake and
// returns the AEAD-wrapped connection the rest of the exchange runs over.
func (s *Server) authenticate(r *bufio.Reader, conn net.Conn) (net.Conn, error) {
	ok, err := auth.IsHandshake(r)
	if err != nil || !ok {
		return nil, ErrUnauthorized("authentication required")
	}
	key, err := auth.DeriveKey(s.config.Password)
	if err != nil {
		return nil, err
	}
	clientNonce, serverNonce, err := auth.ServerHandshake(r, conn, key)
	if err != nil {
		return nil, err
	}
	sessionKey := auth.DeriveSessionKey(key, serverNonce, clientNonce)
	return auth.WrapConnWithReader(conn, r, sessionKey)
}
