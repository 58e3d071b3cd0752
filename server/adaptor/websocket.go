package adaptor

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// wsStream exposes a websocket connection as a plain byte stream. Each
// flushed write becomes one binary message; reads walk message boundaries
// transparently.
type wsStream struct {
	conn *websocket.Conn
	r    io.Reader
	once sync.Once
}

func newWSStream(conn *websocket.Conn) *wsStream {
	return &wsStream{conn: conn}
}

func (s *wsStream) Read(p []byte) (int, error) {
	for {
		if s.r == nil {
			typ, r, err := s.conn.NextReader()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return 0, io.EOF
				}
				return 0, err
			}
			if typ != websocket.BinaryMessage && typ != websocket.TextMessage {
				continue
			}
			s.r = r
		}
		n, err := s.r.Read(p)
		if err == io.EOF {
			s.r = nil
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (s *wsStream) Write(p []byte) (int, error) {
	if err := s.conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
		return 0, err
	}
	return len(p), nil
}

func (s *wsStream) SetWriteDeadline(t time.Time) error {
	return s.conn.SetWriteDeadline(t)
}

func (s *wsStream) RemoteAddr() net.Addr {
	return s.conn.RemoteAddr()
}

func (s *wsStream) Close() error {
	var err error
	s.once.Do(func() {
		deadline := time.Now().Add(time.Second)
		_ = s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		err = s.conn.Close()
	})
	return err
}

type originPolicy struct {
	allowAll bool
	allowed  map[string]struct{}
}

func newOriginPolicy(origins []string, logger *slog.Logger) originPolicy {
	p := originPolicy{allowed: make(map[string]struct{})}
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		if trimmed == "*" {
			p.allowAll = true
			continue
		}
		normalized, ok := normalizeOrigin(trimmed)
		if !ok {
			logger.Warn("ignoring invalid origin in configuration", "origin", origin)
			continue
		}
		p.allowed[normalized] = struct{}{}
	}
	return p
}

func normalizeOrigin(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", false
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host), true
}

// check lets through clients that send no Origin at all, since those are
// not browsers. With an empty allow-list the origin must match the host.
func (p originPolicy) check(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || p.allowAll {
		return true
	}
	normalized, ok := normalizeOrigin(origin)
	if !ok {
		return false
	}
	if len(p.allowed) == 0 {
		u, _ := url.Parse(normalized)
		return strings.EqualFold(u.Host, r.Host)
	}
	_, ok = p.allowed[normalized]
	return ok
}

// WebSocketHandler serves the chat protocol over websocket binary messages
// on /ws and a liveness probe on /healthz.
type WebSocketHandler struct {
	ctx          context.Context
	uc           Usecase
	writeTimeout time.Duration
	logger       *slog.Logger
	upgrader     websocket.Upgrader
	mux          *http.ServeMux
	wg           sync.WaitGroup
}

func NewWebSocketHandler(ctx context.Context, uc Usecase, allowedOrigins []string, writeTimeout time.Duration, logger *slog.Logger) *WebSocketHandler {
	if logger == nil {
		logger = slog.Default()
	}
	policy := newOriginPolicy(allowedOrigins, logger)
	h := &WebSocketHandler{
		ctx:          ctx,
		uc:           uc,
		writeTimeout: writeTimeout,
		logger:       logger,
		mux:          http.NewServeMux(),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if policy.check(r) {
				return true
			}
			logger.Warn("blocked websocket connection from disallowed origin", "origin", r.Header.Get("Origin"))
			return false
		},
	}
	h.mux.HandleFunc("/ws", h.serveWS)
	h.mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return h
}

func (h *WebSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *WebSocketHandler) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Info("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}
	h.wg.Add(1)
	defer h.wg.Done()
	h.uc.ServeConn(h.ctx, NewFrameConn(newWSStream(conn), h.writeTimeout))
}

// Wait blocks until every upgraded connection has finished.
func (h *WebSocketHandler) Wait() {
	h.wg.Wait()
}

func NewHTTPServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
