// Package server hosts the cupcake kiosk over HTTP: it serves the
// front-end shell and its static assets, answers a small read-only JSON
// API, and drives one ordering wizard per WebSocket session.
package server

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	cupcake "github.com/ranjanproject/composenavigation"
	"github.com/ranjanproject/composenavigation/internal/assets"
	"github.com/ranjanproject/composenavigation/internal/config"
	"github.com/ranjanproject/composenavigation/internal/menu"
	"github.com/ranjanproject/composenavigation/internal/schedule"
)

// Server owns the HTTP surface of the kiosk and the set of live
// WebSocket sessions. Each session runs its own wizard; the server only
// brokers menus and connections between them.
type Server struct {
	cfg   *config.Config
	menus menu.Provider

	// sessions holds every live WebSocket session, keyed by session ID.
	sessions  map[string]*session
	sessionMu sync.RWMutex

	index *template.Template

	httpServer *http.Server

	limiterStop context.CancelFunc
	limiterDone <-chan struct{}

	// rollover rebuilds idle wizards after midnight so their pickup
	// options never offer yesterday as "today".
	rollover *schedule.Rollover
}

// New creates a kiosk server backed by the given menu provider.
func New(cfg *config.Config, menus menu.Provider) (*Server, error) {
	shell, err := assets.GetIndexHTML()
	if err != nil {
		return nil, fmt.Errorf("failed to load index shell: %w", err)
	}
	index, err := template.New("index").Parse(string(shell))
	if err != nil {
		return nil, fmt.Errorf("failed to parse index shell: %w", err)
	}

	srv := &Server{
		cfg:      cfg,
		menus:    menus,
		sessions: make(map[string]*session),
		index:    index,
	}
	srv.rollover = schedule.NewRollover(srv.refreshPickupDates)
	return srv, nil
}

// Handler returns the server wrapped in its middleware chain. It starts
// the rate limiter's sweep goroutine; Shutdown stops it again.
func (s *Server) Handler() http.Handler {
	ctx, cancel := context.WithCancel(context.Background())
	s.limiterStop = cancel

	limit, done := RateLimitMiddleware(ctx,
		s.cfg.Features.GetRateLimitRPS(),
		s.cfg.Features.GetRateLimitBurst(),
		0)
	s.limiterDone = done

	return SecurityHeadersMiddleware()(limit(CompressionMiddleware()(s)))
}

// Start listens on the configured address and serves until Shutdown is
// called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.rollover.Start()

	log.Printf("[Server] %s listening on http://%s", s.cfg.Title, addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown closes all live sessions, stops the background work (rate
// limiter sweep, midnight rollover) and shuts the HTTP listener down
// gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	s.rollover.Stop()

	s.sessionMu.Lock()
	for _, sess := range s.sessions {
		sess.conn.Close()
	}
	s.sessionMu.Unlock()

	if s.limiterStop != nil {
		s.limiterStop()
		<-s.limiterDone
	}

	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP routes kiosk requests. The surface is deliberately small:
// the shell, the WebSocket endpoint, a read-only menu API, a health
// probe and the static assets.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/":
		s.handleIndex(w, r)
	case r.URL.Path == "/ws":
		s.handleWS(w, r)
	case r.URL.Path == "/api/menu":
		s.handleMenuAPI(w, r)
	case r.URL.Path == "/healthz":
		s.handleHealthz(w, r)
	case strings.HasPrefix(r.URL.Path, "/assets/"):
		s.serveAsset(w, r)
	default:
		http.NotFound(w, r)
	}
}

// handleIndex renders the kiosk shell with the configured title.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.index.Execute(w, map[string]string{"Title": s.cfg.Title}); err != nil {
		log.Printf("[Server] Failed to render index: %v", err)
	}
}

// handleHealthz reports liveness for probes and load balancers.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// serveAsset serves embedded static files with proper content types.
func (s *Server) serveAsset(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/assets/")

	data, err := fs.ReadFile(assets.StaticFS(), name)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	switch filepath.Ext(name) {
	case ".js":
		w.Header().Set("Content-Type", "application/javascript")
	case ".css":
		w.Header().Set("Content-Type", "text/css")
	case ".html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
	default:
		w.Header().Set("Content-Type", "application/octet-stream")
	}

	if _, err := w.Write(data); err != nil {
		log.Printf("[Server] Failed to write asset %s: %v", name, err)
	}
}

// register adds a session to the live set.
func (s *Server) register(sess *session) {
	s.sessionMu.Lock()
	s.sessions[sess.id] = sess
	count := len(s.sessions)
	s.sessionMu.Unlock()

	log.Printf("[Server] Session %s connected: %d active session(s)", sess.short(), count)
}

// unregister removes a session from the live set.
func (s *Server) unregister(sess *session) {
	s.sessionMu.Lock()
	delete(s.sessions, sess.id)
	count := len(s.sessions)
	s.sessionMu.Unlock()

	log.Printf("[Server] Session %s disconnected: %d active session(s)", sess.short(), count)
}

// BroadcastMenu hands a freshly loaded menu to every live session. A
// session that is sitting idle on the start screen picks it up right
// away; a session in the middle of an order keeps the menu it started
// with until that order is sent or cancelled.
func (s *Server) BroadcastMenu(m *cupcake.Menu) {
	s.sessionMu.RLock()
	sessions := make([]*session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.sessionMu.RUnlock()

	log.Printf("[Server] Menu changed, notifying %d session(s)", len(sessions))
	for _, sess := range sessions {
		sess.applyMenu(m)
	}
}

// refreshPickupDates runs just after midnight. Wizards compute their pickup
// options at order start, so a kiosk that idled past midnight would offer
// yesterday's dates; re-applying the current menu rebuilds idle wizards
// (mid-order sessions keep their dates until the order settles, same as a
// menu change).
func (s *Server) refreshPickupDates() {
	log.Printf("[Server] Calendar day changed, refreshing pickup dates")
	s.BroadcastMenu(s.menus.Menu())
}
