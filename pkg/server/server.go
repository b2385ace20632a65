package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vango-dev/history/pkg/location"
	"github.com/vango-dev/history/pkg/registry"
)

//go:embed client.html
var clientPage []byte

// Server accepts tab connections and runs one Session per connection.
type Server struct {
	config   *ServerConfig
	upgrader websocket.Upgrader
	router   chi.Router
	registry *registry.Registry

	// mu guards sessions and closing. Sessions join wg under mu only while
	// closing is false, so Shutdown never waits concurrently with an Add.
	mu       sync.RWMutex
	sessions map[string]*Session
	closing  bool
	wg       sync.WaitGroup

	ctx    context.Context
	cancel context.CancelFunc

	httpServer *http.Server
}

// New creates a server. A nil config uses DefaultServerConfig.
func New(config *ServerConfig) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}
	config.applyDefaults()

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		registry: registry.New(),
		sessions: make(map[string]*Session),
		ctx:      ctx,
		cancel:   cancel,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/", s.handlePage)
	r.Get("/ws", s.handleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/sessions", s.handleSessions)
	r.Post("/sessions/{id}/navigate", s.handleNavigate)

	if s.config.MetricsHandler != nil {
		r.Handle(s.config.MetricsPath, s.config.MetricsHandler)
	}
	return r
}

// Handler returns the HTTP handler, for mounting under another router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Registry returns the registry holding every session's provider.
func (s *Server) Registry() *registry.Registry {
	return s.registry
}

// Config returns the server configuration.
func (s *Server) Config() *ServerConfig {
	return s.config
}

// Session returns the live session with the given id.
func (s *Server) Session(id string) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	return sess, ok
}

// Sessions returns snapshots of all live sessions ordered by id.
func (s *Server) Sessions() []SessionInfo {
	s.mu.RLock()
	infos := make([]SessionInfo, 0, len(s.sessions))
	for _, sess := range s.sessions {
		infos = append(infos, sess.Info())
	}
	s.mu.RUnlock()

	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(clientPage)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.isClosing() {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.config.Logger.Error("websocket upgrade failed", "error", err)
		return
	}

	remote := location.NewRemote(conn, &location.RemoteConfig{
		MaxFrameSize: s.config.MaxFrameSize,
		Logger:       s.config.Logger,
	})
	if err := remote.Handshake(); err != nil {
		s.config.Logger.Warn("handshake failed", "error", err)
		_ = remote.Close()
		return
	}

	id := uuid.NewString()
	sess, err := newSession(id, remote, s.config, s.registry)
	if err != nil {
		s.config.Logger.Error("session setup failed", "error", err)
		_ = remote.Close()
		return
	}

	if !s.track(sess) {
		s.config.Logger.Debug("session rejected during shutdown", "session_id", id)
		sess.Close()
		return
	}
	defer s.wg.Done()

	s.config.Logger.Info("session started", "session_id", id, "path", sess.Info().Path)

	err = sess.Run(s.ctx)

	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()

	if err != nil {
		s.config.Logger.Warn("session ended", "session_id", id, "error", err)
		return
	}
	s.config.Logger.Info("session ended", "session_id", id)
}

// track registers sess and adds it to wg unless the server is closing.
func (s *Server) track(sess *Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closing {
		return false
	}
	s.sessions[sess.ID] = sess
	s.wg.Add(1)
	return true
}

func (s *Server) isClosing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closing
}

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Sessions())
}

func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := s.Session(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return
	}

	var cmd NavigateCommand
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.config.MaxFrameSize)).Decode(&cmd); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid navigate body"})
		return
	}

	if err := sess.Navigate(r.Context(), cmd); err != nil {
		status := http.StatusServiceUnavailable
		if errors.Is(err, ErrSessionClosed) {
			status = http.StatusGone
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusAccepted, cmd)
}

// Run starts the HTTP server and blocks until ctx is done or the listener
// fails, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.config.Logger.Info("server starting", "address", s.config.Address, "backend", s.config.Backend)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.config.Logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown ends every session and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()
	s.cancel()

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.config.Logger.Error("shutdown error", "error", err)
			return err
		}
	}

	// Hijacked WebSocket connections are not tracked by http.Server.
	drained := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(drained)
	}()
	select {
	case <-drained:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.registry.Close()
	s.config.Logger.Info("server shutdown complete")
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
