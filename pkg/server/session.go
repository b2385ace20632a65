package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/vango-dev/history/internal/config"
	"github.com/vango-dev/history/pkg/history"
	"github.com/vango-dev/history/pkg/location"
	"github.com/vango-dev/history/pkg/middleware"
	"github.com/vango-dev/history/pkg/registry"
	"go.opentelemetry.io/otel/attribute"
)

// maxRedirectHops bounds redirect chains so a cycle cannot spin forever.
const maxRedirectHops = 8

// ErrSessionClosed is returned when navigating a session that has ended.
var ErrSessionClosed = errors.New("session closed")

// NavigateCommand is a programmatic navigation request.
type NavigateCommand struct {
	Path    string `json:"path"`
	Replace bool   `json:"replace"`
}

// SessionInfo is a point-in-time view of a session.
type SessionInfo struct {
	ID            string `json:"id"`
	Key           string `json:"key"`
	Path          string `json:"path"`
	Listening     bool   `json:"listening"`
	Invalidations uint64 `json:"invalidations"`
}

// Session owns one tab connection and the history provider mirroring it.
// Everything touching the provider runs on the goroutine executing Run.
type Session struct {
	ID string

	key      string
	config   *ServerConfig
	logger   *slog.Logger
	registry *registry.Registry
	remote   *location.Remote
	provider history.History
	injector *registry.Injector

	// applyHash feeds a tab-originated hash change into the provider.
	applyHash func(hash string)

	commands  chan NavigateCommand
	detach    []func()
	listening bool

	redirectTo  string
	hasRedirect bool
	writeErrors int64

	mu   sync.Mutex
	info SessionInfo

	done      chan struct{}
	closeOnce sync.Once
}

func newSession(id string, remote *location.Remote, cfg *ServerConfig, reg *registry.Registry) (*Session, error) {
	s := &Session{
		ID:       id,
		key:      cfg.Key + "/" + id,
		config:   cfg,
		logger:   cfg.Logger.With("session_id", id),
		registry: reg,
		remote:   remote,
		commands: make(chan NavigateCommand, 8),
		done:     make(chan struct{}),
	}

	switch cfg.Backend {
	case config.BackendMemory:
		initial := cfg.InitialPath
		if initial == "" {
			initial = remote.Hash()
		}
		mem := history.NewMemory(history.WithPath(initial))
		s.provider = mem
		s.applyHash = func(hash string) {
			mem.Store().Set(hash)
			if s.listening {
				mem.Listen()
			}
		}
	default:
		s.provider = history.NewHash(history.WithLocation(remote))
		s.applyHash = remote.Apply
	}

	inj, err := reg.Define(s.key, s.provider)
	if err != nil {
		closeProvider(s.provider)
		return nil, err
	}
	s.injector = inj
	s.info = SessionInfo{ID: id, Key: s.key, Path: s.provider.Current()}

	s.detach = append(s.detach,
		inj.OnInvalidate(s.onChange),
		middleware.Logger(s.provider, s.logger),
	)
	if cfg.Metrics != nil {
		s.detach = append(s.detach, cfg.Metrics.Observe(s.provider))
	}
	if cfg.Tracing {
		s.detach = append(s.detach, middleware.OpenTelemetry(s.provider,
			middleware.WithTracerName(cfg.TracerName),
			middleware.WithAttributes(attribute.String("session.id", id)),
		))
	}

	s.listen()
	s.checkRedirect(s.provider.Current())
	s.flushRedirects()
	return s, nil
}

// Run drives the session until the tab disconnects or ctx is done.
// The session is closed when Run returns.
func (s *Session) Run(ctx context.Context) error {
	defer s.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	readErr := make(chan error, 1)
	go func() { readErr <- s.remote.ReadLoop(ctx) }()

	messages := s.remote.Messages()
	for {
		select {
		case msg, ok := <-messages:
			if !ok {
				if err := <-readErr; !errors.Is(err, context.Canceled) {
					return err
				}
				return nil
			}
			s.handle(msg)
		case cmd := <-s.commands:
			s.navigate(cmd)
		case <-ctx.Done():
			return nil
		}
		s.flushRedirects()
		s.recordWriteErrors()
	}
}

// Navigate queues a navigation for the session loop.
func (s *Session) Navigate(ctx context.Context, cmd NavigateCommand) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}

	select {
	case s.commands <- cmd:
		return nil
	case <-s.done:
		return ErrSessionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Info returns a snapshot of the session.
func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

// Done is closed once the session has been torn down.
func (s *Session) Done() <-chan struct{} {
	return s.done
}

// Close tears the session down. It is safe to call more than once, but must
// not race with Run; servers end sessions by cancelling Run's context.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		for _, d := range s.detach {
			d()
		}
		if s.listening && s.config.Metrics != nil {
			s.config.Metrics.RecordUnlisten()
		}
		s.listening = false
		s.registry.Remove(s.key)
		closeProvider(s.provider)
		_ = s.remote.Close()
		close(s.done)
	})
}

func (s *Session) handle(msg location.Message) {
	switch msg.Type {
	case location.MessageHashChange:
		s.applyHash(msg.Hash)
	case location.MessageVisibility:
		if msg.Hidden {
			s.unlisten()
		} else {
			s.listen()
		}
	case location.MessageHello:
		s.logger.Debug("ignoring repeated hello", "hash", msg.Hash)
	}
}

func (s *Session) navigate(cmd NavigateCommand) {
	if cmd.Replace {
		s.provider.Replace(cmd.Path)
	} else {
		s.provider.Set(cmd.Path)
	}
}

func (s *Session) listen() {
	s.provider.Listen()
	if s.listening {
		return
	}
	s.listening = true
	if s.config.Metrics != nil {
		s.config.Metrics.RecordListen()
	}
	s.setListening(true)
}

func (s *Session) unlisten() {
	if !s.listening {
		return
	}
	s.provider.Unlisten()
	s.listening = false
	if s.config.Metrics != nil {
		s.config.Metrics.RecordUnlisten()
	}
	s.setListening(false)
}

func (s *Session) onChange(e history.Event) {
	s.mu.Lock()
	s.info.Path = e.Value
	s.info.Invalidations = s.injector.Invalidations()
	s.mu.Unlock()

	s.checkRedirect(e.Value)
}

func (s *Session) setListening(v bool) {
	s.mu.Lock()
	s.info.Listening = v
	s.mu.Unlock()
}

// checkRedirect records a pending redirect for path. Redirects are applied
// after the triggering operation returns so observers see changes in order.
func (s *Session) checkRedirect(path string) {
	target, ok := s.config.Redirects[path]
	if !ok {
		s.hasRedirect = false
		return
	}
	s.redirectTo = target
	s.hasRedirect = true
}

func (s *Session) flushRedirects() {
	for hops := 0; s.hasRedirect; hops++ {
		if hops == maxRedirectHops {
			s.logger.Warn("redirect loop", "path", s.provider.Current())
			s.hasRedirect = false
			return
		}
		target := s.redirectTo
		s.hasRedirect = false
		s.logger.Debug("redirect", "from", s.provider.Current(), "to", target)
		s.provider.Replace(target)
	}
}

func (s *Session) recordWriteErrors() {
	if s.config.Metrics == nil {
		return
	}
	n := s.remote.WriteErrors()
	s.config.Metrics.RecordWriteErrors(n - s.writeErrors)
	s.writeErrors = n
}

func closeProvider(h history.History) {
	if c, ok := h.(io.Closer); ok {
		_ = c.Close()
	}
}
