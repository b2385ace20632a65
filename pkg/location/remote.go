package location

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"github.com/vango-dev/history/internal/errors"
)

// RemoteConfig configures a Remote.
type RemoteConfig struct {
	// MaxFrameSize is the read limit per message (default: DefaultMaxFrameSize).
	MaxFrameSize int64

	// Buffer is the capacity of the Messages channel (default: 16).
	Buffer int

	// Logger receives protocol warnings (default: slog.Default()).
	Logger *slog.Logger
}

// Remote is a Location backed by a browser tab on the other end of a
// WebSocket.
type Remote struct {
	conn   *websocket.Conn
	logger *slog.Logger

	mu   sync.Mutex
	hash string

	writeMu     sync.Mutex
	writeErrors atomic.Int64

	listeners listeners
	messages  chan Message
	closeOnce sync.Once
}

// NewRemote wraps conn. The hash starts empty until Handshake or Apply.
func NewRemote(conn *websocket.Conn, cfg *RemoteConfig) *Remote {
	if cfg == nil {
		cfg = &RemoteConfig{}
	}
	maxFrame := cfg.MaxFrameSize
	if maxFrame <= 0 {
		maxFrame = DefaultMaxFrameSize
	}
	buffer := cfg.Buffer
	if buffer <= 0 {
		buffer = 16
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	conn.SetReadLimit(maxFrame)
	return &Remote{
		conn:     conn,
		logger:   logger,
		messages: make(chan Message, buffer),
	}
}

// Handshake reads the tab's hello message and adopts its hash.
func (r *Remote) Handshake() error {
	var msg Message
	if err := r.conn.ReadJSON(&msg); err != nil {
		return errors.New("H010").Wrap(err)
	}
	if msg.Type != MessageHello {
		return errors.New("H010").WithDetail("expected hello, got " + string(msg.Type))
	}

	r.mu.Lock()
	r.hash = msg.Hash
	r.mu.Unlock()
	return nil
}

// Hash returns the last known hash of the tab.
func (r *Remote) Hash() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hash
}

// Push tells the tab to add an entry for hash.
func (r *Remote) Push(hash string) {
	r.send(OpPush, hash)
}

// Replace tells the tab to replace its current entry with hash.
func (r *Remote) Replace(hash string) {
	r.send(OpReplace, hash)
}

// OnHashChange registers fn for hash changes applied through Apply.
func (r *Remote) OnHashChange(fn func(hash string)) func() {
	return r.listeners.add(fn)
}

// Apply records a hash change reported by the tab and notifies listeners on
// the calling goroutine.
func (r *Remote) Apply(hash string) {
	r.mu.Lock()
	r.hash = hash
	r.mu.Unlock()

	r.listeners.fire(hash)
}

// Messages returns the channel fed by ReadLoop. It is closed when ReadLoop
// returns.
func (r *Remote) Messages() <-chan Message {
	return r.messages
}

// WriteErrors returns how many commands failed to reach the tab.
func (r *Remote) WriteErrors() int64 {
	return r.writeErrors.Load()
}

// ReadLoop decodes messages from the tab until the connection fails or ctx
// is done. Malformed messages are logged and skipped.
func (r *Remote) ReadLoop(ctx context.Context) error {
	defer close(r.messages)

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			r.Close()
		case <-done:
		}
	}()

	for {
		var msg Message
		err := r.conn.ReadJSON(&msg)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if isDecodeError(err) {
				r.logger.Warn("malformed location frame", "error", err)
				continue
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return errors.New("H012").Wrap(err)
		}
		if err := msg.Validate(); err != nil {
			r.logger.Warn("invalid location frame", "type", msg.Type, "error", err)
			continue
		}

		select {
		case r.messages <- msg:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close closes the underlying connection. It is safe to call more than once.
func (r *Remote) Close() error {
	var err error
	r.closeOnce.Do(func() {
		err = r.conn.Close()
	})
	return err
}

func (r *Remote) send(op Op, hash string) {
	r.mu.Lock()
	r.hash = hash
	r.mu.Unlock()

	r.writeMu.Lock()
	err := r.conn.WriteJSON(Command{Op: op, Hash: hash})
	r.writeMu.Unlock()

	if err != nil {
		r.writeErrors.Add(1)
		r.logger.Warn("location command failed",
			"op", op,
			"hash", hash,
			"error", errors.New("H011").Wrap(err))
	}
}

// isDecodeError reports whether err came from decoding a single message
// rather than from the connection.
func isDecodeError(err error) bool {
	if err == io.ErrUnexpectedEOF {
		return true
	}
	switch err.(type) {
	case *json.SyntaxError, *json.UnmarshalTypeError:
		return true
	}
	return false
}
