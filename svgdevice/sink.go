package svgdevice

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/cenkalti/backoff/v5"
)

// Sink accepts one directive line at a time.
// Implementations must serialize concurrent calls.
type Sink interface {
	Send(ctx context.Context, line string) error
}

// TransportError is returned when a line could not be written.
type TransportError struct {
	Line string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error sending %q: %v", e.Line, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Dialer opens a new connection to the controller.
type Dialer func(ctx context.Context) (io.WriteCloser, error)

// SessionOptions configures a Session.
type SessionOptions struct {
	// LineEnding is appended to every line. It defaults to "\n".
	LineEnding string
	// MaxTries bounds the attempts for one line, reconnection included.
	// It defaults to 3.
	MaxTries uint
	// BackOff paces the retries. It defaults to an exponential back off.
	BackOff backoff.BackOff
	Logger  *slog.Logger
}

// Session is an explicit, reconnectable handle on the controller link.
// A failed write closes the connection: the next attempt dials again.
// Session is safe for concurrent use; writes never interleave.
type Session struct {
	dial Dialer
	opts SessionOptions

	mu   sync.Mutex
	conn io.WriteCloser
}

var _ Sink = (*Session)(nil)

// NewSession returns a closed session. Use Open to connect eagerly,
// or let the first Send do it.
func NewSession(dial Dialer, opts SessionOptions) *Session {
	if opts.LineEnding == "" {
		opts.LineEnding = "\n"
	}
	if opts.MaxTries == 0 {
		opts.MaxTries = 3
	}
	if opts.BackOff == nil {
		opts.BackOff = backoff.NewExponentialBackOff()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Session{dial: dial, opts: opts}
}

// Open connects the session, if needed.
func (s *Session) Open(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connect(ctx)
}

func (s *Session) connect(ctx context.Context) error {
	if s.conn != nil {
		return nil
	}
	conn, err := s.dial(ctx)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	s.conn = conn
	s.opts.Logger.Debug("device connected")
	return nil
}

// drop closes the current connection, ignoring errors
func (s *Session) drop() {
	if s.conn == nil {
		return
	}
	_ = s.conn.Close()
	s.conn = nil
}

// Healthy returns true if the session holds a connection
// which has not failed yet.
func (s *Session) Healthy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn != nil
}

// Close releases the connection. The session may be opened again.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil
	}
	err := s.conn.Close()
	s.conn = nil
	return err
}

// Send writes `line`, followed by the line ending.
// Failures trigger a reconnection and a retry, up to MaxTries attempts.
func (s *Session) Send(ctx context.Context, line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := []byte(line + s.opts.LineEnding)
	attempt := 0
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		attempt++
		if attempt > 1 {
			s.opts.Logger.Warn("retrying device write", "line", line, "attempt", attempt)
		}
		if err := s.connect(ctx); err != nil {
			return struct{}{}, err
		}
		if _, err := s.conn.Write(data); err != nil {
			s.drop()
			return struct{}{}, err
		}
		return struct{}{}, nil
	}, backoff.WithBackOff(s.opts.BackOff), backoff.WithMaxTries(s.opts.MaxTries))
	if err != nil {
		return &TransportError{Line: line, Err: err}
	}
	return nil
}
