package host

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/squadready/squadready/internal/roster"
)

const (
	defaultMinBackoff   = 500 * time.Millisecond
	defaultMaxBackoff   = 30 * time.Second
	defaultReadTimeout  = 60 * time.Second
	defaultPingInterval = 25 * time.Second
	defaultWriteTimeout = 10 * time.Second
)

// WebSocketSource connects to the host bridge and keeps reconnecting until
// the context ends.
type WebSocketSource struct {
	url    string
	header http.Header
	dialer *websocket.Dialer
	clock  clockwork.Clock
	logger zerolog.Logger

	minBackoff   time.Duration
	maxBackoff   time.Duration
	readTimeout  time.Duration
	pingInterval time.Duration
	writeTimeout time.Duration
}

// WebSocketOption configures a WebSocketSource.
type WebSocketOption func(*WebSocketSource)

// WithBackoff sets the reconnect delay bounds.
func WithBackoff(minDelay, maxDelay time.Duration) WebSocketOption {
	return func(s *WebSocketSource) {
		if minDelay > 0 {
			s.minBackoff = minDelay
		}
		if maxDelay >= s.minBackoff {
			s.maxBackoff = maxDelay
		}
	}
}

// WithKeepalive sets the ping cadence and how long a silent connection is
// kept before it is considered dead. readTimeout should exceed interval.
func WithKeepalive(interval, readTimeout time.Duration) WebSocketOption {
	return func(s *WebSocketSource) {
		if interval > 0 {
			s.pingInterval = interval
		}
		if readTimeout > 0 {
			s.readTimeout = readTimeout
		}
	}
}

// WithClock sets the clock used for reconnect backoff.
func WithClock(clock clockwork.Clock) WebSocketOption {
	return func(s *WebSocketSource) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) WebSocketOption {
	return func(s *WebSocketSource) {
		s.logger = logger
	}
}

// WithHeader sets extra handshake headers.
func WithHeader(header http.Header) WebSocketOption {
	return func(s *WebSocketSource) {
		s.header = header
	}
}

// NewWebSocketSource creates a source for the bridge at url.
func NewWebSocketSource(url string, opts ...WebSocketOption) *WebSocketSource {
	s := &WebSocketSource{
		url:          url,
		dialer:       &websocket.Dialer{HandshakeTimeout: 10 * time.Second, Proxy: http.ProxyFromEnvironment},
		clock:        clockwork.NewRealClock(),
		logger:       zerolog.Nop(),
		minBackoff:   defaultMinBackoff,
		maxBackoff:   defaultMaxBackoff,
		readTimeout:  defaultReadTimeout,
		pingInterval: defaultPingInterval,
		writeTimeout: defaultWriteTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run connects, dispatches messages and reconnects with capped exponential
// backoff. It returns nil once ctx is cancelled.
func (s *WebSocketSource) Run(ctx context.Context, h Handler) error {
	backoff := s.minBackoff
	for {
		connected, err := s.session(ctx, h)
		if ctx.Err() != nil {
			return nil
		}
		if connected {
			backoff = s.minBackoff
		}
		s.logger.Warn().Err(err).Dur("retry_in", backoff).Str("url", s.url).Msg("host bridge disconnected")

		select {
		case <-ctx.Done():
			return nil
		case <-s.clock.After(backoff):
		}
		backoff = nextBackoff(backoff, s.maxBackoff)
	}
}

// nextBackoff doubles cur, capped at limit.
func nextBackoff(cur, limit time.Duration) time.Duration {
	next := cur * 2
	if next > limit || next <= 0 {
		return limit
	}
	return next
}

// session runs one connection. connected reports whether the handshake
// succeeded, which resets the backoff.
func (s *WebSocketSource) session(ctx context.Context, h Handler) (connected bool, err error) {
	conn, _, err := s.dialer.DialContext(ctx, s.url, s.header)
	if err != nil {
		return false, fmt.Errorf("dial %s: %w", s.url, err)
	}
	s.logger.Info().Str("url", s.url).Msg("connected to host bridge")

	done := make(chan struct{})
	defer close(done)

	go func() {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(s.writeTimeout))
			_ = conn.Close()
		case <-done:
			_ = conn.Close()
		}
	}()
	go s.pingLoop(conn, done)

	_ = conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(s.readTimeout))
	})

	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return true, errors.New("bridge closed the connection")
			}
			return true, fmt.Errorf("read: %w", err)
		}
		_ = conn.SetReadDeadline(time.Now().Add(s.readTimeout))
		if kind != websocket.TextMessage {
			continue
		}

		msg, err := roster.DecodeMessage(data)
		if err != nil {
			s.logger.Warn().Err(err).Msg("dropping malformed host message")
			continue
		}
		Dispatch(h, msg, s.logger)
	}
}

func (s *WebSocketSource) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(s.pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(s.writeTimeout)); err != nil {
				s.logger.Debug().Err(err).Msg("ping failed")
				return
			}
		}
	}
}

// Probe dials url once and closes the connection. It reports whether the
// host bridge is accepting connections.
func Probe(ctx context.Context, url string, timeout time.Duration) error {
	dialer := &websocket.Dialer{HandshakeTimeout: timeout, Proxy: http.ProxyFromEnvironment}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial %s: %w", url, err)
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(defaultWriteTimeout))
	return conn.Close()
}
