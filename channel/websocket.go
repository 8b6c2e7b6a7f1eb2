package channel

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/parley-im/parley/iox"
	"github.com/parley-im/parley/log"
	"github.com/parley-im/parley/syncer"
)

// WSConfig configures a websocket push stream.
type WSConfig struct {
	// URL is the push endpoint, ws:// or wss://.
	URL string
	// Header carries auth cookies and headers for the handshake.
	Header http.Header
	// Dialer defaults to websocket.DefaultDialer.
	Dialer *websocket.Dialer
	// Reconnect drives redial backoff. Defaults to syncer.DefaultBackoff.
	Reconnect *syncer.Backoff
	// Logger defaults to log.Nop.
	Logger *log.Logger
}

// WSStream is a push stream over a websocket. Each websocket message is
// one frame payload; the stream redials with backoff when the
// connection drops, so consumers observe a single uninterrupted frame
// sequence. Events missed while disconnected are recovered by the sync
// coordinator, not the stream.
type WSStream struct {
	cfg WSConfig

	mu       sync.Mutex
	conn     *websocket.Conn
	connDone chan struct{}
	closed   bool
}

// NewWSStream creates a websocket stream. No connection is opened until
// the first ReadFrame.
func NewWSStream(cfg WSConfig) *WSStream {
	if cfg.Dialer == nil {
		cfg.Dialer = websocket.DefaultDialer
	}
	if cfg.Reconnect == nil {
		cfg.Reconnect = syncer.DefaultBackoff()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Nop()
	}
	return &WSStream{cfg: cfg}
}

// ReadFrame returns the next message payload, redialing as needed.
func (s *WSStream) ReadFrame(ctx context.Context) ([]byte, error) {
	for {
		conn, err := s.ensure(ctx)
		if err != nil {
			return nil, err
		}

		_, payload, err := conn.ReadMessage()
		if err == nil {
			return payload, nil
		}
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			return nil, io.EOF
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		s.drop(conn)
		s.cfg.Logger.Warn("push stream dropped, redialing", map[string]any{
			"error": err.Error(),
		})
	}
}

// ensure returns the live connection, dialing with backoff when there
// is none.
func (s *WSStream) ensure(ctx context.Context) (*websocket.Conn, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, io.EOF
	}
	if s.conn != nil {
		conn := s.conn
		s.mu.Unlock()
		return conn, nil
	}
	s.mu.Unlock()

	var conn *websocket.Conn
	err := s.cfg.Reconnect.Execute(ctx, func() error {
		c, _, err := s.cfg.Dialer.DialContext(ctx, s.cfg.URL, s.cfg.Header)
		if err != nil {
			return err
		}
		conn = c
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		iox.DiscardClose(conn)
		return nil, io.EOF
	}
	done := make(chan struct{})
	s.conn = conn
	s.connDone = done
	s.mu.Unlock()

	// Unblock ReadMessage when the caller cancels. The watcher lives
	// only as long as its connection; drop and Close retire it.
	go func(conn *websocket.Conn, done chan struct{}) {
		select {
		case <-ctx.Done():
			iox.DiscardClose(conn)
		case <-done:
		}
	}(conn, done)

	return conn, nil
}

// drop discards a dead connection so the next ReadFrame redials.
func (s *WSStream) drop(conn *websocket.Conn) {
	iox.DiscardClose(conn)
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
		close(s.connDone)
		s.connDone = nil
	}
	s.mu.Unlock()
}

// Close tears down the stream. Subsequent reads return io.EOF.
func (s *WSStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	if s.conn == nil {
		return nil
	}
	s.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	err := s.conn.Close()
	s.conn = nil
	if s.connDone != nil {
		close(s.connDone)
		s.connDone = nil
	}
	return err
}
