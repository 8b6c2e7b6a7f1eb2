package channel

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/parley-im/parley/log"
	"github.com/parley-im/parley/metrics"
	"github.com/parley-im/parley/types"
	"github.com/parley-im/parley/wire"
)

// Stream yields raw push frames in delivery order. Implementations own
// transport concerns (reconnection, keepalive); the channel only reads.
type Stream interface {
	// ReadFrame blocks until the next frame payload arrives. Returns
	// io.EOF when the stream ends cleanly.
	ReadFrame(ctx context.Context) ([]byte, error)
	Close() error
}

// ReaderStream adapts a length-prefixed byte stream (a long-poll
// response body, a test fixture) into a Stream.
type ReaderStream struct {
	decoder *FrameDecoder
	closer  io.Closer
}

// NewReaderStream creates a stream over r. If r is also an io.Closer,
// Close closes it.
func NewReaderStream(r io.Reader) *ReaderStream {
	s := &ReaderStream{decoder: NewFrameDecoder(r)}
	if c, ok := r.(io.Closer); ok {
		s.closer = c
	}
	return s
}

func (s *ReaderStream) ReadFrame(_ context.Context) ([]byte, error) {
	return s.decoder.ReadFrame()
}

func (s *ReaderStream) Close() error {
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}

// RunErrorKind classifies channel run errors for outcome determination.
type RunErrorKind int

const (
	// RunErrorStream indicates a stream or framing failure; the stream
	// needs to be reopened.
	RunErrorStream RunErrorKind = iota
	// RunErrorDeliver indicates the batch consumer failed.
	RunErrorDeliver
	// RunErrorCanceled indicates context cancellation.
	RunErrorCanceled
)

// RunError classifies a channel run failure.
type RunError struct {
	Kind RunErrorKind
	Err  error
}

func (e *RunError) Error() string {
	return e.Err.Error()
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// IsStreamError returns true if the error is a stream/framing failure.
func IsStreamError(err error) bool {
	var runErr *RunError
	if errors.As(err, &runErr) {
		return runErr.Kind == RunErrorStream
	}
	return false
}

// Channel reads push frames, decodes them, and forwards batches to a
// consumer one at a time in delivery order. A frame that fails to
// decode is dropped and the stream continues; losing one update at
// worst leaves a conversation stale until the next catch-up sync.
type Channel struct {
	stream     Stream
	logger     *log.Logger
	collector  *metrics.Collector
	onClientID func(string)

	mu       sync.Mutex
	clientID string
}

// Option configures a Channel.
type Option func(*Channel)

// WithCollector counts dropped frames on col. A nil collector is a
// no-op.
func WithCollector(col *metrics.Collector) Option {
	return func(c *Channel) { c.collector = col }
}

// WithClientIDFunc registers fn to run when the server assigns or
// changes the client resource id. fn runs on the delivery goroutine,
// before any batch carried by the same frame.
func WithClientIDFunc(fn func(string)) Option {
	return func(c *Channel) { c.onClientID = fn }
}

// New creates a channel over a stream.
func New(stream Stream, logger *log.Logger, opts ...Option) *Channel {
	c := &Channel{stream: stream, logger: logger}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClientID returns the client resource id the server assigned, or ""
// before the assignment frame arrives.
func (c *Channel) ClientID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clientID
}

func (c *Channel) setClientID(id string) {
	c.mu.Lock()
	changed := c.clientID != id
	c.clientID = id
	c.mu.Unlock()
	if !changed {
		return
	}

	// Only the Run goroutine touches the logger after construction.
	c.logger = c.logger.WithClientID(id)
	c.logger.Info("push channel assigned client id", nil)
	if c.onClientID != nil {
		c.onClientID(id)
	}
}

// Run reads frames until EOF, cancellation, or a fatal error. Each
// decoded batch is handed to deliver; deliver runs to completion before
// the next frame is read, so server delivery order is the apply order.
//
// Returns:
//   - nil: stream ended cleanly (EOF)
//   - *RunError with Kind=RunErrorStream: stream/framing failure
//   - *RunError with Kind=RunErrorDeliver: deliver returned an error
//   - *RunError with Kind=RunErrorCanceled: context canceled
func (c *Channel) Run(ctx context.Context, deliver func(*types.BatchUpdate) error) error {
	for {
		select {
		case <-ctx.Done():
			return &RunError{Kind: RunErrorCanceled, Err: ctx.Err()}
		default:
		}

		payload, err := c.stream.ReadFrame(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if ctx.Err() != nil {
				return &RunError{Kind: RunErrorCanceled, Err: ctx.Err()}
			}
			return &RunError{Kind: RunErrorStream, Err: err}
		}

		frame, err := wire.DecodePushFrame(payload)
		if err != nil {
			// One bad frame must not abort the stream.
			c.collector.IncFrameMalformed()
			c.logger.Warn("dropping malformed push frame", map[string]any{
				"error": err.Error(),
				"bytes": len(payload),
			})
			continue
		}

		if frame.ClientID != "" {
			c.setClientID(frame.ClientID)
		}
		if frame.BatchUpdate == nil {
			continue
		}
		if err := deliver(frame.BatchUpdate); err != nil {
			return &RunError{Kind: RunErrorDeliver, Err: err}
		}
	}
}
