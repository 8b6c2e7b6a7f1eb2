package channel

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// wsEcho serves each payload as one binary message, then closes
// normally.
func wsEcho(t *testing.T, payloads ...[]byte) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()
		for _, p := range payloads {
			if err := conn.WriteMessage(websocket.BinaryMessage, p); err != nil {
				t.Errorf("write failed: %v", err)
				return
			}
		}
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWSStream_ReadFrames(t *testing.T) {
	srv := wsEcho(t, []byte("frame one"), []byte("frame two"))
	defer srv.Close()

	stream := NewWSStream(WSConfig{URL: wsURL(srv)})
	defer stream.Close()

	ctx := context.Background()
	first, err := stream.ReadFrame(ctx)
	if err != nil {
		t.Fatalf("first ReadFrame failed: %v", err)
	}
	if string(first) != "frame one" {
		t.Errorf("first = %q, want %q", first, "frame one")
	}

	second, err := stream.ReadFrame(ctx)
	if err != nil {
		t.Fatalf("second ReadFrame failed: %v", err)
	}
	if string(second) != "frame two" {
		t.Errorf("second = %q, want %q", second, "frame two")
	}

	if _, err := stream.ReadFrame(ctx); err != io.EOF {
		t.Errorf("after close ReadFrame = %v, want io.EOF", err)
	}
}

func TestWSStream_WatcherRetiredWithConnection(t *testing.T) {
	upgrader := websocket.Upgrader{}
	var conns int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		if atomic.AddInt32(&conns, 1) == 1 {
			// Abrupt close, forcing the client to drop and redial.
			conn.WriteMessage(websocket.BinaryMessage, []byte("first"))
			conn.Close()
			return
		}
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		conn.Close()
	}))
	defer srv.Close()

	baseline := runtime.NumGoroutine()

	stream := NewWSStream(WSConfig{URL: wsURL(srv)})
	ctx := context.Background()
	payload, err := stream.ReadFrame(ctx)
	if err != nil || string(payload) != "first" {
		t.Fatalf("first ReadFrame = %q, %v", payload, err)
	}
	// The dead connection is dropped, the redial sees a clean close.
	if _, err := stream.ReadFrame(ctx); err != io.EOF {
		t.Fatalf("second ReadFrame = %v, want io.EOF", err)
	}
	if err := stream.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	// Every per-connection watcher must have exited even though ctx was
	// never canceled.
	deadline := time.Now().Add(2 * time.Second)
	for runtime.NumGoroutine() > baseline {
		if time.Now().After(deadline) {
			t.Fatalf("goroutines = %d, want <= %d after stream close",
				runtime.NumGoroutine(), baseline)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWSStream_ClosedStreamReadsEOF(t *testing.T) {
	srv := wsEcho(t, []byte("unread"))
	defer srv.Close()

	stream := NewWSStream(WSConfig{URL: wsURL(srv)})
	if err := stream.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, err := stream.ReadFrame(context.Background()); err != io.EOF {
		t.Errorf("ReadFrame after Close = %v, want io.EOF", err)
	}
}
