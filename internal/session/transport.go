package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"agar-client/internal/protocol"

	"github.com/gorilla/websocket"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingPeriod   = (pongWait * 9) / 10
	maxFrameSize = 1 << 20
)

// ErrClosed is returned by a Conn once it has been closed by either side
var ErrClosed = errors.New("session: connection closed")

// Conn is a message-oriented duplex connection to the game server
type Conn interface {
	ReadFrame() (protocol.FrameKind, []byte, error)
	WriteFrame(kind protocol.FrameKind, data []byte) error
	Ping() error
	Close() error
}

// Dialer opens connections
type Dialer interface {
	Dial(ctx context.Context, url string) (Conn, error)
}

// WebsocketDialer dials the server with gorilla/websocket
type WebsocketDialer struct {
	Dialer *websocket.Dialer // nil uses websocket.DefaultDialer
	Header http.Header
}

// Dial connects to url (ws:// or wss://)
func (d WebsocketDialer) Dial(ctx context.Context, url string) (Conn, error) {
	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	c, resp, err := dialer.DialContext(ctx, url, d.Header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("session: dial %s: %w", url, err)
	}
	return newWSConn(c), nil
}

type wsConn struct {
	c    *websocket.Conn
	once sync.Once
}

func newWSConn(c *websocket.Conn) *wsConn {
	c.SetReadLimit(maxFrameSize)
	c.SetReadDeadline(time.Now().Add(pongWait))
	c.SetPongHandler(func(string) error {
		c.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	return &wsConn{c: c}
}

func (w *wsConn) ReadFrame() (protocol.FrameKind, []byte, error) {
	for {
		mt, data, err := w.c.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return 0, nil, ErrClosed
			}
			return 0, nil, err
		}
		w.c.SetReadDeadline(time.Now().Add(pongWait))
		switch mt {
		case websocket.TextMessage:
			return protocol.FrameText, data, nil
		case websocket.BinaryMessage:
			return protocol.FrameBinary, data, nil
		}
	}
}

func (w *wsConn) WriteFrame(kind protocol.FrameKind, data []byte) error {
	mt := websocket.TextMessage
	if kind == protocol.FrameBinary {
		mt = websocket.BinaryMessage
	}
	w.c.SetWriteDeadline(time.Now().Add(writeWait))
	return w.c.WriteMessage(mt, data)
}

func (w *wsConn) Ping() error {
	return w.c.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// Close sends a close frame (best effort) and closes the socket. Safe to call
// more than once and concurrently with the pumps.
func (w *wsConn) Close() error {
	var err error
	w.once.Do(func() {
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		w.c.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		err = w.c.Close()
	})
	return err
}

// subscription owns the goroutines serving one connection attempt. Release
// cancels them, closes the connection and waits for them to exit.
type subscription struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once
	conn   Conn
}

func newSubscription(parent context.Context) *subscription {
	ctx, cancel := context.WithCancel(parent)
	return &subscription{ctx: ctx, cancel: cancel}
}

// Go runs fn on its own goroutine until the subscription is released
func (s *subscription) Go(fn func(ctx context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(s.ctx)
	}()
}

func (s *subscription) Release() {
	s.once.Do(func() {
		s.cancel()
		if s.conn != nil {
			s.conn.Close()
		}
		s.wg.Wait()
	})
}

// link is an open connection and its pumps
type link struct {
	gen  uint64
	conn Conn
	send chan []byte
	sub  *subscription
}

// readPump forwards inbound frames to the session loop until the
// connection fails
func (s *Session) readPump(ctx context.Context, l *link) {
	for {
		kind, data, err := l.conn.ReadFrame()
		if err != nil {
			s.deliver(ctx, linkClosed{gen: l.gen, err: err})
			return
		}
		s.trace(TraceIn, kind, data)
		if !s.deliver(ctx, frameIn{gen: l.gen, kind: kind, data: data}) {
			return
		}
	}
}

// writePump drains the send queue in order and keeps the connection alive
// with pings. A write failure closes the connection, which ends readPump.
func (s *Session) writePump(ctx context.Context, l *link) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case data := <-l.send:
			if err := l.conn.WriteFrame(protocol.FrameText, data); err != nil {
				s.log.Printf("write error: %v", err)
				l.conn.Close()
				return
			}
			s.counters.framesOut.Add(1)
			s.trace(TraceOut, protocol.FrameText, data)
		case <-ticker.C:
			if err := l.conn.Ping(); err != nil {
				s.log.Printf("ping error: %v", err)
				l.conn.Close()
				return
			}
		}
	}
}
