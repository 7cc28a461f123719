package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"agar-client/internal/protocol"

	"github.com/gorilla/websocket"
)

var testUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// startTestServer runs a websocket server that hands each accepted
// connection to handler and returns its ws:// URL
func startTestServer(t *testing.T, handler func(*websocket.Conn)) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade error: %v", err)
			return
		}
		defer conn.Close()
		handler(conn)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

// readJSON reads one text message from the client
func readJSON(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	mt, raw, err := conn.ReadMessage()
	if err != nil {
		t.Errorf("read WS: %v", err)
		return nil
	}
	if mt != websocket.TextMessage {
		t.Errorf("expected text message, got type %d", mt)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Errorf("unmarshal: %v", err)
	}
	return m
}

func TestWebsocketSession(t *testing.T) {
	got := make(chan map[string]any, 16)
	url := startTestServer(t, func(conn *websocket.Conn) {
		conn.WriteMessage(websocket.TextMessage, []byte(`{"playerId":1}`))
		conn.WriteMessage(websocket.TextMessage, []byte(
			`{"players":[{"id":1,"x":5000,"y":5000,"mass":30}],"cells":[{"id":0,"x":5005,"y":5000,"mass":1,"color":"#0f0"}],"blobs":[]}`))

		// Binary state frames use msgpack
		snap, err := protocol.EncodeSnapshot(protocol.FrameBinary,
			[]protocol.PlayerState{{ID: protocol.NumericID(1), X: 5000, Y: 5000, Mass: 31}}, nil, nil)
		if err != nil {
			t.Errorf("encode: %v", err)
			return
		}
		conn.WriteMessage(websocket.BinaryMessage, snap)

		for i := 0; i < 2; i++ {
			m := readJSON(t, conn)
			if m == nil {
				return
			}
			got <- m
		}
		conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"))
		conn.SetReadDeadline(time.Now().Add(time.Second))
		conn.ReadMessage()
	})

	s := New(Options{
		URL:            url,
		PositionPeriod: time.Hour,
		ScreenWidth:    800,
		ScreenHeight:   600,
		Logger:         quietLogger(),
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		<-s.Done()
	}()
	go s.Run(ctx)
	s.Connect()

	// The overlapping cell is requested as soon as we are identified
	m := <-got
	if m["consumedCellId"] != float64(0) {
		t.Errorf("expected consume of cell 0, got %v", m)
	}

	waitFrame(t, s, func(f *Frame) bool { return f.Mass == 31 })
	s.KeyDown('w')
	m = <-got
	if m["fireBlob"] != true {
		t.Errorf("expected fire request, got %v", m)
	}

	waitState(t, s, Disconnected)
	if st := s.Stats(); st.FramesIn != 3 || st.FramesOut != 2 {
		t.Errorf("unexpected stats %+v", st)
	}
}

func TestWebsocketDialFailure(t *testing.T) {
	_, err := WebsocketDialer{}.Dial(context.Background(), "ws://127.0.0.1:1/ws")
	if err == nil {
		t.Fatal("expected dial error")
	}
	if !strings.Contains(err.Error(), "session: dial") {
		t.Errorf("error should be wrapped, got %v", err)
	}
}
