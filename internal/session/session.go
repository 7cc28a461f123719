package session

import (
	"context"
	"errors"
	"log"
	"os"
	"sync/atomic"
	"time"

	"agar-client/internal/game"
	"agar-client/internal/protocol"
)

// ErrStopped is returned by Sync once Run has returned
var ErrStopped = errors.New("session: stopped")

// State is the connection lifecycle of a Session
type State int32

const (
	Disconnected State = iota
	Connecting
	ConnectedUnidentified
	Streaming
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case ConnectedUnidentified:
		return "connected"
	case Streaming:
		return "streaming"
	}
	return "unknown"
}

// Open reports whether frames can be sent in this state
func (s State) Open() bool {
	return s == ConnectedUnidentified || s == Streaming
}

const (
	DefaultPositionPeriod = 50 * time.Millisecond
	DefaultFireKey        = 'w'
	DefaultSendQueue      = 256
	eventQueue            = 256
)

// Trace directions
const (
	TraceIn  = "in"
	TraceOut = "out"
)

// Tracer receives a copy of every frame crossing the wire. It is called from
// the transport goroutines and must be safe for concurrent use.
type Tracer interface {
	Trace(dir string, kind protocol.FrameKind, data []byte)
}

// Options configures a Session. Zero fields take defaults.
type Options struct {
	URL            string
	Tuning         game.Tuning
	PositionPeriod time.Duration
	FireKey        rune
	SendQueue      int
	ScreenWidth    float64
	ScreenHeight   float64
	Dialer         Dialer
	Logger         *log.Logger
	Tracer         Tracer
}

func (o *Options) setDefaults() {
	if o.Tuning == (game.Tuning{}) {
		o.Tuning = game.DefaultTuning()
	}
	if o.PositionPeriod <= 0 {
		o.PositionPeriod = DefaultPositionPeriod
	}
	if o.FireKey == 0 {
		o.FireKey = DefaultFireKey
	}
	if o.SendQueue <= 0 {
		o.SendQueue = DefaultSendQueue
	}
	if o.Dialer == nil {
		o.Dialer = WebsocketDialer{}
	}
	if o.Logger == nil {
		o.Logger = log.New(os.Stderr, "[session] ", log.LstdFlags|log.Lmicroseconds)
	}
}

// Session is the client side of one game: it owns the World and keeps it in
// sync with the server. All world state is confined to the Run goroutine;
// other goroutines talk to it through the input methods and read published
// Frames.
type Session struct {
	opts   Options
	log    *log.Logger
	events chan any
	done   chan struct{}

	state    atomic.Int32
	frame    atomic.Pointer[Frame]
	counters counters

	// owned by Run
	world       *game.World
	predictor   *game.Predictor
	adjudicator game.Adjudicator
	cur         State
	gen         uint64
	dialing     *subscription
	link        *link
	pending     map[game.Intent]struct{}
	pointerX    float64
	pointerY    float64
	hasPointer  bool
	screenW     float64
	screenH     float64
	fireHeld    bool
}

// New creates a disconnected session. Call Run to start it.
func New(opts Options) *Session {
	opts.setDefaults()
	s := &Session{
		opts:      opts,
		log:       opts.Logger,
		events:    make(chan any, eventQueue),
		done:      make(chan struct{}),
		world:     game.NewWorld(opts.Tuning),
		predictor: game.NewPredictor(opts.Tuning),
		pending:   make(map[game.Intent]struct{}),
		screenW:   opts.ScreenWidth,
		screenH:   opts.ScreenHeight,
	}
	s.publish()
	return s
}

// Run processes input, network and timer events until ctx is cancelled.
// Every connection is closed before it returns.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)

	ticker := time.NewTicker(s.opts.PositionPeriod)
	defer ticker.Stop()
	defer s.teardown()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-s.events:
			s.handle(ctx, ev)
		case <-ticker.C:
			s.reportPosition()
		}
		s.publish()
	}
}

// Done is closed when Run has returned
func (s *Session) Done() <-chan struct{} { return s.done }

// State returns the current connection state
func (s *Session) State() State { return State(s.state.Load()) }

// Frame returns the most recently published render frame
func (s *Session) Frame() *Frame { return s.frame.Load() }

// Stats returns a snapshot of the session counters
func (s *Session) Stats() Stats { return s.counters.snapshot() }

// PointerMoved reports the pointer position in screen coordinates
func (s *Session) PointerMoved(x, y float64) { s.post(pointerMoved{x: x, y: y}) }

// PointerLeft reports that the pointer left the play area
func (s *Session) PointerLeft() { s.post(pointerLeft{}) }

func (s *Session) KeyDown(key rune) { s.post(keyDown{key: key}) }
func (s *Session) KeyUp(key rune) { s.post(keyUp{key: key}) }

// Resize reports the screen size used for steering and the camera
func (s *Session) Resize(w, h float64) { s.post(resized{w: w, h: h}) }

// Connect starts a connection attempt if the session is disconnected
func (s *Session) Connect() { s.post(connectRequest{}) }

// Disconnect closes the current connection, if any
func (s *Session) Disconnect() { s.post(disconnectRequest{}) }

// Sync waits until every input posted before it has been handled and the
// resulting Frame is published. Frontends that read Frame right after
// posting input use it to see their own input applied.
func (s *Session) Sync(ctx context.Context) error {
	b := make(barrier)
	select {
	case s.events <- b:
	case <-s.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-b:
		return nil
	case <-s.done:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// post hands an event to the loop. It gives up once Run has returned.
func (s *Session) post(ev any) {
	select {
	case s.events <- ev:
	case <-s.done:
	}
}

// deliver is post for goroutines owned by a subscription
func (s *Session) deliver(ctx context.Context, ev any) bool {
	select {
	case s.events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

func (s *Session) trace(dir string, kind protocol.FrameKind, data []byte) {
	if s.opts.Tracer != nil {
		s.opts.Tracer.Trace(dir, kind, data)
	}
}

func (s *Session) setState(st State) {
	if st == s.cur {
		return
	}
	s.log.Printf("state %s -> %s", s.cur, st)
	s.cur = st
	s.state.Store(int32(st))
}

// teardown releases every subscription when Run exits
func (s *Session) teardown() {
	s.dropConnection()
	s.setState(Disconnected)
	s.publish()
}
