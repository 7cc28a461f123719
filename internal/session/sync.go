package session

import (
	"context"
	"errors"

	"agar-client/internal/game"
	"agar-client/internal/protocol"
)

type (
	pointerMoved      struct{ x, y float64 }
	pointerLeft       struct{}
	keyDown           struct{ key rune }
	keyUp             struct{ key rune }
	resized           struct{ w, h float64 }
	connectRequest    struct{}
	disconnectRequest struct{}

	dialResult struct {
		gen  uint64
		conn Conn
		err  error
	}
	frameIn struct {
		gen  uint64
		kind protocol.FrameKind
		data []byte
	}
	linkClosed struct {
		gen uint64
		err error
	}

	// barrier is posted by Sync. The loop closes it once every earlier
	// event is handled and the resulting frame is published.
	barrier chan struct{}
)

func (s *Session) handle(ctx context.Context, ev any) {
	switch ev := ev.(type) {
	case pointerMoved:
		s.pointerX, s.pointerY, s.hasPointer = ev.x, ev.y, true
		if s.screenW > 0 && s.screenH > 0 {
			s.predictor.Step(s.world, game.SteeringAngle(ev.x, ev.y, s.screenW, s.screenH))
			s.adjudicate()
		}
	case pointerLeft:
		// Last position is kept for the fire angle; no steering until it returns
	case keyDown:
		if ev.key != s.opts.FireKey || s.fireHeld {
			return
		}
		s.fireHeld = true
		s.fire()
	case keyUp:
		if ev.key == s.opts.FireKey {
			s.fireHeld = false
		}
	case resized:
		s.screenW, s.screenH = ev.w, ev.h
	case connectRequest:
		s.connect(ctx)
	case disconnectRequest:
		if s.cur != Disconnected {
			s.log.Printf("disconnect requested")
			s.dropConnection()
			s.setState(Disconnected)
		}
	case dialResult:
		s.dialed(ctx, ev)
	case frameIn:
		if ev.gen != s.gen || s.link == nil {
			return
		}
		s.receive(ev.kind, ev.data)
	case linkClosed:
		if ev.gen != s.gen || s.link == nil {
			return
		}
		if ev.err != nil && !errors.Is(ev.err, ErrClosed) {
			s.log.Printf("connection lost: %v", ev.err)
		} else {
			s.log.Printf("connection closed by server")
		}
		s.dropConnection()
		s.setState(Disconnected)
	case barrier:
		s.publish()
		close(ev)
	}
}

// connect starts dialing. The result comes back as a dialResult event.
func (s *Session) connect(ctx context.Context) {
	if s.cur != Disconnected {
		return
	}
	s.gen++
	gen := s.gen
	s.world.ResetID()
	clear(s.pending)
	s.setState(Connecting)

	sub := newSubscription(ctx)
	s.dialing = sub
	url := s.opts.URL
	sub.Go(func(ctx context.Context) {
		conn, err := s.opts.Dialer.Dial(ctx, url)
		if !s.deliver(ctx, dialResult{gen: gen, conn: conn, err: err}) && conn != nil {
			conn.Close()
		}
	})
}

func (s *Session) dialed(ctx context.Context, ev dialResult) {
	if ev.gen != s.gen || s.cur != Connecting {
		if ev.conn != nil {
			ev.conn.Close()
		}
		return
	}
	if s.dialing != nil {
		s.dialing.Release()
		s.dialing = nil
	}
	if ev.err != nil {
		s.log.Printf("connect failed: %v", ev.err)
		s.setState(Disconnected)
		return
	}

	sub := newSubscription(ctx)
	sub.conn = ev.conn
	l := &link{
		gen:  ev.gen,
		conn: ev.conn,
		send: make(chan []byte, s.opts.SendQueue),
		sub:  sub,
	}
	s.link = l
	sub.Go(func(ctx context.Context) { s.readPump(ctx, l) })
	sub.Go(func(ctx context.Context) { s.writePump(ctx, l) })
	s.setState(ConnectedUnidentified)
}

// dropConnection releases the dial attempt or link. Events they already
// queued are discarded by generation.
func (s *Session) dropConnection() {
	s.gen++
	if s.dialing != nil {
		s.dialing.Release()
		s.dialing = nil
	}
	if s.link != nil {
		s.link.sub.Release()
		s.link = nil
	}
	s.fireHeld = false
}

// receive applies one inbound frame. A frame carrying both an identity and
// a roster is handled identity first.
func (s *Session) receive(kind protocol.FrameKind, data []byte) {
	s.counters.framesIn.Add(1)
	msg, err := protocol.Decode(kind, data)
	if err != nil {
		s.counters.decodeErrors.Add(1)
		if msg.Empty() {
			s.log.Printf("dropping %s frame: %v", kind, err)
			return
		}
		s.log.Printf("applying %s frame without malformed fields: %v", kind, err)
	}
	if msg.Empty() {
		s.counters.ignored.Add(1)
		return
	}
	if msg.Identity != nil {
		s.identify(msg.Identity.PlayerID)
	}
	if msg.Snapshot != nil {
		s.applySnapshot(msg.Snapshot)
	}
	s.adjudicate()
}

func (s *Session) identify(id protocol.ID) {
	switch {
	case s.world.Local().Identified():
		s.counters.ignored.Add(1)
		s.log.Printf("ignoring player id %s: already identified as %s", id, s.world.Local().ID)
		return
	case s.cur != ConnectedUnidentified, !s.world.AssignID(id):
		s.counters.ignored.Add(1)
		s.log.Printf("ignoring player id %s while %s", id, s.cur)
		return
	}
	s.log.Printf("assigned player id %s", id)
	s.setState(Streaming)
}

func (s *Session) applySnapshot(m *protocol.Snapshot) {
	snap := game.Snapshot{
		Players:  make([]game.Player, len(m.Players)),
		HasCells: m.HasCells,
		HasBlobs: m.HasBlobs,
	}
	for i, p := range m.Players {
		snap.Players[i] = game.Player{ID: p.ID, X: p.X, Y: p.Y, Mass: p.Mass}
	}
	if m.HasCells {
		snap.Cells = make([]game.Cell, len(m.Cells))
		for i, c := range m.Cells {
			snap.Cells[i] = game.Cell{ID: c.ID, X: c.X, Y: c.Y, Mass: c.Mass, Color: c.Color}
		}
	}
	if m.HasBlobs {
		snap.Blobs = make([]game.Blob, len(m.Blobs))
		for i, b := range m.Blobs {
			snap.Blobs[i] = game.Blob{ID: b.ID, X: b.X, Y: b.Y, Mass: b.Mass}
		}
	}
	s.world.ApplySnapshot(snap)

	// A replaced collection may be requested again
	for it := range s.pending {
		if (it.Kind == game.KindCell && m.HasCells) || (it.Kind == game.KindBlob && m.HasBlobs) {
			delete(s.pending, it)
		}
	}
}

// adjudicate sends one consume request per newly touched entity
func (s *Session) adjudicate() {
	intents := s.adjudicator.Check(s.world)
	s.counters.suppressed.Store(int64(s.adjudicator.Suppressed()))
	for _, it := range intents {
		if _, ok := s.pending[it]; ok {
			continue
		}
		if s.send(protocol.ConsumeCell{ConsumedCellID: it.ID}) {
			s.pending[it] = struct{}{}
			s.counters.consumeIntents.Add(1)
		}
	}
}

// fire ejects a blob toward the pointer. Mass is only spent once the
// request is queued.
func (s *Session) fire() {
	t := s.world.Tuning()
	if s.world.Local().Mass <= t.FireMassFloor {
		return
	}
	var angle float64
	if s.hasPointer && s.screenW > 0 && s.screenH > 0 {
		angle = game.SteeringAngle(s.pointerX, s.pointerY, s.screenW, s.screenH)
	}
	if s.send(protocol.NewFireBlob(angle)) {
		s.world.SpendMass(t.FireMassCost)
		s.counters.fireIntents.Add(1)
	}
}

func (s *Session) reportPosition() {
	if !s.cur.Open() {
		return
	}
	l := s.world.Local()
	s.send(protocol.PositionReport{X: l.X, Y: l.Y})
}

// send queues an outbound payload. Nothing is buffered across a closed
// connection: the frame is dropped and counted instead.
func (s *Session) send(payload any) bool {
	if s.link == nil || !s.cur.Open() {
		s.counters.dropped.Add(1)
		return false
	}
	data, err := protocol.Encode(payload)
	if err != nil {
		s.log.Printf("encode error: %v", err)
		return false
	}
	select {
	case s.link.send <- data:
		return true
	default:
		s.counters.dropped.Add(1)
		return false
	}
}
