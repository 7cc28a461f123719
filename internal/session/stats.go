package session

import "sync/atomic"

// Stats is a point-in-time copy of the session counters
type Stats struct {
	FramesIn       int64
	FramesOut      int64
	Dropped        int64 // outbound frames discarded while closed or congested
	DecodeErrors   int64
	Ignored        int64 // payloads with nothing to apply
	ConsumeIntents int64
	FireIntents    int64
	Suppressed     int64 // overlaps seen before an id was assigned
}

type counters struct {
	framesIn       atomic.Int64
	framesOut      atomic.Int64
	dropped        atomic.Int64
	decodeErrors   atomic.Int64
	ignored        atomic.Int64
	consumeIntents atomic.Int64
	fireIntents    atomic.Int64
	suppressed     atomic.Int64
}

func (c *counters) snapshot() Stats {
	return Stats{
		FramesIn:       c.framesIn.Load(),
		FramesOut:      c.framesOut.Load(),
		Dropped:        c.dropped.Load(),
		DecodeErrors:   c.decodeErrors.Load(),
		Ignored:        c.ignored.Load(),
		ConsumeIntents: c.consumeIntents.Load(),
		FireIntents:    c.fireIntents.Load(),
		Suppressed:     c.suppressed.Load(),
	}
}
