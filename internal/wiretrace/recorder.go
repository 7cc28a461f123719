package wiretrace

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"agar-client/internal/protocol"
)

const (
	queueSize     = 1024
	batchSize     = 64
	flushInterval = time.Second
)

// Record is one traced frame
type Record struct {
	Time    time.Time       `json:"ts"`
	Dir     string          `json:"dir"`
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"` // valid JSON text frames
	Text    string          `json:"text,omitempty"`    // other text frames
	Binary  []byte          `json:"binary,omitempty"`
}

// Recorder traces frames without blocking the caller. Records are batched
// and written by a background goroutine.
type Recorder struct {
	w      *Writer
	logger *log.Logger
	recs   chan Record
	stop   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once

	mu      sync.Mutex
	dropped int
}

// NewRecorder starts a recorder writing under dir
func NewRecorder(dir string, logger *log.Logger) *Recorder {
	r := &Recorder{
		w:      NewWriter(dir, "wire"),
		logger: logger,
		recs:   make(chan Record, queueSize),
		stop:   make(chan struct{}),
	}
	r.wg.Add(1)
	go r.writer()
	return r
}

// Trace enqueues a copy of data. When the queue is full the record is dropped.
func (r *Recorder) Trace(dir string, kind protocol.FrameKind, data []byte) {
	rec := Record{Time: time.Now().UTC(), Dir: dir, Kind: kind.String()}
	switch {
	case kind == protocol.FrameBinary:
		rec.Binary = append([]byte(nil), data...)
	case json.Valid(data):
		rec.Payload = append(json.RawMessage(nil), data...)
	default:
		rec.Text = string(data)
	}

	select {
	case <-r.stop:
		return
	default:
	}
	select {
	case r.recs <- rec:
	default:
		r.mu.Lock()
		r.dropped++
		r.mu.Unlock()
	}
}

// Dropped returns how many records were lost to a full queue
func (r *Recorder) Dropped() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.dropped
}

// Close writes everything queued so far and closes the current file
func (r *Recorder) Close() error {
	r.once.Do(func() {
		close(r.stop)
		r.wg.Wait()
	})
	return r.w.Close()
}

func (r *Recorder) writer() {
	defer r.wg.Done()

	batch := make([]Record, 0, batchSize)
	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case rec := <-r.recs:
			batch = append(batch, rec)
			if len(batch) >= batchSize {
				r.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				r.flush(batch)
				batch = batch[:0]
			}
		case <-r.stop:
			for len(r.recs) > 0 {
				batch = append(batch, <-r.recs)
			}
			r.flush(batch)
			return
		}
	}
}

func (r *Recorder) flush(batch []Record) {
	if len(batch) == 0 {
		return
	}
	for _, rec := range batch {
		if err := r.w.Write(rec.Time, rec); err != nil {
			r.logger.Printf("wiretrace: write error: %v", err)
			return
		}
	}
	if err := r.w.Flush(); err != nil {
		r.logger.Printf("wiretrace: flush error: %v", err)
	}
}
