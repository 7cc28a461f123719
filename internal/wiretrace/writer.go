package wiretrace

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// Writer appends JSON lines to zstd-compressed segments, one per UTC hour of
// the line's own timestamp: <dir>/<prefix>-2006-01-02-15.jsonl.zst
type Writer struct {
	dir    string
	prefix string

	mu  sync.Mutex
	cur *segment
}

func NewWriter(dir, prefix string) *Writer {
	return &Writer{dir: dir, prefix: prefix}
}

// Write encodes v as one line of the segment covering at. Lines are
// buffered until Flush or Close.
func (w *Writer) Write(at time.Time, v any) error {
	line, err := json.Marshal(v)
	if err != nil {
		return err
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()

	hour := at.UTC().Truncate(time.Hour)
	if w.cur == nil || !w.cur.hour.Equal(hour) {
		if err := w.switchTo(hour); err != nil {
			return err
		}
	}
	_, err = w.cur.buf.Write(line)
	return err
}

// Flush pushes buffered lines through the encoder to the file
func (w *Writer) Flush() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cur == nil {
		return nil
	}
	return w.cur.flush()
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cur == nil {
		return nil
	}
	err := w.cur.close()
	w.cur = nil
	return err
}

// switchTo closes the open segment and opens the one for hour. An earlier
// segment is appended to as a new zstd frame.
func (w *Writer) switchTo(hour time.Time) error {
	if w.cur != nil {
		err := w.cur.close()
		w.cur = nil
		if err != nil {
			return err
		}
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return err
	}
	seg, err := openSegment(filepath.Join(w.dir, w.segmentName(hour)), hour)
	if err != nil {
		return err
	}
	w.cur = seg
	return nil
}

func (w *Writer) segmentName(hour time.Time) string {
	return fmt.Sprintf("%s-%s.jsonl.zst", w.prefix, hour.Format("2006-01-02-15"))
}

// segment is one open trace file
type segment struct {
	hour time.Time
	file *os.File
	zw   *zstd.Encoder
	buf  *bufio.Writer
}

func openSegment(path string, hour time.Time) (*segment, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	zw, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedFastest))
	if err != nil {
		f.Close()
		return nil, err
	}
	return &segment{hour: hour, file: f, zw: zw, buf: bufio.NewWriterSize(zw, 64*1024)}, nil
}

func (s *segment) flush() error {
	if err := s.buf.Flush(); err != nil {
		return err
	}
	return s.zw.Flush()
}

// close ends the zstd frame and the file. Every step runs even if an
// earlier one failed.
func (s *segment) close() error {
	return errors.Join(s.buf.Flush(), s.zw.Close(), s.file.Close())
}
