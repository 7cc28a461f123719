package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// FrameKind tells the codec how a frame body is encoded
type FrameKind uint8

const (
	FrameText   FrameKind = iota // JSON
	FrameBinary                  // msgpack
)

func (k FrameKind) String() string {
	switch k {
	case FrameText:
		return "text"
	case FrameBinary:
		return "binary"
	}
	return fmt.Sprintf("frame(%d)", uint8(k))
}

var (
	ErrEmptyFrame = errors.New("protocol: empty frame")
	ErrNilPayload = errors.New("protocol: nil payload")
)

// Decode parses one inbound frame. Fields are validated for presence and
// decoded one by one: a malformed field is reported in the error and left
// absent, and the fields that did decode are still returned. Only a body
// that is not an object yields an empty Message.
func Decode(kind FrameKind, b []byte) (Message, error) {
	if len(b) == 0 {
		return Message{}, ErrEmptyFrame
	}
	var (
		fields    map[string][]byte
		unmarshal func([]byte, any) error
	)
	switch kind {
	case FrameText:
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(b, &raw); err != nil {
			return Message{}, fmt.Errorf("protocol: json: %w", err)
		}
		fields = make(map[string][]byte, len(raw))
		for k, v := range raw {
			fields[k] = v
		}
		unmarshal = json.Unmarshal
	case FrameBinary:
		var raw map[string]msgpack.RawMessage
		if err := msgpack.Unmarshal(b, &raw); err != nil {
			return Message{}, fmt.Errorf("protocol: msgpack: %w", err)
		}
		fields = make(map[string][]byte, len(raw))
		for k, v := range raw {
			fields[k] = v
		}
		unmarshal = msgpack.Unmarshal
	default:
		return Message{}, fmt.Errorf("protocol: unknown frame kind %s", kind)
	}

	var (
		w    wireInbound
		errs []error
	)
	field := func(name string, v any) bool {
		raw, ok := fields[name]
		if !ok {
			return true
		}
		if err := unmarshal(raw, v); err != nil {
			errs = append(errs, fmt.Errorf("protocol: %s field %s: %w", kind, name, err))
			return false
		}
		return true
	}
	if !field(FieldPlayerID, &w.PlayerID) {
		w.PlayerID = nil
	}
	if !field(FieldPlayers, &w.Players) {
		w.Players = nil
	}
	if !field(FieldCells, &w.Cells) {
		w.Cells = nil
	}
	if !field(FieldBlobs, &w.Blobs) {
		w.Blobs = nil
	}
	return w.message(), errors.Join(errs...)
}

// Encode marshals an outbound intent as a JSON text frame
func Encode(payload any) ([]byte, error) {
	if payload == nil {
		return nil, ErrNilPayload
	}
	return json.Marshal(payload)
}

// EncodeSnapshot builds a server-style snapshot frame for test servers. Nil
// cells or blobs are omitted the way partial snapshots are.
func EncodeSnapshot(kind FrameKind, players []PlayerState, cells []CellState, blobs []BlobState) ([]byte, error) {
	if players == nil {
		players = []PlayerState{}
	}
	w := wireInbound{Players: &players}
	if cells != nil {
		w.Cells = &cells
	}
	if blobs != nil {
		w.Blobs = &blobs
	}
	if kind == FrameBinary {
		return msgpack.Marshal(w)
	}
	return json.Marshal(w)
}

// EncodeIdentity builds a server-style id assignment frame
func EncodeIdentity(kind FrameKind, id ID) ([]byte, error) {
	w := wireInbound{PlayerID: &id}
	if kind == FrameBinary {
		return msgpack.Marshal(w)
	}
	return json.Marshal(w)
}
