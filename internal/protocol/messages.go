package protocol

// Server -> Client payload fields. A frame may carry any combination of them.
const (
	FieldPlayerID = "playerId"
	FieldPlayers  = "players"
	FieldCells    = "cells"
	FieldBlobs    = "blobs"
)

// Client -> Server payload fields
const (
	FieldFireBlob       = "fireBlob"
	FieldAngle          = "angle"
	FieldConsumedCellID = "consumedCellId"
)

// PlayerState is one roster entry of a snapshot
type PlayerState struct {
	ID   ID      `json:"id" msgpack:"id"`
	X    float64 `json:"x" msgpack:"x"`
	Y    float64 `json:"y" msgpack:"y"`
	Mass float64 `json:"mass" msgpack:"mass"`
}

// CellState is a static food resource
type CellState struct {
	ID    ID      `json:"id" msgpack:"id"`
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	Mass  float64 `json:"mass" msgpack:"mass"`
	Color string  `json:"color" msgpack:"color"`
}

// BlobState is an ejected projectile
type BlobState struct {
	ID   ID      `json:"id" msgpack:"id"`
	X    float64 `json:"x" msgpack:"x"`
	Y    float64 `json:"y" msgpack:"y"`
	Mass float64 `json:"mass" msgpack:"mass"`
}

// wireInbound mirrors the untyped server record. Pointers distinguish an
// absent field from an empty list.
type wireInbound struct {
	PlayerID *ID            `json:"playerId,omitempty" msgpack:"playerId,omitempty"`
	Players  *[]PlayerState `json:"players,omitempty" msgpack:"players,omitempty"`
	Cells    *[]CellState   `json:"cells,omitempty" msgpack:"cells,omitempty"`
	Blobs    *[]BlobState   `json:"blobs,omitempty" msgpack:"blobs,omitempty"`
}

// Identity assigns the local player's id for the current connection
type Identity struct {
	PlayerID ID
}

// Snapshot is a possibly partial replacement of entity collections.
// Players is always present; Cells and Blobs only when HasCells/HasBlobs.
type Snapshot struct {
	Players  []PlayerState
	Cells    []CellState
	HasCells bool
	Blobs    []BlobState
	HasBlobs bool
}

// Message is the decoded inbound frame. Each variant is nil when the frame
// did not carry it.
type Message struct {
	Identity *Identity
	Snapshot *Snapshot
}

// Empty reports whether the frame carried neither an identity nor a roster
func (m Message) Empty() bool {
	return m.Identity == nil && m.Snapshot == nil
}

func (w wireInbound) message() Message {
	var m Message
	if w.PlayerID != nil && !w.PlayerID.IsZero() {
		m.Identity = &Identity{PlayerID: *w.PlayerID}
	}
	if w.Players == nil {
		return m
	}
	s := &Snapshot{Players: *w.Players}
	if w.Cells != nil {
		s.Cells = *w.Cells
		s.HasCells = true
	}
	if w.Blobs != nil {
		s.Blobs = *w.Blobs
		s.HasBlobs = true
	}
	m.Snapshot = s
	return m
}

// PositionReport is sent on a fixed period while connected
type PositionReport struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// FireBlob asks the server to eject a blob along Angle (radians)
type FireBlob struct {
	FireBlob bool    `json:"fireBlob"`
	Angle    float64 `json:"angle"`
}

// NewFireBlob builds a fire request
func NewFireBlob(angle float64) FireBlob {
	return FireBlob{FireBlob: true, Angle: angle}
}

// ConsumeCell reports an overlap the client detected
type ConsumeCell struct {
	ConsumedCellID ID `json:"consumedCellId"`
}
