package game

import "agar-client/internal/protocol"

// LocalPlayer is the avatar this client controls. Position is predicted
// locally; mass comes from the server (except the fire cost).
type LocalPlayer struct {
	ID   protocol.ID
	X, Y float64
	Mass float64
}

// Identified reports whether the server has assigned an id yet
func (p LocalPlayer) Identified() bool {
	return !p.ID.IsZero()
}

// Radius returns the local player's radius
func (p LocalPlayer) Radius() float64 {
	return Radius(p.Mass)
}

// Player is another player as last reported by the server
type Player struct {
	ID   protocol.ID
	X, Y float64
	Mass float64
}

// Cell is a static food resource
type Cell struct {
	ID    protocol.ID
	X, Y  float64
	Mass  float64
	Color string
}

// Blob is an ejected projectile
type Blob struct {
	ID   protocol.ID
	X, Y float64
	Mass float64
}

// Snapshot replaces entity collections. Cells and blobs are only replaced
// when HasCells/HasBlobs is set.
type Snapshot struct {
	Players  []Player
	Cells    []Cell
	HasCells bool
	Blobs    []Blob
	HasBlobs bool
}

// World is the client's local copy of the shared world. It is owned by a
// single goroutine; accessors return copies.
type World struct {
	tuning  Tuning
	local   LocalPlayer
	remotes []Player
	cells   []Cell
	blobs   []Blob
	index   *SpatialIndex
}

// NewWorld creates a world with the local player at the spawn point
func NewWorld(t Tuning) *World {
	w := &World{
		tuning: t,
		local: LocalPlayer{
			X:    t.StartX,
			Y:    t.StartY,
			Mass: t.StartMass,
		},
		index: BuildIndex(nil, t.BucketSize),
	}
	w.clampLocal()
	return w
}

// Tuning returns the parameters the world was built with
func (w *World) Tuning() Tuning { return w.tuning }

// Local returns a copy of the local player
func (w *World) Local() LocalPlayer { return w.local }

// Index returns the spatial index built from the current cell set
func (w *World) Index() *SpatialIndex { return w.index }

func (w *World) Remotes() []Player { return append([]Player(nil), w.remotes...) }
func (w *World) Cells() []Cell { return append([]Cell(nil), w.cells...) }
func (w *World) Blobs() []Blob { return append([]Blob(nil), w.blobs...) }

// NearbyCells returns the cells in the 3x3 buckets around the local player
func (w *World) NearbyCells() []Cell {
	return w.index.Query(w.local.X, w.local.Y)
}

func (w *World) nearbyBuf(buf []Cell) []Cell {
	return w.index.QueryBuf(w.local.X, w.local.Y, buf)
}

// AssignID sets the local id. It only succeeds once per connection; call
// ResetID when a new connection starts.
func (w *World) AssignID(id protocol.ID) bool {
	if id.IsZero() || w.local.Identified() {
		return false
	}
	w.local.ID = id
	return true
}

// ResetID forgets the id of a previous connection
func (w *World) ResetID() {
	w.local.ID = protocol.ID{}
}

// ApplySnapshot replaces the remote roster and, when present, cells and
// blobs. The roster entry matching the local id only updates local mass;
// the server's echo of our position is ignored.
func (w *World) ApplySnapshot(s Snapshot) {
	remotes := make([]Player, 0, len(s.Players))
	found := false
	for _, p := range s.Players {
		if w.local.Identified() && p.ID == w.local.ID {
			if !found {
				w.local.Mass = p.Mass
				found = true
			}
			continue
		}
		remotes = append(remotes, p)
	}
	w.remotes = remotes

	if s.HasCells {
		w.cells = append([]Cell(nil), s.Cells...)
		w.index = BuildIndex(w.cells, w.tuning.BucketSize)
	}
	if s.HasBlobs {
		w.blobs = append([]Blob(nil), s.Blobs...)
	}
	if found {
		w.clampLocal()
	}
}

// MoveTo sets the predicted local position, clamped so the whole circle
// stays on the map
func (w *World) MoveTo(x, y float64) {
	w.local.X = x
	w.local.Y = y
	w.clampLocal()
}

// SpendMass applies a locally predicted mass cost
func (w *World) SpendMass(cost float64) {
	w.local.Mass -= cost
	w.clampLocal()
}

func (w *World) clampLocal() {
	r := w.local.Radius()
	w.local.X = clampInside(w.local.X, r, w.tuning.MapWidth)
	w.local.Y = clampInside(w.local.Y, r, w.tuning.MapHeight)
}
