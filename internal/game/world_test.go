package game

import (
	"math"
	"testing"

	"agar-client/internal/protocol"
)

func TestNewWorld(t *testing.T) {
	w := NewWorld(DefaultTuning())
	l := w.Local()
	if l.X != 5000 || l.Y != 5000 {
		t.Errorf("expected spawn at (5000,5000), got (%v,%v)", l.X, l.Y)
	}
	if l.Mass != 20 {
		t.Errorf("expected mass 20, got %v", l.Mass)
	}
	if l.Identified() {
		t.Error("new world should not have an id")
	}
	if len(w.Remotes()) != 0 || len(w.Cells()) != 0 || len(w.Blobs()) != 0 {
		t.Error("new world should be empty")
	}
}

func TestWorldAssignIDOnce(t *testing.T) {
	w := NewWorld(DefaultTuning())
	if w.AssignID(protocol.ID{}) {
		t.Error("zero id should be rejected")
	}
	if !w.AssignID(protocol.StringID("p1")) {
		t.Fatal("first assignment should succeed")
	}
	if w.AssignID(protocol.StringID("p2")) {
		t.Error("second assignment should be ignored")
	}
	if got := w.Local().ID.String(); got != "p1" {
		t.Errorf("expected id p1, got %s", got)
	}
	w.ResetID()
	if !w.AssignID(protocol.StringID("p3")) {
		t.Error("assignment after reset should succeed")
	}
}

func TestWorldApplySnapshot(t *testing.T) {
	w := NewWorld(DefaultTuning())
	w.AssignID(protocol.StringID("p1"))
	w.ApplySnapshot(Snapshot{
		Players: []Player{
			{ID: protocol.StringID("p1"), X: 1, Y: 1, Mass: 25},
			{ID: protocol.StringID("p2"), X: 10, Y: 10, Mass: 30},
		},
		Cells:    []Cell{{ID: protocol.StringID("c1"), X: 5010, Y: 5000, Mass: 1, Color: "#ff0000"}},
		HasCells: true,
	})

	l := w.Local()
	if l.Mass != 25 {
		t.Errorf("expected mass 25, got %v", l.Mass)
	}
	if l.X != 5000 || l.Y != 5000 {
		t.Errorf("server position echo should be ignored, got (%v,%v)", l.X, l.Y)
	}
	remotes := w.Remotes()
	if len(remotes) != 1 || remotes[0].ID.String() != "p2" {
		t.Errorf("expected only p2 as remote, got %+v", remotes)
	}
	if w.Index().Len() != 1 {
		t.Errorf("expected 1 indexed cell, got %d", w.Index().Len())
	}
	if len(w.NearbyCells()) != 1 {
		t.Errorf("expected 1 nearby cell, got %d", len(w.NearbyCells()))
	}
}

func TestWorldApplySnapshotKeepsAbsentCollections(t *testing.T) {
	w := NewWorld(DefaultTuning())
	w.ApplySnapshot(Snapshot{
		Cells:    []Cell{{ID: protocol.StringID("c1"), X: 1, Y: 1, Mass: 1}},
		HasCells: true,
		Blobs:    []Blob{{ID: protocol.StringID("b1"), X: 2, Y: 2, Mass: 10}},
		HasBlobs: true,
	})
	w.ApplySnapshot(Snapshot{Players: []Player{{ID: protocol.StringID("p9")}}})
	if len(w.Cells()) != 1 || len(w.Blobs()) != 1 {
		t.Error("cells and blobs should survive a players-only snapshot")
	}

	w.ApplySnapshot(Snapshot{HasBlobs: true})
	if len(w.Blobs()) != 0 {
		t.Error("an explicit empty blob list should clear blobs")
	}
}

func TestWorldApplySnapshotIdempotent(t *testing.T) {
	s := Snapshot{
		Players:  []Player{{ID: protocol.StringID("me"), Mass: 40}, {ID: protocol.StringID("x"), Mass: 10}},
		Cells:    []Cell{{ID: protocol.StringID("c"), X: 4000, Y: 4000, Mass: 1}},
		HasCells: true,
	}
	w := NewWorld(DefaultTuning())
	w.AssignID(protocol.StringID("me"))
	w.ApplySnapshot(s)
	first := w.Local()
	w.ApplySnapshot(s)
	if w.Local() != first {
		t.Errorf("second apply changed local player: %+v vs %+v", w.Local(), first)
	}
	if len(w.Remotes()) != 1 || len(w.Cells()) != 1 {
		t.Error("second apply changed collections")
	}
}

func TestWorldSnapshotBeforeIdentity(t *testing.T) {
	w := NewWorld(DefaultTuning())
	w.ApplySnapshot(Snapshot{Players: []Player{{ID: protocol.StringID("p1"), Mass: 99}}})
	if w.Local().Mass != 20 {
		t.Errorf("mass should not change before identity, got %v", w.Local().Mass)
	}
	if len(w.Remotes()) != 1 {
		t.Errorf("expected 1 remote, got %d", len(w.Remotes()))
	}
}

func TestWorldMassGrowthReclamps(t *testing.T) {
	w := NewWorld(DefaultTuning())
	w.AssignID(protocol.StringID("me"))
	w.MoveTo(0, 0)
	r := w.Local().Radius()
	if w.Local().X != r {
		t.Fatalf("expected x clamped to %v, got %v", r, w.Local().X)
	}
	w.ApplySnapshot(Snapshot{Players: []Player{{ID: protocol.StringID("me"), Mass: 400}}})
	l := w.Local()
	if math.Abs(l.X-Radius(400)) > 1e-9 || math.Abs(l.Y-Radius(400)) > 1e-9 {
		t.Errorf("expected re-clamp to %v, got (%v,%v)", Radius(400), l.X, l.Y)
	}
}

func TestWorldSpendMass(t *testing.T) {
	w := NewWorld(DefaultTuning())
	w.SpendMass(10)
	if w.Local().Mass != 10 {
		t.Errorf("expected mass 10, got %v", w.Local().Mass)
	}
}

func TestRadius(t *testing.T) {
	if Radius(0) != 0 || Radius(-1) != 0 {
		t.Error("non-positive mass should have zero radius")
	}
	if math.Abs(Radius(20)-4*math.Sqrt(20)) > 1e-12 {
		t.Errorf("unexpected radius %v", Radius(20))
	}
	if Radius(25) != 20 {
		t.Errorf("expected radius 20 for mass 25, got %v", Radius(25))
	}
}
