package game

import (
	"testing"

	"agar-client/internal/protocol"
)

func TestOverlaps(t *testing.T) {
	// radius(20) + radius(1) = 4*sqrt(20) + 4 ≈ 21.89
	if !Overlaps(0, 0, 20, 21, 0, 1) {
		t.Error("circles should overlap")
	}
	if Overlaps(0, 0, 20, 22, 0, 1) {
		t.Error("circles should not overlap")
	}
	// Exactly touching does not count
	if Overlaps(0, 0, 4, 16, 0, 4) {
		t.Error("touching circles should not overlap")
	}
	if !Overlaps(5, 5, 1, 5, 5, 1) {
		t.Error("same position should overlap")
	}
}

func identifiedWorld(t *testing.T) *World {
	t.Helper()
	w := NewWorld(DefaultTuning())
	if !w.AssignID(protocol.StringID("me")) {
		t.Fatal("AssignID failed")
	}
	return w
}

func TestAdjudicatorCells(t *testing.T) {
	w := identifiedWorld(t)
	w.ApplySnapshot(Snapshot{
		Cells: []Cell{
			{ID: protocol.StringID("hit"), X: 5010, Y: 5000, Mass: 1},
			{ID: protocol.StringID("miss"), X: 5100, Y: 5000, Mass: 1},
		},
		HasCells: true,
	})

	var a Adjudicator
	got := a.Check(w)
	if len(got) != 1 {
		t.Fatalf("expected 1 intent, got %d", len(got))
	}
	if got[0].Kind != KindCell || got[0].ID.String() != "hit" {
		t.Errorf("unexpected intent %+v", got[0])
	}

	// Reported again until a snapshot removes it
	if again := a.Check(w); len(again) != 1 {
		t.Errorf("expected repeat intent, got %d", len(again))
	}
}

func TestAdjudicatorBlobs(t *testing.T) {
	w := identifiedWorld(t)
	w.ApplySnapshot(Snapshot{
		Blobs:    []Blob{{ID: protocol.NumericID(0), X: 5005, Y: 5005, Mass: 10}},
		HasBlobs: true,
	})

	var a Adjudicator
	got := a.Check(w)
	if len(got) != 1 || got[0].Kind != KindBlob {
		t.Fatalf("expected 1 blob intent, got %+v", got)
	}
	if !got[0].ID.Numeric() || got[0].ID.String() != "0" {
		t.Errorf("expected numeric id 0, got %v", got[0].ID)
	}
}

func TestAdjudicatorSuppressedWithoutID(t *testing.T) {
	w := NewWorld(DefaultTuning())
	w.ApplySnapshot(Snapshot{
		Cells:    []Cell{{ID: protocol.StringID("c1"), X: 5000, Y: 5000, Mass: 1}},
		HasCells: true,
	})

	var a Adjudicator
	if got := a.Check(w); got != nil {
		t.Errorf("expected no intents without an id, got %v", got)
	}
	if a.Suppressed() != 1 {
		t.Errorf("expected 1 suppressed hit, got %d", a.Suppressed())
	}
}

func TestAdjudicatorIgnoresFarCells(t *testing.T) {
	w := identifiedWorld(t)
	// Large enough to overlap but outside the 3x3 neighbourhood
	w.ApplySnapshot(Snapshot{
		Cells:    []Cell{{ID: protocol.StringID("far"), X: 7500, Y: 5000, Mass: 1e6}},
		HasCells: true,
	})
	var a Adjudicator
	if got := a.Check(w); len(got) != 0 {
		t.Errorf("cells outside the neighbourhood are not checked, got %v", got)
	}
}
