package main

import "testing"

func TestVirtualSize(t *testing.T) {
	w, h := virtualSize(80, 30)
	if w != 800 || h != 600 {
		t.Errorf("expected 800x600, got %vx%v", w, h)
	}
}

func TestPointerAt(t *testing.T) {
	x, y := pointerAt(40, 15)
	if x != 405 || y != 310 {
		t.Errorf("expected (405,310), got (%v,%v)", x, y)
	}
}

func TestDiscCells(t *testing.T) {
	// Tiny circle still covers the cell under its centre
	cells := discCells(405, 310, 1)
	if len(cells) != 1 || cells[0] != (point{40, 15}) {
		t.Errorf("expected single cell at (40,15), got %v", cells)
	}

	// Radius 20 px spans several columns but only a couple of rows
	cells = discCells(405, 310, 20)
	cols := map[int]bool{}
	rows := map[int]bool{}
	for _, p := range cells {
		cols[p.col] = true
		rows[p.row] = true
	}
	if len(cols) < 3 {
		t.Errorf("expected at least 3 columns, got %d", len(cols))
	}
	if len(rows) > 3 {
		t.Errorf("expected at most 3 rows, got %d", len(rows))
	}
	found := false
	for _, p := range cells {
		if p == (point{40, 15}) {
			found = true
		}
	}
	if !found {
		t.Error("centre cell should be covered")
	}
}
