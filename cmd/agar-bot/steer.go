package main

import (
	"agar-client/internal/game"
	"agar-client/internal/session"
)

// nearestCell picks the closest cell in the frame's neighbourhood
func nearestCell(f *session.Frame) (game.Cell, bool) {
	var best game.Cell
	bestDist := -1.0
	for _, c := range f.NearbyCells {
		d := game.Distance(f.Local.X, f.Local.Y, c.X, c.Y)
		if bestDist < 0 || d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist >= 0
}

// steer returns the screen point to aim the pointer at: the nearest cell,
// or the map centre when no cell is close
func steer(f *session.Frame) (float64, float64, bool) {
	if f.ScreenWidth <= 0 || f.ScreenHeight <= 0 {
		return 0, 0, false
	}
	tx, ty := f.MapWidth/2, f.MapHeight/2
	if c, ok := nearestCell(f); ok {
		tx, ty = c.X, c.Y
	}
	if tx == f.Local.X && ty == f.Local.Y {
		return 0, 0, false
	}
	sx, sy := f.Camera.WorldToScreen(tx, ty)
	return sx, sy, true
}
