package session

import "agar-client/internal/game"

// Frame is an immutable view of the world for one render pass
type Frame struct {
	State       State
	Local       game.LocalPlayer
	Remotes     []game.Player
	NearbyCells []game.Cell
	Blobs       []game.Blob
	Camera      game.Camera
	Viewport    game.Rect
	Mass        float64

	MapWidth     float64
	MapHeight    float64
	ScreenWidth  float64
	ScreenHeight float64
	GridSpacing  float64
	MinimapSize  float64
}

// Minimap returns the local player's position on the minimap
func (f *Frame) Minimap() (float64, float64) {
	return game.MinimapDot(f.Local.X, f.Local.Y, f.MapWidth, f.MapHeight, f.MinimapSize)
}

// GridLines returns the grid lines crossing the viewport
func (f *Frame) GridLines() (xs, ys []float64) {
	return game.GridLines(f.Viewport, f.GridSpacing)
}

func (s *Session) publish() {
	local := s.world.Local()
	t := s.world.Tuning()
	cam := game.ComputeCamera(local.X, local.Y, local.Mass, s.screenW, s.screenH)
	s.frame.Store(&Frame{
		State:        s.cur,
		Local:        local,
		Remotes:      s.world.Remotes(),
		NearbyCells:  s.world.NearbyCells(),
		Blobs:        s.world.Blobs(),
		Camera:       cam,
		Viewport:     cam.Viewport,
		Mass:         local.Mass,
		MapWidth:     t.MapWidth,
		MapHeight:    t.MapHeight,
		ScreenWidth:  s.screenW,
		ScreenHeight: s.screenH,
		GridSpacing:  t.GridSpacing,
		MinimapSize:  t.MinimapSize,
	})
}
