package game

import "math"

// Rect is an axis-aligned rectangle in world units
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Contains reports whether (x, y) lies inside the rectangle
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// IntersectsCircle reports whether a circle touches the rectangle
func (r Rect) IntersectsCircle(cx, cy, radius float64) bool {
	nx := Clamp(cx, r.X, r.X+r.Width)
	ny := Clamp(cy, r.Y, r.Y+r.Height)
	dx := cx - nx
	dy := cy - ny
	return dx*dx+dy*dy <= radius*radius
}

// Camera is the world-to-screen transform centred on the local player
type Camera struct {
	Scale    float64
	OriginX  float64 // screen position of world (0, 0)
	OriginY  float64
	Viewport Rect // visible world rectangle
}

// Scale returns the zoom factor for a mass: clamp(sqrt(BaseMass/mass), 0.5, 1)
func Scale(mass float64) float64 {
	if mass <= 0 {
		return MaxScale
	}
	return Clamp(math.Sqrt(BaseMass/mass), MinScale, MaxScale)
}

// ComputeCamera places the player at the centre of a screenW x screenH screen
func ComputeCamera(px, py, mass, screenW, screenH float64) Camera {
	s := Scale(mass)
	return Camera{
		Scale:   s,
		OriginX: -px*s + screenW/2,
		OriginY: -py*s + screenH/2,
		Viewport: Rect{
			X:      px - (screenW/2)/s,
			Y:      py - (screenH/2)/s,
			Width:  screenW / s,
			Height: screenH / s,
		},
	}
}

// WorldToScreen projects a world point onto the screen
func (c Camera) WorldToScreen(x, y float64) (float64, float64) {
	return x*c.Scale + c.OriginX, y*c.Scale + c.OriginY
}

// ScreenToWorld is the inverse of WorldToScreen
func (c Camera) ScreenToWorld(sx, sy float64) (float64, float64) {
	return (sx - c.OriginX) / c.Scale, (sy - c.OriginY) / c.Scale
}

// GridLines returns the world x and y coordinates of the background grid
// lines crossing the viewport
func GridLines(v Rect, spacing float64) (xs, ys []float64) {
	if spacing <= 0 {
		return nil, nil
	}
	startX := math.Floor(v.X/spacing) * spacing
	startY := math.Floor(v.Y/spacing) * spacing
	for x := startX; x <= v.X+v.Width; x += spacing {
		xs = append(xs, x)
	}
	for y := startY; y <= v.Y+v.Height; y += spacing {
		ys = append(ys, y)
	}
	return xs, ys
}

// MinimapDot maps a world position onto a size x size minimap
func MinimapDot(x, y, mapW, mapH, size float64) (float64, float64) {
	if mapW <= 0 || mapH <= 0 {
		return 0, 0
	}
	return x / mapW * size, y / mapH * size
}
