package game

import "math"

// SteeringAngle returns the direction from the screen centre to the pointer
func SteeringAngle(pointerX, pointerY, screenW, screenH float64) float64 {
	return math.Atan2(pointerY-screenH/2, pointerX-screenW/2)
}

// Predictor dead-reckons the local player between server updates. The server
// never corrects position, so every step is final.
type Predictor struct {
	Speed float64
}

// NewPredictor creates a predictor moving Speed units per input sample
func NewPredictor(t Tuning) *Predictor {
	speed := t.Speed
	if speed <= 0 {
		speed = DefaultSpeed
	}
	return &Predictor{Speed: speed}
}

// Step advances the local player one sample along angle and clamps it to the
// map. It returns false when the clamp left the player where it was.
func (p *Predictor) Step(w *World, angle float64) bool {
	before := w.Local()
	w.MoveTo(before.X+math.Cos(angle)*p.Speed, before.Y+math.Sin(angle)*p.Speed)
	after := w.Local()
	return after.X != before.X || after.Y != before.Y
}
