package main

import (
	"context"
	"fmt"
	"time"

	"agar-client/internal/game"
	"agar-client/internal/session"

	"github.com/gdamore/tcell/v2"
)

// Each terminal cell stands for a cellW x cellH block of virtual pixels, so
// the camera math runs in the same units as a browser canvas.
const (
	cellW = 10.0
	cellH = 20.0
)

var (
	styleGrid    = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	styleLocal   = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleRemote  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleBlob    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleHUD     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleMinimap = tcell.StyleDefault.Foreground(tcell.ColorTeal)
)

func virtualSize(cols, rows int) (float64, float64) {
	return float64(cols) * cellW, float64(rows) * cellH
}

// pointerAt returns the virtual pixel at the centre of a terminal cell
func pointerAt(col, row int) (float64, float64) {
	return float64(col)*cellW + cellW/2, float64(row)*cellH + cellH/2
}

type point struct{ col, row int }

// discCells returns the terminal cells covered by a circle in virtual pixels.
// A circle smaller than one cell still covers the cell under its centre.
func discCells(sx, sy, r float64) []point {
	c0, r0 := int((sx-r)/cellW), int((sy-r)/cellH)
	c1, r1 := int((sx+r)/cellW), int((sy+r)/cellH)
	var out []point
	for row := r0; row <= r1; row++ {
		for col := c0; col <= c1; col++ {
			px, py := pointerAt(col, row)
			dx, dy := px-sx, py-sy
			if dx*dx+dy*dy <= r*r {
				out = append(out, point{col, row})
			}
		}
	}
	if len(out) == 0 {
		out = append(out, point{int(sx / cellW), int(sy / cellH)})
	}
	return out
}

type terminal struct {
	screen  tcell.Screen
	session *session.Session
	fireKey rune
	cues    *audioCues

	lastFired    int64
	lastConsumed int64
}

func (t *terminal) run(ctx context.Context) {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(renderPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if !t.handleInput(ev) {
				return
			}
		case <-ticker.C:
			t.playCues()
			t.draw(t.session.Frame())
		}
	}
}

func (t *terminal) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if ev.Key() != tcell.KeyRune {
			return true
		}
		switch r := ev.Rune(); r {
		case 'q':
			return false
		case 'r':
			t.session.Connect()
		case t.fireKey:
			// Terminals never report key release
			t.session.KeyDown(r)
			t.session.KeyUp(r)
		}
	case *tcell.EventMouse:
		col, row := ev.Position()
		t.session.PointerMoved(pointerAt(col, row))
	case *tcell.EventResize:
		t.screen.Sync()
		t.session.Resize(virtualSize(t.screen.Size()))
	}
	return true
}

func (t *terminal) playCues() {
	st := t.session.Stats()
	if st.FireIntents > t.lastFired {
		t.cues.fire()
	}
	if st.ConsumeIntents > t.lastConsumed {
		t.cues.consume()
	}
	t.lastFired, t.lastConsumed = st.FireIntents, st.ConsumeIntents
}

func (t *terminal) draw(f *session.Frame) {
	t.screen.Clear()
	cam := f.Camera

	xs, ys := f.GridLines()
	for _, x := range xs {
		for _, y := range ys {
			sx, sy := cam.WorldToScreen(x, y)
			t.screen.SetContent(int(sx/cellW), int(sy/cellH), '·', nil, styleGrid)
		}
	}

	for _, c := range f.NearbyCells {
		style := tcell.StyleDefault.Foreground(tcell.GetColor(c.Color))
		t.disc(cam, f.Viewport, c.X, c.Y, c.Mass, '●', style)
	}
	for _, b := range f.Blobs {
		t.disc(cam, f.Viewport, b.X, b.Y, b.Mass, '•', styleBlob)
	}
	for _, p := range f.Remotes {
		t.disc(cam, f.Viewport, p.X, p.Y, p.Mass, '█', styleRemote)
	}
	t.disc(cam, f.Viewport, f.Local.X, f.Local.Y, f.Local.Mass, '█', styleLocal)

	t.text(0, 0, fmt.Sprintf("mass %.0f  %s  r:reconnect q:quit", f.Mass, f.State), styleHUD)
	t.minimap(f)
	t.screen.Show()
}

func (t *terminal) disc(cam game.Camera, view game.Rect, x, y, mass float64, ch rune, style tcell.Style) {
	r := game.Radius(mass)
	if !view.IntersectsCircle(x, y, r) {
		return
	}
	sx, sy := cam.WorldToScreen(x, y)
	for _, p := range discCells(sx, sy, r*cam.Scale) {
		t.screen.SetContent(p.col, p.row, ch, nil, style)
	}
}

func (t *terminal) text(col, row int, s string, style tcell.Style) {
	for i, r := range []rune(s) {
		t.screen.SetContent(col+i, row, r, nil, style)
	}
}

// minimap draws the map outline in the bottom-right corner and the local
// player's position inside it
func (t *terminal) minimap(f *session.Frame) {
	cols, rows := t.screen.Size()
	w := int(f.MinimapSize / cellW)
	h := int(f.MinimapSize / cellH)
	if w < 2 || h < 2 || w >= cols || h >= rows {
		return
	}
	left, top := cols-w-1, rows-h-1
	for c := 0; c <= w; c++ {
		t.screen.SetContent(left+c, top, '─', nil, styleMinimap)
		t.screen.SetContent(left+c, top+h, '─', nil, styleMinimap)
	}
	for r := 0; r <= h; r++ {
		t.screen.SetContent(left, top+r, '│', nil, styleMinimap)
		t.screen.SetContent(left+w, top+r, '│', nil, styleMinimap)
	}
	dx, dy := f.Minimap()
	t.screen.SetContent(left+int(dx/cellW), top+int(dy/cellH), '@', nil, styleLocal)
}
