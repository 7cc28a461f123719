package game

import "agar-client/internal/protocol"

// IntentKind says which collection a consumption intent refers to
type IntentKind uint8

const (
	KindCell IntentKind = iota
	KindBlob
)

func (k IntentKind) String() string {
	if k == KindBlob {
		return "blob"
	}
	return "cell"
}

// Intent is an unconfirmed request to consume an entity
type Intent struct {
	Kind IntentKind
	ID   protocol.ID
}

// Overlaps reports whether two circles given by centre and mass strictly overlap
func Overlaps(x1, y1, m1, x2, y2, m2 float64) bool {
	dx := x2 - x1
	dy := y2 - y1
	radSum := Radius(m1) + Radius(m2)
	return dx*dx+dy*dy < radSum*radSum
}

// Adjudicator finds entities the local player touches. It only ever asks;
// mass changes come back from the server.
type Adjudicator struct {
	buf        []Cell
	suppressed int
}

// Check tests the cells in the local 3x3 bucket neighbourhood and every blob.
// The same entity is reported again on each call until a snapshot removes it.
// Nothing is returned while the local player has no id.
func (a *Adjudicator) Check(w *World) []Intent {
	local := w.Local()
	a.buf = w.nearbyBuf(a.buf[:0])

	var out []Intent
	for _, c := range a.buf {
		if Overlaps(local.X, local.Y, local.Mass, c.X, c.Y, c.Mass) {
			out = append(out, Intent{Kind: KindCell, ID: c.ID})
		}
	}
	for _, b := range w.blobs {
		if Overlaps(local.X, local.Y, local.Mass, b.X, b.Y, b.Mass) {
			out = append(out, Intent{Kind: KindBlob, ID: b.ID})
		}
	}

	if !local.Identified() {
		a.suppressed += len(out)
		return nil
	}
	return out
}

// Suppressed returns how many hits were dropped because no id was assigned
func (a *Adjudicator) Suppressed() int {
	return a.suppressed
}
