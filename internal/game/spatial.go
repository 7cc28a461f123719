package game

import "math"

// BucketKey identifies one square of the spatial grid
type BucketKey struct {
	X, Y int
}

// SpatialIndex buckets cells into fixed-size squares for neighbourhood
// queries. It is immutable once built: a new cell set means a new index.
type SpatialIndex struct {
	size    float64
	buckets map[BucketKey][]Cell
	count   int
}

// BuildIndex buckets cells by floor(x/size), floor(y/size). Insertion order
// is kept within a bucket. A non-positive size falls back to DefaultBucketSize.
func BuildIndex(cells []Cell, size float64) *SpatialIndex {
	if size <= 0 {
		size = DefaultBucketSize
	}
	idx := &SpatialIndex{
		size:    size,
		buckets: make(map[BucketKey][]Cell),
		count:   len(cells),
	}
	for _, c := range cells {
		k := idx.Key(c.X, c.Y)
		idx.buckets[k] = append(idx.buckets[k], c)
	}
	return idx
}

// Key returns the bucket containing (x, y). Coordinates outside the map get
// their own buckets rather than being clamped onto the edge.
func (idx *SpatialIndex) Key(x, y float64) BucketKey {
	return BucketKey{
		X: int(math.Floor(x / idx.size)),
		Y: int(math.Floor(y / idx.size)),
	}
}

// Query returns every cell in the 3x3 block of buckets centred on the bucket
// containing (x, y)
func (idx *SpatialIndex) Query(x, y float64) []Cell {
	return idx.QueryBuf(x, y, nil)
}

// QueryBuf appends results to buf and returns the extended slice, avoiding per-call allocation
func (idx *SpatialIndex) QueryBuf(x, y float64, buf []Cell) []Cell {
	if idx == nil || idx.count == 0 {
		if buf == nil {
			return []Cell{}
		}
		return buf
	}
	center := idx.Key(x, y)
	for bx := center.X - 1; bx <= center.X+1; bx++ {
		for by := center.Y - 1; by <= center.Y+1; by++ {
			buf = append(buf, idx.buckets[BucketKey{X: bx, Y: by}]...)
		}
	}
	if buf == nil {
		buf = []Cell{}
	}
	return buf
}

// Bucket returns the cells stored under k
func (idx *SpatialIndex) Bucket(k BucketKey) []Cell {
	if idx == nil {
		return nil
	}
	return idx.buckets[k]
}

// Len returns the number of indexed cells
func (idx *SpatialIndex) Len() int {
	if idx == nil {
		return 0
	}
	return idx.count
}

// Buckets returns the number of non-empty buckets
func (idx *SpatialIndex) Buckets() int {
	if idx == nil {
		return 0
	}
	return len(idx.buckets)
}

// BucketSize returns the edge length of one bucket in world units
func (idx *SpatialIndex) BucketSize() float64 {
	if idx == nil {
		return 0
	}
	return idx.size
}
