package game

const (
	RadiusFactor = 4.0  // radius = RadiusFactor * sqrt(mass)
	BaseMass     = 20.0 // mass at which the camera starts zooming out
	MinScale     = 0.5
	MaxScale     = 1.0
)

const (
	DefaultMapWidth      = 10000.0
	DefaultMapHeight     = 10000.0
	DefaultBucketSize    = 1000.0
	DefaultSpeed         = 5.0  // world units per pointer sample
	DefaultFireMassFloor = 10.0 // firing needs mass strictly above this
	DefaultFireMassCost  = 10.0
	DefaultStartMass     = 20.0
	DefaultGridSpacing   = 50.0
	DefaultMinimapSize   = 150.0
)

// Tuning holds the adjustable world parameters
type Tuning struct {
	MapWidth      float64
	MapHeight     float64
	BucketSize    float64
	Speed         float64
	FireMassFloor float64
	FireMassCost  float64
	StartX        float64
	StartY        float64
	StartMass     float64
	GridSpacing   float64
	MinimapSize   float64
}

// DefaultTuning returns the stock agar world: 10000x10000, spawn in the middle
func DefaultTuning() Tuning {
	return Tuning{
		MapWidth:      DefaultMapWidth,
		MapHeight:     DefaultMapHeight,
		BucketSize:    DefaultBucketSize,
		Speed:         DefaultSpeed,
		FireMassFloor: DefaultFireMassFloor,
		FireMassCost:  DefaultFireMassCost,
		StartX:        DefaultMapWidth / 2,
		StartY:        DefaultMapHeight / 2,
		StartMass:     DefaultStartMass,
		GridSpacing:   DefaultGridSpacing,
		MinimapSize:   DefaultMinimapSize,
	}
}
