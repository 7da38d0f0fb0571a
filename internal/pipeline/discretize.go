package pipeline

import (
	"math"

	"github.com/rasoomlabs/rasoom/domain/entities"
)

// Bucket boundaries shared by velocity and pressure discretization.
const (
	bucketLowMax  = 0.33
	bucketHighMin = 0.67
)

// Motion classes derived from the trajectory shape.
const (
	MotionStill = iota // no or negligible movement
	MotionLine         // displacement close to path length
	MotionArc          // curved but open path
	MotionLoop         // path returns near its origin
)

// DiscreteGesture is the decision-tree output: every continuous gesture
// feature reduced to a small finite category.
type DiscreteGesture struct {
	Direction      entities.Direction
	VelocityBucket int // 0 low, 1 mid, 2 high
	PressureBucket int // 0 low, 1 mid, 2 high
	MotionClass    int
}

// discretizeStage reduces continuous gesture state to finite categories.
type discretizeStage struct{}

func (discretizeStage) Name() string { return "discretize" }

func (discretizeStage) Forward(c *Carrier) error {
	c.Discrete = Discretize(c.Gesture)
	return nil
}

func (discretizeStage) Inverse(c *Carrier) error {
	c.Gesture = RepresentativeGesture(c.Discrete)
	return nil
}

// Discretize buckets a clamped gesture. The decision tree is deliberately
// shallow: velocity and pressure split on the same two thresholds, the
// trajectory reduces to one of four coarse motion classes.
func Discretize(g entities.GestureFeatures) DiscreteGesture {
	g = g.Clamped()
	return DiscreteGesture{
		Direction:      g.Direction,
		VelocityBucket: Bucket(g.Velocity),
		PressureBucket: Bucket(g.Pressure),
		MotionClass:    classifyMotion(g.Trajectory),
	}
}

// Bucket maps a [0,1] scalar to one of three buckets.
func Bucket(v float64) int {
	switch {
	case v < bucketLowMax:
		return 0
	case v < bucketHighMin:
		return 1
	default:
		return 2
	}
}

// BucketCenter returns the representative scalar for a bucket, the value
// used when reconstructing gesture intent on decode.
func BucketCenter(b int) float64 {
	switch b {
	case 0:
		return bucketLowMax / 2
	case 1:
		return (bucketLowMax + bucketHighMin) / 2
	default:
		return (bucketHighMin + 1) / 2
	}
}

// RepresentativeGesture rebuilds a gesture from its discrete categories.
// Continuous detail is gone; bucket centers stand in for the lost scalars.
func RepresentativeGesture(d DiscreteGesture) entities.GestureFeatures {
	return entities.GestureFeatures{
		Velocity:  BucketCenter(d.VelocityBucket),
		Pressure:  BucketCenter(d.PressureBucket),
		Direction: d.Direction,
	}
}

// classifyMotion reduces a trajectory to a motion class by comparing net
// displacement against total path length.
func classifyMotion(points []entities.Point) int {
	if len(points) < 2 {
		return MotionStill
	}
	var pathLen float64
	for i := 1; i < len(points); i++ {
		pathLen += dist(points[i-1], points[i])
	}
	if pathLen < 1e-9 {
		return MotionStill
	}
	displacement := dist(points[0], points[len(points)-1])
	ratio := displacement / pathLen
	switch {
	case ratio > 0.85:
		return MotionLine
	case ratio < 0.2:
		return MotionLoop
	default:
		return MotionArc
	}
}

func dist(a, b entities.Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
