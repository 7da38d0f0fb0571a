package entities

// Direction is the coarse movement direction of a captured gesture
type Direction string

const (
	DirectionLeft   Direction = "left"
	DirectionRight  Direction = "right"
	DirectionUp     Direction = "up"
	DirectionDown   Direction = "down"
	DirectionCenter Direction = "center"
)

// Directions lists every valid direction in wire order. The index of a
// direction in this slice is its wire encoding.
var Directions = []Direction{
	DirectionLeft,
	DirectionDown,
	DirectionCenter,
	DirectionUp,
	DirectionRight,
}

// DirectionIndex returns the wire index for d. Unknown directions fall back
// to center, matching the clamp-don't-reject policy for noisy capture input.
func DirectionIndex(d Direction) int {
	for i, dd := range Directions {
		if dd == d {
			return i
		}
	}
	return DirectionIndex(DirectionCenter)
}

// DirectionAt returns the direction for a wire index, center for out of range.
func DirectionAt(i int) Direction {
	if i < 0 || i >= len(Directions) {
		return DirectionCenter
	}
	return Directions[i]
}

// Point is a single 2D trajectory sample
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// GestureFeatures represents the continuous features of a captured gesture.
// Instances are treated as immutable once captured.
type GestureFeatures struct {
	Velocity   float64   `json:"velocity"` // [0,1]
	Pressure   float64   `json:"pressure"` // [0,1]
	Direction  Direction `json:"direction"`
	Trajectory []Point   `json:"trajectory,omitempty"`
}

// Clamped returns a copy with velocity and pressure clamped to [0,1].
// Capture hardware is noisy, so out-of-range scalars are pulled into range
// rather than rejected.
func (g GestureFeatures) Clamped() GestureFeatures {
	g.Velocity = ClampUnit(g.Velocity)
	g.Pressure = ClampUnit(g.Pressure)
	if DirectionIndex(g.Direction) == DirectionIndex(DirectionCenter) && g.Direction != DirectionCenter {
		g.Direction = DirectionCenter
	}
	return g
}

// ClampUnit clamps v to the [0,1] interval. NaN clamps to 0.
func ClampUnit(v float64) float64 {
	if v != v { // NaN
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
