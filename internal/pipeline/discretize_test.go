package pipeline

import (
	"testing"

	"github.com/rasoomlabs/rasoom/domain/entities"
)

func TestBucketBoundaries(t *testing.T) {
	cases := []struct {
		value  float64
		bucket int
	}{
		{0.0, 0},
		{0.32, 0},
		{0.33, 1},
		{0.5, 1},
		{0.66, 1},
		{0.67, 2},
		{1.0, 2},
	}
	for _, c := range cases {
		if got := Bucket(c.value); got != c.bucket {
			t.Errorf("Bucket(%v) = %d, expected %d", c.value, got, c.bucket)
		}
	}
}

func TestDiscretizeClampsOutOfRange(t *testing.T) {
	over := Discretize(entities.GestureFeatures{Velocity: 1.5, Pressure: -0.3, Direction: entities.DirectionUp})
	exact := Discretize(entities.GestureFeatures{Velocity: 1.0, Pressure: 0.0, Direction: entities.DirectionUp})

	if over != exact {
		t.Errorf("clamped discretization %+v differs from in-range %+v", over, exact)
	}
}

func TestClassifyMotion(t *testing.T) {
	line := []entities.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
	loop := []entities.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: 0.01, Y: 0.01}}
	arc := []entities.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 1.5}, {X: 2.5, Y: 0.5}}

	cases := []struct {
		name   string
		points []entities.Point
		class  int
	}{
		{"empty", nil, MotionStill},
		{"single point", []entities.Point{{X: 1, Y: 1}}, MotionStill},
		{"straight line", line, MotionLine},
		{"closed loop", loop, MotionLoop},
		{"open arc", arc, MotionArc},
	}
	for _, c := range cases {
		g := entities.GestureFeatures{Direction: entities.DirectionCenter, Trajectory: c.points}
		if got := Discretize(g).MotionClass; got != c.class {
			t.Errorf("%s: motion class %d, expected %d", c.name, got, c.class)
		}
	}
}

func TestRepresentativeGestureLandsInSameBuckets(t *testing.T) {
	for vel := 0; vel < 3; vel++ {
		for press := 0; press < 3; press++ {
			d := DiscreteGesture{
				Direction:      entities.DirectionRight,
				VelocityBucket: vel,
				PressureBucket: press,
			}
			back := Discretize(RepresentativeGesture(d))
			if back.VelocityBucket != vel || back.PressureBucket != press {
				t.Errorf("buckets (%d,%d) reconstructed as (%d,%d)",
					vel, press, back.VelocityBucket, back.PressureBucket)
			}
		}
	}
}
