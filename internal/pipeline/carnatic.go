package pipeline

import (
	"github.com/rasoomlabs/rasoom/domain/entities"
)

// swaraWindow is the number of consecutive alphabet tokens emitted per
// gesture.
const swaraWindow = 4

// swaraWindowStart is the lookup table keyed by (velocity bucket,
// direction index): the start of the contiguous sub-range of the 12-token
// alphabet selected for the gesture. Low velocity and leftward motion bias
// toward the bottom of the alphabet, high velocity and rightward motion
// toward the top.
var swaraWindowStart = [3][5]int{
	{0, 1, 2, 3, 4}, // low
	{2, 3, 4, 5, 6}, // mid
	{4, 5, 6, 7, 8}, // high
}

// Gamaka weights. Dimensions not listed weigh 1; the three canonical
// dimensions participate even when absent, at the neutral 0.5.
var (
	gamakaWeights = map[string]float64{
		"curiosity":  1.2,
		"confidence": 1.3,
		"joy":        1.1,
	}
	canonicalAffectDims = []string{"curiosity", "confidence", "joy"}
)

// carnaticStage maps the discrete gesture to swara tokens and the affect
// state to a gamaka scalar.
type carnaticStage struct{}

func (carnaticStage) Name() string { return "carnatic" }

func (carnaticStage) Forward(c *Carrier) error {
	c.Swaras = entities.SwaraSequence{
		Tokens: MapGestureToSwaras(c.Discrete),
		Gamaka: CalculateGamaka(c.Affect),
		Octave: OctaveFor(c.Discrete.PressureBucket),
	}
	return nil
}

// Inverse restores the syllabic rendering of the discrete gesture that the
// math-stage inverse recovered. The affect levels are already on the
// carrier; swara tokens are derived data and need no undoing of their own.
func (carnaticStage) Inverse(c *Carrier) error {
	c.Syllabic.Syllables = Syllabify(c.Discrete, nil).Syllables
	return nil
}

// MapGestureToSwaras selects the contiguous token window for a gesture.
// Pure lookup, no failure modes: unknown categories clamp to the table.
func MapGestureToSwaras(d DiscreteGesture) []entities.Swara {
	vel := d.VelocityBucket
	if vel < 0 {
		vel = 0
	}
	if vel > 2 {
		vel = 2
	}
	dir := entities.DirectionIndex(d.Direction)
	start := swaraWindowStart[vel][dir]

	tokens := make([]entities.Swara, swaraWindow)
	for i := range tokens {
		tokens[i] = entities.SwaraAt(start + i)
	}
	return tokens
}

// CalculateGamaka derives the ornamentation intensity from the affective
// state: a weighted mean over the dimensions present plus the canonical
// dimensions at a neutral 0.5 when missing. Monotonic in every dimension
// and always in [0,1].
func CalculateGamaka(affect entities.AffectiveState) float64 {
	clamped := affect.Clamped()

	var sum, weightSum float64
	for _, name := range clamped.SortedDimensions() {
		w := gamakaWeights[name]
		if w == 0 {
			w = 1
		}
		sum += w * clamped[name]
		weightSum += w
	}
	for _, name := range canonicalAffectDims {
		if _, present := clamped[name]; present {
			continue
		}
		w := gamakaWeights[name]
		sum += w * 0.5
		weightSum += w
	}
	if weightSum == 0 {
		return 0.5
	}
	return entities.ClampUnit(sum / weightSum)
}

// OctaveFor maps the pressure bucket to the octave band: light touch sits
// in the low register, firm touch in the high one.
func OctaveFor(pressureBucket int) entities.Octave {
	return entities.OctaveAt(pressureBucket)
}
