// Package pipeline implements the seven-stage Rasoom transform chain:
//
//	Captured -> Discretized -> Syllabic -> Carnatic -> MathEncoded -> NumberSeries -> Binary
//
// Encoding walks the stages forward, decoding walks them backward through
// each stage's inverse. Every stage is a pure transform over the carrier;
// nothing here does I/O or holds state between calls, so the chain is safe
// for concurrent use.
package pipeline

import (
	"github.com/rasoomlabs/rasoom/domain/entities"
)

// Carrier holds the intermediate representations as a message moves through
// the chain. Forward stages fill it top to bottom, inverses bottom to top.
type Carrier struct {
	// Captured inputs.
	Gesture      entities.GestureFeatures
	Affect       entities.AffectiveState
	Tier         entities.Tier
	TierExplicit bool
	Type         entities.MessageType

	// Stage outputs.
	Discrete DiscreteGesture
	Syllabic SyllabicForm
	Swaras   entities.SwaraSequence
	Coeffs   []uint64
	Series   []byte
	Binary   []byte
}

// Stage is one step of the chain. Forward consumes the previous stage's
// output on the carrier, Inverse undoes it during decode.
type Stage interface {
	Name() string
	Forward(c *Carrier) error
	Inverse(c *Carrier) error
}

// Stages returns the ordered chain. The slice is freshly allocated; stages
// themselves are stateless.
func Stages() []Stage {
	return []Stage{
		captureStage{},
		discretizeStage{},
		syllabicStage{},
		carnaticStage{},
		mathStage{},
		seriesStage{},
		binaryStage{},
	}
}
