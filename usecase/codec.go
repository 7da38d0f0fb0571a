package usecase

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rasoomlabs/rasoom/domain/entities"
	"github.com/rasoomlabs/rasoom/internal/pipeline"
	"github.com/rasoomlabs/rasoom/internal/routing"
)

// Codec orchestrates the seven-stage Rasoom pipeline: stages run forward
// for encode and backward for decode. The codec holds no mutable state, so
// one instance serves any number of concurrent callers.
type Codec struct {
	logger *zap.Logger
}

// NewCodec creates a codec. The logger is only used for dropped-input
// diagnostics on the decode path.
func NewCodec(logger *zap.Logger) *Codec {
	return &Codec{logger: logger}
}

// Encode runs gesture and affect through stages one to seven and returns
// the binary wire frame. An empty tier means the octave band decides the
// destination; a non-empty tier is recorded as an explicit override.
func (c *Codec) Encode(gesture entities.GestureFeatures, affect entities.AffectiveState, tier entities.Tier) ([]byte, error) {
	carrier := &pipeline.Carrier{
		Gesture: gesture,
		Affect:  affect,
		Tier:    tier,
	}

	for _, stage := range pipeline.Stages() {
		if err := stage.Forward(carrier); err != nil {
			return nil, fmt.Errorf("stage %s: %w", stage.Name(), err)
		}
		// The routing decision needs the octave band, which exists once
		// the Carnatic stage has run.
		if carrier.Tier == "" && len(carrier.Swaras.Tokens) > 0 {
			carrier.Tier = routing.TierForSequence(carrier.Swaras)
		}
	}
	return carrier.Binary, nil
}

// Decode runs stages seven back to one and reassembles the decoded intent.
// Foreign or unrecoverably corrupted input yields nil, never a panic or an
// error: this codec sits on an unreliable transport and bad frames are the
// caller's to log and drop.
func (c *Codec) Decode(frame []byte) *entities.DecodedIntent {
	if len(frame) == 0 {
		return nil
	}

	carrier := &pipeline.Carrier{Binary: frame}
	stages := pipeline.Stages()
	for i := len(stages) - 1; i >= 0; i-- {
		if err := stages[i].Inverse(carrier); err != nil {
			if c.logger != nil {
				c.logger.Debug("Dropping undecodable frame",
					zap.String("stage", stages[i].Name()),
					zap.Int("frameBytes", len(frame)),
					zap.Error(err))
			}
			return nil
		}
	}

	return &entities.DecodedIntent{
		Direction:      carrier.Discrete.Direction,
		VelocityBucket: carrier.Discrete.VelocityBucket,
		PressureBucket: carrier.Discrete.PressureBucket,
		MotionClass:    carrier.Discrete.MotionClass,
		Swaras:         carrier.Swaras.Tokens,
		Gamaka:         carrier.Swaras.Gamaka,
		Octave:         carrier.Swaras.Octave,
		Affect:         carrier.Affect,
		Tier:           carrier.Tier,
		Type:           carrier.Type,
		TierExplicit:   carrier.TierExplicit,
	}
}
