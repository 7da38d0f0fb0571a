package pipeline

import (
	"errors"

	"github.com/rasoomlabs/rasoom/domain/entities"
)

// captureStage snapshots the raw multimodal inputs. Out-of-range scalars are
// clamped rather than rejected: gesture capture is noisy sensor input and
// the pipeline degrades gracefully instead of failing closed.
type captureStage struct{}

func (captureStage) Name() string { return "capture" }

func (captureStage) Forward(c *Carrier) error {
	c.Gesture = c.Gesture.Clamped()
	if c.Affect == nil {
		c.Affect = entities.AffectiveState{}
	}
	c.Affect = c.Affect.Clamped()
	if c.Type == 0 {
		c.Type = entities.MessageTypeIntent
	}
	if c.Tier != "" && entities.TierIndex(c.Tier) < 0 {
		return errors.New("unknown tier override")
	}
	c.TierExplicit = c.Tier != ""
	return nil
}

// Inverse finishes a decode: by the time it runs, the later inverses have
// rebuilt the representative gesture and affect, so there is nothing left
// to undo beyond a final consistency clamp.
func (captureStage) Inverse(c *Carrier) error {
	c.Gesture = c.Gesture.Clamped()
	c.Affect = c.Affect.Clamped()
	return nil
}
