package pipeline

import (
	"fmt"

	"github.com/rasoomlabs/rasoom/domain/entities"
)

// Limits on the affect table carried over the wire. Dimensions beyond the
// cap are dropped (lexically last first), names are truncated; the wire
// stays bounded no matter what a caller hands in.
const (
	maxAffectDims    = 32
	maxAffectNameLen = 64
)

// gamakaScale is the fixed-point denominator for the gamaka scalar.
const gamakaScale = 255

// Fixed positions of the leading coefficients.
const (
	coefDirection = iota
	coefVelocity
	coefPressure
	coefMotion
	coefOctave
	coefGamaka
	coefTier
	coefTierExplicit
	coefType
	coefTokenCount
	coefHeaderLen // number of fixed leading coefficients
)

// mathStage renders the message intent as an integer coefficient vector:
// the fixed header coefficients, the swara degrees, then the quantized
// affect table (level, name length, name bytes per dimension).
type mathStage struct{}

func (mathStage) Name() string { return "math-encode" }

func (mathStage) Forward(c *Carrier) error {
	c.Coeffs = EncodeCoefficients(c)
	return nil
}

func (mathStage) Inverse(c *Carrier) error {
	return DecodeCoefficients(c.Coeffs, c)
}

// EncodeCoefficients flattens the carrier's Carnatic-stage state into the
// coefficient vector.
func EncodeCoefficients(c *Carrier) []uint64 {
	levels := c.Syllabic.AffectLevels
	if len(levels) > maxAffectDims {
		levels = levels[:maxAffectDims]
	}

	coeffs := make([]uint64, coefHeaderLen, coefHeaderLen+len(c.Swaras.Tokens)+1+4*len(levels))
	coeffs[coefDirection] = uint64(entities.DirectionIndex(c.Discrete.Direction))
	coeffs[coefVelocity] = uint64(c.Discrete.VelocityBucket)
	coeffs[coefPressure] = uint64(c.Discrete.PressureBucket)
	coeffs[coefMotion] = uint64(c.Discrete.MotionClass)
	coeffs[coefOctave] = uint64(entities.OctaveIndex(c.Swaras.Octave))
	coeffs[coefGamaka] = uint64(c.Swaras.Gamaka*gamakaScale + 0.5)
	tier := entities.TierIndex(c.Tier)
	if tier < 0 {
		tier = entities.TierIndex(entities.TierDomain)
	}
	coeffs[coefTier] = uint64(tier)
	if c.TierExplicit {
		coeffs[coefTierExplicit] = 1
	}
	coeffs[coefType] = uint64(c.Type)
	coeffs[coefTokenCount] = uint64(len(c.Swaras.Tokens))

	for _, token := range c.Swaras.Tokens {
		coeffs = append(coeffs, uint64(entities.SwaraDegree(token)))
	}

	coeffs = append(coeffs, uint64(len(levels)))
	for _, l := range levels {
		name := l.Name
		if len(name) > maxAffectNameLen {
			name = name[:maxAffectNameLen]
		}
		coeffs = append(coeffs, uint64(l.Level), uint64(len(name)))
		for i := 0; i < len(name); i++ {
			coeffs = append(coeffs, uint64(name[i]))
		}
	}
	return coeffs
}

// DecodeCoefficients rebuilds the Carnatic-stage carrier state from a
// coefficient vector, rejecting structurally impossible vectors.
func DecodeCoefficients(coeffs []uint64, c *Carrier) error {
	if len(coeffs) < coefHeaderLen+1 {
		return fmt.Errorf("coefficient vector too short: %d", len(coeffs))
	}

	c.Discrete = DiscreteGesture{
		Direction:      entities.DirectionAt(int(coeffs[coefDirection])),
		VelocityBucket: clampInt(int(coeffs[coefVelocity]), 0, 2),
		PressureBucket: clampInt(int(coeffs[coefPressure]), 0, 2),
		MotionClass:    clampInt(int(coeffs[coefMotion]), 0, 3),
	}
	c.Tier = entities.TierAt(int(coeffs[coefTier]))
	c.TierExplicit = coeffs[coefTierExplicit] == 1
	c.Type = entities.MessageType(coeffs[coefType])

	tokenCount := int(coeffs[coefTokenCount])
	if tokenCount < 0 || tokenCount > 64 || coefHeaderLen+tokenCount >= len(coeffs) {
		return fmt.Errorf("implausible token count %d", tokenCount)
	}
	tokens := make([]entities.Swara, tokenCount)
	for i := range tokens {
		tokens[i] = entities.SwaraAt(int(coeffs[coefHeaderLen+i]))
	}
	c.Swaras = entities.SwaraSequence{
		Tokens: tokens,
		Gamaka: float64(coeffs[coefGamaka]&0xff) / gamakaScale,
		Octave: entities.OctaveAt(int(coeffs[coefOctave])),
	}

	pos := coefHeaderLen + tokenCount
	dimCount := int(coeffs[pos])
	pos++
	if dimCount < 0 || dimCount > maxAffectDims {
		return fmt.Errorf("implausible affect dimension count %d", dimCount)
	}
	levels := make([]entities.AffectLevel, 0, dimCount)
	for i := 0; i < dimCount; i++ {
		if pos+2 > len(coeffs) {
			return fmt.Errorf("truncated affect table at dimension %d", i)
		}
		level := uint8(coeffs[pos] & 0x0f)
		nameLen := int(coeffs[pos+1])
		pos += 2
		if nameLen < 0 || nameLen > maxAffectNameLen || pos+nameLen > len(coeffs) {
			return fmt.Errorf("implausible affect name length %d", nameLen)
		}
		name := make([]byte, nameLen)
		for j := 0; j < nameLen; j++ {
			name[j] = byte(coeffs[pos+j])
		}
		pos += nameLen
		levels = append(levels, entities.AffectLevel{Name: string(name), Level: level})
	}
	c.Syllabic.AffectLevels = levels
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
