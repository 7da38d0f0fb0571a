// Package routing decides which agent tier a decoded message belongs to.
package routing

import (
	"github.com/rasoomlabs/rasoom/domain/entities"
)

// tierByOctave is the fixed octave-band routing table. Low register stays
// close to the leaf agents, high register escalates to the prime tier.
var tierByOctave = map[entities.Octave]entities.Tier{
	entities.OctaveMandra: entities.TierMicro,
	entities.OctaveMadhya: entities.TierDomain,
	entities.OctaveTara:   entities.TierPrime,
}

// TierForOctave maps an octave band to its tier. Total: unknown bands fall
// back through the madhya default, so every input routes somewhere.
func TierForOctave(o entities.Octave) entities.Tier {
	if t, ok := tierByOctave[o]; ok {
		return t
	}
	return tierByOctave[entities.OctaveMadhya]
}

// TierForSequence routes a swara sequence by its octave band.
func TierForSequence(seq entities.SwaraSequence) entities.Tier {
	return TierForOctave(seq.Octave)
}

// TierForIntent resolves the destination tier of a decoded intent: an
// explicit tier supplied at encode time wins, otherwise the octave band
// decides.
func TierForIntent(intent *entities.DecodedIntent) entities.Tier {
	if intent.TierExplicit {
		return intent.Tier
	}
	return TierForOctave(intent.Octave)
}
