package entities

// Swara is one token of the fixed 12-token Carnatic-derived alphabet used as
// the symbolic intermediate representation for gesture encoding.
type Swara string

// The 12 chromatic swara positions in ascending order. The index of a swara
// in this slice is its degree (0..11) on the wire.
var SwaraAlphabet = []Swara{
	"S", "R1", "R2", "G1", "G2", "M1", "M2", "P", "D1", "D2", "N2", "N3",
}

// SwaraDegree returns the degree (0..11) of s, or -1 when s is not in the
// alphabet.
func SwaraDegree(s Swara) int {
	for i, ss := range SwaraAlphabet {
		if ss == s {
			return i
		}
	}
	return -1
}

// SwaraAt returns the swara at a degree, clamping out-of-range degrees to
// the alphabet bounds.
func SwaraAt(degree int) Swara {
	if degree < 0 {
		degree = 0
	}
	if degree >= len(SwaraAlphabet) {
		degree = len(SwaraAlphabet) - 1
	}
	return SwaraAlphabet[degree]
}

// Octave is the coarse register band of a swara sequence. The three bands
// double as the routing key for the three agent tiers.
type Octave string

const (
	OctaveMandra Octave = "mandra" // lower register
	OctaveMadhya Octave = "madhya" // middle register
	OctaveTara   Octave = "tara"   // upper register
)

// Octaves lists the bands in ascending register order; the index is the
// wire encoding.
var Octaves = []Octave{OctaveMandra, OctaveMadhya, OctaveTara}

// OctaveIndex returns the wire index of o, defaulting to madhya for
// unknown values.
func OctaveIndex(o Octave) int {
	for i, oo := range Octaves {
		if oo == o {
			return i
		}
	}
	return 1
}

// OctaveAt returns the octave for a wire index, madhya for out of range.
func OctaveAt(i int) Octave {
	if i < 0 || i >= len(Octaves) {
		return OctaveMadhya
	}
	return Octaves[i]
}

// SwaraSequence is the Carnatic-stage output: an ordered run of swara
// tokens, a single gamaka (ornamentation intensity) scalar, and the octave
// band the run sits in. Never mutated after creation.
type SwaraSequence struct {
	Tokens []Swara `json:"tokens"`
	Gamaka float64 `json:"gamaka"` // [0,1]
	Octave Octave  `json:"octave"`
}
