package pipeline

import (
	"fmt"
	"strings"

	"github.com/rasoomlabs/rasoom/domain/entities"
)

// SyllabicForm is the transliteration-stage output: gesture categories
// rendered as consonant-vowel syllables, plus the affect dimensions
// quantized to the 4-bit levels that survive the wire.
type SyllabicForm struct {
	Syllables    []string
	AffectLevels []entities.AffectLevel
}

// Consonant by direction, vowel by bucket. The onsets are distinct so a
// syllable parses unambiguously back to its category.
var (
	directionConsonants = map[entities.Direction]string{
		entities.DirectionLeft:   "k",
		entities.DirectionDown:   "t",
		entities.DirectionCenter: "m",
		entities.DirectionUp:     "p",
		entities.DirectionRight:  "r",
	}
	bucketVowels = []string{"a", "i", "u", "e"}
)

// syllabicStage maps discrete categories to phonetic units and back.
type syllabicStage struct{}

func (syllabicStage) Name() string { return "syllabic" }

func (syllabicStage) Forward(c *Carrier) error {
	c.Syllabic = Syllabify(c.Discrete, c.Affect)
	return nil
}

func (syllabicStage) Inverse(c *Carrier) error {
	discrete, err := ParseSyllables(c.Syllabic.Syllables)
	if err != nil {
		return err
	}
	c.Discrete = discrete
	c.Affect = entities.DequantizeAffect(c.Syllabic.AffectLevels)
	return nil
}

// Syllabify renders a discrete gesture as three syllables: direction plus
// velocity, "n" plus pressure, "s" plus motion class.
func Syllabify(d DiscreteGesture, affect entities.AffectiveState) SyllabicForm {
	onset := directionConsonants[d.Direction]
	if onset == "" {
		onset = directionConsonants[entities.DirectionCenter]
	}
	return SyllabicForm{
		Syllables: []string{
			onset + bucketVowels[d.VelocityBucket],
			"n" + bucketVowels[d.PressureBucket],
			"s" + bucketVowels[d.MotionClass],
		},
		AffectLevels: entities.QuantizeAffect(affect),
	}
}

// ParseSyllables is the exact inverse of Syllabify's gesture part.
func ParseSyllables(syllables []string) (DiscreteGesture, error) {
	if len(syllables) != 3 {
		return DiscreteGesture{}, fmt.Errorf("expected 3 syllables, got %d", len(syllables))
	}

	var d DiscreteGesture
	found := false
	for dir, onset := range directionConsonants {
		if strings.HasPrefix(syllables[0], onset) {
			d.Direction = dir
			found = true
			break
		}
	}
	if !found {
		return DiscreteGesture{}, fmt.Errorf("unknown direction syllable %q", syllables[0])
	}

	var err error
	if d.VelocityBucket, err = vowelIndex(syllables[0], 2); err != nil {
		return DiscreteGesture{}, err
	}
	if !strings.HasPrefix(syllables[1], "n") {
		return DiscreteGesture{}, fmt.Errorf("unknown pressure syllable %q", syllables[1])
	}
	if d.PressureBucket, err = vowelIndex(syllables[1], 2); err != nil {
		return DiscreteGesture{}, err
	}
	if !strings.HasPrefix(syllables[2], "s") {
		return DiscreteGesture{}, fmt.Errorf("unknown motion syllable %q", syllables[2])
	}
	if d.MotionClass, err = vowelIndex(syllables[2], 3); err != nil {
		return DiscreteGesture{}, err
	}
	return d, nil
}

// vowelIndex maps the vowel of a syllable back to its bucket, rejecting
// indexes above max.
func vowelIndex(syllable string, max int) (int, error) {
	if len(syllable) < 2 {
		return 0, fmt.Errorf("malformed syllable %q", syllable)
	}
	vowel := syllable[len(syllable)-1:]
	for i, v := range bucketVowels {
		if v == vowel {
			if i > max {
				return 0, fmt.Errorf("vowel %q out of range for syllable %q", vowel, syllable)
			}
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown vowel in syllable %q", syllable)
}
