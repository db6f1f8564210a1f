// Package interval models music-theoretic intervals and their lossless
// conversions between semitone distances, compact spec vectors, one-hot
// feature vectors and display names.
package interval

import "fmt"

// Quality values. Perfect-class orders (unison, fourth, fifth) default to
// Perfect; the remaining orders default to Major.
const (
	Diminished int8 = -2
	Minor      int8 = -1
	Perfect    int8 = 0
	Major      int8 = 1
	Augmented  int8 = 2
)

const (
	// FeatureDimensions is the width of the compact spec vector.
	FeatureDimensions = 4

	// SemitonesPerOctave is the chromatic span of one octave.
	SemitonesPerOctave = 12

	maxOrder        = 7
	maxOctaveOffset = 9
)

// Specs is the compact numeric serialization of an interval:
// [order, quality, descending, octave offset].
type Specs [FeatureDimensions]int8

// Interval is one music-theoretic interval. The zero value is the silence
// sentinel: order 0 marks "no comparison pitch", and is mutually exclusive
// with every real interval.
type Interval struct {
	Order        int8
	Quality      int8
	Descending   bool
	OctaveOffset int8
}

// Silence returns the sentinel interval denoting absence of a comparison
// pitch.
func Silence() Interval {
	return Interval{}
}

// SilenceSpecs returns the spec vector of the silence sentinel.
func SilenceSpecs() Specs {
	return Specs{}
}

// IsSilence reports whether the interval is the silence sentinel.
func (iv Interval) IsSilence() bool {
	return iv == Interval{}
}

// baseSemitones maps an order to the semitone distance of its natural
// quality (perfect for 1/4/5, Major otherwise). Index 0 is the silence
// order and contributes nothing.
var baseSemitones = [maxOrder + 1]int{0, 0, 2, 4, 5, 7, 9, 11}

// perfectClass marks the orders whose natural quality is perfect.
var perfectClass = [maxOrder + 1]bool{1: true, 4: true, 5: true}

// remainderTable maps a semitone remainder (0-11) to its order and quality.
var remainderTable = [SemitonesPerOctave]struct {
	order   int8
	quality int8
}{
	{1, Perfect},    // 0
	{2, Minor},      // 1
	{2, Major},      // 2
	{3, Minor},      // 3
	{3, Major},      // 4
	{4, Perfect},    // 5
	{5, Diminished}, // 6
	{5, Perfect},    // 7
	{6, Minor},      // 8
	{6, Major},      // 9
	{7, Minor},      // 10
	{7, Major},      // 11
}

// Semitones returns the signed chromatic distance of the interval.
//
// A minor or Major quality on a perfect-class order computes the perfect
// value, and a perfect quality on a major-class order computes the Major
// value: faulty but unambiguous representations are tolerated rather than
// rejected. Silence maps to 0; callers must check IsSilence first when the
// distinction matters.
func (iv Interval) Semitones() int {
	semitones := 0
	if iv.Order >= 1 && iv.Order <= maxOrder {
		semitones = baseSemitones[iv.Order]
		if perfectClass[iv.Order] {
			switch iv.Quality {
			case Diminished:
				semitones--
			case Augmented:
				semitones++
			}
		} else {
			switch iv.Quality {
			case Diminished:
				semitones -= 2
			case Minor:
				semitones--
			case Augmented:
				semitones++
			}
		}
	}

	semitones += int(iv.OctaveOffset) * SemitonesPerOctave
	if iv.Descending {
		semitones = -semitones
	}
	return semitones
}

// FromSemitones decomposes a signed chromatic distance into an interval.
// It is the exact inverse of Semitones for every representable distance:
// the octave offset absorbs whole octaves, the remainder selects order and
// quality, and the sign sets the direction. Distance 0 is an ascending
// perfect unison, not silence.
func FromSemitones(semitones int) Interval {
	iv := Interval{}
	if semitones < 0 {
		iv.Descending = true
		semitones = -semitones
	}

	iv.OctaveOffset = int8(semitones / SemitonesPerOctave)
	entry := remainderTable[semitones%SemitonesPerOctave]
	iv.Order = entry.order
	iv.Quality = entry.quality
	return iv
}

// Specs returns the compact spec vector [order, quality, descending,
// octave offset].
func (iv Interval) Specs() Specs {
	descending := int8(0)
	if iv.Descending {
		descending = 1
	}
	return Specs{iv.Order, iv.Quality, descending, iv.OctaveOffset}
}

// FromSpecs builds an interval from a spec vector, validating every field
// domain. The all-zero silence sentinel is accepted.
func FromSpecs(specs Specs) (Interval, error) {
	if specs[0] < 0 || specs[0] > maxOrder {
		return Interval{}, fmt.Errorf("interval order must be between 0 and %d, got %d", maxOrder, specs[0])
	}
	if specs[1] < Diminished || specs[1] > Augmented {
		return Interval{}, fmt.Errorf("interval quality must be between %d and %d, got %d", Diminished, Augmented, specs[1])
	}
	if specs[2] != 0 && specs[2] != 1 {
		return Interval{}, fmt.Errorf("descending flag must be 0 or 1, got %d", specs[2])
	}
	if specs[3] < 0 || specs[3] > maxOctaveOffset {
		return Interval{}, fmt.Errorf("octave offset must be between 0 and %d, got %d", maxOctaveOffset, specs[3])
	}

	return Interval{
		Order:        specs[0],
		Quality:      specs[1],
		Descending:   specs[2] == 1,
		OctaveOffset: specs[3],
	}, nil
}
