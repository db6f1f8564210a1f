package interval

import "fmt"

// One-hot block widths. The order block reserves class 0 for silence, so
// every legal interval state has exactly one hot bit per block.
const (
	orderClasses     = maxOrder + 1
	qualityClasses   = 5
	octaveClasses    = maxOctaveOffset + 1
	directionClasses = 2

	// OneHotDimensions is the width of the categorical feature vector:
	// the per-field class counts summed.
	OneHotDimensions = orderClasses + qualityClasses + octaveClasses + directionClasses
)

// OneHot expands the interval into its categorical feature vector. Block
// layout, in order: order (8, class 0 = silence), quality (5, class 0 =
// diminished), octave offset (10), direction (2, class 1 = descending).
func (iv Interval) OneHot() [OneHotDimensions]int8 {
	var encoded [OneHotDimensions]int8

	encoded[iv.Order] = 1
	encoded[orderClasses+int(iv.Quality)-int(Diminished)] = 1
	encoded[orderClasses+qualityClasses+int(iv.OctaveOffset)] = 1
	direction := 0
	if iv.Descending {
		direction = 1
	}
	encoded[orderClasses+qualityClasses+octaveClasses+direction] = 1
	return encoded
}

// FromOneHot decodes a categorical feature vector produced by OneHot. Each
// block must contain exactly one hot bit.
func FromOneHot(encoded [OneHotDimensions]int8) (Interval, error) {
	order, err := hotIndex(encoded[:orderClasses], "order")
	if err != nil {
		return Interval{}, err
	}
	quality, err := hotIndex(encoded[orderClasses:orderClasses+qualityClasses], "quality")
	if err != nil {
		return Interval{}, err
	}
	octave, err := hotIndex(encoded[orderClasses+qualityClasses:orderClasses+qualityClasses+octaveClasses], "octave offset")
	if err != nil {
		return Interval{}, err
	}
	direction, err := hotIndex(encoded[orderClasses+qualityClasses+octaveClasses:], "direction")
	if err != nil {
		return Interval{}, err
	}

	return FromSpecs(Specs{int8(order), int8(quality) + Diminished, int8(direction), int8(octave)})
}

func hotIndex(block []int8, field string) (int, error) {
	index := -1
	for i, v := range block {
		switch v {
		case 0:
		case 1:
			if index >= 0 {
				return 0, fmt.Errorf("one-hot %s block has multiple hot bits", field)
			}
			index = i
		default:
			return 0, fmt.Errorf("one-hot %s block contains %d, want 0 or 1", field, v)
		}
	}
	if index < 0 {
		return 0, fmt.Errorf("one-hot %s block has no hot bit", field)
	}
	return index, nil
}
