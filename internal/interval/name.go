package interval

import "fmt"

var qualityNames = map[int8]string{
	Diminished: "dim",
	Minor:      "min",
	Perfect:    "perfect",
	Major:      "Maj",
	Augmented:  "Aug",
}

// Name returns the human-readable label of the interval, e.g. "Silence",
// "perfect 1st", "Descending min 2nd" or "perfect 8th" for a full octave.
// Compound intervals fold the octave offset into the ordinal (a ninth is
// order 2 with one octave of offset). Display only; not round-trippable.
func (iv Interval) Name() string {
	if iv.IsSilence() {
		return "Silence"
	}

	name := ""
	if iv.Descending {
		name = "Descending "
	}
	if quality, ok := qualityNames[iv.Quality]; ok {
		name += quality + " "
	}
	return name + ordinal(int(iv.Order)+int(iv.OctaveOffset)*7)
}

func (iv Interval) String() string {
	return iv.Name()
}

func ordinal(n int) string {
	suffix := "th"
	if n/10%10 != 1 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}
