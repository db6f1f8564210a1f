// Package embedding converts between pianorolls and sequences of musical
// intervals: melodic, harmonic and barwise extraction, the inverse
// reconstructions, fixed-size chunking and run-length compression.
package embedding

import (
	"fmt"

	"museroll/internal/interval"
	"museroll/internal/pianoroll"
)

// Defaults applied by callers that do not specify their own values.
const (
	DefaultVelocity     = 100
	DefaultOrigin       = 60 // middle C
	DefaultPixelsPerBar = 96
)

// HighestPitches returns the highest active pitch per timestep, with 0
// marking silence. Given an SATB roll, this is the soprano line.
func HighestPitches(roll pianoroll.Roll) ([]int, error) {
	if err := roll.Validate(); err != nil {
		return nil, err
	}

	notes := make([]int, roll.Timesteps())
	for t := range notes {
		notes[t] = roll.HighestPitch(t)
	}
	return notes, nil
}

// MelodicIntervals computes, per timestep, the interval between the current
// highest active pitch and the last sounding note. The reference pitch is
// carried forward across silent gaps; a silent timestep or a first note with
// no previous sounding note yields the silence sentinel. The output length
// equals the roll's timestep count.
func MelodicIntervals(roll pianoroll.Roll) ([]interval.Interval, error) {
	notes, err := HighestPitches(roll)
	if err != nil {
		return nil, err
	}

	intervals := make([]interval.Interval, len(notes))
	last := -1
	for t, pitch := range notes {
		if pitch == 0 {
			continue
		}
		if last >= 0 {
			intervals[t] = interval.FromSemitones(pitch - last)
		}
		last = pitch
	}
	return intervals, nil
}

// HarmonicIntervals computes, per timestep, the interval between the roll's
// highest active pitch and the closest active reference pitch below it at
// the same timestep. If either voice is silent there, the silence sentinel
// is emitted. The rolls must cover the same number of timesteps.
func HarmonicIntervals(roll, ref pianoroll.Roll) ([]interval.Interval, error) {
	if err := roll.Validate(); err != nil {
		return nil, err
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if roll.Timesteps() != ref.Timesteps() {
		return nil, fmt.Errorf("reference pianoroll has %d timesteps, want %d", ref.Timesteps(), roll.Timesteps())
	}

	intervals := make([]interval.Interval, roll.Timesteps())
	for t := range intervals {
		pitch := roll.HighestPitch(t)
		if pitch == 0 {
			continue
		}
		refPitch := pitch - 1
		for refPitch >= 0 && ref[t][refPitch] == 0 {
			refPitch--
		}
		if refPitch >= 0 {
			intervals[t] = interval.FromSemitones(pitch - refPitch)
		}
	}
	return intervals, nil
}

// MelodicIntervalsByBar extracts melodic intervals and splits them at bar
// boundaries, one chunk per bar with the final bar possibly shorter.
func MelodicIntervalsByBar(roll pianoroll.Roll, pixelsPerBar int) ([][]interval.Interval, error) {
	intervals, err := MelodicIntervals(roll)
	if err != nil {
		return nil, err
	}
	return Chunk(intervals, pixelsPerBar)
}

// BarwiseIntervals computes intervals relative to the first note of each
// bar; the first note of a bar is itself measured against the first note of
// the previous bar. Timesteps beyond the last complete bar are left silent.
func BarwiseIntervals(roll pianoroll.Roll, pixelsPerBar int) ([]interval.Interval, error) {
	if pixelsPerBar < 1 {
		return nil, fmt.Errorf("pixels per bar must be a positive integer, got %d", pixelsPerBar)
	}
	notes, err := HighestPitches(roll)
	if err != nil {
		return nil, err
	}

	intervals := make([]interval.Interval, len(notes))

	lastBarRef := -1
	for _, pitch := range notes {
		if pitch != 0 {
			lastBarRef = pitch
			break
		}
	}
	if lastBarRef == -1 {
		return intervals, nil
	}

	for bar := 0; bar < len(notes)/pixelsPerBar; bar++ {
		start, end := bar*pixelsPerBar, (bar+1)*pixelsPerBar

		i := start
		for i < end && notes[i] == 0 {
			i++
		}
		if i == end {
			continue
		}

		ref := notes[i]
		intervals[i] = interval.FromSemitones(ref - lastBarRef)
		lastBarRef = ref

		for i++; i < end; i++ {
			if notes[i] != 0 {
				intervals[i] = interval.FromSemitones(notes[i] - ref)
			}
		}
	}
	return intervals, nil
}
