package embedding

import (
	"fmt"

	"museroll/internal/interval"
	"museroll/internal/pianoroll"
)

// target returns the roll reconstruction writes into: the overlay when one
// is supplied, otherwise a fresh roll of the requested length.
func target(onto pianoroll.Roll, timesteps int) (pianoroll.Roll, error) {
	if onto == nil {
		return pianoroll.New(timesteps), nil
	}
	if err := onto.Validate(); err != nil {
		return nil, err
	}
	if onto.Timesteps() != timesteps {
		return nil, fmt.Errorf("overlay pianoroll has %d timesteps, want %d", onto.Timesteps(), timesteps)
	}
	return onto, nil
}

// PianorollFromMelodic rebuilds a single-voice pianoroll from melodic
// intervals. The origin pitch is placed at row leadingSilence and every
// later non-silence interval moves the voice by its signed semitone count.
// When onto is non-nil the notes are written into it instead of a new roll.
func PianorollFromMelodic(intervals []interval.Interval, origin int, velocity int, leadingSilence int, onto pianoroll.Roll) (pianoroll.Roll, error) {
	if err := pianoroll.CheckPitch(origin); err != nil {
		return nil, err
	}
	if err := pianoroll.CheckVelocity(velocity); err != nil {
		return nil, err
	}
	if leadingSilence < 0 || leadingSilence >= len(intervals) {
		return nil, fmt.Errorf("leading silence %d out of range for %d intervals", leadingSilence, len(intervals))
	}
	roll, err := target(onto, len(intervals))
	if err != nil {
		return nil, err
	}

	roll[leadingSilence][origin] = uint8(velocity)
	pitch := origin
	for t := leadingSilence + 1; t < len(intervals); t++ {
		iv := intervals[t]
		if iv.IsSilence() {
			continue
		}
		pitch += iv.Semitones()
		if err := pianoroll.CheckPitch(pitch); err != nil {
			return nil, fmt.Errorf("timestep %d: %w", t, err)
		}
		roll[t][pitch] = uint8(velocity)
	}
	return roll, nil
}

// PianorollFromHarmonic rebuilds a voice from harmonic intervals and the
// reference pianoroll they were measured against. Timesteps where either the
// interval or the reference voice is silent stay silent.
func PianorollFromHarmonic(intervals []interval.Interval, ref pianoroll.Roll, velocity int, onto pianoroll.Roll) (pianoroll.Roll, error) {
	if err := pianoroll.CheckVelocity(velocity); err != nil {
		return nil, err
	}
	if err := ref.Validate(); err != nil {
		return nil, err
	}
	if ref.Timesteps() != len(intervals) {
		return nil, fmt.Errorf("reference pianoroll has %d timesteps, want %d", ref.Timesteps(), len(intervals))
	}
	roll, err := target(onto, len(intervals))
	if err != nil {
		return nil, err
	}

	for t, iv := range intervals {
		if iv.IsSilence() {
			continue
		}
		refPitch := ref.HighestPitch(t)
		if refPitch == 0 {
			continue
		}
		pitch := refPitch + iv.Semitones()
		if err := pianoroll.CheckPitch(pitch); err != nil {
			return nil, fmt.Errorf("timestep %d: %w", t, err)
		}
		roll[t][pitch] = uint8(velocity)
	}
	return roll, nil
}

// PianorollFromBarwise rebuilds a voice from barwise intervals. The first
// note of each bar re-anchors the reference pitch relative to the previous
// bar's first note; later notes in the bar are offsets from that anchor.
func PianorollFromBarwise(intervals []interval.Interval, origin int, velocity int, leadingSilence int, pixelsPerBar int, onto pianoroll.Roll) (pianoroll.Roll, error) {
	if pixelsPerBar < 1 {
		return nil, fmt.Errorf("pixels per bar must be a positive integer, got %d", pixelsPerBar)
	}
	if err := pianoroll.CheckPitch(origin); err != nil {
		return nil, err
	}
	if err := pianoroll.CheckVelocity(velocity); err != nil {
		return nil, err
	}
	if leadingSilence < 0 || leadingSilence >= len(intervals) {
		return nil, fmt.Errorf("leading silence %d out of range for %d intervals", leadingSilence, len(intervals))
	}
	roll, err := target(onto, len(intervals))
	if err != nil {
		return nil, err
	}

	roll[leadingSilence][origin] = uint8(velocity)
	barRef := origin
	lastBarRef := origin
	anchored := true
	for t := leadingSilence; t < len(intervals); t++ {
		if t%pixelsPerBar == 0 {
			anchored = false
		}
		iv := intervals[t]
		if iv.IsSilence() {
			continue
		}
		if !anchored {
			barRef = lastBarRef + iv.Semitones()
			if err := pianoroll.CheckPitch(barRef); err != nil {
				return nil, fmt.Errorf("timestep %d: %w", t, err)
			}
			lastBarRef = barRef
			anchored = true
			roll[t][barRef] = uint8(velocity)
			continue
		}
		pitch := barRef + iv.Semitones()
		if err := pianoroll.CheckPitch(pitch); err != nil {
			return nil, fmt.Errorf("timestep %d: %w", t, err)
		}
		roll[t][pitch] = uint8(velocity)
	}
	return roll, nil
}
