// Package pianoroll defines the time-by-pitch velocity matrix exchanged
// with external pianoroll providers.
package pianoroll

import "fmt"

const (
	// NotesInMIDI is the fixed pitch-axis width of every roll.
	NotesInMIDI = 128

	// MaxVelocity is the largest MIDI velocity.
	MaxVelocity = 127
)

// Roll is an ordered sequence of timesteps, each a fixed vector of 128
// pitch slots holding velocities. Slot 0 doubles as the silence pitch: a
// timestep with activity only in slot 0 reads as silent.
type Roll [][]uint8

// New allocates an all-silent roll of the given timestep count.
func New(timesteps int) Roll {
	roll := make(Roll, timesteps)
	for i := range roll {
		roll[i] = make([]uint8, NotesInMIDI)
	}
	return roll
}

// FromRows wraps caller-supplied rows in a Roll after validating the shape.
// The rows are not copied.
func FromRows(rows [][]uint8) (Roll, error) {
	roll := Roll(rows)
	if err := roll.Validate(); err != nil {
		return nil, err
	}
	return roll, nil
}

// Validate checks that every timestep has exactly NotesInMIDI pitch slots.
func (r Roll) Validate() error {
	for i, row := range r {
		if len(row) != NotesInMIDI {
			return fmt.Errorf("wrong pianoroll shape: timestep %d has %d pitch slots, want %d", i, len(row), NotesInMIDI)
		}
	}
	return nil
}

// Timesteps returns the length of the time axis.
func (r Roll) Timesteps() int {
	return len(r)
}

// Clone returns a deep copy of the roll.
func (r Roll) Clone() Roll {
	clone := make(Roll, len(r))
	for i, row := range r {
		clone[i] = append([]uint8(nil), row...)
	}
	return clone
}

// HighestPitch returns the highest active pitch at timestep t, or 0 when
// the timestep is silent. Slot 0 is never reported as a pitch.
func (r Roll) HighestPitch(t int) int {
	row := r[t]
	for pitch := NotesInMIDI - 1; pitch >= 1; pitch-- {
		if row[pitch] > 0 {
			return pitch
		}
	}
	return 0
}

// CheckPitch validates a MIDI pitch value.
func CheckPitch(pitch int) error {
	if pitch < 0 || pitch >= NotesInMIDI {
		return fmt.Errorf("pitch %d out of MIDI range 0-%d", pitch, NotesInMIDI-1)
	}
	return nil
}

// CheckVelocity validates a MIDI velocity value.
func CheckVelocity(velocity int) error {
	if velocity < 0 || velocity > MaxVelocity {
		return fmt.Errorf("velocity %d out of MIDI range 0-%d", velocity, MaxVelocity)
	}
	return nil
}
