// Package rollio reads and writes pianorolls as JSON files.
package rollio

import (
	"encoding/json"
	"fmt"
	"os"

	"museroll/internal/pianoroll"
)

// rollFile is the on-disk shape. Velocities are kept as a row-major matrix
// so files stay diffable and easy to produce from other tools.
type rollFile struct {
	Timesteps  int       `json:"timesteps"`
	Velocities [][]uint8 `json:"velocities"`
}

// Load reads a pianoroll from a JSON file and validates its shape.
func Load(path string) (pianoroll.Roll, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file rollFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse pianoroll %s: %w", path, err)
	}
	if file.Timesteps != len(file.Velocities) {
		return nil, fmt.Errorf("pianoroll %s declares %d timesteps but holds %d rows", path, file.Timesteps, len(file.Velocities))
	}

	roll, err := pianoroll.FromRows(file.Velocities)
	if err != nil {
		return nil, fmt.Errorf("pianoroll %s: %w", path, err)
	}
	return roll, nil
}

// Save validates the roll and writes it as indented JSON.
func Save(path string, roll pianoroll.Roll) error {
	if err := roll.Validate(); err != nil {
		return err
	}

	file := rollFile{
		Timesteps:  roll.Timesteps(),
		Velocities: roll,
	}
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
