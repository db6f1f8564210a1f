package embedding

import (
	"fmt"

	"museroll/internal/interval"
)

// Run is a maximal stretch of identical consecutive intervals.
type Run struct {
	Interval interval.Interval `json:"interval"`
	Count    int               `json:"count"`
}

// EncodeRLE compresses an interval sequence into runs. Adjacent runs never
// hold equal intervals, so the encoding is canonical: encoding an already
// decoded sequence reproduces the same runs.
func EncodeRLE(intervals []interval.Interval) []Run {
	if len(intervals) == 0 {
		return nil
	}

	runs := []Run{{Interval: intervals[0], Count: 1}}
	for _, iv := range intervals[1:] {
		if last := &runs[len(runs)-1]; last.Interval == iv {
			last.Count++
		} else {
			runs = append(runs, Run{Interval: iv, Count: 1})
		}
	}
	return runs
}

// DecodeRLE expands runs back into the interval sequence they encode.
// Every run count must be at least 1.
func DecodeRLE(runs []Run) ([]interval.Interval, error) {
	total := 0
	for i, run := range runs {
		if run.Count < 1 {
			return nil, fmt.Errorf("run %d: count must be at least 1, got %d", i, run.Count)
		}
		total += run.Count
	}

	intervals := make([]interval.Interval, 0, total)
	for _, run := range runs {
		for n := 0; n < run.Count; n++ {
			intervals = append(intervals, run.Interval)
		}
	}
	return intervals, nil
}

// EncodeRLEBulk run-length encodes each sequence independently.
func EncodeRLEBulk(sequences [][]interval.Interval) [][]Run {
	encoded := make([][]Run, len(sequences))
	for i, seq := range sequences {
		encoded[i] = EncodeRLE(seq)
	}
	return encoded
}

// DecodeRLEBulk expands each run sequence independently.
func DecodeRLEBulk(sequences [][]Run) ([][]interval.Interval, error) {
	decoded := make([][]interval.Interval, len(sequences))
	for i, runs := range sequences {
		intervals, err := DecodeRLE(runs)
		if err != nil {
			return nil, fmt.Errorf("sequence %d: %w", i, err)
		}
		decoded[i] = intervals
	}
	return decoded, nil
}
