// Package stats derives compression summaries for encoded sequences and
// persists them as JSON report artifacts under a reports directory.
package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dustin/go-humanize"

	"museroll/internal/interval"
	"museroll/internal/model"
	"museroll/internal/pianoroll"
)

const reportIndexFile = "report_index.json"

// Bytes per timestep in each representation. A pianoroll row holds one
// velocity per MIDI note; an interval row holds the four features; a run
// adds a count column to those features.
const (
	pianorollRowBytes = pianoroll.NotesInMIDI
	intervalRowBytes  = interval.FeatureDimensions
	runBytes          = interval.FeatureDimensions + 1
)

// CompressionSummary reports how much smaller a run-length encoded sequence
// is than the interval rows and the pianoroll it came from.
type CompressionSummary struct {
	ReportID         string  `json:"report_id"`
	SequenceID       string  `json:"sequence_id"`
	Name             string  `json:"name"`
	Kind             string  `json:"kind"`
	Timesteps        int     `json:"timesteps"`
	RunCount         int     `json:"run_count"`
	PianorollBytes   uint64  `json:"pianoroll_bytes"`
	IntervalBytes    uint64  `json:"interval_bytes"`
	EncodedBytes     uint64  `json:"encoded_bytes"`
	CompressionRatio float64 `json:"compression_ratio"`
	PianorollSize    string  `json:"pianoroll_size"`
	EncodedSize      string  `json:"encoded_size"`
	CreatedAtUTC     string  `json:"created_at_utc"`
}

type ReportIndexEntry struct {
	ReportID         string  `json:"report_id"`
	SequenceID       string  `json:"sequence_id"`
	Kind             string  `json:"kind"`
	Timesteps        int     `json:"timesteps"`
	RunCount         int     `json:"run_count"`
	CompressionRatio float64 `json:"compression_ratio"`
	CreatedAtUTC     string  `json:"created_at_utc"`
}

// Summarize computes the compression summary for a persisted sequence.
// Identity and timestamps are left for the caller to fill in.
func Summarize(sequence model.SequenceRecord) CompressionSummary {
	summary := CompressionSummary{
		SequenceID:     sequence.ID,
		Name:           sequence.Name,
		Kind:           string(sequence.Kind),
		Timesteps:      sequence.Timesteps,
		RunCount:       len(sequence.Runs),
		PianorollBytes: uint64(sequence.Timesteps) * pianorollRowBytes,
		IntervalBytes:  uint64(sequence.Timesteps) * intervalRowBytes,
		EncodedBytes:   uint64(len(sequence.Runs)) * runBytes,
	}
	if summary.EncodedBytes > 0 {
		summary.CompressionRatio = float64(summary.IntervalBytes) / float64(summary.EncodedBytes)
	}
	summary.PianorollSize = humanize.Bytes(summary.PianorollBytes)
	summary.EncodedSize = humanize.Bytes(summary.EncodedBytes)
	return summary
}

// WriteReport stores the summary under baseDir/<report id>/report.json and
// returns the report directory.
func WriteReport(baseDir string, summary CompressionSummary) (string, error) {
	if summary.ReportID == "" {
		return "", fmt.Errorf("report id is required")
	}

	reportDir := filepath.Join(baseDir, summary.ReportID)
	if err := os.MkdirAll(reportDir, 0o755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(reportDir, "report.json"), summary); err != nil {
		return "", err
	}
	return reportDir, nil
}

// ReadReport loads a summary previously stored by WriteReport.
func ReadReport(baseDir, reportID string) (CompressionSummary, error) {
	if reportID == "" {
		return CompressionSummary{}, fmt.Errorf("report id is required")
	}

	data, err := os.ReadFile(filepath.Join(baseDir, reportID, "report.json"))
	if err != nil {
		return CompressionSummary{}, err
	}

	var summary CompressionSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return CompressionSummary{}, err
	}
	return summary, nil
}

// AppendReportIndex adds or replaces the entry for its report id in the
// shared index file.
func AppendReportIndex(baseDir string, entry ReportIndexEntry) error {
	if entry.ReportID == "" {
		return fmt.Errorf("report id is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return err
	}

	index, err := ListReportIndex(baseDir)
	if err != nil {
		return err
	}

	for i := range index {
		if index[i].ReportID == entry.ReportID {
			index[i] = entry
			return writeJSON(filepath.Join(baseDir, reportIndexFile), index)
		}
	}

	index = append(index, entry)
	return writeJSON(filepath.Join(baseDir, reportIndexFile), index)
}

// ListReportIndex returns the index entries newest first.
func ListReportIndex(baseDir string) ([]ReportIndexEntry, error) {
	path := filepath.Join(baseDir, reportIndexFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []ReportIndexEntry{}, nil
		}
		return nil, err
	}

	var entries []ReportIndexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}

	type indexedEntry struct {
		entry ReportIndexEntry
		idx   int
	}
	indexed := make([]indexedEntry, len(entries))
	for i := range entries {
		indexed[i] = indexedEntry{entry: entries[i], idx: i}
	}
	sort.Slice(indexed, func(i, j int) bool {
		if indexed[i].entry.CreatedAtUTC == indexed[j].entry.CreatedAtUTC {
			// Prefer later appended entries for equal timestamps.
			return indexed[i].idx > indexed[j].idx
		}
		return indexed[i].entry.CreatedAtUTC > indexed[j].entry.CreatedAtUTC
	})

	sorted := make([]ReportIndexEntry, 0, len(indexed))
	for _, item := range indexed {
		sorted = append(sorted, item.entry)
	}
	return sorted, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
