package museroll

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	client, err := New(Options{
		StoreKind:  "memory",
		ReportsDir: filepath.Join(t.TempDir(), "reports"),
	})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})

	if err := client.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return client
}

func velocitiesFromPitches(pitches []int) [][]uint8 {
	rows := make([][]uint8, len(pitches))
	for t, pitch := range pitches {
		rows[t] = make([]uint8, 128)
		if pitch != 0 {
			rows[t][pitch] = 100
		}
	}
	return rows
}

func TestEncodeMelodyAndDecode(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	velocities := velocitiesFromPitches([]int{0, 60, 60, 62, 62, 0, 64})
	summary, err := client.EncodeMelody(ctx, EncodeMelodyRequest{Name: "phrase", Velocities: velocities})
	if err != nil {
		t.Fatalf("encode melody: %v", err)
	}
	if summary.ID == "" {
		t.Fatal("expected sequence id")
	}
	if summary.Kind != "melodic" || summary.Timesteps != 7 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Origin != 60 || summary.LeadingSilence != 1 {
		t.Fatalf("unexpected origin bookkeeping: %+v", summary)
	}

	result, err := client.Decode(ctx, DecodeRequest{ID: summary.ID})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.Timesteps != 7 {
		t.Fatalf("decoded %d timesteps, want 7", result.Timesteps)
	}
	for ts, row := range velocities {
		for pitch := range row {
			if result.Velocities[ts][pitch] != row[pitch] {
				t.Fatalf("timestep %d pitch %d: velocity %d, want %d", ts, pitch, result.Velocities[ts][pitch], row[pitch])
			}
		}
	}
}

func TestEncodeMelodyAllSilentDecodesSilent(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	summary, err := client.EncodeMelody(ctx, EncodeMelodyRequest{Name: "rest", Velocities: velocitiesFromPitches(make([]int, 5))})
	if err != nil {
		t.Fatalf("encode melody: %v", err)
	}
	if summary.RunCount != 1 {
		t.Fatalf("got %d runs, want 1", summary.RunCount)
	}

	result, err := client.Decode(ctx, DecodeRequest{ID: summary.ID})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for ts, row := range result.Velocities {
		for pitch, velocity := range row {
			if velocity != 0 {
				t.Fatalf("timestep %d pitch %d sounded in an all-silent sequence", ts, pitch)
			}
		}
	}
}

func TestEncodeHarmonyAndDecode(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	ref := velocitiesFromPitches([]int{40, 40, 40, 40})
	velocities := velocitiesFromPitches([]int{0, 45, 47, 52})

	summary, err := client.EncodeHarmony(ctx, EncodeHarmonyRequest{Name: "voice", Velocities: velocities, RefVelocities: ref})
	if err != nil {
		t.Fatalf("encode harmony: %v", err)
	}
	if summary.Kind != "harmonic" {
		t.Fatalf("unexpected kind: %s", summary.Kind)
	}

	if _, err := client.Decode(ctx, DecodeRequest{ID: summary.ID}); err == nil {
		t.Fatal("expected error decoding harmonic sequence without a reference")
	}

	result, err := client.Decode(ctx, DecodeRequest{ID: summary.ID, RefVelocities: ref})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for ts, row := range velocities {
		for pitch := range row {
			if result.Velocities[ts][pitch] != row[pitch] {
				t.Fatalf("timestep %d pitch %d: velocity %d, want %d", ts, pitch, result.Velocities[ts][pitch], row[pitch])
			}
		}
	}
}

func TestEncodeBarsAndDecode(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	pitches := make([]int, 8)
	copy(pitches, []int{60, 64, 0, 55, 67, 0, 65, 67})
	velocities := velocitiesFromPitches(pitches)

	summary, err := client.EncodeBars(ctx, EncodeBarsRequest{Name: "bars", Velocities: velocities, PixelsPerBar: 4})
	if err != nil {
		t.Fatalf("encode bars: %v", err)
	}
	if summary.Kind != "barwise" || summary.PixelsPerBar != 4 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	result, err := client.Decode(ctx, DecodeRequest{ID: summary.ID})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	for ts, row := range velocities {
		for pitch := range row {
			if result.Velocities[ts][pitch] != row[pitch] {
				t.Fatalf("timestep %d pitch %d: velocity %d, want %d", ts, pitch, result.Velocities[ts][pitch], row[pitch])
			}
		}
	}
}

func TestSequencesListing(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	velocities := velocitiesFromPitches([]int{60, 62})
	for _, name := range []string{"first", "second", "third"} {
		if _, err := client.EncodeMelody(ctx, EncodeMelodyRequest{Name: name, Velocities: velocities}); err != nil {
			t.Fatalf("encode %s: %v", name, err)
		}
	}

	sequences, err := client.Sequences(ctx, SequencesRequest{})
	if err != nil {
		t.Fatalf("sequences: %v", err)
	}
	if len(sequences) != 3 {
		t.Fatalf("got %d sequences, want 3", len(sequences))
	}

	limited, err := client.Sequences(ctx, SequencesRequest{Limit: 2})
	if err != nil {
		t.Fatalf("sequences with limit: %v", err)
	}
	if len(limited) != 2 {
		t.Fatalf("got %d sequences, want 2", len(limited))
	}
}

func TestDeleteSequence(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	summary, err := client.EncodeMelody(ctx, EncodeMelodyRequest{Name: "phrase", Velocities: velocitiesFromPitches([]int{60, 62})})
	if err != nil {
		t.Fatalf("encode melody: %v", err)
	}
	if err := client.Delete(ctx, summary.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := client.Decode(ctx, DecodeRequest{ID: summary.ID}); err == nil {
		t.Fatal("expected error decoding deleted sequence")
	}
}

func TestInspectWritesReport(t *testing.T) {
	reportsDir := filepath.Join(t.TempDir(), "reports")
	client, err := New(Options{StoreKind: "memory", ReportsDir: reportsDir})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	t.Cleanup(func() {
		_ = client.Close()
	})
	ctx := context.Background()
	if err := client.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	summary, err := client.EncodeMelody(ctx, EncodeMelodyRequest{Name: "phrase", Velocities: velocitiesFromPitches([]int{60, 60, 60, 62})})
	if err != nil {
		t.Fatalf("encode melody: %v", err)
	}

	inspected, err := client.Inspect(ctx, InspectRequest{ID: summary.ID, WriteReport: true})
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if len(inspected.Runs) == 0 {
		t.Fatal("expected named runs")
	}
	if inspected.Runs[0].Name != "Silence" {
		t.Fatalf("first run named %q, want Silence", inspected.Runs[0].Name)
	}
	if inspected.Compression.RunCount != summary.RunCount {
		t.Fatalf("compression run count %d, want %d", inspected.Compression.RunCount, summary.RunCount)
	}
	if inspected.ReportDir == "" {
		t.Fatal("expected report directory")
	}
	if _, err := os.Stat(filepath.Join(inspected.ReportDir, "report.json")); err != nil {
		t.Fatalf("report file missing: %v", err)
	}

	reports, err := client.Reports(0)
	if err != nil {
		t.Fatalf("reports: %v", err)
	}
	if len(reports) != 1 || reports[0].SequenceID != summary.ID {
		t.Fatalf("unexpected report index: %+v", reports)
	}
}

func TestInspectWithoutReport(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	summary, err := client.EncodeMelody(ctx, EncodeMelodyRequest{Name: "phrase", Velocities: velocitiesFromPitches([]int{60, 62})})
	if err != nil {
		t.Fatalf("encode melody: %v", err)
	}

	inspected, err := client.Inspect(ctx, InspectRequest{ID: summary.ID})
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if inspected.ReportDir != "" {
		t.Fatalf("unexpected report dir: %s", inspected.ReportDir)
	}
}

func TestEncodeMelodyRejectsBadVelocity(t *testing.T) {
	client := newTestClient(t)

	_, err := client.EncodeMelody(context.Background(), EncodeMelodyRequest{
		Name:       "phrase",
		Velocities: velocitiesFromPitches([]int{60}),
		Velocity:   200,
	})
	if err == nil {
		t.Fatal("expected error for out-of-range velocity")
	}
}
