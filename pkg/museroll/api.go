// Package museroll is the public entry point: it encodes pianorolls into
// run-length compressed interval sequences, persists them, decodes them back
// and reports on compression.
package museroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"museroll/internal/embedding"
	"museroll/internal/interval"
	"museroll/internal/model"
	"museroll/internal/pianoroll"
	"museroll/internal/stats"
	"museroll/internal/storage"
)

const (
	defaultReportsDir = "reports"
	defaultDBPath     = "museroll.db"
)

type Options struct {
	StoreKind  string
	DBPath     string
	ReportsDir string
}

type Client struct {
	store      storage.Store
	reportsDir string
}

type EncodeMelodyRequest struct {
	Name       string
	Velocities [][]uint8
	Velocity   int
}

type EncodeHarmonyRequest struct {
	Name          string
	Velocities    [][]uint8
	RefVelocities [][]uint8
	Velocity      int
}

type EncodeBarsRequest struct {
	Name         string
	Velocities   [][]uint8
	PixelsPerBar int
	Velocity     int
}

type SequenceSummary struct {
	ID             string
	Name           string
	Kind           string
	Timesteps      int
	RunCount       int
	Origin         int
	Velocity       int
	LeadingSilence int
	PixelsPerBar   int
	CreatedAtUTC   string
}

type DecodeRequest struct {
	ID string
	// RefVelocities supplies the reference voice; required for harmonic
	// sequences, ignored otherwise.
	RefVelocities [][]uint8
}

type DecodeResult struct {
	ID         string
	Name       string
	Kind       string
	Timesteps  int
	Velocities [][]uint8
}

type SequencesRequest struct {
	Limit int
}

type RunItem struct {
	Name      string
	Semitones int
	Count     int
}

type InspectRequest struct {
	ID string
	// WriteReport also persists the compression summary as a report
	// artifact under the reports directory.
	WriteReport bool
}

type InspectSummary struct {
	Sequence    SequenceSummary
	Runs        []RunItem
	Compression stats.CompressionSummary
	ReportDir   string
}

func New(opts Options) (*Client, error) {
	storeKind := opts.StoreKind
	if storeKind == "" {
		storeKind = storage.DefaultStoreKind()
	}
	dbPath := opts.DBPath
	if dbPath == "" {
		dbPath = defaultDBPath
	}
	reportsDir := opts.ReportsDir
	if reportsDir == "" {
		reportsDir = defaultReportsDir
	}

	store, err := storage.NewStore(storeKind, dbPath)
	if err != nil {
		return nil, err
	}

	return &Client{
		store:      store,
		reportsDir: reportsDir,
	}, nil
}

func (c *Client) Close() error {
	return storage.CloseIfSupported(c.store)
}

func (c *Client) Init(ctx context.Context) error {
	return c.store.Init(ctx)
}

func (c *Client) EncodeMelody(ctx context.Context, req EncodeMelodyRequest) (SequenceSummary, error) {
	roll, err := pianoroll.FromRows(req.Velocities)
	if err != nil {
		return SequenceSummary{}, err
	}
	velocity, err := requestVelocity(req.Velocity)
	if err != nil {
		return SequenceSummary{}, err
	}

	intervals, err := embedding.MelodicIntervals(roll)
	if err != nil {
		return SequenceSummary{}, err
	}
	origin, leadingSilence := firstSoundingNote(roll)

	record := newRecord(req.Name, model.KindMelodic, intervals)
	record.Origin = origin
	record.Velocity = velocity
	record.LeadingSilence = leadingSilence
	return c.save(ctx, record)
}

func (c *Client) EncodeHarmony(ctx context.Context, req EncodeHarmonyRequest) (SequenceSummary, error) {
	roll, err := pianoroll.FromRows(req.Velocities)
	if err != nil {
		return SequenceSummary{}, err
	}
	ref, err := pianoroll.FromRows(req.RefVelocities)
	if err != nil {
		return SequenceSummary{}, fmt.Errorf("reference pianoroll: %w", err)
	}
	velocity, err := requestVelocity(req.Velocity)
	if err != nil {
		return SequenceSummary{}, err
	}

	intervals, err := embedding.HarmonicIntervals(roll, ref)
	if err != nil {
		return SequenceSummary{}, err
	}

	record := newRecord(req.Name, model.KindHarmonic, intervals)
	record.Velocity = velocity
	return c.save(ctx, record)
}

func (c *Client) EncodeBars(ctx context.Context, req EncodeBarsRequest) (SequenceSummary, error) {
	roll, err := pianoroll.FromRows(req.Velocities)
	if err != nil {
		return SequenceSummary{}, err
	}
	velocity, err := requestVelocity(req.Velocity)
	if err != nil {
		return SequenceSummary{}, err
	}
	pixelsPerBar := req.PixelsPerBar
	if pixelsPerBar == 0 {
		pixelsPerBar = embedding.DefaultPixelsPerBar
	}

	intervals, err := embedding.BarwiseIntervals(roll, pixelsPerBar)
	if err != nil {
		return SequenceSummary{}, err
	}
	origin, leadingSilence := firstSoundingNote(roll)

	record := newRecord(req.Name, model.KindBarwise, intervals)
	record.Origin = origin
	record.Velocity = velocity
	record.LeadingSilence = leadingSilence
	record.PixelsPerBar = pixelsPerBar
	return c.save(ctx, record)
}

func (c *Client) Decode(ctx context.Context, req DecodeRequest) (DecodeResult, error) {
	record, ok, err := c.store.GetSequence(ctx, req.ID)
	if err != nil {
		return DecodeResult{}, err
	}
	if !ok {
		return DecodeResult{}, fmt.Errorf("sequence %s not found", req.ID)
	}

	intervals, err := intervalsFromRecord(record)
	if err != nil {
		return DecodeResult{}, err
	}

	var roll pianoroll.Roll
	switch record.Kind {
	case model.KindMelodic:
		if record.Origin == 0 {
			// Nothing ever sounded; the whole roll is silent.
			roll = pianoroll.New(record.Timesteps)
			break
		}
		roll, err = embedding.PianorollFromMelodic(intervals, record.Origin, record.Velocity, record.LeadingSilence, nil)
	case model.KindHarmonic:
		if req.RefVelocities == nil {
			return DecodeResult{}, errors.New("harmonic sequences need a reference pianoroll to decode")
		}
		var ref pianoroll.Roll
		ref, err = pianoroll.FromRows(req.RefVelocities)
		if err != nil {
			return DecodeResult{}, fmt.Errorf("reference pianoroll: %w", err)
		}
		roll, err = embedding.PianorollFromHarmonic(intervals, ref, record.Velocity, nil)
	case model.KindBarwise:
		if record.Origin == 0 {
			roll = pianoroll.New(record.Timesteps)
			break
		}
		roll, err = embedding.PianorollFromBarwise(intervals, record.Origin, record.Velocity, record.LeadingSilence, record.PixelsPerBar, nil)
	default:
		return DecodeResult{}, fmt.Errorf("unknown sequence kind: %s", record.Kind)
	}
	if err != nil {
		return DecodeResult{}, err
	}

	return DecodeResult{
		ID:         record.ID,
		Name:       record.Name,
		Kind:       string(record.Kind),
		Timesteps:  roll.Timesteps(),
		Velocities: roll,
	}, nil
}

func (c *Client) Sequences(ctx context.Context, req SequencesRequest) ([]SequenceSummary, error) {
	records, err := c.store.ListSequences(ctx)
	if err != nil {
		return nil, err
	}

	if req.Limit > 0 && len(records) > req.Limit {
		records = records[:req.Limit]
	}
	summaries := make([]SequenceSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, summarize(record))
	}
	return summaries, nil
}

func (c *Client) Delete(ctx context.Context, id string) error {
	return c.store.DeleteSequence(ctx, id)
}

func (c *Client) Inspect(ctx context.Context, req InspectRequest) (InspectSummary, error) {
	record, ok, err := c.store.GetSequence(ctx, req.ID)
	if err != nil {
		return InspectSummary{}, err
	}
	if !ok {
		return InspectSummary{}, fmt.Errorf("sequence %s not found", req.ID)
	}

	runs := make([]RunItem, 0, len(record.Runs))
	for i, run := range record.Runs {
		iv, err := intervalFromRun(run)
		if err != nil {
			return InspectSummary{}, fmt.Errorf("run %d: %w", i, err)
		}
		runs = append(runs, RunItem{
			Name:      iv.Name(),
			Semitones: iv.Semitones(),
			Count:     run.Count,
		})
	}

	summary := InspectSummary{
		Sequence:    summarize(record),
		Runs:        runs,
		Compression: stats.Summarize(record),
	}
	if !req.WriteReport {
		return summary, nil
	}

	summary.Compression.ReportID = uuid.NewString()
	summary.Compression.CreatedAtUTC = time.Now().UTC().Format(time.RFC3339)
	reportDir, err := stats.WriteReport(c.reportsDir, summary.Compression)
	if err != nil {
		return InspectSummary{}, err
	}
	if err := stats.AppendReportIndex(c.reportsDir, stats.ReportIndexEntry{
		ReportID:         summary.Compression.ReportID,
		SequenceID:       record.ID,
		Kind:             string(record.Kind),
		Timesteps:        record.Timesteps,
		RunCount:         len(record.Runs),
		CompressionRatio: summary.Compression.CompressionRatio,
		CreatedAtUTC:     summary.Compression.CreatedAtUTC,
	}); err != nil {
		return InspectSummary{}, err
	}
	summary.ReportDir = reportDir
	return summary, nil
}

// Reports lists stored compression reports, newest first.
func (c *Client) Reports(limit int) ([]stats.ReportIndexEntry, error) {
	entries, err := stats.ListReportIndex(c.reportsDir)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (c *Client) save(ctx context.Context, record model.SequenceRecord) (SequenceSummary, error) {
	if err := c.store.SaveSequence(ctx, record); err != nil {
		return SequenceSummary{}, err
	}
	return summarize(record), nil
}

func newRecord(name string, kind model.SequenceKind, intervals []interval.Interval) model.SequenceRecord {
	runs := embedding.EncodeRLE(intervals)
	records := make([]model.RunRecord, 0, len(runs))
	for _, run := range runs {
		records = append(records, model.RunRecord{
			Order:      run.Interval.Order,
			Quality:    run.Interval.Quality,
			Descending: run.Interval.Descending,
			Octave:     run.Interval.OctaveOffset,
			Count:      run.Count,
		})
	}

	return model.SequenceRecord{
		VersionedRecord: storage.Versioned(),
		ID:              uuid.NewString(),
		Name:            name,
		Kind:            kind,
		Timesteps:       len(intervals),
		Runs:            records,
		CreatedAtUTC:    time.Now().UTC().Format(time.RFC3339),
	}
}

func intervalsFromRecord(record model.SequenceRecord) ([]interval.Interval, error) {
	runs := make([]embedding.Run, 0, len(record.Runs))
	for i, run := range record.Runs {
		iv, err := intervalFromRun(run)
		if err != nil {
			return nil, fmt.Errorf("run %d: %w", i, err)
		}
		runs = append(runs, embedding.Run{Interval: iv, Count: run.Count})
	}
	return embedding.DecodeRLE(runs)
}

func intervalFromRun(run model.RunRecord) (interval.Interval, error) {
	descending := int8(0)
	if run.Descending {
		descending = 1
	}
	return interval.FromSpecs(interval.Specs{run.Order, run.Quality, descending, run.Octave})
}

func summarize(record model.SequenceRecord) SequenceSummary {
	return SequenceSummary{
		ID:             record.ID,
		Name:           record.Name,
		Kind:           string(record.Kind),
		Timesteps:      record.Timesteps,
		RunCount:       len(record.Runs),
		Origin:         record.Origin,
		Velocity:       record.Velocity,
		LeadingSilence: record.LeadingSilence,
		PixelsPerBar:   record.PixelsPerBar,
		CreatedAtUTC:   record.CreatedAtUTC,
	}
}

// firstSoundingNote returns the pitch and timestep of the first active note,
// or (0, 0) when the roll never sounds.
func firstSoundingNote(roll pianoroll.Roll) (origin, leadingSilence int) {
	for t := 0; t < roll.Timesteps(); t++ {
		if pitch := roll.HighestPitch(t); pitch != 0 {
			return pitch, t
		}
	}
	return 0, 0
}

func requestVelocity(velocity int) (int, error) {
	if velocity == 0 {
		return embedding.DefaultVelocity, nil
	}
	if err := pianoroll.CheckVelocity(velocity); err != nil {
		return 0, err
	}
	return velocity, nil
}
