package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"museroll/internal/interval"
	"museroll/internal/rollio"
	"museroll/internal/storage"
	museapi "museroll/pkg/museroll"
)

const reportsDir = "reports"

var log = logrus.New()

func main() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	log.SetLevel(logrus.WarnLevel)

	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("missing command")
	}

	switch args[0] {
	case "init":
		return runInit(ctx, args[1:])
	case "encode":
		return runEncode(ctx, args[1:])
	case "decode":
		return runDecode(ctx, args[1:])
	case "sequences":
		return runSequences(ctx, args[1:])
	case "inspect":
		return runInspect(ctx, args[1:])
	case "reports":
		return runReports(ctx, args[1:])
	case "delete":
		return runDelete(ctx, args[1:])
	case "name":
		return runName(ctx, args[1:])
	default:
		return usageError(fmt.Sprintf("unknown command: %s", args[0]))
	}
}

func runInit(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "museroll.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	client, err := museapi.New(museapi.Options{StoreKind: *storeKind, DBPath: *dbPath})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Init(ctx); err != nil {
		return err
	}

	fmt.Printf("initialized store=%s\n", *storeKind)
	return nil
}

func runEncode(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	kind := fs.String("kind", "melodic", "embedding kind: melodic|harmonic|barwise")
	name := fs.String("name", "", "sequence name")
	input := fs.String("input", "", "pianoroll JSON file to encode")
	ref := fs.String("ref", "", "reference pianoroll JSON file (harmonic only)")
	pixelsPerBar := fs.Int("pixels-per-bar", 0, "timesteps per bar (barwise only, 0 = default)")
	velocity := fs.Int("velocity", 0, "reconstruction velocity (0 = default)")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "museroll.db", "sqlite database path")
	jsonOut := fs.Bool("json", false, "emit the sequence summary as JSON")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setVerbose(*verbose)
	if *input == "" {
		return errors.New("an input pianoroll file is required")
	}
	if *name == "" {
		*name = *input
	}

	roll, err := rollio.Load(*input)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"input": *input, "timesteps": roll.Timesteps()}).Debug("loaded pianoroll")

	client, err := newClient(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	var summary museapi.SequenceSummary
	switch *kind {
	case "melodic":
		summary, err = client.EncodeMelody(ctx, museapi.EncodeMelodyRequest{
			Name:       *name,
			Velocities: roll,
			Velocity:   *velocity,
		})
	case "harmonic":
		if *ref == "" {
			return errors.New("harmonic encoding needs a --ref pianoroll file")
		}
		var refRoll [][]uint8
		refRoll, err = loadRows(*ref)
		if err != nil {
			return err
		}
		summary, err = client.EncodeHarmony(ctx, museapi.EncodeHarmonyRequest{
			Name:          *name,
			Velocities:    roll,
			RefVelocities: refRoll,
			Velocity:      *velocity,
		})
	case "barwise":
		summary, err = client.EncodeBars(ctx, museapi.EncodeBarsRequest{
			Name:         *name,
			Velocities:   roll,
			PixelsPerBar: *pixelsPerBar,
			Velocity:     *velocity,
		})
	default:
		return fmt.Errorf("unknown embedding kind: %s", *kind)
	}
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"id": summary.ID, "runs": summary.RunCount}).Debug("sequence stored")

	if *jsonOut {
		return printJSON(summary)
	}
	fmt.Printf("encoded %s sequence id=%s name=%q timesteps=%d runs=%d\n",
		summary.Kind, summary.ID, summary.Name, summary.Timesteps, summary.RunCount)
	return nil
}

func runDecode(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	id := fs.String("id", "", "sequence id")
	ref := fs.String("ref", "", "reference pianoroll JSON file (harmonic only)")
	out := fs.String("out", "", "output pianoroll JSON file")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "museroll.db", "sqlite database path")
	verbose := fs.Bool("verbose", false, "enable debug logging")
	if err := fs.Parse(args); err != nil {
		return err
	}
	setVerbose(*verbose)
	if *id == "" {
		return errors.New("a sequence id is required")
	}
	if *out == "" {
		return errors.New("an output file is required")
	}

	client, err := newClient(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	req := museapi.DecodeRequest{ID: *id}
	if *ref != "" {
		req.RefVelocities, err = loadRows(*ref)
		if err != nil {
			return err
		}
	}

	result, err := client.Decode(ctx, req)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"id": result.ID, "timesteps": result.Timesteps}).Debug("sequence decoded")

	if err := rollio.Save(*out, result.Velocities); err != nil {
		return err
	}
	fmt.Printf("decoded %s sequence %s to %s (%d timesteps)\n", result.Kind, result.ID, *out, result.Timesteps)
	return nil
}

func runSequences(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("sequences", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max sequences to list")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "museroll.db", "sqlite database path")
	jsonOut := fs.Bool("json", false, "emit sequences as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := newClient(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	sequences, err := client.Sequences(ctx, museapi.SequencesRequest{Limit: *limit})
	if err != nil {
		return err
	}
	if len(sequences) == 0 {
		fmt.Println("no sequences found")
		return nil
	}

	if *jsonOut {
		return printJSON(sequences)
	}
	for _, s := range sequences {
		fmt.Printf("%s  %-8s  timesteps=%-6d runs=%-5d created=%s  %q\n",
			s.ID, s.Kind, s.Timesteps, s.RunCount, s.CreatedAtUTC, s.Name)
	}
	return nil
}

func runInspect(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	id := fs.String("id", "", "sequence id")
	report := fs.Bool("report", false, "write a compression report artifact")
	reports := fs.String("reports-dir", reportsDir, "reports directory")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "museroll.db", "sqlite database path")
	jsonOut := fs.Bool("json", false, "emit the inspection as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("a sequence id is required")
	}

	client, err := museapi.New(museapi.Options{StoreKind: *storeKind, DBPath: *dbPath, ReportsDir: *reports})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()
	if err := client.Init(ctx); err != nil {
		return err
	}

	inspected, err := client.Inspect(ctx, museapi.InspectRequest{ID: *id, WriteReport: *report})
	if err != nil {
		return err
	}

	if *jsonOut {
		return printJSON(inspected)
	}
	s := inspected.Sequence
	fmt.Printf("sequence %s %q kind=%s timesteps=%d\n", s.ID, s.Name, s.Kind, s.Timesteps)
	fmt.Printf("compression: %s pianoroll -> %s encoded (ratio %.2f over interval rows)\n",
		inspected.Compression.PianorollSize, inspected.Compression.EncodedSize, inspected.Compression.CompressionRatio)
	for _, run := range inspected.Runs {
		fmt.Printf("  %4dx  %-22s (%+d semitones)\n", run.Count, run.Name, run.Semitones)
	}
	if inspected.ReportDir != "" {
		fmt.Printf("report written to %s\n", inspected.ReportDir)
	}
	return nil
}

func runReports(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("reports", flag.ContinueOnError)
	limit := fs.Int("limit", 20, "max reports to list")
	reports := fs.String("reports-dir", reportsDir, "reports directory")
	jsonOut := fs.Bool("json", false, "emit reports as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *limit <= 0 {
		return errors.New("limit must be > 0")
	}

	client, err := museapi.New(museapi.Options{StoreKind: "memory", ReportsDir: *reports})
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	entries, err := client.Reports(*limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no reports found")
		return nil
	}

	if *jsonOut {
		return printJSON(entries)
	}
	for _, e := range entries {
		fmt.Printf("%s  sequence=%s %-8s timesteps=%-6d runs=%-5d ratio=%.2f created=%s\n",
			e.ReportID, e.SequenceID, e.Kind, e.Timesteps, e.RunCount, e.CompressionRatio, e.CreatedAtUTC)
	}
	return nil
}

func runDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	id := fs.String("id", "", "sequence id")
	storeKind := fs.String("store", storage.DefaultStoreKind(), "store backend: memory|sqlite")
	dbPath := fs.String("db-path", "museroll.db", "sqlite database path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("a sequence id is required")
	}

	client, err := newClient(ctx, *storeKind, *dbPath)
	if err != nil {
		return err
	}
	defer func() {
		_ = client.Close()
	}()

	if err := client.Delete(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("deleted sequence %s\n", *id)
	return nil
}

func runName(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("name", flag.ContinueOnError)
	semitones := fs.Int("semitones", 0, "signed semitone distance to name")
	jsonOut := fs.Bool("json", false, "emit the interval as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}

	iv := interval.FromSemitones(*semitones)
	if *jsonOut {
		return printJSON(map[string]any{
			"name":      iv.Name(),
			"semitones": iv.Semitones(),
			"specs":     iv.Specs(),
		})
	}
	fmt.Println(iv.Name())
	return nil
}

func newClient(ctx context.Context, storeKind, dbPath string) (*museapi.Client, error) {
	client, err := museapi.New(museapi.Options{StoreKind: storeKind, DBPath: dbPath})
	if err != nil {
		return nil, err
	}
	if err := client.Init(ctx); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func loadRows(path string) ([][]uint8, error) {
	roll, err := rollio.Load(path)
	if err != nil {
		return nil, err
	}
	return roll, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func setVerbose(verbose bool) {
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
}

func usageError(msg string) error {
	return fmt.Errorf("%s\nusage: muserollctl <init|encode|decode|sequences|inspect|reports|delete|name> [flags]", msg)
}
