package storage

import (
	"context"
	"testing"

	"museroll/internal/model"
)

func testSequence(id, name string, createdAt string) model.SequenceRecord {
	return model.SequenceRecord{
		VersionedRecord: Versioned(),
		ID:              id,
		Name:            name,
		Kind:            model.KindMelodic,
		Origin:          60,
		Velocity:        100,
		Timesteps:       8,
		Runs: []model.RunRecord{
			{Count: 1},
			{Order: 1, Quality: 2, Count: 7},
		},
		CreatedAtUTC: createdAt,
	}
}

func TestMemoryStoreSequenceRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := testSequence("seq-1", "prelude", "2026-08-26T10:00:00Z")
	if err := store.SaveSequence(ctx, input); err != nil {
		t.Fatalf("save sequence: %v", err)
	}

	output, ok, err := store.GetSequence(ctx, "seq-1")
	if err != nil {
		t.Fatalf("get sequence: %v", err)
	}
	if !ok {
		t.Fatal("expected persisted sequence")
	}
	if output.Name != "prelude" || len(output.Runs) != 2 || output.Runs[1].Count != 7 {
		t.Fatalf("unexpected sequence: %+v", output)
	}
}

func TestMemoryStoreGetMissing(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	_, ok, err := store.GetSequence(ctx, "absent")
	if err != nil {
		t.Fatalf("get sequence: %v", err)
	}
	if ok {
		t.Fatal("expected missing sequence")
	}
}

func TestMemoryStoreListOrdersByCreation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	if err := store.SaveSequence(ctx, testSequence("seq-b", "later", "2026-08-26T11:00:00Z")); err != nil {
		t.Fatalf("save sequence: %v", err)
	}
	if err := store.SaveSequence(ctx, testSequence("seq-a", "earlier", "2026-08-26T10:00:00Z")); err != nil {
		t.Fatalf("save sequence: %v", err)
	}

	sequences, err := store.ListSequences(ctx)
	if err != nil {
		t.Fatalf("list sequences: %v", err)
	}
	if len(sequences) != 2 {
		t.Fatalf("got %d sequences, want 2", len(sequences))
	}
	if sequences[0].ID != "seq-a" || sequences[1].ID != "seq-b" {
		t.Fatalf("unexpected order: %s, %s", sequences[0].ID, sequences[1].ID)
	}
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	if err := store.SaveSequence(ctx, testSequence("seq-1", "prelude", "2026-08-26T10:00:00Z")); err != nil {
		t.Fatalf("save sequence: %v", err)
	}
	if err := store.DeleteSequence(ctx, "seq-1"); err != nil {
		t.Fatalf("delete sequence: %v", err)
	}

	_, ok, err := store.GetSequence(ctx, "seq-1")
	if err != nil {
		t.Fatalf("get sequence: %v", err)
	}
	if ok {
		t.Fatal("expected sequence to be deleted")
	}
}

func TestMemoryStoreCopiesRuns(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	input := testSequence("seq-1", "prelude", "2026-08-26T10:00:00Z")
	if err := store.SaveSequence(ctx, input); err != nil {
		t.Fatalf("save sequence: %v", err)
	}
	input.Runs[0].Count = 99

	output, _, err := store.GetSequence(ctx, "seq-1")
	if err != nil {
		t.Fatalf("get sequence: %v", err)
	}
	if output.Runs[0].Count != 1 {
		t.Fatalf("stored runs aliased caller slice: %+v", output.Runs)
	}
}
