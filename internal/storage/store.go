package storage

import (
	"context"

	"museroll/internal/model"
)

// Store defines persistence operations for encoded interval sequences.
type Store interface {
	Init(ctx context.Context) error
	SaveSequence(ctx context.Context, sequence model.SequenceRecord) error
	GetSequence(ctx context.Context, id string) (model.SequenceRecord, bool, error)
	ListSequences(ctx context.Context) ([]model.SequenceRecord, error)
	DeleteSequence(ctx context.Context, id string) error
}
