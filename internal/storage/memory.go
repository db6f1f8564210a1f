package storage

import (
	"context"
	"sort"
	"sync"

	"museroll/internal/model"
)

type MemoryStore struct {
	mu        sync.RWMutex
	sequences map[string]model.SequenceRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequences = make(map[string]model.SequenceRecord)
	return nil
}

func (s *MemoryStore) SaveSequence(_ context.Context, sequence model.SequenceRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequences[sequence.ID] = copySequence(sequence)
	return nil
}

func (s *MemoryStore) GetSequence(_ context.Context, id string) (model.SequenceRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sequence, ok := s.sequences[id]
	if !ok {
		return model.SequenceRecord{}, false, nil
	}
	return copySequence(sequence), true, nil
}

func (s *MemoryStore) ListSequences(_ context.Context) ([]model.SequenceRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sequences := make([]model.SequenceRecord, 0, len(s.sequences))
	for _, sequence := range s.sequences {
		sequences = append(sequences, copySequence(sequence))
	}
	sort.Slice(sequences, func(i, j int) bool {
		if sequences[i].CreatedAtUTC != sequences[j].CreatedAtUTC {
			return sequences[i].CreatedAtUTC < sequences[j].CreatedAtUTC
		}
		return sequences[i].ID < sequences[j].ID
	})
	return sequences, nil
}

func (s *MemoryStore) DeleteSequence(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sequences, id)
	return nil
}

func copySequence(sequence model.SequenceRecord) model.SequenceRecord {
	copied := sequence
	copied.Runs = append([]model.RunRecord(nil), sequence.Runs...)
	return copied
}
