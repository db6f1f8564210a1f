package storage

import (
	"encoding/json"
	"errors"

	"museroll/internal/model"
)

const (
	CurrentSchemaVersion = 1
	CurrentCodecVersion  = 1
)

var ErrVersionMismatch = errors.New("record version mismatch")

// Versioned stamps a record with the current schema and codec versions.
func Versioned() model.VersionedRecord {
	return model.VersionedRecord{
		SchemaVersion: CurrentSchemaVersion,
		CodecVersion:  CurrentCodecVersion,
	}
}

func EncodeSequence(s model.SequenceRecord) ([]byte, error) {
	return json.Marshal(s)
}

func DecodeSequence(data []byte) (model.SequenceRecord, error) {
	var sequence model.SequenceRecord
	if err := json.Unmarshal(data, &sequence); err != nil {
		return model.SequenceRecord{}, err
	}
	if err := checkVersion(sequence.VersionedRecord); err != nil {
		return model.SequenceRecord{}, err
	}
	return sequence, nil
}

func checkVersion(v model.VersionedRecord) error {
	if v.SchemaVersion != CurrentSchemaVersion || v.CodecVersion != CurrentCodecVersion {
		return ErrVersionMismatch
	}
	return nil
}
