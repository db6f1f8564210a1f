package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// SequenceKind names the embedding an interval sequence was extracted with.
type SequenceKind string

const (
	KindMelodic  SequenceKind = "melodic"
	KindHarmonic SequenceKind = "harmonic"
	KindBarwise  SequenceKind = "barwise"
)

// Valid reports whether the kind is one of the known embeddings.
func (k SequenceKind) Valid() bool {
	switch k {
	case KindMelodic, KindHarmonic, KindBarwise:
		return true
	}
	return false
}

// RunRecord is one run-length encoded interval: the four interval features
// plus the number of consecutive timesteps it covers.
type RunRecord struct {
	Order      int8 `json:"order"`
	Quality    int8 `json:"quality"`
	Descending bool `json:"descending"`
	Octave     int8 `json:"octave"`
	Count      int  `json:"count"`
}

// SequenceRecord is a persisted interval sequence together with the
// parameters needed to reconstruct a pianoroll from it.
type SequenceRecord struct {
	VersionedRecord
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Kind           SequenceKind `json:"kind"`
	Origin         int          `json:"origin"`
	Velocity       int          `json:"velocity"`
	LeadingSilence int          `json:"leading_silence"`
	PixelsPerBar   int          `json:"pixels_per_bar,omitempty"`
	Timesteps      int          `json:"timesteps"`
	Runs           []RunRecord  `json:"runs"`
	CreatedAtUTC   string       `json:"created_at_utc"`
}
