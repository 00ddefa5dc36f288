package domain

import (
	"context"
	"time"
)

// Fingerprint identifies persisted content without holding it in memory
type Fingerprint struct {
	Hash    uint64
	Size    int64
	ModTime time.Time
}

// FingerprintIndex remembers the fingerprint of each persisted schema, keyed by location
type FingerprintIndex interface {
	Get(ctx context.Context, location string) (Fingerprint, error)
	Set(ctx context.Context, location string, fp Fingerprint, ttl time.Duration) error
	Delete(ctx context.Context, location string) error
}

// SchemaStore persists serialized schema documents, one per bucket.
// Write must leave existing content untouched and return OutcomeSkipped when data is
// byte-identical to what is already stored.
type SchemaStore interface {
	Write(ctx context.Context, key BucketKey, data []byte) (WriteOutcome, error)
	Read(ctx context.Context, key BucketKey) ([]byte, error)
	Location(key BucketKey) string
}

// RowSource decodes an uploaded spreadsheet into ordered row records
type RowSource interface {
	ReadFile(ctx context.Context, path string) ([]Row, error)
}
