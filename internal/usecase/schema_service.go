package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/specforms/backend/internal/domain"
)

// SchemaServiceConfig holds configuration for the schema service
type SchemaServiceConfig struct {
	DefaultTextareaRows int
	EnableDebugLogging  bool
}

// SchemaService turns spreadsheet rows into persisted form schemas
type SchemaService struct {
	store              domain.SchemaStore
	rowSource          domain.RowSource
	classifier         *Classifier
	enableDebugLogging bool
}

// BucketDocument pairs a built document with the bucket it came from
type BucketDocument struct {
	Key      domain.BucketKey
	Document domain.SchemaDocument
}

// NewSchemaService creates a new schema service with dependencies
func NewSchemaService(
	store domain.SchemaStore,
	rowSource domain.RowSource,
	config SchemaServiceConfig,
) *SchemaService {
	return &SchemaService{
		store:     store,
		rowSource: rowSource,
		classifier: NewClassifier(ClassifierConfig{
			DefaultTextareaRows: config.DefaultTextareaRows,
			EnableDebugLogging:  config.EnableDebugLogging,
		}),
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// MarshalDocument returns the canonical serialization used for persistence and comparison
func MarshalDocument(doc domain.SchemaDocument) ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}

// ProcessFile reads rows from an uploaded spreadsheet and processes them.
// Only an unreadable row source is an error; per-bucket failures are reported in the result.
func (s *SchemaService) ProcessFile(ctx context.Context, path string) (*domain.ProcessResult, error) {
	if path == "" {
		return nil, domain.ErrInvalidRequest
	}
	if s.rowSource == nil {
		return nil, fmt.Errorf("%w: no row source configured", domain.ErrRowSourceUnreadable)
	}

	rows, err := s.rowSource.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}
	log.Printf("[SCHEMA] Read %d rows from %s", len(rows), path)

	return s.Process(ctx, rows), nil
}

// Process runs one full pass: aggregate rows, build a document per bucket and persist each.
// A failed bucket never stops the remaining buckets.
func (s *SchemaService) Process(ctx context.Context, rows []domain.Row) *domain.ProcessResult {
	agg := NewAggregator(s.classifier).IngestAll(rows)

	result := &domain.ProcessResult{
		Schemas: make(map[domain.SpecificationType]map[string]domain.SchemaDocument),
		Buckets: []domain.BucketResult{},
		Stats:   agg.Stats(),
	}

	for _, bucket := range agg.Buckets() {
		doc := BuildSchema(bucket)
		br := s.persist(ctx, bucket.Key, doc)
		result.Buckets = append(result.Buckets, br)

		if br.Outcome == domain.OutcomeFailed {
			continue
		}
		if result.Schemas[bucket.Key.Type] == nil {
			result.Schemas[bucket.Key.Type] = make(map[string]domain.SchemaDocument)
		}
		result.Schemas[bucket.Key.Type][bucket.Key.Category] = doc
	}

	log.Printf("[SCHEMA] Processed %d rows (%d skipped) into %d buckets: %d written, %d unchanged, %d failed",
		result.Stats.RowsSeen, result.Stats.RowsSkipped, len(result.Buckets),
		result.Count(domain.OutcomeWritten), result.Count(domain.OutcomeSkipped), result.Count(domain.OutcomeFailed))

	return result
}

// Preview builds the documents for rows without persisting anything
func (s *SchemaService) Preview(rows []domain.Row) ([]BucketDocument, domain.IngestStats) {
	agg := NewAggregator(s.classifier).IngestAll(rows)

	docs := make([]BucketDocument, 0)
	for _, bucket := range agg.Buckets() {
		docs = append(docs, BucketDocument{Key: bucket.Key, Document: BuildSchema(bucket)})
	}
	return docs, agg.Stats()
}

// Lookup returns the persisted document bytes for a bucket
func (s *SchemaService) Lookup(ctx context.Context, key domain.BucketKey) ([]byte, error) {
	if key.Category == "" {
		return nil, domain.ErrInvalidRequest
	}
	if _, err := domain.ParseSpecificationType(string(key.Type)); err != nil {
		return nil, err
	}
	return s.store.Read(ctx, key)
}

func (s *SchemaService) persist(ctx context.Context, key domain.BucketKey, doc domain.SchemaDocument) domain.BucketResult {
	br := domain.BucketResult{Key: key, Path: s.store.Location(key)}

	data, err := MarshalDocument(doc)
	if err != nil {
		br.Outcome = domain.OutcomeFailed
		br.Error = fmt.Sprintf("encode document: %v", err)
		log.Printf("[SCHEMA] Failed to encode %s: %v", key, err)
		return br
	}

	outcome, err := s.store.Write(ctx, key, data)
	if err != nil {
		br.Outcome = domain.OutcomeFailed
		br.Error = err.Error()
		log.Printf("[SCHEMA] Failed to write %s: %v", br.Path, err)
		return br
	}

	br.Outcome = outcome
	switch outcome {
	case domain.OutcomeSkipped:
		log.Printf("[SCHEMA] Skipping %s (no changes detected)", br.Path)
	case domain.OutcomeWritten:
		log.Printf("[SCHEMA] Updated %s", br.Path)
	}
	if s.enableDebugLogging {
		log.Printf("[SCHEMA] %s: %d properties, %d required", key,
			doc.FormSchema.Properties.Len(), len(doc.FormSchema.Required))
	}
	return br
}
