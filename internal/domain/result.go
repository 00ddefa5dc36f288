package domain

// WriteOutcome reports what happened when a bucket's document was persisted
type WriteOutcome string

const (
	OutcomeWritten WriteOutcome = "written"
	OutcomeSkipped WriteOutcome = "skipped" // persisted bytes already identical
	OutcomeFailed  WriteOutcome = "failed"
)

// Skip reasons counted during ingestion
const (
	SkipMissingCategory = "missing_category"
	SkipMissingType     = "missing_type"
	SkipMissingField    = "missing_field"
	SkipMissingLabel    = "missing_label"
)

// IngestStats summarises one aggregation pass
type IngestStats struct {
	RowsSeen     int            `json:"rowsSeen"`
	RowsSkipped  int            `json:"rowsSkipped"`
	SkipReasons  map[string]int `json:"skipReasons,omitempty"`
	FieldsAdded  int            `json:"fieldsAdded"`
	FieldsMerged int            `json:"fieldsMerged"`
}

// BucketResult records the persistence outcome of one bucket
type BucketResult struct {
	Key     BucketKey    `json:"bucket"`
	Path    string       `json:"path"`
	Outcome WriteOutcome `json:"outcome"`
	Error   string       `json:"error,omitempty"`
}

// ProcessResult is everything one processing run produced.
// Schemas holds documents that were written or already up to date; failed buckets
// appear only in Buckets.
type ProcessResult struct {
	Schemas map[SpecificationType]map[string]SchemaDocument `json:"schemas"`
	Buckets []BucketResult                                  `json:"buckets"`
	Stats   IngestStats                                     `json:"stats"`
}

// Failed returns the buckets whose write failed
func (r *ProcessResult) Failed() []BucketResult {
	var failed []BucketResult
	for _, b := range r.Buckets {
		if b.Outcome == OutcomeFailed {
			failed = append(failed, b)
		}
	}
	return failed
}

// Count returns how many buckets ended with the given outcome
func (r *ProcessResult) Count(outcome WriteOutcome) int {
	n := 0
	for _, b := range r.Buckets {
		if b.Outcome == outcome {
			n++
		}
	}
	return n
}
