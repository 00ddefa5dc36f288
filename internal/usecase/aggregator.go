package usecase

import (
	"log"
	"sort"
	"strings"

	"github.com/specforms/backend/internal/domain"
)

// SkipUnknownType is counted when a field row names a specification type we do not emit
const SkipUnknownType = "unknown_type"

// Aggregator accumulates classified fields into (type, category) buckets for one run.
// It is not safe for concurrent use; create one per run.
type Aggregator struct {
	classifier *Classifier
	buckets    map[domain.BucketKey]*domain.Bucket
	stats      domain.IngestStats
}

// NewAggregator creates an empty accumulator
func NewAggregator(classifier *Classifier) *Aggregator {
	if classifier == nil {
		classifier = NewClassifier(ClassifierConfig{})
	}
	return &Aggregator{
		classifier: classifier,
		buckets:    make(map[domain.BucketKey]*domain.Bucket),
		stats:      domain.IngestStats{SkipReasons: make(map[string]int)},
	}
}

// Ingest classifies every field a row contributes and merges it into its bucket.
// Incomplete rows are counted and skipped. It returns the number of fields accepted.
func (a *Aggregator) Ingest(row domain.Row) int {
	a.stats.RowsSeen++

	var (
		fields []domain.FieldDescriptor
		reason string
	)
	if isFieldRow(row) {
		fields, reason = a.fieldRow(row)
	} else {
		fields, reason = a.productRow(row)
	}

	if reason != "" {
		a.stats.RowsSkipped++
		a.stats.SkipReasons[reason]++
		log.Printf("[AGGREGATE] Skipping row %d: %s", a.stats.RowsSeen, reason)
		return 0
	}

	for _, field := range fields {
		a.put(field)
	}
	return len(fields)
}

// IngestAll ingests rows in order and returns the accumulator for chaining
func (a *Aggregator) IngestAll(rows []domain.Row) *Aggregator {
	for _, row := range rows {
		a.Ingest(row)
	}
	return a
}

// Bucket returns the bucket for key, if any row contributed to it
func (a *Aggregator) Bucket(key domain.BucketKey) (*domain.Bucket, bool) {
	b, ok := a.buckets[key]
	return b, ok
}

// Buckets returns all buckets ordered by specification type, then category
func (a *Aggregator) Buckets() []*domain.Bucket {
	buckets := make([]*domain.Bucket, 0, len(a.buckets))
	for _, b := range a.buckets {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Key.Type != buckets[j].Key.Type {
			return buckets[i].Key.Type < buckets[j].Key.Type
		}
		return buckets[i].Key.Category < buckets[j].Key.Category
	})
	return buckets
}

// Stats returns a copy of the ingestion counters
func (a *Aggregator) Stats() domain.IngestStats {
	stats := a.stats
	stats.SkipReasons = make(map[string]int, len(a.stats.SkipReasons))
	for k, v := range a.stats.SkipReasons {
		stats.SkipReasons[k] = v
	}
	return stats
}

func (a *Aggregator) put(field domain.FieldDescriptor) {
	key := domain.BucketKey{Type: field.Type, Category: field.Category}
	bucket, ok := a.buckets[key]
	if !ok {
		bucket = domain.NewBucket(key)
		a.buckets[key] = bucket
	}
	if bucket.Put(field) {
		a.stats.FieldsMerged++
	} else {
		a.stats.FieldsAdded++
	}
}

// productRow expands a product sheet row: every label listed under "Specs fields" becomes a
// specifications field and every label under "Ratings fields" a ratings field.
func (a *Aggregator) productRow(row domain.Row) ([]domain.FieldDescriptor, string) {
	category := NormalizeKey(row.Get(domain.ColProductCategory, domain.ColCategoryUniqueName))
	if category == "" {
		return nil, domain.SkipMissingCategory
	}

	specLabels := SplitLines(row.Get(domain.ColSpecsFields))
	ratingLabels := SplitLines(row.Get(domain.ColRatingsFields))
	if len(specLabels) == 0 && len(ratingLabels) == 0 {
		return nil, domain.SkipMissingField
	}

	ui := ParseHints(row.Get(domain.ColSpecsUI))
	values := ParseHints(row.Get(domain.ColSpecsValues))
	required := isYes(row.Get(domain.ColRequired))

	fields := make([]domain.FieldDescriptor, 0, len(specLabels)+len(ratingLabels))
	for _, label := range specLabels {
		field := a.classifier.Classify(FieldSpec{
			Label:    label,
			Origin:   domain.SpecTypeSpecifications,
			Category: category,
			Required: required,
		}, ui, values)
		if field.Key != "" {
			fields = append(fields, field)
		}
	}
	for _, label := range ratingLabels {
		field := a.classifier.Classify(FieldSpec{
			Label:    label,
			Origin:   domain.SpecTypeRatings,
			Category: category,
		}, nil, nil)
		if field.Key != "" {
			fields = append(fields, field)
		}
	}

	if len(fields) == 0 {
		return nil, domain.SkipMissingLabel
	}
	return fields, ""
}

// fieldRow reads a field sheet row describing exactly one field
func (a *Aggregator) fieldRow(row domain.Row) ([]domain.FieldDescriptor, string) {
	category := NormalizeKey(row.Get(domain.ColCategoryUniqueName, domain.ColProductCategory))
	rawType := row.Get(domain.ColSpecificationType)
	key := row.Get(domain.ColFieldKey)
	label := row.Get(domain.ColFieldLabel)

	switch {
	case category == "":
		return nil, domain.SkipMissingCategory
	case rawType == "":
		return nil, domain.SkipMissingType
	case key == "":
		return nil, domain.SkipMissingField
	case label == "":
		return nil, domain.SkipMissingLabel
	}

	specType, err := domain.ParseSpecificationType(strings.ToLower(rawType))
	if err != nil {
		return nil, SkipUnknownType
	}

	field := a.classifier.Classify(FieldSpec{
		Key:          key,
		Label:        label,
		Origin:       specType,
		Category:     category,
		FieldType:    row.Get(domain.ColFieldType),
		Widget:       row.Get(domain.ColWidget),
		WidgetOption: row.Get(domain.ColWidgetOption),
		EnumValues:   SplitEnum(row.Get(domain.ColEnum)),
		Required:     isYes(row.Get(domain.ColRequired)),
	}, nil, nil)
	if field.Key == "" {
		return nil, domain.SkipMissingField
	}
	return []domain.FieldDescriptor{field}, ""
}

// isFieldRow reports whether the row uses the one-field-per-row layout
func isFieldRow(row domain.Row) bool {
	return row.Has(domain.ColSpecificationType, domain.ColFieldKey, domain.ColFieldLabel)
}

func isYes(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "yes")
}
