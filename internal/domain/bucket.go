package domain

import (
	"fmt"
	"strings"
)

// BucketKey identifies one accumulated schema
type BucketKey struct {
	Type     SpecificationType `json:"specificationType"`
	Category string            `json:"categoryUniqueName"`
}

func (k BucketKey) String() string {
	return fmt.Sprintf("%s/%s", k.Type, k.Category)
}

var pathSeparators = strings.NewReplacer("/", "-", "\\", "-", "\x00", "")

// PathComponents returns the type and category as single path segments, shared by every
// store so a bucket has the same name wherever it is persisted.
func (k BucketKey) PathComponents() (string, string) {
	return safeSegment(string(k.Type)), safeSegment(k.Category)
}

func safeSegment(name string) string {
	name = pathSeparators.Replace(name)
	if name == "." || name == ".." || name == "" {
		return "_"
	}
	return name
}

// Bucket owns the ordered, key-unique field descriptors of one (type, category) pair
type Bucket struct {
	Key    BucketKey
	fields []FieldDescriptor
	index  map[string]int
}

// NewBucket creates an empty bucket
func NewBucket(key BucketKey) *Bucket {
	return &Bucket{Key: key, index: make(map[string]int)}
}

// Put appends the descriptor, or replaces an earlier descriptor with the same key in place.
// It reports whether an existing field was replaced.
func (b *Bucket) Put(field FieldDescriptor) bool {
	if i, ok := b.index[field.Key]; ok {
		b.fields[i] = field
		return true
	}
	b.index[field.Key] = len(b.fields)
	b.fields = append(b.fields, field)
	return false
}

// Fields returns the descriptors in first-encounter order
func (b *Bucket) Fields() []FieldDescriptor {
	return append([]FieldDescriptor(nil), b.fields...)
}

// Len returns the number of distinct fields
func (b *Bucket) Len() int {
	return len(b.fields)
}
