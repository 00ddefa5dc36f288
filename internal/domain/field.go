package domain

import "fmt"

// SpecificationType separates descriptive specifications from numeric ratings
type SpecificationType string

const (
	SpecTypeSpecifications SpecificationType = "specifications"
	SpecTypeRatings        SpecificationType = "ratings"
)

// ParseSpecificationType validates a raw specification type value
func ParseSpecificationType(raw string) (SpecificationType, error) {
	switch t := SpecificationType(raw); t {
	case SpecTypeSpecifications, SpecTypeRatings:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSpecificationType, raw)
	}
}

// JSON Schema primitive types emitted for properties
const (
	TypeString = "string"
	TypeNumber = "number"
	TypeArray  = "array"
)

// FieldKind is the closed set of field shapes a descriptor can take.
// Implementations: PlainText, Enum, YesNo, Rating, Textarea.
type FieldKind interface {
	// SchemaType is the JSON Schema type rendered for the field.
	SchemaType() string
	isFieldKind()
}

// PlainText is an unadorned input of the given JSON type with no widget override.
type PlainText struct {
	Type string
}

// Enum is a select over an explicit list of options. The first option is the default.
type Enum struct {
	Values []string
}

// YesNo is the boolean-choice shortcut rendered as a Yes/No select defaulting to No.
type YesNo struct{}

// Rating is a half-point score from the Rating Enum.
type Rating struct{}

// Textarea is free text rendered as a multi-line input.
type Textarea struct {
	Rows int
}

func (k PlainText) SchemaType() string {
	if k.Type == "" {
		return TypeString
	}
	return k.Type
}
func (Enum) SchemaType() string     { return TypeString }
func (YesNo) SchemaType() string    { return TypeString }
func (Rating) SchemaType() string   { return TypeNumber }
func (Textarea) SchemaType() string { return TypeString }

func (PlainText) isFieldKind() {}
func (Enum) isFieldKind()      {}
func (YesNo) isFieldKind()     {}
func (Rating) isFieldKind()    {}
func (Textarea) isFieldKind()  {}

// FieldDescriptor is the normalized form of one form field before schema rendering
type FieldDescriptor struct {
	Key      string            `json:"fieldKey"`
	Label    string            `json:"fieldLabel"`
	Type     SpecificationType `json:"specificationType"`
	Category string            `json:"categoryUniqueName"`
	Required bool              `json:"required"`
	Kind     FieldKind         `json:"-"`
}

// FieldType returns the JSON Schema type of the descriptor
func (d FieldDescriptor) FieldType() string {
	if d.Kind == nil {
		return TypeString
	}
	return d.Kind.SchemaType()
}

// ratingEnum is the 0..10 half-point scale shared by every ratings property
var ratingEnum = func() []float64 {
	values := make([]float64, 0, 21)
	for i := 0; i <= 20; i++ {
		values = append(values, float64(i)/2)
	}
	return values
}()

// RatingEnum returns a copy of the 21-value rating scale
func RatingEnum() []float64 {
	return append([]float64(nil), ratingEnum...)
}
