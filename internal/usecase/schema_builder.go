package usecase

import (
	"strings"

	"github.com/specforms/backend/internal/domain"
)

var yesNoValues = []string{"Yes", "No"}

// FormatTitle turns a category identifier into a display title: "smart-phones" -> "Smart Phones"
func FormatTitle(category string) string {
	words := strings.Fields(strings.ReplaceAll(category, "-", " "))
	for i, w := range words {
		if c := w[0]; c >= 'a' && c <= 'z' {
			words[i] = string(c-'a'+'A') + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// BuildSchema renders a bucket into its formSchema/uiSchema document.
// Ratings buckets are exhaustive: every property is a required Rating select.
func BuildSchema(bucket *domain.Bucket) domain.SchemaDocument {
	doc := domain.SchemaDocument{
		FormSchema: domain.FormSchema{
			Type:     "object",
			Required: []string{},
		},
	}
	if bucket == nil {
		return doc
	}

	ratings := bucket.Key.Type == domain.SpecTypeRatings
	doc.FormSchema.Title = FormatTitle(bucket.Key.Category)

	for _, field := range bucket.Fields() {
		if ratings {
			field.Kind = domain.Rating{}
			field.Required = true
		}

		prop, ui := renderField(field)
		doc.FormSchema.Properties.Set(field.Key, prop)
		if ui != nil {
			doc.UISchema.Set(field.Key, *ui)
		}
		if field.Required {
			doc.FormSchema.Required = append(doc.FormSchema.Required, field.Key)
		}
	}

	return doc
}

// renderField maps each field kind to its property schema and optional widget directive
func renderField(field domain.FieldDescriptor) (domain.Property, *domain.UIDirective) {
	prop := domain.Property{
		Type:  field.FieldType(),
		Title: field.Label,
	}

	switch kind := field.Kind.(type) {
	case domain.YesNo:
		prop.Enum = toAny(yesNoValues)
		prop.Default = "No"
		options := make([]domain.EnumOption, 0, len(yesNoValues))
		for _, v := range yesNoValues {
			options = append(options, domain.EnumOption{Value: v, Label: v})
		}
		return prop, &domain.UIDirective{
			Widget:  domain.WidgetSelect,
			Options: &domain.UIOptions{EnumOptions: options},
		}

	case domain.Enum:
		if len(kind.Values) == 0 {
			return prop, nil
		}
		prop.Enum = toAny(kind.Values)
		prop.Default = kind.Values[0]
		return prop, &domain.UIDirective{Widget: domain.WidgetSelect}

	case domain.Rating:
		prop.Enum = toAny(domain.RatingEnum())
		return prop, &domain.UIDirective{Widget: domain.WidgetSelect}

	case domain.Textarea:
		rows := kind.Rows
		if rows <= 0 {
			rows = DefaultTextareaRows
		}
		return prop, &domain.UIDirective{
			Widget:  domain.WidgetTextarea,
			Options: &domain.UIOptions{Rows: rows},
		}

	case domain.PlainText:
		return prop, nil

	default:
		return prop, nil
	}
}

func toAny[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
