package usecase

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specforms/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTitle(t *testing.T) {
	testCases := []struct {
		category string
		want     string
	}{
		{"laptops", "Laptops"},
		{"smart-phones", "Smart Phones"},
		{"4k-tvs", "4k Tvs"},
		{"already Title", "Already Title"},
		{"--gaming--chairs", "Gaming Chairs"},
		{"", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.category, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatTitle(tc.category))
		})
	}
}

func TestBuildSchema_EmptyBucket(t *testing.T) {
	doc := BuildSchema(domain.NewBucket(laptopSpecs))

	assert.Equal(t, "Laptops", doc.FormSchema.Title)
	assert.Equal(t, "object", doc.FormSchema.Type)
	assert.Zero(t, doc.FormSchema.Properties.Len())
	assert.NotNil(t, doc.FormSchema.Required)

	data, err := MarshalDocument(doc)
	require.NoError(t, err)
	assert.JSONEq(t, `{"formSchema":{"title":"Laptops","type":"object","properties":{},"required":[]},"uiSchema":{}}`, string(data))
}

func TestBuildSchema_NilBucket(t *testing.T) {
	doc := BuildSchema(nil)
	assert.Equal(t, "object", doc.FormSchema.Type)
}

func TestBuildSchema_ScenarioA(t *testing.T) {
	agg := NewAggregator(nil)
	agg.Ingest(scenarioARow())

	specs, _ := agg.Bucket(laptopSpecs)
	data, err := MarshalDocument(BuildSchema(specs))
	require.NoError(t, err)

	want := `{
  "formSchema": {
    "title": "Laptops",
    "type": "object",
    "properties": {
      "battery-life": {
        "type": "string",
        "title": "Battery Life",
        "enum": [
          "Yes",
          "No"
        ],
        "default": "No"
      },
      "weight": {
        "type": "string",
        "title": "Weight"
      }
    },
    "required": []
  },
  "uiSchema": {
    "battery-life": {
      "ui:widget": "select",
      "ui:options": {
        "enumOptions": [
          {
            "value": "Yes",
            "label": "Yes"
          },
          {
            "value": "No",
            "label": "No"
          }
        ]
      }
    },
    "weight": {
      "ui:widget": "textarea",
      "ui:options": {
        "rows": 2
      }
    }
  }
}`
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("document mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildSchema_RatingsInvariant(t *testing.T) {
	bucket := domain.NewBucket(laptopRatings)
	// Descriptors that somehow arrive unclassified as ratings are still forced.
	bucket.Put(domain.FieldDescriptor{Key: "performance", Label: "Performance", Type: domain.SpecTypeRatings, Kind: domain.Textarea{Rows: 5}})
	bucket.Put(domain.FieldDescriptor{Key: "value", Label: "Value", Type: domain.SpecTypeRatings, Kind: domain.Enum{Values: []string{"x"}}, Required: false})

	doc := BuildSchema(bucket)

	wantEnum := make([]any, 0, 21)
	for _, v := range domain.RatingEnum() {
		wantEnum = append(wantEnum, v)
	}
	require.Len(t, wantEnum, 21)

	for _, key := range []string{"performance", "value"} {
		prop, ok := doc.FormSchema.Properties.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, domain.TypeNumber, prop.Type)
		assert.Equal(t, wantEnum, prop.Enum)
		assert.Nil(t, prop.Default)

		ui, ok := doc.UISchema.Get(key)
		require.True(t, ok, key)
		assert.Equal(t, domain.UIDirective{Widget: domain.WidgetSelect}, ui)
	}
	assert.Equal(t, []string{"performance", "value"}, doc.FormSchema.Required)
}

func TestBuildSchema_RatingEnumSerialization(t *testing.T) {
	bucket := domain.NewBucket(laptopRatings)
	bucket.Put(domain.FieldDescriptor{Key: "performance", Label: "Performance", Type: domain.SpecTypeRatings, Kind: domain.Rating{}, Required: true})

	data, err := json.Marshal(BuildSchema(bucket))
	require.NoError(t, err)

	var decoded struct {
		FormSchema struct {
			Properties map[string]struct {
				Enum []float64 `json:"enum"`
			} `json:"properties"`
		} `json:"formSchema"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, []float64{0, 0.5, 1, 1.5, 2, 2.5, 3, 3.5, 4, 4.5, 5, 5.5, 6, 6.5, 7, 7.5, 8, 8.5, 9, 9.5, 10},
		decoded.FormSchema.Properties["performance"].Enum)
}

func TestBuildSchema_RequiredOrderFollowsBucket(t *testing.T) {
	bucket := domain.NewBucket(laptopSpecs)
	bucket.Put(domain.FieldDescriptor{Key: "zeta", Label: "Zeta", Required: true, Kind: domain.PlainText{}})
	bucket.Put(domain.FieldDescriptor{Key: "alpha", Label: "Alpha", Kind: domain.PlainText{}})
	bucket.Put(domain.FieldDescriptor{Key: "mid", Label: "Mid", Required: true, Kind: domain.PlainText{}})

	doc := BuildSchema(bucket)

	assert.Equal(t, []string{"zeta", "mid"}, doc.FormSchema.Required)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, doc.FormSchema.Properties.Keys())
	assert.Zero(t, doc.UISchema.Len(), "plain text fields carry no widget")
}

func TestRenderField(t *testing.T) {
	testCases := []struct {
		name     string
		field    domain.FieldDescriptor
		wantProp domain.Property
		wantUI   *domain.UIDirective
	}{
		{
			name:     "enum defaults to first value",
			field:    domain.FieldDescriptor{Key: "color", Label: "Color", Kind: domain.Enum{Values: []string{"Red", "Blue"}}},
			wantProp: domain.Property{Type: "string", Title: "Color", Enum: []any{"Red", "Blue"}, Default: "Red"},
			wantUI:   &domain.UIDirective{Widget: "select"},
		},
		{
			name:     "empty enum renders plain",
			field:    domain.FieldDescriptor{Key: "color", Label: "Color", Kind: domain.Enum{}},
			wantProp: domain.Property{Type: "string", Title: "Color"},
		},
		{
			name:     "textarea rows",
			field:    domain.FieldDescriptor{Key: "description", Label: "Description", Kind: domain.Textarea{Rows: 5}},
			wantProp: domain.Property{Type: "string", Title: "Description"},
			wantUI:   &domain.UIDirective{Widget: "textarea", Options: &domain.UIOptions{Rows: 5}},
		},
		{
			name:     "array plain text",
			field:    domain.FieldDescriptor{Key: "ports", Label: "Ports", Kind: domain.PlainText{Type: domain.TypeArray}},
			wantProp: domain.Property{Type: "array", Title: "Ports"},
		},
		{
			name:     "nil kind",
			field:    domain.FieldDescriptor{Key: "misc", Label: "Misc"},
			wantProp: domain.Property{Type: "string", Title: "Misc"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			prop, ui := renderField(tc.field)
			assert.Equal(t, tc.wantProp, prop)
			assert.Equal(t, tc.wantUI, ui)
		})
	}
}

func TestBuildSchema_ScenarioC(t *testing.T) {
	agg := NewAggregator(nil).IngestAll([]domain.Row{
		{"Product Category": "Laptops", "Specs fields": "Description", "Specs UI": "description = rows=5"},
		{"Product Category": "Phones", "Specs fields": "Description", "Specs UI": "description = rows=abc"},
	})

	laptops, _ := agg.Bucket(laptopSpecs)
	ui, ok := BuildSchema(laptops).UISchema.Get("description")
	require.True(t, ok)
	assert.Equal(t, domain.UIDirective{Widget: "textarea", Options: &domain.UIOptions{Rows: 5}}, ui)

	phones, _ := agg.Bucket(domain.BucketKey{Type: domain.SpecTypeSpecifications, Category: "phones"})
	ui, ok = BuildSchema(phones).UISchema.Get("description")
	require.True(t, ok)
	assert.Equal(t, 2, ui.Options.Rows)
}

func TestDocumentRoundTrip(t *testing.T) {
	agg := NewAggregator(nil)
	agg.Ingest(scenarioARow())
	specs, _ := agg.Bucket(laptopSpecs)
	doc := BuildSchema(specs)

	data, err := MarshalDocument(doc)
	require.NoError(t, err)

	var decoded domain.SchemaDocument
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, doc.FormSchema.Properties.Keys(), decoded.FormSchema.Properties.Keys())

	again, err := MarshalDocument(decoded)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}
