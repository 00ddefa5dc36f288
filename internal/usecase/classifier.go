package usecase

import (
	"html"
	"log"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/specforms/backend/internal/domain"
)

// DefaultTextareaRows is used when no usable row count is given
const DefaultTextareaRows = 2

var (
	rowsWordRegex  = regexp.MustCompile(`(?i)\brows\b|\b\d+\s*rows?\b`)
	rowsCountRegex = regexp.MustCompile(`(?i)(\d+)\s*rows?\b|\brows?\s*[=:]?\s*(\d+)`)
)

// yesNoDirectives are the value hints that turn a field into a Yes/No select
var yesNoDirectives = map[string]bool{
	"yes/no selection": true,
	"yes/no select":    true,
	"yes/no":           true,
	"yes / no":         true,
	"boolean":          true,
}

// plainWidgets request an ordinary single-line input
var plainWidgets = map[string]bool{
	"text":       true,
	"input":      true,
	"text input": true,
	"textbox":    true,
}

// FieldSpec is the raw description of one field as found in a sheet
type FieldSpec struct {
	Key          string // optional; derived from Label when empty
	Label        string
	Origin       domain.SpecificationType
	Category     string
	FieldType    string
	Widget       string
	WidgetOption string
	EnumValues   []string
	Required     bool
}

// ClassifierConfig holds configuration for the field classifier
type ClassifierConfig struct {
	DefaultTextareaRows int
	EnableDebugLogging  bool
}

// Classifier decides the kind, typing and widget of each field
type Classifier struct {
	defaultRows        int
	sanitizer          *bluemonday.Policy
	enableDebugLogging bool
}

// NewClassifier creates a classifier
func NewClassifier(config ClassifierConfig) *Classifier {
	rows := config.DefaultTextareaRows
	if rows <= 0 {
		rows = DefaultTextareaRows
	}
	return &Classifier{
		defaultRows:        rows,
		sanitizer:          bluemonday.StrictPolicy(),
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Classify turns a field spec plus the row's UI and value hints into a descriptor.
// Ratings always become required Rating fields; otherwise the first matching rule wins:
// yes/no shortcut, explicit enum, row-count directive, explicit plain input, textarea default.
func (c *Classifier) Classify(spec FieldSpec, ui, values domain.HintMap) domain.FieldDescriptor {
	label := c.cleanLabel(spec.Label)
	key := NormalizeKey(spec.Key)
	if key == "" {
		key = NormalizeKey(label)
	}

	desc := domain.FieldDescriptor{
		Key:      key,
		Label:    label,
		Type:     spec.Origin,
		Category: spec.Category,
		Required: spec.Required,
	}

	if spec.Origin == domain.SpecTypeRatings {
		desc.Kind = domain.Rating{}
		desc.Required = true
		c.debugf(desc)
		return desc
	}

	widget := strings.ToLower(strings.TrimSpace(spec.Widget))
	uiHint := ui[key]

	switch {
	case isYesNo(values[key]) || (widget == domain.WidgetSelect && isYesNo(spec.WidgetOption)):
		desc.Kind = domain.YesNo{}
	case len(spec.EnumValues) > 0:
		desc.Kind = domain.Enum{Values: append([]string(nil), spec.EnumValues...)}
	case rowsWordRegex.MatchString(uiHint):
		desc.Kind = domain.Textarea{Rows: c.parseRows(uiHint)}
	case widget == domain.WidgetTextarea:
		desc.Kind = domain.Textarea{Rows: c.parseRows(spec.WidgetOption)}
	case plainWidgets[strings.ToLower(uiHint)] || plainWidgets[widget]:
		desc.Kind = domain.PlainText{Type: explicitType(spec.FieldType)}
	case explicitType(spec.FieldType) != domain.TypeString:
		desc.Kind = domain.PlainText{Type: explicitType(spec.FieldType)}
	default:
		desc.Kind = domain.Textarea{Rows: c.defaultRows}
	}

	c.debugf(desc)
	return desc
}

// parseRows extracts the row count from a directive such as "5 rows" or "rows=5".
// Anything unparseable yields the default.
func (c *Classifier) parseRows(directive string) int {
	m := rowsCountRegex.FindStringSubmatch(directive)
	if m == nil {
		return c.defaultRows
	}
	raw := m[1]
	if raw == "" {
		raw = m[2]
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return c.defaultRows
	}
	return n
}

func (c *Classifier) cleanLabel(label string) string {
	cleaned := html.UnescapeString(c.sanitizer.Sanitize(label))
	return strings.TrimSpace(cleaned)
}

func (c *Classifier) debugf(desc domain.FieldDescriptor) {
	if !c.enableDebugLogging {
		return
	}
	log.Printf("[CLASSIFY] %s/%s %q -> %s %#v (required=%v)",
		desc.Type, desc.Category, desc.Key, desc.FieldType(), desc.Kind, desc.Required)
}

func isYesNo(directive string) bool {
	return yesNoDirectives[strings.ToLower(strings.TrimSpace(directive))]
}

// explicitType maps a fieldType cell to a JSON type, defaulting to string
func explicitType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case domain.TypeNumber, "integer", "float", "decimal":
		return domain.TypeNumber
	case domain.TypeArray, "list":
		return domain.TypeArray
	default:
		return domain.TypeString
	}
}
