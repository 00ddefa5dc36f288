package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// SchemaDocument is the formSchema/uiSchema pair produced for one bucket
type SchemaDocument struct {
	FormSchema FormSchema `json:"formSchema"`
	UISchema   UISchema   `json:"uiSchema"`
}

// FormSchema is the JSON Schema subset emitted for a bucket
type FormSchema struct {
	Title      string     `json:"title"`
	Type       string     `json:"type"`
	Properties Properties `json:"properties"`
	Required   []string   `json:"required"`
}

// Property is a single JSON Schema property
type Property struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Enum    []any  `json:"enum,omitempty"`
	Default any    `json:"default,omitempty"`
}

// UIDirective tells the form renderer which widget to use for a field
type UIDirective struct {
	Widget  string     `json:"ui:widget"`
	Options *UIOptions `json:"ui:options,omitempty"`
}

// UIOptions carries widget-specific settings
type UIOptions struct {
	Rows        int          `json:"rows,omitempty"`
	EnumOptions []EnumOption `json:"enumOptions,omitempty"`
}

// EnumOption is one labelled choice of a select widget
type EnumOption struct {
	Value any    `json:"value"`
	Label string `json:"label"`
}

// Widget names understood by the form renderer
const (
	WidgetTextarea = "textarea"
	WidgetSelect   = "select"
)

// Properties maps field keys to property schemas in insertion order
type Properties = OrderedMap[Property]

// UISchema maps field keys to widget directives in insertion order
type UISchema = OrderedMap[UIDirective]

// OrderedMap is a string-keyed map that serializes as a JSON object in insertion order.
// The zero value is ready to use.
type OrderedMap[V any] struct {
	keys   []string
	values map[string]V
}

// Set stores v under key, keeping the key's original position when it already exists
func (m *OrderedMap[V]) Set(key string, v V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = v
}

// Get returns the value stored under key
func (m OrderedMap[V]) Get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order
func (m OrderedMap[V]) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Len returns the number of entries
func (m OrderedMap[V]) Len() int {
	return len(m.keys)
}

func (m OrderedMap[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(m.values[key])
		if err != nil {
			return nil, fmt.Errorf("marshal %q: %w", key, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *OrderedMap[V]) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}

	m.keys = nil
	m.values = make(map[string]V)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var v V
		if err := dec.Decode(&v); err != nil {
			return fmt.Errorf("decode %q: %w", key, err)
		}
		m.Set(key, v)
	}
	_, err = dec.Token()
	return err
}
