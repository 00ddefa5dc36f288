package domain

import "strings"

// Column names recognised in uploaded sheets. Product sheets carry one product per row with
// newline-delimited field lists; field sheets carry one field definition per row.
const (
	ColProductCategory = "Product Category"
	ColProductName     = "Product Name"
	ColSpecsFields     = "Specs fields"
	ColRatingsFields   = "Ratings fields"
	ColSpecsUI         = "Specs UI"
	ColSpecsValues     = "Specs values"
	ColRatingsUI       = "Ratings UI"

	ColCategoryUniqueName = "categoryUniqueName"
	ColSpecificationType  = "specificationType"
	ColFieldKey           = "fieldKey"
	ColFieldLabel         = "fieldlabel"
	ColFieldType          = "fieldType"
	ColRequired           = "required"
	ColEnum               = "enum"
	ColWidget             = "ui:widget"
	ColWidgetOption       = "ui:option"
)

// Row is one decoded spreadsheet record keyed by header text.
type Row map[string]string

// Get returns the first non-empty trimmed value found under any of the given columns.
func (r Row) Get(columns ...string) string {
	for _, col := range columns {
		if v := strings.TrimSpace(r[col]); v != "" {
			return v
		}
	}
	return ""
}

// Has reports whether any of the given columns holds a non-empty value.
func (r Row) Has(columns ...string) bool {
	return r.Get(columns...) != ""
}

// HintMap holds key=value directives parsed from a free-text hint cell, keyed by normalized field name.
type HintMap map[string]string

// SupportedSpreadsheetExtensions lists the upload formats the row source can decode
var SupportedSpreadsheetExtensions = []string{".xlsx", ".xlsm", ".csv"}

// IsSupportedSpreadsheet reports whether filename has a decodable extension
func IsSupportedSpreadsheet(filename string) bool {
	name := strings.ToLower(filename)
	for _, ext := range SupportedSpreadsheetExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
