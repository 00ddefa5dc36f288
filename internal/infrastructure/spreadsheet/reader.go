package spreadsheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/specforms/backend/internal/domain"
	"github.com/xuri/excelize/v2"
)

const utf8BOM = "\ufeff"

// Reader decodes the first worksheet of a workbook, or a CSV file, into rows keyed by header
type Reader struct {
	enableDebugLogging bool
}

// NewReader creates a spreadsheet reader
func NewReader(enableDebugLogging bool) *Reader {
	return &Reader{enableDebugLogging: enableDebugLogging}
}

// ReadFile decodes the file at path. The format is chosen by extension.
func (r *Reader) ReadFile(ctx context.Context, path string) ([]domain.Row, error) {
	var (
		records [][]string
		err     error
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		records, err = readWorkbook(path)
	case ".csv":
		records, err = readCSV(path)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrRowSourceUnreadable, filepath.Base(path), err)
	}

	rows := toRows(records)
	if r.enableDebugLogging {
		log.Printf("[SHEET] %s: %d records, %d non-empty rows", filepath.Base(path), len(records), len(rows))
	}
	return rows, nil
}

func readWorkbook(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	return f.GetRows(sheets[0])
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return decodeCSV(f)
}

func decodeCSV(src io.Reader) ([][]string, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.ReadAll()
}

// toRows keys each record by the header row. Blank header columns and blank records are dropped.
func toRows(records [][]string) []domain.Row {
	if len(records) == 0 {
		return []domain.Row{}
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]domain.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(domain.Row)
		for i, col := range header {
			if col == "" || i >= len(record) {
				continue
			}
			if strings.TrimSpace(record[i]) != "" {
				row[col] = record[i]
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
	}
	return rows
}
