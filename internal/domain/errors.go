package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrUnsupportedFormat is returned when an uploaded file is not a spreadsheet we can decode
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

	// ErrRowSourceUnreadable is returned when the row source cannot be opened or decoded
	ErrRowSourceUnreadable = errors.New("row source could not be read")

	// ErrSchemaNotFound is returned when no persisted schema exists for a bucket
	ErrSchemaNotFound = errors.New("schema not found")

	// ErrWriteFailed is returned when a schema document could not be persisted
	ErrWriteFailed = errors.New("schema write failed")

	// ErrWriteConflict is returned when a schema object changed underneath a conditional write
	ErrWriteConflict = errors.New("schema write conflict")

	// ErrUnknownSpecificationType is returned for a specification type other than specifications or ratings
	ErrUnknownSpecificationType = errors.New("unknown specification type")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
