package gcs

import (
	"bytes"
	"context"
	"crypto/md5"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/specforms/backend/internal/domain"
	"google.golang.org/api/googleapi"
)

const contentType = "application/json"

// Store persists schema documents as objects in a Cloud Storage bucket
type Store struct {
	bucket     *storage.BucketHandle
	bucketName string
	prefix     string
}

// NewStore creates a store writing under prefix inside bucketName
func NewStore(client *storage.Client, bucketName, prefix string) *Store {
	return &Store{
		bucket:     client.Bucket(bucketName),
		bucketName: bucketName,
		prefix:     strings.Trim(prefix, "/"),
	}
}

// ObjectName returns the object name used for a bucket
func (s *Store) ObjectName(key domain.BucketKey) string {
	typ, category := key.PathComponents()
	name := path.Join(typ, category+".json")
	if s.prefix == "" {
		return name
	}
	return path.Join(s.prefix, name)
}

// Location returns the gs:// URL of a bucket's object
func (s *Store) Location(key domain.BucketKey) string {
	return fmt.Sprintf("gs://%s/%s", s.bucketName, s.ObjectName(key))
}

// Write uploads data unless the object's MD5 already matches. Uploads are conditional on
// the generation that was compared, so a concurrent writer yields ErrWriteConflict.
func (s *Store) Write(ctx context.Context, key domain.BucketKey, data []byte) (domain.WriteOutcome, error) {
	name := s.ObjectName(key)
	obj := s.bucket.Object(name)
	sum := md5.Sum(data)

	attrs, err := obj.Attrs(ctx)
	switch {
	case err == nil:
		if attrs.Size == int64(len(data)) && bytes.Equal(attrs.MD5, sum[:]) {
			return domain.OutcomeSkipped, nil
		}
		obj = obj.If(storage.Conditions{GenerationMatch: attrs.Generation})
	case errors.Is(err, storage.ErrObjectNotExist):
		obj = obj.If(storage.Conditions{DoesNotExist: true})
	default:
		return domain.OutcomeFailed, fmt.Errorf("%w: stat %s: %v", domain.ErrWriteFailed, name, err)
	}

	writer := obj.NewWriter(ctx)
	writer.ContentType = contentType
	writer.MD5 = sum[:]

	if _, err := io.Copy(writer, bytes.NewReader(data)); err != nil {
		_ = writer.Close()
		return domain.OutcomeFailed, writeError(name, err)
	}
	if err := writer.Close(); err != nil {
		return domain.OutcomeFailed, writeError(name, err)
	}

	log.Printf("[STORE] Uploaded gs://%s/%s (%d bytes)", s.bucketName, name, len(data))
	return domain.OutcomeWritten, nil
}

// Read downloads the persisted bytes for a bucket
func (s *Store) Read(ctx context.Context, key domain.BucketKey) ([]byte, error) {
	name := s.ObjectName(key)
	reader, err := s.bucket.Object(name).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSchemaNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func writeError(name string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
		return fmt.Errorf("%w: %s changed during upload", domain.ErrWriteConflict, name)
	}
	return fmt.Errorf("%w: %s: %v", domain.ErrWriteFailed, name, err)
}
