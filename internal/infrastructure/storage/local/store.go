package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/specforms/backend/internal/domain"
)

const defaultFingerprintTTL = 24 * time.Hour

// Store writes schema documents to <root>/<type>/<category>.json
type Store struct {
	root  string
	index domain.FingerprintIndex
	ttl   time.Duration

	mu   sync.Mutex
	dirs map[string]struct{}
}

// NewStore creates a filesystem store. index may be nil, in which case every comparison
// hashes the existing file.
func NewStore(root string, index domain.FingerprintIndex, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = defaultFingerprintTTL
	}
	return &Store{
		root:  root,
		index: index,
		ttl:   ttl,
		dirs:  make(map[string]struct{}),
	}
}

// Location returns the file path used for a bucket
func (s *Store) Location(key domain.BucketKey) string {
	typ, category := key.PathComponents()
	return filepath.Join(s.root, typ, category+".json")
}

// Write persists data unless the file already holds identical bytes
func (s *Store) Write(ctx context.Context, key domain.BucketKey, data []byte) (domain.WriteOutcome, error) {
	path := s.Location(key)
	want := domain.Fingerprint{Hash: xxhash.Sum64(data), Size: int64(len(data))}

	current, err := s.current(ctx, path, want.Size)
	switch {
	case err == nil && current.Hash == want.Hash && current.Size == want.Size:
		return domain.OutcomeSkipped, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		log.Printf("[STORE] Could not fingerprint %s, rewriting: %v", path, err)
	}

	dir := filepath.Dir(path)
	if err := s.ensureDir(dir); err != nil {
		return domain.OutcomeFailed, fmt.Errorf("%w: create %s: %v", domain.ErrWriteFailed, dir, err)
	}

	err = writeAtomic(path, data)
	if errors.Is(err, fs.ErrNotExist) {
		// Directory removed since it was first created
		s.forgetDir(dir)
		if err = s.ensureDir(dir); err == nil {
			err = writeAtomic(path, data)
		}
	}
	if err != nil {
		s.forgetDir(dir)
		if s.index != nil {
			_ = s.index.Delete(ctx, path)
		}
		return domain.OutcomeFailed, fmt.Errorf("%w: %s: %v", domain.ErrWriteFailed, path, err)
	}

	if s.index != nil {
		if info, err := os.Stat(path); err == nil {
			want.ModTime = info.ModTime()
			_ = s.index.Set(ctx, path, want, s.ttl)
		}
	}

	return domain.OutcomeWritten, nil
}

// Read returns the persisted bytes for a bucket
func (s *Store) Read(ctx context.Context, key domain.BucketKey) ([]byte, error) {
	path := s.Location(key)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSchemaNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// current returns the fingerprint of the file at path. A fresh index entry is trusted when the
// file's size and mtime still match; otherwise the file is hashed as a stream. When the size
// already differs from wantSize the hash is not computed.
func (s *Store) current(ctx context.Context, path string, wantSize int64) (domain.Fingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.Fingerprint{}, err
	}

	if s.index != nil {
		if fp, err := s.index.Get(ctx, path); err == nil && fp.Size == info.Size() && fp.ModTime.Equal(info.ModTime()) {
			return fp, nil
		}
	}

	if info.Size() != wantSize {
		return domain.Fingerprint{Size: info.Size(), ModTime: info.ModTime()}, nil
	}

	fp, err := hashFile(path)
	if err != nil {
		return domain.Fingerprint{}, err
	}
	fp.ModTime = info.ModTime()
	if s.index != nil {
		_ = s.index.Set(ctx, path, fp, s.ttl)
	}
	return fp, nil
}

// ensureDir creates dir recursively the first time it is needed
func (s *Store) ensureDir(dir string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dirs[dir]; ok {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	s.dirs[dir] = struct{}{}
	return nil
}

func (s *Store) forgetDir(dir string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dirs, dir)
}

func hashFile(path string) (domain.Fingerprint, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.Fingerprint{}, err
	}
	defer f.Close()

	h := xxhash.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return domain.Fingerprint{}, err
	}
	return domain.Fingerprint{Hash: h.Sum64(), Size: n}, nil
}

// writeAtomic writes data to a temp file in the target directory and renames it into place
func writeAtomic(path string, data []byte) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
