package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/skyline93/heritour/internal/fs"
)

// suffix of every entry file below the store directory.
const entrySuffix = ".json.zst"

// ErrNotFound is returned by Get when no entry exists for the key.
var ErrNotFound = errors.New("store: key not found")

// Store is a file-backed key-value store. Each entry is a zstd-compressed
// JSON document in a flat directory, written atomically via rename.
type Store struct {
	dir string

	enc *zstd.Encoder
	dec *zstd.Decoder
}

// Open creates the store directory if necessary and returns a ready handle.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("store: empty directory")
	}

	if err := fs.MkdirAll(dir, 0700); err != nil {
		return nil, errors.Wrap(err, "MkdirAll")
	}

	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderLevel(zstd.SpeedDefault),
		// Entries are small metadata documents, a large window buys nothing.
		zstd.WithWindowSize(128*1024),
	)
	if err != nil {
		return nil, errors.Wrap(err, "zstd.NewWriter")
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, errors.Wrap(err, "zstd.NewReader")
	}

	return &Store{dir: dir, enc: enc, dec: dec}, nil
}

// Dir returns the directory the store persists into.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) filename(key string) string {
	return filepath.Join(s.dir, key+entrySuffix)
}

// Put serialises v as JSON, compresses it and writes it under key,
// overwriting any previous entry.
func (s *Store) Put(key string, v interface{}) error {
	if err := validKey(key); err != nil {
		return err
	}

	plaintext, err := json.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "json.Marshal")
	}

	buf := s.enc.EncodeAll(plaintext, nil)
	return errors.Wrap(fs.WriteRename(s.filename(key), buf, 0600), "WriteRename")
}

// Get reads the entry stored under key into v. ErrNotFound is returned when
// the key does not exist; corrupt entries yield a wrapped decode error.
func (s *Store) Get(key string, v interface{}) error {
	if err := validKey(key); err != nil {
		return err
	}

	buf, err := os.ReadFile(s.filename(key))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return errors.Wrap(err, "ReadFile")
	}

	plaintext, err := s.dec.DecodeAll(buf, nil)
	if err != nil {
		return errors.Wrapf(err, "decompress entry %v", key)
	}

	return errors.Wrapf(json.Unmarshal(plaintext, v), "unmarshal entry %v", key)
}

// Remove deletes the entry for key. A missing entry is not an error.
func (s *Store) Remove(key string) error {
	if err := validKey(key); err != nil {
		return err
	}
	return fs.RemoveIfExists(s.filename(key))
}

// RemoveKeys deletes all given entries. Removal continues past individual
// failures; the first error is returned.
func (s *Store) RemoveKeys(keys []string) error {
	var firstErr error
	for _, key := range keys {
		if err := s.Remove(key); err != nil {
			log.Warnf("remove entry %v: %v", key, err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Keys lists all stored keys with the given prefix, sorted. An empty prefix
// lists everything.
func (s *Store) Keys(prefix string) ([]string, error) {
	f, err := fs.Open(s.dir)
	if err != nil {
		return nil, errors.Wrap(err, "Open")
	}

	names, err := f.Readdirnames(-1)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, errors.Wrap(err, "Readdirnames")
	}

	keys := make([]string, 0, len(names))
	for _, name := range names {
		if !strings.HasSuffix(name, entrySuffix) {
			continue
		}
		key := strings.TrimSuffix(name, entrySuffix)
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}

	sort.Strings(keys)
	return keys, nil
}

// validKey rejects keys that would escape the store directory.
func validKey(key string) error {
	if key == "" || strings.ContainsAny(key, "/\\") || key == "." || key == ".." {
		return errors.Errorf("store: invalid key %q", key)
	}
	return nil
}
