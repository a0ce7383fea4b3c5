package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	bqerrors "github.com/matzehuels/digibouquet/pkg/errors"
)

// FileStore keeps one JSON file per record in a directory.
type FileStore struct {
	baseDir string
}

// NewFileStore creates a file-based store. If baseDir is empty it
// defaults to ~/.local/share/digibouquet/bouquets.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".local", "share", "digibouquet", "bouquets")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

func (s *FileStore) recordPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) Create(ctx context.Context, rec *Record) (string, error) {
	if err := prepare(rec); err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", storageErr(err, "marshal record")
	}

	// O_EXCL makes the existence check and the create one step.
	f, err := os.OpenFile(s.recordPath(rec.ID), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if os.IsExist(err) {
		return "", conflict(rec.ID)
	}
	if err != nil {
		return "", storageErr(err, "create record file")
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", storageErr(err, "write record file")
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", storageErr(err, "close record file")
	}
	return rec.ID, nil
}

func (s *FileStore) Fetch(ctx context.Context, id string) (*Record, error) {
	if err := bqerrors.ValidateID(id); err != nil {
		return nil, notFound(id)
	}
	data, err := os.ReadFile(s.recordPath(id))
	if os.IsNotExist(err) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storageErr(err, "read record file")
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, storageErr(err, "parse record")
	}
	return &rec, nil
}

// Path returns the directory holding record files.
func (s *FileStore) Path() string {
	return s.baseDir
}

func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
