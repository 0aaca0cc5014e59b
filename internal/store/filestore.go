package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/orrery-db/orrery/internal/identity"
	"github.com/orrery-db/orrery/internal/object"
)

// fileDoc is the on-disk layout of a FileStore.
type fileDoc struct {
	StoreID uuid.UUID        `json:"store_id"`
	Root    identity.ID      `json:"root"`
	Records []*object.Record `json:"records"`
}

// FileStore keeps the whole record store in one JSON file. Writes go to a
// temporary file in the same directory and are renamed into place, so a
// failed write never leaves partial output.
type FileStore struct {
	path    string
	storeID uuid.UUID
}

// NewFileStore creates a file store at path. If the file already exists its
// store ID is adopted; otherwise one is assigned on first write.
func NewFileStore(path string) (*FileStore, error) {
	fs := &FileStore{path: path}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		fs.storeID = uuid.New()
	case err != nil:
		return nil, &IOError{Op: "open", Err: err}
	default:
		var doc fileDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, &CorruptionError{Err: fmt.Errorf("%w: %v", ErrMalformedRecord, err)}
		}
		fs.storeID = doc.StoreID
	}
	return fs, nil
}

// StoreID implements Store.
func (fs *FileStore) StoreID() uuid.UUID {
	return fs.storeID
}

// WriteAll implements Store.
func (fs *FileStore) WriteAll(_ context.Context, recs []*object.Record, root identity.ID) error {
	doc := fileDoc{StoreID: fs.storeID, Root: root, Records: recs}

	data, err := json.MarshalIndent(&doc, "", "  ")
	if err != nil {
		return &IOError{Op: "write", Err: err}
	}
	data = append(data, '\n')

	dir := filepath.Dir(fs.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(fs.path)+".tmp*")
	if err != nil {
		return &IOError{Op: "write", Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &IOError{Op: "write", Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "write", Err: err}
	}
	if err := os.Rename(tmpName, fs.path); err != nil {
		os.Remove(tmpName)
		return &IOError{Op: "write", Err: err}
	}
	return nil
}

// ReadAll implements Store.
func (fs *FileStore) ReadAll(_ context.Context) ([]*object.Record, identity.ID, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		return nil, identity.None, &IOError{Op: "read", Err: err}
	}

	var doc fileDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, identity.None, &CorruptionError{Err: fmt.Errorf("%w: %v", ErrMalformedRecord, err)}
	}
	return doc.Records, doc.Root, nil
}
