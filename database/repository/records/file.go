package recordsRepo

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

type fileBackend struct {
	dir string
}

// NewFileStore returns a RecordStore writing one JSON file per collection under dir.
func NewFileStore(dir string) (RecordStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &blobStore{backend: &fileBackend{dir: dir}}, nil
}

func (f *fileBackend) path(collection string) string {
	return filepath.Join(f.dir, collection+".json")
}

func (f *fileBackend) get(_ context.Context, collection string) ([]byte, bool, error) {
	raw, err := os.ReadFile(f.path(collection))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

// put writes through a temp file and rename so readers never see a torn file.
func (f *fileBackend) put(_ context.Context, collection string, data []byte) error {
	tmp, err := os.CreateTemp(f.dir, collection+"-*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), f.path(collection))
}

func (f *fileBackend) ping(context.Context) error {
	_, err := os.Stat(f.dir)
	return err
}

func (f *fileBackend) close(context.Context) error { return nil }
