package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	ferrors "git.home.luguber.info/inful/sitemapper/internal/foundation/errors"
)

// FSStore writes artifacts into a directory on the local filesystem. Writes go
// through a temporary file and a rename, so readers never observe a partially
// written artifact.
type FSStore struct {
	basePath string
	mu       sync.RWMutex
}

// NewFSStore creates the destination directory if needed.
func NewFSStore(basePath string) (*FSStore, error) {
	// #nosec G301 -- output is a public web root
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, ferrors.FileSystemError("failed to create destination directory").
			WithCause(err).
			WithContext("path", basePath).
			Build()
	}
	return &FSStore{basePath: basePath}, nil
}

// Put writes the object atomically and returns its content hash.
func (s *FSStore) Put(_ context.Context, obj *Object) (string, error) {
	if err := checkName(obj.Name); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	hash := ContentHash(obj.Data)
	target := s.path(obj.Name)

	tmp, err := os.CreateTemp(s.basePath, "."+obj.Name+".tmp-*")
	if err != nil {
		return "", s.writeError(obj.Name, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(obj.Data); err != nil {
		_ = tmp.Close()
		cleanup()
		return "", s.writeError(obj.Name, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", s.writeError(obj.Name, err)
	}
	// #nosec G302 -- artifacts are served publicly
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return "", s.writeError(obj.Name, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		cleanup()
		return "", s.writeError(obj.Name, err)
	}

	obj.Hash = hash
	return hash, nil
}

func (s *FSStore) writeError(name string, err error) error {
	return ferrors.FileSystemError("failed to write artifact").
		WithCause(err).
		WithContext("path", s.path(name)).
		Build()
}

// Get retrieves an object by name.
func (s *FSStore) Get(_ context.Context, name string) (*Object, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := s.path(name)
	// #nosec G304 -- name is a validated bare file name under basePath
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound{Name: name}
		}
		return nil, ferrors.FileSystemError("failed to read artifact").WithCause(err).WithContext("path", path).Build()
	}
	obj := &Object{Name: name, Data: data, Hash: ContentHash(data)}
	if info, err := os.Stat(path); err == nil {
		obj.Metadata.ModifiedAt = info.ModTime()
	}
	return obj, nil
}

// Exists checks if an object with the given name exists.
func (s *FSStore) Exists(_ context.Context, name string) (bool, error) {
	if err := checkName(name); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.path(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, ferrors.FileSystemError("failed to stat artifact").WithCause(err).WithContext("path", s.path(name)).Build()
}

// Delete removes an object; a missing file is fine.
func (s *FSStore) Delete(_ context.Context, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return ferrors.FileSystemError("failed to remove artifact").WithCause(err).WithContext("path", s.path(name)).Build()
	}
	return nil
}

// List returns the regular files directly under the store root.
func (s *FSStore) List(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, ferrors.FileSystemError("failed to list destination directory").WithCause(err).WithContext("path", s.basePath).Build()
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Location returns the destination directory.
func (s *FSStore) Location() string { return s.basePath }

// Close releases resources (no-op for the filesystem).
func (s *FSStore) Close() error { return nil }

func (s *FSStore) path(name string) string {
	return filepath.Join(s.basePath, name)
}

var _ ArtifactStore = (*FSStore)(nil)
