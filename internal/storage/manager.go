package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/1shevadin1/NACHA-converter/internal/models"
	"github.com/google/uuid"
)

// ErrFileNotFound is returned for an unknown file ID.
var ErrFileNotFound = errors.New("file not found")

// Store defines the interface for uploaded NACHA file storage.
type Store interface {
	Save(name string, r io.Reader) (*models.FileInfo, error)
	Get(id string) (*models.FileInfo, error)
	List(limit int) ([]*models.FileInfo, error)
	Delete(id string) error
	SetStatus(id string, status string) error
	GetFilePath(id string) (string, error)
}

// LocalStore implements Store using the local filesystem.
// File contents live on disk under their ID; metadata is kept in memory.
type LocalStore struct {
	mu        sync.RWMutex
	uploadDir string
	files     map[string]*models.FileInfo
}

// NewLocalStore creates a new LocalStore. Uploads left in uploadDir by an
// earlier run are unreachable, since metadata is not kept, and are removed.
func NewLocalStore(uploadDir string) (*LocalStore, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	if err := removeStaleUploads(uploadDir); err != nil {
		return nil, err
	}

	return &LocalStore{
		uploadDir: uploadDir,
		files:     make(map[string]*models.FileInfo),
	}, nil
}

// removeStaleUploads deletes regular files named like upload IDs.
// Anything else in the directory is left alone.
func removeStaleUploads(uploadDir string) error {
	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		return fmt.Errorf("reading upload directory: %w", err)
	}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if _, err := uuid.Parse(entry.Name()); err != nil {
			continue
		}
		if err := os.Remove(filepath.Join(uploadDir, entry.Name())); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing stale upload: %w", err)
		}
	}
	return nil
}

// Save writes r to the upload directory under a new ID.
func (s *LocalStore) Save(name string, r io.Reader) (*models.FileInfo, error) {
	id := uuid.New().String()
	path := filepath.Join(s.uploadDir, id)

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	size, err := io.Copy(f, r)
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("writing file: %w", err)
	}

	info := &models.FileInfo{
		ID:         id,
		Name:       name,
		Size:       size,
		UploadedAt: time.Now(),
		Status:     models.FileStatusUploaded,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[id] = info

	out := *info
	return &out, nil
}

// Get retrieves a copy of the file metadata by ID.
func (s *LocalStore) Get(id string) (*models.FileInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info, ok := s.files[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}

	out := *info
	return &out, nil
}

// List returns the most recent files, newest first.
func (s *LocalStore) List(limit int) ([]*models.FileInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*models.FileInfo, 0, len(s.files))
	for _, info := range s.files {
		out := *info
		list = append(list, &out)
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].UploadedAt.After(list[j].UploadedAt)
	})

	if limit > 0 && len(list) > limit {
		list = list[:limit]
	}

	return list, nil
}

// Delete removes a file from storage.
func (s *LocalStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[id]; !ok {
		return fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}

	path := filepath.Join(s.uploadDir, id)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting file: %w", err)
	}

	delete(s.files, id)
	return nil
}

// SetStatus records the outcome of generating a transmittal from a file.
func (s *LocalStore) SetStatus(id string, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	info, ok := s.files[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}
	info.Status = status
	return nil
}

// GetFilePath returns the absolute path to a file.
func (s *LocalStore) GetFilePath(id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.files[id]; !ok {
		return "", fmt.Errorf("%w: %s", ErrFileNotFound, id)
	}

	return filepath.Join(s.uploadDir, id), nil
}
