// Package storage manages the upload and processed-image folders.
//
// Uploaded files are stored under their base name in the upload folder.
// Transform results are written to the processed folder as
// "processed_<basename>". Every name coming from a client is reduced to its
// base name, so paths cannot escape either folder.
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ProcessedPrefix is prepended to the input base name to form the output name.
const ProcessedPrefix = "processed_"

var (
	// ErrInvalidName reports an empty or otherwise unusable file name.
	ErrInvalidName = errors.New("invalid file name")

	// ErrNotFound reports a missing file in one of the folders.
	ErrNotFound = errors.New("file not found")
)

// Store owns an upload folder and a processed folder.
type Store struct {
	uploadDir    string
	processedDir string
}

// New creates both folders if they do not exist.
func New(uploadDir, processedDir string) (*Store, error) {
	for _, dir := range []string{uploadDir, processedDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	return &Store{uploadDir: uploadDir, processedDir: processedDir}, nil
}

// UploadDir returns the upload folder.
func (s *Store) UploadDir() string { return s.uploadDir }

// ProcessedDir returns the processed folder.
func (s *Store) ProcessedDir() string { return s.processedDir }

// SaveUpload copies r into the upload folder under the base name of name,
// replacing any existing file, and returns the stored path.
func (s *Store) SaveUpload(name string, r io.Reader) (string, error) {
	base, err := cleanName(name)
	if err != nil {
		return "", err
	}
	path := filepath.Join(s.uploadDir, base)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", base, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write %s: %w", base, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", base, err)
	}
	return path, nil
}

// UploadPath resolves a client-supplied reference to an uploaded file. Only
// the base name is used.
func (s *Store) UploadPath(name string) (string, error) {
	return s.existing(s.uploadDir, name)
}

// DownloadPath resolves a processed file by name.
func (s *Store) DownloadPath(name string) (string, error) {
	return s.existing(s.processedDir, name)
}

// ProcessedPath returns where the result for input should be written.
func (s *Store) ProcessedPath(input string) (string, error) {
	base, err := cleanName(input)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.processedDir, ProcessedPrefix+base), nil
}

func (s *Store) existing(dir, name string) (string, error) {
	base, err := cleanName(name)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, base)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s", ErrNotFound, base)
	}
	return path, nil
}

func cleanName(name string) (string, error) {
	base := filepath.Base(filepath.Clean("/" + strings.ReplaceAll(name, "\\", "/")))
	if base == "/" || base == "." || base == ".." || strings.TrimSpace(base) == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return base, nil
}
