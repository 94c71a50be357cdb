package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
)

// FileStore keeps the token in a single file, for the command-line client.
type FileStore struct {
	Path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// DefaultTokenPath is $XDG_CONFIG_HOME/jobos/token (or the OS equivalent).
func DefaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate config dir: %w", err)
	}
	return filepath.Join(dir, "jobos", "token"), nil
}

// Read returns the stored token, or "" when the file does not exist.
func (s *FileStore) Read() (string, error) {
	b, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read token file: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

// Write replaces the stored token atomically; the file is readable by the owner only.
func (s *FileStore) Write(token string) error {
	err := os.MkdirAll(filepath.Dir(s.Path), 0o700)
	if err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	err = atomic.WriteFile(s.Path, strings.NewReader(token))
	if err != nil {
		return fmt.Errorf("write token file: %w", err)
	}
	err = os.Chmod(s.Path, 0o600)
	if err != nil {
		return fmt.Errorf("chmod token file: %w", err)
	}
	return nil
}

// Clear removes the token file. A missing file is not an error.
func (s *FileStore) Clear() error {
	err := os.Remove(s.Path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
