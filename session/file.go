package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	olleh "github.com/olleh-rw/olleh-go"
)

// File persists the token pair as a JSON file with 0600 permissions.
// Suitable for CLI tools; the file is absent entirely when logged out.
type File struct {
	path string
	mu   sync.Mutex
}

var _ olleh.SessionStore = (*File)(nil)

// NewFile creates a file-backed store at the given path.
func NewFile(path string) *File {
	return &File{path: path}
}

// Get reads the stored token pair, or returns nil when the file is absent.
func (f *File) Get(ctx context.Context) (*olleh.TokenPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: read %s: %w", f.path, err)
	}

	var pair olleh.TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return nil, fmt.Errorf("session: decode %s: %w", f.path, err)
	}
	if pair.Access == "" && pair.Refresh == "" {
		return nil, nil
	}
	return &pair, nil
}

// Set writes the token pair, creating parent directories as needed.
func (f *File) Set(ctx context.Context, pair olleh.TokenPair) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("session: mkdir %s: %w", dir, err)
		}
	}

	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("session: write %s: %w", f.path, err)
	}
	return nil
}

// Clear removes the session file. Clearing an absent session is not an error.
func (f *File) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: remove %s: %w", f.path, err)
	}
	return nil
}
