package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// FSStore writes output files under a root directory.
type FSStore struct {
	root string
}

// NewFSStore creates a filesystem store rooted at root. An empty root
// writes relative to the working directory.
func NewFSStore(root string) *FSStore {
	return &FSStore{root: root}
}

// Put implements Store. Parent directories are created as needed.
func (s *FSStore) Put(_ context.Context, name string, data []byte) error {
	path := name
	if s.root != "" {
		path = filepath.Join(s.root, name)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir %s: %w", dir, err)
		}
	}

	return os.WriteFile(path, data, 0o644)
}

// Close implements Store.
func (s *FSStore) Close() error {
	return nil
}

// Verify FSStore implements Store.
var _ Store = (*FSStore)(nil)
