package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalSink writes generated source files under a fixed export root.
// Paths are resolved against the root and anything that escapes it is
// rejected, so session ids and component names from the API cannot
// traverse outside the export directory.
type LocalSink struct {
	absRoot string
}

// NewLocalSink creates the export root if needed and locks all writes
// under it. The root is resolved to an absolute, symlink-free directory.
func NewLocalSink(root string) (*LocalSink, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, fmt.Errorf("export root is required")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create export root: %w", err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, err
	}
	return &LocalSink{absRoot: abs}, nil
}

// Root returns the absolute export directory.
func (s *LocalSink) Root() string {
	if s == nil {
		return ""
	}
	return s.absRoot
}

// Put writes one generated source file under <root>/<session>/<name>.jsx
// and returns its receipt. The write lands via a temp file and rename so
// a watcher never observes a partial component.
func (s *LocalSink) Put(sessionID, name, code string) (Receipt, error) {
	if s == nil {
		return Receipt{}, fmt.Errorf("local sink is nil")
	}
	sessionID = strings.TrimSpace(sessionID)
	name = strings.TrimSpace(name)
	if sessionID == "" || name == "" {
		return Receipt{}, fmt.Errorf("session id and component name are required")
	}

	key := objectKey(sanitizeName(sessionID), name)
	dest, err := s.resolve(key)
	if err != nil {
		return Receipt{}, err
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return Receipt{}, err
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".export-*")
	if err != nil {
		return Receipt{}, err
	}
	if _, err := tmp.WriteString(code); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return Receipt{}, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return Receipt{}, err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		os.Remove(tmp.Name())
		return Receipt{}, err
	}

	return Receipt{
		Key:       key,
		URL:       "file://" + dest,
		Size:      len(code),
		CreatedAt: time.Now().UTC(),
	}, nil
}

// resolve joins a relative key onto the root and verifies the result
// stays inside it.
func (s *LocalSink) resolve(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("export path escapes root: %s", key)
	}
	joined := filepath.Join(s.absRoot, clean)
	if !hasPathPrefix(joined, s.absRoot) {
		return "", fmt.Errorf("export path escapes root: %s", key)
	}
	return joined, nil
}

func hasPathPrefix(path, root string) bool {
	path = filepath.Clean(path)
	root = filepath.Clean(root)
	if path == root {
		return true
	}
	sep := string(os.PathSeparator)
	if !strings.HasSuffix(root, sep) {
		root += sep
	}
	return strings.HasPrefix(path, root)
}
