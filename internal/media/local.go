package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// LocalStore keeps media on disk; the server exposes dir under prefix.
type LocalStore struct {
	dir    string
	prefix string
}

// NewLocalStore creates dir if needed.
func NewLocalStore(dir, prefix string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: dir, prefix: "/" + strings.Trim(prefix, "/")}, nil
}

// Dir is the directory served as static files.
func (s *LocalStore) Dir() string { return s.dir }

// Prefix is the URL path the directory is served under.
func (s *LocalStore) Prefix() string { return s.prefix }

// Save writes the upload and returns "<prefix>/<generated name>".
func (s *LocalStore) Save(_ context.Context, u *Upload) (string, error) {
	src, err := u.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := u.StoredName()
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("create media file: %w", err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("write media file: %w", err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close media file: %w", err)
	}
	return path.Join(s.prefix, name), nil
}

// Remove deletes the file behind ref. Missing files are not an error.
func (s *LocalStore) Remove(_ context.Context, ref string) error {
	name, err := s.nameFor(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove media file: %w", err)
	}
	return nil
}

func (s *LocalStore) nameFor(ref string) (string, error) {
	if !strings.HasPrefix(ref, s.prefix+"/") {
		return "", fmt.Errorf("media ref %q is outside %s", ref, s.prefix)
	}
	name := strings.TrimPrefix(ref, s.prefix+"/")
	if name == "" || name != path.Base(name) || name == ".." {
		return "", fmt.Errorf("media ref %q is not a plain file name", ref)
	}
	return name, nil
}
