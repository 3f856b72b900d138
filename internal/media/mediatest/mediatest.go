// Package mediatest builds multipart requests for handler tests.
package mediatest

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/casinohub/backend/internal/media"
)

// PNG is the smallest content the upload sniffer accepts as image/png.
var PNG = append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 64)...)

// File is one file part of a Form.
type File struct {
	Field    string
	Filename string
	Content  []byte
}

// Form describes a multipart body. Repeated values become repeated fields.
type Form struct {
	Fields map[string][]string
	Files  []File
}

// Request encodes f and returns a request with the matching content type.
func (f Form) Request(t *testing.T, method, target string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, values := range f.Fields {
		for _, v := range values {
			require.NoError(t, w.WriteField(k, v))
		}
	}
	for _, file := range f.Files {
		part, err := w.CreateFormFile(file.Field, file.Filename)
		require.NoError(t, err)
		_, err = part.Write(file.Content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

// Store is an in-memory media.Store that records what happened.
type Store struct {
	mu      sync.Mutex
	Saved   map[string][]byte
	Removed []string
	SaveErr error
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{Saved: map[string][]byte{}}
}

// Save implements media.Store.
func (s *Store) Save(_ context.Context, u *media.Upload) (string, error) {
	if s.SaveErr != nil {
		return "", s.SaveErr
	}
	rc, err := u.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return "", err
	}
	ref := "/uploads/" + u.StoredName()
	s.mu.Lock()
	s.Saved[ref] = b
	s.mu.Unlock()
	return ref, nil
}

// Remove implements media.Store.
func (s *Store) Remove(_ context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.Saved, ref)
	s.Removed = append(s.Removed, ref)
	return nil
}

// Has reports whether ref is currently stored.
func (s *Store) Has(ref string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.Saved[ref]
	return ok
}

// RemovedRefs returns a copy of every removed ref.
func (s *Store) RemovedRefs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.Removed...)
}
