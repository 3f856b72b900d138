// Package media stores uploaded casino logos, banner images and giveaway art, and
// removes them again when their record goes away.
package media

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"github.com/casinohub/backend/internal/apperr"
	"github.com/casinohub/backend/pkg/storage"
)

var (
	ErrUnsupportedType = errors.New("only jpg, png, webp and gif images are accepted")
	ErrTooLarge        = errors.New("image exceeds the upload size limit")
	ErrEmpty           = errors.New("uploaded file is empty")
)

// Store persists media and returns a reference the frontend can load directly.
type Store interface {
	Save(ctx context.Context, u *Upload) (string, error)
	Remove(ctx context.Context, ref string) error
}

// Upload is a validated image from a multipart form.
type Upload struct {
	Field       string
	Filename    string
	ContentType string
	Size        int64
	header      *multipart.FileHeader
}

// Open returns the upload's content. The caller closes it.
func (u *Upload) Open() (io.ReadCloser, error) {
	return u.header.Open()
}

// StoredName returns a fresh collision-resistant name: <field>-<unix ms>-<random><ext>.
func (u *Upload) StoredName() string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	ext := strings.ToLower(filepath.Ext(u.Filename))
	return fmt.Sprintf("%s-%d-%s%s", u.Field, time.Now().UnixMilli(), hex.EncodeToString(b[:]), ext)
}

// FormFile reads an optional image from field. It returns (nil, nil) when no file was sent
// and an apperr validation error when the file is not an acceptable image.
func FormFile(c *gin.Context, field string, maxBytes int64) (*Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, apperr.Validation("invalid multipart form: " + err.Error())
	}
	u, err := Inspect(field, fh, maxBytes)
	if err != nil {
		return nil, apperr.Validation(err.Error())
	}
	return u, nil
}

// Inspect validates a multipart file header as an image upload.
func Inspect(field string, fh *multipart.FileHeader, maxBytes int64) (*Upload, error) {
	if fh.Size == 0 {
		return nil, ErrEmpty
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return nil, ErrTooLarge
	}
	contentType := storage.ContentTypeForFilename(fh.Filename)
	if contentType == "" {
		return nil, ErrUnsupportedType
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	sniffed, err := mimetype.DetectReader(f)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if !strings.HasPrefix(sniffed.String(), "image/") {
		return nil, ErrUnsupportedType
	}

	return &Upload{
		Field:       field,
		Filename:    filepath.Base(fh.Filename),
		ContentType: contentType,
		Size:        fh.Size,
		header:      fh,
	}, nil
}
