package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentTypeForFilename(t *testing.T) {
	assert.Equal(t, "image/png", ContentTypeForFilename("logo.PNG"))
	assert.Equal(t, "image/jpeg", ContentTypeForFilename("a.b.jpeg"))
	assert.Equal(t, "", ContentTypeForFilename("payload.exe"))
	assert.Equal(t, "", ContentTypeForFilename("noext"))
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "media/logo-1.png", ObjectKey("logo-1.png"))
	assert.Equal(t, "media/evil.png", ObjectKey("../../evil.png"))
}

func TestKeyFromURL(t *testing.T) {
	url := PublicObjectURL("bucket", "eu-west-1", "media/logo.png")
	key, err := KeyFromURL("bucket", "eu-west-1", url)
	require.NoError(t, err)
	assert.Equal(t, "media/logo.png", key)

	_, err = KeyFromURL("bucket", "eu-west-1", "https://other.s3.eu-west-1.amazonaws.com/media/logo.png")
	assert.ErrorIs(t, err, ErrForeignObject)

	_, err = KeyFromURL("bucket", "eu-west-1", "/uploads/logo.png")
	assert.ErrorIs(t, err, ErrForeignObject)
}
