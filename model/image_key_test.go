package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testOwnerID = "2d249780-7fe9-4c49-aa31-0a30d56afa0f"
	testImageID = "6ee17b58-7008-41e9-a612-320017981ea0"
	testKeyPath = testOwnerID + "/" + testImageID + ".jpg"
)

func TestParseImageKey(t *testing.T) {
	key, err := ParseImageKey(testKeyPath)
	require.NoError(t, err)

	assert.Equal(t, testOwnerID, key.OwnerID().String())
	assert.Equal(t, testImageID, key.ImageID().String())
	assert.Equal(t, "jpg", key.Extension())
	assert.Equal(t, testKeyPath, key.FilePath())
}

func TestParseImageKeyCaseInsensitive(t *testing.T) {
	key, err := ParseImageKey("2D249780-7FE9-4C49-AA31-0A30D56AFA0F/" + testImageID + ".jpg")
	require.NoError(t, err)
	assert.Equal(t, testOwnerID, key.OwnerID().String())
}

func TestParseImageKeyWrongFormat(t *testing.T) {
	cases := []struct {
		name string
		path string
	}{
		{"leading slash", "/" + testKeyPath},
		{"missing image id", testOwnerID + "/.jpg"},
		{"not a uuid", "foo/bar.jpg"},
		{"missing extension", testOwnerID + "/" + testImageID},
		{"extension too long", testOwnerID + "/" + testImageID + ".tiffx"},
		{"empty", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseImageKey(tc.path)
			assert.ErrorIs(t, err, ErrKeyFormat)
		})
	}
}

func TestNewImageKeyRoundTrip(t *testing.T) {
	key := NewImageKey(uuid.MustParse(testOwnerID), uuid.MustParse(testImageID), "jpg")
	assert.Equal(t, testKeyPath, key.String())

	parsed, err := ParseImageKey(key.String())
	require.NoError(t, err)
	assert.True(t, key.Equal(parsed))
}

func TestNewImageKeyGeneratesDefaults(t *testing.T) {
	key := NewImageKey(uuid.Nil, uuid.Nil, "")
	assert.NotEqual(t, uuid.Nil, key.OwnerID())
	assert.NotEqual(t, uuid.Nil, key.ImageID())
	assert.Equal(t, "jpg", key.Extension())

	// synthesized keys must themselves parse
	_, err := ParseImageKey(key.FilePath())
	assert.NoError(t, err)
}

func TestMimeType(t *testing.T) {
	cases := []struct {
		ext  string
		mime string
	}{
		{"jpg", "image/jpeg"},
		{"jpeg", "image/jpeg"},
		{"png", "image/png"},
	}
	for _, tc := range cases {
		key := NewImageKey(uuid.Nil, uuid.Nil, tc.ext)
		mt, err := key.MimeType()
		require.NoError(t, err)
		assert.Equal(t, tc.mime, mt)
	}
}

func TestMimeTypeUnsupported(t *testing.T) {
	key := NewImageKey(uuid.Nil, uuid.Nil, "txt")
	_, err := key.MimeType()
	assert.ErrorIs(t, err, ErrUnsupportedExtension)
}

func TestFilename(t *testing.T) {
	key, err := ParseImageKey(testKeyPath)
	require.NoError(t, err)
	assert.Equal(t, testImageID+".jpg", key.Filename())
}
