package model

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrKeyFormat is returned when a storage path does not match the
	// {ownerId}/{imageId}.{ext} convention.
	ErrKeyFormat = errors.New("image key in unexpected format")

	// ErrUnsupportedExtension is returned when a key's extension has no
	// known MIME type.
	ErrUnsupportedExtension = errors.New("unsupported file extension")
)

const (
	uuidV4Pattern    = `[0-9A-F]{8}-[0-9A-F]{4}-[0-9A-F]{4}-[89AB][0-9A-F]{3}-[0-9A-F]{12}`
	extensionPattern = `[a-z]{3,4}`
)

var imageKeyRegexp = regexp.MustCompile(
	`(?i)^(` + uuidV4Pattern + `)/(` + uuidV4Pattern + `)\.(` + extensionPattern + `)$`,
)

var mimeTypes = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

// ImageKey identifies one image in remote storage by owner, image id and
// file extension. It is immutable once constructed.
type ImageKey struct {
	ownerID   uuid.UUID
	imageID   uuid.UUID
	extension string
}

// ParseImageKey validates path against the {ownerId}/{imageId}.{ext}
// convention (case-insensitive) and returns the parsed key.
func ParseImageKey(path string) (ImageKey, error) {
	m := imageKeyRegexp.FindStringSubmatch(path)
	if m == nil {
		return ImageKey{}, fmt.Errorf("%w: %s", ErrKeyFormat, path)
	}
	ownerID, err := uuid.Parse(m[1])
	if err != nil {
		return ImageKey{}, fmt.Errorf("%w: %s", ErrKeyFormat, path)
	}
	imageID, err := uuid.Parse(m[2])
	if err != nil {
		return ImageKey{}, fmt.Errorf("%w: %s", ErrKeyFormat, path)
	}
	return ImageKey{
		ownerID:   ownerID,
		imageID:   imageID,
		extension: strings.ToLower(m[3]),
	}, nil
}

// NewImageKey builds a key from the given ids and extension. Nil UUIDs are
// replaced with freshly generated ones; an empty extension defaults to jpg.
func NewImageKey(ownerID, imageID uuid.UUID, extension string) ImageKey {
	if ownerID == uuid.Nil {
		ownerID = uuid.New()
	}
	if imageID == uuid.Nil {
		imageID = uuid.New()
	}
	if extension == "" {
		extension = "jpg"
	}
	return ImageKey{ownerID: ownerID, imageID: imageID, extension: strings.ToLower(extension)}
}

func (k ImageKey) OwnerID() uuid.UUID { return k.ownerID }
func (k ImageKey) ImageID() uuid.UUID { return k.imageID }
func (k ImageKey) Extension() string  { return k.extension }

// Filename returns {imageId}.{ext}.
func (k ImageKey) Filename() string {
	return fmt.Sprintf("%s.%s", k.imageID, k.extension)
}

// FilePath returns {ownerId}/{imageId}.{ext}, the unique business key a
// metadata record is stored under.
func (k ImageKey) FilePath() string {
	return fmt.Sprintf("%s/%s", k.ownerID, k.Filename())
}

// MimeType looks the extension up in the supported-type table.
func (k ImageKey) MimeType() (string, error) {
	mt, ok := mimeTypes[k.extension]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedExtension, k.extension)
	}
	return mt, nil
}

func (k ImageKey) String() string {
	return k.FilePath()
}

// Equal compares two keys by their file path.
func (k ImageKey) Equal(other ImageKey) bool {
	return k.FilePath() == other.FilePath()
}
