package extract

import (
	"fmt"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
)

// EXIF tag names the extractor resolves, in goexif's field naming.
const (
	TagDateTimeDigitized     = "DateTimeDigitized"
	TagDateTimeOriginal      = "DateTimeOriginal"
	TagDateTime              = "DateTime"
	TagArtist                = "Artist"
	TagMake                  = "Make"
	TagModel                 = "Model"
	TagISOSpeedRatings       = "ISOSpeedRatings"
	TagApertureValue         = "ApertureValue"
	TagShutterSpeedValue     = "ShutterSpeedValue"
	TagFocalLength           = "FocalLength"
	TagFocalLengthIn35mmFilm = "FocalLengthIn35mmFilm"
	TagImageWidth            = "ImageWidth"
	TagImageLength           = "ImageLength"
	TagPixelXDimension       = "PixelXDimension"
	TagPixelYDimension       = "PixelYDimension"
	TagGPSLatitude           = "GPSLatitude"
	TagGPSLatitudeRef        = "GPSLatitudeRef"
	TagGPSLongitude          = "GPSLongitude"
	TagGPSLongitudeRef       = "GPSLongitudeRef"
	TagGPSAltitude           = "GPSAltitude"
	TagGPSDateStamp          = "GPSDateStamp"
	TagGPSTimeStamp          = "GPSTimeStamp"
)

// TagSource is the capability the extractor needs from any concrete
// metadata backend: a flat tag dictionary rendered to strings. Rationals
// render as "num/den", multi-component values space-separated ("40/1 43/1
// 507/100"). Different backends expose EXIF under different key sets, so
// resolution lists work over this interface rather than a library type.
type TagSource interface {
	// Get returns the rendered value of the named tag, and whether the tag
	// is present. An empty rendering is treated as absent by the resolvers.
	Get(name string) (string, bool)
}

// MapSource is a TagSource over a plain map, used in tests and for sources
// that already carry rendered values.
type MapSource map[string]string

func (m MapSource) Get(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

// ExifSource adapts a decoded goexif block to the TagSource interface.
type ExifSource struct {
	x *exif.Exif
}

// NewExifSource wraps a decoded EXIF block. A nil block is a valid, empty
// source.
func NewExifSource(x *exif.Exif) *ExifSource {
	return &ExifSource{x: x}
}

func (s *ExifSource) Get(name string) (string, bool) {
	if s == nil || s.x == nil {
		return "", false
	}
	tag, err := s.x.Get(exif.FieldName(name))
	if err != nil || tag == nil {
		return "", false
	}
	return renderTag(tag)
}

// renderTag normalizes a TIFF tag value to the string form the resolvers
// operate on.
func renderTag(tag *tiff.Tag) (string, bool) {
	switch tag.Format() {
	case tiff.StringVal:
		s, err := tag.StringVal()
		if err != nil {
			return "", false
		}
		// ASCII values frequently carry trailing NULs
		s = strings.TrimSpace(strings.TrimRight(s, "\x00"))
		return s, s != ""
	case tiff.RatVal:
		parts := make([]string, 0, tag.Count)
		for i := 0; i < int(tag.Count); i++ {
			num, den, err := tag.Rat2(i)
			if err != nil {
				return "", false
			}
			parts = append(parts, fmt.Sprintf("%d/%d", num, den))
		}
		return strings.Join(parts, " "), len(parts) > 0
	case tiff.IntVal:
		parts := make([]string, 0, tag.Count)
		for i := 0; i < int(tag.Count); i++ {
			v, err := tag.Int(i)
			if err != nil {
				return "", false
			}
			parts = append(parts, fmt.Sprintf("%d", v))
		}
		return strings.Join(parts, " "), len(parts) > 0
	default:
		s := strings.Trim(tag.String(), `"`)
		return s, s != ""
	}
}

// ResolveString pulls the first present, non-empty value among keys.
// A tag that is present but renders empty counts as absent.
func ResolveString(ts TagSource, keys ...string) *string {
	for _, key := range keys {
		if v, ok := ts.Get(key); ok && v != "" {
			return &v
		}
	}
	return nil
}

// ResolveInt resolves like ResolveString and parses the winner as an
// integer; unparseable or absent values yield nil.
func ResolveInt(ts TagSource, keys ...string) *int {
	v := ResolveString(ts, keys...)
	if v == nil {
		return nil
	}
	var n int
	if _, err := fmt.Sscanf(*v, "%d", &n); err != nil {
		return nil
	}
	return &n
}
