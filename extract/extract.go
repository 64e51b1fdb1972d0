package extract

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"
	"time"

	"github.com/rwcarlsen/goexif/exif"

	"github.com/ebridges/metaproc/model"
)

// ErrMissingCreateDate is returned when neither the EXIF block nor the XMP
// packet yields a usable creation timestamp. A record without a create date
// cannot be filed into a day, so this is fatal for the image.
var ErrMissingCreateDate = errors.New("unable to read create date")

// Source is the readable image container the extractor works over: a tag
// dictionary, an optional XMP packet, pixel dimensions and the byte length.
// Anything satisfying this shape can be extracted from, independent of how
// the bytes are stored.
type Source struct {
	Tags   TagSource
	XMP    string
	Width  int
	Height int
	Size   int64
}

// FromFile reads the image at path and extracts its normalized metadata
// record under the given key.
func FromFile(key model.ImageKey, path string) (*model.Metadata, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("extract: failed to stat %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("extract: failed to open %s: %w", path, err)
	}
	defer f.Close()

	src := Source{Size: info.Size()}

	// dimensions from the container header; tag values take precedence
	// when present
	if cfg, _, err := image.DecodeConfig(f); err == nil {
		src.Width = cfg.Width
		src.Height = cfg.Height
	}

	if _, err := f.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("extract: failed to seek %s: %w", path, err)
	}
	// a file without an EXIF block is still extractable via XMP
	x, err := exif.Decode(f)
	if err != nil {
		x = nil
	}
	src.Tags = NewExifSource(x)

	if _, err := f.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("extract: failed to seek %s: %w", path, err)
	}
	src.XMP = readXMPPacket(f)

	return FromSource(key, src)
}

// FromSource assembles a Metadata record from an already-opened image
// source. Optional fields that cannot be resolved take the record's
// documented defaults; a missing creation timestamp is fatal.
func FromSource(key model.ImageKey, src Source) (*model.Metadata, error) {
	mimeType, err := key.MimeType()
	if err != nil {
		return nil, err
	}

	createDate := extractCreateDateEXIF(src.Tags)
	if createDate == nil {
		createDate = extractCreateDateXMP(src.XMP)
	}
	if createDate == nil {
		return nil, fmt.Errorf("%w for %s", ErrMissingCreateDate, key.FilePath())
	}

	md := &model.Metadata{
		ID:          key.ImageID(),
		Owner:       key.OwnerID(),
		FilePath:    key.FilePath(),
		FileSize:    src.Size,
		MimeType:    mimeType,
		CreateDate:  *createDate,
		CreateDayID: model.CreateDayID(createDate),
	}

	md.Artist = ResolveString(src.Tags, TagArtist)
	md.CameraMake = ResolveString(src.Tags, TagMake)
	md.CameraModel = ResolveString(src.Tags, TagModel)
	md.ISOSpeed = ResolveInt(src.Tags, TagISOSpeedRatings)

	md.Aperture = ExtractAperture(src.Tags)
	md.ShutterSpeed, md.ShutterSpeedNumerator, md.ShutterSpeedDenominator = ExtractShutterSpeed(src.Tags)
	md.FocalLength, md.FocalLengthNumerator, md.FocalLengthDenominator = ExtractFocalLength(src.Tags)

	width, height := ExtractDimensions(src.Tags)
	if width == 0 {
		width = src.Width
	}
	if height == 0 {
		height = src.Height
	}
	md.ImageWidth = width
	md.ImageHeight = height

	md.GPSLat, md.GPSLon, md.GPSAlt = ExtractGPSCoords(src.Tags)
	md.GPSDateTime = ExtractGPSDateTime(src.Tags)

	return md, nil
}

// extractCreateDateEXIF resolves the creation timestamp from the EXIF tag
// priority list: digitized, original, then the generic image date.
func extractCreateDateEXIF(ts TagSource) *time.Time {
	v := ResolveString(ts, TagDateTimeDigitized, TagDateTimeOriginal, TagDateTime)
	if v == nil {
		return nil
	}
	return model.ParseDate(*v, nil)
}

// ExtractAperture converts an APEX aperture tag into the conventional
// f-stop rendering, e.g. "f/1.8".
func ExtractAperture(ts TagSource) *string {
	v := resolveValue(ts, TagApertureValue)
	n, d := ParseRational(v)
	a := ApexToAperture(RationalToFloat(n, d, 1))
	if a == nil {
		return nil
	}
	s := fmt.Sprintf("f/%.1f", *a)
	return &s
}

// ExtractShutterSpeed converts an APEX shutter-speed tag into its
// fractional-second rendering ("1/15 sec") plus the raw rational it was
// read from. A tag without a usable rational yields an all-nil triple.
func ExtractShutterSpeed(ts TagSource) (*string, *int, *int) {
	v := resolveValue(ts, TagShutterSpeedValue)
	n, d := ParseRational(v)
	num, den, ok := ApexToShutterSpeed(RationalToFloat(n, d, 1))
	if !ok || n == nil || d == nil {
		return nil, nil, nil
	}
	s := fmt.Sprintf("%d/%d sec", num, den)
	return &s, n, d
}

// ExtractFocalLength pairs the 35mm-equivalent focal length ("27mm") with
// the raw rational focal length. Either tag missing yields an all-nil
// triple rather than a partial result.
func ExtractFocalLength(ts TagSource) (*string, *int, *int) {
	f := ResolveString(ts, TagFocalLengthIn35mmFilm)
	n, d := ParseRational(resolveValue(ts, TagFocalLength))
	if f == nil || n == nil || d == nil {
		return nil, nil, nil
	}
	s := fmt.Sprintf("%smm", *f)
	return &s, n, d
}

// ExtractDimensions resolves pixel dimensions with per-vendor tag
// fallbacks: the direct width/length tags first, then the EXIF pixel
// dimension tags. Unresolved dimensions are 0.
func ExtractDimensions(ts TagSource) (int, int) {
	width := ResolveInt(ts, TagImageWidth, TagPixelXDimension)
	height := ResolveInt(ts, TagImageLength, TagPixelYDimension)
	return intOrZero(width), intOrZero(height)
}

// ExtractGPSCoords resolves latitude and longitude in decimal degrees and
// altitude in meters. Latitude is negated unless the reference is "N",
// longitude unless the reference is "E". An absent GPS block yields zero
// values, not an error.
func ExtractGPSCoords(ts TagSource) (lat, lon, alt float64) {
	lat = DegreesFromDMS(resolveValue(ts, TagGPSLatitude))
	if ref := ResolveString(ts, TagGPSLatitudeRef); ref == nil || *ref != "N" {
		lat = 0 - lat
	}

	lon = DegreesFromDMS(resolveValue(ts, TagGPSLongitude))
	if ref := ResolveString(ts, TagGPSLongitudeRef); ref == nil || *ref != "E" {
		lon = 0 - lon
	}

	n, d := ParseRational(resolveValue(ts, TagGPSAltitude))
	if f := RationalToFloat(n, d, 2); f != nil {
		alt = *f
	}
	return lat, lon, alt
}

// ExtractGPSDateTime combines the GPS date-stamp and time-stamp tags into a
// single UTC timestamp. Time components are rounded to whole seconds and
// zero-padded HH:MM:SS.
func ExtractGPSDateTime(ts TagSource) *time.Time {
	date := resolveValue(ts, TagGPSDateStamp)
	if date == "" {
		return nil
	}
	// some writers render the date with stray spaces after colons
	date = strings.ReplaceAll(date, " ", "")

	clock := extractGPSTime(ts)
	if clock == "" {
		return nil
	}
	return model.ParseDate(date+" "+clock, time.UTC)
}

func extractGPSTime(ts TagSource) string {
	v := resolveValue(ts, TagGPSTimeStamp)
	if v == "" {
		return ""
	}
	var parts []string
	for _, component := range strings.Fields(v) {
		n, d := ParseRational(component)
		f := RationalToFloat(n, d, 0)
		if f == nil {
			return ""
		}
		parts = append(parts, fmt.Sprintf("%02d", int(*f)))
	}
	if len(parts) != 3 {
		return ""
	}
	return strings.Join(parts, ":")
}

func resolveValue(ts TagSource, keys ...string) string {
	if v := ResolveString(ts, keys...); v != nil {
		return *v
	}
	return ""
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
