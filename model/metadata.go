package model

import (
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultMimeType is assumed when a source supplies none.
const DefaultMimeType = "image/jpeg"

// Metadata is the normalized record extracted from one image. Optional
// fields are pointers so that an absent tag persists as NULL; everything
// else carries a documented default. Records are fully populated at
// construction and never mutated afterwards.
type Metadata struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Owner       uuid.UUID `db:"owner" json:"owner"`
	FilePath    string    `db:"file_path" json:"file_path"`
	FileSize    int64     `db:"file_size" json:"file_size"`
	CreateDate  time.Time `db:"create_date" json:"create_date"`
	CreateDayID int       `db:"create_day_id" json:"create_day_id"`
	MimeType    string    `db:"mime_type" json:"mime_type"`
	ImageWidth  int       `db:"image_width" json:"image_width"`
	ImageHeight int       `db:"image_height" json:"image_height"`
	CameraMake  *string   `db:"camera_make" json:"camera_make"`
	CameraModel *string   `db:"camera_model" json:"camera_model"`
	Artist      *string   `db:"artist" json:"artist"`
	ISOSpeed    *int      `db:"iso_speed" json:"iso_speed"`

	// Aperture is the conventional f-stop rendering, e.g. "f/1.8".
	Aperture *string `db:"aperture" json:"aperture"`

	// ShutterSpeed is the fractional-second rendering, e.g. "1/15 sec",
	// alongside the raw APEX rational it was derived from.
	ShutterSpeed            *string `db:"shutter_speed" json:"shutter_speed"`
	ShutterSpeedNumerator   *int    `db:"shutter_speed_numerator" json:"shutter_speed_numerator"`
	ShutterSpeedDenominator *int    `db:"shutter_speed_denominator" json:"shutter_speed_denominator"`

	// FocalLength is the 35mm-equivalent rendering, e.g. "27mm", alongside
	// the raw rational focal length.
	FocalLength            *string `db:"focal_length" json:"focal_length"`
	FocalLengthNumerator   *int    `db:"focal_length_numerator" json:"focal_length_numerator"`
	FocalLengthDenominator *int    `db:"focal_length_denominator" json:"focal_length_denominator"`

	// Decimal degrees / meters. Absent coordinates resolve to 0, which
	// conflates "unknown" with the equator and prime meridian; kept for
	// compatibility with existing rows.
	GPSLat float64 `db:"gps_lat" json:"gps_lat"`
	GPSLon float64 `db:"gps_lon" json:"gps_lon"`
	GPSAlt float64 `db:"gps_alt" json:"gps_alt"`

	GPSDateTime *time.Time `db:"gps_date_time" json:"gps_date_time"`
}

var (
	columnsOnce sync.Once
	columnNames []string
)

// Columns returns the column names of the metadata schema in struct
// declaration order, derived once from the db struct tags. The SQL builders
// use this as their single source of truth, so adding a field here needs no
// change beyond the dialect type maps.
func Columns() []string {
	columnsOnce.Do(func() {
		t := reflect.TypeOf(Metadata{})
		for i := 0; i < t.NumField(); i++ {
			tag := t.Field(i).Tag.Get("db")
			if tag != "" {
				columnNames = append(columnNames, tag)
			}
		}
	})
	return columnNames
}

// Values returns the record's field values aligned with Columns(). Nil
// pointers surface as nil so they bind as SQL NULL.
func (m *Metadata) Values() []any {
	v := reflect.ValueOf(*m)
	t := v.Type()
	vals := make([]any, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("db") == "" {
			continue
		}
		f := v.Field(i)
		if f.Kind() == reflect.Pointer {
			if f.IsNil() {
				vals = append(vals, nil)
				continue
			}
			f = f.Elem()
		}
		vals = append(vals, f.Interface())
	}
	return vals
}

// Map returns column name → value, nil for absent optionals.
func (m *Metadata) Map() map[string]any {
	cols := Columns()
	vals := m.Values()
	out := make(map[string]any, len(cols))
	for i, c := range cols {
		out[c] = vals[i]
	}
	return out
}

// Equal reports whether every field of both records matches. Timestamps are
// compared by instant, optionals by pointed-to value.
func (m *Metadata) Equal(other *Metadata) bool {
	if other == nil {
		return false
	}
	return m.ID == other.ID &&
		m.Owner == other.Owner &&
		m.FilePath == other.FilePath &&
		m.FileSize == other.FileSize &&
		m.CreateDate.Equal(other.CreateDate) &&
		m.CreateDayID == other.CreateDayID &&
		m.MimeType == other.MimeType &&
		m.ImageWidth == other.ImageWidth &&
		m.ImageHeight == other.ImageHeight &&
		equalPtr(m.CameraMake, other.CameraMake) &&
		equalPtr(m.CameraModel, other.CameraModel) &&
		equalPtr(m.Artist, other.Artist) &&
		equalPtr(m.ISOSpeed, other.ISOSpeed) &&
		equalPtr(m.Aperture, other.Aperture) &&
		equalPtr(m.ShutterSpeed, other.ShutterSpeed) &&
		equalPtr(m.ShutterSpeedNumerator, other.ShutterSpeedNumerator) &&
		equalPtr(m.ShutterSpeedDenominator, other.ShutterSpeedDenominator) &&
		equalPtr(m.FocalLength, other.FocalLength) &&
		equalPtr(m.FocalLengthNumerator, other.FocalLengthNumerator) &&
		equalPtr(m.FocalLengthDenominator, other.FocalLengthDenominator) &&
		m.GPSLat == other.GPSLat &&
		m.GPSLon == other.GPSLon &&
		m.GPSAlt == other.GPSAlt &&
		equalTimePtr(m.GPSDateTime, other.GPSDateTime)
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
