package database

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/ebridges/metaproc/model"
)

// MetadataTable is the relation holding one row per unique file_path.
const MetadataTable = "media_item"

// Column SQL types for the metadata schema, keyed by model column name.
// The column set itself comes from model.Columns(), so adding a field to
// the record needs nothing here beyond a type entry.
var metadataColumnTypes = map[string]string{
	"id":                        "uuid primary key",
	"owner":                     "uuid not null",
	"file_path":                 "varchar unique not null",
	"file_size":                 "bigint",
	"create_date":               "timestamp without time zone not null",
	"create_day_id":             "integer not null",
	"mime_type":                 "varchar not null",
	"image_width":               "integer",
	"image_height":              "integer",
	"camera_make":               "varchar",
	"camera_model":              "varchar",
	"artist":                    "varchar",
	"iso_speed":                 "integer",
	"aperture":                  "varchar",
	"shutter_speed":             "varchar",
	"shutter_speed_numerator":   "integer",
	"shutter_speed_denominator": "integer",
	"focal_length":              "varchar",
	"focal_length_numerator":    "integer",
	"focal_length_denominator":  "integer",
	"gps_lat":                   "double precision",
	"gps_lon":                   "double precision",
	"gps_alt":                   "double precision",
	"gps_date_time":             "timestamp with time zone",
}

// sqlite stores UUIDs as text and has no timezone-aware timestamp type.
var sqliteTypeOverrides = map[string]string{
	"id":            "varchar primary key",
	"owner":         "varchar not null",
	"gps_date_time": "timestamp",
}

// MetadataStatements builds the parameterized SQL for one dialect. It is a
// pure function of the dialect; no statement here performs I/O.
type MetadataStatements struct {
	dialect Dialect
	builder sq.StatementBuilderType
}

// NewMetadataStatements validates the dialect and that every metadata
// column has a type mapping.
func NewMetadataStatements(d Dialect) (*MetadataStatements, error) {
	switch d {
	case DialectSqlite, DialectPostgres:
	default:
		return nil, fmt.Errorf("%w: [%s]", ErrUnsupportedDialect, d)
	}
	for _, col := range model.Columns() {
		if _, ok := metadataColumnTypes[col]; !ok {
			return nil, fmt.Errorf("no SQL type mapped for column %s", col)
		}
	}
	return &MetadataStatements{dialect: d, builder: builderFor(d)}, nil
}

// CreateTable returns the idempotent table-creation statement.
func (s *MetadataStatements) CreateTable() string {
	decls := make([]string, 0, len(model.Columns()))
	for _, col := range model.Columns() {
		colType := metadataColumnTypes[col]
		if s.dialect == DialectSqlite {
			if override, ok := sqliteTypeOverrides[col]; ok {
				colType = override
			}
		}
		decls = append(decls, fmt.Sprintf("%s %s", col, colType))
	}
	return fmt.Sprintf("create table if not exists %s (%s)", MetadataTable, strings.Join(decls, ", "))
}

// Insert binds every column of the record. Dialects with RETURNING yield
// the generated statement suffixed to return the primary key.
func (s *MetadataStatements) Insert(md *model.Metadata) (string, []any, error) {
	b := s.builder.Insert(MetadataTable).
		Columns(model.Columns()...).
		Values(md.Values()...)
	if s.dialect.returning() {
		b = b.Suffix("returning id")
	}
	return b.ToSql()
}

// Update binds every non-key column, keyed by primary id.
func (s *MetadataStatements) Update(md *model.Metadata) (string, []any, error) {
	cols := model.Columns()
	vals := md.Values()
	b := s.builder.Update(MetadataTable)
	for i, col := range cols {
		if col == "id" {
			continue
		}
		b = b.Set(col, vals[i])
	}
	b = b.Where(sq.Eq{"id": md.ID})
	if s.dialect.returning() {
		b = b.Suffix("returning id")
	}
	return b.ToSql()
}

// Delete removes a row by primary id.
func (s *MetadataStatements) Delete(id uuid.UUID) (string, []any, error) {
	b := s.builder.Delete(MetadataTable).Where(sq.Eq{"id": id})
	if s.dialect.returning() {
		b = b.Suffix("returning id")
	}
	return b.ToSql()
}

// Exists checks for a row by the unique business key.
func (s *MetadataStatements) Exists(filePath string) (string, []any, error) {
	return s.builder.Select("1").
		From(MetadataTable).
		Where(sq.Eq{"file_path": filePath}).
		ToSql()
}
