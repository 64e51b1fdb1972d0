// Package writer renders Metadata records to output streams. The
// database-backed writer lives in the database package; both satisfy
// MetadataWriter so the processing pipeline is indifferent to the sink.
package writer

import (
	"github.com/google/uuid"

	"github.com/ebridges/metaproc/model"
)

// MetadataWriter is the sink contract for extracted records.
type MetadataWriter interface {
	// Write persists or renders one record and returns the id it is
	// stored under.
	Write(md *model.Metadata) (uuid.UUID, error)

	// Exists reports whether the business key has been written before.
	// Stream-backed writers always report false.
	Exists(filePath string) (bool, error)

	Close() error
}
