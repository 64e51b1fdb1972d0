package writer

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"

	"github.com/ebridges/metaproc/model"
)

// FilehandleMetadataWriter renders records through a Formatter onto an
// output stream: stdout by default, or any file handle.
type FilehandleMetadataWriter struct {
	output    io.Writer
	formatter Formatter
}

func NewFilehandleMetadataWriter(output io.Writer, formatter Formatter) *FilehandleMetadataWriter {
	return &FilehandleMetadataWriter{output: output, formatter: formatter}
}

func (w *FilehandleMetadataWriter) Write(md *model.Metadata) (uuid.UUID, error) {
	out, err := w.formatter(md)
	if err != nil {
		return uuid.Nil, err
	}
	if _, err := io.WriteString(w.output, out); err != nil {
		return uuid.Nil, fmt.Errorf("failed to write metadata for %s: %w", md.FilePath, err)
	}
	return md.ID, nil
}

// Exists always reports false; a stream has no notion of prior writes.
func (w *FilehandleMetadataWriter) Exists(string) (bool, error) {
	return false, nil
}

// Close closes the underlying stream unless it is stdout.
func (w *FilehandleMetadataWriter) Close() error {
	if w.output == os.Stdout {
		return nil
	}
	if c, ok := w.output.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
