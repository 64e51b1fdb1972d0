// Package processor drives the per-key pipeline: gate on upstream and sink
// state, download, extract, persist. Batches are sequential and one key's
// failure never aborts the rest.
package processor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime/debug"

	"github.com/google/uuid"

	"github.com/ebridges/metaproc/database"
	"github.com/ebridges/metaproc/extract"
	"github.com/ebridges/metaproc/loader"
	"github.com/ebridges/metaproc/model"
	"github.com/ebridges/metaproc/writer"
)

// Status is the outcome of processing one key.
type Status string

const (
	// StatusProcessed means the record was extracted and written.
	StatusProcessed Status = "processed"
	// StatusSkipped means the file_path already existed and no force
	// update was requested.
	StatusSkipped Status = "skipped"
	// StatusNotFound means the key is absent in the source store.
	StatusNotFound Status = "not_found"
)

// EventWriter receives failure events. The database-backed implementation
// lives in the database package.
type EventWriter interface {
	WriteEvent(ev database.ProcessorLogEvent) error
}

// Processor wires the source store, the metadata sink and the failure
// stream together.
type Processor struct {
	Loader loader.ImageLoader
	Writer writer.MetadataWriter

	// Events is optional; without it failures are only logged.
	Events EventWriter

	// ForceUpdate re-processes keys whose file_path already exists.
	ForceUpdate bool

	// Extract overrides the extraction step; nil means extract.FromFile.
	Extract func(key model.ImageKey, path string) (*model.Metadata, error)
}

// Summary aggregates one batch run.
type Summary struct {
	Processed int
	Skipped   int
	NotFound  int
	Failed    int
}

// ProcessKey runs the pipeline for one image key end-to-end.
func (p *Processor) ProcessKey(ctx context.Context, key model.ImageKey) (Status, error) {
	present, err := p.Loader.Exists(ctx, key.FilePath())
	if err != nil {
		return "", fmt.Errorf("failed to check source store for %s: %w", key, err)
	}
	if !present {
		log.Printf("%s not found in source store", key)
		return StatusNotFound, nil
	}

	written, err := p.Writer.Exists(key.FilePath())
	if err != nil {
		return "", err
	}
	if written && !p.ForceUpdate {
		log.Printf("%s already processed, skipping", key)
		return StatusSkipped, nil
	}

	temp, err := os.CreateTemp("", "metaproc-*."+key.Extension())
	if err != nil {
		return "", fmt.Errorf("failed to create temp file for %s: %w", key, err)
	}
	temp.Close()
	defer os.Remove(temp.Name())

	if err := p.Loader.Download(ctx, key.FilePath(), temp.Name()); err != nil {
		return "", err
	}

	extractFn := p.Extract
	if extractFn == nil {
		extractFn = extract.FromFile
	}
	md, err := extractFn(key, temp.Name())
	if err != nil {
		return "", err
	}

	id, err := p.Writer.Write(md)
	if err != nil {
		return "", err
	}
	log.Printf("wrote metadata for %s [%d] as %s", md.FilePath, md.CreateDayID, id)
	return StatusProcessed, nil
}

// ProcessBatch handles a batch of raw key paths sequentially. Malformed
// keys and per-key processing failures are recorded on the failure stream
// and do not abort the remaining keys.
func (p *Processor) ProcessBatch(ctx context.Context, paths []string) Summary {
	var s Summary
	for _, path := range paths {
		key, err := model.ParseImageKey(path)
		if err != nil {
			s.Failed++
			p.recordFailure(uuid.Nil, path, err)
			continue
		}

		status, err := p.ProcessKey(ctx, key)
		if err != nil {
			s.Failed++
			p.recordFailure(key.OwnerID(), key.FilePath(), err)
			continue
		}
		switch status {
		case StatusProcessed:
			s.Processed++
		case StatusSkipped:
			s.Skipped++
		case StatusNotFound:
			s.NotFound++
		}
	}
	log.Printf("processed %d records with %d errors", s.Processed, s.Failed)
	return s
}

func (p *Processor) recordFailure(owner uuid.UUID, path string, err error) {
	log.Printf("failed to process %s: %v", path, err)
	if p.Events == nil {
		return
	}
	ev := database.ProcessorLogEvent{
		ID:        uuid.New(),
		Owner:     owner,
		FilePath:  path,
		ErrorCode: errorCode(err),
		Message:   err.Error(),
		Reason:    string(debug.Stack()),
	}
	if err := p.Events.WriteEvent(ev); err != nil {
		log.Printf("failed to record failure event for %s: %v", path, err)
	}
}

// errorCode names the failure class for the event stream.
func errorCode(err error) string {
	switch {
	case errors.Is(err, model.ErrKeyFormat):
		return "key_format"
	case errors.Is(err, model.ErrUnsupportedExtension):
		return "unsupported_extension"
	case errors.Is(err, extract.ErrMissingCreateDate):
		return "missing_create_date"
	case errors.Is(err, loader.ErrKeyNotFound):
		return "key_not_found"
	default:
		return "processing_error"
	}
}
