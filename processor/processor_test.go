package processor

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebridges/metaproc/database"
	"github.com/ebridges/metaproc/extract"
	"github.com/ebridges/metaproc/model"
)

type fakeLoader struct {
	objects map[string]bool
}

func (l *fakeLoader) Exists(ctx context.Context, key string) (bool, error) {
	return l.objects[key], nil
}

func (l *fakeLoader) Download(ctx context.Context, key, dest string) error {
	if !l.objects[key] {
		return fmt.Errorf("object %s not present", key)
	}
	return nil
}

type fakeWriter struct {
	existing map[string]bool
	written  []*model.Metadata
	writeErr error
}

func (w *fakeWriter) Write(md *model.Metadata) (uuid.UUID, error) {
	if w.writeErr != nil {
		return uuid.Nil, w.writeErr
	}
	w.written = append(w.written, md)
	return md.ID, nil
}

func (w *fakeWriter) Exists(filePath string) (bool, error) {
	return w.existing[filePath], nil
}

func (w *fakeWriter) Close() error { return nil }

type fakeEvents struct {
	events []database.ProcessorLogEvent
}

func (e *fakeEvents) WriteEvent(ev database.ProcessorLogEvent) error {
	e.events = append(e.events, ev)
	return nil
}

func fakeExtract(key model.ImageKey, path string) (*model.Metadata, error) {
	created := time.Date(2019, 2, 24, 20, 51, 15, 0, time.UTC)
	return &model.Metadata{
		ID:          key.ImageID(),
		Owner:       key.OwnerID(),
		FilePath:    key.FilePath(),
		CreateDate:  created,
		CreateDayID: model.CreateDayID(&created),
		MimeType:    model.DefaultMimeType,
	}, nil
}

func newTestProcessor(keys ...string) (*Processor, *fakeLoader, *fakeWriter, *fakeEvents) {
	l := &fakeLoader{objects: map[string]bool{}}
	for _, k := range keys {
		l.objects[k] = true
	}
	w := &fakeWriter{existing: map[string]bool{}}
	e := &fakeEvents{}
	p := &Processor{Loader: l, Writer: w, Events: e, Extract: fakeExtract}
	return p, l, w, e
}

func testKeyPath(t *testing.T) string {
	t.Helper()
	return uuid.New().String() + "/" + uuid.New().String() + ".jpg"
}

func TestProcessKeyProcessed(t *testing.T) {
	path := testKeyPath(t)
	p, _, w, _ := newTestProcessor(path)
	key, err := model.ParseImageKey(path)
	require.NoError(t, err)

	status, err := p.ProcessKey(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessed, status)
	require.Len(t, w.written, 1)
	assert.Equal(t, key.FilePath(), w.written[0].FilePath)
}

func TestProcessKeyNotFound(t *testing.T) {
	path := testKeyPath(t)
	p, _, w, _ := newTestProcessor()
	key, err := model.ParseImageKey(path)
	require.NoError(t, err)

	status, err := p.ProcessKey(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, StatusNotFound, status)
	assert.Empty(t, w.written)
}

func TestProcessKeySkipsAlreadyWritten(t *testing.T) {
	path := testKeyPath(t)
	p, _, w, _ := newTestProcessor(path)
	w.existing[path] = true

	key, err := model.ParseImageKey(path)
	require.NoError(t, err)

	status, err := p.ProcessKey(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, StatusSkipped, status)
	assert.Empty(t, w.written)
}

func TestProcessKeyForceUpdateOverridesSkip(t *testing.T) {
	path := testKeyPath(t)
	p, _, w, _ := newTestProcessor(path)
	w.existing[path] = true
	p.ForceUpdate = true

	key, err := model.ParseImageKey(path)
	require.NoError(t, err)

	status, err := p.ProcessKey(context.Background(), key)
	require.NoError(t, err)
	assert.Equal(t, StatusProcessed, status)
	assert.Len(t, w.written, 1)
}

func TestProcessBatchIsolatesFailures(t *testing.T) {
	good := []string{testKeyPath(t), testKeyPath(t), testKeyPath(t)}
	bad := "not-a-valid-key"

	p, _, w, e := newTestProcessor(good...)
	paths := []string{good[0], bad, good[1], good[2]}

	s := p.ProcessBatch(context.Background(), paths)
	assert.Equal(t, 3, s.Processed)
	assert.Equal(t, 1, s.Failed)
	assert.Len(t, w.written, 3)

	require.Len(t, e.events, 1)
	assert.Equal(t, "key_format", e.events[0].ErrorCode)
	assert.Equal(t, bad, e.events[0].FilePath)
	assert.Equal(t, uuid.Nil, e.events[0].Owner)
	assert.NotEmpty(t, e.events[0].Reason)
}

func TestProcessBatchRecordsExtractionFailure(t *testing.T) {
	path := testKeyPath(t)
	p, _, _, e := newTestProcessor(path)
	p.Extract = func(key model.ImageKey, _ string) (*model.Metadata, error) {
		return nil, fmt.Errorf("%w for %s", extract.ErrMissingCreateDate, key.FilePath())
	}

	s := p.ProcessBatch(context.Background(), []string{path})
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 0, s.Processed)

	require.Len(t, e.events, 1)
	assert.Equal(t, "missing_create_date", e.events[0].ErrorCode)
	assert.Equal(t, path, e.events[0].FilePath)
	assert.NotEqual(t, uuid.Nil, e.events[0].Owner)
}

func TestProcessBatchCountsStatuses(t *testing.T) {
	present := testKeyPath(t)
	absent := testKeyPath(t)
	skipped := testKeyPath(t)

	p, _, w, _ := newTestProcessor(present, skipped)
	w.existing[skipped] = true

	s := p.ProcessBatch(context.Background(), []string{present, absent, skipped})
	assert.Equal(t, Summary{Processed: 1, Skipped: 1, NotFound: 1}, s)
}

func TestProcessBatchWriteFailure(t *testing.T) {
	path := testKeyPath(t)
	p, _, w, e := newTestProcessor(path)
	w.writeErr = errors.New("disk full")

	s := p.ProcessBatch(context.Background(), []string{path})
	assert.Equal(t, 1, s.Failed)
	require.Len(t, e.events, 1)
	assert.Equal(t, "processing_error", e.events[0].ErrorCode)
}

func TestErrorCode(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected string
	}{
		{"key format", fmt.Errorf("wrap: %w", model.ErrKeyFormat), "key_format"},
		{"extension", fmt.Errorf("wrap: %w", model.ErrUnsupportedExtension), "unsupported_extension"},
		{"create date", fmt.Errorf("wrap: %w", extract.ErrMissingCreateDate), "missing_create_date"},
		{"unknown", errors.New("boom"), "processing_error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, errorCode(tc.err))
		})
	}
}
