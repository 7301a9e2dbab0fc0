// Package ingest prepares uploaded footage for reconstruction: uploads are
// copied into managed storage under a fresh ULID name and probed for
// summary metadata.
package ingest

import (
	"context"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	droneerrors "github.com/aboldguess/Nerfdrone/internal/errors"
)

// Source identifies the channel footage arrived through.
type Source string

const (
	SourceMobileUpload Source = "mobile_upload"
	SourceFileUpload   Source = "file_upload"
	SourceLiveStream   Source = "live_stream"
)

// ParseSource coerces arbitrary casing and padding into a valid source.
func ParseSource(value string) (Source, error) {
	switch Source(strings.ToLower(strings.TrimSpace(value))) {
	case SourceMobileUpload:
		return SourceMobileUpload, nil
	case SourceFileUpload:
		return SourceFileUpload, nil
	case SourceLiveStream:
		return SourceLiveStream, nil
	}
	return "", droneerrors.NewValidationf("Unsupported ingestion source: %s", value)
}

// Footage describes a stored video asset.
type Footage struct {
	ID           string    `json:"footage_id"`
	Path         string    `json:"path"`
	OriginalName string    `json:"original_name"`
	Source       Source    `json:"source"`
	FrameRate    float64   `json:"frame_rate"`
	FrameCount   int       `json:"frame_count"`
	ReceivedAt   time.Time `json:"received_at"`
}

// Ingestor persists uploaded footage and extracts summary metadata through
// its probe.
type Ingestor struct {
	dir   string
	probe Probe
}

// NewIngestor creates the storage directory and returns an ingestor. A nil
// probe degrades to zero metadata rather than failing uploads.
func NewIngestor(dir string, probe Probe) (*Ingestor, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, droneerrors.NewInternal(fmt.Errorf("failed to create footage directory: %w", err))
	}
	if probe == nil {
		probe = unavailableProbe{}
	}
	return &Ingestor{dir: dir, probe: probe}, nil
}

// Ingest copies the upload into managed storage and probes its metadata.
// The stored name is a fresh ULID plus the upload's extension, so callers
// cannot influence the path.
func (i *Ingestor) Ingest(ctx context.Context, originalName string, content io.Reader, source Source) (*Footage, error) {
	id, err := newULID()
	if err != nil {
		return nil, droneerrors.NewInternal(err)
	}
	ext := strings.ToLower(filepath.Ext(filepath.Base(originalName)))
	destination := filepath.Join(i.dir, id+ext)

	file, err := os.OpenFile(destination, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0600)
	if err != nil {
		return nil, droneerrors.NewInternal(fmt.Errorf("failed to create footage file: %w", err))
	}
	if _, err := io.Copy(file, content); err != nil {
		file.Close()
		os.Remove(destination)
		return nil, droneerrors.NewInternal(fmt.Errorf("failed to store footage: %w", err))
	}
	if err := file.Close(); err != nil {
		os.Remove(destination)
		return nil, droneerrors.NewInternal(fmt.Errorf("failed to finalize footage file: %w", err))
	}

	metadata, err := i.probe.Inspect(ctx, destination)
	if err != nil {
		return nil, droneerrors.NewValidationf("Unable to open video file: %s", destination)
	}

	return &Footage{
		ID:           id,
		Path:         destination,
		OriginalName: originalName,
		Source:       source,
		FrameRate:    metadata.FrameRate,
		FrameCount:   metadata.FrameCount,
		ReceivedAt:   time.Now().UTC(),
	}, nil
}

func newULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
