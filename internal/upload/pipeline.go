// Package upload runs the photo upload pipeline: validate the request,
// write the blob, then record the metadata row.
//
// Each step runs once. Nothing is retried, and a blob whose metadata insert
// fails is left in place.
package upload

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/petermazzocco/go-photo-gallery/models"
)

// MaxFileSize is the largest accepted upload, in bytes.
const MaxFileSize = 5 << 20

type Stage string

const (
	StageValidating         Stage = "validating"
	StageWritingBlob        Stage = "writing_blob"
	StagePersistingMetadata Stage = "persisting_metadata"
	StageDone               Stage = "done"
)

var (
	ErrBadRequest            = errors.New("user id and photo are required")
	ErrPayloadTooLarge       = errors.New("photo exceeds size limit")
	ErrUploadFailed          = errors.New("upload failed")
	ErrMetadataPersistFailed = errors.New("failed to save photo")
)

// StageError is the Failed state: it records the stage that failed and
// unwraps to both the failure kind and the underlying cause.
type StageError struct {
	Stage Stage
	Kind  error
	Err   error
}

func (e *StageError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Stage, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %v", e.Stage, e.Kind, e.Err)
}

func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

type File struct {
	Name        string
	ContentType string
	// Size is the size the client declared; Data may be shorter if the
	// reader stopped early at the limit.
	Size int64
	Data []byte
}

type Request struct {
	UserID    string
	PhotoName string
	File      *File
}

type Result struct {
	URL   string
	Photo *models.Photo
}

type BlobWriter interface {
	Write(ctx context.Context, objectName string, data []byte, contentType string) (string, error)
}

type PhotoInserter interface {
	Insert(ctx context.Context, userID uint, url, name string) (*models.Photo, error)
}

type Observer interface {
	ObserveUpload(stage, outcome string)
	ObserveBlobWrite(d time.Duration)
	OrphanedBlob()
}

type Pipeline struct {
	blobs    BlobWriter
	photos   PhotoInserter
	observer Observer
	log      *slog.Logger
}

// New returns a pipeline. observer and log may be nil.
func New(blobs BlobWriter, photos PhotoInserter, observer Observer, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{blobs: blobs, photos: photos, observer: observer, log: log}
}

func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	userID, err := validate(req)
	if err != nil {
		return nil, p.fail(StageValidating, err, nil)
	}

	start := time.Now()
	url, err := p.blobs.Write(ctx, req.File.Name, req.File.Data, req.File.ContentType)
	if p.observer != nil {
		p.observer.ObserveBlobWrite(time.Since(start))
	}
	if err != nil {
		p.log.ErrorContext(ctx, "blob write failed", "object", req.File.Name, "err", err)
		return nil, p.fail(StageWritingBlob, ErrUploadFailed, err)
	}

	name := strings.TrimSpace(req.PhotoName)
	if name == "" {
		name = req.File.Name
	}
	photo, err := p.photos.Insert(ctx, userID, url, name)
	if err != nil {
		p.log.WarnContext(ctx, "metadata insert failed, blob orphaned", "object", req.File.Name, "url", url, "err", err)
		if p.observer != nil {
			p.observer.OrphanedBlob()
		}
		return nil, p.fail(StagePersistingMetadata, ErrMetadataPersistFailed, err)
	}

	if p.observer != nil {
		p.observer.ObserveUpload(string(StageDone), "success")
	}
	p.log.InfoContext(ctx, "photo uploaded", "user_id", userID, "photo_id", photo.ID, "url", url)
	return &Result{URL: url, Photo: photo}, nil
}

func validate(req Request) (uint, error) {
	rawID := strings.TrimSpace(req.UserID)
	if rawID == "" || req.File == nil || req.File.Name == "" {
		return 0, ErrBadRequest
	}
	id, err := strconv.ParseUint(rawID, 10, strconv.IntSize)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid user id %q", ErrBadRequest, rawID)
	}
	if req.File.Size > MaxFileSize || len(req.File.Data) > MaxFileSize {
		return 0, ErrPayloadTooLarge
	}
	return uint(id), nil
}

func (p *Pipeline) fail(stage Stage, kind, cause error) error {
	if p.observer != nil {
		p.observer.ObserveUpload(string(stage), "failure")
	}
	return &StageError{Stage: stage, Kind: kind, Err: cause}
}
