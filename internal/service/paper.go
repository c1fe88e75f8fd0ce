package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"paperhub/internal/config"
	"paperhub/internal/logging"
	"paperhub/internal/model"
	"paperhub/internal/repository"
	"paperhub/internal/storage"
)

var tracer = otel.Tracer("paperhub/service")

var (
	ErrMissingFile     = errors.New("no file uploaded")
	ErrInvalidFileType = errors.New("only PDF and image files are allowed")
	ErrFileTooLarge    = errors.New("file exceeds the upload size limit")
	ErrNotFound        = errors.New("question paper not found")
	ErrQueryRequired   = errors.New("query is required")
	ErrIDRequired      = errors.New("id is required")
)

// PaperMetadata is the free-text description submitted with an upload.
// Empty fields are replaced by the configured defaults.
type PaperMetadata struct {
	Title      string
	Subject    string
	Year       string
	Semester   string
	University string
}

// UploadInput is one file submitted for intake.
type UploadInput struct {
	Reader      io.Reader
	Filename    string
	ContentType string
	// Size is the declared size in bytes, or -1 if unknown.
	Size     int64
	Metadata PaperMetadata
}

// PaperService defines the catalog use cases.
type PaperService interface {
	// Upload validates and stores the file, then appends its record to the catalog.
	// The stored file is removed again if the catalog append fails.
	Upload(ctx context.Context, in UploadInput) (*model.Paper, error)

	// List returns every paper in upload order.
	List(ctx context.Context) ([]model.Paper, error)

	// Get returns one paper by ID.
	Get(ctx context.Context, id string) (*model.Paper, error)

	// Open returns the paper and a reader over its stored bytes. The caller closes the reader.
	Open(ctx context.Context, id string) (*model.Paper, io.ReadCloser, error)

	// Search applies the structured filter.
	Search(ctx context.Context, f SearchFilter) ([]model.Paper, error)

	// AISearch applies the free-text relevance filter used by the chat assistant.
	AISearch(ctx context.Context, query string) (*AISearchResult, error)

	// RecordDownload increments the download counter and returns the updated paper.
	RecordDownload(ctx context.Context, id string) (*model.Paper, error)
}

// Options tune a PaperService. Zero values fall back to defaults.
type Options struct {
	MaxUploadBytes int64
	Defaults       config.PaperDefaults
	Location       *time.Location
	Logger         *logging.Logger
	Metrics        *Metrics
	Now            func() time.Time
}

type paperService struct {
	store    storage.Storage
	repo     repository.PaperRepository
	maxBytes int64
	defaults config.PaperDefaults
	loc      *time.Location
	log      *logging.Logger
	metrics  *Metrics
	now      func() time.Time
}

// NewPaperService constructs a new PaperService.
func NewPaperService(store storage.Storage, repo repository.PaperRepository, opts Options) PaperService {
	s := &paperService{
		store:    store,
		repo:     repo,
		maxBytes: opts.MaxUploadBytes,
		defaults: opts.Defaults,
		loc:      opts.Location,
		log:      opts.Logger,
		metrics:  opts.Metrics,
		now:      opts.Now,
	}
	if s.maxBytes <= 0 {
		s.maxBytes = DefaultMaxUploadBytes
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.log == nil {
		s.log = logging.Default()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

// newPaper builds the catalog record for a stored object, applying metadata defaults.
func (s *paperService) newPaper(in UploadInput, obj storage.ObjectInfo) *model.Paper {
	now := s.now()
	year := s.defaults.Year
	if year == "" {
		year = strconv.Itoa(now.In(s.loc).Year())
	}
	return &model.Paper{
		ID:               uuid.NewString(),
		Title:            orDefault(in.Metadata.Title, s.defaults.Title),
		Subject:          orDefault(in.Metadata.Subject, s.defaults.Subject),
		Year:             orDefault(in.Metadata.Year, year),
		Semester:         orDefault(in.Metadata.Semester, s.defaults.Semester),
		University:       orDefault(in.Metadata.University, s.defaults.University),
		StoredFilename:   obj.Key,
		OriginalFilename: in.Filename,
		MimeType:         in.ContentType,
		SizeBytes:        obj.Size,
		UploadedAt:       now.UTC(),
		DownloadCount:    0,
	}
}

func (s *paperService) Upload(ctx context.Context, in UploadInput) (*model.Paper, error) {
	if in.Reader == nil {
		s.metrics.upload(uploadMissingFile)
		return nil, ErrMissingFile
	}
	ext, err := ValidateFileType(in.Filename, in.ContentType)
	if err != nil {
		s.metrics.upload(uploadInvalidType)
		return nil, err
	}
	if in.Size > s.maxBytes {
		s.metrics.upload(uploadTooLarge)
		return nil, ErrFileTooLarge
	}

	key := NewStoredFilename(ext)
	ctx, span := tracer.Start(ctx, "paper.upload",
		trace.WithAttributes(
			attribute.String("object_key", key),
			attribute.String("content_type", in.ContentType),
			attribute.Int64("declared_size", in.Size),
		),
	)
	defer span.End()

	body := newCapReader(in.Reader, s.maxBytes)
	obj, err := s.store.Put(ctx, key, body, storage.PutObjectOptions{
		Size:        in.Size,
		ContentType: in.ContentType,
		Metadata: map[string]string{
			"original-filename": in.Filename,
		},
	})
	if err != nil {
		if body.exceeded || errors.Is(err, ErrFileTooLarge) {
			s.metrics.upload(uploadTooLarge)
			return nil, ErrFileTooLarge
		}
		span.RecordError(err)
		s.metrics.upload(uploadFailed)
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	paper := s.newPaper(in, obj)
	span.SetAttributes(attribute.String("paper_id", paper.ID))
	if err := s.repo.Append(ctx, paper); err != nil {
		span.RecordError(err)
		s.metrics.upload(uploadFailed)
		// Rollback: a record must never be missing its file, nor a file its record.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.log.Error("upload_rollback_failed", delErr, map[string]any{
				"component":  "service",
				"object_key": key,
			})
			return nil, fmt.Errorf("catalog append failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("catalog append failed: %w", err)
	}

	s.metrics.upload(uploadAccepted)
	return paper, nil
}

func (s *paperService) List(ctx context.Context) ([]model.Paper, error) {
	return s.repo.List(ctx)
}

func (s *paperService) Get(ctx context.Context, id string) (*model.Paper, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (s *paperService) Open(ctx context.Context, id string) (*model.Paper, io.ReadCloser, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.store.Get(ctx, p.StoredFilename)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("open stored file: %w", err)
	}
	return p, rc, nil
}

func (s *paperService) RecordDownload(ctx context.Context, id string) (*model.Paper, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	ctx, span := tracer.Start(ctx, "paper.record_download",
		trace.WithAttributes(attribute.String("paper_id", id)),
	)
	defer span.End()

	p, err := s.repo.IncrementDownload(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		span.RecordError(err)
		return nil, err
	}
	s.metrics.download()
	return p, nil
}
