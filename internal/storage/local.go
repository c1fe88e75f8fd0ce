package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// localStorage keeps one file per object in a single directory.
// The directory is created on first use.
type localStorage struct {
	dir string
}

// NewLocal returns a Storage rooted at dir.
func NewLocal(dir string) (Storage, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("upload directory is required")
	}
	return &localStorage{dir: dir}, nil
}

func (s *localStorage) path(key string) (string, error) {
	if key == "" || key != filepath.Base(key) || key == "." || key == ".." {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.dir, key), nil
}

// tmpDir holds in-flight uploads, next to dir and outside the served tree.
func (s *localStorage) tmpDir() string {
	clean := filepath.Clean(s.dir)
	return filepath.Join(filepath.Dir(clean), "."+filepath.Base(clean)+".tmp")
}

// Put streams r into a temp file and links it into place once the copy is
// complete. Linking fails if the key already exists, so an object is never
// replaced.
func (s *localStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	ctx, span := tracer.Start(ctx, "storage.local.put",
		trace.WithAttributes(attribute.String("object_key", key)),
	)
	defer span.End()

	dst, err := s.path(key)
	if err != nil {
		return ObjectInfo{}, err
	}
	for _, d := range []string{s.dir, s.tmpDir()} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			span.RecordError(err)
			return ObjectInfo{}, fmt.Errorf("create upload dir: %w", err)
		}
	}

	tmp, err := os.CreateTemp(s.tmpDir(), "upload-*")
	if err != nil {
		span.RecordError(err)
		return ObjectInfo{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	n, err := io.Copy(tmp, r)
	if err != nil {
		_ = tmp.Close()
		span.RecordError(err)
		return ObjectInfo{}, fmt.Errorf("write object: %w", err)
	}
	if err := ctx.Err(); err != nil {
		_ = tmp.Close()
		return ObjectInfo{}, err
	}
	if err := tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		span.RecordError(err)
		return ObjectInfo{}, fmt.Errorf("chmod object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		span.RecordError(err)
		return ObjectInfo{}, fmt.Errorf("close object: %w", err)
	}
	if err := os.Link(tmpName, dst); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ObjectInfo{}, fmt.Errorf("%w: %q", ErrObjectExists, key)
		}
		span.RecordError(err)
		return ObjectInfo{}, fmt.Errorf("commit object: %w", err)
	}

	span.SetAttributes(attribute.Int64("object_size", n))
	return ObjectInfo{
		Key:          key,
		Size:         n,
		ContentType:  opt.ContentType,
		LastModified: time.Now(),
		Metadata:     opt.Metadata,
	}, nil
}

// Get opens the stored file. The caller must close the returned reader.
func (s *localStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	_, span := tracer.Start(ctx, "storage.local.get",
		trace.WithAttributes(attribute.String("object_key", key)),
	)
	defer span.End()

	p, err := s.path(key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	f, err := os.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ObjectInfo{}, ErrObjectNotFound
		}
		span.RecordError(err)
		return nil, ObjectInfo{}, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, err
	}
	return f, ObjectInfo{
		Key:          key,
		Size:         st.Size(),
		ContentType:  mime.TypeByExtension(filepath.Ext(key)),
		LastModified: st.ModTime(),
	}, nil
}

// Delete removes the stored file. A missing file is not an error.
func (s *localStorage) Delete(ctx context.Context, key string) error {
	_, span := tracer.Start(ctx, "storage.local.delete",
		trace.WithAttributes(attribute.String("object_key", key)),
	)
	defer span.End()

	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		span.RecordError(err)
		return err
	}
	return nil
}

// PresignGet is not supported; local files are served by the static route.
func (s *localStorage) PresignGet(context.Context, string, time.Duration) (string, error) {
	return "", ErrPresignUnsupported
}

// PingContext ensures the upload directory exists and is a directory.
func (s *localStorage) PingContext(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	st, err := os.Stat(s.dir)
	if err != nil {
		return err
	}
	if !st.IsDir() {
		return fmt.Errorf("%s is not a directory", s.dir)
	}
	return nil
}
