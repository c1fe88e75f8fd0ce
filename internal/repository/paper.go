package repository

import (
	"context"
	"errors"

	"paperhub/internal/model"
)

var (
	// ErrNotFound is returned when no paper has the requested ID.
	ErrNotFound = errors.New("paper not found")
	// ErrDuplicateID is returned by Append when the ID is already in the catalog.
	ErrDuplicateID = errors.New("duplicate paper id")
)

// PaperRepository is the catalog of uploaded papers.
// Records are appended and never removed; only the download counter changes.
// Implementations must be safe for concurrent use.
type PaperRepository interface {
	// Append adds a record at the end of the catalog.
	Append(ctx context.Context, p *model.Paper) error

	// List returns every record in insertion order.
	List(ctx context.Context) ([]model.Paper, error)

	// FindByID returns a copy of the record, or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Paper, error)

	// IncrementDownload atomically adds one to the record's download counter
	// and returns the updated record, or ErrNotFound.
	IncrementDownload(ctx context.Context, id string) (*model.Paper, error)

	// PingContext reports whether the catalog is usable.
	PingContext(ctx context.Context) error
}
