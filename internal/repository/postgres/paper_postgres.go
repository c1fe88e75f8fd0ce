package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"paperhub/internal/model"
	"paperhub/internal/repository"
)

const uniqueViolation = "23505"

const paperColumns = `id, title, subject, year, semester, university,
	stored_filename, original_filename, mime_type, size_bytes, uploaded_at, download_count`

// PaperPostgres is a PostgreSQL implementation of repository.PaperRepository.
// Insertion order is kept by the seq column.
type PaperPostgres struct {
	db *sql.DB
}

// NewPaperPostgres creates a new PaperPostgres repository.
func NewPaperPostgres(db *sql.DB) *PaperPostgres {
	return &PaperPostgres{db: db}
}

var _ repository.PaperRepository = (*PaperPostgres)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPaper(row rowScanner) (*model.Paper, error) {
	var p model.Paper
	if err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Subject,
		&p.Year,
		&p.Semester,
		&p.University,
		&p.StoredFilename,
		&p.OriginalFilename,
		&p.MimeType,
		&p.SizeBytes,
		&p.UploadedAt,
		&p.DownloadCount,
	); err != nil {
		return nil, err
	}
	return &p, nil
}

// Append inserts a new paper row.
func (r *PaperPostgres) Append(ctx context.Context, p *model.Paper) error {
	const q = `
		INSERT INTO papers (` + paperColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := r.db.ExecContext(ctx, q,
		p.ID,
		p.Title,
		p.Subject,
		p.Year,
		p.Semester,
		p.University,
		p.StoredFilename,
		p.OriginalFilename,
		p.MimeType,
		p.SizeBytes,
		p.UploadedAt,
		p.DownloadCount,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return repository.ErrDuplicateID
		}
		return err
	}
	return nil
}

// List returns all papers in upload order.
func (r *PaperPostgres) List(ctx context.Context) ([]model.Paper, error) {
	const q = `SELECT ` + paperColumns + ` FROM papers ORDER BY seq ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Paper, 0)
	for rows.Next() {
		p, err := scanPaper(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// FindByID fetches a single paper by its ID.
func (r *PaperPostgres) FindByID(ctx context.Context, id string) (*model.Paper, error) {
	const q = `SELECT ` + paperColumns + ` FROM papers WHERE id = $1`
	p, err := scanPaper(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// IncrementDownload bumps the counter in a single UPDATE so concurrent calls never lose an increment.
func (r *PaperPostgres) IncrementDownload(ctx context.Context, id string) (*model.Paper, error) {
	const q = `
		UPDATE papers SET download_count = download_count + 1
		WHERE id = $1
		RETURNING ` + paperColumns
	p, err := scanPaper(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// PingContext checks database connectivity.
func (r *PaperPostgres) PingContext(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
