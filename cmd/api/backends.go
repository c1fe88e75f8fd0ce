package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"paperhub/internal/config"
	"paperhub/internal/database"
	"paperhub/internal/database/migration"
	handlers "paperhub/internal/http/handler"
	"paperhub/internal/logging"
	"paperhub/internal/repository"
	"paperhub/internal/repository/memory"
	"paperhub/internal/repository/postgres"
	"paperhub/internal/storage"
)

// multipartOverhead is added to the upload limit for the request body limit so
// boundaries and metadata fields do not count against the file itself.
const multipartOverhead = 1 << 20

func bodyLimit(maxUpload int64) int {
	return int(maxUpload) + multipartOverhead
}

// newStorage builds the file store selected by STORAGE_BACKEND.
func newStorage(cfg *config.AppConfig) (storage.Storage, error) {
	switch cfg.StorageBackend {
	case config.StorageLocal:
		return storage.NewLocal(cfg.Upload.Dir)
	case config.StorageMinIO:
		return storage.NewMinIO(cfg.MinIO)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// newCatalog builds the catalog selected by CATALOG_BACKEND. The returned
// close function releases whatever the catalog holds open.
func newCatalog(ctx context.Context, cfg *config.AppConfig, log *logging.Logger) (repository.PaperRepository, func() error, error) {
	switch cfg.CatalogBackend {
	case config.CatalogMemory:
		return memory.NewPaperMemory(), func() error { return nil }, nil
	case config.CatalogPostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to database: %w", err)
		}
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return postgres.NewPaperPostgres(db), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown catalog backend %q", cfg.CatalogBackend)
	}
}

// isHidden reports whether any segment of p is a dotfile.
func isHidden(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

// mountUploads serves stored files under /uploads: straight from disk for the
// local backend, through presigned redirects for object storage.
func mountUploads(app *fiber.App, cfg *config.AppConfig, store storage.Storage) {
	if cfg.StorageBackend == config.StorageLocal {
		app.Static("/uploads", cfg.Upload.Dir, fiber.Static{
			Next: func(c *fiber.Ctx) bool { return isHidden(c.Path()) },
		})
		return
	}
	expiry := time.Duration(cfg.MinIO.PresignExpirySec) * time.Second
	app.Get("/uploads/*", handlers.StoredObjectRedirect(store, expiry))
}
