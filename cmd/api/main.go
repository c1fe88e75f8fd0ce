package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"paperhub/docs"
	"paperhub/internal/config"
	handlers "paperhub/internal/http/handler"
	"paperhub/internal/http/middleware"
	"paperhub/internal/logging"
	tracing "paperhub/internal/otel"
	"paperhub/internal/service"
)

func fatal(log *logging.Logger, msg string, err error) {
	log.Error(msg, err, nil)
	os.Exit(1)
}

// @title PaperHub API
// @version 1.0
// @description Upload, browse, search and download question papers.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	loc := cfg.Location()
	log := logging.New(os.Stdout, loc)
	logging.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracer, err := tracing.Init(ctx, log)
	if err != nil {
		fatal(log, "tracing_init_failed", err)
	}

	store, err := newStorage(cfg)
	if err != nil {
		fatal(log, "storage_init_failed", err)
	}
	repo, closeCatalog, err := newCatalog(ctx, cfg, log)
	if err != nil {
		fatal(log, "catalog_init_failed", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		fatal(log, "metrics_init_failed", err)
	}
	paperMetrics, err := service.NewMetrics(reg)
	if err != nil {
		fatal(log, "metrics_init_failed", err)
	}

	paperSvc := service.NewPaperService(store, repo, service.Options{
		MaxUploadBytes: cfg.Upload.MaxBytes,
		Defaults:       cfg.Defaults,
		Location:       loc,
		Logger:         log,
		Metrics:        paperMetrics,
	})

	app := fiber.New(fiber.Config{
		AppName:               "paperhub",
		BodyLimit:             bodyLimit(cfg.Upload.MaxBytes),
		ErrorHandler:          handlers.ErrorHandler(),
		DisableStartupMessage: true,
	})

	// RequestID first so every later middleware and handler can read it
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware(otelfiber.WithNext(func(c *fiber.Ctx) bool {
		return c.Path() == middleware.MetricsPath
	})))
	app.Use(middleware.Logger())
	app.Use(httpMetrics.Handler())

	app.Get(middleware.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	handlers.RegisterRoutes(app, paperSvc, repo, store)
	mountUploads(app, cfg, store)

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	// Front-end assets; registered last so API routes win.
	app.Static("/", cfg.PublicDir)

	addr := ":" + cfg.Port
	go func() {
		log.Info("server_started", map[string]any{
			"addr":            addr,
			"app_host":        cfg.AppHost,
			"storage_backend": cfg.StorageBackend,
			"catalog_backend": cfg.CatalogBackend,
			"upload_dir":      cfg.Upload.Dir,
			"max_upload":      cfg.Upload.MaxBytes,
		})
		if err := app.Listen(addr); err != nil {
			log.Error("server_failed", err, map[string]any{"addr": addr})
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("server_stopping", nil)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("server_shutdown_failed", err, nil)
	}
	if err := closeCatalog(); err != nil {
		log.Error("catalog_close_failed", err, nil)
	}

	tctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdownTracer(tctx); err != nil {
		log.Error("tracing_shutdown_failed", err, nil)
	}

	log.Info("server_stopped", nil)
}
