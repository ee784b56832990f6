package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/MahmoudHadrab1/HU-Tech-Train-main/api/swagger"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/handler"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/repository"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/service"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/internal/upstream"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/cache"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/config"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/database"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/export"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/jobs"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/logger"
	"github.com/MahmoudHadrab1/HU-Tech-Train-main/pkg/storage"
)

// @title HU Tech Train Portal API
// @version 1.0.0
// @description Portal gateway for the Hashemite University training platform
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// keyValueStore backs sessions, apply attempts and the posts cache.
type keyValueStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPattern(ctx context.Context, pattern string) error
	Ping(ctx context.Context) error
	Close() error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	store, err := openStore(cfg, logr)
	if err != nil {
		logr.Fatal("failed to open session store", zap.Error(err))
	}
	defer store.Close() //nolint:errcheck

	metrics := service.NewMetricsService()
	backend := upstream.New(cfg.Upstream, upstream.WithObserver(metrics), upstream.WithLogger(logr))
	validate := validator.New()

	sessions := service.NewSessionService(backend, store, validate, metrics, logr, service.SessionConfig{
		Secret:         cfg.JWT.Secret,
		Expiration:     cfg.JWT.Expiration,
		Issuer:         cfg.JWT.Issuer,
		TTL:            cfg.Session.TTL,
		RehydrateDelay: cfg.Session.RehydrateDelay,
	})
	queue := jobs.NewQueue("session-refresh", sessions.HandleJob, jobs.QueueConfig{
		Workers:    cfg.Session.Workers,
		MaxRetries: 1,
		RetryDelay: time.Second,
		Logger:     logr,
	})
	sessions.UseScheduler(queue)

	attempts := service.NewAttemptStore(store, cfg.Session.TTL)
	postCache := service.NewCacheService(store, metrics, cfg.Cache.PostsTTL, logr, cfg.Cache.Enabled)
	posts := service.NewPostService(backend, attempts, postCache, cfg.Cache.PostsTTL, validate, logr)
	applications := service.NewApplicationService(backend, attempts, validate, logr, service.ApplicationConfig{
		AllowedCVMIMEs: cfg.Uploads.AllowedCVMIMEs,
		FileBaseURL:    cfg.Upstream.FileBaseURL,
	})

	files, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Fatal("failed to prepare report storage", zap.Error(err))
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
	reports := service.NewReportService(backend, export.NewPDFExporter(), files, signer, validate, logr, service.ReportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Reports.SignedURLTTL,
	})
	department := service.NewDepartmentService(backend, export.NewCSVExporter(), export.NewPDFExporter(), cfg.Upstream.FileBaseURL, logr)
	profile := service.NewProfileService(backend, validate, cfg.Upstream.FileBaseURL, logr)

	dependencies := map[string]handler.Pinger{"store": store}
	audit := service.NewAuditService(nil, metrics, logr)
	if cfg.Audit.Enabled {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Fatal("failed to connect audit database", zap.Error(err))
		}
		defer db.Close() //nolint:errcheck

		auditRepo := repository.NewAuditRepository(db)
		if err := auditRepo.EnsureSchema(context.Background()); err != nil {
			logr.Fatal("failed to prepare audit schema", zap.Error(err))
		}
		audit = service.NewAuditService(auditRepo, metrics, logr)
		dependencies["audit_db"] = auditRepo
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	queue.Start(ctx)
	defer queue.Stop()
	go reports.RunCleanup(ctx, cfg.Reports.CleanupInterval)

	handlers := handlerDeps{
		auth:       handler.NewAuthHandler(sessions),
		student:    handler.NewStudentHandler(posts, applications, reports, cfg.Uploads.MaxFileSizeBytes),
		company:    handler.NewCompanyHandler(posts, applications, reports, profile, cfg.Uploads.MaxFileSizeBytes),
		department: handler.NewDepartmentHandler(department, audit, cfg.Uploads.MaxFileSizeBytes),
		downloads:  handler.NewDownloadHandler(reports),
		metrics:    handler.NewMetricsHandler(metrics, dependencies),
	}
	router := newRouter(ctx, cfg, logr, sessions, metrics, audit, handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "upstream", cfg.Upstream.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func openStore(cfg *config.Config, logr *zap.Logger) (keyValueStore, error) {
	if cfg.Session.Store != config.SessionStoreRedis {
		return repository.NewMemoryRepository(), nil
	}
	client, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		return nil, err
	}
	return repository.NewCacheRepository(client, logr), nil
}
