package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/bryanwahyu/collegeplan-api/internal/application"
	appent "github.com/bryanwahyu/collegeplan-api/internal/application/entitlements"
	apppay "github.com/bryanwahyu/collegeplan-api/internal/application/payments"
	apprep "github.com/bryanwahyu/collegeplan-api/internal/application/reports"
	"github.com/bryanwahyu/collegeplan-api/internal/config"
	"github.com/bryanwahyu/collegeplan-api/internal/domain/audit"
	"github.com/bryanwahyu/collegeplan-api/internal/domain/payment"
	"github.com/bryanwahyu/collegeplan-api/internal/domain/report"
	aiclient "github.com/bryanwahyu/collegeplan-api/internal/infra/ai/openai"
	memstore "github.com/bryanwahyu/collegeplan-api/internal/infra/db/memory"
	mysqlstore "github.com/bryanwahyu/collegeplan-api/internal/infra/db/mysql"
	pgstore "github.com/bryanwahyu/collegeplan-api/internal/infra/db/postgres"
	"github.com/bryanwahyu/collegeplan-api/internal/infra/httpserver"
	"github.com/bryanwahyu/collegeplan-api/internal/infra/payments/kryptogo"
	"github.com/bryanwahyu/collegeplan-api/internal/infra/payments/lemonsqueezy"
	"github.com/bryanwahyu/collegeplan-api/internal/infra/pdfrender"
	minioStore "github.com/bryanwahyu/collegeplan-api/internal/infra/storage"
	"github.com/bryanwahyu/collegeplan-api/internal/infra/token"
	"github.com/bryanwahyu/collegeplan-api/internal/middleware"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		logger.Fatal().Err(err).Msg("config load error")
	}

	ctx := context.Background()

	// pick report store backend
	var repo report.Repository
	var auditRepo audit.Repository
	checkers := map[string]middleware.HealthChecker{}
	switch cfg.Database.Driver {
	case "mysql":
		db, err := mysqlstore.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			logger.Fatal().Err(err).Msg("mysql connect error")
		}
		defer db.Close()
		repo = mysqlstore.NewReportRepository(db)
		auditRepo = mysqlstore.NewAuditRepository(db)
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	case "postgres":
		db, err := pgstore.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connect error")
		}
		defer db.Close()
		repo = pgstore.NewReportRepository(db)
		auditRepo = pgstore.NewAuditRepository(db)
		checkers["database"] = &middleware.DatabaseHealthChecker{DB: db}
	default:
		repo = memstore.NewReportStore()
		auditRepo = memstore.NewAuditStore()
	}

	// init optional artifact archival
	var artifacts report.ArtifactStore
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			logger.Fatal().Err(err).Msg("minio init error")
		}
		artifacts = store
	}

	// entitlement tokens
	tokens := token.NewJWT(cfg.Auth.JWTSecret, cfg.TokenTTL())

	// init services
	reportsSvc := &apprep.Service{
		Repo:      repo,
		Gen:       aiclient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAITimeout()),
		Renderer:  pdfrender.New(),
		Audit:     auditRepo,
		Artifacts: artifacts,
		Clock:     application.SystemClock{},
		Log:       logger.With().Str("service", "reports").Logger(),
		Model:     cfg.OpenAI.Model,
	}

	var paymentRepo payment.Repository = memstore.NewPaymentStore()
	paymentsSvc := &apppay.Service{
		Payments: paymentRepo,
		Card:     lemonsqueezy.New(cfg.LemonSqueezy.APIKey, cfg.LemonSqueezy.BaseURL),
		Crypto:   kryptogo.New(cfg.KryptoGO.APIKey, cfg.KryptoGO.BaseURL),
		Tokens:   tokens,
		Clock:    application.SystemClock{},
		Log:      logger.With().Str("service", "payments").Logger(),
		Amount:   cfg.KryptoGO.Amount,
		Currency: cfg.KryptoGO.Currency,
	}

	entitlementsSvc := &appent.Service{
		Issuer:    tokens,
		Verifier:  tokens,
		BetaCodes: cfg.Auth.BetaCodes,
	}

	// init router
	mux := chi.NewRouter()
	mux.Mount("/", httpserver.NewRouter(reportsSvc, paymentsSvc, entitlementsSvc, logger, httpserver.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RateCapacity:   cfg.RateLimit.Capacity,
		RateRefill:     cfg.RateLimit.RefillRate,
		HealthCheckers: checkers,
		Verifier:       tokens,
	}))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // generation holds the request open
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		logger.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info().Msg("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logger.Error().Err(err).Msg("shutdown error")
	}
}
