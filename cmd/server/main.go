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

	"go.uber.org/zap"

	noopcache "quotecrm/internal/cache/noop"
	rediscache "quotecrm/internal/cache/redis"
	"quotecrm/internal/config"
	noopemail "quotecrm/internal/email/noop"
	sesemail "quotecrm/internal/email/ses"
	"quotecrm/internal/handler"
	"quotecrm/internal/logger"
	"quotecrm/internal/pdf"
	"quotecrm/internal/port"
	"quotecrm/internal/repository/postgres"
	"quotecrm/internal/router"
	"quotecrm/internal/service"
	localstorage "quotecrm/internal/storage/local"
	s3storage "quotecrm/internal/storage/s3"
)

const mediaPath = "/media"

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zapLog := logger.New(cfg.Log)
	defer func() { _ = zapLog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.DB.IsSQLite() {
		if err := postgres.MigrateUp(&cfg.DB); err != nil {
			return fmt.Errorf("failed to migrate sqlite database: %w", err)
		}
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	txManager := postgres.NewTxManager(db)
	userRepo := postgres.NewUserRepo(db)
	clientRepo := postgres.NewClientRepo(db)
	leadRepo := postgres.NewLeadRepo(db)
	estimationRepo := postgres.NewEstimationRepo(db)
	invoiceRepo := postgres.NewInvoiceRepo(db)
	paymentRepo := postgres.NewPaymentRepo(db)
	settingsRepo := postgres.NewSettingsRepo(db)
	reportRepo := postgres.NewReportRepo(db)
	statsRepo := postgres.NewStatsRepo(db)

	// Initialize infrastructure
	storage, err := newStorage(ctx, cfg)
	if err != nil {
		return err
	}
	sender, err := newEmailSender(ctx, cfg, zapLog)
	if err != nil {
		return err
	}
	capCache, err := newCapabilityCache(ctx, cfg, zapLog)
	if err != nil {
		return err
	}

	// Initialize services
	settingsSvc := service.NewSettingsService(txManager, settingsRepo, cfg.Company)
	settings, err := settingsSvc.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	renderer := pdf.NewRenderer(settings.Company)

	numberingSvc := service.NewNumberingService(settingsRepo)
	capSvc := service.NewCapabilityService(userRepo, txManager, capCache, zapLog)
	authSvc := service.NewAuthService(userRepo, cfg.JWT)
	userSvc := service.NewUserService(userRepo, capSvc)
	clientSvc := service.NewClientService(clientRepo)
	leadSvc := service.NewLeadService(txManager, leadRepo, clientRepo, estimationRepo, numberingSvc)
	estimationSvc := service.NewEstimationService(
		txManager, estimationRepo, clientRepo, leadRepo, invoiceRepo,
		numberingSvc, settingsSvc, storage, cfg.Storage.MaxFileSizeMB<<20, zapLog,
	)
	invoiceSvc := service.NewInvoiceService(txManager, invoiceRepo, estimationRepo, paymentRepo, numberingSvc, zapLog)
	paymentSvc := service.NewPaymentService(txManager, invoiceRepo, paymentRepo, zapLog)
	documentSvc := service.NewDocumentService(
		estimationRepo, invoiceRepo, clientRepo, settingsSvc,
		storage, sender, renderer, cfg.S3.PresignExpiry, zapLog,
	)
	reportSvc := service.NewReportService(reportRepo, estimationRepo, renderer)
	statsSvc := service.NewStatsService(statsRepo, leadRepo, estimationRepo)

	// Setup router
	r := router.Setup(zapLog, cfg.CORS, authSvc, capSvc, router.Handlers{
		Auth:       handler.NewAuthHandler(authSvc, userSvc, capSvc),
		User:       handler.NewUserHandler(userSvc, capSvc),
		Client:     handler.NewClientHandler(clientSvc, leadSvc),
		Lead:       handler.NewLeadHandler(leadSvc),
		Estimation: handler.NewEstimationHandler(estimationSvc, invoiceSvc),
		Invoice:    handler.NewInvoiceHandler(invoiceSvc, paymentSvc),
		Document:   handler.NewDocumentHandler(documentSvc),
		Report:     handler.NewReportHandler(reportSvc),
		Stats:      handler.NewStatsHandler(statsSvc),
		Settings:   handler.NewSettingsHandler(settingsSvc),
		Health:     handler.NewHealthHandler(db),
	})
	if cfg.Storage.Provider == "local" {
		r.Static(mediaPath, cfg.Storage.MediaRoot)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zapLog.Info("server starting", zap.String("addr", cfg.Server.Port), zap.String("db_driver", cfg.DB.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		zapLog.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
	}

	return nil
}

func newStorage(ctx context.Context, cfg *config.Config) (port.ObjectStorage, error) {
	if cfg.Storage.Provider == "s3" {
		storage, err := s3storage.NewS3Client(ctx, &cfg.S3)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		return storage, nil
	}
	storage, err := localstorage.NewLocalStorage(cfg.Storage.MediaRoot, cfg.Server.PublicBaseURL+mediaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize local storage: %w", err)
	}
	return storage, nil
}

func newEmailSender(ctx context.Context, cfg *config.Config, log *zap.Logger) (port.EmailSender, error) {
	if cfg.Email.Provider != "ses" {
		return noopemail.NewNoopSender(log), nil
	}
	sender, err := sesemail.NewSESSender(ctx, cfg.Email.Region, cfg.Email.FromAddress, cfg.Email.FromName)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize SES sender: %w", err)
	}
	return sender, nil
}

func newCapabilityCache(ctx context.Context, cfg *config.Config, log *zap.Logger) (port.CapabilityCache, error) {
	if cfg.Redis.Addr == "" {
		return noopcache.NewCapabilityCache(), nil
	}
	rdb, err := rediscache.NewClient(ctx, cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Info("capability cache enabled", zap.String("addr", cfg.Redis.Addr))
	return rediscache.NewCapabilityCache(rdb, cfg.Redis.CapabilityTTL), nil
}
