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
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/storely/herald/internal/api"
	"github.com/storely/herald/internal/circuitbreaker"
	"github.com/storely/herald/internal/config"
	"github.com/storely/herald/internal/dispatch"
	"github.com/storely/herald/internal/mail"
	"github.com/storely/herald/internal/metrics"
	"github.com/storely/herald/internal/observ"
	"github.com/storely/herald/internal/redis"
	"github.com/storely/herald/internal/render"
	"github.com/storely/herald/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, err := observ.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting herald gateway",
		zap.String("env", cfg.Env),
		zap.Int("port", cfg.Port),
		zap.String("mail_driver", cfg.MailDriver),
	)

	ctx := context.Background()

	// Storage backend
	storage, err := store.NewPostgres(ctx, store.PostgresConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Database: cfg.DBName,
		SSLMode:  cfg.DBSSLMode,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer storage.Close()

	logger.Info("database connection established",
		zap.String("host", cfg.DBHost),
		zap.Int("port", cfg.DBPort),
		zap.String("database", cfg.DBName),
	)

	// Redis unread-count cache. The store works without it, falling
	// back to direct count queries.
	var storeOpts []store.ServiceOption
	redisClient, err := redis.New(ctx, redis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, logger)
	if err != nil {
		logger.Warn("redis unavailable, unread-count cache disabled",
			zap.Error(err),
			zap.String("host", cfg.RedisHost),
		)
	} else {
		defer redisClient.Close()
		storeOpts = append(storeOpts, store.WithUnreadCache(redis.NewUnreadCache(redisClient, logger)))
	}

	notifications := store.NewService(storage, logger, storeOpts...)

	// Outbound mail transport
	mailer, err := buildMailer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create mailer: %w", err)
	}

	breaker := circuitbreaker.New(circuitbreaker.Config{Name: "mailer"}, logger)
	protected := mail.NewProtectedMailer(mailer, breaker, logger)

	renderer := render.New(cfg.StoreName, cfg.BaseURL)
	emails := mail.NewService(protected, renderer, logger)

	dispatcher := dispatch.New(notifications, emails, storage, dispatch.Config{
		BaseURL:          cfg.BaseURL,
		AdminRecipientID: cfg.AdminRecipientID,
	}, logger)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	// Custom logging middleware
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.Info("request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration_ms", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	})

	handler := api.NewHandler(logger, notifications, dispatcher)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/notifications", handler.ListNotifications)
		r.Get("/notifications/all", handler.ListAllNotifications)
		r.Get("/notifications/unread-count", handler.UnreadCount)
		r.Get("/notifications/stream", handler.StreamNotifications)
		r.Post("/notifications/read-all", handler.MarkAllRead)
		r.Post("/notifications/{id}/read", handler.MarkRead)
		r.Delete("/notifications/{id}", handler.DeleteNotification)

		r.Post("/events/order", handler.TriggerOrderEvent)
		r.Post("/events/quotation", handler.TriggerQuotationEvent)
		r.Post("/events/account", handler.TriggerAccountEvent)
		r.Post("/events/admin", handler.TriggerAdminEvent)
		r.Post("/events/product-launch", handler.TriggerProductLaunch)
	})

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Prometheus metrics endpoint
	r.Handle("/metrics", metrics.Handler())

	// Setup HTTP server. No WriteTimeout so the SSE stream can stay
	// open indefinitely.
	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     r,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	// Listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// buildMailer selects the outbound transport from config.
func buildMailer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (mail.Mailer, error) {
	switch cfg.MailDriver {
	case "smtp":
		return mail.NewSMTPMailer(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}, logger), nil
	case "ses":
		return mail.NewSESMailer(ctx, mail.SESConfig{
			Region:    cfg.AWSRegion,
			FromEmail: cfg.SESFromEmail,
		}, logger)
	default:
		return mail.NewLogMailer(logger), nil
	}
}
