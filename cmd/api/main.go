package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/iiitbh/gatepass/internal/http/handlers"
	"github.com/iiitbh/gatepass/internal/mailer"
	"github.com/iiitbh/gatepass/internal/repo/postgres"
	"github.com/iiitbh/gatepass/internal/repo/redisrepo"
	"github.com/iiitbh/gatepass/internal/service"
	"github.com/iiitbh/gatepass/pkg/config"
	"github.com/iiitbh/gatepass/pkg/database"
	"github.com/iiitbh/gatepass/pkg/events"
	"github.com/iiitbh/gatepass/pkg/logger"
	mw "github.com/iiitbh/gatepass/pkg/middleware"
)

func main() {
	cfg := config.Load()

	// A missing token secret is a fatal startup condition, never a
	// per-request error.
	if cfg.Auth.JWTSecret == "" {
		logger.Error("JWT_SECRET is not set")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := redisrepo.NewClient(cfg.Redis.URL)
	if err != nil {
		logger.Error("failed to configure redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	eventBus, err := events.NewNATSEventBus(cfg.NATS.URL)
	if err != nil {
		logger.Error("failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer eventBus.Close()

	// Repositories
	studentRepo := postgres.NewStudentRepository(pool)
	employeeRepo := postgres.NewEmployeeRepository(pool)
	eventRepo := postgres.NewEventRepository(pool)
	otpLimiter := redisrepo.NewOTPLimiter(redisClient, cfg.Auth.OTPResendCooldown)

	// Services
	mailService := mailer.FromConfig(cfg)
	authService := service.NewAuthService(studentRepo, employeeRepo, mailService, otpLimiter, eventBus, cfg)
	studentService := service.NewStudentService(studentRepo, eventBus)
	directoryService := service.NewDirectoryService(employeeRepo, eventBus)
	gateLogService := service.NewGateLogService(eventRepo, employeeRepo, eventBus)

	h := handlers.New(authService, studentService, directoryService, gateLogService, cfg)

	r := chi.NewRouter()
	r.Use(mw.RequestID)
	r.Use(mw.Logging)
	r.Use(mw.Health)
	r.Use(mw.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Mount("/", h.Router())

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down gate pass API...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", "error", err)
		}
	}()

	logger.Info("starting gate pass API", "port", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
