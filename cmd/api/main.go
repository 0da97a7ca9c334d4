package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"conferencecentral/config"
	authadapter "conferencecentral/internal/adapters/auth"
	emailadapter "conferencecentral/internal/adapters/email"
	"conferencecentral/internal/cache"
	"conferencecentral/internal/database"
	deliveryhttp "conferencecentral/internal/delivery/http"
	"conferencecentral/internal/delivery/http/controllers"
	"conferencecentral/internal/delivery/http/middleware"
	"conferencecentral/internal/metrics"
	"conferencecentral/internal/repository/postgres"
	"conferencecentral/internal/services"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := config.NewLogger()

	if err := database.RunMigrations(cfg.DBUrl); err != nil {
		logger.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	db, err := database.Open(cfg.DBUrl)
	if err != nil {
		logger.Error("database open failed", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		logger.Error("database ping failed", "error", err)
		os.Exit(1)
	}

	// Repositories
	userRepo := postgres.NewUserRepository(db)
	profileRepo := postgres.NewProfileRepository(db)
	conferenceRepo := postgres.NewConferenceRepository(db)
	sessionRepo := postgres.NewSessionRepository(db)
	registrationRepo := postgres.NewRegistrationRepository(db)

	// Infrastructure
	store := cache.NewStore(time.Minute)
	defer store.Close()
	collector := metrics.NewCollector()
	jwtManager := authadapter.NewJWTManager(cfg.JWTSecret)
	hasher := authadapter.NewBcryptHasher(10)
	mailer, err := emailadapter.NewMailer(emailadapter.MailerConfig{
		Provider:    cfg.EmailProvider,
		FromAddress: cfg.EmailFromAddress,
		FromName:    cfg.EmailFromName,
		SES: emailadapter.SESConfig{
			Region:             cfg.SESRegion,
			AccessKeyID:        cfg.SESAccessKeyID,
			SecretAccessKey:    cfg.SESSecretAccessKey,
			InsecureSkipVerify: cfg.SESInsecureSkipVerify,
		},
	})
	if err != nil {
		logger.Error("mailer init failed", "error", err)
		os.Exit(1)
	}

	// Services
	timeout := cfg.ContextTimeout
	emailService := services.NewEmailService(mailer, emailadapter.NewTemplateRenderer(), logger)
	authService := services.NewAuthService(userRepo, hasher, jwtManager, cfg.JWTExpiry, timeout)
	profileService := services.NewProfileService(profileRepo, userRepo, sessionRepo, timeout)
	announcementService := services.NewAnnouncementService(conferenceRepo, store, timeout)
	conferenceService := services.NewConferenceService(conferenceRepo, profileRepo, profileService, emailService, collector, logger, timeout)
	sessionService := services.NewSessionService(sessionRepo, conferenceRepo, store, logger, timeout)
	registrationService := services.NewRegistrationService(registrationRepo, conferenceRepo, profileRepo, profileService, announcementService, collector, logger, timeout)

	// HTTP
	limiter := middleware.NewRateLimiter(middleware.DefaultRateLimiterConfig())
	defer limiter.Stop()

	mux := deliveryhttp.NewRouter(deliveryhttp.Controllers{
		Auth:         controllers.NewAuthController(logger, authService),
		Conference:   controllers.NewConferenceController(logger, conferenceService),
		Registration: controllers.NewRegistrationController(logger, registrationService),
		Session:      controllers.NewSessionController(logger, sessionService),
		Profile:      controllers.NewProfileController(logger, profileService),
		Announcement: controllers.NewAnnouncementController(logger, announcementService),
	}, jwtManager, limiter, collector.Handler())

	var handler http.Handler = mux
	handler = middleware.CORS(cfg.CORSAllowedOrigins, handler)
	handler = middleware.LoggingMiddleware(logger, handler)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "port", cfg.Port, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Error("server error", "error", err)
		os.Exit(1)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}
