package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"yamdb/database"
	"yamdb/internal/authz"
	"yamdb/internal/config"
	"yamdb/internal/logging"
	"yamdb/internal/mail"
	"yamdb/internal/microservices/http-api/handler"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("api server stopped")
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(ctx, db); err != nil {
		return err
	}

	enforcer, err := authz.NewEnforcer()
	if err != nil {
		return err
	}

	codes, rdb := confirmationStore(ctx, cfg, db)
	if rdb != nil {
		defer rdb.Close()
	}

	var sender mail.Sender = mail.LogSender{}
	if cfg.SMTPEnabled() {
		sender = mail.NewSMTPSender(mail.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
			UseTLS:   cfg.SMTPTLS,
			Timeout:  15 * time.Second,
		})
	} else {
		logging.Warn().Msg("SMTP_HOST not set, confirmation codes are written to the log")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	genreRepo := repository.NewGenreRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	titleRepo := repository.NewTitleRepo(db)
	reviewRepo := repository.NewReviewRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	limiter := middleware.NewRateLimiter(cfg.AuthRateLimit, cfg.AuthRateBurst)
	go limiter.RunCleanup(5*time.Minute, ctx.Done())

	router := handler.NewRouter(handler.RouterConfig{
		Auth:        service.NewAuthService(userRepo, codes, sender, cfg),
		Users:       service.NewUserService(userRepo, enforcer),
		Genres:      service.NewGenreService(genreRepo, enforcer),
		Categories:  service.NewCategoryService(categoryRepo, enforcer),
		Titles:      service.NewTitleService(titleRepo, genreRepo, categoryRepo, enforcer, cfg),
		Reviews:     service.NewReviewService(reviewRepo, titleRepo, enforcer),
		Comments:    service.NewCommentService(commentRepo, reviewRepo, enforcer),
		Enforcer:    enforcer,
		AuthLimiter: limiter,
		CORSOrigins: cfg.CORSOrigins,
		HealthCheck: database.Ping(db),
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Str("env", cfg.GoEnv).Msg("api server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logging.Info().Msg("received shutdown signal")
	case err := <-errChan:
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logging.Info().Msg("server stopped gracefully")
	return nil
}

// confirmationStore prefers Redis and falls back to the database table when
// Redis is not configured or not reachable. The returned client is nil unless
// Redis is in use; the caller closes it.
func confirmationStore(ctx context.Context, cfg *config.Config, db *gorm.DB) (repository.ConfirmationStore, *redis.Client) {
	if cfg.RedisURL == "" {
		logging.Info().Msg("REDIS_URL not set, storing confirmation codes in the database")
		return repository.NewConfirmationRepository(db), nil
	}
	client, err := repository.NewRedisClient(ctx, cfg.RedisURL, cfg.RedisPassword)
	if err != nil {
		logging.Warn().Err(err).Msg("redis unavailable, storing confirmation codes in the database")
		return repository.NewConfirmationRepository(db), nil
	}
	logging.Info().Msg("storing confirmation codes in redis")
	return repository.NewConfirmationRedisStore(client), client
}
