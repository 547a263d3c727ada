package handler

import (
	"context"
	"net/http"
	"time"

	"yamdb/internal/authz"
	"yamdb/internal/logging"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig carries everything NewRouter wires together.
type RouterConfig struct {
	Auth       service.AuthService
	Users      service.UserService
	Genres     service.GenreService
	Categories service.GenreService
	Titles     service.TitleService
	Reviews    service.ReviewService
	Comments   service.CommentService
	Enforcer   *authz.Enforcer

	// AuthLimiter throttles /auth/*; nil disables it.
	AuthLimiter *middleware.RateLimiter
	CORSOrigins []string

	// HealthCheck backs /healthz, typically a database ping.
	HealthCheck func(ctx context.Context) error
}

// NewRouter builds the gin engine serving /api/v1, /healthz and /metrics.
func NewRouter(cfg RouterConfig) *gin.Engine {
	RegisterBindingValidations()

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics())
	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/healthz", healthz(cfg.HealthCheck))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg.Auth))

	NewAuthHandler(cfg.Auth, cfg.AuthLimiter).RegisterRoutes(api)
	NewUserHandler(cfg.Users, cfg.Enforcer).RegisterRoutes(api)
	NewCategoryHandler(cfg.Categories, cfg.Enforcer).RegisterRoutes(api)
	NewGenreHandler(cfg.Genres, cfg.Enforcer).RegisterRoutes(api)

	title := NewTitleHandler(cfg.Titles, cfg.Enforcer).RegisterRoutes(api)
	review := NewReviewHandler(cfg.Reviews, cfg.Enforcer).RegisterRoutes(title)
	NewCommentHandler(cfg.Comments, cfg.Enforcer).RegisterRoutes(review)

	return r
}

func healthz(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if check != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				logging.Ctx(ctx).Warn().Err(err).Msg("health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
