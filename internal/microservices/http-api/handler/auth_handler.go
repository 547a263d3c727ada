package handler

import (
	"net/http"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService service.AuthService
	limiter     *middleware.RateLimiter
}

func NewAuthHandler(authService service.AuthService, limiter *middleware.RateLimiter) *AuthHandler {
	return &AuthHandler{authService: authService, limiter: limiter}
}

// RegisterRoutes mounts /auth; both endpoints are public and rate limited per IP.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	if h.limiter != nil {
		auth.Use(middleware.RateLimit(h.limiter))
	}
	auth.POST("/signup", h.Signup)
	auth.POST("/token", h.Token)
}

// Signup creates the account if needed and mails a confirmation code.
// POST /api/v1/auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.authService.Signup(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Token exchanges a confirmation code for an access token.
// POST /api/v1/auth/token
func (h *AuthHandler) Token(c *gin.Context) {
	var req dto.TokenRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.authService.IssueToken(ctx, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
