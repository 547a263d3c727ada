package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"yamdb/internal/authz"
	"yamdb/internal/logging"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// Authenticator is the part of the auth service the middleware needs.
type Authenticator interface {
	Authenticate(ctx context.Context, tokenString string) (*models.User, error)
}

// AuthMiddleware resolves the Bearer token into the acting user.
// Requests without an Authorization header continue as anonymous; handlers and
// services decide whether anonymous access is allowed. A header that is
// present but malformed or carries an invalid token is rejected with 401.
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// format: "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			abort(c, http.StatusUnauthorized, "invalid authorization header format")
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, service.ErrInvalidToken) {
				abort(c, http.StatusUnauthorized, "invalid token")
				return
			}
			logging.Ctx(c.Request.Context()).Error().Err(err).Msg("authenticate request")
			abort(c, http.StatusInternalServerError, "internal server error")
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// CurrentUser returns the authenticated user, or nil for anonymous requests.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// RequireAuth rejects anonymous requests with 401.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			abort(c, http.StatusUnauthorized, authz.ErrUnauthorized.Error())
			return
		}
		c.Next()
	}
}

// Authorize rejects the request early when the actor's role can never perform
// action on resource. Ownership-dependent checks stay in the services.
func Authorize(enforcer *authz.Enforcer, resource authz.Resource, action authz.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := enforcer.Authorize(CurrentUser(c), resource, action, "")
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, authz.ErrUnauthorized):
			abort(c, http.StatusUnauthorized, err.Error())
		case errors.Is(err, authz.ErrForbidden):
			abort(c, http.StatusForbidden, err.Error())
		default:
			logging.Ctx(c.Request.Context()).Error().Err(err).Msg("authorize request")
			abort(c, http.StatusInternalServerError, "internal server error")
		}
	}
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}
