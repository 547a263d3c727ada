package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"yamdb/internal/logging"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const requestTimeout = 5 * time.Second

var registerOnce sync.Once

// RegisterBindingValidations adds the custom tags used by the dto package to
// gin's validator so ShouldBindJSON understands them.
func RegisterBindingValidations() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			panic("gin binding validator is not go-playground/validator")
		}
		if err := dto.RegisterValidations(v); err != nil {
			panic(err)
		}
	})
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// respondError maps service errors onto HTTP status codes.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, errorResponse{Error: service.ErrValidation.Error(), Fields: verr.Fields})
	case errors.Is(err, service.ErrDuplicateReview),
		errors.Is(err, service.ErrIdentityConflict),
		errors.Is(err, service.ErrInvalidConfirmationCode):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: err.Error()})
	default:
		_ = c.Error(err)
		logging.Ctx(c.Request.Context()).Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// bindJSON decodes the body into v, answering 400 on failure.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		respondError(c, service.FromBindingError(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, v any) bool {
	if err := c.ShouldBindQuery(v); err != nil {
		respondError(c, service.FromBindingError(err))
		return false
	}
	return true
}

// paramID parses a positive integer path parameter. Malformed ids are
// reported as not found since no such resource can exist.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusNotFound, errorResponse{Error: service.ErrNotFound.Error()})
		return 0, false
	}
	return id, true
}

func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), requestTimeout)
}
