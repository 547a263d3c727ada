package handler

import (
	"net/http"
	"testing"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSignup_Success(t *testing.T) {
	api := newTestAPI(t)
	req := dto.SignupRequest{Username: "alice", Email: "alice@example.com"}
	api.auth.On("Signup", mock.Anything, req).
		Return(&dto.SignupResponse{Username: "alice", Email: "alice@example.com"}, nil)

	w := api.do(http.MethodPost, "/api/v1/auth/signup", "", req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"username":"alice","email":"alice@example.com"}`, w.Body.String())
	api.auth.AssertExpectations(t)
}

func TestSignup_BindingErrors(t *testing.T) {
	api := newTestAPI(t)

	tests := []struct {
		name  string
		body  any
		field string
	}{
		{"reserved username", map[string]string{"username": "me", "email": "me@example.com"}, "username"},
		{"bad username", map[string]string{"username": "a b", "email": "ab@example.com"}, "username"},
		{"bad email", map[string]string{"username": "alice", "email": "nope"}, "email"},
		{"missing email", map[string]string{"username": "alice"}, "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := api.do(http.MethodPost, "/api/v1/auth/signup", "", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			fields, _ := decode(t, w)["fields"].(map[string]any)
			assert.Contains(t, fields, tt.field)
		})
	}
	api.auth.AssertNotCalled(t, "Signup", mock.Anything, mock.Anything)
}

func TestSignup_MalformedJSON(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(http.MethodPost, "/api/v1/auth/signup", "", "not an object")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	fields, _ := decode(t, w)["fields"].(map[string]any)
	assert.Contains(t, fields, "body")
}

func TestSignup_IdentityConflict(t *testing.T) {
	api := newTestAPI(t)
	api.auth.On("Signup", mock.Anything, mock.Anything).Return(nil, service.ErrIdentityConflict)

	w := api.do(http.MethodPost, "/api/v1/auth/signup", "", dto.SignupRequest{Username: "alice", Email: "other@example.com"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, service.ErrIdentityConflict.Error(), decode(t, w)["error"])
}

func TestToken(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"issued", nil, http.StatusOK},
		{"wrong code", service.ErrInvalidConfirmationCode, http.StatusBadRequest},
		{"unknown user", service.ErrNotFound, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			req := dto.TokenRequest{Username: "alice", ConfirmationCode: "ABCDEF0123"}
			if tt.err != nil {
				api.auth.On("IssueToken", mock.Anything, req).Return(nil, tt.err)
			} else {
				api.auth.On("IssueToken", mock.Anything, req).Return(&dto.TokenResponse{Token: "jwt"}, nil)
			}

			w := api.do(http.MethodPost, "/api/v1/auth/token", "", req)

			assert.Equal(t, tt.status, w.Code)
			if tt.err == nil {
				assert.JSONEq(t, `{"token":"jwt"}`, w.Body.String())
			}
		})
	}
}

func TestToken_MissingCode(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(http.MethodPost, "/api/v1/auth/token", "", map[string]string{"username": "alice"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	fields, _ := decode(t, w)["fields"].(map[string]any)
	assert.Contains(t, fields, "confirmation_code")
}

func TestAuthRoutes_RateLimited(t *testing.T) {
	api := newTestAPI(t)
	api.router = NewRouter(RouterConfig{
		Auth:        api.auth,
		Users:       api.users,
		Genres:      api.genres,
		Categories:  api.categories,
		Titles:      api.titles,
		Reviews:     api.reviews,
		Comments:    api.comments,
		AuthLimiter: middleware.NewRateLimiter(1, 1),
	})
	api.auth.On("IssueToken", mock.Anything, mock.Anything).Return(nil, service.ErrInvalidConfirmationCode)

	body := dto.TokenRequest{Username: "alice", ConfirmationCode: "X"}
	assert.Equal(t, http.StatusBadRequest, api.do(http.MethodPost, "/api/v1/auth/token", "", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, api.do(http.MethodPost, "/api/v1/auth/token", "", body).Code)
}

func TestInvalidBearerToken(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(http.MethodGet, "/api/v1/titles", "forged", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
