package handler

import (
	"net/http"
	"testing"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestMe_RequiresAuth(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(http.MethodGet, "/api/v1/users/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	api.users.AssertNotCalled(t, "GetMe", mock.Anything, mock.Anything)
}

func TestMe_Get(t *testing.T) {
	api := newTestAPI(t)
	api.users.On("GetMe", mock.Anything, alice).Return(&dto.UserResponse{Username: "alice", Role: models.RoleUser}, nil)

	w := api.do(http.MethodGet, "/api/v1/users/me", "alice", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", decode(t, w)["username"])
}

func TestMe_PatchRejectsReservedUsername(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(http.MethodPatch, "/api/v1/users/me", "alice", map[string]string{"username": "me"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	api.users.AssertNotCalled(t, "UpdateMe", mock.Anything, mock.Anything, mock.Anything)
}

func TestUsers_AdminOnly(t *testing.T) {
	api := newTestAPI(t)

	assert.Equal(t, http.StatusUnauthorized, api.do(http.MethodGet, "/api/v1/users", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodGet, "/api/v1/users", "alice", nil).Code)
	assert.Equal(t, http.StatusForbidden, api.do(http.MethodDelete, "/api/v1/users/bob", "alice", nil).Code)
	api.users.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUsers_AdminList(t *testing.T) {
	api := newTestAPI(t)
	page := dto.NewPageResponse([]dto.UserResponse{{Username: "alice"}}, 1, 1, 20)
	api.users.On("List", mock.Anything, admin, "ali", 0, 0).Return(page, nil)

	w := api.do(http.MethodGet, "/api/v1/users?search=ali", "admin", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.EqualValues(t, 1, body["total"])
	assert.EqualValues(t, 1, body["total_pages"])
}

func TestUsers_AdminCRUD(t *testing.T) {
	api := newTestAPI(t)
	mod := models.RoleModerator

	api.users.On("Create", mock.Anything, admin, dto.CreateUserRequest{Username: "carol", Email: "carol@example.com"}).
		Return(&dto.UserResponse{Username: "carol", Role: models.RoleUser}, nil)
	api.users.On("Update", mock.Anything, admin, "carol", dto.UpdateUserRequest{Role: &mod}).
		Return(&dto.UserResponse{Username: "carol", Role: mod}, nil)
	api.users.On("Get", mock.Anything, admin, "ghost").Return(nil, service.ErrNotFound)
	api.users.On("Delete", mock.Anything, admin, "carol").Return(nil)

	w := api.do(http.MethodPost, "/api/v1/users", "admin", map[string]string{"username": "carol", "email": "carol@example.com"})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = api.do(http.MethodPatch, "/api/v1/users/carol", "admin", map[string]string{"role": "moderator"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "moderator", decode(t, w)["role"])

	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/v1/users/ghost", "admin", nil).Code)
	assert.Equal(t, http.StatusNoContent, api.do(http.MethodDelete, "/api/v1/users/carol", "admin", nil).Code)
	api.users.AssertExpectations(t)
}

func TestUsers_InvalidRole(t *testing.T) {
	api := newTestAPI(t)
	w := api.do(http.MethodPatch, "/api/v1/users/carol", "admin", map[string]string{"role": "superhero"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	fields, _ := decode(t, w)["fields"].(map[string]any)
	assert.Contains(t, fields, "role")
}
