package handler

import (
	"net/http"

	"yamdb/internal/authz"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService service.UserService
	enforcer    *authz.Enforcer
}

func NewUserHandler(userService service.UserService, enforcer *authz.Enforcer) *UserHandler {
	return &UserHandler{userService: userService, enforcer: enforcer}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	users := router.Group("/users")

	// /me is registered before /:username so it never resolves as a username
	users.GET("/me", middleware.RequireAuth(), h.GetMe)
	users.PATCH("/me", middleware.RequireAuth(), h.UpdateMe)

	admin := users.Group("", middleware.Authorize(h.enforcer, authz.ResourceUsers, authz.ActionRead))
	{
		admin.GET("", h.List)
		admin.POST("", h.Create)
		admin.GET("/:username", h.Get)
		admin.PATCH("/:username", h.Update)
		admin.DELETE("/:username", h.Delete)
	}
}

// GET /api/v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.userService.GetMe(ctx, middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PATCH /api/v1/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.userService.UpdateMe(ctx, middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/v1/users?search=&page=&page_size=
func (h *UserHandler) List(c *gin.Context) {
	var q dto.SearchQuery
	if !bindQuery(c, &q) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.userService.List(ctx, middleware.CurrentUser(c), q.Search, q.Page, q.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/v1/users
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.userService.Create(ctx, middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GET /api/v1/users/:username
func (h *UserHandler) Get(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.userService.Get(ctx, middleware.CurrentUser(c), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// PATCH /api/v1/users/:username
func (h *UserHandler) Update(c *gin.Context) {
	var req dto.UpdateUserRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.userService.Update(ctx, middleware.CurrentUser(c), c.Param("username"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DELETE /api/v1/users/:username
func (h *UserHandler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.userService.Delete(ctx, middleware.CurrentUser(c), c.Param("username")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
