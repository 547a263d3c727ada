package handler

import (
	"net/http"

	"yamdb/internal/authz"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// GenreHandler serves a {name, slug} dictionary; it is mounted twice, for
// /genres and for /categories.
type GenreHandler struct {
	svc      service.GenreService
	enforcer *authz.Enforcer
	resource authz.Resource
}

func NewGenreHandler(svc service.GenreService, enforcer *authz.Enforcer) *GenreHandler {
	return &GenreHandler{svc: svc, enforcer: enforcer, resource: authz.ResourceGenres}
}

func NewCategoryHandler(svc service.GenreService, enforcer *authz.Enforcer) *GenreHandler {
	return &GenreHandler{svc: svc, enforcer: enforcer, resource: authz.ResourceCategories}
}

func (h *GenreHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/" + string(h.resource))
	g.GET("", h.List)
	g.POST("", middleware.Authorize(h.enforcer, h.resource, authz.ActionCreate), h.Create)
	g.DELETE("/:slug", middleware.Authorize(h.enforcer, h.resource, authz.ActionDelete), h.Delete)
}

// GET /api/v1/genres?search=
func (h *GenreHandler) List(c *gin.Context) {
	var q dto.SearchQuery
	if !bindQuery(c, &q) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.svc.List(ctx, q.Search, q.Page, q.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *GenreHandler) Create(c *gin.Context) {
	var in dto.CreateGenreDTO
	if !bindJSON(c, &in) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.svc.Create(ctx, middleware.CurrentUser(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *GenreHandler) Delete(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.svc.Delete(ctx, middleware.CurrentUser(c), c.Param("slug")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
