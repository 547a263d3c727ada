package handler

import (
	"net/http"

	"yamdb/internal/authz"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type TitleHandler struct {
	titleService service.TitleService
	enforcer     *authz.Enforcer
}

func NewTitleHandler(titleService service.TitleService, enforcer *authz.Enforcer) *TitleHandler {
	return &TitleHandler{titleService: titleService, enforcer: enforcer}
}

// RegisterRoutes mounts /titles and returns the /titles/:title_id group so
// review and comment handlers can nest under it.
func (h *TitleHandler) RegisterRoutes(router *gin.RouterGroup) *gin.RouterGroup {
	titles := router.Group("/titles")
	titles.GET("", h.List)
	titles.POST("", h.authorize(authz.ActionCreate), h.Create)

	title := titles.Group("/:title_id")
	title.GET("", h.Get)
	title.PATCH("", h.authorize(authz.ActionUpdate), h.Update)
	title.DELETE("", h.authorize(authz.ActionDelete), h.Delete)
	return title
}

func (h *TitleHandler) authorize(action authz.Action) gin.HandlerFunc {
	return middleware.Authorize(h.enforcer, authz.ResourceTitles, action)
}

// List returns titles with their computed rating.
// GET /api/v1/titles?category=&genre=&name=&year=&page=&page_size=
func (h *TitleHandler) List(c *gin.Context) {
	var q dto.TitleQuery
	if !bindQuery(c, &q) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.titleService.List(ctx, q)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/v1/titles/:title_id
func (h *TitleHandler) Get(c *gin.Context) {
	id, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.titleService.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/v1/titles
func (h *TitleHandler) Create(c *gin.Context) {
	var req dto.CreateTitleRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.titleService.Create(ctx, middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// PATCH /api/v1/titles/:title_id
func (h *TitleHandler) Update(c *gin.Context) {
	id, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	var req dto.UpdateTitleRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.titleService.Update(ctx, middleware.CurrentUser(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DELETE /api/v1/titles/:title_id
func (h *TitleHandler) Delete(c *gin.Context) {
	id, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.titleService.Delete(ctx, middleware.CurrentUser(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
