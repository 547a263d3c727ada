package handler

import (
	"net/http"

	"yamdb/internal/authz"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type CommentHandler struct {
	commentService service.CommentService
	enforcer       *authz.Enforcer
}

func NewCommentHandler(commentService service.CommentService, enforcer *authz.Enforcer) *CommentHandler {
	return &CommentHandler{commentService: commentService, enforcer: enforcer}
}

func (h *CommentHandler) RegisterRoutes(review *gin.RouterGroup) {
	comments := review.Group("/comments")
	comments.GET("", h.List)
	comments.POST("", middleware.Authorize(h.enforcer, authz.ResourceComments, authz.ActionCreate), h.Create)
	comments.GET("/:comment_id", h.Get)
	comments.PATCH("/:comment_id", middleware.RequireAuth(), h.Update)
	comments.DELETE("/:comment_id", middleware.RequireAuth(), h.Delete)
}

// commentPath holds the ids every comment route carries
type commentPath struct {
	titleID, reviewID, commentID int64
}

func parseCommentPath(c *gin.Context, withComment bool) (commentPath, bool) {
	var p commentPath
	var ok bool
	if p.titleID, ok = paramID(c, "title_id"); !ok {
		return p, false
	}
	if p.reviewID, ok = paramID(c, "review_id"); !ok {
		return p, false
	}
	if withComment {
		if p.commentID, ok = paramID(c, "comment_id"); !ok {
			return p, false
		}
	}
	return p, true
}

// GET /api/v1/titles/:title_id/reviews/:review_id/comments
func (h *CommentHandler) List(c *gin.Context) {
	p, ok := parseCommentPath(c, false)
	if !ok {
		return
	}
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.commentService.List(ctx, p.titleID, p.reviewID, q.Page, q.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CommentHandler) Get(c *gin.Context) {
	p, ok := parseCommentPath(c, true)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.commentService.Get(ctx, p.titleID, p.reviewID, p.commentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/v1/titles/:title_id/reviews/:review_id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	p, ok := parseCommentPath(c, false)
	if !ok {
		return
	}
	var req dto.CommentRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.commentService.Create(ctx, middleware.CurrentUser(c), p.titleID, p.reviewID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CommentHandler) Update(c *gin.Context) {
	p, ok := parseCommentPath(c, true)
	if !ok {
		return
	}
	var req dto.CommentRequest
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.commentService.Update(ctx, middleware.CurrentUser(c), p.titleID, p.reviewID, p.commentID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CommentHandler) Delete(c *gin.Context) {
	p, ok := parseCommentPath(c, true)
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.commentService.Delete(ctx, middleware.CurrentUser(c), p.titleID, p.reviewID, p.commentID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
