package handler

import (
	"net/http"

	"yamdb/internal/authz"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/middleware"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type ReviewHandler struct {
	reviewService service.ReviewService
	enforcer      *authz.Enforcer
}

func NewReviewHandler(reviewService service.ReviewService, enforcer *authz.Enforcer) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService, enforcer: enforcer}
}

// RegisterRoutes mounts reviews under /titles/:title_id and returns the
// single-review group for comments.
func (h *ReviewHandler) RegisterRoutes(title *gin.RouterGroup) *gin.RouterGroup {
	reviews := title.Group("/reviews")
	reviews.GET("", h.List)
	reviews.POST("", middleware.Authorize(h.enforcer, authz.ResourceReviews, authz.ActionCreate), h.Create)

	// ownership is checked by the service once the review is loaded
	review := reviews.Group("/:review_id")
	review.GET("", h.Get)
	review.PATCH("", middleware.RequireAuth(), h.Update)
	review.DELETE("", middleware.RequireAuth(), h.Delete)
	return review
}

// List retrieves the reviews of a title, newest first
// GET /api/v1/titles/:title_id/reviews?page=1&page_size=20
func (h *ReviewHandler) List(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	var q dto.PageQuery
	if !bindQuery(c, &q) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.reviewService.List(ctx, titleID, q.Page, q.PageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GET /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Get(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.reviewService.Get(ctx, titleID, reviewID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Create adds the caller's review; one review per title and author.
// POST /api/v1/titles/:title_id/reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	var req dto.CreateReviewDTO
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.reviewService.Create(ctx, middleware.CurrentUser(c), titleID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// PATCH /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Update(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}
	var req dto.UpdateReviewDTO
	if !bindJSON(c, &req) {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	resp, err := h.reviewService.Update(ctx, middleware.CurrentUser(c), titleID, reviewID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DELETE /api/v1/titles/:title_id/reviews/:review_id
func (h *ReviewHandler) Delete(c *gin.Context) {
	titleID, ok := paramID(c, "title_id")
	if !ok {
		return
	}
	reviewID, ok := paramID(c, "review_id")
	if !ok {
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.reviewService.Delete(ctx, middleware.CurrentUser(c), titleID, reviewID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
