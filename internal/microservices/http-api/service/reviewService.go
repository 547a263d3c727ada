package service

import (
	"context"
	"fmt"

	"yamdb/internal/authz"
	"yamdb/internal/logging"
	"yamdb/internal/metrics"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

type ReviewService interface {
	List(ctx context.Context, titleID int64, page, pageSize int) (*dto.PageResponse[dto.ReviewResponse], error)
	Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	Create(ctx context.Context, actor *models.User, titleID int64, req dto.CreateReviewDTO) (*dto.ReviewResponse, error)
	Update(ctx context.Context, actor *models.User, titleID, reviewID int64, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, actor *models.User, titleID, reviewID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
	enforcer   *authz.Enforcer
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository, enforcer *authz.Enforcer) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
		enforcer:   enforcer,
	}
}

func (s *reviewService) ensureTitle(ctx context.Context, titleID int64) error {
	ok, err := s.titleRepo.Exists(ctx, titleID)
	if err != nil {
		return fmt.Errorf("check title: %w", err)
	}
	if !ok {
		return fmt.Errorf("title %d: %w", titleID, ErrNotFound)
	}
	return nil
}

// List retrieves the reviews of a title, newest first
func (s *reviewService) List(ctx context.Context, titleID int64, page, pageSize int) (*dto.PageResponse[dto.ReviewResponse], error) {
	if err := s.ensureTitle(ctx, titleID); err != nil {
		return nil, err
	}
	page, pageSize = normalizePage(page, pageSize)

	reviews, total, err := s.reviewRepo.ListByTitle(ctx, titleID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	data := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		data = append(data, dto.FromModelToReviewResponse(&reviews[i]))
	}
	return dto.NewPageResponse(data, total, page, pageSize), nil
}

// Get returns the review only when it belongs to titleID
func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	review, err := s.reviewRepo.GetByTitle(ctx, titleID, reviewID)
	if err != nil {
		return nil, notFound("review", err)
	}
	resp := dto.FromModelToReviewResponse(review)
	return &resp, nil
}

// Create adds the actor's review. One review per author and title.
func (s *reviewService) Create(ctx context.Context, actor *models.User, titleID int64, req dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	if err := s.enforcer.Authorize(actor, authz.ResourceReviews, authz.ActionCreate, ""); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.ensureTitle(ctx, titleID); err != nil {
		return nil, err
	}

	exists, err := s.reviewRepo.ExistsForAuthor(ctx, titleID, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if exists {
		return nil, ErrDuplicateReview
	}

	review := &models.Review{
		TitleID:  titleID,
		AuthorID: actor.ID,
		Text:     req.Text,
		Score:    req.Score,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		// the unique index still wins when two requests race past the check above
		if repository.IsUniqueViolation(err) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}
	review.Author = *actor

	metrics.ReviewsCreatedTotal.Inc()
	logging.Ctx(ctx).Debug().Int64("title_id", titleID).Str("author", actor.Username).Msg("review created")

	resp := dto.FromModelToReviewResponse(review)
	return &resp, nil
}

func (s *reviewService) Update(ctx context.Context, actor *models.User, titleID, reviewID int64, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	review, err := s.reviewRepo.GetByTitle(ctx, titleID, reviewID)
	if err != nil {
		return nil, notFound("review", err)
	}
	if err := s.enforcer.Authorize(actor, authz.ResourceReviews, authz.ActionUpdate, review.AuthorID); err != nil {
		return nil, err
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		review.Score = *req.Score
	}
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	resp := dto.FromModelToReviewResponse(review)
	return &resp, nil
}

// Delete removes the review and, through the FK cascade, its comments
func (s *reviewService) Delete(ctx context.Context, actor *models.User, titleID, reviewID int64) error {
	if actor == nil {
		return ErrUnauthorized
	}
	review, err := s.reviewRepo.GetByTitle(ctx, titleID, reviewID)
	if err != nil {
		return notFound("review", err)
	}
	if err := s.enforcer.Authorize(actor, authz.ResourceReviews, authz.ActionDelete, review.AuthorID); err != nil {
		return err
	}
	if err := s.reviewRepo.Delete(ctx, review.ID); err != nil {
		return notFound("review", err)
	}
	return nil
}
