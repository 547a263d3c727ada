package service

import (
	"context"
	"fmt"

	"yamdb/internal/authz"
	"yamdb/internal/metrics"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

type CommentService interface {
	List(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.PageResponse[dto.CommentResponse], error)
	Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error)
	Create(ctx context.Context, actor *models.User, titleID, reviewID int64, req dto.CommentRequest) (*dto.CommentResponse, error)
	Update(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64, req dto.CommentRequest) (*dto.CommentResponse, error)
	Delete(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
	enforcer    *authz.Enforcer
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository, enforcer *authz.Enforcer) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
		enforcer:    enforcer,
	}
}

// ensureReview checks that the review exists under the title in the path
func (s *commentService) ensureReview(ctx context.Context, titleID, reviewID int64) error {
	if _, err := s.reviewRepo.GetByTitle(ctx, titleID, reviewID); err != nil {
		return notFound("review", err)
	}
	return nil
}

func (s *commentService) List(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.PageResponse[dto.CommentResponse], error) {
	if err := s.ensureReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	page, pageSize = normalizePage(page, pageSize)

	comments, total, err := s.commentRepo.ListByReview(ctx, reviewID, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	data := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		data = append(data, dto.FromModelToCommentResponse(&comments[i]))
	}
	return dto.NewPageResponse(data, total, page, pageSize), nil
}

func (s *commentService) Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error) {
	if err := s.ensureReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByReview(ctx, reviewID, commentID)
	if err != nil {
		return nil, notFound("comment", err)
	}
	resp := dto.FromModelToCommentResponse(comment)
	return &resp, nil
}

func (s *commentService) Create(ctx context.Context, actor *models.User, titleID, reviewID int64, req dto.CommentRequest) (*dto.CommentResponse, error) {
	if err := s.enforcer.Authorize(actor, authz.ResourceComments, authz.ActionCreate, ""); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.ensureReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ReviewID: reviewID,
		AuthorID: actor.ID,
		Text:     req.Text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	comment.Author = *actor
	metrics.CommentsCreatedTotal.Inc()

	resp := dto.FromModelToCommentResponse(comment)
	return &resp, nil
}

// load fetches a comment addressed by the full title/review/comment path
func (s *commentService) load(ctx context.Context, titleID, reviewID, commentID int64) (*models.Comment, error) {
	if err := s.ensureReview(ctx, titleID, reviewID); err != nil {
		return nil, err
	}
	comment, err := s.commentRepo.GetByReview(ctx, reviewID, commentID)
	if err != nil {
		return nil, notFound("comment", err)
	}
	return comment, nil
}

func (s *commentService) Update(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64, req dto.CommentRequest) (*dto.CommentResponse, error) {
	if actor == nil {
		return nil, ErrUnauthorized
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	comment, err := s.load(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.enforcer.Authorize(actor, authz.ResourceComments, authz.ActionUpdate, comment.AuthorID); err != nil {
		return nil, err
	}

	comment.Text = req.Text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	resp := dto.FromModelToCommentResponse(comment)
	return &resp, nil
}

func (s *commentService) Delete(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64) error {
	if actor == nil {
		return ErrUnauthorized
	}
	comment, err := s.load(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}
	if err := s.enforcer.Authorize(actor, authz.ResourceComments, authz.ActionDelete, comment.AuthorID); err != nil {
		return err
	}
	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		return notFound("comment", err)
	}
	return nil
}
