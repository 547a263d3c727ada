package service

import (
	"context"
	"fmt"
	"strings"

	"yamdb/internal/authz"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

// GenreService serves both genres and categories; they share the {name, slug} shape.
type GenreService interface {
	List(ctx context.Context, search string, page, pageSize int) (*dto.PageResponse[dto.GenreResponse], error)
	Create(ctx context.Context, actor *models.User, req dto.CreateGenreDTO) (*dto.GenreResponse, error)
	Delete(ctx context.Context, actor *models.User, slug string) error
}

type genreService struct {
	repo     repository.GenreRepository
	enforcer *authz.Enforcer
}

func NewGenreService(r repository.GenreRepository, enforcer *authz.Enforcer) GenreService {
	return &genreService{repo: r, enforcer: enforcer}
}

func (s *genreService) List(ctx context.Context, search string, page, pageSize int) (*dto.PageResponse[dto.GenreResponse], error) {
	page, pageSize = normalizePage(page, pageSize)
	list, total, err := s.repo.List(ctx, strings.TrimSpace(search), page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	data := make([]dto.GenreResponse, 0, len(list))
	for _, g := range list {
		data = append(data, dto.GenreFromModel(g))
	}
	return dto.NewPageResponse(data, total, page, pageSize), nil
}

func (s *genreService) Create(ctx context.Context, actor *models.User, req dto.CreateGenreDTO) (*dto.GenreResponse, error) {
	if err := s.enforcer.Authorize(actor, authz.ResourceGenres, authz.ActionCreate, ""); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	g := &models.Genre{Name: req.Name, Slug: req.Slug}
	if err := s.repo.Create(ctx, g); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, NewValidationError("slug", "a genre with this slug already exists")
		}
		return nil, err
	}
	resp := dto.GenreFromModel(*g)
	return &resp, nil
}

func (s *genreService) Delete(ctx context.Context, actor *models.User, slug string) error {
	if err := s.enforcer.Authorize(actor, authz.ResourceGenres, authz.ActionDelete, ""); err != nil {
		return err
	}
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		return notFound("genre", err)
	}
	return nil
}

type categoryService struct {
	repo     repository.CategoryRepository
	enforcer *authz.Enforcer
}

func NewCategoryService(r repository.CategoryRepository, enforcer *authz.Enforcer) GenreService {
	return &categoryService{repo: r, enforcer: enforcer}
}

func (s *categoryService) List(ctx context.Context, search string, page, pageSize int) (*dto.PageResponse[dto.GenreResponse], error) {
	page, pageSize = normalizePage(page, pageSize)
	list, total, err := s.repo.List(ctx, strings.TrimSpace(search), page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	data := make([]dto.GenreResponse, 0, len(list))
	for _, c := range list {
		data = append(data, dto.CategoryFromModel(c))
	}
	return dto.NewPageResponse(data, total, page, pageSize), nil
}

func (s *categoryService) Create(ctx context.Context, actor *models.User, req dto.CreateGenreDTO) (*dto.GenreResponse, error) {
	if err := s.enforcer.Authorize(actor, authz.ResourceCategories, authz.ActionCreate, ""); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	c := &models.Category{Name: req.Name, Slug: req.Slug}
	if err := s.repo.Create(ctx, c); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, NewValidationError("slug", "a category with this slug already exists")
		}
		return nil, err
	}
	resp := dto.CategoryFromModel(*c)
	return &resp, nil
}

// Delete keeps the titles of the category; their category becomes null.
func (s *categoryService) Delete(ctx context.Context, actor *models.User, slug string) error {
	if err := s.enforcer.Authorize(actor, authz.ResourceCategories, authz.ActionDelete, ""); err != nil {
		return err
	}
	if err := s.repo.DeleteBySlug(ctx, slug); err != nil {
		return notFound("category", err)
	}
	return nil
}
