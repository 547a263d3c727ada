package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"yamdb/internal/authz"
	"yamdb/internal/config"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

type TitleService interface {
	List(ctx context.Context, q dto.TitleQuery) (*dto.PageResponse[dto.TitleResponse], error)
	Get(ctx context.Context, id int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, actor *models.User, req dto.CreateTitleRequest) (*dto.TitleResponse, error)
	Update(ctx context.Context, actor *models.User, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error)
	Delete(ctx context.Context, actor *models.User, id int64) error
}

type titleService struct {
	titles     repository.TitleRepository
	genres     repository.GenreRepository
	categories repository.CategoryRepository
	enforcer   *authz.Enforcer
	cfg        *config.Config
	now        func() time.Time
}

func NewTitleService(
	titles repository.TitleRepository,
	genres repository.GenreRepository,
	categories repository.CategoryRepository,
	enforcer *authz.Enforcer,
	cfg *config.Config,
) TitleService {
	return &titleService{
		titles:     titles,
		genres:     genres,
		categories: categories,
		enforcer:   enforcer,
		cfg:        cfg,
		now:        time.Now,
	}
}

func (s *titleService) List(ctx context.Context, q dto.TitleQuery) (*dto.PageResponse[dto.TitleResponse], error) {
	page, pageSize := q.Normalize()
	filter := repository.TitleFilter{
		CategorySlug: q.Category,
		GenreSlug:    q.Genre,
		Name:         strings.TrimSpace(q.Name),
		Year:         q.Year,
	}

	list, total, err := s.titles.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}
	data := make([]dto.TitleResponse, 0, len(list))
	for i := range list {
		data = append(data, dto.TitleFromModel(&list[i]))
	}
	return dto.NewPageResponse(data, total, page, pageSize), nil
}

func (s *titleService) Get(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	t, err := s.titles.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("title", err)
	}
	resp := dto.TitleFromModel(t)
	return &resp, nil
}

func (s *titleService) Create(ctx context.Context, actor *models.User, req dto.CreateTitleRequest) (*dto.TitleResponse, error) {
	if err := s.enforcer.Authorize(actor, authz.ResourceTitles, authz.ActionCreate, ""); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.checkYear(*req.Year); err != nil {
		return nil, err
	}

	t := &models.Title{
		Name:        req.Name,
		Year:        *req.Year,
		Description: req.Description,
	}
	if err := s.resolveCategory(ctx, t, req.Category); err != nil {
		return nil, err
	}
	if err := s.resolveGenres(ctx, t, req.Genre); err != nil {
		return nil, err
	}

	if err := s.titles.Create(ctx, t); err != nil {
		return nil, err
	}
	return s.Get(ctx, t.ID)
}

func (s *titleService) Update(ctx context.Context, actor *models.User, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error) {
	if err := s.enforcer.Authorize(actor, authz.ResourceTitles, authz.ActionUpdate, ""); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	t, err := s.titles.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("title", err)
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, NewValidationError("name", "this field may not be blank")
		}
		t.Name = name
	}
	if req.Year != nil {
		if err := s.checkYear(*req.Year); err != nil {
			return nil, err
		}
		t.Year = *req.Year
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.Category != nil {
		if err := s.resolveCategory(ctx, t, *req.Category); err != nil {
			return nil, err
		}
	}
	if req.Genre != nil {
		if err := s.resolveGenres(ctx, t, *req.Genre); err != nil {
			return nil, err
		}
	}

	if err := s.titles.Update(ctx, t, req.Genre != nil); err != nil {
		return nil, notFound("title", err)
	}
	return s.Get(ctx, id)
}

// Delete removes the title along with its reviews and their comments.
func (s *titleService) Delete(ctx context.Context, actor *models.User, id int64) error {
	if err := s.enforcer.Authorize(actor, authz.ResourceTitles, authz.ActionDelete, ""); err != nil {
		return err
	}
	if err := s.titles.Delete(ctx, id); err != nil {
		return notFound("title", err)
	}
	return nil
}

func (s *titleService) checkYear(year int) error {
	maxYear := s.cfg.MaxTitleYear(s.now())
	if year < 0 || year > maxYear {
		return NewValidationError("year", fmt.Sprintf("must be between 0 and %d", maxYear))
	}
	return nil
}

// resolveCategory sets t.Category from slug; an empty slug clears it
func (s *titleService) resolveCategory(ctx context.Context, t *models.Title, slug string) error {
	if slug == "" {
		t.CategoryID = nil
		t.Category = nil
		return nil
	}
	c, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		if repository.IsNotFound(err) {
			return NewValidationError("category", fmt.Sprintf("unknown category %q", slug))
		}
		return err
	}
	t.CategoryID = &c.ID
	t.Category = c
	return nil
}

// resolveGenres replaces t.Genres with the genres named by slugs; every slug must exist
func (s *titleService) resolveGenres(ctx context.Context, t *models.Title, slugs []string) error {
	unique := make([]string, 0, len(slugs))
	seen := make(map[string]bool, len(slugs))
	for _, slug := range slugs {
		if !seen[slug] {
			seen[slug] = true
			unique = append(unique, slug)
		}
	}

	if len(unique) == 0 {
		t.Genres = []models.Genre{}
		return nil
	}

	genres, err := s.genres.FindBySlugs(ctx, unique)
	if err != nil {
		return err
	}
	if len(genres) != len(unique) {
		found := make(map[string]bool, len(genres))
		for _, g := range genres {
			found[g.Slug] = true
		}
		var missing []string
		for _, slug := range unique {
			if !found[slug] {
				missing = append(missing, slug)
			}
		}
		return NewValidationError("genre", "unknown genre(s): "+strings.Join(missing, ", "))
	}
	t.Genres = genres
	return nil
}
