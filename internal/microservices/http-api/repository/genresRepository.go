package repository

import (
	"context"
	"fmt"

	"yamdb/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type GenreRepository interface {
	List(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error)
	Create(ctx context.Context, g *models.Genre) error
	FindBySlug(ctx context.Context, slug string) (*models.Genre, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type CategoryRepository interface {
	List(ctx context.Context, search string, page, pageSize int) ([]models.Category, int64, error)
	Create(ctx context.Context, c *models.Category) error
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type genreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.Genre, int64, error) {
	var list []models.Genre
	total, err := listNamed(r.db.WithContext(ctx).Model(&models.Genre{}), search, page, pageSize, &list)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *genreRepository) Create(ctx context.Context, g *models.Genre) error {
	if err := r.db.WithContext(ctx).Create(g).Error; err != nil {
		return fmt.Errorf("create genre: %w", err)
	}
	return nil
}

func (r *genreRepository) FindBySlug(ctx context.Context, slug string) (*models.Genre, error) {
	var g models.Genre
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

// FindBySlugs returns the genres that exist among slugs; callers compare lengths to spot unknown ones.
func (r *genreRepository) FindBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	var list []models.Genre
	if len(slugs) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Order("name ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("find genres: %w", err)
	}
	return list, nil
}

func (r *genreRepository) DeleteBySlug(ctx context.Context, slug string) error {
	return deleteBySlug(r.db.WithContext(ctx), &models.Genre{}, slug)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.Category, int64, error) {
	var list []models.Category
	total, err := listNamed(r.db.WithContext(ctx).Model(&models.Category{}), search, page, pageSize, &list)
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *categoryRepository) Create(ctx context.Context, c *models.Category) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var c models.Category
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// DeleteBySlug removes the category; titles keep existing with category_id set to NULL.
func (r *categoryRepository) DeleteBySlug(ctx context.Context, slug string) error {
	return deleteBySlug(r.db.WithContext(ctx), &models.Category{}, slug)
}

// listNamed pages a name-ordered dictionary table with an optional name substring filter
func listNamed(q *gorm.DB, search string, page, pageSize int, dest any) (int64, error) {
	var total int64
	if search != "" {
		q = q.Where("name ILIKE ?", "%"+search+"%")
	}
	if err := q.Count(&total).Error; err != nil {
		return 0, err
	}
	if err := q.Order("name ASC").Limit(pageSize).Offset(offset(page, pageSize)).Find(dest).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func deleteBySlug(db *gorm.DB, model any, slug string) error {
	result := db.Where("slug = ?", slug).Delete(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
