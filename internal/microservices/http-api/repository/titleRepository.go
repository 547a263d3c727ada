package repository

import (
	"context"
	"fmt"

	"yamdb/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ratingColumn derives Title.Rating on every read; the value is never stored.
const ratingColumn = "(SELECT CAST(AVG(reviews.score) AS double precision) FROM reviews WHERE reviews.title_id = titles.id) AS rating"

// TitleFilter narrows title listings. Zero values are ignored.
type TitleFilter struct {
	CategorySlug string
	GenreSlug    string
	Name         string
	Year         *int
}

type TitleRepository interface {
	List(ctx context.Context, f TitleFilter, page, pageSize int) ([]models.Title, int64, error)
	GetByID(ctx context.Context, id int64) (*models.Title, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, t *models.Title) error
	Update(ctx context.Context, t *models.Title, replaceGenres bool) error
	Delete(ctx context.Context, id int64) error
}

type TitleRepo struct {
	db *gorm.DB
}

func NewTitleRepo(db *gorm.DB) *TitleRepo {
	return &TitleRepo{db: db}
}

func (r *TitleRepo) filtered(ctx context.Context, f TitleFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Title{})
	if f.CategorySlug != "" {
		q = q.Where("titles.category_id IN (SELECT id FROM categories WHERE slug = ?)", f.CategorySlug)
	}
	if f.GenreSlug != "" {
		q = q.Where(`EXISTS (SELECT 1 FROM title_genres tg JOIN genres g ON g.id = tg.genre_id
			WHERE tg.title_id = titles.id AND g.slug = ?)`, f.GenreSlug)
	}
	if f.Name != "" {
		q = q.Where("titles.name ILIKE ?", "%"+f.Name+"%")
	}
	if f.Year != nil {
		q = q.Where("titles.year = ?", *f.Year)
	}
	return q
}

func (r *TitleRepo) List(ctx context.Context, f TitleFilter, page, pageSize int) ([]models.Title, int64, error) {
	var list []models.Title
	var total int64

	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.filtered(ctx, f).
		Select("titles.*, " + ratingColumn).
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.name ASC") }).
		Preload("Category").
		Order("titles.name ASC").
		Limit(pageSize).
		Offset(offset(page, pageSize)).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *TitleRepo) GetByID(ctx context.Context, id int64) (*models.Title, error) {
	var t models.Title
	err := r.db.WithContext(ctx).
		Select("titles.*, "+ratingColumn).
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.name ASC") }).
		Preload("Category").
		Where("titles.id = ?", id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TitleRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Title{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts the title and links the genres already set on t.Genres.
func (r *TitleRepo) Create(ctx context.Context, t *models.Title) error {
	genres := t.Genres
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(t).Error; err != nil {
			return fmt.Errorf("create title: %w", err)
		}
		if len(genres) > 0 {
			if err := tx.Model(t).Association("Genres").Replace(genres); err != nil {
				return fmt.Errorf("link genres: %w", err)
			}
		}
		return nil
	})
}

// Update writes the scalar columns and, when replaceGenres is set, swaps the genre links for t.Genres.
func (r *TitleRepo) Update(ctx context.Context, t *models.Title, replaceGenres bool) error {
	genres := t.Genres
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Title{ID: t.ID}).
			Select("name", "year", "description", "category_id").
			Omit(clause.Associations).
			Updates(t)
		if result.Error != nil {
			return fmt.Errorf("update title: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if replaceGenres {
			if err := tx.Model(&models.Title{ID: t.ID}).Association("Genres").Replace(genres); err != nil {
				return fmt.Errorf("replace genres: %w", err)
			}
		}
		return nil
	})
}

// Delete removes the title; reviews, their comments and genre links cascade.
func (r *TitleRepo) Delete(ctx context.Context, id int64) error {
	result := r.db.WithContext(ctx).Delete(&models.Title{}, id)
	if result.Error != nil {
		return fmt.Errorf("delete title: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

var _ TitleRepository = (*TitleRepo)(nil)
