package database

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Fixture is the JSON document accepted by LoadFixture.
type Fixture struct {
	Categories []FixtureSlug  `json:"categories"`
	Genres     []FixtureSlug  `json:"genres"`
	Titles     []FixtureTitle `json:"titles"`
}

type FixtureSlug struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50,slug"`
}

type FixtureTitle struct {
	Name        string   `json:"name" binding:"required"`
	Year        int      `json:"year" binding:"min=0"`
	Description *string  `json:"description"`
	Category    string   `json:"category"`
	Genres      []string `json:"genre"`
}

// LoadSummary counts the rows written by LoadFixture.
type LoadSummary struct {
	Categories int
	Genres     int
	Titles     int
	Links      int
}

// ReadFixture decodes and validates a fixture document.
func ReadFixture(r io.Reader) (*Fixture, error) {
	var f Fixture
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("decode fixture: %w", err)
	}

	v := dto.Validator()
	for i, c := range f.Categories {
		if err := v.Struct(c); err != nil {
			return nil, fmt.Errorf("categories[%d]: %w", i, err)
		}
	}
	for i, g := range f.Genres {
		if err := v.Struct(g); err != nil {
			return nil, fmt.Errorf("genres[%d]: %w", i, err)
		}
	}
	for i, t := range f.Titles {
		if err := v.Struct(t); err != nil {
			return nil, fmt.Errorf("titles[%d] %q: %w", i, t.Name, err)
		}
	}
	return &f, nil
}

// LoadFixture upserts categories and genres by slug, then inserts titles that
// are not already present (matched on name and year) in one transaction.
// Titles may reference slugs defined in the fixture or already in the database.
func LoadFixture(ctx context.Context, db *gorm.DB, f *Fixture) (LoadSummary, error) {
	var sum LoadSummary

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, c := range f.Categories {
			row := models.Category{Name: c.Name, Slug: c.Slug}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "slug"}},
				DoUpdates: clause.AssignmentColumns([]string{"name"}),
			}).Create(&row).Error; err != nil {
				return fmt.Errorf("category %s: %w", c.Slug, err)
			}
			sum.Categories++
		}
		for _, g := range f.Genres {
			row := models.Genre{Name: g.Name, Slug: g.Slug}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "slug"}},
				DoUpdates: clause.AssignmentColumns([]string{"name"}),
			}).Create(&row).Error; err != nil {
				return fmt.Errorf("genre %s: %w", g.Slug, err)
			}
			sum.Genres++
		}

		for _, ft := range f.Titles {
			created, links, err := loadTitle(tx, ft)
			if err != nil {
				return fmt.Errorf("title %q: %w", ft.Name, err)
			}
			if created {
				sum.Titles++
				sum.Links += links
			}
		}
		return nil
	})
	return sum, err
}

func loadTitle(tx *gorm.DB, ft FixtureTitle) (bool, int, error) {
	var existing int64
	if err := tx.Model(&models.Title{}).
		Where("name = ? AND year = ?", strings.TrimSpace(ft.Name), ft.Year).
		Count(&existing).Error; err != nil {
		return false, 0, err
	}
	if existing > 0 {
		return false, 0, nil
	}

	t := models.Title{
		Name:        strings.TrimSpace(ft.Name),
		Year:        ft.Year,
		Description: ft.Description,
	}
	if ft.Category != "" {
		var c models.Category
		if err := tx.Where("slug = ?", ft.Category).First(&c).Error; err != nil {
			return false, 0, fmt.Errorf("category %s: %w", ft.Category, err)
		}
		t.CategoryID = &c.ID
	}
	if len(ft.Genres) > 0 {
		if err := tx.Where("slug IN ?", ft.Genres).Find(&t.Genres).Error; err != nil {
			return false, 0, err
		}
		if len(t.Genres) != len(uniqueStrings(ft.Genres)) {
			return false, 0, fmt.Errorf("unknown genre in %v", ft.Genres)
		}
	}

	genres := t.Genres
	if err := tx.Omit(clause.Associations).Create(&t).Error; err != nil {
		return false, 0, err
	}
	if len(genres) > 0 {
		if err := tx.Model(&t).Association("Genres").Replace(genres); err != nil {
			return false, 0, fmt.Errorf("link genres: %w", err)
		}
	}
	return true, len(genres), nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0:0]
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
