package service

import (
	"context"
	"testing"
	"time"

	"yamdb/internal/config"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type titleFixture struct {
	svc        *titleService
	titles     *MockTitleRepository
	genres     *MockGenreRepository
	categories *MockCategoryRepository
}

func newTitleFixture(t *testing.T, maxYear int) *titleFixture {
	f := &titleFixture{
		titles:     new(MockTitleRepository),
		genres:     new(MockGenreRepository),
		categories: new(MockCategoryRepository),
	}
	cfg := &config.Config{TitleMaxYear: maxYear}
	f.svc = NewTitleService(f.titles, f.genres, f.categories, newEnforcer(t), cfg).(*titleService)
	f.svc.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return f
}

func intPtr(i int) *int         { return &i }
func strPtr(s string) *string   { return &s }
func f64Ptr(f float64) *float64 { return &f }

func TestCreateTitle_Success(t *testing.T) {
	f := newTitleFixture(t, 0)
	books := &models.Category{ID: 2, Name: "Books", Slug: "books"}
	scifi := models.Genre{ID: 4, Name: "Sci-Fi", Slug: "scifi"}

	f.categories.On("FindBySlug", mock.Anything, "books").Return(books, nil)
	f.genres.On("FindBySlugs", mock.Anything, []string{"scifi"}).Return([]models.Genre{scifi}, nil)
	f.titles.On("Create", mock.Anything, mock.MatchedBy(func(t *models.Title) bool {
		return t.Name == "Dune" && t.Year == 1965 && *t.CategoryID == 2 && len(t.Genres) == 1
	})).Return(nil)
	f.titles.On("GetByID", mock.Anything, int64(1)).Return(&models.Title{
		ID: 1, Name: "Dune", Year: 1965, Category: books, Genres: []models.Genre{scifi},
	}, nil)

	resp, err := f.svc.Create(context.Background(), admin, dto.CreateTitleRequest{
		Name:     "Dune",
		Year:     intPtr(1965),
		Genre:    []string{"scifi", "scifi"},
		Category: "books",
	})

	require.NoError(t, err)
	assert.Equal(t, "Dune", resp.Name)
	assert.Nil(t, resp.Rating)
	assert.Equal(t, "books", resp.Category.Slug)
	f.titles.AssertExpectations(t)
}

func TestCreateTitle_NonAdminForbidden(t *testing.T) {
	f := newTitleFixture(t, 0)

	_, err := f.svc.Create(context.Background(), alice, dto.CreateTitleRequest{Name: "Dune", Year: intPtr(1965)})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = f.svc.Create(context.Background(), nil, dto.CreateTitleRequest{Name: "Dune", Year: intPtr(1965)})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCreateTitle_YearBound(t *testing.T) {
	t.Run("current year by default", func(t *testing.T) {
		f := newTitleFixture(t, 0)
		_, err := f.svc.Create(context.Background(), admin, dto.CreateTitleRequest{Name: "Future", Year: intPtr(2025)})
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "must be between 0 and 2024", verr.Fields["year"])
	})

	t.Run("configured bound", func(t *testing.T) {
		f := newTitleFixture(t, 2030)
		f.titles.On("Create", mock.Anything, mock.Anything).Return(nil)
		f.titles.On("GetByID", mock.Anything, int64(1)).Return(&models.Title{ID: 1, Name: "Future", Year: 2025}, nil)

		resp, err := f.svc.Create(context.Background(), admin, dto.CreateTitleRequest{Name: "Future", Year: intPtr(2025)})
		require.NoError(t, err)
		assert.Equal(t, 2025, resp.Year)
	})
}

func TestCreateTitle_UnknownSlugs(t *testing.T) {
	f := newTitleFixture(t, 0)
	f.categories.On("FindBySlug", mock.Anything, "nope").Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.Create(context.Background(), admin, dto.CreateTitleRequest{Name: "X", Year: intPtr(2000), Category: "nope"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "category")

	f.genres.On("FindBySlugs", mock.Anything, []string{"drama", "ghost"}).
		Return([]models.Genre{{ID: 1, Name: "Drama", Slug: "drama"}}, nil)
	_, err = f.svc.Create(context.Background(), admin, dto.CreateTitleRequest{Name: "X", Year: intPtr(2000), Genre: []string{"drama", "ghost"}})
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "unknown genre(s): ghost", verr.Fields["genre"])
	f.titles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateTitle_PartialKeepsGenres(t *testing.T) {
	f := newTitleFixture(t, 0)
	stored := &models.Title{ID: 5, Name: "Old", Year: 1990, Genres: []models.Genre{{ID: 1, Slug: "drama"}}}
	f.titles.On("GetByID", mock.Anything, int64(5)).Return(stored, nil)
	f.titles.On("Update", mock.Anything, mock.MatchedBy(func(t *models.Title) bool {
		return t.Name == "New" && t.Year == 1990
	}), false).Return(nil)

	resp, err := f.svc.Update(context.Background(), admin, 5, dto.UpdateTitleRequest{Name: strPtr("New")})

	require.NoError(t, err)
	assert.Equal(t, "New", resp.Name)
	f.genres.AssertNotCalled(t, "FindBySlugs", mock.Anything, mock.Anything)
	f.titles.AssertExpectations(t)
}

func TestUpdateTitle_NotFound(t *testing.T) {
	f := newTitleFixture(t, 0)
	f.titles.On("GetByID", mock.Anything, int64(404)).Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.Update(context.Background(), admin, 404, dto.UpdateTitleRequest{Name: strPtr("x")})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetTitle_RatingFromReviews(t *testing.T) {
	f := newTitleFixture(t, 0)
	// Dune with reviews scored 8 and 10
	f.titles.On("GetByID", mock.Anything, int64(1)).Return(&models.Title{ID: 1, Name: "Dune", Year: 1965, Rating: AverageScore([]int{8, 10})}, nil)

	resp, err := f.svc.Get(context.Background(), 1)

	require.NoError(t, err)
	require.NotNil(t, resp.Rating)
	assert.Equal(t, 9.0, *resp.Rating)
}

func TestListTitles_PassesFilters(t *testing.T) {
	f := newTitleFixture(t, 0)
	want := repository.TitleFilter{CategorySlug: "books", GenreSlug: "scifi", Name: "dun", Year: intPtr(1965)}
	f.titles.On("List", mock.Anything, want, 1, 20).
		Return([]models.Title{{ID: 1, Name: "Dune", Rating: f64Ptr(9)}}, int64(1), nil)

	page, err := f.svc.List(context.Background(), dto.TitleQuery{Category: "books", Genre: "scifi", Name: " dun ", Year: intPtr(1965)})

	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 9.0, *page.Data[0].Rating)
}

func TestDeleteTitle(t *testing.T) {
	f := newTitleFixture(t, 0)
	f.titles.On("Delete", mock.Anything, int64(1)).Return(nil)
	f.titles.On("Delete", mock.Anything, int64(2)).Return(gorm.ErrRecordNotFound)

	assert.NoError(t, f.svc.Delete(context.Background(), admin, 1))
	assert.ErrorIs(t, f.svc.Delete(context.Background(), admin, 2), ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(context.Background(), moderator, 1), ErrForbidden)
}
