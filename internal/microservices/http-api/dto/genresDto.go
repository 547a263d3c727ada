package dto

import "yamdb/internal/microservices/http-api/models"

// CreateGenreDTO for POST /genres and POST /categories
type CreateGenreDTO struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50,slug"`
}

// GenreResponse is shared by genres and categories, both render as {name, slug}
type GenreResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func GenreFromModel(g models.Genre) GenreResponse {
	return GenreResponse{
		Name: g.Name,
		Slug: g.Slug,
	}
}

func CategoryFromModel(c models.Category) GenreResponse {
	return GenreResponse{
		Name: c.Name,
		Slug: c.Slug,
	}
}

// SearchQuery binds ?search= on dictionary and user lists
type SearchQuery struct {
	PageQuery
	Search string `form:"search"`
}
