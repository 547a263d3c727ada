package dto

import "yamdb/internal/microservices/http-api/models"

// CreateTitleRequest for POST /titles; genres and category are referenced by slug
type CreateTitleRequest struct {
	Name        string   `json:"name" binding:"required,max=256"`
	Year        *int     `json:"year" binding:"required,min=0"`
	Description *string  `json:"description"`
	Genre       []string `json:"genre" binding:"omitempty,dive,max=50"`
	Category    string   `json:"category" binding:"omitempty,max=50"`
}

// UpdateTitleRequest is a partial update; an empty category string clears it
type UpdateTitleRequest struct {
	Name        *string   `json:"name" binding:"omitempty,max=256"`
	Year        *int      `json:"year" binding:"omitempty,min=0"`
	Description *string   `json:"description"`
	Genre       *[]string `json:"genre"`
	Category    *string   `json:"category" binding:"omitempty,max=50"`
}

// TitleQuery binds the list filters
type TitleQuery struct {
	PageQuery
	Category string `form:"category"`
	Genre    string `form:"genre"`
	Name     string `form:"name"`
	Year     *int   `form:"year"`
}

type TitleResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Year        int             `json:"year"`
	Rating      *float64        `json:"rating"`
	Description *string         `json:"description"`
	Genre       []GenreResponse `json:"genre"`
	Category    *GenreResponse  `json:"category"`
}

func TitleFromModel(t *models.Title) TitleResponse {
	resp := TitleResponse{
		ID:          t.ID,
		Name:        t.Name,
		Year:        t.Year,
		Rating:      t.Rating,
		Description: t.Description,
		Genre:       make([]GenreResponse, 0, len(t.Genres)),
	}
	for _, g := range t.Genres {
		resp.Genre = append(resp.Genre, GenreFromModel(g))
	}
	if t.Category != nil {
		c := CategoryFromModel(*t.Category)
		resp.Category = &c
	}
	return resp
}
