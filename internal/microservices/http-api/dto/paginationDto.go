package dto

import "math"

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageQuery binds ?page=&page_size= on list endpoints
type PageQuery struct {
	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

// Normalize clamps the query to sane bounds and fills defaults
func (q PageQuery) Normalize() (page, pageSize int) {
	page, pageSize = q.Page, q.PageSize
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	// (page-1)*pageSize stays within a 32-bit OFFSET
	if maxPage := math.MaxInt32/pageSize + 1; page > maxPage {
		page = maxPage
	}
	return page, pageSize
}

// PageResponse is the envelope for every paginated list
type PageResponse[T any] struct {
	Data       []T `json:"data"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewPageResponse creates a paginated response
func NewPageResponse[T any](data []T, total int64, page, pageSize int) *PageResponse[T] {
	if data == nil {
		data = []T{}
	}
	totalPages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		totalPages++
	}

	return &PageResponse[T]{
		Data:       data,
		Page:       page,
		PageSize:   pageSize,
		Total:      int(total),
		TotalPages: totalPages,
	}
}
