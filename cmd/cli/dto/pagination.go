package dto

// Page mirrors the server's paginated list envelope.
type Page[T any] struct {
	Data       []T `json:"data"`
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// HasNext reports whether another page follows this one.
func (p Page[T]) HasNext() bool {
	return p.Page < p.TotalPages
}
