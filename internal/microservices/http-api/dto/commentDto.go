package dto

import (
	"time"

	"yamdb/internal/microservices/http-api/models"
)

// CommentRequest is used for both create and update; text is the only writable field
type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

type CommentResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
	Review  int64     `json:"review"`
}

func FromModelToCommentResponse(c *models.Comment) CommentResponse {
	return CommentResponse{
		ID:      c.ID,
		Text:    c.Text,
		Author:  c.Author.Username,
		PubDate: c.PubDate,
		Review:  c.ReviewID,
	}
}
