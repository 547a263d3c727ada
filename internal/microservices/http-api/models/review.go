package models

import "time"

// ReviewTitleAuthorIndex backs the one-review-per-author rule.
const ReviewTitleAuthorIndex = "idx_reviews_title_author"

type Review struct {
	ID       int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	TitleID  int64     `json:"title_id" gorm:"not null;uniqueIndex:idx_reviews_title_author,priority:1"`
	AuthorID string    `json:"author_id" gorm:"type:uuid;not null;uniqueIndex:idx_reviews_title_author,priority:2;index"`
	Text     string    `json:"text" gorm:"not null;type:text"`
	Score    int       `json:"score" gorm:"not null;check:score >= 1 AND score <= 10"`
	PubDate  time.Time `json:"pub_date" gorm:"autoCreateTime;index"`

	// Associations
	Author User  `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE;"`
	Title  Title `json:"-" gorm:"foreignKey:TitleID;constraint:OnDelete:CASCADE;"`
}

func (Review) TableName() string {
	return "reviews"
}
