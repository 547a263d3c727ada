package dto

import "time"

// client-side copies of the API representations

type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type TokenRequest struct {
	Username         string `json:"username"`
	ConfirmationCode string `json:"confirmation_code"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

type User struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
	Role      string `json:"role"`
}

type UpdateMeRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Bio       *string `json:"bio,omitempty"`
}

// Genre is also used for categories
type Genre struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Title struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Year        int      `json:"year"`
	Rating      *float64 `json:"rating"`
	Description *string  `json:"description"`
	Genre       []Genre  `json:"genre"`
	Category    *Genre   `json:"category"`
}

type TitleFilter struct {
	Category string
	Genre    string
	Name     string
	Year     int
	Page     int
}

type Review struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
	Title   int64     `json:"title"`
}

type ReviewRequest struct {
	Text  string `json:"text"`
	Score int    `json:"score"`
}

type Comment struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
	Review  int64     `json:"review"`
}

type CommentRequest struct {
	Text string `json:"text"`
}

// APIError is the server's error body.
type APIError struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}
