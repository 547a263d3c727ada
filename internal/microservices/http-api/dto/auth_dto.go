package dto

// Data Transfer Objects for the signup / confirmation code flow

// SignupRequest: payload for POST /auth/signup
type SignupRequest struct {
	Username string `json:"username" binding:"required,max=150,username,notme"`
	Email    string `json:"email" binding:"required,max=254,email"`
}

// SignupResponse echoes the accepted identity; the code goes out by email only
type SignupResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenRequest: payload for POST /auth/token
type TokenRequest struct {
	Username         string `json:"username" binding:"required,max=150"`
	ConfirmationCode string `json:"confirmation_code" binding:"required,max=255"`
}

// TokenResponse carries the access token
type TokenResponse struct {
	Token string `json:"token"`
}
