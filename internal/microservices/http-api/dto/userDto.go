package dto

import "yamdb/internal/microservices/http-api/models"

// CreateUserRequest is used by admins on POST /users
type CreateUserRequest struct {
	Username  string      `json:"username" binding:"required,max=150,username,notme"`
	Email     string      `json:"email" binding:"required,max=254,email"`
	FirstName string      `json:"first_name" binding:"max=150"`
	LastName  string      `json:"last_name" binding:"max=150"`
	Bio       string      `json:"bio"`
	Role      models.Role `json:"role" binding:"omitempty,role"`
}

// UpdateUserRequest is a partial update; nil fields are left untouched.
// Role is ignored on /users/me.
type UpdateUserRequest struct {
	Username  *string      `json:"username" binding:"omitempty,max=150,username,notme"`
	Email     *string      `json:"email" binding:"omitempty,max=254,email"`
	FirstName *string      `json:"first_name" binding:"omitempty,max=150"`
	LastName  *string      `json:"last_name" binding:"omitempty,max=150"`
	Bio       *string      `json:"bio"`
	Role      *models.Role `json:"role" binding:"omitempty,role"`
}

type UserResponse struct {
	Username  string      `json:"username"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Bio       string      `json:"bio"`
	Role      models.Role `json:"role"`
}

func UserFromModel(u *models.User) UserResponse {
	return UserResponse{
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Bio:       u.Bio,
		Role:      u.Role,
	}
}
