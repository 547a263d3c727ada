package service

import (
	"context"
	"fmt"

	"yamdb/internal/authz"
	"yamdb/internal/logging"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
)

type UserService interface {
	GetMe(ctx context.Context, actor *models.User) (*dto.UserResponse, error)
	UpdateMe(ctx context.Context, actor *models.User, req dto.UpdateUserRequest) (*dto.UserResponse, error)

	List(ctx context.Context, actor *models.User, search string, page, pageSize int) (*dto.PageResponse[dto.UserResponse], error)
	Get(ctx context.Context, actor *models.User, username string) (*dto.UserResponse, error)
	Create(ctx context.Context, actor *models.User, req dto.CreateUserRequest) (*dto.UserResponse, error)
	Update(ctx context.Context, actor *models.User, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error)
	Delete(ctx context.Context, actor *models.User, username string) error
}

type userService struct {
	userRepo repository.UserRepository
	enforcer *authz.Enforcer
}

func NewUserService(userRepo repository.UserRepository, enforcer *authz.Enforcer) UserService {
	return &userService{userRepo: userRepo, enforcer: enforcer}
}

func (s *userService) GetMe(ctx context.Context, actor *models.User) (*dto.UserResponse, error) {
	if err := s.enforcer.Authorize(actor, authz.ResourceMe, authz.ActionRead, ownerOf(actor)); err != nil {
		return nil, err
	}
	resp := dto.UserFromModel(actor)
	return &resp, nil
}

// UpdateMe applies a partial update to the caller's own record; role changes are dropped.
func (s *userService) UpdateMe(ctx context.Context, actor *models.User, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := s.enforcer.Authorize(actor, authz.ResourceMe, authz.ActionUpdate, ownerOf(actor)); err != nil {
		return nil, err
	}
	req.Role = nil
	return s.applyUpdate(ctx, actor, req)
}

func (s *userService) List(ctx context.Context, actor *models.User, search string, page, pageSize int) (*dto.PageResponse[dto.UserResponse], error) {
	if err := s.enforcer.Authorize(actor, authz.ResourceUsers, authz.ActionRead, ""); err != nil {
		return nil, err
	}
	page, pageSize = normalizePage(page, pageSize)

	users, total, err := s.userRepo.List(ctx, search, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	data := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		data = append(data, dto.UserFromModel(&users[i]))
	}
	return dto.NewPageResponse(data, total, page, pageSize), nil
}

func (s *userService) Get(ctx context.Context, actor *models.User, username string) (*dto.UserResponse, error) {
	if err := s.enforcer.Authorize(actor, authz.ResourceUsers, authz.ActionRead, ""); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFound("user", err)
	}
	resp := dto.UserFromModel(user)
	return &resp, nil
}

func (s *userService) Create(ctx context.Context, actor *models.User, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	if err := s.enforcer.Authorize(actor, authz.ResourceUsers, authz.ActionCreate, ""); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.ensureAvailable(ctx, "", &req.Username, &req.Email); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	user := &models.User{
		Username:  req.Username,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		Role:      role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, NewValidationError("username", "a user with this username or email already exists")
		}
		return nil, err
	}

	logging.Ctx(ctx).Info().Str("username", user.Username).Str("by", actor.Username).Msg("user created")
	resp := dto.UserFromModel(user)
	return &resp, nil
}

func (s *userService) Update(ctx context.Context, actor *models.User, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := s.enforcer.Authorize(actor, authz.ResourceUsers, authz.ActionUpdate, ""); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFound("user", err)
	}
	return s.applyUpdate(ctx, user, req)
}

func (s *userService) Delete(ctx context.Context, actor *models.User, username string) error {
	if err := s.enforcer.Authorize(actor, authz.ResourceUsers, authz.ActionDelete, ""); err != nil {
		return err
	}
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return notFound("user", err)
	}
	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		return notFound("user", err)
	}
	logging.Ctx(ctx).Info().Str("username", username).Str("by", actor.Username).Msg("user deleted")
	return nil
}

func (s *userService) applyUpdate(ctx context.Context, user *models.User, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.ensureAvailable(ctx, user.ID, req.Username, req.Email); err != nil {
		return nil, err
	}

	// work on a copy so a failed save leaves the caller's value untouched
	updated := *user
	if req.Username != nil {
		updated.Username = *req.Username
	}
	if req.Email != nil {
		updated.Email = *req.Email
	}
	if req.FirstName != nil {
		updated.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		updated.LastName = *req.LastName
	}
	if req.Bio != nil {
		updated.Bio = *req.Bio
	}
	if req.Role != nil {
		updated.Role = *req.Role
	}

	if err := s.userRepo.Update(ctx, &updated); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, NewValidationError("username", "a user with this username or email already exists")
		}
		return nil, err
	}
	resp := dto.UserFromModel(&updated)
	return &resp, nil
}

// ensureAvailable rejects a username or email that belongs to another account than selfID
func (s *userService) ensureAvailable(ctx context.Context, selfID string, username, email *string) error {
	fields := map[string]string{}
	if username != nil {
		other, err := s.userRepo.FindByUsername(ctx, *username)
		if err != nil && !repository.IsNotFound(err) {
			return err
		}
		if other != nil && other.ID != selfID {
			fields["username"] = "a user with this username already exists"
		}
	}
	if email != nil {
		other, err := s.userRepo.FindByEmail(ctx, *email)
		if err != nil && !repository.IsNotFound(err) {
			return err
		}
		if other != nil && other.ID != selfID {
			fields["email"] = "a user with this email already exists"
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func ownerOf(actor *models.User) string {
	if actor == nil {
		return ""
	}
	return actor.ID
}
