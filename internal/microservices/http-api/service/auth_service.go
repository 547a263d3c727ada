package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yamdb/internal/config"
	"yamdb/internal/logging"
	"yamdb/internal/mail"
	"yamdb/internal/metrics"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/repository"
	"yamdb/internal/middleware/auth"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

const (
	activationSubject = "Activation"
	tokenTypeAccess   = "access"
	mailTimeout       = 30 * time.Second
)

// Claims are the access token claims.
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Type     string `json:"type"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error)
	IssueToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error)
	ValidateToken(tokenString string) (*Claims, error)
	// Authenticate validates the token and loads the user it was issued to.
	Authenticate(ctx context.Context, tokenString string) (*models.User, error)
}

type authService struct {
	userRepo       repository.UserRepository
	codes          repository.ConfirmationStore
	sender         mail.Sender
	jwtSecret      string
	accessTokenTTL time.Duration
	codeTTL        time.Duration

	now   func() time.Time
	spawn func(func())
}

func NewAuthService(
	userRepo repository.UserRepository,
	codes repository.ConfirmationStore,
	sender mail.Sender,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:       userRepo,
		codes:          codes,
		sender:         sender,
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
		codeTTL:        cfg.ConfirmationCodeTTL,
		now:            time.Now,
		spawn:          func(f func()) { go f() },
	}
}

// Signup registers a new user, or re-sends a code when the exact
// (username, email) pair is already registered.
func (s *authService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	byName, err := s.findOptional(s.userRepo.FindByUsername(ctx, req.Username))
	if err != nil {
		return nil, err
	}
	byEmail, err := s.findOptional(s.userRepo.FindByEmail(ctx, req.Email))
	if err != nil {
		return nil, err
	}

	var user *models.User
	created := false
	switch {
	case byName != nil && byEmail != nil && byName.ID == byEmail.ID:
		user = byName
	case byName != nil || byEmail != nil:
		return nil, ErrIdentityConflict
	default:
		user = &models.User{
			Username: req.Username,
			Email:    req.Email,
			Role:     models.RoleUser,
		}
		if err := s.userRepo.Create(ctx, user); err != nil {
			// lost a race with a concurrent signup for the same name or email
			if repository.IsUniqueViolation(err) {
				return nil, ErrIdentityConflict
			}
			return nil, err
		}
		created = true
	}

	code := auth.GenerateConfirmationCode()
	hash, err := auth.HashCode(code)
	if err != nil {
		return nil, fmt.Errorf("hash confirmation code: %w", err)
	}
	if err := s.codes.Save(ctx, user.ID, hash, s.codeTTL); err != nil {
		return nil, err
	}

	s.sendCode(ctx, user, code)
	metrics.RecordSignup(created)
	logging.Ctx(ctx).Info().
		Str("username", user.Username).
		Bool("created", created).
		Msg("confirmation code issued")

	return &dto.SignupResponse{Username: user.Username, Email: user.Email}, nil
}

// sendCode delivers the code in the background; failures are only logged.
func (s *authService) sendCode(ctx context.Context, user *models.User, code string) {
	msg := mail.Message{
		To:      user.Email,
		Subject: activationSubject,
		Body:    fmt.Sprintf("%s, your confirmation code: %s", user.Username, code),
	}
	requestID := logging.RequestIDFromContext(ctx)

	s.spawn(func() {
		mailCtx, cancel := context.WithTimeout(logging.ContextWithRequestID(context.Background(), requestID), mailTimeout)
		defer cancel()
		if err := s.sender.Send(mailCtx, msg); err != nil {
			metrics.EmailFailuresTotal.Inc()
			logging.Ctx(mailCtx).Warn().Err(err).Str("username", user.Username).Msg("failed to send confirmation email")
		}
	})
}

// IssueToken exchanges a valid confirmation code for an access token.
func (s *authService) IssueToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error) {
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		return nil, notFound("user", err)
	}

	hash, err := s.codes.Get(ctx, user.ID)
	if errors.Is(err, repository.ErrCodeNotFound) {
		metrics.ConfirmationFailuresTotal.Inc()
		return nil, ErrInvalidConfirmationCode
	}
	if err != nil {
		return nil, err
	}
	if err := auth.VerifyCode(hash, req.ConfirmationCode); err != nil {
		metrics.ConfirmationFailuresTotal.Inc()
		return nil, ErrInvalidConfirmationCode
	}

	// codes are single use; a concurrent exchange of the same code loses here
	if err := s.codes.Consume(ctx, user.ID, hash); err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			metrics.ConfirmationFailuresTotal.Inc()
			return nil, ErrInvalidConfirmationCode
		}
		return nil, err
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	metrics.TokensIssuedTotal.Inc()

	return &dto.TokenResponse{Token: token}, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := s.now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
		Type:     tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid || claims.Type != tokenTypeAccess || claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (s *authService) Authenticate(ctx context.Context, tokenString string) (*models.User, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			// the account was deleted after the token was issued
			return nil, ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// findOptional treats a missing row as nil without error
func (s *authService) findOptional(user *models.User, err error) (*models.User, error) {
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
