package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"yamdb/internal/authz"
	"yamdb/internal/microservices/http-api/dto"
	"yamdb/internal/microservices/http-api/models"
	"yamdb/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var (
	alice = &models.User{ID: "alice-id", Username: "alice", Email: "alice@example.com", Role: models.RoleUser}
	admin = &models.User{ID: "admin-id", Username: "root", Email: "root@example.com", Role: models.RoleAdmin}
)

// MockAuthService resolves the bearer tokens "alice" and "admin" without a mock expectation.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Signup(ctx context.Context, req dto.SignupRequest) (*dto.SignupResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SignupResponse), args.Error(1)
}

func (m *MockAuthService) IssueToken(ctx context.Context, req dto.TokenRequest) (*dto.TokenResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TokenResponse), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*service.Claims, error) {
	return nil, service.ErrInvalidToken
}

func (m *MockAuthService) Authenticate(_ context.Context, token string) (*models.User, error) {
	switch token {
	case "alice":
		return alice, nil
	case "admin":
		return admin, nil
	}
	return nil, service.ErrInvalidToken
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetMe(ctx context.Context, actor *models.User) (*dto.UserResponse, error) {
	args := m.Called(ctx, actor)
	return userResult(args)
}

func (m *MockUserService) UpdateMe(ctx context.Context, actor *models.User, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, actor, req)
	return userResult(args)
}

func (m *MockUserService) List(ctx context.Context, actor *models.User, search string, page, pageSize int) (*dto.PageResponse[dto.UserResponse], error) {
	args := m.Called(ctx, actor, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PageResponse[dto.UserResponse]), args.Error(1)
}

func (m *MockUserService) Get(ctx context.Context, actor *models.User, username string) (*dto.UserResponse, error) {
	args := m.Called(ctx, actor, username)
	return userResult(args)
}

func (m *MockUserService) Create(ctx context.Context, actor *models.User, req dto.CreateUserRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, actor, req)
	return userResult(args)
}

func (m *MockUserService) Update(ctx context.Context, actor *models.User, username string, req dto.UpdateUserRequest) (*dto.UserResponse, error) {
	args := m.Called(ctx, actor, username, req)
	return userResult(args)
}

func (m *MockUserService) Delete(ctx context.Context, actor *models.User, username string) error {
	return m.Called(ctx, actor, username).Error(0)
}

func userResult(args mock.Arguments) (*dto.UserResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.UserResponse), args.Error(1)
}

type MockGenreService struct {
	mock.Mock
}

func (m *MockGenreService) List(ctx context.Context, search string, page, pageSize int) (*dto.PageResponse[dto.GenreResponse], error) {
	args := m.Called(ctx, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PageResponse[dto.GenreResponse]), args.Error(1)
}

func (m *MockGenreService) Create(ctx context.Context, actor *models.User, req dto.CreateGenreDTO) (*dto.GenreResponse, error) {
	args := m.Called(ctx, actor, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.GenreResponse), args.Error(1)
}

func (m *MockGenreService) Delete(ctx context.Context, actor *models.User, slug string) error {
	return m.Called(ctx, actor, slug).Error(0)
}

type MockTitleService struct {
	mock.Mock
}

func (m *MockTitleService) List(ctx context.Context, q dto.TitleQuery) (*dto.PageResponse[dto.TitleResponse], error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PageResponse[dto.TitleResponse]), args.Error(1)
}

func (m *MockTitleService) Get(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	args := m.Called(ctx, id)
	return titleResult(args)
}

func (m *MockTitleService) Create(ctx context.Context, actor *models.User, req dto.CreateTitleRequest) (*dto.TitleResponse, error) {
	args := m.Called(ctx, actor, req)
	return titleResult(args)
}

func (m *MockTitleService) Update(ctx context.Context, actor *models.User, id int64, req dto.UpdateTitleRequest) (*dto.TitleResponse, error) {
	args := m.Called(ctx, actor, id, req)
	return titleResult(args)
}

func (m *MockTitleService) Delete(ctx context.Context, actor *models.User, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

func titleResult(args mock.Arguments) (*dto.TitleResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.TitleResponse), args.Error(1)
}

type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) List(ctx context.Context, titleID int64, page, pageSize int) (*dto.PageResponse[dto.ReviewResponse], error) {
	args := m.Called(ctx, titleID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PageResponse[dto.ReviewResponse]), args.Error(1)
}

func (m *MockReviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, titleID, reviewID)
	return reviewResult(args)
}

func (m *MockReviewService) Create(ctx context.Context, actor *models.User, titleID int64, req dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, actor, titleID, req)
	return reviewResult(args)
}

func (m *MockReviewService) Update(ctx context.Context, actor *models.User, titleID, reviewID int64, req dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	args := m.Called(ctx, actor, titleID, reviewID, req)
	return reviewResult(args)
}

func (m *MockReviewService) Delete(ctx context.Context, actor *models.User, titleID, reviewID int64) error {
	return m.Called(ctx, actor, titleID, reviewID).Error(0)
}

func reviewResult(args mock.Arguments) (*dto.ReviewResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ReviewResponse), args.Error(1)
}

type MockCommentService struct {
	mock.Mock
}

func (m *MockCommentService) List(ctx context.Context, titleID, reviewID int64, page, pageSize int) (*dto.PageResponse[dto.CommentResponse], error) {
	args := m.Called(ctx, titleID, reviewID, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.PageResponse[dto.CommentResponse]), args.Error(1)
}

func (m *MockCommentService) Get(ctx context.Context, titleID, reviewID, commentID int64) (*dto.CommentResponse, error) {
	args := m.Called(ctx, titleID, reviewID, commentID)
	return commentResult(args)
}

func (m *MockCommentService) Create(ctx context.Context, actor *models.User, titleID, reviewID int64, req dto.CommentRequest) (*dto.CommentResponse, error) {
	args := m.Called(ctx, actor, titleID, reviewID, req)
	return commentResult(args)
}

func (m *MockCommentService) Update(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64, req dto.CommentRequest) (*dto.CommentResponse, error) {
	args := m.Called(ctx, actor, titleID, reviewID, commentID, req)
	return commentResult(args)
}

func (m *MockCommentService) Delete(ctx context.Context, actor *models.User, titleID, reviewID, commentID int64) error {
	return m.Called(ctx, actor, titleID, reviewID, commentID).Error(0)
}

func commentResult(args mock.Arguments) (*dto.CommentResponse, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.CommentResponse), args.Error(1)
}

type testAPI struct {
	router     *gin.Engine
	auth       *MockAuthService
	users      *MockUserService
	genres     *MockGenreService
	categories *MockGenreService
	titles     *MockTitleService
	reviews    *MockReviewService
	comments   *MockCommentService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	enforcer, err := authz.NewEnforcer()
	require.NoError(t, err)

	api := &testAPI{
		auth:       new(MockAuthService),
		users:      new(MockUserService),
		genres:     new(MockGenreService),
		categories: new(MockGenreService),
		titles:     new(MockTitleService),
		reviews:    new(MockReviewService),
		comments:   new(MockCommentService),
	}
	api.router = NewRouter(RouterConfig{
		Auth:       api.auth,
		Users:      api.users,
		Genres:     api.genres,
		Categories: api.categories,
		Titles:     api.titles,
		Reviews:    api.reviews,
		Comments:   api.comments,
		Enforcer:   enforcer,
	})
	return api
}

// do sends body (marshalled to JSON unless nil) with an optional bearer token.
func (a *testAPI) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func intPtr(i int) *int { return &i }
