package client

// http_client.go wraps the yamdb REST API for the CLI commands.

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"yamdb/cmd/cli/dto"
)

type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
	Fields     map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return fmt.Sprintf("%s (HTTP %d): %s", e.Message, e.StatusCode, strings.Join(parts, "; "))
}

func NewHTTPClient(apiURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(apiURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// do sends body as JSON and decodes a successful response into out (when non-nil).
func (c *HTTPClient) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	response, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: response.StatusCode, Message: response.Status}
		var payload dto.APIError
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && payload.Error != "" {
			apiErr.Message = payload.Error
			apiErr.Fields = payload.Fields
		}
		return apiErr
	}

	if out == nil || response.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(response.Body).Decode(out)
}

func pageQuery(page int) url.Values {
	q := url.Values{}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	return q
}

func withQuery(path string, q url.Values) string {
	if len(q) == 0 {
		return path
	}
	return path + "?" + q.Encode()
}

// Auth

func (c *HTTPClient) Signup(req *dto.SignupRequest) (*dto.SignupResponse, error) {
	var result dto.SignupResponse
	if err := c.do(http.MethodPost, "/auth/signup", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Token(req *dto.TokenRequest) (*dto.TokenResponse, error) {
	var result dto.TokenResponse
	if err := c.do(http.MethodPost, "/auth/token", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Users

func (c *HTTPClient) Me() (*dto.User, error) {
	var result dto.User
	if err := c.do(http.MethodGet, "/users/me", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) UpdateMe(req *dto.UpdateMeRequest) (*dto.User, error) {
	var result dto.User
	if err := c.do(http.MethodPatch, "/users/me", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Categories and genres share the {name, slug} shape; kind is "genres" or "categories".

func (c *HTTPClient) ListDictionary(kind, search string, page int) (*dto.Page[dto.Genre], error) {
	q := pageQuery(page)
	if search != "" {
		q.Set("search", search)
	}
	var result dto.Page[dto.Genre]
	if err := c.do(http.MethodGet, withQuery("/"+kind, q), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Titles

func (c *HTTPClient) ListTitles(f dto.TitleFilter) (*dto.Page[dto.Title], error) {
	q := pageQuery(f.Page)
	if f.Category != "" {
		q.Set("category", f.Category)
	}
	if f.Genre != "" {
		q.Set("genre", f.Genre)
	}
	if f.Name != "" {
		q.Set("name", f.Name)
	}
	if f.Year != 0 {
		q.Set("year", strconv.Itoa(f.Year))
	}
	var result dto.Page[dto.Title]
	if err := c.do(http.MethodGet, withQuery("/titles", q), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) GetTitle(id int64) (*dto.Title, error) {
	var result dto.Title
	if err := c.do(http.MethodGet, fmt.Sprintf("/titles/%d", id), nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Reviews

func (c *HTTPClient) ListReviews(titleID int64, page int) (*dto.Page[dto.Review], error) {
	var result dto.Page[dto.Review]
	path := withQuery(fmt.Sprintf("/titles/%d/reviews", titleID), pageQuery(page))
	if err := c.do(http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) AddReview(titleID int64, req *dto.ReviewRequest) (*dto.Review, error) {
	var result dto.Review
	if err := c.do(http.MethodPost, fmt.Sprintf("/titles/%d/reviews", titleID), req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) DeleteReview(titleID, reviewID int64) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/titles/%d/reviews/%d", titleID, reviewID), nil, nil)
}

// Comments

func (c *HTTPClient) ListComments(titleID, reviewID int64, page int) (*dto.Page[dto.Comment], error) {
	var result dto.Page[dto.Comment]
	path := withQuery(fmt.Sprintf("/titles/%d/reviews/%d/comments", titleID, reviewID), pageQuery(page))
	if err := c.do(http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) AddComment(titleID, reviewID int64, req *dto.CommentRequest) (*dto.Comment, error) {
	var result dto.Comment
	path := fmt.Sprintf("/titles/%d/reviews/%d/comments", titleID, reviewID)
	if err := c.do(http.MethodPost, path, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) DeleteComment(titleID, reviewID, commentID int64) error {
	return c.do(http.MethodDelete, fmt.Sprintf("/titles/%d/reviews/%d/comments/%d", titleID, reviewID, commentID), nil, nil)
}
