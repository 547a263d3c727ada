package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"yamdb/cmd/cli/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToken_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/auth/token", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var req dto.TokenRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "alice", req.Username)
		assert.Equal(t, "ABCDEF0123", req.ConfirmationCode)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token":"jwt"}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL + "/api/v1/")
	resp, err := c.Token(&dto.TokenRequest{Username: "alice", ConfirmationCode: "ABCDEF0123"})

	require.NoError(t, err)
	assert.Equal(t, "jwt", resp.Token)
}

func TestAPIErrorIsDecoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"validation failed","fields":{"username":"this field is required"}}`))
	}))
	defer srv.Close()

	_, err := NewHTTPClient(srv.URL).Signup(&dto.SignupRequest{})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "this field is required", apiErr.Fields["username"])
	assert.Equal(t, "validation failed (HTTP 400): username: this field is required", err.Error())
}

func TestListTitles_QueryAndBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/titles", r.URL.Path)
		assert.Equal(t, "books", r.URL.Query().Get("category"))
		assert.Equal(t, "1965", r.URL.Query().Get("year"))
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Empty(t, r.URL.Query().Get("genre"))
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		_, _ = w.Write([]byte(`{"data":[{"id":1,"name":"Dune","year":1965,"rating":null,"genre":[],"category":null}],
			"page":2,"page_size":20,"total":21,"total_pages":2}`))
	}))
	defer srv.Close()

	c := NewHTTPClient(srv.URL)
	c.SetToken("tok")
	page, err := c.ListTitles(dto.TitleFilter{Category: "books", Year: 1965, Page: 2})

	require.NoError(t, err)
	require.Len(t, page.Data, 1)
	assert.Nil(t, page.Data[0].Rating)
	assert.False(t, page.HasNext())
}

func TestDeleteReview_NoContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/titles/1/reviews/9", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	assert.NoError(t, NewHTTPClient(srv.URL).DeleteReview(1, 9))
}
