package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daniilsolovey/newsroom/internal/archive"
	"github.com/daniilsolovey/newsroom/internal/auth"
	"github.com/daniilsolovey/newsroom/internal/db"
	"github.com/daniilsolovey/newsroom/internal/newsportal"
	"github.com/daniilsolovey/newsroom/internal/upload"
)

// mockNewsService is a manual stub implementation of NewsService for testing
type mockNewsService struct {
	archiveFunc       func(ctx context.Context, params archive.Params) (*newsportal.ArchivePage, error)
	indexFunc         func(ctx context.Context) (*newsportal.Homepage, error)
	fullNewsFunc      func(ctx context.Context, postID int) (*newsportal.FullNews, error)
	categoriesFunc    func(ctx context.Context) ([]newsportal.Category, error)
	addCommentFunc    func(ctx context.Context, in newsportal.CommentInput) (*newsportal.Comment, error)
	acceptCommentFunc func(ctx context.Context, userID, commentID int) error
	createPostFunc    func(ctx context.Context, authorID int, in newsportal.PostInput) (*newsportal.Post, error)
	updatePostFunc    func(ctx context.Context, userID, postID int, in newsportal.PostInput) (*newsportal.Post, error)
	deletePostFunc    func(ctx context.Context, userID, postID int) error
	profileFunc       func(ctx context.Context, userID int) (*newsportal.Profile, error)
}

func (m *mockNewsService) Archive(ctx context.Context, params archive.Params) (*newsportal.ArchivePage, error) {
	return m.archiveFunc(ctx, params)
}

func (m *mockNewsService) Index(ctx context.Context) (*newsportal.Homepage, error) {
	return m.indexFunc(ctx)
}

func (m *mockNewsService) FullNews(ctx context.Context, postID int) (*newsportal.FullNews, error) {
	return m.fullNewsFunc(ctx, postID)
}

func (m *mockNewsService) Categories(ctx context.Context) ([]newsportal.Category, error) {
	return m.categoriesFunc(ctx)
}

func (m *mockNewsService) Ads(context.Context) ([]newsportal.Ad, error) {
	return []newsportal.Ad{{Ad: db.Ad{ID: 1, Title: "ad"}}}, nil
}

func (m *mockNewsService) AddComment(ctx context.Context, in newsportal.CommentInput) (*newsportal.Comment, error) {
	return m.addCommentFunc(ctx, in)
}

func (m *mockNewsService) AcceptComment(ctx context.Context, userID, commentID int) error {
	return m.acceptCommentFunc(ctx, userID, commentID)
}

func (m *mockNewsService) CreatePost(ctx context.Context, authorID int, in newsportal.PostInput) (*newsportal.Post, error) {
	return m.createPostFunc(ctx, authorID, in)
}

func (m *mockNewsService) UpdatePost(ctx context.Context, userID, postID int, in newsportal.PostInput) (*newsportal.Post, error) {
	return m.updatePostFunc(ctx, userID, postID, in)
}

func (m *mockNewsService) DeletePost(ctx context.Context, userID, postID int) error {
	return m.deletePostFunc(ctx, userID, postID)
}

func (m *mockNewsService) Profile(ctx context.Context, userID int) (*newsportal.Profile, error) {
	return m.profileFunc(ctx, userID)
}

// mockAccounts accepts the token "good" for user 1.
type mockAccounts struct {
	loggedOut []string
}

func (m *mockAccounts) SignUp(_ context.Context, in auth.SignUpInput) (*db.User, error) {
	if in.Username == "taken" {
		return nil, auth.ErrUsernameExists
	}
	return &db.User{ID: 2, Username: in.Username, Email: in.Email}, nil
}

func (m *mockAccounts) Login(_ context.Context, username, password string) (*auth.Token, error) {
	if username != "editor" || password != "secret" {
		return nil, auth.ErrInvalidCredentials
	}
	return &auth.Token{Value: "good", ExpiresAt: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC)}, nil
}

func (m *mockAccounts) Authenticate(_ context.Context, token string) (*auth.Claims, error) {
	if token != "good" {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{UserID: 1, TokenID: "jti"}, nil
}

func (m *mockAccounts) Logout(_ context.Context, c auth.Claims) error {
	m.loggedOut = append(m.loggedOut, c.TokenID)
	return nil
}

func newTestServer(uc *mockNewsService) (http.Handler, *mockAccounts) {
	accounts := &mockAccounts{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewNewsHandler(uc, accounts, logger).RegisterRoutes(""), accounts
}

func do(t *testing.T, h http.Handler, req *http.Request, v any) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if v != nil {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
	}
	return rec
}

func testPost(id int) newsportal.Post {
	return newsportal.Post{
		Post: db.Post{
			ID:          id,
			Title:       "Post",
			Article:     "<p>Body</p>",
			PublishDate: time.Date(2023, 1, id, 9, 0, 0, 0, time.UTC),
			Author:      &db.User{ID: 1, Username: "editor", PasswordHash: "hash"},
		},
		Summary:    "Body",
		Categories: []newsportal.Category{{Category: db.Category{ID: 1, Name: "Sport", URLName: "sport"}}},
	}
}

func TestNewsHandler_Archive(t *testing.T) {
	now := time.Date(2023, 1, 31, 12, 0, 0, 0, time.UTC)

	var got archive.Params
	uc := &mockNewsService{
		archiveFunc: func(_ context.Context, params archive.Params) (*newsportal.ArchivePage, error) {
			got = params
			q := archive.ParseParams(params, now)
			page := archive.NewPaginator(31, archive.PageSize).Page(q.Page)
			links := map[int]string{}
			for _, n := range page.Window(archive.PaginationCount) {
				links[n] = q.PageLink(n, now)
			}
			return &newsportal.ArchivePage{
				Query:     q,
				Page:      page,
				Posts:     []newsportal.Post{testPost(13), testPost(14)},
				Filters:   q.Filters(now),
				PageLinks: links,
			}, nil
		},
	}
	srv, _ := newTestServer(uc)

	var resp Archive
	req := httptest.NewRequest(http.MethodGet, "/api/v1/archive?start_date=2023-01-01&end_date=2023-01-31&order=visits&page=2", nil)
	rec := do(t, srv, req, &resp)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, archive.Params{StartDate: "2023-01-01", EndDate: "2023-01-31", Order: "visits", Page: "2"}, got)
	assert.Equal(t, "order=visits&start_date=2023-01-01", resp.Filters)
	assert.Equal(t, "visits", resp.Query.Order)
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, 3, resp.Pagination.NumPages)
	assert.Equal(t, 13, resp.Pagination.StartIndex)
	assert.Equal(t, 24, resp.Pagination.EndIndex)
	require.Len(t, resp.Pagination.Links, 3)
	assert.Equal(t, PageLink{Page: 2, Query: "page=2&order=visits&start_date=2023-01-01", Current: true}, resp.Pagination.Links[1])
	assert.Len(t, resp.Orders, 8)
	require.Len(t, resp.Posts, 2)
	assert.Equal(t, "Body", resp.Posts[0].Summary)
	assert.NotContains(t, rec.Body.String(), "hash")
}

func TestNewsHandler_NewsByID(t *testing.T) {
	uc := &mockNewsService{
		fullNewsFunc: func(_ context.Context, postID int) (*newsportal.FullNews, error) {
			if postID != 4 {
				return nil, newsportal.ErrNotFound
			}
			reply := newsportal.Comment{Comment: db.Comment{ID: 2, Text: "answer", IsAccepted: true}}
			return &newsportal.FullNews{
				Post:     testPost(4),
				Comments: []newsportal.Comment{{Comment: db.Comment{ID: 1, Text: "question", IsAccepted: true}, Reply: &reply}},
			}, nil
		},
	}
	srv, _ := newTestServer(uc)

	tests := []struct {
		name   string
		path   string
		status int
	}{
		{"Found", "/api/v1/news/4", http.StatusOK},
		{"NotFound", "/api/v1/news/5", http.StatusNotFound},
		{"InvalidID", "/api/v1/news/abc", http.StatusBadRequest},
		{"NegativeID", "/api/v1/news/-1", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, srv, httptest.NewRequest(http.MethodGet, tt.path, nil), nil)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	var resp FullNews
	do(t, srv, httptest.NewRequest(http.MethodGet, "/api/v1/news/4", nil), &resp)
	assert.Equal(t, "<p>Body</p>", resp.Post.Article)
	require.Len(t, resp.Comments, 1)
	require.NotNil(t, resp.Comments[0].Reply)
	assert.Equal(t, "answer", resp.Comments[0].Reply.Text)
}

func TestNewsHandler_IndexError(t *testing.T) {
	uc := &mockNewsService{
		indexFunc: func(context.Context) (*newsportal.Homepage, error) {
			return nil, errors.New("db is down")
		},
	}
	srv, _ := newTestServer(uc)

	var resp map[string]string
	rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/api/v1/index", nil), &resp)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, map[string]string{"error": "internal error"}, resp)
}

func TestNewsHandler_AddComment(t *testing.T) {
	var got newsportal.CommentInput
	uc := &mockNewsService{
		addCommentFunc: func(_ context.Context, in newsportal.CommentInput) (*newsportal.Comment, error) {
			got = in
			if in.Email == "" {
				return nil, newsportal.ErrInvalidInput
			}
			return &newsportal.Comment{Comment: db.Comment{ID: 9, PostID: in.PostID, Text: in.Text}}, nil
		},
	}
	srv, _ := newTestServer(uc)

	body := `{"writer":"Bob","email":"bob@example.com","text":"hi","repliedOn":3}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/news/7/comments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	var resp Comment
	rec := do(t, srv, req, &resp)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 9, resp.CommentID)
	assert.Equal(t, 7, got.PostID)
	require.NotNil(t, got.RepliedOn)
	assert.Equal(t, 3, *got.RepliedOn)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/news/7/comments", strings.NewReader(`{"text":"hi"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = do(t, srv, req, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNewsHandler_Accounts(t *testing.T) {
	uc := &mockNewsService{
		profileFunc: func(_ context.Context, userID int) (*newsportal.Profile, error) {
			return &newsportal.Profile{User: newsportal.User{User: db.User{ID: userID, Username: "editor"}}}, nil
		},
	}
	srv, accounts := newTestServer(uc)

	jsonReq := func(method, path, body string) *http.Request {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		return req
	}

	rec := do(t, srv, jsonReq(http.MethodPost, "/api/v1/signup", `{"username":"new","email":"n@example.com","password":"secret"}`), nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
	rec = do(t, srv, jsonReq(http.MethodPost, "/api/v1/signup", `{"username":"taken"}`), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, srv, jsonReq(http.MethodPost, "/api/v1/login", `{"username":"editor","password":"nope"}`), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var token TokenResponse
	rec = do(t, srv, jsonReq(http.MethodPost, "/api/v1/login", `{"username":"editor","password":"secret"}`), &token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "good", token.Token)

	rec = do(t, srv, httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer bad")
	rec = do(t, srv, req, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var profile Profile
	req = httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec = do(t, srv, req, &profile)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, profile.User.UserID)

	req = httptest.NewRequest(http.MethodPost, "/api/v1/logout", nil)
	req.Header.Set("Authorization", "Bearer good")
	rec = do(t, srv, req, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"jti"}, accounts.loggedOut)
}

func multipartPost(t *testing.T, method, path string, fields map[string][]string, image []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, values := range fields {
		for _, v := range values {
			require.NoError(t, w.WriteField(k, v))
		}
	}
	if image != nil {
		part, err := w.CreateFormFile("image", "photo.png")
		require.NoError(t, err)
		_, err = part.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer good")
	return req
}

func TestNewsHandler_Posts(t *testing.T) {
	var got newsportal.PostInput
	var image []byte
	uc := &mockNewsService{
		createPostFunc: func(_ context.Context, authorID int, in newsportal.PostInput) (*newsportal.Post, error) {
			got = in
			if in.Image != nil {
				image, _ = io.ReadAll(in.Image.Content)
			}
			if in.Title == "pdf" {
				return nil, upload.ErrInvalidImage
			}
			p := testPost(1)
			p.Title = in.Title
			return &p, nil
		},
		updatePostFunc: func(_ context.Context, userID, postID int, in newsportal.PostInput) (*newsportal.Post, error) {
			got = in
			if postID == 2 {
				return nil, newsportal.ErrForbidden
			}
			p := testPost(postID)
			return &p, nil
		},
		deletePostFunc: func(_ context.Context, userID, postID int) error {
			if postID == 404 {
				return newsportal.ErrNotFound
			}
			return nil
		},
		acceptCommentFunc: func(_ context.Context, userID, commentID int) error {
			return nil
		},
	}
	srv, _ := newTestServer(uc)

	fields := map[string][]string{
		"title":      {"Breaking"},
		"importance": {"3"},
		"article":    {"text"},
		"categories": {"1", "2"},
	}

	var post Post
	rec := do(t, srv, multipartPost(t, http.MethodPost, "/api/v1/posts", fields, []byte("PNG")), &post)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Breaking", post.Title)
	assert.Equal(t, 3, got.Importance)
	assert.Equal(t, []int{1, 2}, got.CategoryIDs)
	require.NotNil(t, got.Image)
	assert.Equal(t, "photo.png", got.Image.Filename)
	assert.Equal(t, []byte("PNG"), image)

	rec = do(t, srv, multipartPost(t, http.MethodPost, "/api/v1/posts", map[string][]string{"title": {"pdf"}}, []byte("x")), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, multipartPost(t, http.MethodPost, "/api/v1/posts", map[string][]string{"importance": {"high"}}, nil), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, srv, multipartPost(t, http.MethodPut, "/api/v1/posts/3", fields, nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, got.Image)

	rec = do(t, srv, multipartPost(t, http.MethodPut, "/api/v1/posts/2", fields, nil), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, srv, multipartPost(t, http.MethodDelete, "/api/v1/posts/404", nil, nil), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, srv, multipartPost(t, http.MethodPost, "/api/v1/comments/5/accept", nil, nil), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestNewsHandler_Health(t *testing.T) {
	srv, _ := newTestServer(&mockNewsService{})

	var resp map[string]string
	rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/health", nil), &resp)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", resp["status"])
}
