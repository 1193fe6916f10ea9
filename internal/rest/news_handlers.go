package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/daniilsolovey/newsroom/internal/archive"
	"github.com/daniilsolovey/newsroom/internal/auth"
	"github.com/daniilsolovey/newsroom/internal/db"
	"github.com/daniilsolovey/newsroom/internal/newsportal"
	"github.com/daniilsolovey/newsroom/internal/upload"
)

// NewsService is the news site use case layer, implemented by *newsportal.Manager.
type NewsService interface {
	Archive(ctx context.Context, params archive.Params) (*newsportal.ArchivePage, error)
	Index(ctx context.Context) (*newsportal.Homepage, error)
	FullNews(ctx context.Context, postID int) (*newsportal.FullNews, error)
	Categories(ctx context.Context) ([]newsportal.Category, error)
	Ads(ctx context.Context) ([]newsportal.Ad, error)
	AddComment(ctx context.Context, in newsportal.CommentInput) (*newsportal.Comment, error)
	AcceptComment(ctx context.Context, userID, commentID int) error
	CreatePost(ctx context.Context, authorID int, in newsportal.PostInput) (*newsportal.Post, error)
	UpdatePost(ctx context.Context, userID, postID int, in newsportal.PostInput) (*newsportal.Post, error)
	DeletePost(ctx context.Context, userID, postID int) error
	Profile(ctx context.Context, userID int) (*newsportal.Profile, error)
}

// AccountService is implemented by *auth.Service.
type AccountService interface {
	SignUp(ctx context.Context, in auth.SignUpInput) (*db.User, error)
	Login(ctx context.Context, username, password string) (*auth.Token, error)
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
	Logout(ctx context.Context, c auth.Claims) error
}

type NewsHandler struct {
	uc       NewsService
	accounts AccountService
	log      *slog.Logger
}

func NewNewsHandler(uc NewsService, accounts AccountService, log *slog.Logger) *NewsHandler {
	return &NewsHandler{
		uc:       uc,
		accounts: accounts,
		log:      log,
	}
}

func (h *NewsHandler) handleError(c echo.Context, err error, statusCode int, message string) error {
	h.log.Error("handleError", "error", err, "statusCode", statusCode, "message", message)
	return c.JSON(statusCode, map[string]string{"error": message})
}

// fail maps use case errors onto HTTP statuses.
func (h *NewsHandler) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, newsportal.ErrInvalidInput),
		errors.Is(err, upload.ErrInvalidImage),
		errors.Is(err, auth.ErrInvalidInput):
		return h.handleError(c, err, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return h.handleError(c, err, http.StatusUnauthorized, err.Error())
	case errors.Is(err, newsportal.ErrForbidden):
		return h.handleError(c, err, http.StatusForbidden, "forbidden")
	case errors.Is(err, newsportal.ErrNotFound):
		return h.handleError(c, err, http.StatusNotFound, "not found")
	case errors.Is(err, auth.ErrUsernameExists):
		return h.handleError(c, err, http.StatusConflict, err.Error())
	default:
		return h.handleError(c, err, http.StatusInternalServerError, "internal error")
	}
}

func (h *NewsHandler) intParam(c echo.Context, name string) (int, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, errors.New("invalid " + name)
	}

	return id, nil
}

// Index handles GET /api/v1/index
// @Summary Homepage
// @Description Important, most popular of the month, popular and latest posts with ads
// @Tags news
// @Produce json
// @Success 200 {object} rest.Homepage
// @Failure 500 {object} map[string]string
// @Router /api/v1/index [get]
func (h *NewsHandler) Index(c echo.Context) error {
	home, err := h.uc.Index(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, NewHomepage(*home))
}

// Archive handles GET /api/v1/archive
// @Summary Archive
// @Description Filtered, ordered and paginated post listing. Malformed parameters fall back to defaults.
// @Tags news
// @Produce json
// @Param start_date query string false "YYYY-MM-DD, default is the earliest date"
// @Param end_date query string false "YYYY-MM-DD, default is today"
// @Param category query string false "category url name"
// @Param search query string false "title or article substring"
// @Param order query string false "publish_date, accepted_comments, visits, importance, optionally prefixed with -"
// @Param page query string false "page number, 12 posts per page"
// @Success 200 {object} rest.Archive
// @Failure 500 {object} map[string]string
// @Router /api/v1/archive [get]
func (h *NewsHandler) Archive(c echo.Context) error {
	ctx := c.Request().Context()

	params, err := archive.DecodeParams(ctx, c.QueryParams())
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid request parameters")
	}

	page, err := h.uc.Archive(ctx, params)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, NewArchive(*page))
}

// NewsByID handles GET /api/v1/news/:id
// @Summary Full news
// @Description Post with its category, other posts, accepted comments and ads. Counts the visit.
// @Tags news
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} rest.FullNews
// @Failure 400,404,500 {object} map[string]string
// @Router /api/v1/news/{id} [get]
func (h *NewsHandler) NewsByID(c echo.Context) error {
	id, err := h.intParam(c, "id")
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid id")
	}

	news, err := h.uc.FullNews(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, NewFullNews(*news))
}

// AddComment handles POST /api/v1/news/:id/comments
// @Summary Add comment
// @Description Stores a comment awaiting moderation, optionally as the reply to another comment
// @Tags comments
// @Accept json
// @Produce json
// @Param id path int true "Post ID"
// @Param comment body rest.CommentRequest true "Comment"
// @Success 201 {object} rest.Comment
// @Failure 400,404,500 {object} map[string]string
// @Router /api/v1/news/{id}/comments [post]
func (h *NewsHandler) AddComment(c echo.Context) error {
	id, err := h.intParam(c, "id")
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid id")
	}

	var req CommentRequest
	if err := c.Bind(&req); err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid request body")
	}

	comment, err := h.uc.AddComment(c.Request().Context(), newsportal.CommentInput{
		PostID:    id,
		Writer:    req.Writer,
		Email:     req.Email,
		Text:      req.Text,
		RepliedOn: req.RepliedOn,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusCreated, NewComment(*comment))
}

// Categories handles GET /api/v1/categories
// @Summary Get all categories
// @Description Retrieves all categories ordered by name
// @Tags news
// @Produce json
// @Success 200 {array} rest.Category
// @Failure 500 {object} map[string]string
// @Router /api/v1/categories [get]
func (h *NewsHandler) Categories(c echo.Context) error {
	categories, err := h.uc.Categories(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, Map(categories, NewCategory))
}

// Ads handles GET /api/v1/ads
// @Summary Random ads
// @Tags news
// @Produce json
// @Success 200 {array} rest.Ad
// @Failure 500 {object} map[string]string
// @Router /api/v1/ads [get]
func (h *NewsHandler) Ads(c echo.Context) error {
	ads, err := h.uc.Ads(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, Map(ads, NewAd))
}
