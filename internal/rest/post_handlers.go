package rest

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/daniilsolovey/newsroom/internal/newsportal"
)

// postInput reads the multipart post form. The image part is optional here; the
// returned closer must be called once the input is consumed.
func postInput(c echo.Context) (newsportal.PostInput, func(), error) {
	in := newsportal.PostInput{
		Title:   c.FormValue("title"),
		Article: c.FormValue("article"),
	}
	noop := func() {}

	if s := strings.TrimSpace(c.FormValue("importance")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return in, noop, fmt.Errorf("invalid importance %q", s)
		}
		in.Importance = n
	}

	form, err := c.FormParams()
	if err != nil {
		return in, noop, fmt.Errorf("invalid form: %w", err)
	}
	for _, s := range form["categories"] {
		id, err := strconv.Atoi(s)
		if err != nil {
			return in, noop, fmt.Errorf("invalid category %q", s)
		}
		in.CategoryIDs = append(in.CategoryIDs, id)
	}

	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return in, noop, nil
	} else if err != nil {
		return in, noop, fmt.Errorf("invalid image: %w", err)
	}

	file, err := fh.Open()
	if err != nil {
		return in, noop, fmt.Errorf("open image: %w", err)
	}

	in.Image = newImage(fh, file)
	return in, func() { file.Close() }, nil
}

func newImage(fh *multipart.FileHeader, file multipart.File) *newsportal.Image {
	return &newsportal.Image{
		Filename: fh.Filename,
		Size:     fh.Size,
		Content:  file,
	}
}

// CreatePost handles POST /api/v1/posts
// @Summary Create post
// @Tags posts
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param title formData string true "Title, up to 100 characters"
// @Param importance formData int false "Importance"
// @Param categories formData []int false "Category IDs" collectionFormat(multi)
// @Param article formData string true "Article body"
// @Param image formData file true "jpg, jpeg, png or gif up to 10 MB"
// @Success 201 {object} rest.Post
// @Failure 400,401,500 {object} map[string]string
// @Router /api/v1/posts [post]
func (h *NewsHandler) CreatePost(c echo.Context) error {
	in, done, err := postInput(c)
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, err.Error())
	}
	defer done()

	post, err := h.uc.CreatePost(c.Request().Context(), claimsFrom(c).UserID, in)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusCreated, NewPost(*post))
}

// UpdatePost handles PUT /api/v1/posts/:id
// @Summary Edit post
// @Description Only the author may edit a post. The image is kept when none is uploaded.
// @Tags posts
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Post ID"
// @Param title formData string true "Title, up to 100 characters"
// @Param importance formData int false "Importance"
// @Param categories formData []int false "Category IDs" collectionFormat(multi)
// @Param article formData string true "Article body"
// @Param image formData file false "jpg, jpeg, png or gif up to 10 MB"
// @Success 200 {object} rest.Post
// @Failure 400,401,403,404,500 {object} map[string]string
// @Router /api/v1/posts/{id} [put]
func (h *NewsHandler) UpdatePost(c echo.Context) error {
	id, err := h.intParam(c, "id")
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid id")
	}

	in, done, err := postInput(c)
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, err.Error())
	}
	defer done()

	post, err := h.uc.UpdatePost(c.Request().Context(), claimsFrom(c).UserID, id, in)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, NewPost(*post))
}

// DeletePost handles DELETE /api/v1/posts/:id
// @Summary Delete post
// @Tags posts
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 204
// @Failure 400,401,403,404,500 {object} map[string]string
// @Router /api/v1/posts/{id} [delete]
func (h *NewsHandler) DeletePost(c echo.Context) error {
	id, err := h.intParam(c, "id")
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid id")
	}

	if err := h.uc.DeletePost(c.Request().Context(), claimsFrom(c).UserID, id); err != nil {
		return h.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// AcceptComment handles POST /api/v1/comments/:id/accept
// @Summary Accept comment
// @Description Publishes a comment on one of the current user's posts
// @Tags comments
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 204
// @Failure 400,401,403,404,500 {object} map[string]string
// @Router /api/v1/comments/{id}/accept [post]
func (h *NewsHandler) AcceptComment(c echo.Context) error {
	id, err := h.intParam(c, "id")
	if err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid id")
	}

	if err := h.uc.AcceptComment(c.Request().Context(), claimsFrom(c).UserID, id); err != nil {
		return h.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
