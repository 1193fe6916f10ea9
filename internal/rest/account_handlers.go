package rest

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/daniilsolovey/newsroom/internal/auth"
	"github.com/daniilsolovey/newsroom/internal/newsportal"
)

const claimsKey = "claims"

// requireAuth rejects requests without a valid bearer token and stores the claims in the context.
func (h *NewsHandler) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		value, ok := strings.CutPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
		if !ok || value == "" {
			return h.handleError(c, nil, http.StatusUnauthorized, "missing or invalid Authorization header")
		}

		claims, err := h.accounts.Authenticate(c.Request().Context(), value)
		if err != nil {
			return h.fail(c, err)
		}

		c.Set(claimsKey, claims)
		return next(c)
	}
}

func claimsFrom(c echo.Context) *auth.Claims {
	claims, _ := c.Get(claimsKey).(*auth.Claims)
	return claims
}

// SignUp handles POST /api/v1/signup
// @Summary Sign up
// @Tags accounts
// @Accept json
// @Produce json
// @Param user body rest.SignUpRequest true "New account"
// @Success 201 {object} rest.User
// @Failure 400,409,500 {object} map[string]string
// @Router /api/v1/signup [post]
func (h *NewsHandler) SignUp(c echo.Context) error {
	var req SignUpRequest
	if err := c.Bind(&req); err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid request body")
	}

	user, err := h.accounts.SignUp(c.Request().Context(), auth.SignUpInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusCreated, NewUser(newsportal.NewUser(*user)))
}

// Login handles POST /api/v1/login
// @Summary Log in
// @Description Issues a bearer token valid for 24 hours
// @Tags accounts
// @Accept json
// @Produce json
// @Param credentials body rest.LoginRequest true "Credentials"
// @Success 200 {object} rest.TokenResponse
// @Failure 400,401,500 {object} map[string]string
// @Router /api/v1/login [post]
func (h *NewsHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return h.handleError(c, err, http.StatusBadRequest, "invalid request body")
	}

	token, err := h.accounts.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, TokenResponse{Token: token.Value, ExpiresAt: token.ExpiresAt})
}

// Logout handles POST /api/v1/logout
// @Summary Log out
// @Description Revokes the current token
// @Tags accounts
// @Security BearerAuth
// @Success 204
// @Failure 401,500 {object} map[string]string
// @Router /api/v1/logout [post]
func (h *NewsHandler) Logout(c echo.Context) error {
	if err := h.accounts.Logout(c.Request().Context(), *claimsFrom(c)); err != nil {
		return h.fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// Profile handles GET /api/v1/profile
// @Summary Profile
// @Description Current user with their latest posts and comments awaiting moderation
// @Tags accounts
// @Security BearerAuth
// @Produce json
// @Success 200 {object} rest.Profile
// @Failure 401,404,500 {object} map[string]string
// @Router /api/v1/profile [get]
func (h *NewsHandler) Profile(c echo.Context) error {
	profile, err := h.uc.Profile(c.Request().Context(), claimsFrom(c).UserID)
	if err != nil {
		return h.fail(c, err)
	}

	return c.JSON(http.StatusOK, NewProfile(*profile))
}
