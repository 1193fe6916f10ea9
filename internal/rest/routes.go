package rest

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/swaggo/swag"
)

const (
	// API paths
	apiV1Prefix = "/api/v1"

	indexPath         = "/index"
	archivePath       = "/archive"
	newsByIDPath      = "/news/:id"
	commentsPath      = "/news/:id/comments"
	categoriesPath    = "/categories"
	adsPath           = "/ads"
	signUpPath        = "/signup"
	loginPath         = "/login"
	logoutPath        = "/logout"
	profilePath       = "/profile"
	postsPath         = "/posts"
	postByIDPath      = "/posts/:id"
	acceptCommentPath = "/comments/:id/accept"

	healthPath   = "/health"
	swaggerPath  = "/swagger/doc.json"
	imagesPrefix = "/images"
)

// RegisterRoutes builds the echo router. Uploaded images are served from imagesDir.
func (h *NewsHandler) RegisterRoutes(imagesDir string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(h.loggingMiddleware())

	h.registerAPIRoutes(e.Group(apiV1Prefix))

	e.GET(healthPath, h.handleHealth)
	e.GET(swaggerPath, h.handleSwagger)
	if imagesDir != "" {
		e.Static(imagesPrefix, imagesDir)
	}

	return e
}

func (h *NewsHandler) registerAPIRoutes(g *echo.Group) {
	g.GET(indexPath, h.Index)
	g.GET(archivePath, h.Archive)
	g.GET(newsByIDPath, h.NewsByID)
	g.POST(commentsPath, h.AddComment)
	g.GET(categoriesPath, h.Categories)
	g.GET(adsPath, h.Ads)

	g.POST(signUpPath, h.SignUp)
	g.POST(loginPath, h.Login)

	private := g.Group("", h.requireAuth)
	private.POST(logoutPath, h.Logout)
	private.GET(profilePath, h.Profile)
	private.POST(postsPath, h.CreatePost)
	private.PUT(postByIDPath, h.UpdatePost)
	private.DELETE(postByIDPath, h.DeletePost)
	private.POST(acceptCommentPath, h.AcceptComment)
}

func (h *NewsHandler) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func (h *NewsHandler) handleSwagger(c echo.Context) error {
	doc, err := swag.ReadDoc()
	if err != nil {
		return h.handleError(c, err, http.StatusInternalServerError, "swagger doc is not registered")
	}

	return c.Blob(http.StatusOK, echo.MIMEApplicationJSONCharsetUTF8, []byte(doc))
}

func (h *NewsHandler) loggingMiddleware() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURIPath:  true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,

		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			h.log.InfoContext(c.Request().Context(), "HTTP request",
				"method", v.Method,
				"path", v.URIPath,
				"status", v.Status,
				"duration_ms", v.Latency.Milliseconds(),
				"remote_addr", v.RemoteIP,
			)
			return nil
		},
	})
}
