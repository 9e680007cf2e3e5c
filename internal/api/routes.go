// routes.go - Route registration helpers
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

// RegisterRoutes registers all API routes with the Echo instance.
// uploadMW wraps only the routes that accept file content.
func RegisterRoutes(e *echo.Echo, h *Handler, uploadMW ...echo.MiddlewareFunc) {
	apiGroup := e.Group("/api")

	// Health check
	apiGroup.GET("/health", h.HandleHealth)

	// Transmittal workspaces
	apiGroup.POST("/sessions", h.HandleCreateSession)
	apiGroup.GET("/sessions/:id", h.HandleGetSession)
	apiGroup.DELETE("/sessions/:id", h.HandleDeleteSession)
	apiGroup.POST("/sessions/:id/files", h.HandleUploadFile, uploadMW...)
	apiGroup.POST("/sessions/:id/files/base64", h.HandleUploadFileBase64, uploadMW...)
	apiGroup.POST("/sessions/:id/generate", h.HandleGenerate)
	apiGroup.GET("/sessions/:id/draft", h.HandleGetDraft)
	apiGroup.GET("/sessions/:id/draft/xlsx", h.HandleExportDraft)
	apiGroup.POST("/sessions/:id/copy/:field", h.HandleCopy)
	apiGroup.GET("/sessions/:id/log", h.HandleGetLog)

	// File management
	apiGroup.GET("/files/recent", h.HandleRecentFiles)
	apiGroup.GET("/files/:id", h.HandleGetFile)
	apiGroup.DELETE("/files/:id", h.HandleDeleteFile)
}

// NewUploadRateLimiter limits uploads per client IP to perSecond, with a
// burst of the same size rounded up. It returns nil when perSecond <= 0.
func NewUploadRateLimiter(perSecond float64) echo.MiddlewareFunc {
	if perSecond <= 0 {
		return nil
	}
	burst := int(perSecond)
	if float64(burst) < perSecond {
		burst++
	}
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:  rate.Limit(perSecond),
		Burst: burst,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return &APIError{
				Status:  http.StatusTooManyRequests,
				Code:    "RATE_LIMITED",
				Message: "too many uploads, try again shortly",
			}
		},
	})
}

// SetupMiddleware configures the error handler and the middleware every
// deployment needs.
func SetupMiddleware(e *echo.Echo) {
	e.HTTPErrorHandler = ErrorHandler
	e.Use(middleware.RequestID())
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))
}
