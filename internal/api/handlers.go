package api

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/1shevadin1/NACHA-converter/internal/logger"
	"github.com/1shevadin1/NACHA-converter/internal/storage"
	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"
)

// MIMEApplicationMsgpack is the content type for msgpack responses.
const MIMEApplicationMsgpack = "application/msgpack"

// Handler serves the transmittal HTTP API.
type Handler struct {
	store         storage.Store
	sessions      SessionService
	allowedExts   []string
	maxUploadSize int64
	version       string
}

// NewHandler creates a Handler. An empty allowedExts accepts any file name.
// maxUploadSize caps the decoded size of an upload; <= 0 means no cap.
func NewHandler(store storage.Store, sessions SessionService, allowedExts []string, maxUploadSize int64, version string) *Handler {
	return &Handler{
		store:         store,
		sessions:      sessions,
		allowedExts:   allowedExts,
		maxUploadSize: maxUploadSize,
		version:       version,
	}
}

// HandleHealth reports that the server is up.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"version":  h.version,
		"sessions": h.sessions.Count(),
	})
}

// requestContext returns the request context carrying a logger tagged with
// the request ID, when one was assigned.
func (h *Handler) requestContext(c echo.Context) context.Context {
	ctx := c.Request().Context()
	if rid := c.Response().Header().Get(echo.HeaderXRequestID); rid != "" {
		ctx = logger.ToContext(ctx, logger.L.With("request_id", rid))
	}
	return ctx
}

func (h *Handler) extensionAllowed(name string) bool {
	if len(h.allowedExts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(name))
	for _, allowed := range h.allowedExts {
		if ext == allowed {
			return true
		}
	}
	return false
}

// respond writes v as msgpack when the client asks for it, JSON otherwise.
func respond(c echo.Context, status int, v interface{}) error {
	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), MIMEApplicationMsgpack) {
		data, err := msgpack.Marshal(v)
		if err != nil {
			return NewInternalError("failed to encode response", err)
		}
		return c.Blob(status, MIMEApplicationMsgpack, data)
	}
	return c.JSON(status, v)
}

func badExtension(name string, allowed []string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "UNSUPPORTED_FILE_TYPE",
		Message: fmt.Sprintf("file type not allowed: %s", name),
		Details: "allowed: " + strings.Join(allowed, ", "),
	}
}
