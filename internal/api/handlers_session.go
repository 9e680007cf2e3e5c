package api

import (
	"bytes"
	"mime"
	"net/http"
	"strings"

	"github.com/1shevadin1/NACHA-converter/internal/models"
	"github.com/1shevadin1/NACHA-converter/internal/transmittal"
	"github.com/labstack/echo/v4"
)

const mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type sessionResponse struct {
	Session models.TransmittalSession `json:"session" msgpack:"session"`
	Actions map[models.ActionKind]int `json:"actions" msgpack:"actions"`
}

type logEntryResponse struct {
	Timestamp string            `json:"timestamp" msgpack:"timestamp"`
	Kind      models.ActionKind `json:"kind" msgpack:"kind"`
	FileName  string            `json:"fileName" msgpack:"fileName"`
	Message   string            `json:"message" msgpack:"message"`
}

// HandleCreateSession opens a new, empty transmittal workspace.
func (h *Handler) HandleCreateSession(c echo.Context) error {
	sess := h.sessions.CreateSession()
	return respond(c, http.StatusCreated, sess)
}

// HandleGetSession returns the workspace status and how often each action
// was taken.
func (h *Handler) HandleGetSession(c echo.Context) error {
	id := c.Param("id")
	sess, ok := h.sessions.GetSession(id)
	if !ok {
		return NewNotFoundError("session", id)
	}
	counts, err := h.sessions.ActionCounts(h.requestContext(c), id)
	if err != nil {
		return FromDomainError(err)
	}
	return respond(c, http.StatusOK, sessionResponse{Session: *sess, Actions: counts})
}

// HandleDeleteSession discards a workspace and its action log.
func (h *Handler) HandleDeleteSession(c echo.Context) error {
	if err := h.sessions.DeleteSession(h.requestContext(c), c.Param("id")); err != nil {
		return FromDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleGetDraft returns the last generated draft. With ?format=text it
// returns the combined subject and body as shown in the results pane.
func (h *Handler) HandleGetDraft(c echo.Context) error {
	draft, err := h.sessions.Draft(c.Param("id"))
	if err != nil {
		return FromDomainError(err)
	}
	if c.QueryParam("format") == "text" {
		return c.String(http.StatusOK, draft.Display())
	}
	return respond(c, http.StatusOK, draft.View())
}

// HandleCopy returns one field of the draft as plain text, ready for the
// clipboard, and logs the copy.
func (h *Handler) HandleCopy(c echo.Context) error {
	field := models.DraftField(strings.ToLower(c.Param("field")))
	text, err := h.sessions.Copy(h.requestContext(c), c.Param("id"), field)
	if err != nil {
		return FromDomainError(err)
	}
	return c.String(http.StatusOK, text)
}

// HandleGetLog returns the workspace's action log, oldest first.
// With ?format=text it returns one "<timestamp>: <message>" line per entry.
func (h *Handler) HandleGetLog(c echo.Context) error {
	entries, err := h.sessions.Log(h.requestContext(c), c.Param("id"))
	if err != nil {
		return FromDomainError(err)
	}

	if c.QueryParam("format") == "text" {
		var sb strings.Builder
		for _, e := range entries {
			sb.WriteString(e.String())
			sb.WriteByte('\n')
		}
		return c.String(http.StatusOK, sb.String())
	}

	resp := make([]logEntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, logEntryResponse{
			Timestamp: e.Timestamp.Format(models.LogTimeFormat),
			Kind:      e.Kind,
			FileName:  e.FileName,
			Message:   e.Message(),
		})
	}
	return respond(c, http.StatusOK, resp)
}

// HandleExportDraft streams the draft as an XLSX workbook.
func (h *Handler) HandleExportDraft(c echo.Context) error {
	draft, err := h.sessions.Draft(c.Param("id"))
	if err != nil {
		return FromDomainError(err)
	}

	var buf bytes.Buffer
	if err := transmittal.ExportWorkbook(draft, &buf); err != nil {
		return NewInternalError("failed to build workbook", err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, attachment(draft.Summary.FileName+".xlsx"))
	return c.Blob(http.StatusOK, mimeXLSX, buf.Bytes())
}

// attachment builds a Content-Disposition value, RFC 2231-encoding names
// that are not plain ASCII.
func attachment(fileName string) string {
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": fileName}); v != "" {
		return v
	}
	return "attachment"
}
