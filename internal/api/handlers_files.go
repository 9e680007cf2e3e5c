package api

import (
	"bytes"
	"encoding/base64"
	"io"
	"net/http"
	"strconv"

	"github.com/1shevadin1/NACHA-converter/internal/logger"
	"github.com/1shevadin1/NACHA-converter/internal/models"
	"github.com/1shevadin1/NACHA-converter/internal/upload"
	"github.com/labstack/echo/v4"
)

const defaultRecentLimit = 20

type generateResponse struct {
	File    models.FileInfo           `json:"file" msgpack:"file"`
	Session models.TransmittalSession `json:"session" msgpack:"session"`
	Draft   models.DraftView          `json:"draft" msgpack:"draft"`
}

// HandleUploadFile accepts a NACHA file, plain or gzip-compressed, as
// multipart form field "file", stores it and generates the session's
// transmittal from it.
func (h *Handler) HandleUploadFile(c echo.Context) error {
	id := c.Param("id")
	if _, ok := h.sessions.GetSession(id); !ok {
		return NewNotFoundError("session", id)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewBadRequestError("no file provided", err)
	}
	name := cleanFileName(file.Filename)
	if name == "" {
		return NewValidationError("file")
	}

	src, err := file.Open()
	if err != nil {
		return NewInternalError("failed to open uploaded file", err)
	}
	defer src.Close()

	info, err := h.saveUpload(c, src, name)
	if err != nil {
		return err
	}
	return h.generateFrom(c, id, info.ID, http.StatusCreated)
}

// HandleUploadFileBase64 is the JSON variant of HandleUploadFile for
// clients that cannot send multipart bodies.
func (h *Handler) HandleUploadFileBase64(c echo.Context) error {
	id := c.Param("id")
	if _, ok := h.sessions.GetSession(id); !ok {
		return NewNotFoundError("session", id)
	}

	var req uploadFileRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if err := req.validate(); err != nil {
		return err
	}
	name := cleanFileName(req.Name)
	if name == "" {
		return NewValidationError("name")
	}

	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return NewBadRequestError("invalid base64 data", err)
	}

	info, err := h.saveUpload(c, bytes.NewReader(data), name)
	if err != nil {
		return err
	}
	return h.generateFrom(c, id, info.ID, http.StatusCreated)
}

// saveUpload decompresses gzip content if needed, checks the resulting
// name against the allowed extensions and stores the file. The decoded
// content may not exceed the handler's upload size limit.
func (h *Handler) saveUpload(c echo.Context, r io.Reader, name string) (*models.FileInfo, error) {
	content, name, err := upload.Decode(r, name, h.maxUploadSize)
	if err != nil {
		return nil, FromDomainError(err)
	}
	defer content.Close()

	if !h.extensionAllowed(name) {
		return nil, badExtension(name, h.allowedExts)
	}

	info, err := h.store.Save(name, content)
	if err != nil {
		return nil, FromDomainError(err)
	}
	logger.FromContext(h.requestContext(c)).Info("File uploaded", "id", info.ID, "name", name, "size", info.Size)
	return info, nil
}

// HandleGenerate regenerates the session's transmittal from a stored file.
func (h *Handler) HandleGenerate(c echo.Context) error {
	var req generateRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid request body", err)
	}
	if err := req.validate(); err != nil {
		return err
	}
	return h.generateFrom(c, c.Param("id"), req.FileID, http.StatusOK)
}

func (h *Handler) generateFrom(c echo.Context, sessionID, fileID string, status int) error {
	info, err := h.store.Get(fileID)
	if err != nil {
		return FromDomainError(err)
	}
	path, err := h.store.GetFilePath(fileID)
	if err != nil {
		return FromDomainError(err)
	}

	// A failed generation deletes the upload unless a session owns it.
	draft, err := h.sessions.Generate(h.requestContext(c), sessionID, fileID, path, info.Name)
	if err != nil {
		return FromDomainError(err)
	}
	if err := h.store.SetStatus(fileID, models.FileStatusGenerated); err != nil {
		logger.FromContext(h.requestContext(c)).Warn("Failed to update file status", "id", fileID, "error", err)
	}

	sess, ok := h.sessions.GetSession(sessionID)
	if !ok {
		return NewNotFoundError("session", sessionID)
	}
	stored, err := h.store.Get(fileID)
	if err != nil {
		return FromDomainError(err)
	}

	return respond(c, status, generateResponse{
		File:    *stored,
		Session: *sess,
		Draft:   draft.View(),
	})
}

// HandleRecentFiles lists uploaded files, newest first.
func (h *Handler) HandleRecentFiles(c echo.Context) error {
	limit := defaultRecentLimit
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return NewValidationError("limit")
		}
		limit = n
	}

	files, err := h.store.List(limit)
	if err != nil {
		return NewInternalError("failed to list files", err)
	}

	resp := make([]models.FileInfo, 0, len(files))
	for _, f := range files {
		resp = append(resp, *f)
	}
	return respond(c, http.StatusOK, resp)
}

// HandleGetFile returns the metadata of one uploaded file.
func (h *Handler) HandleGetFile(c echo.Context) error {
	info, err := h.store.Get(c.Param("id"))
	if err != nil {
		return FromDomainError(err)
	}
	return respond(c, http.StatusOK, *info)
}

// HandleDeleteFile removes an uploaded file.
func (h *Handler) HandleDeleteFile(c echo.Context) error {
	if err := h.store.Delete(c.Param("id")); err != nil {
		return FromDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
