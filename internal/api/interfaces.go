package api

import (
	"context"

	"github.com/1shevadin1/NACHA-converter/internal/models"
)

// SessionService is the command interface the handlers drive.
type SessionService interface {
	CreateSession() *models.TransmittalSession
	GetSession(id string) (*models.TransmittalSession, bool)
	DeleteSession(ctx context.Context, id string) error
	Generate(ctx context.Context, id, fileID, filePath, rawName string) (*models.EmailDraft, error)
	Draft(id string) (*models.EmailDraft, error)
	Copy(ctx context.Context, id string, field models.DraftField) (string, error)
	Log(ctx context.Context, id string) ([]models.ActionLogEntry, error)
	ActionCounts(ctx context.Context, id string) (map[models.ActionKind]int, error)
	Count() int
}
