package session

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/1shevadin1/NACHA-converter/internal/logger"
	"github.com/1shevadin1/NACHA-converter/internal/models"
	"github.com/1shevadin1/NACHA-converter/internal/parser"
	"github.com/1shevadin1/NACHA-converter/internal/storage"
	"github.com/1shevadin1/NACHA-converter/internal/transmittal"
	"github.com/google/uuid"
)

// DefaultMaxSessions limits how many workspaces are held at once.
const DefaultMaxSessions = 50

// SessionKeepAliveWindow is how long a recently used session is protected from cleanup.
const SessionKeepAliveWindow = 5 * time.Minute

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNoDraft         = errors.New("no transmittal generated yet")
	ErrInvalidField    = errors.New("unknown draft field")
)

// ActionLog is where user actions are recorded.
type ActionLog interface {
	Record(ctx context.Context, entry models.ActionLogEntry) (models.ActionLogEntry, error)
	List(ctx context.Context, sessionID string) ([]models.ActionLogEntry, error)
	DeleteSession(ctx context.Context, sessionID string) error
	CountByKind(ctx context.Context, sessionID string) (map[models.ActionKind]int, error)
}

// FileStore is where uploaded files live. Files are removed when their
// session ends or when generation from them fails.
type FileStore interface {
	Delete(id string) error
}

// Manager owns every transmittal workspace.
type Manager struct {
	sessions    map[string]*State
	mu          sync.RWMutex
	actions     ActionLog
	files       FileStore
	maxSessions int
}

// State is the application state of one workspace: the last successful
// draft, which copy actions read, and the file it came from.
type State struct {
	Session      *models.TransmittalSession
	Draft        *models.EmailDraft
	FileIDs      []string
	LastAccessed time.Time
}

// NewManager creates a session manager recording actions to actions and
// owning the uploads in files.
func NewManager(actions ActionLog, files FileStore, maxSessions int) *Manager {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &Manager{
		sessions:    make(map[string]*State),
		actions:     actions,
		files:       files,
		maxSessions: maxSessions,
	}
}

// CreateSession opens an empty workspace.
func (m *Manager) CreateSession() *models.TransmittalSession {
	m.evictIfNeeded()

	session := models.NewTransmittalSession(uuid.New().String())

	m.mu.Lock()
	m.sessions[session.ID] = &State{
		Session:      session,
		LastAccessed: time.Now(),
	}
	m.mu.Unlock()

	cp := *session
	return &cp
}

// GetSession returns a snapshot of a session.
func (m *Manager) GetSession(id string) (*models.TransmittalSession, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	cp := *state.Session
	return &cp, true
}

// TouchSession updates the LastAccessed timestamp for a session.
func (m *Manager) TouchSession(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return false
	}
	state.LastAccessed = time.Now()
	return true
}

// Generate reads the file control record from filePath and formats a draft
// named after rawName. On success the draft replaces the session's previous
// one and the session takes ownership of fileID. On failure the previous
// draft stays in place and fileID is deleted unless a session owns it.
func (m *Manager) Generate(ctx context.Context, id, fileID, filePath, rawName string) (*models.EmailDraft, error) {
	if !m.TouchSession(id) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	log := logger.FromContext(ctx).With("session", shortID(id))

	baseName := filepath.Base(rawName)
	draft, err := generate(filePath, baseName)
	if err != nil {
		log.Warn("Transmittal generation failed", "file", baseName, "error", err)
		m.recordFailure(id, err)
		m.releaseFile(fileID)
		return nil, err
	}

	m.mu.Lock()
	state, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	state.Draft = draft
	if fileID != "" && !slices.Contains(state.FileIDs, fileID) {
		state.FileIDs = append(state.FileIDs, fileID)
	}
	state.Session.Status = models.SessionStatusReady
	state.Session.FileID = fileID
	state.Session.FileName = baseName
	state.Session.LastError = ""
	m.mu.Unlock()

	log.Info("Transmittal generated", "file", draft.Summary.FileName,
		"entries", draft.Summary.EntryCount, "net", draft.Summary.NetAmount.StringFixed(2))
	m.record(ctx, id, models.ActionFileUploaded, baseName)

	return draft, nil
}

func generate(filePath, name string) (*models.EmailDraft, error) {
	line, err := parser.LocateControlRecord(filePath)
	if err != nil {
		return nil, err
	}
	return transmittal.Format(line, name)
}

func (m *Manager) recordFailure(id string, cause error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.sessions[id]
	if !ok {
		return
	}
	state.Session.LastError = cause.Error()
	if state.Draft == nil {
		state.Session.Status = models.SessionStatusError
	}
}

// releaseFile deletes fileID unless some session owns it.
func (m *Manager) releaseFile(fileID string) {
	if fileID == "" {
		return
	}
	m.mu.RLock()
	for _, state := range m.sessions {
		if slices.Contains(state.FileIDs, fileID) {
			m.mu.RUnlock()
			return
		}
	}
	m.mu.RUnlock()
	m.deleteFiles([]string{fileID})
}

// Draft returns the session's current draft.
func (m *Manager) Draft(id string) (*models.EmailDraft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if state.Draft == nil {
		return nil, ErrNoDraft
	}
	return state.Draft, nil
}

// Copy returns one field of the current draft and logs the copy.
func (m *Manager) Copy(ctx context.Context, id string, field models.DraftField) (string, error) {
	if !field.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidField, field)
	}

	m.mu.Lock()
	state, ok := m.sessions[id]
	if !ok {
		m.mu.Unlock()
		return "", fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if state.Draft == nil {
		m.mu.Unlock()
		return "", ErrNoDraft
	}
	state.LastAccessed = time.Now()
	text := state.Draft.Text(field)
	fileName := state.Session.FileName
	m.mu.Unlock()

	kind := models.ActionSubjectCopied
	if field == models.FieldBody {
		kind = models.ActionBodyCopied
	}
	m.record(ctx, id, kind, fileName)

	return text, nil
}

// Log returns the session's action log, oldest first.
func (m *Manager) Log(ctx context.Context, id string) ([]models.ActionLogEntry, error) {
	if _, ok := m.GetSession(id); !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return m.actions.List(ctx, id)
}

// ActionCounts tallies the session's logged actions by kind.
func (m *Manager) ActionCounts(ctx context.Context, id string) (map[models.ActionKind]int, error) {
	if _, ok := m.GetSession(id); !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return m.actions.CountByKind(ctx, id)
}

func (m *Manager) record(ctx context.Context, id string, kind models.ActionKind, fileName string) {
	_, err := m.actions.Record(ctx, models.ActionLogEntry{
		SessionID: id,
		Kind:      kind,
		FileName:  fileName,
	})
	if err != nil {
		logger.FromContext(ctx).Error("Failed to record action", "session", shortID(id), "kind", kind, "error", err)
	}
}

// DeleteSession removes a session, its action log and its uploads.
func (m *Manager) DeleteSession(ctx context.Context, id string) error {
	m.mu.Lock()
	state, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	m.deleteFiles(state.FileIDs)
	return m.actions.DeleteSession(ctx, id)
}

// evictIfNeeded drops the least recently used sessions when at capacity.
func (m *Manager) evictIfNeeded() {
	m.mu.Lock()
	if len(m.sessions) < m.maxSessions {
		m.mu.Unlock()
		return
	}

	states := make([]*State, 0, len(m.sessions))
	for _, state := range m.sessions {
		states = append(states, state)
	}
	sort.Slice(states, func(i, j int) bool {
		return states[i].LastAccessed.Before(states[j].LastAccessed)
	})

	toFree := len(m.sessions) - m.maxSessions + 1
	evicted := states[:toFree]
	for _, state := range evicted {
		delete(m.sessions, state.Session.ID)
	}
	m.mu.Unlock()

	for _, state := range evicted {
		m.release(state)
		logger.L.Info("Evicted session to stay under limit", "session", shortID(state.Session.ID))
	}
}

// CleanupOldSessions removes sessions idle for longer than maxAge,
// but keeps sessions that have been accessed within SessionKeepAliveWindow.
func (m *Manager) CleanupOldSessions(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	keepAliveCutoff := time.Now().Add(-SessionKeepAliveWindow)

	m.mu.Lock()
	var removed []*State
	for id, state := range m.sessions {
		if state.LastAccessed.After(keepAliveCutoff) {
			continue
		}
		if state.LastAccessed.Before(cutoff) {
			delete(m.sessions, id)
			removed = append(removed, state)
		}
	}
	m.mu.Unlock()

	for _, state := range removed {
		m.release(state)
		logger.L.Info("Cleaned up idle session", "session", shortID(state.Session.ID))
	}
	return len(removed)
}

// release drops the action log and uploads of a session already removed
// from the map.
func (m *Manager) release(state *State) {
	m.deleteFiles(state.FileIDs)
	if err := m.actions.DeleteSession(context.Background(), state.Session.ID); err != nil {
		logger.L.Error("Failed to drop action log", "session", shortID(state.Session.ID), "error", err)
	}
}

func (m *Manager) deleteFiles(ids []string) {
	if m.files == nil {
		return
	}
	for _, id := range ids {
		if err := m.files.Delete(id); err != nil && !errors.Is(err, storage.ErrFileNotFound) {
			logger.L.Error("Failed to delete upload", "file", id, "error", err)
		}
	}
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
