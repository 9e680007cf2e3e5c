package models

import "time"

// SessionStatus represents the state of a transmittal session.
type SessionStatus string

const (
	SessionStatusEmpty SessionStatus = "empty" // no draft generated yet
	SessionStatusReady SessionStatus = "ready"
	SessionStatusError SessionStatus = "error"
)

// TransmittalSession is the client-visible view of one workspace.
type TransmittalSession struct {
	ID        string        `json:"id" msgpack:"id"`
	Status    SessionStatus `json:"status" msgpack:"status"`
	FileID    string        `json:"fileId,omitempty" msgpack:"fileId,omitempty"`
	FileName  string        `json:"fileName,omitempty" msgpack:"fileName,omitempty"`
	LastError string        `json:"lastError,omitempty" msgpack:"lastError,omitempty"`
	CreatedAt time.Time     `json:"createdAt" msgpack:"createdAt"`
}

// NewTransmittalSession creates a session with no draft.
func NewTransmittalSession(id string) *TransmittalSession {
	return &TransmittalSession{
		ID:        id,
		Status:    SessionStatusEmpty,
		CreatedAt: time.Now(),
	}
}
