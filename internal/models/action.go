package models

import (
	"fmt"
	"time"
)

// ActionKind identifies an entry in the action log.
type ActionKind string

const (
	ActionFileUploaded  ActionKind = "file_uploaded"
	ActionSubjectCopied ActionKind = "subject_copied"
	ActionBodyCopied    ActionKind = "body_copied"
)

// LogTimeFormat is the timestamp layout used in rendered log lines.
const LogTimeFormat = "2006-01-02 15:04:05"

// ActionLogEntry is one timestamped user action.
type ActionLogEntry struct {
	SessionID string     `json:"sessionId" msgpack:"sessionId"`
	Kind      ActionKind `json:"kind" msgpack:"kind"`
	FileName  string     `json:"fileName" msgpack:"fileName"`
	Timestamp time.Time  `json:"timestamp" msgpack:"timestamp"`
}

// Message describes the action in words.
func (e ActionLogEntry) Message() string {
	switch e.Kind {
	case ActionFileUploaded:
		return fmt.Sprintf("File '%s' uploaded", e.FileName)
	case ActionSubjectCopied:
		return fmt.Sprintf("File '%s' Subject copied", e.FileName)
	case ActionBodyCopied:
		return fmt.Sprintf("File '%s' Transmittal copied", e.FileName)
	}
	return fmt.Sprintf("File '%s' %s", e.FileName, e.Kind)
}

// String renders the entry as a log line.
func (e ActionLogEntry) String() string {
	return e.Timestamp.Format(LogTimeFormat) + ": " + e.Message()
}
