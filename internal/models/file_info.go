package models

import "time"

// File status values.
const (
	FileStatusUploaded  = "uploaded"
	FileStatusGenerated = "generated"
)

// FileInfo represents metadata about an uploaded NACHA file.
type FileInfo struct {
	ID         string    `json:"id" msgpack:"id"`
	Name       string    `json:"name" msgpack:"name"`
	Size       int64     `json:"size" msgpack:"size"`
	UploadedAt time.Time `json:"uploadedAt" msgpack:"uploadedAt"`
	Status     string    `json:"status" msgpack:"status"` // "uploaded", "generated"
}
