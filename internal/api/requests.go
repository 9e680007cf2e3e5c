package api

import (
	"path/filepath"
	"strings"
)

type uploadFileRequest struct {
	Name string `json:"name"`
	Data string `json:"data"` // Base64-encoded file content
}

func (r *uploadFileRequest) validate() error {
	if r.Name == "" {
		return NewValidationError("name")
	}
	if r.Data == "" {
		return NewValidationError("data")
	}
	return nil
}

type generateRequest struct {
	FileID string `json:"fileId"`
}

func (r *generateRequest) validate() error {
	if r.FileID == "" {
		return NewValidationError("fileId")
	}
	return nil
}

// cleanFileName reduces a client-supplied name to a safe base name,
// dropping control characters. It returns "" if nothing usable is left.
func cleanFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}
