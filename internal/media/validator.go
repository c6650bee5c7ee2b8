package media

import (
	"path/filepath"
	"strings"
)

// Validate checks presence, extension and declared size, in that order, and
// returns nil when the file may be forwarded. File content is never inspected.
func Validate(file UploadRequest) error {
	if file.TempPath == "" {
		return &Error{Kind: KindNoFileSelected}
	}
	if !AllowedExtension(file.Name) {
		return &Error{Kind: KindInvalidFileType}
	}
	if file.Size > MaxFileSizeBytes {
		return &Error{Kind: KindFileTooLarge}
	}
	return nil
}

// AllowedExtension reports whether name ends in an allowed image extension, ignoring case.
func AllowedExtension(name string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	_, ok := allowedExtensions[ext]
	return ok
}
