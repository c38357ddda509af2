package models

import (
	"time"

	"github.com/avolkovs/paintrack/internal/common"
)

// Photo records one stored image of a miniature. The binary itself lives in
// the blob store under StorageKey; the row and the blob exist together or
// not at all, except transiently inside a single service operation.
type Photo struct {
	ID          string
	MiniatureID string
	Filename    string
	// StorageKey is an opaque locator in the blob store's namespace, not a
	// filesystem path.
	StorageKey string
	FileSize   int64
	MimeType   string
	// CreatedAt doubles as the upload time and drives chronological listing.
	CreatedAt time.Time
}

const (
	MimeJPEG = "image/jpeg"
	MimePNG  = "image/png"
	MimeWebP = "image/webp"
	// MimeHEIC is accepted only when the mobile deployment variant enables it.
	MimeHEIC = "image/heic"
)

// AllowedMimeType reports whether mime is accepted for photo uploads.
func AllowedMimeType(mime string, allowHEIC bool) bool {
	switch mime {
	case MimeJPEG, MimePNG, MimeWebP:
		return true
	case MimeHEIC:
		return allowHEIC
	}
	return false
}

// ExtensionForMime returns the filename extension for an allowed MIME type.
func ExtensionForMime(mime string) string {
	switch mime {
	case MimeJPEG:
		return ".jpg"
	case MimePNG:
		return ".png"
	case MimeWebP:
		return ".webp"
	case MimeHEIC:
		return ".heic"
	}
	return ""
}

// Validate checks field constraints. MIME membership is checked by the photo
// service against the configured allowed set, since HEIC acceptance is a
// deployment decision.
func (p *Photo) Validate() error {
	if p.MiniatureID == "" {
		return common.NewValidationError("miniature_id", "must not be empty")
	}
	if p.Filename == "" {
		return common.NewValidationError("filename", "must not be empty")
	}
	if p.FileSize <= 0 {
		return common.NewValidationError("file_size", "must be positive")
	}
	if p.MimeType == "" {
		return common.NewValidationError("mime_type", "must not be empty")
	}
	return nil
}
