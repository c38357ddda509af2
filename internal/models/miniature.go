package models

import (
	"time"

	"github.com/avolkovs/paintrack/internal/common"
)

// Miniature is a single model inside a project. It exclusively owns its
// photos and may be linked to any number of recipes.
type Miniature struct {
	ID             string
	ProjectID      string
	Name           string
	MiniatureType  MiniatureType
	ProgressStatus ProgressStatus
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks field constraints and enum membership.
func (m *Miniature) Validate() error {
	if m.ProjectID == "" {
		return common.NewValidationError("project_id", "must not be empty")
	}
	if m.Name == "" {
		return common.NewValidationError("name", "must not be empty")
	}
	if len(m.Name) > maxNameLen {
		return common.NewValidationError("name", "exceeds 255 characters")
	}
	if _, err := ParseMiniatureType(string(m.MiniatureType)); err != nil {
		return err
	}
	if _, err := ParseProgressStatus(string(m.ProgressStatus)); err != nil {
		return err
	}
	if len(m.Notes) > maxNotesLen {
		return common.NewValidationError("notes", "exceeds 1000 characters")
	}
	return nil
}
