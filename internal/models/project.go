package models

import (
	"time"

	"github.com/avolkovs/paintrack/internal/common"
)

const (
	maxNameLen        = 255
	maxDescriptionLen = 1000
	maxNotesLen       = 1000
)

// Project is the top of the hierarchy: one army being painted for one game
// system. It exclusively owns its miniatures.
type Project struct {
	ID          string
	Name        string
	GameSystem  GameSystem
	Army        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Validate checks field constraints and enum membership. It never touches
// storage.
func (p *Project) Validate() error {
	if p.Name == "" {
		return common.NewValidationError("name", "must not be empty")
	}
	if len(p.Name) > maxNameLen {
		return common.NewValidationError("name", "exceeds 255 characters")
	}
	if _, err := ParseGameSystem(string(p.GameSystem)); err != nil {
		return err
	}
	if p.Army == "" {
		return common.NewValidationError("army", "must not be empty")
	}
	if len(p.Army) > maxNameLen {
		return common.NewValidationError("army", "exceeds 255 characters")
	}
	if len(p.Description) > maxDescriptionLen {
		return common.NewValidationError("description", "exceeds 1000 characters")
	}
	return nil
}

// CompletionPercent averages the progress of the given miniatures using the
// fixed stage percentages. An empty set is 0.
func CompletionPercent(miniatures []*Miniature) float64 {
	if len(miniatures) == 0 {
		return 0
	}
	total := 0
	for _, m := range miniatures {
		total += m.ProgressStatus.Percent()
	}
	return float64(total) / float64(len(miniatures))
}
