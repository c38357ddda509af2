package models

import (
	"time"

	"github.com/avolkovs/paintrack/internal/common"
)

// Recipe is a reusable painting guide with an independent lifecycle: no
// project or miniature delete ever cascades into a recipe.
type Recipe struct {
	ID            string
	Name          string
	MiniatureType MiniatureType
	// Steps is an ordered sequence; order is part of the recipe.
	Steps []string
	// PaintsUsed and Techniques keep insertion order for display, though
	// storage treats them as sets.
	PaintsUsed []string
	Techniques []string
	Notes      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Validate checks field constraints and enum membership.
func (r *Recipe) Validate() error {
	if r.Name == "" {
		return common.NewValidationError("name", "must not be empty")
	}
	if len(r.Name) > maxNameLen {
		return common.NewValidationError("name", "exceeds 255 characters")
	}
	if _, err := ParseMiniatureType(string(r.MiniatureType)); err != nil {
		return err
	}
	for _, s := range r.Steps {
		if s == "" {
			return common.NewValidationError("steps", "must not contain empty steps")
		}
	}
	return nil
}
