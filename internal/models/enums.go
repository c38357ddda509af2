// Package models defines the domain entities persisted by the tracker:
// projects, miniatures, recipes and photos, together with their closed
// enumerations and validation rules. Enum parsing fails closed: an
// unrecognized wire value is an error, never a silent default.
package models

import "github.com/avolkovs/paintrack/internal/common"

// GameSystem is the closed set of supported tabletop systems.
type GameSystem string

const (
	GameSystemAgeOfSigmar GameSystem = "age_of_sigmar"
	GameSystemHorusHeresy GameSystem = "horus_heresy"
	GameSystemWarhammer40k GameSystem = "warhammer_40k"
)

// ParseGameSystem converts a wire value into a GameSystem.
func ParseGameSystem(s string) (GameSystem, error) {
	switch GameSystem(s) {
	case GameSystemAgeOfSigmar, GameSystemHorusHeresy, GameSystemWarhammer40k:
		return GameSystem(s), nil
	}
	return "", common.NewValidationError("game_system", "unknown value: "+s)
}

// MiniatureType is the closed set of miniature categories, shared by
// miniatures and recipes.
type MiniatureType string

const (
	MiniatureTypeTroop     MiniatureType = "troop"
	MiniatureTypeCharacter MiniatureType = "character"
)

// ParseMiniatureType converts a wire value into a MiniatureType.
func ParseMiniatureType(s string) (MiniatureType, error) {
	switch MiniatureType(s) {
	case MiniatureTypeTroop, MiniatureTypeCharacter:
		return MiniatureType(s), nil
	}
	return "", common.NewValidationError("miniature_type", "unknown value: "+s)
}

// ProgressStatus is the closed, ordered set of painting stages.
type ProgressStatus string

const (
	ProgressUnpainted  ProgressStatus = "unpainted"
	ProgressPrimed     ProgressStatus = "primed"
	ProgressBasecoated ProgressStatus = "basecoated"
	ProgressDetailed   ProgressStatus = "detailed"
	ProgressCompleted  ProgressStatus = "completed"
)

// progressPercent fixes the completion value of each stage. The spacing is
// deliberately non-linear: the detailing and completion stages are treated
// as larger leaps than priming and basecoating.
var progressPercent = map[ProgressStatus]int{
	ProgressUnpainted:  0,
	ProgressPrimed:     20,
	ProgressBasecoated: 40,
	ProgressDetailed:   80,
	ProgressCompleted:  100,
}

var progressOrder = []ProgressStatus{
	ProgressUnpainted,
	ProgressPrimed,
	ProgressBasecoated,
	ProgressDetailed,
	ProgressCompleted,
}

// ParseProgressStatus converts a wire value into a ProgressStatus. Unknown
// values are rejected rather than coerced to unpainted.
func ParseProgressStatus(s string) (ProgressStatus, error) {
	if _, ok := progressPercent[ProgressStatus(s)]; ok {
		return ProgressStatus(s), nil
	}
	return "", common.NewValidationError("progress_status", "unknown value: "+s)
}

// Percent returns the completion percentage of the stage.
func (p ProgressStatus) Percent() int {
	return progressPercent[p]
}

// Less reports whether p precedes other in the painting order.
func (p ProgressStatus) Less(other ProgressStatus) bool {
	return p.Percent() < other.Percent()
}

// ProgressStatuses returns all stages in painting order.
func ProgressStatuses() []ProgressStatus {
	out := make([]ProgressStatus, len(progressOrder))
	copy(out, progressOrder)
	return out
}
