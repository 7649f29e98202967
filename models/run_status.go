package models

import "strings"

// RunStatus is the canonical status vocabulary. The store keeps free-form strings;
// ParseRunStatus reconciles them onto this set.
type RunStatus string

const (
	RunStatusPending             RunStatus = "pending"
	RunStatusProcessing          RunStatus = "processing"
	RunStatusCompleted           RunStatus = "completed"
	RunStatusFailed              RunStatus = "failed"
	RunStatusInvalidRecipe       RunStatus = "invalid_recipe"
	RunStatusInsufficientCredits RunStatus = "insufficient_credits"
	RunStatusUnknown             RunStatus = "unknown"
)

// "succes" is what the pipeline actually writes for successful runs.
var rawStatusAliases = map[string]RunStatus{
	"pending":              RunStatusPending,
	"processing":           RunStatusProcessing,
	"completed":            RunStatusCompleted,
	"succes":               RunStatusCompleted,
	"success":              RunStatusCompleted,
	"failed":               RunStatusFailed,
	"error":                RunStatusFailed,
	"invalid_recipe":       RunStatusInvalidRecipe,
	"insufficient_credits": RunStatusInsufficientCredits,
}

// ParseRunStatus maps a raw stored status onto the canonical set. Unrecognised
// values map to RunStatusUnknown.
func ParseRunStatus(raw string) RunStatus {
	if s, ok := rawStatusAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return RunStatusUnknown
}

// IsSuccess reports whether the status is the success class.
func (s RunStatus) IsSuccess() bool {
	return s == RunStatusCompleted
}

// IsFailure reports whether the status is one of the failure classes.
func (s RunStatus) IsFailure() bool {
	switch s {
	case RunStatusFailed, RunStatusInvalidRecipe, RunStatusInsufficientCredits:
		return true
	}
	return false
}

// IsActive reports whether the pipeline is still working on the run.
func (s RunStatus) IsActive() bool {
	return s == RunStatusPending || s == RunStatusProcessing
}
