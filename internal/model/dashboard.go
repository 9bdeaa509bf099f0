package model

import (
	"errors"
	"strings"
)

const (
	dashboardNameMinimumLength = 3
	dashboardNameMaximumLength = 50

	errorMessageInvalidDashboardName   = "model: dashboard name must be between 3 and 50 characters"
	errorMessageMissingSchematicImage  = "model: missing schematic image path"
	errorMessageMissingDashboardRecord = "model: missing dashboard identifier"
)

var (
	// ErrInvalidDashboardName indicates the dashboard name is empty or outside the allowed length.
	ErrInvalidDashboardName = errors.New(errorMessageInvalidDashboardName)
	// ErrMissingSchematicImagePath indicates the dashboard was created without a schematic image.
	ErrMissingSchematicImagePath = errors.New(errorMessageMissingSchematicImage)
	// ErrMissingDashboardID indicates a dashboard record without an identifier.
	ErrMissingDashboardID = errors.New(errorMessageMissingDashboardRecord)
)

// ValidDashboardName reports whether a trimmed dashboard name is within the
// allowed length range.
func ValidDashboardName(name string) bool {
	return len(name) >= dashboardNameMinimumLength && len(name) <= dashboardNameMaximumLength
}

// DashboardInput captures the fields required to construct a Dashboard.
type DashboardInput struct {
	ID                 string
	Name               string
	SchematicImagePath string
}

// NewDashboard validates and normalizes the input and returns a Dashboard record.
func NewDashboard(input DashboardInput) (Dashboard, error) {
	trimmedID := strings.TrimSpace(input.ID)
	if trimmedID == "" {
		return Dashboard{}, ErrMissingDashboardID
	}

	trimmedName := strings.TrimSpace(input.Name)
	if !ValidDashboardName(trimmedName) {
		return Dashboard{}, ErrInvalidDashboardName
	}

	trimmedImagePath := strings.TrimSpace(input.SchematicImagePath)
	if trimmedImagePath == "" {
		return Dashboard{}, ErrMissingSchematicImagePath
	}

	return Dashboard{
		ID:                 trimmedID,
		Name:               trimmedName,
		SchematicImagePath: trimmedImagePath,
	}, nil
}
