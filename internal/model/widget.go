package model

import (
	"errors"
	"strings"

	"gorm.io/datatypes"
)

const (
	errorMessageMissingWidgetID          = "model: missing widget identifier"
	errorMessageMissingWidgetDashboardID = "model: missing widget dashboard identifier"
	errorMessageMissingWidgetType        = "model: missing widget type"
	errorMessageInvalidWidgetPosition    = "model: widget position must be within [0,1]"
	errorMessageInvalidWidgetDimension   = "model: widget dimensions must be positive"
)

var (
	// ErrMissingWidgetID indicates a widget record without an identifier.
	ErrMissingWidgetID = errors.New(errorMessageMissingWidgetID)
	// ErrMissingWidgetDashboardID indicates a widget record without an owning dashboard.
	ErrMissingWidgetDashboardID = errors.New(errorMessageMissingWidgetDashboardID)
	// ErrMissingWidgetType indicates a widget record without a type key.
	ErrMissingWidgetType = errors.New(errorMessageMissingWidgetType)
	// ErrInvalidWidgetPosition indicates a fractional canvas coordinate outside [0,1].
	ErrInvalidWidgetPosition = errors.New(errorMessageInvalidWidgetPosition)
	// ErrInvalidWidgetDimension indicates a non-positive pixel width or height.
	ErrInvalidWidgetDimension = errors.New(errorMessageInvalidWidgetDimension)
)

// WidgetInput captures the fields required to construct a Widget record.
type WidgetInput struct {
	ID          string
	DashboardID string
	Type        string
	PositionX   float64
	PositionY   float64
	Width       *int
	Height      *int
	Properties  []byte
}

// NewWidget validates the input and returns a Widget record. Empty properties
// are normalized to an empty JSON object so the column is never null.
func NewWidget(input WidgetInput) (Widget, error) {
	trimmedID := strings.TrimSpace(input.ID)
	if trimmedID == "" {
		return Widget{}, ErrMissingWidgetID
	}

	trimmedDashboardID := strings.TrimSpace(input.DashboardID)
	if trimmedDashboardID == "" {
		return Widget{}, ErrMissingWidgetDashboardID
	}

	trimmedType := strings.TrimSpace(input.Type)
	if trimmedType == "" {
		return Widget{}, ErrMissingWidgetType
	}

	if positionErr := ValidatePosition(input.PositionX, input.PositionY); positionErr != nil {
		return Widget{}, positionErr
	}

	if dimensionErr := validateDimension(input.Width); dimensionErr != nil {
		return Widget{}, dimensionErr
	}
	if dimensionErr := validateDimension(input.Height); dimensionErr != nil {
		return Widget{}, dimensionErr
	}

	properties := input.Properties
	if len(properties) == 0 {
		properties = []byte("{}")
	}

	return Widget{
		ID:          trimmedID,
		DashboardID: trimmedDashboardID,
		Type:        trimmedType,
		PositionX:   input.PositionX,
		PositionY:   input.PositionY,
		Width:       input.Width,
		Height:      input.Height,
		Properties:  datatypes.JSON(properties),
	}, nil
}

// ValidatePosition reports whether both fractional canvas coordinates lie in [0,1].
func ValidatePosition(positionX float64, positionY float64) error {
	if positionX < 0 || positionX > 1 || positionY < 0 || positionY > 1 {
		return ErrInvalidWidgetPosition
	}
	return nil
}

func validateDimension(dimension *int) error {
	if dimension != nil && *dimension <= 0 {
		return ErrInvalidWidgetDimension
	}
	return nil
}
