package widget

import (
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/BoraResearchLab/dashboard_svc/internal/model"
)

const (
	propertyNameWidth  = "width"
	propertyNameHeight = "height"

	errorMessageEncodeProperties = "widget: encode properties"
)

// ParseFormResult is the outcome of parsing a form submission. Field errors
// are an expected, recoverable outcome; when Errors is non-empty the Widget
// is nil and nothing may be persisted.
type ParseFormResult struct {
	Widget *model.Widget
	Errors []string
}

// ComponentFunc renders a fully-resolved view-model to a visual fragment. It
// must not fetch and must not mutate.
type ComponentFunc func(viewModel ViewModel) (template.HTML, error)

// FormFunc renders a kind's edit form. A nil view-model renders the create
// form with schema defaults; otherwise fields are pre-filled from the widget.
type FormFunc func(viewModel ViewModel) (template.HTML, error)

// Descriptor is the behavior bundle every widget kind implements. Descriptors
// are stateless beyond their schema; a single instance is shared across all
// requests.
type Descriptor interface {
	// Type returns the kind key the descriptor is registered under.
	Type() string
	// Schema returns the kind's declarative property schema.
	Schema() Schema
	// ParseForm validates a form submission and assembles a persistable record.
	ParseForm(dashboardID string, submission FormSubmission) ParseFormResult
	// FromDB decodes a persisted record into the kind's view-model. A schema
	// failure is a data integrity error and aborts the whole batch.
	FromDB(record model.Widget) (ViewModel, error)
}

// BaseDescriptor supplies the schema-driven default ParseForm and property
// decoding shared by the concrete kinds. Kinds with submission shapes the
// generic coercion cannot express override ParseForm entirely.
type BaseDescriptor struct {
	kindKey string
	schema  Schema
}

// NewBaseDescriptor builds the embedded base for a concrete kind.
func NewBaseDescriptor(kindKey string, schema Schema) BaseDescriptor {
	return BaseDescriptor{kindKey: kindKey, schema: schema}
}

// Type returns the kind key.
func (descriptor BaseDescriptor) Type() string {
	return descriptor.kindKey
}

// Schema returns the kind's property schema.
func (descriptor BaseDescriptor) Schema() Schema {
	return descriptor.schema
}

// ParseForm normalizes the submission entries, validates them against the
// schema and assembles an unsaved record: type tag, default position for new
// widgets, pixel dimensions lifted out of the validated fields, and the
// remaining fields as the properties blob.
func (descriptor BaseDescriptor) ParseForm(dashboardID string, submission FormSubmission) ParseFormResult {
	properties, fieldErrors := descriptor.schema.ParseFormValues(submission)
	if len(fieldErrors) > 0 {
		return ParseFormResult{Errors: fieldErrors}
	}
	return descriptor.AssembleRecord(dashboardID, properties)
}

// AssembleRecord builds the persistable record from validated properties.
func (descriptor BaseDescriptor) AssembleRecord(dashboardID string, properties map[string]any) ParseFormResult {
	width := extractDimension(properties, propertyNameWidth)
	height := extractDimension(properties, propertyNameHeight)

	encoded, encodeErr := json.Marshal(properties)
	if encodeErr != nil {
		return ParseFormResult{Errors: []string{fmt.Sprintf("%s: %v", errorMessageEncodeProperties, encodeErr)}}
	}

	record := model.Widget{
		DashboardID: dashboardID,
		Type:        descriptor.kindKey,
		PositionX:   0,
		PositionY:   0,
		Width:       width,
		Height:      height,
		Properties:  encoded,
	}
	return ParseFormResult{Widget: &record}
}

// DecodeProperties decodes a record's properties blob via the schema, adding
// the widget identifier to the failure for diagnosis.
func (descriptor BaseDescriptor) DecodeProperties(record model.Widget) (map[string]any, error) {
	properties, decodeErr := descriptor.schema.DecodeProperties(record.Properties)
	if decodeErr != nil {
		return nil, fmt.Errorf("widget %s: %w", record.ID, decodeErr)
	}
	return properties, nil
}

func extractDimension(properties map[string]any, name string) *int {
	value, isNumber := numericValue(properties[name])
	if !isNumber {
		return nil
	}
	delete(properties, name)
	pixels := int(value)
	if pixels <= 0 {
		return nil
	}
	return &pixels
}
