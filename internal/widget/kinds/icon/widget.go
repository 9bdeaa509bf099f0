package icon

import (
	"encoding/json"

	"github.com/BoraResearchLab/dashboard_svc/internal/model"
	"github.com/BoraResearchLab/dashboard_svc/internal/widget"
)

// TypeKey is the registry key for icon widgets.
const TypeKey = "Icon"

const (
	propertyNameDataSource  = "dataSource"
	propertyNameDataID      = "dataId"
	propertyNameExpression  = "expression"
	propertyNameDataIDs     = "dataIds"
	propertyNameDefaultIcon = "defaultIcon"
	propertyNameConditions  = "conditions"
	propertyNameWidth       = "width"
	propertyNameHeight      = "height"

	fieldNameDataSourceType = "dataSourceType"
)

// Descriptor implements the icon widget kind: a widget that maps a resolved
// data value to an icon via conditional rules.
//
// widgetgen:type Icon
type Descriptor struct {
	widget.BaseDescriptor
}

// NewDescriptor builds the icon widget descriptor with its property schema.
func NewDescriptor() *Descriptor {
	schema := widget.NewSchema(
		widget.Field{Name: propertyNameDataSource, Kind: widget.FieldKindJSON},
		widget.Field{Name: propertyNameDataID, Kind: widget.FieldKindString},
		widget.Field{Name: propertyNameExpression, Kind: widget.FieldKindString},
		widget.Field{Name: propertyNameDataIDs, Kind: widget.FieldKindStringList},
		widget.Field{Name: propertyNameDefaultIcon, Kind: widget.FieldKindString},
		widget.Field{Name: propertyNameConditions, Kind: widget.FieldKindJSON},
		widget.Field{Name: propertyNameWidth, Kind: widget.FieldKindNumber, Minimum: widget.FloatPointer(1)},
		widget.Field{Name: propertyNameHeight, Kind: widget.FieldKindNumber, Minimum: widget.FloatPointer(1)},
	)
	return &Descriptor{BaseDescriptor: widget.NewBaseDescriptor(TypeKey, schema)}
}

// ParseForm assembles the icon widget's multi-field submission. The data
// source is not a single schema field: it is rebuilt from the dataSourceType
// selector plus the variant-specific entries, so the generic schema coercion
// cannot express it and the base behavior is overridden entirely.
func (descriptor *Descriptor) ParseForm(dashboardID string, submission widget.FormSubmission) widget.ParseFormResult {
	properties := map[string]any{}

	sourceType, _ := submission.TrimmedValue(fieldNameDataSourceType)
	switch sourceType {
	case widget.DataSourceTypeDatabase:
		dataID, _ := submission.TrimmedValue(propertyNameDataID)
		properties[propertyNameDataSource] = map[string]any{
			"type":   widget.DataSourceTypeDatabase,
			"dataId": dataID,
		}
	case widget.DataSourceTypeCalculation:
		expression, _ := submission.TrimmedValue(propertyNameExpression)
		properties[propertyNameDataSource] = map[string]any{
			"type":       widget.DataSourceTypeCalculation,
			"expression": expression,
			"dataIds":    decodeStringList(submission, propertyNameDataIDs),
		}
	}

	defaultIcon, _ := submission.TrimmedValue(propertyNameDefaultIcon)
	properties[propertyNameDefaultIcon] = defaultIcon
	properties[propertyNameConditions] = decodeJSONValue(submission, propertyNameConditions)

	copyDimension(submission, properties, propertyNameWidth)
	copyDimension(submission, properties, propertyNameHeight)

	return descriptor.AssembleRecord(dashboardID, properties)
}

// FromDB decodes a persisted record into an icon view-model, promoting legacy
// flat data-source fields into the unified shape and defaulting the icon and
// rule list.
func (descriptor *Descriptor) FromDB(record model.Widget) (widget.ViewModel, error) {
	properties, decodeErr := descriptor.DecodeProperties(record)
	if decodeErr != nil {
		return nil, decodeErr
	}

	conditions, conditionsErr := widget.DecodeRules[widget.IconFormat](properties[propertyNameConditions])
	if conditionsErr != nil {
		return nil, conditionsErr
	}
	if conditions == nil {
		conditions = []widget.ConditionalRule[widget.IconFormat]{}
	}

	return &widget.IconViewModel{
		BaseViewModel: widget.BaseFromRecord(record),
		DataSource:    widget.NormalizeDataSource(properties),
		DefaultIcon:   widget.StringProperty(properties, propertyNameDefaultIcon, ""),
		Conditions:    conditions,
	}, nil
}

func decodeStringList(submission widget.FormSubmission, name string) []string {
	rawValue, present := submission.TrimmedValue(name)
	if !present {
		return []string{}
	}
	var entries []string
	if json.Unmarshal([]byte(rawValue), &entries) != nil {
		return []string{}
	}
	return entries
}

func decodeJSONValue(submission widget.FormSubmission, name string) any {
	rawValue, present := submission.TrimmedValue(name)
	if !present {
		return []any{}
	}
	var decoded any
	if json.Unmarshal([]byte(rawValue), &decoded) != nil {
		return []any{}
	}
	return decoded
}

func copyDimension(submission widget.FormSubmission, properties map[string]any, name string) {
	rawValue, present := submission.TrimmedValue(name)
	if !present {
		return
	}
	if number, isNumber := widget.CoerceFormValue(rawValue).(float64); isNumber && number > 0 {
		properties[name] = number
	}
}
