package value

import (
	"github.com/BoraResearchLab/dashboard_svc/internal/model"
	"github.com/BoraResearchLab/dashboard_svc/internal/widget"
)

// TypeKey is the registry key for value widgets.
const TypeKey = "Value"

const (
	propertyNameDataSource       = "dataSource"
	propertyNameDataID           = "dataId"
	propertyNameExpression       = "expression"
	propertyNameDataIDs          = "dataIds"
	propertyNameTextContent      = "textContent"
	propertyNameUnit             = "unit"
	propertyNameDecimalPlaces    = "decimalPlaces"
	propertyNameExponential      = "exp"
	propertyNameFontSize         = "fontSize"
	propertyNameFontWeight       = "fontWeight"
	propertyNameBackgroundColor  = "backgroundColor"
	propertyNameDefaultTextColor = "defaultTextColor"
	propertyNameConditions       = "conditions"
	propertyNameWidth            = "width"
	propertyNameHeight           = "height"

	defaultDecimalPlaces = 2.0
	defaultFontWeight    = "normal"
	defaultTextColor     = "black"
)

// Descriptor implements the value widget kind: a widget that displays a
// resolved data value as formatted text with conditional coloring.
//
// widgetgen:type Value
type Descriptor struct {
	widget.BaseDescriptor
}

// NewDescriptor builds the value widget descriptor with its property schema.
// The flat dataId and expression plus dataIds fields are kept alongside the
// unified dataSource shape for records written before that shape existed.
func NewDescriptor() *Descriptor {
	schema := widget.NewSchema(
		widget.Field{Name: propertyNameDataSource, Kind: widget.FieldKindJSON},
		widget.Field{Name: propertyNameDataID, Kind: widget.FieldKindString},
		widget.Field{Name: propertyNameExpression, Kind: widget.FieldKindString},
		widget.Field{Name: propertyNameDataIDs, Kind: widget.FieldKindStringList},
		widget.Field{Name: propertyNameTextContent, Kind: widget.FieldKindString},
		widget.Field{Name: propertyNameUnit, Kind: widget.FieldKindString},
		widget.Field{
			Name:    propertyNameDecimalPlaces,
			Kind:    widget.FieldKindNumber,
			Default: defaultDecimalPlaces,
			Minimum: widget.FloatPointer(0),
			Maximum: widget.FloatPointer(10),
		},
		widget.Field{Name: propertyNameExponential, Kind: widget.FieldKindBool, Default: false},
		widget.Field{
			Name:    propertyNameFontSize,
			Kind:    widget.FieldKindNumber,
			Minimum: widget.FloatPointer(8),
			Maximum: widget.FloatPointer(72),
		},
		widget.Field{
			Name: propertyNameFontWeight,
			Kind: widget.FieldKindString,
			Enum: []string{"normal", "bold", "bolder", "lighter"},
		},
		widget.Field{Name: propertyNameBackgroundColor, Kind: widget.FieldKindString},
		widget.Field{Name: propertyNameDefaultTextColor, Kind: widget.FieldKindString},
		widget.Field{Name: propertyNameConditions, Kind: widget.FieldKindJSON},
		widget.Field{Name: propertyNameWidth, Kind: widget.FieldKindNumber, Minimum: widget.FloatPointer(1)},
		widget.Field{Name: propertyNameHeight, Kind: widget.FieldKindNumber, Minimum: widget.FloatPointer(1)},
	)
	return &Descriptor{BaseDescriptor: widget.NewBaseDescriptor(TypeKey, schema)}
}

// FromDB decodes a persisted record into a value view-model, promoting legacy
// flat data-source fields into the unified shape.
func (descriptor *Descriptor) FromDB(record model.Widget) (widget.ViewModel, error) {
	properties, decodeErr := descriptor.DecodeProperties(record)
	if decodeErr != nil {
		return nil, decodeErr
	}

	conditions, conditionsErr := widget.DecodeRules[widget.ColorFormat](properties[propertyNameConditions])
	if conditionsErr != nil {
		return nil, conditionsErr
	}

	return &widget.ValueViewModel{
		BaseViewModel:    widget.BaseFromRecord(record),
		DataSource:       widget.NormalizeDataSource(properties),
		TextContent:      widget.StringProperty(properties, propertyNameTextContent, ""),
		Unit:             widget.StringProperty(properties, propertyNameUnit, ""),
		DecimalPlaces:    int(widget.NumberProperty(properties, propertyNameDecimalPlaces, defaultDecimalPlaces)),
		Exponential:      widget.BoolProperty(properties, propertyNameExponential, false),
		FontSize:         widget.NumberProperty(properties, propertyNameFontSize, 0),
		FontWeight:       widget.StringProperty(properties, propertyNameFontWeight, defaultFontWeight),
		BackgroundColor:  widget.StringProperty(properties, propertyNameBackgroundColor, ""),
		DefaultTextColor: widget.StringProperty(properties, propertyNameDefaultTextColor, defaultTextColor),
		Conditions:       conditions,
	}, nil
}
