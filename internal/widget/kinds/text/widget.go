package text

import (
	"github.com/BoraResearchLab/dashboard_svc/internal/model"
	"github.com/BoraResearchLab/dashboard_svc/internal/widget"
)

// TypeKey is the registry key for static text widgets.
const TypeKey = "Text"

const (
	propertyNameTextContent      = "textContent"
	propertyNameFontSize         = "fontSize"
	propertyNameFontWeight       = "fontWeight"
	propertyNameBackgroundColor  = "backgroundColor"
	propertyNameDefaultTextColor = "defaultTextColor"
	propertyNameWidth            = "width"
	propertyNameHeight           = "height"

	defaultFontSize         = 14.0
	defaultFontWeight       = "normal"
	defaultBackgroundColor  = "transparent"
	defaultTextColor        = "black"
	messageTextContentError = "Text content is required"
	messageFontSizeError    = "Font size must be a number"
)

// Descriptor implements the static text widget kind.
//
// widgetgen:type Text
type Descriptor struct {
	widget.BaseDescriptor
}

// NewDescriptor builds the text widget descriptor with its property schema.
func NewDescriptor() *Descriptor {
	schema := widget.NewSchema(
		widget.Field{
			Name:            propertyNameTextContent,
			Kind:            widget.FieldKindString,
			Required:        true,
			MinimumLength:   widget.IntPointer(1),
			RequiredMessage: messageTextContentError,
		},
		widget.Field{
			Name:           propertyNameFontSize,
			Kind:           widget.FieldKindNumber,
			Default:        defaultFontSize,
			Minimum:        widget.FloatPointer(1),
			InvalidMessage: messageFontSizeError,
		},
		widget.Field{
			Name:    propertyNameFontWeight,
			Kind:    widget.FieldKindString,
			Default: defaultFontWeight,
			Enum:    []string{"normal", "bold"},
		},
		widget.Field{Name: propertyNameBackgroundColor, Kind: widget.FieldKindString, Default: defaultBackgroundColor},
		widget.Field{Name: propertyNameDefaultTextColor, Kind: widget.FieldKindString, Default: defaultTextColor},
		widget.Field{Name: propertyNameWidth, Kind: widget.FieldKindNumber, Minimum: widget.FloatPointer(1)},
		widget.Field{Name: propertyNameHeight, Kind: widget.FieldKindNumber, Minimum: widget.FloatPointer(1)},
	)
	return &Descriptor{BaseDescriptor: widget.NewBaseDescriptor(TypeKey, schema)}
}

// FromDB decodes a persisted record into a text view-model.
func (descriptor *Descriptor) FromDB(record model.Widget) (widget.ViewModel, error) {
	properties, decodeErr := descriptor.DecodeProperties(record)
	if decodeErr != nil {
		return nil, decodeErr
	}

	return &widget.TextViewModel{
		BaseViewModel:    widget.BaseFromRecord(record),
		TextContent:      widget.StringProperty(properties, propertyNameTextContent, ""),
		FontSize:         widget.NumberProperty(properties, propertyNameFontSize, defaultFontSize),
		FontWeight:       widget.StringProperty(properties, propertyNameFontWeight, defaultFontWeight),
		BackgroundColor:  widget.StringProperty(properties, propertyNameBackgroundColor, defaultBackgroundColor),
		DefaultTextColor: widget.StringProperty(properties, propertyNameDefaultTextColor, defaultTextColor),
	}, nil
}
