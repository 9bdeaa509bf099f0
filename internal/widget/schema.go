package widget

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// FieldKind names the semantic type a schema field accepts.
type FieldKind string

const (
	FieldKindString     FieldKind = "string"
	FieldKindNumber     FieldKind = "number"
	FieldKindBool       FieldKind = "bool"
	FieldKindStringList FieldKind = "string-list"
	// FieldKindJSON accepts any structured value and leaves validation of its
	// shape to the widget kind (data sources, conditional rules).
	FieldKindJSON FieldKind = "json"
)

const (
	errorMessageInvalidProperties = "widget: invalid properties"
	errorMessageDuplicateField    = "widget: duplicate schema field"

	defaultMessageRequired     = "is required"
	defaultMessageString       = "must be a string"
	defaultMessageNumber       = "must be a number"
	defaultMessageBool         = "must be a boolean"
	defaultMessageStringList   = "must be a list of strings"
	defaultMessageMinimum      = "must be at least %g"
	defaultMessageMaximum      = "must be at most %g"
	defaultMessageMinimumChars = "must be at least %d characters"
	defaultMessageMaximumChars = "must be at most %d characters"
	defaultMessageEnum         = "must be one of %s"
)

// ErrInvalidProperties indicates a persisted properties blob that fails schema
// validation. This is a data integrity failure and aborts the whole load.
var ErrInvalidProperties = errors.New(errorMessageInvalidProperties)

// Field declares one accepted property of a widget kind.
type Field struct {
	Name          string
	Kind          FieldKind
	Required      bool
	Default       any
	Minimum       *float64
	Maximum       *float64
	MinimumLength *int
	MaximumLength *int
	Enum          []string
	// RequiredMessage overrides the default "<name> is required" message.
	RequiredMessage string
	// InvalidMessage overrides the default type mismatch message.
	InvalidMessage string
}

// FloatPointer returns a pointer to the given float, for field constraint literals.
func FloatPointer(value float64) *float64 {
	return &value
}

// IntPointer returns a pointer to the given int, for field constraint literals.
func IntPointer(value int) *int {
	return &value
}

// Schema is the ordered, declarative description of a widget kind's properties.
// It is consumed in both decode directions: persisted JSON to view-model fields
// and form submissions to persistable properties. Unknown keys are stripped.
type Schema struct {
	fields []Field
}

// NewSchema builds a Schema from the given fields. Duplicate field names panic
// because they are a programming error in the kind's declaration.
func NewSchema(fields ...Field) Schema {
	seenNames := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		if _, duplicate := seenNames[field.Name]; duplicate {
			panic(fmt.Sprintf("%s: %s", errorMessageDuplicateField, field.Name))
		}
		seenNames[field.Name] = struct{}{}
	}
	return Schema{fields: fields}
}

// Fields returns the declared fields in declaration order.
func (schema Schema) Fields() []Field {
	declared := make([]Field, len(schema.fields))
	copy(declared, schema.fields)
	return declared
}

// DecodeProperties parses a persisted properties blob against the schema.
// Declared defaults fill absent optional fields so records written before a
// field existed still decode. Any violation is a data integrity failure.
func (schema Schema) DecodeProperties(raw []byte) (map[string]any, error) {
	if len(raw) == 0 {
		raw = []byte("{}")
	}

	var rawProperties map[string]any
	if unmarshalErr := json.Unmarshal(raw, &rawProperties); unmarshalErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProperties, unmarshalErr)
	}

	decoded := make(map[string]any, len(schema.fields))
	for _, field := range schema.fields {
		value, present := rawProperties[field.Name]
		if !present || value == nil {
			if field.Default != nil {
				decoded[field.Name] = field.Default
				continue
			}
			if field.Required {
				return nil, fmt.Errorf("%w: %s", ErrInvalidProperties, fieldError(field, requiredMessage(field)))
			}
			continue
		}

		validated, validationMessage := validateFieldValue(field, value)
		if validationMessage != "" {
			return nil, fmt.Errorf("%w: %s", ErrInvalidProperties, fieldError(field, validationMessage))
		}
		decoded[field.Name] = validated
	}

	return decoded, nil
}

// ParseFormValues coerces and validates raw form entries against the schema.
// Failures are expected, recoverable outcomes surfaced as a field-keyed error
// list; nothing is thrown across the form submission boundary.
func (schema Schema) ParseFormValues(submission FormSubmission) (map[string]any, []string) {
	properties := make(map[string]any, len(schema.fields))
	var fieldErrors []string

	for _, field := range schema.fields {
		rawValue, present := submission.TrimmedValue(field.Name)
		if !present {
			if field.Default != nil {
				properties[field.Name] = field.Default
				continue
			}
			if field.Required {
				fieldErrors = append(fieldErrors, fieldError(field, requiredMessage(field)))
			}
			continue
		}

		validated, validationMessage := validateFieldValue(field, CoerceFormValue(rawValue))
		if validationMessage != "" {
			fieldErrors = append(fieldErrors, fieldError(field, validationMessage))
			continue
		}
		properties[field.Name] = validated
	}

	if len(fieldErrors) > 0 {
		return nil, fieldErrors
	}
	return properties, nil
}

func fieldError(field Field, message string) string {
	return fmt.Sprintf("%s: %s", field.Name, message)
}

func requiredMessage(field Field) string {
	if field.RequiredMessage != "" {
		return field.RequiredMessage
	}
	return fmt.Sprintf("%s %s", field.Name, defaultMessageRequired)
}

func invalidMessage(field Field, fallback string) string {
	if field.InvalidMessage != "" {
		return field.InvalidMessage
	}
	return fallback
}

func validateFieldValue(field Field, value any) (any, string) {
	switch field.Kind {
	case FieldKindString:
		return validateStringValue(field, value)
	case FieldKindNumber:
		return validateNumberValue(field, value)
	case FieldKindBool:
		boolean, isBool := value.(bool)
		if !isBool {
			return nil, invalidMessage(field, defaultMessageBool)
		}
		return boolean, ""
	case FieldKindStringList:
		return validateStringListValue(field, value)
	case FieldKindJSON:
		return value, ""
	default:
		return value, ""
	}
}

func validateStringValue(field Field, value any) (any, string) {
	text, isString := value.(string)
	if !isString {
		return nil, invalidMessage(field, defaultMessageString)
	}
	if field.MinimumLength != nil && len(text) < *field.MinimumLength {
		if *field.MinimumLength == 1 {
			return nil, requiredMessage(field)
		}
		return nil, fmt.Sprintf(defaultMessageMinimumChars, *field.MinimumLength)
	}
	if field.MaximumLength != nil && len(text) > *field.MaximumLength {
		return nil, fmt.Sprintf(defaultMessageMaximumChars, *field.MaximumLength)
	}
	if len(field.Enum) > 0 && !containsString(field.Enum, text) {
		return nil, fmt.Sprintf(defaultMessageEnum, strings.Join(field.Enum, ", "))
	}
	return text, ""
}

func validateNumberValue(field Field, value any) (any, string) {
	number, isNumber := numericValue(value)
	if !isNumber {
		return nil, invalidMessage(field, defaultMessageNumber)
	}
	if field.Minimum != nil && number < *field.Minimum {
		return nil, fmt.Sprintf(defaultMessageMinimum, *field.Minimum)
	}
	if field.Maximum != nil && number > *field.Maximum {
		return nil, fmt.Sprintf(defaultMessageMaximum, *field.Maximum)
	}
	return number, ""
}

func validateStringListValue(field Field, value any) (any, string) {
	switch typedValue := value.(type) {
	case []string:
		return typedValue, ""
	case []any:
		entries := make([]string, 0, len(typedValue))
		for _, entry := range typedValue {
			text, isString := entry.(string)
			if !isString {
				return nil, invalidMessage(field, defaultMessageStringList)
			}
			entries = append(entries, text)
		}
		return entries, ""
	default:
		return nil, invalidMessage(field, defaultMessageStringList)
	}
}

func numericValue(value any) (float64, bool) {
	switch typedValue := value.(type) {
	case float64:
		return typedValue, true
	case int:
		return float64(typedValue), true
	case json.Number:
		parsed, parseErr := typedValue.Float64()
		return parsed, parseErr == nil
	default:
		return 0, false
	}
}

func containsString(values []string, candidate string) bool {
	for _, value := range values {
		if value == candidate {
			return true
		}
	}
	return false
}
