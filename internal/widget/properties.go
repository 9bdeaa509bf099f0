package widget

import (
	"encoding/json"
	"fmt"
)

// StringProperty reads a string field from decoded properties, returning the
// fallback when the field is absent or of a different type.
func StringProperty(properties map[string]any, name string, fallback string) string {
	if value, present := properties[name].(string); present {
		return value
	}
	return fallback
}

// NumberProperty reads a numeric field from decoded properties.
func NumberProperty(properties map[string]any, name string, fallback float64) float64 {
	if value, isNumber := numericValue(properties[name]); isNumber {
		return value
	}
	return fallback
}

// BoolProperty reads a boolean field from decoded properties.
func BoolProperty(properties map[string]any, name string, fallback bool) bool {
	if value, present := properties[name].(bool); present {
		return value
	}
	return fallback
}

// StringListProperty reads a string list field from decoded properties.
func StringListProperty(properties map[string]any, name string) []string {
	switch typedValue := properties[name].(type) {
	case []string:
		return typedValue
	case []any:
		entries := make([]string, 0, len(typedValue))
		for _, entry := range typedValue {
			if text, isString := entry.(string); isString {
				entries = append(entries, text)
			}
		}
		return entries
	default:
		return nil
	}
}

// DecodeRules converts a decoded properties value into a typed rule list by
// round-tripping through JSON. A nil value yields an empty list.
func DecodeRules[F any](value any) ([]ConditionalRule[F], error) {
	if value == nil {
		return nil, nil
	}
	encoded, encodeErr := json.Marshal(value)
	if encodeErr != nil {
		return nil, fmt.Errorf("%w: conditions: %v", ErrInvalidProperties, encodeErr)
	}
	var rules []ConditionalRule[F]
	if decodeErr := json.Unmarshal(encoded, &rules); decodeErr != nil {
		return nil, fmt.Errorf("%w: conditions: %v", ErrInvalidProperties, decodeErr)
	}
	return rules, nil
}

// NormalizeDataSource promotes the decoded properties into the unified data
// source shape. Records written before the dataSource field existed stored
// flat dataId or expression plus dataIds fields; both legacy layouts decode.
func NormalizeDataSource(properties map[string]any) DataSource {
	if declared, isMap := properties["dataSource"].(map[string]any); isMap {
		source := DataSource{
			Type:       StringProperty(declared, "type", ""),
			DataID:     StringProperty(declared, "dataId", ""),
			Expression: StringProperty(declared, "expression", ""),
			DataIDs:    StringListProperty(declared, "dataIds"),
		}
		if source.Type != "" {
			return source
		}
	}

	expression := StringProperty(properties, "expression", "")
	dataIDs := StringListProperty(properties, "dataIds")
	if expression != "" && dataIDs != nil {
		return DataSource{
			Type:       DataSourceTypeCalculation,
			Expression: expression,
			DataIDs:    dataIDs,
		}
	}

	return DataSource{
		Type:   DataSourceTypeDatabase,
		DataID: StringProperty(properties, "dataId", ""),
	}
}
