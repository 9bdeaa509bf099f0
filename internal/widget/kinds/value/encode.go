package value

import (
	"encoding/json"

	"github.com/BoraResearchLab/dashboard_svc/internal/widget"
)

func encodeJSONList(entries []string) string {
	if len(entries) == 0 {
		return "[]"
	}
	encoded, encodeErr := json.Marshal(entries)
	if encodeErr != nil {
		return "[]"
	}
	return string(encoded)
}

func encodeConditions(rules []widget.ConditionalRule[widget.ColorFormat]) string {
	if len(rules) == 0 {
		return "[]"
	}
	encoded, encodeErr := json.Marshal(rules)
	if encodeErr != nil {
		return "[]"
	}
	return string(encoded)
}
