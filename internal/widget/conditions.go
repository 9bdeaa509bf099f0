package widget

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Condition identifies a comparison applied to a widget's resolved value when
// selecting a conditional format. The wire values match the persisted rule blobs.
type Condition string

const (
	ConditionEquals                                  Condition = "equals"
	ConditionNotEquals                               Condition = "not-equals"
	ConditionLessThan                                Condition = "less-than"
	ConditionGreaterThan                             Condition = "greater-than"
	ConditionLessThanEquals                          Condition = "less-than-equals"
	ConditionGreaterThanEquals                       Condition = "greater-than-equals"
	ConditionIsInExclusiveInterval                   Condition = "is-in-exclusive-interval"
	ConditionIsInInclusiveInterval                   Condition = "is-in-inclusive-interval"
	ConditionIsInLeftExclusiveRightInclusiveInterval Condition = "is-in-left-exclusive-right-inclusive-interval"
	ConditionIsInLeftInclusiveRightExclusiveInterval Condition = "is-in-left-inclusive-right-exclusive-interval"
)

const errorMessageInvalidRuleValue = "widget: rule value must be a number or a pair of numbers"

// ErrInvalidRuleValue indicates a persisted rule value that is neither a scalar
// nor a two-element interval.
var ErrInvalidRuleValue = errors.New(errorMessageInvalidRuleValue)

// RuleValue is either a single comparison bound or an interval pair. The JSON
// encoding is a bare number for scalars and a two-element array for intervals.
type RuleValue struct {
	scalar     float64
	lower      float64
	upper      float64
	isInterval bool
}

// ScalarRuleValue builds a RuleValue holding a single comparison bound.
func ScalarRuleValue(value float64) RuleValue {
	return RuleValue{scalar: value}
}

// IntervalRuleValue builds a RuleValue holding an interval pair.
func IntervalRuleValue(lower float64, upper float64) RuleValue {
	return RuleValue{lower: lower, upper: upper, isInterval: true}
}

// IsInterval reports whether the rule value holds an interval pair.
func (ruleValue RuleValue) IsInterval() bool {
	return ruleValue.isInterval
}

// Scalar returns the single comparison bound. Only meaningful for scalar values.
func (ruleValue RuleValue) Scalar() float64 {
	return ruleValue.scalar
}

// Bounds returns the interval pair. Only meaningful for interval values.
func (ruleValue RuleValue) Bounds() (float64, float64) {
	return ruleValue.lower, ruleValue.upper
}

// UnmarshalJSON accepts either a number or a two-element number array.
func (ruleValue *RuleValue) UnmarshalJSON(data []byte) error {
	var scalar float64
	if scalarErr := json.Unmarshal(data, &scalar); scalarErr == nil {
		*ruleValue = ScalarRuleValue(scalar)
		return nil
	}

	var pair []float64
	if pairErr := json.Unmarshal(data, &pair); pairErr != nil || len(pair) != 2 {
		return fmt.Errorf("%w: %s", ErrInvalidRuleValue, string(data))
	}
	*ruleValue = IntervalRuleValue(pair[0], pair[1])
	return nil
}

// MarshalJSON emits a bare number for scalars and a two-element array for intervals.
func (ruleValue RuleValue) MarshalJSON() ([]byte, error) {
	if ruleValue.isInterval {
		return json.Marshal([2]float64{ruleValue.lower, ruleValue.upper})
	}
	return json.Marshal(ruleValue.scalar)
}

// ColorFormat is the conditional format applied by value widgets.
type ColorFormat struct {
	Color string `json:"color"`
}

// IconFormat is the conditional format applied by icon widgets.
type IconFormat struct {
	Icon string `json:"icon"`
}

// ConditionalRule maps a value predicate to a kind-specific format.
type ConditionalRule[F any] struct {
	Condition Condition `json:"condition"`
	Value     RuleValue `json:"value"`
	Format    F         `json:"format"`
}

// EvaluateCondition reports whether the resolved value satisfies the condition.
// The evaluator fails closed: a rule value of the wrong shape or an unknown
// condition yields false, never a panic. It is a formatting aid, not a validator.
func EvaluateCondition(value float64, condition Condition, ruleValue RuleValue) bool {
	switch condition {
	case ConditionEquals:
		return !ruleValue.isInterval && value == ruleValue.scalar
	case ConditionNotEquals:
		return !ruleValue.isInterval && value != ruleValue.scalar
	case ConditionLessThan:
		return !ruleValue.isInterval && value < ruleValue.scalar
	case ConditionGreaterThan:
		return !ruleValue.isInterval && value > ruleValue.scalar
	case ConditionLessThanEquals:
		return !ruleValue.isInterval && value <= ruleValue.scalar
	case ConditionGreaterThanEquals:
		return !ruleValue.isInterval && value >= ruleValue.scalar
	case ConditionIsInInclusiveInterval:
		return ruleValue.isInterval && value >= ruleValue.lower && value <= ruleValue.upper
	case ConditionIsInExclusiveInterval:
		return ruleValue.isInterval && value > ruleValue.lower && value < ruleValue.upper
	case ConditionIsInLeftInclusiveRightExclusiveInterval:
		return ruleValue.isInterval && value >= ruleValue.lower && value < ruleValue.upper
	case ConditionIsInLeftExclusiveRightInclusiveInterval:
		return ruleValue.isInterval && value > ruleValue.lower && value <= ruleValue.upper
	default:
		return false
	}
}

// FirstMatchingFormat walks the rules in order and returns the format of the
// first rule whose predicate matches the value. The second return value is
// false when no rule matches and the caller should fall back to its default.
func FirstMatchingFormat[F any](value float64, rules []ConditionalRule[F]) (F, bool) {
	for _, rule := range rules {
		if EvaluateCondition(value, rule.Condition, rule.Value) {
			return rule.Format, true
		}
	}
	var zero F
	return zero, false
}
