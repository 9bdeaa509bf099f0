package widget_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BoraResearchLab/dashboard_svc/internal/widget"
)

func TestNormalizeDataSourcePrefersUnifiedShape(t *testing.T) {
	properties := map[string]any{
		"dataSource": map[string]any{
			"type":   widget.DataSourceTypeDatabase,
			"dataId": "sensor-1",
		},
		"dataId": "legacy-ignored",
	}

	source := widget.NormalizeDataSource(properties)
	require.Equal(t, widget.DataSourceTypeDatabase, source.Type)
	require.Equal(t, "sensor-1", source.DataID)
}

func TestNormalizeDataSourcePromotesLegacyCalculationFields(t *testing.T) {
	properties := map[string]any{
		"expression": `\frac{a}{b}`,
		"dataIds":    []any{"a", "b"},
	}

	source := widget.NormalizeDataSource(properties)
	require.Equal(t, widget.DataSourceTypeCalculation, source.Type)
	require.Equal(t, `\frac{a}{b}`, source.Expression)
	require.Equal(t, []string{"a", "b"}, source.DataIDs)
}

func TestNormalizeDataSourceFallsBackToLegacyDatabaseField(t *testing.T) {
	source := widget.NormalizeDataSource(map[string]any{"dataId": "sensor-7"})
	require.Equal(t, widget.DataSourceTypeDatabase, source.Type)
	require.Equal(t, "sensor-7", source.DataID)

	empty := widget.NormalizeDataSource(map[string]any{})
	require.Equal(t, widget.DataSourceTypeDatabase, empty.Type)
	require.Empty(t, empty.DataID)
}

func TestDecodeRulesRoundTripsTypedRules(t *testing.T) {
	raw := []any{
		map[string]any{
			"condition": "greater-than",
			"value":     90.0,
			"format":    map[string]any{"color": "red"},
		},
		map[string]any{
			"condition": "is-in-inclusive-interval",
			"value":     []any{0.0, 10.0},
			"format":    map[string]any{"color": "green"},
		},
	}

	rules, decodeErr := widget.DecodeRules[widget.ColorFormat](raw)
	require.NoError(t, decodeErr)
	require.Len(t, rules, 2)
	require.Equal(t, widget.ConditionGreaterThan, rules[0].Condition)
	require.Equal(t, "red", rules[0].Format.Color)
	require.True(t, rules[1].Value.IsInterval())
}

func TestDecodeRulesNilValueYieldsNoRules(t *testing.T) {
	rules, decodeErr := widget.DecodeRules[widget.IconFormat](nil)
	require.NoError(t, decodeErr)
	require.Nil(t, rules)
}

func TestDecodeRulesRejectsMalformedRuleValues(t *testing.T) {
	raw := []any{
		map[string]any{"condition": "equals", "value": "not-a-number"},
	}
	_, decodeErr := widget.DecodeRules[widget.ColorFormat](raw)
	require.ErrorIs(t, decodeErr, widget.ErrInvalidProperties)
}
