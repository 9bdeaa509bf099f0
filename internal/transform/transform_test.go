package transform_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/BoraResearchLab/dashboard_svc/internal/model"
	"github.com/BoraResearchLab/dashboard_svc/internal/transform"
	"github.com/BoraResearchLab/dashboard_svc/internal/widget"
	widgetregistry "github.com/BoraResearchLab/dashboard_svc/internal/widget/registry"
)

func buildTestPipeline(t *testing.T) *transform.Pipeline {
	t.Helper()
	registry, registryErr := widgetregistry.New()
	require.NoError(t, registryErr)
	return transform.NewPipeline(registry, nil)
}

func textRecord(widgetID string, content string) model.Widget {
	return model.Widget{
		ID:         widgetID,
		Type:       "Text",
		Properties: datatypes.JSON(`{"textContent": "` + content + `"}`),
	}
}

func valueRecord(widgetID string, properties string) model.Widget {
	return model.Widget{
		ID:         widgetID,
		Type:       "Value",
		Properties: datatypes.JSON(properties),
	}
}

func TestTransformPreservesRecordOrder(t *testing.T) {
	pipeline := buildTestPipeline(t)
	records := []model.Widget{
		textRecord("widget-1", "first"),
		valueRecord("widget-2", `{"dataSource": {"type": "database", "dataId": "a"}}`),
		textRecord("widget-3", "third"),
	}

	viewModels, transformErr := pipeline.Transform(records, map[string]float64{"a": 5})
	require.NoError(t, transformErr)
	require.Len(t, viewModels, 3)
	require.Equal(t, "widget-1", viewModels[0].Base().ID)
	require.Equal(t, "widget-2", viewModels[1].Base().ID)
	require.Equal(t, "widget-3", viewModels[2].Base().ID)
}

func TestTransformUnknownTypeAbortsWholeBatch(t *testing.T) {
	pipeline := buildTestPipeline(t)
	records := []model.Widget{
		textRecord("widget-1", "fine"),
		{ID: "widget-2", Type: "Gauge", Properties: datatypes.JSON(`{}`)},
	}

	_, transformErr := pipeline.Transform(records, nil)
	require.ErrorIs(t, transformErr, widget.ErrUnknownWidgetType)
}

func TestTransformCorruptPropertiesAbortWholeBatch(t *testing.T) {
	pipeline := buildTestPipeline(t)
	records := []model.Widget{
		{ID: "widget-1", Type: "Text", Properties: datatypes.JSON(`{"fontSize": "huge"}`)},
	}

	_, transformErr := pipeline.Transform(records, nil)
	require.ErrorIs(t, transformErr, widget.ErrInvalidProperties)
}

func TestTransformDatabaseSourceResolvesValue(t *testing.T) {
	pipeline := buildTestPipeline(t)
	records := []model.Widget{
		valueRecord("widget-1", `{"dataSource": {"type": "database", "dataId": "temperature"}}`),
	}

	viewModels, transformErr := pipeline.Transform(records, map[string]float64{"temperature": 21.5})
	require.NoError(t, transformErr)

	valueViewModel := viewModels[0].(*widget.ValueViewModel)
	require.True(t, valueViewModel.HasData)
	require.Equal(t, 21.5, valueViewModel.Value)
}

func TestTransformMissingDatabaseValueYieldsNoDataState(t *testing.T) {
	pipeline := buildTestPipeline(t)
	records := []model.Widget{
		valueRecord("widget-1", `{"dataSource": {"type": "database", "dataId": "absent"}}`),
	}

	viewModels, transformErr := pipeline.Transform(records, map[string]float64{})
	require.NoError(t, transformErr)

	valueViewModel := viewModels[0].(*widget.ValueViewModel)
	require.False(t, valueViewModel.HasData)
	require.Zero(t, valueViewModel.Value)
}

func TestTransformCalculationEvaluatesExpressionWithConstants(t *testing.T) {
	pipeline := buildTestPipeline(t)
	records := []model.Widget{
		valueRecord("widget-1", `{
			"dataSource": {
				"type": "calculation",
				"expression": "\\frac{a}{2} + g",
				"dataIds": ["a"]
			}
		}`),
	}

	viewModels, transformErr := pipeline.Transform(records, map[string]float64{"a": 10})
	require.NoError(t, transformErr)

	valueViewModel := viewModels[0].(*widget.ValueViewModel)
	require.True(t, valueViewModel.HasData)
	require.InDelta(t, 5+9.80665, valueViewModel.Value, 1e-9)
}

func TestTransformCalculationWithSquareRoot(t *testing.T) {
	pipeline := buildTestPipeline(t)
	records := []model.Widget{
		valueRecord("widget-1", `{
			"dataSource": {
				"type": "calculation",
				"expression": "\\sqrt{a}",
				"dataIds": ["a"]
			}
		}`),
	}

	viewModels, transformErr := pipeline.Transform(records, map[string]float64{"a": 16})
	require.NoError(t, transformErr)
	require.Equal(t, 4.0, viewModels[0].(*widget.ValueViewModel).Value)
}

func TestTransformBrokenExpressionRendersZero(t *testing.T) {
	pipeline := buildTestPipeline(t)
	records := []model.Widget{
		valueRecord("widget-1", `{
			"dataSource": {
				"type": "calculation",
				"expression": "a +* b",
				"dataIds": ["a", "b"]
			}
		}`),
	}

	viewModels, transformErr := pipeline.Transform(records, map[string]float64{"a": 1, "b": 2})
	require.NoError(t, transformErr)

	valueViewModel := viewModels[0].(*widget.ValueViewModel)
	require.True(t, valueViewModel.HasData)
	require.Zero(t, valueViewModel.Value)
}

func TestTransformMissingListedDataIDEvaluatesAsZero(t *testing.T) {
	pipeline := buildTestPipeline(t)
	records := []model.Widget{
		valueRecord("widget-1", `{
			"dataSource": {
				"type": "calculation",
				"expression": "a + b",
				"dataIds": ["a", "b"]
			}
		}`),
	}

	viewModels, transformErr := pipeline.Transform(records, map[string]float64{"a": 7})
	require.NoError(t, transformErr)
	require.Equal(t, 7.0, viewModels[0].(*widget.ValueViewModel).Value)
}

func TestTransformDivisionByZeroRendersZero(t *testing.T) {
	pipeline := buildTestPipeline(t)
	records := []model.Widget{
		valueRecord("widget-1", `{
			"dataSource": {
				"type": "calculation",
				"expression": "a / b",
				"dataIds": ["a", "b"]
			}
		}`),
	}

	viewModels, transformErr := pipeline.Transform(records, map[string]float64{"a": 1, "b": 0})
	require.NoError(t, transformErr)
	require.Zero(t, viewModels[0].(*widget.ValueViewModel).Value)
}

func TestTransformStaticTextWidgetGetsNoValueState(t *testing.T) {
	pipeline := buildTestPipeline(t)

	viewModels, transformErr := pipeline.Transform([]model.Widget{textRecord("widget-1", "static")}, nil)
	require.NoError(t, transformErr)

	textViewModel, isText := viewModels[0].(*widget.TextViewModel)
	require.True(t, isText)
	require.Equal(t, "static", textViewModel.TextContent)
}
