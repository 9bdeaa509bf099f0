package icon_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/BoraResearchLab/dashboard_svc/internal/model"
	"github.com/BoraResearchLab/dashboard_svc/internal/widget"
	"github.com/BoraResearchLab/dashboard_svc/internal/widget/kinds/icon"
)

const testDashboardID = "dashboard-1"

func TestParseFormBuildsDatabaseDataSource(t *testing.T) {
	descriptor := icon.NewDescriptor()
	submission := widget.FormSubmission{
		"dataSourceType": {"database"},
		"dataId":         {"valve-1"},
		"defaultIcon":    {"mdi-valve"},
		"conditions":     {`[{"condition": "equals", "value": 1, "format": {"icon": "mdi-valve-open"}}]`},
		"width":          {"60"},
	}

	result := descriptor.ParseForm(testDashboardID, submission)
	require.Empty(t, result.Errors)
	require.NotNil(t, result.Widget)
	require.Equal(t, icon.TypeKey, result.Widget.Type)
	require.NotNil(t, result.Widget.Width)
	require.Equal(t, 60, *result.Widget.Width)
	require.Nil(t, result.Widget.Height)
	require.JSONEq(t,
		`{
			"dataSource": {"type": "database", "dataId": "valve-1"},
			"defaultIcon": "mdi-valve",
			"conditions": [{"condition": "equals", "value": 1, "format": {"icon": "mdi-valve-open"}}]
		}`,
		string(result.Widget.Properties),
	)
}

func TestParseFormBuildsCalculationDataSource(t *testing.T) {
	descriptor := icon.NewDescriptor()
	submission := widget.FormSubmission{
		"dataSourceType": {"calculation"},
		"expression":     {"a + b"},
		"dataIds":        {`["a", "b"]`},
		"defaultIcon":    {"mdi-sigma"},
	}

	result := descriptor.ParseForm(testDashboardID, submission)
	require.Empty(t, result.Errors)
	require.JSONEq(t,
		`{
			"dataSource": {"type": "calculation", "expression": "a + b", "dataIds": ["a", "b"]},
			"defaultIcon": "mdi-sigma",
			"conditions": []
		}`,
		string(result.Widget.Properties),
	)
}

func TestParseFormMalformedConditionsFallBackToEmptyList(t *testing.T) {
	descriptor := icon.NewDescriptor()
	submission := widget.FormSubmission{
		"dataSourceType": {"database"},
		"dataId":         {"valve-1"},
		"conditions":     {"[broken"},
	}

	result := descriptor.ParseForm(testDashboardID, submission)
	require.Empty(t, result.Errors)
	require.Contains(t, string(result.Widget.Properties), `"conditions":[]`)
}

func TestFromDBDefaultsConditionsToEmptyList(t *testing.T) {
	descriptor := icon.NewDescriptor()
	record := model.Widget{
		ID:         "widget-1",
		Type:       icon.TypeKey,
		Properties: datatypes.JSON(`{"dataSource": {"type": "database", "dataId": "valve-1"}, "defaultIcon": "mdi-valve"}`),
	}

	viewModel, decodeErr := descriptor.FromDB(record)
	require.NoError(t, decodeErr)

	iconViewModel, isIcon := viewModel.(*widget.IconViewModel)
	require.True(t, isIcon)
	require.Equal(t, "mdi-valve", iconViewModel.DefaultIcon)
	require.NotNil(t, iconViewModel.Conditions)
	require.Empty(t, iconViewModel.Conditions)
}

func TestDisplayIconSelectsFirstMatchingRule(t *testing.T) {
	viewModel := &widget.IconViewModel{
		DefaultIcon: "mdi-help",
		ValueState:  widget.ValueState{Value: 1, HasData: true},
		Conditions: []widget.ConditionalRule[widget.IconFormat]{
			{Condition: widget.ConditionEquals, Value: widget.ScalarRuleValue(1), Format: widget.IconFormat{Icon: "mdi-valve-open"}},
			{Condition: widget.ConditionEquals, Value: widget.ScalarRuleValue(0), Format: widget.IconFormat{Icon: "mdi-valve-closed"}},
		},
	}
	require.Equal(t, "mdi-valve-open", icon.DisplayIcon(viewModel))

	viewModel.Value = 0
	require.Equal(t, "mdi-valve-closed", icon.DisplayIcon(viewModel))

	viewModel.Value = 2
	require.Equal(t, "mdi-help", icon.DisplayIcon(viewModel))

	viewModel.HasData = false
	require.Equal(t, "mdi-help", icon.DisplayIcon(viewModel))
}

func TestIconWidgetComponentRendersIconAndTitle(t *testing.T) {
	viewModel := &widget.IconViewModel{
		DefaultIcon: "mdi-valve",
		ValueState:  widget.ValueState{Value: 3, HasData: true},
		Conditions:  []widget.ConditionalRule[widget.IconFormat]{},
	}

	rendered, renderErr := icon.IconWidgetComponent(viewModel)
	require.NoError(t, renderErr)
	require.Contains(t, string(rendered), `<i class="mdi-valve"></i>`)
	require.Contains(t, string(rendered), `title="3"`)
}

func TestIconWidgetFormNilViewModelRendersCreateForm(t *testing.T) {
	rendered, renderErr := icon.IconWidgetForm(nil)
	require.NoError(t, renderErr)
	require.Contains(t, string(rendered), `<option value="database" selected>`)
	require.Contains(t, string(rendered), `name="conditions" value="[]"`)
}
