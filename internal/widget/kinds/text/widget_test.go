package text_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/BoraResearchLab/dashboard_svc/internal/model"
	"github.com/BoraResearchLab/dashboard_svc/internal/widget"
	"github.com/BoraResearchLab/dashboard_svc/internal/widget/kinds/text"
)

const testDashboardID = "dashboard-1"

func TestParseFormAssemblesRecordWithDimensionsLiftedOut(t *testing.T) {
	descriptor := text.NewDescriptor()
	submission := widget.FormSubmission{
		"textContent": {"Pump station"},
		"fontSize":    {"18"},
		"fontWeight":  {"bold"},
		"width":       {"200"},
		"height":      {"80"},
	}

	result := descriptor.ParseForm(testDashboardID, submission)
	require.Empty(t, result.Errors)
	require.NotNil(t, result.Widget)
	require.Equal(t, testDashboardID, result.Widget.DashboardID)
	require.Equal(t, text.TypeKey, result.Widget.Type)
	require.Zero(t, result.Widget.PositionX)
	require.Zero(t, result.Widget.PositionY)
	require.NotNil(t, result.Widget.Width)
	require.Equal(t, 200, *result.Widget.Width)
	require.NotNil(t, result.Widget.Height)
	require.Equal(t, 80, *result.Widget.Height)
	require.JSONEq(t,
		`{"textContent": "Pump station", "fontSize": 18, "fontWeight": "bold", "backgroundColor": "transparent", "defaultTextColor": "black"}`,
		string(result.Widget.Properties),
	)
}

func TestParseFormMissingTextContentReturnsFieldError(t *testing.T) {
	descriptor := text.NewDescriptor()

	result := descriptor.ParseForm(testDashboardID, widget.FormSubmission{
		"fontSize": {"18"},
	})
	require.Nil(t, result.Widget)
	require.Contains(t, result.Errors, "textContent: Text content is required")
}

func TestParseFormInvalidFontSizeUsesDeclaredMessage(t *testing.T) {
	descriptor := text.NewDescriptor()

	result := descriptor.ParseForm(testDashboardID, widget.FormSubmission{
		"textContent": {"Pump"},
		"fontSize":    {"large"},
	})
	require.Nil(t, result.Widget)
	require.Contains(t, result.Errors, "fontSize: Font size must be a number")
}

func TestFromDBAppliesSchemaDefaults(t *testing.T) {
	descriptor := text.NewDescriptor()
	record := model.Widget{
		ID:          "widget-1",
		DashboardID: testDashboardID,
		Type:        text.TypeKey,
		PositionX:   0.25,
		PositionY:   0.75,
		Properties:  datatypes.JSON(`{"textContent": "Pump"}`),
	}

	viewModel, decodeErr := descriptor.FromDB(record)
	require.NoError(t, decodeErr)

	textViewModel, isText := viewModel.(*widget.TextViewModel)
	require.True(t, isText)
	require.Equal(t, "Pump", textViewModel.TextContent)
	require.Equal(t, 14.0, textViewModel.FontSize)
	require.Equal(t, "normal", textViewModel.FontWeight)
	require.Equal(t, "transparent", textViewModel.BackgroundColor)
	require.Equal(t, "black", textViewModel.DefaultTextColor)
	require.Equal(t, widget.DefaultWidgetWidth, textViewModel.Width)
	require.Equal(t, widget.DefaultWidgetHeight, textViewModel.Height)
	require.Equal(t, 0.25, textViewModel.Position.X)
}

func TestFromDBMissingRequiredFieldIsIntegrityFailure(t *testing.T) {
	descriptor := text.NewDescriptor()
	record := model.Widget{
		ID:         "widget-1",
		Type:       text.TypeKey,
		Properties: datatypes.JSON(`{}`),
	}

	_, decodeErr := descriptor.FromDB(record)
	require.ErrorIs(t, decodeErr, widget.ErrInvalidProperties)
	require.Contains(t, decodeErr.Error(), "widget-1")
}

func TestTextWidgetComponentRendersContentAndStyle(t *testing.T) {
	viewModel := &widget.TextViewModel{
		TextContent:      "Pump",
		FontSize:         18,
		FontWeight:       "bold",
		BackgroundColor:  "white",
		DefaultTextColor: "navy",
	}

	rendered, renderErr := text.TextWidgetComponent(viewModel)
	require.NoError(t, renderErr)
	require.Contains(t, string(rendered), ">Pump</div>")
	require.Contains(t, string(rendered), "font-size: 18px")
	require.Contains(t, string(rendered), "color: navy")
}

func TestTextWidgetFormNilViewModelRendersDefaults(t *testing.T) {
	rendered, renderErr := text.TextWidgetForm(nil)
	require.NoError(t, renderErr)
	require.Contains(t, string(rendered), `name="textContent" value=""`)
	require.Contains(t, string(rendered), `name="fontSize" value="14"`)
	require.Contains(t, string(rendered), `<option value="normal" selected>`)
}

func TestTextWidgetComponentRejectsForeignViewModel(t *testing.T) {
	_, renderErr := text.TextWidgetComponent(&widget.IconViewModel{})
	require.Error(t, renderErr)
}
