package value

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"

	"github.com/BoraResearchLab/dashboard_svc/internal/widget"
)

const (
	errorMessageWrongViewModel = "value: view-model is not a value widget"
	noDataPlaceholder          = "--"
)

type valueComponentData struct {
	Label           string
	DisplayValue    string
	Unit            string
	Color           string
	FontSize        float64
	FontWeight      string
	BackgroundColor string
}

var valueComponentTemplate = template.Must(template.New("value-component").Parse(
	`<div class="widget widget-value" style="background-color: {{.BackgroundColor}}; color: {{.Color}};{{if .FontSize}} font-size: {{.FontSize}}px;{{end}} font-weight: {{.FontWeight}};">{{if .Label}}<span class="widget-value-label">{{.Label}}</span> {{end}}<span class="widget-value-number">{{.DisplayValue}}</span>{{if .Unit}} <span class="widget-value-unit">{{.Unit}}</span>{{end}}</div>`,
))

var valueFormTemplate = template.Must(template.New("value-form").Parse(
	`<fieldset class="widget-form widget-form-value">
  <label>Label
    <input type="text" name="textContent" value="{{.TextContent}}">
  </label>
  <label>Data id
    <input type="text" name="dataId" value="{{.DataSource.DataID}}">
  </label>
  <label>Expression
    <input type="text" name="expression" value="{{.DataSource.Expression}}">
  </label>
  <input type="hidden" name="dataIds" value="{{.DataIDsJSON}}">
  <label>Unit
    <input type="text" name="unit" value="{{.Unit}}">
  </label>
  <label>Decimal places
    <input type="number" name="decimalPlaces" value="{{.DecimalPlaces}}" min="0" max="10">
  </label>
  <label>Scientific notation
    <input type="checkbox" name="exp" value="true"{{if .Exponential}} checked{{end}}>
  </label>
  <label>Font size
    <input type="number" name="fontSize" value="{{.FontSize}}" min="8" max="72">
  </label>
  <label>Font weight
    <select name="fontWeight">
      <option value="normal"{{if eq .FontWeight "normal"}} selected{{end}}>normal</option>
      <option value="bold"{{if eq .FontWeight "bold"}} selected{{end}}>bold</option>
      <option value="bolder"{{if eq .FontWeight "bolder"}} selected{{end}}>bolder</option>
      <option value="lighter"{{if eq .FontWeight "lighter"}} selected{{end}}>lighter</option>
    </select>
  </label>
  <label>Background color
    <input type="text" name="backgroundColor" value="{{.BackgroundColor}}">
  </label>
  <label>Text color
    <input type="text" name="defaultTextColor" value="{{.DefaultTextColor}}">
  </label>
  <input type="hidden" name="conditions" value="{{.ConditionsJSON}}">
</fieldset>`,
))

type valueFormData struct {
	*widget.ValueViewModel
	DataIDsJSON    string
	ConditionsJSON string
}

// TextColor selects the rendered text color: the first conditional rule whose
// predicate matches the resolved value wins, otherwise the default color.
func TextColor(viewModel *widget.ValueViewModel) string {
	if viewModel.HasData {
		if format, matched := widget.FirstMatchingFormat(viewModel.Value, viewModel.Conditions); matched {
			return format.Color
		}
	}
	color := viewModel.DefaultTextColor
	if color == "" {
		color = defaultTextColor
	}
	return color
}

// FormatValue renders the resolved value with the widget's decimal places and
// notation settings; an unresolved value renders as a placeholder.
func FormatValue(viewModel *widget.ValueViewModel) string {
	if !viewModel.HasData {
		return noDataPlaceholder
	}
	if viewModel.Exponential {
		return strconv.FormatFloat(viewModel.Value, 'e', viewModel.DecimalPlaces, 64)
	}
	return strconv.FormatFloat(viewModel.Value, 'f', viewModel.DecimalPlaces, 64)
}

// ValueWidgetComponent renders a value view-model to its visual fragment.
func ValueWidgetComponent(viewModel widget.ViewModel) (template.HTML, error) {
	valueViewModel, isValue := viewModel.(*widget.ValueViewModel)
	if !isValue {
		return "", fmt.Errorf("%s: %T", errorMessageWrongViewModel, viewModel)
	}

	componentData := valueComponentData{
		Label:           valueViewModel.TextContent,
		DisplayValue:    FormatValue(valueViewModel),
		Unit:            valueViewModel.Unit,
		Color:           TextColor(valueViewModel),
		FontSize:        valueViewModel.FontSize,
		FontWeight:      valueViewModel.FontWeight,
		BackgroundColor: valueViewModel.BackgroundColor,
	}

	var rendered bytes.Buffer
	if executeErr := valueComponentTemplate.Execute(&rendered, componentData); executeErr != nil {
		return "", executeErr
	}
	return template.HTML(rendered.String()), nil
}

// ValueWidgetForm renders the value widget form. A nil view-model renders the
// create form with schema defaults.
func ValueWidgetForm(viewModel widget.ViewModel) (template.HTML, error) {
	formViewModel := &widget.ValueViewModel{
		DecimalPlaces: int(defaultDecimalPlaces),
		FontWeight:    defaultFontWeight,
	}
	if viewModel != nil {
		existingViewModel, isValue := viewModel.(*widget.ValueViewModel)
		if !isValue {
			return "", fmt.Errorf("%s: %T", errorMessageWrongViewModel, viewModel)
		}
		formViewModel = existingViewModel
	}

	formData := valueFormData{
		ValueViewModel: formViewModel,
		DataIDsJSON:    encodeJSONList(formViewModel.DataSource.DataIDs),
		ConditionsJSON: encodeConditions(formViewModel.Conditions),
	}

	var rendered bytes.Buffer
	if executeErr := valueFormTemplate.Execute(&rendered, formData); executeErr != nil {
		return "", executeErr
	}
	return template.HTML(rendered.String()), nil
}
