package text

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/BoraResearchLab/dashboard_svc/internal/widget"
)

const errorMessageWrongViewModel = "text: view-model is not a text widget"

var textComponentTemplate = template.Must(template.New("text-component").Parse(
	`<div class="widget widget-text" style="background-color: {{.BackgroundColor}}; color: {{.DefaultTextColor}}; font-size: {{.FontSize}}px; font-weight: {{.FontWeight}};">{{.TextContent}}</div>`,
))

var textFormTemplate = template.Must(template.New("text-form").Parse(
	`<fieldset class="widget-form widget-form-text">
  <label>Text content
    <input type="text" name="textContent" value="{{.TextContent}}" required>
  </label>
  <label>Font size
    <input type="number" name="fontSize" value="{{.FontSize}}" min="1">
  </label>
  <label>Font weight
    <select name="fontWeight">
      <option value="normal"{{if eq .FontWeight "normal"}} selected{{end}}>normal</option>
      <option value="bold"{{if eq .FontWeight "bold"}} selected{{end}}>bold</option>
    </select>
  </label>
  <label>Background color
    <input type="text" name="backgroundColor" value="{{.BackgroundColor}}">
  </label>
  <label>Text color
    <input type="text" name="defaultTextColor" value="{{.DefaultTextColor}}">
  </label>
  <label>Width
    <input type="number" name="width" value="{{.Width}}" min="1">
  </label>
  <label>Height
    <input type="number" name="height" value="{{.Height}}" min="1">
  </label>
</fieldset>`,
))

// TextWidgetComponent renders a text view-model to its visual fragment.
func TextWidgetComponent(viewModel widget.ViewModel) (template.HTML, error) {
	textViewModel, isText := viewModel.(*widget.TextViewModel)
	if !isText {
		return "", fmt.Errorf("%s: %T", errorMessageWrongViewModel, viewModel)
	}

	var rendered bytes.Buffer
	if executeErr := textComponentTemplate.Execute(&rendered, textViewModel); executeErr != nil {
		return "", executeErr
	}
	return template.HTML(rendered.String()), nil
}

// TextWidgetForm renders the text widget form. A nil view-model renders the
// create form with schema defaults.
func TextWidgetForm(viewModel widget.ViewModel) (template.HTML, error) {
	formViewModel := &widget.TextViewModel{
		BaseViewModel: widget.BaseViewModel{
			Width:  widget.DefaultWidgetWidth,
			Height: widget.DefaultWidgetHeight,
		},
		FontSize:         defaultFontSize,
		FontWeight:       defaultFontWeight,
		BackgroundColor:  defaultBackgroundColor,
		DefaultTextColor: defaultTextColor,
	}
	if viewModel != nil {
		existingViewModel, isText := viewModel.(*widget.TextViewModel)
		if !isText {
			return "", fmt.Errorf("%s: %T", errorMessageWrongViewModel, viewModel)
		}
		formViewModel = existingViewModel
	}

	var rendered bytes.Buffer
	if executeErr := textFormTemplate.Execute(&rendered, formViewModel); executeErr != nil {
		return "", executeErr
	}
	return template.HTML(rendered.String()), nil
}
