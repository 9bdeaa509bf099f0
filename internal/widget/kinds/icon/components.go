package icon

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"

	"github.com/BoraResearchLab/dashboard_svc/internal/widget"
)

const errorMessageWrongViewModel = "icon: view-model is not an icon widget"

type iconComponentData struct {
	Icon    string
	Value   float64
	HasData bool
}

var iconComponentTemplate = template.Must(template.New("icon-component").Parse(
	`<div class="widget widget-icon"{{if .HasData}} title="{{.Value}}"{{end}}>{{if .Icon}}<i class="{{.Icon}}"></i>{{else}}<span class="widget-icon-empty"></span>{{end}}</div>`,
))

var iconFormTemplate = template.Must(template.New("icon-form").Parse(
	`<fieldset class="widget-form widget-form-icon">
  <label>Data source
    <select name="dataSourceType">
      <option value="database"{{if eq .DataSource.Type "database"}} selected{{end}}>database</option>
      <option value="calculation"{{if eq .DataSource.Type "calculation"}} selected{{end}}>calculation</option>
    </select>
  </label>
  <label>Data id
    <input type="text" name="dataId" value="{{.DataSource.DataID}}">
  </label>
  <label>Expression
    <input type="text" name="expression" value="{{.DataSource.Expression}}">
  </label>
  <input type="hidden" name="dataIds" value="{{.DataIDsJSON}}">
  <label>Default icon
    <input type="text" name="defaultIcon" value="{{.DefaultIcon}}">
  </label>
  <label>Width
    <input type="number" name="width" value="{{.Width}}" min="1">
  </label>
  <label>Height
    <input type="number" name="height" value="{{.Height}}" min="1">
  </label>
  <input type="hidden" name="conditions" value="{{.ConditionsJSON}}">
</fieldset>`,
))

type iconFormData struct {
	*widget.IconViewModel
	DataIDsJSON    string
	ConditionsJSON string
}

// DisplayIcon selects the rendered icon: the first conditional rule whose
// predicate matches the resolved value wins, otherwise the default icon.
func DisplayIcon(viewModel *widget.IconViewModel) string {
	if viewModel.HasData {
		if format, matched := widget.FirstMatchingFormat(viewModel.Value, viewModel.Conditions); matched {
			return format.Icon
		}
	}
	return viewModel.DefaultIcon
}

// IconWidgetComponent renders an icon view-model to its visual fragment.
func IconWidgetComponent(viewModel widget.ViewModel) (template.HTML, error) {
	iconViewModel, isIcon := viewModel.(*widget.IconViewModel)
	if !isIcon {
		return "", fmt.Errorf("%s: %T", errorMessageWrongViewModel, viewModel)
	}

	componentData := iconComponentData{
		Icon:    DisplayIcon(iconViewModel),
		Value:   iconViewModel.Value,
		HasData: iconViewModel.HasData,
	}

	var rendered bytes.Buffer
	if executeErr := iconComponentTemplate.Execute(&rendered, componentData); executeErr != nil {
		return "", executeErr
	}
	return template.HTML(rendered.String()), nil
}

// IconWidgetForm renders the icon widget form. A nil view-model renders the
// create form.
func IconWidgetForm(viewModel widget.ViewModel) (template.HTML, error) {
	formViewModel := &widget.IconViewModel{
		DataSource: widget.DataSource{Type: widget.DataSourceTypeDatabase},
		Conditions: []widget.ConditionalRule[widget.IconFormat]{},
	}
	if viewModel != nil {
		existingViewModel, isIcon := viewModel.(*widget.IconViewModel)
		if !isIcon {
			return "", fmt.Errorf("%s: %T", errorMessageWrongViewModel, viewModel)
		}
		formViewModel = existingViewModel
	}

	dataIDs := formViewModel.DataSource.DataIDs
	if dataIDs == nil {
		dataIDs = []string{}
	}
	conditions := formViewModel.Conditions
	if conditions == nil {
		conditions = []widget.ConditionalRule[widget.IconFormat]{}
	}
	formData := iconFormData{
		IconViewModel:  formViewModel,
		DataIDsJSON:    encodeJSON(dataIDs),
		ConditionsJSON: encodeJSON(conditions),
	}

	var rendered bytes.Buffer
	if executeErr := iconFormTemplate.Execute(&rendered, formData); executeErr != nil {
		return "", executeErr
	}
	return template.HTML(rendered.String()), nil
}

func encodeJSON(value any) string {
	encoded, encodeErr := json.Marshal(value)
	if encodeErr != nil {
		return "[]"
	}
	return string(encoded)
}
