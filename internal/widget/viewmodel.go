package widget

import "github.com/BoraResearchLab/dashboard_svc/internal/model"

const (
	// DefaultWidgetWidth is the pixel width applied when a record stores no width.
	DefaultWidgetWidth = 100
	// DefaultWidgetHeight is the pixel height applied when a record stores no height.
	DefaultWidgetHeight = 50
)

const (
	// DataSourceTypeDatabase marks a direct lookup of a single data point.
	DataSourceTypeDatabase = "database"
	// DataSourceTypeCalculation marks an expression evaluated over multiple data points.
	DataSourceTypeCalculation = "calculation"
)

// Position is a fractional canvas coordinate pair in [0,1].
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// BaseViewModel carries the fields every widget view-model shares.
type BaseViewModel struct {
	ID          string   `json:"id"`
	DashboardID string   `json:"dashboardId"`
	Type        string   `json:"type"`
	Position    Position `json:"position"`
	Width       int      `json:"width"`
	Height      int      `json:"height"`
}

// DataSource declares where a widget's numeric value comes from.
type DataSource struct {
	Type       string   `json:"type"`
	DataID     string   `json:"dataId,omitempty"`
	Expression string   `json:"expression,omitempty"`
	DataIDs    []string `json:"dataIds,omitempty"`
}

// ValueState is the transiently resolved value of a data-driven widget. It is
// recomputed on every load and never persisted. HasData distinguishes a real
// zero from an unresolved data id.
type ValueState struct {
	Value   float64 `json:"value"`
	HasData bool    `json:"hasData"`
}

// ViewModel is the frontend-ready representation of a widget, a tagged union
// over the registered kinds keyed by the base Type field.
type ViewModel interface {
	Base() BaseViewModel
}

// DataDriven is implemented by view-models whose value is resolved from a data
// source by the transform pipeline.
type DataDriven interface {
	ViewModel
	Source() DataSource
	SetValueState(state ValueState)
}

// BaseFromRecord extracts the common base fields of a persisted record,
// substituting default pixel dimensions where the record stores none.
func BaseFromRecord(record model.Widget) BaseViewModel {
	width := DefaultWidgetWidth
	if record.Width != nil {
		width = *record.Width
	}
	height := DefaultWidgetHeight
	if record.Height != nil {
		height = *record.Height
	}
	return BaseViewModel{
		ID:          record.ID,
		DashboardID: record.DashboardID,
		Type:        record.Type,
		Position:    Position{X: record.PositionX, Y: record.PositionY},
		Width:       width,
		Height:      height,
	}
}

// TextViewModel is the view-model of a static text widget.
type TextViewModel struct {
	BaseViewModel
	TextContent      string  `json:"textContent"`
	FontSize         float64 `json:"fontSize"`
	FontWeight       string  `json:"fontWeight"`
	BackgroundColor  string  `json:"backgroundColor"`
	DefaultTextColor string  `json:"defaultTextColor"`
}

// Base returns the common view-model fields.
func (viewModel *TextViewModel) Base() BaseViewModel {
	return viewModel.BaseViewModel
}

// ValueViewModel is the view-model of a widget displaying a resolved value as text.
type ValueViewModel struct {
	BaseViewModel
	DataSource DataSource `json:"dataSource"`
	ValueState
	TextContent      string                       `json:"textContent,omitempty"`
	Unit             string                       `json:"unit,omitempty"`
	DecimalPlaces    int                          `json:"decimalPlaces"`
	Exponential      bool                         `json:"exp"`
	FontSize         float64                      `json:"fontSize,omitempty"`
	FontWeight       string                       `json:"fontWeight,omitempty"`
	BackgroundColor  string                       `json:"backgroundColor,omitempty"`
	DefaultTextColor string                       `json:"defaultTextColor,omitempty"`
	Conditions       []ConditionalRule[ColorFormat] `json:"conditions,omitempty"`
}

// Base returns the common view-model fields.
func (viewModel *ValueViewModel) Base() BaseViewModel {
	return viewModel.BaseViewModel
}

// Source returns the widget's declared data source.
func (viewModel *ValueViewModel) Source() DataSource {
	return viewModel.DataSource
}

// SetValueState attaches the resolved value.
func (viewModel *ValueViewModel) SetValueState(state ValueState) {
	viewModel.ValueState = state
}

// IconViewModel is the view-model of a widget displaying a resolved value as an icon.
type IconViewModel struct {
	BaseViewModel
	DataSource DataSource `json:"dataSource"`
	ValueState
	DefaultIcon string                        `json:"defaultIcon"`
	Conditions  []ConditionalRule[IconFormat] `json:"conditions"`
}

// Base returns the common view-model fields.
func (viewModel *IconViewModel) Base() BaseViewModel {
	return viewModel.BaseViewModel
}

// Source returns the widget's declared data source.
func (viewModel *IconViewModel) Source() DataSource {
	return viewModel.DataSource
}

// SetValueState attaches the resolved value.
func (viewModel *IconViewModel) SetValueState(state ValueState) {
	viewModel.ValueState = state
}
