package storage

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/BoraResearchLab/dashboard_svc/internal/model"
)

const (
	errorMessageNilDatabase            = "storage: nil database"
	errorMessageFindWidgets            = "storage: find widgets by dashboard"
	errorMessageFindWidget             = "storage: find widget"
	errorMessageCreateWidget           = "storage: create widget"
	errorMessageUpdateWidgetProperties = "storage: update widget properties"
	errorMessageUpdateWidgetPosition   = "storage: update widget position"
	errorMessageDeleteWidget           = "storage: delete widget"
	errorMessageListDashboards         = "storage: list dashboards"
	errorMessageFindDashboard          = "storage: find dashboard"
	errorMessageCreateDashboard        = "storage: create dashboard"
	errorMessageRenameDashboard        = "storage: rename dashboard"
	errorMessageDeleteDashboard        = "storage: delete dashboard"

	columnNamePositionX  = "position_x"
	columnNamePositionY  = "position_y"
	columnNameWidth      = "width"
	columnNameHeight     = "height"
	columnNameName       = "name"
	columnNameProperties = "properties"
)

// ErrRecordNotFound indicates the requested record does not exist.
var ErrRecordNotFound = gorm.ErrRecordNotFound

// Repository provides the persistence operations consumed by the widget core.
type Repository struct {
	database *gorm.DB
}

// NewRepository creates a Repository backed by the provided database handle.
func NewRepository(database *gorm.DB) (*Repository, error) {
	if database == nil {
		return nil, errors.New(errorMessageNilDatabase)
	}
	return &Repository{database: database}, nil
}

// FindWidgetsByDashboard returns every widget owned by the dashboard in creation order.
func (repository *Repository) FindWidgetsByDashboard(dashboardID string) ([]model.Widget, error) {
	var widgets []model.Widget
	queryErr := repository.database.
		Where(&model.Widget{DashboardID: dashboardID}).
		Order("created_at ASC").
		Find(&widgets).Error
	if queryErr != nil {
		return nil, fmt.Errorf("%s: %w", errorMessageFindWidgets, queryErr)
	}
	return widgets, nil
}

// FindWidgetByID returns a single widget record.
func (repository *Repository) FindWidgetByID(widgetID string) (model.Widget, error) {
	var widget model.Widget
	queryErr := repository.database.First(&widget, "id = ?", widgetID).Error
	if queryErr != nil {
		return model.Widget{}, fmt.Errorf("%s: %w", errorMessageFindWidget, queryErr)
	}
	return widget, nil
}

// CreateWidget persists a new widget record.
func (repository *Repository) CreateWidget(widget model.Widget) (model.Widget, error) {
	if createErr := repository.database.Create(&widget).Error; createErr != nil {
		return model.Widget{}, fmt.Errorf("%s: %w", errorMessageCreateWidget, createErr)
	}
	return widget, nil
}

// UpdateWidgetProperties replaces the widget's properties blob and pixel dimensions.
func (repository *Repository) UpdateWidgetProperties(widgetID string, properties []byte, width *int, height *int) error {
	updateErr := repository.database.
		Model(&model.Widget{}).
		Where("id = ?", widgetID).
		Updates(map[string]any{
			columnNameProperties: properties,
			columnNameWidth:      width,
			columnNameHeight:     height,
		}).Error
	if updateErr != nil {
		return fmt.Errorf("%s: %w", errorMessageUpdateWidgetProperties, updateErr)
	}
	return nil
}

// UpdateWidgetPosition stores the widget's fractional canvas coordinates.
// Re-saving an unchanged position is a no-op in effect, which keeps batched
// position autosaves safe to retry.
func (repository *Repository) UpdateWidgetPosition(widgetID string, positionX float64, positionY float64) error {
	if positionErr := model.ValidatePosition(positionX, positionY); positionErr != nil {
		return positionErr
	}
	updateErr := repository.database.
		Model(&model.Widget{}).
		Where("id = ?", widgetID).
		Updates(map[string]any{
			columnNamePositionX: positionX,
			columnNamePositionY: positionY,
		}).Error
	if updateErr != nil {
		return fmt.Errorf("%s: %w", errorMessageUpdateWidgetPosition, updateErr)
	}
	return nil
}

// DeleteWidget removes a widget record.
func (repository *Repository) DeleteWidget(widgetID string) error {
	if deleteErr := repository.database.Delete(&model.Widget{}, "id = ?", widgetID).Error; deleteErr != nil {
		return fmt.Errorf("%s: %w", errorMessageDeleteWidget, deleteErr)
	}
	return nil
}

// ListDashboards returns every dashboard ordered by creation time.
func (repository *Repository) ListDashboards() ([]model.Dashboard, error) {
	var dashboards []model.Dashboard
	queryErr := repository.database.Order("created_at ASC").Find(&dashboards).Error
	if queryErr != nil {
		return nil, fmt.Errorf("%s: %w", errorMessageListDashboards, queryErr)
	}
	return dashboards, nil
}

// FindDashboardByID returns a single dashboard record.
func (repository *Repository) FindDashboardByID(dashboardID string) (model.Dashboard, error) {
	var dashboard model.Dashboard
	queryErr := repository.database.First(&dashboard, "id = ?", dashboardID).Error
	if queryErr != nil {
		return model.Dashboard{}, fmt.Errorf("%s: %w", errorMessageFindDashboard, queryErr)
	}
	return dashboard, nil
}

// FindDashboardByName returns the dashboard with the given unique name.
func (repository *Repository) FindDashboardByName(name string) (model.Dashboard, error) {
	var dashboard model.Dashboard
	queryErr := repository.database.First(&dashboard, "name = ?", name).Error
	if queryErr != nil {
		return model.Dashboard{}, fmt.Errorf("%s: %w", errorMessageFindDashboard, queryErr)
	}
	return dashboard, nil
}

// CreateDashboard persists a new dashboard record.
func (repository *Repository) CreateDashboard(dashboard model.Dashboard) (model.Dashboard, error) {
	if createErr := repository.database.Create(&dashboard).Error; createErr != nil {
		return model.Dashboard{}, fmt.Errorf("%s: %w", errorMessageCreateDashboard, createErr)
	}
	return dashboard, nil
}

// RenameDashboard updates the dashboard's unique name.
func (repository *Repository) RenameDashboard(dashboardID string, name string) error {
	updateErr := repository.database.
		Model(&model.Dashboard{}).
		Where("id = ?", dashboardID).
		Update(columnNameName, name).Error
	if updateErr != nil {
		return fmt.Errorf("%s: %w", errorMessageRenameDashboard, updateErr)
	}
	return nil
}

// DeleteDashboard removes a dashboard together with its owned widgets.
func (repository *Repository) DeleteDashboard(dashboardID string) error {
	transactionErr := repository.database.Transaction(func(transaction *gorm.DB) error {
		if deleteErr := transaction.Delete(&model.Widget{}, "dashboard_id = ?", dashboardID).Error; deleteErr != nil {
			return deleteErr
		}
		return transaction.Delete(&model.Dashboard{}, "id = ?", dashboardID).Error
	})
	if transactionErr != nil {
		return fmt.Errorf("%s: %w", errorMessageDeleteDashboard, transactionErr)
	}
	return nil
}
