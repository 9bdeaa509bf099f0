// Package httpapi exposes the dashboard and widget HTTP surface: JSON APIs
// for dashboards, widgets and icons plus the server rendered dashboard pages.
package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BoraResearchLab/dashboard_svc/internal/model"
	"github.com/BoraResearchLab/dashboard_svc/internal/storage"
)

const (
	jsonKeyError      = "error"
	jsonKeyErrors     = "errors"
	jsonKeyDashboards = "dashboards"

	errorValueInvalidJSON        = "invalid_json"
	errorValueInvalidName        = "invalid_dashboard_name"
	errorValueMissingSchematic   = "missing_schematic_image"
	errorValueDashboardExists    = "dashboard_exists"
	errorValueUnknownDashboard   = "unknown_dashboard"
	errorValueQueryFailed        = "query_failed"
	errorValueSaveFailed         = "save_failed"
	errorValueDeleteFailed       = "delete_failed"
	errorValueUploadFailed       = "upload_failed"
	errorValueTransformFailed    = "widget_transform_failed"
	errorValueUnknownWidget      = "unknown_widget"
	errorValueUnknownWidgetType  = "unknown_widget_type"
	errorValueInvalidPosition    = "invalid_position"
	errorValueIconListingFailed  = "icon_listing_failed"
	errorValueFormRenderFailed   = "form_render_failed"
	errorValuePageRenderFailed   = "page_render_failed"
	errorValueSchematicTooLarge  = "schematic_image_too_large"
	errorValueSchematicBadFormat = "unsupported_schematic_image_type"

	formFieldDashboardName      = "new-dashboard-name"
	formFieldDashboardSchematic = "new-dashboard-schematic"

	paramNameDashboardID = "dashboardId"
	paramNameWidgetID    = "widgetId"
	paramNameWidgetType  = "widgetType"
)

// DashboardHandlers serves the dashboard collection API.
type DashboardHandlers struct {
	repository *storage.Repository
	uploads    *UploadStore
	logger     *zap.Logger
}

// NewDashboardHandlers wires the dashboard API against its repository and the
// schematic upload store.
func NewDashboardHandlers(repository *storage.Repository, uploads *UploadStore, logger *zap.Logger) *DashboardHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandlers{repository: repository, uploads: uploads, logger: logger}
}

type renameDashboardRequest struct {
	Name string `json:"name"`
}

type dashboardResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	SchematicImagePath string `json:"schematicImagePath"`
	CreatedAt          int64  `json:"createdAt"`
	UpdatedAt          int64  `json:"updatedAt"`
}

func dashboardToResponse(record model.Dashboard) dashboardResponse {
	return dashboardResponse{
		ID:                 record.ID,
		Name:               record.Name,
		SchematicImagePath: record.SchematicImagePath,
		CreatedAt:          record.CreatedAt.Unix(),
		UpdatedAt:          record.UpdatedAt.Unix(),
	}
}

// ListDashboards returns every dashboard in creation order.
func (handlers *DashboardHandlers) ListDashboards(context *gin.Context) {
	records, listErr := handlers.repository.ListDashboards()
	if listErr != nil {
		handlers.logger.Error("list_dashboards", zap.Error(listErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}

	responses := make([]dashboardResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, dashboardToResponse(record))
	}
	context.JSON(http.StatusOK, gin.H{jsonKeyDashboards: responses})
}

// CreateDashboard accepts a multipart form carrying the dashboard name and its
// schematic image. The image is written to disk first and removed again when
// the database insert fails, so a rejected dashboard leaves no orphan file.
func (handlers *DashboardHandlers) CreateDashboard(context *gin.Context) {
	dashboardName := strings.TrimSpace(context.PostForm(formFieldDashboardName))
	if !model.ValidDashboardName(dashboardName) {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidName})
		return
	}
	if handlers.dashboardNameTaken(dashboardName) {
		context.JSON(http.StatusConflict, gin.H{jsonKeyError: errorValueDashboardExists})
		return
	}

	fileHeader, fileErr := context.FormFile(formFieldDashboardSchematic)
	if fileErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueMissingSchematic})
		return
	}

	imagePath, saveErr := handlers.uploads.SaveSchematic(fileHeader)
	if saveErr != nil {
		switch {
		case errors.Is(saveErr, ErrUnsupportedImageType):
			context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueSchematicBadFormat})
		case errors.Is(saveErr, ErrImageTooLarge):
			context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueSchematicTooLarge})
		default:
			handlers.logger.Error("save_schematic", zap.Error(saveErr))
			context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueUploadFailed})
		}
		return
	}

	record, buildErr := model.NewDashboard(model.DashboardInput{
		ID:                 storage.NewID(),
		Name:               dashboardName,
		SchematicImagePath: imagePath,
	})
	if buildErr != nil {
		handlers.removeSchematic(imagePath)
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidName})
		return
	}

	created, createErr := handlers.repository.CreateDashboard(record)
	if createErr != nil {
		handlers.removeSchematic(imagePath)
		handlers.logger.Error("create_dashboard", zap.Error(createErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}

	context.JSON(http.StatusCreated, dashboardToResponse(created))
}

// RenameDashboard changes a dashboard's display name.
func (handlers *DashboardHandlers) RenameDashboard(context *gin.Context) {
	dashboardID := context.Param(paramNameDashboardID)

	var payload renameDashboardRequest
	if bindErr := context.BindJSON(&payload); bindErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}
	trimmedName := strings.TrimSpace(payload.Name)
	if !model.ValidDashboardName(trimmedName) {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidName})
		return
	}

	record, findErr := handlers.repository.FindDashboardByID(dashboardID)
	if findErr != nil {
		if errors.Is(findErr, storage.ErrRecordNotFound) {
			context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownDashboard})
			return
		}
		handlers.logger.Error("load_dashboard", zap.Error(findErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}

	if record.Name != trimmedName && handlers.dashboardNameTaken(trimmedName) {
		context.JSON(http.StatusConflict, gin.H{jsonKeyError: errorValueDashboardExists})
		return
	}

	if renameErr := handlers.repository.RenameDashboard(dashboardID, trimmedName); renameErr != nil {
		handlers.logger.Error("rename_dashboard", zap.Error(renameErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}

	record.Name = trimmedName
	context.JSON(http.StatusOK, dashboardToResponse(record))
}

// DeleteDashboard removes a dashboard together with its widgets, then makes a
// best effort attempt to delete the schematic file. The file removal is not
// allowed to fail the request; the upload sweeper reclaims leftovers later.
func (handlers *DashboardHandlers) DeleteDashboard(context *gin.Context) {
	dashboardID := context.Param(paramNameDashboardID)

	record, findErr := handlers.repository.FindDashboardByID(dashboardID)
	if findErr != nil {
		if errors.Is(findErr, storage.ErrRecordNotFound) {
			context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownDashboard})
			return
		}
		handlers.logger.Error("load_dashboard", zap.Error(findErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}

	if deleteErr := handlers.repository.DeleteDashboard(dashboardID); deleteErr != nil {
		handlers.logger.Error("delete_dashboard", zap.Error(deleteErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueDeleteFailed})
		return
	}

	handlers.removeSchematic(record.SchematicImagePath)
	context.Status(http.StatusNoContent)
}

func (handlers *DashboardHandlers) dashboardNameTaken(name string) bool {
	_, findErr := handlers.repository.FindDashboardByName(name)
	return findErr == nil
}

func (handlers *DashboardHandlers) removeSchematic(imagePath string) {
	if removeErr := handlers.uploads.Remove(imagePath); removeErr != nil {
		handlers.logger.Warn("remove_schematic", zap.String("path", imagePath), zap.Error(removeErr))
	}
}
