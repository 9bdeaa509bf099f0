package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BoraResearchLab/dashboard_svc/internal/data"
	"github.com/BoraResearchLab/dashboard_svc/internal/storage"
	"github.com/BoraResearchLab/dashboard_svc/internal/transform"
	"github.com/BoraResearchLab/dashboard_svc/internal/widget"
)

const (
	jsonKeyWidgets  = "widgets"
	jsonKeyUpdated  = "updated"
	jsonKeyFailed   = "failed"
	jsonKeyWidgetID = "id"

	formFieldWidgetType = "widgetType"
)

// WidgetHandlers serves the widget API: dashboard widget listings resolved to
// view-models, form driven create and update, position autosaves and deletes.
type WidgetHandlers struct {
	repository *storage.Repository
	registry   *widget.Registry
	pipeline   *transform.Pipeline
	resolver   data.Resolver
	logger     *zap.Logger
}

// NewWidgetHandlers wires the widget API against its collaborators.
func NewWidgetHandlers(repository *storage.Repository, registry *widget.Registry, pipeline *transform.Pipeline, resolver data.Resolver, logger *zap.Logger) *WidgetHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WidgetHandlers{
		repository: repository,
		registry:   registry,
		pipeline:   pipeline,
		resolver:   resolver,
		logger:     logger,
	}
}

type widgetPositionUpdate struct {
	ID        string  `json:"id"`
	PositionX float64 `json:"x"`
	PositionY float64 `json:"y"`
}

type failedPositionUpdate struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// ListWidgets loads a dashboard's widgets, resolves their data values and
// returns the transformed view-models. A transform failure is a data
// integrity problem and fails the whole load.
func (handlers *WidgetHandlers) ListWidgets(context *gin.Context) {
	dashboardID := context.Param(paramNameDashboardID)

	if _, findErr := handlers.repository.FindDashboardByID(dashboardID); findErr != nil {
		if errors.Is(findErr, storage.ErrRecordNotFound) {
			context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownDashboard})
			return
		}
		handlers.logger.Error("load_dashboard", zap.Error(findErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}

	records, listErr := handlers.repository.FindWidgetsByDashboard(dashboardID)
	if listErr != nil {
		handlers.logger.Error("list_widgets", zap.Error(listErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}

	resolvedData, resolveErr := handlers.resolver.ResolveValues(context.Request.Context(), records)
	if resolveErr != nil {
		handlers.logger.Error("resolve_widget_data", zap.Error(resolveErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}

	viewModels, transformErr := handlers.pipeline.Transform(records, resolvedData)
	if transformErr != nil {
		handlers.logger.Error("transform_widgets", zap.Error(transformErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueTransformFailed})
		return
	}

	context.JSON(http.StatusOK, gin.H{jsonKeyWidgets: viewModels})
}

// CreateWidget parses a kind's form submission into a new widget record. Field
// validation failures come back as a 400 carrying every message; nothing is
// persisted in that case.
func (handlers *WidgetHandlers) CreateWidget(context *gin.Context) {
	dashboardID := context.Param(paramNameDashboardID)

	if _, findErr := handlers.repository.FindDashboardByID(dashboardID); findErr != nil {
		if errors.Is(findErr, storage.ErrRecordNotFound) {
			context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownDashboard})
			return
		}
		handlers.logger.Error("load_dashboard", zap.Error(findErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}

	submission, descriptor, parseOK := handlers.formDescriptor(context)
	if !parseOK {
		return
	}

	result := descriptor.ParseForm(dashboardID, submission)
	if len(result.Errors) > 0 {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyErrors: result.Errors})
		return
	}

	record := *result.Widget
	record.ID = storage.NewID()
	created, createErr := handlers.repository.CreateWidget(record)
	if createErr != nil {
		handlers.logger.Error("create_widget", zap.Error(createErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}

	context.JSON(http.StatusCreated, created)
}

// UpdateWidget re-parses the widget's form submission and replaces the stored
// properties and pixel dimensions. Position is untouched; it is owned by the
// batched position endpoint.
func (handlers *WidgetHandlers) UpdateWidget(context *gin.Context) {
	widgetID := context.Param(paramNameWidgetID)

	record, findErr := handlers.repository.FindWidgetByID(widgetID)
	if findErr != nil {
		if errors.Is(findErr, storage.ErrRecordNotFound) {
			context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownWidget})
			return
		}
		handlers.logger.Error("load_widget", zap.Error(findErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}

	descriptor, descriptorErr := handlers.registry.Descriptor(record.Type)
	if descriptorErr != nil {
		handlers.logger.Error("lookup_widget_type", zap.Error(descriptorErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueUnknownWidgetType})
		return
	}

	if parseErr := context.Request.ParseMultipartForm(maxSchematicImageBytes); parseErr != nil {
		if parseFormErr := context.Request.ParseForm(); parseFormErr != nil {
			context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
			return
		}
	}
	submission := widget.FormSubmission(context.Request.PostForm)

	result := descriptor.ParseForm(record.DashboardID, submission)
	if len(result.Errors) > 0 {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyErrors: result.Errors})
		return
	}

	updateErr := handlers.repository.UpdateWidgetProperties(
		widgetID,
		result.Widget.Properties,
		result.Widget.Width,
		result.Widget.Height,
	)
	if updateErr != nil {
		handlers.logger.Error("update_widget", zap.Error(updateErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueSaveFailed})
		return
	}

	updated, reloadErr := handlers.repository.FindWidgetByID(widgetID)
	if reloadErr != nil {
		handlers.logger.Error("reload_widget", zap.Error(reloadErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}
	context.JSON(http.StatusOK, updated)
}

// UpdateWidgetPositions applies a batch of canvas position autosaves. Each
// widget is written independently; one rejected position never blocks the
// rest of the batch, and the response names the failures.
func (handlers *WidgetHandlers) UpdateWidgetPositions(context *gin.Context) {
	var updates []widgetPositionUpdate
	if bindErr := context.BindJSON(&updates); bindErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
		return
	}

	updated := make([]string, 0, len(updates))
	failed := make([]failedPositionUpdate, 0)
	for _, update := range updates {
		positionErr := handlers.repository.UpdateWidgetPosition(update.ID, update.PositionX, update.PositionY)
		if positionErr != nil {
			handlers.logger.Warn("update_widget_position",
				zap.String("widget_id", update.ID),
				zap.Error(positionErr),
			)
			failed = append(failed, failedPositionUpdate{ID: update.ID, Error: errorValueInvalidPosition})
			continue
		}
		updated = append(updated, update.ID)
	}

	status := http.StatusOK
	if len(failed) > 0 && len(updated) == 0 {
		status = http.StatusBadRequest
	}
	context.JSON(status, gin.H{jsonKeyUpdated: updated, jsonKeyFailed: failed})
}

// DeleteWidget removes a single widget.
func (handlers *WidgetHandlers) DeleteWidget(context *gin.Context) {
	widgetID := context.Param(paramNameWidgetID)

	if _, findErr := handlers.repository.FindWidgetByID(widgetID); findErr != nil {
		if errors.Is(findErr, storage.ErrRecordNotFound) {
			context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownWidget})
			return
		}
		handlers.logger.Error("load_widget", zap.Error(findErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
		return
	}

	if deleteErr := handlers.repository.DeleteWidget(widgetID); deleteErr != nil {
		handlers.logger.Error("delete_widget", zap.Error(deleteErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueDeleteFailed})
		return
	}
	context.Status(http.StatusNoContent)
}

// RenderWidgetForm returns the HTML form for a widget kind. Without a widget
// query parameter the create form renders with schema defaults; with one, the
// form is pre-filled from the stored widget.
func (handlers *WidgetHandlers) RenderWidgetForm(context *gin.Context) {
	kindKey := context.Param(paramNameWidgetType)

	entry, lookupErr := handlers.registry.Lookup(kindKey)
	if lookupErr != nil || entry.Form == nil {
		context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownWidgetType})
		return
	}

	var viewModel widget.ViewModel
	if widgetID := context.Query(paramNameWidgetID); widgetID != "" {
		record, findErr := handlers.repository.FindWidgetByID(widgetID)
		if findErr != nil {
			if errors.Is(findErr, storage.ErrRecordNotFound) {
				context.JSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownWidget})
				return
			}
			handlers.logger.Error("load_widget", zap.Error(findErr))
			context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueQueryFailed})
			return
		}
		decoded, decodeErr := entry.Descriptor.FromDB(record)
		if decodeErr != nil {
			handlers.logger.Error("decode_widget", zap.Error(decodeErr))
			context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueTransformFailed})
			return
		}
		viewModel = decoded
	}

	formHTML, renderErr := entry.Form(viewModel)
	if renderErr != nil {
		handlers.logger.Error("render_widget_form", zap.Error(renderErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueFormRenderFailed})
		return
	}
	context.Data(http.StatusOK, htmlContentType, []byte(formHTML))
}

// formDescriptor reads the submitted widget type and resolves its descriptor,
// returning the parsed submission alongside it.
func (handlers *WidgetHandlers) formDescriptor(context *gin.Context) (widget.FormSubmission, widget.Descriptor, bool) {
	if parseErr := context.Request.ParseMultipartForm(maxSchematicImageBytes); parseErr != nil {
		if parseFormErr := context.Request.ParseForm(); parseFormErr != nil {
			context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueInvalidJSON})
			return nil, nil, false
		}
	}
	submission := widget.FormSubmission(context.Request.PostForm)

	kindKey, kindPresent := submission.TrimmedValue(formFieldWidgetType)
	if !kindPresent {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueUnknownWidgetType})
		return nil, nil, false
	}
	descriptor, descriptorErr := handlers.registry.Descriptor(kindKey)
	if descriptorErr != nil {
		context.JSON(http.StatusBadRequest, gin.H{jsonKeyError: errorValueUnknownWidgetType})
		return nil, nil, false
	}
	return submission, descriptor, true
}
