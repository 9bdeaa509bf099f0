package httpapi

import (
	"bytes"
	"errors"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BoraResearchLab/dashboard_svc/internal/data"
	"github.com/BoraResearchLab/dashboard_svc/internal/storage"
	"github.com/BoraResearchLab/dashboard_svc/internal/transform"
	"github.com/BoraResearchLab/dashboard_svc/internal/widget"
)

const (
	htmlContentType = "text/html; charset=utf-8"

	dashboardListTemplateName   = "dashboards"
	dashboardCanvasTemplateName = "dashboard"

	dashboardListPath = "/dashboards"
)

type dashboardListEntry struct {
	ID        string
	Name      string
	CreatedAt string
}

type dashboardListTemplateData struct {
	Dashboards []dashboardListEntry
}

type canvasWidget struct {
	ID   string
	Left float64
	Top  float64
	HTML template.HTML
}

type dashboardCanvasTemplateData struct {
	ID                 string
	Name               string
	SchematicImagePath string
	Widgets            []canvasWidget
}

// PageHandlers renders the server side dashboard pages: the dashboard list
// and the per-dashboard canvas with every widget resolved and rendered.
type PageHandlers struct {
	repository     *storage.Repository
	registry       *widget.Registry
	pipeline       *transform.Pipeline
	resolver       data.Resolver
	logger         *zap.Logger
	listTemplate   *template.Template
	canvasTemplate *template.Template
}

// NewPageHandlers compiles the page templates and wires the page handlers.
func NewPageHandlers(repository *storage.Repository, registry *widget.Registry, pipeline *transform.Pipeline, resolver data.Resolver, logger *zap.Logger) *PageHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PageHandlers{
		repository:     repository,
		registry:       registry,
		pipeline:       pipeline,
		resolver:       resolver,
		logger:         logger,
		listTemplate:   template.Must(template.New(dashboardListTemplateName).Parse(dashboardListTemplateHTML)),
		canvasTemplate: template.Must(template.New(dashboardCanvasTemplateName).Parse(dashboardCanvasTemplateHTML)),
	}
}

// RedirectToDashboards sends the root path to the dashboard list.
func (handlers *PageHandlers) RedirectToDashboards(context *gin.Context) {
	context.Redirect(http.StatusFound, dashboardListPath)
}

// RenderDashboardList writes the dashboard overview page.
func (handlers *PageHandlers) RenderDashboardList(context *gin.Context) {
	records, listErr := handlers.repository.ListDashboards()
	if listErr != nil {
		handlers.logger.Error("list_dashboards_page", zap.Error(listErr))
		context.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValuePageRenderFailed})
		return
	}

	templateData := dashboardListTemplateData{Dashboards: make([]dashboardListEntry, 0, len(records))}
	for _, record := range records {
		templateData.Dashboards = append(templateData.Dashboards, dashboardListEntry{
			ID:        record.ID,
			Name:      record.Name,
			CreatedAt: record.CreatedAt.Format("2006-01-02"),
		})
	}

	handlers.renderPage(context, handlers.listTemplate, templateData, "render_dashboard_list")
}

// RenderDashboardCanvas writes a dashboard's canvas page with every widget
// transformed and rendered in place over the schematic image.
func (handlers *PageHandlers) RenderDashboardCanvas(context *gin.Context) {
	dashboardID := context.Param(paramNameDashboardID)

	dashboard, findErr := handlers.repository.FindDashboardByID(dashboardID)
	if findErr != nil {
		if errors.Is(findErr, storage.ErrRecordNotFound) {
			context.AbortWithStatusJSON(http.StatusNotFound, gin.H{jsonKeyError: errorValueUnknownDashboard})
			return
		}
		handlers.logger.Error("load_dashboard_page", zap.Error(findErr))
		context.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValuePageRenderFailed})
		return
	}

	records, widgetsErr := handlers.repository.FindWidgetsByDashboard(dashboardID)
	if widgetsErr != nil {
		handlers.logger.Error("load_dashboard_widgets", zap.Error(widgetsErr))
		context.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValuePageRenderFailed})
		return
	}

	resolvedData, resolveErr := handlers.resolver.ResolveValues(context.Request.Context(), records)
	if resolveErr != nil {
		handlers.logger.Error("resolve_dashboard_data", zap.Error(resolveErr))
		context.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValuePageRenderFailed})
		return
	}

	viewModels, transformErr := handlers.pipeline.Transform(records, resolvedData)
	if transformErr != nil {
		handlers.logger.Error("transform_dashboard_widgets", zap.Error(transformErr))
		context.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueTransformFailed})
		return
	}

	canvasWidgets := make([]canvasWidget, 0, len(viewModels))
	for _, viewModel := range viewModels {
		base := viewModel.Base()
		entry, lookupErr := handlers.registry.Lookup(base.Type)
		if lookupErr != nil || entry.Component == nil {
			handlers.logger.Error("lookup_widget_component", zap.String("type", base.Type), zap.Error(lookupErr))
			context.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueTransformFailed})
			return
		}
		widgetHTML, renderErr := entry.Component(viewModel)
		if renderErr != nil {
			handlers.logger.Error("render_widget_component", zap.String("widget_id", base.ID), zap.Error(renderErr))
			context.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValuePageRenderFailed})
			return
		}
		canvasWidgets = append(canvasWidgets, canvasWidget{
			ID:   base.ID,
			Left: base.Position.X * 100,
			Top:  base.Position.Y * 100,
			HTML: widgetHTML,
		})
	}

	templateData := dashboardCanvasTemplateData{
		ID:                 dashboard.ID,
		Name:               dashboard.Name,
		SchematicImagePath: dashboard.SchematicImagePath,
		Widgets:            canvasWidgets,
	}
	handlers.renderPage(context, handlers.canvasTemplate, templateData, "render_dashboard_canvas")
}

func (handlers *PageHandlers) renderPage(context *gin.Context, pageTemplate *template.Template, templateData any, logEvent string) {
	var buffer bytes.Buffer
	if executeErr := pageTemplate.Execute(&buffer, templateData); executeErr != nil {
		handlers.logger.Error(logEvent, zap.Error(executeErr))
		context.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValuePageRenderFailed})
		return
	}
	context.Data(http.StatusOK, htmlContentType, buffer.Bytes())
}
