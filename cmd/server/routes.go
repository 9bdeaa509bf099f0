package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BoraResearchLab/dashboard_svc/internal/data"
	"github.com/BoraResearchLab/dashboard_svc/internal/httpapi"
	"github.com/BoraResearchLab/dashboard_svc/internal/storage"
	"github.com/BoraResearchLab/dashboard_svc/internal/transform"
	"github.com/BoraResearchLab/dashboard_svc/internal/widget"
)

const (
	routeRoot             = "/"
	routeDashboardList    = "/dashboards"
	routeDashboardCanvas  = "/dashboard/:dashboardId"
	apiRouteDashboards    = "/api/dashboards"
	apiRouteDashboard     = "/api/dashboards/:dashboardId"
	apiRouteWidgetsByDash = "/api/dashboards/:dashboardId/widgets"
	apiRouteWidget        = "/api/widgets/:widgetId"
	apiRouteWidgetMoves   = "/api/widgets/positions"
	apiRouteWidgetForm    = "/api/widgets/forms/:widgetType"
	apiRouteIcons         = "/api/icons"
	staticRouteUploads    = "/uploads"
	staticRouteIcons      = "/icons"

	corsOriginWildcard      = "*"
	corsHeaderContentType   = "Content-Type"
	httpMethodGet           = "GET"
	httpMethodOptions       = "OPTIONS"
	httpMethodPost          = "POST"
	httpMethodPut           = "PUT"
	httpMethodDelete        = "DELETE"
	corsPreflightMaxAgeHour = 12
)

var (
	corsAllowedMethods = []string{httpMethodGet, httpMethodPost, httpMethodPut, httpMethodDelete, httpMethodOptions}
	corsAllowedHeaders = []string{corsHeaderContentType}
	corsExposedHeaders = []string{corsHeaderContentType}
	corsAllowOrigins   = []string{corsOriginWildcard}
)

type routerDependencies struct {
	logger     *zap.Logger
	repository *storage.Repository
	registry   *widget.Registry
	pipeline   *transform.Pipeline
	resolver   data.Resolver
	uploads    *httpapi.UploadStore
	iconsDir   string
}

func buildRouter(dependencies routerDependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(httpapi.RequestLogger(dependencies.logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     corsAllowOrigins,
		AllowMethods:     corsAllowedMethods,
		AllowHeaders:     corsAllowedHeaders,
		ExposeHeaders:    corsExposedHeaders,
		AllowCredentials: false,
		MaxAge:           corsPreflightMaxAgeHour * time.Hour,
	}))

	dashboardHandlers := httpapi.NewDashboardHandlers(dependencies.repository, dependencies.uploads, dependencies.logger)
	widgetHandlers := httpapi.NewWidgetHandlers(dependencies.repository, dependencies.registry, dependencies.pipeline, dependencies.resolver, dependencies.logger)
	iconHandlers := httpapi.NewIconHandlers(dependencies.iconsDir, dependencies.logger)
	pageHandlers := httpapi.NewPageHandlers(dependencies.repository, dependencies.registry, dependencies.pipeline, dependencies.resolver, dependencies.logger)

	router.GET(routeRoot, pageHandlers.RedirectToDashboards)
	router.GET(routeDashboardList, pageHandlers.RenderDashboardList)
	router.GET(routeDashboardCanvas, pageHandlers.RenderDashboardCanvas)

	router.GET(apiRouteDashboards, dashboardHandlers.ListDashboards)
	router.POST(apiRouteDashboards, dashboardHandlers.CreateDashboard)
	router.PUT(apiRouteDashboard, dashboardHandlers.RenameDashboard)
	router.DELETE(apiRouteDashboard, dashboardHandlers.DeleteDashboard)

	router.GET(apiRouteWidgetsByDash, widgetHandlers.ListWidgets)
	router.POST(apiRouteWidgetsByDash, widgetHandlers.CreateWidget)
	router.PUT(apiRouteWidgetMoves, widgetHandlers.UpdateWidgetPositions)
	router.PUT(apiRouteWidget, widgetHandlers.UpdateWidget)
	router.DELETE(apiRouteWidget, widgetHandlers.DeleteWidget)
	router.GET(apiRouteWidgetForm, widgetHandlers.RenderWidgetForm)

	router.GET(apiRouteIcons, iconHandlers.ListIcons)

	router.Static(staticRouteUploads, dependencies.uploads.Directory())
	router.Static(staticRouteIcons, dependencies.iconsDir)

	return router
}
