package httpapi

import _ "embed"

//go:embed templates/dashboards.tmpl
var dashboardListTemplateHTML string

//go:embed templates/dashboard.tmpl
var dashboardCanvasTemplateHTML string
