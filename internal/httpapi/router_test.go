package httpapi_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/BoraResearchLab/dashboard_svc/internal/data"
	"github.com/BoraResearchLab/dashboard_svc/internal/httpapi"
	"github.com/BoraResearchLab/dashboard_svc/internal/model"
	"github.com/BoraResearchLab/dashboard_svc/internal/storage"
	"github.com/BoraResearchLab/dashboard_svc/internal/testutil"
	"github.com/BoraResearchLab/dashboard_svc/internal/transform"
	widgetregistry "github.com/BoraResearchLab/dashboard_svc/internal/widget/registry"
)

const (
	formFieldDashboardName      = "new-dashboard-name"
	formFieldDashboardSchematic = "new-dashboard-schematic"

	urlEncodedContentType = "application/x-www-form-urlencoded"
	jsonContentType       = "application/json"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type apiFixture struct {
	repository     *storage.Repository
	uploads        *httpapi.UploadStore
	iconsDirectory string
	router         *gin.Engine
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	database := testutil.NewSQLiteTestDatabase(t).OpenMigratedDatabase(t)
	repository, repositoryErr := storage.NewRepository(database)
	require.NoError(t, repositoryErr)

	uploads, uploadsErr := httpapi.NewUploadStore(t.TempDir())
	require.NoError(t, uploadsErr)

	registry, registryErr := widgetregistry.New()
	require.NoError(t, registryErr)
	pipeline := transform.NewPipeline(registry, nil)
	resolver := data.NewStubResolver()
	iconsDirectory := t.TempDir()

	dashboards := httpapi.NewDashboardHandlers(repository, uploads, nil)
	widgets := httpapi.NewWidgetHandlers(repository, registry, pipeline, resolver, nil)
	icons := httpapi.NewIconHandlers(iconsDirectory, nil)
	pages := httpapi.NewPageHandlers(repository, registry, pipeline, resolver, nil)

	router := gin.New()
	router.GET("/", pages.RedirectToDashboards)
	router.GET("/dashboards", pages.RenderDashboardList)
	router.GET("/dashboard/:dashboardId", pages.RenderDashboardCanvas)
	router.GET("/api/dashboards", dashboards.ListDashboards)
	router.POST("/api/dashboards", dashboards.CreateDashboard)
	router.PUT("/api/dashboards/:dashboardId", dashboards.RenameDashboard)
	router.DELETE("/api/dashboards/:dashboardId", dashboards.DeleteDashboard)
	router.GET("/api/dashboards/:dashboardId/widgets", widgets.ListWidgets)
	router.POST("/api/dashboards/:dashboardId/widgets", widgets.CreateWidget)
	router.PUT("/api/widgets/positions", widgets.UpdateWidgetPositions)
	router.PUT("/api/widgets/:widgetId", widgets.UpdateWidget)
	router.DELETE("/api/widgets/:widgetId", widgets.DeleteWidget)
	router.GET("/api/widgets/forms/:widgetType", widgets.RenderWidgetForm)
	router.GET("/api/icons", icons.ListIcons)

	return &apiFixture{
		repository:     repository,
		uploads:        uploads,
		iconsDirectory: iconsDirectory,
		router:         router,
	}
}

func (fixture *apiFixture) perform(t *testing.T, method string, target string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	request := httptest.NewRequest(method, target, body)
	if contentType != "" {
		request.Header.Set("Content-Type", contentType)
	}
	recorder := httptest.NewRecorder()
	fixture.router.ServeHTTP(recorder, request)
	return recorder
}

func (fixture *apiFixture) performForm(t *testing.T, method string, target string, form string) *httptest.ResponseRecorder {
	t.Helper()
	return fixture.perform(t, method, target, bytes.NewBufferString(form), urlEncodedContentType)
}

func (fixture *apiFixture) performJSON(t *testing.T, method string, target string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	encoded, marshalErr := json.Marshal(payload)
	require.NoError(t, marshalErr)
	return fixture.perform(t, method, target, bytes.NewBuffer(encoded), jsonContentType)
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &decoded))
	return decoded
}

func buildDashboardForm(t *testing.T, dashboardName string, fileName string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField(formFieldDashboardName, dashboardName))
	if fileName != "" {
		part, partErr := writer.CreateFormFile(formFieldDashboardSchematic, fileName)
		require.NoError(t, partErr)
		_, writeErr := part.Write([]byte("image-bytes"))
		require.NoError(t, writeErr)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func seedDashboard(t *testing.T, fixture *apiFixture, dashboardName string) model.Dashboard {
	t.Helper()
	record, buildErr := model.NewDashboard(model.DashboardInput{
		ID:                 storage.NewID(),
		Name:               dashboardName,
		SchematicImagePath: "/uploads/" + strings.ReplaceAll(strings.ToLower(dashboardName), " ", "-") + ".png",
	})
	require.NoError(t, buildErr)
	created, createErr := fixture.repository.CreateDashboard(record)
	require.NoError(t, createErr)
	return created
}

func seedTextWidget(t *testing.T, fixture *apiFixture, dashboardID string, textContent string) model.Widget {
	t.Helper()
	record, buildErr := model.NewWidget(model.WidgetInput{
		ID:          storage.NewID(),
		DashboardID: dashboardID,
		Type:        "Text",
		PositionX:   0.5,
		PositionY:   0.5,
		Properties:  datatypes.JSON(`{"textContent": "` + textContent + `"}`),
	})
	require.NoError(t, buildErr)
	created, createErr := fixture.repository.CreateWidget(record)
	require.NoError(t, createErr)
	return created
}

func widgetCountForDashboard(t *testing.T, fixture *apiFixture, dashboardID string) int {
	t.Helper()
	records, listErr := fixture.repository.FindWidgetsByDashboard(dashboardID)
	require.NoError(t, listErr)
	return len(records)
}
