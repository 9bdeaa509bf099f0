package storage_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/BoraResearchLab/dashboard_svc/internal/model"
	"github.com/BoraResearchLab/dashboard_svc/internal/storage"
	"github.com/BoraResearchLab/dashboard_svc/internal/testutil"
)

const (
	testDashboardNameValue   = "Plant Overview"
	testSchematicImageValue  = "/uploads/plant.png"
	testWidgetTypeValue      = "Text"
	testRenamedDashboardName = "Renamed Overview"
)

func newTestRepository(t *testing.T) *storage.Repository {
	t.Helper()
	database := testutil.NewSQLiteTestDatabase(t).OpenMigratedDatabase(t)
	repository, repositoryErr := storage.NewRepository(database)
	require.NoError(t, repositoryErr)
	return repository
}

func createTestDashboard(t *testing.T, repository *storage.Repository, name string) model.Dashboard {
	t.Helper()
	record, buildErr := model.NewDashboard(model.DashboardInput{
		ID:                 storage.NewID(),
		Name:               name,
		SchematicImagePath: testSchematicImageValue,
	})
	require.NoError(t, buildErr)
	created, createErr := repository.CreateDashboard(record)
	require.NoError(t, createErr)
	return created
}

func createTestWidget(t *testing.T, repository *storage.Repository, dashboardID string) model.Widget {
	t.Helper()
	record, buildErr := model.NewWidget(model.WidgetInput{
		ID:          storage.NewID(),
		DashboardID: dashboardID,
		Type:        testWidgetTypeValue,
		PositionX:   0.5,
		PositionY:   0.5,
		Properties:  []byte(`{"textContent": "hello"}`),
	})
	require.NoError(t, buildErr)
	created, createErr := repository.CreateWidget(record)
	require.NoError(t, createErr)
	return created
}

func TestNewRepositoryRejectsNilDatabase(t *testing.T) {
	_, repositoryErr := storage.NewRepository(nil)
	require.Error(t, repositoryErr)
}

func TestDashboardLifecycle(t *testing.T) {
	repository := newTestRepository(t)

	created := createTestDashboard(t, repository, testDashboardNameValue)

	loaded, findErr := repository.FindDashboardByID(created.ID)
	require.NoError(t, findErr)
	require.Equal(t, testDashboardNameValue, loaded.Name)

	byName, byNameErr := repository.FindDashboardByName(testDashboardNameValue)
	require.NoError(t, byNameErr)
	require.Equal(t, created.ID, byName.ID)

	listed, listErr := repository.ListDashboards()
	require.NoError(t, listErr)
	require.Len(t, listed, 1)

	require.NoError(t, repository.RenameDashboard(created.ID, testRenamedDashboardName))
	renamed, renamedErr := repository.FindDashboardByID(created.ID)
	require.NoError(t, renamedErr)
	require.Equal(t, testRenamedDashboardName, renamed.Name)
}

func TestFindDashboardByIDReportsNotFound(t *testing.T) {
	repository := newTestRepository(t)

	_, findErr := repository.FindDashboardByID("missing-dashboard")
	require.ErrorIs(t, findErr, storage.ErrRecordNotFound)
}

func TestCreateDashboardRejectsDuplicateName(t *testing.T) {
	repository := newTestRepository(t)
	createTestDashboard(t, repository, testDashboardNameValue)

	duplicate, buildErr := model.NewDashboard(model.DashboardInput{
		ID:                 storage.NewID(),
		Name:               testDashboardNameValue,
		SchematicImagePath: testSchematicImageValue,
	})
	require.NoError(t, buildErr)
	_, createErr := repository.CreateDashboard(duplicate)
	require.Error(t, createErr)
}

func TestDeleteDashboardCascadesToWidgets(t *testing.T) {
	repository := newTestRepository(t)
	dashboard := createTestDashboard(t, repository, testDashboardNameValue)
	widgetRecord := createTestWidget(t, repository, dashboard.ID)

	require.NoError(t, repository.DeleteDashboard(dashboard.ID))

	_, dashboardErr := repository.FindDashboardByID(dashboard.ID)
	require.ErrorIs(t, dashboardErr, storage.ErrRecordNotFound)

	_, widgetErr := repository.FindWidgetByID(widgetRecord.ID)
	require.ErrorIs(t, widgetErr, storage.ErrRecordNotFound)
}

func TestFindWidgetsByDashboardReturnsOnlyOwnedWidgets(t *testing.T) {
	repository := newTestRepository(t)
	firstDashboard := createTestDashboard(t, repository, testDashboardNameValue)
	secondDashboard := createTestDashboard(t, repository, "Second Overview")

	firstWidget := createTestWidget(t, repository, firstDashboard.ID)
	createTestWidget(t, repository, secondDashboard.ID)

	widgets, listErr := repository.FindWidgetsByDashboard(firstDashboard.ID)
	require.NoError(t, listErr)
	require.Len(t, widgets, 1)
	require.Equal(t, firstWidget.ID, widgets[0].ID)
}

func TestUpdateWidgetPropertiesReplacesBlobAndDimensions(t *testing.T) {
	repository := newTestRepository(t)
	dashboard := createTestDashboard(t, repository, testDashboardNameValue)
	widgetRecord := createTestWidget(t, repository, dashboard.ID)

	newWidth := 200
	newHeight := 90
	updateErr := repository.UpdateWidgetProperties(
		widgetRecord.ID,
		[]byte(`{"textContent": "updated"}`),
		&newWidth,
		&newHeight,
	)
	require.NoError(t, updateErr)

	updated, findErr := repository.FindWidgetByID(widgetRecord.ID)
	require.NoError(t, findErr)
	require.JSONEq(t, `{"textContent": "updated"}`, string(updated.Properties))
	require.NotNil(t, updated.Width)
	require.Equal(t, 200, *updated.Width)
	require.NotNil(t, updated.Height)
	require.Equal(t, 90, *updated.Height)
}

func TestUpdateWidgetPositionRejectsOutOfRangeCoordinates(t *testing.T) {
	repository := newTestRepository(t)
	dashboard := createTestDashboard(t, repository, testDashboardNameValue)
	widgetRecord := createTestWidget(t, repository, dashboard.ID)

	require.ErrorIs(t,
		repository.UpdateWidgetPosition(widgetRecord.ID, 1.5, 0.5),
		model.ErrInvalidWidgetPosition,
	)

	require.NoError(t, repository.UpdateWidgetPosition(widgetRecord.ID, 0.25, 0.75))
	updated, findErr := repository.FindWidgetByID(widgetRecord.ID)
	require.NoError(t, findErr)
	require.Equal(t, 0.25, updated.PositionX)
	require.Equal(t, 0.75, updated.PositionY)
}

func TestDeleteWidgetRemovesOnlyThatWidget(t *testing.T) {
	repository := newTestRepository(t)
	dashboard := createTestDashboard(t, repository, testDashboardNameValue)
	firstWidget := createTestWidget(t, repository, dashboard.ID)
	secondWidget := createTestWidget(t, repository, dashboard.ID)

	require.NoError(t, repository.DeleteWidget(firstWidget.ID))

	_, deletedErr := repository.FindWidgetByID(firstWidget.ID)
	require.ErrorIs(t, deletedErr, storage.ErrRecordNotFound)

	remaining, findErr := repository.FindWidgetByID(secondWidget.ID)
	require.NoError(t, findErr)
	require.Equal(t, datatypes.JSON(firstWidget.Properties), remaining.Properties)
}
