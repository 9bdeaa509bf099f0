package task_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/BoraResearchLab/dashboard_svc/internal/model"
	"github.com/BoraResearchLab/dashboard_svc/internal/storage"
	"github.com/BoraResearchLab/dashboard_svc/internal/task"
	"github.com/BoraResearchLab/dashboard_svc/internal/testutil"
)

const referencedSchematicFileName = "referenced.png"

func newSweeperFixture(t *testing.T) (*storage.Repository, string) {
	t.Helper()
	database := testutil.NewSQLiteTestDatabase(t).OpenMigratedDatabase(t)
	repository, repositoryErr := storage.NewRepository(database)
	require.NoError(t, repositoryErr)
	return repository, t.TempDir()
}

func writeUploadFile(t *testing.T, uploadsDirectory string, fileName string, age time.Duration) string {
	t.Helper()
	filePath := filepath.Join(uploadsDirectory, fileName)
	require.NoError(t, os.WriteFile(filePath, []byte("image-bytes"), 0o644))
	modTime := time.Now().Add(-age)
	require.NoError(t, os.Chtimes(filePath, modTime, modTime))
	return filePath
}

func createDashboardReferencing(t *testing.T, repository *storage.Repository, fileName string) {
	t.Helper()
	record, buildErr := model.NewDashboard(model.DashboardInput{
		ID:                 storage.NewID(),
		Name:               "Sweeper Fixture",
		SchematicImagePath: "/uploads/" + fileName,
	})
	require.NoError(t, buildErr)
	_, createErr := repository.CreateDashboard(record)
	require.NoError(t, createErr)
}

func TestSweepRemovesOldUnreferencedFiles(t *testing.T) {
	repository, uploadsDirectory := newSweeperFixture(t)
	createDashboardReferencing(t, repository, referencedSchematicFileName)

	referencedPath := writeUploadFile(t, uploadsDirectory, referencedSchematicFileName, 48*time.Hour)
	orphanPath := writeUploadFile(t, uploadsDirectory, "orphan.png", 48*time.Hour)

	task.NewUploadSweeper(repository, uploadsDirectory, nil).Sweep(context.Background())

	require.FileExists(t, referencedPath)
	require.NoFileExists(t, orphanPath)
}

func TestSweepKeepsRecentlyWrittenFiles(t *testing.T) {
	repository, uploadsDirectory := newSweeperFixture(t)

	freshPath := writeUploadFile(t, uploadsDirectory, "fresh.png", time.Minute)

	task.NewUploadSweeper(repository, uploadsDirectory, nil).Sweep(context.Background())

	require.FileExists(t, freshPath)
}

func TestSweepToleratesMissingUploadsDirectory(t *testing.T) {
	repository, uploadsDirectory := newSweeperFixture(t)

	sweeper := task.NewUploadSweeper(repository, filepath.Join(uploadsDirectory, "does-not-exist"), nil)
	require.NotPanics(t, func() {
		sweeper.Sweep(context.Background())
	})
}

func TestSweepStopsOnCancelledContext(t *testing.T) {
	repository, uploadsDirectory := newSweeperFixture(t)
	orphanPath := writeUploadFile(t, uploadsDirectory, "orphan.png", 48*time.Hour)

	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()

	task.NewUploadSweeper(repository, uploadsDirectory, nil).Sweep(cancelledContext)

	require.FileExists(t, orphanPath)
}
