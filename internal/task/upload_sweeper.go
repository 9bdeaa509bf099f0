package task

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/BoraResearchLab/dashboard_svc/internal/storage"
)

const (
	// DefaultSweepInterval is how often the sweeper scans the uploads directory.
	DefaultSweepInterval = time.Hour

	// minimumOrphanAge keeps the sweeper from racing an in-flight dashboard
	// create, where the schematic file exists before its database row does.
	minimumOrphanAge = time.Hour

	logEventSweepScanFailed   = "upload_sweep_scan_failed"
	logEventSweepListFailed   = "upload_sweep_list_failed"
	logEventSweepRemoveFailed = "upload_sweep_remove_failed"
	logEventOrphanRemoved     = "upload_orphan_removed"
	logFieldFileName          = "file"
)

// UploadSweeper deletes schematic files no longer referenced by any dashboard.
// Dashboards normally delete their schematic on removal; the sweeper reclaims
// the leftovers when that best effort cleanup failed.
type UploadSweeper struct {
	repository       *storage.Repository
	uploadsDirectory string
	logger           *zap.Logger
	now              func() time.Time
}

// NewUploadSweeper creates a sweeper over the given uploads directory.
func NewUploadSweeper(repository *storage.Repository, uploadsDirectory string, logger *zap.Logger) *UploadSweeper {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadSweeper{
		repository:       repository,
		uploadsDirectory: uploadsDirectory,
		logger:           logger,
		now:              time.Now,
	}
}

// Sweep removes every sufficiently old file in the uploads directory that no
// dashboard references. It is safe to run concurrently with request handling.
func (sweeper *UploadSweeper) Sweep(ctx context.Context) {
	dashboards, listErr := sweeper.repository.ListDashboards()
	if listErr != nil {
		sweeper.logger.Warn(logEventSweepListFailed, zap.Error(listErr))
		return
	}
	referenced := make(map[string]struct{}, len(dashboards))
	for _, dashboard := range dashboards {
		fileName := filepath.Base(dashboard.SchematicImagePath)
		if fileName != "" && fileName != "." && fileName != "/" {
			referenced[fileName] = struct{}{}
		}
	}

	entries, readErr := os.ReadDir(sweeper.uploadsDirectory)
	if readErr != nil {
		if !os.IsNotExist(readErr) {
			sweeper.logger.Warn(logEventSweepScanFailed, zap.Error(readErr))
		}
		return
	}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if entry.IsDir() {
			continue
		}
		if _, isReferenced := referenced[entry.Name()]; isReferenced {
			continue
		}
		fileInfo, infoErr := entry.Info()
		if infoErr != nil {
			continue
		}
		if sweeper.now().Sub(fileInfo.ModTime()) < minimumOrphanAge {
			continue
		}
		filePath := filepath.Join(sweeper.uploadsDirectory, entry.Name())
		if removeErr := os.Remove(filePath); removeErr != nil {
			sweeper.logger.Warn(logEventSweepRemoveFailed, zap.String(logFieldFileName, entry.Name()), zap.Error(removeErr))
			continue
		}
		sweeper.logger.Info(logEventOrphanRemoved, zap.String(logFieldFileName, entry.Name()))
	}
}
