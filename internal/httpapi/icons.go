package httpapi

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const jsonKeyIcons = "icons"

var allowedIconExtensions = map[string]struct{}{
	".gif":  {},
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".svg":  {},
	".webp": {},
}

// IconHandlers lists the icon images available to icon widgets. The icons
// directory is operator managed; the handler only reads it.
type IconHandlers struct {
	iconsDirectory string
	logger         *zap.Logger
}

// NewIconHandlers creates handlers serving the icon catalog.
func NewIconHandlers(iconsDirectory string, logger *zap.Logger) *IconHandlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IconHandlers{iconsDirectory: iconsDirectory, logger: logger}
}

// ListIcons returns the file names of every icon image, sorted. A missing
// directory is an empty catalog, not an error.
func (handlers *IconHandlers) ListIcons(context *gin.Context) {
	entries, readErr := os.ReadDir(handlers.iconsDirectory)
	if readErr != nil {
		if os.IsNotExist(readErr) {
			context.JSON(http.StatusOK, gin.H{jsonKeyIcons: []string{}})
			return
		}
		handlers.logger.Error("list_icons", zap.Error(readErr))
		context.JSON(http.StatusInternalServerError, gin.H{jsonKeyError: errorValueIconListingFailed})
		return
	}

	icons := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		extension := strings.ToLower(filepath.Ext(entry.Name()))
		if _, allowed := allowedIconExtensions[extension]; !allowed {
			continue
		}
		icons = append(icons, entry.Name())
	}
	sort.Strings(icons)
	context.JSON(http.StatusOK, gin.H{jsonKeyIcons: icons})
}
