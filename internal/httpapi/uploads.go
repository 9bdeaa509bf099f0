package httpapi

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/BoraResearchLab/dashboard_svc/internal/storage"
)

const (
	maxSchematicImageBytes = 5 << 20

	uploadedFileMode      = 0o644
	uploadsDirectoryMode  = 0o755
	uploadsURLPathPrefix  = "/uploads/"
	errorMessageImageType = "unsupported schematic image type"
	errorMessageImageSize = "schematic image exceeds the size limit"
)

var (
	// ErrUnsupportedImageType reports a schematic upload whose extension is not
	// an accepted raster image format.
	ErrUnsupportedImageType = errors.New(errorMessageImageType)

	// ErrImageTooLarge reports a schematic upload above the size limit.
	ErrImageTooLarge = errors.New(errorMessageImageSize)

	allowedSchematicExtensions = map[string]struct{}{
		".jpeg": {},
		".jpg":  {},
		".png":  {},
		".webp": {},
	}
)

// UploadStore persists dashboard schematic images on local disk under a single
// directory, one file per dashboard, named by a fresh identifier so uploads
// never collide or overwrite each other.
type UploadStore struct {
	directory string
}

// NewUploadStore creates the uploads directory when absent and returns a store
// rooted there.
func NewUploadStore(directory string) (*UploadStore, error) {
	if mkdirErr := os.MkdirAll(directory, uploadsDirectoryMode); mkdirErr != nil {
		return nil, fmt.Errorf("create uploads directory: %w", mkdirErr)
	}
	return &UploadStore{directory: directory}, nil
}

// Directory returns the filesystem root the store writes into.
func (store *UploadStore) Directory() string {
	return store.directory
}

// SaveSchematic validates and writes an uploaded schematic image, returning
// the URL path the saved file is served under.
func (store *UploadStore) SaveSchematic(fileHeader *multipart.FileHeader) (string, error) {
	extension := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, allowed := allowedSchematicExtensions[extension]; !allowed {
		return "", ErrUnsupportedImageType
	}
	if fileHeader.Size > maxSchematicImageBytes {
		return "", ErrImageTooLarge
	}

	source, openErr := fileHeader.Open()
	if openErr != nil {
		return "", fmt.Errorf("open uploaded schematic: %w", openErr)
	}
	defer func() { _ = source.Close() }()

	fileName := storage.NewID() + extension
	destinationPath := filepath.Join(store.directory, fileName)
	destination, createErr := os.OpenFile(destinationPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, uploadedFileMode)
	if createErr != nil {
		return "", fmt.Errorf("create schematic file: %w", createErr)
	}

	if _, copyErr := io.Copy(destination, source); copyErr != nil {
		_ = destination.Close()
		_ = os.Remove(destinationPath)
		return "", fmt.Errorf("write schematic file: %w", copyErr)
	}
	if closeErr := destination.Close(); closeErr != nil {
		_ = os.Remove(destinationPath)
		return "", fmt.Errorf("close schematic file: %w", closeErr)
	}

	return uploadsURLPathPrefix + fileName, nil
}

// Remove deletes the stored file behind a schematic URL path. Paths outside
// the uploads prefix are ignored.
func (store *UploadStore) Remove(imagePath string) error {
	fileName, isUpload := strings.CutPrefix(imagePath, uploadsURLPathPrefix)
	if !isUpload || fileName == "" || strings.Contains(fileName, "/") {
		return nil
	}
	removeErr := os.Remove(filepath.Join(store.directory, fileName))
	if removeErr != nil && !errors.Is(removeErr, os.ErrNotExist) {
		return removeErr
	}
	return nil
}
