// Package filestorage stores uploaded files on the local filesystem. The
// placement portal only persists result PDFs, kept under a pdf_imports
// subdirectory so a stored source_file path can always be traced back to the
// import that produced it.
package filestorage

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campuskit/placement/internal/pkg/logger"
)

// PDFImportDir is the subdirectory result PDFs are stored under.
const PDFImportDir = "pdf_imports"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // root directory where files are stored
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
func NewLocalStorage(basePath string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{basePath: basePath}, nil
}

// SaveImportPDF stores an uploaded result PDF and returns the stored path
// relative to the storage root. The stored name carries an import timestamp
// plus a random suffix so repeated uploads of the same file never collide.
func (ls *LocalStorage) SaveImportPDF(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader == nil {
		return "", fmt.Errorf("no file uploaded")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	dirPath := filepath.Join(ls.basePath, PDFImportDir)
	if err := os.MkdirAll(dirPath, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create import directory: %w", err)
	}

	storedName := fmt.Sprintf("%s_%s_%s",
		time.Now().UTC().Format("20060102150405"),
		uuid.New().String()[:8],
		SanitizeFilename(fileHeader.Filename),
	)
	dstPath := filepath.Join(dirPath, storedName)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, file); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("failed to save file content: %w", err)
	}

	relPath := filepath.Join(PDFImportDir, storedName)
	logger.Info().
		Str("filename", fileHeader.Filename).
		Str("saved_as", relPath).
		Msg("Import PDF saved")
	return relPath, nil
}

// FullPath resolves a stored relative path back to a filesystem path.
func (ls *LocalStorage) FullPath(relPath string) string {
	return filepath.Join(ls.basePath, relPath)
}

// SanitizeFilename strips path components and unsafe characters from an
// uploaded filename.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	if name == "" || name == "." || name == ".." {
		name = "upload.pdf"
	}
	return name
}
