package client

import (
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/ViberthFruno/APIAuthenticator-sub000/internal/domain"
)

// contentTypes covers the attachment formats the API accepts; anything else
// falls back to the platform mime table or octet-stream.
var contentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	".xls":  "application/vnd.ms-excel",
	".xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".json": "application/json",
	".xml":  "application/xml",
	".zip":  "application/zip",
}

func contentTypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ct, ok := contentTypes[ext]; ok {
		return ct
	}
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// LoadFiles reads the given paths into attachments under one form field.
// Unreadable or missing paths are skipped; an error is returned only when no
// valid file remains.
func LoadFiles(paths []string, fieldName string) ([]domain.File, error) {
	var files []domain.File
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		files = append(files, domain.File{
			FieldName:   fieldName,
			FileName:    filepath.Base(path),
			ContentType: contentTypeFor(path),
			Content:     content,
		})
	}
	if len(files) == 0 {
		return nil, domain.NewValidationError("no valid files to upload")
	}
	return files, nil
}

// CollectDirectory loads every matching file from a directory, up to
// maxFiles (0 means no limit). A nil extensions list defaults to the common
// image and PDF formats.
func CollectDirectory(dir string, extensions []string, fieldName string, maxFiles int) ([]domain.File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, domain.NewValidationError("directory not found: %s", dir)
	}

	if extensions == nil {
		extensions = []string{".png", ".jpg", ".jpeg", ".pdf", ".gif"}
	}
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = struct{}{}
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := allowed[ext]; !ok {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
		if maxFiles > 0 && len(paths) >= maxFiles {
			break
		}
	}

	if len(paths) == 0 {
		return nil, domain.NewValidationError("no valid files found in %s", dir)
	}
	return LoadFiles(paths, fieldName)
}
