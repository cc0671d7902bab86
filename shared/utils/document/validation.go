package document

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"inventra-backend/shared/config"
)

// ParseMaxFileSize converts a human-readable size like "50MB" into bytes.
func ParseMaxFileSize(value string) int64 {
	value = strings.ToUpper(strings.TrimSpace(value))

	multiplier := int64(1)
	switch {
	case strings.HasSuffix(value, "GB"):
		multiplier = 1024 * 1024 * 1024
		value = strings.TrimSuffix(value, "GB")
	case strings.HasSuffix(value, "MB"):
		multiplier = 1024 * 1024
		value = strings.TrimSuffix(value, "MB")
	case strings.HasSuffix(value, "KB"):
		multiplier = 1024
		value = strings.TrimSuffix(value, "KB")
	}

	number, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || number <= 0 {
		// 50MB fallback
		return 50 * 1024 * 1024
	}
	return number * multiplier
}

// ValidateUploadedFile checks the file against the configured size limit and
// extension allowlist.
func ValidateUploadedFile(header *multipart.FileHeader) error {
	cfg := config.GetConfig()

	maxSize := ParseMaxFileSize(cfg.ItemDocumentMaxFileSize)
	if header.Size > maxSize {
		return fmt.Errorf("file exceeds the maximum allowed size of %s", cfg.ItemDocumentMaxFileSize)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		return fmt.Errorf("file has no extension")
	}

	for _, allowed := range strings.Split(cfg.ItemDocumentAllowedTypes, ",") {
		if ext == strings.ToLower(strings.TrimSpace(allowed)) {
			return nil
		}
	}
	return fmt.Errorf("file type %s is not allowed", ext)
}
