package utils

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
)

// AllowedImageContentTypes is the set of allowed content types for notice images.
var AllowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// AllowedScheduleExtensions are the spreadsheet formats the schedule upload accepts.
var AllowedScheduleExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

const (
	MaxUploadSize         = 5 << 20 // 5MB
	MaxScheduleUploadSize = 2 << 20 // 2MB
	MaxNoticeImages       = 5
)

// ValidateFileUpload checks that an uploaded notice image has an image content type
// and does not exceed MaxUploadSize.
func ValidateFileUpload(fh *multipart.FileHeader) error {
	if fh.Size > MaxUploadSize {
		return fmt.Errorf("file size %d bytes exceeds maximum allowed size of 5MB", fh.Size)
	}

	contentType := fh.Header.Get("Content-Type")
	if !AllowedImageContentTypes[contentType] {
		return fmt.Errorf("invalid file type '%s'; allowed types: image/jpeg, image/png, image/webp, image/gif", contentType)
	}

	return nil
}

func ValidateScheduleUpload(fh *multipart.FileHeader) error {
	if fh.Size > MaxScheduleUploadSize {
		return fmt.Errorf("file size %d bytes exceeds maximum allowed size of 2MB", fh.Size)
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !AllowedScheduleExtensions[ext] {
		return fmt.Errorf("invalid file type '%s'; allowed types: .csv, .xlsx, .xls", ext)
	}
	return nil
}

// SanitizeValidationError takes a binding error and returns a user-facing message
// without leaking Go struct names.
func SanitizeValidationError(err error) string {
	if err == nil {
		return ""
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Invalid request body"
	}

	var messages []string
	for _, fe := range validationErrors {
		field := toSnake(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("%s is required", field))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email address", field))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", ")))
		case "eqfield":
			messages = append(messages, fmt.Sprintf("%s does not match %s", field, toSnake(fe.Param())))
		case "datetime":
			messages = append(messages, fmt.Sprintf("%s must match the format %s", field, humanLayout(fe.Param())))
		case "gte":
			messages = append(messages, fmt.Sprintf("%s must be %s or greater", field, fe.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", field))
		}
	}

	if len(messages) == 0 {
		return "Invalid request body"
	}

	return strings.Join(messages, "; ")
}

// toSnake turns a Go field name like PasswordConfirm into password_confirm.
func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func humanLayout(layout string) string {
	switch layout {
	case "2006-01-02":
		return "YYYY-MM-DD"
	case "15:04":
		return "HH:MM"
	case "2006-01":
		return "YYYY-MM"
	}
	return layout
}
